package http

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"CacheFacade/internal/cache"
	"CacheFacade/internal/logger"
	"CacheFacade/internal/models"
	"CacheFacade/internal/ratelimit"
	"CacheFacade/internal/store"
	"CacheFacade/internal/telemetry"

	"github.com/alicebob/miniredis/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type testStack struct {
	mr     *miniredis.Miniredis
	server *Server
}

// createTestServer builds the full stack over miniredis: facade, metrics, limiter and router
func createTestServer(t *testing.T, perIPLimit int) *testStack {
	t.Helper()
	return createTestServerWithPrefix(t, "test", perIPLimit)
}

func createTestServerWithPrefix(t *testing.T, keyPrefix string, perIPLimit int) *testStack {
	t.Helper()
	mr := miniredis.RunT(t)

	client, err := store.NewRedisStore("redis://" + mr.Addr())
	require.NoError(t, err)

	log := logger.NewZapLogger(zaptest.NewLogger(t))
	reg := prometheus.NewRegistry()
	m := telemetry.NewMetrics(reg)

	svc := cache.WithMetrics(cache.New(client, log, 0, keyPrefix), m)
	t.Cleanup(func() { _ = svc.Close() })

	limiter := ratelimit.NewWindowLimiter(cache.NewSystem(client, log, "ratelimit"), log, m, 0, perIPLimit)
	handler := NewHandler(svc, log, time.Second)

	srv := NewServer("localhost:0", handler, log, limiter, 10*time.Second, 10*time.Second, WithMetrics(m, reg))
	return &testStack{mr: mr, server: srv}
}

func (s *testStack) do(method, target string, body string) *httptest.ResponseRecorder {
	return s.doFrom("192.168.1.1", method, target, body)
}

func (s *testStack) doFrom(ip, method, target string, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, bytes.NewBufferString(body))
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	req.RemoteAddr = ip + ":12345"

	w := httptest.NewRecorder()
	s.server.server.Handler.ServeHTTP(w, req)
	return w
}

func TestIntegration_EntryLifecycle(t *testing.T) {
	stack := createTestServer(t, 0)

	w := stack.do(http.MethodPost, "/api/cache/user", `{"name":"turgay"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	w = stack.do(http.MethodPost, "/api/cache/user", `{"name":"other"}`)
	require.Equal(t, http.StatusConflict, w.Code)

	w = stack.do(http.MethodPut, "/api/cache/user", `{"name":"turgay2"}`)
	require.Equal(t, http.StatusOK, w.Code)
	var put models.EntryResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &put))
	assert.JSONEq(t, `{"name":"turgay2"}`, string(put.Value))

	w = stack.do(http.MethodGet, "/api/cache/user", "")
	require.Equal(t, http.StatusOK, w.Code)
	var got models.EntryResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.JSONEq(t, `{"name":"turgay2"}`, string(got.Value))

	// Keys are namespaced in the store
	assert.True(t, stack.mr.Exists("test:user"))

	w = stack.do(http.MethodGet, "/api/cache/user/exists", "")
	assert.JSONEq(t, `{"key":"user","exists":true}`, w.Body.String())

	assert.Equal(t, http.StatusOK, stack.do(http.MethodDelete, "/api/cache/user", "").Code)
	assert.Equal(t, http.StatusNotFound, stack.do(http.MethodDelete, "/api/cache/user", "").Code)
	assert.Equal(t, http.StatusOK, stack.do(http.MethodDelete, "/api/cache/user?safe=true", "").Code)
	assert.Equal(t, http.StatusNotFound, stack.do(http.MethodGet, "/api/cache/user", "").Code)
}

func TestIntegration_ValueAndTTL(t *testing.T) {
	stack := createTestServer(t, 0)

	require.Equal(t, http.StatusOK, stack.do(http.MethodPut, "/api/cache/name?ttl=30s", `"turgay"`).Code)
	assert.Equal(t, 30*time.Second, stack.mr.TTL("test:name"))

	w := stack.do(http.MethodGet, "/api/cache/name/value", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"key":"name","value":"turgay"}`, w.Body.String())

	stack.mr.FastForward(31 * time.Second)
	assert.Equal(t, http.StatusNotFound, stack.do(http.MethodGet, "/api/cache/name/value", "").Code)
}

func TestIntegration_IncrementSingleSuccess(t *testing.T) {
	stack := createTestServer(t, 0)

	successes := 0
	for i := 0; i < 10; i++ {
		w := stack.do(http.MethodPost, "/api/counters/job/increment?ttl=10", "")
		require.Equal(t, http.StatusOK, w.Code)

		var response models.IncrementResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		if response.First {
			successes++
		}
	}

	assert.Equal(t, 1, successes)

	w := stack.do(http.MethodGet, "/api/cache/job/value?as=number", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"key":"job","value":10}`, w.Body.String())
}

func TestIntegration_RateLimited(t *testing.T) {
	stack := createTestServer(t, 3)

	// Ten requests span at most two one-second windows of three
	allowed, rejected := 0, 0
	for i := 0; i < 10; i++ {
		switch code := stack.do(http.MethodGet, "/health", "").Code; code {
		case http.StatusOK:
			allowed++
		case http.StatusTooManyRequests:
			rejected++
		default:
			t.Fatalf("unexpected status %d", code)
		}
	}

	assert.LessOrEqual(t, allowed, 6)
	assert.GreaterOrEqual(t, rejected, 4)
	// Window counters live in the shared store
	assert.NotEmpty(t, stack.mr.Keys())
}

func TestIntegration_RateLimitCountersUnreachableFromAPI(t *testing.T) {
	stack := createTestServerWithPrefix(t, "", 3)

	// Other clients try to overwrite this and the next window counter for 192.168.1.1
	now := time.Now().Truncate(time.Second)
	for i, ts := range []int64{now.Unix(), now.Add(time.Second).Unix()} {
		attacker := fmt.Sprintf("10.0.0.%d", i+1)

		reserved := fmt.Sprintf("/api/cache/_sys:ratelimit:ip:192.168.1.1:%d", ts)
		assert.Equal(t, http.StatusBadRequest, stack.doFrom(attacker, http.MethodPut, reserved, `"x"`).Code)

		plain := fmt.Sprintf("/api/cache/ratelimit:ip:192.168.1.1:%d", ts)
		assert.Equal(t, http.StatusOK, stack.doFrom(attacker, http.MethodPut, plain, `"x"`).Code)
	}

	allowed := 0
	for i := 0; i < 10; i++ {
		if stack.do(http.MethodGet, "/health", "").Code == http.StatusOK {
			allowed++
		}
	}
	assert.LessOrEqual(t, allowed, 6)

	w := stack.doFrom("10.0.0.3", http.MethodGet, fmt.Sprintf("/api/cache/_sys:ratelimit:ip:192.168.1.1:%d", now.Unix()), "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestIntegration_StoreDown(t *testing.T) {
	stack := createTestServer(t, 0)
	stack.mr.Close()

	assert.Equal(t, http.StatusServiceUnavailable, stack.do(http.MethodGet, "/health", "").Code)
	assert.Equal(t, http.StatusServiceUnavailable, stack.do(http.MethodGet, "/api/cache/k", "").Code)
	assert.Equal(t, http.StatusOK, stack.do(http.MethodDelete, "/api/cache/k?safe=true", "").Code)
}

func TestIntegration_MetricsEndpoint(t *testing.T) {
	stack := createTestServer(t, 0)

	stack.do(http.MethodGet, "/api/cache/missing", "")

	w := stack.do(http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `cachefacade_http_requests_total{method="GET",route="/api/cache/{key}",status="404"} 1`)
	assert.Contains(t, w.Body.String(), `cachefacade_operations_total{operation="get",result="miss"} 1`)
}

func TestIntegration_RootAndPreflight(t *testing.T) {
	stack := createTestServer(t, 0)

	w := stack.do(http.MethodGet, "/", "")
	require.Equal(t, http.StatusOK, w.Code)
	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "Cache Facade API", response["message"])

	w = stack.do(http.MethodOptions, "/api/cache/k", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}
