package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"CacheFacade/internal/cache"
	"CacheFacade/internal/logger"
	"CacheFacade/internal/models"

	"github.com/gorilla/mux"
)

// maxBodyBytes caps request payloads stored through the API
const maxBodyBytes = 1 << 20

// Handler contains the HTTP handlers for the API
type Handler struct {
	cache     cache.Service
	logger    logger.Service
	opTimeout time.Duration
}

// NewHandler creates a new HTTP handler. opTimeout bounds every store call; zero disables it.
func NewHandler(
	cacheService cache.Service,
	logger logger.Service,
	opTimeout time.Duration,
) *Handler {
	return &Handler{
		cache:     cacheService,
		logger:    logger,
		opTimeout: opTimeout,
	}
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error     string    `json:"error"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// HealthResponse represents a health check response
type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Version   string    `json:"version"`
}

// writeJSONResponse writes a JSON response with standard headers including X-Request-ID
func (h *Handler) writeJSONResponse(w http.ResponseWriter, r *http.Request, statusCode int, data interface{}) error {
	// Extract LogEvent from context to get ProcessID for X-Request-ID header
	logEvent := logger.GetLogEvent(r.Context())

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Request-ID", logEvent.ProcessID)
	w.WriteHeader(statusCode)

	return json.NewEncoder(w).Encode(data)
}

// storeContext derives the per-call deadline for store operations
func (h *Handler) storeContext(r *http.Request) (context.Context, context.CancelFunc) {
	if h.opTimeout <= 0 {
		return context.WithCancel(r.Context())
	}
	return context.WithTimeout(r.Context(), h.opTimeout)
}

// GetEntry handles GET /api/cache/{key}
func (h *Handler) GetEntry(w http.ResponseWriter, r *http.Request) {
	key := mux.Vars(r)["key"]
	ctx, cancel := h.storeContext(r)
	defer cancel()

	value, found, err := cache.Get[json.RawMessage](ctx, h.cache, key)
	if err != nil {
		h.handleError(w, r, logger.OpCacheGet, key, "failed to read entry", err)
		return
	}
	if !found {
		h.writeErrorResponse(w, r, http.StatusNotFound, "entry not found", fmt.Sprintf("no entry for key %q", key))
		return
	}

	h.respond(w, r, logger.OpCacheGet, key, http.StatusOK, models.EntryResponse{Key: key, Value: value})
}

// GetValue handles GET /api/cache/{key}/value?as=string|number|bool
func (h *Handler) GetValue(w http.ResponseWriter, r *http.Request) {
	key := mux.Vars(r)["key"]
	ctx, cancel := h.storeContext(r)
	defer cancel()

	var (
		value interface{}
		found bool
		err   error
	)
	switch as := r.URL.Query().Get("as"); as {
	case "", "string":
		value, found, err = scalar[string](ctx, h.cache, key)
	case "number":
		value, found, err = scalar[float64](ctx, h.cache, key)
	case "bool":
		value, found, err = scalar[bool](ctx, h.cache, key)
	default:
		h.writeErrorResponse(w, r, http.StatusBadRequest, "invalid value type", fmt.Sprintf("unsupported type %q, use string, number or bool", as))
		return
	}

	if err != nil {
		h.handleError(w, r, logger.OpCacheGet, key, "failed to read value", err)
		return
	}
	if !found {
		h.writeErrorResponse(w, r, http.StatusNotFound, "entry not found", fmt.Sprintf("no entry for key %q", key))
		return
	}

	h.respond(w, r, logger.OpCacheGet, key, http.StatusOK, models.ValueResponse{Key: key, Value: value})
}

func scalar[T cache.Scalar](ctx context.Context, svc cache.Service, key string) (interface{}, bool, error) {
	v, found, err := cache.GetAsValue[T](ctx, svc, key)
	return v, found, err
}

// Exists handles GET /api/cache/{key}/exists
func (h *Handler) Exists(w http.ResponseWriter, r *http.Request) {
	key := mux.Vars(r)["key"]
	ctx, cancel := h.storeContext(r)
	defer cancel()

	exists, err := h.cache.Exists(ctx, key)
	if err != nil {
		h.handleError(w, r, logger.OpCacheExists, key, "failed to check entry", err)
		return
	}

	h.respond(w, r, logger.OpCacheExists, key, http.StatusOK, models.ExistsResponse{Key: key, Exists: exists})
}

// AddEntry handles POST /api/cache/{key}?ttl=
func (h *Handler) AddEntry(w http.ResponseWriter, r *http.Request) {
	key := mux.Vars(r)["key"]

	ttl, hasTTL, err := parseTTL(r)
	if err != nil {
		h.writeErrorResponse(w, r, http.StatusBadRequest, "invalid ttl", err.Error())
		return
	}
	body, err := readJSONBody(w, r)
	if err != nil {
		h.writeErrorResponse(w, r, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	ctx, cancel := h.storeContext(r)
	defer cancel()

	var added bool
	if hasTTL {
		added, err = h.cache.AddWithTTL(ctx, key, body, ttl)
	} else {
		added, err = h.cache.Add(ctx, key, body)
	}
	if err != nil {
		h.handleError(w, r, logger.OpCacheAdd, key, "failed to add entry", err)
		return
	}

	statusCode := http.StatusCreated
	if !added {
		statusCode = http.StatusConflict
	}
	h.respond(w, r, logger.OpCacheAdd, key, statusCode, models.AddResponse{Key: key, Added: added})
}

// PutEntry handles PUT /api/cache/{key}?ttl=
func (h *Handler) PutEntry(w http.ResponseWriter, r *http.Request) {
	key := mux.Vars(r)["key"]

	ttl, hasTTL, err := parseTTL(r)
	if err != nil {
		h.writeErrorResponse(w, r, http.StatusBadRequest, "invalid ttl", err.Error())
		return
	}
	body, err := readJSONBody(w, r)
	if err != nil {
		h.writeErrorResponse(w, r, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	ctx, cancel := h.storeContext(r)
	defer cancel()

	var stored json.RawMessage
	if hasTTL {
		stored, err = cache.PutWithTTL(ctx, h.cache, key, body, ttl)
	} else {
		stored, err = cache.Put(ctx, h.cache, key, body)
	}
	if err != nil {
		h.handleError(w, r, logger.OpCachePut, key, "failed to store entry", err)
		return
	}

	h.respond(w, r, logger.OpCachePut, key, http.StatusOK, models.EntryResponse{Key: key, Value: stored})
}

// RemoveEntry handles DELETE /api/cache/{key}?safe=true
func (h *Handler) RemoveEntry(w http.ResponseWriter, r *http.Request) {
	key := mux.Vars(r)["key"]
	ctx, cancel := h.storeContext(r)
	defer cancel()

	if safe, _ := strconv.ParseBool(r.URL.Query().Get("safe")); safe {
		removed := h.cache.RemoveSafely(ctx, key)
		h.respond(w, r, logger.OpCacheRemoveSafely, key, http.StatusOK, models.RemoveResponse{Key: key, Removed: removed, Safe: true})
		return
	}

	removed, err := h.cache.Remove(ctx, key)
	if err != nil {
		h.handleError(w, r, logger.OpCacheRemove, key, "failed to remove entry", err)
		return
	}

	statusCode := http.StatusOK
	if !removed {
		statusCode = http.StatusNotFound
	}
	h.respond(w, r, logger.OpCacheRemove, key, statusCode, models.RemoveResponse{Key: key, Removed: removed})
}

// IncrementCounter handles POST /api/counters/{key}/increment?ttl=
func (h *Handler) IncrementCounter(w http.ResponseWriter, r *http.Request) {
	key := mux.Vars(r)["key"]

	ttl, _, err := parseTTL(r)
	if err != nil {
		h.writeErrorResponse(w, r, http.StatusBadRequest, "invalid ttl", err.Error())
		return
	}

	ctx, cancel := h.storeContext(r)
	defer cancel()

	first, err := h.cache.Increment(ctx, key, ttl)
	if err != nil {
		h.handleError(w, r, logger.OpCacheIncrement, key, "failed to increment counter", err)
		return
	}

	h.respond(w, r, logger.OpCacheIncrement, key, http.StatusOK, models.IncrementResponse{Key: key, First: first})
}

// HealthCheck handles GET /health
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.storeContext(r)
	defer cancel()

	response := HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC(),
		Version:   "1.0.0",
	}
	statusCode := http.StatusOK

	if err := h.cache.Health(ctx); err != nil {
		h.logger.LogError(r.Context(), logger.OpHealthCheck, "", "Store health check failed", err, models.LogSeverityHigh, nil)
		response.Status = "unhealthy"
		statusCode = http.StatusServiceUnavailable
	}

	if err := h.writeJSONResponse(w, r, statusCode, response); err != nil {
		h.logger.LogError(r.Context(), logger.OpHealthCheck, "", "Failed to encode health response", err, models.LogSeverityLow, nil)
		return
	}

	if statusCode == http.StatusOK {
		h.logger.LogInfo(r.Context(), logger.OpHealthCheck, "Health check performed successfully", nil)
	}
}

// respond writes data and logs the operation once the response is out
func (h *Handler) respond(w http.ResponseWriter, r *http.Request, operation, key string, statusCode int, data interface{}) {
	if err := h.writeJSONResponse(w, r, statusCode, data); err != nil {
		// Response already sent with status code, but log the encoding error
		h.logger.LogError(r.Context(), operation, key, "Failed to encode response", err, models.LogSeverityLow, nil)
		return
	}

	h.logger.LogSuccess(r.Context(), operation, key, "Cache operation completed", map[string]interface{}{
		"status_code": statusCode,
	})
}

// handleError logs a failed cache operation and writes the mapped status
func (h *Handler) handleError(w http.ResponseWriter, r *http.Request, operation, key, message string, err error) {
	statusCode := getStatusCodeForError(err)

	severity := models.LogSeverityLow
	if statusCode >= http.StatusInternalServerError {
		severity = models.LogSeverityHigh
	}
	h.logger.LogError(r.Context(), operation, key, message, err, severity, map[string]interface{}{
		"status_code": statusCode,
	})

	h.writeErrorResponse(w, r, statusCode, message, err.Error())
}

// writeErrorResponse writes a standardized error response
func (h *Handler) writeErrorResponse(w http.ResponseWriter, r *http.Request, statusCode int, error, message string) {
	response := ErrorResponse{
		Error:     error,
		Message:   message,
		Timestamp: time.Now().UTC(),
	}

	// Use centralized response function to ensure consistent headers including X-Request-ID
	if err := h.writeJSONResponse(w, r, statusCode, response); err != nil {
		h.logger.LogError(r.Context(), "response_encoding", "", "Failed to encode error response", err, models.LogSeverityLow, nil)
	}
}

// getStatusCodeForError maps the cache error taxonomy onto HTTP status codes
func getStatusCodeForError(err error) int {
	switch {
	case errors.Is(err, models.ErrKeyRequired), errors.Is(err, models.ErrReservedKey), errors.Is(err, models.ErrInvalidTTL):
		return http.StatusBadRequest
	case errors.Is(err, models.ErrTypeMismatch):
		return http.StatusUnprocessableEntity
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, models.ErrStoreUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, models.ErrRateLimitExceeded):
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// parseTTL reads the ttl query parameter as a Go duration ("90s") or whole seconds ("90").
// The second result is false when no ttl was given.
func parseTTL(r *http.Request) (time.Duration, bool, error) {
	raw := strings.TrimSpace(r.URL.Query().Get("ttl"))
	if raw == "" {
		return 0, false, nil
	}

	ttl, err := time.ParseDuration(raw)
	if err != nil {
		seconds, convErr := strconv.Atoi(raw)
		if convErr != nil {
			return 0, false, fmt.Errorf("cannot parse ttl %q", raw)
		}
		ttl = time.Duration(seconds) * time.Second
	}
	if ttl < 0 {
		return 0, false, models.ErrInvalidTTL
	}
	return ttl, true, nil
}

// readJSONBody returns the request body after checking it is a single JSON document
func readJSONBody(w http.ResponseWriter, r *http.Request) (json.RawMessage, error) {
	if r.Body == nil {
		return nil, errors.New("request body is required")
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, fmt.Errorf("request body exceeds %d bytes", tooLarge.Limit)
		}
		return nil, err
	}
	if len(strings.TrimSpace(string(body))) == 0 {
		return nil, errors.New("request body is required")
	}
	if !json.Valid(body) {
		return nil, errors.New("request body must be valid JSON")
	}
	return body, nil
}
