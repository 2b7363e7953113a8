package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"sync"
	"time"

	"github.com/eugenenazirov/knapsack/internal/knapsack"
	"github.com/eugenenazirov/knapsack/internal/metrics"
	"github.com/eugenenazirov/knapsack/internal/report"
	"github.com/eugenenazirov/knapsack/internal/storage"
)

type contextKey string

const requestIDContextKey contextKey = "requestID"

// Request bodies are capped in proportion to the catalog limit: a JSON item
// rarely exceeds bytesPerItem, and bodyOverhead covers the envelope.
const (
	bytesPerItem = 256
	bodyOverhead = 4 << 10
)

// Handler wires solver, storage, and metrics dependencies into HTTP handlers.
type Handler struct {
	storage   storage.Storage
	newSolver func(knapsack.Algorithm) (knapsack.Solver, error)
	recorder  *metrics.Recorder

	defaultAlgorithm knapsack.Algorithm
	defaultCapacity  float64

	clock        func() time.Time
	maxBodyBytes int64

	mu             sync.RWMutex
	itemsUpdatedAt time.Time
}

// HandlerOption configures Handler behaviour.
type HandlerOption func(*Handler)

// WithClock overrides the time source, primarily for tests.
func WithClock(clock func() time.Time) HandlerOption {
	return func(h *Handler) {
		h.clock = clock
	}
}

// WithDefaults sets the algorithm and capacity used when a request omits them.
func WithDefaults(alg knapsack.Algorithm, capacity float64) HandlerOption {
	return func(h *Handler) {
		h.defaultAlgorithm = alg
		h.defaultCapacity = capacity
	}
}

// WithMetrics records every selection on rec.
func WithMetrics(rec *metrics.Recorder) HandlerOption {
	return func(h *Handler) {
		h.recorder = rec
	}
}

// WithSolverFactory overrides how solvers are built (primarily for tests).
func WithSolverFactory(factory func(knapsack.Algorithm) (knapsack.Solver, error)) HandlerOption {
	return func(h *Handler) {
		h.newSolver = factory
	}
}

// WithMaxBodyBytes caps request bodies at n bytes instead of the limit
// derived from the storage item limit.
func WithMaxBodyBytes(n int64) HandlerOption {
	return func(h *Handler) {
		h.maxBodyBytes = n
	}
}

// NewHandler constructs a Handler backed by store.
func NewHandler(store storage.Storage, opts ...HandlerOption) *Handler {
	h := &Handler{
		storage:          store,
		newSolver:        knapsack.NewSolver,
		defaultAlgorithm: knapsack.DefaultAlgorithm,
		clock: func() time.Time {
			return time.Now().UTC()
		},
	}
	for _, opt := range opts {
		opt(h)
	}
	if h.maxBodyBytes <= 0 {
		h.maxBodyBytes = int64(store.MaxItems())*bytesPerItem + bodyOverhead
	}
	h.itemsUpdatedAt = h.clock()
	return h
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	_ = r
	resp := healthResponse{
		Status:    "ok",
		Timestamp: h.clock(),
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleGetItems(w http.ResponseWriter, r *http.Request) {
	_ = r
	items, err := h.storage.GetItems()
	if err != nil {
		writeInternalError(w, err)
		return
	}

	resp := itemsResponse{
		Items:     items,
		UpdatedAt: h.currentItemsUpdatedAt(),
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handlePutItems(w http.ResponseWriter, r *http.Request) {
	var req itemsRequest
	if !h.decodeBody(w, r, &req) {
		return
	}

	if err := h.storage.SetItems(req.Items); err != nil {
		if errors.Is(err, storage.ErrInvalidItems) || errors.Is(err, storage.ErrTooManyItems) {
			writeError(w, http.StatusBadRequest, "Invalid items", err.Error())
			return
		}
		writeInternalError(w, err)
		return
	}

	h.markItemsUpdated()

	items, err := h.storage.GetItems()
	if err != nil {
		writeInternalError(w, err)
		return
	}

	resp := itemsResponse{
		Items:     items,
		UpdatedAt: h.currentItemsUpdatedAt(),
		Message:   "Items updated successfully",
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleSelect(w http.ResponseWriter, r *http.Request) {
	var req selectRequest
	if !h.decodeBody(w, r, &req) {
		return
	}

	capacity := h.defaultCapacity
	if req.Capacity != nil {
		capacity = *req.Capacity
	}
	if capacity < 0 || math.IsInf(capacity, 0) || math.IsNaN(capacity) {
		writeError(w, http.StatusBadRequest, "Invalid request", "capacity must be a finite, non-negative number")
		return
	}

	alg := h.defaultAlgorithm
	if req.Algorithm != "" {
		parsed, err := knapsack.ParseAlgorithm(req.Algorithm)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid algorithm", err.Error(), "Use \"greedy\" or 1")
			return
		}
		alg = parsed
	}

	solver, err := h.newSolver(alg)
	if err != nil {
		if errors.Is(err, knapsack.ErrUnknownAlgorithm) {
			writeError(w, http.StatusBadRequest, "Invalid algorithm", err.Error())
			return
		}
		writeInternalError(w, err)
		return
	}

	var items []knapsack.Item
	if req.Items != nil {
		items = *req.Items
		if err := storage.ValidateItems(items, h.storage.MaxItems()); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid items", err.Error())
			return
		}
	} else {
		items, err = h.storage.GetItems()
		if err != nil {
			writeInternalError(w, err)
			return
		}
	}

	start := time.Now()
	sel := solver.Select(items, capacity)
	elapsed := time.Since(start)

	h.recorder.ObserveSelection(alg, elapsed, sel)
	noteSelection(r.Context(), alg, len(items), sel)

	resp := selectResponse{
		View:              report.NewView(sel),
		Algorithm:         alg.String(),
		ItemsConsidered:   len(items),
		CalculationTimeMs: elapsed.Milliseconds(),
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "Request too large",
				fmt.Sprintf("request body exceeds %d bytes", tooLarge.Limit))
			return false
		}
		writeError(w, http.StatusBadRequest, "Invalid request", "unable to parse JSON payload")
		return false
	}
	return true
}

func (h *Handler) currentItemsUpdatedAt() time.Time {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.itemsUpdatedAt
}

func (h *Handler) markItemsUpdated() {
	h.mu.Lock()
	h.itemsUpdatedAt = h.clock()
	h.mu.Unlock()
}

func requestIDFromContext(ctx context.Context) string {
	if v := ctx.Value(requestIDContextKey); v != nil {
		if id, ok := v.(string); ok {
			return id
		}
	}
	return ""
}

type itemsRequest struct {
	Items []knapsack.Item `json:"items"`
}

type selectRequest struct {
	Capacity  *float64         `json:"capacity"`
	Algorithm string           `json:"algorithm"`
	Items     *[]knapsack.Item `json:"items"`
}

type selectResponse struct {
	report.View
	Algorithm         string `json:"algorithm"`
	ItemsConsidered   int    `json:"itemsConsidered"`
	CalculationTimeMs int64  `json:"calculationTimeMs"`
}

type itemsResponse struct {
	Items     []knapsack.Item `json:"items"`
	UpdatedAt time.Time       `json:"updatedAt"`
	Message   string          `json:"message,omitempty"`
}

type healthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

type errorResponse struct {
	Error      string `json:"error"`
	Details    string `json:"details,omitempty"`
	Suggestion string `json:"suggestion,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	if status != 0 {
		w.WriteHeader(status)
	}
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message, details string, suggestion ...string) {
	resp := errorResponse{
		Error:   message,
		Details: details,
	}
	if len(suggestion) > 0 {
		resp.Suggestion = suggestion[0]
	}
	writeJSON(w, status, resp)
}

func writeInternalError(w http.ResponseWriter, err error) {
	writeError(w, http.StatusInternalServerError, "Internal error", err.Error())
}
