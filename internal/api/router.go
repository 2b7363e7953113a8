package api

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/eugenenazirov/knapsack/internal/knapsack"
)

const (
	defaultSelectRPS   = 25.0
	defaultSelectBurst = 50
)

// RouterOption configures the behaviour of NewRouter.
type RouterOption func(*routerConfig)

type routerConfig struct {
	enableLogging bool
	logger        *zap.Logger
	selectLimiter rateLimiter
}

// WithLogging controls whether access logs are emitted.
func WithLogging(enabled bool) RouterOption {
	return func(cfg *routerConfig) {
		cfg.enableLogging = enabled
	}
}

// WithRateLimit throttles POST /api/select with a token bucket. A zero rate
// or burst disables throttling. Catalog reads and health checks are never limited.
func WithRateLimit(ratePerSecond float64, burst int) RouterOption {
	return func(cfg *routerConfig) {
		if ratePerSecond <= 0 || burst <= 0 {
			cfg.selectLimiter = nil
			return
		}
		cfg.selectLimiter = newTokenBucketLimiter(ratePerSecond, burst)
	}
}

// WithRateLimiter replaces the select limiter (primarily for tests).
func WithRateLimiter(limiter rateLimiter) RouterOption {
	return func(cfg *routerConfig) {
		cfg.selectLimiter = limiter
	}
}

// NewRouter creates the API router. Every route gets CORS, panic recovery,
// request IDs, and (optionally) access logging; only selection is rate limited.
func NewRouter(handler *Handler, logger *zap.Logger, opts ...RouterOption) http.Handler {
	cfg := routerConfig{
		enableLogging: true,
		logger:        logger,
		selectLimiter: newTokenBucketLimiter(defaultSelectRPS, defaultSelectBurst),
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	mux := http.NewServeMux()
	mux.Handle("GET /api/health", http.HandlerFunc(handler.handleHealth))
	mux.Handle("GET /api/items", http.HandlerFunc(handler.handleGetItems))
	mux.Handle("PUT /api/items", http.HandlerFunc(handler.handlePutItems))
	mux.Handle("POST /api/select", rateLimitMiddleware(cfg.selectLimiter, http.HandlerFunc(handler.handleSelect)))

	var root http.Handler = mux
	root = corsMiddleware(root)
	root = recoveryMiddleware(cfg.logger, root)
	if cfg.enableLogging {
		root = accessLogMiddleware(cfg.logger, root)
	}
	root = requestIDMiddleware(root)

	return root
}

// selectionNote carries selection details from the handler back to the access log.
type selectionNote struct {
	recorded  bool
	algorithm knapsack.Algorithm
	items     int
	selected  int
}

type selectionNoteKey struct{}

func withSelectionNote(ctx context.Context) (context.Context, *selectionNote) {
	note := &selectionNote{}
	return context.WithValue(ctx, selectionNoteKey{}, note), note
}

// noteSelection is a no-op when access logging is disabled.
func noteSelection(ctx context.Context, alg knapsack.Algorithm, items int, sel knapsack.Selection) {
	note, ok := ctx.Value(selectionNoteKey{}).(*selectionNote)
	if !ok {
		return
	}
	note.recorded = true
	note.algorithm = alg
	note.items = items
	note.selected = sel.Len()
}

func accessLogMiddleware(logger *zap.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, note := withSelectionNote(r.Context())
		rec := &responseRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()
		next.ServeHTTP(rec, r.WithContext(ctx))

		fields := []zap.Field{
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Duration("duration", time.Since(start)),
			zap.String("request_id", requestIDFromContext(r.Context())),
		}
		if note.recorded {
			fields = append(fields,
				zap.Stringer("algorithm", note.algorithm),
				zap.Int("items", note.items),
				zap.Int("selected", note.selected),
			)
		}
		logger.Info("request completed", fields...)
	})
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("Access-Control-Allow-Origin", "*")
		h.Set("Access-Control-Allow-Methods", "GET,POST,PUT,OPTIONS")
		h.Set("Access-Control-Allow-Headers", "Content-Type,X-Request-ID")
		h.Set("Access-Control-Expose-Headers", "X-Request-ID")
		h.Set("Access-Control-Max-Age", "86400")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func recoveryMiddleware(logger *zap.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				logger.Error("panic recovered",
					zap.Any("error", rec),
					zap.String("path", r.URL.Path),
					zap.String("request_id", requestIDFromContext(r.Context())),
				)
				writeError(w, http.StatusInternalServerError, "Internal error", "unexpected server error")
			}
		}()
		next.ServeHTTP(w, r)
	})
}

func requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := strings.TrimSpace(r.Header.Get("X-Request-ID"))
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", requestID)
		next.ServeHTTP(w, r.WithContext(contextWithRequestID(r.Context(), requestID)))
	})
}

func contextWithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDContextKey, id)
}

type responseRecorder struct {
	http.ResponseWriter
	status int
}

func (r *responseRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}
