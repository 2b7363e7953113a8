package application

import (
	_ "embed"
	"errors"
	"fmt"
	"math"
	"net"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/eugenenazirov/knapsack/internal/api"
	"github.com/eugenenazirov/knapsack/internal/config"
	"github.com/eugenenazirov/knapsack/internal/loader"
	"github.com/eugenenazirov/knapsack/internal/metrics"
	"github.com/eugenenazirov/knapsack/internal/storage"
)

//go:embed web/index.html
var indexPage []byte

// App encapsulates the application dependencies and HTTP server.
type App struct {
	storage  storage.Storage
	recorder *metrics.Recorder
	handler  *api.Handler
	router   http.Handler
	logger   *zap.Logger
	server   *http.Server
}

// New initializes the application with all dependencies from the provided configuration.
func New(cfg config.Config, logger *zap.Logger) (*App, error) {
	store := storage.NewMemoryStorage(cfg.MaxItems)
	if cfg.ItemsFile != "" {
		count, err := seedItems(store, cfg.ItemsFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load initial items: %w", err)
		}
		logger.Info("catalog seeded", zap.String("file", cfg.ItemsFile), zap.Int("items", count))
	}

	recorder := metrics.NewRecorder()
	handler := api.NewHandler(store,
		api.WithDefaults(cfg.Algorithm, cfg.DefaultCapacity),
		api.WithMetrics(recorder),
	)
	apiRouter := api.NewRouter(handler, logger,
		api.WithLogging(cfg.EnableRequestLogging),
		api.WithRateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst),
	)

	rootHandler := BuildRootHandler(apiRouter, recorder.Handler())

	return &App{
		storage:  store,
		recorder: recorder,
		handler:  handler,
		router:   apiRouter,
		logger:   logger,
		server:   NewServer(cfg, rootHandler),
	}, nil
}

// seedItems loads the whole file; capacity filtering happens per request.
// It reports how many items were stored.
func seedItems(store storage.Storage, path string) (int, error) {
	catalog, err := loader.LoadFile(path, math.MaxFloat64)
	if err != nil {
		return 0, err
	}
	if err := store.SetItems(catalog.Items()); err != nil {
		return 0, err
	}
	return catalog.Len(), nil
}

// BuildRootHandler constructs the root HTTP handler that serves the index page,
// metrics, and routes API requests.
func BuildRootHandler(apiHandler, metricsHandler http.Handler) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/api/", apiHandler)
	mux.Handle("GET /metrics", metricsHandler)
	mux.Handle("/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write(indexPage)
	}))

	return mux
}

// NewServer creates and configures an HTTP server from the provided configuration.
func NewServer(cfg config.Config, handler http.Handler) *http.Server {
	addr := cfg.Port
	if !strings.Contains(addr, ":") {
		addr = ":" + addr
	}

	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
	}
}

// Start binds the listener synchronously, so address errors are returned to
// the caller, then serves in a goroutine.
func (a *App) Start() error {
	ln, err := net.Listen("tcp", a.server.Addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", a.server.Addr, err)
	}
	a.logger.Info("server listening", zap.String("addr", ln.Addr().String()))

	go func() {
		if err := a.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Error("server error", zap.Error(err))
		}
	}()
	return nil
}

// Server returns the HTTP server instance for shutdown handling.
func (a *App) Server() *http.Server {
	return a.server
}
