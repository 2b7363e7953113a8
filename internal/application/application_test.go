package application

import (
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"

	"github.com/eugenenazirov/knapsack/internal/config"
	"github.com/eugenenazirov/knapsack/internal/knapsack"
	"github.com/eugenenazirov/knapsack/internal/loader"
	"github.com/eugenenazirov/knapsack/internal/storage"
)

func TestNewInitializesDependencies(t *testing.T) {
	cfg := baseTestConfig(":8085")
	logger := zaptest.NewLogger(t)

	app, err := New(cfg, logger)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	items, err := app.storage.GetItems()
	if err != nil {
		t.Fatalf("GetItems returned error: %v", err)
	}
	if len(items) != 0 {
		t.Fatalf("expected empty catalog, got %v", items)
	}
	if app.server == nil || app.router == nil || app.handler == nil || app.recorder == nil {
		t.Fatalf("expected server, router, handler, and recorder to be initialized")
	}
	if app.Server() != app.server {
		t.Fatalf("Server accessor did not return underlying instance")
	}
}

func TestNewSeedsCatalogFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "items.csv")
	if err := os.WriteFile(path, []byte("id;weight;value\n1;10;60\n2;500;1\n"), 0o600); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	cfg := baseTestConfig(":0")
	cfg.ItemsFile = path

	app, err := New(cfg, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	items, _ := app.storage.GetItems()
	if len(items) != 2 || items[1] != knapsack.NewItem(2, 500, 1) {
		t.Fatalf("expected both items to be stored, got %v", items)
	}
}

func TestNewReturnsErrorForInvalidItemsFile(t *testing.T) {
	dir := t.TempDir()

	badRows := filepath.Join(dir, "bad.csv")
	if err := os.WriteFile(badRows, []byte("id;weight;value\n1;x;1\n"), 0o600); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	tooMany := filepath.Join(dir, "many.csv")
	if err := os.WriteFile(tooMany, []byte("id;weight;value\n1;1;1\n2;2;2\n3;3;3\n"), 0o600); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	cfg := baseTestConfig(":0")

	cfg.ItemsFile = badRows
	if _, err := New(cfg, zaptest.NewLogger(t)); !errors.Is(err, loader.ErrInvalidFileContents) {
		t.Fatalf("expected ErrInvalidFileContents, got %v", err)
	}

	cfg.ItemsFile = tooMany
	cfg.MaxItems = 2
	if _, err := New(cfg, zaptest.NewLogger(t)); !errors.Is(err, storage.ErrTooManyItems) {
		t.Fatalf("expected ErrTooManyItems, got %v", err)
	}
}

func TestSeedItemsAcceptsDuplicateIDsAndReportsCount(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dupes.csv")
	if err := os.WriteFile(path, []byte("id;weight;value\n1;1;1\n1;2;2\n"), 0o600); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	core, logs := observer.New(zapcore.InfoLevel)
	cfg := baseTestConfig(":0")
	cfg.ItemsFile = path

	app, err := New(cfg, zap.New(core))
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	items, err := app.storage.GetItems()
	if err != nil {
		t.Fatalf("GetItems returned error: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected both rows stored, got %v", items)
	}

	seeded := logs.FilterMessage("catalog seeded").All()
	if len(seeded) != 1 {
		t.Fatalf("expected one seed log entry, got %d", len(seeded))
	}
	if got := seeded[0].ContextMap()["items"]; got != int64(2) {
		t.Fatalf("expected items=2 in seed log, got %v", got)
	}

	count, err := seedItems(storage.NewMemoryStorage(1), path)
	if !errors.Is(err, storage.ErrTooManyItems) || count != 0 {
		t.Fatalf("expected ErrTooManyItems and zero count, got %d, %v", count, err)
	}
}

func TestStartReturnsListenError(t *testing.T) {
	busy, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer busy.Close()

	app, err := New(baseTestConfig(busy.Addr().String()), zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	if err := app.Start(); err == nil {
		t.Fatalf("expected Start to fail on an address in use")
	}
}

func TestNewServerAppliesConfig(t *testing.T) {
	cfg := baseTestConfig("9090")
	handler := http.NewServeMux()

	server := NewServer(cfg, handler)
	if server.Addr != ":9090" {
		t.Fatalf("expected address :9090, got %s", server.Addr)
	}
	if server.Handler != handler {
		t.Fatalf("expected handler to be applied")
	}
	if server.ReadHeaderTimeout != cfg.ReadHeaderTimeout ||
		server.WriteTimeout != cfg.WriteTimeout ||
		server.IdleTimeout != cfg.IdleTimeout {
		t.Fatalf("server timeouts do not match configuration")
	}
}

func TestBuildRootHandler(t *testing.T) {
	apiInvoked := false
	apiHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/health" {
			t.Fatalf("unexpected path passed to API handler: %s", r.URL.Path)
		}
		apiInvoked = true
		w.WriteHeader(http.StatusNoContent)
	})
	metricsHandler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusAccepted)
	})

	handler := BuildRootHandler(apiHandler, metricsHandler)

	t.Run("serves index", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		if rec.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d", rec.Code)
		}
		if rec.Header().Get("Content-Type") == "" {
			t.Fatalf("expected Content-Type header for index page")
		}
	})

	t.Run("returns not found for unknown paths", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/unknown", nil))

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected status 404, got %d", rec.Code)
		}
	})

	t.Run("serves metrics", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

		if rec.Code != http.StatusAccepted {
			t.Fatalf("expected metrics handler to respond, got %d", rec.Code)
		}
	})

	t.Run("forwards api traffic", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))

		if rec.Code != http.StatusNoContent {
			t.Fatalf("expected status 204, got %d", rec.Code)
		}
		if !apiInvoked {
			t.Fatalf("expected API handler to be invoked")
		}
	})
}

func baseTestConfig(port string) config.Config {
	return config.Config{
		Port:                 port,
		Algorithm:            knapsack.AlgorithmGreedy,
		MaxItems:             100,
		ShutdownGracePeriod:  50 * time.Millisecond,
		ReadHeaderTimeout:    20 * time.Millisecond,
		WriteTimeout:         30 * time.Millisecond,
		IdleTimeout:          40 * time.Millisecond,
		EnableRequestLogging: false,
		RateLimitRPS:         0,
		RateLimitBurst:       0,
	}
}
