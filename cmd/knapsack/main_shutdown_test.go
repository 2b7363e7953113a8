package main

import (
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"testing"
	"time"

	"go.uber.org/zap/zaptest"

	"github.com/eugenenazirov/knapsack/internal/config"
)

// stubSignals replaces signal registration with one that delivers SIGTERM
// after the registered channel is handed over.
func stubSignals(t *testing.T) <-chan struct{} {
	t.Helper()
	registered := make(chan struct{})
	signalNotify = func(ch chan<- os.Signal, _ ...os.Signal) {
		close(registered)
		go func() {
			ch <- syscall.SIGTERM
		}()
	}
	t.Cleanup(func() {
		signalNotify = signal.Notify
	})
	return registered
}

func clearServeEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"PORT", "DEFAULT_CAPACITY", "ALGORITHM", "ITEMS_FILE", "LOG_LEVEL",
		"MAX_ITEMS", "RATE_LIMIT_RPS", "RATE_LIMIT_BURST",
	} {
		t.Setenv(key, "")
	}
}

func TestServeStopsOnSignal(t *testing.T) {
	clearServeEnv(t)
	registered := stubSignals(t)

	itemsFile := writeItems(t, "id;weight;value\n1;10;60\n2;20;100\n")
	port := "127.0.0.1:0"
	level := "error"

	done := make(chan error, 1)
	go func() {
		done <- serve(&config.CLIOverrides{Port: &port, ItemsFile: &itemsFile, LogLevel: &level})
	}()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("serve returned error: %v", err)
		}
		select {
		case <-registered:
		default:
			t.Fatalf("expected serve to wait for shutdown signals")
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("serve did not return after SIGTERM")
	}
}

func TestServeReturnsStartupErrors(t *testing.T) {
	clearServeEnv(t)
	stubSignals(t)

	port := "127.0.0.1:0"
	badItems := writeItems(t, "id;weight;value\n1;heavy;1\n")

	cases := map[string]*config.CLIOverrides{
		"missing config file": {ConfigFile: filepath.Join(t.TempDir(), "missing.yaml"), Port: &port},
		"invalid items file":  {Port: &port, ItemsFile: &badItems},
	}

	for name, overrides := range cases {
		t.Run(name, func(t *testing.T) {
			if err := serve(overrides); err == nil {
				t.Fatalf("expected serve to fail")
			}
		})
	}
}

func TestShutdownDrainsServer(t *testing.T) {
	stubSignals(t)

	server := &http.Server{}
	called := make(chan struct{}, 1)
	server.RegisterOnShutdown(func() {
		called <- struct{}{}
	})

	shutdown(server, 10*time.Millisecond, zaptest.NewLogger(t))

	select {
	case <-called:
	case <-time.After(time.Second):
		t.Fatalf("expected shutdown hooks to run")
	}
}
