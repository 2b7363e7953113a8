package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kingpin/v2"
	"go.uber.org/zap"

	"github.com/eugenenazirov/knapsack/internal/application"
	"github.com/eugenenazirov/knapsack/internal/config"
	"github.com/eugenenazirov/knapsack/internal/knapsack"
	"github.com/eugenenazirov/knapsack/internal/loader"
	"github.com/eugenenazirov/knapsack/internal/logging"
	"github.com/eugenenazirov/knapsack/internal/report"
)

var signalNotify = signal.Notify

type selectArgs struct {
	file      string
	weight    string
	algorithm string
	format    string
}

func main() {
	kingpinApp := kingpin.New("knapsack", "Knapsack Selector - picks items by value/weight ratio without exceeding a weight limit")

	selectCmd := kingpinApp.Command("select", "Select items from a CSV file and print the result").Default()
	var sel selectArgs
	selectCmd.Flag("file", "Path to a semicolon separated .csv file (id;weight;value)").Required().StringVar(&sel.file)
	selectCmd.Flag("weight", "Knapsack capacity").Required().StringVar(&sel.weight)
	selectCmd.Flag("algorithm", "Selection algorithm name or code").Default(knapsack.DefaultAlgorithm.String()).StringVar(&sel.algorithm)
	selectCmd.Flag("format", "Output format").Default(string(report.FormatText)).EnumVar(&sel.format, report.Formats...)

	serveCmd := kingpinApp.Command("serve", "Run the HTTP selection service")
	configFile := serveCmd.Flag("config", "Path to YAML configuration file").String()
	port := serveCmd.Flag("port", "HTTP port exposed by the service").String()
	itemsFile := serveCmd.Flag("items-file", "CSV file used to seed the item catalog").String()
	algorithm := serveCmd.Flag("algorithm", "Default selection algorithm").String()
	logLevel := serveCmd.Flag("log-level", "Log level (debug, info, warn, error)").String()
	rateLimitRPSFlag := serveCmd.Flag("rate-limit-rps", "Requests per second allowed (set 0 to disable)").Default("-1").Float64()
	rateLimitBurstFlag := serveCmd.Flag("rate-limit-burst", "Burst capacity for rate limiter (set 0 to disable)").Default("-1").Int()

	switch kingpin.MustParse(kingpinApp.Parse(os.Args[1:])) {
	case selectCmd.FullCommand():
		if err := runSelect(os.Stdout, sel); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case serveCmd.FullCommand():
		overrides := &config.CLIOverrides{
			ConfigFile: *configFile,
		}
		if *port != "" {
			overrides.Port = port
		}
		if *itemsFile != "" {
			overrides.ItemsFile = itemsFile
		}
		if *algorithm != "" {
			overrides.Algorithm = algorithm
		}
		if *logLevel != "" {
			overrides.LogLevel = logLevel
		}
		if *rateLimitRPSFlag >= 0 {
			overrides.RateLimitRPS = rateLimitRPSFlag
		}
		if *rateLimitBurstFlag >= 0 {
			overrides.RateLimitBurst = rateLimitBurstFlag
		}
		if err := serve(overrides); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}
}

// runSelect validates the arguments, loads the catalog, and prints the selection.
func runSelect(out io.Writer, args selectArgs) error {
	capacity, err := loader.ParseCapacity(args.weight)
	if err != nil {
		return err
	}
	alg, err := loader.ParseAlgorithm(args.algorithm)
	if err != nil {
		return err
	}
	catalog, err := loader.LoadFile(args.file, capacity)
	if err != nil {
		return err
	}
	solver, err := knapsack.NewSolver(alg)
	if err != nil {
		return err
	}

	return report.Write(out, report.Format(args.format), solver.Select(catalog.Items(), capacity))
}

// serve runs the HTTP service until an interrupt or termination signal
// arrives. Startup failures are returned instead of terminating the process.
func serve(overrides *config.CLIOverrides) error {
	cfg, err := config.Load(overrides)
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("initialize logger: %w", err)
	}
	defer func() {
		_ = logger.Sync()
	}()

	app, err := application.New(cfg, logger)
	if err != nil {
		return fmt.Errorf("initialize application: %w", err)
	}

	if err := app.Start(); err != nil {
		return fmt.Errorf("start server: %w", err)
	}

	shutdown(app.Server(), cfg.ShutdownGracePeriod, logger)
	return nil
}

func shutdown(server *http.Server, timeout time.Duration, logger *zap.Logger) {
	quit := make(chan os.Signal, 1)
	signalNotify(quit, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	<-quit
	logger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Warn("graceful shutdown failed", zap.Error(err))
		if closeErr := server.Close(); closeErr != nil {
			logger.Error("forced close failed", zap.Error(closeErr))
		}
	}
}
