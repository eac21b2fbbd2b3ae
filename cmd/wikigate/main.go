package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"wikigate/internal/api"
	"wikigate/pkg/config"
	"wikigate/pkg/db"
	"wikigate/pkg/logging"
	"wikigate/pkg/lookup"
	"wikigate/pkg/request"
	"wikigate/pkg/tracker"
	"wikigate/pkg/version"
	"wikigate/pkg/wikidata"
	"wikigate/pkg/wikipedia"
)

var (
	configPath = flag.String("config", "configs/wikigate.yaml", "Path to config file")
	initConfig = flag.Bool("init-config", false, "Generate default config file and exit")
)

func main() {
	flag.Parse()

	// .env is optional; explicit environment wins either way
	_ = godotenv.Load()

	if *initConfig {
		if err := config.GenerateDefault(*configPath); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to generate config: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Config file generated: %s\n", *configPath)
		return
	}

	if err := run(context.Background(), *configPath); err != nil {
		fmt.Fprintf(os.Stderr, "CRITICAL ERROR: Application failed: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, configPath string) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	cleanupLogs, err := logging.Init(&cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	defer cleanupLogs()

	slog.Info("wikigate started", "version", version.Version, "address", cfg.Server.Address)

	ledger, err := db.Init(cfg.DB.Path)
	if err != nil {
		return fmt.Errorf("failed to initialize ledger db: %w", err)
	}
	defer ledger.Close()

	if retain := time.Duration(cfg.DB.RetainTransactions); retain > 0 {
		if err := ledger.PruneTransactions(retain); err != nil {
			slog.Error("Ledger maintenance failed", "error", err)
		}
	}

	tr := tracker.New(ledger)

	rc := request.New(cfg.Upstream.UserAgent, tr)
	wd := wikidata.NewClient(rc)
	wp := wikipedia.NewClient(rc)
	ls := lookup.New(wd, wp)

	gw := api.NewGateway(cfg, wd, wp, ls, tr)
	analytics := api.NewAnalyticsHandler(tr)
	server := api.NewServer(cfg.Server.Address, gw, analytics, cancel)

	// Shut down on SIGINT/SIGTERM as well as the API shutdown endpoint
	signalCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-signalCtx.Done():
	}

	slog.Info("Shutting down")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}
	return nil
}
