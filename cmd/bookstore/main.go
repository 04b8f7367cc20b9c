package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/halmar/bookstore/internal/config"
	"github.com/halmar/bookstore/internal/console"
	"github.com/halmar/bookstore/internal/engine"
	"github.com/halmar/bookstore/internal/handler"
	"github.com/halmar/bookstore/internal/seed"
	"github.com/halmar/bookstore/internal/service"
	"github.com/halmar/bookstore/internal/store"
)

func main() {
	interactive := flag.Bool("console", false, "Run the interactive console instead of the HTTP server")
	healthcheck := flag.Bool("healthcheck", false, "Run health check against running server")
	flag.Parse()

	// Handle -healthcheck flag: HTTP GET to localhost:PORT/healthz, exit 0/1.
	if *healthcheck {
		port := os.Getenv("PORT")
		if port == "" {
			port = "8080"
		}
		resp, err := http.Get(fmt.Sprintf("http://localhost:%s/healthz", port))
		if err != nil || resp.StatusCode != http.StatusOK {
			os.Exit(1)
		}
		os.Exit(0)
	}

	// Load configuration.
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Set up slog logger with configured level.
	var logLevel slog.Level
	switch cfg.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}
	logWriter := os.Stdout
	if *interactive {
		// Keep stdout clean for the console; logs go to stderr.
		logWriter = os.Stderr
	}
	logger := slog.New(slog.NewJSONHandler(logWriter, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	// Stores and engine.
	ledger := store.NewStockLedger()
	carts := store.NewCartStore()
	settlement := engine.NewSettlement(ledger)

	// Services.
	catalogSvc := service.NewCatalogService(ledger)
	cartSvc := service.NewCartService(carts, ledger, settlement)

	// Seed the catalog. Failure is non-fatal: warn and start empty.
	seedText, err := seed.Load(context.Background(), cfg.SeedSource, cfg.SeedFetchTimeout)
	if err != nil {
		logger.Warn("seed load failed, starting with empty catalog",
			slog.String("source", cfg.SeedSource),
			slog.String("error", err.Error()))
	} else if seedText != "" {
		added, err := catalogSvc.LoadBatch(seedText)
		if err != nil {
			logger.Warn("seed parse failed, starting with empty catalog",
				slog.String("source", cfg.SeedSource),
				slog.String("error", err.Error()))
		} else {
			logger.Info("catalog seeded", slog.Int("books", added))
		}
	}

	if *interactive {
		c := console.New(catalogSvc, cartSvc, os.Stdin, os.Stdout)
		if err := c.Run(); err != nil {
			logger.Error("console error", slog.String("error", err.Error()))
			os.Exit(1)
		}
		return
	}

	// Router.
	router := handler.NewRouter(catalogSvc, cartSvc, logger)

	// Configure HTTP server.
	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	// Start HTTP server in a goroutine.
	go func() {
		logger.Info("server starting", slog.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}()

	// Wait for SIGINT/SIGTERM.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	logger.Info("shutdown signal received", slog.String("signal", sig.String()))

	// Graceful shutdown.
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", slog.String("error", err.Error()))
	}

	logger.Info("server stopped")
}
