package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"gurkerl-cli/internal/config"
	"gurkerl-cli/internal/fakeshop"
	"gurkerl-cli/internal/importer"
	"gurkerl-cli/internal/logging"
	"gurkerl-cli/internal/seed"
)

func main() {
	cfg := config.FakeShopFromEnv()
	var debug bool
	flag.StringVar(&cfg.HTTPAddr, "addr", cfg.HTTPAddr, "Listen address")
	flag.StringVar(&cfg.CatalogFile, "catalog", cfg.CatalogFile, "Optional product CSV to load on top of the demo catalog")
	flag.BoolVar(&debug, "debug", false, "Log every request")
	flag.Parse()

	logger := logging.NewService(os.Stdout, debug).With("component", "fakeshop")
	ctx := context.Background()

	store := fakeshop.NewStore()
	if err := store.AddAccount(cfg.UserEmail, cfg.UserPassword); err != nil {
		logger.Error("create demo account", "error", err)
		os.Exit(1)
	}
	if err := seed.Apply(ctx, store, cfg.UserEmail); err != nil {
		logger.Error("seed apply", "error", err)
		os.Exit(1)
	}
	if cfg.CatalogFile != "" {
		n, err := loadCatalog(ctx, cfg.CatalogFile, store)
		if err != nil {
			logger.Error("import catalog", "file", cfg.CatalogFile, "error", err)
			os.Exit(1)
		}
		logger.Info("catalog imported", "file", cfg.CatalogFile, "products", n)
	}

	srv := fakeshop.New(cfg.HTTPAddr, logger, store)

	serverErr := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stopCh:
		logger.Info("received signal, shutting down", "signal", sig.String())
	case err := <-serverErr:
		logger.Error("server error", "error", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
	} else {
		logger.Info("server stopped")
	}
}

func loadCatalog(ctx context.Context, path string, store *fakeshop.Store) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()
	return importer.NewCSVImporter(f, store).Run(ctx)
}
