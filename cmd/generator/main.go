package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/salesops/go-sales-csv/internal/api"
	"github.com/salesops/go-sales-csv/internal/api/handler"
	"github.com/salesops/go-sales-csv/internal/config"
	"github.com/salesops/go-sales-csv/internal/service"
	"github.com/salesops/go-sales-csv/internal/source"
	"github.com/salesops/go-sales-csv/internal/storage"
	"github.com/salesops/go-sales-csv/pkg/infra"
)

func main() {
	cfg := config.Load()
	logger := infra.SetupLogger(cfg)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	src, cleanup, err := buildSource(ctx, cfg)
	if err != nil {
		slog.Error("Fatal error connecting to row source", "error", err)
		os.Exit(1)
	}
	defer cleanup()

	store := storage.NewFSStore(cfg.StorageRoot, cfg.StorageContainer, logger)
	generator := service.NewGenerator(src, store, cfg.Lookback, cfg.ReportEncoding, logger)
	h := handler.NewGenerateHandler(generator, logger)

	mux := api.NewRouter(func() bool { return true }, func(mux *http.ServeMux) {
		mux.HandleFunc("POST /generate-sales-csv", h.GenerateSalesCSV)
	})

	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: mux}

	go func() {
		slog.Info("🚀 Generator API started", "addr", cfg.HTTPAddr, "source", cfg.SourceDriver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("HTTP server failure", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("👋 Shutting down generator...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP shutdown error", "error", err)
	}
	slog.Info("✅ Shutdown complete")
}

func buildSource(ctx context.Context, cfg *config.Config) (source.RowSource, func(), error) {
	switch cfg.SourceDriver {
	case "postgres":
		pg, err := source.NewPostgresSource(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		return pg, pg.Close, nil
	default:
		return source.FixtureSource{}, func() {}, nil
	}
}
