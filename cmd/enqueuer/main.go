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
	"github.com/salesops/go-sales-csv/internal/broker"
	"github.com/salesops/go-sales-csv/internal/config"
	"github.com/salesops/go-sales-csv/internal/service"
	"github.com/salesops/go-sales-csv/pkg/infra"
)

func main() {
	cfg := config.Load()
	logger := infra.SetupLogger(cfg)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client, err := broker.NewRabbitMQClient(cfg.RabbitMQURL, cfg.ExchangeName, cfg.QueueName, logger)
	if err != nil {
		slog.Error("Fatal error connecting to RabbitMQ", "error", err)
		os.Exit(1)
	}
	defer client.Close()

	enqueuer := service.NewEnqueuer(client, logger)
	h := handler.NewEnqueueHandler(enqueuer, logger)

	mux := api.NewRouter(client.IsHealthy, func(mux *http.ServeMux) {
		mux.HandleFunc("POST /enqueue-sales-csv", h.EnqueueSalesCSV)
	})

	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: mux}

	go func() {
		slog.Info("🚀 Enqueuer API started", "addr", cfg.HTTPAddr, "queue", cfg.QueueName)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("HTTP server failure", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("👋 Shutting down enqueuer...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP shutdown error", "error", err)
	}
	slog.Info("✅ Shutdown complete")
}
