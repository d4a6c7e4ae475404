package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/salesops/go-sales-csv/internal/broker"
	"github.com/salesops/go-sales-csv/internal/config"
	"github.com/salesops/go-sales-csv/internal/service"
	"github.com/salesops/go-sales-csv/internal/source"
	"github.com/salesops/go-sales-csv/internal/storage"
	"github.com/salesops/go-sales-csv/pkg/infra"
	_ "github.com/salesops/go-sales-csv/pkg/metrics"
)

// Ids of redelivered messages are remembered this long before a duplicate
// would run again.
const dedupeRetention = 24 * time.Hour

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

	go startObservabilityServer(cfg.MetricsAddr, logger)

	slog.Info("🔥 Worker initializing...", "queue", cfg.QueueName, "source", cfg.SourceDriver)

	runConsumeLoop(ctx, cfg, generator)
	slog.Info("✅ Shutdown complete")
}

func runConsumeLoop(ctx context.Context, cfg *config.Config, generator *service.Generator) {
	backoff := infra.NewBackoff(1*time.Second, 60*time.Second, 2.0)
	guard := broker.NewDedupe(dedupeRetention)

	for {
		if ctx.Err() != nil {
			return
		}

		consumer, err := broker.NewRabbitMQConsumer(cfg.RabbitMQURL, cfg.ExchangeName, cfg.QueueName, generator, guard, slog.Default())
		if err != nil {
			wait := backoff.Next()
			slog.Error("RabbitMQ link failure, retrying", "wait", wait, "error", err)

			select {
			case <-time.After(wait):
				continue
			case <-ctx.Done():
				return
			}
		}

		slog.Info("RabbitMQ link established 🚀")
		backoff.Reset()

		if err := consumer.Listen(ctx); err != nil {
			slog.Error("Consumer stopped", "error", err)
		}
		consumer.Close()
	}
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

func startObservabilityServer(addr string, logger *slog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	logger.Info("Observability server listening", "addr", addr)
	if err := http.ListenAndServe(addr, mux); err != nil {
		logger.Error("Observability server failure", "error", err)
	}
}
