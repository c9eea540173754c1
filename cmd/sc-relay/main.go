// Command sc-relay publishes catalog change events from the outbox table to Kafka.
// Run it alongside API instances started without their own relay.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/tuanvumaihuynh/storefront-catalog/internal/config"
	"github.com/tuanvumaihuynh/storefront-catalog/internal/event"
	"github.com/tuanvumaihuynh/storefront-catalog/internal/log"
	"github.com/tuanvumaihuynh/storefront-catalog/internal/relay"
	"github.com/tuanvumaihuynh/storefront-catalog/internal/repository"
	"github.com/tuanvumaihuynh/storefront-catalog/internal/storage/db"
	"github.com/tuanvumaihuynh/storefront-catalog/internal/storage/mq"
	"github.com/tuanvumaihuynh/storefront-catalog/internal/telemetry"
	"github.com/tuanvumaihuynh/storefront-catalog/pkg/cmdutil"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "sc-relay: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	time.Local = time.UTC

	type Config struct {
		Log      config.Log
		Postgres config.Postgres
		Relay    config.Relay
		Kafka    config.Kafka
		Otel     config.Otel
	}
	cfg, err := config.New[Config]()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger := log.NewSlogLogger(cfg.Log).With(slog.String("component", "catalog-relay"))

	cleanupTracer, err := telemetry.InitTracer(ctx, cfg.Otel)
	if err != nil {
		return fmt.Errorf("init tracer: %w", err)
	}
	defer func() {
		if err := cleanupTracer(context.WithoutCancel(ctx)); err != nil {
			logger.ErrorContext(ctx, "error cleaning up tracer", slog.Any("error", err))
		}
	}()

	pgxPool, err := db.NewPgxPool(ctx, cfg.Postgres)
	if err != nil {
		return fmt.Errorf("connect %s: %w", cfg.Postgres, err)
	}
	defer pgxPool.Close()

	dbClient := db.NewClient(pgxPool)

	kafkaProducer, err := mq.NewKafkaProducer(ctx, cfg.Kafka)
	if err != nil {
		return fmt.Errorf("connect kafka %v: %w", cfg.Kafka.Addresses, err)
	}
	defer kafkaProducer.Close()

	svc := relay.NewService(cfg.Relay, logger, dbClient, repository.NewOutboxMsgRepository(dbClient), kafkaProducer)

	interruptChan := cmdutil.InterruptChan()

	cleanup := svc.Run(ctx)
	logger.InfoContext(ctx, "relaying catalog events",
		slog.String("postgres", cfg.Postgres.String()),
		slog.Any("kafka", cfg.Kafka.Addresses),
		slog.String("client_id", cfg.Kafka.ClientID),
		slog.Any("topics", []string{
			event.TopicProductCreated,
			event.TopicProductUpdated,
			event.TopicProductDeleted,
			event.TopicPromoCreated,
		}),
		slog.Duration("interval", cfg.Relay.Interval),
		slog.Uint64("batch_size", uint64(cfg.Relay.BatchSize)),
	)

	<-interruptChan

	logger.InfoContext(ctx, "stopping catalog relay")
	cleanup()

	drainOutbox(ctx, svc, logger, cfg.Relay.ProduceTimeout)

	logger.InfoContext(ctx, "catalog relay stopped")

	return nil
}

// drainOutbox runs one last relay pass so events committed just before
// shutdown are published now rather than by the next relay instance.
func drainOutbox(ctx context.Context, svc *relay.Service, logger *slog.Logger, timeout time.Duration) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), timeout)
	defer cancel()

	n, err := svc.RelayOnce(ctx)
	if err != nil {
		logger.WarnContext(ctx, "final outbox pass failed", slog.Any("error", err))
		return
	}
	if n > 0 {
		logger.InfoContext(ctx, "published pending catalog events before exit", slog.Int("count", n))
	}
}
