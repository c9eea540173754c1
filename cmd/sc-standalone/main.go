package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/tuanvumaihuynh/storefront-catalog/internal/auth"
	"github.com/tuanvumaihuynh/storefront-catalog/internal/config"
	"github.com/tuanvumaihuynh/storefront-catalog/internal/event"
	"github.com/tuanvumaihuynh/storefront-catalog/internal/http"
	"github.com/tuanvumaihuynh/storefront-catalog/internal/log"
	"github.com/tuanvumaihuynh/storefront-catalog/internal/media"
	"github.com/tuanvumaihuynh/storefront-catalog/internal/relay"
	"github.com/tuanvumaihuynh/storefront-catalog/internal/repository"
	"github.com/tuanvumaihuynh/storefront-catalog/internal/service"
	"github.com/tuanvumaihuynh/storefront-catalog/internal/storage/db"
	"github.com/tuanvumaihuynh/storefront-catalog/internal/storage/mq"
	"github.com/tuanvumaihuynh/storefront-catalog/internal/telemetry"
	"github.com/tuanvumaihuynh/storefront-catalog/pkg/cmdutil"
)

func main() {
	if err := run(); err != nil {
		fmt.Printf("error running standalone application: %v\n", err)
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
		HTTP     config.HTTP
		Admin    config.Admin
		Media    config.Media
		Relay    config.Relay
		Kafka    config.Kafka
		Otel     config.Otel
	}
	cfg, err := config.New[Config]()
	if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}

	logger := log.NewSlogLogger(cfg.Log)

	cleanupTracer, err := telemetry.InitTracer(ctx, cfg.Otel)
	if err != nil {
		return fmt.Errorf("error initializing tracer: %w", err)
	}
	defer func() {
		if err := cleanupTracer(ctx); err != nil {
			logger.ErrorContext(ctx, "error cleaning up tracer", slog.Any("error", err))
		}
	}()

	pgxPool, err := db.NewPgxPool(ctx, cfg.Postgres)
	if err != nil {
		return fmt.Errorf("error creating pgx pool: %w", err)
	}
	defer pgxPool.Close()

	dbClient := db.NewClient(pgxPool)

	kafkaProducer, err := mq.NewKafkaProducer(ctx, cfg.Kafka)
	if err != nil {
		return fmt.Errorf("error creating kafka producer: %w", err)
	}
	defer kafkaProducer.Close()

	kafkaConsumer, err := mq.NewKafkaConsumer(ctx, cfg.Kafka, logger)
	if err != nil {
		return fmt.Errorf("error creating kafka consumer: %w", err)
	}
	defer kafkaConsumer.Close()

	uploader, err := media.New(cfg.Media)
	if err != nil {
		return fmt.Errorf("error creating media uploader: %w", err)
	}

	var throttle *auth.Throttle
	if cfg.Admin.FailedAttemptsPerMinute > 0 {
		throttle, err = auth.NewThrottle(cfg.Admin.FailedAttemptsPerMinute, cfg.Admin.TrackedClients)
		if err != nil {
			return fmt.Errorf("error creating admin throttle: %w", err)
		}
	}

	productRepository := repository.NewProductRepository(dbClient)
	promoCodeRepository := repository.NewPromoCodeRepository(dbClient)
	outboxMsgRepository := repository.NewOutboxMsgRepository(dbClient)

	productService := service.NewProductService(dbClient, productRepository, outboxMsgRepository)
	promoService := service.NewPromoService(dbClient, promoCodeRepository, outboxMsgRepository)
	uploadService := service.NewUploadService(logger, uploader, cfg.Media.UploadTimeout, "")

	httpDeps := http.Dependencies{
		ProductSvc:    productService,
		PromoSvc:      promoService,
		UploadSvc:     uploadService,
		Verifier:      auth.NewStaticSecret(cfg.Admin.Password),
		Throttle:      throttle,
		HealthChecker: dbClient,
	}
	if local, ok := uploader.(*media.Local); ok {
		httpDeps.StaticMedia = &http.StaticMedia{
			PublicPath: cfg.Media.LocalPublicPath,
			Dir:        local.Dir(),
		}
	}

	interruptChan := cmdutil.InterruptChan()
	var wg sync.WaitGroup

	wg.Go(func() {
		svc := event.New(logger, kafkaConsumer)
		cleanup, err := svc.Run(ctx)
		if err != nil {
			panic(fmt.Errorf("error running event service: %w", err))
		}
		logger.InfoContext(ctx, "event service started")

		<-interruptChan

		logger.InfoContext(ctx, "event service is shutting down")
		cleanup()

		logger.InfoContext(ctx, "event service is stopped")
	})

	wg.Go(func() {
		svc := http.New(cfg.HTTP, logger, httpDeps)
		cleanup, err := svc.Run(ctx)
		if err != nil {
			panic(fmt.Errorf("error running http service: %w", err))
		}

		logger.InfoContext(ctx, "http service started",
			slog.String("address", fmt.Sprintf(":%d", cfg.HTTP.Port)),
			slog.String("media_driver", cfg.Media.Driver.String()),
		)

		<-interruptChan

		logger.InfoContext(ctx, "http service is shutting down")
		if err := cleanup(ctx); err != nil {
			logger.ErrorContext(ctx, "error shutting down http service", slog.Any("error", err))
		}

		logger.InfoContext(ctx, "http service is stopped")
	})

	wg.Go(func() {
		svc := relay.NewService(cfg.Relay, logger, dbClient, outboxMsgRepository, kafkaProducer)
		cleanup := svc.Run(ctx)
		logger.InfoContext(ctx, "relay service started")

		<-interruptChan

		logger.InfoContext(ctx, "relay service is shutting down")
		cleanup()

		logger.InfoContext(ctx, "relay service is stopped")
	})

	wg.Wait()

	return nil
}
