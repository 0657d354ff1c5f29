package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/tuanvumaihuynh/productstack/internal/config"
	"github.com/tuanvumaihuynh/productstack/internal/event"
	"github.com/tuanvumaihuynh/productstack/internal/http"
	"github.com/tuanvumaihuynh/productstack/internal/log"
	"github.com/tuanvumaihuynh/productstack/internal/relay"
	"github.com/tuanvumaihuynh/productstack/internal/repository"
	"github.com/tuanvumaihuynh/productstack/internal/service"
	"github.com/tuanvumaihuynh/productstack/internal/storage/db"
	"github.com/tuanvumaihuynh/productstack/internal/storage/image"
	"github.com/tuanvumaihuynh/productstack/internal/storage/mq"
	"github.com/tuanvumaihuynh/productstack/internal/telemetry"
	"github.com/tuanvumaihuynh/productstack/pkg/cmdutil"
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
		Store    config.Store
		HTTP     config.HTTP
		Image    config.Image
		Auth     config.Auth
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

	images, err := image.New(cfg.Image)
	if err != nil {
		return fmt.Errorf("error creating image store: %w", err)
	}
	logger.InfoContext(ctx, "image store ready", slog.String("strategy", images.Strategy().String()))

	counterRepository := repository.NewCounterRepository(dbClient)
	productRepository := repository.NewProductRepository(dbClient)
	outboxMsgRepository := repository.NewOutboxMsgRepository(dbClient)
	userRepository := repository.NewUserRepository(dbClient)

	productService := service.NewProductService(
		logger,
		cfg.Store,
		cfg.Image,
		dbClient,
		counterRepository,
		productRepository,
		outboxMsgRepository,
		images,
	)
	authService := service.NewAuthService(logger, cfg.Auth, cfg.Store, userRepository)

	interruptChan := cmdutil.InterruptChan()
	var wg sync.WaitGroup

	if cfg.Relay.Enabled {
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
			svc := relay.NewService(cfg.Relay, logger, dbClient, outboxMsgRepository, kafkaProducer)
			cleanup := svc.Run(ctx)
			logger.InfoContext(ctx, "relay service started")

			<-interruptChan

			logger.InfoContext(ctx, "relay service is shutting down")
			cleanup()

			logger.InfoContext(ctx, "relay service is stopped")
		})
	} else {
		logger.InfoContext(ctx, "relay disabled, product events stay in the outbox")
	}

	svc, err := http.New(cfg.HTTP, cfg.Auth, cfg.Image, logger, productService, authService, dbClient, images)
	if err != nil {
		return fmt.Errorf("error creating http service: %w", err)
	}

	wg.Go(func() {
		cleanup, err := svc.Run(ctx)
		if err != nil {
			panic(fmt.Errorf("error running http service: %w", err))
		}

		logger.InfoContext(ctx, "http service started", slog.String("address", fmt.Sprintf(":%d", cfg.HTTP.Port)))

		<-interruptChan

		logger.InfoContext(ctx, "http service is shutting down")
		if err := cleanup(ctx); err != nil {
			logger.ErrorContext(ctx, "error shutting down http service", slog.Any("error", err))
		}

		logger.InfoContext(ctx, "http service is stopped")
	})

	wg.Wait()

	return nil
}
