package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"imageImporter/api/cache"
	"imageImporter/api/config"
	"imageImporter/api/handlers"
	"imageImporter/api/kafka"
	"imageImporter/api/rabbitmq"
	"imageImporter/api/repository"
	"imageImporter/api/server"
	"imageImporter/api/service"
	"imageImporter/database"
	"imageImporter/jobs"
	"imageImporter/logging"
)

type publisher interface {
	service.Publisher
	Close() error
}

func main() {
	cfg := config.Load()

	logger, err := logging.New(cfg.Env, cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("API Service starting",
		zap.String("port", cfg.Port),
		zap.String("broker", cfg.QueueBroker),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := database.ConnectPostgres(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("Failed to connect to Postgres", zap.Error(err))
	}
	defer pool.Close()

	if err := database.Migrate(cfg.DatabaseURL, logger); err != nil {
		logger.Fatal("Failed to apply migrations", zap.Error(err))
	}

	rdb, err := database.ConnectRedis(ctx, cfg.RedisURL)
	if err != nil {
		logger.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer rdb.Close()

	producer, err := newPublisher(cfg)
	if err != nil {
		logger.Fatal("Failed to connect to broker", zap.Error(err))
	}
	defer producer.Close()

	store := jobs.NewStore(rdb, cfg.JobTTL)

	srv := server.New(cfg.Port, cfg.CORSOrigins, server.Handlers{
		Import: handlers.NewImportHandler(service.NewImportService(store, producer, logger), logger),
		Jobs:   handlers.NewJobsHandler(service.NewJobService(store, cache.NewJobCache(cfg.JobCacheSize, cfg.JobCacheTTL)), logger),
		Images: handlers.NewImagesHandler(service.NewImageService(repository.NewPostgresRepo(pool)), logger),
		Health: handlers.NewHealthHandler(
			pool,
			handlers.PingerFunc(func(ctx context.Context) error { return rdb.Ping(ctx).Err() }),
			logger,
		),
	}, logger)

	if err := srv.Run(ctx); err != nil {
		logger.Error("Server stopped with error", zap.Error(err))
	}
}

func newPublisher(cfg *config.Config) (publisher, error) {
	switch cfg.QueueBroker {
	case "kafka":
		p, err := kafka.NewProducer(cfg.KafkaBrokers, cfg.KafkaTopic)
		if err != nil {
			return nil, fmt.Errorf("init kafka producer: %w", err)
		}
		return p, nil
	case "rabbitmq":
		p, err := rabbitmq.NewProducer(cfg.RabbitMQURL, cfg.QueueName)
		if err != nil {
			return nil, fmt.Errorf("init rabbitmq producer: %w", err)
		}
		return p, nil
	default:
		return nil, fmt.Errorf("unsupported queue broker: %s", cfg.QueueBroker)
	}
}
