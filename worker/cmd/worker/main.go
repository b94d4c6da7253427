package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"imageImporter/database"
	"imageImporter/jobs"
	"imageImporter/logging"
	"imageImporter/worker/config"
	"imageImporter/worker/drive"
	"imageImporter/worker/kafka"
	"imageImporter/worker/rabbitmq"
	"imageImporter/worker/repository"
	"imageImporter/worker/retry"
	"imageImporter/worker/service"
	"imageImporter/worker/storage"
	"imageImporter/worker/transfer"
)

type consumer interface {
	Consume(ctx context.Context, handler jobs.Handler) error
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

	logger.Info("Worker Service starting",
		zap.String("broker", cfg.QueueBroker),
		zap.String("storage", cfg.StorageBackend),
		zap.Int("transfer_workers", cfg.TransferWorkers),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Fatal("Worker stopped with error", zap.Error(err))
	}
	logger.Info("Worker stopped")
}

func run(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	pool, rdb, err := waitForDependencies(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer pool.Close()
	defer rdb.Close()

	if err := database.Migrate(cfg.DatabaseURL, logger); err != nil {
		return err
	}

	driveClient, err := drive.NewClient(ctx, cfg.ServiceAccountJSON, cfg.DownloadTimeout)
	if err != nil {
		return fmt.Errorf("init drive client: %w", err)
	}

	uploader, err := storage.New(ctx, storage.Config{
		Backend:   cfg.StorageBackend,
		Endpoint:  cfg.StorageEndpoint,
		AccessKey: cfg.StorageAccessKey,
		SecretKey: cfg.StorageSecretKey,
		Bucket:    cfg.StorageBucket,
		Region:    cfg.StorageRegion,
		UseSSL:    cfg.StorageUseSSL,
		PublicURL: cfg.StoragePublicURL,
	})
	if err != nil {
		return fmt.Errorf("init storage: %w", err)
	}

	transferer := transfer.NewTransferer(driveClient, uploader, retry.TransferPolicy, cfg.StoragePrefix, logger)
	coordinator := service.NewCoordinator(
		drive.NewLister(driveClient, logger),
		transferer,
		cfg.TransferWorkers,
		retry.ImportPolicy,
		logger,
	)
	processor := service.NewProcessor(
		jobs.NewStore(rdb, cfg.JobTTL),
		repository.NewPoolSessions(pool),
		coordinator,
		service.NewReconciler(logger),
		logger,
	)

	queue, err := newConsumer(cfg, logger)
	if err != nil {
		return err
	}
	defer queue.Close()

	healthSrv := newHealthServer(cfg.HealthPort)
	go func() {
		logger.Info("Health server started", zap.String("address", healthSrv.Addr))
		if err := healthSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Health server failed", zap.Error(err))
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		healthSrv.Shutdown(shutdownCtx)
	}()

	logger.Info("Waiting for import jobs")
	return queue.Consume(ctx, processor.Process)
}

// waitForDependencies retries Postgres and Redis until both answer. The
// worker usually starts alongside them.
func waitForDependencies(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*pgxpool.Pool, *redis.Client, error) {
	policy := retry.Policy{MaxAttempts: cfg.DependencyWait, Min: 2 * time.Second, Max: 2 * time.Second}

	var pool *pgxpool.Pool
	err := retry.Do(ctx, policy, func(ctx context.Context) error {
		var err error
		pool, err = database.ConnectPostgres(ctx, cfg.DatabaseURL)
		return err
	}, func(attempt int, err error) {
		logger.Warn("Postgres not ready", zap.Int("attempt", attempt), zap.Error(err))
	})
	if err != nil {
		return nil, nil, fmt.Errorf("connect to postgres: %w", err)
	}

	var rdb *redis.Client
	err = retry.Do(ctx, policy, func(ctx context.Context) error {
		var err error
		rdb, err = database.ConnectRedis(ctx, cfg.RedisURL)
		return err
	}, func(attempt int, err error) {
		logger.Warn("Redis not ready", zap.Int("attempt", attempt), zap.Error(err))
	})
	if err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("connect to redis: %w", err)
	}

	logger.Info("Dependencies ready")
	return pool, rdb, nil
}

func newConsumer(cfg *config.Config, logger *zap.Logger) (consumer, error) {
	switch cfg.QueueBroker {
	case "kafka":
		c, err := kafka.NewConsumer(cfg.KafkaBrokers, cfg.KafkaGroupID, cfg.KafkaTopic, logger)
		if err != nil {
			return nil, fmt.Errorf("init kafka consumer: %w", err)
		}
		return c, nil
	case "rabbitmq":
		c, err := rabbitmq.NewConsumer(cfg.RabbitMQURL, cfg.QueueName, logger)
		if err != nil {
			return nil, fmt.Errorf("init rabbitmq consumer: %w", err)
		}
		return c, nil
	default:
		return nil, fmt.Errorf("unsupported queue broker: %s", cfg.QueueBroker)
	}
}

func newHealthServer(port string) *http.Server {
	r := chi.NewRouter()
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok","service":"worker"}`))
	})
	r.Handle("/metrics", promhttp.Handler())

	return &http.Server{
		Addr:              ":" + port,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}
}
