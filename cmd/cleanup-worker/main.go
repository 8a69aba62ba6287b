package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Varun5711/deeplinks/internal/config"
	"github.com/Varun5711/deeplinks/internal/database"
	"github.com/Varun5711/deeplinks/internal/lock"
	"github.com/Varun5711/deeplinks/internal/logger"
	"github.com/Varun5711/deeplinks/internal/redis"
	"github.com/Varun5711/deeplinks/internal/service"
	"github.com/Varun5711/deeplinks/internal/storage"
	goredis "github.com/redis/go-redis/v9"
)

const lockKey = "deeplinks:cleanup:lock"

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.New("cleanup-worker").Fatal("Failed to load config: %v", err)
	}

	logger.Init(logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Colors:     cfg.Log.Colors,
		File:       cfg.Log.File,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAgeDays: cfg.Log.MaxAgeDays,
	})
	log := logger.New("cleanup-worker")
	defer log.Sync()

	if cfg.Storage.DeferredBackend != "postgres" {
		log.Info("Deferred backend %q needs no external cleanup, exiting", cfg.Storage.DeferredBackend)
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbManager, err := database.NewDBManager(ctx, database.Config{
		PrimaryDSN:      cfg.Database.PrimaryDSN,
		ReplicaDSNs:     cfg.Database.ReplicaDSNs,
		MaxConns:        cfg.Database.MaxConns,
		MinConns:        cfg.Database.MinConns,
		MaxConnLifetime: cfg.Database.MaxConnLifetime,
		MaxConnIdleTime: cfg.Database.MaxConnIdleTime,
	})
	if err != nil {
		log.Fatal("Failed to connect to database: %v", err)
	}
	defer dbManager.Close()

	if err := dbManager.Migrate(ctx); err != nil {
		log.Fatal("Failed to migrate database: %v", err)
	}

	var redisClient *goredis.Client
	if cfg.Redis.Enabled() {
		rc, err := redis.NewRedisClient(ctx, redis.Config{
			URL:      cfg.Redis.URL,
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			PoolSize: cfg.Redis.PoolSize,
		})
		if err != nil {
			log.Fatal("Failed to connect to Redis: %v", err)
		}
		defer rc.Close()
		redisClient = rc.GetClient()
	}

	deferred := service.NewDeferredService(storage.NewPostgresDeferredStore(dbManager), nil, cfg.Responder.DeferredTTL)

	log.Info("Cleanup worker started. Running every %v...", cfg.Cleanup.Interval)

	runCleanup(ctx, deferred, redisClient, cfg.Cleanup.Interval, log)

	ticker := time.NewTicker(cfg.Cleanup.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info("Cleanup worker stopped")
			return
		case <-ticker.C:
			runCleanup(ctx, deferred, redisClient, cfg.Cleanup.Interval, log)
		}
	}
}

// runCleanup purges expired deferred entries. With redis available only one
// worker replica purges per interval.
func runCleanup(ctx context.Context, deferred *service.DeferredService, redisClient *goredis.Client, interval time.Duration, log *logger.Logger) {
	purge := func(ctx context.Context) error {
		log.Info("Starting cleanup of expired deferred links...")

		deleted, err := deferred.Purge(ctx)
		if err != nil {
			return err
		}

		if deleted > 0 {
			log.Info("Deleted %d expired deferred links", deleted)
		} else {
			log.Info("No expired deferred links found")
		}
		return nil
	}

	var err error
	if redisClient != nil {
		err = lock.NewDistributedLock(redisClient, lockKey, interval).WithLock(ctx, purge)
	} else {
		err = purge(ctx)
	}

	switch {
	case errors.Is(err, lock.ErrLockNotAcquired):
		log.Debug("Another worker holds the cleanup lock, skipping")
	case err != nil:
		log.Error("Cleanup failed: %v", err)
	}
}
