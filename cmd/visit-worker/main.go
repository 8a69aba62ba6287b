package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/Varun5711/deeplinks/internal/config"
	"github.com/Varun5711/deeplinks/internal/events"
	"github.com/Varun5711/deeplinks/internal/logger"
	"github.com/Varun5711/deeplinks/internal/redis"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.New("visit-worker").Fatal("Failed to load config: %v", err)
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
	log := logger.New("visit-worker")
	defer log.Sync()
	if !cfg.Redis.Enabled() {
		log.Fatal("REDIS_URL or REDIS_ADDR is required for the visit worker")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	redisClient, err := redis.NewRedisClient(ctx, redis.Config{
		URL:      cfg.Redis.URL,
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		PoolSize: cfg.Redis.PoolSize,
	})
	if err != nil {
		log.Fatal("Failed to connect to Redis: %v", err)
	}
	defer redisClient.Close()

	consumer := events.NewVisitConsumer(
		redisClient.GetClient(),
		cfg.Redis.StreamName,
		cfg.Visits.ConsumerGroup,
		cfg.Visits.ConsumerName,
		cfg.Visits.BatchSize,
		cfg.Visits.BlockTime,
	)

	if err := consumer.EnsureGroup(ctx); err != nil {
		log.Fatal("%v", err)
	}

	log.Info("Processing visit events from %s as %s/%s", cfg.Redis.StreamName, cfg.Visits.ConsumerGroup, cfg.Visits.ConsumerName)

	if err := consumer.Run(ctx); err != nil {
		log.Error("Visit consumer stopped: %v", err)
	}

	log.Info("Shutting down")
}
