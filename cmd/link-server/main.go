package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/Varun5711/deeplinks/internal/auth"
	"github.com/Varun5711/deeplinks/internal/cache"
	"github.com/Varun5711/deeplinks/internal/config"
	"github.com/Varun5711/deeplinks/internal/database"
	"github.com/Varun5711/deeplinks/internal/events"
	"github.com/Varun5711/deeplinks/internal/handlers"
	"github.com/Varun5711/deeplinks/internal/logger"
	"github.com/Varun5711/deeplinks/internal/middleware"
	"github.com/Varun5711/deeplinks/internal/redis"
	"github.com/Varun5711/deeplinks/internal/server"
	"github.com/Varun5711/deeplinks/internal/service"
	"github.com/Varun5711/deeplinks/internal/storage"
	goredis "github.com/redis/go-redis/v9"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.New("link-server").Fatal("Failed to load config: %v", err)
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
	log := logger.New("link-server")
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

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

	var dbManager *database.DBManager
	if cfg.Storage.Backend == "postgres" || cfg.Storage.DeferredBackend == "postgres" {
		dbManager, err = database.NewDBManager(ctx, database.Config{
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
	}

	store, err := openLinkStore(ctx, cfg, dbManager)
	if err != nil {
		log.Fatal("Failed to open link storage: %v", err)
	}
	defer store.Close()

	deferredStore := openDeferredStore(cfg, dbManager, redisClient)
	defer deferredStore.Close()

	log.Info("Storage: links=%s deferred=%s", cfg.Storage.Backend, cfg.Storage.DeferredBackend)

	linkCache := cache.NewLinkCache(cfg.Cache.L1Capacity, redisClient, cfg.Cache.L2TTL)

	var publisher events.Publisher = events.NoopPublisher{}
	if redisClient != nil {
		publisher = events.NewVisitProducer(redisClient, cfg.Redis.StreamName)
	}

	linkService := service.NewLinkService(store, linkCache, cfg)
	deferredService := service.NewDeferredService(deferredStore, linkService, cfg.Responder.DeferredTTL)

	// Shared backends are purged by cleanup-worker; redis expires on its own.
	if cfg.Storage.DeferredBackend == "memory" {
		go deferredService.RunPurger(ctx, cfg.Cleanup.Interval)
	}

	var jwtManager *auth.JWTManager
	if cfg.Auth.JWTSecret != "" {
		jwtManager = auth.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.TokenDuration)
	} else {
		log.Warn("API_JWT_SECRET is not set; management endpoints are unauthenticated")
	}

	router := &handlers.Router{
		Links:     handlers.NewLinkHandler(linkService),
		Redirect:  handlers.NewRedirectHandler(linkService, deferredService, publisher, cfg),
		Deferred:  handlers.NewDeferredHandler(deferredService),
		WellKnown: handlers.NewWellKnownHandler(cfg.App),
		Status:    handlers.NewStatusHandler(linkService, cfg),
		Auth:      middleware.NewAuthMiddleware(jwtManager),
	}
	if !cfg.IsProduction() {
		router.Docs = handlers.NewSwaggerHandler()
	}
	if redisClient != nil {
		router.Stats = handlers.NewStatsHandler(linkService, events.NewStatsReader(redisClient))
	}

	var rateLimiter *middleware.RateLimiter
	if cfg.RateLimit.Requests > 0 {
		rateLimiter = middleware.NewRateLimiter(redisClient, cfg.RateLimit.Requests, cfg.RateLimit.Window, cfg.RateLimit.TrustProxy)
	}

	handler := server.NewHandler(router.Routes(), log, rateLimiter)

	log.Info("Dynamic links server for %s (%s)", cfg.Server.Domain, cfg.Env)

	if err := server.New(cfg.Server, handler, log).Run(ctx); err != nil {
		log.Fatal("Server error: %v", err)
	}
}

func openLinkStore(ctx context.Context, cfg *config.Config, db *database.DBManager) (storage.Storage, error) {
	switch cfg.Storage.Backend {
	case "postgres":
		return storage.NewPostgresStorage(db), nil
	case "sqlite":
		return storage.NewSQLiteStorage(ctx, cfg.Storage.SQLiteURL)
	default:
		return storage.NewMemoryStorage(), nil
	}
}

func openDeferredStore(cfg *config.Config, db *database.DBManager, client *goredis.Client) storage.DeferredStore {
	switch cfg.Storage.DeferredBackend {
	case "postgres":
		return storage.NewPostgresDeferredStore(db)
	case "redis":
		return storage.NewRedisDeferredStore(client)
	default:
		return storage.NewMemoryDeferredStore()
	}
}
