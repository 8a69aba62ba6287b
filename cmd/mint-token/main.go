package main

import (
	"flag"
	"fmt"
	"time"

	"github.com/Varun5711/deeplinks/internal/auth"
	"github.com/Varun5711/deeplinks/internal/config"
	"github.com/Varun5711/deeplinks/internal/logger"
)

func main() {
	client := flag.String("client", "", "name of the API client the token is issued to")
	scope := flag.String("scope", "links:write", "scope recorded in the token")
	ttl := flag.Duration("ttl", 0, "token lifetime (defaults to API_TOKEN_DURATION)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		logger.New("mint-token").Fatal("Failed to load config: %v", err)
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
	log := logger.New("mint-token")

	if *client == "" {
		log.Fatal("-client is required")
	}
	if cfg.Auth.JWTSecret == "" {
		log.Fatal("API_JWT_SECRET is not set")
	}

	duration := cfg.Auth.TokenDuration
	if *ttl > 0 {
		duration = *ttl
	}

	token, expiresAt, err := auth.NewJWTManager(cfg.Auth.JWTSecret, duration).GenerateToken(*client, *scope)
	if err != nil {
		log.Fatal("Failed to sign token: %v", err)
	}

	log.Info("Issued token for %s, expires %s", *client, expiresAt.Format(time.RFC3339))
	fmt.Println(token)
}
