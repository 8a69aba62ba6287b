package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Env       string
	Server    ServerConfig
	App       AppConfig
	Responder ResponderConfig
	Storage   StorageConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Cache     CacheConfig
	RateLimit RateLimitConfig
	Auth      AuthConfig
	Log       LogConfig
	Cleanup   CleanupConfig
	Visits    VisitsConfig
}

type ServerConfig struct {
	Port     string
	Domain   string
	BaseURL  string
	TLSAuto  bool
	TLSEmail string
}

// AppConfig describes the native app the links point at. Its values fill in
// whatever a create-link request leaves out.
type AppConfig struct {
	Name               string
	IOSAppID           string
	IOSTeamID          string
	IOSBundleID        string
	AndroidPackage     string
	AndroidCertSHA256  []string
	IOSScheme          string
	AndroidScheme      string
	DefaultIOSURL      string
	DefaultAndroidURL  string
	IOSStoreURL        string
	AndroidStoreURL    string
	DefaultTitle       string
	DefaultDescription string
	DefaultImage       string
}

type ResponderConfig struct {
	AppOpenTimeout  time.Duration
	DeferredTTL     time.Duration
	ShortCodeLength int
}

type StorageConfig struct {
	Backend         string
	DeferredBackend string
	SQLiteURL       string
}

type DatabaseConfig struct {
	PrimaryDSN      string
	ReplicaDSNs     []string
	MaxConns        int32
	MinConns        int32
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
}

type RedisConfig struct {
	URL        string
	Addr       string
	Password   string
	DB         int
	PoolSize   int
	StreamName string
}

func (r RedisConfig) Enabled() bool {
	return r.URL != "" || r.Addr != ""
}

type CacheConfig struct {
	L1Capacity int
	L2TTL      time.Duration
}

type RateLimitConfig struct {
	Requests int
	Window   time.Duration
	// TrustProxy keys limits on X-Forwarded-For / X-Real-IP. Enable only
	// behind a proxy that sets those headers itself.
	TrustProxy bool
}

type AuthConfig struct {
	JWTSecret     string
	TokenDuration time.Duration
}

type LogConfig struct {
	Level      string
	Format     string
	Colors     bool
	File       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

type CleanupConfig struct {
	Interval time.Duration
}

// VisitsConfig drives the visit-worker's consumer group on the visit stream.
type VisitsConfig struct {
	ConsumerGroup string
	ConsumerName  string
	BatchSize     int
	BlockTime     time.Duration
}

func Load() (*Config, error) {
	env := getEnv("NODE_ENV", getEnv("APP_ENV", "development"))

	// Missing env files are fine: containers inject the environment directly.
	envFile := ".dev.env"
	if env == "production" {
		envFile = ".prod.env"
	}
	if err := godotenv.Load(envFile); err != nil {
		_ = godotenv.Load()
	}

	port := getEnv("PORT", "3000")
	domain := getEnv("DOMAIN", "localhost:"+port)

	baseURL := getEnv("BASE_URL", "")
	if baseURL == "" {
		if env == "production" {
			baseURL = "https://" + domain
		} else {
			baseURL = "http://localhost:" + port
		}
	}

	iosScheme := getEnv("IOS_SCHEME", "zuaiapp")
	androidScheme := getEnv("ANDROID_SCHEME", "zuaiapp")
	appHost := getEnv("APP_LINK_HOST", "zuai.co")

	cfg := &Config{
		Env: env,
		Server: ServerConfig{
			Port:     port,
			Domain:   domain,
			BaseURL:  strings.TrimRight(baseURL, "/"),
			TLSAuto:  getEnvAsBool("TLS_AUTO", false),
			TLSEmail: getEnv("TLS_EMAIL", ""),
		},
		App: AppConfig{
			Name:               getEnv("APP_NAME", "ZuAI"),
			IOSAppID:           getEnv("IOS_APP_ID", "id1609941536"),
			IOSTeamID:          getEnv("IOS_TEAM_ID", ""),
			IOSBundleID:        getEnv("IOS_BUNDLE_ID", "in.zupay.app"),
			AndroidPackage:     getEnv("ANDROID_PACKAGE", "in.zupay.app"),
			AndroidCertSHA256:  getEnvAsList("ANDROID_SHA256_FINGERPRINTS"),
			IOSScheme:          iosScheme,
			AndroidScheme:      androidScheme,
			DefaultIOSURL:      getEnv("DEFAULT_IOS_URL", iosScheme+"://"+appHost+"/"),
			DefaultAndroidURL:  getEnv("DEFAULT_ANDROID_URL", androidScheme+"://"+appHost+"/"),
			IOSStoreURL:        getEnv("IOS_STORE_URL", "https://apps.apple.com/us/app/zuai-ace-ap-sat-act-tests/id1609941536"),
			AndroidStoreURL:    getEnv("ANDROID_STORE_URL", "https://play.google.com/store/apps/details?id=in.zupay.app"),
			DefaultTitle:       getEnv("DEFAULT_TITLE", "Open in App?"),
			DefaultDescription: getEnv("DEFAULT_DESCRIPTION", ""),
			DefaultImage:       getEnv("DEFAULT_IMAGE", "https://storage.googleapis.com/zuai-media-storage-in/web-lp/metadata/main_og_image.png"),
		},
		Responder: ResponderConfig{
			AppOpenTimeout:  getEnvAsDuration("APP_OPEN_TIMEOUT", 3*time.Second),
			DeferredTTL:     getEnvAsDuration("DEFERRED_TTL", 24*time.Hour),
			ShortCodeLength: getEnvAsInt("SHORT_CODE_LENGTH", 8),
		},
		Storage: StorageConfig{
			Backend:         strings.ToLower(getEnv("STORAGE_BACKEND", "memory")),
			DeferredBackend: strings.ToLower(getEnv("DEFERRED_BACKEND", "memory")),
			SQLiteURL:       getEnv("SQLITE_URL", "file:deeplinks.db"),
		},
		Database: DatabaseConfig{
			PrimaryDSN:      getEnv("DB_PRIMARY_DSN", ""),
			ReplicaDSNs:     getEnvAsList("DB_REPLICA_DSNS"),
			MaxConns:        int32(getEnvAsInt("DB_MAX_CONNS", 25)),
			MinConns:        int32(getEnvAsInt("DB_MIN_CONNS", 2)),
			MaxConnLifetime: getEnvAsDuration("DB_MAX_CONN_LIFETIME", time.Hour),
			MaxConnIdleTime: getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", 30*time.Minute),
		},
		Redis: RedisConfig{
			URL:        getEnv("REDIS_URL", ""),
			Addr:       getEnv("REDIS_ADDR", ""),
			Password:   getEnv("REDIS_PASSWORD", ""),
			DB:         getEnvAsInt("REDIS_DB", 0),
			PoolSize:   getEnvAsInt("REDIS_POOL_SIZE", 10),
			StreamName: getEnv("REDIS_STREAM_NAME", "visits:stream"),
		},
		Cache: CacheConfig{
			L1Capacity: getEnvAsInt("CACHE_L1_CAPACITY", 10000),
			L2TTL:      getEnvAsDuration("CACHE_L2_TTL", time.Hour),
		},
		RateLimit: RateLimitConfig{
			Requests:   getEnvAsInt("RATE_LIMIT_REQUESTS", 120),
			Window:     getEnvAsDuration("RATE_LIMIT_WINDOW", time.Minute),
			TrustProxy: getEnvAsBool("TRUST_PROXY", false),
		},
		Auth: AuthConfig{
			JWTSecret:     getEnv("API_JWT_SECRET", ""),
			TokenDuration: getEnvAsDuration("API_TOKEN_DURATION", 30*24*time.Hour),
		},
		Log: LogConfig{
			Level:      getEnv("LOG_LEVEL", "info"),
			Format:     getEnv("LOG_FORMAT", "console"),
			Colors:     getEnvAsBool("LOG_COLORS", true),
			File:       getEnv("LOG_FILE", ""),
			MaxSizeMB:  getEnvAsInt("LOG_MAX_SIZE_MB", 100),
			MaxBackups: getEnvAsInt("LOG_MAX_BACKUPS", 3),
			MaxAgeDays: getEnvAsInt("LOG_MAX_AGE_DAYS", 7),
		},
		Cleanup: CleanupConfig{
			Interval: getEnvAsDuration("CLEANUP_INTERVAL", time.Hour),
		},
		Visits: VisitsConfig{
			ConsumerGroup: getEnv("VISIT_CONSUMER_GROUP", "visit-workers"),
			ConsumerName:  getEnv("VISIT_CONSUMER_NAME", hostname()),
			BatchSize:     getEnvAsInt("VISIT_BATCH_SIZE", 100),
			BlockTime:     getEnvAsDuration("VISIT_BLOCK_TIME", 5*time.Second),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	switch c.Storage.Backend {
	case "memory", "postgres", "sqlite":
	default:
		return fmt.Errorf("unknown STORAGE_BACKEND %q", c.Storage.Backend)
	}

	switch c.Storage.DeferredBackend {
	case "memory", "redis", "postgres":
	default:
		return fmt.Errorf("unknown DEFERRED_BACKEND %q", c.Storage.DeferredBackend)
	}

	if (c.Storage.Backend == "postgres" || c.Storage.DeferredBackend == "postgres") && c.Database.PrimaryDSN == "" {
		return fmt.Errorf("DB_PRIMARY_DSN is required for the postgres backend")
	}
	if c.Storage.DeferredBackend == "redis" && !c.Redis.Enabled() {
		return fmt.Errorf("REDIS_URL or REDIS_ADDR is required for the redis deferred backend")
	}
	if c.Responder.ShortCodeLength < 4 || c.Responder.ShortCodeLength > 32 {
		return fmt.Errorf("SHORT_CODE_LENGTH must be between 4 and 32")
	}
	if c.Responder.DeferredTTL <= 0 {
		return fmt.Errorf("DEFERRED_TTL must be positive")
	}
	if c.Cleanup.Interval <= 0 {
		return fmt.Errorf("CLEANUP_INTERVAL must be positive")
	}

	return nil
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func hostname() string {
	if name, err := os.Hostname(); err == nil && name != "" {
		return name
	}
	return "visit-worker"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// getEnvAsList splits a comma separated value, dropping empty items.
func getEnvAsList(key string) []string {
	value := os.Getenv(key)
	if value == "" {
		return nil
	}

	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}
