package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config is read once from the environment (after godotenv has loaded .env)
// and shared by every fx application.
type Config struct {
	Env      string
	LogLevel string

	MongoURI      string
	MongoDatabase string

	FirebaseCredentialsFile string
	FirebaseProjectID       string
	FirebaseDatabaseURL     string

	RedisURL     string
	SyncQueueURL string

	StoreName           string
	LowStockThreshold   int
	ReportCacheTTL      time.Duration
	CheckoutSyncTimeout time.Duration

	// malformed lists keys whose values could not be parsed.
	malformed []string
}

func Load() (Config, error) {
	var malformed []string
	cfg := Config{
		Env:                     env("ENV", "production"),
		LogLevel:                env("LOG_LEVEL", "info"),
		MongoURI:                env("MONGO_URI", ""),
		MongoDatabase:           env("MONGO_DATABASE", "retail"),
		FirebaseCredentialsFile: env("FIREBASE_CREDENTIALS_FILE", ""),
		FirebaseProjectID:       env("FIREBASE_PROJECT_ID", ""),
		FirebaseDatabaseURL:     env("FIREBASE_DATABASE_URL", ""),
		RedisURL:                env("REDIS_URL", ""),
		SyncQueueURL:            env("SYNC_QUEUE_URL", ""),
		StoreName:               env("STORE_NAME", "Corner Store"),
		LowStockThreshold:       intEnv("LOW_STOCK_THRESHOLD", 5, &malformed),
		ReportCacheTTL:          durationEnv("REPORT_CACHE_TTL", 5*time.Minute, &malformed),
		CheckoutSyncTimeout:     durationEnv("CHECKOUT_SYNC_TIMEOUT", 3*time.Second, &malformed),
	}
	cfg.malformed = malformed
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	var missing []string
	if c.MongoURI == "" {
		missing = append(missing, "MONGO_URI")
	}
	if c.FirebaseDatabaseURL == "" {
		missing = append(missing, "FIREBASE_DATABASE_URL")
	}
	if c.RedisURL == "" {
		missing = append(missing, "REDIS_URL")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required environment: %s", strings.Join(missing, ", "))
	}
	if len(c.malformed) > 0 {
		return fmt.Errorf("malformed environment: %s", strings.Join(c.malformed, ", "))
	}
	if c.LowStockThreshold < 0 {
		return errors.New("LOW_STOCK_THRESHOLD must not be negative")
	}
	if c.ReportCacheTTL <= 0 || c.CheckoutSyncTimeout <= 0 {
		return errors.New("REPORT_CACHE_TTL and CHECKOUT_SYNC_TIMEOUT must be positive")
	}
	return nil
}

func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

// UsesQueue reports whether inventory sync events go through SQS instead of
// being applied inline.
func (c Config) UsesQueue() bool {
	return c.SyncQueueURL != ""
}

func env(key, def string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	return v
}

func intEnv(key string, def int, malformed *[]string) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		*malformed = append(*malformed, key)
		return def
	}
	return n
}

func durationEnv(key string, def time.Duration, malformed *[]string) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		*malformed = append(*malformed, key)
		return def
	}
	return d
}
