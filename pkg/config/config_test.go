package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Setenv("MONGO_URI", "mongodb://localhost:27017")
	t.Setenv("FIREBASE_DATABASE_URL", "https://demo.firebaseio.com")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")
}

func TestLoad_Defaults(t *testing.T) {
	setRequired(t)
	t.Setenv("ENV", "")
	t.Setenv("SYNC_QUEUE_URL", "")
	t.Setenv("LOW_STOCK_THRESHOLD", "")
	t.Setenv("REPORT_CACHE_TTL", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "production", cfg.Env)
	assert.Equal(t, "retail", cfg.MongoDatabase)
	assert.Equal(t, 5, cfg.LowStockThreshold)
	assert.Equal(t, 5*time.Minute, cfg.ReportCacheTTL)
	assert.Equal(t, 3*time.Second, cfg.CheckoutSyncTimeout)
	assert.False(t, cfg.UsesQueue())
	assert.False(t, cfg.IsDevelopment())
}

func TestLoad_Overrides(t *testing.T) {
	setRequired(t)
	t.Setenv("ENV", "development")
	t.Setenv("SYNC_QUEUE_URL", "https://sqs.local/queue")
	t.Setenv("LOW_STOCK_THRESHOLD", "12")
	t.Setenv("REPORT_CACHE_TTL", "30s")
	t.Setenv("CHECKOUT_SYNC_TIMEOUT", "750ms")

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.IsDevelopment())
	assert.True(t, cfg.UsesQueue())
	assert.Equal(t, 12, cfg.LowStockThreshold)
	assert.Equal(t, 30*time.Second, cfg.ReportCacheTTL)
	assert.Equal(t, 750*time.Millisecond, cfg.CheckoutSyncTimeout)
}

func TestLoad_MalformedValuesAreReported(t *testing.T) {
	setRequired(t)
	t.Setenv("LOW_STOCK_THRESHOLD", "five")
	t.Setenv("REPORT_CACHE_TTL", "")
	t.Setenv("CHECKOUT_SYNC_TIMEOUT", "not-a-duration")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "LOW_STOCK_THRESHOLD")
	assert.Contains(t, err.Error(), "CHECKOUT_SYNC_TIMEOUT")
	assert.NotContains(t, err.Error(), "REPORT_CACHE_TTL")
}

func TestValidate_NonPositiveDurations(t *testing.T) {
	cfg := Config{
		MongoURI:            "mongodb://x",
		FirebaseDatabaseURL: "https://x",
		RedisURL:            "redis://x",
		ReportCacheTTL:      time.Minute,
	}
	assert.Error(t, cfg.Validate())
}

func TestLoad_MissingRequired(t *testing.T) {
	t.Setenv("MONGO_URI", "")
	t.Setenv("FIREBASE_DATABASE_URL", "")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "MONGO_URI")
	assert.Contains(t, err.Error(), "FIREBASE_DATABASE_URL")
	assert.NotContains(t, err.Error(), "REDIS_URL")
}

func TestValidate_NegativeThreshold(t *testing.T) {
	cfg := Config{
		MongoURI:            "mongodb://x",
		FirebaseDatabaseURL: "https://x",
		RedisURL:            "redis://x",
		LowStockThreshold:   -1,
		ReportCacheTTL:      time.Minute,
		CheckoutSyncTimeout: time.Second,
	}
	assert.Error(t, cfg.Validate())
}
