package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("STORE_DRIVER", "")
	t.Setenv("KAFKA_BROKERS", "")
	t.Setenv("REDIS_DB", "not-a-number")
	t.Setenv("AUTH_RATE_LIMIT_PER_MINUTE", "")

	cfg := Load()
	assert.Equal(t, DriverMySQL, cfg.StoreDriver)
	assert.Equal(t, 0, cfg.RedisDB)
	assert.Empty(t, cfg.KafkaBrokers)
	assert.Equal(t, 20, cfg.AuthRateLimitPerMinute)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("STORE_DRIVER", "SQLite")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092,")
	t.Setenv("APP_ENV", "development")
	t.Setenv("AUTH_RATE_LIMIT_PER_MINUTE", "5")

	cfg := Load()
	assert.Equal(t, DriverSQLite, cfg.StoreDriver)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.KafkaBrokers)
	assert.True(t, cfg.IsDevelopment())
	assert.Equal(t, 5, cfg.AuthRateLimitPerMinute)
}
