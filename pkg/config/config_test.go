package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("FANOUT_WORKERS", "")
	t.Setenv("KAFKA_BROKERS", "")

	cfg := Load()
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 4, cfg.FanoutWorkers)
	assert.Equal(t, "memory", cfg.FanoutBackend)
	assert.Equal(t, 72*time.Hour, cfg.JWTTTL)
	assert.Empty(t, cfg.KafkaBrokers)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("FANOUT_BACKEND", "Kafka")
	t.Setenv("FANOUT_WORKERS", "16")
	t.Setenv("TRENDING_CACHE_TTL", "30s")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092,")

	cfg := Load()
	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, "kafka", cfg.FanoutBackend)
	assert.Equal(t, 16, cfg.FanoutWorkers)
	assert.Equal(t, 30*time.Second, cfg.TrendingCacheTTL)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.KafkaBrokers)
}

func TestInvalidNumbersFallBack(t *testing.T) {
	t.Setenv("FANOUT_QUEUE_SIZE", "lots")
	t.Setenv("JWT_TTL", "-1h")

	cfg := Load()
	assert.Equal(t, 1024, cfg.FanoutQueueSize)
	assert.Equal(t, 72*time.Hour, cfg.JWTTTL)
}
