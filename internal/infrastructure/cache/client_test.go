package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestApplyDefaults(t *testing.T) {
	t.Parallel()

	cfg := Config{}
	applyDefaults(&cfg)

	assert.Equal(t, "localhost:6379", cfg.Addr)
	assert.Equal(t, 10, cfg.PoolSize)
	assert.Equal(t, 2, cfg.MinIdleConns)
	assert.Equal(t, 5*time.Second, cfg.DialTimeout)
	assert.Equal(t, 3*time.Second, cfg.ReadTimeout)
	assert.Equal(t, 3*time.Second, cfg.WriteTimeout)
}

func TestApplyDefaults_PreservesExplicitValues(t *testing.T) {
	t.Parallel()

	cfg := Config{
		Addr:         "cache.internal:6380",
		DB:           3,
		PoolSize:     32,
		MinIdleConns: 8,
		DialTimeout:  time.Second,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
	}
	applyDefaults(&cfg)

	assert.Equal(t, "cache.internal:6380", cfg.Addr)
	assert.Equal(t, 3, cfg.DB)
	assert.Equal(t, 32, cfg.PoolSize)
	assert.Equal(t, 8, cfg.MinIdleConns)
	assert.Equal(t, time.Second, cfg.DialTimeout)
}

//Personal.AI order the ending
