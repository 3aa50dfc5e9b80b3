package config

import (
	"os"
	"sync"
	"time"
)

// RedisConfig configures the optional filter-options cache. An empty Addr disables it.
type RedisConfig struct {
	Addr             string
	Password         string
	DB               int
	FilterOptionsTTL time.Duration
}

var (
	redisConfig *RedisConfig
	redisOnce   sync.Once
)

func LoadRedisConfig() *RedisConfig {
	redisOnce.Do(func() {
		redisConfig = &RedisConfig{
			Addr:             os.Getenv("REDIS_ADDR"),
			Password:         os.Getenv("REDIS_PASSWORD"),
			DB:               getEnvInt("REDIS_DB", 0),
			FilterOptionsTTL: getEnvDuration("FILTER_OPTIONS_TTL", time.Minute),
		}
	})
	return redisConfig
}
