// Package cache holds the Redis-backed cache for filter menu options.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/fadilmartias/resume-analyzer/internal/config"
	"github.com/fadilmartias/resume-analyzer/internal/dto"
	"github.com/redis/go-redis/v9"
)

// FilterOptionsKey is bumped whenever the cached shape changes.
const FilterOptionsKey = "resume-analyzer:filter-options:v1"

// FilterOptionsGenerationKey counts invalidations. A write computed under an older
// generation is dropped.
const FilterOptionsGenerationKey = "resume-analyzer:filter-options:gen"

type FilterOptionsCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisClient connects and pings. Callers treat an error as "run without cache".
func NewRedisClient(ctx context.Context, cfg *config.RedisConfig) (*redis.Client, error) {
	if cfg == nil || cfg.Addr == "" {
		return nil, fmt.Errorf("redis address is required")
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return client, nil
}

func NewFilterOptionsCache(client *redis.Client, ttl time.Duration) *FilterOptionsCache {
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &FilterOptionsCache{client: client, ttl: ttl}
}

// Get reports a miss as (nil, false, nil).
func (c *FilterOptionsCache) Get(ctx context.Context) (*dto.FilterOptionsDTO, bool, error) {
	raw, err := c.client.Get(ctx, FilterOptionsKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get filter options: %w", err)
	}
	var opts dto.FilterOptionsDTO
	if err := json.Unmarshal(raw, &opts); err != nil {
		return nil, false, fmt.Errorf("decode filter options: %w", err)
	}
	return &opts, true, nil
}

// Generation is read before computing the options that are later passed to Set.
func (c *FilterOptionsCache) Generation(ctx context.Context) (int64, error) {
	gen, err := c.client.Get(ctx, FilterOptionsGenerationKey).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("get filter options generation: %w", err)
	}
	return gen, nil
}

// Set stores opts only while the generation is still gen. It reports whether the
// entry was written.
func (c *FilterOptionsCache) Set(ctx context.Context, gen int64, opts dto.FilterOptionsDTO) (bool, error) {
	raw, err := json.Marshal(opts)
	if err != nil {
		return false, err
	}

	written := false
	err = c.client.Watch(ctx, func(tx *redis.Tx) error {
		cur, err := tx.Get(ctx, FilterOptionsGenerationKey).Int64()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if cur != gen {
			return nil
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, FilterOptionsKey, raw, c.ttl)
			return nil
		})
		if err == nil {
			written = true
		}
		return err
	}, FilterOptionsGenerationKey)
	if errors.Is(err, redis.TxFailedErr) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("set filter options: %w", err)
	}
	return written, nil
}

// Invalidate drops the entry and bumps the generation in one transaction.
func (c *FilterOptionsCache) Invalidate(ctx context.Context) error {
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, FilterOptionsGenerationKey)
		pipe.Del(ctx, FilterOptionsKey)
		return nil
	})
	if err != nil {
		return fmt.Errorf("invalidate filter options: %w", err)
	}
	return nil
}
