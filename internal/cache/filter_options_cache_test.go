package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/fadilmartias/resume-analyzer/internal/config"
	"github.com/fadilmartias/resume-analyzer/internal/dto"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T) (*FilterOptionsCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewFilterOptionsCache(client, 30*time.Second), mr
}

func TestFilterOptionsCacheRoundTrip(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	_, ok, err := c.Get(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	want := dto.FilterOptionsDTO{Skills: []string{"Go", "SQL"}, SuggestedRoles: []string{"Backend Engineer"}}
	written, err := c.Set(ctx, 0, want)
	require.NoError(t, err)
	assert.True(t, written)
	assert.Equal(t, 30*time.Second, mr.TTL(FilterOptionsKey))

	got, ok, err := c.Get(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, want, *got)
}

func TestFilterOptionsCacheExpires(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	_, err := c.Set(ctx, 0, dto.FilterOptionsDTO{Skills: []string{"Go"}, SuggestedRoles: []string{}})
	require.NoError(t, err)
	mr.FastForward(31 * time.Second)

	_, ok, err := c.Get(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestFilterOptionsCacheInvalidate(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	_, err := c.Set(ctx, 0, dto.FilterOptionsDTO{Skills: []string{"Go"}, SuggestedRoles: []string{}})
	require.NoError(t, err)
	require.NoError(t, c.Invalidate(ctx))
	assert.False(t, mr.Exists(FilterOptionsKey))

	require.NoError(t, c.Invalidate(ctx))
	gen, err := c.Generation(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), gen)
}

func TestFilterOptionsCacheDropsWriteAfterInvalidate(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	gen, err := c.Generation(ctx)
	require.NoError(t, err)

	// a save lands between reading the store and writing the cache
	require.NoError(t, c.Invalidate(ctx))

	written, err := c.Set(ctx, gen, dto.FilterOptionsDTO{Skills: []string{"stale"}, SuggestedRoles: []string{}})
	require.NoError(t, err)
	assert.False(t, written)
	assert.False(t, mr.Exists(FilterOptionsKey))

	gen, err = c.Generation(ctx)
	require.NoError(t, err)
	written, err = c.Set(ctx, gen, dto.FilterOptionsDTO{Skills: []string{"fresh"}, SuggestedRoles: []string{}})
	require.NoError(t, err)
	assert.True(t, written)

	got, ok, err := c.Get(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []string{"fresh"}, got.Skills)
}

func TestFilterOptionsCacheCorruptEntry(t *testing.T) {
	c, mr := newTestCache(t)
	require.NoError(t, mr.Set(FilterOptionsKey, "{not json"))

	_, ok, err := c.Get(context.Background())
	assert.Error(t, err)
	assert.False(t, ok)
}

func TestFilterOptionsCacheUnavailable(t *testing.T) {
	c, mr := newTestCache(t)
	mr.Close()

	_, _, err := c.Get(context.Background())
	assert.Error(t, err)
}

func TestNewRedisClient(t *testing.T) {
	mr := miniredis.RunT(t)

	client, err := NewRedisClient(context.Background(), &config.RedisConfig{Addr: mr.Addr()})
	require.NoError(t, err)
	require.NoError(t, client.Close())

	_, err = NewRedisClient(context.Background(), &config.RedisConfig{})
	assert.Error(t, err)
}
