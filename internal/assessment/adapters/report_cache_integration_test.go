//go:build integration

package adapters_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"conform/internal/assessment/adapters"
	"conform/internal/platform/redis"
	"conform/pkg/platform/sentinel"
	"conform/pkg/testutil/containers"
)

func newCache(t *testing.T) *adapters.RedisReportCache {
	t.Helper()
	rc := containers.GetManager().GetRedis(t)
	require.NoError(t, rc.FlushAll(context.Background()))
	return adapters.NewRedisReportCache(&redis.Client{Client: rc.Client})
}

func TestReportCacheRoundTrip(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	cache := newCache(t)
	ctx := context.Background()

	payload := []byte(`{"summary":"Risk Level: HIGH | Regulatory Flags: 1 | Applicable Regulations: EU_AI_ACT"}`)
	require.NoError(t, cache.Set(ctx, "conform:report:abc", payload, time.Minute))

	got, err := cache.Get(ctx, "conform:report:abc")
	require.NoError(t, err)
	assert.Equal(t, payload, got)
}

func TestReportCacheMiss(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	cache := newCache(t)

	_, err := cache.Get(context.Background(), "conform:report:missing")
	assert.ErrorIs(t, err, sentinel.ErrNotFound)
}

func TestReportCacheExpiry(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	cache := newCache(t)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "conform:report:ttl", []byte(`{}`), 100*time.Millisecond))
	time.Sleep(300 * time.Millisecond)

	_, err := cache.Get(ctx, "conform:report:ttl")
	assert.ErrorIs(t, err, sentinel.ErrNotFound)
}
