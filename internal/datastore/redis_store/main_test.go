package redis_store

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRedis satisfies redis.Cmdable through the embedded interface and
// overrides just the commands the marker functions use.
type fakeRedis struct {
	redis.Cmdable
	data map[string]string
}

func (f *fakeRedis) Get(_ context.Context, key string) *redis.StringCmd {
	v, ok := f.data[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (f *fakeRedis) Set(_ context.Context, key string, value interface{}, _ time.Duration) *redis.StatusCmd {
	f.data[key] = fmt.Sprint(value)
	return redis.NewStatusResult("OK", nil)
}

func TestAccrualRunMarkerPerDay(t *testing.T) {
	ctx := context.Background()
	rdb := &fakeRedis{data: map[string]string{}}
	day := time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC)

	ran, err := AccrualAlreadyRan(ctx, rdb, day)
	require.NoError(t, err)
	assert.False(t, ran, "unmarked day must stay claimable by a rerun")

	require.NoError(t, MarkAccrualRun(ctx, rdb, day))

	ran, err = AccrualAlreadyRan(ctx, rdb, day)
	require.NoError(t, err)
	assert.True(t, ran)

	// marking one day must not cover its neighbors
	ran, err = AccrualAlreadyRan(ctx, rdb, day.AddDate(0, 0, 1))
	require.NoError(t, err)
	assert.False(t, ran)
}
