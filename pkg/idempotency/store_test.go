package idempotency

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRedis struct {
	keys map[string]time.Duration
	err  error
}

func (f *fakeRedis) SetNX(_ context.Context, key string, _ interface{}, ttl time.Duration) *redis.BoolCmd {
	if f.err != nil {
		return redis.NewBoolResult(false, f.err)
	}
	if _, ok := f.keys[key]; ok {
		return redis.NewBoolResult(false, nil)
	}
	f.keys[key] = ttl
	return redis.NewBoolResult(true, nil)
}

func (f *fakeRedis) Del(_ context.Context, keys ...string) *redis.IntCmd {
	var n int64
	for _, k := range keys {
		if _, ok := f.keys[k]; ok {
			delete(f.keys, k)
			n++
		}
	}
	return redis.NewIntResult(n, nil)
}

func TestSeenClaimsOnce(t *testing.T) {
	rdb := &fakeRedis{keys: map[string]time.Duration{}}
	s := NewStore(rdb, "notifier", time.Hour)
	ctx := context.Background()
	key := s.EventKey("e-1")

	seen, err := s.Seen(ctx, key)
	require.NoError(t, err)
	assert.False(t, seen)

	seen, err = s.Seen(ctx, key)
	require.NoError(t, err)
	assert.True(t, seen)
	assert.Equal(t, time.Hour, rdb.keys[key])

	require.NoError(t, s.Release(ctx, key))
	seen, err = s.Seen(ctx, key)
	require.NoError(t, err)
	assert.False(t, seen)
}

func TestKeys(t *testing.T) {
	s := NewStore(&fakeRedis{}, "notifier", time.Minute)
	assert.Equal(t, "idem:notifier:event:abc", s.EventKey("abc"))
	assert.Equal(t, "idem:notifier:order.events:2:17", s.OffsetKey("order.events", 2, 17))
}

func TestSeenPropagatesRedisErrors(t *testing.T) {
	s := NewStore(&fakeRedis{err: errors.New("connection refused")}, "n", time.Minute)
	_, err := s.Seen(context.Background(), "k")
	assert.Error(t, err)
}
