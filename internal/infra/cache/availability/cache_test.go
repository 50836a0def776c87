package availability

import (
	"context"
	"errors"
	"strconv"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/TableBookingService/pkg/logger"
	"github.com/m04kA/TableBookingService/pkg/types"
)

// fakeRedis хранит строки в памяти
type fakeRedis struct {
	values map[string]string
	ttls   map[string]time.Duration
	err    error
}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{
		values: make(map[string]string),
		ttls:   make(map[string]time.Duration),
	}
}

func (f *fakeRedis) Get(_ context.Context, key string) *redis.StringCmd {
	if f.err != nil {
		return redis.NewStringResult("", f.err)
	}
	v, ok := f.values[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (f *fakeRedis) Set(_ context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd {
	if f.err != nil {
		return redis.NewStatusResult("", f.err)
	}
	switch v := value.(type) {
	case []byte:
		f.values[key] = string(v)
	case string:
		f.values[key] = v
	}
	f.ttls[key] = expiration
	return redis.NewStatusResult("OK", nil)
}

func (f *fakeRedis) Incr(_ context.Context, key string) *redis.IntCmd {
	if f.err != nil {
		return redis.NewIntResult(0, f.err)
	}
	n, _ := strconv.ParseInt(f.values[key], 10, 64)
	n++
	f.values[key] = strconv.FormatInt(n, 10)
	return redis.NewIntResult(n, nil)
}

func (f *fakeRedis) Expire(_ context.Context, key string, expiration time.Duration) *redis.BoolCmd {
	f.ttls[key] = expiration
	return redis.NewBoolResult(true, nil)
}

type resultCounter map[string]int

func (r resultCounter) IncCacheRequest(result string) { r[result]++ }

type payload struct {
	Slots []string `json:"slots"`
}

var friday = types.NewDate(2025, time.January, 10)

func TestCache_SetGetInvalidate(t *testing.T) {
	ctx := context.Background()
	rdb := newFakeRedis()
	counter := resultCounter{}
	cache := New(rdb, 30*time.Second, counter, logger.NewNop())

	var got payload
	version, hit := cache.Get(ctx, friday, 2, &got)
	assert.False(t, hit)
	assert.Equal(t, int64(0), version)

	cache.Set(ctx, friday, 2, version, payload{Slots: []string{"22:00", "23:30"}})
	cache.Set(ctx, friday, 4, version, payload{Slots: []string{"22:00"}})
	assert.Equal(t, 30*time.Second, rdb.ttls["tablebook:availability:2025-01-10:v0:2"])

	_, hit = cache.Get(ctx, friday, 2, &got)
	require.True(t, hit)
	assert.Equal(t, []string{"22:00", "23:30"}, got.Slots)

	cache.InvalidateDate(ctx, friday)
	assert.Equal(t, 24*time.Hour, rdb.ttls["tablebook:availability:2025-01-10:version"])

	version, hit = cache.Get(ctx, friday, 2, &got)
	assert.False(t, hit)
	assert.Equal(t, int64(1), version)
	_, hit = cache.Get(ctx, friday, 4, &got)
	assert.False(t, hit)

	assert.Equal(t, 1, counter["hit"])
	assert.Equal(t, 3, counter["miss"])
}

func TestCache_WriteAfterInvalidateIsNotServed(t *testing.T) {
	ctx := context.Background()
	cache := New(newFakeRedis(), 30*time.Second, nil, logger.NewNop())

	// расчет прочитал версию и данные до фиксации брони
	var got payload
	version, hit := cache.Get(ctx, friday, 2, &got)
	require.False(t, hit)

	// бронь зафиксирована и дата инвалидирована раньше, чем расчет записал результат
	cache.InvalidateDate(ctx, friday)
	cache.Set(ctx, friday, 2, version, payload{Slots: []string{"stale"}})

	_, hit = cache.Get(ctx, friday, 2, &got)
	assert.False(t, hit)

	// следующий расчет пишет под новой версией и читается
	fresh, _ := cache.Get(ctx, friday, 2, &got)
	cache.Set(ctx, friday, 2, fresh, payload{Slots: []string{"fresh"}})
	_, hit = cache.Get(ctx, friday, 2, &got)
	require.True(t, hit)
	assert.Equal(t, []string{"fresh"}, got.Slots)
}

func TestCache_DegradesOnError(t *testing.T) {
	ctx := context.Background()
	rdb := newFakeRedis()
	rdb.err = errors.New("connection refused")
	counter := resultCounter{}
	cache := New(rdb, time.Minute, counter, logger.NewNop())

	var got payload
	version, hit := cache.Get(ctx, friday, 2, &got)
	assert.False(t, hit)
	assert.Equal(t, NoVersion, version)
	assert.NotPanics(t, func() {
		cache.Set(ctx, friday, 2, version, payload{})
		cache.InvalidateDate(ctx, friday)
	})
	assert.Equal(t, 1, counter["error"])

	// без известной версии запись не выполняется
	rdb.err = nil
	cache.Set(ctx, friday, 2, NoVersion, payload{})
	assert.Empty(t, rdb.values)
}

func TestCache_Disabled(t *testing.T) {
	cache := New(nil, time.Minute, nil, logger.NewNop())
	assert.False(t, cache.Enabled())

	var got payload
	version, hit := cache.Get(context.Background(), friday, 2, &got)
	assert.False(t, hit)
	assert.Equal(t, NoVersion, version)
	cache.Set(context.Background(), friday, 2, 0, payload{})
	cache.InvalidateDate(context.Background(), friday)

	var nilCache *Cache
	assert.False(t, nilCache.Enabled())
}
