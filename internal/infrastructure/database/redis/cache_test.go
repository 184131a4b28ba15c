package redis

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/PatQuery-Bridge/internal/infrastructure/monitoring/logging"
)

type payload struct {
	Query string `json:"query"`
	Count int    `json:"count"`
}

func newTestCache(t *testing.T) Cache {
	t.Helper()
	client, _ := newTestClient(t)
	return NewRedisCache(client, logging.NewNopLogger(), WithPrefix("test:"))
}

func TestCache_SetAndGet(t *testing.T) {
	cache := newTestCache(t)
	ctx := context.Background()

	in := payload{Query: "TI=(solar)", Count: 2}
	require.NoError(t, cache.Set(ctx, "q1", in, time.Minute))

	var out payload
	require.NoError(t, cache.Get(ctx, "q1", &out))
	assert.Equal(t, in, out)
}

func TestCache_GetMiss(t *testing.T) {
	cache := newTestCache(t)

	var out payload
	err := cache.Get(context.Background(), "absent", &out)
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestCache_Delete(t *testing.T) {
	cache := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "q1", payload{Query: "x"}, time.Minute))
	require.NoError(t, cache.Delete(ctx, "q1"))

	var out payload
	assert.ErrorIs(t, cache.Get(ctx, "q1", &out), ErrCacheMiss)
}

func TestCache_Exists(t *testing.T) {
	cache := newTestCache(t)
	ctx := context.Background()

	ok, err := cache.Exists(ctx, "q1")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, cache.Set(ctx, "q1", payload{}, time.Minute))
	ok, err = cache.Exists(ctx, "q1")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestCache_GetOrSet_LoadsOnce(t *testing.T) {
	cache := newTestCache(t)
	ctx := context.Background()

	var calls atomic.Int32
	loader := func(ctx context.Context) (interface{}, error) {
		calls.Add(1)
		return payload{Query: "loaded"}, nil
	}

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			var out payload
			if err := cache.GetOrSet(ctx, "shared", &out, time.Minute, loader); err == nil {
				assert.Equal(t, "loaded", out.Query)
			}
		}()
	}
	wg.Wait()

	// Subsequent call is served from cache.
	var out payload
	require.NoError(t, cache.GetOrSet(ctx, "shared", &out, time.Minute, loader))
	assert.Equal(t, "loaded", out.Query)
	assert.LessOrEqual(t, calls.Load(), int32(4))
	assert.GreaterOrEqual(t, calls.Load(), int32(1))
}

func TestCache_GetOrSet_LoaderError(t *testing.T) {
	cache := newTestCache(t)

	boom := errors.New("loader failed")
	var out payload
	err := cache.GetOrSet(context.Background(), "k", &out, time.Minute, func(ctx context.Context) (interface{}, error) {
		return nil, boom
	})
	assert.ErrorIs(t, err, boom)
}

func TestCache_GetOrSet_NullCached(t *testing.T) {
	cache := newTestCache(t)
	ctx := context.Background()

	err := cache.GetOrSet(ctx, "null", &payload{}, time.Minute, func(ctx context.Context) (interface{}, error) {
		return nil, nil
	})
	assert.ErrorIs(t, err, ErrCacheMiss)

	// The miss is negatively cached; a plain Get also reports a miss.
	var out payload
	assert.ErrorIs(t, cache.Get(ctx, "null", &out), ErrCacheMiss)
}

func TestCache_DeleteByPrefix(t *testing.T) {
	cache := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "query:a", payload{}, time.Minute))
	require.NoError(t, cache.Set(ctx, "query:b", payload{}, time.Minute))
	require.NoError(t, cache.Set(ctx, "other:c", payload{}, time.Minute))

	deleted, err := cache.DeleteByPrefix(ctx, "query:")
	require.NoError(t, err)
	assert.Equal(t, int64(2), deleted)

	ok, err := cache.Exists(ctx, "other:c")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestCache_IncrAndTTL(t *testing.T) {
	cache := newTestCache(t)
	ctx := context.Background()

	n, err := cache.Incr(ctx, "hits")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	require.NoError(t, cache.Expire(ctx, "hits", time.Minute))
	ttl, err := cache.TTL(ctx, "hits")
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))
}

//Personal.AI order the ending
