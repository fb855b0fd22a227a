package redis

import (
	"context"
	"encoding/json"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/silahub/site/internal/logger"
	"github.com/silahub/site/internal/store"
)

func TestDialOptionsValidate(t *testing.T) {
	valid := DialOptions{
		Addr:           "localhost:6379",
		ConnectTimeout: time.Second,
		RetryInterval:  time.Millisecond,
		MaxWait:        time.Second,
		PingTimeout:    time.Second,
	}
	require.NoError(t, valid.validate())

	tests := map[string]func(o *DialOptions){
		"empty addr":       func(o *DialOptions) { o.Addr = "" },
		"no budget":        func(o *DialOptions) { o.ConnectTimeout = 0 },
		"no retry":         func(o *DialOptions) { o.RetryInterval = 0 },
		"no cap":           func(o *DialOptions) { o.MaxWait = 0 },
		"no ping timeout":  func(o *DialOptions) { o.PingTimeout = 0 },
		"negative warning": func(o *DialOptions) { o.WarnThreshold = -1 },
	}
	for name, mutate := range tests {
		t.Run(name, func(t *testing.T) {
			o := valid
			mutate(&o)
			assert.Error(t, o.validate())
		})
	}
}

func TestDialGivesUp(t *testing.T) {
	_, err := Dial(context.Background(), DialOptions{
		Addr:           "127.0.0.1:1",
		DialTimeout:    50 * time.Millisecond,
		ConnectTimeout: 200 * time.Millisecond,
		RetryInterval:  20 * time.Millisecond,
		MaxWait:        50 * time.Millisecond,
		PingTimeout:    50 * time.Millisecond,
	}, logger.NewNop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "redis unavailable")
}

// newLiveStore connects to SILAHUB_TEST_REDIS_ADDR and skips otherwise.
func newLiveStore(t *testing.T) (*Store, *redis.Client) {
	t.Helper()
	addr := os.Getenv("SILAHUB_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("SILAHUB_TEST_REDIS_ADDR not set")
	}
	client := redis.NewClient(&redis.Options{Addr: addr, DB: 15})
	t.Cleanup(func() { _ = client.Close() })
	require.NoError(t, client.FlushDB(context.Background()).Err())
	return NewStore(client, 0), client
}

func TestLiveRoundTrip(t *testing.T) {
	s, _ := newLiveStore(t)
	ctx := context.Background()

	_, found, err := s.Get(ctx, store.KeyLeads)
	require.NoError(t, err)
	assert.False(t, found)

	type item struct {
		ID string `json:"id"`
	}
	err = store.MutateCollection(ctx, s, store.KeyLeads, func(items []item, found bool) ([]item, bool, error) {
		assert.False(t, found)
		return append(items, item{ID: "a"}), true, nil
	})
	require.NoError(t, err)

	items, found, err := store.LoadCollection[item](ctx, s, store.KeyLeads)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, []item{{ID: "a"}}, items)

	require.NoError(t, s.Delete(ctx, store.KeyLeads))
	_, found, err = s.Get(ctx, store.KeyLeads)
	require.NoError(t, err)
	assert.False(t, found)
	assert.Equal(t, "redis", s.Backend())
}

func TestLiveUpdateNilValueDeletes(t *testing.T) {
	s, client := newLiveStore(t)
	ctx := context.Background()
	require.NoError(t, client.Set(ctx, store.KeyAdminSession, `{"authenticated":true}`, 0).Err())

	err := s.Update(ctx, store.KeyAdminSession, func(current []byte, found bool) ([]byte, bool, error) {
		assert.True(t, found)
		return nil, true, nil
	})
	require.NoError(t, err)

	n, err := client.Exists(ctx, store.KeyAdminSession).Result()
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestLiveConcurrentUpdatesAreNotLost(t *testing.T) {
	s, client := newLiveStore(t)
	s.maxRetries = 100
	ctx := context.Background()

	const writers = 10
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := store.MutateCollection(ctx, s, "counter", func(items []int, _ bool) ([]int, bool, error) {
				return append(items, len(items)), true, nil
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	raw, err := client.Get(ctx, "counter").Bytes()
	require.NoError(t, err)
	var items []int
	require.NoError(t, json.Unmarshal(raw, &items))
	assert.Len(t, items, writers)
}
