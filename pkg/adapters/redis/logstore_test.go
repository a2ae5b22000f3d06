package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/aretw0/hexwire/pkg/adapters/redis"
	"github.com/aretw0/hexwire/pkg/domain"
	"github.com/aretw0/hexwire/pkg/ports"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMiniredis(t *testing.T) (*miniredis.Miniredis, *backend.Client) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("Failed to start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	client := backend.NewClient(&backend.Options{
		Addr: mr.Addr(),
	})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestRedisLogStore_Contract(t *testing.T) {
	_, client := newMiniredis(t)

	store := redis.NewFromClient(client)
	ports.RunLogStoreContract(t, store)
}

func TestRedisLogStore_DailyKey(t *testing.T) {
	mr, client := newMiniredis(t)
	day := time.Date(2024, 2, 29, 10, 0, 0, 0, time.Local)
	store := redis.NewFromClient(client,
		redis.WithPrefix("test:logs:"),
		redis.WithClock(func() time.Time { return day }),
	)

	require.NoError(t, store.Append(context.Background(), domain.LogEntry{Level: "err", Message: "boom"}))

	assert.Equal(t, "test:logs:2024-02-29", store.Key())
	assert.True(t, mr.Exists("test:logs:2024-02-29"))

	members, err := mr.List("test:logs:2024-02-29")
	require.NoError(t, err)
	require.Len(t, members, 1)
	assert.JSONEq(t, `{"time":"2024-02-29 10:00:00.000","level":"ERROR","message":"boom"}`, members[0])
}

func TestRedisLogStore_TTL_Expiration(t *testing.T) {
	mr, client := newMiniredis(t)
	store := redis.NewFromClient(client, redis.WithTTL(time.Second))
	ctx := context.Background()

	require.NoError(t, store.Append(ctx, domain.LogEntry{Message: "short lived"}))
	assert.Equal(t, time.Second, mr.TTL(store.Key()))

	mr.FastForward(2 * time.Second)

	entries, err := store.Read(ctx, domain.LogQuery{})
	assert.NoError(t, err)
	assert.Empty(t, entries)
}

func TestRedisLogStore_SkipsCorruptMembers(t *testing.T) {
	mr, client := newMiniredis(t)
	store := redis.NewFromClient(client)
	ctx := context.Background()

	require.NoError(t, store.Append(ctx, domain.LogEntry{Message: "good"}))
	_, err := mr.Push(store.Key(), "not json")
	require.NoError(t, err)

	entries, err := store.Read(ctx, domain.LogQuery{})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "good", entries[0].Message)
}

func TestRedisLogStore_Ping(t *testing.T) {
	mr, _ := newMiniredis(t)

	store := redis.New(mr.Addr(), "", 0)
	t.Cleanup(func() { _ = store.Close() })
	require.NoError(t, store.Ping(context.Background()))

	mr.Close()
	assert.Error(t, store.Ping(context.Background()))
}
