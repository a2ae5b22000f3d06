package ports

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/hexwire/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunLogStoreContract runs a suite of tests to verify that a LogStore implementation
// adheres to the defined interface contract. The store must start empty.
func RunLogStoreContract(t *testing.T, store LogStore) {
	ctx := context.Background()
	base := time.Now().Truncate(time.Millisecond).Add(-time.Minute)

	t.Run("Append and Read newest first", func(t *testing.T) {
		require.NoError(t, store.Clear(ctx))

		require.NoError(t, store.Append(ctx, domain.LogEntry{Time: base, Level: domain.LevelInfo, Source: "contract", Message: "one"}))
		require.NoError(t, store.Append(ctx, domain.LogEntry{Time: base.Add(time.Second), Level: domain.LevelError, Source: "contract", Message: "two"}))
		require.NoError(t, store.Append(ctx, domain.LogEntry{Time: base.Add(2 * time.Second), Level: domain.LevelWarn, Source: "contract", Message: "three"}))

		entries, err := store.Read(ctx, domain.LogQuery{})
		require.NoError(t, err, "Read should not return error")
		require.Len(t, entries, 3)
		assert.Equal(t, "three", entries[0].Message)
		assert.Equal(t, "two", entries[1].Message)
		assert.Equal(t, "one", entries[2].Message)
		assert.Equal(t, domain.LevelError, entries[1].Level)
		assert.True(t, base.Add(time.Second).Equal(entries[1].Time), "time should survive persistence at millisecond precision")
	})

	t.Run("Level filter", func(t *testing.T) {
		entries, err := store.Read(ctx, domain.LogQuery{Level: "error"})
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, "two", entries[0].Message)

		entries, err = store.Read(ctx, domain.LogQuery{Level: "all"})
		require.NoError(t, err)
		assert.Len(t, entries, 3)
	})

	t.Run("Limit", func(t *testing.T) {
		entries, err := store.Read(ctx, domain.LogQuery{Limit: 2})
		require.NoError(t, err)
		require.Len(t, entries, 2)
		assert.Equal(t, "three", entries[0].Message)
	})

	t.Run("Zero time is stamped", func(t *testing.T) {
		require.NoError(t, store.Append(ctx, domain.LogEntry{Level: "debug", Message: "stamped"}))

		entries, err := store.Read(ctx, domain.LogQuery{Level: domain.LevelDebug})
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.False(t, entries[0].Time.IsZero())
		assert.Equal(t, domain.LevelDebug, entries[0].Level)
	})

	t.Run("Clear", func(t *testing.T) {
		require.NoError(t, store.Clear(ctx), "Clear should not return error")

		entries, err := store.Read(ctx, domain.LogQuery{})
		require.NoError(t, err)
		assert.Empty(t, entries, "Read after Clear should return nothing")

		require.NoError(t, store.Clear(ctx), "Clear on an empty store should succeed")
	})
}
