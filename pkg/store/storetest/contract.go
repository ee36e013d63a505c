// Package storetest holds the behaviour every store.Store backend must share.
package storetest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/journey/pkg/journey"
	"github.com/matzehuels/journey/pkg/store"
)

// Run exercises s against the store.Store contract. The store must start
// empty.
func Run(t *testing.T, s store.Store) {
	t.Helper()
	ctx := context.Background()
	prefix := "contract-" + time.Now().Format("150405")

	t.Run("Set and Get", func(t *testing.T) {
		key := prefix + "-get"
		require.NoError(t, s.Set(ctx, key, []byte(`{"a":1}`)))

		data, err := s.Get(ctx, key)
		require.NoError(t, err)
		assert.JSONEq(t, `{"a":1}`, string(data))

		require.NoError(t, s.Set(ctx, key, []byte(`{"a":2}`)), "overwrite")
		data, err = s.Get(ctx, key)
		require.NoError(t, err)
		assert.JSONEq(t, `{"a":2}`, string(data))
	})

	t.Run("Get Missing", func(t *testing.T) {
		_, err := s.Get(ctx, prefix+"-missing")
		assert.True(t, errors.Is(err, store.ErrNotFound), "got %v", err)
	})

	t.Run("Delete", func(t *testing.T) {
		key := prefix + "-delete"
		require.NoError(t, s.Set(ctx, key, []byte(`{}`)))
		require.NoError(t, s.Delete(ctx, key))

		_, err := s.Get(ctx, key)
		assert.True(t, errors.Is(err, store.ErrNotFound), "Get after Delete = %v", err)
		assert.NoError(t, s.Delete(ctx, key), "Delete of a missing key")
	})

	t.Run("List", func(t *testing.T) {
		b, a := prefix+"-list-b", prefix+"-list-a"
		require.NoError(t, s.Set(ctx, b, []byte(`{}`)))
		require.NoError(t, s.Set(ctx, a, []byte(`{}`)))
		defer func() {
			_ = s.Delete(ctx, a)
			_ = s.Delete(ctx, b)
		}()

		keys, err := s.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, keys, a)
		assert.Contains(t, keys, b)
		assert.IsIncreasing(t, keys)
	})

	t.Run("Record Round Trip", func(t *testing.T) {
		rec := store.Record{
			Key:          prefix + "-record",
			Description:  "welcome series",
			Requirements: journey.Requirements{Email: 1},
			Nodes: []journey.Node{
				journey.NewEntrance("entrance", "Start", "All users"),
				journey.NewEmail("email-1", "Welcome", journey.MessageContent{Subject: "Hi"}),
				journey.NewExit("exit", "End", "Journey completed"),
			},
		}
		require.NoError(t, store.Save(ctx, s, rec))

		got, err := store.Load(ctx, s, rec.Key)
		require.NoError(t, err)
		assert.Equal(t, rec.Key, got.Key)
		assert.Equal(t, rec.Description, got.Description)
		assert.Equal(t, rec.Requirements, got.Requirements)
		assert.Equal(t, rec.Nodes, got.Nodes)
		assert.False(t, got.UpdatedAt.IsZero())

		_, err = store.Load(ctx, s, prefix+"-nope")
		assert.ErrorIs(t, err, store.ErrNotFound)
	})
}
