package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Both implementations must satisfy the same contract.
func runStoreContract(t *testing.T, open func(t *testing.T) Store) {
	t.Run("read missing key", func(t *testing.T) {
		sut := open(t)
		_, err := sut.Read(context.Background(), "cartItems")
		assert.ErrorIs(t, err, ErrKeyNotFound)
	})

	t.Run("write then read", func(t *testing.T) {
		sut := open(t)
		ctx := context.Background()

		require.NoError(t, sut.Write(ctx, "cartItems", []byte(`[{"id":"1","quantity":2}]`)))
		got, err := sut.Read(ctx, "cartItems")
		require.NoError(t, err)
		assert.Equal(t, `[{"id":"1","quantity":2}]`, string(got))
	})

	t.Run("overwrite", func(t *testing.T) {
		sut := open(t)
		ctx := context.Background()

		require.NoError(t, sut.Write(ctx, "cart", []byte(`{"1":1}`)))
		require.NoError(t, sut.Write(ctx, "cart", []byte(`{"1":5}`)))

		got, err := sut.Read(ctx, "cart")
		require.NoError(t, err)
		assert.Equal(t, `{"1":5}`, string(got))
	})

	t.Run("delete", func(t *testing.T) {
		sut := open(t)
		ctx := context.Background()

		require.NoError(t, sut.Write(ctx, "cartItems", []byte(`[]`)))
		require.NoError(t, sut.Delete(ctx, "cartItems"))

		_, err := sut.Read(ctx, "cartItems")
		assert.ErrorIs(t, err, ErrKeyNotFound)
	})

	t.Run("delete missing key is a no-op", func(t *testing.T) {
		sut := open(t)
		assert.NoError(t, sut.Delete(context.Background(), "nope"))
	})

	t.Run("keys are independent", func(t *testing.T) {
		sut := open(t)
		ctx := context.Background()

		require.NoError(t, sut.Write(ctx, "cartItems", []byte(`[]`)))
		require.NoError(t, sut.Write(ctx, "cart", []byte(`{}`)))
		require.NoError(t, sut.Delete(ctx, "cart"))

		_, err := sut.Read(ctx, "cartItems")
		assert.NoError(t, err)
	})
}

func TestMemoryStore_Contract(t *testing.T) {
	runStoreContract(t, func(t *testing.T) Store {
		s := NewMemoryStore()
		t.Cleanup(func() { _ = s.Close() })
		return s
	})
}

func TestMemoryStore_ReturnedValueIsACopy(t *testing.T) {
	sut := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, sut.Write(ctx, "k", []byte("abc")))
	got, err := sut.Read(ctx, "k")
	require.NoError(t, err)

	got[0] = 'X'
	again, err := sut.Read(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(again))
}

func TestSQLiteStore_Contract(t *testing.T) {
	runStoreContract(t, func(t *testing.T) Store {
		s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "storefront.db"))
		require.NoError(t, err)
		t.Cleanup(func() { _ = s.Close() })
		return s
	})
}

func TestSQLiteStore_SurvivesReopen(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "storefront.db")
	ctx := context.Background()

	first, err := NewSQLiteStore(dbPath)
	require.NoError(t, err)
	require.NoError(t, first.Write(ctx, "cartItems", []byte(`[{"id":"1","quantity":3}]`)))
	require.NoError(t, first.Close())

	// Reopening also re-runs migrations; ErrNoChange must be tolerated.
	second, err := NewSQLiteStore(dbPath)
	require.NoError(t, err)
	defer second.Close()

	got, err := second.Read(ctx, "cartItems")
	require.NoError(t, err)
	assert.Equal(t, `[{"id":"1","quantity":3}]`, string(got))
}
