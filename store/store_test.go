package store

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

// testStoreContract exercises the Store contract shared by every backend.
func testStoreContract(t *testing.T, s Store) {
	ctx := context.Background()

	t.Run("get missing", func(t *testing.T) {
		_, err := s.Get(ctx, "missing/key")
		require.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("put get roundtrip", func(t *testing.T) {
		require.NoError(t, s.Put(ctx, "a/zarr.json", []byte(`{"zarr_format":3}`)))

		got, err := s.Get(ctx, "a/zarr.json")
		require.NoError(t, err)
		require.Equal(t, []byte(`{"zarr_format":3}`), got)
	})

	t.Run("put overwrites", func(t *testing.T) {
		require.NoError(t, s.Put(ctx, "a/c/0/0", []byte("one")))
		require.NoError(t, s.Put(ctx, "a/c/0/0", []byte("two")))

		got, err := s.Get(ctx, "a/c/0/0")
		require.NoError(t, err)
		require.Equal(t, []byte("two"), got)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, s.Put(ctx, "a/c/0/1", []byte("x")))
		require.NoError(t, s.Delete(ctx, "a/c/0/1"))

		_, err := s.Get(ctx, "a/c/0/1")
		require.ErrorIs(t, err, ErrNotFound)

		require.ErrorIs(t, s.Delete(ctx, "a/c/0/1"), ErrNotFound)
	})

	t.Run("list sorted under prefix", func(t *testing.T) {
		require.NoError(t, s.Put(ctx, "a/c/1/0", []byte("x")))
		require.NoError(t, s.Put(ctx, "a/c/0/2", []byte("x")))
		require.NoError(t, s.Put(ctx, "b/zarr.json", []byte("x")))

		keys, err := s.List(ctx, "a/c/")
		require.NoError(t, err)
		require.Equal(t, []string{"a/c/0/0", "a/c/0/2", "a/c/1/0"}, keys)
	})

	t.Run("empty value", func(t *testing.T) {
		require.NoError(t, s.Put(ctx, "empty", nil))
		got, err := s.Get(ctx, "empty")
		require.NoError(t, err)
		require.Empty(t, got)
	})
}

func TestMemStore(t *testing.T) {
	testStoreContract(t, NewMemStore())
}

func TestFSStore(t *testing.T) {
	s, err := NewFSStore(t.TempDir())
	require.NoError(t, err)
	testStoreContract(t, s)
}

func TestFSStoreRejectsTraversal(t *testing.T) {
	s, err := NewFSStore(t.TempDir())
	require.NoError(t, err)

	ctx := context.Background()
	for _, key := range []string{"", "../escape", "a/../../b", "a//b"} {
		require.Error(t, s.Put(ctx, key, []byte("x")), key)
	}
}

func TestMemStoreDefensiveCopies(t *testing.T) {
	s := NewMemStore()
	ctx := context.Background()

	data := []byte("original")
	require.NoError(t, s.Put(ctx, "k", data))
	data[0] = 'X'

	got, err := s.Get(ctx, "k")
	require.NoError(t, err)
	require.Equal(t, []byte("original"), got)

	got[0] = 'Y'
	again, err := s.Get(ctx, "k")
	require.NoError(t, err)
	require.Equal(t, []byte("original"), again)
}

func TestMemStoreConcurrent(t *testing.T) {
	s := NewMemStore()
	ctx := context.Background()

	errs := make(chan error, 8)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			key := string(rune('a' + n))
			for j := 0; j < 100; j++ {
				if err := s.Put(ctx, key, []byte{byte(j)}); err != nil {
					errs <- err
					return
				}
				if _, err := s.Get(ctx, key); err != nil {
					errs <- err
					return
				}
			}
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	keys, err := s.List(ctx, "")
	require.NoError(t, err)
	require.Len(t, keys, 8)
}
