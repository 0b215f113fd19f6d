package store_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stevemurr/simple-blog-server/store"
)

// runStoreTests runs a common test suite against any Store implementation.
func runStoreTests(t *testing.T, newStore func(t *testing.T) store.Store) {
	t.Helper()
	ctx := context.Background()

	t.Run("List empty", func(t *testing.T) {
		s := newStore(t)
		recs, err := s.List(ctx)
		require.NoError(t, err)
		assert.NotNil(t, recs)
		assert.Empty(t, recs)
	})

	t.Run("Create assigns sequential ids", func(t *testing.T) {
		s := newStore(t)
		first, err := s.Create(ctx, map[string]any{"title": "a", "content": "b"})
		require.NoError(t, err)
		second, err := s.Create(ctx, map[string]any{"title": "c", "content": "d"})
		require.NoError(t, err)

		assert.Equal(t, int64(1), first.ID())
		assert.Equal(t, int64(2), second.ID())
		assert.Equal(t, "a", first["title"])
	})

	t.Run("Create ignores body id", func(t *testing.T) {
		s := newStore(t)
		rec, err := s.Create(ctx, map[string]any{"id": float64(99), "title": "x"})
		require.NoError(t, err)
		assert.Equal(t, int64(1), rec.ID())

		got, err := s.Get(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, "x", got["title"])

		_, err = s.Get(ctx, 99)
		assert.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("List preserves insertion order", func(t *testing.T) {
		s := newStore(t)
		for _, title := range []string{"one", "two", "three"} {
			_, err := s.Create(ctx, map[string]any{"title": title})
			require.NoError(t, err)
		}
		recs, err := s.List(ctx)
		require.NoError(t, err)
		require.Len(t, recs, 3)
		assert.Equal(t, "one", recs[0]["title"])
		assert.Equal(t, "two", recs[1]["title"])
		assert.Equal(t, "three", recs[2]["title"])
	})

	t.Run("Get missing", func(t *testing.T) {
		s := newStore(t)
		_, err := s.Get(ctx, 7)
		assert.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("Replace swaps all fields", func(t *testing.T) {
		s := newStore(t)
		_, err := s.Create(ctx, map[string]any{"title": "a", "content": "b", "tags": []any{"x"}})
		require.NoError(t, err)

		rec, err := s.Replace(ctx, 1, map[string]any{"id": float64(5), "title": "new", "content": "body"})
		require.NoError(t, err)
		assert.Equal(t, int64(1), rec.ID())
		assert.Equal(t, "new", rec["title"])
		assert.NotContains(t, rec, "tags")

		got, err := s.Get(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, "body", got["content"])
		assert.NotContains(t, got, "tags")
	})

	t.Run("Replace missing", func(t *testing.T) {
		s := newStore(t)
		_, err := s.Replace(ctx, 3, map[string]any{"title": "a"})
		assert.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("Patch merges fields", func(t *testing.T) {
		s := newStore(t)
		_, err := s.Create(ctx, map[string]any{"title": "a", "content": "b"})
		require.NoError(t, err)

		rec, err := s.Patch(ctx, 1, map[string]any{"title": "x", "id": float64(42)})
		require.NoError(t, err)
		assert.Equal(t, int64(1), rec.ID())
		assert.Equal(t, "x", rec["title"])
		assert.Equal(t, "b", rec["content"])

		got, err := s.Get(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, "x", got["title"])
		assert.Equal(t, "b", got["content"])
	})

	t.Run("Patch missing", func(t *testing.T) {
		s := newStore(t)
		_, err := s.Patch(ctx, 1, map[string]any{"title": "x"})
		assert.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("Delete existing", func(t *testing.T) {
		s := newStore(t)
		_, err := s.Create(ctx, map[string]any{"title": "a"})
		require.NoError(t, err)

		require.NoError(t, s.Delete(ctx, 1))
		_, err = s.Get(ctx, 1)
		assert.ErrorIs(t, err, store.ErrNotFound)

		n, err := s.Len(ctx)
		require.NoError(t, err)
		assert.Zero(t, n)
	})

	t.Run("Delete missing", func(t *testing.T) {
		s := newStore(t)
		assert.ErrorIs(t, s.Delete(ctx, 1), store.ErrNotFound)
	})

	t.Run("ids are not reused after delete", func(t *testing.T) {
		s := newStore(t)
		_, err := s.Create(ctx, map[string]any{"title": "a"})
		require.NoError(t, err)
		_, err = s.Create(ctx, map[string]any{"title": "b"})
		require.NoError(t, err)
		require.NoError(t, s.Delete(ctx, 2))
		require.NoError(t, s.Delete(ctx, 1))

		rec, err := s.Create(ctx, map[string]any{"title": "c"})
		require.NoError(t, err)
		assert.Equal(t, int64(3), rec.ID())
	})

	t.Run("returned records are copies", func(t *testing.T) {
		s := newStore(t)
		rec, err := s.Create(ctx, map[string]any{"title": "a"})
		require.NoError(t, err)
		rec["title"] = "mutated"

		got, err := s.Get(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, "a", got["title"])
	})

	t.Run("concurrent creates get unique ids", func(t *testing.T) {
		s := newStore(t)
		const workers = 20

		var wg sync.WaitGroup
		ids := make(chan int64, workers)
		for range workers {
			wg.Add(1)
			go func() {
				defer wg.Done()
				rec, err := s.Create(ctx, map[string]any{"title": "t"})
				if assert.NoError(t, err) {
					ids <- rec.ID()
				}
			}()
		}
		wg.Wait()
		close(ids)

		seen := make(map[int64]bool)
		for id := range ids {
			assert.False(t, seen[id], "duplicate id %d", id)
			seen[id] = true
		}
		assert.Len(t, seen, workers)
	})
}

func TestMemoryStore(t *testing.T) {
	runStoreTests(t, func(t *testing.T) store.Store {
		return store.NewMemoryStore()
	})
}

func TestSqliteStore(t *testing.T) {
	runStoreTests(t, func(t *testing.T) store.Store {
		s, err := store.NewSqliteStore()
		require.NoError(t, err)
		t.Cleanup(func() { s.Close() })
		return s
	})
}

func TestSqliteStoresAreIsolated(t *testing.T) {
	ctx := context.Background()
	a, err := store.NewSqliteStore()
	require.NoError(t, err)
	defer a.Close()
	b, err := store.NewSqliteStore()
	require.NoError(t, err)
	defer b.Close()

	_, err = a.Create(ctx, map[string]any{"title": "only in a"})
	require.NoError(t, err)

	n, err := b.Len(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestFactory(t *testing.T) {
	tests := []struct {
		backend string
	}{
		{"memory"},
		{"sqlite"},
		{""},
	}
	for _, tc := range tests {
		t.Run(tc.backend, func(t *testing.T) {
			s, err := store.New(tc.backend)
			require.NoError(t, err)
			defer s.Close()
		})
	}

	t.Run("unknown", func(t *testing.T) {
		_, err := store.New("redis")
		assert.Error(t, err)
	})
}

func TestRecordID(t *testing.T) {
	assert.Equal(t, int64(4), store.Record{"id": int64(4)}.ID())
	assert.Equal(t, int64(4), store.Record{"id": float64(4)}.ID())
	assert.Zero(t, store.Record{"title": "x"}.ID())
}
