package storage

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/desertthunder/cinelist/internal/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type record struct {
	ID    int    `json:"id"`
	Title string `json:"title"`
}

var mockData = []record{{ID: 101, Title: "Filme A"}, {ID: 102, Title: "Filme B"}}

func newTestAdapter(t *testing.T, b Backend) (*Adapter, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	return NewAdapter(b, shared.NewLogger(&buf)), &buf
}

// backends returns one fresh instance of every Backend implementation.
func backends(t *testing.T) map[string]Backend {
	t.Helper()

	bolt, err := NewBoltBackend(filepath.Join(t.TempDir(), "nested", "cinelist.db"))
	require.NoError(t, err)

	sqlite, err := OpenSQLBackend(":memory:")
	require.NoError(t, err)

	all := map[string]Backend{
		"bolt":   bolt,
		"sqlite": sqlite,
		"memory": NewMemoryBackend(),
	}
	t.Cleanup(func() {
		for _, b := range all {
			b.Close()
		}
	})
	return all
}

func TestBackends(t *testing.T) {
	for name, b := range backends(t) {
		t.Run(name, func(t *testing.T) {
			_, found, err := b.Get("missing")
			require.NoError(t, err)
			assert.False(t, found)

			require.NoError(t, b.Set("k", "v1"))
			require.NoError(t, b.Set("k", "v2"))

			v, found, err := b.Get("k")
			require.NoError(t, err)
			assert.True(t, found)
			assert.Equal(t, "v2", v)

			require.NoError(t, b.Delete("k"))
			require.NoError(t, b.Delete("k"))

			_, found, err = b.Get("k")
			require.NoError(t, err)
			assert.False(t, found)
		})
	}
}

func TestOpen(t *testing.T) {
	t.Run("memory", func(t *testing.T) {
		b, err := Open(shared.DriverMemory, "")
		require.NoError(t, err)
		assert.IsType(t, &MemoryBackend{}, b)
	})

	t.Run("bolt", func(t *testing.T) {
		b, err := Open(shared.DriverBolt, filepath.Join(t.TempDir(), "c.db"))
		require.NoError(t, err)
		defer b.Close()
		assert.IsType(t, &BoltBackend{}, b)
	})

	t.Run("bolt open failure returns a nil backend", func(t *testing.T) {
		blocker := filepath.Join(t.TempDir(), "file")
		require.NoError(t, os.WriteFile(blocker, []byte("x"), 0644))

		b, err := Open(shared.DriverBolt, filepath.Join(blocker, "c.db"))
		assert.Error(t, err)
		assert.True(t, b == nil)
	})

	t.Run("unknown driver", func(t *testing.T) {
		_, err := Open("redis", "")
		assert.ErrorIs(t, err, shared.ErrUnknownDriver)
	})
}

func TestAdapter(t *testing.T) {
	t.Run("Write stores JSON text", func(t *testing.T) {
		mem := NewMemoryBackend()
		a, _ := newTestAdapter(t, mem)

		a.Write("tmdb_favorites", mockData[0])

		raw, found, err := mem.Get("tmdb_favorites")
		require.NoError(t, err)
		require.True(t, found)
		assert.JSONEq(t, `{"id":101,"title":"Filme A"}`, raw)
	})

	t.Run("round trip on every backend", func(t *testing.T) {
		for name, b := range backends(t) {
			t.Run(name, func(t *testing.T) {
				a, _ := newTestAdapter(t, b)
				a.Write("list", mockData)

				got, ok := Read[[]record](a, "list")
				require.True(t, ok)
				assert.Equal(t, mockData, got)
			})
		}
	})

	t.Run("Read missing key", func(t *testing.T) {
		a, buf := newTestAdapter(t, NewMemoryBackend())

		got, ok := Read[[]record](a, "missing")
		assert.False(t, ok)
		assert.Nil(t, got)
		assert.Empty(t, buf.String())
	})

	t.Run("Read corrupt JSON logs and reports absent", func(t *testing.T) {
		mem := NewMemoryBackend()
		require.NoError(t, mem.Set("tmdb_favorites", "not-json"))
		a, buf := newTestAdapter(t, mem)

		_, ok := Read[[]record](a, "tmdb_favorites")
		assert.False(t, ok)
		assert.Contains(t, buf.String(), "failed to load from storage")
	})

	t.Run("Read null and empty text report absent", func(t *testing.T) {
		mem := NewMemoryBackend()
		require.NoError(t, mem.Set("null", "null"))
		require.NoError(t, mem.Set("empty", ""))
		a, _ := newTestAdapter(t, mem)

		_, ok := Read[[]record](a, "null")
		assert.False(t, ok)
		_, ok = Read[[]record](a, "empty")
		assert.False(t, ok)
	})

	t.Run("Read unavailable store", func(t *testing.T) {
		mem := NewMemoryBackend()
		mem.FailGet = errors.New("SecurityError")
		a, buf := newTestAdapter(t, mem)

		_, ok := Read[[]record](a, "any")
		assert.False(t, ok)
		assert.Contains(t, buf.String(), "SecurityError")
	})

	t.Run("Write failure keeps previous value", func(t *testing.T) {
		mem := NewMemoryBackend()
		a, buf := newTestAdapter(t, mem)
		a.Write("list", mockData[:1])

		mem.FailSet = errors.New("QuotaExceededError")
		a.Write("list", mockData)
		assert.Contains(t, buf.String(), "failed to save to storage")

		mem.FailSet = nil
		got, ok := Read[[]record](a, "list")
		require.True(t, ok)
		assert.Equal(t, mockData[:1], got)
	})

	t.Run("Write unencodable value", func(t *testing.T) {
		a, buf := newTestAdapter(t, NewMemoryBackend())
		a.Write("bad", make(chan int))
		assert.Contains(t, buf.String(), "failed to save to storage")
	})

	t.Run("nil backend never panics", func(t *testing.T) {
		a, buf := newTestAdapter(t, nil)
		a.Write("k", 1)
		a.Clear("k")
		_, ok := Read[int](a, "k")
		assert.False(t, ok)
		assert.NoError(t, a.Close())
		assert.Contains(t, buf.String(), shared.ErrStorageUnavailable.Error())
	})

	t.Run("Clear removes the entry", func(t *testing.T) {
		a, _ := newTestAdapter(t, NewMemoryBackend())
		a.Write("k", mockData)
		a.Clear("k")

		_, ok := a.Raw("k")
		assert.False(t, ok)
	})
}
