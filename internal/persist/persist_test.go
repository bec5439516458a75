package persist

import (
	"bytes"
	"errors"
	"testing"

	"github.com/desertthunder/cinelist/internal/shared"
	"github.com/desertthunder/cinelist/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setup(t *testing.T) (*storage.MemoryBackend, *storage.Adapter, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	mem := storage.NewMemoryBackend()
	return mem, storage.NewAdapter(mem, shared.NewLogger(&buf)), &buf
}

func TestNew(t *testing.T) {
	t.Run("uses initial value when nothing is stored", func(t *testing.T) {
		_, adapter, _ := setup(t)

		s := New(adapter, "counter", 7)
		assert.Equal(t, 7, s.Value())
		assert.False(t, s.Loaded())
		assert.Equal(t, "counter", s.Key())
	})

	t.Run("stored value wins over initial", func(t *testing.T) {
		mem, adapter, _ := setup(t)
		require.NoError(t, mem.Set("tags", `["a","b"]`))

		s := New(adapter, "tags", []string{"default"})
		assert.Equal(t, []string{"a", "b"}, s.Value())
		assert.True(t, s.Loaded())
	})

	t.Run("corrupt value falls back to initial", func(t *testing.T) {
		mem, adapter, buf := setup(t)
		require.NoError(t, mem.Set("tags", "not-json"))

		s := New(adapter, "tags", []string{})
		assert.Empty(t, s.Value())
		assert.False(t, s.Loaded())
		assert.Contains(t, buf.String(), "failed to load from storage")
	})

	t.Run("creation does not write", func(t *testing.T) {
		mem, adapter, _ := setup(t)
		New(adapter, "counter", 1)

		_, found, err := mem.Get("counter")
		require.NoError(t, err)
		assert.False(t, found)
	})
}

func TestState(t *testing.T) {
	t.Run("Clear resets the value and deletes the entry", func(t *testing.T) {
		mem, adapter, _ := setup(t)
		require.NoError(t, mem.Set("tags", `["a"]`))

		s := New(adapter, "tags", []string{})
		s.Clear([]string{})
		assert.Empty(t, s.Value())

		_, found, err := mem.Get("tags")
		require.NoError(t, err)
		assert.False(t, found)
	})

	t.Run("Set writes through", func(t *testing.T) {
		mem, adapter, _ := setup(t)
		s := New(adapter, "counter", 0)

		s.Set(3)
		assert.Equal(t, 3, s.Value())

		raw, found, err := mem.Get("counter")
		require.NoError(t, err)
		require.True(t, found)
		assert.Equal(t, "3", raw)
	})

	t.Run("Update receives the previous value", func(t *testing.T) {
		_, adapter, _ := setup(t)
		s := New(adapter, "list", []int{1})

		got := s.Update(func(prev []int) []int { return append(prev, 2) })
		assert.Equal(t, []int{1, 2}, got)

		reloaded := New(adapter, "list", []int(nil))
		assert.Equal(t, []int{1, 2}, reloaded.Value())
	})

	t.Run("write failure keeps memory updated", func(t *testing.T) {
		mem, adapter, buf := setup(t)
		s := New(adapter, "counter", 0)
		s.Set(1)

		mem.FailSet = errors.New("QuotaExceededError")
		s.Set(2)

		assert.Equal(t, 2, s.Value())
		assert.Contains(t, buf.String(), "QuotaExceededError")

		mem.FailSet = nil
		raw, _, err := mem.Get("counter")
		require.NoError(t, err)
		assert.Equal(t, "1", raw)
	})
}
