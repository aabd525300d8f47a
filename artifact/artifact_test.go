package artifact

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryStore(t *testing.T) {
	store := NewInMemoryStore()

	require.NoError(t, store.Save("s1", "a.png", []byte{1, 2, 3}))

	data, err := store.Load("s1", "a.png")
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3}, data)

	_, err = store.Load("s1", "missing")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = store.Load("missing", "a.png")
	assert.ErrorIs(t, err, ErrNotFound)

	ids, err := store.List("s1")
	require.NoError(t, err)
	assert.Equal(t, []string{"a.png"}, ids)

	ids, err = store.List("missing")
	require.NoError(t, err)
	assert.Empty(t, ids)

	require.NoError(t, store.Delete("s1", "a.png"))
	assert.ErrorIs(t, store.Delete("s1", "a.png"), ErrNotFound)
}

func TestInMemoryStoreCopiesData(t *testing.T) {
	store := NewInMemoryStore()

	src := []byte{1, 2, 3}
	require.NoError(t, store.Save("s1", "a", src))
	src[0] = 9

	data, err := store.Load("s1", "a")
	require.NoError(t, err)
	assert.Equal(t, byte(1), data[0])

	// Mutating a loaded copy must not corrupt the store
	data[1] = 9
	again, err := store.Load("s1", "a")
	require.NoError(t, err)
	assert.Equal(t, byte(2), again[1])
}

func TestLocalStore(t *testing.T) {
	store, err := NewLocalStore(filepath.Join(t.TempDir(), "artifacts"))
	require.NoError(t, err)

	require.NoError(t, store.Save("s1", "a.png", []byte("png bytes")))

	data, err := store.Load("s1", "a.png")
	require.NoError(t, err)
	assert.Equal(t, []byte("png bytes"), data)

	_, err = store.Load("s1", "missing.png")
	assert.ErrorIs(t, err, ErrNotFound)

	ids, err := store.List("s1")
	require.NoError(t, err)
	assert.Equal(t, []string{"a.png"}, ids)

	ids, err = store.List("empty-session")
	require.NoError(t, err)
	assert.Empty(t, ids)

	require.NoError(t, store.Delete("s1", "a.png"))
	assert.ErrorIs(t, store.Delete("s1", "a.png"), ErrNotFound)
}

func TestLocalStoreRejectsUnsafeIDs(t *testing.T) {
	store, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)

	for _, id := range []string{"", ".", "..", "../escape", "a/b", "a\\b", "a b"} {
		assert.Error(t, store.Save(id, "a.png", nil), "session id %q", id)
		assert.Error(t, store.Save("s1", id, nil), "artifact id %q", id)
	}
}

func TestNewLocalStoreEmptyRoot(t *testing.T) {
	_, err := NewLocalStore("")
	assert.Error(t, err)
}
