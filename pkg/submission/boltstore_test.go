package submission

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBoltStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "queue.db")

	store, err := NewBoltStore(path)
	require.NoError(t, err)

	require.NoError(t, store.Set("a", []byte("first")))
	require.NoError(t, store.Set("b", []byte("second")))

	data, err := store.Get("a")
	require.NoError(t, err)
	require.Equal(t, []byte("first"), data)

	_, err = store.Get("missing")
	require.ErrorIs(t, err, ErrNotFound)

	records, err := store.List()
	require.NoError(t, err)
	require.Len(t, records, 2)

	require.NoError(t, store.Remove("a"))
	_, err = store.Get("a")
	require.ErrorIs(t, err, ErrNotFound)

	// Records survive a close and reopen of the file.
	require.NoError(t, store.Close())

	reopened, err := NewBoltStore(path)
	require.NoError(t, err)
	defer reopened.Close()

	data, err = reopened.Get("b")
	require.NoError(t, err)
	require.Equal(t, []byte("second"), data)
}
