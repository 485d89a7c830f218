package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWriteReadRoundTrip(t *testing.T) {
	t.Parallel()
	store, err := New(t.TempDir())
	require.NoError(t, err)

	in := map[string]int{"a": 1, "b": 2}
	require.NoError(t, store.Write("sample", in))

	out := map[string]int{}
	require.NoError(t, store.Read("sample", &out))
	require.Equal(t, in, out)
}

func TestReadMissingKey(t *testing.T) {
	t.Parallel()
	store, err := New(t.TempDir())
	require.NoError(t, err)

	var out string
	err = store.Read(TokenKey, &out)
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestDeleteIsIdempotent(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	store, err := New(dir)
	require.NoError(t, err)

	require.NoError(t, store.Write(TokenKey, "tok"))
	require.NoError(t, store.Delete(TokenKey))
	require.NoError(t, store.Delete(TokenKey))

	_, err = os.Stat(filepath.Join(dir, TokenKey+".json"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestOverwriteReplacesValue(t *testing.T) {
	t.Parallel()
	store, err := New(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Write(SettingsKey, "first"))
	require.NoError(t, store.Write(SettingsKey, "second"))

	var out string
	require.NoError(t, store.Read(SettingsKey, &out))
	require.Equal(t, "second", out)
}
