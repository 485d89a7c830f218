package settings

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/amezcua/folio/internal/storage"
)

func TestLoadFallsBackToDefaults(t *testing.T) {
	t.Parallel()
	store, err := storage.New(t.TempDir())
	require.NoError(t, err)

	draft := Load(store)
	require.Equal(t, "en", draft.Language)
	require.True(t, draft.Notifications)
	require.False(t, draft.EmailNotifications)
	require.Equal(t, "dark", draft.ThemePreference)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	t.Parallel()
	store, err := storage.New(t.TempDir())
	require.NoError(t, err)

	draft := Default()
	draft.Name = "Ada"
	draft.Email = "ada@example.com"
	draft.ThemePreference = "light"
	require.NoError(t, Save(store, draft))

	loaded := Load(store)
	require.Equal(t, draft, loaded)
}

func TestSaveRejectsInvalidEmail(t *testing.T) {
	t.Parallel()
	store, err := storage.New(t.TempDir())
	require.NoError(t, err)

	draft := Default()
	draft.Email = "not-an-email"
	require.Error(t, Save(store, draft))
}

func TestEmptyEmailAllowed(t *testing.T) {
	t.Parallel()
	store, err := storage.New(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, Save(store, Default()))
}
