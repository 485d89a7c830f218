package favorites

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/amezcua/folio/internal/storage"
)

func newStore(t *testing.T) (*Store, *storage.Store) {
	t.Helper()
	backing, err := storage.New(t.TempDir())
	require.NoError(t, err)
	return New(backing, nil), backing
}

func TestAddIsIdempotent(t *testing.T) {
	t.Parallel()
	store, _ := newStore(t)

	store.Add(7)
	store.Add(7)
	require.Equal(t, []int64{7}, store.All())
	require.Equal(t, 1, store.Count())
}

func TestRemoveAbsentIsNoOp(t *testing.T) {
	t.Parallel()
	store, _ := newStore(t)

	store.Remove(42)
	require.Equal(t, 0, store.Count())
}

func TestToggleFlipsMembership(t *testing.T) {
	t.Parallel()
	store, _ := newStore(t)

	store.Toggle(3)
	require.True(t, store.IsFavorite(3))
	store.Toggle(3)
	require.False(t, store.IsFavorite(3))
}

// The starred marker in the list and the favorites view both read the same
// set, so membership alone decides both.
func TestMembershipMatchesAll(t *testing.T) {
	t.Parallel()
	store, _ := newStore(t)

	store.Add(2)
	store.Add(9)
	store.Add(5)

	require.Equal(t, []int64{2, 5, 9}, store.All())
	for _, id := range store.All() {
		require.True(t, store.IsFavorite(id))
	}
	require.False(t, store.IsFavorite(4))
}

func TestPersistsAcrossRestarts(t *testing.T) {
	t.Parallel()
	backing, err := storage.New(t.TempDir())
	require.NoError(t, err)

	first := New(backing, nil)
	first.Add(11)
	first.Add(4)

	second := New(backing, nil)
	require.Equal(t, []int64{4, 11}, second.All())
}
