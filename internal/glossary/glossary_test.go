package glossary

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/amezcua/folio/internal/api"
)

func TestLifecycle(t *testing.T) {
	t.Parallel()
	session := New()
	require.Equal(t, StateIdle, session.State())

	session.Begin()
	require.Equal(t, StateLoading, session.State())

	terms := []api.GlossaryTerm{{Term: "RAG", Definition: "retrieval augmented generation"}}
	session.Deliver(terms, nil)
	require.Equal(t, StateLoaded, session.State())
	require.Equal(t, terms, session.Terms())
}

func TestFailureIsRetryable(t *testing.T) {
	t.Parallel()
	session := New()
	session.Begin()
	session.Deliver(nil, errors.New("boom"))
	require.Equal(t, StateError, session.State())
	require.Equal(t, ErrGenerationFailed, session.ErrText())

	session.Begin()
	require.Equal(t, StateLoading, session.State())
	require.Empty(t, session.ErrText())
}
