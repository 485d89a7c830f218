package quiz

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/amezcua/folio/internal/api"
)

func threeQuestions() []api.QuizQuestion {
	return []api.QuizQuestion{
		{Question: "q0", Options: []string{"a", "b", "c"}, CorrectAnswer: 0},
		{Question: "q1", Options: []string{"a", "b", "c"}, CorrectAnswer: 1},
		{Question: "q2", Options: []string{"a", "b", "c"}, CorrectAnswer: 2},
	}
}

func TestScoreCountsExactMatches(t *testing.T) {
	t.Parallel()
	session := New()
	session.Begin()
	session.Deliver(threeQuestions(), nil)

	session.Answer(0)
	require.True(t, session.Next())
	session.Answer(2)
	require.True(t, session.Next())
	session.Answer(2)
	require.True(t, session.Next())

	require.Equal(t, StateResults, session.State())
	require.Equal(t, 2, session.Score())
	require.Equal(t, 67, session.Percentage())
}

func TestNextBlockedUntilAnswered(t *testing.T) {
	t.Parallel()
	session := New()
	session.Begin()
	session.Deliver(threeQuestions(), nil)

	require.False(t, session.Next())
	require.Equal(t, 0, session.Current())

	session.Answer(1)
	require.True(t, session.Next())
	require.Equal(t, 1, session.Current())
}

func TestReAnswerOverwrites(t *testing.T) {
	t.Parallel()
	session := New()
	session.Begin()
	session.Deliver(threeQuestions(), nil)

	session.Answer(1)
	session.Answer(0)
	answer, ok := session.AnswerFor(0)
	require.True(t, ok)
	require.Equal(t, 0, answer)
}

func TestEmptyGenerationReturnsToIntro(t *testing.T) {
	t.Parallel()
	session := New()
	session.Begin()
	session.Deliver(nil, nil)

	require.Equal(t, StateIntro, session.State())
	require.Equal(t, ErrEmptyQuiz, session.ErrText())
}

func TestFailedGenerationReturnsToIntro(t *testing.T) {
	t.Parallel()
	session := New()
	session.Begin()
	session.Deliver(nil, errors.New("boom"))

	require.Equal(t, StateIntro, session.State())
	require.Equal(t, ErrGenerationFailed, session.ErrText())
}

func TestResetDiscardsEverything(t *testing.T) {
	t.Parallel()
	session := New()
	session.Begin()
	session.Deliver(threeQuestions(), nil)
	session.Answer(2)

	session.Reset()
	require.Equal(t, StateIntro, session.State())
	require.Empty(t, session.Questions())
	_, ok := session.AnswerFor(0)
	require.False(t, ok)
}

func TestBeginClearsInlineError(t *testing.T) {
	t.Parallel()
	session := New()
	session.Begin()
	session.Deliver(nil, errors.New("boom"))
	session.Begin()
	require.Equal(t, StateLoading, session.State())
	require.Empty(t, session.ErrText())
}
