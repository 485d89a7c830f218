package chat

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/amezcua/folio/internal/api"
)

func TestSeedHistoryEmptyFallsBackToWelcome(t *testing.T) {
	t.Parallel()
	thread := New(1)
	thread.SeedHistory(nil)

	require.Equal(t, 1, thread.Len())
	require.Equal(t, api.RoleAI, thread.Messages()[0].Role)
	require.Equal(t, WelcomeText, thread.Messages()[0].Content)
}

func TestSeedHistoryKeepsServerOrder(t *testing.T) {
	t.Parallel()
	history := []api.ChatMessage{
		{Role: api.RoleUser, Content: "q1"},
		{Role: api.RoleAI, Content: "a1"},
	}
	thread := New(1)
	thread.SeedHistory(history)
	require.Equal(t, history, thread.Messages())
}

func TestFailedSendKeepsUserMessage(t *testing.T) {
	t.Parallel()
	thread := New(1)
	thread.SeedHistory(nil)

	seq := thread.Begin("what is this about?")
	thread.Resolve(seq, nil, errors.New("boom"))

	messages := thread.Messages()
	require.Len(t, messages, 3)
	require.Equal(t, "what is this about?", messages[1].Content)
	require.Equal(t, api.RoleUser, messages[1].Role)
	require.Equal(t, SendFailedText, messages[2].Content)
	require.Equal(t, api.RoleAI, messages[2].Role)
	require.False(t, thread.Waiting())
}

func TestRepliesApplyInIssueOrder(t *testing.T) {
	t.Parallel()
	thread := New(1)
	thread.SeedHistory([]api.ChatMessage{{Role: api.RoleAI, Content: "seed"}})

	first := thread.Begin("first")
	second := thread.Begin("second")

	// The second reply lands before the first; it must wait its turn.
	thread.Resolve(second, &api.ChatReply{Response: "answer two"}, nil)
	require.True(t, thread.Waiting())
	require.Equal(t, 3, thread.Len())

	thread.Resolve(first, &api.ChatReply{Response: "answer one"}, nil)
	require.False(t, thread.Waiting())

	var contents []string
	for _, message := range thread.Messages() {
		contents = append(contents, message.Content)
	}
	require.Equal(t, []string{"seed", "first", "second", "answer one", "answer two"}, contents)
}

func TestResolveCarriesSources(t *testing.T) {
	t.Parallel()
	thread := New(1)
	seq := thread.Begin("cite me")
	thread.Resolve(seq, &api.ChatReply{
		Response: "see pages",
		Sources:  []api.Source{{Page: 3}, {Page: 9}},
	}, nil)

	last := thread.Messages()[thread.Len()-1]
	require.Equal(t, []api.Source{{Page: 3}, {Page: 9}}, last.Sources)
}
