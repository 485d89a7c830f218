package tui

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/amezcua/folio/internal/api"
	"github.com/amezcua/folio/internal/chat"
	"github.com/amezcua/folio/internal/favorites"
	"github.com/amezcua/folio/internal/session"
	"github.com/amezcua/folio/internal/storage"
)

func newTestModel(t *testing.T, handler http.Handler) (*model, *api.Client) {
	t.Helper()
	if handler == nil {
		handler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		})
	}
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := api.New(api.Config{BaseURL: server.URL, Timeout: 5 * time.Second, RateLimit: 1000, Burst: 1000})
	files, err := storage.New(t.TempDir())
	require.NoError(t, err)

	m := New(Config{
		API:       client,
		Session:   session.New(client, files, nil),
		Favorites: favorites.New(files, nil),
		Storage:   files,
		ExportDir: t.TempDir(),
	}).(*model)
	return m, client
}

// documentServer serves GET /api/v1/documents/1 with a switchable status and
// counts the fetches it saw.
type documentServer struct {
	mu      sync.Mutex
	status  api.DocumentStatus
	fetches int
}

func (s *documentServer) handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.fetches++
		status := s.status
		s.mu.Unlock()
		json.NewEncoder(w).Encode(api.Document{ID: 1, Title: "Doc", Status: status})
	})
}

func (s *documentServer) setStatus(status api.DocumentStatus) {
	s.mu.Lock()
	s.status = status
	s.mu.Unlock()
}

func (s *documentServer) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fetches
}

func TestPollingStopsAfterCompletion(t *testing.T) {
	t.Parallel()
	server := &documentServer{status: api.StatusProcessing}
	m, client := newTestModel(t, server.handler())

	m.enterDetail(api.Document{ID: 1, Title: "Doc", Status: api.StatusProcessing})

	// Initial fetch observes processing and arms the poll timer.
	msg := loadDocumentCmd(client, 1, m.pollSeq)()
	_, cmd := m.Update(msg)
	require.NotNil(t, cmd)
	require.True(t, m.polling)

	// The document completes before the next tick fires.
	server.setStatus(api.StatusCompleted)
	_, cmd = m.Update(pollTickMsg{seq: m.pollSeq})
	require.NotNil(t, cmd)
	msg = cmd()
	m.Update(msg)
	require.False(t, m.polling)
	require.Equal(t, api.StatusCompleted, m.doc.Status)
	require.Equal(t, 2, server.count())

	// A straggling tick after completion issues no further fetch.
	_, cmd = m.Update(pollTickMsg{seq: m.pollSeq})
	require.Nil(t, cmd)
	require.Equal(t, 2, server.count())
}

func TestStaleDocumentResultDiscardedAfterLeaving(t *testing.T) {
	t.Parallel()
	m, _ := newTestModel(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]api.Document{})
	}))

	m.enterDetail(api.Document{ID: 1, Status: api.StatusProcessing})
	staleSeq := m.pollSeq
	m.leaveDetail()

	completed := &api.Document{ID: 1, Status: api.StatusCompleted}
	m.Update(documentLoadedMsg{seq: staleSeq, doc: completed})
	require.Nil(t, m.doc)
}

func TestStaleTickDiscardedAfterSeqBump(t *testing.T) {
	t.Parallel()
	m, _ := newTestModel(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]api.Document{})
	}))

	m.enterDetail(api.Document{ID: 1, Status: api.StatusProcessing})
	staleSeq := m.pollSeq
	m.enterDetail(api.Document{ID: 2, Status: api.StatusCompleted})

	_, cmd := m.Update(pollTickMsg{seq: staleSeq})
	require.Nil(t, cmd)
}

func TestDisplayedStatusNeverRegresses(t *testing.T) {
	t.Parallel()
	m, _ := newTestModel(t, nil)

	m.enterDetail(api.Document{ID: 1, Status: api.StatusCompleted})
	stale := &api.Document{ID: 1, Status: api.StatusProcessing}
	m.Update(documentLoadedMsg{seq: m.pollSeq, doc: stale})
	require.Equal(t, api.StatusCompleted, m.doc.Status)
}

func TestDeleteRemovesFromListOnlyOnSuccess(t *testing.T) {
	t.Parallel()
	m, _ := newTestModel(t, nil)
	m.stage = stageLibrary
	m.docs = []api.Document{{ID: 1, Title: "a"}, {ID: 2, Title: "b"}}

	m.pendingDelete = 1
	m.deleting = true
	m.Update(documentDeletedMsg{id: 1, err: &api.Error{Status: 500, Detail: "nope"}})
	require.Len(t, m.docs, 2)
	require.Zero(t, m.pendingDelete)

	m.pendingDelete = 1
	m.deleting = true
	m.Update(documentDeletedMsg{id: 1})
	require.Len(t, m.docs, 1)
	require.Equal(t, int64(2), m.docs[0].ID)
}

func TestChatReplyForGoneDocumentDiscarded(t *testing.T) {
	t.Parallel()
	m, _ := newTestModel(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]api.Document{})
	}))

	m.enterDetail(api.Document{ID: 1, Status: api.StatusCompleted})
	m.leaveDetail()

	// Must not panic or resurrect state for the closed view.
	m.Update(chatReplyMsg{documentID: 1, seq: 0, reply: &api.ChatReply{Response: "late"}})
	require.Nil(t, m.thread)
}

func TestHistoryFailureSeedsWelcome(t *testing.T) {
	t.Parallel()
	m, _ := newTestModel(t, nil)
	m.enterDetail(api.Document{ID: 1, Status: api.StatusCompleted})

	m.Update(historyLoadedMsg{documentID: 1, err: &api.Error{Status: 500}})
	require.False(t, m.historyLoading)
	require.Equal(t, 1, m.thread.Len())
	require.Equal(t, chat.WelcomeText, m.thread.Messages()[0].Content)
}

func TestHistoryForOtherDocumentIgnored(t *testing.T) {
	t.Parallel()
	m, _ := newTestModel(t, nil)
	m.enterDetail(api.Document{ID: 2, Status: api.StatusCompleted})

	m.Update(historyLoadedMsg{documentID: 1, history: []api.ChatMessage{{Role: api.RoleUser, Content: "x"}}})
	require.True(t, m.historyLoading)
	require.Zero(t, m.thread.Len())
}

func TestToastExpires(t *testing.T) {
	t.Parallel()
	m, _ := newTestModel(t, nil)

	cmd := m.pushToast(toastSuccess, "done")
	require.NotNil(t, cmd)
	require.Len(t, m.toasts, 1)

	m.Update(toastExpiredMsg{id: m.toasts[0].id})
	require.Empty(t, m.toasts)
}

func TestVisibleDocsFiltersByTitleInLibrary(t *testing.T) {
	t.Parallel()
	m, _ := newTestModel(t, nil)
	m.stage = stageLibrary
	m.docs = []api.Document{
		{ID: 1, Title: "Report A"},
		{ID: 2, Title: "report b"},
		{ID: 3, Title: "Notes"},
	}
	m.searchInput.SetValue("report")

	visible := m.visibleDocs()
	require.Len(t, visible, 2)
}

func TestVisibleDocsFiltersByMembershipInFavorites(t *testing.T) {
	t.Parallel()
	m, _ := newTestModel(t, nil)
	m.stage = stageFavorites
	m.docs = []api.Document{{ID: 1}, {ID: 2}, {ID: 3}}
	m.config.Favorites.Add(2)

	visible := m.visibleDocs()
	require.Len(t, visible, 1)
	require.Equal(t, int64(2), visible[0].ID)
}

func TestStatusFilterCycle(t *testing.T) {
	t.Parallel()
	current := api.DocumentStatus("")
	var seen []api.DocumentStatus
	for i := 0; i < 4; i++ {
		current = nextStatusFilter(current)
		seen = append(seen, current)
	}
	require.Equal(t, []api.DocumentStatus{
		api.StatusCompleted, api.StatusProcessing, api.StatusError, "",
	}, seen)
}

func TestStaleDocumentsListDiscarded(t *testing.T) {
	t.Parallel()
	m, _ := newTestModel(t, nil)
	m.stage = stageLibrary
	m.docsLoading = true
	m.docsSeq = 5

	m.Update(documentsLoadedMsg{seq: 4, docs: []api.Document{{ID: 9}}})
	require.True(t, m.docsLoading)
	require.Empty(t, m.docs)

	m.Update(documentsLoadedMsg{seq: 5, docs: []api.Document{{ID: 9}}})
	require.False(t, m.docsLoading)
	require.Len(t, m.docs, 1)
}

func TestPollBudgetExhaustionStopsPolling(t *testing.T) {
	t.Parallel()
	m, _ := newTestModel(t, nil)
	m.enterDetail(api.Document{ID: 1, Status: api.StatusProcessing})
	m.pollAttempts = maxPollAttempts

	_, cmd := m.Update(pollTickMsg{seq: m.pollSeq})
	require.NotNil(t, cmd) // toast expiry timer, not a fetch
	require.False(t, m.polling)
	require.Len(t, m.toasts, 1)
}
