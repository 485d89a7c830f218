// Package tui composes the terminal views: auth, dashboard, library,
// favorites, document detail with chat/glossary/quiz, upload, and settings.
// All async work flows through commands; every completion carries a
// document or sequence guard so stale responses against a gone view are
// discarded instead of applied.
package tui

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/amezcua/folio/internal/api"
	"github.com/amezcua/folio/internal/chat"
	"github.com/amezcua/folio/internal/favorites"
	"github.com/amezcua/folio/internal/glossary"
	"github.com/amezcua/folio/internal/quiz"
	"github.com/amezcua/folio/internal/session"
	"github.com/amezcua/folio/internal/settings"
	"github.com/amezcua/folio/internal/storage"
)

// Config wires the shared stores into the TUI program. Everything is
// constructed once in main and passed by reference; the model never reaches
// for globals.
type Config struct {
	API       *api.Client
	Session   *session.Store
	Favorites *favorites.Store
	Storage   *storage.Store
	ExportDir string
	Logger    *zap.Logger
}

// New returns a tea.Model ready to be mounted into a Program.
func New(config Config) tea.Model {
	if config.Logger == nil {
		config.Logger = zap.NewNop()
	}

	emailInput := textinput.New()
	emailInput.Placeholder = "email"
	emailInput.CharLimit = 120
	emailInput.Width = 40
	emailInput.Focus()

	passwordInput := textinput.New()
	passwordInput.Placeholder = "password"
	passwordInput.EchoMode = textinput.EchoPassword
	passwordInput.CharLimit = 120
	passwordInput.Width = 40

	confirmInput := textinput.New()
	confirmInput.Placeholder = "confirm password"
	confirmInput.EchoMode = textinput.EchoPassword
	confirmInput.CharLimit = 120
	confirmInput.Width = 40

	searchInput := textinput.New()
	searchInput.Placeholder = "Search documents…"
	searchInput.CharLimit = 120
	searchInput.Width = 40

	chatInput := textinput.New()
	chatInput.Placeholder = "Ask something about this document…"
	chatInput.CharLimit = 400
	chatInput.Width = 60

	pathInput := textinput.New()
	pathInput.Placeholder = "/path/to/document.pdf"
	pathInput.CharLimit = 300
	pathInput.Width = 60

	nameInput := textinput.New()
	nameInput.CharLimit = 120
	nameInput.Width = 40

	settingsEmailInput := textinput.New()
	settingsEmailInput.CharLimit = 120
	settingsEmailInput.Width = 40

	spin := spinner.New()
	spin.Spinner = spinner.Dot

	vp := viewport.New(80, 20)
	vp.MouseWheelEnabled = true

	sessionState := config.Session.Snapshot()
	initial := stageLogin
	if sessionState.Loading {
		initial = stageStartup
	}

	return &model{
		config:             config,
		stage:              initial,
		session:            sessionState,
		emailInput:         emailInput,
		passwordInput:      passwordInput,
		confirmInput:       confirmInput,
		searchInput:        searchInput,
		chatInput:          chatInput,
		pathInput:          pathInput,
		nameInput:          nameInput,
		settingsEmailInput: settingsEmailInput,
		spinner:            spin,
		viewport:           vp,
		draft:              settings.Load(config.Storage),
	}
}

type model struct {
	config Config
	stage  stage

	width  int
	height int

	session session.State

	// auth
	emailInput    textinput.Model
	passwordInput textinput.Model
	confirmInput  textinput.Model
	authFocus     int
	authBusy      bool
	authError     string

	// library / favorites
	docs          []api.Document
	docsLoading   bool
	docsErr       string
	docsSeq       int
	searchInput   textinput.Model
	statusFilter  api.DocumentStatus
	sortBy        api.SortKey
	order         string
	cursor        int
	pendingDelete int64
	deleting      bool

	// dashboard / upload
	stats        *api.Stats
	statsLoading bool
	pathInput    textinput.Model
	uploadInfo   *uploadCandidate
	uploadErr    string
	uploading    bool

	// detail
	doc            *api.Document
	detailLoading  bool
	pollSeq        int
	pollAttempts   int
	polling        bool
	tab            detailTab
	viewport       viewport.Model
	thread         *chat.Thread
	historyLoading bool
	chatInput      textinput.Model
	exportPrompt   bool
	exporting      bool
	gloss          *glossary.Session
	quizRun        *quiz.Session

	// settings
	draft              settings.Draft
	nameInput          textinput.Model
	settingsEmailInput textinput.Model
	settingsCursor     settingsField
	settingsEditing    bool

	spinner spinner.Model
	toasts  []toast
}

type uploadCandidate struct {
	path      string
	name      string
	sizeLabel string
	pageCount int
	excerpt   string
}

func (m *model) Init() tea.Cmd {
	cmds := []tea.Cmd{textinput.Blink}
	if m.stage == stageStartup {
		cmds = append(cmds, m.spinner.Tick, resumeSessionCmd(m.config.Session))
	}
	return tea.Batch(cmds...)
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		if m.busy() {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		newWidth := msg.Width - viewportHorizontalPadding
		if newWidth < minViewportWidth {
			newWidth = minViewportWidth
		}
		m.viewport.Width = newWidth
		height := msg.Height - 10
		if height < 5 {
			height = 5
		}
		m.viewport.Height = height
		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		return m.handleKey(msg)

	case tea.MouseMsg:
		if m.stage == stageDetail {
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}
		return m, nil

	case toastExpiredMsg:
		m.expireToast(msg.id)
		return m, nil

	case sessionResumedMsg:
		return m.handleSessionResumed(msg)
	case loginResultMsg:
		return m.handleLoginResult(msg)
	case registerResultMsg:
		return m.handleRegisterResult(msg)
	case documentsLoadedMsg:
		return m.handleDocumentsLoaded(msg)
	case documentLoadedMsg:
		return m.handleDocumentLoaded(msg)
	case pollTickMsg:
		return m.handlePollTick(msg)
	case documentDeletedMsg:
		return m.handleDocumentDeleted(msg)
	case uploadInspectedMsg:
		return m.handleUploadInspected(msg)
	case uploadResultMsg:
		return m.handleUploadResult(msg)
	case historyLoadedMsg:
		return m.handleHistoryLoaded(msg)
	case chatReplyMsg:
		return m.handleChatReply(msg)
	case glossaryResultMsg:
		return m.handleGlossaryResult(msg)
	case quizResultMsg:
		return m.handleQuizResult(msg)
	case exportResultMsg:
		return m.handleExportResult(msg)
	case statsResultMsg:
		return m.handleStatsResult(msg)
	}
	return m, nil
}

func (m *model) busy() bool {
	return m.stage == stageStartup || m.authBusy || m.docsLoading || m.detailLoading ||
		m.historyLoading || m.statsLoading || m.uploading || m.deleting || m.exporting ||
		m.polling || (m.thread != nil && m.thread.Waiting()) ||
		(m.gloss != nil && m.gloss.State() == glossary.StateLoading) ||
		(m.quizRun != nil && m.quizRun.State() == quiz.StateLoading)
}

// ---- result handlers ----

func (m *model) handleSessionResumed(msg sessionResumedMsg) (tea.Model, tea.Cmd) {
	m.session = msg.state
	if !msg.state.Authenticated {
		// An expired or rejected token lands back on login without a
		// flash-through of any protected view.
		m.stage = stageLogin
		m.focusAuthField(0)
		if msg.err != nil && !api.IsUnauthorized(msg.err) {
			return m, m.pushToast(toastError, "Could not reach the server. Check your connection.")
		}
		return m, nil
	}
	return m.enterDashboard()
}

func (m *model) handleLoginResult(msg loginResultMsg) (tea.Model, tea.Cmd) {
	m.authBusy = false
	m.session = msg.state
	if msg.err != nil {
		m.authError = errDetail(msg.err, "Could not sign in")
		return m, m.pushToast(toastError, m.authError)
	}
	m.authError = ""
	m.passwordInput.SetValue("")
	cmd := m.pushToast(toastSuccess, "Signed in")
	next, enterCmd := m.enterDashboard()
	return next, tea.Batch(cmd, enterCmd)
}

func (m *model) handleRegisterResult(msg registerResultMsg) (tea.Model, tea.Cmd) {
	m.authBusy = false
	if msg.err != nil {
		m.authError = errDetail(msg.err, "Could not register")
		return m, m.pushToast(toastError, m.authError)
	}
	m.authError = ""
	m.stage = stageLogin
	m.emailInput.SetValue(msg.email)
	m.passwordInput.SetValue("")
	m.confirmInput.SetValue("")
	m.focusAuthField(1)
	return m, m.pushToast(toastSuccess, "Account created. Please sign in.")
}

func (m *model) handleDocumentsLoaded(msg documentsLoadedMsg) (tea.Model, tea.Cmd) {
	if msg.seq != m.docsSeq {
		return m, nil
	}
	m.docsLoading = false
	if msg.err != nil {
		m.docsErr = errDetail(msg.err, "Could not load the library")
		return m, nil
	}
	m.docsErr = ""
	m.docs = msg.docs
	if m.cursor >= len(m.visibleDocs()) {
		m.cursor = 0
	}
	return m, nil
}

func (m *model) handleDocumentLoaded(msg documentLoadedMsg) (tea.Model, tea.Cmd) {
	if m.stage != stageDetail || msg.seq != m.pollSeq {
		return m, nil
	}
	m.detailLoading = false
	if msg.err != nil {
		if m.doc == nil {
			// Initial load failed; the view renders "not found".
			return m, nil
		}
		if m.doc.Status == api.StatusProcessing {
			// Poll fetches keep retrying until the attempt budget runs out.
			m.polling = true
			return m, pollTickCmd(m.pollSeq)
		}
		return m, nil
	}

	doc := msg.doc
	if m.doc != nil && doc.Status.Rank() < m.doc.Status.Rank() {
		// Out-of-order poll response; displayed status never regresses.
		doc.Status = m.doc.Status
	}
	m.doc = doc
	if doc.Status == api.StatusProcessing {
		m.polling = true
		return m, tea.Batch(m.spinner.Tick, pollTickCmd(m.pollSeq))
	}
	m.polling = false
	return m, nil
}

func (m *model) handlePollTick(msg pollTickMsg) (tea.Model, tea.Cmd) {
	if msg.seq != m.pollSeq || m.stage != stageDetail || m.doc == nil {
		return m, nil
	}
	if m.doc.Status != api.StatusProcessing {
		m.polling = false
		return m, nil
	}
	m.pollAttempts++
	if m.pollAttempts > maxPollAttempts {
		m.polling = false
		return m, m.pushToast(toastWarning, "Processing is taking longer than expected. Refresh later.")
	}
	return m, loadDocumentCmd(m.config.API, m.doc.ID, m.pollSeq)
}

func (m *model) handleDocumentDeleted(msg documentDeletedMsg) (tea.Model, tea.Cmd) {
	m.deleting = false
	m.pendingDelete = 0
	if msg.err != nil {
		// The list stays as it was; nothing was removed optimistically.
		return m, m.pushToast(toastError, errDetail(msg.err, "Could not delete the document"))
	}
	kept := m.docs[:0]
	for _, doc := range m.docs {
		if doc.ID != msg.id {
			kept = append(kept, doc)
		}
	}
	m.docs = kept
	if m.cursor >= len(m.visibleDocs()) && m.cursor > 0 {
		m.cursor--
	}
	return m, m.pushToast(toastSuccess, "Document deleted")
}

func (m *model) handleUploadInspected(msg uploadInspectedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.uploadErr = msg.err.Error()
		m.uploadInfo = nil
		return m, nil
	}
	m.uploadErr = ""
	m.uploadInfo = &uploadCandidate{
		path:      msg.info.Path,
		name:      msg.info.Name,
		sizeLabel: msg.info.SizeMB(),
		pageCount: msg.info.PageCount,
		excerpt:   msg.excerpt,
	}
	return m, nil
}

func (m *model) handleUploadResult(msg uploadResultMsg) (tea.Model, tea.Cmd) {
	m.uploading = false
	if msg.err != nil {
		// Keep the candidate so the user can retry from where they were.
		return m, m.pushToast(toastError, errDetail(msg.err, "Could not upload the document"))
	}
	m.uploadInfo = nil
	m.pathInput.SetValue("")
	cmd := m.pushToast(toastSuccess, "Document uploaded")
	next, enterCmd := m.enterLibrary()
	return next, tea.Batch(cmd, enterCmd)
}

func (m *model) handleHistoryLoaded(msg historyLoadedMsg) (tea.Model, tea.Cmd) {
	if m.thread == nil || m.thread.DocumentID() != msg.documentID {
		return m, nil
	}
	m.historyLoading = false
	if msg.err != nil {
		// History load failure is non-fatal; seed the welcome message.
		m.thread.SeedHistory(nil)
		return m, nil
	}
	m.thread.SeedHistory(msg.history)
	return m, nil
}

func (m *model) handleChatReply(msg chatReplyMsg) (tea.Model, tea.Cmd) {
	if m.thread == nil || m.thread.DocumentID() != msg.documentID {
		return m, nil
	}
	m.thread.Resolve(msg.seq, msg.reply, msg.err)
	return m, nil
}

func (m *model) handleGlossaryResult(msg glossaryResultMsg) (tea.Model, tea.Cmd) {
	if m.doc == nil || m.doc.ID != msg.documentID || m.gloss == nil {
		return m, nil
	}
	m.gloss.Deliver(msg.terms, msg.err)
	return m, nil
}

func (m *model) handleQuizResult(msg quizResultMsg) (tea.Model, tea.Cmd) {
	if m.doc == nil || m.doc.ID != msg.documentID || m.quizRun == nil {
		return m, nil
	}
	m.quizRun.Deliver(msg.questions, msg.err)
	return m, nil
}

func (m *model) handleExportResult(msg exportResultMsg) (tea.Model, tea.Cmd) {
	m.exporting = false
	if msg.err != nil {
		return m, m.pushToast(toastError, errDetail(msg.err, "Could not export the chat"))
	}
	return m, m.pushToast(toastSuccess, fmt.Sprintf("Chat exported to %s", msg.path))
}

func (m *model) handleStatsResult(msg statsResultMsg) (tea.Model, tea.Cmd) {
	m.statsLoading = false
	if msg.err != nil {
		// Stats are decorative; degrade to zeros without bothering the user.
		m.stats = &api.Stats{}
		return m, nil
	}
	m.stats = msg.stats
	return m, nil
}

// ---- stage transitions ----

func (m *model) enterDashboard() (tea.Model, tea.Cmd) {
	m.stage = stageDashboard
	m.statsLoading = true
	return m, tea.Batch(m.spinner.Tick, loadStatsCmd(m.config.API))
}

func (m *model) enterLibrary() (tea.Model, tea.Cmd) {
	m.stage = stageLibrary
	m.cursor = 0
	return m, m.reloadDocuments()
}

func (m *model) enterFavorites() (tea.Model, tea.Cmd) {
	m.stage = stageFavorites
	m.cursor = 0
	// The favorites view always works from the full list and filters
	// client-side by membership; server-side filters do not apply here.
	m.docsLoading = true
	m.docsSeq++
	return m, tea.Batch(m.spinner.Tick, loadDocumentsCmd(m.config.API, api.Filter{}, m.docsSeq))
}

func (m *model) enterSettings() (tea.Model, tea.Cmd) {
	m.stage = stageSettings
	m.draft = settings.Load(m.config.Storage)
	if m.draft.Email == "" && m.session.User != nil {
		m.draft.Email = m.session.User.Email
	}
	m.nameInput.SetValue(m.draft.Name)
	m.settingsEmailInput.SetValue(m.draft.Email)
	m.settingsCursor = fieldName
	m.settingsEditing = false
	return m, nil
}

func (m *model) enterDetail(doc api.Document) (tea.Model, tea.Cmd) {
	m.stage = stageDetail
	snapshot := doc
	m.doc = &snapshot
	m.detailLoading = true
	m.pollSeq++
	m.pollAttempts = 0
	m.polling = false
	m.tab = tabSummary
	m.exportPrompt = false
	m.thread = chat.New(doc.ID)
	m.historyLoading = true
	m.chatInput.SetValue("")
	m.chatInput.Blur()
	m.gloss = glossary.New()
	m.quizRun = quiz.New()
	m.viewport.SetYOffset(0)
	return m, tea.Batch(
		m.spinner.Tick,
		loadDocumentCmd(m.config.API, doc.ID, m.pollSeq),
		loadHistoryCmd(m.config.API, doc.ID),
	)
}

func (m *model) leaveDetail() (tea.Model, tea.Cmd) {
	// Bumping the sequence deterministically cancels the poll loop and
	// orphans any in-flight detail fetch.
	m.pollSeq++
	m.polling = false
	m.doc = nil
	m.thread = nil
	m.gloss = nil
	m.quizRun = nil
	return m.enterLibrary()
}

func (m *model) reloadDocuments() tea.Cmd {
	m.docsLoading = true
	m.docsSeq++
	filter := api.Filter{Status: m.statusFilter, SortBy: m.sortBy, Order: m.order}
	return tea.Batch(m.spinner.Tick, loadDocumentsCmd(m.config.API, filter, m.docsSeq))
}

// visibleDocs applies the client-side filters for the current list view:
// the free-text title filter in the library, favorites membership in the
// favorites view. Status and sort are already applied server-side.
func (m *model) visibleDocs() []api.Document {
	docs := m.docs
	if m.stage == stageFavorites {
		kept := make([]api.Document, 0, len(docs))
		for _, doc := range docs {
			if m.config.Favorites.IsFavorite(doc.ID) {
				kept = append(kept, doc)
			}
		}
		return kept
	}
	return api.FilterByTitle(docs, m.searchInput.Value())
}

func (m *model) selectedDoc() (api.Document, bool) {
	docs := m.visibleDocs()
	if m.cursor < 0 || m.cursor >= len(docs) {
		return api.Document{}, false
	}
	return docs[m.cursor], true
}

func (m *model) focusAuthField(index int) {
	m.authFocus = index
	inputs := []*textinput.Model{&m.emailInput, &m.passwordInput, &m.confirmInput}
	for i, input := range inputs {
		if i == index {
			input.Focus()
		} else {
			input.Blur()
		}
	}
}

// errDetail prefers the server-provided detail message; transport errors get
// the caller's fallback instead of raw Go error text.
func errDetail(err error, fallback string) string {
	var apiErr *api.Error
	if errors.As(err, &apiErr) && apiErr.Detail != "" {
		return apiErr.Detail
	}
	return fallback
}
