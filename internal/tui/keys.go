package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/amezcua/folio/internal/api"
	"github.com/amezcua/folio/internal/glossary"
	"github.com/amezcua/folio/internal/quiz"
	"github.com/amezcua/folio/internal/session"
	"github.com/amezcua/folio/internal/settings"
)

func (m *model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.stage {
	case stageStartup:
		return m, nil
	case stageLogin:
		return m.handleLoginKey(msg)
	case stageRegister:
		return m.handleRegisterKey(msg)
	case stageDashboard:
		return m.handleDashboardKey(msg)
	case stageLibrary, stageFavorites:
		return m.handleListKey(msg)
	case stageDetail:
		return m.handleDetailKey(msg)
	case stageUpload:
		return m.handleUploadKey(msg)
	case stageSettings:
		return m.handleSettingsKey(msg)
	}
	return m, nil
}

// ---- auth ----

func (m *model) handleLoginKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.authBusy {
		return m, nil
	}
	switch msg.String() {
	case "tab", "down":
		m.focusAuthField((m.authFocus + 1) % loginFieldCount)
		return m, nil
	case "shift+tab", "up":
		m.focusAuthField((m.authFocus + loginFieldCount - 1) % loginFieldCount)
		return m, nil
	case "ctrl+r":
		m.stage = stageRegister
		m.authError = ""
		m.focusAuthField(0)
		return m, nil
	case "enter":
		if m.authFocus < loginFieldCount-1 {
			m.focusAuthField(m.authFocus + 1)
			return m, nil
		}
		email := strings.TrimSpace(m.emailInput.Value())
		password := m.passwordInput.Value()
		if email == "" || password == "" {
			m.authError = "Email and password are required"
			return m, nil
		}
		m.authBusy = true
		m.authError = ""
		return m, tea.Batch(m.spinner.Tick, loginCmd(m.config.Session, email, password))
	}
	return m.updateAuthInputs(msg)
}

func (m *model) handleRegisterKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.authBusy {
		return m, nil
	}
	switch msg.String() {
	case "tab", "down":
		m.focusAuthField((m.authFocus + 1) % registerFieldCount)
		return m, nil
	case "shift+tab", "up":
		m.focusAuthField((m.authFocus + registerFieldCount - 1) % registerFieldCount)
		return m, nil
	case "ctrl+r", "esc":
		m.stage = stageLogin
		m.authError = ""
		m.focusAuthField(0)
		return m, nil
	case "enter":
		if m.authFocus < registerFieldCount-1 {
			m.focusAuthField(m.authFocus + 1)
			return m, nil
		}
		in := session.RegisterInput{
			Email:           strings.TrimSpace(m.emailInput.Value()),
			Password:        m.passwordInput.Value(),
			ConfirmPassword: m.confirmInput.Value(),
		}
		if err := session.ValidateRegistration(in); err != nil {
			m.authError = err.Error()
			return m, nil
		}
		m.authBusy = true
		m.authError = ""
		return m, tea.Batch(m.spinner.Tick, registerCmd(m.config.Session, in))
	}
	return m.updateAuthInputs(msg)
}

func (m *model) updateAuthInputs(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.authFocus {
	case 0:
		m.emailInput, cmd = m.emailInput.Update(msg)
	case 1:
		m.passwordInput, cmd = m.passwordInput.Update(msg)
	case 2:
		m.confirmInput, cmd = m.confirmInput.Update(msg)
	}
	return m, cmd
}

// ---- dashboard ----

func (m *model) handleDashboardKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "2", "l":
		return m.enterLibrary()
	case "3", "f":
		return m.enterFavorites()
	case "4", "s":
		return m.enterSettings()
	case "u":
		m.stage = stageUpload
		m.uploadErr = ""
		m.uploadInfo = nil
		m.pathInput.Focus()
		return m, nil
	case "r":
		m.statsLoading = true
		return m, tea.Batch(m.spinner.Tick, loadStatsCmd(m.config.API))
	}
	return m, nil
}

// ---- library / favorites ----

func (m *model) handleListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.searchInput.Focused() {
		switch msg.String() {
		case "esc", "enter":
			m.searchInput.Blur()
			return m, nil
		}
		var cmd tea.Cmd
		m.searchInput, cmd = m.searchInput.Update(msg)
		m.cursor = 0
		return m, cmd
	}

	if m.pendingDelete != 0 {
		switch msg.String() {
		case "y", "enter":
			if m.deleting {
				return m, nil
			}
			m.deleting = true
			return m, tea.Batch(m.spinner.Tick, deleteDocumentCmd(m.config.API, m.pendingDelete))
		case "n", "esc":
			m.pendingDelete = 0
			return m, nil
		}
		return m, nil
	}

	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "1":
		return m.enterDashboard()
	case "2":
		if m.stage == stageFavorites {
			return m.enterLibrary()
		}
		return m, nil
	case "3":
		if m.stage == stageLibrary {
			return m.enterFavorites()
		}
		return m, nil
	case "4":
		return m.enterSettings()
	case "u":
		m.stage = stageUpload
		m.uploadErr = ""
		m.uploadInfo = nil
		m.pathInput.Focus()
		return m, nil
	case "/":
		if m.stage == stageLibrary {
			m.searchInput.Focus()
			return m, nil
		}
		return m, nil
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil
	case "down", "j":
		if m.cursor < len(m.visibleDocs())-1 {
			m.cursor++
		}
		return m, nil
	case "enter":
		if doc, ok := m.selectedDoc(); ok {
			return m.enterDetail(doc)
		}
		return m, nil
	case "m":
		if doc, ok := m.selectedDoc(); ok {
			m.config.Favorites.Toggle(doc.ID)
			if m.stage == stageFavorites && m.cursor >= len(m.visibleDocs()) && m.cursor > 0 {
				m.cursor--
			}
		}
		return m, nil
	case "x", "d":
		if doc, ok := m.selectedDoc(); ok {
			m.pendingDelete = doc.ID
		}
		return m, nil
	case "f":
		if m.stage == stageLibrary {
			m.statusFilter = nextStatusFilter(m.statusFilter)
			m.cursor = 0
			return m, m.reloadDocuments()
		}
		return m, nil
	case "s":
		if m.stage == stageLibrary {
			if m.sortBy == api.SortByTitle {
				m.sortBy = api.SortByCreated
			} else {
				m.sortBy = api.SortByTitle
			}
			return m, m.reloadDocuments()
		}
		return m, nil
	case "o":
		if m.stage == stageLibrary {
			if m.order == "asc" {
				m.order = "desc"
			} else {
				m.order = "asc"
			}
			return m, m.reloadDocuments()
		}
		return m, nil
	case "r":
		if m.stage == stageFavorites {
			return m.enterFavorites()
		}
		return m, m.reloadDocuments()
	}
	return m, nil
}

// nextStatusFilter cycles all → completed → processing → error → all.
func nextStatusFilter(current api.DocumentStatus) api.DocumentStatus {
	switch current {
	case "":
		return api.StatusCompleted
	case api.StatusCompleted:
		return api.StatusProcessing
	case api.StatusProcessing:
		return api.StatusError
	default:
		return ""
	}
}

// ---- detail ----

func (m *model) handleDetailKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.exportPrompt {
		switch msg.String() {
		case "1", "2", "3":
			formats := map[string]api.ExportFormat{
				"1": api.ExportJSON,
				"2": api.ExportText,
				"3": api.ExportMarkdown,
			}
			m.exportPrompt = false
			m.exporting = true
			return m, tea.Batch(m.spinner.Tick,
				exportChatCmd(m.config.API, m.doc.ID, m.doc.Title, m.config.ExportDir, formats[msg.String()]))
		case "esc":
			m.exportPrompt = false
			return m, nil
		}
		return m, nil
	}

	if m.chatInput.Focused() {
		switch msg.String() {
		case "esc":
			m.chatInput.Blur()
			return m, nil
		case "enter":
			return m.sendChat()
		}
		var cmd tea.Cmd
		m.chatInput, cmd = m.chatInput.Update(msg)
		return m, cmd
	}

	switch msg.String() {
	case "esc", "b":
		return m.leaveDetail()
	case "tab", "]", "right":
		m.tab = detailTabs[(int(m.tab)+1)%len(detailTabs)]
		return m, nil
	case "shift+tab", "[", "left":
		m.tab = detailTabs[(int(m.tab)+len(detailTabs)-1)%len(detailTabs)]
		return m, nil
	case "m":
		if m.doc != nil {
			m.config.Favorites.Toggle(m.doc.ID)
		}
		return m, nil
	case "up", "k":
		m.viewport.LineUp(1)
		return m, nil
	case "down", "j":
		m.viewport.LineDown(1)
		return m, nil
	case "pgup":
		m.viewport.HalfViewUp()
		return m, nil
	case "pgdown":
		m.viewport.HalfViewDown()
		return m, nil
	}

	switch m.tab {
	case tabChat:
		return m.handleChatTabKey(msg)
	case tabGlossary:
		return m.handleGlossaryTabKey(msg)
	case tabQuiz:
		return m.handleQuizTabKey(msg)
	}
	return m, nil
}

func (m *model) handleChatTabKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "i", "enter":
		if m.doc != nil && m.doc.Status == api.StatusCompleted {
			m.chatInput.Focus()
		}
		return m, nil
	case "e":
		if m.thread != nil && !m.exporting {
			m.exportPrompt = true
		}
		return m, nil
	}
	return m, nil
}

func (m *model) handleGlossaryTabKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "g", "enter":
		if m.doc == nil || m.doc.Status != api.StatusCompleted || m.gloss == nil {
			return m, nil
		}
		if m.gloss.State() == glossary.StateLoading {
			return m, nil
		}
		m.gloss.Begin()
		return m, tea.Batch(m.spinner.Tick, generateGlossaryCmd(m.config.API, m.doc.ID))
	}
	return m, nil
}

func (m *model) handleQuizTabKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.quizRun == nil || m.doc == nil {
		return m, nil
	}
	switch m.quizRun.State() {
	case quiz.StateIntro:
		if msg.String() == "g" || msg.String() == "enter" {
			if m.doc.Status != api.StatusCompleted {
				return m, nil
			}
			m.quizRun.Begin()
			return m, tea.Batch(m.spinner.Tick, generateQuizCmd(m.config.API, m.doc.ID))
		}
	case quiz.StateActive:
		switch msg.String() {
		case "1", "2", "3", "4":
			option := int(msg.String()[0] - '1')
			if option < len(m.quizRun.CurrentQuestion().Options) {
				m.quizRun.Answer(option)
			}
			return m, nil
		case "enter":
			m.quizRun.Next()
			return m, nil
		}
	case quiz.StateResults:
		if msg.String() == "r" {
			m.quizRun.Reset()
			return m, nil
		}
	}
	return m, nil
}

func (m *model) sendChat() (tea.Model, tea.Cmd) {
	if m.thread == nil || m.doc == nil {
		return m, nil
	}
	content := strings.TrimSpace(m.chatInput.Value())
	if content == "" || m.thread.Waiting() || m.historyLoading {
		return m, nil
	}
	seq := m.thread.Begin(content)
	m.chatInput.SetValue("")
	return m, tea.Batch(m.spinner.Tick, sendMessageCmd(m.config.API, m.doc.ID, seq, content))
}

// ---- upload ----

func (m *model) handleUploadKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.uploading {
		return m, nil
	}

	if m.pathInput.Focused() {
		switch msg.String() {
		case "esc":
			m.pathInput.Blur()
			return m.enterDashboard()
		case "enter":
			path := strings.TrimSpace(m.pathInput.Value())
			if path == "" {
				return m, nil
			}
			m.pathInput.Blur()
			m.uploadErr = ""
			m.uploadInfo = nil
			return m, inspectUploadCmd(path)
		}
		var cmd tea.Cmd
		m.pathInput, cmd = m.pathInput.Update(msg)
		return m, cmd
	}

	switch msg.String() {
	case "esc":
		return m.enterDashboard()
	case "e":
		m.pathInput.Focus()
		return m, nil
	case "enter", "y":
		if m.uploadInfo == nil {
			m.pathInput.Focus()
			return m, nil
		}
		m.uploading = true
		return m, tea.Batch(m.spinner.Tick, uploadCmd(m.config.API, m.uploadInfo.path))
	}
	return m, nil
}

// ---- settings ----

func (m *model) handleSettingsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.settingsEditing {
		switch msg.String() {
		case "enter", "esc":
			if m.settingsCursor == fieldName {
				m.draft.Name = strings.TrimSpace(m.nameInput.Value())
				m.nameInput.Blur()
			} else {
				m.draft.Email = strings.TrimSpace(m.settingsEmailInput.Value())
				m.settingsEmailInput.Blur()
			}
			m.settingsEditing = false
			return m, nil
		}
		var cmd tea.Cmd
		if m.settingsCursor == fieldName {
			m.nameInput, cmd = m.nameInput.Update(msg)
		} else {
			m.settingsEmailInput, cmd = m.settingsEmailInput.Update(msg)
		}
		return m, cmd
	}

	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "1":
		return m.enterDashboard()
	case "2":
		return m.enterLibrary()
	case "3":
		return m.enterFavorites()
	case "up", "k":
		if m.settingsCursor > 0 {
			m.settingsCursor--
		}
		return m, nil
	case "down", "j":
		if m.settingsCursor < settingsFieldCount-1 {
			m.settingsCursor++
		}
		return m, nil
	case "enter", " ":
		return m.toggleSettingsField()
	case "ctrl+s":
		if err := settings.Save(m.config.Storage, m.draft); err != nil {
			return m, m.pushToast(toastError, err.Error())
		}
		return m, m.pushToast(toastSuccess, "Settings saved")
	case "o":
		m.session = m.config.Session.Logout()
		m.stage = stageLogin
		m.authError = ""
		m.emailInput.SetValue("")
		m.passwordInput.SetValue("")
		m.confirmInput.SetValue("")
		m.focusAuthField(0)
		m.docs = nil
		m.stats = nil
		return m, m.pushToast(toastInfo, "Signed out")
	}
	return m, nil
}

var languageCycle = []string{"en", "es", "fr", "de"}

func (m *model) toggleSettingsField() (tea.Model, tea.Cmd) {
	switch m.settingsCursor {
	case fieldName:
		m.nameInput.SetValue(m.draft.Name)
		m.nameInput.Focus()
		m.settingsEditing = true
	case fieldEmail:
		m.settingsEmailInput.SetValue(m.draft.Email)
		m.settingsEmailInput.Focus()
		m.settingsEditing = true
	case fieldLanguage:
		next := 0
		for i, code := range languageCycle {
			if code == m.draft.Language {
				next = (i + 1) % len(languageCycle)
				break
			}
		}
		m.draft.Language = languageCycle[next]
	case fieldNotifications:
		m.draft.Notifications = !m.draft.Notifications
	case fieldEmailNotifications:
		m.draft.EmailNotifications = !m.draft.EmailNotifications
	case fieldTheme:
		if m.draft.ThemePreference == "dark" {
			m.draft.ThemePreference = "light"
		} else {
			m.draft.ThemePreference = "dark"
		}
	}
	return m, nil
}
