package tui

import (
	"fmt"
	"strings"

	"github.com/muesli/reflow/wordwrap"

	"github.com/amezcua/folio/internal/api"
	"github.com/amezcua/folio/internal/glossary"
	"github.com/amezcua/folio/internal/quiz"
)

func (m *model) View() string {
	var body string
	switch m.stage {
	case stageStartup:
		body = fmt.Sprintf("\n  %s Restoring session…\n", m.spinner.View())
	case stageLogin:
		body = m.viewLogin()
	case stageRegister:
		body = m.viewRegister()
	case stageDashboard:
		body = m.viewDashboard()
	case stageLibrary, stageFavorites:
		body = m.viewList()
	case stageDetail:
		body = m.viewDetail()
	case stageUpload:
		body = m.viewUpload()
	case stageSettings:
		body = m.viewSettings()
	}
	return body + m.viewToasts()
}

func (m *model) viewToasts() string {
	if len(m.toasts) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("\n")
	for _, entry := range m.toasts {
		b.WriteString("  " + toastStyles[entry.kind].Render("• "+entry.message) + "\n")
	}
	return b.String()
}

func (m *model) header(section string) string {
	return fmt.Sprintf("\n  %s  %s\n  %s\n\n",
		titleStyle.Render("folio"),
		dimStyle.Render(section),
		taglineStyle.Render(heroTagline))
}

// ---- auth ----

func (m *model) viewLogin() string {
	var b strings.Builder
	b.WriteString(m.header("sign in"))
	b.WriteString("  " + labelStyle.Render("Email") + "\n  " + m.emailInput.View() + "\n\n")
	b.WriteString("  " + labelStyle.Render("Password") + "\n  " + m.passwordInput.View() + "\n\n")
	if m.authBusy {
		b.WriteString(fmt.Sprintf("  %s Signing in…\n\n", m.spinner.View()))
	}
	if m.authError != "" {
		b.WriteString("  " + errorStyle.Render(m.authError) + "\n\n")
	}
	b.WriteString("  " + helpStyle.Render("enter submit • tab next field • ctrl+r create account • ctrl+c quit") + "\n")
	return b.String()
}

func (m *model) viewRegister() string {
	var b strings.Builder
	b.WriteString(m.header("create account"))
	b.WriteString("  " + labelStyle.Render("Email") + "\n  " + m.emailInput.View() + "\n\n")
	b.WriteString("  " + labelStyle.Render("Password") + "\n  " + m.passwordInput.View() + "\n\n")
	b.WriteString("  " + labelStyle.Render("Confirm password") + "\n  " + m.confirmInput.View() + "\n\n")
	if m.authBusy {
		b.WriteString(fmt.Sprintf("  %s Creating account…\n\n", m.spinner.View()))
	}
	if m.authError != "" {
		b.WriteString("  " + errorStyle.Render(m.authError) + "\n\n")
	}
	b.WriteString("  " + helpStyle.Render("enter submit • tab next field • esc back to sign in") + "\n")
	return b.String()
}

// ---- dashboard ----

func (m *model) viewDashboard() string {
	var b strings.Builder
	b.WriteString(m.header("dashboard"))
	if m.session.User != nil {
		b.WriteString("  Welcome back, " + m.session.User.Email + "\n\n")
	}

	if m.statsLoading {
		b.WriteString(fmt.Sprintf("  %s Loading stats…\n", m.spinner.View()))
	} else if m.stats != nil {
		b.WriteString(fmt.Sprintf("  %s documents  •  %s processed  •  %s pages  •  %s\n",
			statValueStyle.Render(fmt.Sprintf("%d", m.stats.TotalDocuments)),
			statValueStyle.Render(fmt.Sprintf("%d", m.stats.ProcessedDocuments)),
			statValueStyle.Render(fmt.Sprintf("%d", m.stats.TotalPages)),
			statValueStyle.Render(fmt.Sprintf("%.1f MB", m.stats.StorageUsedMB))))
		if len(m.stats.ActivityHistory) > 0 {
			b.WriteString("\n  " + labelStyle.Render("Recent activity") + "\n")
			history := m.stats.ActivityHistory
			if len(history) > 7 {
				history = history[len(history)-7:]
			}
			for _, day := range history {
				b.WriteString(fmt.Sprintf("  %s %s\n", dimStyle.Render(day.Date), strings.Repeat("▪", day.Count)))
			}
		}
	}

	b.WriteString("\n  " + helpStyle.Render("2 library • 3 favorites • 4 settings • u upload • r refresh • q quit") + "\n")
	return b.String()
}

// ---- library / favorites ----

func (m *model) viewList() string {
	var b strings.Builder
	if m.stage == stageFavorites {
		b.WriteString(m.header("favorites"))
	} else {
		b.WriteString(m.header("library"))
		b.WriteString("  " + m.searchInput.View() + "\n")
		b.WriteString("  " + dimStyle.Render(m.filterSummary()) + "\n\n")
	}

	if m.docsLoading {
		b.WriteString(fmt.Sprintf("  %s Loading documents…\n", m.spinner.View()))
		return b.String()
	}
	if m.docsErr != "" {
		b.WriteString("  " + errorStyle.Render(m.docsErr) + "\n")
		b.WriteString("  " + helpStyle.Render("r retry") + "\n")
		return b.String()
	}

	docs := m.visibleDocs()
	if len(docs) == 0 {
		if m.stage == stageFavorites {
			b.WriteString("  " + dimStyle.Render("No favorites yet. Mark documents with m in the library.") + "\n")
		} else {
			b.WriteString("  " + dimStyle.Render("No documents found.") + "\n")
		}
	}
	for i, doc := range docs {
		cursor := "  "
		line := fmt.Sprintf("%s  %s  %s", doc.Title, statusBadge(string(doc.Status)), dimStyle.Render(doc.CreatedAt.Format("2006-01-02")))
		if m.config.Favorites.IsFavorite(doc.ID) {
			line = "★ " + line
		} else {
			line = "  " + line
		}
		if i == m.cursor {
			cursor = "> "
			line = selectedStyle.Render(line)
		}
		b.WriteString("  " + cursor + line + "\n")
	}

	if m.pendingDelete != 0 {
		if m.deleting {
			b.WriteString(fmt.Sprintf("\n  %s Deleting…\n", m.spinner.View()))
		} else {
			b.WriteString("\n  " + errorStyle.Render("Delete this document and its chat history? (y/n)") + "\n")
		}
	}

	b.WriteString("\n  " + helpStyle.Render(m.listHelp()) + "\n")
	return b.String()
}

func (m *model) filterSummary() string {
	status := "all"
	if m.statusFilter != "" {
		status = string(m.statusFilter)
	}
	sortBy := m.sortBy
	if sortBy == "" {
		sortBy = api.SortByCreated
	}
	order := m.order
	if order == "" {
		order = "desc"
	}
	return fmt.Sprintf("status: %s • sort: %s %s", status, sortBy, order)
}

func (m *model) listHelp() string {
	if m.stage == stageFavorites {
		return "enter open • m unfavorite • x delete • 1 dashboard • 2 library • 4 settings • q quit"
	}
	return "enter open • / search • f status • s sort • o order • m favorite • x delete • u upload • q quit"
}

// ---- detail ----

func (m *model) viewDetail() string {
	var b strings.Builder
	if m.doc == nil {
		b.WriteString(m.header("document"))
		if m.detailLoading {
			b.WriteString(fmt.Sprintf("  %s Loading…\n", m.spinner.View()))
		} else {
			b.WriteString("  " + errorStyle.Render("Document not found.") + "\n")
			b.WriteString("  " + helpStyle.Render("esc back") + "\n")
		}
		return b.String()
	}

	doc := m.doc
	b.WriteString("\n  " + titleStyle.Render(doc.Title))
	if m.config.Favorites.IsFavorite(doc.ID) {
		b.WriteString(" ★")
	}
	b.WriteString("\n  " + statusBadge(string(doc.Status)))
	if doc.Status == api.StatusProcessing {
		b.WriteString(fmt.Sprintf("  %s processing…", m.spinner.View()))
	}
	if doc.PageCount > 0 {
		b.WriteString(dimStyle.Render(fmt.Sprintf("  •  %d pages", doc.PageCount)))
	}
	if doc.Author != "" {
		b.WriteString(dimStyle.Render("  •  " + doc.Author))
	}
	b.WriteString("\n\n")

	var tabs []string
	for _, tab := range detailTabs {
		if tab == m.tab {
			tabs = append(tabs, activeTabStyle.Render(tab.label()))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(tab.label()))
		}
	}
	b.WriteString("  " + strings.Join(tabs, "  |  ") + "\n\n")

	switch m.tab {
	case tabSummary:
		b.WriteString(m.viewSummaryTab())
	case tabChat:
		b.WriteString(m.viewChatTab())
	case tabGlossary:
		b.WriteString(m.viewGlossaryTab())
	case tabQuiz:
		b.WriteString(m.viewQuizTab())
	}

	b.WriteString("\n  " + helpStyle.Render("tab/[ ] switch tab • m favorite • esc back") + "\n")
	return b.String()
}

func (m *model) viewSummaryTab() string {
	doc := m.doc
	if doc.Status != api.StatusCompleted {
		switch doc.Status {
		case api.StatusProcessing, api.StatusUploaded:
			return "  " + dimStyle.Render("The summary appears once processing finishes.") + "\n"
		case api.StatusError:
			return "  " + errorStyle.Render("Processing failed for this document.") + "\n"
		}
	}
	if strings.TrimSpace(doc.SummaryShort) == "" {
		return "  " + dimStyle.Render("No summary available.") + "\n"
	}
	m.viewport.SetContent(wordwrap.String(doc.SummaryShort, m.viewport.Width))
	return m.viewport.View() + "\n"
}

func (m *model) viewChatTab() string {
	var b strings.Builder
	if m.doc.Status != api.StatusCompleted {
		b.WriteString("  " + dimStyle.Render("Chat unlocks once processing completes.") + "\n")
		return b.String()
	}
	if m.historyLoading {
		b.WriteString(fmt.Sprintf("  %s Loading history…\n", m.spinner.View()))
		return b.String()
	}

	width := m.viewport.Width
	if width < minViewportWidth {
		width = minViewportWidth
	}
	for _, message := range m.thread.Messages() {
		wrapped := wordwrap.String(message.Content, width)
		if message.Role == api.RoleUser {
			b.WriteString("  " + userMsgStyle.Render("you: ") + indent(wrapped) + "\n")
		} else {
			b.WriteString("  " + aiMsgStyle.Render("ai:  ") + indent(wrapped) + "\n")
			if len(message.Sources) > 0 {
				pages := make([]string, 0, len(message.Sources))
				for _, source := range message.Sources {
					pages = append(pages, fmt.Sprintf("p.%d", source.Page))
				}
				b.WriteString("       " + sourceStyle.Render("sources: "+strings.Join(pages, ", ")) + "\n")
			}
		}
	}
	if m.thread.Waiting() {
		b.WriteString(fmt.Sprintf("  %s thinking…\n", m.spinner.View()))
	}

	b.WriteString("\n  " + m.chatInput.View() + "\n")
	if m.exportPrompt {
		b.WriteString("  " + labelStyle.Render("Export as: 1 json • 2 txt • 3 md • esc cancel") + "\n")
	} else if m.exporting {
		b.WriteString(fmt.Sprintf("  %s Exporting…\n", m.spinner.View()))
	} else {
		b.WriteString("  " + helpStyle.Render("i type • enter send • e export") + "\n")
	}
	return b.String()
}

func indent(wrapped string) string {
	return strings.ReplaceAll(wrapped, "\n", "\n       ")
}

func (m *model) viewGlossaryTab() string {
	if m.doc.Status != api.StatusCompleted {
		return "  " + dimStyle.Render("The glossary unlocks once processing completes.") + "\n"
	}
	var b strings.Builder
	switch m.gloss.State() {
	case glossary.StateIdle:
		b.WriteString("  " + dimStyle.Render("Generate key terms and definitions from this document.") + "\n")
		b.WriteString("  " + helpStyle.Render("g generate") + "\n")
	case glossary.StateLoading:
		b.WriteString(fmt.Sprintf("  %s Generating glossary…\n", m.spinner.View()))
	case glossary.StateError:
		b.WriteString("  " + errorStyle.Render(m.gloss.ErrText()) + "\n")
		b.WriteString("  " + helpStyle.Render("g retry") + "\n")
	case glossary.StateLoaded:
		terms := m.gloss.Terms()
		if len(terms) == 0 {
			b.WriteString("  " + dimStyle.Render("No terms were generated.") + "\n")
		}
		width := m.viewport.Width
		for _, term := range terms {
			b.WriteString("  " + labelStyle.Render(term.Term) + "\n")
			b.WriteString("  " + indentBy(wordwrap.String(term.Definition, width), "  ") + "\n\n")
		}
		b.WriteString("  " + helpStyle.Render("g regenerate") + "\n")
	}
	return b.String()
}

func indentBy(wrapped, prefix string) string {
	return strings.ReplaceAll(wrapped, "\n", "\n  "+prefix)
}

func (m *model) viewQuizTab() string {
	if m.doc.Status != api.StatusCompleted {
		return "  " + dimStyle.Render("The exam unlocks once processing completes.") + "\n"
	}
	var b strings.Builder
	switch m.quizRun.State() {
	case quiz.StateIntro:
		b.WriteString("  " + dimStyle.Render("Test yourself with questions generated from this document.") + "\n")
		if m.quizRun.ErrText() != "" {
			b.WriteString("  " + errorStyle.Render(m.quizRun.ErrText()) + "\n")
		}
		b.WriteString("  " + helpStyle.Render("g start") + "\n")
	case quiz.StateLoading:
		b.WriteString(fmt.Sprintf("  %s Generating questions…\n", m.spinner.View()))
	case quiz.StateActive:
		question := m.quizRun.CurrentQuestion()
		b.WriteString(fmt.Sprintf("  %s\n\n", labelStyle.Render(
			fmt.Sprintf("Question %d of %d", m.quizRun.Current()+1, len(m.quizRun.Questions())))))
		b.WriteString("  " + wordwrap.String(question.Question, m.viewport.Width) + "\n\n")
		selected, answered := m.quizRun.AnswerFor(m.quizRun.Current())
		for i, option := range question.Options {
			marker := "( )"
			line := fmt.Sprintf("%s %d. %s", marker, i+1, option)
			if answered && i == selected {
				line = selectedStyle.Render(fmt.Sprintf("(•) %d. %s", i+1, option))
			}
			b.WriteString("  " + line + "\n")
		}
		b.WriteString("\n  " + helpStyle.Render("1-4 answer • enter next") + "\n")
	case quiz.StateResults:
		total := len(m.quizRun.Questions())
		b.WriteString(fmt.Sprintf("  %s\n\n", titleStyle.Render(
			fmt.Sprintf("Score: %d/%d (%d%%)", m.quizRun.Score(), total, m.quizRun.Percentage()))))
		for i, question := range m.quizRun.Questions() {
			answer, _ := m.quizRun.AnswerFor(i)
			if answer == question.CorrectAnswer {
				b.WriteString("  " + correctStyle.Render("✓") + " " + question.Question + "\n")
			} else {
				b.WriteString("  " + wrongStyle.Render("✗") + " " + question.Question + "\n")
				b.WriteString("    " + dimStyle.Render("correct: "+question.Options[question.CorrectAnswer]) + "\n")
			}
			if question.Explanation != "" {
				b.WriteString("    " + sourceStyle.Render(question.Explanation) + "\n")
			}
		}
		b.WriteString("\n  " + helpStyle.Render("r retake") + "\n")
	}
	return b.String()
}

// ---- upload ----

func (m *model) viewUpload() string {
	var b strings.Builder
	b.WriteString(m.header("upload"))
	b.WriteString("  " + labelStyle.Render("File path") + "\n  " + m.pathInput.View() + "\n\n")

	if m.uploadErr != "" {
		b.WriteString("  " + errorStyle.Render(m.uploadErr) + "\n\n")
	}
	if m.uploadInfo != nil {
		info := m.uploadInfo
		b.WriteString(fmt.Sprintf("  %s  %s", labelStyle.Render(info.name), dimStyle.Render(info.sizeLabel)))
		if info.pageCount > 0 {
			b.WriteString(dimStyle.Render(fmt.Sprintf("  •  %d pages", info.pageCount)))
		}
		b.WriteString("\n")
		if info.excerpt != "" {
			b.WriteString("\n  " + dimStyle.Render(wordwrap.String(info.excerpt, m.viewport.Width)) + "\n")
		}
		b.WriteString("\n")
		if m.uploading {
			b.WriteString(fmt.Sprintf("  %s Uploading…\n", m.spinner.View()))
		} else {
			b.WriteString("  " + helpStyle.Render("enter upload • e change path • esc cancel") + "\n")
		}
		return b.String()
	}

	b.WriteString("  " + dimStyle.Render("Supported: PDF, DOCX, TXT, EPUB") + "\n")
	b.WriteString("  " + helpStyle.Render("enter preview • esc cancel") + "\n")
	return b.String()
}

// ---- settings ----

func (m *model) viewSettings() string {
	var b strings.Builder
	b.WriteString(m.header("settings"))

	rows := []struct {
		field settingsField
		label string
		value string
	}{
		{fieldName, "Name", m.draft.Name},
		{fieldEmail, "Email", m.draft.Email},
		{fieldLanguage, "Language", m.draft.Language},
		{fieldNotifications, "Notifications", onOff(m.draft.Notifications)},
		{fieldEmailNotifications, "Email notifications", onOff(m.draft.EmailNotifications)},
		{fieldTheme, "Theme", m.draft.ThemePreference},
	}
	for _, row := range rows {
		value := row.value
		if m.settingsEditing && row.field == m.settingsCursor {
			if row.field == fieldName {
				value = m.nameInput.View()
			} else {
				value = m.settingsEmailInput.View()
			}
		} else if value == "" {
			value = dimStyle.Render("(not set)")
		}
		line := fmt.Sprintf("%-22s %s", row.label, value)
		if row.field == m.settingsCursor && !m.settingsEditing {
			b.WriteString("  > " + selectedStyle.Render(line) + "\n")
		} else {
			b.WriteString("    " + line + "\n")
		}
	}

	if expiry, ok := m.config.Session.TokenExpiry(); ok {
		b.WriteString("\n  " + dimStyle.Render("Session expires "+expiry.Local().Format("2006-01-02 15:04")) + "\n")
	}

	b.WriteString("\n  " + helpStyle.Render("enter edit/toggle • ctrl+s save • o sign out • 1 dashboard • q quit") + "\n")
	return b.String()
}

func onOff(enabled bool) string {
	if enabled {
		return "on"
	}
	return "off"
}
