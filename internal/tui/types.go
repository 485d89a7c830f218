package tui

import "time"

type stage int

const (
	stageStartup stage = iota
	stageLogin
	stageRegister
	stageDashboard
	stageLibrary
	stageFavorites
	stageDetail
	stageUpload
	stageSettings
)

type detailTab int

const (
	tabSummary detailTab = iota
	tabChat
	tabGlossary
	tabQuiz
)

var detailTabs = []detailTab{tabSummary, tabChat, tabGlossary, tabQuiz}

func (t detailTab) label() string {
	switch t {
	case tabSummary:
		return "Summary"
	case tabChat:
		return "Chat"
	case tabGlossary:
		return "Glossary"
	case tabQuiz:
		return "Quiz"
	default:
		return ""
	}
}

const heroTagline = "Talk to your library, straight from the terminal."

const (
	pollInterval    = 3 * time.Second
	maxPollAttempts = 100

	toastLifetime = 4 * time.Second

	minViewportWidth          = 40
	viewportHorizontalPadding = 4

	previewExcerptLimit = 600
)

// loginFieldCount covers email + password; register adds the confirm field.
const (
	loginFieldCount    = 2
	registerFieldCount = 3
)

type settingsField int

const (
	fieldName settingsField = iota
	fieldEmail
	fieldLanguage
	fieldNotifications
	fieldEmailNotifications
	fieldTheme
	settingsFieldCount
)
