package api

import "time"

// DocumentStatus tracks a document through the backend ingestion pipeline.
type DocumentStatus string

const (
	StatusUploaded   DocumentStatus = "uploaded"
	StatusProcessing DocumentStatus = "processing"
	StatusCompleted  DocumentStatus = "completed"
	StatusError      DocumentStatus = "error"
)

// Rank orders statuses along the pipeline. Error ranks last so a document
// that failed never snaps back to an earlier stage on a stale poll.
func (s DocumentStatus) Rank() int {
	switch s {
	case StatusUploaded:
		return 0
	case StatusProcessing:
		return 1
	case StatusCompleted:
		return 2
	case StatusError:
		return 3
	default:
		return -1
	}
}

// Terminal reports whether the pipeline is done with the document.
func (s DocumentStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusError
}

// Document is the client's read-mostly copy of a backend document record.
type Document struct {
	ID           int64          `json:"id"`
	Title        string         `json:"title"`
	Filename     string         `json:"filename"`
	Author       string         `json:"author,omitempty"`
	Status       DocumentStatus `json:"status"`
	CreatedAt    time.Time      `json:"created_at"`
	PageCount    int            `json:"page_count"`
	SummaryShort string         `json:"summary_short"`
}

// Role labels a chat message author.
type Role string

const (
	RoleUser Role = "user"
	RoleAI   Role = "ai"
)

// Source cites a page of the document backing an assistant answer.
type Source struct {
	Page int `json:"page"`
}

// ChatMessage is one entry in a document's append-only chat history.
type ChatMessage struct {
	Role    Role     `json:"role"`
	Content string   `json:"content"`
	Sources []Source `json:"sources,omitempty"`
}

// ChatReply is the backend response to a sent message.
type ChatReply struct {
	Response string   `json:"response"`
	Sources  []Source `json:"sources,omitempty"`
}

// GlossaryTerm pairs a technical term with its generated definition.
type GlossaryTerm struct {
	Term       string `json:"term"`
	Definition string `json:"definition"`
}

// QuizQuestion is one generated multiple-choice question.
type QuizQuestion struct {
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer int      `json:"correct_answer"`
	Explanation   string   `json:"explanation"`
}

// User identifies the authenticated account.
type User struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
}

// ActivityDay counts documents uploaded on a given day.
type ActivityDay struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// Stats aggregates per-account usage numbers for the dashboard.
type Stats struct {
	TotalDocuments     int           `json:"total_documents"`
	ProcessedDocuments int           `json:"processed_documents"`
	TotalPages         int           `json:"total_pages"`
	StorageUsedMB      float64       `json:"storage_used_mb"`
	ActivityHistory    []ActivityDay `json:"activity_history"`
}

// ExportFormat selects the chat export encoding.
type ExportFormat string

const (
	ExportJSON     ExportFormat = "json"
	ExportText     ExportFormat = "txt"
	ExportMarkdown ExportFormat = "md"
)

// Valid reports whether the format is one the backend understands.
func (f ExportFormat) Valid() bool {
	switch f {
	case ExportJSON, ExportText, ExportMarkdown:
		return true
	}
	return false
}

// SortKey orders document listings.
type SortKey string

const (
	SortByCreated SortKey = "created_at"
	SortByTitle   SortKey = "title"
)

// Filter translates to the /documents query parameters. Zero values are
// omitted; the server result is authoritative when any field is set.
type Filter struct {
	Search string
	Status DocumentStatus
	SortBy SortKey
	Order  string // "asc" or "desc"
}
