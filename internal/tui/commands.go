package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/amezcua/folio/internal/api"
	"github.com/amezcua/folio/internal/export"
	"github.com/amezcua/folio/internal/preview"
	"github.com/amezcua/folio/internal/session"
)

const requestTimeout = 35 * time.Second

type sessionResumedMsg struct {
	state session.State
	err   error
}

type loginResultMsg struct {
	state session.State
	err   error
}

type registerResultMsg struct {
	email string
	err   error
}

type documentsLoadedMsg struct {
	seq  int
	docs []api.Document
	err  error
}

type documentLoadedMsg struct {
	seq int
	doc *api.Document
	err error
}

type pollTickMsg struct {
	seq int
}

type documentDeletedMsg struct {
	id  int64
	err error
}

type uploadInspectedMsg struct {
	info    *preview.Info
	excerpt string
	err     error
}

type uploadResultMsg struct {
	doc *api.Document
	err error
}

type historyLoadedMsg struct {
	documentID int64
	history    []api.ChatMessage
	err        error
}

type chatReplyMsg struct {
	documentID int64
	seq        int
	reply      *api.ChatReply
	err        error
}

type glossaryResultMsg struct {
	documentID int64
	terms      []api.GlossaryTerm
	err        error
}

type quizResultMsg struct {
	documentID int64
	questions  []api.QuizQuestion
	err        error
}

type exportResultMsg struct {
	path string
	err  error
}

type statsResultMsg struct {
	stats *api.Stats
	err   error
}

type toastExpiredMsg struct {
	id int64
}

func resumeSessionCmd(store *session.Store) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		state, err := store.Resume(ctx)
		return sessionResumedMsg{state: state, err: err}
	}
}

func loginCmd(store *session.Store, email, password string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		state, err := store.Login(ctx, email, password)
		return loginResultMsg{state: state, err: err}
	}
}

func registerCmd(store *session.Store, in session.RegisterInput) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		err := store.Register(ctx, in)
		return registerResultMsg{email: in.Email, err: err}
	}
}

func loadDocumentsCmd(client *api.Client, filter api.Filter, seq int) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		docs, err := client.ListDocuments(ctx, filter)
		return documentsLoadedMsg{seq: seq, docs: docs, err: err}
	}
}

func loadDocumentCmd(client *api.Client, id int64, seq int) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		doc, err := client.GetDocument(ctx, id)
		return documentLoadedMsg{seq: seq, doc: doc, err: err}
	}
}

func pollTickCmd(seq int) tea.Cmd {
	return tea.Tick(pollInterval, func(time.Time) tea.Msg {
		return pollTickMsg{seq: seq}
	})
}

func deleteDocumentCmd(client *api.Client, id int64) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		err := client.DeleteDocument(ctx, id)
		return documentDeletedMsg{id: id, err: err}
	}
}

func inspectUploadCmd(path string) tea.Cmd {
	return func() tea.Msg {
		info, err := preview.Inspect(path)
		if err != nil {
			return uploadInspectedMsg{err: err}
		}
		// Preview extraction is best-effort; EPUBs have no local extractor.
		excerpt, _ := preview.ExtractText(path, previewExcerptLimit)
		return uploadInspectedMsg{info: info, excerpt: excerpt}
	}
}

func uploadCmd(client *api.Client, path string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()
		doc, err := client.Upload(ctx, path)
		return uploadResultMsg{doc: doc, err: err}
	}
}

func loadHistoryCmd(client *api.Client, documentID int64) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		history, err := client.ChatHistory(ctx, documentID)
		return historyLoadedMsg{documentID: documentID, history: history, err: err}
	}
}

func sendMessageCmd(client *api.Client, documentID int64, seq int, message string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()
		reply, err := client.SendMessage(ctx, documentID, message)
		return chatReplyMsg{documentID: documentID, seq: seq, reply: reply, err: err}
	}
}

func generateGlossaryCmd(client *api.Client, documentID int64) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()
		terms, err := client.GenerateGlossary(ctx, documentID)
		return glossaryResultMsg{documentID: documentID, terms: terms, err: err}
	}
}

func generateQuizCmd(client *api.Client, documentID int64) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()
		questions, err := client.GenerateQuiz(ctx, documentID)
		return quizResultMsg{documentID: documentID, questions: questions, err: err}
	}
}

func exportChatCmd(client *api.Client, documentID int64, title, dir string, format api.ExportFormat) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		data, err := client.ExportChat(ctx, documentID, format)
		if err != nil {
			return exportResultMsg{err: err}
		}
		path, err := export.Save(dir, title, format, data)
		return exportResultMsg{path: path, err: err}
	}
}

func loadStatsCmd(client *api.Client) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		stats, err := client.Stats(ctx)
		return statsResultMsg{stats: stats, err: err}
	}
}
