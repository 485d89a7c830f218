package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

type toastKind int

const (
	toastInfo toastKind = iota
	toastSuccess
	toastWarning
	toastError
)

// toast is a transient notification; the id doubles as creation timestamp.
type toast struct {
	id      int64
	kind    toastKind
	message string
}

// pushToast queues a toast and returns the command that expires it after the
// fixed display window.
func (m *model) pushToast(kind toastKind, message string) tea.Cmd {
	entry := toast{id: time.Now().UnixNano(), kind: kind, message: message}
	m.toasts = append(m.toasts, entry)
	return tea.Tick(toastLifetime, func(time.Time) tea.Msg {
		return toastExpiredMsg{id: entry.id}
	})
}

func (m *model) expireToast(id int64) {
	kept := m.toasts[:0]
	for _, entry := range m.toasts {
		if entry.id != id {
			kept = append(kept, entry)
		}
	}
	m.toasts = kept
}
