// Package chat models a document's message thread. The sequence is
// append-only and render order is exactly append order; sends are optimistic
// and replies resolve in the order the sends were issued, not the order
// their responses arrive.
package chat

import "github.com/amezcua/folio/internal/api"

// WelcomeText seeds an otherwise empty thread so the view is never blank.
// It lives only in memory; the server never stores it.
const WelcomeText = "Hi, I'm your AI assistant. What would you like to know about this document?"

// SendFailedText stands in for an assistant reply when a send fails. The
// user's own message stays in the thread regardless.
const SendFailedText = "Sorry, something went wrong while processing your message. Please try again."

type pendingReply struct {
	resolved bool
	message  api.ChatMessage
}

// Thread holds the in-memory message sequence for one document.
type Thread struct {
	documentID int64
	messages   []api.ChatMessage

	nextSeq int
	applied int
	pending map[int]pendingReply
}

// New returns an empty thread for documentID.
func New(documentID int64) *Thread {
	return &Thread{
		documentID: documentID,
		pending:    map[int]pendingReply{},
	}
}

// DocumentID reports which document the thread belongs to.
func (t *Thread) DocumentID() int64 {
	return t.documentID
}

// SeedHistory installs the server-side history. An empty or failed load
// falls back to the synthetic welcome message instead.
func (t *Thread) SeedHistory(history []api.ChatMessage) {
	if len(history) == 0 {
		t.messages = []api.ChatMessage{{Role: api.RoleAI, Content: WelcomeText}}
		return
	}
	t.messages = append([]api.ChatMessage(nil), history...)
}

// Begin appends the user's message immediately and returns the sequence
// number the eventual reply must resolve against.
func (t *Thread) Begin(content string) int {
	t.messages = append(t.messages, api.ChatMessage{Role: api.RoleUser, Content: content})
	seq := t.nextSeq
	t.nextSeq++
	return seq
}

// Resolve records the reply for seq. Replies apply in issue order: a reply
// arriving before an earlier send has resolved is buffered until its turn,
// so variable network latency can never reorder the visible thread.
func (t *Thread) Resolve(seq int, reply *api.ChatReply, err error) {
	message := api.ChatMessage{Role: api.RoleAI, Content: SendFailedText}
	if err == nil && reply != nil {
		message = api.ChatMessage{Role: api.RoleAI, Content: reply.Response, Sources: reply.Sources}
	}
	t.pending[seq] = pendingReply{resolved: true, message: message}

	for {
		entry, ok := t.pending[t.applied]
		if !ok || !entry.resolved {
			return
		}
		t.messages = append(t.messages, entry.message)
		delete(t.pending, t.applied)
		t.applied++
	}
}

// Waiting reports whether any send is still awaiting its reply.
func (t *Thread) Waiting() bool {
	return t.applied < t.nextSeq
}

// Messages returns the thread in render order.
func (t *Thread) Messages() []api.ChatMessage {
	return t.messages
}

// Len reports the number of visible messages.
func (t *Thread) Len() int {
	return len(t.messages)
}
