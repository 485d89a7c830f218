// Package glossary holds the on-demand glossary generation state:
// idle → loading → loaded or error, restartable from either end state.
package glossary

import "github.com/amezcua/folio/internal/api"

// State enumerates the generation phases.
type State int

const (
	StateIdle State = iota
	StateLoading
	StateLoaded
	StateError
)

// ErrGenerationFailed is the message rendered on a failed generation.
const ErrGenerationFailed = "Failed to generate the glossary. Try again."

// Session holds one glossary view's state. Nothing persists across views.
type Session struct {
	state   State
	terms   []api.GlossaryTerm
	errText string
}

// New returns an idle session.
func New() *Session {
	return &Session{}
}

// State reports the current phase.
func (s *Session) State() State { return s.state }

// Terms returns the generated pairs after a successful load.
func (s *Session) Terms() []api.GlossaryTerm { return s.terms }

// ErrText reports the error message when State is StateError.
func (s *Session) ErrText() string { return s.errText }

// Begin starts (or restarts) a generation cycle.
func (s *Session) Begin() {
	s.state = StateLoading
	s.errText = ""
}

// Deliver installs the generation result.
func (s *Session) Deliver(terms []api.GlossaryTerm, err error) {
	if err != nil {
		s.state = StateError
		s.errText = ErrGenerationFailed
		return
	}
	s.terms = terms
	s.state = StateLoaded
}
