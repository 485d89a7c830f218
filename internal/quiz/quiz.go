// Package quiz drives the generated exam: intro → loading → active →
// results, with answers held client-side only.
package quiz

import (
	"math"

	"github.com/amezcua/folio/internal/api"
)

// State enumerates the quiz phases.
type State int

const (
	StateIntro State = iota
	StateLoading
	StateActive
	StateResults
)

// ErrEmptyQuiz is the inline message shown when generation yields nothing.
const ErrEmptyQuiz = "No questions could be generated. Try again."

// ErrGenerationFailed is the inline message for a failed generation call.
const ErrGenerationFailed = "Failed to generate the exam. Check your connection."

// Session holds one quiz run. Reset discards it entirely; retaking always
// generates fresh questions.
type Session struct {
	state     State
	questions []api.QuizQuestion
	current   int
	answers   map[int]int
	score     int
	errText   string
}

// New returns a session at the intro screen.
func New() *Session {
	return &Session{answers: map[int]int{}}
}

// State reports the current phase.
func (s *Session) State() State { return s.state }

// ErrText reports the inline error to render on the intro screen, if any.
func (s *Session) ErrText() string { return s.errText }

// Begin moves intro → loading and clears any previous inline error.
func (s *Session) Begin() {
	s.state = StateLoading
	s.errText = ""
}

// Deliver installs the generated questions. Empty or failed generations
// return to intro with an inline error rather than a toast.
func (s *Session) Deliver(questions []api.QuizQuestion, err error) {
	if err != nil {
		s.state = StateIntro
		s.errText = ErrGenerationFailed
		return
	}
	if len(questions) == 0 {
		s.state = StateIntro
		s.errText = ErrEmptyQuiz
		return
	}
	s.questions = questions
	s.current = 0
	s.answers = map[int]int{}
	s.state = StateActive
}

// Questions returns the active question set.
func (s *Session) Questions() []api.QuizQuestion { return s.questions }

// Current reports the index of the question on screen.
func (s *Session) Current() int { return s.current }

// CurrentQuestion returns the question on screen.
func (s *Session) CurrentQuestion() api.QuizQuestion {
	return s.questions[s.current]
}

// Answer records the selected option for the current question. Re-answering
// overwrites the previous choice.
func (s *Session) Answer(option int) {
	if s.state != StateActive {
		return
	}
	s.answers[s.current] = option
}

// Answered reports whether the current question has a selection.
func (s *Session) Answered() bool {
	_, ok := s.answers[s.current]
	return ok
}

// AnswerFor returns the recorded selection for question index.
func (s *Session) AnswerFor(index int) (int, bool) {
	option, ok := s.answers[index]
	return option, ok
}

// Next advances to the following question, or computes the score and moves
// to results when the last question is done. Advancing is blocked until the
// current question has an answer.
func (s *Session) Next() bool {
	if s.state != StateActive || !s.Answered() {
		return false
	}
	if s.current < len(s.questions)-1 {
		s.current++
		return true
	}
	s.score = s.calculateScore()
	s.state = StateResults
	return true
}

// calculateScore counts exact matches against each question's declared
// correct index.
func (s *Session) calculateScore() int {
	correct := 0
	for index, question := range s.questions {
		if answer, ok := s.answers[index]; ok && answer == question.CorrectAnswer {
			correct++
		}
	}
	return correct
}

// Score reports the number of correct answers after results.
func (s *Session) Score() int { return s.score }

// Percentage reports the rounded score percentage.
func (s *Session) Percentage() int {
	if len(s.questions) == 0 {
		return 0
	}
	return int(math.Round(float64(s.score) / float64(len(s.questions)) * 100))
}

// Reset discards all quiz state and returns to intro.
func (s *Session) Reset() {
	*s = Session{answers: map[int]int{}}
}
