package quiz

import (
	"errors"
	"fmt"
)

// ErrSessionClosed is returned when answering a completed session.
var ErrSessionClosed = errors.New("quiz session already ended")

// PromoteAfter is how many consecutive correct answers at a tier move an
// adaptive session up one tier. A single incorrect answer moves it down.
const PromoteAfter = 2

// State is the lifecycle state of a session.
type State int

const (
	StateConfiguring State = iota
	StateInProgress
	StateCompleted
)

func (s State) String() string {
	switch s {
	case StateConfiguring:
		return "configuring"
	case StateInProgress:
		return "in_progress"
	case StateCompleted:
		return "completed"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *State) UnmarshalText(b []byte) error {
	for _, st := range []State{StateConfiguring, StateInProgress, StateCompleted} {
		if st.String() == string(b) {
			*s = st
			return nil
		}
	}
	return fmt.Errorf("unknown session state %q", b)
}

// Answer is one recorded response.
type Answer struct {
	Difficulty Difficulty `json:"difficulty"`
	Correct    bool       `json:"correct"`
}

// Session is one quiz run. It is a value that is replaced, not mutated, by
// RecordAnswer.
type Session struct {
	Config Config `json:"config"`

	// Questions holds the difficulty of each question known so far. In
	// adaptive mode it grows one entry per answer.
	Questions []Difficulty `json:"questions"`
	Answers   []Answer     `json:"answers"`
	Cursor    int          `json:"cursor"`

	// RunningScore counts consecutive correct answers at the current tier.
	RunningScore int   `json:"runningScore"`
	State        State `json:"state"`
}

// CreateSession validates cfg and starts a session. Non-adaptive sessions
// have every question laid out up front; adaptive sessions only know the
// first.
func CreateSession(cfg Config) (*Session, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	n := 1
	if !cfg.Adaptive {
		n = cfg.QuestionCount
	}
	questions := make([]Difficulty, n)
	for i := range questions {
		questions[i] = cfg.StartDifficulty
	}

	return &Session{
		Config:    cfg,
		Questions: questions,
		Answers:   make([]Answer, 0, cfg.QuestionCount),
		State:     StateInProgress,
	}, nil
}

// CurrentDifficulty returns the difficulty of the question under the
// cursor. ok is false once the session is complete.
func (s *Session) CurrentDifficulty() (Difficulty, bool) {
	if s.IsComplete() || s.Cursor >= len(s.Questions) {
		return "", false
	}
	return s.Questions[s.Cursor], true
}

// IsComplete reports whether every question has been answered.
func (s *Session) IsComplete() bool {
	return s.Cursor == s.Config.QuestionCount
}

// Remaining returns how many questions are left.
func (s *Session) Remaining() int {
	return s.Config.QuestionCount - s.Cursor
}

// RecordAnswer records the outcome of the current question and returns the
// next session state. The receiver is left unchanged.
func (s *Session) RecordAnswer(correct bool) (*Session, error) {
	if s.State == StateCompleted || s.IsComplete() {
		return s, ErrSessionClosed
	}
	if s.State != StateInProgress {
		return s, fmt.Errorf("record answer in %s state: %w", s.State, ErrSessionClosed)
	}

	next := s.clone()
	current := next.Questions[next.Cursor]
	next.Answers = append(next.Answers, Answer{Difficulty: current, Correct: correct})
	next.Cursor++

	upcoming := current
	if next.Config.Adaptive {
		if correct {
			next.RunningScore++
			if next.RunningScore >= PromoteAfter {
				upcoming = current.Promote()
				next.RunningScore = 0
			}
		} else {
			upcoming = current.Demote()
			next.RunningScore = 0
		}
		if next.Cursor < next.Config.QuestionCount {
			next.Questions = append(next.Questions, upcoming)
		}
	}

	if next.IsComplete() {
		next.State = StateCompleted
	}
	return next, nil
}

func (s *Session) clone() *Session {
	out := *s
	out.Questions = append(make([]Difficulty, 0, s.Config.QuestionCount), s.Questions...)
	out.Answers = append(make([]Answer, 0, s.Config.QuestionCount), s.Answers...)
	return &out
}
