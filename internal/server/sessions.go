package server

import (
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/adhyaya/adhyaya/internal/quiz"
	"github.com/adhyaya/adhyaya/internal/store"
	"github.com/adhyaya/adhyaya/internal/tracker"
)

// liveSession is a quiz in progress. Sessions live only in memory; the
// summary is all that is persisted.
type liveSession struct {
	ID       string               `json:"id"`
	ItemID   string               `json:"itemId,omitempty"`
	Session  *quiz.Session        `json:"session"`
	Summary  *quiz.Summary        `json:"summary,omitempty"`
	Outcome  *tracker.QuizOutcome `json:"outcome,omitempty"`
	lastSeen time.Time
}

type sessionRegistry struct {
	mu       sync.Mutex
	sessions map[string]*liveSession
	ttl      time.Duration
	now      func() time.Time
	newID    func() string
}

func newSessionRegistry(ttl time.Duration) *sessionRegistry {
	return &sessionRegistry{
		sessions: make(map[string]*liveSession),
		ttl:      ttl,
		now:      time.Now,
		newID:    uuid.NewString,
	}
}

func (r *sessionRegistry) create(itemID string, cfg quiz.Config) (liveSession, error) {
	sess, err := quiz.CreateSession(cfg)
	if err != nil {
		return liveSession{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.sweepLocked()

	ls := &liveSession{ID: r.newID(), ItemID: itemID, Session: sess, lastSeen: r.now()}
	r.sessions[ls.ID] = ls
	return *ls, nil
}

func (r *sessionRegistry) get(id string) (liveSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	ls, ok := r.sessions[id]
	if !ok {
		return liveSession{}, store.ErrNotFound
	}
	ls.lastSeen = r.now()
	return *ls, nil
}

// answer records one answer. On the answer that completes the session the
// summary is attached and finished is true.
func (r *sessionRegistry) answer(id string, correct bool) (ls liveSession, finished bool, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	cur, ok := r.sessions[id]
	if !ok {
		return liveSession{}, false, store.ErrNotFound
	}
	next, err := cur.Session.RecordAnswer(correct)
	if err != nil {
		return *cur, false, err
	}
	cur.Session = next
	cur.lastSeen = r.now()
	if next.IsComplete() {
		sum := quiz.Summarize(next)
		cur.Summary = &sum
		finished = true
	}
	return *cur, finished, nil
}

func (r *sessionRegistry) setOutcome(id string, out tracker.QuizOutcome) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if ls, ok := r.sessions[id]; ok {
		ls.Outcome = &out
	}
}

func (r *sessionRegistry) remove(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sessions[id]; !ok {
		return false
	}
	delete(r.sessions, id)
	return true
}

func (r *sessionRegistry) sweepLocked() {
	cutoff := r.now().Add(-r.ttl)
	for id, ls := range r.sessions {
		if ls.lastSeen.Before(cutoff) {
			delete(r.sessions, id)
		}
	}
}

type createSessionRequest struct {
	ItemID string `json:"itemId"`
	quiz.Config
}

type answerRequest struct {
	Correct *bool `json:"correct"`
}

// POST /api/v1/quiz/sessions
func (s *Server) createSession(c echo.Context) error {
	req := createSessionRequest{Config: quiz.DefaultConfig()}
	if err := c.Bind(&req); err != nil {
		return badRequest("invalid body: %v", err)
	}
	if req.ItemID != "" {
		if _, err := s.svc.GetRevision(c.Request().Context(), req.ItemID); err != nil {
			return err
		}
	}

	ls, err := s.sessions.create(req.ItemID, req.Config)
	if err != nil {
		return err
	}
	s.log.Debug("quiz session started", "session", ls.ID, "item", ls.ItemID)
	return c.JSON(http.StatusCreated, ls)
}

// GET /api/v1/quiz/sessions/:id
func (s *Server) getSession(c echo.Context) error {
	ls, err := s.sessions.get(c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, ls)
}

// POST /api/v1/quiz/sessions/:id/answers
func (s *Server) answerSession(c echo.Context) error {
	var req answerRequest
	if err := c.Bind(&req); err != nil {
		return badRequest("invalid body: %v", err)
	}
	if req.Correct == nil {
		return badRequest("correct is required")
	}

	id := c.Param("id")
	ls, finished, err := s.sessions.answer(id, *req.Correct)
	if err != nil {
		return err
	}
	if finished && ls.ItemID != "" {
		out, err := s.svc.SubmitQuizResult(c.Request().Context(), ls.ItemID, *ls.Summary)
		if err != nil {
			return err
		}
		s.sessions.setOutcome(id, out)
		ls.Outcome = &out
	}
	return c.JSON(http.StatusOK, ls)
}

// DELETE /api/v1/quiz/sessions/:id abandons a session; nothing is stored.
func (s *Server) abandonSession(c echo.Context) error {
	if !s.sessions.remove(c.Param("id")) {
		return store.ErrNotFound
	}
	return c.NoContent(http.StatusNoContent)
}
