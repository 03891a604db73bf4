package server

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/adhyaya/adhyaya/internal/quiz"
	"github.com/adhyaya/adhyaya/internal/store"
	"github.com/adhyaya/adhyaya/internal/tracker"
)

type createRevisionRequest struct {
	LearnerID string `json:"learnerId"`
	UnitRef   string `json:"unitRef"`
}

type revisionList struct {
	Revisions []tracker.ItemView `json:"revisions"`
}

func learnerParam(c echo.Context) (string, error) {
	learner := strings.TrimSpace(c.QueryParam("learner"))
	if learner == "" {
		return "", badRequest("learner query parameter is required")
	}
	return learner, nil
}

// GET /api/v1/revisions?learner=ID&status=due|overdue|active|all
func (s *Server) listRevisions(c echo.Context) error {
	learner, err := learnerParam(c)
	if err != nil {
		return err
	}
	filter, err := tracker.ParseFilter(c.QueryParam("status"))
	if err != nil {
		return err
	}

	views, err := s.svc.ListRevisions(c.Request().Context(), learner, filter)
	if err != nil {
		return err
	}
	if views == nil {
		views = []tracker.ItemView{}
	}
	return c.JSON(http.StatusOK, revisionList{Revisions: views})
}

// GET /api/v1/revisions/stats?learner=ID
func (s *Server) stats(c echo.Context) error {
	learner, err := learnerParam(c)
	if err != nil {
		return err
	}
	sum, err := s.svc.Stats(c.Request().Context(), learner)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, sum)
}

// POST /api/v1/revisions
func (s *Server) createRevision(c echo.Context) error {
	var req createRevisionRequest
	if err := c.Bind(&req); err != nil {
		return badRequest("invalid body: %v", err)
	}
	v, err := s.svc.CreateRevision(c.Request().Context(), req.LearnerID, req.UnitRef)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, v)
}

// GET /api/v1/revisions/:id
func (s *Server) getRevision(c echo.Context) error {
	v, err := s.svc.GetRevision(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, v)
}

// PATCH /api/v1/revisions/:id completes the current checkpoint.
func (s *Server) advanceRevision(c echo.Context) error {
	res, err := s.svc.AdvanceRevision(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, res)
}

// DELETE /api/v1/revisions/:id
func (s *Server) deleteRevision(c echo.Context) error {
	if err := s.svc.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// POST /api/v1/revisions/:id/quiz-results
func (s *Server) submitQuizResult(c echo.Context) error {
	var sum quiz.Summary
	if err := c.Bind(&sum); err != nil {
		return badRequest("invalid body: %v", err)
	}
	if sum.QuestionCount <= 0 || sum.CorrectCount < 0 || sum.CorrectCount > sum.QuestionCount {
		return badRequest("summary counts out of range")
	}

	out, err := s.svc.SubmitQuizResult(c.Request().Context(), c.Param("id"), sum)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, out)
}

// GET /api/v1/revisions/:id/quiz-results
func (s *Server) listQuizResults(c echo.Context) error {
	ctx := c.Request().Context()
	if _, err := s.svc.GetRevision(ctx, c.Param("id")); err != nil {
		return err
	}
	results, err := s.svc.QuizResults(ctx, c.Param("id"))
	if err != nil {
		return err
	}
	if results == nil {
		results = []store.QuizResult{}
	}
	return c.JSON(http.StatusOK, map[string]any{"results": results})
}

// GET /api/v1/history?learner=ID&limit=N
func (s *Server) history(c echo.Context) error {
	learner, err := learnerParam(c)
	if err != nil {
		return err
	}
	limit := 0
	if v := c.QueryParam("limit"); v != "" {
		limit, err = strconv.Atoi(v)
		if err != nil || limit < 0 {
			return badRequest("invalid limit %q", v)
		}
	}
	events, err := s.svc.History(c.Request().Context(), learner, limit)
	if err != nil {
		return err
	}
	if events == nil {
		events = []store.RevisionEvent{}
	}
	return c.JSON(http.StatusOK, map[string]any{"events": events})
}
