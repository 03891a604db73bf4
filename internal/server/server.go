// Package server exposes the revision tracker over a JSON REST API.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/adhyaya/adhyaya/internal/logger"
	"github.com/adhyaya/adhyaya/internal/store"
	"github.com/adhyaya/adhyaya/internal/tracker"
)

// Service is what the API needs from the tracker.
type Service interface {
	tracker.Backend
	Delete(ctx context.Context, id string) error
	History(ctx context.Context, learnerID string, limit int) ([]store.RevisionEvent, error)
	QuizResults(ctx context.Context, id string) ([]store.QuizResult, error)
}

// Options tune the HTTP layer.
type Options struct {
	RateLimit       float64 // requests per second per client, 0 disables
	RateBurst       int
	ShutdownTimeout time.Duration
	SessionTTL      time.Duration // idle quiz sessions are dropped after this
}

// Server is the REST backend.
type Server struct {
	echo     *echo.Echo
	svc      Service
	log      *logger.Logger
	sessions *sessionRegistry
	opts     Options
}

// New builds a Server with every route registered.
func New(svc Service, log *logger.Logger, opts Options) *Server {
	if log == nil {
		log = logger.NewNop()
	}
	if opts.ShutdownTimeout <= 0 {
		opts.ShutdownTimeout = 10 * time.Second
	}
	if opts.SessionTTL <= 0 {
		opts.SessionTTL = 2 * time.Hour
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = errorHandler(log)

	s := &Server{
		echo:     e,
		svc:      svc,
		log:      log,
		sessions: newSessionRegistry(opts.SessionTTL),
		opts:     opts,
	}

	e.Use(middleware.RequestID())
	e.Use(accessLog(log))
	e.Use(middleware.Recover())
	if opts.RateLimit > 0 {
		e.Use(newRateLimiter(opts.RateLimit, opts.RateBurst).middleware())
	}

	s.routes()
	return s
}

func (s *Server) routes() {
	s.echo.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	v1 := s.echo.Group("/api/v1")

	v1.GET("/revisions", s.listRevisions)
	v1.POST("/revisions", s.createRevision)
	v1.GET("/revisions/stats", s.stats)
	v1.GET("/revisions/:id", s.getRevision)
	v1.PATCH("/revisions/:id", s.advanceRevision)
	v1.DELETE("/revisions/:id", s.deleteRevision)
	v1.GET("/revisions/:id/quiz-results", s.listQuizResults)
	v1.POST("/revisions/:id/quiz-results", s.submitQuizResult)
	v1.GET("/history", s.history)

	v1.POST("/quiz/sessions", s.createSession)
	v1.GET("/quiz/sessions/:id", s.getSession)
	v1.POST("/quiz/sessions/:id/answers", s.answerSession)
	v1.DELETE("/quiz/sessions/:id", s.abandonSession)
}

// Handler returns the http.Handler serving the API.
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.log.Info("server listening", "addr", addr)
		if err := s.echo.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.opts.ShutdownTimeout)
		defer cancel()
		s.log.Info("server shutting down")
		return s.echo.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
