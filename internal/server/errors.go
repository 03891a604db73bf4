package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/adhyaya/adhyaya/internal/logger"
	"github.com/adhyaya/adhyaya/internal/quiz"
	"github.com/adhyaya/adhyaya/internal/revision"
	"github.com/adhyaya/adhyaya/internal/store"
	"github.com/adhyaya/adhyaya/internal/tracker"
)

// errBadRequest marks malformed requests rejected before reaching the
// tracker.
var errBadRequest = errors.New("bad request")

type errorBody struct {
	Error string `json:"error"`
}

func badRequest(format string, args ...any) error {
	return fmt.Errorf("%w: %s", errBadRequest, fmt.Sprintf(format, args...))
}

// statusFor maps domain errors to HTTP status codes and client messages.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, errBadRequest),
		errors.Is(err, tracker.ErrInvalidInput),
		errors.Is(err, quiz.ErrInvalidConfig):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound, "not found"
	case errors.Is(err, revision.ErrInvalidTransition):
		return http.StatusConflict, "invalid transition"
	case errors.Is(err, store.ErrConflict):
		return http.StatusConflict, "conflict"
	case errors.Is(err, quiz.ErrSessionClosed):
		return http.StatusGone, "session closed"
	}
	return http.StatusInternalServerError, "internal error"
}

func errorHandler(log *logger.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		var code int
		var msg string
		var he *echo.HTTPError
		if errors.As(err, &he) {
			code, msg = he.Code, fmt.Sprint(he.Message)
		} else {
			code, msg = statusFor(err)
		}
		if code >= http.StatusInternalServerError {
			log.Error("request failed", "path", c.Request().URL.Path, "error", err)
		}

		if c.Request().Method == http.MethodHead {
			err = c.NoContent(code)
		} else {
			err = c.JSON(code, errorBody{Error: msg})
		}
		if err != nil {
			log.Warn("write error response failed", "error", err)
		}
	}
}
