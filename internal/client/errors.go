package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/adhyaya/adhyaya/internal/quiz"
	"github.com/adhyaya/adhyaya/internal/revision"
	"github.com/adhyaya/adhyaya/internal/store"
	"github.com/adhyaya/adhyaya/internal/tracker"
)

// ErrActionFailed is returned when the backend could not be reached or
// failed internally. The action can be retried.
var ErrActionFailed = errors.New("action failed, please retry")

// HTTPError is a non-2xx backend response.
type HTTPError struct {
	StatusCode int
	Message    string
}

func (e *HTTPError) Error() string {
	msg := strings.TrimSpace(e.Message)
	if msg == "" {
		msg = http.StatusText(e.StatusCode)
	}
	return fmt.Sprintf("http error: status=%d message=%s", e.StatusCode, msg)
}

// Unwrap maps the status back onto the sentinel errors the server derived
// it from, so callers can use errors.Is the same way they would locally.
func (e *HTTPError) Unwrap() error {
	switch e.StatusCode {
	case http.StatusBadRequest:
		return tracker.ErrInvalidInput
	case http.StatusNotFound:
		return store.ErrNotFound
	case http.StatusConflict:
		if e.Message == "invalid transition" {
			return revision.ErrInvalidTransition
		}
		return store.ErrConflict
	case http.StatusGone:
		return quiz.ErrSessionClosed
	}
	if e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= 500 {
		return ErrActionFailed
	}
	return nil
}

func parseHTTPError(status int, raw []byte) error {
	var body struct {
		Error string `json:"error"`
	}
	msg := strings.TrimSpace(string(raw))
	if err := json.Unmarshal(raw, &body); err == nil && body.Error != "" {
		msg = body.Error
	}
	return &HTTPError{StatusCode: status, Message: msg}
}

func retryable(err error) bool {
	var he *HTTPError
	if errors.As(err, &he) {
		return errors.Is(he, ErrActionFailed)
	}
	return true
}
