package quiz

import (
	"github.com/adhyaya/adhyaya/internal/questiongen"
	qz "github.com/adhyaya/adhyaya/internal/quiz"
	"github.com/adhyaya/adhyaya/internal/tracker"
)

// questionReadyMsg carries the next generated question.
type questionReadyMsg struct {
	question *questiongen.Question
	err      error
}

// submittedMsg is the backend's answer to a finished quiz.
type submittedMsg struct {
	summary qz.Summary
	outcome tracker.QuizOutcome
	err     error
}
