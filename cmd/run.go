package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/adhyaya/adhyaya/internal/app"
	"github.com/adhyaya/adhyaya/internal/logger"
)

// runApp opens the backend, builds the question generator and launches the
// TUI. A non-empty quizID opens quiz setup for that item first.
func runApp(cmd *cobra.Command, quizID string) error {
	ctx := cmd.Context()

	// Anything below error level would draw over the alt screen.
	if l, err := logger.New("quiet"); err == nil {
		lg = l
	}

	e, err := openEnv(ctx)
	if err != nil {
		return err
	}
	defer e.Close()

	opts := app.Options{
		Backend:   e.backend,
		Generator: newGenerator(ctx, e.events()),
		Learner:   cfg.Learner,
		Log:       lg,
	}
	if quizID != "" {
		item, err := e.backend.GetRevision(ctx, quizID)
		if err != nil {
			return fmt.Errorf("get revision %s: %w", quizID, err)
		}
		if item.IsFullyComplete() {
			fmt.Printf("%s is already complete.\n", item.UnitRef)
			return nil
		}
		opts.QuizItem = &item
	}

	if err := app.Run(ctx, opts); err != nil {
		return fmt.Errorf("run app: %w", err)
	}
	return nil
}
