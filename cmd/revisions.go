package cmd

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/adhyaya/adhyaya/internal/revision"
	"github.com/adhyaya/adhyaya/internal/tracker"
)

var addCmd = &cobra.Command{
	Use:   "add <unit>",
	Short: "Start revising a unit you just learned",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		unit := strings.Join(args, " ")

		ctx, cancel := withTimeout(cmd.Context())
		defer cancel()

		e, err := openEnv(ctx)
		if err != nil {
			return err
		}
		defer e.Close()

		v, err := e.backend.CreateRevision(ctx, cfg.Learner, unit)
		if err != nil {
			return fmt.Errorf("add %q: %w", unit, err)
		}
		fmt.Printf("Added %s (%s). First revision due %s.\n",
			v.UnitRef, shortID(v.ID), v.DueState.NextDueAt.Local().Format("Mon Jan 2 15:04"))
		return nil
	},
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List revisions",
	RunE: func(cmd *cobra.Command, args []string) error {
		all, _ := cmd.Flags().GetBool("all")
		filterVal, _ := cmd.Flags().GetString("filter")

		filter, err := tracker.ParseFilter(filterVal)
		if err != nil {
			return err
		}
		if all {
			filter = tracker.FilterAll
		}

		ctx, cancel := withTimeout(cmd.Context())
		defer cancel()

		e, err := openEnv(ctx)
		if err != nil {
			return err
		}
		defer e.Close()

		views, err := e.backend.ListRevisions(ctx, cfg.Learner, filter)
		if err != nil {
			return fmt.Errorf("list revisions: %w", err)
		}
		if len(views) == 0 {
			fmt.Println("Nothing to revise. Add a unit with `adhyaya add <unit>`.")
			return nil
		}

		fmt.Printf("%-8s  %-32s  %-9s  %-5s  %-13s  %s\n",
			"ID", "Unit", "Status", "Phase", "Mastery", "Next")
		fmt.Println(strings.Repeat("─", 90))
		now := time.Now()
		for _, v := range views {
			fmt.Printf("%-8s  %-32s  %-9s  %-5s  %-13s  %s\n",
				shortID(v.ID),
				truncate(v.UnitRef, 32),
				v.Status,
				fmt.Sprintf("%d/%d", min(v.CurrentPhase, len(v.Schedule)), len(v.Schedule)),
				v.MasteryLevel.Icon()+" "+v.MasteryLevel.Label(),
				nextLabel(v, now),
			)
		}
		fmt.Printf("\n%d revisions\n", len(views))
		return nil
	},
}

var completeCmd = &cobra.Command{
	Use:   "complete <id>",
	Short: "Mark the current checkpoint of a revision as done",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := withTimeout(cmd.Context())
		defer cancel()

		e, err := openEnv(ctx)
		if err != nil {
			return err
		}
		defer e.Close()

		id, err := resolveID(cmd, e, args[0])
		if err != nil {
			return err
		}

		res, err := e.backend.AdvanceRevision(ctx, id)
		if errors.Is(err, revision.ErrInvalidTransition) {
			fmt.Println("Already complete, nothing to do.")
			return nil
		}
		if err != nil {
			return fmt.Errorf("complete %s: %w", args[0], err)
		}

		v := res.Item
		if v.IsFullyComplete() {
			fmt.Printf("%s: all %d checkpoints done.\n", v.UnitRef, len(v.Schedule))
		} else {
			fmt.Printf("%s: checkpoint %d done. Next due %s.\n",
				v.UnitRef, v.CurrentPhase, v.DueState.NextDueAt.Local().Format("Mon Jan 2 15:04"))
		}
		if res.LevelChanged() {
			fmt.Printf("Mastery: %s → %s\n", res.FromLevel.Label(), res.ToLevel.Label())
		}
		return nil
	},
}

var quizCmd = &cobra.Command{
	Use:   "quiz <id>",
	Short: "Take a recall quiz for a revision",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id := args[0]
		if e, err := openEnv(cmd.Context()); err == nil {
			id, err = resolveID(cmd, e, id)
			e.Close()
			if err != nil {
				return err
			}
		}
		return runApp(cmd, id)
	},
}

func init() {
	listCmd.Flags().Bool("all", false, "Include completed revisions")
	listCmd.Flags().StringP("filter", "f", "active", "Filter: active, due, overdue or all")
}

// resolveID expands a unique ID prefix, as printed by `list`, to the full
// item ID.
func resolveID(cmd *cobra.Command, e *env, prefix string) (string, error) {
	views, err := e.backend.ListRevisions(cmd.Context(), cfg.Learner, tracker.FilterAll)
	if err != nil {
		return "", fmt.Errorf("list revisions: %w", err)
	}
	var matches []string
	for _, v := range views {
		if v.ID == prefix {
			return v.ID, nil
		}
		if strings.HasPrefix(v.ID, prefix) {
			matches = append(matches, v.ID)
		}
	}
	switch len(matches) {
	case 0:
		return "", fmt.Errorf("no revision matches %q", prefix)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("%q matches %d revisions, use a longer ID", prefix, len(matches))
	}
}

func nextLabel(v tracker.ItemView, now time.Time) string {
	if v.IsFullyComplete() {
		return "done"
	}
	d := v.DueState.NextDueAt.Sub(now)
	switch {
	case v.DueState.IsOverdue:
		return fmt.Sprintf("overdue by %s", humanDuration(-d))
	case v.DueState.IsDue:
		return "now"
	default:
		return "in " + humanDuration(d)
	}
}

func humanDuration(d time.Duration) string {
	switch {
	case d >= 48*time.Hour:
		return fmt.Sprintf("%dd", int(d.Hours()/24))
	case d >= time.Hour:
		return fmt.Sprintf("%dh", int(d.Hours()))
	default:
		return fmt.Sprintf("%dm", max(int(d.Minutes()), 1))
	}
}

func shortID(id string) string {
	if len(id) <= 8 {
		return id
	}
	return id[:8]
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
