package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/adhyaya/adhyaya/internal/dashboard"
	"github.com/adhyaya/adhyaya/internal/mastery"
	"github.com/adhyaya/adhyaya/internal/store"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show revision statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := withTimeout(cmd.Context())
		defer cancel()

		e, err := openEnv(ctx)
		if err != nil {
			return err
		}
		defer e.Close()

		var (
			s    dashboard.Summary
			prev *store.Snapshot
		)
		if e.tracker != nil {
			s, prev, err = e.tracker.RecordSnapshot(ctx, cfg.Learner)
		} else {
			s, err = e.backend.Stats(ctx, cfg.Learner)
		}
		if err != nil {
			return fmt.Errorf("stats: %w", err)
		}

		printSummary(s, prev)
		return nil
	},
}

func printSummary(s dashboard.Summary, prev *store.Snapshot) {
	fmt.Printf("Learner: %s\n", cfg.Learner)
	fmt.Println(strings.Repeat("─", 40))
	fmt.Printf("%-20s %6d%s\n", "Due now", s.DueNow, trend(s.DueNow, prev, func(p dashboard.Summary) int { return p.DueNow }))
	fmt.Printf("%-20s %6d\n", "Overdue", s.Overdue)
	fmt.Printf("%-20s %6d\n", "Total", s.Total)
	fmt.Printf("%-20s %6d%s\n", "Fully revised", s.CompletedFully, trend(s.CompletedFully, prev, func(p dashboard.Summary) int { return p.CompletedFully }))
	if s.CheckpointsCompleted > 0 {
		fmt.Printf("%-20s %5.0f%%  (%d/%d on time)\n", "Adherence",
			s.AdherenceRate*100, s.CheckpointsOnTime, s.CheckpointsCompleted)
	} else {
		fmt.Printf("%-20s %6s\n", "Adherence", "-")
	}
	fmt.Printf("%-20s %6d  (longest %d, next milestone %d)\n", "Streak (days)", s.Streak.Current, s.Streak.Longest, dashboard.NextStreakMilestone(s.Streak.Current))

	fmt.Println()
	fmt.Println("Mastery")
	fmt.Println(strings.Repeat("─", 40))
	for _, l := range mastery.AllLevels() {
		n := s.MasteryHistogram[l]
		fmt.Printf("%s %-17s %6d  %s\n", l.Icon(), l.Label(), n, strings.Repeat("█", n))
	}
}

// trend renders the change against the previous snapshot, if any.
func trend(cur int, prev *store.Snapshot, field func(dashboard.Summary) int) string {
	if prev == nil {
		return ""
	}
	d := cur - field(prev.Data.Summary)
	switch {
	case d > 0:
		return fmt.Sprintf("  (+%d since %s)", d, prev.Timestamp.Local().Format("Jan 2"))
	case d < 0:
		return fmt.Sprintf("  (%d since %s)", d, prev.Timestamp.Local().Format("Jan 2"))
	}
	return ""
}
