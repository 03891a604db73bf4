package revisions

import (
	"fmt"
	"strings"
	"time"

	"charm.land/lipgloss/v2"

	"github.com/adhyaya/adhyaya/internal/dashboard"
	"github.com/adhyaya/adhyaya/internal/mastery"
	"github.com/adhyaya/adhyaya/internal/revision"
	"github.com/adhyaya/adhyaya/internal/tracker"
	"github.com/adhyaya/adhyaya/internal/ui/components"
	"github.com/adhyaya/adhyaya/internal/ui/theme"
)

func (s *RevisionsScreen) View(width, height int) string {
	var b strings.Builder
	b.WriteString(s.renderStats(width))
	b.WriteString("\n\n")

	switch {
	case s.errMsg != "":
		b.WriteString(theme.Incorrect.Render("  " + s.errMsg))
		b.WriteString("\n")
		b.WriteString(theme.Hint.Render("  Press r to retry."))
	case s.loading:
		b.WriteString(theme.Hint.Render("  Loading..."))
	case len(s.items) == 0:
		b.WriteString(theme.Hint.Render(s.emptyText()))
	default:
		// Header, stats and footer lines.
		b.WriteString(s.renderList(width, max(height-8, 3)))
	}

	if s.adding {
		b.WriteString("\n\n  New unit: ")
		b.WriteString(s.input.View())
	} else if s.notice != "" {
		b.WriteString("\n\n  ")
		b.WriteString(lipgloss.NewStyle().Foreground(theme.Secondary).Render(s.notice))
	}
	return b.String()
}

func (s *RevisionsScreen) emptyText() string {
	if s.currentFilter() == tracker.FilterActive {
		return "  Nothing to revise yet. Press a to add a unit you just studied."
	}
	return fmt.Sprintf("  No items match the %q filter.", s.currentFilter())
}

func (s *RevisionsScreen) renderStats(width int) string {
	st := s.stats
	due := lipgloss.NewStyle().Foreground(theme.Accent).Bold(true).Render(fmt.Sprintf("%d due", st.DueNow))
	overdue := lipgloss.NewStyle().Foreground(theme.Error).Render(fmt.Sprintf("%d overdue", st.Overdue))
	total := lipgloss.NewStyle().Foreground(theme.TextDim).Render(fmt.Sprintf("%d items, %d complete", st.Total, st.CompletedFully))
	line := "  " + due + "   " + overdue + "   " + total

	if st.Streak.Current > 0 {
		line += lipgloss.NewStyle().Foreground(theme.Secondary).Render(fmt.Sprintf("   %d-day streak, next %d", st.Streak.Current, dashboard.NextStreakMilestone(st.Streak.Current)))
	}

	bar := components.NewProgressBar("  On time", st.AdherenceRate, true, min(width-4, 50))
	return line + "\n" + bar.View() + "\n" + s.renderHistogram()
}

func (s *RevisionsScreen) renderHistogram() string {
	parts := make([]string, 0, 4)
	for _, l := range mastery.AllLevels() {
		parts = append(parts, lipgloss.NewStyle().Foreground(theme.LevelColor(l)).
			Render(fmt.Sprintf("%s %s %d", l.Icon(), l.Label(), s.stats.MasteryHistogram[l])))
	}
	return "  " + strings.Join(parts, "   ")
}

func (s *RevisionsScreen) renderList(width, rows int) string {
	// Keep the selection visible.
	start := 0
	if s.selected >= rows {
		start = s.selected - rows + 1
	}
	end := min(start+rows, len(s.items))

	unitWidth := max(width-44, 12)
	var b strings.Builder
	for i := start; i < end; i++ {
		it := s.items[i]
		prefix := "  "
		if i == s.selected {
			prefix = "▸ "
		}
		unit := it.UnitRef
		if r := []rune(unit); len(r) > unitWidth {
			unit = string(r[:unitWidth-1]) + "…"
		}

		level := lipgloss.NewStyle().Foreground(theme.LevelColor(it.MasteryLevel)).Render(it.MasteryLevel.Icon())
		progress := fmt.Sprintf("%d/%d", it.CompletedCount(), len(it.Schedule))
		status := lipgloss.NewStyle().Foreground(theme.StatusColor(it.Status)).Render(s.dueLabel(it))

		text := fmt.Sprintf("%s%s %-*s %5s  ", prefix, level, unitWidth, unit, progress)
		if i == s.selected {
			text = theme.Selected.Render(text)
		}
		b.WriteString(text + status + "\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

// dueLabel describes when the current checkpoint is due.
func (s *RevisionsScreen) dueLabel(it tracker.ItemView) string {
	switch it.Status {
	case revision.StatusComplete:
		return "complete"
	case revision.StatusOverdue:
		return "overdue " + ago(s.now().Sub(it.DueState.NextDueAt))
	case revision.StatusDue:
		return "due now"
	}
	if it.DaysUntilDue == 1 {
		return "due tomorrow"
	}
	return fmt.Sprintf("due in %dd, %s", it.DaysUntilDue, it.DueState.NextDueAt.Local().Format("Mon 2 Jan"))
}

func ago(d time.Duration) string {
	if days := int(d.Hours() / 24); days > 0 {
		return fmt.Sprintf("%dd", days)
	}
	return fmt.Sprintf("%dh", int(d.Hours()))
}
