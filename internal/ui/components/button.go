package components

import "github.com/adhyaya/adhyaya/internal/ui/theme"

// Button renders a focusable label.
type Button struct {
	Label   string
	Focused bool
}

func (b Button) View() string {
	if b.Focused {
		return theme.ButtonActive.Render("▸ " + b.Label)
	}
	return theme.ButtonInactive.Render(b.Label)
}
