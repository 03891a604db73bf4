// Package screen defines the contract between the router and the TUI
// screens.
package screen

import (
	tea "charm.land/bubbletea/v2"

	"github.com/adhyaya/adhyaya/internal/ui/layout"
)

// Screen is one page of the TUI.
type Screen interface {
	Init() tea.Cmd
	Update(msg tea.Msg) (Screen, tea.Cmd)

	// View renders the content area, excluding header and footer.
	View(width, height int) string

	// Title is shown in the header.
	Title() string
}

// KeyHintProvider is implemented by screens with their own footer hints.
type KeyHintProvider interface {
	KeyHints() []layout.KeyHint
}

// ResumedMsg is delivered to a screen when the screen above it is popped,
// so it can reload data that may have changed.
type ResumedMsg struct{}

// CapturesEsc is implemented by screens that handle Esc themselves, for
// example to show a quit confirmation, instead of letting the app pop them.
type CapturesEsc interface {
	CapturesEsc() bool
}
