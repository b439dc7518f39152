package screen

import (
	"context"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/ariano/internal/progress"
	"github.com/abhisek/ariano/internal/ui/layout"
)

// Screen defines the interface for all application screens.
type Screen interface {
	// Init returns an initial command when the screen is first created.
	Init() tea.Cmd

	// Update handles messages and returns updated screen + command.
	Update(msg tea.Msg) (Screen, tea.Cmd)

	// View renders the screen content (excluding header/footer).
	View(width, height int) string

	// Title returns the screen name for the header.
	Title() string
}

// KeyHintProvider is an optional interface that screens can implement
// to provide custom footer key hints.
type KeyHintProvider interface {
	KeyHints() []layout.KeyHint
}

// ProgressMsg carries a freshly reconciled progress record. The app uses it
// for the header; screens use it to redraw module states.
type ProgressMsg struct {
	Record progress.LearningPathProgress
}

// ErrMsg reports a failed background operation.
type ErrMsg struct {
	Err error
}

// LoadProgress returns a command that reconciles the stored record against
// the tracker's catalog.
func LoadProgress(t *progress.Tracker) tea.Cmd {
	return func() tea.Msg {
		return ProgressMsg{Record: t.Reconcile(context.Background())}
	}
}
