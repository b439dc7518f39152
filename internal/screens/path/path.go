package path

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/ariano/internal/catalog"
	"github.com/abhisek/ariano/internal/grading"
	"github.com/abhisek/ariano/internal/progress"
	"github.com/abhisek/ariano/internal/router"
	"github.com/abhisek/ariano/internal/screen"
	"github.com/abhisek/ariano/internal/screens/lesson"
	"github.com/abhisek/ariano/internal/ui/components"
	"github.com/abhisek/ariano/internal/ui/layout"
	"github.com/abhisek/ariano/internal/ui/theme"
)

// PathScreen lists the catalog modules in order with their progress.
type PathScreen struct {
	tracker *progress.Tracker
	grader  *grading.Grader
	modules []catalog.Module
	record  progress.LearningPathProgress
	loaded  bool
	cursor  int
	err     error
}

var _ screen.Screen = (*PathScreen)(nil)
var _ screen.KeyHintProvider = (*PathScreen)(nil)

// New creates a PathScreen over the tracker's catalog.
func New(tracker *progress.Tracker, grader *grading.Grader) *PathScreen {
	return &PathScreen{
		tracker: tracker,
		grader:  grader,
		modules: tracker.Catalog().Ordered(),
		record:  progress.Empty(),
	}
}

// Init reloads progress; it also runs when a screen above is popped.
func (s *PathScreen) Init() tea.Cmd {
	return screen.LoadProgress(s.tracker)
}

func (s *PathScreen) Title() string {
	return "Learning Path"
}

func (s *PathScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Open"},
		{Key: "u", Description: "Unlock all"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

func (s *PathScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case screen.ProgressMsg:
		if !s.loaded {
			s.cursor = s.indexOf(msg.Record.LastActiveModuleID)
		}
		s.record = msg.Record
		s.loaded = true
		s.err = nil

	case screen.ErrMsg:
		s.err = msg.Err

	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			if s.cursor > 0 {
				s.cursor--
			}
		case "down", "j":
			if s.cursor < len(s.modules)-1 {
				s.cursor++
			}
		case "enter":
			return s, s.open()
		case "u":
			return s, s.unlockAll()
		}
	}
	return s, nil
}

func (s *PathScreen) indexOf(moduleID string) int {
	for i, m := range s.modules {
		if m.ID == moduleID {
			return i
		}
	}
	return 0
}

// open pushes the lesson for the module under the cursor.
func (s *PathScreen) open() tea.Cmd {
	if len(s.modules) == 0 {
		return nil
	}
	mod := s.modules[s.cursor]
	if !s.tracker.ModuleAccessible(mod.ID) {
		return nil
	}
	next := lesson.New(s.tracker, s.grader, mod)
	return func() tea.Msg {
		return router.PushScreenMsg{Screen: next}
	}
}

func (s *PathScreen) unlockAll() tea.Cmd {
	t := s.tracker
	return func() tea.Msg {
		ctx := context.Background()
		t.UnlockAll(ctx)
		return screen.ProgressMsg{Record: t.Reconcile(ctx)}
	}
}

func (s *PathScreen) View(width, height int) string {
	var b strings.Builder

	contentWidth := width - 4
	if contentWidth > 90 {
		contentWidth = 90
	}

	b.WriteString("\n")
	bar := components.NewProgressBar("Overall", s.record.OverallProgress, true, contentWidth)
	b.WriteString("  " + bar.View() + "\n\n")

	for i, mod := range s.modules {
		b.WriteString(s.renderRow(i, mod, contentWidth))
		b.WriteString("\n")
	}

	if len(s.modules) > 0 {
		mod := s.modules[s.cursor]
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().
			Width(contentWidth).
			PaddingLeft(4).
			Foreground(theme.TextDim).
			Render(mod.Description))
		b.WriteString("\n")
		if n := len(s.tracker.Catalog().ChallengesFor(mod.ID)); n > 0 {
			b.WriteString(theme.Hint.Render(fmt.Sprintf("    %d challenge(s)", n)))
			b.WriteString("\n")
		}
	}

	if s.err != nil {
		b.WriteString("\n" + theme.Incorrect.Render("  "+s.err.Error()) + "\n")
	}

	return lipgloss.Place(width, height, lipgloss.Left, lipgloss.Top, b.String())
}

func (s *PathScreen) renderRow(i int, mod catalog.Module, width int) string {
	entry, ok := s.record.Modules[mod.ID]
	if !ok {
		entry = progress.NewModuleEntry(mod.ID, mod.Order)
	}
	selected := i == s.cursor

	stage := entry.Progress.Label()
	labelWidth := 12
	nameWidth := width - 10 - labelWidth
	if nameWidth < 10 {
		nameWidth = 10
	}

	name := fmt.Sprintf("%d. %s", mod.Order, mod.Title)
	if lipgloss.Width(name) > nameWidth {
		name = truncate(name, nameWidth)
	}

	var nameStyle, labelStyle lipgloss.Style
	switch {
	case selected:
		nameStyle = theme.Selected
		labelStyle = lipgloss.NewStyle().Foreground(theme.Primary)
	case entry.Progress == progress.StageCompleted:
		nameStyle = lipgloss.NewStyle().Foreground(theme.Success)
		labelStyle = lipgloss.NewStyle().Foreground(theme.Success)
	case entry.Progress == progress.StageInProgress:
		nameStyle = theme.Body
		labelStyle = lipgloss.NewStyle().Foreground(theme.Accent)
	default:
		nameStyle = theme.Body
		labelStyle = theme.Dim
	}

	cursor := "  "
	if selected {
		cursor = "▸ "
	}

	return fmt.Sprintf("  %s%s %s  %s",
		cursor,
		entry.State.Icon(),
		nameStyle.Render(fmt.Sprintf("%-*s", nameWidth, name)),
		labelStyle.Render(fmt.Sprintf("%*s", labelWidth, stage)),
	)
}

func truncate(s string, width int) string {
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	return string(r[:width-1]) + "…"
}
