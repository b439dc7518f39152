package lesson

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
	"github.com/abhisek/ariano/internal/screens/challenge"
	"github.com/abhisek/ariano/internal/ui/components"
	"github.com/abhisek/ariano/internal/ui/layout"
	"github.com/abhisek/ariano/internal/ui/theme"
)

// LessonScreen shows a module's lesson content and its challenges. Opening
// it counts as viewing the content.
type LessonScreen struct {
	tracker    *progress.Tracker
	module     catalog.Module
	challenges []catalog.Challenge
	outline    []catalog.Heading
	menu       components.Menu
	stage      progress.Stage
	scroll     int
	err        error
}

var _ screen.Screen = (*LessonScreen)(nil)
var _ screen.KeyHintProvider = (*LessonScreen)(nil)

// New creates a LessonScreen for mod.
func New(tracker *progress.Tracker, grader *grading.Grader, mod catalog.Module) *LessonScreen {
	challenges := tracker.Catalog().ChallengesFor(mod.ID)

	items := make([]components.MenuItem, 0, len(challenges))
	for _, ch := range challenges {
		label := fmt.Sprintf("%s  (%s)", ch.Title, catalog.DifficultyDisplayName(ch.Difficulty))
		items = append(items, components.MenuItem{Label: label, Action: func() tea.Cmd {
			next := challenge.New(tracker, grader, ch)
			return func() tea.Msg {
				return router.PushScreenMsg{Screen: next}
			}
		}})
	}

	return &LessonScreen{
		tracker:    tracker,
		module:     mod,
		challenges: challenges,
		outline:    catalog.Outline(mod.Content),
		menu:       components.NewMenu(items),
		stage:      progress.StageNotStarted,
	}
}

// Init records the content view and reports the updated progress. It runs
// again whenever a challenge screen on top is popped, which refreshes the
// stage label.
func (s *LessonScreen) Init() tea.Cmd {
	t, id := s.tracker, s.module.ID
	return func() tea.Msg {
		ctx := context.Background()
		if err := t.RecordContentViewed(ctx, id); err != nil {
			return screen.ErrMsg{Err: err}
		}
		return screen.ProgressMsg{Record: t.Reconcile(ctx)}
	}
}

func (s *LessonScreen) Title() string {
	return s.module.Title
}

func (s *LessonScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "PgUp/PgDn", Description: "Scroll"},
		{Key: "↑↓", Description: "Challenge"},
		{Key: "Enter", Description: "Start"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *LessonScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case screen.ProgressMsg:
		if m, ok := msg.Record.Modules[s.module.ID]; ok {
			s.stage = m.Progress
		}
		return s, nil

	case screen.ErrMsg:
		s.err = msg.Err
		return s, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "pgdown", "ctrl+d", "space":
			s.scroll += 5
			return s, nil
		case "pgup", "ctrl+u":
			s.scroll -= 5
			if s.scroll < 0 {
				s.scroll = 0
			}
			return s, nil
		}
	}

	var cmd tea.Cmd
	s.menu, cmd = s.menu.Update(msg)
	return s, cmd
}

func (s *LessonScreen) View(width, height int) string {
	contentWidth := width - 6
	if contentWidth > 90 {
		contentWidth = 90
	}
	pad := lipgloss.NewStyle().PaddingLeft(2)

	var top strings.Builder
	top.WriteString("\n")
	top.WriteString(pad.Render(theme.Title.Render(s.module.Title)) + "  ")
	top.WriteString(theme.Dim.Render(s.stage.Label()) + "\n")
	if s.module.Description != "" {
		top.WriteString(pad.Render(theme.Dim.Width(contentWidth).Render(s.module.Description)) + "\n")
	}
	if s.module.VideoURL != "" {
		top.WriteString(pad.Render(theme.Hint.Render("Video: "+s.module.VideoURL)) + "\n")
	}
	if len(s.module.Objectives) > 0 {
		top.WriteString("\n" + pad.Render(theme.Section.Render("Objectives")) + "\n")
		for _, o := range s.module.Objectives {
			top.WriteString(pad.Render(theme.Body.Width(contentWidth).Render("• "+o)) + "\n")
		}
	}
	if s.err != nil {
		top.WriteString("\n" + pad.Render(theme.Incorrect.Render(s.err.Error())) + "\n")
	}

	var bottom strings.Builder
	bottom.WriteString("\n" + pad.Render(theme.Section.Render("Challenges")) + "\n")
	if len(s.challenges) == 0 {
		bottom.WriteString(pad.Render(theme.Hint.Render("No challenges for this module.")) + "\n")
	} else {
		bottom.WriteString(s.menu.View())
	}

	topStr, bottomStr := top.String(), bottom.String()
	bodyHeight := height - lipgloss.Height(topStr) - lipgloss.Height(bottomStr) - 1
	body := s.renderBody(contentWidth, bodyHeight)

	return lipgloss.Place(width, height, lipgloss.Left, lipgloss.Top,
		topStr+"\n"+body+bottomStr)
}

// renderBody returns the visible window of the outline and lesson text.
func (s *LessonScreen) renderBody(width, height int) string {
	if height <= 0 {
		return ""
	}

	var lines []string
	if len(s.outline) > 0 {
		lines = append(lines, theme.Section.Render("Contents"))
		for _, h := range s.outline {
			indent := strings.Repeat("  ", h.Level-1)
			lines = append(lines, theme.Dim.Render(indent+"· "+h.Text))
		}
		lines = append(lines, "")
	}
	wrapped := theme.Body.Width(width).Render(strings.TrimSpace(s.module.Content))
	lines = append(lines, strings.Split(wrapped, "\n")...)

	maxScroll := len(lines) - height
	if maxScroll < 0 {
		maxScroll = 0
	}
	if s.scroll > maxScroll {
		s.scroll = maxScroll
	}
	end := s.scroll + height
	if end > len(lines) {
		end = len(lines)
	}

	visible := lines[s.scroll:end]
	for i, l := range visible {
		visible[i] = "  " + l
	}
	return strings.Join(visible, "\n") + "\n"
}
