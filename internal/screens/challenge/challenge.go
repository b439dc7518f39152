package challenge

import (
	"context"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/ariano/internal/catalog"
	"github.com/abhisek/ariano/internal/grading"
	"github.com/abhisek/ariano/internal/progress"
	"github.com/abhisek/ariano/internal/router"
	"github.com/abhisek/ariano/internal/screen"
	"github.com/abhisek/ariano/internal/ui/components"
	"github.com/abhisek/ariano/internal/ui/layout"
	"github.com/abhisek/ariano/internal/ui/theme"
)

// gradedMsg carries the outcome of a submission.
type gradedMsg struct {
	result grading.Result
	err    error
}

// ChallengeScreen lets the learner answer one challenge. A correct answer
// completes the challenge's module.
type ChallengeScreen struct {
	tracker   *progress.Tracker
	grader    *grading.Grader
	challenge catalog.Challenge
	choice    components.MultiChoice
	input     components.TextInput
	result    *grading.Result
	pending   bool
	err       error
}

var _ screen.Screen = (*ChallengeScreen)(nil)
var _ screen.KeyHintProvider = (*ChallengeScreen)(nil)

// New creates a ChallengeScreen for ch.
func New(tracker *progress.Tracker, grader *grading.Grader, ch catalog.Challenge) *ChallengeScreen {
	s := &ChallengeScreen{
		tracker:   tracker,
		grader:    grader,
		challenge: ch,
	}
	if ch.Kind.IsChoice() {
		question := ch.Question
		if question == "" {
			question = ch.Description
		}
		s.choice = components.NewMultiChoice(question, ch.Options)
	} else {
		s.input = components.NewTextInput("your R code", 500)
	}
	return s
}

func (s *ChallengeScreen) Init() tea.Cmd {
	if s.challenge.Kind.IsChoice() {
		return nil
	}
	return s.input.Init()
}

func (s *ChallengeScreen) Title() string {
	return s.challenge.Title
}

func (s *ChallengeScreen) KeyHints() []layout.KeyHint {
	switch {
	case s.result != nil && s.result.Correct:
		return []layout.KeyHint{{Key: "Enter", Description: "Back to lesson"}}
	case s.result != nil && s.challenge.Kind.IsChoice():
		return []layout.KeyHint{
			{Key: "r", Description: "Try again"},
			{Key: "Esc", Description: "Back"},
		}
	case s.challenge.Kind.IsChoice():
		return []layout.KeyHint{
			{Key: "↑↓", Description: "Choose"},
			{Key: "Enter", Description: "Submit"},
			{Key: "Esc", Description: "Back"},
		}
	default:
		return []layout.KeyHint{
			{Key: "Enter", Description: "Submit"},
			{Key: "Esc", Description: "Back"},
		}
	}
}

func (s *ChallengeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case gradedMsg:
		return s, s.handleGraded(msg)

	case screen.ProgressMsg:
		return s, nil

	case tea.KeyMsg:
		if s.pending {
			return s, nil
		}
		if s.result != nil && s.result.Correct {
			if msg.String() == "enter" {
				return s, func() tea.Msg { return router.PopScreenMsg{} }
			}
			return s, nil
		}
		if s.challenge.Kind.IsChoice() {
			return s, s.updateChoice(msg)
		}
		return s, s.updateCode(msg)
	}

	if !s.challenge.Kind.IsChoice() {
		var cmd tea.Cmd
		s.input, cmd = s.input.Update(msg)
		return s, cmd
	}
	return s, nil
}

func (s *ChallengeScreen) updateChoice(msg tea.KeyMsg) tea.Cmd {
	if s.choice.Submitted {
		if msg.String() == "r" {
			s.choice.Reset()
			s.result = nil
			s.err = nil
		}
		return nil
	}

	s.choice, _ = s.choice.Update(msg)
	if s.choice.Submitted {
		return s.submit(grading.Submission{Choice: s.choice.ChosenIndex})
	}
	return nil
}

func (s *ChallengeScreen) updateCode(msg tea.KeyMsg) tea.Cmd {
	if msg.String() == "enter" {
		code := s.input.Value()
		if strings.TrimSpace(code) == "" {
			return nil
		}
		return s.submit(grading.Submission{Code: code})
	}

	s.result = nil
	s.err = nil
	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	return cmd
}

func (s *ChallengeScreen) submit(sub grading.Submission) tea.Cmd {
	s.pending = true
	g, t, ch := s.grader, s.tracker, s.challenge
	return func() tea.Msg {
		res, err := g.Submit(context.Background(), t, ch, sub)
		return gradedMsg{result: res, err: err}
	}
}

func (s *ChallengeScreen) handleGraded(msg gradedMsg) tea.Cmd {
	s.pending = false
	if msg.err != nil {
		s.err = msg.err
		if s.challenge.Kind.IsChoice() {
			s.choice.Reset()
		}
		return nil
	}

	res := msg.result
	s.result = &res
	if s.challenge.Kind.IsChoice() {
		if s.challenge.CorrectOption != nil {
			s.choice.Reveal(*s.challenge.CorrectOption)
		}
	} else {
		s.input.Submit(res.Correct)
	}

	if res.Correct {
		// The header shows the overall percentage.
		return screen.LoadProgress(s.tracker)
	}
	return nil
}

func (s *ChallengeScreen) View(width, height int) string {
	contentWidth := width - 6
	if contentWidth > 90 {
		contentWidth = 90
	}
	pad := lipgloss.NewStyle().PaddingLeft(2)
	ch := s.challenge

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(pad.Render(theme.Title.Render(ch.Title)) + "  ")
	b.WriteString(theme.Dim.Render(catalog.DifficultyDisplayName(ch.Difficulty)) + "\n\n")
	if ch.Description != "" && !(ch.Kind.IsChoice() && ch.Question == "") {
		b.WriteString(pad.Render(theme.Body.Width(contentWidth).Render(ch.Description)) + "\n\n")
	}

	if ch.Kind.IsChoice() {
		b.WriteString(pad.Render(s.choice.View()))
	} else {
		if ch.CodeTemplate != "" {
			b.WriteString(pad.Render(theme.Code.Render(strings.TrimRight(ch.CodeTemplate, "\n"))) + "\n\n")
		}
		b.WriteString(pad.Render(s.input.View()) + "\n")
	}

	b.WriteString("\n")
	switch {
	case s.pending:
		b.WriteString(pad.Render(theme.Hint.Render("Checking...")))
	case s.err != nil:
		b.WriteString(pad.Render(theme.Incorrect.Render(s.err.Error())))
	case s.result != nil && s.result.Correct:
		b.WriteString(pad.Render(theme.Correct.Render(s.result.Message)))
	case s.result != nil:
		b.WriteString(pad.Render(theme.Incorrect.Render(s.result.Message)))
	}
	b.WriteString("\n")

	return lipgloss.Place(width, height, lipgloss.Left, lipgloss.Top, b.String())
}
