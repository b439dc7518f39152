package app

import (
	"fmt"
	"os"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"go.uber.org/zap"

	"github.com/abhisek/ariano/internal/grading"
	"github.com/abhisek/ariano/internal/progress"
	"github.com/abhisek/ariano/internal/router"
	"github.com/abhisek/ariano/internal/screen"
	"github.com/abhisek/ariano/internal/screens/path"
	"github.com/abhisek/ariano/internal/screens/welcome"
	"github.com/abhisek/ariano/internal/ui/layout"
)

// Options holds the services the TUI works against.
type Options struct {
	Tracker *progress.Tracker
	Grader  *grading.Grader
	Logger  *zap.Logger

	// SkipWelcome starts directly on the learning path.
	SkipWelcome bool
}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	router  *router.Router
	log     *zap.Logger
	overall int
	width   int
	height  int
}

// newAppModel creates a new AppModel starting on the welcome screen.
func newAppModel(opts Options) AppModel {
	if opts.Grader == nil {
		opts.Grader = grading.NewGrader()
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	pathFactory := func() screen.Screen {
		return path.New(opts.Tracker, opts.Grader)
	}

	var initial screen.Screen
	if opts.SkipWelcome {
		initial = pathFactory()
	} else {
		initial = welcome.New(pathFactory)
	}

	return AppModel{
		router: router.New(initial),
		log:    opts.Logger,
	}
}

func (m AppModel) Init() tea.Cmd {
	return m.router.Active().Init()
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case screen.ProgressMsg:
		m.overall = msg.Record.OverallProgress

	case screen.ErrMsg:
		m.log.Error("screen operation failed", zap.Error(msg.Err))

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			if m.router.Depth() > 1 {
				return m, func() tea.Msg { return router.PopScreenMsg{} }
			}
			return m, nil
		}
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	if m.width == 0 || m.height == 0 {
		return v
	}

	if layout.IsTooSmall(m.width, m.height) {
		v.SetContent(layout.RenderMinSizeMessage(m.width, m.height))
		return v
	}

	active := m.router.Active()
	title := ""
	if active != nil {
		title = active.Title()
	}

	header := layout.RenderHeader(title, m.overall, m.width)

	var footerHints []layout.KeyHint
	if p, ok := active.(screen.KeyHintProvider); ok {
		footerHints = p.KeyHints()
	} else if m.router.Depth() > 1 {
		footerHints = []layout.KeyHint{
			{Key: "Esc", Description: "Back"},
			{Key: "Ctrl+C", Description: "Quit"},
		}
	} else {
		footerHints = []layout.KeyHint{
			{Key: "Ctrl+C", Description: "Quit"},
		}
	}

	footer := layout.RenderFooter(footerHints, m.width)

	contentHeight := m.height - lipgloss.Height(header) - lipgloss.Height(footer)
	if contentHeight < 0 {
		contentHeight = 0
	}

	content := m.router.View(m.width, contentHeight)
	frame := layout.RenderFrame(header, content, footer, m.width, m.height)

	v.SetContent(frame)
	return v
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	if opts.Tracker == nil {
		return fmt.Errorf("app: tracker is required")
	}
	p := tea.NewProgram(newAppModel(opts))
	_, err := p.Run()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error running program:", err)
		return err
	}
	return nil
}
