package main

import (
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/lusush/lusush/internal/continuation"
	"github.com/lusush/lusush/internal/editbuffer"
	"github.com/lusush/lusush/internal/eventbus"
	"github.com/lusush/lusush/internal/history"
	"github.com/lusush/lusush/internal/pipeline"
	"github.com/lusush/lusush/internal/screen"
	"github.com/lusush/lusush/internal/shellmode"
	"github.com/lusush/lusush/internal/terminal"
)

// model is the outer wiring point: a tea.Model that drives every
// front-end subsystem through one cooperative, single-threaded loop
// (spec §5). bubbletea supplies only the input/resize event source —
// the program runs with tea.WithoutRenderer(), so Update owns the
// render→diff→apply cycle against os.Stdout directly rather than
// handing a string back to bubbletea's own renderer.
type model struct {
	buffers *editbuffer.Manager
	bufID   int

	hist  *history.Core
	pipe  *pipeline.Pipeline
	bus   *eventbus.Bus
	cont  *continuation.Layer
	modes *shellmode.Registry

	termClass terminal.Class
	caps      terminal.Capabilities

	out        *os.File
	prevScreen *screen.Screen
	width      int
	height     int

	cursorGrapheme int
	quitting       bool

	log *slog.Logger
}

func newModel(log *slog.Logger) *model {
	buffers := editbuffer.NewManager(0)
	bufID, err := buffers.CreateScratch()
	if err != nil {
		log.Error("create scratch buffer", "err", err)
	}

	env := terminal.EnvFromProcess()
	class := terminal.Detect(env)
	caps := terminal.CapabilitiesFor(class)
	log.Debug("terminal detected", "class", class.String(), "colors", caps.SupportsColors())

	m := &model{
		buffers: buffers,
		bufID:   bufID,
		hist: history.New(history.Options{
			IgnoreSpacePrefix: true,
			UseIDIndex:        true,
		}),
		pipe:      pipeline.New(),
		bus:       eventbus.New(eventbus.Options{MaxQueueLen: 1024}),
		cont:      continuation.New(64, continuation.ModeContextAware, newShellAnalyzer()),
		modes:     shellmode.New(shellmode.ModeLusush),
		termClass: class,
		caps:      caps,
		out:       os.Stdout,
		width:     80,
		height:    24,
		log:       log,
	}
	m.prevScreen = screen.New(m.width, 1)
	m.wireEvents()
	return m
}

func (m *model) Init() tea.Cmd {
	return nil
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.prevScreen = screen.New(m.width, 1)
		m.render()
		return m, nil

	case tea.KeyMsg:
		m.handleKey(msg)
		m.bus.ProcessPending(64, 0)
		if m.quitting {
			return m, tea.Quit
		}
		m.render()
		return m, nil
	}
	return m, nil
}

// View always returns "": bubbletea's own renderer is disabled via
// tea.WithoutRenderer(), so output happens as a side effect of render()
// inside Update instead.
func (m *model) View() string {
	return ""
}

// cycleMode advances the shell-mode registry to the next mode in
// declaration order (posix → bash → zsh → lusush → posix), wrapping
// around. It is bound to Ctrl+T as a manual override of shebang-based
// detection.
func (m *model) cycleMode() {
	next := (m.modes.Get() + 1) % (shellmode.ModeLusush + 1)
	if m.modes.Set(next) {
		m.log.Debug("shell mode changed", "mode", next.String())
	}
}

func (m *model) currentBuffer() *editbuffer.Buffer {
	buf, ok := m.buffers.Get(m.bufID)
	if !ok {
		return nil
	}
	return buf
}
