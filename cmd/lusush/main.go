// Command lusush is the interactive front end: editbuffer, history,
// the render pipeline, the event bus, the continuation-prompt layer,
// the shell-mode registry, and the screen differ, all driven by a
// single bubbletea program acting as the outer input/resize loop.
package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/lusush/lusush/internal/logging"
)

func main() {
	log := logging.Component(logging.FromEnv(), "lusush")

	m := newModel(log)
	p := tea.NewProgram(m, tea.WithoutRenderer(), tea.WithOutput(os.Stderr))
	if _, err := p.Run(); err != nil {
		fmt.Fprintln(os.Stderr, "lusush:", err)
		os.Exit(1)
	}
}
