package main

import (
	"github.com/lusush/lusush/internal/pipeline"
	"github.com/lusush/lusush/internal/screen"
	"github.com/lusush/lusush/internal/shellmode"
)

const primaryPrompt = "$ "

// render runs the current buffer through the render pipeline, computes
// the diff against the previously rendered screen, and writes the
// minimal escape sequence for that diff directly to m.out.
func (m *model) render() {
	buf := m.currentBuffer()
	if buf == nil {
		return
	}

	idx, err := buf.Index()
	if err != nil {
		m.log.Error("rebuild index before render", "err", err)
		return
	}
	cp, err := idx.GraphemeToCodepoint(m.cursorGrapheme)
	if err != nil {
		return
	}
	cursorByteInCommand, err := idx.CodepointToByte(cp)
	if err != nil {
		return
	}

	allowFunctionKeyword := m.modes.Allows(shellmode.FeatureFunctionKeyword)
	ctx := &pipeline.Context{
		Buffer:           buf.String(),
		CursorByteOffset: cursorByteInCommand,
		TerminalCapabilities: pipeline.Capabilities{
			SupportsColors: m.caps.SupportsColors(),
		},
		Tokenize: func(content string) []pipeline.ColorSpan {
			return tokenizeForColor(content, allowFunctionKeyword)
		},
	}
	out, err := m.pipe.Execute(ctx)
	if err != nil {
		m.log.Error("pipeline execute", "err", err)
		return
	}

	prompt := m.promptFor(buf.String())
	newScreen := screen.Render(m.width, prompt, string(out.Content), len(prompt)+cursorByteInCommand)

	changes := screen.Diff(m.prevScreen, newScreen)
	if len(changes) > 0 {
		if err := screen.Apply(m.out, changes); err != nil {
			m.log.Error("apply screen diff", "err", err)
			return
		}
	}
	m.prevScreen = newScreen
}

// promptFor returns the primary prompt while the buffer holds no
// newline, or a continuation prompt resolved from the continuation
// cache when the buffer already spans multiple lines.
func (m *model) promptFor(command string) string {
	lines := 0
	for _, c := range command {
		if c == '\n' {
			lines++
		}
	}
	if lines == 0 {
		return primaryPrompt
	}
	return m.cont.Request(lines, command)
}
