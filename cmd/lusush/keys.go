package main

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/lusush/lusush/internal/editbuffer"
)

// handleKey mutates the current buffer and cursor in response to one
// key event. It owns all editing semantics; bubbletea only decodes the
// raw terminal bytes into tea.KeyMsg.
func (m *model) handleKey(msg tea.KeyMsg) {
	buf := m.currentBuffer()
	if buf == nil {
		return
	}

	switch msg.Type {
	case tea.KeyCtrlC, tea.KeyCtrlD:
		m.quitting = true

	case tea.KeyEnter:
		text := buf.String()
		if text != "" {
			if _, err := m.hist.Add(text, 0); err != nil {
				m.log.Debug("history add skipped", "err", err)
			} else {
				m.publishCommandSubmitted(text)
			}
		}
		buf.Clear()
		m.cursorGrapheme = 0

	case tea.KeyCtrlT:
		m.cycleMode()

	case tea.KeyBackspace:
		m.deleteBeforeCursor(buf)

	case tea.KeyLeft:
		if m.cursorGrapheme > 0 {
			m.cursorGrapheme--
		}

	case tea.KeyRight:
		if g, ok := m.graphemeCount(buf); ok && m.cursorGrapheme < g {
			m.cursorGrapheme++
		}

	case tea.KeyHome:
		m.cursorGrapheme = 0

	case tea.KeyEnd:
		if g, ok := m.graphemeCount(buf); ok {
			m.cursorGrapheme = g
		}

	case tea.KeySpace:
		m.insertAtCursor(buf, " ")

	case tea.KeyTab:
		m.insertAtCursor(buf, "\t")

	case tea.KeyRunes:
		m.insertAtCursor(buf, string(msg.Runes))
	}
}

func (m *model) graphemeCount(buf *editbuffer.Buffer) (int, bool) {
	idx, err := buf.Index()
	if err != nil {
		return 0, false
	}
	_, _, graphemes, _ := idx.Counts()
	return graphemes, true
}

// insertAtCursor inserts s at the byte offset corresponding to the
// current grapheme cursor, then advances the cursor past it.
func (m *model) insertAtCursor(buf *editbuffer.Buffer, s string) {
	idx, err := buf.Index()
	if err != nil {
		m.log.Error("rebuild index before insert", "err", err)
		return
	}
	cp, err := idx.GraphemeToCodepoint(m.cursorGrapheme)
	if err != nil {
		return
	}
	byteOffset, err := idx.CodepointToByte(cp)
	if err != nil {
		return
	}
	if err := buf.Insert(byteOffset, s); err != nil {
		m.log.Error("insert", "err", err)
		return
	}

	idx2, err := buf.Index()
	if err != nil {
		return
	}
	newCP, err := idx2.ByteToCodepoint(byteOffset + len(s))
	if err != nil {
		return
	}
	g, err := idx2.CodepointToGrapheme(newCP)
	if err != nil {
		return
	}
	m.cursorGrapheme = g
}

// deleteBeforeCursor removes the grapheme immediately before the cursor
// (backspace semantics).
func (m *model) deleteBeforeCursor(buf *editbuffer.Buffer) {
	if m.cursorGrapheme == 0 {
		return
	}
	idx, err := buf.Index()
	if err != nil {
		return
	}
	cpStart, err := idx.GraphemeToCodepoint(m.cursorGrapheme - 1)
	if err != nil {
		return
	}
	cpEnd, err := idx.GraphemeToCodepoint(m.cursorGrapheme)
	if err != nil {
		return
	}
	byteStart, err := idx.CodepointToByte(cpStart)
	if err != nil {
		return
	}
	byteEnd, err := idx.CodepointToByte(cpEnd)
	if err != nil {
		return
	}
	if err := buf.Delete(byteStart, byteEnd); err != nil {
		m.log.Error("delete", "err", err)
		return
	}
	m.cursorGrapheme--
}
