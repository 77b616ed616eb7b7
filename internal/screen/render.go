package screen

import (
	"unicode/utf8"

	"github.com/mattn/go-runewidth"
)

const tabStop = 8

// bracket markers readline uses to delimit non-printing prompt
// sequences (e.g. color codes); spec §6 says these are recognized and
// skipped for width calculation, never emitted to the terminal.
const (
	promptStartMark = '\x01'
	promptEndMark   = '\x02'
)

// Render walks prompt then command into a freshly allocated scratch
// screen, per spec §4.5: ANSI escapes and readline bracket markers are
// skipped for width purposes in both, '\n' and '\t' are handled in
// command text (tab advances to the next multiple of 8), wide
// characters advance the column by 2 and wrap to the next row on
// overflow. The cursor is captured at the row/col reached when the
// running byte counter (over the raw, unskipped byte stream of
// prompt+command) equals cursorByteOffset, or when input is fully
// consumed, whichever comes first.
func Render(width int, prompt, command string, cursorByteOffset int) *Screen {
	s := New(width, 1)
	rc := &renderCursor{}

	writeSegment(s, []byte(prompt), true, rc, cursorByteOffset)
	writeSegment(s, []byte(command), false, rc, cursorByteOffset)

	if !rc.captured {
		s.SetCursor(rc.row, rc.col)
	} else {
		s.SetCursor(rc.capturedRow, rc.capturedCol)
	}
	return s
}

type renderCursor struct {
	row, col       int
	counter        int
	captured       bool
	capturedRow    int
	capturedCol    int
}

func (rc *renderCursor) maybeCapture(target int) {
	if !rc.captured && rc.counter == target {
		rc.captured = true
		rc.capturedRow = rc.row
		rc.capturedCol = rc.col
	}
}

func writeSegment(s *Screen, text []byte, isPrompt bool, rc *renderCursor, cursorByteOffset int) {
	i := 0
	n := len(text)
	for i < n {
		rc.maybeCapture(cursorByteOffset)

		// ANSI escape sequence: ESC '[' ... final byte in 0x40-0x7E.
		if text[i] == 0x1b && i+1 < n && text[i+1] == '[' {
			j := i + 2
			for j < n && !(text[j] >= 0x40 && text[j] <= 0x7e) {
				j++
			}
			if j < n {
				j++ // consume the final byte
			}
			rc.counter += j - i
			i = j
			continue
		}

		// Readline bracket-marker region: skip for width, still counts
		// towards the byte counter.
		if text[i] == promptStartMark {
			j := i + 1
			for j < n && text[j] != promptEndMark {
				j++
			}
			if j < n {
				j++ // consume the end marker
			}
			rc.counter += j - i
			i = j
			continue
		}

		r, size := utf8.DecodeRune(text[i:])
		switch r {
		case '\n':
			rc.row++
			rc.col = 0
			s.ensureRow(rc.row)
		case '\t':
			next := ((rc.col / tabStop) + 1) * tabStop
			for rc.col < next {
				s.Set(rc.row, rc.col, Cell{Text: " ", IsPrompt: isPrompt})
				rc.col++
				if rc.col >= s.Width() {
					rc.row++
					rc.col = 0
					s.ensureRow(rc.row)
				}
			}
		default:
			w := runewidth.RuneWidth(r)
			if w <= 0 {
				w = 1
			}
			if rc.col+w > s.Width() {
				rc.row++
				rc.col = 0
				s.ensureRow(rc.row)
			}
			s.Set(rc.row, rc.col, Cell{Text: string(r), IsPrompt: isPrompt})
			for k := 1; k < w; k++ {
				// second (and further) display columns of a wide
				// character carry no text of their own.
				s.Set(rc.row, rc.col+k, Cell{Text: "", IsPrompt: isPrompt})
			}
			rc.col += w
		}
		rc.counter += size
		i += size
	}
	rc.maybeCapture(cursorByteOffset)
}
