package screen

import (
	"bytes"
	"fmt"
	"io"
	"strconv"

	"github.com/lusush/lusush/internal/errs"
)

// Apply emits the wire-format control sequences (spec §6) for changes
// to w: a cursor-position sequence before each change's payload, then
// the payload itself (written bytes, "\e[K", "\e[J", or nothing for a
// pure cursor move). The whole sequence is flushed in a single write
// with retry-on-partial-write, since writes to a terminal file
// descriptor may be non-blocking (spec §5).
func Apply(w io.Writer, changes []Change) error {
	var buf bytes.Buffer
	for _, ch := range changes {
		writeCursorPosition(&buf, ch.Row, ch.Col)
		switch ch.Kind {
		case ChangeWriteText:
			buf.WriteString(ch.Text)
		case ChangeClearToEOL:
			buf.WriteString("\x1b[K")
		case ChangeClearToEOS:
			buf.WriteString("\x1b[J")
		case ChangeMoveCursor:
			// cursor position sequence already emitted above; no payload
		}
	}
	if buf.Len() == 0 {
		return nil
	}
	if err := writeAllRetrying(w, buf.Bytes()); err != nil {
		return errs.New(errs.DisplayFailed, "apply screen diff: %v", err).At("screen.Apply")
	}
	return flush(w)
}

func writeCursorPosition(buf *bytes.Buffer, row, col int) {
	buf.WriteString("\x1b[")
	buf.WriteString(strconv.Itoa(row + 1))
	buf.WriteByte(';')
	buf.WriteString(strconv.Itoa(col + 1))
	buf.WriteByte('H')
}

// writeAllRetrying retries on short writes, which a non-blocking
// terminal fd can produce under kernel back-pressure.
func writeAllRetrying(w io.Writer, data []byte) error {
	for len(data) > 0 {
		n, err := w.Write(data)
		if n > 0 {
			data = data[n:]
		}
		if err != nil {
			return fmt.Errorf("partial write (%d bytes remaining): %w", len(data), err)
		}
	}
	return nil
}

func flush(w io.Writer) error {
	type syncer interface{ Sync() error }
	if f, ok := w.(syncer); ok {
		return f.Sync()
	}
	return nil
}
