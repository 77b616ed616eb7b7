// Package screen implements the virtual screen buffer, diff, and
// terminal-apply pipeline from spec §4.5.
//
// A Cell grid with row-level dirty tracking drives per-cell diffing
// between two Screen values; Apply writes the resulting escape
// sequences to any io.Writer. A Cell stores the full UTF-8 text of its
// grapheme cluster (never truncated to one byte), and the diff is
// expressed as the ordered op list spec §3 defines (write_text/
// clear_to_eol/clear_to_eos/move_cursor) rather than raw escape bytes,
// so it can be unit-tested without a terminal.
package screen

// Cell is one screen position: its display text (a full grapheme
// cluster, not a single byte) and whether it was written by the prompt
// layer rather than command content.
type Cell struct {
	Text     string
	IsPrompt bool
}

var emptyCell = Cell{Text: " "}

// row is one line of cells plus its bookkeeping: a content length and a
// dirty bit. The length is a column extent (one past the last written
// column), not a byte count of the row's text.
type row struct {
	cells  []Cell
	length int // one past the last written column
	dirty  bool
}

// Screen is a bounded matrix of rows x cells plus cursor state.
type Screen struct {
	width     int
	rows      []row
	cursorRow int
	cursorCol int
}

// New creates an empty screen width cells wide with numRows rows.
func New(width, numRows int) *Screen {
	s := &Screen{width: width}
	s.rows = make([]row, numRows)
	for i := range s.rows {
		s.rows[i] = newRow(width)
	}
	return s
}

func newRow(width int) row {
	cells := make([]Cell, width)
	for i := range cells {
		cells[i] = emptyCell
	}
	return row{cells: cells}
}

// Width returns the terminal width this screen was built for.
func (s *Screen) Width() int { return s.width }

// NumRows returns the number of rows currently allocated.
func (s *Screen) NumRows() int { return len(s.rows) }

// Cursor returns the cursor's current (row, col).
func (s *Screen) Cursor() (row, col int) { return s.cursorRow, s.cursorCol }

// SetCursor sets the cursor position.
func (s *Screen) SetCursor(r, c int) {
	s.cursorRow, s.cursorCol = r, c
}

// Get returns the cell at (r, c), or the empty cell if out of bounds.
func (s *Screen) Get(r, c int) Cell {
	if r < 0 || r >= len(s.rows) || c < 0 || c >= s.width {
		return emptyCell
	}
	return s.rows[r].cells[c]
}

// Set writes a cell at (r, c), growing the row slice if r is beyond the
// currently allocated rows, and marks the row dirty.
func (s *Screen) Set(r, c int, cell Cell) {
	if c < 0 || c >= s.width {
		return
	}
	s.ensureRow(r)
	s.rows[r].cells[c] = cell
	s.rows[r].dirty = true
	if c+1 > s.rows[r].length {
		s.rows[r].length = c + 1
	}
}

func (s *Screen) ensureRow(r int) {
	for r >= len(s.rows) {
		s.rows = append(s.rows, newRow(s.width))
	}
}

// RowLength returns row r's content extent in columns (one past the
// last written column); it is not a byte count.
func (s *Screen) RowLength(r int) int {
	if r < 0 || r >= len(s.rows) {
		return 0
	}
	return s.rows[r].length
}

// RowDirty reports whether row r has been written to since the last
// ClearDirty.
func (s *Screen) RowDirty(r int) bool {
	if r < 0 || r >= len(s.rows) {
		return false
	}
	return s.rows[r].dirty
}

// ClearDirty clears every row's dirty bit, e.g. after a flush.
func (s *Screen) ClearDirty() {
	for i := range s.rows {
		s.rows[i].dirty = false
	}
}

// Clear resets every cell to empty and the cursor to the origin.
func (s *Screen) Clear() {
	for i := range s.rows {
		s.rows[i] = newRow(s.width)
	}
	s.cursorRow, s.cursorCol = 0, 0
}
