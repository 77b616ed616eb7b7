package screen

// ChangeKind identifies a diff operation kind.
type ChangeKind uint8

const (
	ChangeWriteText ChangeKind = iota
	ChangeClearToEOL
	ChangeClearToEOS
	ChangeMoveCursor
)

// Change is one ordered terminal mutation, per spec §3's screen_diff.
type Change struct {
	Kind ChangeKind
	Row  int
	Col  int
	Text string // only meaningful for ChangeWriteText
}

// Diff compares old and new and returns the minimal ordered sequence of
// changes that transforms old into new, per spec §4.5.
//
// For every row in [0, new.NumRows()), the first and last differing
// column are found and a single write_text covers that inclusive span;
// if new's row content is shorter than old's, a clear_to_eol is
// appended at the point content stops. Once new's rows are exhausted,
// any remaining old rows collapse into one clear_to_eos and diffing
// stops. A final move_cursor to new's cursor is appended whenever any
// other change was emitted (writing leaves the terminal cursor at the
// end of the written text) or the cursor moved.
func Diff(old, new *Screen) []Change {
	var changes []Change

	for r := 0; r < new.NumRows(); r++ {
		first, last, differs := firstLastDiff(old, new, r)
		if differs {
			changes = append(changes, Change{
				Kind: ChangeWriteText,
				Row:  r,
				Col:  first,
				Text: rowText(new, r, first, last),
			})
		}
		if r < old.NumRows() && new.RowLength(r) < old.RowLength(r) {
			changes = append(changes, Change{Kind: ChangeClearToEOL, Row: r, Col: new.RowLength(r)})
		}
	}

	if old.NumRows() > new.NumRows() {
		changes = append(changes, Change{Kind: ChangeClearToEOS, Row: new.NumRows(), Col: 0})
	}

	oldRow, oldCol := old.Cursor()
	newRow, newCol := new.Cursor()
	if len(changes) > 0 || oldRow != newRow || oldCol != newCol {
		changes = append(changes, Change{Kind: ChangeMoveCursor, Row: newRow, Col: newCol})
	}

	return changes
}

func firstLastDiff(old, new *Screen, r int) (first, last int, differs bool) {
	width := new.Width()
	first, last = -1, -1
	for c := 0; c < width; c++ {
		if old.Get(r, c) != new.Get(r, c) {
			if first < 0 {
				first = c
			}
			last = c
		}
	}
	if first < 0 {
		return 0, 0, false
	}
	return first, last, true
}

func rowText(s *Screen, r, first, last int) string {
	out := make([]byte, 0, last-first+1)
	for c := first; c <= last; c++ {
		cell := s.Get(r, c)
		out = append(out, cell.Text...)
	}
	return string(out)
}
