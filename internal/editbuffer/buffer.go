// Package editbuffer implements the grapheme-aware edit buffer and
// buffer manager described in spec §3 and §4.2.
//
// Buffer owns raw UTF-8 text plus a lazily (re)built textutf8.Index,
// following the "invalidate on every mutation, rebuild on demand"
// discipline spec §4.1 mandates.
package editbuffer

import (
	"github.com/lusush/lusush/internal/errs"
	"github.com/lusush/lusush/internal/textutf8"
)

// Buffer is a single mutable piece of editable text.
type Buffer struct {
	text    []byte
	version uint64
	index   *textutf8.Index
}

// New returns an empty buffer.
func New() *Buffer {
	return &Buffer{index: textutf8.New()}
}

// NewFromString returns a buffer seeded with the given text.
func NewFromString(s string) *Buffer {
	b := New()
	b.text = []byte(s)
	b.version = 1
	return b
}

// Bytes returns the buffer's current text. Callers must not mutate the
// returned slice.
func (b *Buffer) Bytes() []byte { return b.text }

// String returns the buffer's current text.
func (b *Buffer) String() string { return string(b.text) }

// Len returns the byte length of the buffer's text.
func (b *Buffer) Len() int { return len(b.text) }

// Version returns the monotonic mutation counter. It increments on
// every successful Insert/Delete/Set/Clear.
func (b *Buffer) Version() uint64 { return b.version }

// Index returns the buffer's UTF-8 index, rebuilding it first if it was
// invalidated by a prior mutation.
func (b *Buffer) Index() (*textutf8.Index, error) {
	if !b.index.Valid() {
		if err := b.index.Rebuild(b.text); err != nil {
			return nil, err
		}
	}
	return b.index, nil
}

// Set replaces the buffer's entire text.
func (b *Buffer) Set(text string) {
	b.text = []byte(text)
	b.index.Invalidate()
	b.version++
}

// Clear empties the buffer.
func (b *Buffer) Clear() {
	b.text = b.text[:0]
	b.index.Invalidate()
	b.version++
}

// Insert inserts s at byte offset at. at must be a valid codepoint
// boundary (0..Len()); callers editing by grapheme/codepoint should
// resolve the byte offset via Index() first.
func (b *Buffer) Insert(at int, s string) error {
	if at < 0 || at > len(b.text) {
		return errs.New(errs.OutOfRange, "insert offset %d out of range [0,%d]", at, len(b.text)).At("editbuffer.Insert")
	}
	grown := make([]byte, 0, len(b.text)+len(s))
	grown = append(grown, b.text[:at]...)
	grown = append(grown, s...)
	grown = append(grown, b.text[at:]...)
	b.text = grown
	b.index.Invalidate()
	b.version++
	return nil
}

// Delete removes the byte range [start,end).
func (b *Buffer) Delete(start, end int) error {
	if start < 0 || end > len(b.text) || start > end {
		return errs.New(errs.OutOfRange, "delete range [%d,%d) out of bounds for length %d", start, end, len(b.text)).At("editbuffer.Delete")
	}
	b.text = append(b.text[:start], b.text[end:]...)
	b.index.Invalidate()
	b.version++
	return nil
}
