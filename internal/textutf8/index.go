// Package textutf8 implements the grapheme-aware UTF-8 index described
// in spec §4.1: O(1) conversion between byte, codepoint, grapheme
// cluster, and display-column coordinate systems over a single buffer's
// text.
//
// Grapheme boundaries and per-cluster display widths come from
// github.com/rivo/uniseg; RuneWidth exposes github.com/mattn/go-runewidth's
// single-codepoint width.
package textutf8

import (
	"unicode/utf8"

	"github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"

	"github.com/lusush/lusush/internal/errs"
)

// Index holds the six coordinate-conversion arrays for one buffer's
// text. It is invalid until Rebuild succeeds, and every buffer mutation
// must call Invalidate.
type Index struct {
	valid bool

	byteToCodepoint      []int // len N+1
	codepointToByte      []int // len C+1
	graphemeToCodepoint  []int // len G+1
	codepointToGrapheme  []int // len C+1
	graphemeToDisplay    []int // len G+1
	displayToGrapheme    []int // len D+1

	numBytes, numCodepoints, numGraphemes, displayWidth int
}

// New returns an empty, invalid index.
func New() *Index {
	return &Index{}
}

// Valid reports whether the index currently reflects some text.
func (idx *Index) Valid() bool { return idx.valid }

// Invalidate flips the validity bit. Callers must invoke this on every
// buffer mutation; queries fail with InvalidState until the next
// Rebuild.
func (idx *Index) Invalidate() { idx.valid = false }

// Counts returns the four coordinate-space sizes of the last successful
// Rebuild.
func (idx *Index) Counts() (bytes, codepoints, graphemes, displayWidth int) {
	return idx.numBytes, idx.numCodepoints, idx.numGraphemes, idx.displayWidth
}

// Rebuild validates text as UTF-8 and (re)populates the index in O(N).
// On any encoding error the prior index is left completely untouched
// and an InvalidEncoding error is returned, matching spec §4.1's "leaves
// the prior index untouched" rule.
func (idx *Index) Rebuild(text []byte) error {
	// Pass 1: validate and count codepoints, grapheme clusters, and
	// total display width. A single decode loop catches every case
	// spec §4.1 enumerates (bad continuation bytes, overlong forms,
	// surrogates, truncated trailing sequences) because utf8.DecodeRune
	// already implements those exact rejection rules.
	n := len(text)
	numCodepoints := 0
	for i := 0; i < n; {
		r, size := utf8.DecodeRune(text[i:])
		if r == utf8.RuneError && size <= 1 {
			return errs.New(errs.InvalidEncoding, "invalid UTF-8 sequence at byte %d", i).At("textutf8.Rebuild")
		}
		numCodepoints++
		i += size
	}

	// Pass 1b: grapheme segmentation and display width, now that the
	// text is known valid.
	type clusterInfo struct {
		startByte, endByte int
		width              int
	}
	clusters := make([]clusterInfo, 0, numCodepoints)
	remaining := text
	bytePos := 0
	state := -1
	for len(remaining) > 0 {
		cluster, rest, width, newState := uniseg.FirstGraphemeClusterInString(string(remaining), state)
		if width < 0 {
			width = 1 // spec: invalid widths treated as 1
		}
		clusters = append(clusters, clusterInfo{
			startByte: bytePos,
			endByte:   bytePos + len(cluster),
			width:     width,
		})
		bytePos += len(cluster)
		remaining = []byte(rest)
		state = newState
	}
	numGraphemes := len(clusters)

	// Pass 2: allocate and fill the six arrays.
	byteToCodepoint := make([]int, n+1)
	codepointToByte := make([]int, numCodepoints+1)
	graphemeToCodepoint := make([]int, numGraphemes+1)
	codepointToGrapheme := make([]int, numCodepoints+1)
	graphemeToDisplay := make([]int, numGraphemes+1)

	cp := 0
	clusterIdx := 0
	seenCluster := make([]bool, numGraphemes)
	for i := 0; i < n; {
		_, size := utf8.DecodeRune(text[i:])
		for b := i; b < i+size; b++ {
			byteToCodepoint[b] = cp
		}
		codepointToByte[cp] = i
		for clusterIdx < numGraphemes-1 && i >= clusters[clusterIdx+1].startByte {
			clusterIdx++
		}
		codepointToGrapheme[cp] = clusterIdx
		if !seenCluster[clusterIdx] {
			seenCluster[clusterIdx] = true
			graphemeToCodepoint[clusterIdx] = cp
		}
		cp++
		i += size
	}
	byteToCodepoint[n] = numCodepoints
	codepointToByte[numCodepoints] = n
	codepointToGrapheme[numCodepoints] = numGraphemes
	graphemeToCodepoint[numGraphemes] = numCodepoints

	displayWidth := 0
	for g, c := range clusters {
		graphemeToDisplay[g] = displayWidth
		displayWidth += runeClusterWidth(c.width)
	}
	graphemeToDisplay[numGraphemes] = displayWidth

	displayToGrapheme := make([]int, displayWidth+1)
	for g := 0; g < numGraphemes; g++ {
		for d := graphemeToDisplay[g]; d < graphemeToDisplay[g+1]; d++ {
			displayToGrapheme[d] = g
		}
	}
	displayToGrapheme[displayWidth] = numGraphemes

	idx.byteToCodepoint = byteToCodepoint
	idx.codepointToByte = codepointToByte
	idx.graphemeToCodepoint = graphemeToCodepoint
	idx.codepointToGrapheme = codepointToGrapheme
	idx.graphemeToDisplay = graphemeToDisplay
	idx.displayToGrapheme = displayToGrapheme
	idx.numBytes = n
	idx.numCodepoints = numCodepoints
	idx.numGraphemes = numGraphemes
	idx.displayWidth = displayWidth
	idx.valid = true
	return nil
}

func runeClusterWidth(uniseqWidth int) int {
	if uniseqWidth <= 0 {
		return 0
	}
	return uniseqWidth
}

// RuneWidth exposes go-runewidth's single-codepoint width for callers
// that need it outside a rebuilt index.
func RuneWidth(r rune) int {
	return runewidth.RuneWidth(r)
}

func (idx *Index) checkValid() error {
	if !idx.valid {
		return errs.New(errs.InvalidState, "index not rebuilt").At("textutf8")
	}
	return nil
}

// ByteToCodepoint returns the codepoint index containing byte offset b.
func (idx *Index) ByteToCodepoint(b int) (int, error) {
	if err := idx.checkValid(); err != nil {
		return 0, err
	}
	if b < 0 || b >= len(idx.byteToCodepoint) {
		return 0, errs.New(errs.OutOfRange, "byte %d out of range", b).At("textutf8.ByteToCodepoint")
	}
	return idx.byteToCodepoint[b], nil
}

// CodepointToByte returns the byte offset at which codepoint c begins.
func (idx *Index) CodepointToByte(c int) (int, error) {
	if err := idx.checkValid(); err != nil {
		return 0, err
	}
	if c < 0 || c >= len(idx.codepointToByte) {
		return 0, errs.New(errs.OutOfRange, "codepoint %d out of range", c).At("textutf8.CodepointToByte")
	}
	return idx.codepointToByte[c], nil
}

// CodepointToGrapheme returns the grapheme cluster index containing
// codepoint c.
func (idx *Index) CodepointToGrapheme(c int) (int, error) {
	if err := idx.checkValid(); err != nil {
		return 0, err
	}
	if c < 0 || c >= len(idx.codepointToGrapheme) {
		return 0, errs.New(errs.OutOfRange, "codepoint %d out of range", c).At("textutf8.CodepointToGrapheme")
	}
	return idx.codepointToGrapheme[c], nil
}

// GraphemeToCodepoint returns the first codepoint index of grapheme g.
func (idx *Index) GraphemeToCodepoint(g int) (int, error) {
	if err := idx.checkValid(); err != nil {
		return 0, err
	}
	if g < 0 || g >= len(idx.graphemeToCodepoint) {
		return 0, errs.New(errs.OutOfRange, "grapheme %d out of range", g).At("textutf8.GraphemeToCodepoint")
	}
	return idx.graphemeToCodepoint[g], nil
}

// GraphemeToDisplay returns the display column at which grapheme g
// starts.
func (idx *Index) GraphemeToDisplay(g int) (int, error) {
	if err := idx.checkValid(); err != nil {
		return 0, err
	}
	if g < 0 || g >= len(idx.graphemeToDisplay) {
		return 0, errs.New(errs.OutOfRange, "grapheme %d out of range", g).At("textutf8.GraphemeToDisplay")
	}
	return idx.graphemeToDisplay[g], nil
}

// DisplayToGrapheme returns the grapheme index occupying display column
// d.
func (idx *Index) DisplayToGrapheme(d int) (int, error) {
	if err := idx.checkValid(); err != nil {
		return 0, err
	}
	if d < 0 || d >= len(idx.displayToGrapheme) {
		return 0, errs.New(errs.OutOfRange, "display column %d out of range", d).At("textutf8.DisplayToGrapheme")
	}
	return idx.displayToGrapheme[d], nil
}
