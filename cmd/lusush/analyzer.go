package main

import (
	"strings"

	"github.com/lusush/lusush/internal/tokenizer"
)

// shellAnalyzer is the continuation.Analyzer wired into the interactive
// front end. Spec §4.8 treats the analyzer as an opaque collaborator;
// this implementation grounds its Feed/Prompt contract in the same
// tokenizer package used for syntax coloring, tracking unmatched
// grouping depth and unterminated quotes across fed lines.
type shellAnalyzer struct {
	depth     int
	openQuote bool
}

func newShellAnalyzer() *shellAnalyzer {
	return &shellAnalyzer{}
}

// Feed scans one line and updates the running grouping-depth and
// open-quote state. It does not attempt to carry an unterminated quote
// across lines (the tokenizer operates one line at a time); a quote
// left open on the fed line is enough to report a continuation prompt.
func (a *shellAnalyzer) Feed(line string) {
	a.openQuote = false
	tz := tokenizer.New(line)
	for {
		tok := tz.Next()
		if tok.Kind == tokenizer.KindEOF {
			return
		}
		switch tok.Kind {
		case tokenizer.KindGrouping:
			switch tok.Text {
			case "(", "{":
				a.depth++
			case ")", "}":
				if a.depth > 0 {
					a.depth--
				}
			}
		case tokenizer.KindError:
			if strings.Contains(tok.Err, "unterminated") {
				a.openQuote = true
			}
		}
	}
}

// Prompt returns the continuation prompt for the current state.
func (a *shellAnalyzer) Prompt() string {
	switch {
	case a.openQuote:
		return "quote> "
	case a.depth > 0:
		return strings.Repeat("  ", a.depth) + "> "
	default:
		return "> "
	}
}

// Reset clears all tracked state, called at the start of every
// continuation.Layer.Request recomputation.
func (a *shellAnalyzer) Reset() {
	a.depth = 0
	a.openQuote = false
}
