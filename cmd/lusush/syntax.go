package main

import (
	"github.com/lusush/lusush/internal/pipeline"
	"github.com/lusush/lusush/internal/tokenizer"
)

// sgrForKind maps a token kind to the SGR attribute the syntax stage
// paints it with. Kinds with no entry are left uncolored.
var sgrForKind = map[tokenizer.Kind]string{
	tokenizer.KindKeyword:      "1;35", // bold magenta
	tokenizer.KindWord:         "",
	tokenizer.KindNumber:       "36", // cyan
	tokenizer.KindSingleQuoted: "32", // green
	tokenizer.KindDoubleQuoted: "32",
	tokenizer.KindVariable:     "33", // yellow
	tokenizer.KindOperator:     "1;34",
	tokenizer.KindGrouping:     "1;34",
	tokenizer.KindError:        "1;31", // bold red
}

// tokenizeForColor runs the tokenizer over content and returns the color
// spans pipeline.Context.Tokenize expects, installing tokenization-driven
// syntax coloring in place of the syntax stage's baseline identity pass
// (spec §4.7). allowFunctionKeyword gates whether the bareword
// "function" is painted as a keyword: posix mode has no such keyword
// (spec §4.10 FeatureFunctionKeyword), so it falls back to coloring as
// a plain word there.
func tokenizeForColor(content string, allowFunctionKeyword bool) []pipeline.ColorSpan {
	var spans []pipeline.ColorSpan
	tz := tokenizer.New(content)
	tz.EnableKeywords(true)
	for {
		tok := tz.Next()
		if tok.Kind == tokenizer.KindEOF {
			break
		}
		kind := tok.Kind
		if kind == tokenizer.KindKeyword && tok.Text == "function" && !allowFunctionKeyword {
			kind = tokenizer.KindWord
		}
		sgr, ok := sgrForKind[kind]
		if !ok || sgr == "" || tok.Text == "" {
			continue
		}
		spans = append(spans, pipeline.ColorSpan{
			Start: tok.Pos.Offset,
			End:   tok.Pos.Offset + len(tok.Text),
			SGR:   sgr,
		})
	}
	return spans
}
