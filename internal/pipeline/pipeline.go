// Package pipeline implements the four-stage render pipeline from spec
// §4.7: preprocess, syntax, format, compose. A fixed sequence of named
// steps runs in order over a shared buffer, as four independently
// gated, individually timed stages sharing one Context.
package pipeline

import (
	"sync"
	"time"

	"github.com/lusush/lusush/internal/errs"
)

// Stage identifies one of the four fixed pipeline steps.
type Stage int

const (
	StagePreprocess Stage = iota
	StageSyntax
	StageFormat
	StageCompose
	numStages
)

func (s Stage) String() string {
	switch s {
	case StagePreprocess:
		return "preprocess"
	case StageSyntax:
		return "syntax"
	case StageFormat:
		return "format"
	case StageCompose:
		return "compose"
	default:
		return "unknown"
	}
}

// ColorSpan maps a byte offset range to an SGR attribute string; the
// syntax stage produces a Context.ColorTable of them.
type ColorSpan struct {
	Start, End int
	SGR        string
}

// FormatSpan is a byte-range to text-attribute annotation
// (bold/italic/underline), one entry of Context.FormatAttrs.
type FormatSpan struct {
	Start, End int
	Bold       bool
	Italic     bool
	Underline  bool
}

// Context is the render context threaded through every stage, per
// spec §3.
type Context struct {
	Buffer               string
	CursorByteOffset     int
	ColorTable           []ColorSpan
	FormatAttrs          []FormatSpan
	TerminalCapabilities Capabilities

	// Tokenize, when non-nil, lets the syntax stage replace the
	// baseline identity pass with tokenization-driven coloring (spec
	// §4.7: "implementations MAY apply tokenization-driven coloring").
	Tokenize func(content string) []ColorSpan
}

// Capabilities is the subset of terminal features the compose stage
// consults (full definition lives in package terminal; this one field
// is duplicated here so pipeline does not import package terminal).
type Capabilities struct {
	SupportsColors bool
}

// Output is what the pipeline produces, per spec §3.
type Output struct {
	Content     []byte
	Length      int
	TimestampNs int64
}

// StageFunc transforms ctx, appending to or replacing out.
type StageFunc func(ctx *Context, out *Output) error

// StageStats tracks one stage's execution count and cumulative time.
type StageStats struct {
	Count         uint64
	TotalTimeNs   int64
}

// Pipeline runs the four stages in order under a mutex (spec §5: "the
// pipeline holds a mutex during execution; stages run sequentially").
type Pipeline struct {
	mu      sync.Mutex
	enabled [numStages]bool
	fns     [numStages]StageFunc
	stats   [numStages]StageStats
}

// New builds a pipeline with the baseline identity stages, all
// enabled.
func New() *Pipeline {
	p := &Pipeline{}
	p.fns[StagePreprocess] = preprocessIdentity
	p.fns[StageSyntax] = syntaxIdentity
	p.fns[StageFormat] = formatIdentity
	p.fns[StageCompose] = composeFinal
	for i := range p.enabled {
		p.enabled[i] = true
	}
	return p
}

// SetEnabled toggles whether s runs during Execute.
func (p *Pipeline) SetEnabled(s Stage, on bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.enabled[s] = on
}

// SetStage overrides s's transform function, e.g. to install
// tokenization-driven syntax coloring in place of the identity pass.
func (p *Pipeline) SetStage(s Stage, fn StageFunc) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.fns[s] = fn
}

// Stats returns a snapshot of stage execution counters.
func (p *Pipeline) Stats(s Stage) StageStats {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.stats[s]
}

// Execute runs every enabled stage in order over ctx and returns the
// final Output.
func (p *Pipeline) Execute(ctx *Context) (Output, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	out := Output{Content: []byte(ctx.Buffer), Length: len(ctx.Buffer)}
	for s := Stage(0); s < numStages; s++ {
		if !p.enabled[s] {
			continue
		}
		fn := p.fns[s]
		if fn == nil {
			continue
		}
		start := time.Now()
		err := fn(ctx, &out)
		elapsed := time.Since(start)
		p.stats[s].Count++
		p.stats[s].TotalTimeNs += elapsed.Nanoseconds()
		if err != nil {
			return Output{}, errs.New(errs.InvalidState, "pipeline stage %s failed: %v", s, err).At("pipeline.Execute")
		}
	}
	out.TimestampNs = time.Now().UnixNano()
	return out, nil
}

func preprocessIdentity(ctx *Context, out *Output) error {
	out.Content = []byte(ctx.Buffer)
	out.Length = len(out.Content)
	return nil
}

func syntaxIdentity(ctx *Context, out *Output) error {
	if ctx.Tokenize != nil {
		ctx.ColorTable = ctx.Tokenize(ctx.Buffer)
	}
	return nil
}

func formatIdentity(ctx *Context, out *Output) error {
	return nil
}

// composeFinal applies color spans as SGR escapes (when the terminal
// supports color); Execute stamps the output timestamp after the last
// enabled stage, whether or not compose runs. It is the only
// stage that is not a pure identity pass in the baseline, since spec
// §4.7 names it as adding "terminal-specific final escapes".
func composeFinal(ctx *Context, out *Output) error {
	if !ctx.TerminalCapabilities.SupportsColors || len(ctx.ColorTable) == 0 {
		return nil
	}
	content := string(out.Content)
	var b []byte
	last := 0
	for _, span := range ctx.ColorTable {
		if span.Start < last || span.End > len(content) || span.Start > span.End {
			continue
		}
		b = append(b, content[last:span.Start]...)
		b = append(b, "\x1b["+span.SGR+"m"...)
		b = append(b, content[span.Start:span.End]...)
		b = append(b, "\x1b[0m"...)
		last = span.End
	}
	b = append(b, content[last:]...)
	out.Content = b
	out.Length = len(b)
	return nil
}
