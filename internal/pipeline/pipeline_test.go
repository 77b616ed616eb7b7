package pipeline

import "testing"

func TestIdentityPipelinePassesContentThrough(t *testing.T) {
	p := New()
	ctx := &Context{Buffer: "echo hi"}
	out, err := p.Execute(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if string(out.Content) != "echo hi" {
		t.Fatalf("expected identity passthrough, got %q", out.Content)
	}
	if out.TimestampNs == 0 {
		t.Error("expected a non-zero timestamp stamp")
	}
}

func TestDisabledStageIsSkipped(t *testing.T) {
	p := New()
	called := false
	p.SetStage(StageFormat, func(ctx *Context, out *Output) error {
		called = true
		return nil
	})
	p.SetEnabled(StageFormat, false)

	if _, err := p.Execute(&Context{Buffer: "x"}); err != nil {
		t.Fatal(err)
	}
	if called {
		t.Error("expected a disabled stage's function not to run")
	}
	if p.Stats(StageFormat).Count != 0 {
		t.Error("expected a disabled stage's counter to stay at zero")
	}
}

func TestStageStatsAccumulate(t *testing.T) {
	p := New()
	for i := 0; i < 3; i++ {
		if _, err := p.Execute(&Context{Buffer: "x"}); err != nil {
			t.Fatal(err)
		}
	}
	if got := p.Stats(StagePreprocess).Count; got != 3 {
		t.Fatalf("expected preprocess to have run 3 times, got %d", got)
	}
}

func TestTokenizationDrivenSyntaxColoring(t *testing.T) {
	p := New()
	ctx := &Context{
		Buffer:               "echo hi",
		TerminalCapabilities: Capabilities{SupportsColors: true},
		Tokenize: func(content string) []ColorSpan {
			return []ColorSpan{{Start: 0, End: 4, SGR: "32"}}
		},
	}
	out, err := p.Execute(ctx)
	if err != nil {
		t.Fatal(err)
	}
	want := "\x1b[32mecho\x1b[0m hi"
	if string(out.Content) != want {
		t.Fatalf("expected %q, got %q", want, out.Content)
	}
}

func TestComposeSkipsColorWhenUnsupported(t *testing.T) {
	p := New()
	ctx := &Context{
		Buffer: "echo hi",
		Tokenize: func(content string) []ColorSpan {
			return []ColorSpan{{Start: 0, End: 4, SGR: "32"}}
		},
	}
	out, err := p.Execute(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if string(out.Content) != "echo hi" {
		t.Fatalf("expected no escapes when colors unsupported, got %q", out.Content)
	}
}

func TestFailingStagePropagatesError(t *testing.T) {
	p := New()
	p.SetStage(StageFormat, func(ctx *Context, out *Output) error {
		return errBoom
	})
	if _, err := p.Execute(&Context{Buffer: "x"}); err == nil {
		t.Fatal("expected an error from a failing stage")
	}
}

type boomErr struct{}

func (boomErr) Error() string { return "boom" }

var errBoom error = boomErr{}
