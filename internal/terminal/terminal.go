// Package terminal implements the terminal adapter from spec §4.9:
// terminal-class detection, window-size inquiry, and a static
// capability matrix.
//
// WindowSize calls unix.IoctlGetWinsize(fd, unix.TIOCGWINSZ);
// golang.org/x/term supplies the fallback path when a raw fd ioctl
// isn't available (e.g. under a pty wrapper that only exposes an
// *os.File).
package terminal

import (
	"os"
	"strings"

	"golang.org/x/sys/unix"
	"golang.org/x/term"
)

// Class identifies a terminal emulator family.
type Class int

const (
	ClassUnknown Class = iota
	ClassTmux
	ClassScreen
	ClassKitty
	ClassITerm2
	ClassGnomeTerminal
	ClassAlacritty
	ClassXterm256
	ClassLinuxConsole
)

func (c Class) String() string {
	switch c {
	case ClassTmux:
		return "tmux"
	case ClassScreen:
		return "screen"
	case ClassKitty:
		return "kitty"
	case ClassITerm2:
		return "iterm2"
	case ClassGnomeTerminal:
		return "gnome-terminal"
	case ClassAlacritty:
		return "alacritty"
	case ClassXterm256:
		return "xterm-256color"
	case ClassLinuxConsole:
		return "linux-console"
	default:
		return "unknown"
	}
}

// Feature names the ten capability-matrix columns spec §3 defines.
type Feature int

const (
	FeatureColors256 Feature = iota
	FeatureTrueColor
	FeatureMouseReporting
	FeatureBracketedPaste
	FeatureFocusReporting
	FeatureAltScreen
	FeatureTitleSetting
	FeatureUnicodeWide
	FeatureSyncOutput
	FeatureHyperlinks
	numFeatures
)

// Capabilities is one row of the static matrix.
type Capabilities [numFeatures]bool

func (c Capabilities) SupportsColors() bool { return c[FeatureColors256] || c[FeatureTrueColor] }

// Env is the subset of the process environment the detector consults
// (spec §6). Tests construct one directly instead of mutating
// os.Environ.
type Env struct {
	Term          string
	TermProgram   string
	Tmux          string
	KittyWindowID string
	ColorTerm     string
}

// EnvFromProcess reads Env from the real process environment.
func EnvFromProcess() Env {
	return Env{
		Term:          os.Getenv("TERM"),
		TermProgram:   os.Getenv("TERM_PROGRAM"),
		Tmux:          os.Getenv("TMUX"),
		KittyWindowID: os.Getenv("KITTY_WINDOW_ID"),
		ColorTerm:     os.Getenv("COLORTERM"),
	}
}

// Detect resolves a terminal Class from env, in the precedence order
// spec §4.9 fixes: multiplexer (tmux), screen, kitty, iTerm2, GNOME
// terminal, Alacritty, xterm/256-color, Linux console, else unknown.
func Detect(env Env) Class {
	switch {
	case env.Tmux != "":
		return ClassTmux
	case strings.Contains(env.Term, "screen"):
		return ClassScreen
	case env.KittyWindowID != "" || strings.Contains(env.Term, "kitty"):
		return ClassKitty
	case strings.Contains(env.TermProgram, "iTerm"):
		return ClassITerm2
	case env.TermProgram == "gnome-terminal" || strings.Contains(env.Term, "gnome"):
		return ClassGnomeTerminal
	case strings.Contains(env.TermProgram, "Alacritty") || strings.Contains(env.Term, "alacritty"):
		return ClassAlacritty
	case strings.Contains(env.Term, "xterm") || strings.Contains(env.Term, "256color"):
		return ClassXterm256
	case env.Term == "linux":
		return ClassLinuxConsole
	default:
		return ClassUnknown
	}
}

// matrix is the static per-class capability table, populated with a
// conservative baseline and widened for classes known to support more.
var matrix = func() map[Class]Capabilities {
	m := map[Class]Capabilities{}
	base := Capabilities{}
	base[FeatureUnicodeWide] = true

	full := base
	full[FeatureColors256] = true
	full[FeatureTrueColor] = true
	full[FeatureMouseReporting] = true
	full[FeatureBracketedPaste] = true
	full[FeatureFocusReporting] = true
	full[FeatureAltScreen] = true
	full[FeatureTitleSetting] = true
	full[FeatureSyncOutput] = true
	full[FeatureHyperlinks] = true

	m[ClassKitty] = full
	m[ClassITerm2] = full
	m[ClassAlacritty] = full

	gnome := full
	gnome[FeatureSyncOutput] = false
	m[ClassGnomeTerminal] = gnome

	xterm := base
	xterm[FeatureColors256] = true
	xterm[FeatureMouseReporting] = true
	xterm[FeatureAltScreen] = true
	xterm[FeatureTitleSetting] = true
	m[ClassXterm256] = xterm

	tmux := xterm
	tmux[FeatureFocusReporting] = true
	m[ClassTmux] = tmux

	screen := base
	screen[FeatureColors256] = true
	screen[FeatureAltScreen] = true
	m[ClassScreen] = screen

	console := base
	console[FeatureColors256] = false
	console[FeatureUnicodeWide] = false
	m[ClassLinuxConsole] = console

	m[ClassUnknown] = base
	return m
}()

// CapabilitiesFor returns class's row of the static matrix.
func CapabilitiesFor(c Class) Capabilities {
	if caps, ok := matrix[c]; ok {
		return caps
	}
	return matrix[ClassUnknown]
}

// featureNames maps each Feature to the string supports(feature_name)
// resolves.
var featureNames = map[string]Feature{
	"colors256":        FeatureColors256,
	"truecolor":        FeatureTrueColor,
	"mouse_reporting":  FeatureMouseReporting,
	"bracketed_paste":  FeatureBracketedPaste,
	"focus_reporting":  FeatureFocusReporting,
	"alt_screen":       FeatureAltScreen,
	"title_setting":    FeatureTitleSetting,
	"unicode_wide":     FeatureUnicodeWide,
	"sync_output":      FeatureSyncOutput,
	"hyperlinks":       FeatureHyperlinks,
}

// Supports resolves featureName to the matrix column and returns c's
// row value, or false if the name is unrecognized.
func Supports(c Class, featureName string) bool {
	f, ok := featureNames[featureName]
	if !ok {
		return false
	}
	return CapabilitiesFor(c)[f]
}

// Size is a terminal's dimensions in character cells.
type Size struct {
	Width  int
	Height int
}

const fallbackWidth, fallbackHeight = 80, 24

// WindowSize queries fd's dimensions via an ioctl, falling back to
// golang.org/x/term and finally to 80x24 if both fail.
func WindowSize(fd int) Size {
	if ws, err := unix.IoctlGetWinsize(fd, unix.TIOCGWINSZ); err == nil {
		return Size{Width: int(ws.Col), Height: int(ws.Row)}
	}
	if w, h, err := term.GetSize(fd); err == nil {
		return Size{Width: w, Height: h}
	}
	return Size{Width: fallbackWidth, Height: fallbackHeight}
}

// ColorTermIsTrueColor reports whether COLORTERM advertises 24-bit
// color support.
func ColorTermIsTrueColor(colorTerm string) bool {
	return colorTerm == "truecolor" || colorTerm == "24bit"
}
