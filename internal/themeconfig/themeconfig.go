// Package themeconfig loads the TOML-subset configuration document
// spec §6 references and resolves [theme] colors to lipgloss styles.
//
// Theme roles are foreground-only lipgloss.Style values built from
// color strings in a TOML document, with NFC-normalized key lookup per
// spec §6.
package themeconfig

import (
	"os"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/text/unicode/norm"

	"github.com/lusush/lusush/internal/errs"
)

// Document is a parsed TOML document: section name to key/value pairs.
// Values are whatever BurntSushi/toml decodes them to (string, int64,
// bool, []any, map[string]any), per spec §6's value grammar.
type Document struct {
	sections map[string]map[string]any
}

// Load reads and parses the TOML document at path.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errs.New(errs.InvalidParameter, "read config %s: %v", path, err).At("themeconfig.Load")
	}
	return Parse(string(data))
}

// Parse decodes raw TOML text into a Document.
func Parse(raw string) (*Document, error) {
	var sections map[string]map[string]any
	if _, err := toml.Decode(raw, &sections); err != nil {
		return nil, errs.New(errs.InvalidEncoding, "parse config: %v", err).At("themeconfig.Parse")
	}
	return &Document{sections: sections}, nil
}

// nfc renders key as its NFC-normalized form, per spec §6 ("keys use
// Unicode-normalized equality (NFC) for lookup").
func nfc(key string) string {
	return norm.NFC.String(key)
}

// Get looks up section.key, matching keys by NFC-normalized equality.
func (d *Document) Get(section, key string) (any, bool) {
	sec, ok := d.sections[section]
	if !ok {
		return d.getNormalized(section, key)
	}
	if v, ok := sec[key]; ok {
		return v, true
	}
	return d.getNormalized(section, key)
}

func (d *Document) getNormalized(section, key string) (any, bool) {
	wantSection, wantKey := nfc(section), nfc(key)
	for secName, sec := range d.sections {
		if nfc(secName) != wantSection {
			continue
		}
		for k, v := range sec {
			if nfc(k) == wantKey {
				return v, true
			}
		}
	}
	return nil, false
}

// GetString returns section.key as a string, or "" if absent or of
// another type.
func (d *Document) GetString(section, key string) string {
	v, ok := d.Get(section, key)
	if !ok {
		return ""
	}
	s, _ := v.(string)
	return s
}

// GetBool returns section.key as a bool, or false if absent.
func (d *Document) GetBool(section, key string) bool {
	v, ok := d.Get(section, key)
	if !ok {
		return false
	}
	b, _ := v.(bool)
	return b
}

// GetInt returns section.key as an int64, or 0 if absent.
func (d *Document) GetInt(section, key string) int64 {
	v, ok := d.Get(section, key)
	if !ok {
		return 0
	}
	i, _ := v.(int64)
	return i
}

// GetArray returns section.key as a slice, or nil if absent.
func (d *Document) GetArray(section, key string) []any {
	v, ok := d.Get(section, key)
	if !ok {
		return nil
	}
	a, _ := v.([]any)
	return a
}

// Theme is the set of named style roles a [theme] section configures
// (Base/Muted/Accent/Error/Border), resolved to lipgloss.Style for
// rendering.
type Theme struct {
	Base   lipgloss.Style
	Muted  lipgloss.Style
	Accent lipgloss.Style
	Error  lipgloss.Style
	Border lipgloss.Style
}

// LoadTheme resolves the [theme] section's base/muted/accent/error/border
// keys (each a "#rrggbb" hex string or an ANSI color name lipgloss
// understands) into a Theme.
func (d *Document) LoadTheme() Theme {
	role := func(key string) lipgloss.Style {
		color := d.GetString("theme", key)
		if color == "" {
			return lipgloss.NewStyle()
		}
		return lipgloss.NewStyle().Foreground(lipgloss.Color(color))
	}
	return Theme{
		Base:   role("base"),
		Muted:  role("muted"),
		Accent: role("accent"),
		Error:  role("error"),
		Border: role("border"),
	}
}
