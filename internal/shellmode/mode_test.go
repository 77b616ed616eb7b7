package shellmode

import "testing"

// TestModeFeatureScenario mirrors spec §8 scenario S5.
func TestModeFeatureScenario(t *testing.T) {
	r := New(ModeLusush)
	if !r.Allows(FeatureGlobstar) {
		t.Fatal("expected lusush mode to enable globstar by default")
	}

	r.Set(ModePosix)
	if r.Allows(FeatureGlobstar) {
		t.Fatal("expected posix mode to disable globstar by default")
	}

	r.Enable(FeatureGlobstar)
	if !r.Allows(FeatureGlobstar) {
		t.Fatal("expected the override to enable globstar")
	}
	if !r.IsOverridden(FeatureGlobstar) {
		t.Fatal("expected globstar to report as overridden")
	}

	r.Reset(FeatureGlobstar)
	if r.Allows(FeatureGlobstar) {
		t.Fatal("expected resetting the override to fall back to posix's default (off)")
	}
}

func TestResetAllRestoresMatrixDefaults(t *testing.T) {
	r := New(ModeLusush)
	r.Disable(FeatureGlobstar)
	r.Enable(FeatureArraysAssociative)
	if r.Allows(FeatureGlobstar) {
		t.Fatal("expected the override to have taken effect")
	}

	r.ResetAll()
	if !r.Allows(FeatureGlobstar) {
		t.Fatal("expected ResetAll to restore lusush's matrix default for globstar")
	}
}

func TestStrictModeRejectsSet(t *testing.T) {
	r := New(ModePosix)
	r.SetStrict(true)
	if ok := r.Set(ModeBash); ok {
		t.Fatal("expected Set to be rejected while strict")
	}
	if !r.Is(ModePosix) {
		t.Fatal("expected the mode to remain unchanged after a rejected Set")
	}
}

// TestShebangDetection mirrors spec §8 scenario S8.
func TestShebangDetection(t *testing.T) {
	cases := []struct {
		line   string
		want   Mode
		wantOK bool
	}{
		{"#!/usr/bin/env bash", ModeBash, true},
		{"#!/bin/dash -eu", ModePosix, true},
		{"#!/usr/bin/lusush", ModeLusush, true},
		{"#!/usr/bin/python3", 0, false},
	}
	for _, c := range cases {
		got, ok := DetectShebang(c.line)
		if ok != c.wantOK {
			t.Errorf("DetectShebang(%q) ok = %v, want %v", c.line, ok, c.wantOK)
			continue
		}
		if ok && got != c.want {
			t.Errorf("DetectShebang(%q) = %v, want %v", c.line, got, c.want)
		}
	}
}

func TestFeatureAliasesAndCaseInsensitivity(t *testing.T) {
	f, ok := ParseFeature("GLOBSTAR")
	if !ok || f != FeatureGlobstar {
		t.Fatalf("expected case-insensitive parse to resolve globstar, got %v %v", f, ok)
	}
	f, ok = ParseFeature("null_glob")
	if !ok || f != FeatureNullglob {
		t.Fatalf("expected alias null_glob to resolve to nullglob, got %v %v", f, ok)
	}
}

func TestParseModeAliases(t *testing.T) {
	if m, ok := ParseMode("SH"); !ok || m != ModePosix {
		t.Fatalf("expected sh alias to resolve to posix, got %v %v", m, ok)
	}
}
