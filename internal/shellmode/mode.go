// Package shellmode implements the mode and feature matrix from spec
// §4.10: a fixed matrix of shell-compatibility modes to ~45 named
// features, per-feature overrides, and shebang-based mode detection.
//
// The matrix holds one fully-populated feature map per mode: the posix
// map sets every named feature explicitly to false, and each later
// mode (bash, zsh, lusush) starts from the previous mode's map and
// switches its own features on or off.
package shellmode

import (
	"strings"
	"sync"
)

// Mode is a shell-compatibility mode.
type Mode int

const (
	ModePosix Mode = iota
	ModeBash
	ModeZsh
	ModeLusush
)

var modeNames = map[Mode]string{
	ModePosix:  "posix",
	ModeBash:   "bash",
	ModeZsh:    "zsh",
	ModeLusush: "lusush",
}

func (m Mode) String() string {
	if name, ok := modeNames[m]; ok {
		return name
	}
	return "unknown"
}

var modeAliases = map[string]Mode{
	"posix":  ModePosix,
	"sh":     ModePosix,
	"dash":   ModePosix,
	"ash":    ModePosix,
	"bash":   ModeBash,
	"zsh":    ModeZsh,
	"lusush": ModeLusush,
}

// ParseMode resolves a case-insensitive mode name or alias.
func ParseMode(name string) (Mode, bool) {
	m, ok := modeAliases[strings.ToLower(strings.TrimSpace(name))]
	return m, ok
}

// Feature is a canonical feature name. See featureAliases for the
// recognized aliases.
type Feature string

// The ~45 named features spec §4.10 enumerates, grouped by the
// categories it names.
const (
	FeatureArraysIndexed          Feature = "arrays_indexed"
	FeatureArraysAssociative      Feature = "arrays_associative"
	FeatureArraysZeroIndexed      Feature = "arrays_zero_indexed"
	FeatureArraysAppend           Feature = "arrays_append"
	FeatureArithmetic             Feature = "arithmetic"
	FeatureExtendedTest           Feature = "extended_test"
	FeatureRegexMatch             Feature = "regex_match"
	FeaturePatternMatching        Feature = "pattern_matching"
	FeatureProcessSubstitution    Feature = "process_substitution"
	FeatureStderrRedirection      Feature = "stderr_redirection"
	FeatureExtendedParamExpansion Feature = "extended_param_expansion"
	FeatureExtglob                Feature = "extglob"
	FeatureGlobstar               Feature = "globstar"
	FeatureNullglob                Feature = "nullglob"
	FeatureBraceExpansion         Feature = "brace_expansion"
	FeatureAnsiQuoting            Feature = "ansi_quoting"
	FeatureLocaleQuoting          Feature = "locale_quoting"
	FeatureSelectLoop             Feature = "select_loop"
	FeatureFunctionKeyword        Feature = "function_keyword"
	FeatureCStyleFor              Feature = "c_style_for"
	FeatureWordSplitDefault       Feature = "word_split_default"
	FeatureAutoCd                  Feature = "auto_cd"
	FeaturePushdPopd              Feature = "pushd_popd"
	FeatureDirStack               Feature = "dir_stack"
	FeatureIncAppendHistory       Feature = "inc_append_history"
	FeatureHistoryExpansion       Feature = "history_expansion"
	FeatureHistoryTimestamps      Feature = "history_timestamps"
	FeatureNameReferences         Feature = "name_references"
	FeatureAnonymousFunctions     Feature = "anonymous_functions"
	FeatureGlobQualifiers         Feature = "glob_qualifiers"
	FeatureHookFunctions          Feature = "hook_functions"
	FeatureZshParamFlags          Feature = "zsh_param_flags"
	FeaturePluginSystem           Feature = "plugin_system"
	FeatureCheckjobs              Feature = "checkjobs"
	FeatureJobControl             Feature = "job_control"
	FeatureCommandNotFoundHandler Feature = "command_not_found_handler"
	FeatureAliasExpansion         Feature = "alias_expansion"
	FeatureCoprocesses            Feature = "coprocesses"
	FeatureLocalVariables         Feature = "local_variables"
	FeatureDeclareBuiltin         Feature = "declare_builtin"
	FeatureExtendedGlobNegation   Feature = "extended_glob_negation"
	FeatureCaseFallthrough        Feature = "case_fallthrough"
	FeatureHereStrings            Feature = "here_strings"
	FeatureNegativeArrayIndex     Feature = "negative_array_index"
	FeatureSpellCorrect           Feature = "spell_correct"
	FeaturePromptSubstitution     Feature = "prompt_substitution"
	FeatureAutoload               Feature = "autoload"
)

// allFeatures enumerates every known feature, in declaration order.
var allFeatures = []Feature{
	FeatureArraysIndexed, FeatureArraysAssociative, FeatureArraysZeroIndexed, FeatureArraysAppend,
	FeatureArithmetic, FeatureExtendedTest, FeatureRegexMatch, FeaturePatternMatching,
	FeatureProcessSubstitution, FeatureStderrRedirection, FeatureExtendedParamExpansion,
	FeatureExtglob, FeatureGlobstar, FeatureNullglob, FeatureBraceExpansion,
	FeatureAnsiQuoting, FeatureLocaleQuoting, FeatureSelectLoop, FeatureFunctionKeyword,
	FeatureCStyleFor, FeatureWordSplitDefault, FeatureAutoCd, FeaturePushdPopd, FeatureDirStack,
	FeatureIncAppendHistory, FeatureHistoryExpansion, FeatureHistoryTimestamps,
	FeatureNameReferences, FeatureAnonymousFunctions, FeatureGlobQualifiers, FeatureHookFunctions,
	FeatureZshParamFlags, FeaturePluginSystem, FeatureCheckjobs, FeatureJobControl,
	FeatureCommandNotFoundHandler, FeatureAliasExpansion, FeatureCoprocesses,
	FeatureLocalVariables, FeatureDeclareBuiltin, FeatureExtendedGlobNegation,
	FeatureCaseFallthrough, FeatureHereStrings, FeatureNegativeArrayIndex,
	FeatureSpellCorrect, FeaturePromptSubstitution, FeatureAutoload,
}

var featureAliases = map[string]Feature{
	"arrays":         FeatureArraysIndexed,
	"assoc_arrays":   FeatureArraysAssociative,
	"globstar":       FeatureGlobstar,
	"extglob":        FeatureExtglob,
	"nullglob":       FeatureNullglob,
	"null_glob":      FeatureNullglob,
	"braces":         FeatureBraceExpansion,
	"histappend":     FeatureIncAppendHistory,
	"autocd":         FeatureAutoCd,
	"pushd":          FeaturePushdPopd,
	"nameref":        FeatureNameReferences,
	"plugins":        FeaturePluginSystem,
}

// ParseFeature resolves a case-insensitive feature name or alias.
func ParseFeature(name string) (Feature, bool) {
	key := strings.ToLower(strings.TrimSpace(name))
	if f, ok := featureAliases[key]; ok {
		return f, true
	}
	f := Feature(key)
	for _, known := range allFeatures {
		if known == f {
			return f, true
		}
	}
	return "", false
}

func posixDefaults() map[Feature]bool {
	m := map[Feature]bool{}
	for _, f := range allFeatures {
		m[f] = false
	}
	m[FeatureHereStrings] = false
	return m
}

func bashDefaults() map[Feature]bool {
	m := posixDefaults()
	m[FeatureArraysIndexed] = true
	m[FeatureArraysAppend] = true
	m[FeatureArithmetic] = true
	m[FeatureExtendedTest] = true
	m[FeatureExtglob] = true
	m[FeatureBraceExpansion] = true
	m[FeatureAnsiQuoting] = true
	m[FeatureProcessSubstitution] = true
	m[FeatureStderrRedirection] = true
	m[FeatureExtendedParamExpansion] = true
	m[FeatureCStyleFor] = true
	m[FeaturePushdPopd] = true
	m[FeatureDirStack] = true
	m[FeatureIncAppendHistory] = true
	m[FeatureHistoryExpansion] = true
	m[FeatureNameReferences] = true
	m[FeatureCheckjobs] = true
	m[FeatureJobControl] = true
	m[FeatureCommandNotFoundHandler] = true
	m[FeatureAliasExpansion] = true
	m[FeatureCoprocesses] = true
	m[FeatureLocalVariables] = true
	m[FeatureDeclareBuiltin] = true
	m[FeatureCaseFallthrough] = true
	m[FeatureHereStrings] = true
	return m
}

func zshDefaults() map[Feature]bool {
	m := bashDefaults()
	m[FeatureArraysAssociative] = true
	m[FeatureRegexMatch] = true
	m[FeaturePatternMatching] = true
	m[FeatureSelectLoop] = true
	m[FeatureFunctionKeyword] = true
	m[FeatureAutoCd] = true
	m[FeatureAnonymousFunctions] = true
	m[FeatureGlobQualifiers] = true
	m[FeatureHookFunctions] = true
	m[FeatureZshParamFlags] = true
	m[FeatureExtendedGlobNegation] = true
	m[FeatureNegativeArrayIndex] = true
	m[FeatureSpellCorrect] = true
	m[FeaturePromptSubstitution] = true
	m[FeatureAutoload] = true
	return m
}

// lusushDefaults cherry-picks curated defaults, per spec §4.10: e.g.
// zero-indexed arrays, globstar on, null-glob on, word-split off,
// inc_append_history on, checkjobs on, plugin_system on.
func lusushDefaults() map[Feature]bool {
	m := zshDefaults()
	m[FeatureArraysZeroIndexed] = true
	m[FeatureGlobstar] = true
	m[FeatureNullglob] = true
	m[FeatureWordSplitDefault] = false
	m[FeatureIncAppendHistory] = true
	m[FeatureCheckjobs] = true
	m[FeaturePluginSystem] = true
	m[FeatureLocaleQuoting] = true
	return m
}

var matrix = map[Mode]map[Feature]bool{
	ModePosix:  posixDefaults(),
	ModeBash:   bashDefaults(),
	ModeZsh:    zshDefaults(),
	ModeLusush: lusushDefaults(),
}

// Registry is the runtime mode/feature matrix, with per-feature
// overrides layered on top of the matrix.
type Registry struct {
	mu        sync.Mutex
	mode      Mode
	strict    bool
	overrides map[Feature]bool
}

// New creates a registry starting in mode.
func New(mode Mode) *Registry {
	return &Registry{mode: mode, overrides: make(map[Feature]bool)}
}

// Get returns the current mode.
func (r *Registry) Get() Mode {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.mode
}

// Is reports whether the current mode equals m.
func (r *Registry) Is(m Mode) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.mode == m
}

// SetStrict toggles whether Set is rejected. It applies in any mode;
// while strict is on every Set is refused, and SetStrict(false)
// allows mode changes again.
func (r *Registry) SetStrict(strict bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.strict = strict
}

// Set changes the active mode, rejected when the registry is in
// strict mode.
func (r *Registry) Set(m Mode) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.strict {
		return false
	}
	r.mode = m
	return true
}

// Allows returns the override if set, else the matrix value for the
// current mode.
func (r *Registry) Allows(f Feature) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if v, ok := r.overrides[f]; ok {
		return v
	}
	return matrix[r.mode][f]
}

// Enable overrides f to true.
func (r *Registry) Enable(f Feature) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.overrides[f] = true
}

// Disable overrides f to false.
func (r *Registry) Disable(f Feature) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.overrides[f] = false
}

// Reset removes f's override, falling back to the matrix default.
func (r *Registry) Reset(f Feature) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.overrides, f)
}

// ResetAll removes every override, restoring full matrix defaults.
func (r *Registry) ResetAll() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.overrides = make(map[Feature]bool)
}

// IsOverridden reports whether f currently has an explicit override.
func (r *Registry) IsOverridden(f Feature) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.overrides[f]
	return ok
}

// shebangInterpreters maps a shebang interpreter basename to the mode
// it selects, per spec §6.
var shebangInterpreters = map[string]Mode{
	"bash":   ModeBash,
	"zsh":    ModeZsh,
	"sh":     ModePosix,
	"dash":   ModePosix,
	"ash":    ModePosix,
	"lusush": ModeLusush,
}

// DetectShebang parses a shebang line's interpreter (handling an
// /usr/bin/env wrapper) and resolves the mode it selects. Returns
// false if the interpreter isn't recognized.
func DetectShebang(line string) (Mode, bool) {
	if !strings.HasPrefix(line, "#!") {
		return 0, false
	}
	rest := strings.TrimSpace(line[2:])
	fields := strings.Fields(rest)
	if len(fields) == 0 {
		return 0, false
	}

	path := fields[0]
	base := path[strings.LastIndex(path, "/")+1:]
	if base == "env" && len(fields) > 1 {
		envPath := fields[1]
		base = envPath[strings.LastIndex(envPath, "/")+1:]
	}

	m, ok := shebangInterpreters[base]
	return m, ok
}
