package fuzzy

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/junegunn/fzf/src/algo"
	"github.com/junegunn/fzf/src/util"
)

// QuickFilter is an fzf-syntax query compiled once and scored against
// many candidates: completion popups and the history search layer use
// it ahead of (or instead of) the weighted Score contract above when
// they want fzf's own match ranking and highlighting semantics. It
// wires github.com/junegunn/fzf's algo package directly, restructured
// around a single parser type instead of free functions, and renamed
// to avoid confusion with the Score/Config contract above.
//
// query syntax:
//   foo      fuzzy subsequence match
//   'foo     exact substring match
//   ^foo     prefix match
//   foo$     suffix match
//   !foo     negated fuzzy match (also applies to 'foo, ^foo, foo$)
//   a b      AND — all space-separated terms must match
//   a | b    OR  — at least one pipe-separated clause must match
type QuickFilter struct {
	clauses []filterClause
}

type filterClause struct {
	terms []filterTerm
}

type matchKind int

const (
	matchFuzzy matchKind = iota
	matchExact
	matchPrefix
	matchSuffix
)

type filterTerm struct {
	runes         []rune
	kind          matchKind
	negated       bool
	caseSensitive bool
}

var quickFilterSlab = util.MakeSlab(100*1024, 2048)

func init() {
	algo.Init("default")
}

// ParseQuickFilter compiles a raw fzf-syntax query string for reuse
// across many Match calls.
func ParseQuickFilter(raw string) QuickFilter {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return QuickFilter{}
	}
	var qf QuickFilter
	for _, clauseText := range strings.Split(raw, " | ") {
		clauseText = strings.TrimSpace(clauseText)
		if clauseText == "" {
			continue
		}
		clause := parseClause(clauseText)
		if len(clause.terms) > 0 {
			qf.clauses = append(qf.clauses, clause)
		}
	}
	return qf
}

// Empty reports whether the filter has no parsed terms, i.e. it matches
// everything.
func (qf *QuickFilter) Empty() bool { return len(qf.clauses) == 0 }

func parseClause(text string) filterClause {
	var c filterClause
	for _, tok := range strings.Fields(text) {
		c.terms = append(c.terms, parseFilterTerm(tok))
	}
	return c
}

func parseFilterTerm(tok string) filterTerm {
	t := filterTerm{kind: matchFuzzy}

	if len(tok) > 1 && tok[0] == '!' {
		t.negated = true
		tok = tok[1:]
	}

	switch {
	case len(tok) > 1 && tok[0] == '\'':
		t.kind = matchExact
		tok = tok[1:]
	case len(tok) > 1 && tok[0] == '^':
		t.kind = matchPrefix
		tok = tok[1:]
	case len(tok) > 1 && tok[len(tok)-1] == '$':
		t.kind = matchSuffix
		tok = tok[:len(tok)-1]
	}

	t.caseSensitive = containsUpper(tok)
	if !t.caseSensitive {
		tok = strings.ToLower(tok)
	}
	t.runes = []rune(tok)
	return t
}

func containsUpper(s string) bool {
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		if unicode.IsUpper(r) {
			return true
		}
		i += size
	}
	return false
}

// Match scores candidate against the compiled filter. ok is false when
// the filter has terms but none of its OR-clauses match; an empty
// filter matches everything with score 0.
func (qf *QuickFilter) Match(candidate string) (score int, ok bool) {
	if len(qf.clauses) == 0 {
		return 0, true
	}
	best := -1
	matched := false
	for i := range qf.clauses {
		s, clauseOK := qf.clauses[i].match(candidate)
		if clauseOK && s > best {
			matched = true
			best = s
		}
	}
	if !matched {
		return 0, false
	}
	return best, true
}

func (c *filterClause) match(candidate string) (int, bool) {
	total := 0
	for i := range c.terms {
		s, ok := c.terms[i].match(candidate)
		if !ok {
			return 0, false
		}
		total += s
	}
	return total, true
}

func (t *filterTerm) match(candidate string) (int, bool) {
	chars := util.ToChars([]byte(candidate))

	var run func(bool, bool, bool, *util.Chars, []rune, bool, *util.Slab) (algo.Result, *[]int)
	switch t.kind {
	case matchExact:
		run = algo.ExactMatchNaive
	case matchPrefix:
		run = algo.PrefixMatch
	case matchSuffix:
		run = algo.SuffixMatch
	default:
		run = algo.FuzzyMatchV2
	}

	result, _ := run(t.caseSensitive, false, true, &chars, t.runes, false, quickFilterSlab)
	matched := result.Start >= 0

	if t.negated {
		return 0, !matched
	}
	if !matched {
		return 0, false
	}
	return result.Score, true
}
