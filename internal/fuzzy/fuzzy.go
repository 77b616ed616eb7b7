// Package fuzzy implements the combined fuzzy-matching contract from
// spec §4.3: Levenshtein distance, Jaro-Winkler similarity, common
// prefix, and ordered subsequence, blended by configurable weights into
// a single 0-100 similarity score.
//
// The exact blend (four named algorithms combined by per-call weights,
// with a perfect-match short-circuit) isn't exposed directly by any
// library dependency, so the core scoring below is hand-rolled against
// the standard library. The fzf-backed quick-filter query language
// (quickfilter.go) sits alongside it as an alternate, coarser path used
// by interactive completion/history filtering.
package fuzzy

import "strings"

// Config controls how the four algorithms are weighted and applied.
// Weights are expressed 0-100 and need not sum to exactly 100 (the
// combined score is the weighted sum divided by 100 and clamped).
type Config struct {
	LevenshteinWeight  float64
	JaroWinklerWeight  float64
	PrefixWeight       float64
	SubsequenceWeight  float64
	CaseSensitive      bool
	MinSimilarityScore int
	CacheSize          int
}

// DefaultConfig is the 40/30/20/10 baseline profile.
func DefaultConfig() Config {
	return Config{LevenshteinWeight: 40, JaroWinklerWeight: 30, PrefixWeight: 20, SubsequenceWeight: 10, CacheSize: 256}
}

// CompletionConfig favors prefix matches for tab-completion ranking.
func CompletionConfig() Config {
	return Config{LevenshteinWeight: 25, JaroWinklerWeight: 25, PrefixWeight: 40, SubsequenceWeight: 10, CacheSize: 256}
}

// HistoryConfig favors Jaro-Winkler similarity for history search.
func HistoryConfig() Config {
	return Config{LevenshteinWeight: 20, JaroWinklerWeight: 50, PrefixWeight: 20, SubsequenceWeight: 10, CacheSize: 256}
}

// AutocorrectConfig mirrors DefaultConfig, per spec §3.
func AutocorrectConfig() Config {
	return DefaultConfig()
}

// Score returns a 0-100 similarity score between a and b under cfg.
// A perfect match (respecting cfg.CaseSensitive) short-circuits to 100
// without running any of the four algorithms. Either input empty (and
// not both, which is itself a perfect match) returns 0. Nil inputs
// return 0.
func Score(a, b []byte, cfg Config) int {
	if a == nil || b == nil {
		return 0
	}
	sa, sb := string(a), string(b)
	if equal(sa, sb, cfg.CaseSensitive) {
		return 100
	}
	if len(sa) == 0 || len(sb) == 0 {
		return 0
	}

	total := float64(LevenshteinScore(sa, sb, cfg.CaseSensitive))*cfg.LevenshteinWeight/100 +
		float64(JaroWinklerScore(sa, sb, cfg.CaseSensitive))*cfg.JaroWinklerWeight/100 +
		float64(CommonPrefixScore(sa, sb, cfg.CaseSensitive))*cfg.PrefixWeight/100 +
		float64(SubsequenceScore(sa, sb))*cfg.SubsequenceWeight/100

	score := int(total)
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	return score
}

// StringScore is the convenience string-typed form of Score.
func StringScore(a, b string, cfg Config) int {
	return Score([]byte(a), []byte(b), cfg)
}

func equal(a, b string, caseSensitive bool) bool {
	if caseSensitive {
		return a == b
	}
	return strings.EqualFold(a, b)
}

func fold(s string, caseSensitive bool) string {
	if caseSensitive {
		return s
	}
	return strings.ToLower(s)
}

// LevenshteinDistance returns the classic edit distance between a and
// b, case-folding both first unless caseSensitive.
func LevenshteinDistance(a, b string, caseSensitive bool) int {
	a, b = fold(a, caseSensitive), fold(b, caseSensitive)
	ra, rb := []rune(a), []rune(b)
	la, lb := len(ra), len(rb)

	prev := make([]int, lb+1)
	curr := make([]int, lb+1)
	for j := 0; j <= lb; j++ {
		prev[j] = j
	}
	for i := 1; i <= la; i++ {
		curr[0] = i
		for j := 1; j <= lb; j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[j] = min3(curr[j-1]+1, prev[j]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[lb]
}

// LevenshteinScore converts LevenshteinDistance into a 0-100 score:
// floor((max_len - distance) * 100 / max_len).
func LevenshteinScore(a, b string, caseSensitive bool) int {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	maxLen := max(len([]rune(a)), len([]rune(b)))
	dist := LevenshteinDistance(a, b, caseSensitive)
	if dist > maxLen {
		dist = maxLen
	}
	return ((maxLen - dist) * 100) / maxLen
}

// JaroWinklerScore returns floor(100*JaroWinkler(a,b)). Two empty
// strings score 100 by Jaro convention; one empty side scores 0.
func JaroWinklerScore(a, b string, caseSensitive bool) int {
	if len(a) == 0 && len(b) == 0 {
		return 100
	}
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	af, bf := fold(a, caseSensitive), fold(b, caseSensitive)
	ra, rb := []rune(af), []rune(bf)
	j := jaro(ra, rb)
	prefix := 0
	for prefix < 4 && prefix < len(ra) && prefix < len(rb) && ra[prefix] == rb[prefix] {
		prefix++
	}
	jw := j + 0.1*float64(prefix)*(1-j)
	return int(jw * 100)
}

func jaro(a, b []rune) float64 {
	la, lb := len(a), len(b)
	if la == 0 || lb == 0 {
		if la == lb {
			return 1
		}
		return 0
	}
	window := max(la, lb)/2 - 1
	if window < 0 {
		window = 0
	}

	aMatched := make([]bool, la)
	bMatched := make([]bool, lb)
	matches := 0
	for i := 0; i < la; i++ {
		lo := max(0, i-window)
		hi := min(lb-1, i+window)
		for j := lo; j <= hi; j++ {
			if bMatched[j] || a[i] != b[j] {
				continue
			}
			aMatched[i] = true
			bMatched[j] = true
			matches++
			break
		}
	}
	if matches == 0 {
		return 0
	}

	transpositions := 0
	k := 0
	for i := 0; i < la; i++ {
		if !aMatched[i] {
			continue
		}
		for !bMatched[k] {
			k++
		}
		if a[i] != b[k] {
			transpositions++
		}
		k++
	}
	t := float64(transpositions) / 2

	m := float64(matches)
	return (m/float64(la) + m/float64(lb) + (m-t)/m) / 3
}

// CommonPrefixScore returns the leading-character match count as a
// 0-100 score relative to the shorter string's length.
func CommonPrefixScore(a, b string, caseSensitive bool) int {
	af, bf := fold(a, caseSensitive), fold(b, caseSensitive)
	ra, rb := []rune(af), []rune(bf)
	n := 0
	for n < len(ra) && n < len(rb) && ra[n] == rb[n] {
		n++
	}
	shorter := min(len(ra), len(rb))
	if shorter == 0 {
		return 0
	}
	return (n * 100) / shorter
}

// SubsequenceScore counts in-order character matches of pattern against
// text and scores matches*100/len(pattern). An empty pattern scores
// 100.
func SubsequenceScore(pattern, text string) int {
	rp := []rune(pattern)
	if len(rp) == 0 {
		return 100
	}
	rt := []rune(text)
	matches := 0
	ti := 0
	for _, pr := range rp {
		for ti < len(rt) {
			if rt[ti] == pr {
				matches++
				ti++
				break
			}
			ti++
		}
	}
	return (matches * 100) / len(rp)
}

func min3(a, b, c int) int { return min(a, min(b, c)) }
