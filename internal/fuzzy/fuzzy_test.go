package fuzzy

import "testing"

func TestScorePerfectMatch(t *testing.T) {
	cfg := DefaultConfig()
	if got := StringScore("git", "git", cfg); got != 100 {
		t.Fatalf("expected 100 for identical strings, got %d", got)
	}
}

func TestScoreEmptyInputs(t *testing.T) {
	cfg := DefaultConfig()
	if got := StringScore("", "git", cfg); got != 0 {
		t.Fatalf("expected 0 for one empty input, got %d", got)
	}
	if got := Score(nil, []byte("git"), cfg); got != 0 {
		t.Fatalf("expected 0 for nil input, got %d", got)
	}
}

func TestScoreBothEmptyIsPerfectMatch(t *testing.T) {
	cfg := DefaultConfig()
	if got := StringScore("", "", cfg); got != 100 {
		t.Fatalf("expected 100 for two empty strings (perfect match), got %d", got)
	}
}

func TestCompletionRanking(t *testing.T) {
	// S4: ("gi", ["git", "gitlab", "bitbucket"]) with completion preset.
	cfg := CompletionConfig()
	sGit := StringScore("gi", "git", cfg)
	sGitlab := StringScore("gi", "gitlab", cfg)
	sBitbucket := StringScore("gi", "bitbucket", cfg)

	if !(sGit >= sGitlab) {
		t.Errorf("expected git >= gitlab, got %d < %d", sGit, sGitlab)
	}
	if !(sGitlab > sBitbucket) {
		t.Errorf("expected gitlab > bitbucket, got %d <= %d", sGitlab, sBitbucket)
	}
	if sGit <= 0 || sGitlab <= 0 || sBitbucket <= 0 {
		t.Errorf("expected all scores strictly positive, got %d %d %d", sGit, sGitlab, sBitbucket)
	}
	if sBitbucket >= 70 {
		t.Errorf("expected bitbucket score well under 70, got %d", sBitbucket)
	}
}

func TestLevenshteinScore(t *testing.T) {
	if got := LevenshteinScore("kitten", "sitting", false); got <= 0 {
		t.Fatalf("expected positive score, got %d", got)
	}
	if got := LevenshteinDistance("kitten", "sitting", false); got != 3 {
		t.Fatalf("expected classic distance 3, got %d", got)
	}
}

func TestJaroWinklerCaseInsensitive(t *testing.T) {
	score := JaroWinklerScore("MARTHA", "marhta", false)
	if score < 90 {
		t.Fatalf("expected high Jaro-Winkler score for classic example, got %d", score)
	}
}

func TestSubsequenceScore(t *testing.T) {
	if got := SubsequenceScore("", "anything"); got != 100 {
		t.Fatalf("expected 100 for empty pattern, got %d", got)
	}
	if got := SubsequenceScore("ace", "abcde"); got != 100 {
		t.Fatalf("expected full subsequence match, got %d", got)
	}
	if got := SubsequenceScore("xyz", "abcde"); got != 0 {
		t.Fatalf("expected 0 for disjoint characters, got %d", got)
	}
}

func TestQuickFilterOperators(t *testing.T) {
	qf := ParseQuickFilter("^git")
	if _, ok := qf.Match("gitlab"); !ok {
		t.Error("expected prefix match on gitlab")
	}
	if _, ok := qf.Match("bitbucket"); ok {
		t.Error("expected no prefix match on bitbucket")
	}

	neg := ParseQuickFilter("!bucket")
	if _, ok := neg.Match("gitlab"); !ok {
		t.Error("expected negated term to match a candidate without 'bucket'")
	}
	if _, ok := neg.Match("bitbucket"); ok {
		t.Error("expected negated term to reject a candidate containing 'bucket'")
	}
}
