package themeconfig

import "testing"

const sampleTOML = `
[theme]
base = "#ffffff"
accent = "#00ff00"

[config]
word_split_default = false
history_size = 2000
aliases = ["ll", "la"]
`

func TestParseAndGetString(t *testing.T) {
	doc, err := Parse(sampleTOML)
	if err != nil {
		t.Fatal(err)
	}
	if got := doc.GetString("theme", "base"); got != "#ffffff" {
		t.Fatalf("expected #ffffff, got %q", got)
	}
}

func TestGetBoolAndInt(t *testing.T) {
	doc, err := Parse(sampleTOML)
	if err != nil {
		t.Fatal(err)
	}
	if doc.GetBool("config", "word_split_default") {
		t.Fatal("expected word_split_default to be false")
	}
	if got := doc.GetInt("config", "history_size"); got != 2000 {
		t.Fatalf("expected 2000, got %d", got)
	}
}

func TestGetArray(t *testing.T) {
	doc, err := Parse(sampleTOML)
	if err != nil {
		t.Fatal(err)
	}
	arr := doc.GetArray("config", "aliases")
	if len(arr) != 2 || arr[0] != "ll" || arr[1] != "la" {
		t.Fatalf("expected [ll la], got %v", arr)
	}
}

// TestNFCNormalizedKeyLookup stores a key using the precomposed (NFC)
// form of e-acute (é) and looks it up using the decomposed (NFD)
// form ('e' plus ́, a combining acute accent); spec §6 requires
// key lookup to treat these as equal.
func TestNFCNormalizedKeyLookup(t *testing.T) {
	precomposed := "caf" + "é"      // NFC: c a f e-acute (one codepoint)
	decomposed := "caf" + "e" + "́" // NFD: c a f e + combining acute accent
	doc, err := Parse("[theme]\n\"" + precomposed + "\" = \"#112233\"\n")
	if err != nil {
		t.Fatal(err)
	}
	if got := doc.GetString("theme", decomposed); got != "#112233" {
		t.Fatalf("expected NFC-normalized lookup to find the precomposed key, got %q", got)
	}
}

func TestGetMissingKeyReturnsZeroValue(t *testing.T) {
	doc, err := Parse(sampleTOML)
	if err != nil {
		t.Fatal(err)
	}
	if got := doc.GetString("theme", "does_not_exist"); got != "" {
		t.Fatalf("expected empty string for missing key, got %q", got)
	}
}

func TestLoadThemeResolvesColors(t *testing.T) {
	doc, err := Parse(sampleTOML)
	if err != nil {
		t.Fatal(err)
	}
	theme := doc.LoadTheme()
	if theme.Base.GetForeground() != "#ffffff" {
		t.Fatalf("expected base foreground #ffffff, got %v", theme.Base.GetForeground())
	}
}
