package match

import (
	"math/rand/v2"
	"strings"
	"testing"
)

func TestNormalizeNumber_ConvertsPhrases(t *testing.T) {
	cases := map[string]string{
		"twelve":                          "12",
		"twenty one":                      "21",
		"two thousand one hundred":        "2100",
		"one hundred and five":            "105",
		"three million":                   "3000000",
		"one thousand dollars":            "$1000",
		"seven hundred and twenty dollars": "$720",
	}
	for in, want := range cases {
		if got := NormalizeNumber(in); got != want {
			t.Errorf("NormalizeNumber(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestNormalizeNumber_UnrecognizedTokenYieldsZero(t *testing.T) {
	for _, in := range []string{"", "twelve bananas", "hello", "two hundred cats"} {
		if got := NormalizeNumber(in); got != "0" {
			t.Errorf("NormalizeNumber(%q) = %q, want 0", in, got)
		}
	}
}

func TestTidyNumber(t *testing.T) {
	cases := map[string]string{
		"1,000,000":        "1000000",
		"$1,500":           "$1500",
		"2,500 dollars":    "$2500",
		"1,000,000 people": "1000000 people",
		"-1,234":           "-1234",
		"plain text":       "plain text",
	}
	for in, want := range cases {
		if got := TidyNumber(in); got != want {
			t.Errorf("TidyNumber(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestFoldCase_RelaxedVowels(t *testing.T) {
	if got := FoldCase("PAPÁ", true); got != "papa" {
		t.Errorf("FoldCase relaxed = %q, want papa", got)
	}
	if got := FoldCase("PAPÁ", false); got != "papá" {
		t.Errorf("FoldCase strict = %q, want papá", got)
	}
}

func TestEditDistance_Properties(t *testing.T) {
	words := []string{"", "a", "kitten", "sitting", "Riñón", "rincon"}
	for _, a := range words {
		if d := EditDistance(a, a); d != 0 {
			t.Errorf("EditDistance(%q, %q) = %d, want 0", a, a, d)
		}
		for _, b := range words {
			ab, ba := EditDistance(a, b), EditDistance(b, a)
			if ab != ba {
				t.Errorf("EditDistance not symmetric for %q/%q: %d vs %d", a, b, ab, ba)
			}
			if bound := max(RuneLength(a), RuneLength(b)); ab > bound {
				t.Errorf("EditDistance(%q, %q) = %d exceeds %d", a, b, ab, bound)
			}
		}
	}
	if d := EditDistance("kitten", "sitting"); d != 3 {
		t.Errorf("EditDistance(kitten, sitting) = %d, want 3", d)
	}
}

func TestMatches_NumberWordsAgainstDigits(t *testing.T) {
	if !Matches("twelve", "12", false) {
		t.Error("expected 'twelve' to match answer '12'")
	}
	if !Matches("one thousand dollars", "$1000", false) {
		t.Error("expected 'one thousand dollars' to match answer '$1000'")
	}
}

func TestMatches_NumericAnswersNeverFuzzy(t *testing.T) {
	if Matches("123457", "123456", false) {
		t.Error("single-digit typo must not match a numeric answer")
	}
	if Matches("$1001", "$1000", false) {
		t.Error("currency answers must match exactly")
	}
}

func TestMatches_FuzzyForLongTextAnswers(t *testing.T) {
	if !Matches("mississippi riber", "Mississippi River", false) {
		t.Error("expected single-typo answer to match")
	}
	if Matches("mississippi rivre", "Mississippi River", false) {
		t.Error("two edits should not match")
	}
	// A candidate shorter than the answer never fuzzy-matches.
	if Matches("mississipi river", "Mississippi River", false) {
		t.Error("dropped-letter answer is shorter than the real one and must not match")
	}
	// Short answers never fuzzy-match.
	if Matches("catt", "cat", false) {
		t.Error("short answers must be exact")
	}
}

func TestMatches_IgnoresPunctuationAndCase(t *testing.T) {
	if !Matches("saint john's!", "Saint Johns", false) {
		t.Error("expected punctuation-insensitive match")
	}
	if Matches("anything", "", false) {
		t.Error("empty answer must never match")
	}
}

func TestPigLatin(t *testing.T) {
	if got := PigLatin("pig latin"); got != "igpay atinlay" {
		t.Errorf("PigLatin = %q", got)
	}
	if got := PigLatin("xyz"); got != "xyz" {
		t.Errorf("vowelless word should pass through, got %q", got)
	}
}

func TestScramble_KeepsSpacesAndLetters(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	in := "mount everest"
	out := Scramble(in, rng)
	if len(out) != len(in) {
		t.Fatalf("length changed: %q", out)
	}
	if out[5] != ' ' {
		t.Errorf("space moved: %q", out)
	}
	sorted := func(s string) string {
		b := []byte(strings.ReplaceAll(s, " ", ""))
		for i := range b {
			for j := i + 1; j < len(b); j++ {
				if b[j] < b[i] {
					b[i], b[j] = b[j], b[i]
				}
			}
		}
		return string(b)
	}
	if sorted(in) != sorted(out) {
		t.Errorf("letters changed: %q vs %q", in, out)
	}
}

func TestSynthesizeFirstHint_Numeric(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	got := SynthesizeFirstHint("2112", rng)
	want := "one thousand, plus one thousand, plus one hundred, plus twelve"
	if got != want {
		t.Errorf("numeric first hint = %q, want %q", got, want)
	}
	if got := SynthesizeFirstHint("0", rng); got != "The lowest non-negative number" {
		t.Errorf("zero hint = %q", got)
	}
}

func TestSynthesizeSecondHint_NumericBases(t *testing.T) {
	seen := map[byte]bool{}
	for seed := uint64(0); seed < 64; seed++ {
		rng := rand.New(rand.NewPCG(seed, seed))
		hint := SynthesizeSecondHint("255", rng)
		switch {
		case strings.HasPrefix(hint, "In roman numerals: "):
			seen['r'] = true
			if hint != "In roman numerals: CCLV" {
				t.Errorf("roman hint = %q", hint)
			}
		case strings.HasPrefix(hint, "In hexadecimal: "):
			seen['h'] = true
			if hint != "In hexadecimal: ff" {
				t.Errorf("hex hint = %q", hint)
			}
		case strings.HasPrefix(hint, "In octal: "):
			seen['o'] = true
			if hint != "In octal: 377" {
				t.Errorf("octal hint = %q", hint)
			}
		case strings.HasPrefix(hint, "In binary: "):
			seen['b'] = true
			if hint != "In binary: 11111111" {
				t.Errorf("binary hint = %q", hint)
			}
		default:
			t.Fatalf("unexpected numeric hint %q", hint)
		}
	}
	if len(seen) != 4 {
		t.Errorf("expected all four bases across seeds, saw %d", len(seen))
	}
}

func TestSynthesizeSecondHint_LargeNumbersAvoidRoman(t *testing.T) {
	for seed := uint64(0); seed < 32; seed++ {
		rng := rand.New(rand.NewPCG(seed, seed))
		hint := SynthesizeSecondHint("20000", rng)
		if strings.HasPrefix(hint, "In roman numerals") {
			t.Fatalf("roman hint for value over 10000: %q", hint)
		}
	}
}

func TestSynthesizeHints_TextTransforms(t *testing.T) {
	answer := "Mount Everest"
	firsts := map[string]bool{}
	seconds := map[string]bool{}
	for seed := uint64(0); seed < 64; seed++ {
		rng := rand.New(rand.NewPCG(seed, 99))
		firsts[SynthesizeFirstHint(answer, rng)] = true
		seconds[SynthesizeSecondHint(answer, rng)] = true
	}
	if !firsts["M#### E######"] {
		t.Error("expected capital mask among first hints")
	}
	if !firsts["The answer is 12 letters long, starts with 'M' and ends with 't'"] {
		t.Error("expected letter description among first hints")
	}
	if !seconds["M##nt #v#r#st"] {
		t.Error("expected vowel mask among second hints")
	}
	if !seconds["The answer has 5 vowels and is 12 letters long"] {
		t.Error("expected vowel count among second hints")
	}
	if !seconds["Pig Latin: ountmay everestay"] {
		t.Error("expected pig latin among second hints")
	}
}

func TestToRoman(t *testing.T) {
	cases := map[uint64]string{1: "I", 4: "IV", 9: "IX", 14: "XIV", 1987: "MCMLXXXVII", 3999: "MMMCMXCIX"}
	for n, want := range cases {
		if got := ToRoman(n); got != want {
			t.Errorf("ToRoman(%d) = %q, want %q", n, got, want)
		}
	}
}
