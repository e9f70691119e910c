package match

import (
	"fmt"
	"math/rand/v2"
	"strconv"
	"strings"
)

type namedNumber struct {
	value uint64
	name  string
}

// Named round numbers used by the first numeric hint, largest first.
var namedNumbers = []namedNumber{
	{1000000, "one million"},
	{1000, "one thousand"},
	{100, "one hundred"},
	{90, "ninety"}, {80, "eighty"}, {70, "seventy"}, {60, "sixty"},
	{50, "fifty"}, {40, "forty"}, {30, "thirty"}, {20, "twenty"},
	{19, "nineteen"}, {18, "eighteen"}, {17, "seventeen"}, {16, "sixteen"},
	{15, "fifteen"}, {14, "fourteen"}, {13, "thirteen"}, {12, "twelve"},
	{11, "eleven"}, {10, "ten"}, {9, "nine"}, {8, "eight"}, {7, "seven"},
	{6, "six"}, {5, "five"}, {4, "four"}, {3, "three"}, {2, "two"}, {1, "one"},
}

func nearestNamed(n uint64) (namedNumber, bool) {
	for _, nn := range namedNumbers {
		if nn.value <= n {
			return nn, true
		}
	}
	return namedNumber{}, false
}

// numberNameHint decomposes n into a sum of named round numbers, e.g.
// 2112 -> "one thousand, plus one thousand, plus one hundred, plus twelve".
func numberNameHint(n uint64) string {
	var parts []string
	for n > 0 {
		nn, ok := nearestNamed(n)
		if !ok {
			break
		}
		parts = append(parts, nn.name)
		n -= nn.value
	}
	return strings.Join(parts, ", plus ")
}

// SynthesizeFirstHint builds a first hint for answers with no custom hint. The
// transform is chosen randomly; callers must compute it once per question and
// cache it so the hint stays stable for the question's lifetime.
func SynthesizeFirstHint(answer string, rng *rand.Rand) string {
	if IsNumber(answer) {
		n, _ := strconv.ParseUint(answer, 10, 64)
		hint := numberNameHint(n)
		if hint == "" {
			return "The lowest non-negative number"
		}
		return hint
	}
	switch r := rng.IntN(12) + 1; {
	case r <= 4:
		return capitalMask(answer)
	case r <= 8:
		return letterLong(answer)
	default:
		return "Scrambled answer: " + Scramble(answer, rng)
	}
}

// SynthesizeSecondHint builds a second hint for answers with no custom hint.
// Numeric and currency answers get the value in a randomly chosen base; text
// answers get one of the letter-oriented transforms. Like SynthesizeFirstHint,
// the result must be cached per question.
func SynthesizeSecondHint(answer string, rng *rand.Rand) string {
	digits, isCurrency := SplitCurrency(answer)
	if IsNumber(digits) && (isCurrency || IsNumber(answer)) {
		n, _ := strconv.ParseUint(digits, 10, 64)
		r := rng.IntN(13) + 1
		switch {
		case r < 3 && n <= 10000:
			return "In roman numerals: " + ToRoman(n)
		case (r >= 3 && r < 6) || n > 10000:
			return fmt.Sprintf("In hexadecimal: %x", n)
		case r >= 6 && r <= 10:
			return fmt.Sprintf("In octal: %o", n)
		default:
			return fmt.Sprintf("In binary: %b", n)
		}
	}
	switch r := rng.IntN(12) + 1; {
	case r <= 4:
		return vowelMask(answer)
	case r <= 6:
		return vowelCount(answer)
	default:
		return "Pig Latin: " + PigLatin(answer)
	}
}

// capitalMask hides lowercase letters and odd digits, leaving capitals as
// anchors: "Mount Everest" -> "M#### E######".
func capitalMask(answer string) string {
	return strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || r == '1' || r == '3' || r == '5' || r == '7' || r == '9' {
			return '#'
		}
		return r
	}, answer)
}

// vowelMask hides vowels and even digits, leaving the consonant skeleton.
func vowelMask(answer string) string {
	return strings.Map(func(r rune) rune {
		if isVowel(r) || r == '2' || r == '4' || r == '6' || r == '8' || r == '0' {
			return '#'
		}
		return r
	}, answer)
}

func letterLong(answer string) string {
	squashed := strings.ReplaceAll(answer, " ", "")
	if squashed == "" {
		return "An empty answer"
	}
	return fmt.Sprintf("The answer is %d letters long, starts with '%s' and ends with '%s'",
		RuneLength(squashed), FirstRune(squashed), LastRune(squashed))
}

func vowelCount(answer string) string {
	letters, vowels := CountVowels(answer)
	return fmt.Sprintf("The answer has %d vowels and is %d letters long", vowels, letters)
}
