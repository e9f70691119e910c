package match

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
)

var foldCaser = cases.Fold()

// FoldCase lowercases text using Unicode case-folding rules. When relaxedVowels
// is set, accented vowels are mapped to their unaccented base letter. This is
// used for Spanish guilds, where players commonly type "papa" when the answer
// is "papá"; treating the two as equal keeps the game friendly for them.
func FoldCase(text string, relaxedVowels bool) string {
	folded := foldCaser.String(text)
	if !relaxedVowels {
		return folded
	}
	return strings.Map(func(r rune) rune {
		switch r {
		case 'á':
			return 'a'
		case 'é':
			return 'e'
		case 'í':
			return 'i'
		case 'ó':
			return 'o'
		case 'ú', 'ü':
			return 'u'
		}
		return r
	}, folded)
}

// StripPunctuation removes punctuation and symbol runes, leaving letters,
// digits, spaces and the dollar sign untouched. The dollar sign survives so
// currency answers like "$500" keep their prefix through normalization.
func StripPunctuation(text string) string {
	return strings.Map(func(r rune) rune {
		if r != '$' && (unicode.IsPunct(r) || unicode.IsSymbol(r)) {
			return -1
		}
		return r
	}, text)
}

// RuneLength returns the length of text in runes, e.g. RuneLength("Riñón") == 5.
func RuneLength(text string) int {
	return len([]rune(text))
}

// FirstRune and LastRune return the boundary letters of text as strings, empty
// for empty input.
func FirstRune(text string) string {
	for _, r := range text {
		return string(r)
	}
	return ""
}

func LastRune(text string) string {
	runes := []rune(text)
	if len(runes) == 0 {
		return ""
	}
	return string(runes[len(runes)-1])
}

func isVowel(r rune) bool {
	switch unicode.ToUpper(r) {
	case 'A', 'E', 'I', 'O', 'U':
		return true
	}
	return false
}

// CountVowels returns the number of letters and the number of vowels in text,
// ignoring spaces.
func CountVowels(text string) (letters, vowels int) {
	for _, r := range text {
		if r == ' ' {
			continue
		}
		letters++
		if isVowel(r) {
			vowels++
		}
	}
	return letters, vowels
}
