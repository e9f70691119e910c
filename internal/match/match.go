// Package match holds the pure answer-matching and hint-synthesis helpers for
// the trivia engine: number-word parsing, case folding, edit distance and the
// text transforms used to build hints. Nothing in here does I/O or holds state.
package match

import "strconv"

// Matches decides whether an incoming chat message is a correct answer.
//
// The message is judged correct when, after numeric normalization and case
// folding, it is an exact match of sufficient length, or the answer is a
// non-trivial non-numeric string within edit distance 1. Numeric and currency
// answers never fuzzy-match: a typo in digits is a different number, not a
// misspelling.
func Matches(message, answer string, relaxedVowels bool) bool {
	answer = StripPunctuation(answer)
	if answer == "" {
		return false
	}
	candidate := StripPunctuation(message)
	if n := NormalizeNumber(message); n != "0" {
		digits, _ := SplitCurrency(n)
		if v, err := strconv.ParseInt(digits, 10, 64); err == nil && v > 0 {
			candidate = n
		}
	}
	candidate = TidyNumber(candidate)

	foldedAnswer := FoldCase(answer, relaxedVowels)
	foldedCandidate := FoldCase(candidate, relaxedVowels)

	if RuneLength(candidate) >= RuneLength(answer) && foldedAnswer == foldedCandidate {
		return true
	}
	if IsNumber(answer) || IsCurrency(answer) {
		return false
	}
	if RuneLength(answer) > 5 {
		if foldedAnswer == foldedCandidate {
			return true
		}
		if RuneLength(candidate) >= RuneLength(answer) && EditDistance(candidate, answer) < 2 {
			return true
		}
	}
	return false
}
