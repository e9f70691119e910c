package match

import (
	"math/rand/v2"
	"strings"
)

func pigLatinWord(word string) string {
	runes := []rune(word)
	for i, r := range runes {
		if isVowel(r) {
			return string(runes[i:]) + string(runes[:i]) + "ay"
		}
	}
	return word
}

// PigLatin converts text to pig latin, word by word. Words with no vowels pass
// through unchanged. Pig latin only makes sense for English answers, which the
// caller is responsible for checking.
func PigLatin(text string) string {
	words := strings.Fields(text)
	for i, w := range words {
		words[i] = pigLatinWord(w)
	}
	return strings.ToLower(strings.Join(words, " "))
}

// Scramble shuffles the letters of text, keeping spaces in place so word
// lengths remain visible in the hint.
func Scramble(text string, rng *rand.Rand) string {
	runes := []rune(text)
	var positions []int
	for i, r := range runes {
		if r != ' ' {
			positions = append(positions, i)
		}
	}
	rng.Shuffle(len(positions), func(a, b int) {
		runes[positions[a]], runes[positions[b]] = runes[positions[b]], runes[positions[a]]
	})
	return string(runes)
}
