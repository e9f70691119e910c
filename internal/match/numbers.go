package match

import (
	"regexp"
	"strconv"
	"strings"
)

var smallNumbers = map[string]int64{
	"one":       1,
	"two":       2,
	"three":     3,
	"four":      4,
	"five":      5,
	"six":       6,
	"seven":     7,
	"eight":     8,
	"nine":      9,
	"ten":       10,
	"eleven":    11,
	"twelve":    12,
	"thirteen":  13,
	"fourteen":  14,
	"fifteen":   15,
	"sixteen":   16,
	"seventeen": 17,
	"eighteen":  18,
	"nineteen":  19,
	"twenty":    20,
	"thirty":    30,
	"forty":     40,
	"fourty":    40,
	"fifty":     50,
	"sixty":     60,
	"seventy":   70,
	"eighty":    80,
	"ninety":    90,
}

func scaleOf(token string) int64 {
	switch strings.TrimSuffix(token, "s") {
	case "hundred":
		return 100
	case "thousand":
		return 1000
	case "million":
		return 1000000
	}
	return 0
}

func isCurrencyWord(token string) bool {
	return token == "dollar" || token == "dollars"
}

// NormalizeNumber converts an English number-word phrase such as
// "two thousand one hundred" into its decimal string form, optionally prefixed
// with "$" when a currency word is present. Any token that is not a recognized
// unit, teen, ten, scale or currency word makes the whole phrase unrecognized
// and yields "0".
func NormalizeNumber(text string) string {
	text = strings.ReplaceAll(text, "-", "")
	text = strings.ReplaceAll(strings.ToLower(text), " and ", " ")
	tokens := strings.Fields(text)
	if len(tokens) == 0 {
		return "0"
	}
	for _, tok := range tokens {
		if _, ok := smallNumbers[tok]; !ok && scaleOf(tok) == 0 && !isCurrencyWord(tok) {
			return "0"
		}
	}
	var total, last int64
	currency := ""
	for i, tok := range tokens {
		if v, ok := smallNumbers[tok]; ok {
			last = v
		}
		if isCurrencyWord(tok) {
			currency = "$"
			last = 0
		}
		lookahead := ""
		if i+1 < len(tokens) {
			lookahead = tokens[i+1]
		}
		if scale := scaleOf(lookahead); scale != 0 {
			total += last * scale
			last = 0
		} else {
			total += last
			last = 0
		}
	}
	return currency + strconv.FormatInt(total, 10)
}

var (
	dollarsSuffixPattern = regexp.MustCompile(`^(\d[\d,]*) dollars$`)
	numberWordPattern    = regexp.MustCompile(`^(\d[\d,]*) ([^\s\d]+)$`)
	plainNumberPattern   = regexp.MustCompile(`^-?\d[\d,]*$`)
)

// TidyNumber strips thousands separators from bare numeric or currency-prefixed
// strings. "<number> <word>" patterns keep the word and lose the separators from
// the numeric part only, so "1,000,000 people" becomes "1000000 people".
func TidyNumber(num string) string {
	if m := dollarsSuffixPattern.FindStringSubmatch(num); m != nil {
		num = "$" + strings.ReplaceAll(m[1], ",", "")
	}
	if len(num) > 1 && num[0] == '$' {
		num = strings.ReplaceAll(num, ",", "")
	}
	if m := numberWordPattern.FindStringSubmatch(num); m != nil {
		num = strings.ReplaceAll(m[1], ",", "") + " " + m[2]
	}
	if plainNumberPattern.MatchString(num) {
		num = strings.ReplaceAll(num, ",", "")
	}
	return num
}

// IsNumber reports whether s is a non-empty string of ASCII digits.
func IsNumber(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

var currencyPattern = regexp.MustCompile(`^\$(\d+)$`)

// IsCurrency reports whether s is a dollar-prefixed integer such as "$1000".
func IsCurrency(s string) bool {
	return currencyPattern.MatchString(s)
}

// SplitCurrency returns the bare digits of a currency amount and whether s was
// one, so "$500" yields ("500", true).
func SplitCurrency(s string) (string, bool) {
	if m := currencyPattern.FindStringSubmatch(s); m != nil {
		return m[1], true
	}
	return s, false
}

var romanValues = []struct {
	value  uint64
	symbol string
}{
	{1000, "M"}, {900, "CM"}, {500, "D"}, {400, "CD"},
	{100, "C"}, {90, "XC"}, {50, "L"}, {40, "XL"},
	{10, "X"}, {9, "IX"}, {5, "V"}, {4, "IV"}, {1, "I"},
}

// ToRoman renders n as a roman numeral.
func ToRoman(n uint64) string {
	var b strings.Builder
	for _, rv := range romanValues {
		for n >= rv.value {
			n -= rv.value
			b.WriteString(rv.symbol)
		}
	}
	return b.String()
}
