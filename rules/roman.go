package rules

import "strings"

var romanValues = map[rune]int{
	'I': 1, 'V': 5, 'X': 10, 'L': 50, 'C': 100, 'D': 500, 'M': 1000,
}

// ParseRoman converts a roman numeral to its value. Case is ignored, as is
// surrounding punctuation: "(iv)", "IV." and "IV)" all yield 4. Digits are
// scanned left to right; a digit smaller than its right neighbour is
// subtracted.
func ParseRoman(s string) (int, bool) {
	s = strings.ToUpper(strings.TrimFunc(s, isPunct))
	if s == "" {
		return 0, false
	}
	runes := []rune(s)
	total := 0
	for i, r := range runes {
		v, ok := romanValues[r]
		if !ok {
			return 0, false
		}
		if i+1 < len(runes) && v < romanValues[runes[i+1]] {
			total -= v
		} else {
			total += v
		}
	}
	if total <= 0 {
		return 0, false
	}
	return total, true
}
