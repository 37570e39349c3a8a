package rules

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// Comparator decides whether a successor value immediately follows its
// predecessor in a well-known order.
type Comparator int

const (
	CompareIgnore Comparator = iota
	CompareInteger
	CompareLower
	CompareUpper
	CompareRoman
	CompareDecimal
)

var comparatorNames = [...]string{
	CompareIgnore:  "ignore",
	CompareInteger: "asc_integer",
	CompareLower:   "asc_lower",
	CompareUpper:   "asc_upper",
	CompareRoman:   "asc_roman",
	CompareDecimal: "asc_decimal",
}

func (c Comparator) String() string {
	if c < 0 || int(c) >= len(comparatorNames) {
		return fmt.Sprintf("Comparator(%d)", int(c))
	}
	return comparatorNames[c]
}

// ParseComparator returns the comparator with the given name.
func ParseComparator(name string) (Comparator, error) {
	for i, n := range comparatorNames {
		if n == name {
			return Comparator(i), nil
		}
	}
	return 0, fmt.Errorf("unknown comparator %q", name)
}

// MarshalText implements encoding.TextMarshaler.
func (c Comparator) MarshalText() ([]byte, error) {
	if c < 0 || int(c) >= len(comparatorNames) {
		return nil, fmt.Errorf("unknown comparator %d", int(c))
	}
	return []byte(comparatorNames[c]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *Comparator) UnmarshalText(b []byte) error {
	v, err := ParseComparator(string(b))
	if err != nil {
		return err
	}
	*c = v
	return nil
}

// Follows reports whether next immediately follows prev. Surrounding
// punctuation such as "(1)", "a." or "IV)" is ignored; integer values may
// also carry a leading label as in "Chapter 2".
func (c Comparator) Follows(prev, next string) bool {
	switch c {
	case CompareIgnore:
		return true
	case CompareInteger:
		p, ok1 := parseInteger(prev)
		n, ok2 := parseInteger(next)
		return ok1 && ok2 && n == p+1
	case CompareLower:
		p, ok1 := parseLetter(prev, unicode.IsLower)
		n, ok2 := parseLetter(next, unicode.IsLower)
		return ok1 && ok2 && n == p+1
	case CompareUpper:
		p, ok1 := parseLetter(prev, unicode.IsUpper)
		n, ok2 := parseLetter(next, unicode.IsUpper)
		return ok1 && ok2 && n == p+1
	case CompareRoman:
		p, ok1 := ParseRoman(prev)
		n, ok2 := ParseRoman(next)
		return ok1 && ok2 && n == p+1
	case CompareDecimal:
		p, ok1 := parseDecimal(prev)
		n, ok2 := parseDecimal(next)
		return ok1 && ok2 && compareDecimal(p, n) < 0
	}
	return false
}

func isPunct(r rune) bool {
	return !unicode.IsLetter(r) && !unicode.IsDigit(r)
}

func parseInteger(s string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimFunc(s, func(r rune) bool { return !unicode.IsDigit(r) }))
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

func parseLetter(s string, class func(rune) bool) (rune, bool) {
	r := []rune(strings.TrimFunc(s, isPunct))
	if len(r) != 1 || !class(r[0]) {
		return 0, false
	}
	return r[0], true
}

// parseDecimal splits a dotted number like "1.2.3" or "1.2." into its
// components.
func parseDecimal(s string) ([]int, bool) {
	s = strings.TrimFunc(s, func(r rune) bool { return r != '.' && isPunct(r) })
	s = strings.TrimSuffix(s, ".")
	if s == "" {
		return nil, false
	}
	parts := strings.Split(s, ".")
	out := make([]int, len(parts))
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 {
			return nil, false
		}
		out[i] = n
	}
	return out, true
}

func compareDecimal(a, b []int) int {
	for i := 0; i < len(a) && i < len(b); i++ {
		if a[i] != b[i] {
			if a[i] < b[i] {
				return -1
			}
			return 1
		}
	}
	switch {
	case len(a) < len(b):
		return -1
	case len(a) > len(b):
		return 1
	}
	return 0
}
