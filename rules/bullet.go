package rules

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// BulletSet maps bullet prefixes to an occurrence counter.
type BulletSet map[string]int

// LongestPrefix returns the longest member of the set that prefixes text.
// A bullet ending in a letter or digit (such as "o") only counts when
// whitespace follows it, so ordinary words are not taken for bullets.
func (b BulletSet) LongestPrefix(text string) (string, bool) {
	best := ""
	for bullet := range b {
		if len(bullet) <= len(best) || !strings.HasPrefix(text, bullet) {
			continue
		}
		last, _ := utf8.DecodeLastRuneInString(bullet)
		if unicode.IsLetter(last) || unicode.IsDigit(last) {
			next, _ := utf8.DecodeRuneInString(text[len(bullet):])
			if !unicode.IsSpace(next) {
				continue
			}
		}
		best = bullet
	}
	return best, best != ""
}
