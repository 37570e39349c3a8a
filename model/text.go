package model

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// NormalizeText converts s to NFC and collapses every run of whitespace to a
// single space, trimming both ends.
func NormalizeText(s string) string {
	s = norm.NFC.String(s)
	var b strings.Builder
	b.Grow(len(s))
	space := false
	for _, r := range s {
		if unicode.IsSpace(r) {
			space = b.Len() > 0
			continue
		}
		if space {
			b.WriteByte(' ')
			space = false
		}
		b.WriteRune(r)
	}
	return b.String()
}

// LineWordsText joins the texts of the line's words with single spaces.
func (d *Document) LineWordsText(ref LineRef) string {
	words := d.LineWords(ref)
	parts := make([]string, len(words))
	for i := range words {
		parts[i] = words[i].Text
	}
	return strings.Join(parts, " ")
}
