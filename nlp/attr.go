package nlp

import (
	"fmt"
	"math/bits"
	"strings"
)

// Attr is a set of token attributes to emit.
type Attr uint16

const (
	AttrText Attr = 1 << iota
	AttrLower
	AttrShape
	AttrOffset
	AttrLength
	AttrIsAlpha
	AttrIsDigit
	AttrIsPunct
	AttrIsUpper
	AttrIsTitle

	attrEnd
)

// AllAttrs selects every attribute.
const AllAttrs = attrEnd - 1

// DefaultAttrs is the attribute set used when none is configured.
const DefaultAttrs = AttrText | AttrLower | AttrOffset | AttrIsAlpha | AttrIsDigit | AttrIsPunct

// attrNames holds the JSON key of each attribute in bit order.
var attrNames = [...]string{
	"text",
	"lower",
	"shape",
	"offset",
	"length",
	"isAlpha",
	"isDigit",
	"isPunct",
	"isUpper",
	"isTitle",
}

// Has reports whether every attribute of b is in a.
func (a Attr) Has(b Attr) bool {
	return a&b == b
}

// Len returns the number of attributes in a.
func (a Attr) Len() int {
	return bits.OnesCount16(uint16(a & AllAttrs))
}

// Names returns the JSON keys of a in bit order.
func (a Attr) Names() []string {
	names := make([]string, 0, a.Len())
	for i, name := range attrNames {
		if a.Has(1 << i) {
			names = append(names, name)
		}
	}
	return names
}

func (a Attr) String() string {
	return strings.Join(a.Names(), ",")
}

// ParseAttrs builds the set of the named attributes. Names are matched case
// insensitively; "all" selects every attribute.
func ParseAttrs(names []string) (Attr, error) {
	var a Attr
	for _, name := range names {
		name = strings.TrimSpace(name)
		if strings.EqualFold(name, "all") {
			a |= AllAttrs
			continue
		}
		found := false
		for i, known := range attrNames {
			if strings.EqualFold(name, known) {
				a |= 1 << i
				found = true
				break
			}
		}
		if !found {
			return 0, fmt.Errorf("unknown token attribute %q", name)
		}
	}
	return a, nil
}
