package model

import (
	"strconv"
	"strings"
)

// LineType is the structural classification of a line or word.
type LineType string

const (
	LineTypeBody       LineType = "body"
	LineTypeFooter     LineType = "footer"
	LineTypeHeader     LineType = "header"
	LineTypeListBullet LineType = "list_bullet"
	LineTypeListNumber LineType = "list_number"
	LineTypeTable      LineType = "table"
	LineTypeTOC        LineType = "toc"
)

const headingPrefix = "heading_"

// HeadingType returns the line type of a heading at the given level (1-based).
func HeadingType(level int) LineType {
	return LineType(headingPrefix + strconv.Itoa(level))
}

// BaseType returns the type a freshly parsed line gets: table inside a
// table cell, body everywhere else.
func BaseType(table *TableCoords) LineType {
	if table != nil {
		return LineTypeTable
	}
	return LineTypeBody
}

// HeadingLevel returns the heading level, or 0 when t is not a heading.
func (t LineType) HeadingLevel() int {
	s, ok := strings.CutPrefix(string(t), headingPrefix)
	if !ok {
		return 0
	}
	level, err := strconv.Atoi(s)
	if err != nil || level < 1 {
		return 0
	}
	return level
}

// IsHeading reports whether t is a heading type.
func (t LineType) IsHeading() bool {
	return t.HeadingLevel() > 0
}

// IsBase reports whether t is one of the parser-assigned types.
func (t LineType) IsBase() bool {
	return t == LineTypeBody || t == LineTypeTable
}

// Valid reports whether t is a known line type.
func (t LineType) Valid() bool {
	switch t {
	case LineTypeBody, LineTypeFooter, LineTypeHeader, LineTypeListBullet,
		LineTypeListNumber, LineTypeTable, LineTypeTOC:
		return true
	}
	return t.IsHeading()
}

func (t LineType) String() string {
	return string(t)
}
