package model

// Page is one page of a document.
type Page struct {
	PageNo             int `json:"pageNo"`
	NoParagraphsInPage int `json:"noParagraphsInPage"`
	NoLinesInPage      int `json:"noLinesInPage"`
	NoWordsInPage      int `json:"noWordsInPage"`
	FirstParagraphNo   int `json:"firstParagraphNo"`
	LastParagraphNo    int `json:"lastParagraphNo"`
	FirstLineNo        int `json:"firstLineNo"`
	LastLineNo         int `json:"lastLineNo"`
	FirstWordNo        int `json:"firstWordNo"`
	LastWordNo         int `json:"lastWordNo"`

	Paragraphs []Paragraph `json:"paragraphs"`
	Lines      []Line      `json:"lines"`
}

// Paragraph is a paragraph of a page. It owns its words.
type Paragraph struct {
	ParagraphNo        int          `json:"paragraphNo"`
	ParagraphIndexPage int          `json:"paragraphIndexPage"`
	NoLinesInParagraph int          `json:"noLinesInParagraph"`
	NoWordsInParagraph int          `json:"noWordsInParagraph"`
	FirstLineNo        int          `json:"firstLineNo"`
	LastLineNo         int          `json:"lastLineNo"`
	FirstWordNo        int          `json:"firstWordNo"`
	LastWordNo         int          `json:"lastWordNo"`
	Table              *TableCoords `json:"table,omitempty"`
	Words              []Word       `json:"words"`
}

// Line is a line of a page. Its words are Words[WordIndexFirst..WordIndexLast]
// of the paragraph at ParagraphIndexPage; WordIndexLast < WordIndexFirst
// means the line has no words.
type Line struct {
	LineNo             int          `json:"lineNo"`
	LineIndexPage      int          `json:"lineIndexPage"`
	LineIndexParagraph int          `json:"lineIndexParagraph"`
	ParagraphNo        int          `json:"paragraphNo"`
	ParagraphIndexPage int          `json:"paragraphIndexPage"`
	LLX                float64      `json:"llx"`
	URX                float64      `json:"urx"`
	Table              *TableCoords `json:"table,omitempty"`
	Type               LineType     `json:"lineType"`
	Text               string       `json:"text"`
	WordIndexFirst     int          `json:"wordIndexFirst"`
	WordIndexLast      int          `json:"wordIndexLast"`
}

// NoWords returns the number of words in the line.
func (l *Line) NoWords() int {
	if l.WordIndexLast < l.WordIndexFirst {
		return 0
	}
	return l.WordIndexLast - l.WordIndexFirst + 1
}

// Word is a word of a paragraph.
type Word struct {
	WordNo             int          `json:"wordNo"`
	WordIndexPage      int          `json:"wordIndexPage"`
	WordIndexParagraph int          `json:"wordIndexParagraph"`
	WordIndexLine      int          `json:"wordIndexLine"`
	LineNo             int          `json:"lineNo"`
	LLX                float64      `json:"llx"`
	URX                float64      `json:"urx"`
	FontID             string       `json:"fontId,omitempty"`
	FontSize           float64      `json:"fontSize,omitempty"`
	Table              *TableCoords `json:"table,omitempty"`
	Type               LineType     `json:"wordType"`
	Text               string       `json:"text"`
}

// TableCoords locates a paragraph, line or word inside a table.
type TableCoords struct {
	TableNo  int `json:"tableNo"`
	RowNo    int `json:"rowNo"`
	CellNo   int `json:"cellNo"`
	CellSpan int `json:"cellSpan"`
}

func (tc *TableCoords) clone() *TableCoords {
	if tc == nil {
		return nil
	}
	c := *tc
	return &c
}

// LineRef addresses a line by page index and line index on that page.
type LineRef struct {
	Page int
	Line int
}

// WordRef addresses a word by page index, paragraph index on that page and
// word index in that paragraph.
type WordRef struct {
	Page      int
	Paragraph int
	Word      int
}
