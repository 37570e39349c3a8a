package model

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvariant is returned when a mutation would break a structural
// invariant of the document tree.
var ErrInvariant = errors.New("document invariant violated")

func invariantf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvariant, fmt.Sprintf(format, args...))
}

// Document is the root of the document tree.
type Document struct {
	DocumentID       int    `json:"documentId"`
	DocumentFileName string `json:"documentFileName"`

	NoPages           int `json:"noPages"`
	NoParagraphs      int `json:"noParagraphs"`
	NoLines           int `json:"noLines"`
	NoWords           int `json:"noWords"`
	NoTables          int `json:"noTables"`
	NoLinesTable      int `json:"noLinesTable"`
	NoListsBullet     int `json:"noListsBullet"`
	NoLinesListBullet int `json:"noLinesListBullet"`
	NoListsNumber     int `json:"noListsNumber"`
	NoLinesListNumber int `json:"noLinesListNumber"`
	NoLinesHeader     int `json:"noLinesHeader"`
	NoLinesFooter     int `json:"noLinesFooter"`
	NoLinesHeading    int `json:"noLinesHeading"`
	NoLinesTOC        int `json:"noLinesToc"`
	NoFonts           int `json:"noFonts"`

	CreationDate string `json:"creationDate"`
	ModDate      string `json:"modDate"`
	Producer     string `json:"producer"`

	Config map[string]any `json:"config,omitempty"`
	Fonts  []Font         `json:"fonts,omitempty"`
	Pages  []Page         `json:"pages"`

	// last table coordinates handed to AppendParagraph
	lastTable TableCoords
}

// Font is an entry of the document's font table.
type Font struct {
	ID          string  `json:"fontId"`
	Name        string  `json:"name"`
	FullName    string  `json:"fullName,omitempty"`
	Type        string  `json:"type,omitempty"`
	Embedded    bool    `json:"embedded"`
	ItalicAngle float64 `json:"italicAngle"`
	Weight      int     `json:"weight,omitempty"`
}

// WordInfo carries the attributes of a word to append.
type WordInfo struct {
	Text     string
	LLX      float64
	URX      float64
	FontID   string
	FontSize float64
}

// NewDocument creates an empty document.
func NewDocument(documentID int, fileName string) *Document {
	return &Document{
		DocumentID:       documentID,
		DocumentFileName: fileName,
		Pages:            make([]Page, 0),
	}
}

// GetPage returns a page by number (1-indexed).
func (d *Document) GetPage(number int) *Page {
	if number < 1 || number > len(d.Pages) {
		return nil
	}
	return &d.Pages[number-1]
}

// PageCount returns the total number of pages.
func (d *Document) PageCount() int {
	return len(d.Pages)
}

// AddFont appends an entry to the font table.
func (d *Document) AddFont(f Font) {
	d.Fonts = append(d.Fonts, f)
	d.NoFonts = len(d.Fonts)
}

// AppendPage appends an empty page and returns its index.
func (d *Document) AppendPage() int {
	d.Pages = append(d.Pages, Page{
		PageNo:     len(d.Pages) + 1,
		Paragraphs: make([]Paragraph, 0),
		Lines:      make([]Line, 0),
	})
	d.NoPages = len(d.Pages)
	return len(d.Pages) - 1
}

func (d *Document) lastPage(page int) (*Page, error) {
	if len(d.Pages) == 0 || page != len(d.Pages)-1 {
		return nil, invariantf("page index %d is not the last page", page)
	}
	return &d.Pages[page], nil
}

// AppendParagraph appends a paragraph to the last page and returns its index
// on that page. table is nil outside tables.
func (d *Document) AppendParagraph(page int, table *TableCoords) (int, error) {
	p, err := d.lastPage(page)
	if err != nil {
		return 0, err
	}
	if table != nil {
		if err := d.checkTable(*table); err != nil {
			return 0, err
		}
		d.lastTable = *table
		if table.TableNo > d.NoTables {
			d.NoTables = table.TableNo
		}
	}

	d.NoParagraphs++
	p.Paragraphs = append(p.Paragraphs, Paragraph{
		ParagraphNo:        d.NoParagraphs,
		ParagraphIndexPage: len(p.Paragraphs),
		Table:              table.clone(),
		Words:              make([]Word, 0),
	})
	p.NoParagraphsInPage = len(p.Paragraphs)
	if p.FirstParagraphNo == 0 {
		p.FirstParagraphNo = d.NoParagraphs
	}
	p.LastParagraphNo = d.NoParagraphs
	return len(p.Paragraphs) - 1, nil
}

func (d *Document) checkTable(tc TableCoords) error {
	if tc.TableNo < 1 || tc.RowNo < 1 || tc.CellNo < 1 {
		return invariantf("table coordinates must be 1-based, got %+v", tc)
	}
	if tc.CellSpan < 1 {
		return invariantf("cell span must be at least 1, got %d", tc.CellSpan)
	}
	last := d.lastTable
	switch {
	case tc.TableNo < last.TableNo:
		return invariantf("table %d follows table %d", tc.TableNo, last.TableNo)
	case tc.TableNo > last.TableNo:
		if tc.RowNo != 1 {
			return invariantf("table %d starts at row %d", tc.TableNo, tc.RowNo)
		}
	default:
		if tc.RowNo != last.RowNo && tc.RowNo != last.RowNo+1 {
			return invariantf("table %d row %d follows row %d", tc.TableNo, tc.RowNo, last.RowNo)
		}
	}
	return nil
}

// AppendLine appends a line to the last paragraph of the last page and
// returns its index on the page. The line starts with no words.
func (d *Document) AppendLine(page, paragraph int, llx, urx float64) (int, error) {
	p, err := d.lastPage(page)
	if err != nil {
		return 0, err
	}
	if paragraph < 0 || paragraph != len(p.Paragraphs)-1 {
		return 0, invariantf("paragraph index %d is not the last paragraph of page %d", paragraph, p.PageNo)
	}
	if math.IsNaN(llx) || math.IsNaN(urx) {
		return 0, invariantf("line geometry is not a number")
	}
	para := &p.Paragraphs[paragraph]

	d.NoLines++
	p.Lines = append(p.Lines, Line{
		LineNo:             d.NoLines,
		LineIndexPage:      len(p.Lines),
		LineIndexParagraph: para.NoLinesInParagraph,
		ParagraphNo:        para.ParagraphNo,
		ParagraphIndexPage: paragraph,
		LLX:                llx,
		URX:                urx,
		Table:              para.Table.clone(),
		Type:               BaseType(para.Table),
		WordIndexFirst:     len(para.Words),
		WordIndexLast:      len(para.Words) - 1,
	})
	p.NoLinesInPage = len(p.Lines)
	if p.FirstLineNo == 0 {
		p.FirstLineNo = d.NoLines
	}
	p.LastLineNo = d.NoLines

	para.NoLinesInParagraph++
	if para.FirstLineNo == 0 {
		para.FirstLineNo = d.NoLines
	}
	para.LastLineNo = d.NoLines
	return len(p.Lines) - 1, nil
}

// AppendWord appends a word to the given paragraph and extends the given
// line's word range by it. Both must be the last of their kind on the last
// page, and the line must belong to the paragraph.
func (d *Document) AppendWord(page, paragraph, line int, info WordInfo) (int, error) {
	p, err := d.lastPage(page)
	if err != nil {
		return 0, err
	}
	if paragraph < 0 || paragraph != len(p.Paragraphs)-1 {
		return 0, invariantf("paragraph index %d is not the last paragraph of page %d", paragraph, p.PageNo)
	}
	if line < 0 || line != len(p.Lines)-1 {
		return 0, invariantf("line index %d is not the last line of page %d", line, p.PageNo)
	}
	l := &p.Lines[line]
	if l.ParagraphIndexPage != paragraph {
		return 0, invariantf("line %d belongs to paragraph %d, not %d", l.LineNo, l.ParagraphIndexPage, paragraph)
	}
	para := &p.Paragraphs[paragraph]

	d.NoWords++
	para.Words = append(para.Words, Word{
		WordNo:             d.NoWords,
		WordIndexPage:      p.NoWordsInPage,
		WordIndexParagraph: len(para.Words),
		WordIndexLine:      l.NoWords(),
		LineNo:             l.LineNo,
		LLX:                info.LLX,
		URX:                info.URX,
		FontID:             info.FontID,
		FontSize:           info.FontSize,
		Table:              para.Table.clone(),
		Type:               BaseType(para.Table),
		Text:               info.Text,
	})
	l.WordIndexLast = len(para.Words) - 1

	p.NoWordsInPage++
	if p.FirstWordNo == 0 {
		p.FirstWordNo = d.NoWords
	}
	p.LastWordNo = d.NoWords

	para.NoWordsInParagraph = len(para.Words)
	if para.FirstWordNo == 0 {
		para.FirstWordNo = d.NoWords
	}
	para.LastWordNo = d.NoWords
	return len(para.Words) - 1, nil
}

// Line returns the addressed line, or nil when ref is out of range.
func (d *Document) Line(ref LineRef) *Line {
	if ref.Page < 0 || ref.Page >= len(d.Pages) {
		return nil
	}
	p := &d.Pages[ref.Page]
	if ref.Line < 0 || ref.Line >= len(p.Lines) {
		return nil
	}
	return &p.Lines[ref.Line]
}

// Word returns the addressed word, or nil when ref is out of range.
func (d *Document) Word(ref WordRef) *Word {
	if ref.Page < 0 || ref.Page >= len(d.Pages) {
		return nil
	}
	p := &d.Pages[ref.Page]
	if ref.Paragraph < 0 || ref.Paragraph >= len(p.Paragraphs) {
		return nil
	}
	para := &p.Paragraphs[ref.Paragraph]
	if ref.Word < 0 || ref.Word >= len(para.Words) {
		return nil
	}
	return &para.Words[ref.Word]
}

// LineWords returns the words of the addressed line. The result aliases the
// paragraph's word slice.
func (d *Document) LineWords(ref LineRef) []Word {
	l := d.Line(ref)
	if l == nil || l.NoWords() == 0 {
		return nil
	}
	para := &d.Pages[ref.Page].Paragraphs[l.ParagraphIndexPage]
	return para.Words[l.WordIndexFirst : l.WordIndexLast+1]
}

// LineRefs returns references to every line in document order.
func (d *Document) LineRefs() []LineRef {
	refs := make([]LineRef, 0, d.NoLines)
	for pi := range d.Pages {
		for li := range d.Pages[pi].Lines {
			refs = append(refs, LineRef{Page: pi, Line: li})
		}
	}
	return refs
}

// SetLineText sets the text of the addressed line.
func (d *Document) SetLineText(ref LineRef, text string) error {
	l := d.Line(ref)
	if l == nil {
		return invariantf("no line at page index %d, line index %d", ref.Page, ref.Line)
	}
	l.Text = text
	return nil
}

// SetLineType sets the type of the addressed line.
func (d *Document) SetLineType(ref LineRef, t LineType) error {
	if !t.Valid() {
		return invariantf("unknown line type %q", t)
	}
	l := d.Line(ref)
	if l == nil {
		return invariantf("no line at page index %d, line index %d", ref.Page, ref.Line)
	}
	l.Type = t
	return nil
}

// SetWordType sets the type of the addressed word.
func (d *Document) SetWordType(ref WordRef, t LineType) error {
	if !t.Valid() {
		return invariantf("unknown word type %q", t)
	}
	w := d.Word(ref)
	if w == nil {
		return invariantf("no word at page index %d, paragraph index %d, word index %d", ref.Page, ref.Paragraph, ref.Word)
	}
	w.Type = t
	return nil
}

// SetType sets the type of the addressed line and of all its words.
func (d *Document) SetType(ref LineRef, t LineType) error {
	if err := d.SetLineType(ref, t); err != nil {
		return err
	}
	words := d.LineWords(ref)
	for i := range words {
		words[i].Type = t
	}
	return nil
}

// ResetType reverts every line and word whose type satisfies match to its
// base type.
func (d *Document) ResetType(match func(LineType) bool) {
	for pi := range d.Pages {
		p := &d.Pages[pi]
		for li := range p.Lines {
			if l := &p.Lines[li]; match(l.Type) {
				l.Type = BaseType(l.Table)
			}
		}
		for qi := range p.Paragraphs {
			words := p.Paragraphs[qi].Words
			for wi := range words {
				if match(words[wi].Type) {
					words[wi].Type = BaseType(words[wi].Table)
				}
			}
		}
	}
}

// CountLines returns the number of lines whose type satisfies match.
func (d *Document) CountLines(match func(LineType) bool) int {
	n := 0
	for pi := range d.Pages {
		for li := range d.Pages[pi].Lines {
			if match(d.Pages[pi].Lines[li].Type) {
				n++
			}
		}
	}
	return n
}

// Is returns a matcher for a single line type.
func Is(t LineType) func(LineType) bool {
	return func(u LineType) bool { return u == t }
}
