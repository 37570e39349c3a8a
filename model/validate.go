package model

import (
	"errors"
	"strings"
)

// Validate checks the structural invariants of the document tree: page
// numbering, counter sums, strictly increasing document-scoped numbers,
// paragraph enclosure of lines and words, and table coordinates. It
// returns the first violation found.
func (d *Document) Validate() error {
	if d.NoPages != len(d.Pages) {
		return invariantf("noPages is %d but the document has %d pages", d.NoPages, len(d.Pages))
	}

	var paragraphs, lines, words int
	var table TableCoords
	for pi := range d.Pages {
		p := &d.Pages[pi]
		if p.PageNo != pi+1 {
			return invariantf("page at index %d has pageNo %d", pi, p.PageNo)
		}
		if err := d.validatePage(p, &paragraphs, &lines, &words, &table); err != nil {
			return err
		}
	}

	if paragraphs != d.NoParagraphs {
		return invariantf("noParagraphs is %d but pages hold %d", d.NoParagraphs, paragraphs)
	}
	if lines != d.NoLines {
		return invariantf("noLines is %d but pages hold %d", d.NoLines, lines)
	}
	if words != d.NoWords {
		return invariantf("noWords is %d but pages hold %d", d.NoWords, words)
	}
	if table.TableNo != d.NoTables {
		return invariantf("noTables is %d but the last table is %d", d.NoTables, table.TableNo)
	}
	if d.NoFonts != len(d.Fonts) {
		return invariantf("noFonts is %d but the font table has %d entries", d.NoFonts, len(d.Fonts))
	}
	return nil
}

func (d *Document) validatePage(p *Page, paragraphs, lines, words *int, table *TableCoords) error {
	if p.NoParagraphsInPage != len(p.Paragraphs) {
		return invariantf("page %d: noParagraphsInPage is %d, have %d", p.PageNo, p.NoParagraphsInPage, len(p.Paragraphs))
	}
	if p.NoLinesInPage != len(p.Lines) {
		return invariantf("page %d: noLinesInPage is %d, have %d", p.PageNo, p.NoLinesInPage, len(p.Lines))
	}

	firstParagraph, firstLine, firstWord := *paragraphs+1, *lines+1, *words+1
	pageWords := 0
	for qi := range p.Paragraphs {
		para := &p.Paragraphs[qi]
		*paragraphs++
		if para.ParagraphNo != *paragraphs {
			return invariantf("page %d: paragraphNo %d out of sequence, want %d", p.PageNo, para.ParagraphNo, *paragraphs)
		}
		if para.ParagraphIndexPage != qi {
			return invariantf("paragraph %d: paragraphIndexPage is %d, want %d", para.ParagraphNo, para.ParagraphIndexPage, qi)
		}
		if para.Table != nil {
			if err := checkTableSequence(*table, *para.Table); err != nil {
				return invariantf("paragraph %d: %v", para.ParagraphNo, err)
			}
			*table = *para.Table
		}
		if para.NoWordsInParagraph != len(para.Words) {
			return invariantf("paragraph %d: noWordsInParagraph is %d, have %d", para.ParagraphNo, para.NoWordsInParagraph, len(para.Words))
		}
		for wi := range para.Words {
			w := &para.Words[wi]
			*words++
			if w.WordNo != *words {
				return invariantf("paragraph %d: wordNo %d out of sequence, want %d", para.ParagraphNo, w.WordNo, *words)
			}
			if w.WordIndexParagraph != wi || w.WordIndexPage != pageWords {
				return invariantf("word %d: index out of sequence", w.WordNo)
			}
			if !sameTable(w.Table, para.Table) {
				return invariantf("word %d: table coordinates differ from its paragraph", w.WordNo)
			}
			if !w.Type.Valid() {
				return invariantf("word %d: unknown type %q", w.WordNo, w.Type)
			}
			pageWords++
		}
		if err := checkRange("paragraph", para.ParagraphNo, "word", para.FirstWordNo, para.LastWordNo, len(para.Words), firstNo(para.Words)); err != nil {
			return err
		}
	}
	if p.NoWordsInPage != pageWords {
		return invariantf("page %d: noWordsInPage is %d, have %d", p.PageNo, p.NoWordsInPage, pageWords)
	}

	if err := d.validateLines(p, lines); err != nil {
		return err
	}

	if err := checkRange("page", p.PageNo, "paragraph", p.FirstParagraphNo, p.LastParagraphNo, len(p.Paragraphs), firstParagraph); err != nil {
		return err
	}
	if err := checkRange("page", p.PageNo, "line", p.FirstLineNo, p.LastLineNo, len(p.Lines), firstLine); err != nil {
		return err
	}
	return checkRange("page", p.PageNo, "word", p.FirstWordNo, p.LastWordNo, pageWords, firstWord)
}

// validateLines checks line numbering and that the lines of each paragraph
// are contiguous and partition the paragraph's words in order.
func (d *Document) validateLines(p *Page, lines *int) error {
	type cursor struct {
		lines    int
		nextWord int
		firstNo  int
	}
	cursors := make([]cursor, len(p.Paragraphs))
	prevParagraph := -1

	for li := range p.Lines {
		l := &p.Lines[li]
		*lines++
		if l.LineNo != *lines {
			return invariantf("page %d: lineNo %d out of sequence, want %d", p.PageNo, l.LineNo, *lines)
		}
		if l.LineIndexPage != li {
			return invariantf("line %d: lineIndexPage is %d, want %d", l.LineNo, l.LineIndexPage, li)
		}
		if l.ParagraphIndexPage < 0 || l.ParagraphIndexPage >= len(p.Paragraphs) {
			return invariantf("line %d: paragraph index %d out of range", l.LineNo, l.ParagraphIndexPage)
		}
		if l.ParagraphIndexPage < prevParagraph {
			return invariantf("line %d: paragraphs out of order", l.LineNo)
		}
		prevParagraph = l.ParagraphIndexPage

		para := &p.Paragraphs[l.ParagraphIndexPage]
		c := &cursors[l.ParagraphIndexPage]
		if l.ParagraphNo != para.ParagraphNo {
			return invariantf("line %d: paragraphNo is %d, want %d", l.LineNo, l.ParagraphNo, para.ParagraphNo)
		}
		if l.LineIndexParagraph != c.lines {
			return invariantf("line %d: lineIndexParagraph is %d, want %d", l.LineNo, l.LineIndexParagraph, c.lines)
		}
		if c.lines == 0 {
			c.firstNo = l.LineNo
		}
		c.lines++

		if l.WordIndexFirst != c.nextWord {
			return invariantf("line %d: wordIndexFirst is %d, want %d", l.LineNo, l.WordIndexFirst, c.nextWord)
		}
		if l.WordIndexLast < l.WordIndexFirst-1 || l.WordIndexLast >= len(para.Words) {
			return invariantf("line %d: word range [%d,%d] outside paragraph", l.LineNo, l.WordIndexFirst, l.WordIndexLast)
		}
		for wi := l.WordIndexFirst; wi <= l.WordIndexLast; wi++ {
			w := &para.Words[wi]
			if w.LineNo != l.LineNo || w.WordIndexLine != wi-l.WordIndexFirst {
				return invariantf("word %d: does not belong to line %d", w.WordNo, l.LineNo)
			}
		}
		c.nextWord = l.WordIndexLast + 1

		if !sameTable(l.Table, para.Table) {
			return invariantf("line %d: table coordinates differ from its paragraph", l.LineNo)
		}
		if !l.Type.Valid() {
			return invariantf("line %d: unknown type %q", l.LineNo, l.Type)
		}
	}

	for qi := range p.Paragraphs {
		para, c := &p.Paragraphs[qi], cursors[qi]
		if c.nextWord != len(para.Words) {
			return invariantf("paragraph %d: lines cover %d of %d words", para.ParagraphNo, c.nextWord, len(para.Words))
		}
		if para.NoLinesInParagraph != c.lines {
			return invariantf("paragraph %d: noLinesInParagraph is %d, have %d", para.ParagraphNo, para.NoLinesInParagraph, c.lines)
		}
		if err := checkRange("paragraph", para.ParagraphNo, "line", para.FirstLineNo, para.LastLineNo, c.lines, c.firstNo); err != nil {
			return err
		}
	}
	return nil
}

func checkRange(owner string, ownerNo int, item string, first, last, n, want int) error {
	if n == 0 {
		if first != 0 || last != 0 {
			return invariantf("%s %d: empty but %s range is [%d,%d]", owner, ownerNo, item, first, last)
		}
		return nil
	}
	if first != want || last != want+n-1 {
		return invariantf("%s %d: %s range is [%d,%d], want [%d,%d]", owner, ownerNo, item, first, last, want, want+n-1)
	}
	return nil
}

func firstNo(words []Word) int {
	if len(words) == 0 {
		return 0
	}
	return words[0].WordNo
}

func checkTableSequence(last, tc TableCoords) error {
	d := Document{lastTable: last}
	return d.checkTable(tc)
}

func sameTable(a, b *TableCoords) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// CheckLineTexts verifies that the text of every line with words starts with
// the text of its first word, both whitespace-normalized. All violations are
// returned joined.
func (d *Document) CheckLineTexts() error {
	var errs []error
	for _, ref := range d.LineRefs() {
		words := d.LineWords(ref)
		if len(words) == 0 {
			continue
		}
		l := d.Line(ref)
		if !strings.HasPrefix(NormalizeText(l.Text), NormalizeText(words[0].Text)) {
			errs = append(errs, invariantf("line %d: text %q does not start with first word %q", l.LineNo, l.Text, words[0].Text))
		}
	}
	return errors.Join(errs...)
}
