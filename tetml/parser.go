// Package tetml builds a [model.Document] from the TETML output of the PDFlib
// Text and Image Extraction Toolkit.
//
// A document is extracted twice, once at word granularity and once at line
// granularity. The word pass creates every page, paragraph, line and word;
// the line pass fills in line texts and cross-checks them against the words
// of the word pass.
//
// Elements are dispatched through a parent/child table. Every child element
// whose pair is missing from the table is recorded as an issue, as are line
// count and line prefix mismatches between the passes. Issues do not stop a
// pass, but a parse with at least one issue fails with a single error that
// carries the issue count and wraps every issue.
package tetml

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/tsawler/docstruct/errs"
	"github.com/tsawler/docstruct/model"
)

// Options configures a Parser.
type Options struct {
	// DocumentID is copied into the document.
	DocumentID int
	// FileName is copied into the document. When empty, the file name from
	// the TETML Document element is used.
	FileName string
	// RecordFonts fills the document's font table from the Resources
	// section.
	RecordFonts bool
	// Logger receives debug output for every issue; nil discards it.
	Logger *slog.Logger
}

// Parser parses a word/line TETML pair into a document.
type Parser struct {
	opts   Options
	logger *slog.Logger
	issues errs.Issues
}

// NewParser creates a parser.
func NewParser(opts Options) *Parser {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Parser{opts: opts, logger: logger}
}

// Issues returns the issues recorded by the last parse.
func (p *Parser) Issues() []*errs.Error {
	return p.issues.List()
}

// ParseFiles parses the TETML files written at word and line granularity.
func (p *Parser) ParseFiles(wordXML, lineXML string) (*model.Document, error) {
	word, err := openXML(wordXML)
	if err != nil {
		return nil, err
	}
	defer word.Close()

	line, err := openXML(lineXML)
	if err != nil {
		return nil, err
	}
	defer line.Close()

	return p.Parse(word, line)
}

func openXML(path string) (*os.File, error) {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, errs.New(errs.CodeXMLNotFound, "XML file not found: %s", path)
	}
	if err != nil {
		return nil, errs.Wrap(errs.CodeXMLNotFound, err, "failed to open %s", path)
	}
	return f, nil
}

// Parse parses TETML read from word (word granularity) and line (line
// granularity).
func (p *Parser) Parse(word, line io.Reader) (*model.Document, error) {
	p.issues = errs.Issues{}

	wordRoot, err := readTree(word)
	if err != nil {
		return nil, err
	}
	lineRoot, err := readTree(line)
	if err != nil {
		return nil, err
	}

	doc := model.NewDocument(p.opts.DocumentID, p.opts.FileName)
	wp := &wordPass{parser: p, doc: doc, page: -1, para: -1, line: -1}
	if err := p.walk(wordRoot, wp); err != nil {
		return nil, err
	}
	if doc.DocumentFileName == "" {
		doc.DocumentFileName = wp.fileName
	}

	lp := &linePass{parser: p, doc: doc, page: -1}
	if err := p.walk(lineRoot, lp); err != nil {
		return nil, err
	}
	lp.finish()

	p.logger.Debug("parsed TETML",
		"pages", doc.NoPages,
		"paragraphs", doc.NoParagraphs,
		"lines", doc.NoLines,
		"words", doc.NoWords,
		"issues", p.issues.Len())

	if err := p.issues.Err(errs.CodeXMLIssues); err != nil {
		return nil, err
	}
	return doc, nil
}

// ParseFiles parses a word/line TETML pair with the given options.
func ParseFiles(wordXML, lineXML string, opts Options) (*model.Document, error) {
	return NewParser(opts).ParseFiles(wordXML, lineXML)
}

func (p *Parser) issue(code errs.Code, format string, args ...any) {
	n := p.issues.Add(code, format, args...)
	p.logger.Debug("parse issue", "number", n, "code", string(code), "message", fmt.Sprintf(format, args...))
}

// visitor receives the elements of a walk. leave is called after the
// element's subtree was visited.
type visitor interface {
	enter(n *node) error
	leave(n *node) error
}

func (p *Parser) walk(n *node, v visitor) error {
	if err := v.enter(n); err != nil {
		return err
	}
	for _, c := range n.children {
		switch edges[edge{n.kind, c.kind}] {
		case descend:
			if err := p.walk(c, v); err != nil {
				return err
			}
		case skip:
		default:
			p.issue(errs.CodeXMLUnknownChild, "parent '%s' has unknown child '%s'", n.name, c.name)
		}
	}
	return v.leave(n)
}

// wordPass builds the document structure.
type wordPass struct {
	parser *Parser
	doc    *model.Document

	page, para, line int
	fileName         string

	tableNo int
	rowNo   int
	cellNo  int
	cell    *model.TableCoords
}

func (w *wordPass) enter(n *node) error {
	var err error
	switch n.kind {
	case KindDocument:
		if name := n.attr("filename"); name != "" {
			w.fileName = filepath.Base(name)
		}
	case KindDocInfo:
		w.doc.CreationDate = n.childText(KindCreationDate)
		w.doc.ModDate = n.childText(KindModDate)
		w.doc.Producer = n.childText(KindProducer)
	case KindFonts:
		if w.parser.opts.RecordFonts {
			w.recordFonts(n)
		}
	case KindPage:
		w.page = w.doc.AppendPage()
		w.para, w.line = -1, -1
	case KindTable:
		w.tableNo++
		w.rowNo = 0
	case KindRow:
		w.rowNo++
		w.cellNo = 1
	case KindCell:
		span := 1
		if s := int(n.float("colSpan")); s > 1 {
			span = s
		}
		w.cell = &model.TableCoords{TableNo: w.tableNo, RowNo: w.rowNo, CellNo: w.cellNo, CellSpan: span}
	case KindPara:
		w.para, err = w.doc.AppendParagraph(w.page, w.cell)
	case KindLine:
		w.line, err = w.doc.AppendLine(w.page, w.para, n.float("llx"), n.float("urx"))
	case KindWord:
		_, err = w.doc.AppendWord(w.page, w.para, w.line, wordInfo(n))
	}
	if err != nil {
		return errs.Wrap(errs.CodeXMLMalformed, err, "inconsistent structure on page %d", w.page+1)
	}
	return nil
}

func (w *wordPass) leave(n *node) error {
	if n.kind == KindCell {
		w.cellNo += w.cell.CellSpan
		w.cell = nil
	}
	return nil
}

func (w *wordPass) recordFonts(n *node) {
	for _, f := range n.children {
		if f.kind != KindFont {
			continue
		}
		w.doc.AddFont(model.Font{
			ID:          f.attr("id"),
			Name:        f.attr("name"),
			FullName:    f.attr("fullname"),
			Type:        f.attr("type"),
			Embedded:    f.attr("embedded") == "true",
			ItalicAngle: f.float("italicangle"),
			Weight:      int(f.float("weight")),
		})
	}
}

// wordInfo reads a Word element: its text from the Text child, its geometry
// from the Box child and its font from the box's first glyph.
func wordInfo(n *node) model.WordInfo {
	info := model.WordInfo{Text: model.NormalizeText(n.childText(KindText))}
	box := n.child(KindBox)
	if box == nil {
		info.LLX, info.URX = n.float("llx"), n.float("urx")
		return info
	}
	info.LLX, info.URX = box.float("llx"), box.float("urx")
	if g := box.child(KindGlyph); g != nil {
		info.FontID = g.attr("font")
		info.FontSize = g.float("size")
	}
	return info
}

// linePass assigns line texts.
type linePass struct {
	parser *Parser
	doc    *model.Document

	page      int
	lineIndex int
	seen      int
	pagesSeen int
}

func (l *linePass) enter(n *node) error {
	switch n.kind {
	case KindPage:
		l.page++
		l.pagesSeen++
		l.lineIndex = 0
	case KindLine:
		l.assign(n)
		l.lineIndex++
		l.seen++
	}
	return nil
}

func (l *linePass) leave(n *node) error {
	if n.kind != KindPage || l.page >= len(l.doc.Pages) {
		return nil
	}
	if want := len(l.doc.Pages[l.page].Lines); l.lineIndex != want {
		l.parser.issue(errs.CodeXMLLineCount, "page %d: line count mismatch: word pass %d, line pass %d",
			l.page+1, want, l.lineIndex)
	}
	return nil
}

func (l *linePass) assign(n *node) {
	ref := model.LineRef{Page: l.page, Line: l.lineIndex}
	line := l.doc.Line(ref)
	if line == nil {
		// reported as a count mismatch by finish
		return
	}

	text := model.NormalizeText(n.childText(KindText))
	if words := l.doc.LineWords(ref); len(words) > 0 {
		first := model.NormalizeText(words[0].Text)
		if !strings.HasPrefix(text, first) {
			l.parser.issue(errs.CodeXMLLinePrefix,
				"page %d line %d: text %q does not start with first word %q",
				l.page+1, l.lineIndex, text, first)
		}
	}
	line.Text = text
}

func (l *linePass) finish() {
	if l.pagesSeen != l.doc.NoPages {
		l.parser.issue(errs.CodeXMLLineCount, "page count mismatch: word pass %d, line pass %d", l.doc.NoPages, l.pagesSeen)
	}
	if l.seen != l.doc.NoLines {
		l.parser.issue(errs.CodeXMLLineCount, "line count mismatch: word pass %d, line pass %d", l.doc.NoLines, l.seen)
	}
}
