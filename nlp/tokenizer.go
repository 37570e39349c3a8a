// Package nlp tokenizes the line texts of a document model.
//
// Lines are segmented into words with the Unicode text segmentation
// algorithm (UAX #29); whitespace segments are dropped and punctuation is
// kept unless excluded. Each token carries the attributes selected by an
// [Attr] set.
package nlp

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/clipperhouse/uax29/v2/words"

	"github.com/tsawler/docstruct/errs"
	"github.com/tsawler/docstruct/model"
)

// DefaultPipeline names the built-in segmentation.
const DefaultPipeline = "uax29"

// Config holds configuration for the tokenizer
type Config struct {
	// Pipeline is recorded in the output
	// Default: "uax29"
	Pipeline string

	// Attributes selects the emitted token attributes
	// Default: DefaultAttrs
	Attributes Attr

	// ExcludePunctuation drops punctuation tokens
	// Default: false
	ExcludePunctuation bool

	// JSON cosmetics of the written file
	Indent   int
	SortKeys bool

	// Logger receives debug output; nil discards it
	Logger *slog.Logger
}

// DefaultConfig returns sensible default configuration
func DefaultConfig() Config {
	return Config{
		Pipeline:   DefaultPipeline,
		Attributes: DefaultAttrs,
		Indent:     2,
	}
}

// Token is one token with its selected attributes keyed by name.
type Token map[string]any

// LineTokens holds the tokens of one line.
type LineTokens struct {
	LineNo   int            `json:"lineNo"`
	LineType model.LineType `json:"lineType"`
	Tokens   []Token        `json:"tokens"`
}

// PageTokens holds the tokenized lines of one page.
type PageTokens struct {
	PageNo int          `json:"pageNo"`
	Lines  []LineTokens `json:"lines"`
}

// Output is the token sidecar of a document.
type Output struct {
	DocumentID       int          `json:"documentId"`
	DocumentFileName string       `json:"documentFileName"`
	Pipeline         string       `json:"pipeline"`
	Attributes       []string     `json:"attributes"`
	NoTokens         int          `json:"noTokens"`
	Pages            []PageTokens `json:"pages"`
}

// Tokenizer segments line texts.
type Tokenizer struct {
	config Config
	logger *slog.Logger
}

// New creates a tokenizer.
func New(config Config) *Tokenizer {
	if config.Pipeline == "" {
		config.Pipeline = DefaultPipeline
	}
	if config.Attributes == 0 {
		config.Attributes = DefaultAttrs
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Tokenizer{config: config, logger: logger}
}

// Tokenize tokenizes every line of doc.
func (t *Tokenizer) Tokenize(doc *model.Document) *Output {
	out := &Output{
		DocumentID:       doc.DocumentID,
		DocumentFileName: doc.DocumentFileName,
		Pipeline:         t.config.Pipeline,
		Attributes:       t.config.Attributes.Names(),
		Pages:            make([]PageTokens, 0, len(doc.Pages)),
	}
	for _, p := range doc.Pages {
		pt := PageTokens{PageNo: p.PageNo, Lines: make([]LineTokens, 0, len(p.Lines))}
		for _, l := range p.Lines {
			tokens := t.Line(l.Text)
			out.NoTokens += len(tokens)
			pt.Lines = append(pt.Lines, LineTokens{LineNo: l.LineNo, LineType: l.Type, Tokens: tokens})
		}
		out.Pages = append(out.Pages, pt)
	}
	t.logger.Debug("document tokenized", "document", doc.DocumentFileName, "tokens", out.NoTokens)
	return out
}

// Line tokenizes one text.
func (t *Tokenizer) Line(text string) []Token {
	tokens := make([]Token, 0)
	seg := words.FromString(text)
	offset := 0
	for seg.Next() {
		value := seg.Value()
		start := offset
		offset += len(value)

		k := classify(value)
		if k == kindSpace || (k == kindPunct && t.config.ExcludePunctuation) {
			continue
		}
		tokens = append(tokens, t.token(value, start, k))
	}
	return tokens
}

type kind int

const (
	kindWord kind = iota
	kindSpace
	kindPunct
)

func classify(s string) kind {
	space, punct := true, true
	for _, r := range s {
		if !unicode.IsSpace(r) {
			space = false
		}
		if !unicode.IsPunct(r) && !unicode.IsSymbol(r) {
			punct = false
		}
	}
	switch {
	case space:
		return kindSpace
	case punct:
		return kindPunct
	}
	return kindWord
}

func (t *Tokenizer) token(s string, offset int, k kind) Token {
	a := t.config.Attributes
	tok := make(Token, a.Len())
	if a.Has(AttrText) {
		tok["text"] = s
	}
	if a.Has(AttrLower) {
		tok["lower"] = strings.ToLower(s)
	}
	if a.Has(AttrShape) {
		tok["shape"] = Shape(s)
	}
	if a.Has(AttrOffset) {
		tok["offset"] = offset
	}
	if a.Has(AttrLength) {
		tok["length"] = utf8.RuneCountInString(s)
	}
	if a.Has(AttrIsAlpha) {
		tok["isAlpha"] = all(s, unicode.IsLetter)
	}
	if a.Has(AttrIsDigit) {
		tok["isDigit"] = all(s, unicode.IsDigit)
	}
	if a.Has(AttrIsPunct) {
		tok["isPunct"] = k == kindPunct
	}
	if a.Has(AttrIsUpper) {
		tok["isUpper"] = hasLetter(s) && strings.ToUpper(s) == s
	}
	if a.Has(AttrIsTitle) {
		r, size := utf8.DecodeRuneInString(s)
		tok["isTitle"] = unicode.IsUpper(r) && strings.ToLower(s[size:]) == s[size:] && hasLetter(s[size:])
	}
	return tok
}

func all(s string, pred func(rune) bool) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !pred(r) {
			return false
		}
	}
	return true
}

func hasLetter(s string) bool {
	return strings.IndexFunc(s, unicode.IsLetter) >= 0
}

// Shape maps letters to x/X and digits to d, keeping other runes, and cuts
// runs of the same class after four.
func Shape(s string) string {
	var b strings.Builder
	var last rune
	run := 0
	for _, r := range s {
		c := r
		switch {
		case unicode.IsUpper(r):
			c = 'X'
		case unicode.IsLetter(r):
			c = 'x'
		case unicode.IsDigit(r):
			c = 'd'
		}
		if c == last {
			run++
		} else {
			last, run = c, 1
		}
		if run <= 4 {
			b.WriteRune(c)
		}
	}
	return b.String()
}

// TokenizeFile reads the document JSON at inPath and writes its tokens to
// outPath. A missing input fails with 71.901.
func (t *Tokenizer) TokenizeFile(inPath, outPath string) error {
	data, err := os.ReadFile(inPath)
	if errors.Is(err, os.ErrNotExist) {
		return errs.Wrap(errs.CodeTokenizerMissing, err, "tokenizer input '%s' is missing", inPath)
	}
	if err != nil {
		return fmt.Errorf("read %s: %w", inPath, err)
	}
	doc, err := model.Load(data)
	if err != nil {
		return fmt.Errorf("tokenizer input %s: %w", inPath, err)
	}
	return t.Write(doc, outPath)
}

// Write tokenizes doc and writes the result to outPath.
func (t *Tokenizer) Write(doc *model.Document, outPath string) error {
	data, err := model.Marshal(t.Tokenize(doc), t.config.Indent, t.config.SortKeys)
	if err != nil {
		return fmt.Errorf("encode tokens: %w", err)
	}
	if err := os.WriteFile(outPath, data, 0o644); err != nil {
		return errs.Wrap(errs.CodeOutputWrite, err, "cannot write '%s'", outPath)
	}
	return nil
}
