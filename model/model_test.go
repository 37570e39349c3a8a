package model

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

// testLine is one line of a test paragraph.
type testLine []string

// buildDocument creates a document from pages of paragraphs of lines of words.
func buildDocument(t *testing.T, pages [][][]testLine) *Document {
	t.Helper()
	d := NewDocument(7, "test.pdf")
	for _, paragraphs := range pages {
		page := d.AppendPage()
		for _, lines := range paragraphs {
			para, err := d.AppendParagraph(page, nil)
			if err != nil {
				t.Fatalf("AppendParagraph: %v", err)
			}
			for i, words := range lines {
				line, err := d.AppendLine(page, para, 72+float64(i), 500)
				if err != nil {
					t.Fatalf("AppendLine: %v", err)
				}
				for j, w := range words {
					if _, err := d.AppendWord(page, para, line, WordInfo{Text: w, LLX: 72 + float64(j*40), URX: 100 + float64(j*40)}); err != nil {
						t.Fatalf("AppendWord: %v", err)
					}
				}
				if err := d.SetLineText(LineRef{Page: page, Line: line}, strings.Join(words, " ")); err != nil {
					t.Fatalf("SetLineText: %v", err)
				}
			}
		}
	}
	return d
}

func sampleDocument(t *testing.T) *Document {
	return buildDocument(t, [][][]testLine{
		{
			{{"Hello", "world"}, {"second", "line", "here"}},
			{{"Another", "paragraph"}},
		},
		{},
		{
			{{"Last", "page"}, {}},
		},
	})
}

func TestNewDocumentIsEmpty(t *testing.T) {
	d := NewDocument(1, "empty.pdf")
	if err := d.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	data, err := d.Marshal(0, false)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if !bytes.Contains(data, []byte(`"pages":[]`)) {
		t.Errorf("expected empty pages array, got %s", data)
	}
	if !bytes.Contains(data, []byte(`"noPages":0`)) {
		t.Errorf("expected noPages 0, got %s", data)
	}
}

func TestCounters(t *testing.T) {
	d := sampleDocument(t)

	if d.NoPages != 3 || d.NoParagraphs != 3 || d.NoLines != 5 || d.NoWords != 9 {
		t.Fatalf("counters = pages %d paragraphs %d lines %d words %d", d.NoPages, d.NoParagraphs, d.NoLines, d.NoWords)
	}
	if err := d.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}

	var lines, paragraphs, words int
	for _, p := range d.Pages {
		lines += p.NoLinesInPage
		paragraphs += p.NoParagraphsInPage
		words += p.NoWordsInPage
	}
	if lines != d.NoLines || paragraphs != d.NoParagraphs || words != d.NoWords {
		t.Errorf("page sums = %d/%d/%d, want %d/%d/%d", lines, paragraphs, words, d.NoLines, d.NoParagraphs, d.NoWords)
	}

	empty := d.GetPage(2)
	if empty.FirstLineNo != 0 || empty.LastLineNo != 0 || empty.FirstWordNo != 0 {
		t.Errorf("empty page ranges should be zero: %+v", empty)
	}

	last := d.GetPage(3)
	if last.FirstLineNo != 4 || last.LastLineNo != 5 {
		t.Errorf("page 3 line range = [%d,%d], want [4,5]", last.FirstLineNo, last.LastLineNo)
	}
	wordless := last.Lines[1]
	if wordless.NoWords() != 0 || wordless.WordIndexLast >= wordless.WordIndexFirst {
		t.Errorf("wordless line range = [%d,%d]", wordless.WordIndexFirst, wordless.WordIndexLast)
	}
}

func TestLineWordsConcatenateToText(t *testing.T) {
	d := sampleDocument(t)
	for _, ref := range d.LineRefs() {
		l := d.Line(ref)
		if got := d.LineWordsText(ref); got != NormalizeText(l.Text) {
			t.Errorf("line %d: words %q, text %q", l.LineNo, got, l.Text)
		}
	}
	if err := d.CheckLineTexts(); err != nil {
		t.Errorf("CheckLineTexts: %v", err)
	}
}

func TestCheckLineTextsReportsPrefixViolation(t *testing.T) {
	d := sampleDocument(t)
	if err := d.SetLineText(LineRef{Page: 0, Line: 1}, "wrong text"); err != nil {
		t.Fatal(err)
	}
	err := d.CheckLineTexts()
	if err == nil {
		t.Fatal("expected prefix violation")
	}
	if !errors.Is(err, ErrInvariant) {
		t.Errorf("expected ErrInvariant, got %v", err)
	}
}

func TestAppendRejectsOutOfOrder(t *testing.T) {
	d := NewDocument(1, "x.pdf")
	if _, err := d.AppendParagraph(0, nil); !errors.Is(err, ErrInvariant) {
		t.Errorf("paragraph without page: got %v", err)
	}

	p0 := d.AppendPage()
	para, _ := d.AppendParagraph(p0, nil)
	d.AppendPage()

	if _, err := d.AppendParagraph(p0, nil); !errors.Is(err, ErrInvariant) {
		t.Errorf("paragraph on earlier page: got %v", err)
	}
	if _, err := d.AppendLine(p0, para, 0, 1); !errors.Is(err, ErrInvariant) {
		t.Errorf("line on earlier page: got %v", err)
	}
}

func TestAppendWordRequiresOwningLine(t *testing.T) {
	d := NewDocument(1, "x.pdf")
	page := d.AppendPage()
	p1, _ := d.AppendParagraph(page, nil)
	l1, _ := d.AppendLine(page, p1, 0, 10)
	p2, _ := d.AppendParagraph(page, nil)

	if _, err := d.AppendWord(page, p2, l1, WordInfo{Text: "x"}); !errors.Is(err, ErrInvariant) {
		t.Errorf("word for line of another paragraph: got %v", err)
	}
}

func TestTableCoordinates(t *testing.T) {
	tests := []struct {
		name    string
		coords  []TableCoords
		wantErr bool
	}{
		{"single cell", []TableCoords{{1, 1, 1, 1}}, false},
		{"rows contiguous", []TableCoords{{1, 1, 1, 1}, {1, 1, 2, 1}, {1, 2, 1, 2}, {2, 1, 1, 1}}, false},
		{"zero span", []TableCoords{{1, 1, 1, 0}}, true},
		{"row gap", []TableCoords{{1, 1, 1, 1}, {1, 3, 1, 1}}, true},
		{"new table not at row 1", []TableCoords{{1, 1, 1, 1}, {2, 2, 1, 1}}, true},
		{"table number decreases", []TableCoords{{2, 1, 1, 1}, {1, 1, 1, 1}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := NewDocument(1, "t.pdf")
			page := d.AppendPage()
			var err error
			for _, tc := range tt.coords {
				if _, err = d.AppendParagraph(page, &tc); err != nil {
					break
				}
			}
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil {
				if verr := d.Validate(); verr != nil {
					t.Errorf("Validate: %v", verr)
				}
			}
		})
	}
}

func TestTableBaseType(t *testing.T) {
	d := NewDocument(1, "t.pdf")
	page := d.AppendPage()
	para, _ := d.AppendParagraph(page, &TableCoords{TableNo: 1, RowNo: 1, CellNo: 1, CellSpan: 1})
	line, _ := d.AppendLine(page, para, 0, 10)
	d.AppendWord(page, para, line, WordInfo{Text: "cell"})

	if got := d.Pages[0].Lines[0].Type; got != LineTypeTable {
		t.Errorf("line type = %q, want table", got)
	}
	if got := d.Pages[0].Paragraphs[0].Words[0].Type; got != LineTypeTable {
		t.Errorf("word type = %q, want table", got)
	}
	if d.NoTables != 1 {
		t.Errorf("NoTables = %d, want 1", d.NoTables)
	}

	if err := d.SetType(LineRef{0, 0}, LineTypeTOC); err != nil {
		t.Fatal(err)
	}
	d.ResetType(Is(LineTypeTOC))
	if got := d.Pages[0].Lines[0].Type; got != LineTypeTable {
		t.Errorf("reset line type = %q, want table", got)
	}
}

func TestSetTypeRejectsUnknown(t *testing.T) {
	d := sampleDocument(t)
	if err := d.SetLineType(LineRef{0, 0}, "chapter"); !errors.Is(err, ErrInvariant) {
		t.Errorf("unknown type: got %v", err)
	}
	if err := d.SetLineType(LineRef{9, 0}, LineTypeBody); !errors.Is(err, ErrInvariant) {
		t.Errorf("missing line: got %v", err)
	}
	if err := d.SetWordType(WordRef{0, 0, 99}, LineTypeBody); !errors.Is(err, ErrInvariant) {
		t.Errorf("missing word: got %v", err)
	}
}

func TestSetTypeUpdatesWords(t *testing.T) {
	d := sampleDocument(t)
	ref := LineRef{Page: 0, Line: 1}
	if err := d.SetType(ref, HeadingType(2)); err != nil {
		t.Fatal(err)
	}
	for _, w := range d.LineWords(ref) {
		if w.Type != "heading_2" {
			t.Errorf("word %q type = %q", w.Text, w.Type)
		}
	}
	// words of the neighbouring line keep their type
	if w := d.Pages[0].Paragraphs[0].Words[0]; w.Type != LineTypeBody {
		t.Errorf("untouched word type = %q", w.Type)
	}
}

func TestLineType(t *testing.T) {
	tests := []struct {
		t       LineType
		valid   bool
		heading int
	}{
		{LineTypeBody, true, 0},
		{LineTypeTOC, true, 0},
		{HeadingType(1), true, 1},
		{HeadingType(12), true, 12},
		{"heading_0", false, 0},
		{"heading_x", false, 0},
		{"paragraph", false, 0},
	}
	for _, tt := range tests {
		if got := tt.t.Valid(); got != tt.valid {
			t.Errorf("%q.Valid() = %v, want %v", tt.t, got, tt.valid)
		}
		if got := tt.t.HeadingLevel(); got != tt.heading {
			t.Errorf("%q.HeadingLevel() = %d, want %d", tt.t, got, tt.heading)
		}
	}
}

func TestNormalizeText(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"  a \t b\n\nc  ", "a b c"},
		{"", ""},
		{"été", "été"},
		{" x y", "x y"},
	}
	for _, tt := range tests {
		if got := NormalizeText(tt.in); got != tt.want {
			t.Errorf("NormalizeText(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestRoundTrip(t *testing.T) {
	d := sampleDocument(t)
	d.Producer = "TET <5.4> & friends"
	d.Config = map[string]any{"jsonIndent": 4, "language": "eng"}
	d.AddFont(Font{ID: "F0", Name: "Helvetica", Embedded: false})
	d.SetType(LineRef{0, 0}, LineTypeHeader)

	for _, opts := range []struct {
		indent int
		sort   bool
	}{{0, false}, {4, false}, {2, true}} {
		first, err := d.Marshal(opts.indent, opts.sort)
		if err != nil {
			t.Fatalf("Marshal: %v", err)
		}
		loaded, err := Load(first)
		if err != nil {
			t.Fatalf("Load: %v", err)
		}
		second, err := loaded.Marshal(opts.indent, opts.sort)
		if err != nil {
			t.Fatalf("Marshal: %v", err)
		}
		if !bytes.Equal(first, second) {
			t.Errorf("indent=%d sort=%v: round trip differs\nfirst:  %s\nsecond: %s", opts.indent, opts.sort, first, second)
		}
	}
}

func TestMarshalDoesNotEscapeHTML(t *testing.T) {
	d := NewDocument(1, "a&b.pdf")
	data, err := d.Marshal(0, false)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Contains(data, []byte(`"a&b.pdf"`)) {
		t.Errorf("expected unescaped ampersand, got %s", data)
	}
}

func TestMarshalSortKeys(t *testing.T) {
	d := NewDocument(1, "a.pdf")
	data, err := d.Marshal(0, true)
	if err != nil {
		t.Fatal(err)
	}
	s := string(data)
	if strings.Index(s, `"creationDate"`) > strings.Index(s, `"documentId"`) {
		t.Errorf("keys not sorted: %s", s)
	}
}

func TestLoadRejectsBrokenCounters(t *testing.T) {
	d := sampleDocument(t)
	d.NoLines++
	data, err := d.Marshal(0, false)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := Load(data); !errors.Is(err, ErrInvariant) {
		t.Errorf("expected invariant violation, got %v", err)
	}
}

func TestLoadRejectsBadWordRange(t *testing.T) {
	d := sampleDocument(t)
	d.Pages[0].Lines[0].WordIndexLast = 0
	data, _ := d.Marshal(0, false)
	if _, err := Load(data); !errors.Is(err, ErrInvariant) {
		t.Errorf("expected invariant violation, got %v", err)
	}
}

func TestSchema(t *testing.T) {
	data, err := SchemaJSON()
	if err != nil {
		t.Fatalf("SchemaJSON: %v", err)
	}
	var s map[string]any
	if err := json.Unmarshal(data, &s); err != nil {
		t.Fatalf("schema is not JSON: %v", err)
	}
	props, ok := s["properties"].(map[string]any)
	if !ok {
		t.Fatalf("schema has no properties: %s", data)
	}
	for _, key := range []string{"documentId", "noLinesToc", "pages"} {
		if _, ok := props[key]; !ok {
			t.Errorf("schema lacks property %q", key)
		}
	}
}
