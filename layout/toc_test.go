package layout

import (
	"fmt"
	"testing"

	"github.com/tsawler/docstruct/model"
)

func tocConfig(minEntries int) TOCConfig {
	config := DefaultTOCConfig()
	config.MinEntries = minEntries
	return config
}

// filler returns n pages of plain text.
func filler(n int) [][]testPara {
	pages := make([][]testPara, n)
	for i := range pages {
		pages[i] = page(72, fmt.Sprintf("Plain text on a later page number %d here", i))
	}
	return pages
}

func TestTOCDetector_Lines(t *testing.T) {
	pages := [][]testPara{
		page(72, "A Study of Things"),
		page(72, "Contents", "Chapter 1 ........ 3", "Chapter 2 ........ 7", "Chapter 3 ........ 12"),
	}
	pages = append(pages, filler(10)...)
	doc := buildDoc(t, pages...)

	result := NewTOCDetectorWithConfig(tocConfig(3)).Detect(doc)

	if result.Strategy != TOCStrategyLines {
		t.Fatalf("expected lines strategy, got %q", result.Strategy)
	}
	if len(result.Entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(result.Entries))
	}
	want := []int{3, 7, 12}
	for i, e := range result.Entries {
		if e.PageNoInTOC != want[i] || e.PageNo != 2 {
			t.Errorf("entry %d: got %+v", i, e)
		}
	}
	if doc.NoLinesTOC != 3 {
		t.Errorf("expected 3 toc lines, got %d", doc.NoLinesTOC)
	}
	if got := typeOf(t, doc, "Contents"); got != model.LineTypeBody {
		t.Errorf("expected heading line to stay body, got %s", got)
	}
	checkWordTypes(t, doc)
}

func TestTOCDetector_TooFewEntries(t *testing.T) {
	pages := [][]testPara{page(72, "Chapter 1 ........ 3", "Chapter 2 ........ 7", "Chapter 3 ........ 12")}
	pages = append(pages, filler(11)...)
	doc := buildDoc(t, pages...)

	result := NewTOCDetector().Detect(doc)

	if result.Found() {
		t.Errorf("expected no toc with default minimum, got %+v", result)
	}
	if doc.NoLinesTOC != 0 {
		t.Errorf("expected 0 toc lines, got %d", doc.NoLinesTOC)
	}
}

func TestTOCDetector_Validation(t *testing.T) {
	tests := []struct {
		name  string
		lines []string
		want  int
	}{
		{"ascending", []string{"Intro 1", "Body 2", "End 3"}, 3},
		{"equal pages allowed", []string{"Intro 1", "Body 1", "End 3"}, 3},
		{"beyond last page", []string{"Intro 1", "Body 2", "End 9"}, 0},
		{"decreasing", []string{"Intro 2", "Body 1", "End 3"}, 0},
		{"trailing period", []string{"Intro 1.", "Body 2.", "End 3."}, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := buildDoc(t, page(72, tt.lines...), page(72, "x y"), page(72, "y z"))
			NewTOCDetectorWithConfig(tocConfig(3)).Detect(doc)
			if doc.NoLinesTOC != tt.want {
				t.Errorf("expected %d toc lines, got %d", tt.want, doc.NoLinesTOC)
			}
		})
	}
}

func TestTOCDetector_MissesBreakSequence(t *testing.T) {
	doc := buildDoc(t,
		page(72, "Intro 1", "one", "two", "three", "four", "Body 2", "End 3"),
		page(72, "x y"), page(72, "y z"),
	)

	NewTOCDetectorWithConfig(tocConfig(2)).Detect(doc)

	if doc.NoLinesTOC != 0 {
		t.Errorf("expected sequence broken after four misses, got %d toc lines", doc.NoLinesTOC)
	}

	doc = buildDoc(t,
		page(72, "Intro 1", "one", "two", "three", "Body 2", "End 3"),
		page(72, "x y"), page(72, "y z"),
	)
	NewTOCDetectorWithConfig(tocConfig(3)).Detect(doc)
	if doc.NoLinesTOC != 3 {
		t.Errorf("expected three misses tolerated, got %d toc lines", doc.NoLinesTOC)
	}
}

func TestTOCDetector_MissesCountAcrossPages(t *testing.T) {
	pages := [][]testPara{
		page(72, "Intro 1", "Method 2", "one", "two"),
		page(72, "three", "four", "Results 3", "End 3"),
	}
	doc := buildDoc(t, append(pages, filler(2)...)...)

	NewTOCDetectorWithConfig(tocConfig(3)).Detect(doc)

	if doc.NoLinesTOC != 0 {
		t.Errorf("expected four misses over a page break to break the sequence, got %d toc lines", doc.NoLinesTOC)
	}

	pages = [][]testPara{
		page(72, "Intro 1", "Method 2", "one", "two"),
		page(72, "three", "Results 3"),
	}
	doc = buildDoc(t, append(pages, filler(2)...)...)

	NewTOCDetectorWithConfig(tocConfig(3)).Detect(doc)

	if doc.NoLinesTOC != 3 {
		t.Errorf("expected three misses over a page break tolerated, got %d toc lines", doc.NoLinesTOC)
	}
}

func TestTOCDetector_Table(t *testing.T) {
	var rows []testPara
	for i := 1; i <= 5; i++ {
		rows = append(rows,
			cell(1, i, 1, ln(72, fmt.Sprintf("Chapter %d", i))),
			cell(1, i, 2, ln(400, fmt.Sprint(i+1))),
		)
	}
	pages := [][]testPara{rows}
	pages = append(pages, filler(6)...)
	doc := buildDoc(t, pages...)

	result := NewTOCDetector().Detect(doc)

	if result.Strategy != TOCStrategyTable {
		t.Fatalf("expected table strategy, got %q", result.Strategy)
	}
	if len(result.Entries) != 5 {
		t.Fatalf("expected 5 entries, got %d", len(result.Entries))
	}
	if doc.NoLinesTOC != 10 {
		t.Errorf("expected both cells of every row typed toc, got %d", doc.NoLinesTOC)
	}

	NewTOCDetector().Detect(doc)
	if doc.NoLinesTOC != 10 {
		t.Errorf("expected repeated detection to give 10 toc lines, got %d", doc.NoLinesTOC)
	}
}

func TestTOCDetector_PageLimit(t *testing.T) {
	pages := filler(2)
	pages = append(pages, page(72, "Intro 1", "Body 2", "End 3"))
	doc := buildDoc(t, pages...)

	config := tocConfig(3)
	config.LastPage = 2
	NewTOCDetectorWithConfig(config).Detect(doc)
	if doc.NoLinesTOC != 0 {
		t.Errorf("expected entries beyond last page ignored, got %d", doc.NoLinesTOC)
	}

	config.LastPage = 0
	if result := NewTOCDetectorWithConfig(config).Detect(doc); result.Found() {
		t.Error("expected detection disabled")
	}
}

func TestPositiveInt(t *testing.T) {
	tests := []struct {
		in   string
		want int
		ok   bool
	}{
		{"12", 12, true},
		{" 3 ", 3, true},
		{"0", 0, false},
		{"-2", 0, false},
		{"iv", 0, false},
		{"", 0, false},
	}
	for _, tt := range tests {
		got, ok := positiveInt(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("positiveInt(%q) = %d, %v; want %d, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}
