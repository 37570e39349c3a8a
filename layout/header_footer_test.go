package layout

import (
	"fmt"
	"testing"

	"github.com/tsawler/docstruct/model"
)

func headerOnly(maxLines int) HeaderFooterConfig {
	config := DefaultHeaderFooterConfig()
	config.HeaderMaxLines = maxLines
	config.FooterMaxLines = 0
	return config
}

func TestHeaderFooterDetector_NoPages(t *testing.T) {
	doc := buildDoc(t)

	result := NewHeaderFooterDetector().Detect(doc)

	if result.HasHeadersOrFooters() {
		t.Error("expected no headers or footers for empty document")
	}
	if doc.NoLinesHeader != 0 || doc.NoLinesFooter != 0 {
		t.Errorf("expected zero counters, got %d/%d", doc.NoLinesHeader, doc.NoLinesFooter)
	}
}

func TestHeaderFooterDetector_SinglePage(t *testing.T) {
	doc := buildDoc(t, page(72, "ACME Confidential", "Some text", "Page 1"))

	result := NewHeaderFooterDetector().Detect(doc)

	if result.HasHeadersOrFooters() {
		t.Errorf("expected no confirmed rows on a single page, got %+v", result)
	}
	for _, lt := range lineTypes(doc) {
		if lt != model.LineTypeBody {
			t.Errorf("expected body, got %s", lt)
		}
	}
}

func TestHeaderFooterDetector_CoverPageTolerated(t *testing.T) {
	pages := [][]testPara{page(72, "Annual Report 2024", "Prepared for the board")}
	for i := 2; i <= 10; i++ {
		pages = append(pages, page(72, "ACME Confidential", fmt.Sprintf("Section %d discusses topic %d in detail", i, i*7)))
	}
	doc := buildDoc(t, pages...)

	result := NewHeaderFooterDetectorWithConfig(headerOnly(1)).Detect(doc)

	if len(result.HeaderRows) != 1 || result.HeaderRows[0] != 0 {
		t.Fatalf("expected header row 0, got %v", result.HeaderRows)
	}
	if got := doc.Pages[0].Lines[0].Type; got != model.LineTypeBody {
		t.Errorf("expected cover line to stay body, got %s", got)
	}
	for pi := 1; pi < 10; pi++ {
		if got := doc.Pages[pi].Lines[0].Type; got != model.LineTypeHeader {
			t.Errorf("page %d: expected header, got %s", pi+1, got)
		}
	}
	if doc.NoLinesHeader != 9 {
		t.Errorf("expected 9 header lines, got %d", doc.NoLinesHeader)
	}
	checkWordTypes(t, doc)
}

func TestHeaderFooterDetector_PageNumberFooters(t *testing.T) {
	var pages [][]testPara
	texts := []string{"Introduction to the topic", "Methods were applied", "Results are shown", "Discussion follows", "Conclusions drawn"}
	for i, text := range texts {
		pages = append(pages, page(72, text, fmt.Sprintf("Page %d", i+1)))
	}
	doc := buildDoc(t, pages...)

	config := DefaultHeaderFooterConfig()
	config.HeaderMaxLines = 0
	config.FooterMaxLines = 1
	result := NewHeaderFooterDetectorWithConfig(config).Detect(doc)

	if !result.HasFooters() || result.HasHeaders() {
		t.Fatalf("expected footers only, got %+v", result)
	}
	if doc.NoLinesFooter != 5 {
		t.Errorf("expected 5 footer lines, got %d", doc.NoLinesFooter)
	}
	for _, text := range texts {
		if got := typeOf(t, doc, text); got != model.LineTypeBody {
			t.Errorf("%q: expected body, got %s", text, got)
		}
	}
}

func TestHeaderFooterDetector_TwoPagesNeedBoth(t *testing.T) {
	tests := []struct {
		name  string
		first string
		want  int
	}{
		{"matching", "ACME Confidential", 2},
		{"differing", "Cover sheet", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := buildDoc(t,
				page(72, tt.first, "First body line"),
				page(72, "ACME Confidential", "Second body line"),
			)
			NewHeaderFooterDetectorWithConfig(headerOnly(1)).Detect(doc)
			if doc.NoLinesHeader != tt.want {
				t.Errorf("expected %d header lines, got %d", tt.want, doc.NoLinesHeader)
			}
		})
	}
}

func TestHeaderFooterDetector_Disabled(t *testing.T) {
	doc := buildDoc(t,
		page(72, "Same", "Body one"),
		page(72, "Same", "Body two"),
		page(72, "Same", "Body three"),
	)
	config := DefaultHeaderFooterConfig()
	config.HeaderMaxLines = 0
	config.FooterMaxLines = 0

	result := NewHeaderFooterDetectorWithConfig(config).Detect(doc)

	if result.HasHeadersOrFooters() {
		t.Errorf("expected detection disabled, got %+v", result)
	}
}

func TestHeaderFooterDetector_HeaderWinsOverFooter(t *testing.T) {
	doc := buildDoc(t,
		page(72, "Draft"),
		page(72, "Draft"),
		page(72, "Draft"),
	)

	NewHeaderFooterDetector().Detect(doc)

	if doc.NoLinesHeader != 3 {
		t.Errorf("expected 3 header lines, got %d", doc.NoLinesHeader)
	}
	if doc.NoLinesFooter != 0 {
		t.Errorf("expected no footer lines, got %d", doc.NoLinesFooter)
	}
}

func TestHeaderFooterDetector_SkipsClassifiedLines(t *testing.T) {
	doc := buildDoc(t,
		[]testPara{cell(1, 1, 1, ln(72, "Same")), para(ln(72, "One"))},
		[]testPara{cell(2, 1, 1, ln(72, "Same")), para(ln(72, "Two"))},
		[]testPara{cell(3, 1, 1, ln(72, "Same")), para(ln(72, "Three"))},
	)

	NewHeaderFooterDetectorWithConfig(headerOnly(1)).Detect(doc)

	if doc.NoLinesHeader != 0 {
		t.Errorf("expected table lines to keep their type, got %d header lines", doc.NoLinesHeader)
	}
}

func TestHeaderFooterDetector_Idempotent(t *testing.T) {
	doc := buildDoc(t,
		page(72, "ACME", "alpha beta", "Page 1"),
		page(72, "ACME", "gamma delta", "Page 2"),
		page(72, "ACME", "epsilon zeta", "Page 3"),
	)
	config := DefaultHeaderFooterConfig()
	config.HeaderMaxLines = 1
	config.FooterMaxLines = 1
	detector := NewHeaderFooterDetectorWithConfig(config)

	detector.Detect(doc)
	first := lineTypes(doc)
	header, footer := doc.NoLinesHeader, doc.NoLinesFooter

	detector.Detect(doc)
	second := lineTypes(doc)

	if doc.NoLinesHeader != header || doc.NoLinesFooter != footer {
		t.Errorf("counters changed: %d/%d -> %d/%d", header, footer, doc.NoLinesHeader, doc.NoLinesFooter)
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("line %d: %s -> %s", i, first[i], second[i])
		}
	}
	if header != 3 || footer != 3 {
		t.Errorf("expected 3 headers and 3 footers, got %d/%d", header, footer)
	}
}
