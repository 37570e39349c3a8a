package layout

import (
	"log/slog"
	"strconv"
	"strings"

	"github.com/tsawler/docstruct/model"
)

// maxTOCMisses is the number of non-matching lines tolerated between two
// candidate lines of the line strategy.
const maxTOCMisses = 3

// TOCConfig holds configuration for table-of-contents detection
type TOCConfig struct {
	// LastPage is the last page scanned for a table of contents.
	// 0 disables detection.
	// Default: 5
	LastPage int

	// MinEntries is the minimum number of entries of an accepted table
	// of contents
	// Default: 5
	MinEntries int

	// Logger receives debug output when Verbose is set
	Logger  *slog.Logger
	Verbose bool
}

// DefaultTOCConfig returns sensible default configuration
func DefaultTOCConfig() TOCConfig {
	return TOCConfig{
		LastPage:   5,
		MinEntries: 5,
	}
}

// TOCStrategy names the strategy that found a table of contents.
type TOCStrategy string

const (
	TOCStrategyNone  TOCStrategy = ""
	TOCStrategyTable TOCStrategy = "table"
	TOCStrategyLines TOCStrategy = "lines"
)

// TOCEntry is one entry of a detected table of contents.
type TOCEntry struct {
	// PageNoInTOC is the page number printed in the entry
	PageNoInTOC int

	// PageNo is the page the entry is on (1-based)
	PageNo int

	// Lines are the lines making up the entry
	Lines []model.LineRef
}

// TOCResult contains the detection result
type TOCResult struct {
	Strategy TOCStrategy
	Entries  []TOCEntry
}

// Found returns true if a table of contents was accepted
func (r *TOCResult) Found() bool {
	return r.Strategy != TOCStrategyNone
}

// TOCDetector detects a table of contents at the start of a document
type TOCDetector struct {
	config TOCConfig
	logger *slog.Logger
}

// NewTOCDetector creates a new detector with default configuration
func NewTOCDetector() *TOCDetector {
	return NewTOCDetectorWithConfig(DefaultTOCConfig())
}

// NewTOCDetectorWithConfig creates a detector with custom configuration
func NewTOCDetectorWithConfig(config TOCConfig) *TOCDetector {
	return &TOCDetector{config: config, logger: debugLogger(config.Logger, config.Verbose)}
}

// Detect looks for a table of contents on the first pages, first as a
// table whose last column holds page numbers, then as lines ending in page
// numbers. The lines of an accepted table of contents get the toc type.
func (d *TOCDetector) Detect(doc *model.Document) *TOCResult {
	doc.ResetType(model.Is(model.LineTypeTOC))
	result := &TOCResult{}

	lastPage := min(d.config.LastPage, doc.NoPages)
	if lastPage > 0 {
		if entries := d.scan(doc, lastPage, d.tableCandidates); len(entries) >= d.config.MinEntries {
			result.Strategy, result.Entries = TOCStrategyTable, entries
		} else if entries := d.scan(doc, lastPage, d.lineCandidates); len(entries) >= d.config.MinEntries {
			result.Strategy, result.Entries = TOCStrategyLines, entries
		} else {
			d.logger.Debug("no table of contents", "lastPage", lastPage)
		}
	}

	for _, e := range result.Entries {
		for _, ref := range e.Lines {
			doc.SetType(ref, model.LineTypeTOC)
		}
	}
	doc.NoLinesTOC = doc.CountLines(model.Is(model.LineTypeTOC))
	if result.Found() {
		d.logger.Debug("table of contents found", "strategy", string(result.Strategy), "entries", len(result.Entries))
	}
	return result
}

// tocScan is the state of one scan across pages.
type tocScan struct {
	entries []TOCEntry

	// consecutive non-candidate lines since the last entry
	misses int
}

// pageScanner appends the candidates of one page to the scan and reports
// whether the sequence broke on that page.
type pageScanner func(doc *model.Document, page int, scan *tocScan) bool

func (d *TOCDetector) scan(doc *model.Document, lastPage int, candidates pageScanner) []TOCEntry {
	var s tocScan
	for pi := 0; pi < lastPage; pi++ {
		broken := candidates(doc, pi, &s)

		valid := validPrefix(s.entries, doc.NoPages)
		if valid < len(s.entries) {
			d.logger.Debug("dropping invalid entries", "page", pi+1, "dropped", len(s.entries)-valid)
			s.entries = s.entries[:valid]
			broken = true
		}
		if broken {
			break
		}
	}
	return s.entries
}

// validPrefix returns the length of the longest prefix whose printed page
// numbers are non-decreasing and within the document.
func validPrefix(entries []TOCEntry, noPages int) int {
	for i, e := range entries {
		if e.PageNoInTOC > noPages || (i > 0 && e.PageNoInTOC < entries[i-1].PageNoInTOC) {
			return i
		}
	}
	return len(entries)
}

// tableCandidates takes every table row on the page whose last cell holds a
// positive integer. A row with any other last cell breaks the sequence once
// it has started.
func (d *TOCDetector) tableCandidates(doc *model.Document, pi int, scan *tocScan) bool {
	p := &doc.Pages[pi]

	type row struct {
		tableNo, rowNo int
		lastCell       int
		lastText       []string
		lines          []model.LineRef
	}
	var rows []*row
	for li := range p.Lines {
		l := &p.Lines[li]
		if l.Table == nil || l.Type != model.LineTypeTable {
			continue
		}
		var r *row
		if n := len(rows); n > 0 && rows[n-1].tableNo == l.Table.TableNo && rows[n-1].rowNo == l.Table.RowNo {
			r = rows[n-1]
		} else {
			r = &row{tableNo: l.Table.TableNo, rowNo: l.Table.RowNo}
			rows = append(rows, r)
		}
		r.lines = append(r.lines, model.LineRef{Page: pi, Line: li})
		switch {
		case l.Table.CellNo > r.lastCell:
			r.lastCell = l.Table.CellNo
			r.lastText = []string{l.Text}
		case l.Table.CellNo == r.lastCell:
			r.lastText = append(r.lastText, l.Text)
		}
	}

	for _, r := range rows {
		n, ok := positiveInt(strings.Join(r.lastText, " "))
		if !ok {
			if len(scan.entries) > 0 {
				return true
			}
			continue
		}
		scan.entries = append(scan.entries, TOCEntry{PageNoInTOC: n, PageNo: pi + 1, Lines: r.lines})
	}
	return false
}

// lineCandidates takes every body line on the page whose last token,
// without a trailing period, is a positive integer. More than maxTOCMisses
// other lines in a row, counted across page breaks, break the sequence once
// it has started.
func (d *TOCDetector) lineCandidates(doc *model.Document, pi int, scan *tocScan) bool {
	p := &doc.Pages[pi]
	for li := range p.Lines {
		l := &p.Lines[li]
		if !isBody(l) {
			continue
		}
		fields := strings.Fields(l.Text)
		var n int
		ok := false
		if len(fields) > 1 {
			n, ok = positiveInt(strings.TrimSuffix(fields[len(fields)-1], "."))
		}
		if !ok {
			if len(scan.entries) > 0 {
				scan.misses++
				if scan.misses > maxTOCMisses {
					return true
				}
			}
			continue
		}
		scan.misses = 0
		scan.entries = append(scan.entries, TOCEntry{PageNoInTOC: n, PageNo: pi + 1, Lines: []model.LineRef{{Page: pi, Line: li}}})
	}
	return false
}

func positiveInt(s string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 1 {
		return 0, false
	}
	return n, true
}
