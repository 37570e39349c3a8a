package layout

import (
	"log/slog"

	"github.com/agnivade/levenshtein"

	"github.com/tsawler/docstruct/model"
)

// RegionType indicates whether a region is a header or footer
type RegionType int

const (
	Header RegionType = iota
	Footer
)

func (r RegionType) String() string {
	if r == Header {
		return "header"
	}
	return "footer"
}

func (r RegionType) lineType() model.LineType {
	if r == Header {
		return model.LineTypeHeader
	}
	return model.LineTypeFooter
}

// HeaderFooterConfig holds configuration for header/footer detection
type HeaderFooterConfig struct {
	// HeaderMaxLines is the number of lines from the top of each page
	// considered as header candidates. 0 disables header detection.
	// Default: 3
	HeaderMaxLines int

	// FooterMaxLines is the number of lines from the bottom of each page
	// considered as footer candidates. 0 disables footer detection.
	// Default: 3
	FooterMaxLines int

	// HeaderMaxDistance is the largest edit distance at which two header
	// candidates on adjacent pages still count as the same text.
	// Default: 3
	HeaderMaxDistance int

	// FooterMaxDistance is the footer counterpart of HeaderMaxDistance.
	// Default: 3
	FooterMaxDistance int

	// Logger receives debug output when Verbose is set
	Logger  *slog.Logger
	Verbose bool
}

// DefaultHeaderFooterConfig returns sensible default configuration
func DefaultHeaderFooterConfig() HeaderFooterConfig {
	return HeaderFooterConfig{
		HeaderMaxLines:    3,
		FooterMaxLines:    3,
		HeaderMaxDistance: 3,
		FooterMaxDistance: 3,
	}
}

// HeaderFooterDetector detects headers and footers across pages
type HeaderFooterDetector struct {
	config HeaderFooterConfig
	logger *slog.Logger
}

// NewHeaderFooterDetector creates a new detector with default configuration
func NewHeaderFooterDetector() *HeaderFooterDetector {
	return NewHeaderFooterDetectorWithConfig(DefaultHeaderFooterConfig())
}

// NewHeaderFooterDetectorWithConfig creates a detector with custom configuration
func NewHeaderFooterDetectorWithConfig(config HeaderFooterConfig) *HeaderFooterDetector {
	return &HeaderFooterDetector{
		config: config,
		logger: debugLogger(config.Logger, config.Verbose),
	}
}

// HeaderFooterResult contains the detection results
type HeaderFooterResult struct {
	// HeaderRows lists the confirmed header rows, counted from the top
	HeaderRows []int

	// FooterRows lists the confirmed footer rows, counted from the bottom
	FooterRows []int

	// Config used for detection
	Config HeaderFooterConfig
}

// HasHeaders returns true if any header row was confirmed
func (r *HeaderFooterResult) HasHeaders() bool {
	return len(r.HeaderRows) > 0
}

// HasFooters returns true if any footer row was confirmed
func (r *HeaderFooterResult) HasFooters() bool {
	return len(r.FooterRows) > 0
}

// HasHeadersOrFooters returns true if any header or footer row was confirmed
func (r *HeaderFooterResult) HasHeadersOrFooters() bool {
	return r.HasHeaders() || r.HasFooters()
}

// Detect classifies recurring header lines, then recurring footer lines.
// Only body lines are reclassified. Lines left over from an earlier run are
// reverted to their base type first, so repeated runs give the same result.
func (d *HeaderFooterDetector) Detect(doc *model.Document) *HeaderFooterResult {
	result := &HeaderFooterResult{Config: d.config}

	doc.ResetType(model.Is(model.LineTypeHeader))
	doc.ResetType(model.Is(model.LineTypeFooter))

	result.HeaderRows = d.detectRegion(doc, Header, d.config.HeaderMaxLines, d.config.HeaderMaxDistance)
	result.FooterRows = d.detectRegion(doc, Footer, d.config.FooterMaxLines, d.config.FooterMaxDistance)

	doc.NoLinesHeader = doc.CountLines(model.Is(model.LineTypeHeader))
	doc.NoLinesFooter = doc.CountLines(model.Is(model.LineTypeFooter))
	return result
}

// candidate is a line considered for a header or footer row. index is -1
// when the page has no line at that row.
type candidate struct {
	index int
	text  string
}

func (d *HeaderFooterDetector) extractCandidates(doc *model.Document, region RegionType, maxLines int) [][]candidate {
	candidates := make([][]candidate, len(doc.Pages))
	for pi := range doc.Pages {
		lines := doc.Pages[pi].Lines
		row := make([]candidate, maxLines)
		for r := range row {
			idx := r
			if region == Footer {
				idx = len(lines) - 1 - r
			}
			if idx < 0 || idx >= len(lines) || lines[idx].Text == "" {
				row[r] = candidate{index: -1}
				continue
			}
			row[r] = candidate{index: idx, text: lines[idx].Text}
		}
		candidates[pi] = row
	}
	return candidates
}

// detectRegion marks, for every row, the pages whose candidate matches the
// candidate of an adjacent page. A row is confirmed when both pages of a
// two-page document are marked, or every interior page of a longer one.
// First and last pages may differ, which tolerates cover pages.
func (d *HeaderFooterDetector) detectRegion(doc *model.Document, region RegionType, maxLines, maxDistance int) []int {
	noPages := len(doc.Pages)
	if maxLines <= 0 || noPages < 2 {
		return nil
	}

	candidates := d.extractCandidates(doc, region, maxLines)
	marked := make([][]bool, noPages)
	for pi := range marked {
		marked[pi] = make([]bool, maxLines)
	}

	for r := 0; r < maxLines; r++ {
		for pi := 0; pi+1 < noPages; pi++ {
			a, b := candidates[pi][r], candidates[pi+1][r]
			if a.index < 0 || b.index < 0 {
				continue
			}
			if dist := levenshtein.ComputeDistance(a.text, b.text); dist <= maxDistance {
				marked[pi][r] = true
				marked[pi+1][r] = true
			}
		}
	}

	var rows []int
	for r := 0; r < maxLines; r++ {
		if !rowConfirmed(marked, r) {
			d.logger.Debug("row not confirmed", "region", region.String(), "row", r)
			continue
		}
		rows = append(rows, r)
		for pi := range candidates {
			c := candidates[pi][r]
			if !marked[pi][r] {
				continue
			}
			ref := model.LineRef{Page: pi, Line: c.index}
			if !isBody(doc.Line(ref)) {
				continue
			}
			doc.SetType(ref, region.lineType())
		}
		d.logger.Debug("row confirmed", "region", region.String(), "row", r)
	}
	return rows
}

func rowConfirmed(marked [][]bool, r int) bool {
	noPages := len(marked)
	if noPages == 2 {
		return marked[0][r] && marked[1][r]
	}
	for pi := 1; pi < noPages-1; pi++ {
		if !marked[pi][r] {
			return false
		}
	}
	return true
}
