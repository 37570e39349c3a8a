package layout

import (
	"log/slog"
	"strings"

	"github.com/tsawler/docstruct/model"
)

// TableConfig holds configuration for table marking.
type TableConfig struct {
	// Logger receives debug output; nil discards it
	Logger *slog.Logger
}

// DefaultTableConfig returns the default table configuration.
func DefaultTableConfig() TableConfig {
	return TableConfig{}
}

// TableCell is one cell of a detected table.
type TableCell struct {
	CellNo   int    `json:"cellNo"`
	CellSpan int    `json:"cellSpan"`
	Text     string `json:"text"`
}

// TableRow is one row of a detected table.
type TableRow struct {
	RowNo int         `json:"rowNo"`
	Cells []TableCell `json:"cells"`
}

// Table is a table as recorded in the result file.
type Table struct {
	TableNo     int        `json:"tableNo"`
	FirstPageNo int        `json:"firstPageNo"`
	LastPageNo  int        `json:"lastPageNo"`
	Rows        []TableRow `json:"rows"`
}

// TableResult contains the tables of a document.
type TableResult struct {
	Tables []Table `json:"tables"`
}

// HasTables returns true if the document contains a table.
func (r *TableResult) HasTables() bool {
	return len(r.Tables) > 0
}

// TableDetector marks lines inside tables and collects their cells.
type TableDetector struct {
	config TableConfig
}

// NewTableDetector creates a detector with default configuration.
func NewTableDetector() *TableDetector {
	return NewTableDetectorWithConfig(DefaultTableConfig())
}

// NewTableDetectorWithConfig creates a detector with custom configuration.
func NewTableDetectorWithConfig(config TableConfig) *TableDetector {
	return &TableDetector{config: config}
}

// Detect gives every unclassified line carrying table coordinates the table
// type and returns the document's tables with their cell texts.
func (d *TableDetector) Detect(doc *model.Document) *TableResult {
	result := &TableResult{Tables: make([]Table, 0, doc.NoTables)}

	for pi := range doc.Pages {
		p := &doc.Pages[pi]
		for li := range p.Lines {
			l := &p.Lines[li]
			if l.Table != nil && isBody(l) {
				doc.SetType(model.LineRef{Page: pi, Line: li}, model.LineTypeTable)
			}
		}

		for qi := range p.Paragraphs {
			para := &p.Paragraphs[qi]
			if para.Table == nil {
				continue
			}
			addCellText(result, p, para)
		}
	}
	doc.NoLinesTable = doc.CountLines(model.Is(model.LineTypeTable))

	if d.config.Logger != nil {
		d.config.Logger.Debug("tables marked", "tables", len(result.Tables), "lines", doc.NoLinesTable)
	}
	return result
}

// addCellText appends the paragraph's text to its cell, creating the
// table, row and cell as needed. Paragraphs arrive in document order.
func addCellText(result *TableResult, p *model.Page, para *model.Paragraph) {
	tc := para.Table

	if n := len(result.Tables); n == 0 || result.Tables[n-1].TableNo != tc.TableNo {
		result.Tables = append(result.Tables, Table{TableNo: tc.TableNo, FirstPageNo: p.PageNo})
	}
	table := &result.Tables[len(result.Tables)-1]
	table.LastPageNo = p.PageNo

	if n := len(table.Rows); n == 0 || table.Rows[n-1].RowNo != tc.RowNo {
		table.Rows = append(table.Rows, TableRow{RowNo: tc.RowNo})
	}
	row := &table.Rows[len(table.Rows)-1]

	if n := len(row.Cells); n == 0 || row.Cells[n-1].CellNo != tc.CellNo {
		row.Cells = append(row.Cells, TableCell{CellNo: tc.CellNo, CellSpan: tc.CellSpan})
	}
	cell := &row.Cells[len(row.Cells)-1]

	var texts []string
	if cell.Text != "" {
		texts = append(texts, cell.Text)
	}
	// lines of a paragraph are contiguous on the page
	start := para.FirstLineNo - p.FirstLineNo
	for li := start; li < start+para.NoLinesInParagraph; li++ {
		if text := p.Lines[li].Text; text != "" {
			texts = append(texts, text)
		}
	}
	cell.Text = strings.Join(texts, " ")
}
