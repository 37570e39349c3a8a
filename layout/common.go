package layout

import (
	"log/slog"

	"github.com/tsawler/docstruct/model"
)

// debugLogger returns logger when verbose output is enabled and a discarding
// logger otherwise.
func debugLogger(logger *slog.Logger, verbose bool) *slog.Logger {
	if logger == nil || !verbose {
		return slog.New(slog.DiscardHandler)
	}
	return logger
}

// withinTolerance reports whether x lies within tol percent of origin.
func withinTolerance(x, origin, tol float64) bool {
	lo := origin * (1 - tol/100)
	hi := origin * (1 + tol/100)
	if lo > hi {
		lo, hi = hi, lo
	}
	return x >= lo && x <= hi
}

// isBody reports whether the line is still unclassified body text.
func isBody(l *model.Line) bool {
	return l.Type == model.LineTypeBody
}

// recount refreshes every line-type counter of the document.
func recount(doc *model.Document) {
	doc.NoLinesTable = doc.CountLines(model.Is(model.LineTypeTable))
	doc.NoLinesHeader = doc.CountLines(model.Is(model.LineTypeHeader))
	doc.NoLinesFooter = doc.CountLines(model.Is(model.LineTypeFooter))
	doc.NoLinesTOC = doc.CountLines(model.Is(model.LineTypeTOC))
	doc.NoLinesListBullet = doc.CountLines(model.Is(model.LineTypeListBullet))
	doc.NoLinesListNumber = doc.CountLines(model.Is(model.LineTypeListNumber))
	doc.NoLinesHeading = doc.CountLines(model.LineType.IsHeading)
}

// LineSpan is a line reference as written to the result files.
type LineSpan struct {
	PageNo      int    `json:"pageNo"`
	ParagraphNo int    `json:"paragraphNo"`
	LineNo      int    `json:"lineNo"`
	Text        string `json:"text"`
}

func spanOf(doc *model.Document, ref model.LineRef) LineSpan {
	l := doc.Line(ref)
	return LineSpan{
		PageNo:      ref.Page + 1,
		ParagraphNo: l.ParagraphNo,
		LineNo:      l.LineNo,
		Text:        l.Text,
	}
}
