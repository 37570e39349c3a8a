package pipeline

import (
	"log/slog"
	"path/filepath"
	"slices"

	"github.com/tsawler/docstruct/config"
	"github.com/tsawler/docstruct/extract"
	"github.com/tsawler/docstruct/format"
	"github.com/tsawler/docstruct/layout"
	"github.com/tsawler/docstruct/model"
	"github.com/tsawler/docstruct/nlp"
	"github.com/tsawler/docstruct/pdf"
	"github.com/tsawler/docstruct/rules"
)

// Context carries everything one document's run needs and produces. It is
// created by [Coordinator.Process] and lives until the document is done.
type Context struct {
	Config *config.Config
	Rules  *rules.Store
	Logger *slog.Logger

	// DocumentID is copied into the document model
	DocumentID int

	// InputPath is the document being processed
	InputPath string

	// Stem is the input file name without extension
	Stem string

	// OutputDir receives the JSON outputs and intermediates
	OutputDir string

	// Format of the input
	Format format.Format

	// PDFPath is the PDF handed to the text extractor
	PDFPath string

	// Images are the page images handed to OCR
	Images []string

	// XML holds the extractor output files
	XML extract.Files

	// Info is the pdfcpu probe of PDFPath, when one was made
	Info *pdf.Info

	// Document is the model built from XML
	Document *model.Document

	// Result holds the classifier output
	Result *layout.Result

	// Tokens of Document, written by the emit step when tokenizing
	Tokens *nlp.Output

	// Outputs lists the written JSON files
	Outputs []string

	state     State
	auxiliary []string
}

// State returns the state the run is in, or stopped in.
func (c *Context) State() State {
	return c.state
}

// OutputPath returns the path of an output named <stem><suffix>.json.
func (c *Context) OutputPath(suffix string) string {
	return filepath.Join(c.OutputDir, c.Stem+suffix+".json")
}

// intermediate returns the path of an intermediate file named <stem><suffix>.
func (c *Context) intermediate(suffix string) string {
	return filepath.Join(c.OutputDir, c.Stem+suffix)
}

// AddAuxiliary records intermediate files for cleanup. The input file is
// never recorded.
func (c *Context) AddAuxiliary(paths ...string) {
	for _, p := range paths {
		if p == "" || samePath(p, c.InputPath) || slices.Contains(c.auxiliary, p) {
			continue
		}
		c.auxiliary = append(c.auxiliary, p)
	}
}

// Auxiliary returns the recorded intermediate files.
func (c *Context) Auxiliary() []string {
	return c.auxiliary
}

func samePath(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	if errA != nil || errB != nil {
		return filepath.Clean(a) == filepath.Clean(b)
	}
	return absA == absB
}
