// Package docstruct extracts the structure of a document into a JSON model
// of pages, paragraphs, lines and words, and types every line as body text,
// header, footer, heading, list entry, table cell or table-of-contents entry.
//
// Basic usage:
//
//	pc, err := docstruct.Open("report.pdf").Run(ctx)
//	if err != nil {
//	    // handle error; the message starts with the six-character code
//	}
//	fmt.Println(pc.Outputs)
//
// With options:
//
//	doc, err := docstruct.Open("report.docx").
//	    OutputDir("out").
//	    ConfigFile("docstruct.yaml").
//	    KeepAuxiliary().
//	    Document(ctx)
//
// PDFs with text are extracted directly, scanned PDFs are rasterized and
// run through OCR, other documents are converted to PDF with pandoc first.
// For lower-level control use the pipeline, tetml and layout packages.
package docstruct

import (
	"context"
	"log/slog"

	"github.com/tsawler/docstruct/config"
	"github.com/tsawler/docstruct/model"
	"github.com/tsawler/docstruct/pipeline"
)

// Open returns a Processor for the document at path.
//
// Example:
//
//	pc, err := docstruct.Open("document.pdf").Run(ctx)
func Open(path string) *Processor {
	return &Processor{
		path:    path,
		options: defaultOptions(),
	}
}

// Processor provides a fluent interface for processing one document. Each
// configuration method returns a new Processor, so a configured Processor
// can be reused as a template.
type Processor struct {
	path    string
	options Options

	// first configuration error, reported by Run
	err error
}

func (p *Processor) clone() *Processor {
	return &Processor{
		path:    p.path,
		options: p.options.clone(),
		err:     p.err,
	}
}

// OutputDir writes the JSON outputs and intermediates to dir instead of the
// input's directory.
func (p *Processor) OutputDir(dir string) *Processor {
	n := p.clone()
	n.options.outputDir = &dir
	return n
}

// DocumentID sets the id recorded in the document model.
func (p *Processor) DocumentID(id int) *Processor {
	n := p.clone()
	n.options.documentID = id
	return n
}

// Config replaces the configuration.
func (p *Processor) Config(cfg *config.Config) *Processor {
	n := p.clone()
	if cfg != nil {
		c := *cfg
		n.options.config = &c
	}
	return n
}

// ConfigFile loads the configuration from a YAML file. A load failure is
// reported by Run.
func (p *Processor) ConfigFile(path string) *Processor {
	n := p.clone()
	cfg, err := config.LoadConfig(path)
	if err != nil {
		if n.err == nil {
			n.err = err
		}
		return n
	}
	n.options.config = cfg
	return n
}

// Logger sets the logger; by default output is discarded.
func (p *Processor) Logger(logger *slog.Logger) *Processor {
	n := p.clone()
	n.options.logger = logger
	return n
}

// KeepAuxiliary keeps converted PDFs, page images and TETML files.
func (p *Processor) KeepAuxiliary() *Processor {
	n := p.clone()
	keep := false
	n.options.deleteAuxiliary = &keep
	return n
}

// DeleteAuxiliary removes intermediate files after the run.
func (p *Processor) DeleteAuxiliary() *Processor {
	n := p.clone()
	del := true
	n.options.deleteAuxiliary = &del
	return n
}

// Tokenize also writes the token sidecar.
func (p *Processor) Tokenize() *Processor {
	n := p.clone()
	n.options.tokenize = true
	return n
}

// Collaborators replaces the external programs, mainly for tests.
func (p *Processor) Collaborators(c pipeline.Collaborators) *Processor {
	n := p.clone()
	n.options.collaborators = &c
	return n
}

// Run processes the document and returns the pipeline context, which holds
// the document model, the classifier results and the written outputs.
func (p *Processor) Run(ctx context.Context) (*pipeline.Context, error) {
	if p.err != nil {
		return nil, p.err
	}
	cfg := p.options.resolvedConfig()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger := p.options.logger
	var (
		c   *pipeline.Coordinator
		err error
	)
	if p.options.collaborators != nil {
		c, err = newCoordinator(cfg, *p.options.collaborators, logger)
	} else {
		c, err = pipeline.NewFromConfig(cfg, logger)
	}
	if err != nil {
		return nil, err
	}
	return c.Process(ctx, p.path, p.options.documentID)
}

// Document processes the document and returns its model.
func (p *Processor) Document(ctx context.Context) (*model.Document, error) {
	pc, err := p.Run(ctx)
	if err != nil {
		return nil, err
	}
	return pc.Document, nil
}

// Must is a helper that wraps a call to a function returning (T, error)
// and panics if the error is non-nil. It is intended for use in scripts
// or tests where error handling would be cumbersome.
//
// Example:
//
//	doc := docstruct.Must(docstruct.Open("document.pdf").Document(ctx))
func Must[T any](val T, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}
