// Package extract runs the PDFlib TET text extractor to produce the TETML
// files the structure parser reads.
//
// Every document is extracted twice: at word granularity, which carries the
// word geometry and fonts the model is built from, and at line granularity,
// which carries the line texts.
package extract

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/tsawler/docstruct/errs"
	"github.com/tsawler/docstruct/internal/command"
)

// Granularity selects the TETML detail level.
type Granularity int

const (
	Word Granularity = iota
	Line
)

// String returns the TET name of g.
func (g Granularity) String() string {
	if g == Line {
		return "line"
	}
	return "word"
}

// Config holds configuration for the extractor
type Config struct {
	// Executable is the TET program
	// Default: "tet"
	Executable string

	// DocOptions is passed as --docopt; empty omits it
	// Default: ""
	DocOptions string

	// PageOptions is passed as --pageopt
	// Default: "contentanalysis={dehyphenate=true} structureanalysis={list=true}"
	PageOptions string

	// TableOptions is appended to the word pass page options so that table
	// cells are reported
	// Default: "tetml={elements={line=true}} layoutanalysis={tables=true}"
	TableOptions string

	// Logger receives debug output; nil discards it
	Logger *slog.Logger
}

// DefaultConfig returns sensible default configuration
func DefaultConfig() Config {
	return Config{
		Executable:   "tet",
		PageOptions:  "contentanalysis={dehyphenate=true} structureanalysis={list=true}",
		TableOptions: "tetml={elements={line=true}} layoutanalysis={tables=true}",
	}
}

// Extractor runs TET.
type Extractor struct {
	config Config
	runner command.Runner
	logger *slog.Logger
}

// New creates an extractor that runs TET through runner. A nil runner runs
// the real program.
func New(config Config, runner command.Runner) *Extractor {
	logger := config.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if runner == nil {
		runner = command.Exec{Logger: logger}
	}
	return &Extractor{config: config, runner: runner, logger: logger}
}

// Args returns the TET arguments extracting pdfPath to xmlPath.
func (e *Extractor) Args(pdfPath, xmlPath string, g Granularity) []string {
	args := []string{"--tetml", g.String()}
	if e.config.DocOptions != "" {
		args = append(args, "--docopt", e.config.DocOptions)
	}
	pageOpt := e.config.PageOptions
	if g == Word && e.config.TableOptions != "" {
		pageOpt = strings.TrimSpace(pageOpt + " " + e.config.TableOptions)
	}
	if pageOpt != "" {
		args = append(args, "--pageopt", pageOpt)
	}
	return append(args, "-o", xmlPath, pdfPath)
}

// Extract writes the TETML of pdfPath at granularity g to xmlPath. A failing
// TET run is reported as 51.901 carrying TET's exit status.
func (e *Extractor) Extract(ctx context.Context, pdfPath, xmlPath string, g Granularity) error {
	if _, err := os.Stat(pdfPath); err != nil {
		return errs.Wrap(errs.CodeExtractorFailed, err, "cannot open '%s'", pdfPath)
	}
	if err := e.runner.Run(ctx, e.config.Executable, e.Args(pdfPath, xmlPath, g)...); err != nil {
		return errs.Wrap(errs.CodeExtractorFailed, err, "tet failed for '%s' (%s)", pdfPath, g)
	}
	if st, err := os.Stat(xmlPath); err != nil || st.Size() == 0 {
		return errs.New(errs.CodeExtractorFailed, "tet produced no output '%s'", xmlPath)
	}
	e.logger.Debug("tetml written", "pdf", pdfPath, "xml", xmlPath, "granularity", g.String())
	return nil
}

// Files holds the paths of both extraction passes.
type Files struct {
	Word string
	Line string
}

// Paths returns both paths.
func (f Files) Paths() []string {
	return []string{f.Word, f.Line}
}

// FilesFor returns the TETML paths for a document stem in dir.
func FilesFor(dir, stem string) Files {
	return Files{
		Word: filepath.Join(dir, fmt.Sprintf("%s_word.xml", stem)),
		Line: filepath.Join(dir, fmt.Sprintf("%s_line.xml", stem)),
	}
}

// ExtractBoth runs the word and the line pass. On failure it returns the
// files written so far.
func (e *Extractor) ExtractBoth(ctx context.Context, pdfPath string, files Files) ([]string, error) {
	if err := e.Extract(ctx, pdfPath, files.Word, Word); err != nil {
		return existing(files.Word), err
	}
	if err := e.Extract(ctx, pdfPath, files.Line, Line); err != nil {
		return append(existing(files.Word), existing(files.Line)...), err
	}
	return files.Paths(), nil
}

func existing(path string) []string {
	if _, err := os.Stat(path); err != nil {
		return nil
	}
	return []string{path}
}
