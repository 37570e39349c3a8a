// Package pipeline runs one document from its input file to the JSON
// document model.
//
// The coordinator is a state machine:
//
//	Init → Classify → Convert ────────────┐
//	                → Rasterize → OCR ────┤
//	                → OCR (image input) ──┤
//	                → Direct ─────────────┴→ Extract → BuildModel
//	      → ClassifyLineTypes → [Tokenize] → Emit → Cleanup
//
// Each external step goes through a collaborator interface so that tests can
// replace the programs docstruct delegates to. Cleanup runs whether the run
// succeeded or failed.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/tsawler/docstruct/config"
	"github.com/tsawler/docstruct/convert"
	"github.com/tsawler/docstruct/errs"
	"github.com/tsawler/docstruct/extract"
	"github.com/tsawler/docstruct/format"
	"github.com/tsawler/docstruct/internal/command"
	"github.com/tsawler/docstruct/layout"
	"github.com/tsawler/docstruct/model"
	"github.com/tsawler/docstruct/nlp"
	"github.com/tsawler/docstruct/ocr"
	"github.com/tsawler/docstruct/pdf"
	"github.com/tsawler/docstruct/raster"
	"github.com/tsawler/docstruct/rules"
	"github.com/tsawler/docstruct/tetml"
)

// ErrNilRules is returned when a coordinator is created without rules.
var ErrNilRules = errors.New("pipeline: nil rule store")

// State is a step of the coordinator.
type State int

const (
	StateInit State = iota
	StateClassify
	StateConvert
	StateRasterize
	StateOCR
	StateDirect
	StateExtract
	StateBuildModel
	StateClassifyLineTypes
	StateTokenize
	StateEmit
	StateCleanup
	StateDone
)

var stateNames = [...]string{
	"init",
	"classify",
	"convert",
	"rasterize",
	"ocr",
	"direct",
	"extract",
	"build_model",
	"classify_line_types",
	"tokenize",
	"emit",
	"cleanup",
	"done",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return fmt.Sprintf("state(%d)", int(s))
	}
	return stateNames[s]
}

// Converter renders non-PDF documents as PDF.
type Converter interface {
	Convert(ctx context.Context, inPath, outPath string) ([]string, error)
}

// Rasterizer writes the page images of a scanned PDF.
type Rasterizer interface {
	Rasterize(ctx context.Context, pdfPath, outDir, stem string) ([]raster.Image, error)
}

// Recognizer turns images into a searchable PDF.
type Recognizer interface {
	Recognize(ctx context.Context, images []string, outPath string) ([]string, error)
}

// languageChecker is implemented by recognizers that can verify their
// language data before running.
type languageChecker interface {
	CheckLanguage() error
}

// Extractor writes the word and line TETML of a PDF.
type Extractor interface {
	ExtractBoth(ctx context.Context, pdfPath string, files extract.Files) ([]string, error)
}

// Prober inspects PDFs.
type Prober interface {
	Probe(path string) (*pdf.Info, error)
}

// Tokenizer produces the token sidecar of a document.
type Tokenizer interface {
	Tokenize(doc *model.Document) *nlp.Output
}

// Collaborators are the external steps of the pipeline.
type Collaborators struct {
	Converter  Converter
	Rasterizer Rasterizer
	Recognizer Recognizer
	Extractor  Extractor
	Prober     Prober
	Tokenizer  Tokenizer
}

// DefaultCollaborators returns collaborators configured from cfg. runner
// executes the external programs; nil runs them for real.
func DefaultCollaborators(cfg *config.Config, runner command.Runner, logger *slog.Logger) Collaborators {
	cc := convert.DefaultConfig()
	cc.Executable = cfg.PandocExecutable
	cc.PDFEngine = cfg.PandocPdfEngine
	cc.Language = cfg.Language
	cc.Logger = logger

	rf, err := raster.ParseFormat(cfg.RasterFormat)
	if err != nil {
		rf = raster.PNG
	}
	rc := raster.DefaultConfig()
	rc.Format = rf
	rc.Logger = logger

	oc := ocr.DefaultConfig()
	oc.Executable = cfg.TesseractExecutable
	oc.Language = cfg.TesseractLanguage
	oc.Timeout = cfg.TesseractTimeoutDuration()
	oc.Logger = logger

	ec := extract.DefaultConfig()
	ec.Executable = cfg.TetExecutable
	ec.DocOptions = cfg.TetDocOptions
	ec.PageOptions = cfg.TetPageOptions
	ec.Logger = logger

	return Collaborators{
		Converter:  convert.New(cc, runner),
		Rasterizer: raster.New(rc),
		Recognizer: ocr.New(oc, runner),
		Extractor:  extract.New(ec, runner),
		Prober:     pdf.NewProber(logger),
		Tokenizer:  nlp.New(cfg.Tokenizer(logger)),
	}
}

// Coordinator processes documents one at a time.
type Coordinator struct {
	config *config.Config
	rules  *rules.Store
	collab Collaborators
	logger *slog.Logger
}

// New creates a coordinator. A nil config selects the defaults; a nil
// logger discards output. The rule store is required.
func New(cfg *config.Config, store *rules.Store, collab Collaborators, logger *slog.Logger) (*Coordinator, error) {
	if store == nil {
		return nil, ErrNilRules
	}
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Coordinator{config: cfg, rules: store, collab: collab, logger: logger}, nil
}

// NewFromConfig creates a coordinator with the rule files named in cfg and
// the default collaborators.
func NewFromConfig(cfg *config.Config, logger *slog.Logger) (*Coordinator, error) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	store, err := rules.Load(cfg.LtHeadingRuleFile, cfg.LtListNumberRuleFile, cfg.LtListBulletRuleFile)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return New(cfg, store, DefaultCollaborators(cfg, nil, logger), logger)
}

// Process runs the document at inPath through the pipeline. The returned
// context is non-nil even on failure and tells how far the run got.
func (c *Coordinator) Process(ctx context.Context, inPath string, documentID int) (*Context, error) {
	pc := &Context{
		Config:     c.config,
		Rules:      c.rules,
		Logger:     c.logger.With("document", filepath.Base(inPath)),
		DocumentID: documentID,
		InputPath:  inPath,
	}

	state := StateInit
	var err error
	for state != StateDone {
		pc.state = state
		if state == StateCleanup {
			c.cleanup(pc)
			state = StateDone
			continue
		}
		pc.Logger.Debug("pipeline step", "state", state.String())

		var next State
		next, err = c.step(ctx, pc, state)
		if err != nil {
			pc.Logger.Error("pipeline step failed", "state", state.String(), "error", err)
			c.cleanup(pc)
			return pc, err
		}
		state = next
	}
	pc.state = StateDone
	pc.Logger.Info("document processed",
		"pages", pc.Document.NoPages,
		"lines", pc.Document.NoLines,
		"outputs", len(pc.Outputs))
	return pc, nil
}

func (c *Coordinator) step(ctx context.Context, pc *Context, state State) (State, error) {
	if err := ctx.Err(); err != nil {
		return state, err
	}
	switch state {
	case StateInit:
		return c.start(pc)
	case StateClassify:
		return c.classify(pc)
	case StateConvert:
		return c.convert(ctx, pc)
	case StateRasterize:
		return c.rasterize(ctx, pc)
	case StateOCR:
		return c.recognize(ctx, pc)
	case StateDirect:
		pc.PDFPath = pc.InputPath
		return StateExtract, nil
	case StateExtract:
		return c.extract(ctx, pc)
	case StateBuildModel:
		return c.buildModel(pc)
	case StateClassifyLineTypes:
		return c.classifyLineTypes(pc)
	case StateTokenize:
		return c.tokenize(pc)
	case StateEmit:
		return c.emit(pc)
	}
	return state, fmt.Errorf("pipeline: no step for state %s", state)
}

func (c *Coordinator) start(pc *Context) (State, error) {
	st, err := os.Stat(pc.InputPath)
	if err != nil {
		return StateInit, errs.Wrap(errs.CodeInputMissing, err, "input file '%s' is missing", pc.InputPath)
	}
	if st.IsDir() {
		return StateInit, errs.New(errs.CodeInputMissing, "input '%s' is a directory", pc.InputPath)
	}

	base := filepath.Base(pc.InputPath)
	pc.Stem = strings.TrimSuffix(base, filepath.Ext(base))
	pc.OutputDir = c.config.OutputDir
	if pc.OutputDir == "" {
		pc.OutputDir = filepath.Dir(pc.InputPath)
	}
	if err := os.MkdirAll(pc.OutputDir, 0o755); err != nil {
		return StateInit, errs.Wrap(errs.CodeOutputWrite, err, "cannot create output directory '%s'", pc.OutputDir)
	}
	return StateClassify, nil
}

func (c *Coordinator) classify(pc *Context) (State, error) {
	f, err := format.Classify(pc.InputPath)
	if err != nil {
		return StateClassify, err
	}
	pc.Format = f
	pc.Logger.Debug("input classified", "format", f.String(), "kind", f.Kind().String())

	switch f.Kind() {
	case format.KindPandoc:
		return StateConvert, nil
	case format.KindImage:
		pc.Images = []string{pc.InputPath}
		return StateOCR, nil
	}

	info, err := c.probe(pc, pc.InputPath)
	if err != nil {
		pc.Logger.Warn("cannot probe PDF, extracting directly", "error", err)
		return StateDirect, nil
	}
	if info.Scanned() {
		return StateRasterize, nil
	}
	return StateDirect, nil
}

func (c *Coordinator) probe(pc *Context, path string) (*pdf.Info, error) {
	if c.collab.Prober == nil {
		return nil, errors.New("no PDF prober")
	}
	info, err := c.collab.Prober.Probe(path)
	if err != nil {
		return nil, err
	}
	pc.Info = info
	return info, nil
}

func (c *Coordinator) convert(ctx context.Context, pc *Context) (State, error) {
	out := pc.intermediate("_pandoc.pdf")
	pc.AddAuxiliary(out)
	aux, err := c.collab.Converter.Convert(ctx, pc.InputPath, out)
	pc.AddAuxiliary(aux...)
	if err != nil {
		return StateConvert, err
	}
	pc.PDFPath = out
	return StateExtract, nil
}

func (c *Coordinator) rasterize(ctx context.Context, pc *Context) (State, error) {
	images, err := c.collab.Rasterizer.Rasterize(ctx, pc.InputPath, pc.OutputDir, pc.Stem)
	paths := raster.Paths(images)
	pc.AddAuxiliary(paths...)
	if err != nil {
		return StateRasterize, err
	}
	pc.Images = paths
	return StateOCR, nil
}

func (c *Coordinator) recognize(ctx context.Context, pc *Context) (State, error) {
	if lc, ok := c.collab.Recognizer.(languageChecker); ok {
		if err := lc.CheckLanguage(); err != nil {
			return StateOCR, err
		}
	}
	out := pc.intermediate("_ocr.pdf")
	pc.AddAuxiliary(out)
	consumed, err := c.collab.Recognizer.Recognize(ctx, pc.Images, out)
	pc.AddAuxiliary(consumed...)
	if err != nil {
		return StateOCR, err
	}
	pc.PDFPath = out
	return StateExtract, nil
}

func (c *Coordinator) extract(ctx context.Context, pc *Context) (State, error) {
	pc.XML = extract.FilesFor(pc.OutputDir, pc.Stem)
	written, err := c.collab.Extractor.ExtractBoth(ctx, pc.PDFPath, pc.XML)
	pc.AddAuxiliary(written...)
	if err != nil {
		return StateExtract, err
	}
	return StateBuildModel, nil
}

func (c *Coordinator) buildModel(pc *Context) (State, error) {
	opts := tetml.Options{
		DocumentID:  pc.DocumentID,
		FileName:    filepath.Base(pc.InputPath),
		RecordFonts: c.config.JSONInclFonts,
	}
	if c.config.VerboseParser {
		opts.Logger = pc.Logger
	}
	doc, err := tetml.ParseFiles(pc.XML.Word, pc.XML.Line, opts)
	if err != nil {
		return StateBuildModel, err
	}
	if err := checkModel(doc); err != nil {
		return StateBuildModel, err
	}
	pc.Document = doc

	if doc.Producer == "" || doc.CreationDate == "" || doc.ModDate == "" {
		c.fillProvenance(pc)
	}
	return StateClassifyLineTypes, nil
}

// checkModel verifies the parsed document against the model invariants and
// the line text invariant.
func checkModel(doc *model.Document) error {
	if err := doc.Validate(); err != nil {
		return errs.Wrap(errs.CodeXMLIssues, err, "parsed document is inconsistent")
	}
	if err := doc.CheckLineTexts(); err != nil {
		return errs.Wrap(errs.CodeXMLLinePrefix, err, "line texts do not match their words")
	}
	return nil
}

// fillProvenance copies missing provenance from the PDF's information
// dictionary.
func (c *Coordinator) fillProvenance(pc *Context) {
	info := pc.Info
	if info == nil {
		var err error
		info, err = c.probe(pc, pc.PDFPath)
		if err != nil {
			pc.Logger.Debug("no provenance fallback", "error", err)
			return
		}
	}
	doc := pc.Document
	if doc.Producer == "" {
		doc.Producer = info.Producer
	}
	if doc.CreationDate == "" {
		doc.CreationDate = info.CreationDate
	}
	if doc.ModDate == "" {
		doc.ModDate = info.ModDate
	}
}

func (c *Coordinator) classifyLineTypes(pc *Context) (State, error) {
	result, err := layout.Classify(pc.Document, pc.Rules, c.config.Layout(pc.Logger))
	if err != nil {
		return StateClassifyLineTypes, err
	}
	pc.Result = result
	if c.config.Tokenize {
		return StateTokenize, nil
	}
	return StateEmit, nil
}

func (c *Coordinator) tokenize(pc *Context) (State, error) {
	if c.collab.Tokenizer == nil {
		return StateTokenize, errs.New(errs.CodeTokenizerMissing, "no tokenizer configured")
	}
	pc.Tokens = c.collab.Tokenizer.Tokenize(pc.Document)
	return StateEmit, nil
}

func (c *Coordinator) cleanup(pc *Context) {
	if !c.config.DeleteAuxiliaryFiles {
		return
	}
	for _, p := range pc.auxiliary {
		if err := os.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
			pc.Logger.Warn("cannot remove intermediate file", "path", p, "error", err)
		}
	}
	pc.auxiliary = nil
}
