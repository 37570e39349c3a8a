// Package pdf probes, validates and merges PDF files with pdfcpu.
//
// The pipeline uses it to decide whether a PDF already carries extractable
// text or has to go through rasterization and OCR, to check that converted
// and OCR-produced PDFs are not empty, and to merge per-image OCR output
// into one searchable PDF.
package pdf

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// ErrEmpty reports a PDF file without content or pages.
var ErrEmpty = errors.New("empty PDF")

// Info describes a probed PDF.
type Info struct {
	// PageCount is the number of pages
	PageCount int

	// TextPages is the number of pages whose content streams show text
	TextPages int

	// ImagePages is the number of pages referencing image XObjects
	ImagePages int

	// Provenance from the document information dictionary
	Producer     string
	CreationDate string
	ModDate      string
}

// HasText reports whether the PDF carries extractable text.
func (i *Info) HasText() bool {
	return i.TextPages > 0
}

// Scanned reports whether the PDF looks like page images without text.
func (i *Info) Scanned() bool {
	return i.PageCount > 0 && i.TextPages == 0
}

// Prober inspects PDF files.
type Prober struct {
	logger *slog.Logger
}

// NewProber creates a prober. A nil logger discards output.
func NewProber(logger *slog.Logger) *Prober {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Prober{logger: logger}
}

// Probe reads and validates path and counts the pages with text and images.
func (p *Prober) Probe(path string) (*Info, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	ctx, err := api.ReadValidateAndOptimize(f, model.NewDefaultConfiguration())
	if err != nil {
		return nil, fmt.Errorf("pdfcpu read %s: %w", path, err)
	}

	info := &Info{PageCount: ctx.PageCount}
	if ctx.XRefTable != nil {
		info.Producer = ctx.Producer
		info.CreationDate = ctx.CreationDate
		info.ModDate = ctx.ModDate
	}
	for pageNr := 1; pageNr <= ctx.PageCount; pageNr++ {
		if pageShowsText(ctx, pageNr) {
			info.TextPages++
		}
		if len(pdfcpu.ImageObjNrs(ctx, pageNr)) > 0 {
			info.ImagePages++
		}
	}
	p.logger.Debug("pdf probed", "path", path, "pages", info.PageCount, "textPages", info.TextPages, "imagePages", info.ImagePages)
	return info, nil
}

func pageShowsText(ctx *model.Context, pageNr int) bool {
	r, err := pdfcpu.ExtractPageContent(ctx, pageNr)
	if err != nil || r == nil {
		return false
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return false
	}
	return showsText(data)
}

// textOperators are the content stream operators that paint text.
var textOperators = [][]byte{[]byte("Tj"), []byte("TJ"), []byte("'"), []byte(`"`)}

// showsText reports whether a content stream paints a non-empty string.
func showsText(data []byte) bool {
	for _, line := range bytes.Split(data, []byte{'\n'}) {
		line = bytes.TrimSpace(line)
		for _, op := range textOperators {
			if !bytes.HasSuffix(line, op) {
				continue
			}
			operand := bytes.TrimSpace(line[:len(line)-len(op)])
			if hasStringOperand(operand) {
				return true
			}
		}
	}
	return false
}

// hasStringOperand reports whether operand contains a non-empty literal
// "(…)" or hex "<…>" string.
func hasStringOperand(operand []byte) bool {
	if i := bytes.IndexByte(operand, '('); i >= 0 {
		if j := bytes.LastIndexByte(operand, ')'); j > i+1 {
			return true
		}
	}
	if i := bytes.IndexByte(operand, '<'); i >= 0 && !bytes.HasPrefix(operand[i:], []byte("<<")) {
		if j := bytes.IndexByte(operand[i:], '>'); j > 1 {
			return true
		}
	}
	return false
}

// PageCount returns the page count of path, failing with ErrEmpty for an
// empty file or a PDF without pages.
func PageCount(path string) (int, error) {
	st, err := os.Stat(path)
	if err != nil {
		return 0, err
	}
	if st.Size() == 0 {
		return 0, fmt.Errorf("%s: %w", path, ErrEmpty)
	}
	n, err := api.PageCountFile(path)
	if err != nil {
		return 0, fmt.Errorf("pdfcpu page count %s: %w", path, err)
	}
	if n == 0 {
		return 0, fmt.Errorf("%s: %w", path, ErrEmpty)
	}
	return n, nil
}

// Merge concatenates inFiles into outFile. A single input is copied.
func Merge(inFiles []string, outFile string) error {
	switch len(inFiles) {
	case 0:
		return fmt.Errorf("merge %s: no input files", outFile)
	case 1:
		data, err := os.ReadFile(inFiles[0])
		if err != nil {
			return err
		}
		return os.WriteFile(outFile, data, 0o644)
	}
	if err := api.MergeCreateFile(inFiles, outFile, false, model.NewDefaultConfiguration()); err != nil {
		return fmt.Errorf("pdfcpu merge %s: %w", outFile, err)
	}
	return nil
}
