// Package convert turns word-processor, markup and tabular documents into PDF
// with pandoc.
package convert

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/net/html/charset"

	"github.com/tsawler/docstruct/errs"
	"github.com/tsawler/docstruct/format"
	"github.com/tsawler/docstruct/internal/command"
	"github.com/tsawler/docstruct/pdf"
)

// Config holds configuration for the pandoc converter
type Config struct {
	// Executable is the pandoc program
	// Default: "pandoc"
	Executable string

	// PDFEngine is passed as --pdf-engine
	// Default: "lualatex"
	PDFEngine string

	// Language is passed as the lang variable
	// Default: "en"
	Language string

	// Logger receives debug output; nil discards it
	Logger *slog.Logger
}

// DefaultConfig returns sensible default configuration
func DefaultConfig() Config {
	return Config{
		Executable: "pandoc",
		PDFEngine:  "lualatex",
		Language:   "en",
	}
}

// Converter runs pandoc.
type Converter struct {
	config Config
	runner command.Runner
	logger *slog.Logger
}

// New creates a converter that runs pandoc through runner. A nil runner runs
// the real program.
func New(config Config, runner command.Runner) *Converter {
	logger := config.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if runner == nil {
		runner = command.Exec{Logger: logger}
	}
	return &Converter{config: config, runner: runner, logger: logger}
}

// needsTranscoding lists the text formats pandoc reads as UTF-8 only.
var needsTranscoding = map[format.Format]bool{
	format.CSV:  true,
	format.HTML: true,
	format.RST:  true,
}

// Convert writes a PDF rendering of inPath to outPath. Text inputs in another
// encoding are first transcoded to UTF-8 next to outPath; the paths of such
// intermediate files are returned so the caller can remove them.
func (c *Converter) Convert(ctx context.Context, inPath, outPath string) ([]string, error) {
	if _, err := os.Stat(inPath); err != nil {
		return nil, errs.Wrap(errs.CodeConvertMissing, err, "input file '%s' is missing", inPath)
	}

	var auxiliary []string
	source := inPath
	if needsTranscoding[format.Detect(inPath)] {
		ext := filepath.Ext(inPath)
		utf8Path := strings.TrimSuffix(outPath, filepath.Ext(outPath)) + "_utf8" + ext
		transcoded, err := TranscodeFile(inPath, utf8Path)
		if err != nil {
			return nil, errs.Wrap(errs.CodeConvertFailed, err, "cannot transcode '%s'", inPath)
		}
		if transcoded {
			source = utf8Path
			auxiliary = append(auxiliary, utf8Path)
		}
	}

	args := []string{source, "-o", outPath}
	if c.config.PDFEngine != "" {
		args = append(args, "--pdf-engine="+c.config.PDFEngine)
	}
	if c.config.Language != "" {
		args = append(args, "-V", "lang="+c.config.Language)
	}
	if err := c.runner.Run(ctx, c.config.Executable, args...); err != nil {
		return auxiliary, errs.Wrap(errs.CodeConvertFailed, err, "pandoc failed for '%s'", inPath)
	}

	if _, err := pdf.PageCount(outPath); err != nil {
		if errors.Is(err, pdf.ErrEmpty) || errors.Is(err, os.ErrNotExist) {
			return auxiliary, errs.Wrap(errs.CodeConvertEmpty, err, "pandoc produced no PDF for '%s'", inPath)
		}
		return auxiliary, errs.Wrap(errs.CodeConvertEmpty, err, "pandoc produced an unreadable PDF for '%s'", inPath)
	}
	c.logger.Debug("document converted", "in", inPath, "out", outPath)
	return auxiliary, nil
}

// sniffLen is the prefix inspected for a byte order mark or a meta charset.
const sniffLen = 1024

// TranscodeFile writes the UTF-8 form of inPath to outPath. It reports false,
// and writes nothing, when inPath is already UTF-8.
func TranscodeFile(inPath, outPath string) (bool, error) {
	data, err := os.ReadFile(inPath)
	if err != nil {
		return false, err
	}
	out, changed, err := Transcode(data, contentType(inPath))
	if err != nil || !changed {
		return false, err
	}
	if err := os.WriteFile(outPath, out, 0o644); err != nil {
		return false, err
	}
	return true, nil
}

// Transcode converts data to UTF-8. The encoding is taken from a byte order
// mark, an HTML meta declaration or the content type, and otherwise guessed.
func Transcode(data []byte, contentType string) ([]byte, bool, error) {
	_, name, _ := charset.DetermineEncoding(data[:min(sniffLen, len(data))], contentType)
	if name == "utf-8" {
		return data, false, nil
	}
	r, err := charset.NewReaderLabel(name, bytes.NewReader(data))
	if err != nil {
		return nil, false, fmt.Errorf("encoding %s: %w", name, err)
	}
	out, err := io.ReadAll(r)
	if err != nil {
		return nil, false, err
	}
	return out, true, nil
}

func contentType(path string) string {
	switch format.Detect(path) {
	case format.HTML:
		return "text/html"
	case format.CSV:
		return "text/csv"
	default:
		return "text/plain"
	}
}
