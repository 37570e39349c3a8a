// Package ocr turns page images into a searchable PDF.
//
// The [Engine] runs the tesseract program once per image with the pdf
// output configuration, then merges the per-image PDFs with pdfcpu. It needs
// the tesseract program on the PATH. On macOS, install via:
//
//	brew install tesseract
//
// On Ubuntu/Debian:
//
//	apt-get install tesseract-ocr
//
// Building with the "ocr" tag additionally links the Tesseract library
// through gosseract, which lets [Engine.CheckLanguage] verify that the
// configured language data is installed:
//
//	go build -tags ocr
package ocr

import (
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/tsawler/docstruct/errs"
	"github.com/tsawler/docstruct/format"
	"github.com/tsawler/docstruct/internal/command"
	"github.com/tsawler/docstruct/pdf"
)

// Config holds configuration for the OCR engine
type Config struct {
	// Executable is the tesseract program
	// Default: "tesseract"
	Executable string

	// Language is the tesseract language, several joined with "+"
	// Default: "eng"
	Language string

	// Timeout bounds each tesseract run. 0 disables the limit.
	// Default: 30s
	Timeout time.Duration

	// Logger receives debug output; nil discards it
	Logger *slog.Logger
}

// DefaultConfig returns sensible default configuration
func DefaultConfig() Config {
	return Config{
		Executable: "tesseract",
		Language:   "eng",
		Timeout:    30 * time.Second,
	}
}

// Engine runs tesseract.
type Engine struct {
	config Config
	runner command.Runner
	logger *slog.Logger
}

// New creates an engine that runs tesseract through runner. A nil runner
// runs the real program.
func New(config Config, runner command.Runner) *Engine {
	logger := config.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if runner == nil {
		runner = command.Exec{Logger: logger}
	}
	return &Engine{config: config, runner: runner, logger: logger}
}

// CheckLanguage verifies that the configured language data is installed.
// Without the "ocr" build tag the check is skipped.
func (e *Engine) CheckLanguage() error {
	err := checkLanguages(e.config.Language)
	if errors.Is(err, ErrOCRNotEnabled) {
		return nil
	}
	if err != nil {
		return errs.Wrap(errs.CodeOCRFailed, err, "tesseract language '%s'", e.config.Language)
	}
	return nil
}

// Recognize runs tesseract on every image and merges the results into
// outPath. It returns the per-image PDFs it created.
func (e *Engine) Recognize(ctx context.Context, images []string, outPath string) ([]string, error) {
	if len(images) == 0 {
		return nil, errs.New(errs.CodeOCRFailed, "no images for '%s'", outPath)
	}
	for _, img := range images {
		if err := ValidateImage(img); err != nil {
			return nil, errs.Wrap(errs.CodeOCRImage, err, "invalid image '%s'", img)
		}
	}

	var pages []string
	for _, img := range images {
		base := strings.TrimSuffix(img, filepath.Ext(img)) + "_ocr"
		if err := e.run(ctx, img, base); err != nil {
			return pages, errs.Wrap(errs.CodeOCRFailed, err, "tesseract failed for '%s'", img)
		}
		pages = append(pages, base+".pdf")
	}

	if err := pdf.Merge(pages, outPath); err != nil {
		return pages, errs.Wrap(errs.CodeOCRFailed, err, "cannot merge OCR output into '%s'", outPath)
	}
	if _, err := pdf.PageCount(outPath); err != nil {
		return pages, errs.Wrap(errs.CodeOCREmpty, err, "tesseract produced no readable PDF '%s'", outPath)
	}
	e.logger.Debug("images recognized", "images", len(images), "out", outPath)
	return pages, nil
}

func (e *Engine) run(ctx context.Context, img, base string) error {
	if e.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.config.Timeout)
		defer cancel()
	}
	args := []string{img, base}
	if e.config.Language != "" {
		args = append(args, "-l", e.config.Language)
	}
	args = append(args, "pdf")
	return e.runner.Run(ctx, e.config.Executable, args...)
}

// ValidateImage checks that path holds a decodable image of non-zero size.
// Formats without a Go decoder (JPEG 2000, PNM) are only checked for
// content.
func ValidateImage(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	st, err := f.Stat()
	if err != nil {
		return err
	}
	if st.Size() == 0 {
		return fmt.Errorf("%s is empty", path)
	}
	switch format.Detect(path) {
	case format.JP2, format.PNM:
		return nil
	}

	cfg, name, err := image.DecodeConfig(f)
	if err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	if cfg.Width == 0 || cfg.Height == 0 {
		return fmt.Errorf("%s image %s has no pixels", name, path)
	}
	return nil
}
