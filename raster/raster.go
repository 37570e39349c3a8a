// Package raster writes the page images of a scanned PDF as image files for
// OCR.
//
// Scanned PDFs carry one image XObject per page. The images are extracted with
// pdfcpu and re-encoded to the configured raster format; sources that Go can
// decode (JPEG, PNG, TIFF, BMP, WEBP) are converted, JPEG 2000 streams are
// written unchanged for tesseract to read.
package raster

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	_ "image/gif"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/tsawler/docstruct/errs"
)

// Format is an output image format.
type Format string

const (
	PNG  Format = "png"
	JPEG Format = "jpeg"
)

// Ext returns the file extension written for f.
func (f Format) Ext() string {
	if f == JPEG {
		return ".jpg"
	}
	return ".png"
}

// ParseFormat returns the format for name.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(name) {
	case "png":
		return PNG, nil
	case "jpeg", "jpg":
		return JPEG, nil
	}
	return "", fmt.Errorf("unknown raster format %q", name)
}

// Config holds configuration for the rasterizer
type Config struct {
	// Format of the written images
	// Default: PNG
	Format Format

	// JPEGQuality applies to JPEG output
	// Default: 90
	JPEGQuality int

	// Logger receives debug output; nil discards it
	Logger *slog.Logger
}

// DefaultConfig returns sensible default configuration
func DefaultConfig() Config {
	return Config{
		Format:      PNG,
		JPEGQuality: 90,
	}
}

// Image is one written page image.
type Image struct {
	// Name is the file name without directory
	Name string

	// Path is the full path of the written file
	Path string

	// PageNo is the 1-based page the image came from
	PageNo int
}

// Rasterizer extracts page images.
type Rasterizer struct {
	config Config
	logger *slog.Logger
}

// New creates a rasterizer.
func New(config Config) *Rasterizer {
	if config.Format == "" {
		config.Format = PNG
	}
	if config.JPEGQuality <= 0 {
		config.JPEGQuality = 90
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Rasterizer{config: config, logger: logger}
}

// Rasterize writes the images of pdfPath to outDir as
// <stem>_<page>_<n><ext>, in page order. A PDF without page images fails
// with 21.901.
func (r *Rasterizer) Rasterize(ctx context.Context, pdfPath, outDir, stem string) ([]Image, error) {
	f, err := os.Open(pdfPath)
	if err != nil {
		return nil, errs.Wrap(errs.CodeRasterizer, err, "cannot open '%s'", pdfPath)
	}
	defer f.Close()

	var images []Image
	perPage := map[int]int{}
	digest := func(img model.Image, singleImgPerPage bool, maxPageDigits int) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		perPage[img.PageNr]++
		base := fmt.Sprintf("%s_%03d_%d", stem, img.PageNr, perPage[img.PageNr])
		written, err := r.write(img, filepath.Join(outDir, base))
		if err != nil {
			return fmt.Errorf("page %d: %w", img.PageNr, err)
		}
		images = append(images, Image{Name: filepath.Base(written), Path: written, PageNo: img.PageNr})
		return nil
	}

	if err := api.ExtractImages(f, nil, digest, model.NewDefaultConfiguration()); err != nil {
		return images, errs.Wrap(errs.CodeRasterizer, err, "cannot extract images from '%s'", pdfPath)
	}
	if len(images) == 0 {
		return nil, errs.New(errs.CodeRasterizer, "no page images in '%s'", pdfPath)
	}
	r.logger.Debug("pdf rasterized", "pdf", pdfPath, "images", len(images))
	return images, nil
}

// write stores one extracted image below base and returns the written path.
func (r *Rasterizer) write(img model.Image, base string) (string, error) {
	data, err := io.ReadAll(img)
	if err != nil {
		return "", err
	}
	if img.FileType == "jpx" {
		path := base + ".jp2"
		return path, os.WriteFile(path, data, 0o644)
	}

	path := base + r.config.Format.Ext()
	var buf bytes.Buffer
	if err := Encode(&buf, bytes.NewReader(data), r.config.Format, r.config.JPEGQuality); err != nil {
		return "", err
	}
	return path, os.WriteFile(path, buf.Bytes(), 0o644)
}

// Encode decodes an image from src and writes it to w in format f.
func Encode(w io.Writer, src io.Reader, f Format, quality int) error {
	img, _, err := image.Decode(src)
	if err != nil {
		return fmt.Errorf("decode: %w", err)
	}
	switch f {
	case JPEG:
		return jpeg.Encode(w, img, &jpeg.Options{Quality: quality})
	default:
		return png.Encode(w, img)
	}
}

// Paths returns the paths of images.
func Paths(images []Image) []string {
	paths := make([]string, len(images))
	for i, img := range images {
		paths[i] = img.Path
	}
	return paths
}
