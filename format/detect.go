// Package format classifies input documents by file format and decides
// which collaborator turns them into a searchable PDF.
package format

import (
	"archive/zip"
	"bytes"
	"io"
	"path/filepath"
	"strings"

	"golang.org/x/text/cases"

	"github.com/tsawler/docstruct/errs"
)

// Format represents a supported input format.
type Format int

const (
	// Unknown indicates an unrecognized format.
	Unknown Format = iota
	// PDF indicates a PDF document.
	PDF
	// CSV indicates comma-separated values.
	CSV
	// DOCX indicates a Microsoft Word (.docx) document.
	DOCX
	// EPUB indicates an EPUB e-book.
	EPUB
	// HTML indicates an HTML document.
	HTML
	// ODT indicates an OpenDocument Text (.odt) document.
	ODT
	// RST indicates a reStructuredText document.
	RST
	// RTF indicates a Rich Text Format document.
	RTF
	// BMP indicates a bitmap image.
	BMP
	// GIF indicates a GIF image.
	GIF
	// JP2 indicates a JPEG 2000 image.
	JP2
	// JPEG indicates a JPEG image.
	JPEG
	// PNG indicates a PNG image.
	PNG
	// PNM indicates a portable anymap image.
	PNM
	// TIFF indicates a TIFF image.
	TIFF
	// WEBP indicates a WebP image.
	WEBP
)

// Kind groups formats by the route they take to a searchable PDF.
type Kind int

const (
	// KindUnknown formats cannot be processed.
	KindUnknown Kind = iota
	// KindPDF formats go to text extraction, or through OCR when scanned.
	KindPDF
	// KindPandoc formats are converted to PDF by pandoc.
	KindPandoc
	// KindImage formats are turned into a searchable PDF by tesseract.
	KindImage
)

func (k Kind) String() string {
	switch k {
	case KindPDF:
		return "pdf"
	case KindPandoc:
		return "pandoc"
	case KindImage:
		return "tesseract"
	default:
		return "unknown"
	}
}

type formatInfo struct {
	name string
	ext  string
	kind Kind
}

var formats = map[Format]formatInfo{
	PDF:  {"PDF", ".pdf", KindPDF},
	CSV:  {"CSV", ".csv", KindPandoc},
	DOCX: {"DOCX", ".docx", KindPandoc},
	EPUB: {"EPUB", ".epub", KindPandoc},
	HTML: {"HTML", ".html", KindPandoc},
	ODT:  {"ODT", ".odt", KindPandoc},
	RST:  {"RST", ".rst", KindPandoc},
	RTF:  {"RTF", ".rtf", KindPandoc},
	BMP:  {"BMP", ".bmp", KindImage},
	GIF:  {"GIF", ".gif", KindImage},
	JP2:  {"JP2", ".jp2", KindImage},
	JPEG: {"JPEG", ".jpeg", KindImage},
	PNG:  {"PNG", ".png", KindImage},
	PNM:  {"PNM", ".pnm", KindImage},
	TIFF: {"TIFF", ".tiff", KindImage},
	WEBP: {"WEBP", ".webp", KindImage},
}

// extensions maps every accepted, case-folded extension to its format.
var extensions = map[string]Format{
	".jpg": JPEG,
	".tif": TIFF,
}

func init() {
	for f, info := range formats {
		extensions[info.ext] = f
	}
}

// String returns the string representation of the format.
func (f Format) String() string {
	if info, ok := formats[f]; ok {
		return info.name
	}
	return "Unknown"
}

// Extension returns the typical file extension for the format.
func (f Format) Extension() string {
	return formats[f].ext
}

// Kind returns the processing route of the format.
func (f Format) Kind() Kind {
	return formats[f].kind
}

var folder = cases.Fold()

// Ext returns the case-folded extension of filename.
func Ext(filename string) string {
	return folder.String(filepath.Ext(filename))
}

// Detect determines file format from filename extension.
func Detect(filename string) Format {
	return extensions[Ext(filename)]
}

// Classify determines the format of filename, failing with 01.901 for an
// extension no collaborator handles.
func Classify(filename string) (Format, error) {
	f := Detect(filename)
	if f == Unknown {
		return Unknown, errs.New(errs.CodeUnknownExtension, "unknown file extension '%s'", Ext(filename))
	}
	return f, nil
}

var magics = []struct {
	prefix []byte
	format Format
}{
	{[]byte("%PDF"), PDF},
	{[]byte("\x89PNG\r\n\x1a\n"), PNG},
	{[]byte{0xFF, 0xD8, 0xFF}, JPEG},
	{[]byte("GIF87a"), GIF},
	{[]byte("GIF89a"), GIF},
	{[]byte("BM"), BMP},
	{[]byte("II*\x00"), TIFF},
	{[]byte("MM\x00*"), TIFF},
	{[]byte("\x00\x00\x00\x0cjP  \r\n\x87\n"), JP2},
	{[]byte(`{\rtf`), RTF},
}

// DetectFromMagic checks file magic bytes to determine format.
// Returns Unknown if the format cannot be determined from magic bytes alone,
// which includes every ZIP-based format.
func DetectFromMagic(data []byte) Format {
	for _, m := range magics {
		if bytes.HasPrefix(data, m.prefix) {
			return m.format
		}
	}
	if len(data) >= 12 && string(data[:4]) == "RIFF" && string(data[8:12]) == "WEBP" {
		return WEBP
	}
	if len(data) >= 2 && data[0] == 'P' && data[1] >= '1' && data[1] <= '6' {
		return PNM
	}
	if detectHTMLMagic(data) {
		return HTML
	}
	return Unknown
}

// detectHTMLMagic checks if the data looks like HTML content.
func detectHTMLMagic(data []byte) bool {
	data = bytes.TrimLeft(data, " \t\r\n")
	if len(data) == 0 {
		return false
	}

	upper := strings.ToUpper(string(data[:min(512, len(data))]))
	if strings.HasPrefix(upper, "<!DOCTYPE HTML") || strings.HasPrefix(upper, "<HTML") {
		return true
	}
	// XHTML
	return strings.HasPrefix(upper, "<?XML") && strings.Contains(upper, "<HTML")
}

// DetectFromReader inspects the content to determine format. Unlike
// DetectFromMagic it distinguishes the ZIP-based formats.
func DetectFromReader(r io.ReaderAt, size int64) (Format, error) {
	magic := make([]byte, 512)
	n, err := r.ReadAt(magic, 0)
	if err != nil && err != io.EOF {
		return Unknown, err
	}
	magic = magic[:n]

	if bytes.HasPrefix(magic, []byte("PK\x03\x04")) {
		return detectZIPFormat(r, size)
	}
	return DetectFromMagic(magic), nil
}

// detectZIPFormat tells DOCX, ODT and EPUB archives apart.
func detectZIPFormat(r io.ReaderAt, size int64) (Format, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return Unknown, err
	}

	for _, f := range zr.File {
		if f.Name != "mimetype" {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			break
		}
		data, _ := io.ReadAll(io.LimitReader(rc, 256))
		rc.Close()
		switch mimeType := string(data); {
		case strings.Contains(mimeType, "application/vnd.oasis.opendocument.text"):
			return ODT, nil
		case strings.Contains(mimeType, "application/epub+zip"):
			return EPUB, nil
		}
	}

	for _, f := range zr.File {
		if strings.HasPrefix(f.Name, "word/") {
			return DOCX, nil
		}
	}
	return Unknown, nil
}

// Matches reports whether content sniffed from data agrees with the format
// implied by filename. Formats without a signature always match.
func Matches(filename string, data []byte) bool {
	want := Detect(filename)
	got := DetectFromMagic(data)
	switch want {
	case CSV, RST, DOCX, EPUB, ODT, Unknown:
		return true
	case HTML:
		return got == HTML || got == Unknown
	}
	return got == want
}
