package layout

import (
	"errors"
	"log/slog"

	"github.com/tsawler/docstruct/model"
	"github.com/tsawler/docstruct/rules"
)

var (
	// ErrNilDocument is returned when Classify gets no document.
	ErrNilDocument = errors.New("layout: nil document")

	// ErrNilRules is returned when Classify gets no rule store.
	ErrNilRules = errors.New("layout: nil rule store")
)

// Config holds the configuration of every line-type classifier.
type Config struct {
	// Table marking configuration
	Table TableConfig

	// Header and footer detection configuration
	HeaderFooter HeaderFooterConfig

	// Table-of-contents detection configuration
	TOC TOCConfig

	// Bulleted list detection configuration
	BulletList BulletListConfig

	// Numbered list detection configuration
	NumberedList NumberedListConfig

	// Heading detection configuration
	Heading HeadingConfig
}

// DefaultConfig returns the default configuration of every classifier.
func DefaultConfig() Config {
	return Config{
		Table:        DefaultTableConfig(),
		HeaderFooter: DefaultHeaderFooterConfig(),
		TOC:          DefaultTOCConfig(),
		BulletList:   DefaultBulletListConfig(),
		NumberedList: DefaultNumberedListConfig(),
		Heading:      DefaultHeadingConfig(),
	}
}

// WithLogger sets logger on every classifier configuration.
func (c Config) WithLogger(logger *slog.Logger) Config {
	c.Table.Logger = logger
	c.HeaderFooter.Logger = logger
	c.TOC.Logger = logger
	c.BulletList.Logger = logger
	c.NumberedList.Logger = logger
	c.Heading.Logger = logger
	return c
}

// Result holds the output of every classifier.
type Result struct {
	Tables        *TableResult
	HeaderFooter  *HeaderFooterResult
	TOC           *TOCResult
	BulletLists   *ListResult
	NumberedLists *ListResult
	Headings      *HeadingLayout
}

// Classify runs the line-type classifiers over doc in their fixed order:
// tables, headers and footers, table of contents, bulleted lists, numbered
// lists and headings. Every classified type is reverted to its base type
// first. Each classifier only takes lines still typed as body text, so
// earlier classifiers win.
func Classify(doc *model.Document, store *rules.Store, config Config) (*Result, error) {
	if doc == nil {
		return nil, ErrNilDocument
	}
	if store == nil || store.Heading == nil || store.ListNumber == nil {
		return nil, ErrNilRules
	}

	doc.ResetType(func(t model.LineType) bool { return !t.IsBase() })

	result := &Result{}
	result.Tables = NewTableDetectorWithConfig(config.Table).Detect(doc)
	result.HeaderFooter = NewHeaderFooterDetectorWithConfig(config.HeaderFooter).Detect(doc)
	result.TOC = NewTOCDetectorWithConfig(config.TOC).Detect(doc)
	result.BulletLists = NewBulletListDetectorWithConfig(store.Bullets, config.BulletList).Detect(doc)
	result.NumberedLists = NewNumberedListDetectorWithConfig(store.ListNumber, config.NumberedList).Detect(doc)
	result.Headings = NewHeadingDetectorWithConfig(store.Heading, config.Heading).Detect(doc)

	recount(doc)
	return result, nil
}
