package layout

import (
	"log/slog"

	"github.com/tsawler/docstruct/model"
	"github.com/tsawler/docstruct/rules"
)

// BulletListConfig holds configuration for bulleted list detection
type BulletListConfig struct {
	// MinEntries is the minimum number of entries of an accepted list
	// Default: 2
	MinEntries int

	// ToleranceLLX is the allowed deviation, in percent, of an entry's
	// lower-left x from the x of the list's first entry
	// Default: 5
	ToleranceLLX float64

	// Logger receives debug output when Verbose is set
	Logger  *slog.Logger
	Verbose bool
}

// DefaultBulletListConfig returns sensible default configuration
func DefaultBulletListConfig() BulletListConfig {
	return BulletListConfig{
		MinEntries:   2,
		ToleranceLLX: 5,
	}
}

// BulletListDetector detects bulleted lists
type BulletListDetector struct {
	config  BulletListConfig
	bullets rules.BulletSet
	logger  *slog.Logger
}

// NewBulletListDetector creates a detector with default configuration
func NewBulletListDetector(bullets rules.BulletSet) *BulletListDetector {
	return NewBulletListDetectorWithConfig(bullets, DefaultBulletListConfig())
}

// NewBulletListDetectorWithConfig creates a detector with custom configuration
func NewBulletListDetectorWithConfig(bullets rules.BulletSet, config BulletListConfig) *BulletListDetector {
	return &BulletListDetector{
		config:  config,
		bullets: bullets,
		logger:  debugLogger(config.Logger, config.Verbose),
	}
}

// Detect walks the body lines in document order. A line starting with a
// bullet opens an entry; it continues the current list when it has the
// list's bullet and its x is within tolerance of the list's first entry,
// and starts a new list otherwise. A line without a bullet in the paragraph
// of the previous list line continues that entry; any other line closes the
// list.
func (d *BulletListDetector) Detect(doc *model.Document) *ListResult {
	doc.ResetType(model.Is(model.LineTypeListBullet))
	result := &ListResult{Type: ListTypeBullet}
	b := &listBuilder{doc: doc, result: result, minEntries: d.config.MinEntries}

	var prev model.LineRef
	for _, ref := range doc.LineRefs() {
		l := doc.Line(ref)
		if !isBody(l) {
			continue
		}

		bullet, ok := d.bullets.LongestPrefix(l.Text)
		if !ok {
			if b.current != nil && sameParagraph(prev, ref, doc) {
				b.extend(ref)
				prev = ref
				continue
			}
			b.finalize()
			continue
		}

		cur := b.current
		if cur == nil || cur.Bullet != bullet || !withinTolerance(l.LLX, cur.originX, d.config.ToleranceLLX) {
			if cur != nil {
				d.logger.Debug("bullet list interrupted", "lineNo", l.LineNo, "bullet", bullet)
			}
			b.open(List{Bullet: bullet, originX: l.LLX}, bullet, ref)
		} else {
			b.addItem(bullet, ref)
		}
		prev = ref
	}
	b.finalize()

	doc.NoListsBullet = len(result.Lists)
	doc.NoLinesListBullet = doc.CountLines(model.Is(model.LineTypeListBullet))
	d.logger.Debug("bullet lists detected", "lists", doc.NoListsBullet, "lines", doc.NoLinesListBullet)
	return result
}

func sameParagraph(a, b model.LineRef, doc *model.Document) bool {
	return a.Page == b.Page && doc.Line(a).ParagraphIndexPage == doc.Line(b).ParagraphIndexPage
}
