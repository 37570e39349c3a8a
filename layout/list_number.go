package layout

import (
	"log/slog"

	"github.com/tsawler/docstruct/model"
	"github.com/tsawler/docstruct/rules"
)

// NumberedListConfig holds configuration for numbered list detection
type NumberedListConfig struct {
	// MinEntries is the minimum number of entries of an accepted list
	// Default: 2
	MinEntries int

	// ToleranceLLX is the allowed deviation, in percent, of an entry's
	// lower-left x from the x of the list's first entry. It also bounds
	// continuation lines around the x of the opening line's second word.
	// Default: 5
	ToleranceLLX float64

	// Logger receives debug output when Verbose is set
	Logger  *slog.Logger
	Verbose bool
}

// DefaultNumberedListConfig returns sensible default configuration
func DefaultNumberedListConfig() NumberedListConfig {
	return NumberedListConfig{
		MinEntries:   2,
		ToleranceLLX: 5,
	}
}

// NumberedListDetector detects numbered lists
type NumberedListDetector struct {
	config NumberedListConfig
	rules  *rules.RuleSet
	logger *slog.Logger
}

// NewNumberedListDetector creates a detector with default configuration
func NewNumberedListDetector(set *rules.RuleSet) *NumberedListDetector {
	return NewNumberedListDetectorWithConfig(set, DefaultNumberedListConfig())
}

// NewNumberedListDetectorWithConfig creates a detector with custom configuration
func NewNumberedListDetectorWithConfig(set *rules.RuleSet, config NumberedListConfig) *NumberedListDetector {
	return &NumberedListDetector{
		config: config,
		rules:  set,
		logger: debugLogger(config.Logger, config.Verbose),
	}
}

// numberedState is the active rule of the list being read.
type numberedState struct {
	rule      *rules.Rule
	lastValue string
	// continuation window around the opening line's second word
	contX   float64
	hasCont bool
}

// Detect walks the body lines in document order keeping at most one active
// rule. A line extends the active list when the rule matches it, its value
// follows the previous entry and its x is within tolerance of the list.
// Otherwise a rule whose start value the line carries opens a new list.
// Otherwise a line within the continuation window joins the current entry,
// and any other line closes the list.
func (d *NumberedListDetector) Detect(doc *model.Document) *ListResult {
	doc.ResetType(model.Is(model.LineTypeListNumber))
	result := &ListResult{Type: ListTypeNumbered}
	b := &listBuilder{doc: doc, result: result, minEntries: d.config.MinEntries}
	var state numberedState

	for _, ref := range doc.LineRefs() {
		l := doc.Line(ref)
		if !isBody(l) {
			continue
		}

		if name, excluded := d.rules.Excluded(l.Text); excluded {
			d.logger.Debug("line excluded", "lineNo", l.LineNo, "antiPattern", name)
		} else {
			if b.current != nil {
				if v, ok := state.rule.Target(l.Text); ok && state.rule.Follows(state.lastValue, v) &&
					withinTolerance(l.LLX, b.current.originX, d.config.ToleranceLLX) {
					b.addItem(v, ref)
					state.lastValue = v
					continue
				}
			}

			if r, v, ok := d.rules.Starting(l.Text); ok {
				b.open(List{Rule: r.Name, originX: l.LLX}, v, ref)
				state = numberedState{rule: r, lastValue: v}
				if words := doc.LineWords(ref); len(words) > 1 {
					state.contX, state.hasCont = words[1].LLX, true
				}
				continue
			}
		}

		if b.current != nil && state.hasCont && withinTolerance(l.LLX, state.contX, d.config.ToleranceLLX) {
			b.extend(ref)
			continue
		}
		if b.current != nil {
			d.logger.Debug("numbered list closed", "lineNo", l.LineNo, "rule", state.rule.Name, "entries", len(b.current.Items))
		}
		b.finalize()
		state = numberedState{}
	}
	b.finalize()

	doc.NoListsNumber = len(result.Lists)
	doc.NoLinesListNumber = doc.CountLines(model.Is(model.LineTypeListNumber))
	d.logger.Debug("numbered lists detected", "lists", doc.NoListsNumber, "lines", doc.NoLinesListNumber)
	return result
}
