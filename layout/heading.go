package layout

import (
	"log/slog"

	"github.com/tsawler/docstruct/model"
	"github.com/tsawler/docstruct/rules"
)

// HeadingConfig holds configuration for heading detection
type HeadingConfig struct {
	// MaxLevel is the deepest heading level assigned
	// Default: 3
	MaxLevel int

	// MinPages is the minimum number of pages a document needs for
	// heading detection
	// Default: 1
	MinPages int

	// ToleranceLLX is the allowed deviation, in percent, of a heading's
	// lower-left x from the x of the first heading of its level
	// Default: 5
	ToleranceLLX float64

	// ContextLines is the number of following body lines recorded with
	// each heading in the result
	// Default: 3
	ContextLines int

	// IncludeRegex records the regex of the rule that matched each heading
	// Default: false
	IncludeRegex bool

	// Logger receives debug output when Verbose is set
	Logger  *slog.Logger
	Verbose bool
}

// DefaultHeadingConfig returns sensible default configuration
func DefaultHeadingConfig() HeadingConfig {
	return HeadingConfig{
		MaxLevel:     3,
		MinPages:     1,
		ToleranceLLX: 5,
		ContextLines: 3,
	}
}

// Heading represents a detected heading in a document
type Heading struct {
	// Level is the heading level (1-based)
	Level int `json:"level"`

	// Text is the heading text content
	Text string `json:"text"`

	// PageNo is the page the heading appears on (1-based)
	PageNo int `json:"pageNo"`

	// LineNo is the document-scoped number of the heading line
	LineNo int `json:"lineNo"`

	// Rule is the name of the rule that matched the heading
	Rule string `json:"rule"`

	// Regex is the rule's regex, when requested
	Regex string `json:"regex,omitempty"`

	// Context holds the texts of the body lines following the heading
	Context []string `json:"context,omitempty"`

	ref model.LineRef
}

// HeadingLayout represents all detected headings in a document
type HeadingLayout struct {
	// Headings are all detected headings in document order
	Headings []Heading `json:"headings"`
}

// HeadingCount returns the number of headings
func (h *HeadingLayout) HeadingCount() int {
	return len(h.Headings)
}

// GetHeadingsAtLevel returns all headings at a specific level
func (h *HeadingLayout) GetHeadingsAtLevel(level int) []Heading {
	var result []Heading
	for _, heading := range h.Headings {
		if heading.Level == level {
			result = append(result, heading)
		}
	}
	return result
}

// HeadingDetector detects rule-based heading hierarchies
type HeadingDetector struct {
	config HeadingConfig
	rules  *rules.RuleSet
	logger *slog.Logger
}

// NewHeadingDetector creates a new heading detector with default configuration
func NewHeadingDetector(set *rules.RuleSet) *HeadingDetector {
	return NewHeadingDetectorWithConfig(set, DefaultHeadingConfig())
}

// NewHeadingDetectorWithConfig creates a heading detector with custom configuration
func NewHeadingDetectorWithConfig(set *rules.RuleSet, config HeadingConfig) *HeadingDetector {
	return &HeadingDetector{
		config: config,
		rules:  set,
		logger: debugLogger(config.Logger, config.Verbose),
	}
}

// frame is an open heading level.
type frame struct {
	rule      *rules.Rule
	level     int
	x         float64
	lastValue string
}

// Detect assigns heading levels to body lines. It keeps a stack of open
// levels. A line continues the innermost frame whose rule matches it, whose
// comparator accepts its value after the frame's last value, and whose x is
// within tolerance; deeper frames are closed. Otherwise the first rule for
// which the line carries a start value opens a frame one level below the
// innermost one. A rule already on the stack restarts at its own level.
func (d *HeadingDetector) Detect(doc *model.Document) *HeadingLayout {
	doc.ResetType(model.LineType.IsHeading)
	layout := &HeadingLayout{Headings: make([]Heading, 0)}

	if doc.NoPages < d.config.MinPages || d.config.MaxLevel < 1 {
		doc.NoLinesHeading = 0
		return layout
	}

	var stack []frame
	for _, ref := range doc.LineRefs() {
		l := doc.Line(ref)
		if !isBody(l) || l.Text == "" {
			continue
		}
		if name, excluded := d.rules.Excluded(l.Text); excluded {
			d.logger.Debug("line excluded", "lineNo", l.LineNo, "antiPattern", name)
			continue
		}

		var matched *frame
		for i := len(stack) - 1; i >= 0; i-- {
			f := &stack[i]
			v, ok := f.rule.Target(l.Text)
			if !ok || !f.rule.Follows(f.lastValue, v) || !withinTolerance(l.LLX, f.x, d.config.ToleranceLLX) {
				continue
			}
			f.lastValue = v
			stack = stack[:i+1]
			matched = &stack[i]
			break
		}

		if matched == nil {
			r, v, ok := d.rules.Starting(l.Text)
			if !ok {
				continue
			}
			level := len(stack) + 1
			for i := range stack {
				if stack[i].rule == r {
					level = i + 1
					break
				}
			}
			if level > d.config.MaxLevel {
				d.logger.Debug("heading too deep", "lineNo", l.LineNo, "rule", r.Name, "level", level)
				continue
			}
			stack = append(stack[:level-1], frame{rule: r, level: level, x: l.LLX, lastValue: v})
			matched = &stack[level-1]
		}

		doc.SetType(ref, model.HeadingType(matched.level))
		h := Heading{
			Level:  matched.level,
			Text:   l.Text,
			PageNo: ref.Page + 1,
			LineNo: l.LineNo,
			Rule:   matched.rule.Name,
			ref:    ref,
		}
		if d.config.IncludeRegex {
			h.Regex = matched.rule.Regex
		}
		layout.Headings = append(layout.Headings, h)
	}

	if d.config.ContextLines > 0 {
		d.addContext(doc, layout)
	}
	doc.NoLinesHeading = doc.CountLines(model.LineType.IsHeading)
	d.logger.Debug("headings detected", "headings", len(layout.Headings))
	return layout
}

// addContext records up to ContextLines body lines following each heading,
// walking forward across pages and skipping lines of any other type.
func (d *HeadingDetector) addContext(doc *model.Document, layout *HeadingLayout) {
	refs := doc.LineRefs()
	pos := make(map[model.LineRef]int, len(refs))
	for i, ref := range refs {
		pos[ref] = i
	}
	for hi := range layout.Headings {
		h := &layout.Headings[hi]
		for i := pos[h.ref] + 1; i < len(refs) && len(h.Context) < d.config.ContextLines; i++ {
			l := doc.Line(refs[i])
			if isBody(l) && l.Text != "" {
				h.Context = append(h.Context, l.Text)
			}
		}
	}
}
