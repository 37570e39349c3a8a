package rules

import (
	"fmt"
	"regexp"
	"strings"
)

// Scope selects the part of a line a rule's regex is applied to.
type Scope string

const (
	// ScopeFirstToken matches against the first whitespace-delimited token.
	ScopeFirstToken Scope = "first_token"
	// ScopeLinePrefix matches against the beginning of the line text.
	ScopeLinePrefix Scope = "line_prefix"
)

// Rule describes one kind of ordered sequence, such as "1.", "2.", "3." or
// "(a)", "(b)".
type Rule struct {
	Name        string     `json:"name"`
	Scope       Scope      `json:"scope"`
	Regex       string     `json:"regex"`
	Comparator  Comparator `json:"comparator"`
	StartValues []string   `json:"startValues"`

	re     *regexp.Regexp
	starts map[string]bool
	// last components of decimal start values, keyed by depth
	decimalStarts map[int]map[int]bool
}

// Compile prepares the rule for matching. The regex is anchored at the start
// of the scope.
func (r *Rule) Compile() error {
	if r.Name == "" {
		return fmt.Errorf("rule without name")
	}
	switch r.Scope {
	case ScopeFirstToken, ScopeLinePrefix:
	case "":
		r.Scope = ScopeFirstToken
	default:
		return fmt.Errorf("rule %q: unknown scope %q", r.Name, r.Scope)
	}

	pattern := r.Regex
	if !strings.HasPrefix(pattern, "^") {
		pattern = "^(?:" + pattern + ")"
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return fmt.Errorf("rule %q: %w", r.Name, err)
	}
	r.re = re

	r.starts = make(map[string]bool, len(r.StartValues))
	r.decimalStarts = nil
	for _, v := range r.StartValues {
		r.starts[v] = true
		if r.Comparator != CompareDecimal {
			continue
		}
		if parts, ok := parseDecimal(v); ok {
			if r.decimalStarts == nil {
				r.decimalStarts = make(map[int]map[int]bool)
			}
			depth := len(parts)
			if r.decimalStarts[depth] == nil {
				r.decimalStarts[depth] = make(map[int]bool)
			}
			r.decimalStarts[depth][parts[depth-1]] = true
		}
	}
	return nil
}

// Target returns the value of text the rule applies to and whether the
// rule's regex matches it. For first-token rules the value is the first
// token; for line-prefix rules it is the matched prefix.
func (r *Rule) Target(text string) (string, bool) {
	if r.re == nil {
		return "", false
	}
	if r.Scope == ScopeLinePrefix {
		loc := r.re.FindStringIndex(text)
		if loc == nil {
			return "", false
		}
		return text[loc[0]:loc[1]], true
	}
	token := FirstToken(text)
	if token == "" || !r.re.MatchString(token) {
		return "", false
	}
	return token, true
}

// IsStart reports whether a sequence of this rule may begin at value. For
// decimal rules a value also qualifies when it has the depth of a listed
// start value and ends in the same component, so "2.1" starts a rule that
// lists "1.1".
func (r *Rule) IsStart(value string) bool {
	if r.starts[value] {
		return true
	}
	if r.decimalStarts == nil {
		return false
	}
	parts, ok := parseDecimal(value)
	if !ok {
		return false
	}
	return r.decimalStarts[len(parts)][parts[len(parts)-1]]
}

// Follows reports whether next immediately follows prev under the rule's
// comparator.
func (r *Rule) Follows(prev, next string) bool {
	return r.Comparator.Follows(prev, next)
}

// FirstToken returns the first whitespace-delimited token of text.
func FirstToken(text string) string {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

// AntiPattern excludes lines from a classifier.
type AntiPattern struct {
	Name  string `json:"name"`
	Regex string `json:"regex"`

	re *regexp.Regexp
}

// RuleSet is an ordered rule catalog plus its anti-patterns. Earlier rules
// take priority.
type RuleSet struct {
	Rules        []*Rule        `json:"rules"`
	AntiPatterns []*AntiPattern `json:"antiPatterns"`
}

// Compile compiles every rule and anti-pattern.
func (s *RuleSet) Compile() error {
	for _, r := range s.Rules {
		if err := r.Compile(); err != nil {
			return err
		}
	}
	for _, ap := range s.AntiPatterns {
		re, err := regexp.Compile(ap.Regex)
		if err != nil {
			return fmt.Errorf("anti-pattern %q: %w", ap.Name, err)
		}
		ap.re = re
	}
	return nil
}

// Excluded returns the name of the first anti-pattern matching text.
func (s *RuleSet) Excluded(text string) (string, bool) {
	for _, ap := range s.AntiPatterns {
		if ap.re != nil && ap.re.MatchString(text) {
			return ap.Name, true
		}
	}
	return "", false
}

// Starting returns the first rule whose regex matches text and whose
// target value is a start value, together with that value.
func (s *RuleSet) Starting(text string) (*Rule, string, bool) {
	for _, r := range s.Rules {
		if v, ok := r.Target(text); ok && r.IsStart(v) {
			return r, v, true
		}
	}
	return nil, "", false
}
