package rules

type ruleDef struct {
	name, regex string
	cmp         Comparator
	starts      []string
}

// punctuated forms shared by headings and numbered lists, in priority order
var punctuatedRules = []ruleDef{
	{"(999)", `\(\d+\)$`, CompareInteger, []string{"(1)"}},
	{"(ROM)", `\([IVXLC]+\)$`, CompareRoman, []string{"(I)"}},
	{"(rom)", `\([ivxlc]+\)$`, CompareRoman, []string{"(i)"}},
	{"(A)", `\([A-Z]\)$`, CompareUpper, []string{"(A)"}},
	{"(a)", `\([a-z]\)$`, CompareLower, []string{"(a)"}},
	{"999)", `\d+\)$`, CompareInteger, []string{"1)"}},
	{"ROM)", `[IVXLC]+\)$`, CompareRoman, []string{"I)"}},
	{"rom)", `[ivxlc]+\)$`, CompareRoman, []string{"i)"}},
	{"A)", `[A-Z]\)$`, CompareUpper, []string{"A)"}},
	{"a)", `[a-z]\)$`, CompareLower, []string{"a)"}},
	{"999.", `\d+\.$`, CompareInteger, []string{"1."}},
	{"ROM.", `[IVXLC]+\.$`, CompareRoman, []string{"I."}},
	{"rom.", `[ivxlc]+\.$`, CompareRoman, []string{"i."}},
	{"A.", `[A-Z]\.$`, CompareUpper, []string{"A."}},
	{"a.", `[a-z]\.$`, CompareLower, []string{"a."}},
}

var headingOnlyRules = []ruleDef{
	{"999.999", `\d+\.\d+\.?$`, CompareDecimal, []string{"1.1", "1.1."}},
	{"999.999.999", `\d+\.\d+\.\d+\.?$`, CompareDecimal, []string{"1.1.1", "1.1.1."}},
	{"999.999.999.999", `\d+\.\d+\.\d+\.\d+\.?$`, CompareDecimal, []string{"1.1.1.1", "1.1.1.1."}},
	{"999", `\d+$`, CompareInteger, []string{"1"}},
}

var (
	antiDate    = AntiPattern{Name: "date", Regex: `^\d{1,2}\.\d{1,2}\.\d{2,4}`}
	antiTime    = AntiPattern{Name: "time", Regex: `^\d{1,2}:\d{2}`}
	antiPercent = AntiPattern{Name: "percent", Regex: `^\d+([.,]\d+)?\s*%`}
	antiLower   = AntiPattern{Name: "number_lowercase_text", Regex: `^\d+\.?\s+[a-z]`}
	antiNumber  = AntiPattern{Name: "number_only", Regex: `^\d+$`}
)

var defaultBullets = []string{
	"-", "•", "·", "–", "*", "▪", "■",
	"○", "●", "◦", "➢", "►", "o",
}

func buildRules(defs ...[]ruleDef) []*Rule {
	var out []*Rule
	for _, group := range defs {
		for _, d := range group {
			out = append(out, &Rule{
				Name:        d.name,
				Scope:       ScopeFirstToken,
				Regex:       d.regex,
				Comparator:  d.cmp,
				StartValues: append([]string(nil), d.starts...),
			})
		}
	}
	return out
}

func antiPatterns(aps ...AntiPattern) []*AntiPattern {
	out := make([]*AntiPattern, len(aps))
	for i := range aps {
		ap := aps[i]
		out[i] = &ap
	}
	return out
}

// DefaultHeadingRules returns the built-in heading rule set, uncompiled.
func DefaultHeadingRules() *RuleSet {
	return &RuleSet{
		Rules:        buildRules(punctuatedRules, headingOnlyRules),
		AntiPatterns: antiPatterns(antiDate, antiTime, antiPercent, antiLower, antiNumber),
	}
}

// DefaultNumberedListRules returns the built-in numbered-list rule set,
// uncompiled. It has no bare-number or dotted-decimal rules, which belong to
// headings.
func DefaultNumberedListRules() *RuleSet {
	return &RuleSet{
		Rules:        buildRules(punctuatedRules),
		AntiPatterns: antiPatterns(antiDate, antiTime),
	}
}

// DefaultBullets returns the built-in bullet set.
func DefaultBullets() BulletSet {
	b := make(BulletSet, len(defaultBullets))
	for _, s := range defaultBullets {
		b[s] = 0
	}
	return b
}
