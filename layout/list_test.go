package layout

import (
	"testing"

	"github.com/tsawler/docstruct/model"
	"github.com/tsawler/docstruct/rules"
)

func TestListTypeString(t *testing.T) {
	if ListTypeBullet.String() != "bullet" || ListTypeNumbered.String() != "numbered" {
		t.Errorf("unexpected names %q, %q", ListTypeBullet, ListTypeNumbered)
	}
}

func TestBulletListDetector_SimpleList(t *testing.T) {
	doc := buildDoc(t, page(72, "Shopping:", "• apples", "• pears", "• plums", "Done."))

	result := NewBulletListDetector(rules.DefaultBullets()).Detect(doc)

	if result.ListCount() != 1 {
		t.Fatalf("expected 1 list, got %d", result.ListCount())
	}
	list := result.Lists[0]
	if list.Bullet != "•" || list.ItemCount() != 3 {
		t.Errorf("expected 3 items with bullet •, got %q with %d", list.Bullet, list.ItemCount())
	}
	if list.FirstLineNo != 2 || list.LastLineNo != 4 {
		t.Errorf("expected lines 2..4, got %d..%d", list.FirstLineNo, list.LastLineNo)
	}
	if doc.NoListsBullet != 1 || doc.NoLinesListBullet != 3 {
		t.Errorf("expected counters 1/3, got %d/%d", doc.NoListsBullet, doc.NoLinesListBullet)
	}
	if got := typeOf(t, doc, "Done."); got != model.LineTypeBody {
		t.Errorf("expected trailing line to stay body, got %s", got)
	}
	checkWordTypes(t, doc)
}

func TestBulletListDetector_ContinuationInParagraph(t *testing.T) {
	doc := buildDoc(t, []testPara{
		para(ln(72, "• first item"), ln(84, "wraps onto a second line")),
		para(ln(72, "• second item")),
		para(ln(72, "Unrelated text")),
	})

	result := NewBulletListDetector(rules.DefaultBullets()).Detect(doc)

	if result.TotalItemCount() != 2 {
		t.Fatalf("expected 2 items, got %d", result.TotalItemCount())
	}
	item := result.Lists[0].Items[0]
	if len(item.Lines) != 2 {
		t.Fatalf("expected first item to span 2 lines, got %d", len(item.Lines))
	}
	if got := item.Text(); got != "• first item wraps onto a second line" {
		t.Errorf("unexpected item text %q", got)
	}
	if doc.NoLinesListBullet != 3 {
		t.Errorf("expected 3 bullet lines, got %d", doc.NoLinesListBullet)
	}
	if got := typeOf(t, doc, "Unrelated text"); got != model.LineTypeBody {
		t.Errorf("expected body, got %s", got)
	}
}

func TestBulletListDetector_Splits(t *testing.T) {
	tests := []struct {
		name   string
		paras  []testPara
		lists  int
		lines  int
		counts []int
	}{
		{
			name:   "bullet change",
			paras:  page(72, "• a", "• b", "- c", "- d"),
			lists:  2,
			lines:  4,
			counts: []int{2, 2},
		},
		{
			name:   "indent change",
			paras:  []testPara{para(ln(72, "• a")), para(ln(72, "• b")), para(ln(144, "• c"))},
			lists:  1,
			lines:  2,
			counts: []int{2},
		},
		{
			name:  "single entry",
			paras: page(72, "• lonely", "after"),
			lists: 0,
			lines: 0,
		},
		{
			name:  "letter bullet needs space",
			paras: page(72, "open door", "other text"),
			lists: 0,
			lines: 0,
		},
		{
			name:   "letter bullet",
			paras:  page(72, "o first", "o second"),
			lists:  1,
			lines:  2,
			counts: []int{2},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := buildDoc(t, tt.paras)
			result := NewBulletListDetector(rules.DefaultBullets()).Detect(doc)
			if result.ListCount() != tt.lists {
				t.Fatalf("expected %d lists, got %d", tt.lists, result.ListCount())
			}
			if doc.NoLinesListBullet != tt.lines {
				t.Errorf("expected %d lines, got %d", tt.lines, doc.NoLinesListBullet)
			}
			for i, n := range tt.counts {
				if got := result.Lists[i].ItemCount(); got != n {
					t.Errorf("list %d: expected %d items, got %d", i, n, got)
				}
			}
		})
	}
}

func TestBulletListDetector_AcrossPages(t *testing.T) {
	doc := buildDoc(t, page(72, "• one", "• two"), page(72, "• three"))

	result := NewBulletListDetector(rules.DefaultBullets()).Detect(doc)

	if result.ListCount() != 1 || result.Lists[0].ItemCount() != 3 {
		t.Fatalf("expected one list of 3, got %+v", result.Lists)
	}
	if result.Lists[0].FirstPageNo != 1 || result.Lists[0].LastPageNo != 2 {
		t.Errorf("expected pages 1..2, got %d..%d", result.Lists[0].FirstPageNo, result.Lists[0].LastPageNo)
	}
}

func TestNumberedListDetector_StopsAtUnnumberedLine(t *testing.T) {
	doc := buildDoc(t, []testPara{
		para(ln(72, "1. foo")),
		para(ln(72, "2. bar")),
		para(ln(72, "3. baz")),
		para(ln(150, "4 Heading")),
		para(ln(72, "5. qux")),
	})

	result := NewNumberedListDetector(compiled(t, rules.DefaultNumberedListRules())).Detect(doc)

	if result.ListCount() != 1 {
		t.Fatalf("expected 1 list, got %d", result.ListCount())
	}
	list := result.Lists[0]
	if list.Rule != "999." || list.ItemCount() != 3 {
		t.Errorf("expected 3 items of rule 999., got %d of %q", list.ItemCount(), list.Rule)
	}
	for _, text := range []string{"1. foo", "2. bar", "3. baz"} {
		if got := typeOf(t, doc, text); got != model.LineTypeListNumber {
			t.Errorf("%q: expected list_number, got %s", text, got)
		}
	}
	for _, text := range []string{"4 Heading", "5. qux"} {
		if got := typeOf(t, doc, text); got != model.LineTypeBody {
			t.Errorf("%q: expected body, got %s", text, got)
		}
	}
	if doc.NoListsNumber != 1 || doc.NoLinesListNumber != 3 {
		t.Errorf("expected counters 1/3, got %d/%d", doc.NoListsNumber, doc.NoLinesListNumber)
	}
	checkWordTypes(t, doc)
}

func TestNumberedListDetector_MinEntries(t *testing.T) {
	doc := buildDoc(t, page(72, "1. foo", "2. bar", "3. baz"))

	config := DefaultNumberedListConfig()
	config.MinEntries = 4
	result := NewNumberedListDetectorWithConfig(compiled(t, rules.DefaultNumberedListRules()), config).Detect(doc)

	if result.ListCount() != 0 || doc.NoLinesListNumber != 0 {
		t.Errorf("expected short list discarded, got %d lists", result.ListCount())
	}
}

func TestNumberedListDetector_ContinuationWindow(t *testing.T) {
	// the second word of "1. first" sits at x 102
	doc := buildDoc(t, []testPara{
		para(ln(72, "1. first item"), ln(102, "wraps here")),
		para(ln(72, "2. second item")),
		para(ln(72, "Closing remark")),
	})

	result := NewNumberedListDetector(compiled(t, rules.DefaultNumberedListRules())).Detect(doc)

	if result.TotalItemCount() != 2 {
		t.Fatalf("expected 2 items, got %d", result.TotalItemCount())
	}
	if n := len(result.Lists[0].Items[0].Lines); n != 2 {
		t.Errorf("expected continuation line in first item, got %d lines", n)
	}
	if doc.NoLinesListNumber != 3 {
		t.Errorf("expected 3 list lines, got %d", doc.NoLinesListNumber)
	}
	if got := typeOf(t, doc, "Closing remark"); got != model.LineTypeBody {
		t.Errorf("expected body, got %s", got)
	}
}

func TestNumberedListDetector_SingleWordOpeningHasNoWindow(t *testing.T) {
	doc := buildDoc(t, []testPara{
		para(ln(72, "1.")),
		para(ln(102, "continued text")),
		para(ln(72, "2. second")),
	})

	result := NewNumberedListDetector(compiled(t, rules.DefaultNumberedListRules())).Detect(doc)

	if result.ListCount() != 0 {
		t.Errorf("expected no list, got %+v", result.Lists)
	}
}

func TestNumberedListDetector_Rules(t *testing.T) {
	tests := []struct {
		name  string
		lines []string
		rule  string
		items int
	}{
		{"parenthesized roman", []string{"(i) one", "(ii) two", "(iii) three"}, "(rom)", 3},
		{"upper letter", []string{"A) one", "B) two"}, "A)", 2},
		{"lower letter", []string{"a. one", "b. two", "c. three"}, "a.", 3},
		{"gap ends list", []string{"1) one", "3) three"}, "", 0},
		{"dates excluded", []string{"1.1.2024 kickoff", "2.1.2024 review"}, "", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := buildDoc(t, page(72, tt.lines...))
			result := NewNumberedListDetector(compiled(t, rules.DefaultNumberedListRules())).Detect(doc)
			if tt.items == 0 {
				if result.ListCount() != 0 {
					t.Errorf("expected no list, got %+v", result.Lists)
				}
				return
			}
			if result.ListCount() != 1 {
				t.Fatalf("expected 1 list, got %d", result.ListCount())
			}
			if result.Lists[0].Rule != tt.rule || result.Lists[0].ItemCount() != tt.items {
				t.Errorf("expected %d items of %q, got %d of %q", tt.items, tt.rule, result.Lists[0].ItemCount(), result.Lists[0].Rule)
			}
		})
	}
}

func TestNumberedListDetector_NewStartOpensNewList(t *testing.T) {
	doc := buildDoc(t, page(72, "1. a", "2. b", "1. c", "2. d"))

	result := NewNumberedListDetector(compiled(t, rules.DefaultNumberedListRules())).Detect(doc)

	if result.ListCount() != 2 || result.TotalItemCount() != 4 {
		t.Errorf("expected 2 lists of 2, got %d lists with %d items", result.ListCount(), result.TotalItemCount())
	}
	if result.Lists[1].ListNo != 2 {
		t.Errorf("expected second list numbered 2, got %d", result.Lists[1].ListNo)
	}
}

func TestListDetectors_Idempotent(t *testing.T) {
	doc := buildDoc(t, page(72, "• x", "• y", "1. a", "2. b", "text"))
	bullets := NewBulletListDetector(rules.DefaultBullets())
	numbers := NewNumberedListDetector(compiled(t, rules.DefaultNumberedListRules()))

	bullets.Detect(doc)
	numbers.Detect(doc)
	first := lineTypes(doc)

	bullets.Detect(doc)
	numbers.Detect(doc)
	second := lineTypes(doc)

	for i := range first {
		if first[i] != second[i] {
			t.Errorf("line %d: %s -> %s", i, first[i], second[i])
		}
	}
	if doc.NoLinesListBullet != 2 || doc.NoLinesListNumber != 2 {
		t.Errorf("expected 2/2 list lines, got %d/%d", doc.NoLinesListBullet, doc.NoLinesListNumber)
	}
}
