package layout

import (
	"strings"

	"github.com/tsawler/docstruct/model"
)

// ListType indicates the type of list
type ListType int

const (
	ListTypeBullet ListType = iota
	ListTypeNumbered
)

func (t ListType) String() string {
	if t == ListTypeBullet {
		return "bullet"
	}
	return "numbered"
}

func (t ListType) lineType() model.LineType {
	if t == ListTypeBullet {
		return model.LineTypeListBullet
	}
	return model.LineTypeListNumber
}

// ListItem is one entry of a list: the line opening the entry and any
// continuation lines that follow it.
type ListItem struct {
	// Marker is the bullet or the numbering value of the entry
	Marker string `json:"marker"`

	// Lines are the lines of the entry in document order
	Lines []LineSpan `json:"lines"`

	refs []model.LineRef
}

// Text returns the concatenated text of the entry.
func (item *ListItem) Text() string {
	parts := make([]string, len(item.Lines))
	for i, l := range item.Lines {
		parts[i] = l.Text
	}
	return strings.Join(parts, " ")
}

// List is a detected list.
type List struct {
	ListNo int `json:"listNo"`

	// Bullet is the bullet shared by every entry (bullet lists)
	Bullet string `json:"bullet,omitempty"`

	// Rule is the name of the numbering rule (numbered lists)
	Rule string `json:"rule,omitempty"`

	FirstPageNo int        `json:"firstPageNo"`
	LastPageNo  int        `json:"lastPageNo"`
	FirstLineNo int        `json:"firstLineNo"`
	LastLineNo  int        `json:"lastLineNo"`
	Items       []ListItem `json:"items"`

	// originX is the lower-left x of the opening line
	originX float64
}

// ItemCount returns the number of entries
func (list *List) ItemCount() int {
	return len(list.Items)
}

// ListResult contains the lists found by a list detector
type ListResult struct {
	Type  ListType `json:"-"`
	Lists []List   `json:"lists"`
}

// ListCount returns the number of lists
func (r *ListResult) ListCount() int {
	return len(r.Lists)
}

// TotalItemCount returns the number of entries across all lists
func (r *ListResult) TotalItemCount() int {
	n := 0
	for i := range r.Lists {
		n += len(r.Lists[i].Items)
	}
	return n
}

// listBuilder accumulates the list currently being read.
type listBuilder struct {
	doc        *model.Document
	result     *ListResult
	minEntries int
	current    *List
}

func (b *listBuilder) open(list List, marker string, ref model.LineRef) {
	b.finalize()
	b.current = &list
	b.addItem(marker, ref)
}

func (b *listBuilder) addItem(marker string, ref model.LineRef) {
	b.current.Items = append(b.current.Items, ListItem{
		Marker: marker,
		Lines:  []LineSpan{spanOf(b.doc, ref)},
		refs:   []model.LineRef{ref},
	})
}

// extend adds a continuation line to the last entry.
func (b *listBuilder) extend(ref model.LineRef) {
	item := &b.current.Items[len(b.current.Items)-1]
	item.Lines = append(item.Lines, spanOf(b.doc, ref))
	item.refs = append(item.refs, ref)
}

// finalize closes the current list. A list with at least minEntries entries
// is kept and its lines and words are reclassified.
func (b *listBuilder) finalize() {
	list := b.current
	b.current = nil
	if list == nil || len(list.Items) < b.minEntries {
		return
	}

	first := list.Items[0].Lines[0]
	lastItem := list.Items[len(list.Items)-1]
	last := lastItem.Lines[len(lastItem.Lines)-1]
	list.ListNo = len(b.result.Lists) + 1
	list.FirstPageNo, list.FirstLineNo = first.PageNo, first.LineNo
	list.LastPageNo, list.LastLineNo = last.PageNo, last.LineNo

	for _, item := range list.Items {
		for _, ref := range item.refs {
			b.doc.SetType(ref, b.result.Type.lineType())
		}
	}
	b.result.Lists = append(b.result.Lists, *list)
}
