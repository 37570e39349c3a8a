package tetml

import (
	"encoding/xml"
	"errors"
	"io"
	"strconv"
	"strings"

	"github.com/tsawler/docstruct/errs"
)

// node is an element of a TETML document.
type node struct {
	kind     Kind
	name     string
	attrs    map[string]string
	text     strings.Builder
	children []*node
}

func (n *node) attr(name string) string {
	return n.attrs[name]
}

func (n *node) float(name string) float64 {
	f, err := strconv.ParseFloat(n.attrs[name], 64)
	if err != nil {
		return 0
	}
	return f
}

// child returns the first child of the given kind.
func (n *node) child(k Kind) *node {
	for _, c := range n.children {
		if c.kind == k {
			return c
		}
	}
	return nil
}

func (n *node) childText(k Kind) string {
	if c := n.child(k); c != nil {
		return c.text.String()
	}
	return ""
}

// readTree decodes a complete TETML document. Namespaces are ignored; only
// local names are matched.
func readTree(r io.Reader) (*node, error) {
	decoder := xml.NewDecoder(r)
	var root *node
	var stack []*node

	for {
		token, err := decoder.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, errs.Wrap(errs.CodeXMLMalformed, err, "malformed XML")
		}

		switch t := token.(type) {
		case xml.StartElement:
			n := &node{kind: KindOf(t.Name.Local), name: t.Name.Local}
			if len(t.Attr) > 0 {
				n.attrs = make(map[string]string, len(t.Attr))
				for _, a := range t.Attr {
					n.attrs[a.Name.Local] = a.Value
				}
			}
			if len(stack) == 0 {
				if root != nil {
					return nil, errs.New(errs.CodeXMLMalformed, "multiple root elements")
				}
				root = n
			} else {
				parent := stack[len(stack)-1]
				parent.children = append(parent.children, n)
			}
			stack = append(stack, n)

		case xml.CharData:
			if len(stack) > 0 {
				stack[len(stack)-1].text.Write(t)
			}

		case xml.EndElement:
			stack = stack[:len(stack)-1]
		}
	}

	if root == nil {
		return nil, errs.New(errs.CodeXMLMalformed, "empty XML document")
	}
	if root.kind != KindTET {
		return nil, errs.New(errs.CodeXMLMalformed, "root element is %s, want TET", root.name)
	}
	return root, nil
}
