package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Marshal writes v as JSON. indent > 0 selects pretty printing with that
// many spaces per level. With sortKeys, object keys are emitted in sorted
// order instead of declaration order. HTML characters are never escaped.
func Marshal(v any, indent int, sortKeys bool) ([]byte, error) {
	if sortKeys {
		raw, err := json.Marshal(v)
		if err != nil {
			return nil, err
		}
		dec := json.NewDecoder(bytes.NewReader(raw))
		dec.UseNumber()
		var generic any
		if err := dec.Decode(&generic); err != nil {
			return nil, err
		}
		v = generic
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if indent > 0 {
		enc.SetIndent("", strings.Repeat(" ", indent))
	}
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Marshal writes the document as JSON. See [Marshal].
func (d *Document) Marshal(indent int, sortKeys bool) ([]byte, error) {
	return Marshal(d, indent, sortKeys)
}

// Load reads a document from its JSON form and validates it.
func Load(data []byte) (*Document, error) {
	var d Document
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("failed to decode document: %w", err)
	}
	if d.Pages == nil {
		d.Pages = make([]Page, 0)
	}
	for pi := range d.Pages {
		p := &d.Pages[pi]
		if p.Paragraphs == nil {
			p.Paragraphs = make([]Paragraph, 0)
		}
		if p.Lines == nil {
			p.Lines = make([]Line, 0)
		}
		for qi := range p.Paragraphs {
			para := &p.Paragraphs[qi]
			if para.Words == nil {
				para.Words = make([]Word, 0)
			}
			if para.Table != nil {
				d.lastTable = *para.Table
			}
		}
	}
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return &d, nil
}
