// Package model provides the document tree produced by docstruct.
//
// A [Document] owns its [Page] values, each page owns its [Paragraph] and
// [Line] values, and each paragraph owns its [Word] values. Lines never hold
// words directly: a line refers to an inclusive range of its paragraph's
// words through WordIndexFirst and WordIndexLast. All cross references are
// plain integers, so the tree has no cycles and serializes as is.
//
// # Numbering
//
// Fields named *No are 1-based and document scoped. They increase strictly
// in document order. Fields named *Index* are 0-based positions within the
// named container:
//
//	doc := model.NewDocument(1, "report.pdf")
//	page := doc.AppendPage()
//	para, _ := doc.AppendParagraph(page, nil)
//	line, _ := doc.AppendLine(page, para, 72, 300)
//	doc.AppendWord(page, para, line, model.WordInfo{Text: "Hello"})
//
// # Line types
//
// Every line and word carries a [LineType]. The parser assigns the base
// type ("table" inside a table cell, "body" otherwise) and the layout
// classifiers refine it.
//
// # Serialization
//
// [Document.Marshal] writes the canonical JSON form and [Load] reads it back
// and validates the structural invariants with [Document.Validate].
package model
