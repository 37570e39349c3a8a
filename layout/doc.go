// Package layout classifies the lines of a document model into line types.
//
// Every line starts as body text, or as table text when it lies inside a
// table. The classifiers then take body lines in a fixed order:
//
//   - [TableDetector] - collects table cells for the tables result file
//   - [HeaderFooterDetector] - recurring first and last lines of pages
//   - [TOCDetector] - a table of contents on the first pages
//   - [BulletListDetector] - runs of aligned lines starting with a bullet
//   - [NumberedListDetector] - runs of aligned lines numbered in order
//   - [HeadingDetector] - a numbered heading hierarchy
//
// [Classify] runs all of them:
//
//	result, err := layout.Classify(doc, rules.DefaultStore(), layout.DefaultConfig())
//	if err != nil {
//	    return err
//	}
//	for _, h := range result.Headings.Headings {
//	    fmt.Println(h.Level, h.Text)
//	}
//
// # Idempotence
//
// Each detector first reverts the lines it typed on an earlier run to their
// base type and recomputes its counters, so running a detector twice gives
// the same document.
//
// # Configuration
//
// Each detector can be configured independently:
//
//	config := layout.DefaultConfig()
//	config.TOC.LastPage = 3
//	config.Heading.MaxLevel = 4
//	result, err := layout.Classify(doc, store, config)
package layout
