package pipeline

import (
	"errors"
	"os"

	"github.com/tsawler/docstruct/errs"
	"github.com/tsawler/docstruct/model"
)

// Suffixes of the sidecar files.
const (
	SuffixHeading    = "_heading"
	SuffixListBullet = "_list_bullet"
	SuffixListNumber = "_list_number"
	SuffixTable      = "_table"
	SuffixToken      = "_token"
)

// sidecar is the envelope of every sidecar file.
type sidecar struct {
	DocumentID       int    `json:"documentId"`
	DocumentFileName string `json:"documentFileName"`
	Content          any    `json:"content"`
}

// emit writes the document and its sidecars. When a write fails, the files
// already written are removed again.
func (c *Coordinator) emit(pc *Context) (State, error) {
	if err := c.writeOutputs(pc); err != nil {
		for _, path := range pc.Outputs {
			if rmErr := os.Remove(path); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) {
				pc.Logger.Warn("cannot remove partial output", "path", path, "error", rmErr)
			}
		}
		pc.Outputs = nil
		return StateEmit, err
	}
	return StateCleanup, nil
}

func (c *Coordinator) writeOutputs(pc *Context) error {
	doc := pc.Document
	if c.config.JSONInclConfig {
		m, err := c.config.ToMap()
		if err != nil {
			return errs.Wrap(errs.CodeOutputWrite, err, "cannot encode configuration")
		}
		doc.Config = m
	}
	if !c.config.JSONInclFonts {
		doc.Fonts = nil
	}

	if err := c.write(pc, pc.OutputPath(""), doc); err != nil {
		return err
	}

	r := pc.Result
	sidecars := []struct {
		enabled bool
		suffix  string
		content any
	}{
		{c.config.CreateExtraFileHeading, SuffixHeading, r.Headings},
		{c.config.CreateExtraFileListBullet, SuffixListBullet, r.BulletLists},
		{c.config.CreateExtraFileListNumber, SuffixListNumber, r.NumberedLists},
		{c.config.CreateExtraFileTable, SuffixTable, r.Tables},
	}
	for _, s := range sidecars {
		if !s.enabled {
			continue
		}
		v := sidecar{DocumentID: doc.DocumentID, DocumentFileName: doc.DocumentFileName, Content: s.content}
		if err := c.write(pc, pc.OutputPath(s.suffix), v); err != nil {
			return err
		}
	}

	if pc.Tokens != nil {
		return c.write(pc, pc.OutputPath(SuffixToken), pc.Tokens)
	}
	return nil
}

func (c *Coordinator) write(pc *Context, path string, v any) error {
	data, err := model.Marshal(v, c.config.JSONIndent, c.config.JSONSortKeys)
	if err != nil {
		return errs.Wrap(errs.CodeOutputWrite, err, "cannot encode '%s'", path)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errs.Wrap(errs.CodeOutputWrite, err, "cannot write '%s'", path)
	}
	pc.Outputs = append(pc.Outputs, path)
	pc.Logger.Debug("output written", "path", path, "bytes", len(data))
	return nil
}
