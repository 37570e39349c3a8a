// Package rules holds the rule catalogs that drive the heading, numbered
// list and bulleted list classifiers.
//
// Each catalog is either the built-in default or a JSON file. A rule file
// looks like
//
//	{
//	  "rules": [
//	    {"name": "999.", "scope": "first_token", "regex": "\\d+\\.$",
//	     "comparator": "asc_integer", "startValues": ["1."]}
//	  ],
//	  "antiPatterns": [{"name": "date", "regex": "^\\d{1,2}\\.\\d{1,2}\\.\\d{2,4}"}]
//	}
//
// and a bullet file looks like {"bullets": {"•": 0, "-": 0}}.
package rules

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/tsawler/docstruct/errs"
	"github.com/tsawler/docstruct/model"
)

// DefaultSource selects a built-in catalog.
const DefaultSource = "default"

// File names written by ExportDefaults.
const (
	HeadingRulesFile    = "heading_rules.json"
	ListNumberRulesFile = "list_number_rules.json"
	ListBulletRulesFile = "list_bullet_rules.json"
)

// Store holds the catalogs used for one document.
type Store struct {
	Heading    *RuleSet
	ListNumber *RuleSet
	Bullets    BulletSet
}

// DefaultStore returns a store with every built-in catalog compiled.
func DefaultStore() *Store {
	s, err := Load(DefaultSource, DefaultSource, DefaultSource)
	if err != nil {
		// built-in catalogs always compile
		panic(err)
	}
	return s
}

// Load loads all three catalogs.
func Load(headingSource, listNumberSource, listBulletSource string) (*Store, error) {
	heading, err := LoadHeadingRules(headingSource)
	if err != nil {
		return nil, err
	}
	number, err := LoadNumberedListRules(listNumberSource)
	if err != nil {
		return nil, err
	}
	bullets, err := LoadBulletSet(listBulletSource)
	if err != nil {
		return nil, err
	}
	return &Store{Heading: heading, ListNumber: number, Bullets: bullets}, nil
}

func isDefault(source string) bool {
	return source == "" || source == DefaultSource
}

// LoadHeadingRules returns the built-in heading rules or those of a JSON file.
func LoadHeadingRules(source string) (*RuleSet, error) {
	return loadRuleSet(source, DefaultHeadingRules)
}

// LoadNumberedListRules returns the built-in numbered-list rules or those of
// a JSON file.
func LoadNumberedListRules(source string) (*RuleSet, error) {
	return loadRuleSet(source, DefaultNumberedListRules)
}

func loadRuleSet(source string, builtin func() *RuleSet) (*RuleSet, error) {
	set := builtin()
	if !isDefault(source) {
		data, err := readSource(source)
		if err != nil {
			return nil, err
		}
		set = &RuleSet{}
		if err := json.Unmarshal(data, set); err != nil {
			return nil, errs.Wrap(errs.CodeRuleFileInvalid, err, "invalid rule file %s", source)
		}
	}
	if err := set.Compile(); err != nil {
		return nil, errs.Wrap(errs.CodeRuleFileInvalid, err, "invalid rule file %s", source)
	}
	return set, nil
}

type bulletFile struct {
	Bullets BulletSet `json:"bullets"`
}

// LoadBulletSet returns the built-in bullet set or that of a JSON file.
func LoadBulletSet(source string) (BulletSet, error) {
	if isDefault(source) {
		return DefaultBullets(), nil
	}
	data, err := readSource(source)
	if err != nil {
		return nil, err
	}
	var f bulletFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, errs.Wrap(errs.CodeRuleFileInvalid, err, "invalid bullet file %s", source)
	}
	if len(f.Bullets) == 0 {
		return nil, errs.New(errs.CodeRuleFileInvalid, "bullet file %s defines no bullets", source)
	}
	return f.Bullets, nil
}

func readSource(source string) ([]byte, error) {
	data, err := os.ReadFile(source)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, errs.New(errs.CodeRuleFileMissing, "rule file not found: %s", source)
	}
	if err != nil {
		return nil, errs.Wrap(errs.CodeRuleFileMissing, err, "failed to read rule file %s", source)
	}
	return data, nil
}

// ExportDefaults writes the built-in catalogs as JSON files into dir.
func ExportDefaults(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errs.Wrap(errs.CodeOutputWrite, err, "failed to create %s", dir)
	}
	files := []struct {
		name string
		v    any
	}{
		{HeadingRulesFile, DefaultHeadingRules()},
		{ListNumberRulesFile, DefaultNumberedListRules()},
		{ListBulletRulesFile, bulletFile{Bullets: DefaultBullets()}},
	}
	for _, f := range files {
		data, err := model.Marshal(f.v, 2, false)
		if err != nil {
			return err
		}
		path := filepath.Join(dir, f.name)
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return errs.Wrap(errs.CodeOutputWrite, err, "failed to write %s", path)
		}
	}
	return nil
}
