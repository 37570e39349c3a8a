// Package config holds the docstruct run configuration.
//
// Configuration is layered: built-in defaults, then an optional YAML file,
// then environment variables named DOCSTRUCT_<KEY>, where KEY is the YAML
// key in upper snake case (ltHeaderMaxLines becomes
// DOCSTRUCT_LT_HEADER_MAX_LINES). A .env file can seed the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"reflect"
	"slices"
	"strings"
	"time"
	"unicode"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/tsawler/docstruct/errs"
	"github.com/tsawler/docstruct/layout"
	"github.com/tsawler/docstruct/nlp"
	"github.com/tsawler/docstruct/nlp"
	"github.com/tsawler/docstruct/raster"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "DOCSTRUCT_"

// Config is the full run configuration.
type Config struct {
	Language             string `yaml:"language"`
	OutputDir            string `yaml:"outputDir"`
	DeleteAuxiliaryFiles bool   `yaml:"deleteAuxiliaryFiles"`
	LogLevel             string `yaml:"logLevel"`

	JSONIndent     int  `yaml:"jsonIndent"`
	JSONSortKeys   bool `yaml:"jsonSortKeys"`
	JSONInclConfig bool `yaml:"jsonInclConfig"`
	JSONInclFonts  bool `yaml:"jsonInclFonts"`

	CreateExtraFileHeading    bool `yaml:"createExtraFileHeading"`
	CreateExtraFileListBullet bool `yaml:"createExtraFileListBullet"`
	CreateExtraFileListNumber bool `yaml:"createExtraFileListNumber"`
	CreateExtraFileTable      bool `yaml:"createExtraFileTable"`

	LtFooterMaxLines    int `yaml:"ltFooterMaxLines"`
	LtHeaderMaxLines    int `yaml:"ltHeaderMaxLines"`
	LtFooterMaxDistance int `yaml:"ltFooterMaxDistance"`
	LtHeaderMaxDistance int `yaml:"ltHeaderMaxDistance"`

	LtHeadingMaxLevel       int     `yaml:"ltHeadingMaxLevel"`
	LtHeadingMinPages       int     `yaml:"ltHeadingMinPages"`
	LtHeadingToleranceLlx   float64 `yaml:"ltHeadingToleranceLlx"`
	LtHeadingRuleFile       string  `yaml:"ltHeadingRuleFile"`
	LtHeadingFileInclNoCtx  int     `yaml:"ltHeadingFileInclNoCtx"`
	LtHeadingFileInclRegexp bool    `yaml:"ltHeadingFileInclRegexp"`

	LtListBulletMinEntries   int     `yaml:"ltListBulletMinEntries"`
	LtListBulletToleranceLlx float64 `yaml:"ltListBulletToleranceLlx"`
	LtListBulletRuleFile     string  `yaml:"ltListBulletRuleFile"`

	LtListNumberMinEntries   int     `yaml:"ltListNumberMinEntries"`
	LtListNumberToleranceLlx float64 `yaml:"ltListNumberToleranceLlx"`
	LtListNumberRuleFile     string  `yaml:"ltListNumberRuleFile"`

	LtTocLastPage   int `yaml:"ltTocLastPage"`
	LtTocMinEntries int `yaml:"ltTocMinEntries"`

	PandocExecutable string `yaml:"pandocExecutable"`
	PandocPdfEngine  string `yaml:"pandocPdfEngine"`

	RasterFormat string `yaml:"rasterFormat"`

	TesseractExecutable string `yaml:"tesseractExecutable"`
	TesseractLanguage   string `yaml:"tesseractLanguage"`
	TesseractTimeout    int    `yaml:"tesseractTimeout"`

	TetExecutable  string `yaml:"tetExecutable"`
	TetDocOptions  string `yaml:"tetDocOptions"`
	TetPageOptions string `yaml:"tetPageOptions"`

	Tokenize             bool     `yaml:"tokenize"`
	TokenizerPipeline    string   `yaml:"tokenizerPipeline"`
	TokenAttributes      []string `yaml:"tokenAttributes"`
	TokenExclPunctuation bool     `yaml:"tokenExclPunctuation"`

	VerboseLtHeaders    bool `yaml:"verboseLtHeaders"`
	VerboseLtToc        bool `yaml:"verboseLtToc"`
	VerboseLtListBullet bool `yaml:"verboseLtListBullet"`
	VerboseLtListNumber bool `yaml:"verboseLtListNumber"`
	VerboseLtHeading    bool `yaml:"verboseLtHeading"`
	VerboseParser       bool `yaml:"verboseParser"`
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() *Config {
	return &Config{
		Language:             "en",
		DeleteAuxiliaryFiles: true,
		LogLevel:             "info",

		JSONIndent: 2,

		CreateExtraFileHeading:    true,
		CreateExtraFileListBullet: true,
		CreateExtraFileListNumber: true,
		CreateExtraFileTable:      true,

		LtFooterMaxLines:    3,
		LtHeaderMaxLines:    3,
		LtFooterMaxDistance: 3,
		LtHeaderMaxDistance: 3,

		LtHeadingMaxLevel:      3,
		LtHeadingMinPages:      1,
		LtHeadingToleranceLlx:  5,
		LtHeadingRuleFile:      "default",
		LtHeadingFileInclNoCtx: 3,

		LtListBulletMinEntries:   2,
		LtListBulletToleranceLlx: 5,
		LtListBulletRuleFile:     "default",

		LtListNumberMinEntries:   2,
		LtListNumberToleranceLlx: 5,
		LtListNumberRuleFile:     "default",

		LtTocLastPage:   5,
		LtTocMinEntries: 5,

		PandocExecutable: "pandoc",
		PandocPdfEngine:  "lualatex",

		RasterFormat: "png",

		TesseractExecutable: "tesseract",
		TesseractLanguage:   "eng",
		TesseractTimeout:    30,

		TetExecutable:  "tet",
		TetPageOptions: "contentanalysis={dehyphenate=true} structureanalysis={list=true}",

		TokenizerPipeline: nlp.DefaultPipeline,
		TokenAttributes:   nlp.DefaultAttrs.Names(),
	}
}

// LoadConfig returns the defaults merged with the YAML file at path and the
// DOCSTRUCT_ environment, validated. An empty path skips the file.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, errs.Wrap(errs.CodeConfigInvalid, err, "cannot read config '%s'", path)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, errs.Wrap(errs.CodeConfigInvalid, err, "cannot parse config '%s'", path)
		}
	}
	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	return cfg, cfg.Validate()
}

// LoadDotEnv loads variables from the given .env files into the process
// environment without overriding variables already set. Missing files are
// skipped.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return errs.Wrap(errs.CodeConfigInvalid, err, "cannot load '%s'", f)
		}
	}
	return nil
}

// EnvKey returns the environment variable overriding the YAML key.
func EnvKey(yamlKey string) string {
	var b strings.Builder
	b.WriteString(EnvPrefix)
	for i, r := range yamlKey {
		if unicode.IsUpper(r) && i > 0 {
			b.WriteByte('_')
		}
		b.WriteRune(unicode.ToUpper(r))
	}
	return b.String()
}

// ApplyEnv overrides every field whose environment variable lookup reports.
// Values are read as YAML scalars; list fields also accept a comma separated
// value.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	v := reflect.ValueOf(c).Elem()
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		key := yamlKey(t.Field(i))
		val, ok := lookup(EnvKey(key))
		if !ok {
			continue
		}
		field := v.Field(i)
		if field.Kind() == reflect.Slice && !strings.HasPrefix(strings.TrimSpace(val), "[") {
			parts := make([]string, 0)
			for _, p := range strings.Split(val, ",") {
				if p = strings.TrimSpace(p); p != "" {
					parts = append(parts, p)
				}
			}
			field.Set(reflect.ValueOf(parts))
			continue
		}
		if err := yaml.Unmarshal([]byte(val), field.Addr().Interface()); err != nil {
			return errs.Wrap(errs.CodeConfigInvalid, err, "invalid value %q for %s", val, EnvKey(key))
		}
	}
	return nil
}

func yamlKey(f reflect.StructField) string {
	name, _, _ := strings.Cut(f.Tag.Get("yaml"), ",")
	if name == "" {
		return f.Name
	}
	return name
}

// Validate checks value ranges and enumerations. Every violation is listed
// in the returned 12.901 error.
func (c *Config) Validate() error {
	var problems []string
	check := func(ok bool, format string, args ...any) {
		if !ok {
			problems = append(problems, fmt.Sprintf(format, args...))
		}
	}

	check(c.JSONIndent >= 0, "jsonIndent must be >= 0")
	for key, n := range map[string]int{
		"ltFooterMaxLines":       c.LtFooterMaxLines,
		"ltHeaderMaxLines":       c.LtHeaderMaxLines,
		"ltFooterMaxDistance":    c.LtFooterMaxDistance,
		"ltHeaderMaxDistance":    c.LtHeaderMaxDistance,
		"ltHeadingMinPages":      c.LtHeadingMinPages,
		"ltHeadingFileInclNoCtx": c.LtHeadingFileInclNoCtx,
		"ltTocLastPage":          c.LtTocLastPage,
		"tesseractTimeout":       c.TesseractTimeout,
	} {
		check(n >= 0, "%s must be >= 0", key)
	}
	for key, n := range map[string]int{
		"ltHeadingMaxLevel":      c.LtHeadingMaxLevel,
		"ltListBulletMinEntries": c.LtListBulletMinEntries,
		"ltListNumberMinEntries": c.LtListNumberMinEntries,
		"ltTocMinEntries":        c.LtTocMinEntries,
	} {
		check(n >= 1, "%s must be >= 1", key)
	}
	for key, f := range map[string]float64{
		"ltHeadingToleranceLlx":    c.LtHeadingToleranceLlx,
		"ltListBulletToleranceLlx": c.LtListBulletToleranceLlx,
		"ltListNumberToleranceLlx": c.LtListNumberToleranceLlx,
	} {
		check(f >= 0 && f <= 100, "%s must be within [0, 100]", key)
	}

	_, err := raster.ParseFormat(c.RasterFormat)
	check(err == nil, "rasterFormat must be png or jpeg, got %q", c.RasterFormat)
	_, err = ParseLevel(c.LogLevel)
	check(err == nil, "logLevel must be debug, info, warn or error, got %q", c.LogLevel)
	_, err = nlp.ParseAttrs(c.TokenAttributes)
	check(err == nil, "tokenAttributes: %v", err)

	if len(problems) == 0 {
		return nil
	}
	slices.Sort(problems)
	return errs.New(errs.CodeConfigInvalid, "invalid configuration: %s", strings.Join(problems, "; "))
}

// ParseLevel maps a logLevel value to a slog level.
func ParseLevel(s string) (slog.Level, error) {
	var l slog.Level
	err := l.UnmarshalText([]byte(s))
	return l, err
}

// Layout returns the classifier configuration.
func (c *Config) Layout(logger *slog.Logger) layout.Config {
	lc := layout.DefaultConfig().WithLogger(logger)

	lc.HeaderFooter.HeaderMaxLines = c.LtHeaderMaxLines
	lc.HeaderFooter.FooterMaxLines = c.LtFooterMaxLines
	lc.HeaderFooter.HeaderMaxDistance = c.LtHeaderMaxDistance
	lc.HeaderFooter.FooterMaxDistance = c.LtFooterMaxDistance
	lc.HeaderFooter.Verbose = c.VerboseLtHeaders

	lc.TOC.LastPage = c.LtTocLastPage
	lc.TOC.MinEntries = c.LtTocMinEntries
	lc.TOC.Verbose = c.VerboseLtToc

	lc.BulletList.MinEntries = c.LtListBulletMinEntries
	lc.BulletList.ToleranceLLX = c.LtListBulletToleranceLlx
	lc.BulletList.Verbose = c.VerboseLtListBullet

	lc.NumberedList.MinEntries = c.LtListNumberMinEntries
	lc.NumberedList.ToleranceLLX = c.LtListNumberToleranceLlx
	lc.NumberedList.Verbose = c.VerboseLtListNumber

	lc.Heading.MaxLevel = c.LtHeadingMaxLevel
	lc.Heading.MinPages = c.LtHeadingMinPages
	lc.Heading.ToleranceLLX = c.LtHeadingToleranceLlx
	lc.Heading.ContextLines = c.LtHeadingFileInclNoCtx
	lc.Heading.IncludeRegex = c.LtHeadingFileInclRegexp
	lc.Heading.Verbose = c.VerboseLtHeading
	return lc
}

// Tokenizer returns the tokenizer configuration. Unknown attribute names
// fall back to the default attributes; Validate reports them.
func (c *Config) Tokenizer(logger *slog.Logger) nlp.Config {
	attrs, err := nlp.ParseAttrs(c.TokenAttributes)
	if err != nil {
		attrs = nlp.DefaultAttrs
	}
	tc := nlp.DefaultConfig()
	tc.Pipeline = c.TokenizerPipeline
	tc.Attributes = attrs
	tc.ExcludePunctuation = c.TokenExclPunctuation
	tc.Indent = c.JSONIndent
	tc.SortKeys = c.JSONSortKeys
	tc.Logger = logger
	return tc
}

// TesseractTimeoutDuration returns the OCR timeout.
func (c *Config) TesseractTimeoutDuration() time.Duration {
	return time.Duration(c.TesseractTimeout) * time.Second
}

// ToMap returns the configuration keyed by YAML key, for embedding in the
// document JSON.
func (c *Config) ToMap() (map[string]any, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, err
	}
	m := map[string]any{}
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return m, nil
}
