// Command docstruct extracts the structure of documents into JSON.
//
// Usage:
//
//	docstruct [flags] file...
//	docstruct -config docstruct.yaml -output out report.pdf scan.png notes.docx
//	docstruct -schema                  # print the JSON schema of the output
//	docstruct -export-rules rules/     # write the built-in rule catalogs
//	docstruct -tokens out/report.json  # tokenize an existing document JSON
//
// Settings come from the defaults, the optional YAML file and DOCSTRUCT_
// environment variables, in that order. A .env file in the working directory
// is loaded first. Errors are printed with their six-character code.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/tsawler/docstruct/config"
	"github.com/tsawler/docstruct/model"
	"github.com/tsawler/docstruct/nlp"
	"github.com/tsawler/docstruct/pipeline"
	"github.com/tsawler/docstruct/rules"
)

func main() {
	configPath := flag.String("config", "", "path to a docstruct.yaml config file")
	var o overrides
	flag.StringVar(&o.outputDir, "output", "", "directory for the JSON outputs (default: next to each input)")
	verbose := flag.Bool("verbose", false, "log pipeline steps at debug level")
	flag.BoolVar(&o.deleteAuxiliary, "auxiliary", false,
		"delete converted PDFs, page images and TETML files (default: the deleteAuxiliaryFiles setting, true unless configured otherwise)")
	flag.BoolVar(&o.tokenize, "tokenize", false, "also write the token file")
	tokensOnly := flag.Bool("tokens", false, "treat the inputs as document JSON files and only write their token files")
	schema := flag.Bool("schema", false, "print the JSON schema of the document model and exit")
	exportRules := flag.String("export-rules", "", "write the built-in rule catalogs into dir and exit")
	flag.Parse()

	switch {
	case *schema:
		data, err := model.SchemaJSON()
		if err != nil {
			fatal(err)
		}
		fmt.Println(string(data))
		return
	case *exportRules != "":
		if err := rules.ExportDefaults(*exportRules); err != nil {
			fatal(err)
		}
		return
	}

	if flag.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "usage: docstruct [flags] file...")
		flag.PrintDefaults()
		os.Exit(2)
	}

	if err := config.LoadDotEnv(); err != nil {
		fatal(err)
	}
	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		fatal(err)
	}
	o.apply(cfg)

	level, err := config.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = slog.LevelInfo
	}
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if *tokensOnly {
		if err := tokenizeFiles(cfg, logger, flag.Args()); err != nil {
			fatal(err)
		}
		return
	}

	if err := run(ctx, logger, cfg, flag.Args()); err != nil {
		stop()
		fatal(err)
	}
}

// overrides are the flags that take precedence over the configuration.
type overrides struct {
	outputDir       string
	deleteAuxiliary bool
	tokenize        bool
}

func (o overrides) apply(cfg *config.Config) {
	if o.outputDir != "" {
		cfg.OutputDir = o.outputDir
	}
	if o.deleteAuxiliary {
		cfg.DeleteAuxiliaryFiles = true
	}
	if o.tokenize {
		cfg.Tokenize = true
	}
}

// run processes the inputs in order, numbering documents from 1. It stops
// at the first failure.
func run(ctx context.Context, logger *slog.Logger, cfg *config.Config, inputs []string) error {
	c, err := pipeline.NewFromConfig(cfg, logger)
	if err != nil {
		return err
	}
	for i, in := range inputs {
		pc, err := c.Process(ctx, in, i+1)
		if err != nil {
			logger.Error("document failed", "input", in, "state", pc.State().String())
			return err
		}
		for _, out := range pc.Outputs {
			fmt.Println(out)
		}
	}
	return nil
}

// tokenizeFiles writes <stem>_token.json for each document JSON, into the
// output directory when one is configured.
func tokenizeFiles(cfg *config.Config, logger *slog.Logger, inputs []string) error {
	t := nlp.New(cfg.Tokenizer(logger))
	for _, in := range inputs {
		stem := strings.TrimSuffix(filepath.Base(in), filepath.Ext(in))
		dir := cfg.OutputDir
		if dir == "" {
			dir = filepath.Dir(in)
		}
		out := filepath.Join(dir, stem+pipeline.SuffixToken+".json")
		if err := t.TokenizeFile(in, out); err != nil {
			return err
		}
		fmt.Println(out)
	}
	return nil
}

// fatal prints err, which starts with its code, and exits.
func fatal(err error) {
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}
