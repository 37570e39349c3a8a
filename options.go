package docstruct

import (
	"log/slog"
	"os"

	"github.com/tsawler/docstruct/config"
	"github.com/tsawler/docstruct/pipeline"
	"github.com/tsawler/docstruct/rules"
)

// Options holds the settings of a Processor.
type Options struct {
	// nil means the defaults merged with the DOCSTRUCT_ environment
	config *config.Config

	// Overrides applied on top of config
	outputDir       *string
	deleteAuxiliary *bool
	tokenize        bool

	documentID    int
	logger        *slog.Logger
	collaborators *pipeline.Collaborators
}

// defaultOptions returns the default processing options.
func defaultOptions() Options {
	return Options{
		documentID: 1,
	}
}

// clone creates a deep copy of Options.
func (o Options) clone() Options {
	n := o
	if o.config != nil {
		c := *o.config
		c.TokenAttributes = append([]string(nil), o.config.TokenAttributes...)
		n.config = &c
	}
	if o.outputDir != nil {
		dir := *o.outputDir
		n.outputDir = &dir
	}
	if o.deleteAuxiliary != nil {
		del := *o.deleteAuxiliary
		n.deleteAuxiliary = &del
	}
	return n
}

// resolvedConfig returns the configuration with every override applied.
func (o Options) resolvedConfig() *config.Config {
	var cfg config.Config
	if o.config != nil {
		cfg = *o.config
	} else {
		defaults := config.DefaultConfig()
		if err := defaults.ApplyEnv(os.LookupEnv); err != nil {
			defaults = config.DefaultConfig()
		}
		cfg = *defaults
	}
	if o.outputDir != nil {
		cfg.OutputDir = *o.outputDir
	}
	if o.deleteAuxiliary != nil {
		cfg.DeleteAuxiliaryFiles = *o.deleteAuxiliary
	}
	if o.tokenize {
		cfg.Tokenize = true
	}
	return &cfg
}

func newCoordinator(cfg *config.Config, collab pipeline.Collaborators, logger *slog.Logger) (*pipeline.Coordinator, error) {
	store, err := rules.Load(cfg.LtHeadingRuleFile, cfg.LtListNumberRuleFile, cfg.LtListBulletRuleFile)
	if err != nil {
		return nil, err
	}
	return pipeline.New(cfg, store, collab, logger)
}
