package main

import (
	"context"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/character-engine/internal/lexicon"
	"github.com/pdiddy/character-engine/internal/llm"
	"github.com/pdiddy/character-engine/internal/pipeline"
	"github.com/pdiddy/character-engine/internal/secrets"
	"github.com/pdiddy/character-engine/pkg/types"
)

// yamlTags makes viper decode with the yaml struct tags used by the
// config types.
func yamlTags(dc *mapstructure.DecoderConfig) {
	dc.TagName = "yaml"
}

// loadConfig decodes the config file into a PipelineConfig, applies
// command-line overrides, and fills defaults.
func loadConfig(cmd *cobra.Command) (types.PipelineConfig, error) {
	var cfg types.PipelineConfig
	if err := viper.Unmarshal(&cfg, yamlTags); err != nil {
		return cfg, fmt.Errorf("decoding config: %w", err)
	}

	flags := cmd.Flags()
	if out, _ := flags.GetString("out"); out != "" {
		cfg.Output.Dir = out
	}
	if lex, _ := flags.GetString("lexicon"); lex != "" {
		cfg.LexiconFile = lex
	}
	if flags.Lookup("min-mentions") != nil && flags.Changed("min-mentions") {
		cfg.Grouping.MinMentions, _ = flags.GetInt("min-mentions")
	}
	if flags.Lookup("candidate-min") != nil && flags.Changed("candidate-min") {
		cfg.Tier.CandidateMinMentions, _ = flags.GetInt("candidate-min")
	}
	if flags.Lookup("coref") != nil && flags.Changed("coref") {
		cfg.Coref.Enabled, _ = flags.GetBool("coref")
	}
	if flags.Lookup("provider") != nil {
		if p, _ := flags.GetString("provider"); p != "" {
			cfg.Coref.AI.Provider = p
		}
	}
	if flags.Lookup("model") != nil {
		if m, _ := flags.GetString("model"); m != "" {
			cfg.Coref.AI.Model = m
		}
	}
	if flags.Lookup("max-results") != nil && flags.Changed("max-results") {
		cfg.Output.MaxResults, _ = flags.GetInt("max-results")
	}

	cfg = cfg.WithDefaults()
	cfg.Coref.AI.APIKey = secretDefault(secrets.KeyFor(cfg.Coref.AI.Provider), cfg.Coref.AI.APIKey)
	return cfg, nil
}

// pipelineOptions builds the lexicon and, when co-reference merging is
// enabled, the completion provider. A provider that cannot be built is
// replaced by one that fails, so the merge step degrades and records why.
func pipelineOptions(cfg types.PipelineConfig) (pipeline.Options, error) {
	lex, err := lexicon.Load(cfg.LexiconFile)
	if err != nil {
		return pipeline.Options{}, err
	}
	opts := pipeline.Options{Config: cfg, Lexicon: lex}

	if cfg.Coref.Enabled {
		p, err := llm.New(cfg.Coref.AI)
		if err != nil {
			warn("co-reference provider unavailable: %v", err)
			p = llm.ProviderFunc(func(context.Context, llm.Request) (llm.Response, error) {
				return llm.Response{}, err
			})
		}
		opts.Provider = p
	}
	return opts, nil
}

func addResolveFlags(cmd *cobra.Command) {
	cmd.Flags().Int("min-mentions", types.DefaultMinMentions, "minimum mentions for a group to survive grouping")
	cmd.Flags().Int("candidate-min", types.DefaultCandidateMinMentions, "minimum mentions for a candidate entity")
	cmd.Flags().Bool("coref", false, "merge co-referent names through a completion provider")
	cmd.Flags().String("provider", "", "completion provider: anthropic or openai")
	cmd.Flags().String("model", "", "completion model identifier")
}

func warn(format string, args ...any) {
	fmt.Fprintln(os.Stderr, color.YellowString("warning: "+format, args...))
}
