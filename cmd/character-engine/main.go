// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the character-engine CLI.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/character-engine/internal/logger"
	"github.com/pdiddy/character-engine/internal/secrets"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds API keys loaded from .secrets/, .env and the
// environment at startup.
var loadedSecrets map[string]string

// secretDefault returns fallback if set, otherwise the secret value for key.
func secretDefault(key, fallback string) string {
	if fallback != "" {
		return fallback
	}
	return loadedSecrets[key]
}

// rootCmd is the base command for the character-engine CLI.
var rootCmd = &cobra.Command{
	Use:   "character-engine",
	Short: "Resolve and index the characters of a novel manuscript",
	Long: `character-engine finds the proper-noun mentions in a Markdown manuscript,
groups them into canonical characters, and indexes every mention into
retrievable context snippets.

Run "resolve" to produce confirmed and candidate entity files, "index" to
build snippets from them, or "run" to do both. "query" searches the
snippet store.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		verbose, _ := cmd.Flags().GetBool("verbose")
		logger.SetVerbose(verbose)

		s, err := secrets.Resolve(secrets.DefaultDir, secrets.DefaultEnvFile)
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 && verbose {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			fmt.Fprintf(os.Stderr, "Loaded secrets: %v\n", keys)
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./character-engine.yaml or ~/.config/character-engine/character-engine.yaml)")
	rootCmd.PersistentFlags().String("out", "", "output directory (default: characters)")
	rootCmd.PersistentFlags().String("lexicon", "", "YAML file extending the built-in stopwords and titles")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "print stage diagnostics to stderr")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("character-engine")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "character-engine"))
		}
	}

	viper.SetEnvPrefix("CHARACTER_ENGINE")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
