// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the relevance-engine CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/relevance-engine/internal/secrets"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedIndexPassword holds the index basic-auth password read from
// .secrets/ at startup, empty when none is configured.
var loadedIndexPassword string

func indexPassword() string {
	return loadedIndexPassword
}

// rootCmd is the base command for the relevance-engine CLI.
var rootCmd = &cobra.Command{
	Use:   "relevance-engine",
	Short: "Citation-aware relevance and similarity engine for article corpora",
	Long: `relevance-engine builds a retrieval index over a scientific-article corpus
and serves relevance queries against it. The batch side derives a citation
graph with importance scores, cross-references extracted entities, and
collects anchor text before pushing composite documents to the index. The
serving side composes typed queries: free-text search with author, year and
language filters, citation similarity, and entity similarity.

Each stage is a subcommand: index, crossref, graph, and search.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		password, err := secrets.IndexPassword(".secrets/")
		if err != nil {
			return err
		}
		loadedIndexPassword = password
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./relevance-engine.yaml or ~/.config/relevance-engine/config.yaml)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("relevance-engine")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "relevance-engine"))
		}
	}

	viper.SetEnvPrefix("RELEVANCE_ENGINE")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// stringSetting resolves a string option: an explicitly set flag wins,
// then the config file / environment, then the fallback.
func stringSetting(cmd *cobra.Command, flag, key, fallback string) string {
	if cmd.Flags().Changed(flag) {
		v, _ := cmd.Flags().GetString(flag)
		return v
	}
	if v := viper.GetString(key); v != "" {
		return v
	}
	v, _ := cmd.Flags().GetString(flag)
	if v != "" {
		return v
	}
	return fallback
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
