// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the pubmed-search CLI.
package main

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"sort"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/pubmed-search/internal/secrets"
	"github.com/pdiddy/pubmed-search/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds settings loaded from .secrets/ at startup.
var loadedSecrets map[string]string

var verbose bool

// rootCmd is the base command for the pubmed-search CLI.
var rootCmd = &cobra.Command{
	Use:   "pubmed-search",
	Short: "Search PubMed from the command line",
	Long: `pubmed-search queries PubMed through the NCBI E-utilities API and prints
normalized article records: PMID, title, journal, year, and authors.

Searches can be written to YAML query files, exported as CSL for reference
managers, or saved into a local SQLite library for later browsing.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level := charmlog.InfoLevel
		if verbose {
			level = charmlog.DebugLevel
		}
		logger := newLogger(os.Stderr, level)
		cmd.SetContext(withLogger(cmd.Context(), logger))

		if f := viper.ConfigFileUsed(); f != "" {
			logger.Debug("using config file", "path", f)
		}

		s, err := secrets.Load(".secrets/", logger)
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			logger.Debug("loaded secrets", "keys", keys)
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./pubmed-search.yaml or ~/.config/pubmed-search/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().String("library-dir", "", "directory holding the article library database")
	_ = viper.BindPFlag("library.dir", rootCmd.PersistentFlags().Lookup("library-dir"))

	def := types.DefaultSearchConfig()
	viper.SetDefault("search.base_url", def.BaseURL)
	viper.SetDefault("search.max_results", def.MaxResults)
	viper.SetDefault("search.timeout", def.Timeout)
	viper.SetDefault("search.user_agent", "pubmed-search/"+version)
	viper.SetDefault("library.dir", defaultLibraryDir())
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("pubmed-search")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "pubmed-search"))
		}
	}

	viper.SetEnvPrefix("PUBMED_SEARCH")
	viper.SetEnvKeyReplacer(envKeyReplacer)
	viper.AutomaticEnv()

	_ = viper.ReadInConfig()
}

// loadConfig resolves the configuration from defaults, config file,
// environment, bound flags, and finally .secrets/.
func loadConfig() (types.Config, error) {
	var cfg types.Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return cfg, err
	}
	secrets.Apply(&cfg.Search, loadedSecrets)
	return cfg, nil
}

func defaultLibraryDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "library"
	}
	return filepath.Join(home, ".local", "share", "pubmed-search")
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}
