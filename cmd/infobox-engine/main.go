// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the infobox-engine CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/infobox-engine/internal/secrets"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds API keys loaded from .secrets/ at startup.
var loadedSecrets map[string]string

// secretDefault returns the secret value for key if it exists, or fallback otherwise.
func secretDefault(key, fallback string) string {
	if fallback != "" {
		return fallback
	}
	if v, ok := loadedSecrets[key]; ok {
		return v
	}
	return ""
}

// rootCmd is the base command for the infobox-engine CLI.
var rootCmd = &cobra.Command{
	Use:   "infobox-engine",
	Short: "Extract Wikipedia infoboxes and answer questions from them",
	Long: `infobox-engine builds a local fact store from Wikipedia dump files and
answers natural-language questions against it.

The extract subcommand scans a dump for infobox records and loads them
into a SQLite store. The query subcommand segments a question, resolves
the entities it mentions, and prints what the store knows about them,
falling back to web search when the store cannot type an entity.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		s, err := secrets.Load(".secrets/")
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
			fmt.Fprintf(os.Stderr, "Loaded secrets: %v\n", keys)
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./infobox-engine.yaml or ~/.config/infobox-engine/config.yaml)")
	rootCmd.PersistentFlags().String("db", "", "SQLite store path (default: cache/infobox.db)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("infobox-engine")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "infobox-engine"))
		}
	}

	viper.SetEnvPrefix("INFOBOX_ENGINE")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// storePath resolves the database location: the --db flag first, then
// the store.path config key, then the default.
func storePath() string {
	if path, _ := rootCmd.PersistentFlags().GetString("db"); path != "" {
		return path
	}
	if path := viper.GetString("store.path"); path != "" {
		return path
	}
	return filepath.Join("cache", "infobox.db")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
