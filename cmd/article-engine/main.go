// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the article-engine CLI.
// See docs/ARCHITECTURE § Pipeline Interface, § Project Structure.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/article-engine/internal/secrets"
	"github.com/pdiddy/article-engine/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds API keys loaded from .secrets/ at startup.
var loadedSecrets map[string]string

// rootCmd is the base command for the article-engine CLI.
var rootCmd = &cobra.Command{
	Use:   "article-engine",
	Short: "Research-backed article generation",
	Long: `article-engine turns a topic into a publication-ready article. It gathers
web and encyclopedia context, asks a hosted completion model to synthesize a
research report, drafts the article in the requested language, and (for
detailed runs) polishes the draft.

Each step is reachable on its own: research gathers context only, generate
runs the full pipeline, and archive manages previously generated articles.`,
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

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./article-engine.yaml or ~/.config/article-engine/config.yaml)")
}

func initConfig() {
	// .env is optional; credentials may also arrive via the real
	// environment, the config file, or .secrets/.
	_ = godotenv.Load()

	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("article-engine")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "article-engine"))
		}
	}

	viper.SetEnvPrefix("ARTICLE_ENGINE")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// credential resolves a credential by precedence: explicit environment
// variable, viper (config file or prefixed env), then .secrets/ file.
func credential(envVar, viperKey, secretFile string) string {
	if v := os.Getenv(envVar); v != "" {
		return v
	}
	if v := viper.GetString(viperKey); v != "" {
		return v
	}
	return loadedSecrets[secretFile]
}

// pipelineConfig assembles the run configuration from flags, config,
// environment, and secrets.
func pipelineConfig(cmd *cobra.Command) types.PipelineConfig {
	model, _ := cmd.Flags().GetString("model")
	if model == "" {
		model = viper.GetString("completion.model")
	}
	if model == "" {
		model = string(types.ModelLlama31Instant)
	}

	outputDir, _ := cmd.Flags().GetString("output-dir")
	if outputDir == "" {
		outputDir = "output/articles"
	}

	archiveDir := viper.GetString("archive.dir")
	if archiveDir == "" {
		archiveDir = "archive"
	}

	userAgent := "article-engine/" + version

	return types.PipelineConfig{
		Gather: types.GatherConfig{
			HTTPConfig:      types.HTTPConfig{Timeout: 30 * time.Second, UserAgent: userAgent},
			SerperAPIKey:    credential("SERPER_API_KEY", "serper_api_key", "serper-api-key"),
			ResultsPerQuery: 3,
			InterQueryDelay: time.Second,
		},
		Completion: types.CompletionConfig{
			HTTPConfig: types.HTTPConfig{Timeout: 120 * time.Second, UserAgent: userAgent},
			APIKey:     credential("GROQ_API_KEY", "groq_api_key", "groq-api-key"),
			Model:      types.ModelID(model),
		},
		Export: types.ExportConfig{
			OutputDir: outputDir,
		},
		Archive: types.ArchiveConfig{
			Dir:        archiveDir,
			MaxResults: 20,
		},
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
