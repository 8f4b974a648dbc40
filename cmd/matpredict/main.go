// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the matpredict CLI.
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/predictlab/matpredict/internal/llm"
	"github.com/predictlab/matpredict/internal/matproj"
	"github.com/predictlab/matpredict/internal/pipeline"
	"github.com/predictlab/matpredict/internal/secrets"
	"github.com/predictlab/matpredict/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

const (
	defaultTimeout   = 60 * time.Second
	defaultUserAgent = "matpredict/0.1"
)

// loadedKeys holds the API credentials resolved at startup. Commands
// validate the subset they need before doing any work.
var loadedKeys secrets.Keys

// rootCmd is the base command for the matpredict CLI.
var rootCmd = &cobra.Command{
	Use:   "matpredict",
	Short: "Materials discovery from natural-language design goals",
	Long: `matpredict turns a natural-language materials design goal into concrete,
database-backed candidates. Two model providers (OpenAI and Gemini) propose
candidate formulas, the pooled candidates go back to both providers for
compliance screening, and the consensus survivors are resolved against the
Materials Project and ranked by formation energy.

discover runs the whole pipeline; extract and lookup expose the formula
parser and the database client on their own; serve starts the web surface.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		keys, err := secrets.Load(".secrets")
		if err != nil {
			return err
		}
		loadedKeys = keys

		var resolved []string
		if keys.OpenAI != "" {
			resolved = append(resolved, secrets.EnvOpenAI)
		}
		if keys.Google != "" {
			resolved = append(resolved, secrets.EnvGoogle)
		}
		if keys.Materials != "" {
			resolved = append(resolved, secrets.EnvMaterials)
		}
		if len(resolved) > 0 {
			fmt.Fprintf(os.Stderr, "Loaded credentials: %v\n", resolved)
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./matpredict.yaml or ~/.config/matpredict/config.yaml)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("matpredict")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "matpredict"))
		}
	}

	viper.SetEnvPrefix("MATPREDICT")
	viper.AutomaticEnv()

	// Lookups stick to thermodynamically stable entries unless the config
	// opts out.
	viper.SetDefault("materials.stable_only", true)

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// httpDefaults returns the shared HTTP settings for outbound API calls,
// with config-file overrides applied.
func httpDefaults() types.HTTPConfig {
	cfg := types.HTTPConfig{
		Timeout:   viper.GetDuration("http.timeout"),
		UserAgent: viper.GetString("http.user_agent"),
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = defaultUserAgent
	}
	return cfg
}

// pipelineConfig assembles the pipeline configuration from the config file
// and the credentials loaded at startup. Zero values fall through to the
// stage defaults.
func pipelineConfig() types.PipelineConfig {
	hc := httpDefaults()

	cfg := types.PipelineConfig{
		OpenAI: types.ProviderConfig{
			HTTPConfig: hc,
			Model:      viper.GetString("openai.model"),
			APIKey:     loadedKeys.OpenAI,
		},
		Gemini: types.ProviderConfig{
			HTTPConfig: hc,
			Model:      viper.GetString("gemini.model"),
			APIKey:     loadedKeys.Google,
		},
		Materials: types.MaterialsConfig{
			HTTPConfig: hc,
			APIKey:     loadedKeys.Materials,
			StableOnly: viper.GetBool("materials.stable_only"),
		},
		TopN: viper.GetInt("top_n"),
	}
	if sc := viper.GetIntSlice("supercell"); len(sc) == 3 {
		cfg.Supercell = [3]int{sc[0], sc[1], sc[2]}
	}
	return cfg
}

// newRunner wires both model providers and the materials database into a
// pipeline runner. The returned stats function reports lookup-cache
// effectiveness; the serve command exposes it on the health endpoint.
func newRunner(ctx context.Context, cfg types.PipelineConfig) (pipeline.Runner, func() matproj.Stats, error) {
	gemini, err := llm.NewGeminiProvider(ctx, cfg.Gemini)
	if err != nil {
		return pipeline.Runner{}, nil, fmt.Errorf("configuring Gemini provider: %w", err)
	}
	db := matproj.NewCachedClient(matproj.NewClient(cfg.Materials))

	runner := pipeline.Runner{
		Providers: []llm.Provider{llm.NewOpenAIProvider(cfg.OpenAI), gemini},
		DB:        db,
		TopN:      cfg.TopN,
		Supercell: cfg.Supercell,
	}
	return runner, db.Stats, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
