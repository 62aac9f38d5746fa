// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the procure-engine CLI.
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

	"github.com/meshintel/procure-engine/internal/secrets"
	"github.com/meshintel/procure-engine/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds API keys loaded from .secrets/ at startup.
var loadedSecrets map[string]string

// secretDefault returns fallback when non-empty, else the named secret.
func secretDefault(key, fallback string) string {
	if fallback != "" {
		return fallback
	}
	return loadedSecrets[key]
}

// rootCmd is the base command for the procure-engine CLI.
var rootCmd = &cobra.Command{
	Use:   "procure-engine",
	Short: "Procurement workflow engine with AI-assisted bid evaluation",
	Long: `procure-engine manages the procurement workflow: RFPs, vendor bids,
and vendor records. Uploaded bid PDFs are converted to text, chunked, and
evaluated against RFP requirements through a local model endpoint; when no
model is reachable the engine degrades to a deterministic fallback so the
workflow never stalls.

Each workflow area is a subcommand: rfp, bid, vendor, and qa.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// .env before viper reads the environment.
		_ = godotenv.Load()

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

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./procure-engine.yaml or ~/.config/procure-engine/config.yaml)")
	rootCmd.PersistentFlags().String("data-dir", "", "data directory for the database and exports (default: ./data)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("procure-engine")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "procure-engine"))
		}
	}

	viper.SetEnvPrefix("PROCURE_ENGINE")
	viper.AutomaticEnv()

	viper.SetDefault("data_dir", "data")
	viper.SetDefault("model.name", "llama3")
	viper.SetDefault("verification.enabled", true)
	viper.SetDefault("http.timeout", "15s")

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func storeConfig() types.StoreConfig {
	dataDir, _ := rootCmd.PersistentFlags().GetString("data-dir")
	if dataDir == "" {
		dataDir = viper.GetString("data_dir")
	}
	return types.StoreConfig{DataDir: dataDir}
}

func modelConfig() types.ModelConfig {
	return types.ModelConfig{
		BaseURL:           viper.GetString("model.base_url"),
		Model:             viper.GetString("model.name"),
		APIKey:            secretDefault("model-api-key", viper.GetString("model.api_key")),
		EvaluationTimeout: viper.GetDuration("model.evaluation_timeout"),
		ExtractionTimeout: viper.GetDuration("model.extraction_timeout"),
	}
}

func verificationConfig() types.VerificationConfig {
	timeout := viper.GetDuration("http.timeout")
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return types.VerificationConfig{
		HTTPConfig: types.HTTPConfig{
			Timeout:   timeout,
			UserAgent: "procure-engine/" + version,
		},
		Enabled: viper.GetBool("verification.enabled"),
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
