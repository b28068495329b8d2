package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"paper-extractor/internal/config"
)

var envFile string

var rootCmd = &cobra.Command{
	Use:   "paperex",
	Short: "Extract structured fields from PDF documents",
	Long: `paperex runs the paper extraction pipeline from the command line.

A PDF is transcribed to layout-preserving markdown by a vision model, then
the requested fields are extracted from that transcription under a strict
schema. Every value comes with a verbatim snippet and a confidence score.

Settings are read from the environment (and .env), from PAPEREX_* variables
and from flags, in increasing order of precedence.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := godotenv.Load(envFile); err != nil && envFile != ".env" {
			return fmt.Errorf("load %s: %w", envFile, err)
		}
		return viper.BindPFlags(cmd.Flags())
	},
}

func init() {
	viper.SetEnvPrefix("PAPEREX")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file to load before reading settings")
	rootCmd.PersistentFlags().String("log-level", "", "log level: debug, info, warn or error")
	rootCmd.PersistentFlags().String("log-format", "", "log format: text or json")

	rootCmd.AddCommand(extractCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(locateCmd)
}

// loadConfig reads the environment configuration and applies any settings
// given as flags or PAPEREX_* variables.
func loadConfig() *config.AppConfig {
	cfg := config.Load()

	setString(&cfg.LogLevel, "log-level")
	setString(&cfg.LogFormat, "log-format")
	setString(&cfg.GCPProjectID, "project")
	setString(&cfg.GCPLocation, "location")
	setString(&cfg.GoogleCredentialsFile, "credentials")
	setString(&cfg.TranscriptionModel, "transcription-model")
	setString(&cfg.ExtractionModel, "extraction-model")
	if viper.IsSet("max-pages") && viper.GetInt("max-pages") >= 0 {
		cfg.MaxPages = viper.GetInt("max-pages")
	}
	if viper.IsSet("scale") && viper.GetFloat64("scale") > 0 {
		cfg.RasterScale = viper.GetFloat64("scale")
	}
	if viper.IsSet("timeout") && viper.GetDuration("timeout") > 0 {
		cfg.RequestTimeout = viper.GetDuration("timeout")
	}
	return cfg
}

func setString(dst *string, key string) {
	if v := viper.GetString(key); v != "" {
		*dst = v
	}
}

// openOutput returns stdout for "" or "-".
func openOutput(path string) (*os.File, func() error, error) {
	if path == "" || path == "-" {
		return os.Stdout, func() error { return nil }, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, err
	}
	return f, f.Close, nil
}
