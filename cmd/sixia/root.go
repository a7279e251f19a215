package main

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"sixia/internal/config"
	"sixia/internal/logging"
)

var (
	configPath string
	logLevel   string
)

var rootCmd = &cobra.Command{
	Use:           "sixia",
	Short:         "A small multi-user notes service",
	Long:          `Sixia stores notes made of text and image blocks for registered users and serves them over a JSON API.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command. This is called by main.main().
func Execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to a YAML config file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error); overrides the config")
}

// setup loads the configuration and builds the logger for a command.
func setup() (*config.Config, zerolog.Logger, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, zerolog.Nop(), err
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	return cfg, logging.New(os.Stderr, cfg.Log.Level, cfg.Log.Pretty), nil
}
