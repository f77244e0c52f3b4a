// Package main is the entry point for wtii.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/tatianab/wtii/internal/config"
	"github.com/tatianab/wtii/internal/observability"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "wtii",
	Short: "Who's Turn Is It? An initiative tracker for tabletop encounters",
	Long: `wtii keeps the turn order of a tabletop encounter in the terminal.
Players come from the party file, monsters are searched on Open5e, and
health and initiative are adjusted from the keyboard.`,
	SilenceUsage: true,
	RunE:         runTracker,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default "+config.DefaultPath()+")")
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(partyCmd)
}

// setup loads the configuration and opens the log file shared by every
// command.
func setup() (config.Config, *zap.Logger, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return config.Config{}, nil, err
	}
	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		return config.Config{}, nil, fmt.Errorf("creating logger: %w", err)
	}
	return cfg, logger, nil
}
