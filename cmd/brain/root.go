package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/zeusync/brain/internal/config"
	"github.com/zeusync/brain/internal/injector"
)

var rootCmd = &cobra.Command{
	Use:          "brain",
	Short:        "brain runs behavior trees over herds of agents",
	Long:         `brain loads behavior trees from YAML or JSON and ticks them for many agents at once.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Path to the application config (YAML)")
	rootCmd.PersistentFlags().String("log-level", "", "Override the configured log level")
}

// setup loads the config named by --config (defaults otherwise), applies the
// common overrides and wires the shared infrastructure.
func setup(cmd *cobra.Command) (*injector.App, error) {
	cfg := config.Default()
	if path, _ := cmd.Flags().GetString("config"); path != "" {
		var err error
		if cfg, err = config.Load(path); err != nil {
			return nil, err
		}
	}
	if lvl, _ := cmd.Flags().GetString("log-level"); lvl != "" {
		cfg.LogLevel = lvl
	}
	if cmd.Flags().Changed("agents") {
		cfg.Herd.Agents, _ = cmd.Flags().GetInt("agents")
	}
	if cmd.Flags().Changed("ticks") {
		cfg.Herd.TickBudget, _ = cmd.Flags().GetInt("ticks")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return injector.InitializeApp(cfg)
}
