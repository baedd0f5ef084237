package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/Carmen-Shannon/oxy-shade/common"
	"github.com/Carmen-Shannon/oxy-shade/engine/config"
)

// app carries the loaded configuration from the root command to its subcommands.
type app struct {
	configPath string
	logLevel   string
	cfg        config.Config
}

func newRootCommand() *cobra.Command {
	a := &app{cfg: config.Default()}
	root := &cobra.Command{
		Use:          "cookbook",
		Short:        "Offscreen render target and multi-pass pipeline demos",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.load(cmd)
		},
	}
	root.PersistentFlags().StringVar(&a.configPath, "config", "", "TOML configuration file")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level: debug, info, warn, error or off")

	root.AddCommand(newListCommand(a), newRenderCommand(a), newRunCommand(a))
	return root
}

// load reads the configuration file, applies the log level override and installs the
// package logger.
func (a *app) load(cmd *cobra.Command) error {
	if a.configPath != "" {
		cfg, err := config.Load(a.configPath)
		if err != nil {
			return err
		}
		a.cfg = cfg
	}
	if cmd.Flags().Changed("log-level") {
		a.cfg.Log.Level = a.logLevel
		if err := a.cfg.Validate(); err != nil {
			return err
		}
	}
	level, err := a.cfg.Log.SlogLevel()
	if err != nil {
		return err
	}
	common.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
	return nil
}
