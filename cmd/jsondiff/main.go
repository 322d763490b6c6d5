package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

// errDifferent signals --exit-code found changes. it carries no message
var errDifferent = errors.New("documents differ")

// globalOptions are set by persistent flags and resolved before any
// subcommand runs
type globalOptions struct {
	configPath string
	logLevel   string

	cfg    *Config
	logger *slog.Logger
}

func newRootCmd() *cobra.Command {
	opts := &globalOptions{}

	cmd := &cobra.Command{
		Use:   "jsondiff",
		Short: "Structural diffs of JSON documents",
		Long: `jsondiff compares two JSON documents and reports every added, removed and
modified location by path. It can also serve an interactive diff session
over a websocket.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.resolve(cmd)
		},
	}

	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "path to a YAML configuration file")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "info", "log level: debug, info, warn, error")

	cmd.AddCommand(newDiffCmd(opts))
	cmd.AddCommand(newServeCmd(opts))
	cmd.AddCommand(newTiersCmd(opts))
	cmd.AddCommand(newConfigCmd())
	return cmd
}

// resolve builds the logger and loads configuration
func (o *globalOptions) resolve(cmd *cobra.Command) error {
	var level slog.Level
	if err := level.UnmarshalText([]byte(o.logLevel)); err != nil {
		return fmt.Errorf("invalid --log-level %q: %w", o.logLevel, err)
	}
	o.logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))

	if o.configPath == "" {
		o.cfg = DefaultConfig()
		return nil
	}
	cfg, err := LoadConfig(o.configPath)
	if err != nil {
		return err
	}
	o.cfg = cfg
	o.logger.Debug("loaded config", "path", o.configPath)
	return nil
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		if errors.Is(err, errDifferent) {
			os.Exit(1)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}
}
