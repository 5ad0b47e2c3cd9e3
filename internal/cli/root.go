package cli

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/roach88/timeindex/internal/config"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose    bool
	Format     string // "json" | "text"
	ConfigPath string

	// Config is loaded by the root command before any subcommand runs.
	// Nil means defaults, which is what subcommands built on their own see.
	Config *config.Config
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the timeindex CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "timeindex",
		Short: "Time index cell validator",
		Long: `Validate time index cell transactions against a simulated ledger.

A time index cell stores a counter that advances by one, modulo 12, every
time the cell is spent. Scenarios describe transactions in YAML and are
verified exactly as the on-chain type script would judge them.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(opts.ConfigPath)
			if err != nil {
				return WrapExitError(ExitCommandError, "failed to load config", err)
			}
			opts.Config = &cfg

			// An explicit --format wins over the config file.
			if !cmd.Flags().Changed("format") {
				opts.Format = cfg.Output.Format
			}
			if !isValidFormat(opts.Format) {
				return NewExitError(ExitCommandError,
					fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, ValidFormats))
			}
			return nil
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", "", "path to a TOML config file")

	cmd.AddCommand(NewRunCommand(opts))
	cmd.AddCommand(NewTestCommand(opts))
	cmd.AddCommand(NewValidateCommand(opts))
	cmd.AddCommand(NewDecodeCommand(opts))

	return cmd
}

// settings returns the loaded configuration, or the defaults.
func (o *RootOptions) settings() config.Config {
	if o.Config == nil {
		return config.Default()
	}
	return *o.Config
}

// logger builds the command logger. --verbose forces debug; otherwise the
// configured level applies.
func (o *RootOptions) logger(w io.Writer) *slog.Logger {
	level := slog.LevelDebug
	if !o.Verbose {
		var err error
		if level, err = o.settings().LogLevel(); err != nil {
			level = slog.LevelWarn
		}
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func (o *RootOptions) formatter(cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    o.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(), // Verbose logs go to stderr to avoid corrupting JSON
		Verbose:   o.Verbose,
	}
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}
