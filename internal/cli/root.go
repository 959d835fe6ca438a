package cli

import (
	"fmt"
	"io"
	"log/slog"
	"slices"

	"github.com/spf13/cobra"

	"github.com/roach88/pulsenet/internal/config"
	"github.com/roach88/pulsenet/internal/engine"
	"github.com/roach88/pulsenet/internal/logging"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose    bool
	Format     string // "json" | "text"
	ConfigPath string

	// RunIDs names recorded runs. Nil means UUIDv7.
	RunIDs engine.RunIDGenerator

	cfg    *config.Config
	logger *slog.Logger
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the pulsenet CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "pulsenet",
		Short: "pulsenet - pulse network simulator",
		Long: `Simulate pulse networks of flip-flops and conjunctions driven by a button.

Counts pulses over a fixed number of presses and finds the first press
that delivers a low pulse to the output module, extrapolating from the
cycles of independent subgraphs where the network allows it.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			if _, err := opts.Config(); err != nil {
				return err
			}
			slog.SetDefault(opts.Logger(cmd.ErrOrStderr()))
			return nil
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", "", "config file (default ./"+config.DefaultFileName+" if present)")

	cmd.AddCommand(NewSolveCommand(opts))
	cmd.AddCommand(NewPressCommand(opts))
	cmd.AddCommand(NewTraceCommand(opts))
	cmd.AddCommand(NewCyclesCommand(opts))
	cmd.AddCommand(NewDotCommand(opts))
	cmd.AddCommand(NewValidateCommand(opts))
	cmd.AddCommand(NewAnswersCommand(opts))
	cmd.AddCommand(NewVerifyCommand(opts))
	cmd.AddCommand(NewTestCommand(opts))

	return cmd
}

// Config returns the effective configuration, loading it on first use.
func (o *RootOptions) Config() (*config.Config, error) {
	if o.cfg != nil {
		return o.cfg, nil
	}
	cfg, err := config.Load(o.ConfigPath)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "loading config", err)
	}
	o.cfg = cfg
	return cfg, nil
}

// Logger returns the command logger, creating it on w on first use.
// --verbose raises an info level to debug.
func (o *RootOptions) Logger(w io.Writer) *slog.Logger {
	if o.logger != nil {
		return o.logger
	}
	level := "info"
	if o.cfg != nil {
		level = o.cfg.Logging.Level
	}
	if o.Verbose && logging.ParseLevel(level) > slog.LevelDebug {
		level = "debug"
	}
	o.logger = logging.NewLogger(level, w)
	return o.logger
}

func (o *RootOptions) runIDs() engine.RunIDGenerator {
	if o.RunIDs == nil {
		return engine.UUIDv7Generator{}
	}
	return o.RunIDs
}

func (o *RootOptions) formatter(cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    o.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   o.Verbose,
	}
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	return slices.Contains(ValidFormats, format)
}
