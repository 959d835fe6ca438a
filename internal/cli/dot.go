package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/pulsenet/internal/circuit"
)

// DotOptions holds flags for the dot command.
type DotOptions struct {
	*RootOptions
	Output string
	Sink   string
}

// NewDotCommand creates the dot command.
func NewDotCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &DotOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "dot <circuit-file>",
		Short: "Render a circuit as Graphviz DOT",
		Long: `Render a circuit as a Graphviz digraph. The button feeds the
broadcaster, each module kind has its own shape and edges to undeclared
modules point at "unknown".

Examples:
  pulsenet dot input.txt | dot -Tsvg > circuit.svg
  pulsenet dot input.txt -o circuit.dot`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDot(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "write to file instead of stdout")
	cmd.Flags().StringVar(&opts.Sink, "sink", "", "output module name")

	return cmd
}

func runDot(opts *DotOptions, path string, cmd *cobra.Command) error {
	lc, err := loadCircuit(cmd, opts.RootOptions, path, opts.Sink)
	if err != nil {
		return err
	}

	if opts.Output == "" {
		return circuit.WriteDOT(cmd.OutOrStdout(), lc.Network)
	}
	out, err := os.Create(opts.Output)
	if err != nil {
		return WrapExitError(ExitCommandError, "creating output file", err)
	}
	if err := circuit.WriteDOT(out, lc.Network); err != nil {
		out.Close()
		return WrapExitError(ExitCommandError, "writing output file", err)
	}
	if err := out.Close(); err != nil {
		return WrapExitError(ExitCommandError, "writing output file", err)
	}
	opts.formatter(cmd).VerboseLog("Wrote %s", opts.Output)
	return nil
}
