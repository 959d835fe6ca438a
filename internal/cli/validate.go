package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/pulsenet/internal/circuit"
	"github.com/roach88/pulsenet/internal/subgraph"
)

// ValidateOptions holds flags for the validate command.
type ValidateOptions struct {
	*RootOptions
	Sink string
}

// ValidationResult describes a circuit that parsed.
type ValidationResult struct {
	Valid      bool           `json:"valid"`
	Digest     string         `json:"digest"`
	Modules    int            `json:"modules"`
	Kinds      map[string]int `json:"kinds"`
	Unresolved []string       `json:"unresolved,omitempty"`
	Sink       string         `json:"sink,omitempty"`
	Subgraphs  int            `json:"subgraphs"`
	Decompose  string         `json:"decompose,omitempty"` // why part 2 needs brute force
}

// ParseErrorDetails locates a parse failure.
type ParseErrorDetails struct {
	Line int    `json:"line"`
	Text string `json:"text,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ValidateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "validate <circuit-file>",
		Short: "Check a circuit description without simulating it",
		Long: `Parse a circuit description and report its shape: module counts by
kind, modules that send to undeclared names, the output module, and
whether part 2 can be solved by decomposition.

Exit codes:
  0 - The description parses
  1 - The description is malformed
  2 - Command error`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Sink, "sink", "", "output module name")

	return cmd
}

func runValidate(opts *ValidateOptions, path string, cmd *cobra.Command) error {
	f := opts.formatter(cmd)
	cfg, err := opts.Config()
	if err != nil {
		return err
	}
	source, err := readCircuitSource(cmd, path)
	if err != nil {
		return err
	}

	lc, err := parseCircuit(path, source, cfg.Circuit, opts.Sink)
	if err != nil {
		var pe *circuit.ParseError
		if !errors.As(err, &pe) {
			return err
		}
		if ferr := f.Error(ErrCodeParse, pe.Error(), ParseErrorDetails{Line: pe.Line, Text: pe.Text}); ferr != nil {
			return ferr
		}
		return WrapExitError(ExitFailure, "invalid circuit", pe)
	}
	f.VerboseLog("Parsed %d modules from %s", lc.Network.Len(), path)

	result := describeCircuit(lc, opts.Logger(cmd.ErrOrStderr()))
	if f.JSON() {
		return f.Success(result)
	}
	writeValidateText(f.Writer, path, result)
	return nil
}

func describeCircuit(lc *loadedCircuit, logger *slog.Logger) ValidationResult {
	n := lc.Network
	result := ValidationResult{
		Valid:   true,
		Digest:  lc.Digest,
		Modules: n.Len(),
		Kinds:   map[string]int{},
	}
	for id, end := 0, n.Len(); id < end; id++ {
		result.Kinds[n.Kind(id).String()]++
		for _, e := range n.Outputs(id) {
			if !e.Resolved() {
				result.Unresolved = append(result.Unresolved, n.Name(id))
				break
			}
		}
	}
	if _, ok := n.Lookup(lc.SinkName); ok {
		result.Sink = lc.SinkName
	}

	subs, err := subgraph.Extract(n, subgraph.WithLogger(logger))
	if err != nil {
		result.Decompose = err.Error()
	} else {
		result.Subgraphs = len(subs)
	}
	return result
}

func writeValidateText(w io.Writer, path string, r ValidationResult) {
	fmt.Fprintf(w, "✓ %s is valid (%s)\n", path, shortDigest(r.Digest))
	kinds := make([]string, 0, len(r.Kinds))
	for _, k := range []circuit.Kind{
		circuit.KindBroadcast,
		circuit.KindFlipFlop,
		circuit.KindConjunction,
		circuit.KindInverter,
		circuit.KindOutput,
	} {
		if c := r.Kinds[k.String()]; c > 0 {
			kinds = append(kinds, fmt.Sprintf("%d %s", c, k))
		}
	}
	fmt.Fprintf(w, "  %d modules: %s\n", r.Modules, strings.Join(kinds, ", "))
	if len(r.Unresolved) > 0 {
		fmt.Fprintf(w, "  sends to undeclared modules: %s\n", strings.Join(r.Unresolved, ", "))
	}
	if r.Sink == "" {
		fmt.Fprintln(w, "  no output module: part 2 unavailable")
		return
	}
	if r.Decompose != "" {
		fmt.Fprintf(w, "  part 2 by brute force: %s\n", r.Decompose)
		return
	}
	fmt.Fprintf(w, "  part 2 by decomposition into %d subgraphs\n", r.Subgraphs)
}
