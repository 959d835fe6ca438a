package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/pulsenet/internal/engine"
	"github.com/roach88/pulsenet/internal/solver"
	"github.com/roach88/pulsenet/internal/subgraph"
)

// CyclesOptions holds flags for the cycles command.
type CyclesOptions struct {
	*RootOptions
	Sink    string
	Modules bool // print each subgraph's modules and edges
}

// CycleReport describes the cycle of one subgraph.
type CycleReport struct {
	solver.SubgraphCycle
	Offsets []int  `json:"offsets"`
	PreHits []int  `json:"pre_cycle_hits,omitempty"`
	Layout  string `json:"layout,omitempty"`
}

// CyclesResult holds the cycles output.
type CyclesResult struct {
	File      string        `json:"file"`
	Subgraphs []CycleReport `json:"subgraphs"`
}

// NewCyclesCommand creates the cycles command.
func NewCyclesCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CyclesOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "cycles <circuit-file>",
		Short: "Show the subgraphs of a circuit and their cycles",
		Long: `Split the circuit into the independent subgraphs that feed its output
module and find the press at which each one starts repeating.

For each subgraph, prints the cycle start and length, the presses that
sent a high pulse out of the subgraph, and their offsets within the cycle.

Exit codes:
  0 - Every subgraph has a cycle
  1 - The circuit does not decompose or a cycle was not found
  2 - Command error

Examples:
  pulsenet cycles input.txt
  pulsenet cycles input.txt --modules`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCycles(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Sink, "sink", "", "output module name")
	cmd.Flags().BoolVar(&opts.Modules, "modules", false, "list the modules of each subgraph")

	return cmd
}

func runCycles(opts *CyclesOptions, path string, cmd *cobra.Command) error {
	f := opts.formatter(cmd)

	lc, err := loadCircuit(cmd, opts.RootOptions, path, opts.Sink)
	if err != nil {
		return err
	}
	cfg, err := opts.Config()
	if err != nil {
		return err
	}
	sv := solver.New(cfg.Simulation,
		solver.WithLogger(opts.Logger(cmd.ErrOrStderr())),
		solver.WithSinkName(lc.SinkName),
	)

	cycles, err := sv.Cycles(cmd.Context(), lc.Network)
	if err != nil {
		code := ErrCodeGeneric
		switch {
		case errors.Is(err, subgraph.ErrNoDecomposition):
			code = ErrCodeNoSplit
		case engine.IsCycleNotFound(err):
			code = ErrCodeNoCycle
		}
		if ferr := f.Error(code, err.Error(), nil); ferr != nil {
			return ferr
		}
		return WrapExitError(ExitFailure, "finding cycles", err)
	}

	result := CyclesResult{File: path, Subgraphs: make([]CycleReport, len(cycles))}
	for i, sc := range cycles {
		r := CycleReport{
			SubgraphCycle: sc,
			Offsets:       sc.Cycle.InCycleOffsets(),
			PreHits:       sc.Cycle.PreCycleHits(),
		}
		if r.Offsets == nil {
			r.Offsets = []int{}
		}
		if opts.Modules {
			r.Layout = sc.Subgraph.String()
		}
		result.Subgraphs[i] = r
	}

	if f.JSON() {
		return f.Success(result)
	}
	writeCyclesText(f.Writer, result)
	return nil
}

func writeCyclesText(w io.Writer, r CyclesResult) {
	for _, sg := range r.Subgraphs {
		c := sg.Cycle
		fmt.Fprintf(w, "subgraph %d %s: %d modules\n", sg.Index, sg.Label, sg.Modules)
		fmt.Fprintf(w, "  cycle: start %d, length %s, hits %v, offsets %v\n",
			c.Start, formatCount(c.Length), c.Hits, sg.Offsets)
		if len(sg.PreHits) > 0 {
			fmt.Fprintf(w, "  before cycle: %v\n", sg.PreHits)
		}
		fmt.Fprintf(w, "  state: %016x\n", c.Fingerprint)
		if sg.Layout != "" {
			fmt.Fprint(w, sg.Layout)
		}
	}
}
