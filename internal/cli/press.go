package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/pulsenet/internal/circuit"
	"github.com/roach88/pulsenet/internal/engine"
)

// PressOptions holds flags for the press command.
type PressOptions struct {
	*RootOptions
	Count int
	Sink  string
	State bool // report the final flip-flop and memory state
}

// PressRecord summarizes one press.
type PressRecord struct {
	Press int          `json:"press"`
	Sent  engine.Tally `json:"sent"`
	Sink  engine.Tally `json:"sink"`
}

// ModuleState is the state of one stateful module after the last press.
type ModuleState struct {
	Name   string   `json:"name"`
	Kind   string   `json:"kind"`
	On     *bool    `json:"on,omitempty"`
	Memory []string `json:"memory,omitempty"`
}

// PressResult holds the press output.
type PressResult struct {
	File        string        `json:"file"`
	Presses     []PressRecord `json:"presses"`
	Total       engine.Tally  `json:"total"`
	Product     int64         `json:"product"`
	Fingerprint string        `json:"fingerprint"`
	State       []ModuleState `json:"state,omitempty"`
}

// NewPressCommand creates the press command.
func NewPressCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &PressOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "press <circuit-file>",
		Short: "Press the button and count pulses",
		Long: `Press the button a number of times from the initial state and report
the pulses sent by each press, the pulses that reached output modules
and the running total.

Examples:
  pulsenet press input.txt
  pulsenet press input.txt -n 4 --state`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPress(opts, args[0], cmd)
		},
	}

	cmd.Flags().IntVarP(&opts.Count, "count", "n", 1, "number of presses")
	cmd.Flags().StringVar(&opts.Sink, "sink", "", "output module name")
	cmd.Flags().BoolVar(&opts.State, "state", false, "show module state after the last press")

	return cmd
}

func runPress(opts *PressOptions, path string, cmd *cobra.Command) error {
	if opts.Count < 1 {
		return NewExitError(ExitCommandError, fmt.Sprintf("invalid count %d: must be at least 1", opts.Count))
	}
	f := opts.formatter(cmd)

	lc, err := loadCircuit(cmd, opts.RootOptions, path, opts.Sink)
	if err != nil {
		return err
	}
	sim := engine.New(lc.Network, engine.WithLogger(opts.Logger(cmd.ErrOrStderr())))

	result := PressResult{
		File:    path,
		Presses: make([]PressRecord, 0, opts.Count),
	}
	for i := 0; i < opts.Count; i++ {
		ps := sim.Press()
		result.Presses = append(result.Presses, PressRecord{Press: ps.Press, Sent: ps.Sent, Sink: ps.Sink})
	}
	result.Total = sim.Totals()
	product, err := result.Total.Product()
	if err != nil {
		return reportSolveError(f, 1, err)
	}
	result.Product = product
	result.Fingerprint = fmt.Sprintf("%016x", sim.State().Fingerprint())
	if opts.State {
		result.State = moduleStates(lc, sim.State())
	}

	if f.JSON() {
		return f.Success(result)
	}
	writePressText(f.Writer, result)
	return nil
}

func moduleStates(lc *loadedCircuit, st *engine.State) []ModuleState {
	var out []ModuleState
	n := lc.Network
	for id, end := 0, n.Len(); id < end; id++ {
		ms := ModuleState{Name: n.Name(id), Kind: n.Kind(id).String()}
		switch n.Kind(id) {
		case circuit.KindFlipFlop:
			on := st.FlipFlop(id)
			ms.On = &on
		case circuit.KindConjunction:
			mem := st.Memory(id)
			ms.Memory = make([]string, len(mem))
			for i, l := range mem {
				ms.Memory[i] = l.String()
			}
		default:
			continue
		}
		out = append(out, ms)
	}
	return out
}

func writePressText(w io.Writer, r PressResult) {
	for _, p := range r.Presses {
		fmt.Fprintf(w, "press %d: %s low, %s high", p.Press, formatCount(p.Sent.Low), formatCount(p.Sent.High))
		if p.Sink.Total() > 0 {
			fmt.Fprintf(w, " (output: %d low, %d high)", p.Sink.Low, p.Sink.High)
		}
		fmt.Fprintln(w)
	}
	fmt.Fprintf(w, "total: %s low, %s high, product %s\n",
		formatCount(r.Total.Low), formatCount(r.Total.High), formatCount(r.Product))
	fmt.Fprintf(w, "state: %s\n", r.Fingerprint)
	for _, ms := range r.State {
		switch {
		case ms.On != nil:
			fmt.Fprintf(w, "  %%%s on=%t\n", ms.Name, *ms.On)
		default:
			fmt.Fprintf(w, "  &%s %v\n", ms.Name, ms.Memory)
		}
	}
}
