package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/pulsenet/internal/circuit"
	"github.com/roach88/pulsenet/internal/engine"
	"github.com/roach88/pulsenet/internal/harness"
)

// TraceOptions holds flags for the trace command.
type TraceOptions struct {
	*RootOptions
	Count  int
	Warmup int
	Sink   string
	Module string // only pulses from or to this module
}

// TraceResult holds the trace output.
type TraceResult struct {
	File   string               `json:"file"`
	Warmup int                  `json:"warmup"`
	Trace  []harness.TraceEvent `json:"trace"`
	Tally  engine.Tally         `json:"tally"`
}

// NewTraceCommand creates the trace command.
func NewTraceCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TraceOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "trace <circuit-file>",
		Short: "Print every pulse of a run of presses",
		Long: `Print every pulse in the order it was sent, numbered by a logical clock
that starts after the warm-up presses.

The tally counts all recorded pulses, including those filtered out by
--module.

Examples:
  pulsenet trace input.txt
  pulsenet trace input.txt -n 4 --module con
  pulsenet trace input.txt --warmup 1000 -n 1 --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTrace(opts, args[0], cmd)
		},
	}

	cmd.Flags().IntVarP(&opts.Count, "count", "n", 1, "number of recorded presses")
	cmd.Flags().IntVar(&opts.Warmup, "warmup", 0, "unrecorded presses before tracing")
	cmd.Flags().StringVar(&opts.Sink, "sink", "", "output module name")
	cmd.Flags().StringVar(&opts.Module, "module", "", "only show pulses from or to this module")

	return cmd
}

func runTrace(opts *TraceOptions, path string, cmd *cobra.Command) error {
	if opts.Count < 1 {
		return NewExitError(ExitCommandError, fmt.Sprintf("invalid count %d: must be at least 1", opts.Count))
	}
	if opts.Warmup < 0 {
		return NewExitError(ExitCommandError, fmt.Sprintf("invalid warmup %d", opts.Warmup))
	}
	f := opts.formatter(cmd)

	lc, err := loadCircuit(cmd, opts.RootOptions, path, opts.Sink)
	if err != nil {
		return err
	}
	n := lc.Network
	if opts.Module != "" {
		if _, ok := n.Lookup(opts.Module); !ok {
			return NewExitError(ExitCommandError, fmt.Sprintf("no module %q in %s", opts.Module, path))
		}
	}

	result := TraceResult{File: path, Warmup: opts.Warmup, Trace: []harness.TraceEvent{}}
	recording := false
	clock := engine.NewClock()
	sim := engine.New(n,
		engine.WithLogger(opts.Logger(cmd.ErrOrStderr())),
		engine.WithObserver(func(d engine.Delivery) {
			if !recording {
				return
			}
			ev := harness.TraceEvent{
				Seq:   clock.Next(),
				Press: d.Press,
				From:  engine.NodeName(n, d.From),
				To:    engine.NodeName(n, d.To),
				Level: d.Level.String(),
			}
			if d.Level == circuit.High {
				result.Tally.High++
			} else {
				result.Tally.Low++
			}
			if opts.Module == "" || ev.From == opts.Module || ev.To == opts.Module {
				result.Trace = append(result.Trace, ev)
			}
		}),
	)
	sim.PressN(opts.Warmup)
	recording = true
	sim.PressN(opts.Count)

	if f.JSON() {
		return f.Success(result)
	}
	writeTraceText(f.Writer, result)
	return nil
}

func writeTraceText(w io.Writer, r TraceResult) {
	press := 0
	for _, ev := range r.Trace {
		if ev.Press != press {
			press = ev.Press
			fmt.Fprintf(w, "press %d\n", press)
		}
		fmt.Fprintf(w, "  %4d %s\n", ev.Seq, ev)
	}
	fmt.Fprintf(w, "%s low, %s high\n", formatCount(r.Tally.Low), formatCount(r.Tally.High))
}
