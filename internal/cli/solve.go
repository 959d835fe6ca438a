package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/pulsenet/internal/digest"
	"github.com/roach88/pulsenet/internal/engine"
	"github.com/roach88/pulsenet/internal/solver"
	"github.com/roach88/pulsenet/internal/store"
)

// SolveOptions holds flags for the solve command.
type SolveOptions struct {
	*RootOptions
	Part     int    // 0 solves both parts
	Database string // overrides store.path
	Sink     string // overrides circuit.sink_name
	Presses  int    // overrides simulation.part1_presses
}

// AnswerChange reports a recorded answer that differs from the one
// stored before.
type AnswerChange struct {
	Part     int   `json:"part"`
	Previous int64 `json:"previous"`
	Current  int64 `json:"current"`
}

// SolveResult holds the solve output.
type SolveResult struct {
	File    string         `json:"file"`
	Digest  string         `json:"digest"`
	Part1   *solver.Answer `json:"part1,omitempty"`
	Part2   *solver.Answer `json:"part2,omitempty"`
	Skipped string         `json:"skipped,omitempty"`
	RunID   string         `json:"run_id,omitempty"`
	Changes []AnswerChange `json:"changes,omitempty"`
}

// NewSolveCommand creates the solve command.
func NewSolveCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SolveOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "solve <circuit-file>",
		Short: "Compute both answers for a circuit",
		Long: `Compute the answers for a circuit description.

Part 1 multiplies the low and high pulse counts over a fixed number of
presses. Part 2 finds the first press that delivers a low pulse to the
output module. When both parts are requested and the circuit has no
output module, part 2 is skipped.

With --db (or store.path) the run is recorded, and any answer that
differs from the stored one is reported.

Examples:
  pulsenet solve input.txt
  pulsenet solve input.txt --part 2 --db answers.db
  pulsenet solve - --presses 10 < input.txt`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSolve(opts, args[0], cmd)
		},
	}

	cmd.Flags().IntVar(&opts.Part, "part", 0, "part to solve (1 or 2, default both)")
	cmd.Flags().StringVar(&opts.Database, "db", "", "record the run in this SQLite database")
	cmd.Flags().StringVar(&opts.Sink, "sink", "", "output module watched by part 2")
	cmd.Flags().IntVar(&opts.Presses, "presses", 0, "presses counted by part 1")

	return cmd
}

func runSolve(opts *SolveOptions, path string, cmd *cobra.Command) error {
	if opts.Part < 0 || opts.Part > 2 {
		return NewExitError(ExitCommandError, fmt.Sprintf("invalid part %d: must be 1 or 2", opts.Part))
	}
	if opts.Presses < 0 {
		return NewExitError(ExitCommandError, fmt.Sprintf("invalid presses %d", opts.Presses))
	}
	f := opts.formatter(cmd)

	lc, err := loadCircuit(cmd, opts.RootOptions, path, opts.Sink)
	if err != nil {
		return err
	}
	cfg, err := opts.Config()
	if err != nil {
		return err
	}
	bounds := cfg.Simulation
	if opts.Presses > 0 {
		override := *cfg
		override.Simulation.Part1Presses = opts.Presses
		if err := override.Validate(); err != nil {
			return WrapExitError(ExitCommandError, fmt.Sprintf("invalid presses %d", opts.Presses), err)
		}
		bounds = override.Simulation
	}
	logger := opts.Logger(cmd.ErrOrStderr())
	sv := solver.New(bounds, solver.WithLogger(logger), solver.WithSinkName(lc.SinkName))

	result := SolveResult{File: path, Digest: lc.Digest}
	if opts.Part != 2 {
		ans, err := sv.Part1Answer(lc.Network)
		if err != nil {
			return reportSolveError(f, 1, err)
		}
		result.Part1 = &ans
	}
	if opts.Part != 1 {
		ans, err := sv.Part2(cmd.Context(), lc.Network)
		switch {
		case err == nil:
			result.Part2 = &ans
		case opts.Part == 0 && engine.IsNoSink(err):
			result.Skipped = err.Error()
		default:
			return reportSolveError(f, 2, err)
		}
	}

	dbPath := opts.Database
	if dbPath == "" {
		dbPath = cfg.Store.Path
	}
	if dbPath != "" {
		if err := recordSolve(cmd.Context(), opts.RootOptions, dbPath, lc, bounds.Part1Presses, &result, logger); err != nil {
			return err
		}
	}

	if f.JSON() {
		return f.Success(result)
	}
	writeSolveText(f.Writer, result)
	return nil
}

// reportSolveError prints a failed part and returns its exit error.
func reportSolveError(f *OutputFormatter, part int, err error) error {
	label := fmt.Sprintf("part %d", part)
	code := ErrCodeGeneric
	switch {
	case engine.IsNoSink(err):
		code = ErrCodeNoSink
	case engine.IsCycleNotFound(err):
		code = ErrCodeNoCycle
	case engine.IsPressLimitError(err):
		code = ErrCodeNoAnswer
	case engine.IsOverflow(err):
		code = ErrCodeOverflow
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return WrapExitError(ExitCommandError, label+" interrupted", err)
	}
	if ferr := f.Error(code, err.Error(), nil); ferr != nil {
		return ferr
	}
	return WrapExitError(ExitFailure, label, err)
}

// recordSolve stores the run, its answers and its cycles.
func recordSolve(ctx context.Context, opts *RootOptions, dbPath string, lc *loadedCircuit, presses int, result *SolveResult, logger *slog.Logger) error {
	st, err := openStore(opts, dbPath)
	if err != nil {
		return err
	}
	defer st.Close()

	run, err := st.RecordRun(ctx, lc.Record(), opts.runIDs().Generate())
	if err != nil {
		return WrapExitError(ExitCommandError, "recording run", err)
	}
	result.RunID = run.ID

	for _, ans := range []*solver.Answer{result.Part1, result.Part2} {
		if ans == nil {
			continue
		}
		rec, err := answerRecord(lc, presses, run.ID, ans)
		if err != nil {
			return WrapExitError(ExitCommandError, "recording answer", err)
		}
		change, err := st.RecordAnswer(ctx, rec)
		if err != nil {
			return WrapExitError(ExitCommandError, "recording answer", err)
		}
		if change.Changed {
			logger.Warn("answer changed",
				"circuit", lc.Digest,
				"part", ans.Part,
				"previous", change.Previous,
				"current", change.Current,
			)
			result.Changes = append(result.Changes, AnswerChange{
				Part:     ans.Part,
				Previous: change.Previous,
				Current:  change.Current,
			})
		}
	}

	if result.Part2 != nil && len(result.Part2.Cycles) > 0 {
		if err := st.RecordCycles(ctx, run.ID, cycleRecords(result.Part2.Cycles)); err != nil {
			return WrapExitError(ExitCommandError, "recording cycles", err)
		}
	}
	return nil
}

func answerRecord(lc *loadedCircuit, presses int, runID string, ans *solver.Answer) (store.Answer, error) {
	id, err := digest.AnswerID(lc.Digest, ans.Part, lc.SinkName, presses)
	if err != nil {
		return store.Answer{}, err
	}
	rec := store.Answer{
		ID:            id,
		CircuitDigest: lc.Digest,
		Part:          ans.Part,
		Value:         ans.Value,
		Strategy:      string(ans.Strategy),
		RunID:         runID,
	}
	if ans.Part == 1 {
		rec.Presses = presses
	} else {
		rec.SinkName = lc.SinkName
	}
	return rec, nil
}

func cycleRecords(cycles []solver.SubgraphCycle) []store.CycleRecord {
	out := make([]store.CycleRecord, len(cycles))
	for i, sc := range cycles {
		out[i] = store.CycleRecord{
			Subgraph:    sc.Index,
			Label:       sc.Label,
			Start:       sc.Cycle.Start,
			Length:      sc.Cycle.Length,
			Hits:        sc.Cycle.Hits,
			Fingerprint: sc.Cycle.Fingerprint,
		}
	}
	return out
}

func writeSolveText(w io.Writer, r SolveResult) {
	fmt.Fprintf(w, "circuit %s (%s)\n", r.File, shortDigest(r.Digest))
	if a := r.Part1; a != nil {
		fmt.Fprintf(w, "part 1: %s", formatCount(a.Value))
		if a.Tally != nil {
			fmt.Fprintf(w, " (%s low × %s high, %s)", formatCount(a.Tally.Low), formatCount(a.Tally.High), a.Elapsed)
		}
		fmt.Fprintln(w)
	}
	if a := r.Part2; a != nil {
		fmt.Fprintf(w, "part 2: %s (%s", formatCount(a.Value), a.Strategy)
		if len(a.Cycles) > 0 {
			labels := make([]string, len(a.Cycles))
			for i, sc := range a.Cycles {
				labels[i] = fmt.Sprintf("%s=%d", sc.Label, sc.Cycle.Length)
			}
			fmt.Fprintf(w, " of %s", strings.Join(labels, ", "))
		}
		fmt.Fprintf(w, ", %s)\n", a.Elapsed)
		if a.Fallback != "" {
			fmt.Fprintf(w, "  fallback: %s\n", a.Fallback)
		}
	}
	if r.Skipped != "" {
		fmt.Fprintf(w, "part 2: skipped (%s)\n", r.Skipped)
	}
	if r.RunID != "" {
		fmt.Fprintf(w, "recorded run %s\n", r.RunID)
	}
	for _, c := range r.Changes {
		fmt.Fprintf(w, "⚠ part %d changed: %s → %s\n", c.Part, formatCount(c.Previous), formatCount(c.Current))
	}
}
