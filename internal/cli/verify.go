package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/pulsenet/internal/config"
	"github.com/roach88/pulsenet/internal/solver"
	"github.com/roach88/pulsenet/internal/store"
)

// VerifyOptions holds flags for the verify command.
type VerifyOptions struct {
	*RootOptions
	Database string
	Circuit  string
}

// AnswerCheck is the outcome of recomputing one stored answer.
type AnswerCheck struct {
	Circuit  string `json:"circuit"`
	Part     int    `json:"part"`
	Stored   int64  `json:"stored"`
	Computed int64  `json:"computed"`
	Strategy string `json:"strategy,omitempty"`
	Error    string `json:"error,omitempty"`
	Match    bool   `json:"match"`
}

// VerifyResult holds the verify output.
type VerifyResult struct {
	Checked int           `json:"checked"`
	Drifted int           `json:"drifted"`
	Checks  []AnswerCheck `json:"checks"`
}

// NewVerifyCommand creates the verify command.
func NewVerifyCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &VerifyOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Recompute recorded answers and report drift",
		Long: `Re-parse every recorded circuit from its stored source, recompute each
stored answer under the settings it was recorded with, and compare.

Exit codes:
  0 - Every answer matches
  1 - At least one answer differs or could not be recomputed
  2 - Command error (database not found, etc.)

Examples:
  pulsenet verify --db answers.db
  pulsenet verify --db answers.db --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runVerify(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (default store.path)")
	cmd.Flags().StringVar(&opts.Circuit, "circuit", "", "only this circuit digest")

	return cmd
}

func runVerify(opts *VerifyOptions, cmd *cobra.Command) error {
	f := opts.formatter(cmd)
	ctx := cmd.Context()

	cfg, err := opts.Config()
	if err != nil {
		return err
	}
	st, err := openStore(opts.RootOptions, opts.Database)
	if err != nil {
		return err
	}
	defer st.Close()

	answers, err := st.ListAnswers(ctx, opts.Circuit)
	if err != nil {
		return WrapExitError(ExitCommandError, "listing answers", err)
	}

	result := VerifyResult{Checks: make([]AnswerCheck, 0, len(answers))}
	circuits := map[string]store.Circuit{}
	for _, a := range answers {
		c, ok := circuits[a.CircuitDigest]
		if !ok {
			c, err = st.ReadCircuit(ctx, a.CircuitDigest)
			if err != nil {
				return WrapExitError(ExitCommandError, "reading circuit", err)
			}
			circuits[a.CircuitDigest] = c
		}

		f.VerboseLog("Verifying part %d of %s", a.Part, shortDigest(a.CircuitDigest))
		check := recompute(ctx, opts, cfg.Simulation, cmd, c, a)
		result.Checked++
		if !check.Match {
			result.Drifted++
		}
		result.Checks = append(result.Checks, check)
	}

	if f.JSON() {
		if result.Drifted > 0 {
			if err := f.Failure(ErrCodeDrift, fmt.Sprintf("%d answer(s) drifted", result.Drifted), result); err != nil {
				return err
			}
			return NewExitError(ExitFailure, fmt.Sprintf("%d answer(s) drifted", result.Drifted))
		}
		return f.Success(result)
	}
	return writeVerifyText(f.Writer, result)
}

// recompute solves a's part of c again. Part 1 uses the stored press
// count and part 2 the stored sink name.
func recompute(ctx context.Context, opts *VerifyOptions, bounds config.SimulationConfig, cmd *cobra.Command, c store.Circuit, a store.Answer) AnswerCheck {
	check := AnswerCheck{Circuit: a.CircuitDigest, Part: a.Part, Stored: a.Value}

	cc := config.CircuitConfig{SinkName: c.SinkName, Broadcaster: c.Broadcaster}
	sink := ""
	if a.Part == 2 {
		sink = a.SinkName
	}
	lc, err := parseCircuit(c.Digest, c.Source, cc, sink)
	if err != nil {
		check.Error = err.Error()
		return check
	}
	if lc.Digest != c.Digest {
		check.Error = fmt.Sprintf("circuit digest changed to %s", lc.Digest)
		return check
	}

	if a.Part == 1 {
		bounds.Part1Presses = a.Presses
	}
	sv := solver.New(bounds,
		solver.WithLogger(opts.Logger(cmd.ErrOrStderr())),
		solver.WithSinkName(lc.SinkName),
	)

	var ans solver.Answer
	if a.Part == 1 {
		ans, err = sv.Part1Answer(lc.Network)
	} else {
		ans, err = sv.Part2(ctx, lc.Network)
	}
	if err != nil {
		check.Error = err.Error()
		return check
	}
	check.Computed = ans.Value
	check.Strategy = string(ans.Strategy)
	check.Match = ans.Value == a.Value
	return check
}

func writeVerifyText(w io.Writer, r VerifyResult) error {
	for _, c := range r.Checks {
		switch {
		case c.Error != "":
			fmt.Fprintf(w, "✗ %s part %d: %s\n", shortDigest(c.Circuit), c.Part, c.Error)
		case !c.Match:
			fmt.Fprintf(w, "✗ %s part %d: stored %s, computed %s\n",
				shortDigest(c.Circuit), c.Part, formatCount(c.Stored), formatCount(c.Computed))
		default:
			fmt.Fprintf(w, "✓ %s part %d: %s\n", shortDigest(c.Circuit), c.Part, formatCount(c.Stored))
		}
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "Verify Summary: %d checked, %d drifted\n", r.Checked, r.Drifted)
	if r.Drifted > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d answer(s) drifted", r.Drifted))
	}
	return nil
}
