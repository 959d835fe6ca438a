package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/pulsenet/internal/store"
)

// AnswersOptions holds flags for the answers command.
type AnswersOptions struct {
	*RootOptions
	Database string
	Circuit  string // digest filter
	Runs     bool
}

// AnswersResult holds the answers output.
type AnswersResult struct {
	Answers []store.Answer `json:"answers"`
	Runs    []store.Run    `json:"runs,omitempty"`
}

// NewAnswersCommand creates the answers command.
func NewAnswersCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &AnswersOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "answers",
		Short: "List recorded answers",
		Long: `List the answers recorded by solve, ordered by circuit digest and part.

Examples:
  pulsenet answers --db answers.db
  pulsenet answers --db answers.db --circuit 3f2a... --runs`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnswers(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (default store.path)")
	cmd.Flags().StringVar(&opts.Circuit, "circuit", "", "only this circuit digest")
	cmd.Flags().BoolVar(&opts.Runs, "runs", false, "also list recorded runs")

	return cmd
}

func runAnswers(opts *AnswersOptions, cmd *cobra.Command) error {
	f := opts.formatter(cmd)
	ctx := cmd.Context()

	st, err := openStore(opts.RootOptions, opts.Database)
	if err != nil {
		return err
	}
	defer st.Close()

	answers, err := st.ListAnswers(ctx, opts.Circuit)
	if err != nil {
		return WrapExitError(ExitCommandError, "listing answers", err)
	}
	result := AnswersResult{Answers: answers}
	if opts.Runs {
		result.Runs, err = st.ListRuns(ctx, opts.Circuit)
		if err != nil {
			return WrapExitError(ExitCommandError, "listing runs", err)
		}
	}

	if f.JSON() {
		return f.Success(result)
	}
	writeAnswersText(f.Writer, result)
	return nil
}

func writeAnswersText(w io.Writer, r AnswersResult) {
	if len(r.Answers) == 0 {
		fmt.Fprintln(w, "No answers recorded.")
	}
	for _, a := range r.Answers {
		fmt.Fprintf(w, "%s part %d: %s (%s", shortDigest(a.CircuitDigest), a.Part, formatCount(a.Value), a.Strategy)
		if a.Part == 1 {
			fmt.Fprintf(w, ", %s presses", formatCount(a.Presses))
		} else {
			fmt.Fprintf(w, ", sink %s", a.SinkName)
		}
		fmt.Fprintf(w, ", run %s)\n", a.RunID)
	}
	for _, run := range r.Runs {
		fmt.Fprintf(w, "run %d %s %s engine %s\n", run.Seq, run.ID, shortDigest(run.CircuitDigest), run.EngineVersion)
	}
}
