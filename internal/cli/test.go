package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/pulsenet/internal/harness"
)

type TestOptions struct {
	*RootOptions
	Update bool
	Filter string
}

// ScenarioResult is the outcome of one scenario file.
type ScenarioResult struct {
	Name   string   `json:"name"`
	Pass   bool     `json:"pass"`
	Errors []string `json:"errors,omitempty"`

	note string
}

type TestResult struct {
	Scenarios []ScenarioResult `json:"scenarios"`
	Passed    int              `json:"passed"`
	Failed    int              `json:"failed"`
	Total     int              `json:"total"`
}

func (r *TestResult) add(s ScenarioResult) {
	r.Scenarios = append(r.Scenarios, s)
	r.Total++
	if s.Pass {
		r.Passed++
	} else {
		r.Failed++
	}
}

var errGoldenMismatch = errors.New("trace does not match golden file (run with --update to regenerate)")

// NewTestCommand runs a directory of YAML circuit scenarios.
func NewTestCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TestOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "test <scenarios-dir>",
		Short: "Run circuit scenarios",
		Long: `Run the YAML scenarios in a directory.

A scenario names a circuit, a number of button presses and assertions on
the pulses sent, module state after the presses and the part 1 and part 2
answers. If golden/<name>.golden sits beside the scenario, the recorded
pulse trace must match it byte for byte.

Exits 1 when any scenario fails and 2 when the directory cannot be read.

Examples:
  pulsenet test testdata/scenarios
  pulsenet test testdata/scenarios --filter "sink_*"
  pulsenet test testdata/scenarios --update`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTests(cmd, opts, args[0])
		},
	}

	cmd.Flags().BoolVar(&opts.Update, "update", false, "rewrite golden traces from this run")
	cmd.Flags().StringVar(&opts.Filter, "filter", "", "only run scenarios whose file name matches this glob")
	return cmd
}

func runTests(cmd *cobra.Command, opts *TestOptions, dir string) error {
	if _, err := os.Stat(dir); errors.Is(err, fs.ErrNotExist) {
		return NewExitError(ExitCommandError, "scenarios directory not found: "+dir)
	}
	files, err := findScenarioFiles(dir, opts.Filter)
	if err != nil {
		return WrapExitError(ExitCommandError, "listing scenarios", err)
	}

	f := opts.formatter(cmd)
	if len(files) == 0 {
		if f.JSON() {
			return f.Success(TestResult{Scenarios: []ScenarioResult{}})
		}
		fmt.Fprintln(f.Writer, "No scenarios found.")
		return nil
	}

	r := scenarioRunner{ctx: cmd.Context(), update: opts.Update}
	if !f.JSON() {
		r.progress = f.Writer
	}
	var result TestResult
	for _, file := range files {
		result.add(r.run(file))
	}

	if result.Failed == 0 {
		if f.JSON() {
			return f.Success(result)
		}
		fmt.Fprintf(f.Writer, "\nTest Summary: %d passed, 0 failed, %d total\n", result.Passed, result.Total)
		fmt.Fprintln(f.Writer, "✓ All scenarios passed")
		return nil
	}

	msg := fmt.Sprintf("%d scenario(s) failed", result.Failed)
	if f.JSON() {
		if err := f.Failure(ErrCodeTestFailed, msg, result); err != nil {
			return err
		}
	} else {
		fmt.Fprintf(f.Writer, "\nTest Summary: %d passed, %d failed, %d total\n", result.Passed, result.Failed, result.Total)
	}
	return NewExitError(ExitFailure, msg)
}

// findScenarioFiles lists .yaml and .yml files below dir in lexical order.
// golden directories are skipped. filter is matched against the file name
// without its extension.
func findScenarioFiles(dir, filter string) ([]string, error) {
	if filter != "" {
		if _, err := filepath.Match(filter, ""); err != nil {
			return nil, fmt.Errorf("invalid filter %q: %w", filter, err)
		}
	}

	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		switch {
		case err != nil:
			return err
		case d.IsDir() && path != dir && d.Name() == "golden":
			return filepath.SkipDir
		case d.IsDir():
			return nil
		}

		ext := filepath.Ext(path)
		if ext != ".yaml" && ext != ".yml" {
			return nil
		}
		if filter != "" {
			if ok, _ := filepath.Match(filter, strings.TrimSuffix(d.Name(), ext)); !ok {
				return nil
			}
		}
		files = append(files, path)
		return nil
	})
	return files, err
}

type scenarioRunner struct {
	ctx      context.Context
	update   bool
	progress io.Writer // nil in JSON mode
}

func (r scenarioRunner) run(file string) ScenarioResult {
	res := r.evaluate(file)
	if r.progress != nil {
		if res.Pass {
			fmt.Fprintf(r.progress, "✓ %s%s\n", res.Name, res.note)
		} else {
			fmt.Fprintf(r.progress, "✗ %s\n", res.Name)
			for _, e := range res.Errors {
				fmt.Fprintf(r.progress, "  %s\n", e)
			}
		}
	}
	return res
}

func (r scenarioRunner) evaluate(file string) ScenarioResult {
	failed := func(name string, errs ...string) ScenarioResult {
		return ScenarioResult{Name: name, Errors: errs}
	}

	scenario, err := harness.LoadScenario(file)
	if err != nil {
		return failed(filepath.Base(file), fmt.Sprintf("failed to load scenario: %v", err))
	}
	result, err := harness.RunContext(r.ctx, scenario)
	if err != nil {
		return failed(scenario.Name, fmt.Sprintf("execution failed: %v", err))
	}

	name, note := scenario.Name, ""
	snap := harness.NewTraceSnapshot(scenario.Name, scenario.Presses, result)
	trace, err := snap.Marshal()
	if err != nil {
		return failed(name, fmt.Sprintf("encoding trace: %v", err))
	}

	golden := goldenFilePath(file)
	if r.update {
		if err := writeGolden(golden, trace); err != nil {
			return failed(name, err.Error())
		}
		note = " (golden updated)"
	} else if err := checkGolden(golden, trace); err != nil {
		return failed(name, err.Error())
	}

	if !result.Pass {
		return failed(name, result.Errors...)
	}
	return ScenarioResult{Name: name, Pass: true, note: note}
}

// goldenFilePath maps dir/name.yaml to dir/golden/name.golden.
func goldenFilePath(scenarioFile string) string {
	base := filepath.Base(scenarioFile)
	name := strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(filepath.Dir(scenarioFile), "golden", name+".golden")
}

func writeGolden(path string, trace []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating golden directory: %w", err)
	}
	if err := os.WriteFile(path, trace, 0644); err != nil {
		return fmt.Errorf("writing golden file: %w", err)
	}
	return nil
}

// checkGolden compares trace with the golden file at path. A missing file
// is not an error: scenarios without golden traces rely on assertions alone.
func checkGolden(path string, trace []byte) error {
	want, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return nil
	case err != nil:
		return fmt.Errorf("reading golden file: %w", err)
	case !bytes.Equal(want, trace):
		return errGoldenMismatch
	}
	return nil
}
