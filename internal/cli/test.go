package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/mutest/internal/driver"
	"github.com/roach88/mutest/internal/harness"
	"github.com/roach88/mutest/internal/metrics"
	"github.com/roach88/mutest/internal/report"
	"github.com/roach88/mutest/internal/testsource"
)

// TestOptions holds flags for the test command.
type TestOptions struct {
	*RootOptions
	StoreOptions
	Base        string   // directory holding namespace directories
	Groups      []string // restrict to these groups
	Report      string   // write the structured report here
	MetricsFile string   // write a node-exporter textfile here
	Label       string   // stored with the run
	Failures    bool     // also print failing rows
	Strict      bool     // exit 1 on any failed, aborted, or malformed test
}

// NewTestCommand creates the test command.
func NewTestCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TestOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "test <namespace>",
		Short: "Run a namespace's tests against the runtime",
		Long: `Run every test case of a namespace, each in a fresh runtime process.

The namespace directory <base>/<namespace> holds a "tests" file listing the
group files to run. Each group line is an expression and its expected
printed value, separated by a TAB.

Exit codes:
  0 - Run completed (with --strict: every test passed)
  1 - --strict and a test failed, aborted, or was malformed
  2 - Command error (runtime cannot start, missing namespace, etc.)

Examples:
  mutest test mu
  mutest test prelude --base ./tests --group fixnum --group list
  mutest test mu --report mu.json --db runs.db --strict
  mutest test mu --format json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTest(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Base, "base", ".", "directory containing namespace directories")
	cmd.Flags().StringSliceVarP(&opts.Groups, "group", "g", nil, "run only these groups")
	cmd.Flags().StringVarP(&opts.Report, "report", "o", "", "write the structured JSON report to this file")
	cmd.Flags().StringVar(&opts.Database, "db", "", "store the run in this SQLite database")
	cmd.Flags().StringVar(&opts.MetricsFile, "metrics-file", "", "write run metrics in Prometheus textfile format")
	cmd.Flags().StringVar(&opts.Label, "label", "", "label stored with the run")
	cmd.Flags().BoolVar(&opts.Failures, "failures", false, "print failing tests after the summary")
	cmd.Flags().BoolVar(&opts.Strict, "strict", false, "exit 1 unless every test passed")

	return cmd
}

func runTest(opts *TestOptions, namespace string, cmd *cobra.Command) error {
	cfg, err := opts.loadConfig()
	if err != nil {
		return err
	}
	logger := opts.newLogger(cmd.ErrOrStderr())

	d, err := driver.New(cfg.Invocation(namespace), driver.WithLogger(logger))
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid runtime invocation", err)
	}

	st, err := opts.openStore(cfg)
	if err != nil {
		return err
	}
	if st != nil {
		defer st.Close()
	}

	var rec *metrics.Recorder
	if opts.MetricsFile != "" {
		rec = metrics.New()
	}

	ctx, stop := signalContext(cmd, logger)
	defer stop()

	ns := testsource.Namespace{Name: namespace, Base: opts.Base}
	res, err := harness.RunNamespace(ctx, ns, d, harness.Options{
		Groups:  opts.Groups,
		Label:   opts.Label,
		Logger:  logger,
		Metrics: rec,
		Store:   st,
	})
	if err != nil {
		if errors.Is(err, ctx.Err()) {
			return WrapExitError(ExitCommandError, "run interrupted", err)
		}
		return WrapExitError(ExitCommandError, fmt.Sprintf("namespace %s", namespace), err)
	}

	if opts.Report != "" {
		if err := writeReportFile(opts.Report, res.Report); err != nil {
			return err
		}
	}
	if err := rec.WriteTextfile(opts.MetricsFile); err != nil {
		return WrapExitError(ExitCommandError, "failed to write metrics", err)
	}

	f := opts.formatter(cmd)
	if res.Run != nil {
		f.VerboseLog("stored run %s (seq %d)", res.Run.ID, res.Run.Seq)
	}
	if err := writeTestOutput(f, *res.Report, opts.Failures); err != nil {
		return err
	}

	if opts.Strict && !res.Passed() {
		return NewExitError(ExitFailure, fmt.Sprintf("namespace %s: not every test passed", namespace))
	}
	return nil
}

// writeTestOutput renders a namespace report in the configured format.
// Failing rows are only printed in the text formats.
func writeTestOutput(f *OutputFormatter, nr report.NamespaceReport, failures bool) error {
	switch f.Format {
	case "json":
		return f.Success(nr)
	case "table":
		report.WriteTable(f.Writer, "Namespace Test Summary: "+nr.Namespace, nr.Summaries())
	default:
		if err := report.WriteSummary(f.Writer, nr.Namespace, nr.Summaries()); err != nil {
			return err
		}
	}
	if failures {
		return report.WriteFailures(f.Writer, nr)
	}
	return nil
}
