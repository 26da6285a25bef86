package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/mutest/internal/aggregate"
	"github.com/roach88/mutest/internal/driver"
	"github.com/roach88/mutest/internal/harness"
	"github.com/roach88/mutest/internal/metrics"
	"github.com/roach88/mutest/internal/report"
	"github.com/roach88/mutest/internal/testsource"
)

// PerfOptions holds flags for the perf command.
type PerfOptions struct {
	*RootOptions
	StoreOptions
	Base        string
	Groups      []string
	Repeat      int // 0 means the configured repeat
	Report      string
	MetricsFile string
	Label       string
}

// NewPerfCommand creates the perf command.
func NewPerfCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &PerfOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "perf <namespace>",
		Short: "Profile storage and time of a namespace's expressions",
		Long: `Measure every expression of a namespace: one run under the storage
probe, then the timing probe repeated --repeat times.

Only the expression column of each group line is used.

Examples:
  mutest perf mu --report mu-perf.json
  mutest perf mu --repeat 5 --db runs.db --label nightly`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPerf(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Base, "base", ".", "directory containing namespace directories")
	cmd.Flags().StringSliceVarP(&opts.Groups, "group", "g", nil, "profile only these groups")
	cmd.Flags().IntVarP(&opts.Repeat, "repeat", "n", 0, "timing runs per expression (default from config)")
	cmd.Flags().StringVarP(&opts.Report, "report", "o", "", "write the structured JSON perf report to this file")
	cmd.Flags().StringVar(&opts.Database, "db", "", "store the run in this SQLite database")
	cmd.Flags().StringVar(&opts.MetricsFile, "metrics-file", "", "write run metrics in Prometheus textfile format")
	cmd.Flags().StringVar(&opts.Label, "label", "", "label stored with the run")

	return cmd
}

func runPerf(opts *PerfOptions, namespace string, cmd *cobra.Command) error {
	cfg, err := opts.loadConfig()
	if err != nil {
		return err
	}
	repeat := opts.Repeat
	if repeat == 0 {
		repeat = cfg.Perf.Repeat
	}
	logger := opts.newLogger(cmd.ErrOrStderr())

	dopts := append(cfg.DriverOptions(), driver.WithLogger(logger))
	d, err := driver.New(cfg.PerfInvocation(namespace), dopts...)
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
	res, err := harness.RunPerf(ctx, ns, d, repeat, harness.Options{
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
	return writePerfOutput(f, *res.Report, false)
}

// PerfReportOptions holds flags for the perf-report command.
type PerfReportOptions struct {
	*RootOptions
	Summary bool
}

// NewPerfReportCommand creates the perf-report command.
func NewPerfReportCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &PerfReportOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "perf-report <perf.json>",
		Short: "Print per-test or per-group perf metrics",
		Long: `Print bytes allocated and mean microseconds for each profiled test of
a report written by "mutest perf --report", or group totals with --summary.

Examples:
  mutest perf-report mu-perf.json
  mutest perf-report mu-perf.json --summary`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pr, err := readPerfReport(args[0])
			if err != nil {
				return err
			}
			return writePerfOutput(opts.formatter(cmd), pr, opts.Summary)
		},
	}

	cmd.Flags().BoolVar(&opts.Summary, "summary", false, "print per-group totals")

	return cmd
}

// writePerfOutput renders a perf report in the configured format.
func writePerfOutput(f *OutputFormatter, pr report.PerfReport, summary bool) error {
	records := pr.Records()
	if summary {
		groups := aggregate.Perf(records)
		switch f.Format {
		case "json":
			return f.Success(groups)
		case "table":
			report.WritePerfSummaryTable(f.Writer, pr.Namespace, groups)
			return nil
		default:
			return report.WritePerfSummary(f.Writer, pr.Namespace, groups)
		}
	}
	switch f.Format {
	case "json":
		return f.Success(pr)
	case "table":
		report.WritePerfTable(f.Writer, pr.Namespace, records)
		return nil
	default:
		return report.WritePerf(f.Writer, pr.Namespace, records)
	}
}

// NewStorageCommand creates the storage command.
func NewStorageCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "storage <perf.json>",
		Short: "Print the per-type storage breakdown of a perf report",
		Long: `List, for every profiled test, the storage types with a non-zero total
as "type (total alloc in-use)".

Example:
  mutest storage mu-perf.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pr, err := readPerfReport(args[0])
			if err != nil {
				return err
			}
			f := rootOpts.formatter(cmd)
			switch f.Format {
			case "json":
				return f.Success(pr.Results)
			case "table":
				report.WriteStorageTable(f.Writer, pr)
				return nil
			default:
				return report.WriteStorage(f.Writer, pr)
			}
		},
	}
}
