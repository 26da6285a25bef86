package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/mutest/internal/aggregate"
	"github.com/roach88/mutest/internal/ir"
	"github.com/roach88/mutest/internal/report"
	"github.com/roach88/mutest/internal/store"
)

// Operand prefixes naming stored runs instead of report files.
const (
	runPrefix    = "run:"
	latestPrefix = "latest:"
)

// CompareOptions holds flags for the compare command.
type CompareOptions struct {
	*RootOptions
	StoreOptions
	TimeHigh float64 // 0 means the configured threshold
	TimeLow  float64
	Strict   bool
}

// NewCompareCommand creates the compare command.
func NewCompareCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CompareOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "compare <baseline> <current>",
		Short: "Compare two perf runs and flag storage and time changes",
		Long: `Match the tests of two perf runs and flag every test whose storage
changed, or whose mean time ratio crosses the thresholds.

Each operand is one of:
  <file>         a report written by "mutest perf --report"
  run:<id>       a stored run
  latest:<ns>    the most recent stored perf run of a namespace

Baseline tests with zero storage or no time are reported as unmatched.

Exit codes:
  0 - Comparison completed (with --strict: nothing flagged)
  1 - --strict and at least one test was flagged
  2 - Command error (unreadable report, unknown run, etc.)

Examples:
  mutest compare base.json head.json
  mutest compare latest:mu head.json --db runs.db
  mutest compare run:0190c2a4-... run:0190c2b7-... --db runs.db --time-high 1.5`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompare(opts, args[0], args[1], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "SQLite database for run: and latest: operands")
	cmd.Flags().Float64Var(&opts.TimeHigh, "time-high", 0, "flag time ratios at or above this (default from config)")
	cmd.Flags().Float64Var(&opts.TimeLow, "time-low", 0, "flag time ratios at or below this (default from config)")
	cmd.Flags().BoolVar(&opts.Strict, "strict", false, "exit 1 when any test is flagged")

	return cmd
}

func runCompare(opts *CompareOptions, baselineRef, currentRef string, cmd *cobra.Command) error {
	cfg, err := opts.loadConfig()
	if err != nil {
		return err
	}

	th := cfg.Thresholds
	if opts.TimeHigh != 0 {
		th.TimeHigh = opts.TimeHigh
	}
	if opts.TimeLow != 0 {
		th.TimeLow = opts.TimeLow
	}
	if err := th.Validate(); err != nil {
		return WrapExitError(ExitCommandError, "invalid thresholds", err)
	}

	var st *store.Store
	if isStoreRef(baselineRef) || isStoreRef(currentRef) {
		st, err = opts.openStore(cfg)
		if err != nil {
			return err
		}
		if st == nil {
			return NewExitError(ExitCommandError, "run: and latest: operands need --db or store.path")
		}
		defer st.Close()
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	baseline, err := resolveRecords(ctx, st, baselineRef)
	if err != nil {
		return err
	}
	current, err := resolveRecords(ctx, st, currentRef)
	if err != nil {
		return err
	}

	d := aggregate.Delta(baseline, current, th)

	f := opts.formatter(cmd)
	switch f.Format {
	case "json":
		err = f.Success(d)
	case "table":
		report.WriteDeltaTable(f.Writer, d)
	default:
		err = report.WriteDelta(f.Writer, d)
	}
	if err != nil {
		return err
	}

	if n := len(d.Flagged()); opts.Strict && n > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d tests flagged", n))
	}
	return nil
}

func isStoreRef(ref string) bool {
	return strings.HasPrefix(ref, runPrefix) || strings.HasPrefix(ref, latestPrefix)
}

// resolveRecords loads the perf records named by a compare operand.
func resolveRecords(ctx context.Context, st *store.Store, ref string) ([]ir.PerfRecord, error) {
	var runID string
	switch {
	case strings.HasPrefix(ref, runPrefix):
		runID = strings.TrimPrefix(ref, runPrefix)
		if _, err := st.ReadRun(ctx, runID); err != nil {
			return nil, WrapExitError(ExitCommandError, "unknown run", err)
		}
	case strings.HasPrefix(ref, latestPrefix):
		run, err := st.LatestRun(ctx, strings.TrimPrefix(ref, latestPrefix), store.KindPerf)
		if err != nil {
			return nil, WrapExitError(ExitCommandError, "no stored perf run", err)
		}
		runID = run.ID
	default:
		pr, err := readPerfReport(ref)
		if err != nil {
			return nil, err
		}
		return pr.Records(), nil
	}

	records, err := st.ReadPerfRecords(ctx, runID)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to read run", err)
	}
	return records, nil
}
