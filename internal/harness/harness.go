package harness

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"

	"github.com/roach88/mutest/internal/aggregate"
	"github.com/roach88/mutest/internal/driver"
	"github.com/roach88/mutest/internal/ir"
	"github.com/roach88/mutest/internal/report"
	"github.com/roach88/mutest/internal/store"
	"github.com/roach88/mutest/internal/testsource"
)

// RunNamespace evaluates every test case of ns with d.
//
// Execution flow:
//  1. Read the group listing and apply the group filter
//  2. Load each group, recording malformed lines inline
//  3. Execute each valid case in its own runtime process
//  4. Fold results into per-group summaries
//  5. Persist the run when a store is configured
//
// On a launch failure or cancellation the partial result is returned with
// the error.
func RunNamespace(ctx context.Context, ns testsource.Namespace, d *driver.Driver, opts Options) (*Result, error) {
	logger := loggerOf(opts)
	groups, err := selectGroups(ns, opts.Groups)
	if err != nil {
		return nil, err
	}

	res := &Result{Report: report.NewNamespaceReport(ns.Name)}
	finish := func() {
		res.Summaries = aggregate.Flat(slices.Values(res.Results), aggregate.ByLabel)
	}

	for _, group := range groups {
		logger.Debug("running group", "namespace", ns.Name, "group", group)
		for tc, err := range ns.Load(group) {
			if err != nil {
				var me *testsource.MalformedTestCase
				if errors.As(err, &me) {
					logger.Warn("malformed test case", "test", position(me.Namespace, me.Group, me.Line), "fields", me.Fields)
					res.Report.AddMalformed(me)
					continue
				}
				finish()
				return res, fmt.Errorf("load %s/%s: %w", ns.Name, group, err)
			}

			r, err := d.Execute(ctx, tc)
			if err != nil {
				finish()
				return res, fmt.Errorf("execute %s: %w", position(tc.Namespace, tc.Group, tc.SourceLine), err)
			}
			if r.Outcome() == ir.OutcomeAborted {
				logException(logger, r)
			}
			opts.Metrics.Observe(r)
			res.Report.Add(r)
			res.Results = append(res.Results, r)
		}
	}
	finish()

	if opts.Store != nil {
		run, err := persist(ctx, opts.Store, ns.Name, store.KindTest, opts.Label, res.Results)
		if err != nil {
			return res, err
		}
		res.Run = run
	}

	logger.Info("namespace complete",
		"namespace", ns.Name,
		"tests", len(res.Results),
		"malformed", res.Report.MalformedCount())
	return res, nil
}

// RunPerf measures every expression of ns: one storage probe, then the
// timing probe repeated `repeat` times.
//
// A storage probe failure is recorded on the row and timing still runs.
func RunPerf(ctx context.Context, ns testsource.Namespace, d *driver.Driver, repeat int, opts Options) (*PerfResult, error) {
	if repeat < 1 {
		return nil, fmt.Errorf("perf repeat must be at least 1, got %d", repeat)
	}
	logger := loggerOf(opts)
	groups, err := selectGroups(ns, opts.Groups)
	if err != nil {
		return nil, err
	}

	res := &PerfResult{Report: report.NewPerfReport(ns.Name)}
	finish := func() {
		res.Records = aggregate.Records(slices.Values(res.Results))
	}

	for _, group := range groups {
		logger.Debug("profiling group", "namespace", ns.Name, "group", group)
		for tc, err := range ns.LoadExpressions(group) {
			if err != nil {
				finish()
				return res, fmt.Errorf("load %s/%s: %w", ns.Name, group, err)
			}

			r, err := measure(ctx, d, tc, repeat)
			if err != nil {
				finish()
				return res, fmt.Errorf("profile %s: %w", position(tc.Namespace, tc.Group, tc.SourceLine), err)
			}
			if r.Error != "" || r.ExitStatus != 0 {
				logException(logger, r)
			}
			opts.Metrics.ObservePerf(r)
			res.Report.Add(r)
			res.Results = append(res.Results, r)
		}
	}
	finish()

	if opts.Store != nil {
		run, err := persist(ctx, opts.Store, ns.Name, store.KindPerf, opts.Label, res.Results)
		if err != nil {
			return res, err
		}
		res.Run = run
	}

	logger.Info("perf complete", "namespace", ns.Name, "expressions", len(res.Results))
	return res, nil
}

// measure merges one storage probe and one timing series into a result.
func measure(ctx context.Context, d *driver.Driver, tc ir.TestCase, repeat int) (ir.ExecutionResult, error) {
	r, err := d.Storage(ctx, tc)
	if err != nil {
		return r, err
	}
	timed, err := d.Time(ctx, tc, repeat)
	if err != nil {
		return r, err
	}

	r.Elapsed = timed.Elapsed
	r.Samples = timed.Samples
	if r.Error == "" && r.ExitStatus == 0 && timed.Elapsed == nil {
		r.Error = timed.Error
		r.ExitStatus = timed.ExitStatus
	}
	// the probe output is a record, not a value
	r.Observed = ""
	return r, nil
}

// selectGroups returns the namespace's groups, restricted to filter when it
// is non-empty. Every filtered name must appear in the listing.
func selectGroups(ns testsource.Namespace, filter []string) ([]string, error) {
	groups, err := ns.Groups()
	if err != nil {
		return nil, fmt.Errorf("namespace %s: %w", ns.Name, err)
	}
	if len(filter) == 0 {
		return groups, nil
	}
	for _, g := range filter {
		if !slices.Contains(groups, g) {
			return nil, fmt.Errorf("namespace %s: group %q is not in %s", ns.Name, g, testsource.GroupListing)
		}
	}
	return slices.DeleteFunc(groups, func(g string) bool {
		return !slices.Contains(filter, g)
	}), nil
}

func persist(ctx context.Context, st *store.Store, namespace string, kind store.RunKind, label string, results []ir.ExecutionResult) (*store.Run, error) {
	run, err := st.CreateRun(ctx, namespace, kind, label)
	if err != nil {
		return nil, fmt.Errorf("store run: %w", err)
	}
	if err := st.WriteResults(ctx, run.ID, results); err != nil {
		return nil, fmt.Errorf("store run %s: %w", run.ID, err)
	}
	return &run, nil
}

func logException(logger *slog.Logger, r ir.ExecutionResult) {
	logger.Warn("exception",
		"test", position(r.Case.Namespace, r.Case.Group, r.Case.SourceLine),
		"exit", r.ExitStatus,
		"error", r.Error)
}

func position(namespace, group string, line int) string {
	return fmt.Sprintf("%s/%s:%d", namespace, group, line)
}

func loggerOf(opts Options) *slog.Logger {
	if opts.Logger != nil {
		return opts.Logger
	}
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
