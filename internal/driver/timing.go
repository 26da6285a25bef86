package driver

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/roach88/mutest/internal/aggregate"
	"github.com/roach88/mutest/internal/ir"
)

// Time launches the timing probe around tc.Expression n times, each in a
// fresh process, and averages the reported microseconds.
//
// A launch that exits non-zero, times out, or prints something other than an
// integer contributes no sample. When no sample is valid, Elapsed is nil and
// the result carries the last failure.
func (d *Driver) Time(ctx context.Context, tc ir.TestCase, n int) (ir.ExecutionResult, error) {
	if n < 1 {
		return ir.ExecutionResult{Case: tc}, fmt.Errorf("timing repeat must be at least 1, got %d", n)
	}

	expr := d.timing.Expand(tc.Expression)
	var (
		last    ir.ExecutionResult
		samples []int64
	)
	for i := range n {
		p, err := d.launch(ctx, tc, expr)
		if err != nil {
			return ir.ExecutionResult{Case: tc}, err
		}
		r := p.result(tc, d.cfg.Timeout)
		last = r
		if r.ExitStatus != 0 {
			continue
		}
		usecs, err := ParseTiming(r.Observed)
		if err != nil {
			d.logger.Debug("discarding timing sample",
				"case", tc.Label(),
				"line", tc.SourceLine,
				"run", i+1,
				"error", err)
			continue
		}
		samples = append(samples, usecs)
	}

	out := ir.ExecutionResult{
		Case:    tc,
		Samples: samples,
		Wall:    last.Wall,
	}
	if mean, ok := aggregate.Mean(samples); ok {
		out.Elapsed = &mean
		return out, nil
	}
	out.Observed = last.Observed
	out.Error = last.Error
	out.ExitStatus = last.ExitStatus
	return out, nil
}

// ParseTiming parses timing probe output as integer microseconds.
func ParseTiming(s string) (int64, error) {
	usecs, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("timing sample %q: %w", s, err)
	}
	if usecs < 0 {
		return 0, fmt.Errorf("timing sample %q: negative", s)
	}
	return usecs, nil
}
