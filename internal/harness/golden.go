package harness

import (
	"bytes"
	"context"
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/mutest/internal/driver"
	"github.com/roach88/mutest/internal/report"
	"github.com/roach88/mutest/internal/testsource"
)

// RunWithGolden runs a namespace and compares its structured report against
// testdata/golden/{name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// Returns the run result so callers can make further assertions.
func RunWithGolden(t *testing.T, name string, ns testsource.Namespace, d *driver.Driver, opts Options) (*Result, error) {
	t.Helper()

	res, err := RunNamespace(context.Background(), ns, d, opts)
	if err != nil {
		return res, err
	}
	if err := AssertGolden(t, name, res.Report); err != nil {
		return res, err
	}
	return res, nil
}

// AssertGolden encodes v as an indented JSON report and compares it
// against a golden file without re-running anything.
func AssertGolden(t *testing.T, name string, v any) error {
	t.Helper()

	var buf bytes.Buffer
	if err := report.Encode(&buf, v); err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, name, buf.Bytes())
	return nil
}
