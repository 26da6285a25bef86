package cli

import (
	"fmt"
	"os"

	"github.com/roach88/mutest/internal/config"
	"github.com/roach88/mutest/internal/report"
	"github.com/roach88/mutest/internal/store"
)

// StoreOptions holds the flags shared by commands that touch the run store.
type StoreOptions struct {
	Database string
}

// path returns the store path: the --db flag, else the configured path.
func (o StoreOptions) path(cfg config.Config) string {
	if o.Database != "" {
		return o.Database
	}
	return cfg.Store.Path
}

// openStore opens the run store, or returns nil when none is configured.
func (o StoreOptions) openStore(cfg config.Config) (*store.Store, error) {
	path := o.path(cfg)
	if path == "" {
		return nil, nil
	}
	st, err := store.Open(path)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to open database", err)
	}
	return st, nil
}

// writeReportFile writes v as a structured JSON report to path.
func writeReportFile(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to create report file", err)
	}
	if err := report.Encode(f, v); err != nil {
		f.Close()
		return WrapExitError(ExitCommandError, "failed to write report file", err)
	}
	if err := f.Close(); err != nil {
		return WrapExitError(ExitCommandError, "failed to write report file", err)
	}
	return nil
}

// readNamespaceReport decodes the structured test report at path.
func readNamespaceReport(path string) (report.NamespaceReport, error) {
	f, err := os.Open(path)
	if err != nil {
		return report.NamespaceReport{}, WrapExitError(ExitCommandError, fmt.Sprintf("report not found: %s", path), err)
	}
	defer f.Close()
	nr, err := report.DecodeNamespace(f)
	if err != nil {
		return report.NamespaceReport{}, WrapExitError(ExitCommandError, "invalid test report", err)
	}
	return nr, nil
}

// readPerfReport decodes the structured perf report at path.
func readPerfReport(path string) (report.PerfReport, error) {
	f, err := os.Open(path)
	if err != nil {
		return report.PerfReport{}, WrapExitError(ExitCommandError, fmt.Sprintf("report not found: %s", path), err)
	}
	defer f.Close()
	pr, err := report.DecodePerf(f)
	if err != nil {
		return report.PerfReport{}, WrapExitError(ExitCommandError, "invalid perf report", err)
	}
	return pr, nil
}
