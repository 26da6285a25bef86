package aggregate

import (
	"fmt"
	"time"

	"github.com/roach88/mutest/internal/ir"
)

// Thresholds bound the current/baseline time ratio considered unchanged.
type Thresholds struct {
	TimeHigh float64 `json:"time_high" yaml:"time_high" toml:"time_high"`
	TimeLow  float64 `json:"time_low" yaml:"time_low" toml:"time_low"`
}

// DefaultThresholds flags a 20% change in either direction.
func DefaultThresholds() Thresholds {
	return Thresholds{TimeHigh: 1.20, TimeLow: 0.80}
}

// Validate checks that TimeLow is positive and below TimeHigh.
func (th Thresholds) Validate() error {
	if th.TimeLow <= 0 {
		return fmt.Errorf("time_low must be positive, got %v", th.TimeLow)
	}
	if th.TimeHigh <= th.TimeLow {
		return fmt.Errorf("time_high (%v) must exceed time_low (%v)", th.TimeHigh, th.TimeLow)
	}
	return nil
}

// TimeFlagged reports whether ratio falls outside the thresholds.
func (th Thresholds) TimeFlagged(ratio float64) bool {
	return ratio >= th.TimeHigh || ratio <= th.TimeLow
}

// DeltaEntry compares one test between a baseline and a current run.
type DeltaEntry struct {
	Baseline ir.PerfRecord `json:"baseline"`
	Current  ir.PerfRecord `json:"current"`

	// Nth is the 1-based position of this entry among consecutive entries
	// with the same name.
	Nth int `json:"nth"`

	StorageDelta int64         `json:"storage_delta"`
	StorageRatio float64       `json:"storage_ratio"`
	TimeDelta    time.Duration `json:"time_delta_ns"`
	TimeRatio    float64       `json:"time_ratio"`

	StorageFlag bool `json:"storage_flag"`
	TimeFlag    bool `json:"time_flag"`
}

// Flagged reports whether either measurement changed.
func (e DeltaEntry) Flagged() bool {
	return e.StorageFlag || e.TimeFlag
}

// DeltaReport is the result of comparing two performance runs.
type DeltaReport struct {
	// Entries holds every matched, comparable test in baseline order.
	Entries []DeltaEntry `json:"entries"`

	// Unmatched holds baseline records with zero storage or zero time,
	// which cannot be compared by ratio.
	Unmatched []ir.PerfRecord `json:"unmatched,omitempty"`

	// Missing holds baseline records with no current counterpart.
	Missing []ir.PerfRecord `json:"missing,omitempty"`

	// Added holds current records with no baseline counterpart.
	Added []ir.PerfRecord `json:"added,omitempty"`

	Tests        int           `json:"tests"`
	SizeChanged  int           `json:"size_changed"`
	TimeChanged  int           `json:"time_changed"`
	StorageDelta int64         `json:"storage_delta"`
	TimeDelta    time.Duration `json:"time_delta_ns"`
}

// Flagged returns the entries with a storage or time change.
func (d DeltaReport) Flagged() []DeltaEntry {
	var out []DeltaEntry
	for _, e := range d.Entries {
		if e.Flagged() {
			out = append(out, e)
		}
	}
	return out
}

// Delta compares current against baseline, matching records by Key.
//
// Storage is flagged on any change. Time is flagged when current/baseline is
// at or beyond either threshold; a current record without timing is flagged
// with ratio 0 and contributes no time delta.
func Delta(baseline, current []ir.PerfRecord, th Thresholds) DeltaReport {
	byKey := make(map[string]ir.PerfRecord, len(current))
	for _, rec := range current {
		byKey[rec.Key] = rec
	}
	seen := make(map[string]bool, len(baseline))

	var (
		out      DeltaReport
		lastName string
		nth      int
	)
	for _, base := range baseline {
		seen[base.Key] = true
		cur, ok := byKey[base.Key]
		if !ok {
			out.Missing = append(out.Missing, base)
			continue
		}
		out.Tests++
		if base.Storage == 0 || !base.Timed || base.Time == 0 {
			out.Unmatched = append(out.Unmatched, base)
			continue
		}

		e := DeltaEntry{
			Baseline:     base,
			Current:      cur,
			StorageDelta: cur.Storage - base.Storage,
			StorageRatio: float64(cur.Storage) / float64(base.Storage),
		}
		// an untimed current has no time to subtract; it is flagged, not summed
		if cur.Timed {
			e.TimeDelta = cur.Time - base.Time
			e.TimeRatio = float64(cur.Time) / float64(base.Time)
		}
		e.StorageFlag = cur.Storage != base.Storage
		e.TimeFlag = !cur.Timed || th.TimeFlagged(e.TimeRatio)

		if base.Name == lastName {
			nth++
		} else {
			nth = 1
			lastName = base.Name
		}
		e.Nth = nth

		if e.StorageFlag {
			out.SizeChanged++
		}
		if e.TimeFlag {
			out.TimeChanged++
		}
		out.StorageDelta += e.StorageDelta
		out.TimeDelta += e.TimeDelta
		out.Entries = append(out.Entries, e)
	}

	for _, rec := range current {
		if !seen[rec.Key] {
			out.Added = append(out.Added, rec)
		}
	}
	return out
}
