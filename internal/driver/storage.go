package driver

import (
	"context"
	"strconv"
	"strings"

	"github.com/roach88/mutest/internal/ir"
)

// storageGroupWidth is the number of fields per type: name, total, alloc, in-use.
const storageGroupWidth = 4

// Storage launches the storage probe around tc.Expression once and parses
// the printed record.
//
// A probe that fails (non-zero exit, timeout, output on stderr) or prints an
// unparseable record yields a result with Error set and no Storage.
func (d *Driver) Storage(ctx context.Context, tc ir.TestCase) (ir.ExecutionResult, error) {
	p, err := d.launch(ctx, tc, d.storage.Expand(tc.Expression))
	if err != nil {
		return ir.ExecutionResult{Case: tc}, err
	}
	r := p.result(tc, d.cfg.Timeout)
	if r.ExitStatus != 0 || r.Error != "" {
		return r, nil
	}

	rec, err := ParseStorageRecord(r.Observed)
	if err != nil {
		r.Error = err.Error()
		return r, nil
	}
	total := rec.Total()
	r.StorageRecord = &rec
	r.Storage = &total
	return r, nil
}

// ParseStorageRecord parses one line of storage probe output.
//
// The record is a header token followed by one group of four fields per
// storage type (name, total, alloc, in-use), closed by a trailing ")":
//
//	#s(:heap cons 48 3 3 fixnum 0 0 0 ...)
func ParseStorageRecord(s string) (ir.StorageRecord, error) {
	body := strings.TrimSuffix(strings.TrimSpace(s), ")")
	fields := strings.Fields(body)
	if len(fields) < 1+storageGroupWidth {
		return ir.StorageRecord{}, &RecordError{Raw: s, Reason: "too few fields"}
	}
	if (len(fields)-1)%storageGroupWidth != 0 {
		return ir.StorageRecord{}, &RecordError{Raw: s, Reason: "field count is not header plus groups of 4"}
	}

	entries := make([]ir.StorageEntry, 0, (len(fields)-1)/storageGroupWidth)
	for i := 1; i < len(fields); i += storageGroupWidth {
		var nums [3]int64
		for j := range nums {
			n, err := strconv.ParseInt(fields[i+1+j], 10, 64)
			if err != nil {
				return ir.StorageRecord{}, &RecordError{Raw: s, Reason: "non-integer count " + strconv.Quote(fields[i+1+j])}
			}
			nums[j] = n
		}
		entries = append(entries, ir.StorageEntry{
			Type:  fields[i],
			Total: nums[0],
			Alloc: nums[1],
			InUse: nums[2],
		})
	}
	return ir.StorageRecord{Entries: entries}, nil
}
