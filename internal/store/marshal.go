package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/roach88/mutest/internal/ir"
)

// marshalSamples converts timing samples to canonical JSON TEXT.
func marshalSamples(samples []int64) (string, error) {
	items := make([]any, len(samples))
	for i, s := range samples {
		items[i] = s
	}
	data, err := ir.MarshalCanonical(items)
	if err != nil {
		return "", fmt.Errorf("marshal samples: %w", err)
	}
	return string(data), nil
}

// unmarshalSamples parses a JSON array of integer samples.
func unmarshalSamples(data string) ([]int64, error) {
	if data == "" || data == "[]" {
		return nil, nil
	}
	var samples []int64
	if err := json.Unmarshal([]byte(data), &samples); err != nil {
		return nil, fmt.Errorf("unmarshal samples: %w", err)
	}
	return samples, nil
}

// marshalStorageRecord converts a storage record to canonical JSON TEXT.
// A nil record is stored as NULL.
func marshalStorageRecord(rec *ir.StorageRecord) (sql.NullString, error) {
	if rec == nil {
		return sql.NullString{}, nil
	}
	entries := make([]any, len(rec.Entries))
	for i, e := range rec.Entries {
		entries[i] = map[string]any{
			"type":   e.Type,
			"total":  e.Total,
			"alloc":  e.Alloc,
			"in_use": e.InUse,
		}
	}
	data, err := ir.MarshalCanonical(map[string]any{"entries": entries})
	if err != nil {
		return sql.NullString{}, fmt.Errorf("marshal storage record: %w", err)
	}
	return sql.NullString{String: string(data), Valid: true}, nil
}

// unmarshalStorageRecord parses a stored storage record.
func unmarshalStorageRecord(data sql.NullString) (*ir.StorageRecord, error) {
	if !data.Valid {
		return nil, nil
	}
	var rec ir.StorageRecord
	if err := json.Unmarshal([]byte(data.String), &rec); err != nil {
		return nil, fmt.Errorf("unmarshal storage record: %w", err)
	}
	return &rec, nil
}

func nullInt64(p *int64) sql.NullInt64 {
	if p == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *p, Valid: true}
}

func nullDuration(p *time.Duration) sql.NullInt64 {
	if p == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*p), Valid: true}
}

func int64Ptr(n sql.NullInt64) *int64 {
	if !n.Valid {
		return nil
	}
	v := n.Int64
	return &v
}

func durationPtr(n sql.NullInt64) *time.Duration {
	if !n.Valid {
		return nil
	}
	d := time.Duration(n.Int64)
	return &d
}
