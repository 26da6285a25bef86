package ir

// StorageEntry is one per-type line of a storage probe record.
type StorageEntry struct {
	Type  string `json:"type"`
	Total int64  `json:"total"`
	Alloc int64  `json:"alloc"`
	InUse int64  `json:"in_use"`
}

// StorageRecord is the parsed output of the storage-delta probe.
type StorageRecord struct {
	Entries []StorageEntry `json:"entries"`
}

// Total returns the sum of per-type totals.
func (r StorageRecord) Total() int64 {
	var total int64
	for _, e := range r.Entries {
		total += e.Total
	}
	return total
}

// NonZero returns the entries whose total is not zero, in record order.
func (r StorageRecord) NonZero() []StorageEntry {
	out := make([]StorageEntry, 0, len(r.Entries))
	for _, e := range r.Entries {
		if e.Total != 0 {
			out = append(out, e)
		}
	}
	return out
}
