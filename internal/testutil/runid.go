package testutil

import (
	"fmt"
	"sync"
)

// SequentialRunIDs returns predictable run IDs: "run-0001", "run-0002", ...
//
// This enables golden comparison of stored runs. Implements store.IDGenerator.
//
// Thread-safety: safe for concurrent use via internal mutex.
type SequentialRunIDs struct {
	mu sync.Mutex
	n  int
}

// Generate returns the next run ID.
func (g *SequentialRunIDs) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n++
	return fmt.Sprintf("run-%04d", g.n)
}
