package testutil

import (
	"sync"

	"github.com/google/uuid"
)

// SequentialReloadIDs generates reload ids from a counter:
// 00000000-0000-0000-0000-000000000001, ...02 and so on.
//
// This enables deterministic test execution and golden snapshot comparison.
// The same scenario run against a fresh generator sees the same ids.
//
// Thread-safety: All methods are safe for concurrent use via internal mutex.
type SequentialReloadIDs struct {
	mu  sync.Mutex
	seq uint64
}

// NewSequentialReloadIDs creates a generator whose first id ends in 1.
func NewSequentialReloadIDs() *SequentialReloadIDs {
	return &SequentialReloadIDs{}
}

// Generate returns the next id.
//
// Implements registry.ReloadIDGenerator.
func (g *SequentialReloadIDs) Generate() uuid.UUID {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.seq++

	var id uuid.UUID
	for i := 0; i < 8; i++ {
		id[15-i] = byte(g.seq >> (8 * i))
	}
	return id
}

// Reset restarts the sequence. After Reset, the next id ends in 1.
func (g *SequentialReloadIDs) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.seq = 0
}
