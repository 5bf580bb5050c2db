package testutil

import (
	"fmt"
	"sync"

	"github.com/roach88/tally/internal/iou"
)

// SequenceLinearIDs mints predictable linear IDs ("iou-1", "iou-2", ...)
// so tests and golden traces are independent of UUID generation.
//
// Thread-safety: safe for concurrent use via internal mutex.
type SequenceLinearIDs struct {
	mu     sync.Mutex
	prefix string
	next   int
}

// NewSequenceLinearIDs creates a generator with the given prefix.
// An empty prefix defaults to "iou".
func NewSequenceLinearIDs(prefix string) *SequenceLinearIDs {
	if prefix == "" {
		prefix = "iou"
	}
	return &SequenceLinearIDs{prefix: prefix, next: 1}
}

// Generate returns the next ID in the sequence.
func (g *SequenceLinearIDs) Generate() iou.LinearID {
	g.mu.Lock()
	defer g.mu.Unlock()
	id := iou.LinearID(fmt.Sprintf("%s-%d", g.prefix, g.next))
	g.next++
	return id
}
