package ledger

import "sync/atomic"

// SeqClock is the monotonic logical clock stamping commit order.
//
// All committed transactions carry a strictly increasing seq from this
// clock; wall-clock timestamps are never used for ordering, only for
// interest accrual.
//
// Thread-safety: safe for concurrent use (atomic operations), though the
// single-writer Finalize path means only one goroutine typically calls
// Next().
type SeqClock struct {
	seq atomic.Int64
}

// NewSeqClock creates a clock starting at 0; the first Next() returns 1.
func NewSeqClock() *SeqClock {
	return &SeqClock{}
}

// NewSeqClockAt creates a clock resuming from a known position, used
// when reopening an existing ledger so seq numbers continue where the
// log left off.
func NewSeqClockAt(start int64) *SeqClock {
	c := &SeqClock{}
	c.seq.Store(start)
	return c
}

// Next returns the next sequence number and increments the clock.
func (c *SeqClock) Next() int64 {
	return c.seq.Add(1)
}

// Current returns the current sequence number without incrementing.
func (c *SeqClock) Current() int64 {
	return c.seq.Load()
}
