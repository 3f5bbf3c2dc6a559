// ABOUTME: Global cap on concurrently running agent loops
// ABOUTME: One loop per conversation; a fixed number of slots, acquired cooperatively

package schedule

import "context"

// DefaultMaxConcurrentLoops is the default global cap on agent loops
// running at once, one per conversation, per spec.
const DefaultMaxConcurrentLoops = 3

// LoopLimiter bounds how many agent loops may run concurrently across all
// conversations. Per-phase tool parallelism (errgroup, in internal/agent)
// is unaffected: this only gates whole-loop entry, not what happens inside
// one loop's own phases.
type LoopLimiter struct {
	slots chan struct{}
}

// NewLoopLimiter creates a limiter with the given number of concurrent-loop
// slots. A non-positive max is treated as DefaultMaxConcurrentLoops.
func NewLoopLimiter(max int) *LoopLimiter {
	if max <= 0 {
		max = DefaultMaxConcurrentLoops
	}
	return &LoopLimiter{slots: make(chan struct{}, max)}
}

// Acquire blocks until a loop slot is free or ctx is cancelled. On success
// it returns a release function that must be called exactly once to free
// the slot.
func (l *LoopLimiter) Acquire(ctx context.Context) (release func(), err error) {
	select {
	case l.slots <- struct{}{}:
		return func() { <-l.slots }, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// InUse reports how many slots are currently held, for diagnostics.
func (l *LoopLimiter) InUse() int {
	return len(l.slots)
}

// Capacity reports the total number of slots.
func (l *LoopLimiter) Capacity() int {
	return cap(l.slots)
}
