package engine

import "sync/atomic"

// Guard is a single-flight latch for the ranking cycle. The scheduler and
// the manual refresh endpoint share one Guard, so at most one full cycle
// runs at a time.
type Guard struct {
	running atomic.Bool
}

// TryAcquire claims the latch. Returns false when a cycle already holds it.
func (g *Guard) TryAcquire() bool {
	return g.running.CompareAndSwap(false, true)
}

// Release frees the latch.
func (g *Guard) Release() {
	g.running.Store(false)
}

// Running reports whether a cycle currently holds the latch.
func (g *Guard) Running() bool {
	return g.running.Load()
}
