package runtime

import "sync"

// gate is a manual-reset suspension point: a process blocks in Wait
// until the scheduler (or whatever owns the gate) calls Signal exactly
// once. gate implements value.EdgeWaiter, so the same type serves as a
// #delay wakeup, an @(edge) one-shot waiter and a fork/join wakeup —
// every suspension point a process can reach reduces to "await a gate".
type gate struct {
	once sync.Once
	ch   chan struct{}
}

func newGate() *gate {
	return &gate{ch: make(chan struct{})}
}

// Signal wakes whatever is blocked in Wait. Safe to call more than once
// or concurrently; only the first call has an effect.
func (g *gate) Signal() {
	g.once.Do(func() { close(g.ch) })
}

// Wait blocks until Signal has been called.
func (g *gate) Wait() {
	<-g.ch
}
