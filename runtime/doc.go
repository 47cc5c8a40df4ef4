// Package runtime implements the concurrent event-driven simulation
// runtime: a Scheduler that interleaves active/NBA regions, delay and
// edge-event time control, fork/join, $finish termination and the
// final-region pass, plus the per-instance Module that owns its
// combinational subgraph and drives it to a fixpoint. Suspension
// ("coroutine") semantics are layered as goroutines-per-process blocked on
// manual-reset gates over an embedded github.com/sarchlab/akita/v4
// sim.Engine, the same dependency github.com/sarchlab/zeonica's core
// package uses for its ticking components — here repurposed as the
// monotonic time base and event queue instead of a component tick loop.
package runtime
