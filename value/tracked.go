package value

import "sync"

// Subscriber receives a level-notification: the subscribed variable
// changed value this tick. Comb processes and FF-edge processes register
// as subscribers; the scheduler interprets the notification differently
// for each.
type Subscriber interface {
	Notify()
}

// EdgeWaiter receives a one-shot wakeup when the edge it registered for
// occurs. A process blocked on `@(posedge x)` registers as an EdgeWaiter
// and is removed from the subscription list the instant it fires —
// TrackedValue.Assign clears each list after signalling it.
type EdgeWaiter interface {
	Signal()
}

// TrackedValue augments Value with edge detection and subscriber lists.
// A process appears at most once in any subscription list per
// triggering epoch. TrackEdge decides whether assignment computes
// ShouldTriggerPosedge/Negedge at all — it's set for variables
// referenced by an edge-sensitive process, and even then the flags are
// only computed when the assigned value is 1 bit wide.
type TrackedValue struct {
	mu sync.Mutex

	val Value

	TrackEdge            bool
	ShouldTriggerPosedge bool
	ShouldTriggerNegedge bool

	combSubscribers []Subscriber
	ffPosedge       []Subscriber
	ffNegedge       []Subscriber

	posedgeWaiters []EdgeWaiter
	negedgeWaiters []EdgeWaiter
	edgeWaiters    []EdgeWaiter
}

// NewTracked wraps an initial Value in a TrackedValue.
func NewTracked(v Value) *TrackedValue {
	return &TrackedValue{val: v}
}

// Get returns a snapshot of the current value.
func (t *TrackedValue) Get() Value {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.val
}

// PosEdge implements LRM Table 9-2: old matches 0 and new doesn't, OR old
// doesn't match 1 and new matches 1.
func PosEdge(old, new_ Value) bool {
	zero := FromUint64(0, 0, false, 0)
	one := FromUint64(0, 0, false, 1)
	return (old.Match(zero) && !new_.Match(zero)) || (!old.Match(one) && new_.Match(one))
}

// NegEdge is the symmetric counterpart of PosEdge.
func NegEdge(old, new_ Value) bool {
	zero := FromUint64(0, 0, false, 0)
	one := FromUint64(0, 0, false, 1)
	return (old.Match(one) && !new_.Match(one)) || (!old.Match(zero) && new_.Match(zero))
}

// SubscribeComb registers s to be notified whenever this variable
// changes value.
func (t *TrackedValue) SubscribeComb(s Subscriber) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.combSubscribers = append(t.combSubscribers, s)
}

// SubscribeFFPosedge registers s to be marked runnable on the next
// posedge (used for always_ff's should_trigger flag, distinct from the
// one-shot EdgeWaiter gate used by a bare `@(posedge x)` inside a body).
func (t *TrackedValue) SubscribeFFPosedge(s Subscriber) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.ffPosedge = append(t.ffPosedge, s)
}

// SubscribeFFNegedge is the negedge counterpart of SubscribeFFPosedge.
func (t *TrackedValue) SubscribeFFNegedge(s Subscriber) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.ffNegedge = append(t.ffNegedge, s)
}

// AddPosedgeWaiter registers a one-shot waiter, consumed the next time a
// posedge is observed.
func (t *TrackedValue) AddPosedgeWaiter(w EdgeWaiter) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.posedgeWaiters = append(t.posedgeWaiters, w)
}

// AddNegedgeWaiter is the negedge counterpart of AddPosedgeWaiter.
func (t *TrackedValue) AddNegedgeWaiter(w EdgeWaiter) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.negedgeWaiters = append(t.negedgeWaiters, w)
}

// AddEdgeWaiter registers a waiter for `@(var)`, level-sensitive: it
// wakes on any observed change to the variable (any width, not just a
// 1-bit 0/1 transition) — accepted for bare level waits even though
// BothEdges is rejected for always_ff.
func (t *TrackedValue) AddEdgeWaiter(w EdgeWaiter) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.edgeWaiters = append(t.edgeWaiters, w)
}

// Assign stores new_ if it differs from the current value under Match,
// updates the transient edge flags (1-bit variables only), and notifies
// subscribers. It reports whether the value actually changed, so callers
// can decide whether to mark the module's change-tracking bit.
func (t *TrackedValue) Assign(new_ Value) bool {
	t.mu.Lock()
	old := t.val
	if old.Match(new_) {
		t.mu.Unlock()
		return false
	}
	t.val = new_
	if t.TrackEdge && new_.Width() == 1 {
		t.ShouldTriggerPosedge = PosEdge(old, new_)
		t.ShouldTriggerNegedge = NegEdge(old, new_)
	} else {
		t.ShouldTriggerPosedge = false
		t.ShouldTriggerNegedge = false
	}
	comb := append([]Subscriber(nil), t.combSubscribers...)
	var ffPos, ffNeg []Subscriber
	var posW, negW []EdgeWaiter
	if t.ShouldTriggerPosedge {
		ffPos = append([]Subscriber(nil), t.ffPosedge...)
		posW = t.posedgeWaiters
		t.posedgeWaiters = nil
	}
	if t.ShouldTriggerNegedge {
		ffNeg = append([]Subscriber(nil), t.ffNegedge...)
		negW = t.negedgeWaiters
		t.negedgeWaiters = nil
	}
	// A bare `@(var)` wait is level-sensitive, not edge-specific: it must
	// wake on any observed change (any width, any value transition), not
	// only on the 1-bit 0/1 transitions ShouldTriggerPosedge/Negedge
	// detect. Drain edgeWaiters on every call that reaches here, since the
	// early return above already filters out the no-change case.
	edgeW := t.edgeWaiters
	t.edgeWaiters = nil
	t.mu.Unlock()

	for _, s := range comb {
		s.Notify()
	}
	for _, s := range ffPos {
		s.Notify()
	}
	for _, s := range ffNeg {
		s.Notify()
	}
	for _, w := range posW {
		w.Signal()
	}
	for _, w := range negW {
		w.Signal()
	}
	for _, w := range edgeW {
		w.Signal()
	}
	return true
}

// Reset clears the transient should_trigger flags at the end of the
// active/edge-triggering phase.
func (t *TrackedValue) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.ShouldTriggerPosedge = false
	t.ShouldTriggerNegedge = false
}
