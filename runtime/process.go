package runtime

import (
	"sync"
	"sync/atomic"

	"github.com/veridian-silicon/xsim/design"
	"github.com/veridian-silicon/xsim/ir"
)

// procKind tags a runtime process the way ir.Process models its own
// variants: one flat tagged-variant struct with a uniform entry point,
// rather than a class hierarchy per process kind.
type procKind int

const (
	kindInit procKind = iota
	kindFinal
	kindComb
	kindFF
	kindFork
	kindGeneralPurpose
)

func (k procKind) String() string {
	switch k {
	case kindInit:
		return "initial"
	case kindFinal:
		return "final"
	case kindComb:
		return "comb"
	case kindFF:
		return "ff"
	case kindFork:
		return "fork"
	case kindGeneralPurpose:
		return "general_purpose"
	default:
		return "unknown"
	}
}

// process is the runtime instantiation of an ir.Process/CombProcess/
// FFProcess: a single entry point the scheduler invokes on its own
// goroutine, which may suspend at a delay, edge-wait or join point by
// blocking on a gate. The fields from cond through doneCh are guarded by
// mu; pendingComb is atomic, and the rest are set at construction.
type process struct {
	id    uint64
	kind  procKind
	mod   *Module
	sched *Scheduler

	body []design.Statement
	ff   *ir.FFProcess
	comb *ir.CombProcess

	// nativeFn, when set, replaces body-interpretation entirely — used
	// for the synthesized port-connection comb process, whose
	// dual-scope (parent/child) variable resolution doesn't fit the
	// single-module interpreter (see Module.wirePortDriver).
	nativeFn func()

	mu       sync.Mutex
	cond     *sync.Cond // broadcasts on cond whenever gen advances
	running  bool
	finished bool
	curGate  *gate // the gate this process is presently blocked on, if any
	gen      uint64 // bumped every time the process reaches a new suspension or completes

	pendingComb atomic.Bool // set by Notify; drives Module/Scheduler comb settling
	doneCh      chan struct{}
}

// Notify implements value.Subscriber for comb processes: any watched
// variable changing marks this process pending, picked up by the next
// settleComb pass. Per the subscription-list invariant, the process is
// subscribed exactly once per watched variable for the process's whole
// lifetime, so repeated Notify calls are naturally idempotent here.
func (p *process) Notify() {
	p.pendingComb.Store(true)
}

func (p *process) isRunning() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.running
}

func (p *process) isFinished() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.finished
}

// snapshotGen returns the process's current activation generation, bumped
// once every time it reaches a new suspension point or finishes. Callers
// that need to wait for "the next activation past this instant" (not
// whichever activation happens to be current when they get around to
// checking) snapshot before triggering a wakeup and wait past that
// snapshot afterwards, which is race-free by construction: the process
// cannot advance its generation until after it has been signaled.
func (p *process) snapshotGen() uint64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.gen
}

// waitPastGen blocks until the process's generation has advanced past g
// or the process has finished.
func (p *process) waitPastGen(g uint64) {
	p.mu.Lock()
	for p.gen <= g && !p.finished {
		p.cond.Wait()
	}
	p.mu.Unlock()
}

// waitStep blocks until the process is not presently mid-activation: used
// by the broad stabilization sweep over every live process. Callers that
// need to wait for one specific process's NEXT suspension past a wakeup
// they themselves triggered should use snapshotGen/waitPastGen instead,
// which is race-free against that wakeup; this method is a best-effort
// sweep across processes the caller isn't directly driving.
func (p *process) waitStep() {
	p.mu.Lock()
	for p.running && !p.finished {
		p.cond.Wait()
	}
	p.mu.Unlock()
}

// start launches the process's goroutine for the first time.
func (p *process) start(run func()) {
	p.mu.Lock()
	p.running = true
	p.finished = false
	if p.cond == nil {
		p.cond = sync.NewCond(&p.mu)
	}
	p.doneCh = make(chan struct{})
	p.mu.Unlock()
	go run()
}

// suspend is called from inside a running process's goroutine at every
// delay/edge/join point: it marks the process not-running, bumps its
// generation and wakes anything waiting on it, blocks on wait, then
// re-arms for the next activation.
func (p *process) suspend(g *gate, wait func()) {
	p.mu.Lock()
	p.running = false
	p.curGate = g
	p.gen++
	p.cond.Broadcast()
	p.mu.Unlock()

	wait()

	p.mu.Lock()
	p.running = true
	p.curGate = nil
	p.mu.Unlock()
}

// finishStep marks the process fully finished (its body ran to
// completion) and wakes anything waiting on its generation.
func (p *process) finishStep() {
	p.mu.Lock()
	p.running = false
	p.finished = true
	p.curGate = nil
	p.gen++
	dc := p.doneCh
	p.cond.Broadcast()
	p.mu.Unlock()
	if dc != nil {
		close(dc)
	}
}

// forceWake is called by Scheduler.finish to unwind every still-blocked
// process: it signals whatever gate the process is presently waiting
// on, if any, so its worker goroutine observes the finish latch and
// drops out cooperatively instead of being killed.
func (p *process) forceWake() {
	p.mu.Lock()
	g := p.curGate
	p.mu.Unlock()
	if g != nil {
		g.Signal()
	}
}
