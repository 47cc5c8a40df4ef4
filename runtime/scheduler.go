package runtime

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/sarchlab/akita/v4/sim"

	"github.com/veridian-silicon/xsim/design"
)

// joinKind names the wait-join discipline a fork/join statement uses.
type joinKind int

const (
	joinKindAll joinKind = iota
	joinKindAny
	joinKindNone
)

// scheduledJoin is one outstanding fork/join: the set of child processes
// being waited on, the discipline, and the gate to signal once satisfied.
type scheduledJoin struct {
	processes []*process
	kind      joinKind
	wake      *gate
}

// Scheduler is the simulation runtime's event-driven core: it owns the
// embedded akita engine that supplies the monotonic time base and event
// queue, the flat comb-process worklist that replaces a recursive
// per-module fixpoint with one scheduler-wide pass, the deferred
// nonblocking-assignment queue, and the cooperative $finish latch.
//
// The active/NBA region interleaving below follows the reference
// standard's scheduling algorithm literally: settle every pending
// combinational process to a fixpoint, flush the nonblocking queue, and
// repeat until neither produces further change; among processes woken at
// the same simulated time, order is deliberately left to goroutine
// scheduling, matching the standard's "order is unspecified" rule for
// same-time wakeups.
type Scheduler struct {
	*Hooks

	engine sim.Engine
	display *displayState

	top *Module

	nextID uint64

	procsMu  sync.Mutex
	allProcs []*process

	combMu  sync.Mutex
	allComb []*process

	finalMu    sync.Mutex
	finalOrder []*process

	nbaMu    sync.Mutex
	nbaQueue []func()

	joinsMu sync.Mutex
	joins   []*scheduledJoin

	finishOnce sync.Once
	finished   atomic.Bool
	finishCode int
}

// NewScheduler creates a Scheduler over a fresh serial akita engine, the
// same engine constructor github.com/sarchlab/zeonica's sample driver
// uses to obtain its simulated time base.
func NewScheduler() *Scheduler {
	return &Scheduler{
		Hooks:   newHooks(),
		engine:  sim.NewSerialEngine(),
		display: newDisplayState(),
	}
}

func (s *Scheduler) newProcessID() uint64 {
	return atomic.AddUint64(&s.nextID, 1)
}

func (s *Scheduler) registerProcess(p *process) {
	s.procsMu.Lock()
	s.allProcs = append(s.allProcs, p)
	s.procsMu.Unlock()
}

func (s *Scheduler) registerComb(p *process) {
	s.registerProcess(p)
	s.combMu.Lock()
	s.allComb = append(s.allComb, p)
	s.combMu.Unlock()
}

func (s *Scheduler) registerFinal(p *process) {
	s.registerProcess(p)
	s.finalMu.Lock()
	s.finalOrder = append(s.finalOrder, p)
	s.finalMu.Unlock()
}

func (s *Scheduler) isFinished() bool {
	return s.finished.Load()
}

// scheduleNBA defers fn (an assignTo closure capturing its already-
// evaluated rhs) to the next NBA-region flush.
func (s *Scheduler) scheduleNBA(fn func()) {
	s.nbaMu.Lock()
	s.nbaQueue = append(s.nbaQueue, fn)
	s.nbaMu.Unlock()
}

func (s *Scheduler) flushNBA() bool {
	s.nbaMu.Lock()
	q := s.nbaQueue
	s.nbaQueue = nil
	s.nbaMu.Unlock()
	if len(q) == 0 {
		return false
	}
	for _, fn := range q {
		fn()
	}
	s.fire(HookPosNBAFlush, s, len(q))
	return true
}

// settleComb drives every pending combinational/port-driver process to a
// fixpoint, re-scanning the whole worklist after each pass since a write
// from one process can mark another pending. Returns whether anything
// ran, so stabilize knows whether another active/NBA round is needed.
func (s *Scheduler) settleComb() bool {
	ran := false
	for {
		s.combMu.Lock()
		procs := append([]*process(nil), s.allComb...)
		s.combMu.Unlock()

		progressed := false
		for _, p := range procs {
			if !p.pendingComb.CompareAndSwap(true, false) {
				continue
			}
			s.runCombBody(p)
			progressed = true
			ran = true
		}
		if !progressed {
			return ran
		}
	}
}

func (s *Scheduler) runCombBody(p *process) {
	if p.nativeFn != nil {
		p.nativeFn()
		return
	}
	ctx := &execCtx{sched: s, mod: p.mod, proc: p}
	ctx.exec(p.comb.Body)
}

// waitAllSteps blocks until every live process's current activation has
// reached its next suspension point or completed, the goroutine
// counterpart of "iterate waiting on each process's gate" in the active
// region's stabilization rule.
func (s *Scheduler) waitAllSteps() {
	s.procsMu.Lock()
	procs := append([]*process(nil), s.allProcs...)
	s.procsMu.Unlock()
	for _, p := range procs {
		p.waitStep()
	}
}

// stabilize runs the active/NBA region to a fixpoint: let every process
// reach its next suspension, settle combinational processes, flush
// deferred nonblocking writes, and repeat until a full round makes no
// further change.
func (s *Scheduler) stabilize() {
	for {
		s.waitAllSteps()
		combRan := s.settleComb()
		nbaRan := s.flushNBA()
		if !combRan && !nbaRan {
			return
		}
	}
}

// registerJoin arms a fork/join wait: a helper goroutine blocks on the
// child processes' completion channels per the join discipline, then
// signals wake, which the forking process's own goroutine is suspended
// on via execCtx.fork.
func (s *Scheduler) registerJoin(j *scheduledJoin) {
	s.joinsMu.Lock()
	s.joins = append(s.joins, j)
	s.joinsMu.Unlock()

	switch j.kind {
	case joinKindAll:
		go func() {
			for _, p := range j.processes {
				<-p.doneCh
			}
			j.wake.Signal()
		}()
	case joinKindAny:
		go func() {
			first := make(chan struct{}, len(j.processes))
			for _, p := range j.processes {
				pp := p
				go func() {
					<-pp.doneCh
					select {
					case first <- struct{}{}:
					default:
					}
				}()
			}
			<-first
			j.wake.Signal()
		}()
	}
}

// createFork launches one fork/join branch as its own process, scoped to
// the forking statement's enclosing module.
func (s *Scheduler) createFork(mod *Module, body []design.Statement) *process {
	p := &process{id: s.newProcessID(), kind: kindFork, mod: mod, sched: s, body: body}
	s.registerProcess(p)
	ctx := &execCtx{sched: s, mod: mod, proc: p}
	p.start(func() {
		ctx.exec(body)
		p.finishStep()
	})
	return p
}

func (s *Scheduler) spawnInit(p *process) {
	ctx := &execCtx{sched: s, mod: p.mod, proc: p}
	p.start(func() {
		ctx.exec(p.body)
		p.finishStep()
	})
}

func (s *Scheduler) spawnFF(p *process) {
	ctx := &execCtx{sched: s, mod: p.mod, proc: p}
	p.start(func() {
		for {
			if s.isFinished() {
				p.finishStep()
				return
			}
			g := newGate()
			for _, e := range p.ff.Edges {
				tv := p.mod.trackedVar(e.Var)
				if e.Edge == design.PosEdge {
					tv.AddPosedgeWaiter(g)
				} else {
					tv.AddNegedgeWaiter(g)
				}
			}
			p.suspend(g, g.Wait)
			s.fire(HookPosEdgeTrigger, s, p)
			if s.isFinished() {
				p.finishStep()
				return
			}
			ctx.exec(p.ff.Body)
		}
	})
}

func (s *Scheduler) spawnGeneralPurpose(p *process) {
	ctx := &execCtx{sched: s, mod: p.mod, proc: p}
	p.start(func() {
		for !s.isFinished() {
			ctx.exec(p.comb.Body)
		}
		p.finishStep()
	})
}

// launch starts every goroutine-backed process in m and its children.
// Comb/port-driver processes need no goroutine: they run inline from
// settleComb.
func (s *Scheduler) launch(m *Module) {
	for _, p := range m.initProcs {
		s.spawnInit(p)
	}
	for _, p := range m.ffProcs {
		s.spawnFF(p)
	}
	for _, p := range m.generalProcs {
		s.spawnGeneralPurpose(p)
	}
	for _, child := range m.Children {
		s.launch(child)
	}
}

// Run drives the whole simulation to completion: launch every process,
// settle the initial active region, then let the akita engine's event
// loop carry #delay-driven time advances, each one re-stabilizing via
// Scheduler.Handle, until either $finish latches or the engine's event
// queue empties on its own.
func (s *Scheduler) Run(top *Module) error {
	s.top = top
	s.launch(top)
	s.stabilize()

	if err := s.engine.Run(); err != nil {
		return err
	}

	s.finishOnce.Do(func() {
		s.finished.Store(true)
		s.runFinalProcesses()
	})
	return nil
}

// finish implements $finish: latch termination, wake every suspended
// process so it can cooperatively unwind, print the standard banner, and
// run every final block once in registration order. Safe to call more
// than once (e.g. a forked branch and its parent both hitting $finish);
// only the first call has effect.
func (s *Scheduler) finish(code int, loc string) {
	s.finishOnce.Do(func() {
		s.finished.Store(true)
		s.finishCode = code
		s.fire(HookPosFinish, s, code)

		s.procsMu.Lock()
		procs := append([]*process(nil), s.allProcs...)
		s.procsMu.Unlock()
		for _, p := range procs {
			p.forceWake()
		}

		s.display.Printf("$finish(%d) called at %v (%s)\n", code, s.engine.CurrentTime(), loc)
		s.runFinalProcesses()
	})
}

func (s *Scheduler) runFinalProcesses() {
	s.finalMu.Lock()
	procs := append([]*process(nil), s.finalOrder...)
	s.finalMu.Unlock()
	for _, p := range procs {
		ctx := &execCtx{sched: s, mod: p.mod, proc: p}
		ctx.exec(p.body)
	}
}

// FinishCode returns the code passed to the $finish that ended the
// simulation, or 0 if the simulation ran to natural completion.
func (s *Scheduler) FinishCode() int {
	return s.finishCode
}

// CurrentTime returns the scheduler's present simulated time.
func (s *Scheduler) CurrentTime() sim.VTimeInSec {
	return s.engine.CurrentTime()
}

// String satisfies sim.Hookable for the scheduler itself.
func (s *Scheduler) String() string {
	return fmt.Sprintf("Scheduler(top=%s)", func() string {
		if s.top == nil {
			return "<nil>"
		}
		return s.top.HierPath
	}())
}
