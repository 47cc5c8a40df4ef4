package runtime

import "github.com/sarchlab/akita/v4/sim"

// delayEvent is the concrete sim.Event the scheduler pushes into the
// embedded akita engine for every #delay suspension: scheduling a delay
// *is* engine.Schedule, and the current simulated time *is*
// engine.CurrentTime(). The akita engine owns the priority-ordered event
// queue a #delay wakeup needs; this type is the payload riding on it.
type delayEvent struct {
	sim.EventBase
	wake *gate
	proc *process
}

func newDelayEvent(time sim.VTimeInSec, handler sim.Handler, wake *gate, proc *process) *delayEvent {
	return &delayEvent{
		EventBase: sim.NewEventBase(time, handler),
		wake:      wake,
		proc:      proc,
	}
}

// Handle implements sim.Handler for the scheduler: when the engine fires
// a delayEvent, it signals the waiting process's gate and re-stabilizes
// the active/NBA region before returning control to the engine's event
// loop, so every #delay wakeup settles combinational effects before the
// next scheduled event fires. The process's generation is snapshotted
// before the signal so the wait afterwards is for that process's actual
// next suspension, not whichever suspension happens to be current by the
// time this goroutine gets around to checking. Any other event type
// reaching this handler is a programmer error.
func (s *Scheduler) Handle(e sim.Event) error {
	switch ev := e.(type) {
	case *delayEvent:
		gen := ev.proc.snapshotGen()
		ev.wake.Signal()
		s.fire(HookPosProcessWake, s, ev.proc)
		if !s.isFinished() {
			ev.proc.waitPastGen(gen)
			s.stabilize()
		}
	default:
		panic("runtime: scheduler received an event it does not own")
	}
	return nil
}
