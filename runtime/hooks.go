package runtime

import "github.com/sarchlab/akita/v4/sim"

// Hook positions exposed to external instrumentation, reusing
// sim.HookPos/sim.HookableBase exactly as core/port.go's
// HookPosPortMsgSend/HookPosPortMsgRecvd/HookPosPortMsgRetrieve do for
// port traffic — here for scheduler lifecycle events instead of message
// traffic.
var (
	HookPosProcessWake  = &sim.HookPos{Name: "Process Wake"}
	HookPosEdgeTrigger  = &sim.HookPos{Name: "Edge Trigger"}
	HookPosNBAFlush     = &sim.HookPos{Name: "NBA Flush"}
	HookPosFinish       = &sim.HookPos{Name: "Finish"}
)

// Hooks embeds sim.HookableBase so external tooling can subscribe to
// process-wake, edge-trigger, NBA-flush and finish events (via
// sim.Hookable's AcceptHook/InvokeHook) without reaching into scheduler
// internals.
type Hooks struct {
	sim.HookableBase
}

func newHooks() *Hooks {
	return &Hooks{}
}

func (h *Hooks) fire(pos *sim.HookPos, domain sim.Hookable, item interface{}) {
	h.InvokeHook(sim.HookCtx{Domain: domain, Pos: pos, Item: item})
}
