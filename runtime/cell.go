package runtime

import (
	"sync"

	"github.com/veridian-silicon/xsim/value"
)

// cell holds a variable that the module analyzer determined does not
// need TrackedValue's change-notification machinery: the tracked-variable
// set is a strict subset of a module's variables. It still needs its own
// lock: independent comb processes may write distinct untracked variables
// concurrently.
type cell struct {
	mu sync.Mutex
	v  value.Value
}

func newCell(v value.Value) *cell {
	return &cell{v: v}
}

func (c *cell) Get() value.Value {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.v
}

func (c *cell) Set(v value.Value) {
	c.mu.Lock()
	c.v = v
	c.mu.Unlock()
}
