// Package ir implements the block-level intermediate representation that
// the dependency analyzer and module analyzer build: a Process/
// CombProcess/FFProcess/Module hierarchy. These are static, build-once
// records — the runtime package instantiates live goroutine-backed
// processes from them.
package ir

import "github.com/veridian-silicon/xsim/design"

// CombKind classifies a combinational process by how its sensitivity
// list and header were derived.
type CombKind int

const (
	AlwaysComb CombKind = iota
	Implicit // continuous assigns + net initializers folded into one process
	Explicit // legacy always with an explicit sensitivity list
	Latch // always_latch
	GeneralPurpose // contains delays/non-edge timing; runs as an infinite loop
)

func (k CombKind) String() string {
	switch k {
	case AlwaysComb:
		return "always_comb"
	case Implicit:
		return "implicit"
	case Explicit:
		return "explicit"
	case Latch:
		return "latch"
	case GeneralPurpose:
		return "general_purpose"
	default:
		return "unknown"
	}
}

// EdgeControl is one `@(posedge/negedge/both x)` or bare `@(x)` timing
// term discovered anywhere in a process body, registered with the
// scheduler so it can wake the process on the right transition (or, for
// a bare level wait, on any change to x).
type EdgeControl struct {
	Var string
	Edge design.EdgeKind
}

// Process is the shared shape of every IR process kind: a procedural
// block's statement body, plus whatever edge-controls were discovered
// inside it.
type Process struct {
	Kind design.ProceduralBlockKind
	Body []design.Statement
	EdgeEventControls []EdgeControl
}

// CombProcess extends Process with a sensitivity list and classification.
type CombProcess struct {
	Process
	SensitiveList []string
	CombKind CombKind
}

// FFEdge is one `edges` entry of an FFProcess: the edge kind (always
// PosEdge or NegEdge — BothEdges is rejected) and the variable it
// watches.
type FFEdge struct {
	Edge design.EdgeKind
	Var string
}

// FFProcess extends Process with the edges a sequential block is
// sensitive to.
type FFProcess struct {
	Process
	Edges []FFEdge
}

// Function is helper information about a module-scope subroutine/task:
// its name and scope kind only, with no body. The analyzers do not
// populate Module.Functions, and $display's %m substitution uses the
// instance's hierarchical path rather than these records.
type Function struct {
	Name string
	IsModuleScope bool
}
