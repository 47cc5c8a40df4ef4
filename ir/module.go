package ir

import "github.com/veridian-silicon/xsim/design"

// PortDef pairs a port with its instantiation-side connection
// expression, as stored in Module.Inputs/Outputs.
type PortDef struct {
	Port design.Port
	Connection design.Expr
}

// Module is the IR for one elaborated instance definition.
// Modules form a tree; child instances sharing a definition name point
// at the same *Module, which is safe because hardware forbids
// instantiation cycles.
type Module struct {
	Name string
	Def design.Body

	CombProcesses []*CombProcess
	FFProcesses []*FFProcess
	InitProcesses []*Process
	FinalProcesses []*Process
	Functions []*Function

	Inputs []PortDef
	Outputs []PortDef
	// PortVars maps a port name referenced in Inputs/Outputs to the
	// module-scope variable of the same name. The module analyzer adds an
	// entry only when the body declares such a variable; a port without
	// one has no entry, and the analyzer does not report it.
	PortVars map[string]design.Variable

	// ChildInstances is keyed by instance name, not definition name —
	// distinct instances of the same definition get distinct entries
	// pointing at the same shared *Module.
	ChildInstances map[string]*Module
}

// NewModule allocates an empty Module IR for the given elaborated body.
func NewModule(def design.Body) *Module {
	return &Module{
		Name: def.DefName,
		Def: def,
		PortVars: make(map[string]design.Variable),
		ChildInstances: make(map[string]*Module),
	}
}

// TrackedVarSet computes which of the module's variables must be backed
// by a TrackedValue rather than a plain Value:
// - every variable in any comb-process sensitivity list;
// - every edge variable of any FF process;
// - every variable referenced by an edge_event_controls entry on any
// process;
// - every module output;
// - every named value in any child instance's input rhs.
func (m *Module) TrackedVarSet() map[string]bool {
	set := make(map[string]bool)

	for _, cp := range m.CombProcesses {
		for _, v := range cp.SensitiveList {
			set[v] = true
		}
		for _, ec := range cp.EdgeEventControls {
			set[ec.Var] = true
		}
	}
	for _, fp := range m.FFProcesses {
		for _, e := range fp.Edges {
			set[e.Var] = true
		}
		for _, ec := range fp.EdgeEventControls {
			set[ec.Var] = true
		}
	}
	for _, p := range m.InitProcesses {
		for _, ec := range p.EdgeEventControls {
			set[ec.Var] = true
		}
	}
	for _, out := range m.Outputs {
		set[out.Port.Name] = true
	}
	for _, child := range m.ChildInstances {
		for _, in := range child.Inputs {
			for _, name := range in.Connection.NamedValues() {
				set[name] = true
			}
		}
	}

	return set
}

// Variable looks up a module-scope variable declaration by name.
func (m *Module) Variable(name string) (design.Variable, bool) {
	for _, v := range m.Def.Variables {
		if v.Name == name {
			return v, true
		}
	}
	if pv, ok := m.PortVars[name]; ok {
		return pv, true
	}
	return design.Variable{}, false
}
