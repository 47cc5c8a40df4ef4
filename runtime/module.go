package runtime

import (
	"github.com/veridian-silicon/xsim/design"
	"github.com/veridian-silicon/xsim/ir"
	"github.com/veridian-silicon/xsim/value"
)

// Module is the runtime instantiation of an *ir.Module: its own variable
// store (split into change-tracked and plain cells, per
// ir.Module.TrackedVarSet), the processes that read and write it, and its
// child instances. Every Module shares one Scheduler with the rest of the
// design tree, matching the single embedded akita engine's single time
// base.
type Module struct {
	Name     string
	HierPath string
	IR       *ir.Module
	Sched    *Scheduler

	tracked map[string]*value.TrackedValue
	plain   map[string]*cell

	initProcs    []*process
	finalProcs   []*process
	ffProcs      []*process
	generalProcs []*process
	portProcs    []*process

	Children map[string]*Module
}

// BuildModule recursively instantiates the runtime Module tree for im,
// sharing sched across every instance. mode selects whether freshly
// declared variables start out two-state zero or four-state x, per the
// --two-state CLI flag.
func BuildModule(sched *Scheduler, im *ir.Module, hierPath string, mode value.Mode) *Module {
	m := &Module{
		Name:     im.Name,
		HierPath: hierPath,
		IR:       im,
		Sched:    sched,
		tracked:  make(map[string]*value.TrackedValue),
		plain:    make(map[string]*cell),
		Children: make(map[string]*Module),
	}

	trackedNames := im.TrackedVarSet()
	edgeNames := collectEdgeVars(im)

	for _, v := range im.Def.Variables {
		m.declareVariable(v, trackedNames[v.Name], edgeNames[v.Name], mode)
	}
	for name, pv := range im.PortVars {
		m.declareVariable(pv, trackedNames[name], edgeNames[name], mode)
	}

	for _, cp := range im.CombProcesses {
		p := &process{id: sched.newProcessID(), kind: kindComb, mod: m, sched: sched, comb: cp}
		if cp.CombKind == ir.GeneralPurpose {
			p.kind = kindGeneralPurpose
			m.generalProcs = append(m.generalProcs, p)
			sched.registerProcess(p)
			continue
		}
		sched.registerComb(p)
		for _, name := range cp.SensitiveList {
			if tv, ok := m.tracked[name]; ok {
				tv.SubscribeComb(p)
			}
		}
	}

	for _, fp := range im.FFProcesses {
		p := &process{id: sched.newProcessID(), kind: kindFF, mod: m, sched: sched, ff: fp}
		m.ffProcs = append(m.ffProcs, p)
		sched.registerProcess(p)
	}

	for _, ip := range im.InitProcesses {
		p := &process{id: sched.newProcessID(), kind: kindInit, mod: m, sched: sched, body: ip.Body}
		m.initProcs = append(m.initProcs, p)
		sched.registerProcess(p)
	}

	for _, fp := range im.FinalProcesses {
		p := &process{id: sched.newProcessID(), kind: kindFinal, mod: m, sched: sched, body: fp.Body}
		m.finalProcs = append(m.finalProcs, p)
		sched.registerFinal(p)
	}

	for instName, childIR := range im.ChildInstances {
		child := BuildModule(sched, childIR, hierPath+"."+instName, mode)
		m.Children[instName] = child
		m.wirePortDriver(child)
	}

	return m
}

// declareVariable allocates the backing store for one module-scope or
// port-scope variable, skipping names already declared (port variables
// that coincide with a module-scope declaration are declared once).
func (m *Module) declareVariable(v design.Variable, isTracked, isEdge bool, mode value.Mode) {
	if _, ok := m.tracked[v.Name]; ok {
		return
	}
	if _, ok := m.plain[v.Name]; ok {
		return
	}
	init := initialValue(v, mode)
	if isTracked {
		tv := value.NewTracked(init)
		tv.TrackEdge = isEdge
		m.tracked[v.Name] = tv
		return
	}
	m.plain[v.Name] = newCell(init)
}

// initialValue gives a freshly declared variable its reset value: x in
// four-state mode (the reference standard's uninitialized-variable
// value), 0 in two-state mode (x/z have no representation there).
func initialValue(v design.Variable, mode value.Mode) value.Value {
	if mode == value.FourState {
		return value.X(v.Left, v.Right, v.Signed)
	}
	return value.New(v.Left, v.Right, v.Signed, mode)
}

// collectEdgeVars finds every variable any process in im watches for a
// specific edge, so its TrackedValue can be built with TrackEdge set —
// computing ShouldTriggerPosedge/Negedge is otherwise skipped for
// variables nothing cares about.
func collectEdgeVars(im *ir.Module) map[string]bool {
	set := make(map[string]bool)
	for _, fp := range im.FFProcesses {
		for _, e := range fp.Edges {
			set[e.Var] = true
		}
		for _, ec := range fp.EdgeEventControls {
			set[ec.Var] = true
		}
	}
	for _, cp := range im.CombProcesses {
		for _, ec := range cp.EdgeEventControls {
			set[ec.Var] = true
		}
	}
	for _, p := range im.InitProcesses {
		for _, ec := range p.EdgeEventControls {
			set[ec.Var] = true
		}
	}
	return set
}

// read and write resolve a bare variable name against this module's
// tracked-or-plain store; every name reaching here must come from a
// design.Expr built against this module's own Def.Variables/PortVars, so
// an unknown name is a construction bug, not a runtime condition.
func (m *Module) read(name string) value.Value {
	if tv, ok := m.tracked[name]; ok {
		return tv.Get()
	}
	if c, ok := m.plain[name]; ok {
		return c.Get()
	}
	panic("runtime: unknown variable " + name + " in " + m.HierPath)
}

func (m *Module) write(name string, v value.Value) {
	if tv, ok := m.tracked[name]; ok {
		tv.Assign(v)
		return
	}
	if c, ok := m.plain[name]; ok {
		c.Set(v)
		return
	}
	panic("runtime: unknown variable " + name + " in " + m.HierPath)
}

func (m *Module) trackedVar(name string) *value.TrackedValue {
	tv, ok := m.tracked[name]
	if !ok {
		panic("runtime: " + name + " is not a change-tracked variable in " + m.HierPath)
	}
	return tv
}

// wirePortDriver synthesizes the process that drives dataflow across the
// parent/child instance boundary: every child input port takes its value
// from the parent-scope connection expression, every child output port's
// value is written back into the parent-scope connection expression. This
// is the live counterpart of elaborate.PortConnectionProcess, reimplemented
// as a native two-context closure instead of a single-module CombProcess
// body, since the two assignment directions resolve names against two
// different variable stores.
func (m *Module) wirePortDriver(child *Module) {
	p := &process{id: m.Sched.newProcessID(), kind: kindComb, mod: m, sched: m.Sched}

	parentCtx := &execCtx{sched: m.Sched, mod: m, proc: p}
	childCtx := &execCtx{sched: m.Sched, mod: child, proc: p}

	p.nativeFn = func() {
		for _, in := range child.IR.Inputs {
			v := parentCtx.eval(in.Connection)
			childCtx.assignTo(design.Ref(in.Port.Name), v)
		}
		for _, out := range child.IR.Outputs {
			v := childCtx.eval(design.Ref(out.Port.Name))
			parentCtx.assignTo(out.Connection, v)
		}
	}

	m.portProcs = append(m.portProcs, p)
	m.Sched.registerComb(p)

	for _, in := range child.IR.Inputs {
		for _, name := range in.Connection.NamedValues() {
			if tv, ok := m.tracked[name]; ok {
				tv.SubscribeComb(p)
			}
		}
	}
	for _, out := range child.IR.Outputs {
		if tv, ok := child.tracked[out.Port.Name]; ok {
			tv.SubscribeComb(p)
		}
	}

	// Run once unconditionally so the child's inputs (and any output
	// already driven before this point) propagate before the first
	// stabilize pass, rather than waiting for a subscribed variable to
	// change first.
	p.pendingComb.Store(true)
}

// Active re-runs the scheduler's flattened combinational fixpoint,
// exposed on Module as a convenience for tests that drive a single
// instance without going through Scheduler.Run.
func (m *Module) Active() {
	m.Sched.stabilize()
}
