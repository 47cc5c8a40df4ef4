package elaborate

import (
	"fmt"

	"github.com/veridian-silicon/xsim/design"
	"github.com/veridian-silicon/xsim/ir"
)

// DependencyAnalyzer builds, given a single elaborated instance body, the
// Graph plus the general-purpose-always and timed-statement side lists,
// then synthesizes the module's comb/ff/init/final processes.
type DependencyAnalyzer struct {
	HierPath string // hierarchical path used in CombinationalLoopError messages

	graph *Graph

	generalAlwaysStmts []design.ProceduralBlock
	timedStmts []design.Statement
}

// NewDependencyAnalyzer creates an analyzer for one instance body.
func NewDependencyAnalyzer(hierPath string) *DependencyAnalyzer {
	return &DependencyAnalyzer{HierPath: hierPath, graph: NewGraph()}
}

// assignReadsWrites extracts {right-var reads, left-var writes} from a
// continuous-assign-shaped lhs/rhs pair, ignoring expressions whose
// parent scope is procedural — callers only pass module-scope assigns,
// so that exclusion is structural here rather than a runtime check.
func assignReadsWrites(lhs, rhs design.Expr) ([]string, []string) {
	return rhs.NamedValues(), lhs.NamedValues()
}

// Analyze runs the full dependency-analysis pass over body and returns
// the resulting comb/ff/init/final process lists, or a diagnostic error
// (combinational loop, BothEdges, non-named event expression, missing
// timing control).
func (a *DependencyAnalyzer) Analyze(body design.Body) ([]*ir.CombProcess, []*ir.FFProcess, []*ir.Process, []*ir.Process, error) {
	if err := a.buildGraph(body); err != nil {
		return nil, nil, nil, nil, err
	}

	order, err := a.graph.TopoSort(a.HierPath)
	if err != nil {
		return nil, nil, nil, nil, err
	}

	comb, err := a.synthesizeComb(order)
	if err != nil {
		return nil, nil, nil, nil, err
	}

	ff, err := a.extractFF(body)
	if err != nil {
		return nil, nil, nil, nil, err
	}

	init, final := a.extractInitFinal(body)

	return comb, ff, init, final, nil
}

// buildGraph walks every continuous assign, procedural block, net
// initializer and instance child in the body.
func (a *DependencyAnalyzer) buildGraph(body design.Body) error {
	for _, ca := range body.Assigns {
		reads, writes := assignReadsWrites(ca.LHS, ca.RHS)
		stmt := design.Statement{Kind: design.StmtAssign, LHS: ca.LHS, RHS: ca.RHS, Blocking: true}
		a.graph.NewAssignBlockNode(reads, writes, stmt)
	}

	for _, blk := range body.Blocks {
		switch blk.Kind {
		case design.BlockAlwaysComb, design.BlockAlwaysLatch:
			reads, writes := blockReadsWrites(blk.Body)
			a.graph.NewProceduralBlockNode(reads, writes, blk.Body, blk.Kind)

		case design.BlockAlways:
			if ev, ok := legacyAlwaysAsComb(blk.Body); ok {
				// Strip the leading @(...) timing control: the synthesized
				// CombProcess body runs inline on the scheduler goroutine
				// (settleComb -> runCombBody), and a level-sensitive comb
				// process re-executes on every sensitivity-list change, so
				// the timing control itself must not be part of the
				// emitted body (same reasoning as extractFF's top.Body).
				inner := blk.Body[0].Body
				var reads []string
				if len(ev.explicitList) > 0 {
					for _, t := range ev.explicitList {
						reads = append(reads, t.Var)
					}
				} else {
					reads, _ = blockReadsWrites(inner)
				}
				_, writes := blockReadsWrites(inner)
				a.graph.NewProceduralBlockNode(reads, writes, inner, design.BlockAlways)
			} else if containsTiming(blk.Body) {
				a.generalAlwaysStmts = append(a.generalAlwaysStmts, blk)
			} else {
				return fmt.Errorf("no timing control")
			}

		case design.BlockInitial, design.BlockFinal, design.BlockAlwaysFF:
			// not added to the dependency graph (handled separately)
		}
	}

	for _, v := range body.Variables {
		// implicit continuous initializer handling would go here if the
		// design format modeled default variable initializers as
		// expressions; this format has none, so this loop is a no-op.
		_ = v
	}

	// instance children: do not descend (handled by the module analyzer)
	return nil
}

// blockReadsWrites extracts the {left_set, right_set} of an always_comb/
// always_latch body: every assignment's rhs, every conditional's
// condition expression and every repeat count contribute reads; only
// assignment lhs contributes writes.
func blockReadsWrites(body []design.Statement) (reads, writes []string) {
	var walk func(stmts []design.Statement)
	walk = func(stmts []design.Statement) {
		for _, s := range stmts {
			switch s.Kind {
			case design.StmtAssign:
				reads = append(reads, s.RHS.NamedValues()...)
				writes = append(writes, s.LHS.NamedValues()...)
			case design.StmtIf:
				reads = append(reads, s.Cond.NamedValues()...)
				walk(s.Then)
				walk(s.Else)
			case design.StmtBlock:
				walk(s.Body)
			case design.StmtRepeat:
				reads = append(reads, s.RepeatCount.NamedValues()...)
				walk(s.Body)
			}
		}
	}
	walk(body)
	return reads, writes
}

type legacyEventInfo struct {
	explicitList []design.EventTerm
}

// legacyAlwaysAsComb decides whether a legacy `always` block's top
// statement qualifies as combinational: its timing is a level event
// (edge=None), an implicit event, or an EventList containing only
// level-sensitive events.
func legacyAlwaysAsComb(body []design.Statement) (legacyEventInfo, bool) {
	if len(body) == 0 {
		return legacyEventInfo{}, false
	}
	top := body[0]
	switch top.Kind {
	case design.StmtEvent:
		if len(top.Events) == 1 {
			switch top.Events[0].Edge {
			case design.NoEdge:
				return legacyEventInfo{explicitList: top.Events}, true
			case design.ImplicitEv:
				// no explicit list: the caller falls back to implicit extraction
				return legacyEventInfo{}, true
			}
		}
		return legacyEventInfo{}, false
	case design.StmtEventList:
		for _, e := range top.Events {
			if e.Edge != design.NoEdge && e.Edge != design.ImplicitEv {
				return legacyEventInfo{}, false
			}
		}
		return legacyEventInfo{explicitList: top.Events}, true
	default:
		return legacyEventInfo{}, false
	}
}

// containsTiming reports whether body contains any timing control
// (#delay or @(...)) anywhere, including nested blocks.
func containsTiming(body []design.Statement) bool {
	for _, s := range body {
		switch s.Kind {
		case design.StmtDelay, design.StmtEvent, design.StmtEventList:
			return true
		case design.StmtIf:
			if containsTiming(s.Then) || containsTiming(s.Else) {
				return true
			}
		case design.StmtBlock, design.StmtForever:
			if containsTiming(s.Body) {
				return true
			}
		case design.StmtRepeat:
			if containsTiming(s.Body) {
				return true
			}
		case design.StmtFork:
			for _, br := range s.Branches {
				if containsTiming(br) {
					return true
				}
			}
		}
	}
	return false
}

// extractEdgeControls discovers every `@(posedge/negedge/both x)` timing
// statement anywhere in body, recording (variable, edge) pairs.
func extractEdgeControls(body []design.Statement) []ir.EdgeControl {
	var out []ir.EdgeControl
	var walk func(stmts []design.Statement)
	walk = func(stmts []design.Statement) {
		for _, s := range stmts {
			switch s.Kind {
			case design.StmtEvent, design.StmtEventList:
				for _, e := range s.Events {
					// A bare `@(var)` (Edge == NoEdge) is a level wake, not
					// an edge-specific one, but it still needs its operand
					// in TrackedVarSet: waitEvents resolves every term
					// through mod.trackedVar regardless of edge kind.
					if e.Var != "" {
						out = append(out, ir.EdgeControl{Var: e.Var, Edge: e.Edge})
					}
				}
				walk(s.Body)
			case design.StmtIf:
				walk(s.Then)
				walk(s.Else)
			case design.StmtBlock, design.StmtForever, design.StmtRepeat:
				walk(s.Body)
			case design.StmtFork:
				for _, br := range s.Branches {
					walk(br)
				}
			}
		}
	}
	walk(body)
	return out
}
