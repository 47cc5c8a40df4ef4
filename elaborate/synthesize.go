package elaborate

import (
	"fmt"

	"github.com/veridian-silicon/xsim/design"
	"github.com/veridian-silicon/xsim/ir"
)

// synthesizeComb walks the topologically sorted node list and emits the
// module's combinational processes, then appends one GeneralPurpose
// process per discovered general-purpose always block.
func (a *DependencyAnalyzer) synthesizeComb(order []string) ([]*ir.CombProcess, error) {
	var result []*ir.CombProcess

	var draftStmts []design.Statement
	draftTracker := NewSensitivityTracker()

	flush := func() {
		if len(draftStmts) == 0 {
			return
		}
		result = append(result, &ir.CombProcess{
			Process: ir.Process{
				Kind:              design.BlockInitial, // placeholder; implicit processes have no single header kind
				Body:              draftStmts,
				EdgeEventControls: extractEdgeControls(draftStmts),
			},
			SensitiveList: draftTracker.List(),
			CombKind:      ir.Implicit,
		})
		draftStmts = nil
		draftTracker = NewSensitivityTracker()
	}

	for _, name := range order {
		node, _ := a.graph.Node(name)
		if node.Kind != BlockNode {
			continue
		}

		if !node.IsProceduralBlock {
			draftStmts = append(draftStmts, node.Stmts...)
			draftTracker.Add(node.Reads, node.Writes)
			continue
		}

		flush()

		var kind ir.CombKind
		switch node.BlockKind {
		case design.BlockAlwaysLatch:
			kind = ir.Latch
		case design.BlockAlways:
			kind = ir.Implicit
		case design.BlockAlwaysComb:
			kind = ir.AlwaysComb
		default:
			return nil, fmt.Errorf("elaborate: unexpected procedural block kind %q in comb synthesis", node.BlockKind)
		}

		tracker := NewSensitivityTracker()
		tracker.Add(node.Reads, node.Writes)

		result = append(result, &ir.CombProcess{
			Process: ir.Process{
				Kind:              node.BlockKind,
				Body:              node.Stmts,
				EdgeEventControls: extractEdgeControls(node.Stmts),
			},
			SensitiveList: tracker.List(),
			CombKind:      kind,
		})
	}

	flush()

	for _, blk := range a.generalAlwaysStmts {
		result = append(result, &ir.CombProcess{
			Process: ir.Process{
				Kind:              blk.Kind,
				Body:              blk.Body,
				EdgeEventControls: extractEdgeControls(blk.Body),
			},
			SensitiveList: nil, // general-purpose processes run as an infinite loop, not level-triggered
			CombKind:      ir.GeneralPurpose,
		})
	}

	return result, nil
}

// extractFF extracts always_ff blocks as FFProcess records: the body's
// top statement must be a timed statement on a named value with edge
// PosEdge or NegEdge (singly, or via an EventList of such); BothEdges is
// rejected, and non-named event expressions are rejected.
func (a *DependencyAnalyzer) extractFF(body design.Body) ([]*ir.FFProcess, error) {
	var result []*ir.FFProcess

	for _, blk := range body.Blocks {
		if blk.Kind != design.BlockAlwaysFF {
			continue
		}
		if len(blk.Body) == 0 {
			return nil, fmt.Errorf("always_ff body is empty")
		}
		top := blk.Body[0]

		var terms []design.EventTerm
		switch top.Kind {
		case design.StmtEvent:
			terms = top.Events
		case design.StmtEventList:
			terms = top.Events
		default:
			return nil, fmt.Errorf("always_ff must begin with an edge-sensitive timing control")
		}

		var edges []ir.FFEdge
		for _, t := range terms {
			if t.Var == "" {
				return nil, fmt.Errorf("non-named event expression in always_ff sensitivity list")
			}
			switch t.Edge {
			case design.PosEdge:
				edges = append(edges, ir.FFEdge{Edge: design.PosEdge, Var: t.Var})
			case design.NegEdge:
				edges = append(edges, ir.FFEdge{Edge: design.NegEdge, Var: t.Var})
			case design.BothEdges:
				return nil, fmt.Errorf("Both edges not supported")
			default:
				return nil, fmt.Errorf("always_ff sensitivity term for %q must be posedge or negedge", t.Var)
			}
		}

		result = append(result, &ir.FFProcess{
			Process: ir.Process{
				Kind: design.BlockAlwaysFF,
				Body: top.Body,
				EdgeEventControls: extractEdgeControls(top.Body),
			},
			Edges: edges,
		})
	}

	return result, nil
}

// extractInitFinal extracts initial/final blocks as plain Process
// records.
func (a *DependencyAnalyzer) extractInitFinal(body design.Body) (init, final []*ir.Process) {
	for _, blk := range body.Blocks {
		switch blk.Kind {
		case design.BlockInitial:
			init = append(init, &ir.Process{
				Kind: design.BlockInitial,
				Body: blk.Body,
				EdgeEventControls: extractEdgeControls(blk.Body),
			})
		case design.BlockFinal:
			final = append(final, &ir.Process{
				Kind: design.BlockFinal,
				Body: blk.Body,
				EdgeEventControls: extractEdgeControls(blk.Body),
			})
		}
	}
	return init, final
}
