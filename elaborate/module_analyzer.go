package elaborate

import (
	"fmt"
	"sort"

	"github.com/veridian-silicon/xsim/design"
	"github.com/veridian-silicon/xsim/ir"
)

// ModuleAnalyzer builds the ir.Module tree for a design.Tree, memoizing
// one Module per unique definition name so that instances sharing a
// definition share a single built ir.Module — NewModuleAnalyzer takes
// the tree directly and Build walks it in one pass; there is no separate
// configuration step to stage beforehand.
type ModuleAnalyzer struct {
	tree design.Tree

	memo map[string]*ir.Module // definition name -> built Module
}

// NewModuleAnalyzer builds an analyzer over the given elaborated tree.
func NewModuleAnalyzer(tree design.Tree) *ModuleAnalyzer {
	return &ModuleAnalyzer{tree: tree, memo: make(map[string]*ir.Module)}
}

// UnsupportedPortDirectionError reports a port whose direction is
// neither In nor Out.
type UnsupportedPortDirectionError struct {
	Module, Port string
	Direction design.PortDirection
}

func (e *UnsupportedPortDirectionError) Error() string {
	return fmt.Sprintf("module %s: port %s has unsupported direction %q", e.Module, e.Port, e.Direction)
}

// Build elaborates the top-level instance named in the tree, returning
// its Module IR. Children sharing a definition name are memoized and
// shared.
func (ma *ModuleAnalyzer) Build() (*ir.Module, error) {
	return ma.build(ma.tree.Top, ma.tree.Top)
}

func (ma *ModuleAnalyzer) build(defName, hierPath string) (*ir.Module, error) {
	if m, ok := ma.memo[defName]; ok {
		return m, nil
	}

	body, ok := ma.tree.Modules[defName]
	if !ok {
		return nil, fmt.Errorf("elaborate: unknown module definition %q", defName)
	}

	m := ir.NewModule(body)
	ma.memo[defName] = m // insert before recursing: hardware forbids instantiation cycles, so this is safe and also breaks accidental re-entry

	for _, p := range body.Ports {
		switch p.Direction {
		case design.DirIn:
			m.Inputs = append(m.Inputs, ir.PortDef{Port: p, Connection: p.Connection})
		case design.DirOut:
			m.Outputs = append(m.Outputs, ir.PortDef{Port: p, Connection: p.Connection})
		default:
			return nil, &UnsupportedPortDirectionError{Module: defName, Port: p.Name, Direction: p.Direction}
		}

		for _, v := range body.Variables {
			if v.Name == p.Name {
				m.PortVars[p.Name] = v
			}
		}
	}

	analyzer := NewDependencyAnalyzer(hierPath)
	comb, ff, init, final, err := analyzer.Analyze(body)
	if err != nil {
		return nil, err
	}
	m.CombProcesses = comb
	m.FFProcesses = ff
	m.InitProcesses = init
	m.FinalProcesses = final

	for _, inst := range body.Instances {
		child, err := ma.build(inst.DefName, hierPath+"."+inst.InstanceName)
		if err != nil {
			return nil, err
		}
		m.ChildInstances[inst.InstanceName] = child
	}

	return m, nil
}

// PortConnectionProcess synthesizes the implicit CombProcess that drives
// port-connection dataflow across an instance boundary: `port_var <-
// rhs_expr` for every input, `lhs_expr <- port_var` for every output,
// sensitivity = every named value in the input rhs plus every output
// port var.
func PortConnectionProcess(child *ir.Module) *ir.CombProcess {
	var stmts []design.Statement
	sensSet := make(map[string]bool)

	for _, in := range child.Inputs {
		stmts = append(stmts, design.Statement{
			Kind: design.StmtAssign,
			LHS: design.Ref(in.Port.Name),
			RHS: in.Connection,
		})
		for _, n := range in.Connection.NamedValues() {
			sensSet[n] = true
		}
	}
	for _, out := range child.Outputs {
		stmts = append(stmts, design.Statement{
			Kind: design.StmtAssign,
			LHS: out.Connection,
			RHS: design.Ref(out.Port.Name),
		})
		sensSet[out.Port.Name] = true
	}

	var sens []string
	for n := range sensSet {
		sens = append(sens, n)
	}
	sort.Strings(sens)

	return &ir.CombProcess{
		Process: ir.Process{
			Kind: design.BlockAlwaysComb,
			Body: stmts,
		},
		SensitiveList: sens,
		CombKind: ir.Implicit,
	}
}
