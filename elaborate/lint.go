package elaborate

import (
	"github.com/veridian-silicon/xsim/design"
	"github.com/veridian-silicon/xsim/diag"
)

// Lint walks every module definition in tree the way verify.RunLint walks
// a compiled program's PE placements: independent structural checks, each
// appending to a shared diagnostic engine rather than stopping at the
// first problem. It runs before dependency analysis, so a malformed tree
// is reported with a located diagnostic instead of panicking deep inside
// the graph builder.
func Lint(tree design.Tree, errorLimit int) *diag.Engine {
	eng := diag.NewEngine(errorLimit)
	for name, body := range tree.Modules {
		lintBody(eng, name, body)
	}
	return eng
}

func lintBody(eng *diag.Engine, defName string, body design.Body) {
	known := declaredNames(body)
	driven := drivenNames(body)

	report := func(category diag.Category, msg string) bool {
		if eng.Limit > 0 && eng.ErrorCount() >= eng.Limit {
			return false
		}
		return eng.Report(diag.Diagnostic{
			Severity: diag.Error,
			Category: category,
			Message:  msg,
			Loc:      diag.Location{Path: defName},
		})
	}

	checkExpr := func(e design.Expr) {
		for _, name := range e.NamedValues() {
			if !known[name] {
				if !report(diag.UnknownIdentifier, "reference to undeclared identifier "+name) {
					return
				}
			}
		}
	}

	for _, a := range body.Assigns {
		checkExpr(a.LHS)
		checkExpr(a.RHS)
	}
	for _, blk := range body.Blocks {
		lintStatements(checkExpr, blk.Body)
	}

	for _, p := range body.Ports {
		if p.Direction != design.DirOut {
			continue
		}
		if !driven[p.Name] {
			report(diag.UseBeforeDeclare, "output port "+p.Name+" is never driven inside its own module")
		}
	}
}

// declaredNames returns every identifier that resolves within body's own
// scope: its module-scope variables plus its port names.
func declaredNames(body design.Body) map[string]bool {
	known := make(map[string]bool, len(body.Variables)+len(body.Ports))
	for _, v := range body.Variables {
		known[v.Name] = true
	}
	for _, p := range body.Ports {
		known[p.Name] = true
	}
	return known
}

// drivenNames returns every identifier that appears as an assignment
// lvalue anywhere in body: a continuous assign's LHS, or a procedural
// assignment's LHS, recursing through concat/slice lvalues to their
// named roots.
func drivenNames(body design.Body) map[string]bool {
	driven := make(map[string]bool)
	mark := func(e design.Expr) {
		for _, name := range e.NamedValues() {
			driven[name] = true
		}
	}
	for _, a := range body.Assigns {
		mark(a.LHS)
	}
	var walk func(stmts []design.Statement)
	walk = func(stmts []design.Statement) {
		for _, s := range stmts {
			switch s.Kind {
			case design.StmtAssign:
				mark(s.LHS)
			case design.StmtIf:
				walk(s.Then)
				walk(s.Else)
			case design.StmtDelay, design.StmtEvent, design.StmtEventList, design.StmtForever, design.StmtBlock:
				walk(s.Body)
			case design.StmtRepeat:
				walk(s.Body)
			case design.StmtFork:
				for _, branch := range s.Branches {
					walk(branch)
				}
			}
		}
	}
	for _, blk := range body.Blocks {
		walk(blk.Body)
	}
	return driven
}

// lintStatements recurses through a statement list, checking every
// expression position (assignment operands, conditions, display
// arguments, event terms' implied variable, fork branches) against
// checkExpr.
func lintStatements(checkExpr func(design.Expr), stmts []design.Statement) {
	for _, s := range stmts {
		switch s.Kind {
		case design.StmtAssign:
			checkExpr(s.LHS)
			checkExpr(s.RHS)
		case design.StmtIf:
			checkExpr(s.Cond)
			lintStatements(checkExpr, s.Then)
			lintStatements(checkExpr, s.Else)
		case design.StmtRepeat:
			checkExpr(s.RepeatCount)
			lintStatements(checkExpr, s.Body)
		case design.StmtEvent, design.StmtEventList:
			for _, t := range s.Events {
				checkExpr(design.Ref(t.Var))
			}
			lintStatements(checkExpr, s.Body)
		case design.StmtDelay, design.StmtForever, design.StmtBlock:
			lintStatements(checkExpr, s.Body)
		case design.StmtFork:
			for _, branch := range s.Branches {
				lintStatements(checkExpr, branch)
			}
		case design.StmtDisplay:
			for _, a := range s.Args {
				checkExpr(a)
			}
		case design.StmtFWrite:
			checkExpr(s.FD)
			for _, a := range s.Args {
				checkExpr(a)
			}
		case design.StmtFClose:
			checkExpr(s.FD)
		case design.StmtFOpen:
			checkExpr(s.LHS)
		}
	}
}
