package runtime

import (
	"github.com/sarchlab/akita/v4/sim"

	"github.com/veridian-silicon/xsim/design"
	"github.com/veridian-silicon/xsim/value"
)

// execCtx is the interpretation context for one process's statement
// body: which module's variable store to resolve names against, which
// scheduler to suspend through, and which process is executing (so
// suspension points can re-arm its gate). Every suspension point a
// procedural body can reach — #delay, @(edge var)/@(var), wait join, and
// the NBA callback's own deferred write — is implemented here.
type execCtx struct {
	sched *Scheduler
	mod   *Module
	proc  *process
}

// eval evaluates an expression against the current variable store.
func (c *execCtx) eval(e design.Expr) value.Value {
	switch e.Kind {
	case design.ExprRef:
		return c.mod.read(e.Ref)
	case design.ExprLit:
		return value.FromUint64(literalWidth(e)-1, 0, e.LitSigned, e.Lit)
	case design.ExprUnary:
		operand := c.eval(*e.Left)
		switch e.Op {
		case "-":
			zero := value.New(operand.Left, operand.Right, operand.Signed, operand.Mode)
			return zero.Sub(operand)
		case "~":
			return operand.Not()
		case "!":
			return operand.ReduceOr().Not().Slice(0, 0)
		case "&":
			return operand.ReduceAnd()
		case "|":
			return operand.ReduceOr()
		case "^":
			return operand.ReduceXor()
		default:
			panic("runtime: unsupported unary operator " + e.Op)
		}
	case design.ExprBinary:
		l := c.eval(*e.Left)
		r := c.eval(*e.Right)
		switch e.Op {
		case "+":
			return l.Add(r)
		case "-":
			return l.Sub(r)
		case "*":
			return l.Mul(r)
		case "&":
			return l.And(r)
		case "|":
			return l.Or(r)
		case "^":
			return l.Xor(r)
		case "==":
			return l.Eq(r)
		default:
			panic("runtime: unsupported binary operator " + e.Op)
		}
	case design.ExprConcat:
		var out value.Value
		for i, p := range e.Parts {
			v := c.eval(p)
			if i == 0 {
				out = v
				continue
			}
			out = out.Concat(v)
		}
		return out
	case design.ExprSlice:
		base := c.eval(*e.Left)
		return base.Slice(e.Hi, e.Lo)
	default:
		panic("runtime: unsupported expression kind " + string(e.Kind))
	}
}

// literalWidth applies the reference front end's "effective width"
// heuristic for unsized literals: a literal with an explicit LitWidth
// keeps it, an unsized one is sized to the smallest width that holds it,
// but never wider than 32 bits.
func literalWidth(e design.Expr) int {
	if e.LitWidth > 0 {
		return e.LitWidth
	}
	n := e.Lit
	w := 1
	for n>>uint(w) != 0 && w < 32 {
		w++
	}
	return w
}

// assignTo distributes a value into an lvalue expression. Concat lvalues
// (`{a, b} = expr`) split expr's bits across parts in declaration order,
// high-order part first.
func (c *execCtx) assignTo(lhs design.Expr, v value.Value) {
	switch lhs.Kind {
	case design.ExprRef:
		c.mod.write(lhs.Ref, v)
	case design.ExprConcat:
		hi := v.Width() - 1
		for _, part := range lhs.Parts {
			w := c.widthOf(part)
			lo := hi - w + 1
			c.assignTo(part, v.Slice(hi, lo))
			hi = lo - 1
		}
	case design.ExprSlice:
		base := c.eval(*lhs.Left)
		merged := spliceBits(base, v, lhs.Hi, lhs.Lo)
		c.assignTo(*lhs.Left, merged)
	default:
		panic("runtime: unsupported lvalue expression kind " + string(lhs.Kind))
	}
}

// spliceBits returns base with bits [hi:lo] replaced by the low bits of
// v, used for part-select lvalues (`x[3:0] = v`).
func spliceBits(base, v value.Value, hi, lo int) value.Value {
	w := base.Width()
	low := value.Value{}
	if lo > 0 {
		low = base.Slice(lo-1, 0)
	}
	var high value.Value
	hasHigh := hi < w-1
	if hasHigh {
		high = base.Slice(w-1, hi+1)
	}
	mid := v.Slice(hi-lo, 0)

	result := mid
	if lo > 0 {
		result = result.Concat(low)
	}
	if hasHigh {
		result = high.Concat(result)
	}
	return result
}

// widthOf computes the bit width of an expression without evaluating
// side effects, used to know how many bits of the RHS a concat lvalue
// part should claim.
func (c *execCtx) widthOf(e design.Expr) int {
	switch e.Kind {
	case design.ExprRef:
		return c.mod.read(e.Ref).Width()
	case design.ExprSlice:
		if e.Hi >= e.Lo {
			return e.Hi - e.Lo + 1
		}
		return e.Lo - e.Hi + 1
	case design.ExprConcat:
		w := 0
		for _, p := range e.Parts {
			w += c.widthOf(p)
		}
		return w
	default:
		return c.eval(e).Width()
	}
}

// exec runs a statement list in order, returning early (without running
// the remainder) once $finish has latched: $finish must not unwind the
// caller by exception, so every process cooperatively drops out instead.
func (c *execCtx) exec(stmts []design.Statement) {
	for _, s := range stmts {
		if c.sched.isFinished() {
			return
		}
		c.execOne(s)
	}
}

func (c *execCtx) execOne(s design.Statement) {
	switch s.Kind {
	case design.StmtAssign:
		v := c.eval(s.RHS)
		if s.Blocking {
			c.assignTo(s.LHS, v)
			return
		}
		lhs := s.LHS
		c.sched.scheduleNBA(func() {
			c.assignTo(lhs, v)
		})

	case design.StmtDelay:
		c.delay(s.DelayTicks)
		c.exec(s.Body)

	case design.StmtEvent:
		c.waitEvents(s.Events)
		c.exec(s.Body)

	case design.StmtEventList:
		c.waitEvents(s.Events)
		c.exec(s.Body)

	case design.StmtIf:
		cond := c.eval(s.Cond)
		if !cond.IsXZ() && cond.Uint64() != 0 {
			c.exec(s.Then)
		} else {
			c.exec(s.Else)
		}

	case design.StmtRepeat:
		n := c.eval(s.RepeatCount).Uint64()
		for i := uint64(0); i < n; i++ {
			if c.sched.isFinished() {
				return
			}
			c.exec(s.Body)
		}

	case design.StmtForever:
		for {
			if c.sched.isFinished() {
				return
			}
			c.exec(s.Body)
		}

	case design.StmtFork:
		c.fork(s)

	case design.StmtDisplay:
		args := make([]value.Value, len(s.Args))
		for i, a := range s.Args {
			args[i] = c.eval(a)
		}
		c.sched.display.Display(c.mod.HierPath, s.Format, args)

	case design.StmtFinish:
		c.sched.finish(s.FinishCode, c.mod.HierPath)

	case design.StmtFOpen:
		fd := c.sched.display.openFile(s.Path)
		c.assignTo(s.LHS, value.FromUint64(31, 0, false, uint64(fd)))

	case design.StmtFClose:
		c.sched.display.closeFile(uint32(c.eval(s.FD).Uint64()))

	case design.StmtFWrite:
		args := make([]value.Value, len(s.Args))
		for i, a := range s.Args {
			args[i] = c.eval(a)
		}
		c.sched.display.writeFile(uint32(c.eval(s.FD).Uint64()), c.mod.HierPath, s.Format, args)

	case design.StmtBlock:
		c.exec(s.Body)

	default:
		panic("runtime: unsupported statement kind " + string(s.Kind))
	}
}

// delay suspends the current process until sim_time has advanced by
// ticks, via an event pushed into the embedded akita engine.
func (c *execCtx) delay(ticks uint64) {
	g := newGate()
	target := c.sched.engine.CurrentTime() + sim.VTimeInSec(ticks)
	c.sched.engine.Schedule(newDelayEvent(target, c.sched, g, c.proc))
	c.proc.suspend(g, g.Wait)
}

// waitEvents suspends until any one of the given event terms fires:
// posedge/negedge register a one-shot edge waiter, a level or
// both-edges term registers the any-edge waiter. BothEdges is rejected
// for always_ff but accepted for a bare event-control statement.
func (c *execCtx) waitEvents(terms []design.EventTerm) {
	g := newGate()
	for _, t := range terms {
		tv := c.mod.trackedVar(t.Var)
		switch t.Edge {
		case design.PosEdge:
			tv.AddPosedgeWaiter(g)
		case design.NegEdge:
			tv.AddNegedgeWaiter(g)
		default:
			tv.AddEdgeWaiter(g)
		}
	}
	c.proc.suspend(g, g.Wait)
}

// fork spawns one process per branch and suspends the parent according
// to the join kind: All waits for every child, Any for the first, None
// returns immediately after scheduling.
func (c *execCtx) fork(s design.Statement) {
	children := make([]*process, len(s.Branches))
	for i, branch := range s.Branches {
		children[i] = c.sched.createFork(c.mod, branch)
	}
	if len(children) == 0 {
		return
	}

	kind := joinKindAll
	switch s.JoinKind {
	case "any":
		kind = joinKindAny
	case "none":
		kind = joinKindNone
	}

	if kind == joinKindNone {
		return
	}

	g := newGate()
	c.sched.registerJoin(&scheduledJoin{processes: children, kind: kind, wake: g})
	c.proc.suspend(g, g.Wait)
}
