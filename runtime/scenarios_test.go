package runtime_test

import (
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/veridian-silicon/xsim/design"
	"github.com/veridian-silicon/xsim/ir"
	"github.com/veridian-silicon/xsim/runtime"
	"github.com/veridian-silicon/xsim/value"
)

func varDecl(name string, hi, lo int) design.Variable {
	return design.Variable{Name: name, Left: hi, Right: lo}
}

func display(format string, args ...design.Expr) design.Statement {
	return design.Statement{Kind: design.StmtDisplay, Format: format, Args: args}
}

func assignB(lhs, rhs design.Expr) design.Statement {
	return design.Statement{Kind: design.StmtAssign, LHS: lhs, RHS: rhs, Blocking: true}
}

func assignNB(lhs, rhs design.Expr) design.Statement {
	return design.Statement{Kind: design.StmtAssign, LHS: lhs, RHS: rhs, Blocking: false}
}

func delayStmt(ticks uint64, body ...design.Statement) design.Statement {
	return design.Statement{Kind: design.StmtDelay, DelayTicks: ticks, Body: body}
}

func finishStmt(code int) design.Statement {
	return design.Statement{Kind: design.StmtFinish, FinishCode: code}
}

var _ = Describe("end-to-end scenarios", func() {
	// S1: a single initial block with nothing but a $display must print
	// its message and let the simulation run to natural completion.
	It("prints a bare initial block's $display", func() {
		im := ir.NewModule(design.Body{DefName: "top"})
		im.InitProcesses = append(im.InitProcesses, &ir.Process{
			Kind: design.BlockInitial,
			Body: []design.Statement{display("HELLO WORLD")},
		})

		sched := runtime.NewScheduler()
		mod := runtime.BuildModule(sched, im, "top", value.TwoState)

		out := captureStdout(func() {
			Expect(sched.Run(mod)).To(Succeed())
		})
		Expect(out).To(ContainSubstring("HELLO WORLD"))
		Expect(sched.FinishCode()).To(Equal(0))
	})

	// S2: an initial block that delays, prints, then calls $finish must
	// latch termination at the right simulated time and code.
	It("delays, prints, and terminates via $finish", func() {
		im := ir.NewModule(design.Body{DefName: "top"})
		im.InitProcesses = append(im.InitProcesses, &ir.Process{
			Kind: design.BlockInitial,
			Body: []design.Statement{
				delayStmt(42, display("PASS"), finishStmt(1)),
			},
		})

		sched := runtime.NewScheduler()
		mod := runtime.BuildModule(sched, im, "top", value.TwoState)

		out := captureStdout(func() {
			Expect(sched.Run(mod)).To(Succeed())
		})
		Expect(out).To(ContainSubstring("PASS"))
		Expect(out).To(ContainSubstring("$finish(1)"))
		Expect(sched.FinishCode()).To(Equal(1))
	})

	// S3: two independent initial blocks delaying by different amounts
	// must interleave their output in time order.
	It("orders output from concurrent initial blocks by delay", func() {
		im := ir.NewModule(design.Body{DefName: "top"})
		im.InitProcesses = append(im.InitProcesses,
			&ir.Process{
				Kind: design.BlockInitial,
				Body: []design.Statement{delayStmt(2, display("EARLY"))},
			},
			&ir.Process{
				Kind: design.BlockInitial,
				Body: []design.Statement{delayStmt(5, display("LATE"))},
			},
		)

		sched := runtime.NewScheduler()
		mod := runtime.BuildModule(sched, im, "top", value.TwoState)

		out := captureStdout(func() {
			Expect(sched.Run(mod)).To(Succeed())
		})
		Expect(strings.Index(out, "EARLY")).To(BeNumerically(">=", 0))
		Expect(strings.Index(out, "LATE")).To(BeNumerically(">", strings.Index(out, "EARLY")))
	})

	// S4: a combinational fixpoint chain (b depends on a, c depends on
	// b) must fully propagate before an initial block's subsequent
	// #delay-separated reads observe it.
	It("propagates a combinational dependency chain to a fixpoint", func() {
		im := ir.NewModule(design.Body{DefName: "top"})
		im.Def.Variables = []design.Variable{
			varDecl("a", 7, 0),
			varDecl("b", 7, 0),
			varDecl("c", 7, 0),
		}
		im.CombProcesses = append(im.CombProcesses,
			&ir.CombProcess{
				Process:       ir.Process{Kind: design.BlockAlwaysComb, Body: []design.Statement{assignB(design.Ref("b"), design.Binary("+", design.Ref("a"), design.Lit(1, false, 1)))}},
				SensitiveList: []string{"a"},
				CombKind:      ir.AlwaysComb,
			},
			&ir.CombProcess{
				Process:       ir.Process{Kind: design.BlockAlwaysComb, Body: []design.Statement{assignB(design.Ref("c"), design.Binary("+", design.Ref("b"), design.Lit(8, false, 2)))}},
				SensitiveList: []string{"b"},
				CombKind:      ir.AlwaysComb,
			},
		)
		im.InitProcesses = append(im.InitProcesses, &ir.Process{
			Kind: design.BlockInitial,
			Body: []design.Statement{
				assignB(design.Ref("a"), design.Lit(8, false, 1)),
				delayStmt(1, display("a=%d c=%d", design.Ref("a"), design.Ref("c"))),
				assignB(design.Ref("a"), design.Lit(8, false, 2)),
				delayStmt(1, display("a=%d c=%d", design.Ref("a"), design.Ref("c"))),
			},
		})

		sched := runtime.NewScheduler()
		mod := runtime.BuildModule(sched, im, "top", value.TwoState)

		out := captureStdout(func() {
			Expect(sched.Run(mod)).To(Succeed())
		})
		Expect(out).To(ContainSubstring("a=1 c=4"))
		Expect(out).To(ContainSubstring("a=2 c=5"))
	})

	// S5: a flip-flop process driven by a free-running clock must copy
	// its input to its output on a posedge of that clock.
	It("captures an always_ff input on a posedge of a free-running clock", func() {
		im := ir.NewModule(design.Body{DefName: "top"})
		im.Def.Variables = []design.Variable{
			varDecl("clk", 0, 0),
			varDecl("a", 7, 0),
			varDecl("b", 7, 0),
		}
		im.FFProcesses = append(im.FFProcesses, &ir.FFProcess{
			Process: ir.Process{Kind: design.BlockAlwaysFF, Body: []design.Statement{assignNB(design.Ref("b"), design.Ref("a"))}},
			Edges:   []ir.FFEdge{{Edge: design.PosEdge, Var: "clk"}},
		})
		im.CombProcesses = append(im.CombProcesses, &ir.CombProcess{
			Process: ir.Process{
				Kind: design.BlockAlways,
				Body: []design.Statement{
					delayStmt(1, assignB(design.Ref("clk"), design.Binary("^", design.Ref("clk"), design.Lit(1, false, 1)))),
				},
			},
			CombKind: ir.GeneralPurpose,
		})
		im.InitProcesses = append(im.InitProcesses, &ir.Process{
			Kind: design.BlockInitial,
			Body: []design.Statement{
				assignB(design.Ref("a"), design.Lit(8, false, 9)),
				delayStmt(3, display("b=%d", design.Ref("b"))),
				finishStmt(0),
			},
		})

		sched := runtime.NewScheduler()
		mod := runtime.BuildModule(sched, im, "top", value.TwoState)

		out := captureStdout(func() {
			Expect(sched.Run(mod)).To(Succeed())
		})
		Expect(out).To(ContainSubstring("b=9"))
	})

	// S6: repeat(N) with a literal count and repeat(a) with a variable
	// count must each unroll exactly that many iterations, in program
	// order, ahead of a forever loop that only yields on a delay.
	It("unrolls repeat(N) and repeat(var) before a delaying forever loop", func() {
		im := ir.NewModule(design.Body{DefName: "top"})
		im.Def.Variables = []design.Variable{varDecl("a", 7, 0)}
		im.InitProcesses = append(im.InitProcesses,
			&ir.Process{
				Kind: design.BlockInitial,
				Body: []design.Statement{
					assignB(design.Ref("a"), design.Lit(8, false, 2)),
					{Kind: design.StmtRepeat, RepeatCount: design.Lit(8, false, 2), Body: []design.Statement{display("2")}},
					{Kind: design.StmtRepeat, RepeatCount: design.Ref("a"), Body: []design.Statement{display("4")}},
					{Kind: design.StmtForever, Body: []design.Statement{delayStmt(1)}},
				},
			},
			&ir.Process{
				Kind: design.BlockInitial,
				Body: []design.Statement{delayStmt(5, finishStmt(0))},
			},
		)

		sched := runtime.NewScheduler()
		mod := runtime.BuildModule(sched, im, "top", value.TwoState)

		out := captureStdout(func() {
			Expect(sched.Run(mod)).To(Succeed())
		})
		Expect(strings.HasPrefix(out, "2\n2\n4\n4\n")).To(BeTrue())
	})

	// S7: a concatenation lvalue must split the right-hand side's bits
	// across its parts in high-to-low declaration order (blocking form).
	It("unpacks a concatenation assignment bit-exactly", func() {
		im := ir.NewModule(design.Body{DefName: "top"})
		im.Def.Variables = []design.Variable{
			varDecl("hi", 3, 0),
			varDecl("lo", 3, 0),
			varDecl("packed", 7, 0),
		}
		im.InitProcesses = append(im.InitProcesses, &ir.Process{
			Kind: design.BlockInitial,
			Body: []design.Statement{
				assignB(design.Ref("packed"), design.Lit(8, false, 0xAB)),
				assignB(design.Concat(design.Ref("hi"), design.Ref("lo")), design.Ref("packed")),
				display("hi=%d lo=%d", design.Ref("hi"), design.Ref("lo")),
			},
		})

		sched := runtime.NewScheduler()
		mod := runtime.BuildModule(sched, im, "top", value.TwoState)

		out := captureStdout(func() {
			Expect(sched.Run(mod)).To(Succeed())
		})
		Expect(out).To(ContainSubstring("hi=10 lo=11"))
	})

	// S8: a child instance's output port must reach the parent scope
	// through the synthesized port-connection driver once the child's
	// own logic has settled.
	It("drives parent-scope state from a child instance's output port", func() {
		child := ir.NewModule(design.Body{DefName: "adder"})
		child.PortVars["in"] = varDecl("in", 7, 0)
		child.PortVars["out"] = varDecl("out", 7, 0)
		child.Outputs = []ir.PortDef{{
			Port:       design.Port{Name: "out", Direction: design.DirOut, Connection: design.Ref("sum")},
			Connection: design.Ref("sum"),
		}}
		child.Inputs = []ir.PortDef{{
			Port:       design.Port{Name: "in", Direction: design.DirIn, Connection: design.Ref("src")},
			Connection: design.Ref("src"),
		}}
		child.CombProcesses = append(child.CombProcesses, &ir.CombProcess{
			Process:       ir.Process{Kind: design.BlockAlwaysComb, Body: []design.Statement{assignB(design.Ref("out"), design.Binary("+", design.Ref("in"), design.Lit(1, false, 1)))}},
			SensitiveList: []string{"in"},
			CombKind:      ir.AlwaysComb,
		})

		top := ir.NewModule(design.Body{DefName: "top"})
		top.Def.Variables = []design.Variable{
			varDecl("src", 7, 0),
			varDecl("sum", 7, 0),
		}
		top.ChildInstances["u_adder"] = child
		top.InitProcesses = append(top.InitProcesses, &ir.Process{
			Kind: design.BlockInitial,
			Body: []design.Statement{
				assignB(design.Ref("src"), design.Lit(8, false, 4)),
				delayStmt(1, display("sum=%d", design.Ref("sum"))),
			},
		})

		sched := runtime.NewScheduler()
		mod := runtime.BuildModule(sched, top, "top", value.TwoState)

		out := captureStdout(func() {
			Expect(sched.Run(mod)).To(Succeed())
		})
		Expect(out).To(ContainSubstring("sum=5"))
	})

	// fork/join: an "all" join must not release the parent until every
	// branch has completed.
	It("waits for every branch under a join-all discipline", func() {
		im := ir.NewModule(design.Body{DefName: "top"})
		im.Def.Variables = []design.Variable{varDecl("done", 1, 0)}
		im.InitProcesses = append(im.InitProcesses, &ir.Process{
			Kind: design.BlockInitial,
			Body: []design.Statement{
				{
					Kind: design.StmtFork,
					Branches: [][]design.Statement{
						{delayStmt(3, display("A"))},
						{delayStmt(1, display("B"))},
					},
					JoinKind: "all",
				},
				display("JOINED"),
			},
		})

		sched := runtime.NewScheduler()
		mod := runtime.BuildModule(sched, im, "top", value.TwoState)

		out := captureStdout(func() {
			Expect(sched.Run(mod)).To(Succeed())
		})
		Expect(strings.Index(out, "JOINED")).To(BeNumerically(">", strings.Index(out, "A")))
		Expect(strings.Index(out, "JOINED")).To(BeNumerically(">", strings.Index(out, "B")))
	})

	// $finish must drain every other still-running process cooperatively
	// rather than leaving it blocked forever.
	It("drains other processes once $finish latches", func() {
		im := ir.NewModule(design.Body{DefName: "top"})
		im.InitProcesses = append(im.InitProcesses,
			&ir.Process{
				Kind: design.BlockInitial,
				Body: []design.Statement{delayStmt(1, finishStmt(7))},
			},
			&ir.Process{
				Kind: design.BlockInitial,
				Body: []design.Statement{delayStmt(1000, display("SHOULD NOT PRINT"))},
			},
		)

		sched := runtime.NewScheduler()
		mod := runtime.BuildModule(sched, im, "top", value.TwoState)

		out := captureStdout(func() {
			Expect(sched.Run(mod)).To(Succeed())
		})
		Expect(out).NotTo(ContainSubstring("SHOULD NOT PRINT"))
		Expect(sched.FinishCode()).To(Equal(7))
	})
})
