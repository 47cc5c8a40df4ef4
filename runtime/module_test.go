package runtime_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/veridian-silicon/xsim/design"
	"github.com/veridian-silicon/xsim/ir"
	"github.com/veridian-silicon/xsim/runtime"
	"github.com/veridian-silicon/xsim/value"
)

var _ = Describe("Module variable classification", func() {
	It("builds a module with a comb-sensitivity variable and dumps it without panicking", func() {
		im := ir.NewModule(design.Body{DefName: "top"})
		im.Def.Variables = []design.Variable{
			varDecl("a", 7, 0),
			varDecl("b", 7, 0),
		}
		im.CombProcesses = append(im.CombProcesses, &ir.CombProcess{
			Process:       ir.Process{Kind: design.BlockAlwaysComb, Body: []design.Statement{assignB(design.Ref("b"), design.Ref("a"))}},
			SensitiveList: []string{"a"},
			CombKind:      ir.AlwaysComb,
		})

		sched := runtime.NewScheduler()
		mod := runtime.BuildModule(sched, im, "top", value.TwoState)

		Expect(func() { mod.DumpIR() }).NotTo(Panic())
	})

	It("starts an undriven four-state variable at x", func() {
		im := ir.NewModule(design.Body{DefName: "top"})
		im.Def.Variables = []design.Variable{varDecl("a", 3, 0)}
		im.InitProcesses = append(im.InitProcesses, &ir.Process{
			Kind: design.BlockInitial,
			Body: []design.Statement{display("a=%d", design.Ref("a"))},
		})
		sched := runtime.NewScheduler()
		mod := runtime.BuildModule(sched, im, "top", value.FourState)

		out := captureStdout(func() {
			Expect(sched.Run(mod)).To(Succeed())
		})
		Expect(out).To(ContainSubstring("a=xxxx"))
	})
})
