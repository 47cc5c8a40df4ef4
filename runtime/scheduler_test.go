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

var _ = Describe("fork/join disciplines", func() {
	It("releases a join-any as soon as the first branch completes", func() {
		im := ir.NewModule(design.Body{DefName: "top"})
		im.InitProcesses = append(im.InitProcesses, &ir.Process{
			Kind: design.BlockInitial,
			Body: []design.Statement{
				{
					Kind: design.StmtFork,
					Branches: [][]design.Statement{
						{delayStmt(1, display("FAST"))},
						{delayStmt(50, display("SLOW"))},
					},
					JoinKind: "any",
				},
				display("RELEASED"),
			},
		})

		sched := runtime.NewScheduler()
		mod := runtime.BuildModule(sched, im, "top", value.TwoState)

		out := captureStdout(func() {
			Expect(sched.Run(mod)).To(Succeed())
		})
		Expect(strings.Index(out, "RELEASED")).To(BeNumerically(">", strings.Index(out, "FAST")))
	})

	It("does not block the parent at all under a join-none discipline", func() {
		im := ir.NewModule(design.Body{DefName: "top"})
		im.InitProcesses = append(im.InitProcesses, &ir.Process{
			Kind: design.BlockInitial,
			Body: []design.Statement{
				{
					Kind: design.StmtFork,
					Branches: [][]design.Statement{
						{delayStmt(5, display("BACKGROUND"))},
					},
					JoinKind: "none",
				},
				display("IMMEDIATE"),
			},
		})

		sched := runtime.NewScheduler()
		mod := runtime.BuildModule(sched, im, "top", value.TwoState)

		out := captureStdout(func() {
			Expect(sched.Run(mod)).To(Succeed())
		})
		Expect(out).To(ContainSubstring("IMMEDIATE"))
		Expect(out).To(ContainSubstring("BACKGROUND"))
	})
})

var _ = Describe("DPI resolver", func() {
	It("reports its result consistently across Open/Resolve/Close", func() {
		r := runtime.NewDPIResolver()
		err := r.Open("nonexistent.so")
		if err == nil {
			_, resolveErr := r.Resolve("some_function")
			Expect(resolveErr).To(HaveOccurred())
			Expect(r.Close()).To(Succeed())
		} else {
			Expect(err).To(HaveOccurred())
		}
	})
})
