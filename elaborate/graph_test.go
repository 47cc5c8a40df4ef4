package elaborate_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/veridian-silicon/xsim/elaborate"
)

var _ = Describe("Graph", func() {
	It("topologically sorts a simple producer/consumer chain", func() {
		g := elaborate.NewGraph()
		g.NewBlockNode([]string{"a"}, []string{"b"})
		g.NewBlockNode([]string{"b"}, []string{"c"})

		order, err := g.TopoSort("top")
		Expect(err).ToNot(HaveOccurred())

		pos := map[string]int{}
		for i, n := range order {
			pos[n] = i
		}
		Expect(pos["a"]).To(BeNumerically("<", pos["b"]))
		Expect(pos["b"]).To(BeNumerically("<", pos["c"]))
	})

	It("reports a combinational loop with the hierarchical path", func() {
		g := elaborate.NewGraph()
		g.NewBlockNode([]string{"a"}, []string{"b"})
		g.NewBlockNode([]string{"b"}, []string{"a"})

		_, err := g.TopoSort("top.sub")
		Expect(err).To(HaveOccurred())
		Expect(err.Error()).To(ContainSubstring("top.sub"))

		var loopErr *elaborate.CombinationalLoopError
		Expect(err).To(BeAssignableToTypeOf(loopErr))
	})
})

var _ = Describe("SensitivityTracker", func() {
	It("excludes a variable the process itself provides", func() {
		tr := elaborate.NewSensitivityTracker()
		tr.Add([]string{"a", "acc"}, []string{"acc"})

		Expect(tr.List()).To(Equal([]string{"a"}))
	})

	It("sorts the sensitivity list lexicographically", func() {
		tr := elaborate.NewSensitivityTracker()
		tr.Add([]string{"z", "a", "m"}, nil)

		Expect(tr.List()).To(Equal([]string{"a", "m", "z"}))
	})
})
