package runtime

import (
	"fmt"
	"sort"

	"github.com/jedib0t/go-pretty/v6/table"
)

// DumpIR renders one module instance's variable store and process
// inventory to stdout as a pair of tables, the way core/util.go's
// PrintState dumps register/buffer state, then recurses into each child
// instance in name order.
func (m *Module) DumpIR() {
	fmt.Printf("==============Module %s==============\n", m.HierPath)

	varTable := table.NewWriter()
	varTable.SetTitle(fmt.Sprintf("Variables (%s)", m.Name))
	varTable.AppendHeader(table.Row{"Name", "Tracked", "Value"})

	names := make([]string, 0, len(m.tracked)+len(m.plain))
	for n := range m.tracked {
		names = append(names, n)
	}
	for n := range m.plain {
		names = append(names, n)
	}
	sort.Strings(names)

	for _, n := range names {
		if tv, ok := m.tracked[n]; ok {
			varTable.AppendRow(table.Row{n, "yes", tv.Get().String()})
			continue
		}
		varTable.AppendRow(table.Row{n, "no", m.plain[n].Get().String()})
	}
	fmt.Println(varTable.Render())

	procTable := table.NewWriter()
	procTable.SetTitle("Processes")
	procTable.AppendHeader(table.Row{"Kind", "Count"})
	procTable.AppendRow(table.Row{"init", len(m.initProcs)})
	procTable.AppendRow(table.Row{"final", len(m.finalProcs)})
	procTable.AppendRow(table.Row{"ff", len(m.ffProcs)})
	procTable.AppendRow(table.Row{"general_purpose", len(m.generalProcs)})
	procTable.AppendRow(table.Row{"port_driver", len(m.portProcs)})
	fmt.Println(procTable.Render())

	children := make([]string, 0, len(m.Children))
	for n := range m.Children {
		children = append(children, n)
	}
	sort.Strings(children)
	for _, n := range children {
		m.Children[n].DumpIR()
	}
}
