package elaborate

import "sort"

// SensitivityTracker computes a combinational process's sensitivity list
// incrementally as block nodes are folded into it:
// `nodes` accumulates upstream variables whose effect isn't masked yet,
// `provides` accumulates variables already driven by earlier nodes in
// the stream. The final list excludes anything the process itself
// provides, avoiding self-triggering on a variable used both for
// accumulation and as output.
type SensitivityTracker struct {
	nodes map[string]bool
	provides map[string]bool
}

// NewSensitivityTracker returns an empty tracker.
func NewSensitivityTracker() *SensitivityTracker {
	return &SensitivityTracker{
		nodes: make(map[string]bool),
		provides: make(map[string]bool),
	}
}

// Add folds one block node's reads/writes into the tracker.
func (s *SensitivityTracker) Add(reads, writes []string) {
	for _, r := range reads {
		s.nodes[r] = true
	}
	for _, w := range writes {
		s.provides[w] = true
	}
}

// List returns {n in nodes : n not in provides}, sorted lexicographically
// for determinism.
func (s *SensitivityTracker) List() []string {
	var out []string
	for n := range s.nodes {
		if !s.provides[n] {
			out = append(out, n)
		}
	}
	sort.Strings(out)
	return out
}
