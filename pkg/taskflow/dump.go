package taskflow

import (
	"fmt"
	"strings"
)

// Dump renders the current, undispatched graph: one paragraph per node in
// insertion order giving its name, incoming-edge count and outgoing edges.
//
//	Task "A" [dependents:0|successors:1]
//	  |--> task "B"
//	Task "B" [dependents:1|successors:0]
//
// Lines are separated by single newlines with no trailing newline.
func (tf *Taskflow) Dump() string {
	var sb strings.Builder
	for i, n := range tf.graph.nodes {
		if i > 0 {
			sb.WriteByte('\n')
		}
		fmt.Fprintf(&sb, "Task %q [dependents:%d|successors:%d]", n.name, n.numDependents, len(n.successors))
		for _, s := range n.successors {
			fmt.Fprintf(&sb, "\n  |--> task %q", s.name)
		}
	}
	return sb.String()
}
