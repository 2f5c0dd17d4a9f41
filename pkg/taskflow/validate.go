package taskflow

import (
	"fmt"

	"github.com/gammazero/toposort"
)

// Validate checks the current, undispatched graph for cycles. The scheduler
// itself never runs this check: a dispatched cycle simply starves and
// WaitForAll blocks, per the documented caveat. Validate exists for callers
// that want to pay for the check up front, typically in development.
func (tf *Taskflow) Validate() error {
	edges := make([]toposort.Edge, 0, len(tf.graph.nodes))
	for _, n := range tf.graph.nodes {
		for _, s := range n.successors {
			edges = append(edges, toposort.Edge{n, s})
		}
	}
	if len(edges) == 0 {
		return nil
	}
	if _, err := toposort.Toposort(edges); err != nil {
		return fmt.Errorf("cycle detected in task graph: %w", err)
	}
	return nil
}
