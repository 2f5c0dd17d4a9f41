package taskflow

import (
	"log/slog"
	"sync/atomic"
)

// node is a single vertex of the graph. It is un-exported to enforce
// interaction through Task handles, not by direct struct manipulation.
type node struct {
	// name is the display name used by Dump. Empty by default.
	name string
	// run is the wrapped task body. Invoked at most once per dispatch.
	run func(logger *slog.Logger)
	// pending counts dependencies that have not completed yet. It is bumped
	// once per incoming edge at wiring time and decremented by workers.
	pending atomic.Int32
	// successors holds outgoing edges in insertion order. Duplicate edges are
	// kept as-is; each one bumped the successor's pending count.
	successors []*node
	// numDependents is the incoming-edge count at construction time. Wiring
	// only, used by Dump.
	numDependents int
	// topo is the topology this node was captured into. Set at dispatch.
	topo *topology
}

// addEdge records "u must complete before v starts".
func addEdge(u, v *node) {
	u.successors = append(u.successors, v)
	v.numDependents++
	v.pending.Add(1)
}

// graph is the append-only arena owning all nodes accumulated since the last
// dispatch. Construction is single-goroutine; workers never see a graph, only
// the topology it was captured into.
type graph struct {
	nodes []*node
}

func newGraph() *graph {
	return &graph{}
}

func (g *graph) push(n *node) {
	g.nodes = append(g.nodes, n)
}
