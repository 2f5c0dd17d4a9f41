package taskflow

import (
	"sync/atomic"

	"github.com/vk/gridflow/pkg/future"
)

// topology is the snapshot of a graph committed by one dispatch call. It is
// the scheduler's unit of completion tracking: once every captured node has
// run, the topology is done and its promise (if any) fires.
type topology struct {
	nodes       []*node
	outstanding atomic.Int64
	// done is nil for silent dispatches.
	done *future.Promise[struct{}]
}

func newTopology(nodes []*node, done *future.Promise[struct{}]) *topology {
	t := &topology{nodes: nodes, done: done}
	t.outstanding.Store(int64(len(nodes)))
	for _, n := range nodes {
		n.topo = t
	}
	return t
}

// sources returns the nodes with no unfinished dependencies, the initial
// frontier handed to the ready queue.
func (t *topology) sources() []*node {
	var out []*node
	for _, n := range t.nodes {
		if n.pending.Load() == 0 {
			out = append(out, n)
		}
	}
	return out
}
