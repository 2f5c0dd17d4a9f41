package taskflow

import "log/slog"

// worker is the processing loop for a single pool goroutine. It sleeps on the
// scheduler condvar while the ready queue is empty and exits once shutdown is
// flagged and the queue has drained.
func (tf *Taskflow) worker(id int) {
	defer tf.wg.Done()
	logger := tf.logger.With("worker", id)
	logger.Debug("Worker started.")

	for {
		tf.mu.Lock()
		for len(tf.ready) == 0 && !tf.shutdown {
			tf.workAvail.Wait()
		}
		if len(tf.ready) == 0 {
			tf.mu.Unlock()
			logger.Debug("Worker finished.")
			return
		}
		n := tf.ready[0]
		tf.ready = tf.ready[1:]
		tf.mu.Unlock()

		tf.runNode(n, logger)
	}
}

// runNode executes one node's body, unlocks any successors whose last
// dependency just finished, and retires the node against its topology.
func (tf *Taskflow) runNode(n *node, logger *slog.Logger) {
	n.run(logger)

	for _, s := range n.successors {
		if s.pending.Add(-1) == 0 {
			tf.mu.Lock()
			tf.ready = append(tf.ready, s)
			tf.mu.Unlock()
			tf.workAvail.Signal()
		}
	}

	t := n.topo
	if t.outstanding.Add(-1) == 0 {
		tf.finishTopology(t)
	}
}

// finishTopology fires the topology's completion promise and wakes anyone
// parked in WaitForAll.
func (tf *Taskflow) finishTopology(t *topology) {
	if t.done != nil {
		t.done.Complete(struct{}{}, nil)
	}
	tf.mu.Lock()
	tf.inflight--
	tf.mu.Unlock()
	tf.allDone.Broadcast()
}

// drain runs the zero-worker mode: the calling goroutine executes every ready
// node itself until no topology remains in flight. A graph that starves its
// own successors (a cycle) parks here forever, per the documented caveat.
func (tf *Taskflow) drain() {
	for {
		tf.mu.Lock()
		for len(tf.ready) == 0 && tf.inflight > 0 {
			tf.workAvail.Wait()
		}
		if tf.inflight == 0 {
			tf.mu.Unlock()
			return
		}
		n := tf.ready[0]
		tf.ready = tf.ready[1:]
		tf.mu.Unlock()

		tf.runNode(n, tf.logger)
	}
}
