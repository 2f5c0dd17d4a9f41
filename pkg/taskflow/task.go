package taskflow

// Task is a lightweight, copyable handle to a node inside a specific
// Taskflow. All wiring operations mutate the owning graph and return the
// receiver so calls can be chained. Handles are valid from emplacement until
// the dispatch that captures their node completes; wiring after that point is
// a caller contract violation.
type Task struct {
	node *node
	tf   *Taskflow
}

// Precede adds an edge from the receiver to v: the receiver's body completes
// before v's body begins.
func (t Task) Precede(v Task) Task {
	t.mustShareTaskflow(v)
	addEdge(t.node, v.node)
	return t
}

// Broadcast adds an edge from the receiver to every given task. Equivalent to
// calling Precede once per argument. Zero arguments is a no-op.
func (t Task) Broadcast(vs ...Task) Task {
	for _, v := range vs {
		t.Precede(v)
	}
	return t
}

// Gather adds an edge from every given task to the receiver: the receiver
// runs only after all of them completed. Zero arguments is a no-op.
func (t Task) Gather(vs ...Task) Task {
	for _, v := range vs {
		t.mustShareTaskflow(v)
		addEdge(v.node, t.node)
	}
	return t
}

// Name sets the display name used by Dump.
func (t Task) Name(name string) Task {
	t.node.name = name
	return t
}

// mustShareTaskflow aborts on wiring across distinct Taskflows, which is a
// caller contract violation with no recovery.
func (t Task) mustShareTaskflow(v Task) {
	if t.tf != v.tf {
		panic("taskflow: cannot wire tasks owned by different Taskflows")
	}
}
