package taskflow

import (
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"

	"github.com/vk/gridflow/pkg/future"
)

// Option configures a Taskflow at construction time.
type Option func(*Taskflow)

// WithLogger sets the structured logger used by the scheduler and its
// workers. The default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(tf *Taskflow) {
		tf.logger = logger
	}
}

// Taskflow is the user-facing scheduler. It owns a fixed worker pool, the
// graph currently under construction, and the shared ready queue that
// workers drain.
//
// Emplacement, wiring, dispatch and Dump must all happen on one goroutine
// (the owner). WaitForAll and future Gets may happen anywhere.
type Taskflow struct {
	logger     *slog.Logger
	numWorkers int

	mu        sync.Mutex
	workAvail *sync.Cond // workers sleep here while the ready queue is empty
	allDone   *sync.Cond // WaitForAll sleeps here while topologies are in flight
	ready     []*node    // FIFO ready queue, guarded by mu
	inflight  int        // dispatched topologies not yet complete, guarded by mu
	shutdown  bool       // guarded by mu

	graph  *graph // owner-goroutine only
	wg     sync.WaitGroup
	closed bool // owner-goroutine only
}

// New creates a Taskflow with the given number of workers. Zero workers is
// legal: no pool goroutines are started and WaitForAll executes all tasks on
// the calling goroutine, which is the recommended debug mode.
func New(workers int, opts ...Option) *Taskflow {
	if workers < 0 {
		panic(fmt.Sprintf("taskflow: negative worker count %d", workers))
	}
	tf := &Taskflow{
		logger:     slog.Default(),
		numWorkers: workers,
		graph:      newGraph(),
	}
	tf.workAvail = sync.NewCond(&tf.mu)
	tf.allDone = sync.NewCond(&tf.mu)
	for _, opt := range opts {
		opt(tf)
	}

	tf.logger.Debug("Starting worker pool.", "workers", workers)
	tf.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go tf.worker(i)
	}
	return tf
}

// NumWorkers returns the size of the worker pool.
func (tf *Taskflow) NumWorkers() int {
	return tf.numWorkers
}

// NumNodes returns the number of nodes in the current, undispatched graph.
func (tf *Taskflow) NumNodes() int {
	return len(tf.graph.nodes)
}

// Emplace adds a value-returning task to tf's current graph. The returned
// future is completed by the worker that runs the body: with the body's value
// on success, with its error on failure, and with a *PanicError if the body
// panicked. It is a package function rather than a method because methods
// cannot introduce type parameters.
func Emplace[T any](tf *Taskflow, body func() (T, error)) (Task, *future.Future[T]) {
	tf.mustBeOpen()
	promise, fut := future.New[T]()
	n := &node{}
	n.run = func(logger *slog.Logger) {
		defer func() {
			if r := recover(); r != nil {
				var zero T
				promise.Complete(zero, &PanicError{Value: r, Stack: debug.Stack()})
			}
		}()
		v, err := body()
		promise.Complete(v, err)
	}
	tf.graph.push(n)
	return Task{node: n, tf: tf}, fut
}

// SilentEmplace adds tasks whose return values nobody observes. Handles are
// returned in argument order. A panicking body is logged and otherwise
// discarded; its successors still run. Calling with no arguments returns nil.
func (tf *Taskflow) SilentEmplace(bodies ...func()) []Task {
	tf.mustBeOpen()
	if len(bodies) == 0 {
		return nil
	}
	tasks := make([]Task, 0, len(bodies))
	for _, body := range bodies {
		body := body
		n := &node{}
		n.run = func(logger *slog.Logger) {
			defer func() {
				if r := recover(); r != nil {
					logger.Error("Silent task panicked, discarding failure.", "task", n.name, "panic", r)
				}
			}()
			body()
		}
		tf.graph.push(n)
		tasks = append(tasks, Task{node: n, tf: tf})
	}
	return tasks
}

// Dispatch captures the current graph into a topology, hands its source set
// to the workers and returns a future that fires once every node of that
// topology has completed. The graph is replaced with a fresh empty one, so
// subsequent emplacements accumulate into the next dispatch cycle.
func (tf *Taskflow) Dispatch() *future.Future[struct{}] {
	promise, fut := future.New[struct{}]()
	tf.dispatch(promise)
	return fut
}

// SilentDispatch is Dispatch without a completion future.
func (tf *Taskflow) SilentDispatch() {
	tf.dispatch(nil)
}

func (tf *Taskflow) dispatch(done *future.Promise[struct{}]) {
	tf.mustBeOpen()
	g := tf.graph
	tf.graph = newGraph()

	if len(g.nodes) == 0 {
		if done != nil {
			done.Complete(struct{}{}, nil)
		}
		return
	}

	t := newTopology(g.nodes, done)
	sources := t.sources()
	tf.logger.Debug("Dispatching topology.", "nodes", len(t.nodes), "sources", len(sources))

	tf.mu.Lock()
	tf.inflight++
	tf.ready = append(tf.ready, sources...)
	tf.mu.Unlock()
	tf.workAvail.Broadcast()
}

// WaitForAll blocks until every dispatched topology has completed. A
// non-empty current graph is implicitly dispatched first. On return the
// Taskflow holds no in-flight work and no pending nodes.
func (tf *Taskflow) WaitForAll() {
	if len(tf.graph.nodes) > 0 {
		tf.SilentDispatch()
	}
	if tf.numWorkers == 0 {
		tf.drain()
		return
	}
	tf.mu.Lock()
	for tf.inflight > 0 {
		tf.allDone.Wait()
	}
	tf.mu.Unlock()
}

// Close waits for all dispatched work, then stops and joins the workers.
// The Taskflow must not be used afterwards. Close is idempotent.
func (tf *Taskflow) Close() {
	if tf.closed {
		return
	}
	tf.WaitForAll()
	tf.closed = true

	tf.mu.Lock()
	tf.shutdown = true
	tf.mu.Unlock()
	tf.workAvail.Broadcast()
	tf.wg.Wait()
	tf.logger.Debug("Worker pool stopped.")
}

// mustBeOpen aborts on use after Close, a caller contract violation.
func (tf *Taskflow) mustBeOpen() {
	if tf.closed {
		panic("taskflow: use after Close")
	}
}
