// Package reactive implements the signal/derived/effect/scope/batch primitives
// that drive the rest of the engine. Scheduling is single-threaded cooperative:
// callers are expected to serialize all access through one goroutine (the
// pipeline glue in package engine); the kernel itself only guards its internal
// bookkeeping with a mutex so that accidental cross-goroutine reads don't race.
package reactive

import (
	"sync"

	"github.com/vireo-tui/vireo/internal/logx"
)

// node is the common bookkeeping embedded by signals, deriveds and effects so
// the dependency graph can treat them uniformly.
type node struct {
	mu        sync.Mutex
	observers map[*node]struct{} // nodes that read this one during their last run
	sources   map[*node]struct{} // nodes this one read during its last run
	dirty     bool
	kind      string // "signal" | "derived" | "effect", for debugging only
	onStale   func(*node) // invoked when this node is invalidated
}

func newNode(kind string) *node {
	return &node{
		observers: make(map[*node]struct{}),
		sources:   make(map[*node]struct{}),
		kind:      kind,
	}
}

// unlinkSources removes this node from every source's observer set; called
// before re-running a derived/effect body so stale edges don't linger.
func (n *node) unlinkSources() {
	for s := range n.sources {
		s.mu.Lock()
		delete(s.observers, n)
		s.mu.Unlock()
	}
	n.sources = make(map[*node]struct{})
}

// addSource records that n read src during its current run.
func (n *node) addSource(src *node) {
	n.sources[src] = struct{}{}
	src.mu.Lock()
	src.observers[n] = struct{}{}
	src.mu.Unlock()
}

// tracker is the ambient dependency-collection context. A nil tracker means
// untracked (reads register no dependency).
type tracker struct {
	current *node
}

// kernel owns the ambient tracking stack, the batch depth counter, and the
// pending-effect queue. A package-level default kernel is used by the
// top-level constructors (Signal, Derived, Effect, Scope) so call sites stay
// terse, mirroring the teacher's module-singleton-turned-explicit-instance
// pattern (see DESIGN.md "Open Question decisions").
type kernel struct {
	mu          sync.Mutex
	trackerTop  *node
	batchDepth  int
	pending     []*Effect
	pendingSeen map[*Effect]struct{}
	logger      logx.Logger
}

func newKernel() *kernel {
	return &kernel{
		pendingSeen: make(map[*Effect]struct{}),
		logger:      logx.Default(),
	}
}

var defaultKernel = newKernel()

// currentTracker returns the node currently collecting dependencies, or nil.
func (k *kernel) currentTracker() *node {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.trackerTop
}

func (k *kernel) withTracker(n *node, fn func()) {
	k.mu.Lock()
	prev := k.trackerTop
	k.trackerTop = n
	k.mu.Unlock()

	defer func() {
		k.mu.Lock()
		k.trackerTop = prev
		k.mu.Unlock()
	}()
	fn()
}

// track registers a dependency of the active tracker (if any) on src.
func (k *kernel) track(src *node) {
	k.mu.Lock()
	cur := k.trackerTop
	k.mu.Unlock()
	if cur == nil || cur == src {
		return
	}
	cur.addSource(src)
}

// beginBatch/endBatch implement §4.A Batch: invalidations during a batch
// coalesce and effects flush once at the outermost end.
func (k *kernel) beginBatch() {
	k.mu.Lock()
	k.batchDepth++
	k.mu.Unlock()
}

func (k *kernel) endBatch() {
	k.mu.Lock()
	k.batchDepth--
	depth := k.batchDepth
	k.mu.Unlock()
	if depth == 0 {
		k.flush()
	}
}

// schedule enqueues an effect to run; dedups so one effect runs at most once
// per flush, satisfying §8 property 7 (batch atomicity).
func (k *kernel) schedule(e *Effect) {
	k.mu.Lock()
	if _, ok := k.pendingSeen[e]; ok {
		k.mu.Unlock()
		return
	}
	k.pendingSeen[e] = struct{}{}
	k.pending = append(k.pending, e)
	depth := k.batchDepth
	k.mu.Unlock()
	if depth == 0 {
		k.flush()
	}
}

// flush runs every pending effect exactly once, in enqueue order. Running an
// effect may enqueue more effects (a write inside an effect body); those are
// appended and processed in the same flush. A derived an effect reads has
// already recomputed, because deriveds recompute as soon as a source
// invalidates them (Derived.onInvalidate).
func (k *kernel) flush() {
	for {
		k.mu.Lock()
		if len(k.pending) == 0 {
			k.mu.Unlock()
			return
		}
		e := k.pending[0]
		k.pending = k.pending[1:]
		delete(k.pendingSeen, e)
		k.mu.Unlock()

		e.run()
	}
}

// Batch runs fn with invalidations coalesced; nested batches only flush when
// the outermost one ends.
func Batch(fn func()) {
	defaultKernel.beginBatch()
	defer defaultKernel.endBatch()
	fn()
}

// Untracked runs fn with dependency tracking suspended, per §4.A.
func Untracked[T any](fn func() T) T {
	var result T
	defaultKernel.withTracker(nil, func() {
		result = fn()
	})
	return result
}

// UntrackedVoid is Untracked for side-effecting closures with no return value.
func UntrackedVoid(fn func()) {
	defaultKernel.withTracker(nil, fn)
}
