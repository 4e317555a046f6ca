package reactive

import (
	"fmt"

	"github.com/vireo-tui/vireo/internal/logx"
)

// Effect is a side-effecting computation re-run whenever a dependency it read
// during its last run invalidates (§4.A). A body may return a cleanup
// function, run before the next re-run and on disposal.
type Effect struct {
	n       *node
	body    func() func()
	cleanup func()
	failed  bool
	k       *kernel
	scope   *Scope
}

// NewEffect creates and immediately runs an effect on the default kernel.
// Prefer Scope.Effect in application code so the effect is disposed with its
// owning scope.
func NewEffect(body func() func()) *Effect {
	e := &Effect{
		body: body,
		k:    defaultKernel,
	}
	e.n = newNode("effect")
	e.n.onStale = func(*node) { e.k.schedule(e) }
	e.run()
	return e
}

// run executes the effect body, re-tracking its dependencies. A panic inside
// the body is caught and logged (§4.A, §7): the effect is marked failed but
// the graph stays consistent and the next invalidation retries it.
func (e *Effect) run() {
	if e.cleanup != nil {
		cleanup := e.cleanup
		e.cleanup = nil
		safeCall(func() { cleanup() })
	}
	e.n.unlinkSources()
	e.n.dirty = false

	defer func() {
		if r := recover(); r != nil {
			e.failed = true
			logx.Default().Error("effect panicked: %v", fmt.Errorf("%v", r))
		}
	}()

	var next func()
	e.k.withTracker(e.n, func() {
		next = e.body()
	})
	e.cleanup = next
}

func safeCall(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			logx.Default().Error("effect cleanup panicked: %v", fmt.Errorf("%v", r))
		}
	}()
	fn()
}

// Dispose runs the effect's cleanup (if any) and detaches it from every
// source so it no longer re-runs.
func (e *Effect) Dispose() {
	e.n.unlinkSources()
	if e.cleanup != nil {
		cleanup := e.cleanup
		e.cleanup = nil
		safeCall(func() { cleanup() })
	}
}
