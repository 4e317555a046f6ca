// Package engine wires the reactive kernel, layout engine, frame builder,
// diff renderer, and focus/event dispatch into the single per-tick pipeline
// (§4.G): mount builds the tree once, then every input message drives one
// batched mutation followed by one deterministic layout -> frame -> render
// pass.
package engine

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vireo-tui/vireo/event"
	"github.com/vireo-tui/vireo/focus"
	"github.com/vireo-tui/vireo/frame"
	"github.com/vireo-tui/vireo/internal/logx"
	"github.com/vireo-tui/vireo/layout"
	"github.com/vireo-tui/vireo/reactive"
	"github.com/vireo-tui/vireo/render"
	"github.com/vireo-tui/vireo/store"
	"github.com/vireo-tui/vireo/term"
)

// defaultFrameBudget is the slow-frame warning threshold used when
// Options.FrameBudget is zero, matching the teacher scheduler's 2ms default.
const defaultFrameBudget = 2 * time.Millisecond

// RootFunc builds the UI tree once at mount time and returns its root
// entities (§4.G step 3).
type RootFunc func(st *store.Store, scope *reactive.Scope) []store.Entity

// Options configures Mount (§4.G steps 1-2).
type Options struct {
	Mode          render.Mode
	Profile       term.ColorProfile
	Sink          render.Sink
	InitialWidth  int
	InitialHeight int
	// FrameBudget bounds how long a single paint may spend in the render
	// phase before logging a slow-frame warning; zero uses the default.
	FrameBudget time.Duration
}

// Engine owns every pipeline package instance plus the terminal-size
// signals and the single root render effect (§4.G).
type Engine struct {
	st     *store.Store
	scope  *reactive.Scope
	layout *layout.Engine
	focus  *focus.Controller
	events *event.Dispatcher

	emitter *render.Emitter

	termWidth  *reactive.Signal[int]
	termHeight *reactive.Signal[int]
	roots      []store.Entity

	layoutDerived *reactive.Derived[int]
	renderEffect  *reactive.Effect

	budget   time.Duration
	lastGrid *frame.Grid
	resize   *term.ResizeWatcher
}

// Mount performs §4.G's mount sequence: initialize the root scope and
// terminal-size signals, invoke the user's root component function, wire the
// layout/focus/event/render packages together, and register the single root
// effect that turns a settled layout into a rendered frame. The first frame
// is produced synchronously before Mount returns.
func Mount(st *store.Store, root RootFunc, opts Options) *Engine {
	scope := reactive.NewScope()
	termWidth := reactive.NewSimpleSignal(opts.InitialWidth)
	termHeight := reactive.NewSimpleSignal(opts.InitialHeight)

	roots := root(st, scope)

	lay := layout.New(st, func() []store.Entity { return roots }, termWidth, termHeight)
	fc := focus.New(st)
	disp := event.New(st, fc)
	emitter := render.New(opts.Mode, opts.Sink, opts.Profile)

	budget := opts.FrameBudget
	if budget <= 0 {
		budget = defaultFrameBudget
	}

	eng := &Engine{
		st:            st,
		scope:         scope,
		layout:        lay,
		focus:         fc,
		events:        disp,
		emitter:       emitter,
		termWidth:     termWidth,
		termHeight:    termHeight,
		roots:         roots,
		layoutDerived: lay.Derived(),
		budget:        budget,
	}

	if err := emitter.Setup(); err != nil {
		logx.Default().Error("render setup: %v", err)
	}

	// The render effect is the sole consumer of layout/focus state and the
	// sole producer of frames. Effects flush in the order they were
	// scheduled; inside a Dispatch or Resize batch the render effect is only
	// queued, and runs once after the batch ends, so a tick's frame never
	// observes half-applied state (§8 batch atomicity).
	eng.renderEffect = scope.Effect(func() func() {
		eng.paint()
		return nil
	})

	return eng
}

// Store returns the entity/slot store, for application code that needs to
// allocate or mutate entities outside the root component closure.
func (eng *Engine) Store() *store.Store { return eng.st }

// Scope returns the root scope, so application code can create child scopes
// and effects disposed alongside the engine.
func (eng *Engine) Scope() *reactive.Scope { return eng.scope }

// Focus returns the focus controller (tab order, traps, scroll-into-view).
func (eng *Engine) Focus() *focus.Controller { return eng.focus }

// Events returns the input dispatcher, for registering key handlers.
func (eng *Engine) Events() *event.Dispatcher { return eng.events }

// LastGrid returns the most recently built frame (for hit-testing outside a
// tea.Program host, e.g. tests).
func (eng *Engine) LastGrid() *frame.Grid { return eng.lastGrid }

// Resize updates the terminal-size signals inside a batch. The layout
// derived reads termWidth/termHeight directly, so the render effect
// invalidates and repaints synchronously before Resize returns; the
// renderer's own size-mismatch check (§4.E) forces a full redraw without
// needing a separate invalidation call.
func (eng *Engine) Resize(width, height int) {
	reactive.Batch(func() {
		eng.termWidth.Set(width)
		eng.termHeight.Set(height)
	})
}

// WatchResize starts a ResizeWatcher bound to the engine's own terminal-size
// signals, so SIGWINCH-driven size changes flow straight into the layout
// engine (and from there into the render effect) without a separate bridge.
func (eng *Engine) WatchResize(sizeFn func() (int, int)) *term.ResizeWatcher {
	rw := term.NewResizeWatcher(eng.termWidth, eng.termHeight, sizeFn)
	rw.Start()
	eng.resize = rw
	return rw
}

// Dispatch feeds one bubbletea message through the input dispatcher inside a
// batch (§4.G step 5). Any resulting store/focus mutation invalidates the
// root render effect, which repaints synchronously before the batch returns
// — there is no separate post-dispatch render call, so a tick's frame always
// reflects every mutation the dispatch made, never a partial one (§8 batch
// atomicity).
func (eng *Engine) Dispatch(msg tea.Msg) {
	if wsm, ok := msg.(tea.WindowSizeMsg); ok {
		eng.Resize(wsm.Width, wsm.Height)
		return
	}
	reactive.Batch(func() {
		eng.events.HandleTeaMsg(msg)
	})
}

// Quit reports whether a global quit shortcut (Ctrl+C) was observed.
func (eng *Engine) Quit() bool { return eng.events.Quit() }

// paint recomputes layout if dirty, rebuilds the frame, and renders the
// diff. Safe to call redundantly: layout/Derived and the renderer's diff
// both short-circuit when nothing changed.
func (eng *Engine) paint() {
	start := time.Now()
	eng.layoutDerived.Get()
	focused := eng.focus.Focused().Get()
	w, h := eng.termWidth.Peek(), eng.termHeight.Peek()
	if w <= 0 || h <= 0 {
		return
	}
	g := frame.Build(eng.st, eng.roots, w, h, focused)
	eng.events.SetGrid(g)
	eng.lastGrid = g
	if err := eng.emitter.Render(g); err != nil {
		logx.Default().Error("render: %v", err)
	}
	if elapsed := time.Since(start); elapsed > eng.budget {
		logx.Default().Warn("frame exceeded budget: %s > %s", elapsed, eng.budget)
	}
}

// Unmount disposes the root scope (tearing down every owned effect and
// nested scope) and writes the renderer's exit sequence.
func Unmount(eng *Engine) {
	if eng.resize != nil {
		eng.resize.Stop()
	}
	eng.scope.Dispose()
	if err := eng.emitter.Teardown(); err != nil {
		logx.Default().Error("render teardown: %v", err)
	}
}
