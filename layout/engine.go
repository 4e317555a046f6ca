package layout

import (
	"math"

	"github.com/vireo-tui/vireo/reactive"
	"github.com/vireo-tui/vireo/store"
)

// Engine owns the measurement cache and exposes the layout computation as a
// single reactive derived (§4.C): "Exposes a single derived layout that
// depends on terminal size, render mode, and the set of allocated entity
// indices, and transitively on every layout-affecting slot of every live
// entity."
type Engine struct {
	st           *store.Store
	cache        *measureCache
	roots        func() []store.Entity
	termWidth    *reactive.Signal[int]
	termHeight   *reactive.Signal[int]
	generation   int
}

// New creates a layout engine bound to st. roots is called once per
// recompute to obtain the current root entities (e.g. a single app root, or
// several top-level overlays); termWidth/termHeight are the terminal-size
// signals from the external transport (§6).
func New(st *store.Store, roots func() []store.Entity, termWidth, termHeight *reactive.Signal[int]) *Engine {
	return &Engine{
		st:         st,
		cache:      newMeasureCache(4096),
		roots:      roots,
		termWidth:  termWidth,
		termHeight: termHeight,
	}
}

// Derived returns the layout derived. Its value is an opaque generation
// counter — downstream consumers (frame builder) read the store's computed
// output columns directly, which is valid precisely because reading this
// derived establishes the dependency that makes those reads current (§4.C:
// "the derived's value may be a handle ... so long as reads after a
// recompute reflect the new layout").
func (eng *Engine) Derived() *reactive.Derived[int] {
	return reactive.NewSimpleDerived(func() int {
		eng.recomputeAll()
		eng.generation++
		return eng.generation
	})
}

func (eng *Engine) recomputeAll() {
	eng.st.ReadStructure()
	w := float64(eng.termWidth.Get())
	h := float64(eng.termHeight.Get())

	ctx := &engineContext{st: eng.st, cache: eng.cache}
	for _, root := range eng.roots() {
		if !eng.st.IsLive(root) || !eng.st.Visible.Get(root) {
			continue
		}
		size := ctx.layoutNode(root, BoxConstraints{MaxWidth: w, MaxHeight: h})
		eng.st.OutX[root] = 0
		eng.st.OutY[root] = 0
		_ = size
	}
	eng.resolveAbsolutes(ctx)
}

// resolveAbsolutes implements §4.C step 8: absolutely positioned entities
// are laid out against their nearest positioned-or-root ancestor using inset
// top/right/bottom/left, and never influence normal-flow sizing (which is
// why they were excluded from layoutContainer's children list).
func (eng *Engine) resolveAbsolutes(ctx *engineContext) {
	st := eng.st
	for _, e := range ctx.absolutes {
		container := eng.nearestPositionedAncestor(e)
		if container == store.Nil {
			continue
		}
		st.EnsureComputedCapacity(e)
		cw, ch := st.OutWidth[container], st.OutHeight[container]

		w, hasW := resolveDimension(st.Width.Get(e), cw)
		h, hasH := resolveDimension(st.Height.Get(e), ch)
		constraints := BoxConstraints{MaxWidth: cw, MaxHeight: ch}
		if hasW {
			constraints.MinWidth = w
			constraints.MaxWidth = w
		}
		if hasH {
			constraints.MinHeight = h
			constraints.MaxHeight = h
		}
		size := ctx.layoutNode(e, constraints)

		inset := st.Inset.Get(e)
		x, y := st.OutX[container], st.OutY[container]
		switch {
		case inset.HasLeft:
			x += inset.Left
		case inset.HasRight:
			x += cw - size.Width - inset.Right
		}
		switch {
		case inset.HasTop:
			y += inset.Top
		case inset.HasBottom:
			y += ch - size.Height - inset.Bottom
		}
		// layoutNode left e at (0, 0); shift it and its subtree into place.
		offsetChild(st, e, math.Round(x), math.Round(y))
	}
}

// nearestPositionedAncestor walks up from e's parent looking for a
// container; absent an explicit "position: relative" concept in this data
// model, the nearest ancestor (or the root) serves as the containing block.
func (eng *Engine) nearestPositionedAncestor(e store.Entity) store.Entity {
	st := eng.st
	p := st.Parent(e)
	for p != store.Nil {
		if st.IsLive(p) {
			return p
		}
		p = st.Parent(p)
	}
	return store.Nil
}
