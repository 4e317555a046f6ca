package focus

import "github.com/vireo-tui/vireo/store"

// ScrollBy clamps (dx, dy) against the computed scroll bounds of e (§4.F
// scroll_by, §3.3 I5). Scroll-chaining — forwarding a clamped delta's
// unconsumed residual to the nearest scrollable ancestor — only happens when
// the controller has opted in via SetScrollChaining; spec.md leaves the
// default off.
func (c *Controller) ScrollBy(e store.Entity, dx, dy float64) {
	st := c.st
	if !st.IsLive(e) {
		return
	}
	curX, curY := st.ScrollOffsetX.Peek(e), st.ScrollOffsetY.Peek(e)
	maxX, maxY := outMax(st, e)

	wantX, wantY := curX+dx, curY+dy
	clampedX := clampF(wantX, 0, maxX)
	clampedY := clampF(wantY, 0, maxY)
	st.SetScrollOffset(e, clampedX, clampedY)

	if !c.scrollChaining {
		return
	}
	residualX := wantX - clampedX
	residualY := wantY - clampedY
	if residualX == 0 && residualY == 0 {
		return
	}
	if parent := c.nearestScrollableAncestor(st.Parent(e)); parent != store.Nil {
		c.ScrollBy(parent, residualX, residualY)
	}
}

// ScrollIntoView shifts scrollable's offset by the minimal amount so that
// target's computed rect is fully contained within scrollable's viewport
// rect (§4.F scroll_into_view, §8 scenario E).
func (c *Controller) ScrollIntoView(target, scrollable store.Entity) {
	st := c.st
	if !st.IsLive(target) || !st.IsLive(scrollable) {
		return
	}
	tx, ty := st.OutX[target], st.OutY[target]
	tw, th := st.OutWidth[target], st.OutHeight[target]
	vx, vy := st.OutX[scrollable], st.OutY[scrollable]
	vw, vh := st.OutContentWidth[scrollable], st.OutContentHeight[scrollable]

	curX, curY := st.ScrollOffsetX.Peek(scrollable), st.ScrollOffsetY.Peek(scrollable)
	// target rect in the scrollable's own content coordinate space (layout
	// positions do not include scroll offsets).
	relX, relY := tx-vx, ty-vy

	newX, newY := curX, curY
	if relX < curX {
		newX = relX
	} else if relX+tw > curX+vw {
		newX = relX + tw - vw
	}
	if relY < curY {
		newY = relY
	} else if relY+th > curY+vh {
		newY = relY + th - vh
	}
	st.SetScrollOffset(scrollable, newX, newY)
}

// scrollIntoViewNearestAncestor is invoked as a SetFocus side effect: find
// the nearest scrollable ancestor of target and scroll it into view.
func (c *Controller) scrollIntoViewNearestAncestor(target store.Entity) {
	if anc := c.nearestScrollableAncestor(c.st.Parent(target)); anc != store.Nil {
		c.ScrollIntoView(target, anc)
	}
}

func (c *Controller) nearestScrollableAncestor(start store.Entity) store.Entity {
	st := c.st
	for e := start; e != store.Nil; e = st.Parent(e) {
		if int(e) < len(st.OutIsScrollable) && st.OutIsScrollable[e] {
			return e
		}
	}
	return store.Nil
}

func outMax(st *store.Store, e store.Entity) (float64, float64) {
	maxX, maxY := 0.0, 0.0
	if int(e) < len(st.OutMaxScrollX) {
		maxX = st.OutMaxScrollX[e]
	}
	if int(e) < len(st.OutMaxScrollY) {
		maxY = st.OutMaxScrollY[e]
	}
	return maxX, maxY
}

func clampF(v, lo, hi float64) float64 {
	if hi < lo {
		hi = lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
