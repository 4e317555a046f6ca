// Package focus implements the focused-entity signal, tab order, focus
// traps, focus history, scroll-into-view and the cursor blink clock (§4.F).
package focus

import (
	"sort"

	"github.com/vireo-tui/vireo/reactive"
	"github.com/vireo-tui/vireo/store"
)

// Controller owns the focused-entity signal and everything that mutates it.
type Controller struct {
	st      *store.Store
	focused *reactive.Signal[store.Entity]
	traps   *trapStack
	hist    history
	blink   *BlinkController

	// scrollChaining controls whether ScrollBy forwards a clamped delta's
	// residual to the nearest scrollable ancestor. Off by default: spec.md's
	// "Open questions / ambiguities" section leaves this an explicit opt-in,
	// not a default-on behavior.
	scrollChaining bool
}

// New creates a controller over st, with nothing focused.
func New(st *store.Store) *Controller {
	return &Controller{
		st:      st,
		focused: reactive.NewSimpleSignal(store.Nil),
		traps:   newTrapStack(st),
		blink:   NewBlinkController(),
	}
}

// SetScrollChaining turns scroll-chaining on or off (§4.F scroll_by). User
// code opts in explicitly; a fresh Controller starts with it disabled.
func (c *Controller) SetScrollChaining(enabled bool) { c.scrollChaining = enabled }

// ScrollChaining reports the current scroll-chaining setting.
func (c *Controller) ScrollChaining() bool { return c.scrollChaining }

// Blink exposes the shared cursor-blink clock controller so render code can
// read the on/off signal for a focused input's blink rate.
func (c *Controller) Blink() *BlinkController { return c.blink }

// Focused is the reactive handle for the currently focused entity, -1 (Nil)
// when none; layout/render code reads this to know which input to overlay a
// cursor on.
func (c *Controller) Focused() *reactive.Signal[store.Entity] { return c.focused }

// eligible reports whether e can currently receive focus: live, visible,
// focusable (explicit or layout-derived auto-focusable), and inside the
// active trap if one exists (§3.3 I6).
func (c *Controller) eligible(e store.Entity) bool {
	st := c.st
	if !st.IsLive(e) || !st.Visible.Peek(e) {
		return false
	}
	focusable := st.Focusable.Peek(e)
	if !focusable && int(e) < len(st.OutAutoFocusable) {
		focusable = st.OutAutoFocusable[e]
	}
	if !focusable {
		return false
	}
	return c.traps.allows(e)
}

// tabOrder returns every eligible entity with tab_index >= 0, sorted by
// (tab_index, allocation_order) (§4.F).
func (c *Controller) tabOrder() []store.Entity {
	st := c.st
	var out []store.Entity
	for e := store.Entity(0); int(e) < st.Capacity(); e++ {
		if !c.eligible(e) {
			continue
		}
		if st.TabIndex.Peek(e) < 0 {
			continue
		}
		out = append(out, e)
	}
	sort.SliceStable(out, func(i, j int) bool {
		ti, tj := st.TabIndex.Peek(out[i]), st.TabIndex.Peek(out[j])
		if ti != tj {
			return ti < tj
		}
		return out[i] < out[j] // allocation order: lower index allocated first
	})
	return out
}

// FocusNext moves focus to the next entry in tab order, wrapping to the
// first entry past the end. From "none focused" it moves to the first entry.
func (c *Controller) FocusNext() {
	order := c.tabOrder()
	if len(order) == 0 {
		return
	}
	cur := c.focused.Peek()
	idx := indexOf(order, cur)
	next := order[0]
	if idx >= 0 {
		next = order[(idx+1)%len(order)]
	}
	c.SetFocus(next)
}

// FocusPrev is FocusNext in reverse.
func (c *Controller) FocusPrev() {
	order := c.tabOrder()
	if len(order) == 0 {
		return
	}
	cur := c.focused.Peek()
	idx := indexOf(order, cur)
	prev := order[len(order)-1]
	if idx >= 0 {
		prev = order[(idx-1+len(order))%len(order)]
	}
	c.SetFocus(prev)
}

func indexOf(order []store.Entity, e store.Entity) int {
	for i, v := range order {
		if v == e {
			return i
		}
	}
	return -1
}

// SetFocus moves focus to target, rejecting the request if target is not
// eligible (e.g. outside the active focus trap). Side effects (blur/focus
// callbacks, scroll-into-view) run synchronously inside an untracked region
// so they don't pollute whatever reactive computation called this (§4.F).
func (c *Controller) SetFocus(target store.Entity) {
	if target != store.Nil && !c.eligible(target) {
		return
	}
	prev := c.focused.Peek()
	if prev == target {
		return
	}
	reactive.UntrackedVoid(func() {
		if prev != store.Nil && c.st.IsLive(prev) {
			c.hist.push(historyEntry{index: prev, id: c.st.UserID.Peek(prev)})
			if h := c.st.Handlers.Peek(prev); h.OnBlur != nil {
				h.OnBlur()
			}
		}
		c.focused.Set(target)
		if target != store.Nil {
			if h := c.st.Handlers.Peek(target); h.OnFocus != nil {
				h.OnFocus()
			}
			c.blink.ResetOn(c.st.CursorBlinkFPS.Peek(target))
			c.scrollIntoViewNearestAncestor(target)
		}
	})
}

// Blur clears focus (equivalent to SetFocus(store.Nil)).
func (c *Controller) Blur() { c.SetFocus(store.Nil) }

// RestoreFromHistory pops the most recent valid history entry and focuses
// it, discarding stale entries along the way (§4.F focus history).
func (c *Controller) RestoreFromHistory() {
	e, ok := c.hist.pop(c.st)
	if !ok {
		return
	}
	c.SetFocus(e)
}

// PushTrap activates a new focus trap; if the currently focused entity falls
// outside it, focus moves to the trap's first eligible descendant.
func (c *Controller) PushTrap(trap Trap) {
	c.traps.Push(trap)
	cur := c.focused.Peek()
	if cur != store.Nil && c.eligible(cur) {
		return
	}
	order := c.tabOrder()
	if len(order) > 0 {
		c.SetFocus(order[0])
	} else {
		c.Blur()
	}
}

// PopTrap deactivates the top trap.
func (c *Controller) PopTrap() (Trap, bool) { return c.traps.Pop() }

// RemoveTrap removes a trap by id from anywhere in the stack.
func (c *Controller) RemoveTrap(id string) bool { return c.traps.Remove(id) }

// HandleReleased must be called with the entities returned by a
// store.Release cascade; if the focused entity was among them, focus resets
// to none, since the current index would otherwise point at a freed (and
// possibly reused) slot (§8 scenario F).
func (c *Controller) HandleReleased(released []store.Entity) {
	cur := c.focused.Peek()
	if cur == store.Nil {
		return
	}
	for _, e := range released {
		if e == cur {
			c.focused.Set(store.Nil)
			return
		}
	}
}
