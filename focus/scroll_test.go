package focus

import (
	"testing"

	"github.com/vireo-tui/vireo/store"
)

func makeScrollable(st *store.Store, name string, maxX, maxY float64) store.Entity {
	e := st.Allocate(name)
	st.EnsureComputedCapacity(e)
	st.OutIsScrollable[e] = true
	st.OutMaxScrollX[e] = maxX
	st.OutMaxScrollY[e] = maxY
	return e
}

func TestScrollChainingOffByDefault(t *testing.T) {
	st := store.New()
	outer := makeScrollable(st, "outer", 0, 20)
	inner := makeScrollable(st, "inner", 0, 5)
	st.SetParent(inner, outer)

	ctl := New(st)
	ctl.ScrollBy(inner, 0, 8) // clamps at inner's max of 5, residual 3

	if x, y := st.ScrollOffsetX.Peek(inner), st.ScrollOffsetY.Peek(inner); x != 0 || y != 5 {
		t.Fatalf("expected inner clamped to (0, 5), got (%v, %v)", x, y)
	}
	if x, y := st.ScrollOffsetX.Peek(outer), st.ScrollOffsetY.Peek(outer); x != 0 || y != 0 {
		t.Fatalf("expected outer untouched with chaining off, got (%v, %v)", x, y)
	}
}

func TestScrollChainingForwardsResidualWhenEnabled(t *testing.T) {
	st := store.New()
	outer := makeScrollable(st, "outer", 0, 20)
	inner := makeScrollable(st, "inner", 0, 5)
	st.SetParent(inner, outer)

	ctl := New(st)
	ctl.SetScrollChaining(true)
	ctl.ScrollBy(inner, 0, 8)

	if y := st.ScrollOffsetY.Peek(inner); y != 5 {
		t.Fatalf("expected inner clamped to 5, got %v", y)
	}
	if y := st.ScrollOffsetY.Peek(outer); y != 3 {
		t.Fatalf("expected outer to receive the residual 3, got %v", y)
	}
}
