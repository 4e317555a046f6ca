package layout

import (
	"testing"

	"github.com/vireo-tui/vireo/reactive"
	"github.com/vireo-tui/vireo/store"
)

func newTestEngine(st *store.Store, root store.Entity, w, h int) (*Engine, *reactive.Derived[int]) {
	tw := reactive.NewSimpleSignal(w)
	th := reactive.NewSimpleSignal(h)
	eng := New(st, func() []store.Entity { return []store.Entity{root} }, tw, th)
	return eng, eng.Derived()
}

func TestFlexDistributionThreeSeven(t *testing.T) {
	st := store.New()
	root := st.Allocate("root")
	st.Width.Set(root, store.Cells(10))
	st.Height.Set(root, store.Cells(1))
	st.FlexDirection.Set(root, store.DirectionRow)

	a := st.Allocate("a")
	st.SetParent(a, root)
	st.FlexGrow.Set(a, 1)
	st.FlexBasis.Set(a, store.Cells(0))

	b := st.Allocate("b")
	st.SetParent(b, root)
	st.FlexGrow.Set(b, 2)
	st.FlexBasis.Set(b, store.Cells(0))

	_, layout := newTestEngine(st, root, 10, 1)
	layout.Get()

	if st.OutWidth[a] != 3 {
		t.Fatalf("expected child a width 3, got %v", st.OutWidth[a])
	}
	if st.OutWidth[b] != 7 {
		t.Fatalf("expected child b width 7, got %v", st.OutWidth[b])
	}
}

func TestLayoutRoundTripTextWidth(t *testing.T) {
	st := store.New()
	root := st.Allocate("root")
	st.Kind.Set(root, store.KindText)
	st.Content.Set(root, "hello") // width 5
	st.Width.Set(root, store.Cells(10))
	st.TextWrap.Set(root, store.TextWrapNone)

	_, layout := newTestEngine(st, root, 80, 24)
	layout.Get()

	if st.OutWidth[root] != 10 {
		t.Fatalf("expected computed_width 10 (explicit), got %v", st.OutWidth[root])
	}
	if st.OutHeight[root] != 1 {
		t.Fatalf("expected computed_height 1, got %v", st.OutHeight[root])
	}
}

func TestLayoutRecomputesOnReactiveWrite(t *testing.T) {
	st := store.New()
	root := st.Allocate("root")
	st.Width.Set(root, store.Cells(20))
	st.Height.Set(root, store.Cells(1))

	child := st.Allocate("child")
	st.SetParent(child, root)
	widthSignal := reactive.NewSignal(store.Cells(5), func(a, b store.Dimension) bool { return a == b })
	st.Width.Bind(child, store.FromSignal(widthSignal))

	_, layout := newTestEngine(st, root, 80, 24)
	layout.Get()
	if st.OutWidth[child] != 5 {
		t.Fatalf("expected width 5, got %v", st.OutWidth[child])
	}

	widthSignal.Set(store.Cells(12))
	layout.Get()
	if st.OutWidth[child] != 12 {
		t.Fatalf("expected width to follow signal update, got %v", st.OutWidth[child])
	}
}

func TestFlexFixedMarginConsumesFreeSpace(t *testing.T) {
	st := store.New()
	root := st.Allocate("root")
	st.Width.Set(root, store.Cells(10))
	st.Height.Set(root, store.Cells(1))
	st.FlexDirection.Set(root, store.DirectionRow)

	a := st.Allocate("a")
	st.SetParent(a, root)
	st.Width.Set(a, store.Cells(3))
	st.Margin.Set(a, store.Margin{Left: store.MarginSide{Value: 2}})

	_, layout := newTestEngine(st, root, 10, 1)
	layout.Get()

	if st.OutX[a] != 2 {
		t.Fatalf("expected child a to start at x=2 after its left margin, got %v", st.OutX[a])
	}
}

func TestFlexAutoMarginCentersItem(t *testing.T) {
	st := store.New()
	root := st.Allocate("root")
	st.Width.Set(root, store.Cells(10))
	st.Height.Set(root, store.Cells(1))
	st.FlexDirection.Set(root, store.DirectionRow)

	a := st.Allocate("a")
	st.SetParent(a, root)
	st.Width.Set(a, store.Cells(4))
	st.Margin.Set(a, store.Margin{Left: store.MarginSide{Auto: true}, Right: store.MarginSide{Auto: true}})

	_, layout := newTestEngine(st, root, 10, 1)
	layout.Get()

	if st.OutX[a] != 3 {
		t.Fatalf("expected auto margins to center child a at x=3, got %v", st.OutX[a])
	}
}

func TestFlexAlignContentCentersWrappedLines(t *testing.T) {
	st := store.New()
	root := st.Allocate("root")
	st.Width.Set(root, store.Cells(4))
	st.Height.Set(root, store.Cells(10))
	st.FlexDirection.Set(root, store.DirectionRow)
	st.FlexWrap.Set(root, store.WrapOn)
	st.AlignContent.Set(root, store.AlignCenter)

	a := st.Allocate("a")
	st.SetParent(a, root)
	st.Width.Set(a, store.Cells(4))
	st.Height.Set(a, store.Cells(1))

	b := st.Allocate("b")
	st.SetParent(b, root)
	st.Width.Set(b, store.Cells(4))
	st.Height.Set(b, store.Cells(1))

	_, layout := newTestEngine(st, root, 4, 10)
	layout.Get()

	if st.OutY[a] == 0 {
		t.Fatalf("expected align-content: center to push the first line down off the top, got y=%v", st.OutY[a])
	}
	if st.OutY[b] <= st.OutY[a] {
		t.Fatalf("expected second line below the first, got a.y=%v b.y=%v", st.OutY[a], st.OutY[b])
	}
}
