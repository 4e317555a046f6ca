package store

import "testing"

func TestAllocateReuseFreeList(t *testing.T) {
	s := New()
	a := s.Allocate("a")
	s.Release(a)
	b := s.Allocate("b")
	if b != a {
		t.Fatalf("expected free-list reuse, got new index %d want %d", b, a)
	}
	if _, ok := s.Lookup("a"); ok {
		t.Fatalf("released entity id mapping must be cleared (§3.4)")
	}
}

func TestSetParentSiblingListIntegrity(t *testing.T) {
	s := New()
	p := s.Allocate("p")
	c1 := s.Allocate("c1")
	c2 := s.Allocate("c2")
	s.SetParent(c1, p)
	s.SetParent(c2, p) // prepended: c2 should now be first child

	kids := s.Children(p)
	if len(kids) != 2 || kids[0] != c2 || kids[1] != c1 {
		t.Fatalf("unexpected child order: %v", kids)
	}
	if s.Parent(c1) != p || s.Parent(c2) != p {
		t.Fatalf("parent pointers not set")
	}
	if s.PrevSibling(s.FirstChild(p)) != Nil {
		t.Fatalf("first child must have no prev sibling")
	}
	// mutual inverse check
	for _, c := range kids {
		if next := s.NextSibling(c); next != Nil {
			if s.PrevSibling(next) != c {
				t.Fatalf("prev/next sibling not mutual inverse")
			}
		}
	}
}

func TestReleaseCascadeOrder(t *testing.T) {
	s := New()
	p := s.Allocate("P")
	c1 := s.Allocate("C1")
	c2 := s.Allocate("C2")
	g := s.Allocate("G")
	s.SetParent(c1, p)
	s.SetParent(c2, p)
	s.SetParent(g, c2)
	// prepend order means children of p are [c2, c1]; release walks
	// first_child -> next_sibling, descending into each before appending self.
	released := s.Release(p)

	want := []Entity{g, c2, c1, p}
	if len(released) != len(want) {
		t.Fatalf("expected %d released, got %d: %v", len(want), len(released), released)
	}
	for i, e := range want {
		if released[i] != e {
			t.Fatalf("release order mismatch at %d: got %v want %v", i, released, want)
		}
	}
	for _, e := range want {
		if s.IsLive(e) {
			t.Fatalf("entity %d should no longer be live", e)
		}
	}
}

func TestScrollOffsetClamp(t *testing.T) {
	s := New()
	e := s.Allocate("scrollable")
	s.EnsureComputedCapacity(e)
	s.OutMaxScrollY[e] = 8

	s.SetScrollOffset(e, 0, 100)
	if got := s.ScrollOffsetY.Peek(e); got != 8 {
		t.Fatalf("expected clamp to max_scroll=8, got %v", got)
	}
	s.SetScrollOffset(e, 0, -5)
	if got := s.ScrollOffsetY.Peek(e); got != 0 {
		t.Fatalf("expected clamp to 0, got %v", got)
	}
}

func TestColumnOutOfRangeReadReturnsDefault(t *testing.T) {
	c := NewColumn(42)
	if got := c.Get(100); got != 42 {
		t.Fatalf("expected default for out-of-range read, got %d", got)
	}
}

func TestSlotSourceKinds(t *testing.T) {
	s := New()
	e := s.Allocate("")
	count := 0
	s.Content.Bind(e, FromGetter(func() string {
		count++
		return "hello"
	}))
	if got := s.Content.Get(e); got != "hello" || count != 1 {
		t.Fatalf("getter source not invoked correctly: got=%q count=%d", got, count)
	}
}
