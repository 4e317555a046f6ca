package frame

import (
	"testing"

	"github.com/vireo-tui/vireo/store"
)

func setComputed(st *store.Store, e store.Entity, x, y, w, h float64) {
	st.EnsureComputedCapacity(e)
	st.OutX[e] = x
	st.OutY[e] = y
	st.OutWidth[e] = w
	st.OutHeight[e] = h
}

func TestBuildCounterFrameBorderAndText(t *testing.T) {
	st := store.New()
	root := st.Allocate("root")
	st.Border.Set(root, store.Borders{
		Top:    store.BorderSide{Width: 1, Style: store.BorderSingle},
		Right:  store.BorderSide{Width: 1, Style: store.BorderSingle},
		Bottom: store.BorderSide{Width: 1, Style: store.BorderSingle},
		Left:   store.BorderSide{Width: 1, Style: store.BorderSingle},
	})
	st.Padding.Set(root, store.Insets{Right: 1, Left: 1})
	setComputed(st, root, 0, 0, 12, 4)

	child := st.Allocate("text")
	st.Kind.Set(child, store.KindText)
	st.Content.Set(child, "Count: 0")
	st.SetParent(child, root)
	setComputed(st, child, 2, 1, 8, 1)

	g := Build(st, []store.Entity{root}, 20, 10, store.Nil)

	tl, _ := g.At(0, 0)
	if tl.Rune != '┌' {
		t.Fatalf("expected top-left border glyph, got %q", tl.Rune)
	}
	for i, want := range "Count: 0" {
		cell, _ := g.At(2+i, 1)
		if cell.Rune != want {
			t.Fatalf("expected %q at col %d, got %q", want, 2+i, cell.Rune)
		}
	}
}

func TestBuildWideCharTrailingCell(t *testing.T) {
	st := store.New()
	root := st.Allocate("root")
	st.Kind.Set(root, store.KindText)
	st.Content.Set(root, "你好")
	setComputed(st, root, 0, 0, 4, 1)

	g := Build(st, []store.Entity{root}, 10, 5, store.Nil)
	first, _ := g.At(0, 0)
	trailing, _ := g.At(1, 0)
	if first.Width != 2 {
		t.Fatalf("expected leading wide cell, got width %d", first.Width)
	}
	if trailing.Rune != 0 {
		t.Fatalf("expected trailing cell codepoint 0, got %q", trailing.Rune)
	}
}

func TestBuildBorderUsesFocusOverrideColorWhenFocused(t *testing.T) {
	st := store.New()
	root := st.Allocate("root")
	accent := store.RGBA(0, 255, 0, 255)
	st.Border.Set(root, store.Borders{
		Top:    store.BorderSide{Width: 1, Style: store.BorderSingle, Color: store.RGBA(200, 200, 200, 255)},
		Right:  store.BorderSide{Width: 1, Style: store.BorderSingle, Color: store.RGBA(200, 200, 200, 255)},
		Bottom: store.BorderSide{Width: 1, Style: store.BorderSingle, Color: store.RGBA(200, 200, 200, 255)},
		Left:   store.BorderSide{Width: 1, Style: store.BorderSingle, Color: store.RGBA(200, 200, 200, 255)},
	})
	st.FocusBorderColor.Set(root, accent)
	setComputed(st, root, 0, 0, 4, 3)

	unfocused := Build(st, []store.Entity{root}, 10, 10, store.Nil)
	tl, _ := unfocused.At(0, 0)
	if tl.FG != (store.RGBA(200, 200, 200, 255)) {
		t.Fatalf("expected per-side color when unfocused, got %+v", tl.FG)
	}

	focused := Build(st, []store.Entity{root}, 10, 10, root)
	tl, _ = focused.At(0, 0)
	if tl.FG != accent {
		t.Fatalf("expected focus-override color to win when focused, got %+v", tl.FG)
	}
}

func TestBuildHitGridMarksInteractiveEntities(t *testing.T) {
	st := store.New()
	root := st.Allocate("root")
	st.Focusable.Set(root, true)
	setComputed(st, root, 1, 1, 3, 3)

	g := Build(st, []store.Entity{root}, 10, 10, store.Nil)
	if g.HitAt(2, 2) != int32(root) {
		t.Fatalf("expected hit grid to mark root at (2,2), got %d", g.HitAt(2, 2))
	}
	if g.HitAt(0, 0) != -1 {
		t.Fatalf("expected empty hit cell outside rect")
	}
}

func TestBuildClipsToParentContentRect(t *testing.T) {
	st := store.New()
	root := st.Allocate("root")
	setComputed(st, root, 0, 0, 3, 3)

	child := st.Allocate("child")
	st.Kind.Set(child, store.KindText)
	st.Content.Set(child, "overflowing text")
	st.SetParent(child, root)
	setComputed(st, child, 0, 0, 20, 1) // wider than parent's 3-cell content box

	g := Build(st, []store.Entity{root}, 30, 10, store.Nil)
	cell, _ := g.At(5, 0)
	if cell.Rune != ' ' {
		t.Fatalf("expected clipped cell outside parent rect to remain empty, got %q", cell.Rune)
	}
}
