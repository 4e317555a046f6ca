package event

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vireo-tui/vireo/focus"
	"github.com/vireo-tui/vireo/frame"
	"github.com/vireo-tui/vireo/store"
)

func TestAdaptKeyMsgDerivesCtrlFromKeyType(t *testing.T) {
	ev := adaptKeyMsg(tea.KeyMsg{Type: tea.KeyCtrlA})
	if !ev.Ctrl {
		t.Fatalf("expected tea.KeyCtrlA to set Ctrl=true, got %+v", ev)
	}
	if ev.Shift || ev.Meta {
		t.Fatalf("expected Shift/Meta to stay false for a plain ctrl key, got %+v", ev)
	}
}

func TestAdaptKeyMsgDerivesShiftFromNamedKey(t *testing.T) {
	ev := adaptKeyMsg(tea.KeyMsg{Type: tea.KeyShiftTab})
	if !ev.Shift {
		t.Fatalf("expected tea.KeyShiftTab to set Shift=true, got %+v", ev)
	}
	if ev.Ctrl {
		t.Fatalf("expected Ctrl to stay false for shift+tab, got %+v", ev)
	}
}

func TestAdaptKeyMsgPlainRuneHasNoModifiers(t *testing.T) {
	ev := adaptKeyMsg(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'a'}})
	if ev.Ctrl || ev.Shift || ev.Alt || ev.Meta {
		t.Fatalf("expected a plain rune key to carry no modifiers, got %+v", ev)
	}
}

func TestTabKeyDelegatesToFocusController(t *testing.T) {
	st := store.New()
	a := st.Allocate("a")
	st.Focusable.Set(a, true)

	fc := focus.New(st)
	d := New(st, fc)
	d.HandleKey(KeyEvent{Key: "tab"})
	if fc.Focused().Peek() != a {
		t.Fatalf("expected tab to focus a, got %d", fc.Focused().Peek())
	}
}

func TestCtrlCSetsQuit(t *testing.T) {
	st := store.New()
	fc := focus.New(st)
	d := New(st, fc)
	d.HandleKey(KeyEvent{Key: "ctrl+c"})
	if !d.Quit() {
		t.Fatalf("expected ctrl+c to set quit")
	}
}

func TestFocusedHandlerConsumesBeforeGlobal(t *testing.T) {
	st := store.New()
	a := st.Allocate("a")
	st.Focusable.Set(a, true)
	st.Handlers.Set(a, store.Handlers{OnKeyDown: func(store.KeyEvent) bool { return true }})

	fc := focus.New(st)
	fc.SetFocus(a)
	d := New(st, fc)

	globalFired := false
	d.OnGlobalKey(func(KeyEvent) bool { globalFired = true; return true })
	d.HandleKey(KeyEvent{Key: "x"})
	if globalFired {
		t.Fatalf("expected focused handler to consume the key before the global handler runs")
	}
}

func TestMouseClickRequiresMatchingDownAndUpTarget(t *testing.T) {
	st := store.New()
	btn := st.Allocate("btn")
	st.Focusable.Set(btn, true)
	st.EnsureComputedCapacity(btn)
	st.OutX[btn], st.OutY[btn] = 0, 0
	st.OutWidth[btn], st.OutHeight[btn] = 5, 1

	clicked := false
	st.Handlers.Set(btn, store.Handlers{OnClick: func(store.MouseEvent) { clicked = true }})

	g := frame.Acquire(10, 10)
	g.SetHit(2, 0, int32(btn))

	fc := focus.New(st)
	d := New(st, fc)
	d.SetGrid(g)

	d.HandleMouseDown(store.MouseEvent{X: 2, Y: 0})
	d.HandleMouseUp(store.MouseEvent{X: 2, Y: 0})
	if !clicked {
		t.Fatalf("expected click to fire when down/up targets match")
	}
}

func TestMouseClickSuppressedWhenUpTargetDiffers(t *testing.T) {
	st := store.New()
	btn := st.Allocate("btn")
	other := st.Allocate("other")

	clicked := false
	st.Handlers.Set(btn, store.Handlers{OnClick: func(store.MouseEvent) { clicked = true }})

	g := frame.Acquire(10, 10)
	g.SetHit(2, 0, int32(btn))
	g.SetHit(5, 0, int32(other))

	fc := focus.New(st)
	d := New(st, fc)
	d.SetGrid(g)

	d.HandleMouseDown(store.MouseEvent{X: 2, Y: 0})
	d.HandleMouseUp(store.MouseEvent{X: 5, Y: 0})
	if clicked {
		t.Fatalf("expected click to be suppressed when release target differs from press target")
	}
}

func TestMouseHoverFiresEnterLeaveTransitions(t *testing.T) {
	st := store.New()
	a := st.Allocate("a")
	b := st.Allocate("b")

	var entered, left store.Entity = store.Nil, store.Nil
	st.Handlers.Set(a, store.Handlers{OnLeave: func(store.MouseEvent) { left = a }})
	st.Handlers.Set(b, store.Handlers{OnEnter: func(store.MouseEvent) { entered = b }})

	g := frame.Acquire(10, 10)
	g.SetHit(0, 0, int32(a))
	g.SetHit(5, 0, int32(b))

	fc := focus.New(st)
	d := New(st, fc)
	d.SetGrid(g)

	d.HandleMouse(store.MouseEvent{X: 0, Y: 0})
	d.HandleMouse(store.MouseEvent{X: 5, Y: 0})

	if left != a {
		t.Fatalf("expected leave callback on a")
	}
	if entered != b {
		t.Fatalf("expected enter callback on b")
	}
}
