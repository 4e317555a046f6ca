// Package event implements the external input-event contract and dispatch
// precedence (§6, §7): keyboard events route global shortcuts before the
// focused entity, then user-registered handlers, then built-in scroll; mouse
// events route through the hit grid with hover/click/wheel semantics.
package event

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vireo-tui/vireo/focus"
	"github.com/vireo-tui/vireo/frame"
	"github.com/vireo-tui/vireo/store"
)

// KeyState mirrors the press/repeat/release tri-state of §6's KeyEvent.
type KeyState uint8

const (
	KeyPress KeyState = iota
	KeyRepeat
	KeyRelease
)

// KeyEvent is the normalized keyboard event this package dispatches, adapted
// from tea.KeyMsg (§6).
type KeyEvent struct {
	Key                    string
	Ctrl, Alt, Shift, Meta bool
	State                  KeyState
}

// GlobalKeyHandler is a user-registered handler bound to a specific key name
// (e.g. "enter"); returning true consumes the event.
type GlobalKeyHandler func(KeyEvent) bool

// Global shortcut bindings (§7): these take precedence over every other
// dispatch stage and are never user-overridable.
var (
	quitBinding      = key.NewBinding(key.WithKeys("ctrl+c"))
	tabBinding       = key.NewBinding(key.WithKeys("tab"))
	shiftTabBinding  = key.NewBinding(key.WithKeys("shift+tab"))
)

// Dispatcher owns the global shortcut table, per-key-name handlers, a
// fallback global handler, and the mouse-hit tracking state, and turns
// incoming tea.Msg values into store/focus mutations (§4.G step 5, §7).
type Dispatcher struct {
	st    *store.Store
	focus *focus.Controller
	grid  *frame.Grid

	keyHandlers  map[string]GlobalKeyHandler
	globalHandler GlobalKeyHandler

	lastMouseTarget store.Entity
	lastDownTarget  store.Entity
	quit            bool
}

// New creates a dispatcher bound to st/focus; SetGrid must be called after
// each frame build so hit-testing uses the current frame.
func New(st *store.Store, fc *focus.Controller) *Dispatcher {
	return &Dispatcher{
		st:              st,
		focus:           fc,
		keyHandlers:     make(map[string]GlobalKeyHandler),
		lastMouseTarget: store.Nil,
		lastDownTarget:  store.Nil,
	}
}

// SetGrid installs the hit grid produced by the most recent frame build.
func (d *Dispatcher) SetGrid(g *frame.Grid) { d.grid = g }

// OnKey registers a handler for a specific named key (e.g. "enter", "a").
func (d *Dispatcher) OnKey(name string, h GlobalKeyHandler) { d.keyHandlers[name] = h }

// OnGlobalKey registers the catch-all fallback handler.
func (d *Dispatcher) OnGlobalKey(h GlobalKeyHandler) { d.globalHandler = h }

// Quit reports whether a global-shortcut Ctrl+C was observed.
func (d *Dispatcher) Quit() bool { return d.quit }

// HandleTeaMsg adapts a bubbletea message into the internal dispatch chain,
// the transport binding named by §6's input event contract. Mouse messages
// route on msg.Action: press -> HandleMouseDown, release -> HandleMouseUp,
// motion/wheel -> HandleMouse (which itself routes wheel to dispatchWheel).
func (d *Dispatcher) HandleTeaMsg(msg tea.Msg) {
	switch m := msg.(type) {
	case tea.KeyMsg:
		d.HandleKey(adaptKeyMsg(m))
	case tea.MouseMsg:
		ev := adaptMouseMsg(m)
		switch {
		case m.Button == tea.MouseButtonWheelUp || m.Button == tea.MouseButtonWheelDown ||
			m.Button == tea.MouseButtonWheelLeft || m.Button == tea.MouseButtonWheelRight:
			// bubbletea reports wheel ticks with a press action.
			d.HandleMouse(ev)
		case m.Action == tea.MouseActionPress:
			d.HandleMouseDown(ev)
		case m.Action == tea.MouseActionRelease:
			d.HandleMouseUp(ev)
		default:
			d.HandleMouse(ev)
		}
	}
}

// ctrlKeyLow and ctrlKeyHigh bound bubbletea's contiguous tea.KeyCtrlA ..
// tea.KeyCtrlZ range of tea.KeyType constants, which is how it signals
// Ctrl+letter combos instead of a bool field on tea.KeyMsg.
const (
	ctrlKeyLow  = tea.KeyCtrlA
	ctrlKeyHigh = tea.KeyCtrlZ
)

func adaptKeyMsg(m tea.KeyMsg) KeyEvent {
	s := m.String()
	ctrl := (m.Type >= ctrlKeyLow && m.Type <= ctrlKeyHigh) || strings.HasPrefix(s, "ctrl+")
	// bubbletea has no boolean Shift field; it only surfaces shift on named
	// keys whose String() embeds the modifier (shift+tab, shift+up, ...).
	// Shifted printable runes arrive as the already-uppercased rune with no
	// signal at all, so this only catches the named-key case. bubbletea
	// doesn't report a Meta/Super key at all, so Meta stays false.
	shift := strings.HasPrefix(s, "shift+") || strings.Contains(s, "+shift+")
	return KeyEvent{
		Key:   s,
		Ctrl:  ctrl,
		Alt:   m.Alt,
		Shift: shift,
		State: KeyPress,
	}
}

// keyMatches reports whether ev's raw key name is one of b's bound keys,
// the same binding table shape bubbles/key uses for help-text generation.
func keyMatches(ev KeyEvent, b key.Binding) bool {
	for _, k := range b.Keys() {
		if ev.Key == k {
			return true
		}
	}
	return false
}

func adaptMouseMsg(m tea.MouseMsg) store.MouseEvent {
	ev := store.MouseEvent{X: m.X, Y: m.Y}
	switch m.Button {
	case tea.MouseButtonLeft:
		ev.Button = store.ButtonLeft
	case tea.MouseButtonMiddle:
		ev.Button = store.ButtonMiddle
	case tea.MouseButtonRight:
		ev.Button = store.ButtonRight
	case tea.MouseButtonWheelUp:
		ev.Button = store.WheelUp
	case tea.MouseButtonWheelDown:
		ev.Button = store.WheelDown
	case tea.MouseButtonWheelLeft:
		ev.Button = store.WheelLeft
	case tea.MouseButtonWheelRight:
		ev.Button = store.WheelRight
	}
	ev.Modifiers.Ctrl = m.Ctrl
	ev.Modifiers.Alt = m.Alt
	ev.Modifiers.Shift = m.Shift
	return ev
}

// HandleKey runs the precedence chain of §7: global shortcuts, focused
// entity's own key handler, user-registered key-name handler, user-registered
// global handler, built-in scroll. A stage returning true halts later stages.
func (d *Dispatcher) HandleKey(ev KeyEvent) {
	if keyMatches(ev, quitBinding) {
		d.quit = true
		return
	}
	if keyMatches(ev, tabBinding) {
		d.focus.FocusNext()
		return
	}
	if keyMatches(ev, shiftTabBinding) {
		d.focus.FocusPrev()
		return
	}

	focused := d.focus.Focused().Peek()
	if focused != store.Nil && d.st.IsLive(focused) {
		if h := d.st.Handlers.Peek(focused); h.OnKeyDown != nil {
			if h.OnKeyDown(toStoreKeyEvent(ev)) {
				return
			}
		}
	}

	if h, ok := d.keyHandlers[ev.Key]; ok {
		if h(ev) {
			return
		}
	}

	if d.globalHandler != nil {
		if d.globalHandler(ev) {
			return
		}
	}

	d.builtinScroll(ev)
}

func toStoreKeyEvent(ev KeyEvent) store.KeyEvent {
	return store.KeyEvent{
		Key:    ev.Key,
		Ctrl:   ev.Ctrl,
		Alt:    ev.Alt,
		Shift:  ev.Shift,
		Meta:   ev.Meta,
		Repeat: ev.State == KeyRepeat,
	}
}

// builtinScroll implements the arrow/page/home/end fallback scrolling the
// currently focused scrollable (or its nearest scrollable ancestor) (§7).
func (d *Dispatcher) builtinScroll(ev KeyEvent) {
	target := d.scrollTargetForFocus()
	if target == store.Nil {
		return
	}
	const lineStep = 1.0
	const pageStep = 10.0
	switch ev.Key {
	case "up":
		d.focus.ScrollBy(target, 0, -lineStep)
	case "down":
		d.focus.ScrollBy(target, 0, lineStep)
	case "left":
		d.focus.ScrollBy(target, -lineStep, 0)
	case "right":
		d.focus.ScrollBy(target, lineStep, 0)
	case "pgup":
		d.focus.ScrollBy(target, 0, -pageStep)
	case "pgdown":
		d.focus.ScrollBy(target, 0, pageStep)
	case "home":
		d.st.SetScrollOffset(target, 0, 0)
	case "end":
		maxY := 0.0
		if int(target) < len(d.st.OutMaxScrollY) {
			maxY = d.st.OutMaxScrollY[target]
		}
		d.st.SetScrollOffset(target, d.st.ScrollOffsetX.Peek(target), maxY)
	}
}

func (d *Dispatcher) scrollTargetForFocus() store.Entity {
	focused := d.focus.Focused().Peek()
	if focused == store.Nil {
		return store.Nil
	}
	for e := focused; e != store.Nil; e = d.st.Parent(e) {
		if int(e) < len(d.st.OutIsScrollable) && d.st.OutIsScrollable[e] {
			return e
		}
	}
	return store.Nil
}

// HandleMouse performs hit-grid lookup and fires hover/down/up/click/wheel
// callbacks per §7's mouse dispatch precedence.
func (d *Dispatcher) HandleMouse(ev store.MouseEvent) {
	if d.grid == nil {
		return
	}
	hit := d.grid.HitAt(ev.X, ev.Y)
	target := store.Entity(hit)

	switch {
	case ev.Button == store.WheelUp || ev.Button == store.WheelDown ||
		ev.Button == store.WheelLeft || ev.Button == store.WheelRight:
		d.dispatchWheel(ev, target)
		return
	}

	if target != d.lastMouseTarget {
		if d.lastMouseTarget != store.Nil && d.st.IsLive(d.lastMouseTarget) {
			if h := d.st.Handlers.Peek(d.lastMouseTarget); h.OnLeave != nil {
				h.OnLeave(ev)
			}
			d.st.Hover.Set(d.lastMouseTarget, false)
		}
		if target != store.Nil && d.st.IsLive(target) {
			if h := d.st.Handlers.Peek(target); h.OnEnter != nil {
				h.OnEnter(ev)
			}
			d.st.Hover.Set(target, true)
		}
		d.lastMouseTarget = target
	}

	if target == store.Nil || !d.st.IsLive(target) {
		return
	}
	h := d.st.Handlers.Peek(target)
	if h.OnMouseMove != nil {
		h.OnMouseMove(ev)
	}
}

func (d *Dispatcher) dispatchWheel(ev store.MouseEvent, target store.Entity) {
	scrollTarget := target
	if scrollTarget == store.Nil || int(scrollTarget) >= len(d.st.OutIsScrollable) || !d.st.OutIsScrollable[scrollTarget] {
		scrollTarget = d.nearestScrollableFrom(target)
	}
	if scrollTarget == store.Nil {
		scrollTarget = d.scrollTargetForFocus()
	}
	if scrollTarget == store.Nil {
		return
	}
	const wheelStep = 3.0
	switch ev.Button {
	case store.WheelUp:
		d.focus.ScrollBy(scrollTarget, 0, -wheelStep)
	case store.WheelDown:
		d.focus.ScrollBy(scrollTarget, 0, wheelStep)
	case store.WheelLeft:
		d.focus.ScrollBy(scrollTarget, -wheelStep, 0)
	case store.WheelRight:
		d.focus.ScrollBy(scrollTarget, wheelStep, 0)
	}
	if target != store.Nil && d.st.IsLive(target) {
		if h := d.st.Handlers.Peek(target); h.OnScroll != nil {
			h.OnScroll(ev)
		}
	}
}

func (d *Dispatcher) nearestScrollableFrom(e store.Entity) store.Entity {
	for cur := e; cur != store.Nil; cur = d.st.Parent(cur) {
		if int(cur) < len(d.st.OutIsScrollable) && d.st.OutIsScrollable[cur] {
			return cur
		}
	}
	return store.Nil
}

// HandleMouseDown records the press target (§7 "down records target").
func (d *Dispatcher) HandleMouseDown(ev store.MouseEvent) {
	if d.grid == nil {
		return
	}
	target := store.Entity(d.grid.HitAt(ev.X, ev.Y))
	d.lastDownTarget = target
	if target != store.Nil && d.st.IsLive(target) {
		d.st.Pressed.Set(target, true)
		if h := d.st.Handlers.Peek(target); h.OnMouseDown != nil {
			h.OnMouseDown(ev)
		}
		if d.st.Focusable.Peek(target) || (int(target) < len(d.st.OutAutoFocusable) && d.st.OutAutoFocusable[target]) {
			d.focus.SetFocus(target)
		}
	}
}

// HandleMouseUp fires up, then click iff the release target matches the last
// down target (§7 "up fires up, then click iff same target as last down").
func (d *Dispatcher) HandleMouseUp(ev store.MouseEvent) {
	if d.grid == nil {
		return
	}
	target := store.Entity(d.grid.HitAt(ev.X, ev.Y))
	if target != store.Nil && d.st.IsLive(target) {
		d.st.Pressed.Set(target, false)
		h := d.st.Handlers.Peek(target)
		if h.OnMouseUp != nil {
			h.OnMouseUp(ev)
		}
		if target == d.lastDownTarget {
			if h.OnClick != nil {
				h.OnClick(ev)
			}
		}
	}
	d.lastDownTarget = store.Nil
}
