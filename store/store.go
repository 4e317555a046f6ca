package store

import (
	"github.com/google/uuid"
	"github.com/vireo-tui/vireo/internal/logx"
	"github.com/vireo-tui/vireo/reactive"
)

// KeyEvent mirrors the external input-event contract (§6); it is only a
// value type here so interaction columns can hold handler closures without
// this package importing the event package (which instead imports store).
type KeyEvent struct {
	Key                      string
	Ctrl, Alt, Shift, Meta   bool
	Repeat                   bool
}

// MouseEvent mirrors the external mouse contract (§6).
type MouseEvent struct {
	X, Y      int
	Button    MouseButton
	Modifiers struct{ Ctrl, Alt, Shift bool }
}

// Handlers groups the optional per-entity callback slots (§3.2 interaction
// group). Unset fields are nil and simply not invoked.
type Handlers struct {
	OnClick     func(MouseEvent)
	OnMouseDown func(MouseEvent)
	OnMouseUp   func(MouseEvent)
	OnMouseMove func(MouseEvent)
	OnEnter     func(MouseEvent)
	OnLeave     func(MouseEvent)
	OnScroll    func(MouseEvent)
	OnKeyDown   func(KeyEvent) bool
	OnFocus     func()
	OnBlur      func()
}

// Store is the columnar entity/property store (§3, §4.B). All reactive
// columns route dependency tracking through package reactive; the hierarchy
// columns are plain arrays mutated under direct calls (SetParent, Release)
// and bump structureGen so the layout derived can depend on "the set of
// allocated entity indices" (§4.C) via ReadStructure.
type Store struct {
	alloc *allocator
	ids   map[string]Entity
	revID map[Entity]string

	structureGen *reactive.Signal[int]

	// hierarchy (§3.2 hierarchy group) — plain value arrays, not reactive
	// slots: structural edits are infrequent relative to property writes and
	// participate in layout invalidation only through structureGen.
	parent      []Entity
	firstChild  []Entity
	prevSibling []Entity
	nextSibling []Entity

	// core
	Kind     *Column[ComponentKind]
	Visible  *Column[bool]
	UserID   *Column[string]
	ZIndex   *Column[int]

	// flex container
	FlexDirection    *Column[Direction]
	FlexWrap         *Column[Wrap]
	JustifyContent   *Column[Justify]
	AlignItems       *Column[Align]
	AlignContent     *Column[Align]

	// flex item
	FlexGrow   *Column[float64]
	FlexShrink *Column[float64]
	FlexBasis  *Column[Dimension]
	AlignSelf  *Column[Align] // read only when HasAlignSelf is true
	HasAlignSelf *Column[bool]
	Order      *Column[int]

	// dimensions
	Width, Height       *Column[Dimension]
	MinWidth, MaxWidth  *Column[Dimension]
	MinHeight, MaxHeight *Column[Dimension]

	// spacing
	Padding *Column[Insets]
	Margin  *Column[Margin]
	Gap     *Column[float64]
	RowGap  *Column[float64]
	ColGap  *Column[float64]

	// borders
	Border *Column[Borders]

	// visual
	Foreground *Column[Color]
	Background *Column[Color]
	Opacity    *Column[float64]

	// FocusBorderColor is the highest-priority border color source (§4.D
	// step 6 "focus-override"): consulted only when the entity is the
	// currently focused one, before its per-side and container border
	// colors. ColorInherit means "no override configured".
	FocusBorderColor *Column[Color]

	// text
	Content  *Column[string]
	TextAlignCol *Column[TextAlign]
	TextWrap *Column[TextWrapMode]
	Attrs    *Column[TextAttrs]

	// positioning
	Position *Column[Position]
	Inset    *Column[Inset]

	// interaction
	Focusable      *Column[bool]
	TabIndex       *Column[int]
	ScrollOffsetX  *Column[float64]
	ScrollOffsetY  *Column[float64]
	Overflow       *Column[Overflow]
	CursorPosition *Column[int]
	CursorChar     *Column[rune]
	CursorVisible  *Column[bool]
	CursorBlinkFPS *Column[float64]
	CursorStyleCol *Column[CursorStyle]
	Hover          *Column[bool]
	Pressed        *Column[bool]
	Handlers       *Column[Handlers]

	// computed output (written by the layout engine only, §3.2)
	OutX, OutY                   []float64
	OutWidth, OutHeight          []float64
	OutContentWidth, OutContentHeight []float64
	OutMaxScrollX, OutMaxScrollY []float64
	OutIsScrollable              []bool
	OutAutoFocusable             []bool
}

// New creates an empty store with every column initialized to its
// specification-mandated default.
func New() *Store {
	s := &Store{
		alloc:        newAllocator(),
		ids:          make(map[string]Entity),
		revID:        make(map[Entity]string),
		structureGen: reactive.NewSimpleSignal(0),

		Kind:    NewColumn(KindBox),
		Visible: NewColumn(true),
		UserID:  NewColumn(""),
		ZIndex:  NewColumn(0),

		FlexDirection:  NewColumn(DirectionRow),
		FlexWrap:       NewColumn(NoWrap),
		JustifyContent: NewColumn(JustifyStart),
		AlignItems:     NewColumn(AlignStretch),
		AlignContent:   NewColumn(AlignStretch),

		FlexGrow:     NewColumn(0.0),
		FlexShrink:   NewColumn(1.0),
		FlexBasis:    NewColumn(Auto()),
		AlignSelf:    NewColumn(AlignStretch),
		HasAlignSelf: NewColumn(false),
		Order:        NewColumn(0),

		Width: NewColumn(Auto()), Height: NewColumn(Auto()),
		MinWidth: NewColumn(Auto()), MaxWidth: NewColumn(Auto()),
		MinHeight: NewColumn(Auto()), MaxHeight: NewColumn(Auto()),

		Padding: NewColumn(Insets{}),
		Margin:  NewColumn(Margin{}),
		Gap:     NewColumn(0.0),
		RowGap:  NewColumn(0.0),
		ColGap:  NewColumn(0.0),

		Border: NewColumn(Borders{}),

		Foreground: NewColumn(InheritColor()),
		Background: NewColumn(InheritColor()),
		Opacity:    NewColumn(1.0),

		FocusBorderColor: NewColumn(InheritColor()),

		Content:      NewColumn(""),
		TextAlignCol: NewColumn(TextAlignLeft),
		TextWrap:     NewColumn(TextWrapNone),
		Attrs:        NewColumn(TextAttrs(0)),

		Position: NewColumn(PositionStatic),
		Inset:    NewColumn(Inset{}),

		Focusable:      NewColumn(false),
		TabIndex:       NewColumn(0),
		ScrollOffsetX:  NewColumn(0.0),
		ScrollOffsetY:  NewColumn(0.0),
		Overflow:       NewColumn(OverflowVisible),
		CursorPosition: NewColumn(0),
		CursorChar:     NewColumn(rune(0)),
		CursorVisible:  NewColumn(true),
		CursorBlinkFPS: NewColumn(2.0),
		CursorStyleCol: NewColumn(CursorBlock),
		Hover:          NewColumn(false),
		Pressed:        NewColumn(false),
		Handlers:       NewColumn(Handlers{}),
	}
	return s
}

// ReadStructure registers a dependency on the hierarchy/allocation shape of
// the store; the layout derived calls this once at the start of its
// recompute (§4.C: "depends on ... the set of allocated entity indices").
func (s *Store) ReadStructure() int { return s.structureGen.Get() }

func (s *Store) bumpStructure() { s.structureGen.Update(func(n int) int { return n + 1 }) }

func (s *Store) growHierarchy(index Entity) {
	need := int(index) + 1
	for len(s.parent) < need {
		s.parent = append(s.parent, Nil)
		s.firstChild = append(s.firstChild, Nil)
		s.prevSibling = append(s.prevSibling, Nil)
		s.nextSibling = append(s.nextSibling, Nil)
	}
}

// Allocate reserves a new entity index (§4.B allocate), optionally
// registering a user-supplied string id. An empty id gets a generated UUID
// so downstream code (e.g. hit-testing debug output) always has a stable label.
func (s *Store) Allocate(userID string) Entity {
	e := s.alloc.allocate()
	s.growHierarchy(e)
	if userID == "" {
		userID = uuid.NewString()
	}
	if existing, ok := s.ids[userID]; ok && existing != e {
		logx.Default().Warn("duplicate entity id %q; overwriting mapping", userID)
	}
	s.ids[userID] = e
	s.revID[e] = userID
	s.UserID.Set(e, userID)
	s.bumpStructure()
	return e
}

// Lookup resolves a user id to its live entity, if any.
func (s *Store) Lookup(id string) (Entity, bool) {
	e, ok := s.ids[id]
	if !ok || !s.alloc.isLive(e) {
		return Nil, false
	}
	return e, true
}

// IsLive reports whether e is currently allocated (not released).
func (s *Store) IsLive(e Entity) bool {
	return e.Valid() && s.alloc.isLive(e)
}

// LiveCount returns the number of currently allocated entities.
func (s *Store) LiveCount() int { return s.alloc.liveCount() }

// Capacity returns one past the highest entity index ever allocated (I1's
// max_live_entity_index + 1 upper bound).
func (s *Store) Capacity() int { return s.alloc.capacity() }

// Parent, FirstChild, PrevSibling, NextSibling read the hierarchy arrays.
func (s *Store) Parent(e Entity) Entity      { return s.hRead(s.parent, e) }
func (s *Store) FirstChild(e Entity) Entity  { return s.hRead(s.firstChild, e) }
func (s *Store) PrevSibling(e Entity) Entity { return s.hRead(s.prevSibling, e) }
func (s *Store) NextSibling(e Entity) Entity { return s.hRead(s.nextSibling, e) }

func (s *Store) hRead(col []Entity, e Entity) Entity {
	if e < 0 || int(e) >= len(col) {
		return Nil
	}
	return col[e]
}

// Children returns the live children of parent in sibling-list order
// (§4.B iter_children). Returned as a slice for caller convenience; large
// trees should prefer the streaming ForEachChild.
func (s *Store) Children(parent Entity) []Entity {
	var out []Entity
	s.ForEachChild(parent, func(c Entity) { out = append(out, c) })
	return out
}

// ForEachChild walks first_child -> next_sibling without allocating a slice.
func (s *Store) ForEachChild(parent Entity, fn func(Entity)) {
	for c := s.FirstChild(parent); c != Nil; c = s.NextSibling(c) {
		fn(c)
	}
}

// SetParent attaches child to parent, unlinking from any previous parent
// first, and prepends child to parent's sibling list (§4.B set_parent: O(1),
// prepend chosen since render order is z-index driven, not list order).
func (s *Store) SetParent(child, parent Entity) {
	if !s.IsLive(child) {
		logx.Default().Warn("set_parent: child %d is not live", child)
		return
	}
	if parent != Nil && !s.IsLive(parent) {
		logx.Default().Warn("set_parent: parent %d is not live", parent)
		return
	}
	s.unlink(child)
	s.parent[child] = parent
	if parent != Nil {
		oldFirst := s.firstChild[parent]
		s.nextSibling[child] = oldFirst
		s.prevSibling[child] = Nil
		if oldFirst != Nil {
			s.prevSibling[oldFirst] = child
		}
		s.firstChild[parent] = child
	}
	s.bumpStructure()
}

// unlink removes child from its current parent's sibling list, if any.
func (s *Store) unlink(child Entity) {
	p := s.Parent(child)
	prev := s.PrevSibling(child)
	next := s.NextSibling(child)
	if prev != Nil {
		s.nextSibling[prev] = next
	} else if p != Nil {
		s.firstChild[p] = next
	}
	if next != Nil {
		s.prevSibling[next] = prev
	}
	s.parent[child] = Nil
	s.prevSibling[child] = Nil
	s.nextSibling[child] = Nil
}

// Release detaches and frees e and every descendant in child-before-parent
// order: depth-first over descendants first, then e itself (§3.4
// "child-before-parent on release", §4.B, §8 scenario F).
// Returns the list of released entities in release order.
func (s *Store) Release(e Entity) []Entity {
	if !s.IsLive(e) {
		return nil
	}
	var released []Entity
	var walk func(Entity)
	walk = func(n Entity) {
		for c := s.FirstChild(n); c != Nil; {
			next := s.NextSibling(c)
			walk(c)
			c = next
		}
		released = append(released, n)
	}
	walk(e)

	for _, n := range released {
		s.resetColumns(n)
		if id, ok := s.revID[n]; ok {
			delete(s.ids, id)
			delete(s.revID, n)
		}
		s.unlink(n)
		s.alloc.release(n)
	}
	s.bumpStructure()
	return released
}

func (s *Store) resetColumns(e Entity) {
	s.Kind.Reset(e)
	s.Visible.Reset(e)
	s.UserID.Reset(e)
	s.ZIndex.Reset(e)
	s.FlexDirection.Reset(e)
	s.FlexWrap.Reset(e)
	s.JustifyContent.Reset(e)
	s.AlignItems.Reset(e)
	s.AlignContent.Reset(e)
	s.FlexGrow.Reset(e)
	s.FlexShrink.Reset(e)
	s.FlexBasis.Reset(e)
	s.AlignSelf.Reset(e)
	s.HasAlignSelf.Reset(e)
	s.Order.Reset(e)
	s.Width.Reset(e)
	s.Height.Reset(e)
	s.MinWidth.Reset(e)
	s.MaxWidth.Reset(e)
	s.MinHeight.Reset(e)
	s.MaxHeight.Reset(e)
	s.Padding.Reset(e)
	s.Margin.Reset(e)
	s.Gap.Reset(e)
	s.RowGap.Reset(e)
	s.ColGap.Reset(e)
	s.Border.Reset(e)
	s.Foreground.Reset(e)
	s.Background.Reset(e)
	s.Opacity.Reset(e)
	s.FocusBorderColor.Reset(e)
	s.Content.Reset(e)
	s.TextAlignCol.Reset(e)
	s.TextWrap.Reset(e)
	s.Attrs.Reset(e)
	s.Position.Reset(e)
	s.Inset.Reset(e)
	s.Focusable.Reset(e)
	s.TabIndex.Reset(e)
	s.ScrollOffsetX.Reset(e)
	s.ScrollOffsetY.Reset(e)
	s.Overflow.Reset(e)
	s.CursorPosition.Reset(e)
	s.CursorChar.Reset(e)
	s.CursorVisible.Reset(e)
	s.CursorBlinkFPS.Reset(e)
	s.CursorStyleCol.Reset(e)
	s.Hover.Reset(e)
	s.Pressed.Reset(e)
	s.Handlers.Reset(e)
}

// EnsureComputedCapacity grows the plain computed-output arrays to cover
// index; called by the layout engine before writing outputs for a node.
func (s *Store) EnsureComputedCapacity(index Entity) {
	need := int(index) + 1
	grow := func(f *[]float64) {
		for len(*f) < need {
			*f = append(*f, 0)
		}
	}
	growB := func(f *[]bool) {
		for len(*f) < need {
			*f = append(*f, false)
		}
	}
	grow(&s.OutX)
	grow(&s.OutY)
	grow(&s.OutWidth)
	grow(&s.OutHeight)
	grow(&s.OutContentWidth)
	grow(&s.OutContentHeight)
	grow(&s.OutMaxScrollX)
	grow(&s.OutMaxScrollY)
	growB(&s.OutIsScrollable)
	growB(&s.OutAutoFocusable)
}

// SetScrollOffset clamps x/y to [0, max_scroll] using the computed
// output columns before writing (§3.3 I5, §4.F scroll_by).
func (s *Store) SetScrollOffset(e Entity, x, y float64) {
	maxX, maxY := 0.0, 0.0
	if int(e) < len(s.OutMaxScrollX) {
		maxX = s.OutMaxScrollX[e]
	}
	if int(e) < len(s.OutMaxScrollY) {
		maxY = s.OutMaxScrollY[e]
	}
	s.ScrollOffsetX.Set(e, clamp(x, 0, maxX))
	s.ScrollOffsetY.Set(e, clamp(y, 0, maxY))
}

func clamp(v, lo, hi float64) float64 {
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
