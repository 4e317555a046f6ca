package store

import "github.com/vireo-tui/vireo/reactive"

// sourceKind tags which variant of SlotSource is active. Re-architected from
// the duck-typed "prop can be a literal, signal-shaped object, or a zero-arg
// callable" pattern into an explicit sum type (§9 design notes).
type sourceKind uint8

const (
	sourceLiteral sourceKind = iota
	sourceSignal
	sourceDerived
	sourceGetter
)

// SlotSource is the tagged union backing every reactive property cell
// (§3.2, §9): SlotSource<T> = Literal(T) | Signal(Handle<T>) | Derived(Handle<T>) | Getter(fn() -> T).
type SlotSource[T any] struct {
	kind    sourceKind
	literal T
	signal  *reactive.Signal[T]
	derived *reactive.Derived[T]
	getter  func() T
}

// Literal builds a constant slot source.
func Literal[T any](v T) SlotSource[T] {
	return SlotSource[T]{kind: sourceLiteral, literal: v}
}

// FromSignal builds a slot source backed by a writable signal.
func FromSignal[T any](s *reactive.Signal[T]) SlotSource[T] {
	return SlotSource[T]{kind: sourceSignal, signal: s}
}

// FromDerived builds a slot source backed by a memoized derived computation.
func FromDerived[T any](d *reactive.Derived[T]) SlotSource[T] {
	return SlotSource[T]{kind: sourceDerived, derived: d}
}

// FromGetter builds a slot source backed by a plain zero-argument closure;
// any reactive reads inside fn register against whatever tracker is active
// at the call site, exactly as if the caller had read them directly.
func FromGetter[T any](fn func() T) SlotSource[T] {
	return SlotSource[T]{kind: sourceGetter, getter: fn}
}

// Get resolves the slot's current value. Dependency registration is handled
// entirely by the underlying Signal/Derived Get calls (or by whatever the
// getter closure itself reads) — the slot adds no tracking of its own, per
// §9's "get(index) performs the dependency registration in a normal function".
func (s SlotSource[T]) Get() T {
	switch s.kind {
	case sourceSignal:
		return s.signal.Get()
	case sourceDerived:
		return s.derived.Get()
	case sourceGetter:
		return s.getter()
	default:
		return s.literal
	}
}

// Peek resolves the value without tracking, for non-reactive call sites such
// as input handlers and the focus controller.
func (s SlotSource[T]) Peek() T {
	switch s.kind {
	case sourceSignal:
		return s.signal.Peek()
	case sourceDerived:
		return s.derived.Peek()
	case sourceGetter:
		return reactive.Untracked(s.getter)
	default:
		return s.literal
	}
}

// Column is a growable, entity-indexed array of reactive slots (§3.2, §4.B).
// Reads beyond the live range return the column's default value rather than
// faulting (§7 "out-of-range store access").
type Column[T any] struct {
	slots   []SlotSource[T]
	Default T
}

// NewColumn creates a column with the given default value for unwritten or
// out-of-range cells.
func NewColumn[T any](def T) *Column[T] {
	return &Column[T]{Default: def}
}

func (c *Column[T]) ensure(index Entity) {
	need := int(index) + 1
	for len(c.slots) < need {
		c.slots = append(c.slots, Literal(c.Default))
	}
}

// Bind sets the slot source at index, growing the column if necessary (I1).
func (c *Column[T]) Bind(index Entity, src SlotSource[T]) {
	c.ensure(index)
	c.slots[index] = src
}

// Set is shorthand for Bind(index, Literal(v)).
func (c *Column[T]) Set(index Entity, v T) {
	c.Bind(index, Literal(v))
}

// Get resolves and returns the slot's value, tracking a dependency if read
// inside a reactive computation.
func (c *Column[T]) Get(index Entity) T {
	if index < 0 || int(index) >= len(c.slots) {
		return c.Default
	}
	return c.slots[index].Get()
}

// Peek is Get without dependency tracking.
func (c *Column[T]) Peek(index Entity) T {
	if index < 0 || int(index) >= len(c.slots) {
		return c.Default
	}
	return c.slots[index].Peek()
}

// Reset clears the cell at index back to the column default (§4.B release).
func (c *Column[T]) Reset(index Entity) {
	if index < 0 || int(index) >= len(c.slots) {
		return
	}
	c.slots[index] = Literal(c.Default)
}

// Cap reports the column's current backing length.
func (c *Column[T]) Cap() int { return len(c.slots) }
