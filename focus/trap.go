package focus

import "github.com/vireo-tui/vireo/store"

// TrapKind names why a subtree is trapping focus (§4.F focus trap).
type TrapKind uint8

const (
	TrapModal TrapKind = iota
	TrapMenu
	TrapPopover
)

// Trap restricts focus navigation to the descendants of Root while active.
type Trap struct {
	ID   string
	Kind TrapKind
	Root store.Entity
}

// trapStack is a stack of active traps; the top entry is the one currently
// constraining focus (§4.F: "a stack of container indices").
type trapStack struct {
	st    *store.Store
	stack []Trap
}

func newTrapStack(st *store.Store) *trapStack {
	return &trapStack{st: st}
}

// Push adds a new trap on top of the stack.
func (t *trapStack) Push(trap Trap) {
	t.stack = append(t.stack, trap)
}

// Pop removes and returns the top trap, or the zero value and false if empty.
func (t *trapStack) Pop() (Trap, bool) {
	if len(t.stack) == 0 {
		return Trap{}, false
	}
	top := t.stack[len(t.stack)-1]
	t.stack = t.stack[:len(t.stack)-1]
	return top, true
}

// Remove removes a trap by ID anywhere in the stack.
func (t *trapStack) Remove(id string) bool {
	for i, trap := range t.stack {
		if trap.ID == id {
			t.stack = append(t.stack[:i], t.stack[i+1:]...)
			return true
		}
	}
	return false
}

// Active returns the top trap, if any.
func (t *trapStack) Active() (Trap, bool) {
	if len(t.stack) == 0 {
		return Trap{}, false
	}
	return t.stack[len(t.stack)-1], true
}

// allows reports whether e satisfies the active trap's predicate: either
// there is no active trap, or e is a descendant of the trap root (§3.3 I6).
func (t *trapStack) allows(e store.Entity) bool {
	trap, ok := t.Active()
	if !ok {
		return true
	}
	return t.isDescendant(e, trap.Root)
}

func (t *trapStack) isDescendant(e, root store.Entity) bool {
	for cur := e; cur != store.Nil; cur = t.st.Parent(cur) {
		if cur == root {
			return true
		}
	}
	return false
}
