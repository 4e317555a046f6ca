package focus

import "github.com/vireo-tui/vireo/store"

const historyCap = 10

// historyEntry pairs an entity index with the user id it held at save time,
// so a later Restore can detect index reuse (§4.F focus history).
type historyEntry struct {
	index store.Entity
	id    string
}

// history is a bounded deque; push evicts the oldest entry once full.
type history struct {
	entries []historyEntry
}

func (h *history) push(e historyEntry) {
	h.entries = append(h.entries, e)
	if len(h.entries) > historyCap {
		h.entries = h.entries[1:]
	}
}

// pop pops from the back, discarding any entry whose index was released or
// whose id no longer matches (§4.F: "Restore pops entries discarding any
// whose index was released or whose id no longer matches").
func (h *history) pop(st *store.Store) (store.Entity, bool) {
	for len(h.entries) > 0 {
		last := h.entries[len(h.entries)-1]
		h.entries = h.entries[:len(h.entries)-1]
		if !st.IsLive(last.index) {
			continue
		}
		if st.UserID.Peek(last.index) != last.id {
			continue
		}
		return last.index, true
	}
	return store.Nil, false
}
