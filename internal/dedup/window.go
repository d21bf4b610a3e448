// Package dedup provides the bounded recently-seen execution id window that
// keeps reconnects from re-notifying fills the feed replays.
package dedup

// Window is a FIFO membership set over execution identifiers. Once capacity
// is reached, recording a new id evicts the oldest recorded one (insertion
// order, not access order). The window lives for the whole process so dedup
// state survives reconnects.
//
// Window is not safe for concurrent use; the single session read loop is the
// only writer.
type Window struct {
	capacity int
	seen     map[string]struct{}
	order    []string
	head     int
}

// NewWindow returns a window holding up to capacity identifiers. A
// non-positive capacity falls back to 1000.
func NewWindow(capacity int) *Window {
	if capacity <= 0 {
		capacity = 1000
	}
	return &Window{
		capacity: capacity,
		seen:     make(map[string]struct{}, capacity),
	}
}

// Contains reports whether id is currently inside the window.
func (w *Window) Contains(id string) bool {
	_, ok := w.seen[id]
	return ok
}

// Record inserts id, evicting the oldest entry when the window is full.
// Record does not reject duplicates; callers check Contains first to keep
// the check-then-record contract.
func (w *Window) Record(id string) {
	if len(w.order)-w.head >= w.capacity {
		oldest := w.order[w.head]
		delete(w.seen, oldest)
		w.order[w.head] = ""
		w.head++
		// Reclaim the drained prefix once it dominates the backing slice.
		if w.head >= w.capacity {
			w.order = append([]string(nil), w.order[w.head:]...)
			w.head = 0
		}
	}
	w.seen[id] = struct{}{}
	w.order = append(w.order, id)
}

// Len returns the number of identifiers currently held.
func (w *Window) Len() int {
	return len(w.order) - w.head
}
