package dom

import (
	"sync"

	"tvnav/internal/ui/element"
)

// History is an in-memory session history. Back at the first entry leaves
// the page, which is reported through OnLeave.
type History struct {
	mu      sync.Mutex
	entries []element.HistoryEntry
	pos     int
	nextID  uint64
	pops    []listener[func(element.HistoryEntry)]
	leaves  []listener[func()]
	left    bool
}

var _ element.History = (*History)(nil)

// NewHistory creates a history holding the initial page entry
func NewHistory() *History {
	return &History{entries: []element.HistoryEntry{{}}}
}

// Push adds an entry after the current one, dropping forward entries
func (h *History) Push(entry element.HistoryEntry) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.entries = append(h.entries[:h.pos+1], entry)
	h.pos++
	return nil
}

// Replace overwrites the current entry
func (h *History) Replace(entry element.HistoryEntry) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.entries[h.pos] = entry
	return nil
}

// Back moves to the previous entry and notifies pop listeners. At the first
// entry it leaves the page instead.
func (h *History) Back() error {
	h.mu.Lock()
	if h.pos == 0 {
		h.left = true
		leaves := snapshot(h.leaves)
		h.mu.Unlock()
		for _, fn := range leaves {
			fn()
		}
		return nil
	}
	h.pos--
	current := h.entries[h.pos]
	pops := snapshot(h.pops)
	h.mu.Unlock()

	for _, fn := range pops {
		fn(current)
	}
	return nil
}

// Depth is the number of entries up to and including the current one
func (h *History) Depth() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.pos + 1
}

// Current returns the current entry
func (h *History) Current() element.HistoryEntry {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.entries[h.pos]
}

// Left reports whether Back ever navigated away from the page
func (h *History) Left() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.left
}

// OnPop implements element.History
func (h *History) OnPop(fn func(element.HistoryEntry)) func() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.nextID++
	id := h.nextID
	h.pops = append(h.pops, listener[func(element.HistoryEntry)]{id: id, fn: fn})
	return func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		h.pops = removeListener(h.pops, id)
	}
}

// OnLeave registers fn for navigation away from the page
func (h *History) OnLeave(fn func()) func() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.nextID++
	id := h.nextID
	h.leaves = append(h.leaves, listener[func()]{id: id, fn: fn})
	return func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		h.leaves = removeListener(h.leaves, id)
	}
}
