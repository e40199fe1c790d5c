package bridge

import "sync"

// history keeps the most recent changes. When full, the oldest entry is
// overwritten.
type history struct {
	mu    sync.RWMutex
	buf   []Change
	head  int
	count int
}

// newHistory keeps up to capacity changes. Zero or less keeps none.
func newHistory(capacity int) *history {
	if capacity < 0 {
		capacity = 0
	}
	return &history{buf: make([]Change, capacity)}
}

func (h *history) push(c Change) {
	if len(h.buf) == 0 {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	idx := (h.head + h.count) % len(h.buf)
	h.buf[idx] = c
	if h.count == len(h.buf) {
		h.head = (h.head + 1) % len(h.buf)
	} else {
		h.count++
	}
}

// since returns the retained changes with Seq > seq, oldest first.
func (h *history) since(seq uint64) []Change {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make([]Change, 0, h.count)
	for i := 0; i < h.count; i++ {
		c := h.buf[(h.head+i)%len(h.buf)]
		if c.Seq > seq {
			out = append(out, c)
		}
	}
	return out
}
