// Package navigation models the client's current location the way a browser
// router would: a current path plus a history stack, with plain and
// history-replacing transitions.
package navigation

import "sync"

// Navigator is the navigation collaborator consumed by the session manager
// and the shell. Replace must not leave the abandoned path reachable via Back.
type Navigator interface {
	// Path returns the current path.
	Path() string
	// Navigate moves to path, pushing the previous path onto history.
	Navigate(path string)
	// Replace moves to path, replacing the current history entry.
	Replace(path string)
}

// History is an in-memory Navigator with a back stack.
type History struct {
	mu    sync.Mutex
	stack []string
}

// NewHistory returns a History positioned at start ("/" if empty).
func NewHistory(start string) *History {
	if start == "" {
		start = "/"
	}
	return &History{stack: []string{start}}
}

func (h *History) Path() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.stack[len(h.stack)-1]
}

func (h *History) Navigate(path string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.stack = append(h.stack, path)
}

func (h *History) Replace(path string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.stack[len(h.stack)-1] = path
}

// Back pops the current entry and returns the new current path.
// At the bottom of the stack it is a no-op.
func (h *History) Back() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.stack) > 1 {
		h.stack = h.stack[:len(h.stack)-1]
	}
	return h.stack[len(h.stack)-1]
}
