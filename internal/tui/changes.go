package tui

import "github.com/idilsaglam/todotable/internal/store"

// Changes carries store states to the running program. Pass Listen to
// store.WithListener.
type Changes chan store.State

// NewChanges makes a buffer of n states (at least 1).
func NewChanges(n int) Changes {
	if n < 1 {
		n = 1
	}
	return make(Changes, n)
}

// Listen queues s. When the buffer is full the oldest queued state is
// dropped; the newest always gets through. Only the store goroutine sends,
// so after making room the send cannot block.
func (c Changes) Listen(s store.State) {
	select {
	case c <- s:
		return
	default:
	}
	select {
	case <-c:
	default:
	}
	c <- s
}
