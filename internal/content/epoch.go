package content

import "sync/atomic"

// Epoch versions requests from one consumer. Each request calls Begin and
// keeps the returned ticket; when the response arrives it is applied only if
// IsCurrent(ticket) still holds. A stale response is dropped, never retried,
// and the network call behind it is not aborted.
type Epoch struct {
	n atomic.Uint64
}

// Begin starts a new request and returns its ticket. Every earlier ticket
// becomes stale.
func (e *Epoch) Begin() uint64 {
	return e.n.Add(1)
}

// IsCurrent reports whether no request has begun since ticket was issued.
func (e *Epoch) IsCurrent(ticket uint64) bool {
	return e.n.Load() == ticket
}

// Invalidate makes every outstanding ticket stale without starting a request.
func (e *Epoch) Invalidate() {
	e.n.Add(1)
}
