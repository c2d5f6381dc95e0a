package helpers

import (
	"context"
	"errors"
	"sync/atomic"
)

// ErrStale is returned for a response overtaken by a newer request.
var ErrStale = errors.New("helpers: stale response")

// Latest hands out generation tickets so only the most recent of several
// overlapping requests gets applied. The zero value is ready to use.
type Latest struct {
	gen atomic.Uint64
}

// Ticket identifies one request.
type Ticket struct {
	l   *Latest
	gen uint64
}

// Begin starts a request and supersedes every earlier ticket.
func (l *Latest) Begin() Ticket {
	return Ticket{l: l, gen: l.gen.Add(1)}
}

// Current reports whether no newer request has begun.
func (t Ticket) Current() bool {
	return t.l != nil && t.l.gen.Load() == t.gen
}

// Fetch runs fn under a new ticket. When another Fetch or Begin started
// while fn ran, the result is discarded and ErrStale returned.
func Fetch[T any](ctx context.Context, l *Latest, fn func(context.Context) (T, error)) (T, error) {
	t := l.Begin()
	v, err := fn(ctx)
	if err != nil {
		return v, err
	}
	if !t.Current() {
		var zero T
		return zero, ErrStale
	}
	return v, nil
}
