package rest

import (
	"context"
	"errors"
	"sync"
)

// ErrNilReason is the rejection reason recorded when a transport reports a
// failure without an error value.
var ErrNilReason = errors.New("request rejected without a reason")

// State is the settlement state of a Promise.
type State int

const (
	Pending State = iota
	Fulfilled
	Rejected
)

func (s State) String() string {
	switch s {
	case Fulfilled:
		return "fulfilled"
	case Rejected:
		return "rejected"
	default:
		return "pending"
	}
}

// Promise is the eventual result of a single request. It settles exactly
// once, either fulfilled with the parsed response or rejected with the
// transport's error. Later settlement attempts are ignored.
type Promise struct {
	once sync.Once
	done chan struct{}

	state State
	value any
	err   error
}

func newPromise() *Promise {
	return &Promise{done: make(chan struct{})}
}

func (p *Promise) resolve(v any) {
	p.settle(Fulfilled, v, nil)
}

func (p *Promise) reject(err error) {
	if err == nil {
		err = ErrNilReason
	}
	p.settle(Rejected, nil, err)
}

func (p *Promise) settle(state State, v any, err error) {
	p.once.Do(func() {
		p.state, p.value, p.err = state, v, err
		close(p.done)
	})
}

// Done returns a channel that is closed once the promise settles.
func (p *Promise) Done() <-chan struct{} {
	return p.done
}

// State returns the current settlement state without blocking.
func (p *Promise) State() State {
	select {
	case <-p.done:
		return p.state
	default:
		return Pending
	}
}

// Settled reports whether the promise is fulfilled or rejected.
func (p *Promise) Settled() bool {
	return p.State() != Pending
}

// Await blocks until the promise settles or ctx is done. A done ctx only
// abandons the wait; the request itself keeps running until the transport
// completes or times out.
func (p *Promise) Await(ctx context.Context) (any, error) {
	if p.Settled() {
		return p.value, p.err
	}
	select {
	case <-p.done:
		return p.value, p.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
