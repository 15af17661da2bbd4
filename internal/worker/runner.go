// Package worker implements the background-operation contract used for
// long-running remote calls: one goroutine per operation, discrete outcomes
// posted to a queue the coordinating side drains on its own schedule, and a
// cooperative cancellation flag checked at blocking-call boundaries. UI
// state is only ever touched from the draining side, never from a worker.
package worker

import (
	"sync"
	"sync/atomic"
)

// Kind classifies a worker outcome.
type Kind string

const (
	KindSuccess   Kind = "success"
	KindError     Kind = "error"
	KindCancelled Kind = "cancelled"
)

// Result is one discrete outcome message posted by a worker.
type Result struct {
	Op      string
	Kind    Kind
	Message string
	Payload any
}

// Token carries the cooperative cancellation flag into a worker. Workers
// check Cancelled before each remote step; once it reports true they stop
// issuing further calls.
type Token struct {
	flag atomic.Bool
}

// Cancelled reports whether cancellation was requested.
func (t *Token) Cancelled() bool {
	return t.flag.Load()
}

// Func is the body of a background operation. It runs on its own goroutine
// and returns exactly one terminal result.
type Func func(t *Token) Result

// Runner owns at most one in-flight background operation per logical target
// (one connection test per config widget, one refresh per browser). Results
// queue up until the coordinator polls.
type Runner struct {
	results chan Result

	mu      sync.Mutex
	token   *Token
	running bool
}

// NewRunner creates a runner whose result queue holds up to buffer pending
// outcomes between polls.
func NewRunner(buffer int) *Runner {
	if buffer <= 0 {
		buffer = 16
	}
	return &Runner{results: make(chan Result, buffer)}
}

// Start launches fn on a fresh goroutine and reports true. If an operation
// is already in flight, the call instead acts as a cancellation request for
// it and reports false; the caller retries once the cancelled operation's
// terminal result has been drained.
func (r *Runner) Start(op string, fn Func) bool {
	r.mu.Lock()
	if r.running {
		r.token.flag.Store(true)
		r.mu.Unlock()
		return false
	}
	token := &Token{}
	r.token = token
	r.running = true
	r.mu.Unlock()

	go func() {
		res := fn(token)
		res.Op = op
		// A result produced after cancellation was requested must not be
		// surfaced as success: the coordinator already moved on.
		if token.Cancelled() {
			res.Kind = KindCancelled
		}

		r.mu.Lock()
		r.running = false
		r.mu.Unlock()

		r.results <- res
	}()
	return true
}

// Cancel requests cooperative cancellation of the in-flight operation, if
// any. The worker observes the flag at its next step boundary.
func (r *Runner) Cancel() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.running {
		r.token.flag.Store(true)
	}
}

// Busy reports whether an operation is in flight.
func (r *Runner) Busy() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.running
}

// Poll drains every pending outcome without blocking. Coordinators call it
// on a short fixed interval (~100ms) and apply presentation effects from
// the returned results only.
func (r *Runner) Poll() []Result {
	var out []Result
	for {
		select {
		case res := <-r.results:
			out = append(out, res)
		default:
			return out
		}
	}
}
