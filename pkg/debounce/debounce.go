package debounce

import (
	"sync"
	"time"

	"github.com/dmitrymomot/pagetrack/pkg/clock"
)

// Debouncer coalesces calls to an action taking an argument of type T.
type Debouncer[T any] struct {
	mu        sync.Mutex
	action    func(T)
	delay     time.Duration
	clock     clock.Clock
	registry  *Registry
	timer     clock.Timer
	arg       T
	pending   bool
	finalized bool
	gen       uint64
}

// New creates an idle debouncer that runs action after delay of quiet.
func New[T any](action func(T), delay time.Duration, opts ...Option) *Debouncer[T] {
	o := options{clock: clock.New()}
	for _, opt := range opts {
		opt(&o)
	}
	return &Debouncer[T]{
		action:   action,
		delay:    max(delay, 0),
		clock:    o.clock,
		registry: o.registry,
	}
}

// Schedule (re)starts the delay timer with arg as the argument for the
// eventual call. It is ignored once the debouncer is finalized.
func (d *Debouncer[T]) Schedule(arg T) {
	d.mu.Lock()
	if d.finalized {
		d.mu.Unlock()
		return
	}
	d.arg = arg
	d.pending = true
	d.gen++
	gen := d.gen
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = d.clock.AfterFunc(d.delay, func() { d.fire(gen) })
	d.mu.Unlock()

	if d.registry != nil {
		d.registry.add(d)
	}
}

// Trigger runs the pending action immediately and finalizes the debouncer.
// Without a pending action it only finalizes.
func (d *Debouncer[T]) Trigger() {
	arg, pending, ok := d.finalize()
	if !ok {
		return
	}
	if pending {
		d.action(arg)
	}
}

// Dispose cancels any pending action and finalizes the debouncer.
func (d *Debouncer[T]) Dispose() {
	d.finalize()
}

// Pending reports whether an action is waiting for its timer.
func (d *Debouncer[T]) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pending
}

// Finalized reports whether Trigger or Dispose has been called.
func (d *Debouncer[T]) Finalized() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.finalized
}

func (d *Debouncer[T]) fire(gen uint64) {
	d.mu.Lock()
	if d.finalized || !d.pending || gen != d.gen {
		d.mu.Unlock()
		return
	}
	arg := d.arg
	d.clearLocked()
	d.mu.Unlock()

	if d.registry != nil {
		d.registry.remove(d)
	}
	d.action(arg)
}

// finalize marks the debouncer terminal and returns what was pending.
// ok is false when it was already finalized.
func (d *Debouncer[T]) finalize() (arg T, pending, ok bool) {
	d.mu.Lock()
	if d.finalized {
		d.mu.Unlock()
		return arg, false, false
	}
	d.finalized = true
	arg, pending = d.arg, d.pending
	d.clearLocked()
	d.mu.Unlock()

	if d.registry != nil {
		d.registry.remove(d)
	}
	return arg, pending, true
}

func (d *Debouncer[T]) clearLocked() {
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	var zero T
	d.arg = zero
	d.pending = false
	d.gen++
}
