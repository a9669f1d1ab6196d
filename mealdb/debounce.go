package mealdb

import (
	"sync"
	"time"
)

// DefaultDebounce is the quiet period before a search is issued.
const DefaultDebounce = 500 * time.Millisecond

// Debouncer coalesces rapid triggers: fn runs with the last value once no
// new trigger has arrived for the quiet period.
type Debouncer[T any] struct {
	quiet time.Duration
	fn    func(T)

	mu      sync.Mutex
	timer   *time.Timer
	pending T
	gen     uint64

	running sync.WaitGroup
}

// NewDebouncer creates a Debouncer. A non-positive quiet uses DefaultDebounce.
func NewDebouncer[T any](quiet time.Duration, fn func(T)) *Debouncer[T] {
	if quiet <= 0 {
		quiet = DefaultDebounce
	}
	return &Debouncer[T]{quiet: quiet, fn: fn}
}

// Trigger records value and restarts the quiet period.
func (d *Debouncer[T]) Trigger(value T) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.pending = value
	d.gen++
	if d.timer != nil {
		d.timer.Stop()
	}
	gen := d.gen
	d.timer = time.AfterFunc(d.quiet, func() { d.fire(gen) })
}

// Stop cancels a pending call and waits for a call already in progress to
// return. It reports whether a call was pending.
func (d *Debouncer[T]) Stop() bool {
	d.mu.Lock()
	pending := d.timer != nil
	if pending {
		d.gen++
		d.timer.Stop()
		d.timer = nil
	}
	d.mu.Unlock()

	d.running.Wait()
	return pending
}

// fire runs fn unless a later Trigger or Stop superseded this timer.
func (d *Debouncer[T]) fire(gen uint64) {
	d.mu.Lock()
	if gen != d.gen {
		d.mu.Unlock()
		return
	}
	value := d.pending
	d.timer = nil
	d.running.Add(1)
	d.mu.Unlock()

	defer d.running.Done()
	d.fn(value)
}
