// Package toast provides the transient user-feedback queue.
//
// Toasts are appended to a bounded queue and remove themselves after a fixed
// duration unless dismissed first. When the queue is full the oldest toast is
// dropped to make room. Nothing here is persisted.
package toast

import (
	"sync"
	"time"

	"github.com/robertmeta/dishlyst/model"
)

const (
	// DefaultDuration is how long a toast stays visible.
	DefaultDuration = 3000 * time.Millisecond
	// DefaultMax is the most toasts visible at once.
	DefaultMax = 5
)

// Notifier is what state containers use to report the outcome of a mutation.
type Notifier interface {
	Show(message string, typ model.ToastType) model.Toast
}

// EventKind says what happened to a toast.
type EventKind int

const (
	Shown EventKind = iota
	Removed
)

// Event is delivered to subscribers whenever the queue changes.
type Event struct {
	Kind  EventKind
	Toast model.Toast
}

// Option configures a Queue.
type Option func(*Queue)

// WithDuration sets the auto-expiry duration. Zero or negative disables expiry.
func WithDuration(d time.Duration) Option {
	return func(q *Queue) { q.duration = d }
}

// WithMax bounds the number of queued toasts. Values below 1 are ignored.
func WithMax(n int) Option {
	return func(q *Queue) {
		if n > 0 {
			q.max = n
		}
	}
}

// WithClock overrides the clock used to derive toast IDs.
func WithClock(now func() time.Time) Option {
	return func(q *Queue) { q.now = now }
}

// Queue holds the currently visible toasts.
type Queue struct {
	mu          sync.Mutex
	toasts      []model.Toast
	timers      map[int64]*time.Timer
	subscribers []func(Event)
	lastID      int64

	duration time.Duration
	max      int
	now      func() time.Time
}

var _ Notifier = (*Queue)(nil)

// New creates an empty Queue.
func New(opts ...Option) *Queue {
	q := &Queue{
		timers:   make(map[int64]*time.Timer),
		duration: DefaultDuration,
		max:      DefaultMax,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(q)
	}
	return q
}

// Subscribe registers fn to receive every Shown and Removed event.
// fn is called without the queue lock held, possibly from a timer goroutine.
func (q *Queue) Subscribe(fn func(Event)) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.subscribers = append(q.subscribers, fn)
}

// Show appends a toast and schedules its expiry. An empty type means success.
func (q *Queue) Show(message string, typ model.ToastType) model.Toast {
	if typ == "" {
		typ = model.ToastSuccess
	}

	q.mu.Lock()
	t := model.Toast{ID: q.nextID(), Message: message, Type: typ}

	var dropped []model.Toast
	for len(q.toasts) >= q.max {
		dropped = append(dropped, q.toasts[0])
		q.stopTimer(q.toasts[0].ID)
		q.toasts = q.toasts[1:]
	}
	q.toasts = append(q.toasts, t)

	if q.duration > 0 {
		id := t.ID
		q.timers[id] = time.AfterFunc(q.duration, func() { q.Remove(id) })
	}
	subs := q.subscribers
	q.mu.Unlock()

	for _, d := range dropped {
		notify(subs, Event{Kind: Removed, Toast: d})
	}
	notify(subs, Event{Kind: Shown, Toast: t})
	return t
}

// Success shows a success toast.
func (q *Queue) Success(message string) model.Toast {
	return q.Show(message, model.ToastSuccess)
}

// Info shows an informational toast.
func (q *Queue) Info(message string) model.Toast {
	return q.Show(message, model.ToastInfo)
}

// Remove dismisses a toast by ID. It reports whether the toast was queued.
func (q *Queue) Remove(id int64) bool {
	q.mu.Lock()
	idx := -1
	for i, t := range q.toasts {
		if t.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		q.mu.Unlock()
		return false
	}

	removed := q.toasts[idx]
	q.toasts = append(q.toasts[:idx:idx], q.toasts[idx+1:]...)
	q.stopTimer(id)
	subs := q.subscribers
	q.mu.Unlock()

	notify(subs, Event{Kind: Removed, Toast: removed})
	return true
}

// Clear empties the queue.
func (q *Queue) Clear() {
	q.mu.Lock()
	removed := q.toasts
	q.toasts = nil
	for id := range q.timers {
		q.stopTimer(id)
	}
	subs := q.subscribers
	q.mu.Unlock()

	for _, t := range removed {
		notify(subs, Event{Kind: Removed, Toast: t})
	}
}

// Toasts returns a snapshot of the visible toasts, oldest first.
func (q *Queue) Toasts() []model.Toast {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := make([]model.Toast, len(q.toasts))
	copy(out, q.toasts)
	return out
}

// nextID derives a millisecond timestamp ID, bumped when two toasts share a millisecond.
// Callers must hold q.mu.
func (q *Queue) nextID() int64 {
	id := q.now().UnixMilli()
	if id <= q.lastID {
		id = q.lastID + 1
	}
	q.lastID = id
	return id
}

// Callers must hold q.mu.
func (q *Queue) stopTimer(id int64) {
	if timer, ok := q.timers[id]; ok {
		timer.Stop()
		delete(q.timers, id)
	}
}

func notify(subs []func(Event), e Event) {
	for _, fn := range subs {
		fn(e)
	}
}
