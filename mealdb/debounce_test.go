package mealdb

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type recorder struct {
	mu    sync.Mutex
	calls []string
}

func (r *recorder) record(v string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, v)
}

func (r *recorder) snapshot() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string{}, r.calls...)
}

func TestDebouncer_CoalescesToLastValue(t *testing.T) {
	rec := &recorder{}
	d := NewDebouncer(30*time.Millisecond, rec.record)

	for _, v := range []string{"c", "ch", "chi", "chic", "chicken"} {
		d.Trigger(v)
		time.Sleep(5 * time.Millisecond)
	}

	assert.Eventually(t, func() bool { return len(rec.snapshot()) == 1 }, time.Second, 5*time.Millisecond)
	assert.Never(t, func() bool { return len(rec.snapshot()) > 1 }, 100*time.Millisecond, 10*time.Millisecond)
	assert.Equal(t, []string{"chicken"}, rec.snapshot())
}

func TestDebouncer_SeparateBursts(t *testing.T) {
	rec := &recorder{}
	d := NewDebouncer(20*time.Millisecond, rec.record)

	d.Trigger("beef")
	assert.Eventually(t, func() bool { return len(rec.snapshot()) == 1 }, time.Second, 5*time.Millisecond)

	d.Trigger("pork")
	assert.Eventually(t, func() bool { return len(rec.snapshot()) == 2 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, []string{"beef", "pork"}, rec.snapshot())
}

func TestDebouncer_Stop(t *testing.T) {
	rec := &recorder{}
	d := NewDebouncer(20*time.Millisecond, rec.record)

	assert.False(t, d.Stop(), "nothing pending")

	d.Trigger("lamb")
	assert.True(t, d.Stop())
	assert.Never(t, func() bool { return len(rec.snapshot()) > 0 }, 80*time.Millisecond, 10*time.Millisecond)
}

func TestDebouncer_StopWaitsForRunningCall(t *testing.T) {
	started := make(chan struct{})
	var finished atomic.Bool
	d := NewDebouncer(10*time.Millisecond, func(string) {
		close(started)
		time.Sleep(50 * time.Millisecond)
		finished.Store(true)
	})

	d.Trigger("duck")
	select {
	case <-started:
	case <-time.After(time.Second):
		t.Fatal("debounced call never started")
	}

	assert.False(t, d.Stop(), "the call already left the pending state")
	assert.True(t, finished.Load(), "Stop returned before the running call finished")
}

func TestNewDebouncer_DefaultQuiet(t *testing.T) {
	d := NewDebouncer(0, func(string) {})
	assert.Equal(t, DefaultDebounce, d.quiet)
}
