// Package cooking runs a step-by-step cooking session for one recipe: the
// parsed instruction steps, an ingredient checklist, and at most one
// countdown timer.
package cooking

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/robertmeta/dishlyst/model"
)

// ErrNoSteps is returned when starting a session for a recipe without instructions.
var ErrNoSteps = errors.New("recipe has no instructions")

// TimerState is a snapshot of the running timer.
type TimerState struct {
	Duration  time.Duration `json:"duration"`
	Remaining time.Duration `json:"remaining"`
	StepIndex int           `json:"stepIndex"`
}

type activeTimer struct {
	state  TimerState
	cancel context.CancelFunc
}

// Option configures a Session.
type Option func(*Session)

// WithTick overrides the timer resolution. Each tick takes one second off
// the remaining time.
func WithTick(d time.Duration) Option {
	return func(s *Session) {
		if d > 0 {
			s.tick = d
		}
	}
}

// OnTick registers a callback run after every countdown tick that does not
// finish the timer.
func OnTick(fn func(TimerState)) Option {
	return func(s *Session) { s.onTick = fn }
}

// OnDone registers a callback run when a timer reaches zero.
func OnDone(fn func(TimerState)) Option {
	return func(s *Session) { s.onDone = fn }
}

// Session is the cooking state for one recipe. It is safe for concurrent
// use; timer callbacks run on their own goroutine.
type Session struct {
	recipe model.Recipe
	tick   time.Duration
	onTick func(TimerState)
	onDone func(TimerState)

	mu          sync.Mutex
	steps       []Step
	ingredients []ChecklistItem
	current     int
	active      bool
	timer       *activeTimer
}

// NewSession parses the recipe into steps and a checklist.
func NewSession(recipe model.Recipe, opts ...Option) *Session {
	s := &Session{
		recipe:      recipe,
		tick:        time.Second,
		onTick:      func(TimerState) {},
		onDone:      func(TimerState) {},
		steps:       ParseSteps(recipe.Instructions),
		ingredients: Checklist(recipe),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Recipe returns the recipe being cooked.
func (s *Session) Recipe() model.Recipe {
	return s.recipe
}

// Start activates the session at the first step.
func (s *Session) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.steps) == 0 {
		return fmt.Errorf("%w: %s", ErrNoSteps, s.recipe.Name)
	}
	s.active = true
	s.current = 0
	return nil
}

// Exit deactivates the session, rewinds to the first step and cancels any timer.
func (s *Session) Exit() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.active = false
	s.current = 0
	s.cancelTimerLocked()
}

// IsActive reports whether the session has been started and not exited.
func (s *Session) IsActive() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}

// Steps returns every step.
func (s *Session) Steps() []Step {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Step{}, s.steps...)
}

// TotalSteps returns the number of steps.
func (s *Session) TotalSteps() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.steps)
}

// CurrentIndex returns the zero-based index of the current step.
func (s *Session) CurrentIndex() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Current returns the current step, or nil when there are no steps.
func (s *Session) Current() *Step {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current >= len(s.steps) {
		return nil
	}
	step := s.steps[s.current]
	return &step
}

// Next advances one step. It does nothing on the last step.
func (s *Session) Next() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.goToLocked(s.current + 1)
}

// Previous goes back one step. It does nothing on the first step.
func (s *Session) Previous() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.goToLocked(s.current - 1)
}

// GoTo jumps to a step. Out-of-range indexes are ignored.
func (s *Session) GoTo(index int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.goToLocked(index)
}

// Progress returns how far through the steps the cook is, as a percentage
// counting the current step as done.
func (s *Session) Progress() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.steps) == 0 {
		return 0
	}
	return float64(s.current+1) / float64(len(s.steps)) * 100
}

// IsFirst reports whether the current step is the first.
func (s *Session) IsFirst() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current == 0
}

// IsLast reports whether the current step is the last.
func (s *Session) IsLast() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current == len(s.steps)-1
}

// Ingredients returns the checklist.
func (s *Session) Ingredients() []ChecklistItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]ChecklistItem{}, s.ingredients...)
}

// ToggleIngredient flips one checklist item. Out-of-range indexes are ignored.
func (s *Session) ToggleIngredient(index int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if index < 0 || index >= len(s.ingredients) {
		return false
	}
	s.ingredients[index].Checked = !s.ingredients[index].Checked
	return true
}

// StartTimer starts a countdown for the current step, replacing any running
// timer. The duration is truncated to whole seconds and must be at least one.
func (s *Session) StartTimer(d time.Duration) error {
	d = d.Truncate(time.Second)
	if d < time.Second {
		return fmt.Errorf("timer must be at least one second, got %s", d)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.cancelTimerLocked()
	ctx, cancel := context.WithCancel(context.Background())
	t := &activeTimer{
		state:  TimerState{Duration: d, Remaining: d, StepIndex: s.current},
		cancel: cancel,
	}
	s.timer = t
	go s.runTimer(ctx, t)
	return nil
}

// CancelTimer stops the running timer, if any.
func (s *Session) CancelTimer() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cancelTimerLocked()
}

// Timer returns the running timer, or nil.
func (s *Session) Timer() *TimerState {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.timer == nil {
		return nil
	}
	state := s.timer.state
	return &state
}

func (s *Session) runTimer(ctx context.Context, t *activeTimer) {
	ticker := time.NewTicker(s.tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		s.mu.Lock()
		if s.timer != t {
			s.mu.Unlock()
			return
		}
		if t.state.Remaining <= time.Second {
			t.state.Remaining = 0
			state := t.state
			s.timer = nil
			s.mu.Unlock()
			t.cancel()
			s.onDone(state)
			return
		}
		t.state.Remaining -= time.Second
		state := t.state
		s.mu.Unlock()
		s.onTick(state)
	}
}

func (s *Session) goToLocked(index int) bool {
	if index < 0 || index >= len(s.steps) {
		return false
	}
	s.current = index
	s.cancelTimerLocked()
	return true
}

func (s *Session) cancelTimerLocked() {
	if s.timer == nil {
		return
	}
	s.timer.cancel()
	s.timer = nil
}
