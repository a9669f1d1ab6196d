// Package planner keeps the meal plan: a mapping from (date, meal slot) to a
// recipe snapshot, viewed one Monday-to-Sunday week at a time.
//
// The plan itself is not scoped to a week. The week being viewed is a
// separately persisted Monday date.
package planner

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/robertmeta/dishlyst/confirm"
	"github.com/robertmeta/dishlyst/model"
	"github.com/robertmeta/dishlyst/shopping"
	"github.com/robertmeta/dishlyst/store"
	"github.com/robertmeta/dishlyst/toast"
	"github.com/samber/lo"
)

// RandomFillChance is the probability that PlanRandomWeek fills a lunch or dinner slot.
const RandomFillChance = 0.7

// randomSlots are the slots PlanRandomWeek fills. Breakfast is left alone.
var randomSlots = []model.MealSlot{model.Lunch, model.Dinner}

var (
	// ErrInvalidDate is returned for dates that are not YYYY-MM-DD.
	ErrInvalidDate = errors.New("invalid date")
	// ErrInvalidSlot is returned for slots other than breakfast, lunch and dinner.
	ErrInvalidSlot = errors.New("invalid meal slot")
)

// Rand is the randomness PlanRandomWeek draws from.
// *rand.Rand from math/rand/v2 satisfies it.
type Rand interface {
	Float64() float64
	IntN(n int) int
}

type globalRand struct{}

func (globalRand) Float64() float64 { return rand.Float64() }
func (globalRand) IntN(n int) int   { return rand.IntN(n) }

// ShoppingExport is the raw ingredient list of a planned week.
type ShoppingExport struct {
	Ingredients []model.ShoppingItem `json:"ingredients"`
	RecipeCount int                  `json:"recipeCount"`
}

// Option configures a Planner.
type Option func(*Planner)

// WithClock overrides the clock used for "today".
func WithClock(now func() time.Time) Option {
	return func(p *Planner) { p.now = now }
}

// WithRand overrides the randomness used by PlanRandomWeek.
func WithRand(r Rand) Option {
	return func(p *Planner) { p.rand = r }
}

// Planner is the persisted meal plan and the week currently being viewed.
type Planner struct {
	kv      store.KV
	notify  toast.Notifier
	confirm confirm.Confirmer
	now     func() time.Time
	rand    Rand

	plan      model.MealPlan
	weekStart time.Time
}

// New loads the persisted meal plan and current week.
// A missing or malformed current week falls back to this week's Monday;
// a stored date that is not a Monday is normalized.
func New(kv store.KV, notify toast.Notifier, c confirm.Confirmer, opts ...Option) *Planner {
	p := &Planner{
		kv:      kv,
		notify:  notify,
		confirm: c,
		now:     time.Now,
		rand:    globalRand{},
	}
	for _, opt := range opts {
		opt(p)
	}

	p.plan = store.Read(kv, store.KeyMealPlan, model.MealPlan{})
	for date, day := range p.plan {
		if len(day) == 0 {
			delete(p.plan, date)
		}
	}

	p.weekStart = p.todayWeekStart()
	if stored := store.Read(kv, store.KeyCurrentWeek, ""); stored != "" {
		if d, err := ParseDate(stored); err == nil {
			p.weekStart = WeekStart(d)
		}
	}
	return p
}

// Plan returns a deep copy of the whole plan.
func (p *Planner) Plan() model.MealPlan {
	out := make(model.MealPlan, len(p.plan))
	for date, day := range p.plan {
		out[date] = copyDay(day)
	}
	return out
}

// CurrentWeekStart returns the Monday of the week being viewed.
func (p *Planner) CurrentWeekStart() string {
	return FormatDate(p.weekStart)
}

// CurrentWeekDates returns the seven dates of the week being viewed.
func (p *Planner) CurrentWeekDates() []string {
	return WeekDates(p.weekStart)
}

// Week returns the week being viewed, one entry per date, including empty days.
func (p *Planner) Week() []model.PlannedDay {
	return lo.Map(p.CurrentWeekDates(), func(date string, _ int) model.PlannedDay {
		return model.PlannedDay{Date: date, Meals: copyDay(p.plan[date])}
	})
}

// GetMeal returns the recipe planned for a slot, or nil.
func (p *Planner) GetMeal(date string, slot model.MealSlot) *model.Recipe {
	r, ok := p.plan[date][slot]
	if !ok {
		return nil
	}
	return &r
}

// AddMeal sets or overwrites a slot.
func (p *Planner) AddMeal(date string, slot model.MealSlot, recipe model.Recipe) error {
	d, err := ParseDate(date)
	if err != nil {
		return err
	}
	date = FormatDate(d)
	if err := validateSlot(slot); err != nil {
		return err
	}
	if err := recipe.Validate(); err != nil {
		return err
	}

	next := p.Plan()
	day := next[date]
	if day == nil {
		day = model.DayPlan{}
		next[date] = day
	}
	day[slot] = recipe

	if err := p.savePlan(next); err != nil {
		return err
	}
	p.notify.Show(fmt.Sprintf("Added %q to %s", recipe.Name, slot), model.ToastSuccess)
	return nil
}

// RemoveMeal clears a slot. A date left with no slots is deleted entirely.
// It reports whether a recipe was removed. Removing from a date with no
// plan at all is a silent no-op.
func (p *Planner) RemoveMeal(date string, slot model.MealSlot) (bool, error) {
	if err := validateSlot(slot); err != nil {
		return false, err
	}

	day, ok := p.plan[date]
	if !ok {
		return false, nil
	}

	name := "Recipe"
	removed, had := day[slot]
	if had {
		name = removed.Name

		next := p.Plan()
		delete(next[date], slot)
		if len(next[date]) == 0 {
			delete(next, date)
		}
		if err := p.savePlan(next); err != nil {
			return false, err
		}
	}

	p.notify.Show(fmt.Sprintf("Removed %q from %s", name, slot), model.ToastInfo)
	return had, nil
}

// ClearWeek deletes every slot of the week being viewed, after confirmation.
// Other weeks are untouched. It returns the number of slots removed.
func (p *Planner) ClearWeek() (int, error) {
	if !p.confirm.Confirm("Are you sure you want to clear this week's meal plan?") {
		return 0, nil
	}

	next := p.Plan()
	removed := 0
	for _, date := range p.CurrentWeekDates() {
		removed += len(next[date])
		delete(next, date)
	}

	if err := p.savePlan(next); err != nil {
		return 0, err
	}
	p.notify.Show("Meal plan cleared", model.ToastSuccess)
	return removed, nil
}

// PlanRandomWeek fills lunch and dinner of each day of the viewed week, each
// independently with RandomFillChance, using a uniformly chosen favorite.
// Breakfast is never touched, nor is a slot whose draw misses.
// It returns the number of slots filled.
func (p *Planner) PlanRandomWeek(favorites []model.Recipe) (int, error) {
	if len(favorites) == 0 {
		p.notify.Show("Add some favorites first to plan a random week", model.ToastInfo)
		return 0, nil
	}

	next := p.Plan()
	filled := 0
	for _, date := range p.CurrentWeekDates() {
		for _, slot := range randomSlots {
			if p.rand.Float64() >= RandomFillChance {
				continue
			}
			if next[date] == nil {
				next[date] = model.DayPlan{}
			}
			next[date][slot] = favorites[p.rand.IntN(len(favorites))]
			filled++
		}
	}

	if filled > 0 {
		if err := p.savePlan(next); err != nil {
			return 0, err
		}
	}
	p.notify.Show("Random week planned!", model.ToastSuccess)
	return filled, nil
}

// GenerateShoppingList collects every ingredient of every planned slot in the
// viewed week. A recipe planned twice contributes its ingredients twice;
// de-duplication is left to the shopping list.
func (p *Planner) GenerateShoppingList() ShoppingExport {
	var export ShoppingExport
	names := make(map[string]struct{})

	for _, date := range p.CurrentWeekDates() {
		day := p.plan[date]
		for _, slot := range model.MealSlots {
			recipe, ok := day[slot]
			if !ok {
				continue
			}
			names[recipe.Name] = struct{}{}
			export.Ingredients = append(export.Ingredients, shopping.ItemsFromRecipe(recipe)...)
		}
	}

	export.RecipeCount = len(names)
	return export
}

// PreviousWeek moves the view back seven days.
func (p *Planner) PreviousWeek() error {
	return p.saveWeek(p.weekStart.AddDate(0, 0, -7))
}

// NextWeek moves the view forward seven days.
func (p *Planner) NextWeek() error {
	return p.saveWeek(p.weekStart.AddDate(0, 0, 7))
}

// GoToCurrentWeek moves the view to the real-world current week.
func (p *Planner) GoToCurrentWeek() error {
	return p.saveWeek(p.todayWeekStart())
}

// SetWeek moves the view to the week containing t.
func (p *Planner) SetWeek(t time.Time) error {
	return p.saveWeek(WeekStart(t))
}

// IsCurrentWeek reports whether the viewed week is the real-world current week.
func (p *Planner) IsCurrentWeek() bool {
	return p.weekStart.Equal(p.todayWeekStart())
}

func (p *Planner) todayWeekStart() time.Time {
	return WeekStart(p.now())
}

func (p *Planner) savePlan(next model.MealPlan) error {
	if err := store.Write(p.kv, store.KeyMealPlan, next); err != nil {
		return fmt.Errorf("failed to save meal plan: %w", err)
	}
	p.plan = next
	return nil
}

func (p *Planner) saveWeek(start time.Time) error {
	if err := store.Write(p.kv, store.KeyCurrentWeek, FormatDate(start)); err != nil {
		return fmt.Errorf("failed to save current week: %w", err)
	}
	p.weekStart = start
	return nil
}

func validateSlot(slot model.MealSlot) error {
	if !lo.Contains(model.MealSlots, slot) {
		return fmt.Errorf("%w: %q", ErrInvalidSlot, slot)
	}
	return nil
}

func copyDay(day model.DayPlan) model.DayPlan {
	out := make(model.DayPlan, len(day))
	for slot, r := range day {
		out[slot] = r
	}
	return out
}
