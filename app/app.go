// Package app owns one instance of every state container and implements the
// flows that span more than one of them.
package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/robertmeta/dishlyst/collections"
	"github.com/robertmeta/dishlyst/config"
	"github.com/robertmeta/dishlyst/confirm"
	"github.com/robertmeta/dishlyst/favorites"
	"github.com/robertmeta/dishlyst/mealdb"
	"github.com/robertmeta/dishlyst/model"
	"github.com/robertmeta/dishlyst/planner"
	"github.com/robertmeta/dishlyst/shopping"
	"github.com/robertmeta/dishlyst/store"
	"github.com/robertmeta/dishlyst/toast"
	"github.com/samber/lo"
)

// App is the loaded application state.
type App struct {
	Config      *config.Config
	Source      mealdb.Source
	Notify      toast.Notifier
	Favorites   *favorites.Store
	Shopping    *shopping.List
	Planner     *planner.Planner
	Collections *collections.Store
}

type options struct {
	now  func() time.Time
	rand planner.Rand
}

// Option configures App construction.
type Option func(*options)

// WithClock overrides the clock used by the planner and collections.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// WithRand overrides the randomness used for random week planning.
func WithRand(r planner.Rand) Option {
	return func(o *options) { o.rand = r }
}

// New loads every store from kv. All loading finishes before New returns, so
// no mutation can observe a half-loaded state.
func New(cfg *config.Config, kv store.KV, source mealdb.Source, c confirm.Confirmer, notify toast.Notifier, opts ...Option) *App {
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}

	plannerOpts := []planner.Option{planner.WithClock(o.now)}
	if o.rand != nil {
		plannerOpts = append(plannerOpts, planner.WithRand(o.rand))
	}

	favs := favorites.New(kv, notify, c)
	return &App{
		Config:      cfg,
		Source:      source,
		Notify:      notify,
		Favorites:   favs,
		Shopping:    shopping.New(kv, notify, c),
		Planner:     planner.New(kv, notify, c, plannerOpts...),
		Collections: collections.New(kv, notify, c, favs, collections.WithClock(o.now)),
	}
}

// PlanShoppingResult reports what AddPlanToShoppingList did.
type PlanShoppingResult struct {
	RecipeCount int                  `json:"recipeCount"`
	Added       []model.ShoppingItem `json:"added"`
	Skipped     int                  `json:"skipped"`
}

// AddPlanToShoppingList adds every ingredient planned for the viewed week to
// the shopping list, skipping lines already on it.
func (a *App) AddPlanToShoppingList() (PlanShoppingResult, error) {
	export := a.Planner.GenerateShoppingList()
	res := PlanShoppingResult{RecipeCount: export.RecipeCount}

	if len(export.Ingredients) == 0 {
		a.Notify.Show("No meals planned this week", model.ToastInfo)
		return res, nil
	}

	added, err := a.Shopping.AddItems(export.Ingredients)
	if err != nil {
		return res, err
	}
	res.Added = added.Added
	res.Skipped = added.Skipped

	if n := len(added.Added); n > 0 {
		a.Notify.Show(fmt.Sprintf("Added %d %s from %d %s",
			n, model.Plural(n, "ingredient"),
			res.RecipeCount, model.Plural(res.RecipeCount, "recipe"),
		), model.ToastSuccess)
	} else {
		a.Notify.Show("All ingredients already in shopping list", model.ToastInfo)
	}
	return res, nil
}

// RecipeDetail returns the full recipe, preferring the favorited snapshot
// and fetching from the recipe source otherwise. It returns nil when neither
// has it.
func (a *App) RecipeDetail(ctx context.Context, id string) *model.Recipe {
	if r, ok := a.Favorites.Get(id); ok {
		return &r
	}
	return a.Source.LookupByID(ctx, id)
}

// Discover returns the working recipe list. A query searches by name and
// narrows by any filters; filters alone use the filter endpoints; with
// neither, a random sample is returned.
func (a *App) Discover(ctx context.Context, query string, filters model.Filters) []model.Recipe {
	query = strings.TrimSpace(query)
	switch {
	case query != "":
		recipes := a.Source.SearchByName(ctx, query)
		return lo.Filter(recipes, func(r model.Recipe, _ int) bool {
			return (filters.Category == "" || r.Category == filters.Category) &&
				(filters.Area == "" || r.Area == filters.Area)
		})
	case !filters.IsEmpty():
		return a.Source.ApplyFilters(ctx, filters)
	default:
		return a.Source.RandomSample(ctx, a.randomCount())
	}
}

func (a *App) randomCount() int {
	if a.Config == nil || a.Config.RandomCount < 1 {
		return mealdb.DefaultRandomCount
	}
	return a.Config.RandomCount
}
