// Package favorites keeps the set of saved recipes, keyed by recipe ID.
package favorites

import (
	"fmt"

	"github.com/robertmeta/dishlyst/confirm"
	"github.com/robertmeta/dishlyst/model"
	"github.com/robertmeta/dishlyst/store"
	"github.com/robertmeta/dishlyst/toast"
	"github.com/samber/lo"
)

// Store holds the favorite recipes in insertion order, at most one per ID.
// The full recipe snapshot is retained so favorites display offline.
type Store struct {
	kv      store.KV
	notify  toast.Notifier
	confirm confirm.Confirmer
	recipes []model.Recipe
}

// New loads the persisted favorites.
func New(kv store.KV, notify toast.Notifier, c confirm.Confirmer) *Store {
	s := &Store{kv: kv, notify: notify, confirm: c}
	// Collapse duplicate IDs a hand-edited or older blob may contain.
	s.recipes = lo.UniqBy(store.Read(kv, store.KeyFavorites, []model.Recipe{}), func(r model.Recipe) string {
		return r.ID
	})
	return s
}

// List returns a snapshot of the favorites.
func (s *Store) List() []model.Recipe {
	out := make([]model.Recipe, len(s.recipes))
	copy(out, s.recipes)
	return out
}

// Count returns the number of favorites.
func (s *Store) Count() int {
	return len(s.recipes)
}

// IsFavorite checks if the recipe ID is saved.
func (s *Store) IsFavorite(id string) bool {
	_, ok := s.Get(id)
	return ok
}

// Get returns the saved snapshot of a recipe.
func (s *Store) Get(id string) (model.Recipe, bool) {
	return lo.Find(s.recipes, func(r model.Recipe) bool { return r.ID == id })
}

// Toggle adds the recipe if absent and removes it if present.
// It returns whether the recipe is a favorite afterwards.
func (s *Store) Toggle(recipe model.Recipe) (bool, error) {
	if err := recipe.Validate(); err != nil {
		return false, err
	}

	if s.IsFavorite(recipe.ID) {
		next := lo.Reject(s.recipes, func(r model.Recipe, _ int) bool { return r.ID == recipe.ID })
		if err := s.save(next); err != nil {
			return true, err
		}
		s.notify.Show(fmt.Sprintf("Removed %q from favorites", recipe.Name), model.ToastInfo)
		return false, nil
	}

	next := append(s.List(), recipe)
	if err := s.save(next); err != nil {
		return false, err
	}
	s.notify.Show(fmt.Sprintf("Added %q to favorites!", recipe.Name), model.ToastSuccess)
	return true, nil
}

// ClearAll removes every favorite after confirmation.
// It returns the number removed; zero when declined.
func (s *Store) ClearAll() (int, error) {
	if !s.confirm.Confirm("Are you sure you want to clear all favorites?") {
		return 0, nil
	}

	count := len(s.recipes)
	if err := s.save([]model.Recipe{}); err != nil {
		return 0, err
	}
	s.notify.Show(fmt.Sprintf("Removed %d %s", count, model.Plural(count, "favorite")), model.ToastSuccess)
	return count, nil
}

func (s *Store) save(next []model.Recipe) error {
	if err := store.Write(s.kv, store.KeyFavorites, next); err != nil {
		return fmt.Errorf("failed to save favorites: %w", err)
	}
	s.recipes = next
	return nil
}
