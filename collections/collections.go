// Package collections keeps user-defined named groups of recipe references.
//
// A collection stores recipe IDs and, when a full recipe was supplied on add,
// a cached snapshot of that recipe. Membership is queryable both ways: the
// recipes of a collection, and the collections holding a recipe.
package collections

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/robertmeta/dishlyst/confirm"
	"github.com/robertmeta/dishlyst/model"
	"github.com/robertmeta/dishlyst/store"
	"github.com/robertmeta/dishlyst/toast"
	"github.com/samber/lo"
)

const (
	// DefaultIcon is used when a collection is created without an icon.
	DefaultIcon = "bi-folder-fill"
	// DefaultColor is used when a collection is created without a color.
	DefaultColor = "#ea580c"

	idPrefix   = "coll_"
	copySuffix = " (Copy)"
)

// ErrNotFound is returned when a collection ID does not exist.
var ErrNotFound = errors.New("collection not found")

// FavoritesSource is the live favorites list, used when a collection holds
// no snapshot of a member recipe.
type FavoritesSource interface {
	List() []model.Recipe
}

// Input describes a new collection.
type Input struct {
	Name        string
	Description string
	Icon        string
	Color       string
	RecipeIDs   []string
}

// Patch holds the fields to change on Update. Nil fields are left alone.
type Patch struct {
	Name        *string
	Description *string
	Icon        *string
	Color       *string
	RecipeIDs   []string
}

// Stats summarizes the recipes of a collection.
type Stats struct {
	RecipeCount int       `json:"recipeCount"`
	Categories  []string  `json:"categories"`
	Areas       []string  `json:"areas"`
	LastUpdated time.Time `json:"lastUpdated"`
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the clock used for timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithIDGenerator overrides collection ID generation.
func WithIDGenerator(gen func() string) Option {
	return func(s *Store) { s.newID = gen }
}

// Store is the persisted list of collections.
type Store struct {
	kv        store.KV
	notify    toast.Notifier
	confirm   confirm.Confirmer
	favorites FavoritesSource
	now       func() time.Time
	newID     func() string

	collections []model.Collection
}

// New loads the persisted collections.
func New(kv store.KV, notify toast.Notifier, c confirm.Confirmer, favorites FavoritesSource, opts ...Option) *Store {
	s := &Store{
		kv:        kv,
		notify:    notify,
		confirm:   c,
		favorites: favorites,
		now:       time.Now,
		newID:     func() string { return idPrefix + uuid.NewString() },
	}
	for _, opt := range opts {
		opt(s)
	}
	s.collections = store.Read(kv, store.KeyCollections, []model.Collection{})
	return s
}

// List returns a snapshot of every collection in creation order.
func (s *Store) List() []model.Collection {
	return lo.Map(s.collections, func(c model.Collection, _ int) model.Collection {
		return clone(c)
	})
}

// GetByID returns the collection, or nil if it does not exist.
func (s *Store) GetByID(id string) *model.Collection {
	c, ok := lo.Find(s.collections, func(c model.Collection) bool { return c.ID == id })
	if !ok {
		return nil
	}
	c = clone(c)
	return &c
}

// Create adds a new collection with a fresh ID and timestamps.
func (s *Store) Create(in Input) (model.Collection, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return model.Collection{}, errors.New("collection name is required")
	}

	now := s.timestamp()
	c := model.Collection{
		ID:          s.newID(),
		Name:        name,
		Description: strings.TrimSpace(in.Description),
		Icon:        lo.Ternary(in.Icon == "", DefaultIcon, in.Icon),
		Color:       lo.Ternary(in.Color == "", DefaultColor, in.Color),
		RecipeIDs:   lo.Uniq(append([]string{}, in.RecipeIDs...)),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.save(append(s.List(), c)); err != nil {
		return model.Collection{}, err
	}
	s.notify.Show(fmt.Sprintf("Created collection %q", c.Name), model.ToastSuccess)
	return clone(c), nil
}

// CreateFromPreset creates a collection from one of the suggested templates.
func (s *Store) CreateFromPreset(name string) (model.Collection, error) {
	p, ok := FindPreset(name)
	if !ok {
		return model.Collection{}, fmt.Errorf("unknown preset: %q", name)
	}
	return s.Create(Input{Name: p.Name, Description: p.Description, Icon: p.Icon, Color: p.Color})
}

// Update merges the patch into the collection and refreshes UpdatedAt.
// The ID and CreatedAt never change.
func (s *Store) Update(id string, patch Patch) (model.Collection, error) {
	next := s.List()
	_, idx, ok := lo.FindIndexOf(next, func(c model.Collection) bool { return c.ID == id })
	if !ok {
		return model.Collection{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	c := &next[idx]
	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if name == "" {
			return model.Collection{}, errors.New("collection name is required")
		}
		c.Name = name
	}
	if patch.Description != nil {
		c.Description = strings.TrimSpace(*patch.Description)
	}
	if patch.Icon != nil {
		c.Icon = *patch.Icon
	}
	if patch.Color != nil {
		c.Color = *patch.Color
	}
	if patch.RecipeIDs != nil {
		c.RecipeIDs = lo.Uniq(patch.RecipeIDs)
		c.Recipes = pruneCache(c.Recipes, c.RecipeIDs)
	}
	c.UpdatedAt = s.timestamp()

	if err := s.save(next); err != nil {
		return model.Collection{}, err
	}
	s.notify.Show("Collection updated", model.ToastSuccess)
	return clone(*c), nil
}

// Delete removes a collection after confirmation. It reports whether the
// collection was deleted; declining is not an error.
func (s *Store) Delete(id string) (bool, error) {
	c := s.GetByID(id)
	if c == nil {
		return false, fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	if !s.confirm.Confirm(fmt.Sprintf("Delete %q? This cannot be undone.", c.Name)) {
		return false, nil
	}

	next := lo.Reject(s.collections, func(x model.Collection, _ int) bool { return x.ID == id })
	if err := s.save(next); err != nil {
		return false, err
	}
	s.notify.Show(fmt.Sprintf("Deleted collection %q", c.Name), model.ToastInfo)
	return true, nil
}

// AddRecipe adds the recipe to each of the given collections. A recipe with
// only an ID is added as a bare reference; a full recipe is also cached on
// the collection. Collections that already hold the recipe are left alone.
//
// The toast counts the requested collections. The returned count is how many
// collections actually changed.
func (s *Store) AddRecipe(recipe model.Recipe, collectionIDs ...string) (int, error) {
	if recipe.ID == "" {
		return 0, errors.New("recipe id is required")
	}
	if len(collectionIDs) == 0 {
		return 0, nil
	}

	full := recipe.Name != ""
	next := s.List()
	changed := 0
	now := s.timestamp()

	for i := range next {
		c := &next[i]
		if !lo.Contains(collectionIDs, c.ID) || c.Contains(recipe.ID) {
			continue
		}
		c.RecipeIDs = append(c.RecipeIDs, recipe.ID)
		if full {
			c.Recipes = append(c.Recipes, recipe)
		}
		c.UpdatedAt = now
		changed++
	}

	if changed > 0 {
		if err := s.save(next); err != nil {
			return 0, err
		}
	}

	n := len(collectionIDs)
	s.notify.Show(fmt.Sprintf("Added to %d %s", n, model.Plural(n, "collection")), model.ToastSuccess)
	return changed, nil
}

// RemoveRecipe removes the recipe from one collection, including any cached
// snapshot. It reports whether the recipe was a member.
func (s *Store) RemoveRecipe(recipeID, collectionID string) (bool, error) {
	next := s.List()
	_, idx, ok := lo.FindIndexOf(next, func(c model.Collection) bool { return c.ID == collectionID })
	if !ok {
		return false, fmt.Errorf("%w: %s", ErrNotFound, collectionID)
	}

	c := &next[idx]
	member := c.Contains(recipeID)
	if member {
		c.RecipeIDs = lo.Without(c.RecipeIDs, recipeID)
		c.Recipes = pruneCache(c.Recipes, c.RecipeIDs)
		c.UpdatedAt = s.timestamp()
		if err := s.save(next); err != nil {
			return false, err
		}
	}

	s.notify.Show("Removed from collection", model.ToastInfo)
	return member, nil
}

// Duplicate clones a collection under a new ID with " (Copy)" appended to its
// name and fresh timestamps.
func (s *Store) Duplicate(id string) (model.Collection, error) {
	orig := s.GetByID(id)
	if orig == nil {
		return model.Collection{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	now := s.timestamp()
	dup := clone(*orig)
	dup.ID = s.newID()
	dup.Name = orig.Name + copySuffix
	dup.CreatedAt = now
	dup.UpdatedAt = now

	if err := s.save(append(s.List(), dup)); err != nil {
		return model.Collection{}, err
	}
	s.notify.Show(fmt.Sprintf("Duplicated %q", orig.Name), model.ToastSuccess)
	return clone(dup), nil
}

// GetRecipesOf returns the member recipes of a collection in membership order.
// Each member resolves to the collection's cached snapshot, or else to the
// live favorite with that ID. Members that resolve to neither are omitted.
func (s *Store) GetRecipesOf(id string) []model.Recipe {
	c := s.GetByID(id)
	if c == nil {
		return nil
	}

	var favorites []model.Recipe
	if s.favorites != nil {
		favorites = s.favorites.List()
	}

	recipes := make([]model.Recipe, 0, len(c.RecipeIDs))
	for _, rid := range c.RecipeIDs {
		if r, ok := c.CachedRecipe(rid); ok {
			recipes = append(recipes, r)
			continue
		}
		if r, ok := lo.Find(favorites, func(f model.Recipe) bool { return f.ID == rid }); ok {
			recipes = append(recipes, r)
		}
	}
	return recipes
}

// GetCollectionsOf returns every collection holding the recipe.
func (s *Store) GetCollectionsOf(recipeID string) []model.Collection {
	return lo.FilterMap(s.collections, func(c model.Collection, _ int) (model.Collection, bool) {
		return clone(c), c.Contains(recipeID)
	})
}

// IsRecipeInCollections reports whether any collection holds the recipe.
func (s *Store) IsRecipeInCollections(recipeID string) bool {
	return lo.ContainsBy(s.collections, func(c model.Collection) bool { return c.Contains(recipeID) })
}

// Stats summarizes a collection, or returns nil if it does not exist.
// Categories and areas are distinct, in first-seen order, blanks skipped.
func (s *Store) Stats(id string) *Stats {
	c := s.GetByID(id)
	if c == nil {
		return nil
	}

	recipes := s.GetRecipesOf(id)
	return &Stats{
		RecipeCount: len(recipes),
		Categories:  distinct(recipes, func(r model.Recipe) string { return r.Category }),
		Areas:       distinct(recipes, func(r model.Recipe) string { return r.Area }),
		LastUpdated: c.UpdatedAt,
	}
}

func (s *Store) timestamp() time.Time {
	return s.now().UTC()
}

func (s *Store) save(next []model.Collection) error {
	if err := store.Write(s.kv, store.KeyCollections, next); err != nil {
		return fmt.Errorf("failed to save collections: %w", err)
	}
	s.collections = next
	return nil
}

func distinct(recipes []model.Recipe, field func(model.Recipe) string) []string {
	values := lo.Map(recipes, func(r model.Recipe, _ int) string { return field(r) })
	return lo.Uniq(lo.Compact(values))
}

func pruneCache(cache []model.Recipe, ids []string) []model.Recipe {
	if cache == nil {
		return nil
	}
	kept := lo.Filter(cache, func(r model.Recipe, _ int) bool { return lo.Contains(ids, r.ID) })
	if len(kept) == 0 {
		return nil
	}
	return kept
}

func clone(c model.Collection) model.Collection {
	c.RecipeIDs = append([]string{}, c.RecipeIDs...)
	if c.Recipes != nil {
		c.Recipes = append([]model.Recipe{}, c.Recipes...)
	}
	return c
}
