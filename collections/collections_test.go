package collections

import (
	"fmt"
	"testing"
	"time"

	"github.com/robertmeta/dishlyst/confirm"
	"github.com/robertmeta/dishlyst/model"
	"github.com/robertmeta/dishlyst/store"
	"github.com/robertmeta/dishlyst/toast"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticFavorites []model.Recipe

func (f staticFavorites) List() []model.Recipe { return f }

var (
	lasagne  = model.Recipe{ID: "10", Name: "Lasagne", Category: "Pasta", Area: "Italian"}
	tiramisu = model.Recipe{ID: "11", Name: "Tiramisu", Category: "Dessert", Area: "Italian"}
	tacos    = model.Recipe{ID: "12", Name: "Tacos", Category: "Beef", Area: "Mexican"}
)

type fixture struct {
	store *Store
	queue *toast.Queue
	kv    store.KV
	clock *time.Time
}

func newFixture(t *testing.T, c confirm.Confirmer, favs FavoritesSource) *fixture {
	t.Helper()
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	f := &fixture{
		kv:    store.NewMemory(),
		queue: toast.New(toast.WithDuration(0), toast.WithMax(100)),
		clock: &now,
	}
	seq := 0
	f.store = New(f.kv, f.queue, c, favs,
		WithClock(func() time.Time { return *f.clock }),
		WithIDGenerator(func() string { seq++; return fmt.Sprintf("coll_%d", seq) }),
	)
	return f
}

func (f *fixture) advance(d time.Duration) { *f.clock = f.clock.Add(d) }

func (f *fixture) lastToast(t *testing.T) model.Toast {
	t.Helper()
	toasts := f.queue.Toasts()
	require.NotEmpty(t, toasts)
	return toasts[len(toasts)-1]
}

func TestCreate(t *testing.T) {
	f := newFixture(t, confirm.Yes, nil)

	c, err := f.store.Create(Input{Name: "  Weeknight  ", RecipeIDs: []string{"1", "2", "1"}})
	require.NoError(t, err)

	assert.Equal(t, "coll_1", c.ID)
	assert.Equal(t, "Weeknight", c.Name)
	assert.Equal(t, DefaultIcon, c.Icon)
	assert.Equal(t, DefaultColor, c.Color)
	assert.Equal(t, []string{"1", "2"}, c.RecipeIDs)
	assert.Equal(t, *f.clock, c.CreatedAt)
	assert.Equal(t, c.CreatedAt, c.UpdatedAt)
	assert.Equal(t, model.Toast{ID: f.lastToast(t).ID, Message: `Created collection "Weeknight"`, Type: model.ToastSuccess}, f.lastToast(t))

	reloaded := New(f.kv, toast.New(), confirm.Yes, nil)
	assert.Equal(t, f.store.List(), reloaded.List())
}

func TestCreate_DefaultIDs(t *testing.T) {
	s := New(store.NewMemory(), toast.New(), confirm.Yes, nil)

	a, err := s.Create(Input{Name: "A"})
	require.NoError(t, err)
	b, err := s.Create(Input{Name: "B"})
	require.NoError(t, err)

	assert.Regexp(t, `^coll_[0-9a-f-]{36}$`, a.ID)
	assert.NotEqual(t, a.ID, b.ID)
}

func TestCreate_RequiresName(t *testing.T) {
	f := newFixture(t, confirm.Yes, nil)

	_, err := f.store.Create(Input{Name: "   "})
	assert.Error(t, err)
	assert.Empty(t, f.store.List())
	assert.Empty(t, f.queue.Toasts())
}

func TestCreateFromPreset(t *testing.T) {
	f := newFixture(t, confirm.Yes, nil)

	c, err := f.store.CreateFromPreset("date night")
	require.NoError(t, err)
	assert.Equal(t, "Date Night", c.Name)
	assert.Equal(t, "Romantic dinner ideas", c.Description)
	assert.Equal(t, "bi-heart-fill", c.Icon)
	assert.Equal(t, "#ec4899", c.Color)

	_, err = f.store.CreateFromPreset("Brunch")
	assert.Error(t, err)
}

func TestUpdate(t *testing.T) {
	f := newFixture(t, confirm.Yes, nil)
	c, err := f.store.Create(Input{Name: "Old", Description: "keep"})
	require.NoError(t, err)
	f.advance(time.Hour)

	name := "New"
	updated, err := f.store.Update(c.ID, Patch{Name: &name})
	require.NoError(t, err)

	assert.Equal(t, c.ID, updated.ID)
	assert.Equal(t, "New", updated.Name)
	assert.Equal(t, "keep", updated.Description)
	assert.Equal(t, c.CreatedAt, updated.CreatedAt)
	assert.True(t, updated.UpdatedAt.After(c.UpdatedAt))
	assert.Equal(t, "Collection updated", f.lastToast(t).Message)

	_, err = f.store.Update("coll_missing", Patch{Name: &name})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdate_RecipeIDsPruneCache(t *testing.T) {
	f := newFixture(t, confirm.Yes, nil)
	c, _ := f.store.Create(Input{Name: "Italian"})
	_, err := f.store.AddRecipe(lasagne, c.ID)
	require.NoError(t, err)
	_, err = f.store.AddRecipe(tiramisu, c.ID)
	require.NoError(t, err)

	updated, err := f.store.Update(c.ID, Patch{RecipeIDs: []string{"11", "11"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"11"}, updated.RecipeIDs)
	assert.Equal(t, []model.Recipe{tiramisu}, updated.Recipes)
}

func TestDelete(t *testing.T) {
	t.Run("confirmed", func(t *testing.T) {
		var prompt string
		f := newFixture(t, confirm.Func(func(p string) bool { prompt = p; return true }), nil)
		c, _ := f.store.Create(Input{Name: "Soups"})

		deleted, err := f.store.Delete(c.ID)
		require.NoError(t, err)
		assert.True(t, deleted)
		assert.Equal(t, `Delete "Soups"? This cannot be undone.`, prompt)
		assert.Nil(t, f.store.GetByID(c.ID))
		assert.Equal(t, model.ToastInfo, f.lastToast(t).Type)
		assert.Equal(t, `Deleted collection "Soups"`, f.lastToast(t).Message)
	})

	t.Run("declined", func(t *testing.T) {
		f := newFixture(t, confirm.No, nil)
		c, _ := f.store.Create(Input{Name: "Soups"})
		before := len(f.queue.Toasts())

		deleted, err := f.store.Delete(c.ID)
		require.NoError(t, err)
		assert.False(t, deleted)
		assert.NotNil(t, f.store.GetByID(c.ID))
		assert.Len(t, f.queue.Toasts(), before)
	})

	t.Run("unknown", func(t *testing.T) {
		f := newFixture(t, confirm.Yes, nil)
		_, err := f.store.Delete("coll_nope")
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestAddRecipe(t *testing.T) {
	f := newFixture(t, confirm.Yes, nil)
	a, _ := f.store.Create(Input{Name: "A"})
	b, _ := f.store.Create(Input{Name: "B"})

	changed, err := f.store.AddRecipe(lasagne, a.ID, b.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, changed)
	assert.Equal(t, "Added to 2 collections", f.lastToast(t).Message)

	// Adding again to a collection that already holds it changes nothing.
	changed, err = f.store.AddRecipe(lasagne, a.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, changed)
	assert.Equal(t, []string{"10"}, f.store.GetByID(a.ID).RecipeIDs, "no duplicate membership")
	assert.Equal(t, "Added to 1 collection", f.lastToast(t).Message)

	changed, err = f.store.AddRecipe(model.Recipe{ID: "11"}, b.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, changed)
	got := f.store.GetByID(b.ID)
	assert.Equal(t, []string{"10", "11"}, got.RecipeIDs)
	assert.Equal(t, []model.Recipe{lasagne}, got.Recipes, "bare IDs are not cached")

	_, err = f.store.AddRecipe(model.Recipe{Name: "no id"}, a.ID)
	assert.Error(t, err)
}

func TestRemoveRecipe(t *testing.T) {
	f := newFixture(t, confirm.Yes, nil)
	c, _ := f.store.Create(Input{Name: "A"})
	_, _ = f.store.AddRecipe(lasagne, c.ID)
	_, _ = f.store.AddRecipe(tacos, c.ID)

	member, err := f.store.RemoveRecipe("10", c.ID)
	require.NoError(t, err)
	assert.True(t, member)
	got := f.store.GetByID(c.ID)
	assert.Equal(t, []string{"12"}, got.RecipeIDs)
	assert.Equal(t, []model.Recipe{tacos}, got.Recipes)
	assert.Equal(t, model.Toast{ID: f.lastToast(t).ID, Message: "Removed from collection", Type: model.ToastInfo}, f.lastToast(t))

	member, err = f.store.RemoveRecipe("10", c.ID)
	require.NoError(t, err)
	assert.False(t, member)

	_, err = f.store.RemoveRecipe("10", "coll_nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRemoveRecipe_LastCachedRecipeReloadsEqual(t *testing.T) {
	f := newFixture(t, confirm.Yes, nil)
	c, _ := f.store.Create(Input{Name: "A"})
	_, _ = f.store.AddRecipe(lasagne, c.ID)

	_, err := f.store.RemoveRecipe("10", c.ID)
	require.NoError(t, err)
	assert.Nil(t, f.store.GetByID(c.ID).Recipes)

	reloaded := New(f.kv, toast.New(), confirm.Yes, nil)
	assert.Equal(t, f.store.List(), reloaded.List())
}

func TestDuplicate(t *testing.T) {
	f := newFixture(t, confirm.Yes, nil)
	c, _ := f.store.Create(Input{Name: "Italian", Icon: "bi-egg-fried"})
	_, _ = f.store.AddRecipe(lasagne, c.ID)
	f.advance(time.Minute)

	dup, err := f.store.Duplicate(c.ID)
	require.NoError(t, err)
	assert.NotEqual(t, c.ID, dup.ID)
	assert.Equal(t, "Italian (Copy)", dup.Name)
	assert.Equal(t, "bi-egg-fried", dup.Icon)
	assert.Equal(t, []string{"10"}, dup.RecipeIDs)
	assert.Equal(t, *f.clock, dup.CreatedAt)
	assert.Equal(t, `Duplicated "Italian"`, f.lastToast(t).Message)
	assert.Len(t, f.store.List(), 2)

	// The copy is independent of the original.
	_, err = f.store.RemoveRecipe("10", dup.ID)
	require.NoError(t, err)
	assert.True(t, f.store.GetByID(c.ID).Contains("10"))

	_, err = f.store.Duplicate("coll_nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetRecipesOf(t *testing.T) {
	favs := staticFavorites{tiramisu, tacos}
	f := newFixture(t, confirm.Yes, favs)
	c, _ := f.store.Create(Input{Name: "Mixed"})

	// Lasagne is cached, 11 resolves from favorites, 99 resolves nowhere.
	_, _ = f.store.AddRecipe(lasagne, c.ID)
	_, _ = f.store.AddRecipe(model.Recipe{ID: "11"}, c.ID)
	_, _ = f.store.AddRecipe(model.Recipe{ID: "99"}, c.ID)

	recipes := f.store.GetRecipesOf(c.ID)
	assert.Equal(t, []model.Recipe{lasagne, tiramisu}, recipes)
	assert.Nil(t, f.store.GetRecipesOf("coll_nope"))
}

func TestGetCollectionsOf(t *testing.T) {
	f := newFixture(t, confirm.Yes, nil)
	a, _ := f.store.Create(Input{Name: "A"})
	b, _ := f.store.Create(Input{Name: "B"})
	_, _ = f.store.Create(Input{Name: "C"})
	_, _ = f.store.AddRecipe(lasagne, a.ID, b.ID)

	got := f.store.GetCollectionsOf("10")
	require.Len(t, got, 2)
	assert.Equal(t, "A", got[0].Name)
	assert.Equal(t, "B", got[1].Name)
	assert.True(t, f.store.IsRecipeInCollections("10"))
	assert.False(t, f.store.IsRecipeInCollections("12"))
}

func TestStats(t *testing.T) {
	f := newFixture(t, confirm.Yes, nil)
	c, _ := f.store.Create(Input{Name: "Mixed"})
	_, _ = f.store.AddRecipe(lasagne, c.ID)
	_, _ = f.store.AddRecipe(tiramisu, c.ID)
	f.advance(time.Hour)
	_, _ = f.store.AddRecipe(tacos, c.ID)
	_, _ = f.store.AddRecipe(model.Recipe{ID: "13", Name: "Mystery"}, c.ID)

	stats := f.store.Stats(c.ID)
	require.NotNil(t, stats)
	assert.Equal(t, 4, stats.RecipeCount)
	assert.Equal(t, []string{"Pasta", "Dessert", "Beef"}, stats.Categories)
	assert.Equal(t, []string{"Italian", "Mexican"}, stats.Areas)
	assert.Equal(t, *f.clock, stats.LastUpdated)

	assert.Nil(t, f.store.Stats("coll_nope"))
}

func TestPresetVocabularies(t *testing.T) {
	assert.Len(t, Presets(), 8)
	assert.Len(t, Icons(), 20)
	assert.Len(t, Colors(), 10)
	assert.Contains(t, Colors(), DefaultColor)

	p, ok := FindPreset(" healthy ")
	require.True(t, ok)
	assert.Equal(t, "bi-heart-pulse-fill", p.Icon)
}
