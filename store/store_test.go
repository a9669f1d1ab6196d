package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/robertmeta/dishlyst/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewStore(t *testing.T) {
	s, err := New(":memory:")
	require.NoError(t, err)
	require.NotNil(t, s)
	defer s.Close()
}

func TestStore_SetAndGet(t *testing.T) {
	s, err := New(":memory:")
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.Set("a", `[1,2]`))

	got, err := s.Get("a")
	require.NoError(t, err)
	assert.Equal(t, `[1,2]`, got)

	// Overwrite
	require.NoError(t, s.Set("a", `[]`))
	got, err = s.Get("a")
	require.NoError(t, err)
	assert.Equal(t, `[]`, got)
}

func TestStore_GetMissing(t *testing.T) {
	s, err := New(":memory:")
	require.NoError(t, err)
	defer s.Close()

	_, err = s.Get("missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStore_DeleteAndKeys(t *testing.T) {
	s, err := New(":memory:")
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.Set("b", "1"))
	require.NoError(t, s.Set("a", "2"))

	keys, err := s.Keys()
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, keys)

	require.NoError(t, s.Delete("a"))
	require.NoError(t, s.Delete("never-set"))

	keys, err = s.Keys()
	require.NoError(t, err)
	assert.Equal(t, []string{"b"}, keys)
}

func TestStore_PersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dishlyst.db")

	s, err := New(path)
	require.NoError(t, err)
	require.NoError(t, Write(s, KeyCurrentWeek, "2024-01-01"))
	require.NoError(t, s.Close())

	s, err = New(path)
	require.NoError(t, err)
	defer s.Close()

	assert.Equal(t, "2024-01-01", Read(s, KeyCurrentWeek, ""))
}

func TestRead_FallsBackToDefault(t *testing.T) {
	tests := []struct {
		name  string
		raw   *string
		want  []model.ShoppingItem
		isDef bool
	}{
		{name: "missing", raw: nil, isDef: true},
		{name: "malformed", raw: ptr(`{not json`), isDef: true},
		{name: "wrong shape", raw: ptr(`{"a":1}`), isDef: true},
		{name: "null", raw: ptr(`null`), isDef: true},
		{name: "valid", raw: ptr(`[{"id":"x","ingredient":"Egg","measure":"2"}]`),
			want: []model.ShoppingItem{{ID: "x", Ingredient: "Egg", Measure: "2"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kv := NewMemory()
			if tt.raw != nil {
				require.NoError(t, kv.Set(KeyShoppingList, *tt.raw))
			}

			def := []model.ShoppingItem{}
			got := Read(kv, KeyShoppingList, def)
			if tt.isDef {
				assert.NotNil(t, got)
				assert.Empty(t, got)
				return
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestWriteRead_RoundTrip(t *testing.T) {
	s, err := New(":memory:")
	require.NoError(t, err)
	defer s.Close()

	recipe := model.Recipe{
		ID:       "52772",
		Name:     "Teriyaki Chicken Casserole",
		Category: "Chicken",
		Area:     "Japanese",
		Ingredients: []model.Ingredient{
			{Slot: 1, Name: "soy sauce", Measure: "3/4 cup"},
			{Slot: 3, Name: "brown sugar", Measure: "1/2 cup"},
		},
	}
	ts := time.Date(2024, 3, 4, 5, 6, 7, 8, time.UTC)

	t.Run("favorites", func(t *testing.T) {
		in := []model.Recipe{recipe}
		require.NoError(t, Write(s, KeyFavorites, in))
		assert.Equal(t, in, Read(s, KeyFavorites, []model.Recipe{}))
	})

	t.Run("meal plan", func(t *testing.T) {
		in := model.MealPlan{"2024-01-01": {model.Dinner: recipe}}
		require.NoError(t, Write(s, KeyMealPlan, in))
		assert.Equal(t, in, Read(s, KeyMealPlan, model.MealPlan{}))
	})

	t.Run("collections", func(t *testing.T) {
		in := []model.Collection{{
			ID:        "coll_1",
			Name:      "Quick Meals",
			Icon:      "bi-folder-fill",
			Color:     "#ea580c",
			RecipeIDs: []string{recipe.ID},
			Recipes:   []model.Recipe{recipe},
			CreatedAt: ts,
			UpdatedAt: ts,
		}}
		require.NoError(t, Write(s, KeyCollections, in))
		assert.Equal(t, in, Read(s, KeyCollections, []model.Collection{}))
	})
}

func ptr(s string) *string {
	return &s
}
