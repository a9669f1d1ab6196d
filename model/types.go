// Package model defines the core data structures for dishlyst.
package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// MaxIngredients is the number of numbered ingredient/measure slots a recipe can carry.
const MaxIngredients = 20

// Recipe is a full recipe snapshot as returned by the recipe source.
// Recipes are never edited locally, only referenced.
type Recipe struct {
	ID           string
	Name         string
	Thumbnail    string
	Category     string
	Area         string
	Tags         []string
	Instructions string
	YouTube      string
	Source       string
	Ingredients  []Ingredient
}

// Ingredient is one populated ingredient/measure slot of a recipe.
// Slot is 1-based and matches the source's strIngredientN numbering.
type Ingredient struct {
	Slot    int    `json:"slot"`
	Name    string `json:"ingredient"`
	Measure string `json:"measure"`
}

// Validate checks if the recipe has the fields every local reference relies on.
func (r *Recipe) Validate() error {
	if r.ID == "" {
		return errors.New("recipe ID is required")
	}
	if r.Name == "" {
		return errors.New("recipe name is required")
	}
	return nil
}

// HasTag checks if the recipe has the specified tag (case-insensitive).
func (r *Recipe) HasTag(tag string) bool {
	for _, t := range r.Tags {
		if strings.EqualFold(t, tag) {
			return true
		}
	}
	return false
}

// Summary returns the lightweight form of the recipe.
func (r *Recipe) Summary() RecipeSummary {
	return RecipeSummary{ID: r.ID, Name: r.Name, Thumbnail: r.Thumbnail}
}

// RecipeSummary is what the category and area filter endpoints return:
// no ingredients, no instructions.
type RecipeSummary struct {
	ID        string `json:"idMeal"`
	Name      string `json:"strMeal"`
	Thumbnail string `json:"strMealThumb,omitempty"`
}

// Filters selects recipes by category and/or area. Empty fields are unset.
type Filters struct {
	Category string `json:"category,omitempty"`
	Area     string `json:"area,omitempty"`
}

// IsEmpty reports whether neither filter is set.
func (f Filters) IsEmpty() bool {
	return f.Category == "" && f.Area == ""
}

// ShoppingItem is one line of the shopping list, tagged with the recipe it came from.
type ShoppingItem struct {
	ID         string `json:"id"`
	RecipeID   string `json:"recipeId"`
	RecipeName string `json:"recipeName"`
	Ingredient string `json:"ingredient"`
	Measure    string `json:"measure"`
	Checked    bool   `json:"checked"`
}

// SameContent reports whether two items describe the same purchase:
// ingredient compared case-insensitively, measure compared exactly.
func (i ShoppingItem) SameContent(other ShoppingItem) bool {
	return strings.EqualFold(i.Ingredient, other.Ingredient) && i.Measure == other.Measure
}

// MealSlot is one of the three meals of a planned day.
type MealSlot string

const (
	Breakfast MealSlot = "breakfast"
	Lunch     MealSlot = "lunch"
	Dinner    MealSlot = "dinner"
)

// MealSlots lists every slot in display order.
var MealSlots = []MealSlot{Breakfast, Lunch, Dinner}

// ParseMealSlot converts a user-supplied slot name.
func ParseMealSlot(s string) (MealSlot, error) {
	slot := MealSlot(strings.ToLower(strings.TrimSpace(s)))
	switch slot {
	case Breakfast, Lunch, Dinner:
		return slot, nil
	}
	return "", fmt.Errorf("invalid meal slot: %q (expected breakfast, lunch or dinner)", s)
}

// DayPlan holds the populated slots of a single date.
type DayPlan map[MealSlot]Recipe

// MealPlan maps an ISO calendar date (YYYY-MM-DD) to its populated slots.
// A date with no populated slots is never stored.
type MealPlan map[string]DayPlan

// PlannedDay is one date of a week view.
type PlannedDay struct {
	Date  string  `json:"date"`
	Meals DayPlan `json:"meals"`
}

// Collection is a user-defined named group of recipe references.
type Collection struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Icon        string    `json:"icon"`
	Color       string    `json:"color"`
	RecipeIDs   []string  `json:"recipeIds"`
	Recipes     []Recipe  `json:"recipes,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Contains checks if the collection references the recipe ID.
func (c *Collection) Contains(recipeID string) bool {
	for _, id := range c.RecipeIDs {
		if id == recipeID {
			return true
		}
	}
	return false
}

// CachedRecipe returns the collection's own snapshot of a recipe, if it has one.
func (c *Collection) CachedRecipe(recipeID string) (Recipe, bool) {
	for _, r := range c.Recipes {
		if r.ID == recipeID {
			return r, true
		}
	}
	return Recipe{}, false
}

// ToastType classifies a user feedback message.
type ToastType string

const (
	ToastSuccess ToastType = "success"
	ToastInfo    ToastType = "info"
	ToastWarning ToastType = "warning"
	ToastError   ToastType = "error"
)

// Toast is a transient user feedback message. Toasts are never persisted.
type Toast struct {
	ID      int64     `json:"id"`
	Message string    `json:"message"`
	Type    ToastType `json:"type"`
}

// Plural returns singular when n == 1 and singular+"s" otherwise.
func Plural(n int, singular string) string {
	if n == 1 {
		return singular
	}
	return singular + "s"
}
