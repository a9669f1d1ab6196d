// Package shopping keeps the shopping list: ingredient lines tagged with the
// recipe they came from.
//
// The list never holds two items whose ingredient matches case-insensitively
// and whose measure matches exactly. Adds enforce this by skipping duplicates
// at insertion time.
package shopping

import (
	"fmt"
	"hash/fnv"
	"io"
	"strings"

	"github.com/robertmeta/dishlyst/confirm"
	"github.com/robertmeta/dishlyst/model"
	"github.com/robertmeta/dishlyst/store"
	"github.com/robertmeta/dishlyst/toast"
	"github.com/samber/lo"
)

// List is the persisted shopping list.
type List struct {
	kv      store.KV
	notify  toast.Notifier
	confirm confirm.Confirmer
	items   []model.ShoppingItem
}

// AddResult reports what an add did.
type AddResult struct {
	Added   []model.ShoppingItem
	Skipped int
}

// Group is the items of one source recipe, in list order.
type Group struct {
	RecipeID   string               `json:"recipeId"`
	RecipeName string               `json:"recipeName"`
	Items      []model.ShoppingItem `json:"items"`
}

// New loads the persisted shopping list.
func New(kv store.KV, notify toast.Notifier, c confirm.Confirmer) *List {
	return &List{
		kv:      kv,
		notify:  notify,
		confirm: c,
		items:   store.Read(kv, store.KeyShoppingList, []model.ShoppingItem{}),
	}
}

// ItemID derives the canonical item ID from the source recipe and the
// normalized content. It does not depend on slot position or insertion time,
// so the same line from the same recipe always gets the same ID.
func ItemID(recipeID, ingredient, measure string) string {
	h := fnv.New64a()
	lo.Must(io.WriteString(h, recipeID))
	lo.Must(h.Write([]byte{0}))
	lo.Must(io.WriteString(h, strings.ToLower(strings.TrimSpace(ingredient))))
	lo.Must(h.Write([]byte{0}))
	lo.Must(io.WriteString(h, strings.TrimSpace(measure)))
	return fmt.Sprintf("%s-%016x", recipeID, h.Sum64())
}

// ItemsFromRecipe builds one unchecked item per populated ingredient slot.
func ItemsFromRecipe(r model.Recipe) []model.ShoppingItem {
	items := make([]model.ShoppingItem, 0, len(r.Ingredients))
	for _, ing := range r.Ingredients {
		name := strings.TrimSpace(ing.Name)
		if name == "" {
			continue
		}
		measure := strings.TrimSpace(ing.Measure)
		items = append(items, model.ShoppingItem{
			ID:         ItemID(r.ID, name, measure),
			RecipeID:   r.ID,
			RecipeName: r.Name,
			Ingredient: name,
			Measure:    measure,
		})
	}
	return items
}

// Items returns a snapshot of the list.
func (l *List) Items() []model.ShoppingItem {
	out := make([]model.ShoppingItem, len(l.items))
	copy(out, l.items)
	return out
}

// Len returns the number of items.
func (l *List) Len() int {
	return len(l.items)
}

// CheckedCount returns the number of checked items.
func (l *List) CheckedCount() int {
	return lo.CountBy(l.items, func(i model.ShoppingItem) bool { return i.Checked })
}

// GroupByRecipe groups the items by source recipe, in order of first appearance.
func (l *List) GroupByRecipe() []Group {
	var groups []Group
	index := make(map[string]int)
	for _, item := range l.items {
		i, ok := index[item.RecipeID]
		if !ok {
			i = len(groups)
			index[item.RecipeID] = i
			groups = append(groups, Group{RecipeID: item.RecipeID, RecipeName: item.RecipeName})
		}
		groups[i].Items = append(groups[i].Items, item)
	}
	return groups
}

// AddFromRecipe appends every ingredient of the recipe that is not already on
// the list and reports the outcome with a toast.
func (l *List) AddFromRecipe(r model.Recipe) (AddResult, error) {
	res, err := l.AddItems(ItemsFromRecipe(r))
	if err != nil {
		return res, err
	}

	if n := len(res.Added); n > 0 {
		l.notify.Show(fmt.Sprintf("Added %d %s from %q", n, model.Plural(n, "ingredient"), r.Name), model.ToastSuccess)
	} else {
		l.notify.Show("All ingredients already in shopping list", model.ToastInfo)
	}
	return res, nil
}

// AddItems appends the candidates that duplicate neither an existing item nor
// an earlier candidate. It persists only when something was added and never
// toasts; callers report the outcome.
func (l *List) AddItems(candidates []model.ShoppingItem) (AddResult, error) {
	var res AddResult
	next := l.Items()

	for _, c := range candidates {
		if c.ID == "" {
			c.ID = ItemID(c.RecipeID, c.Ingredient, c.Measure)
		}
		if lo.ContainsBy(next, c.SameContent) {
			res.Skipped++
			continue
		}
		next = append(next, c)
		res.Added = append(res.Added, c)
	}

	if len(res.Added) == 0 {
		return res, nil
	}
	if err := l.save(next); err != nil {
		return AddResult{}, err
	}
	return res, nil
}

// ToggleChecked flips the checked flag of an item. It reports whether the item exists.
func (l *List) ToggleChecked(id string) (bool, error) {
	_, idx, ok := lo.FindIndexOf(l.items, func(i model.ShoppingItem) bool { return i.ID == id })
	if !ok {
		return false, nil
	}

	next := l.Items()
	next[idx].Checked = !next[idx].Checked
	return true, l.save(next)
}

// Remove deletes an item. It reports whether the item existed.
func (l *List) Remove(id string) (bool, error) {
	next := lo.Reject(l.items, func(i model.ShoppingItem, _ int) bool { return i.ID == id })
	if len(next) == len(l.items) {
		return false, nil
	}
	return true, l.save(next)
}

// ClearAll removes every item after confirmation and returns how many went.
func (l *List) ClearAll() (int, error) {
	count := len(l.items)
	if count == 0 {
		l.notify.Show("Shopping list is already empty", model.ToastInfo)
		return 0, nil
	}

	if !l.confirm.Confirm("Are you sure you want to clear the entire shopping list?") {
		return 0, nil
	}

	if err := l.save([]model.ShoppingItem{}); err != nil {
		return 0, err
	}
	l.notify.Show(fmt.Sprintf("Removed %d %s", count, model.Plural(count, "item")), model.ToastSuccess)
	return count, nil
}

// ClearChecked removes only the checked items after confirmation.
func (l *List) ClearChecked() (int, error) {
	count := l.CheckedCount()
	if count == 0 {
		l.notify.Show("No checked items to clear", model.ToastInfo)
		return 0, nil
	}

	if !l.confirm.Confirm(fmt.Sprintf("Remove %d checked %s?", count, model.Plural(count, "item"))) {
		return 0, nil
	}

	next := lo.Reject(l.items, func(i model.ShoppingItem, _ int) bool { return i.Checked })
	if err := l.save(next); err != nil {
		return 0, err
	}
	l.notify.Show(fmt.Sprintf("Removed %d checked %s", count, model.Plural(count, "item")), model.ToastSuccess)
	return count, nil
}

func (l *List) save(next []model.ShoppingItem) error {
	if err := store.Write(l.kv, store.KeyShoppingList, next); err != nil {
		return fmt.Errorf("failed to save shopping list: %w", err)
	}
	l.items = next
	return nil
}
