// Package backup exports and imports every persisted dishlyst key as one
// JSON document.
package backup

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"slices"
	"time"

	"github.com/robertmeta/dishlyst/model"
	"github.com/robertmeta/dishlyst/store"
	"github.com/samber/lo"
)

// Version is the backup document format version.
const Version = 1

// Document is the backup file layout. Data holds each key's stored JSON as is.
type Document struct {
	Version    int                        `json:"version"`
	ExportedAt time.Time                  `json:"exportedAt"`
	Data       map[string]json.RawMessage `json:"data"`
}

// Result reports what an import wrote.
type Result struct {
	Imported []string `json:"imported"`
	Skipped  []string `json:"skipped"`
}

// validators check that a value has the shape its key is stored with.
var validators = map[string]func(json.RawMessage) error{
	store.KeyFavorites:    validate[[]model.Recipe],
	store.KeyShoppingList: validate[[]model.ShoppingItem],
	store.KeyMealPlan:     validate[model.MealPlan],
	store.KeyCurrentWeek:  validateDate,
	store.KeyCollections:  validate[[]model.Collection],
}

// Export writes every stored key to w. Keys with no stored value are left out.
func Export(w io.Writer, kv store.KV, now time.Time) error {
	doc := Document{
		Version:    Version,
		ExportedAt: now.UTC(),
		Data:       make(map[string]json.RawMessage),
	}

	for _, key := range store.Keys {
		raw, err := kv.Get(key)
		if errors.Is(err, store.ErrNotFound) {
			continue
		}
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", key, err)
		}
		if !json.Valid([]byte(raw)) {
			continue
		}
		doc.Data[key] = json.RawMessage(raw)
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(doc); err != nil {
		return fmt.Errorf("failed to encode backup: %w", err)
	}
	return nil
}

// Parse reads and checks a backup document without writing anything.
func Parse(r io.Reader) (*Document, error) {
	var doc Document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to parse backup: %w", err)
	}
	if doc.Version != Version {
		return nil, fmt.Errorf("unsupported backup version %d (expected %d)", doc.Version, Version)
	}
	if doc.Data == nil {
		return nil, errors.New("backup has no data")
	}

	for key, raw := range doc.Data {
		check, known := validators[key]
		if !known {
			continue
		}
		if err := check(raw); err != nil {
			return nil, fmt.Errorf("invalid value for %s: %w", key, err)
		}
	}
	return &doc, nil
}

// Import validates the whole document before writing, then stores each known
// key. Unknown keys are skipped and reported. Keys missing from the document
// are left as they are.
func Import(r io.Reader, kv store.KV) (Result, error) {
	doc, err := Parse(r)
	if err != nil {
		return Result{}, err
	}

	var res Result
	for _, key := range lo.Keys(doc.Data) {
		if _, known := validators[key]; !known {
			res.Skipped = append(res.Skipped, key)
		}
	}
	slices.Sort(res.Skipped)

	for _, key := range store.Keys {
		raw, ok := doc.Data[key]
		if !ok {
			continue
		}
		if err := kv.Set(key, string(raw)); err != nil {
			return res, fmt.Errorf("failed to write %s: %w", key, err)
		}
		res.Imported = append(res.Imported, key)
	}
	return res, nil
}

func validate[T any](raw json.RawMessage) error {
	var v T
	return json.Unmarshal(raw, &v)
}

func validateDate(raw json.RawMessage) error {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return err
	}
	if _, err := time.Parse(time.DateOnly, s); err != nil {
		return fmt.Errorf("not a YYYY-MM-DD date: %q", s)
	}
	return nil
}
