package model

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Recipe fields use the recipe source's wire names so that snapshots stored
// locally keep the exact shape the source returned.
const (
	fieldID           = "idMeal"
	fieldName         = "strMeal"
	fieldThumb        = "strMealThumb"
	fieldCategory     = "strCategory"
	fieldArea         = "strArea"
	fieldTags         = "strTags"
	fieldInstructions = "strInstructions"
	fieldYouTube      = "strYoutube"
	fieldSource       = "strSource"
	fieldIngredient   = "strIngredient"
	fieldMeasure      = "strMeasure"
)

// MarshalJSON encodes the recipe in the source's flat shape with numbered
// strIngredientN/strMeasureN pairs. Only populated slots are written.
func (r Recipe) MarshalJSON() ([]byte, error) {
	out := map[string]string{
		fieldID:   r.ID,
		fieldName: r.Name,
	}

	optional := map[string]string{
		fieldThumb:        r.Thumbnail,
		fieldCategory:     r.Category,
		fieldArea:         r.Area,
		fieldTags:         strings.Join(r.Tags, ","),
		fieldInstructions: r.Instructions,
		fieldYouTube:      r.YouTube,
		fieldSource:       r.Source,
	}
	for k, v := range optional {
		if v != "" {
			out[k] = v
		}
	}

	for _, ing := range r.Ingredients {
		if ing.Slot < 1 || ing.Slot > MaxIngredients {
			return nil, fmt.Errorf("ingredient slot %d out of range for recipe %s", ing.Slot, r.ID)
		}
		slot := strconv.Itoa(ing.Slot)
		out[fieldIngredient+slot] = ing.Name
		out[fieldMeasure+slot] = ing.Measure
	}

	return json.Marshal(out)
}

// UnmarshalJSON decodes the source's flat shape. Null, blank and missing
// ingredient slots are dropped; names and measures are trimmed.
func (r *Recipe) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	str := func(key string) string {
		v, ok := raw[key]
		if !ok {
			return ""
		}
		var s *string
		// Non-string values (numbers, objects) are not part of the contract; ignore them.
		if err := json.Unmarshal(v, &s); err != nil || s == nil {
			return ""
		}
		return *s
	}

	*r = Recipe{
		ID:           str(fieldID),
		Name:         str(fieldName),
		Thumbnail:    str(fieldThumb),
		Category:     str(fieldCategory),
		Area:         str(fieldArea),
		Tags:         splitTags(str(fieldTags)),
		Instructions: str(fieldInstructions),
		YouTube:      str(fieldYouTube),
		Source:       str(fieldSource),
	}

	for i := 1; i <= MaxIngredients; i++ {
		slot := strconv.Itoa(i)
		name := strings.TrimSpace(str(fieldIngredient + slot))
		if name == "" {
			continue
		}
		r.Ingredients = append(r.Ingredients, Ingredient{
			Slot:    i,
			Name:    name,
			Measure: strings.TrimSpace(str(fieldMeasure + slot)),
		})
	}

	return nil
}

func splitTags(s string) []string {
	var tags []string
	for _, t := range strings.Split(s, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}
