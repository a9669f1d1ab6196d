package collections

import (
	"strings"

	"github.com/samber/lo"
)

// Preset is a suggested collection template.
type Preset struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	Color       string `json:"color"`
}

var presets = []Preset{
	{Name: "Quick Meals", Description: "Fast and easy recipes", Icon: "bi-lightning-charge-fill", Color: "#f59e0b"},
	{Name: "Date Night", Description: "Romantic dinner ideas", Icon: "bi-heart-fill", Color: "#ec4899"},
	{Name: "Meal Prep", Description: "Make ahead recipes", Icon: "bi-box-seam-fill", Color: "#8b5cf6"},
	{Name: "Comfort Food", Description: "Feel-good favorites", Icon: "bi-fire", Color: "#ea580c"},
	{Name: "Healthy", Description: "Nutritious and delicious", Icon: "bi-heart-pulse-fill", Color: "#10b981"},
	{Name: "Party Food", Description: "Crowd pleasers", Icon: "bi-gift-fill", Color: "#3b82f6"},
	{Name: "Italian", Description: "Italian cuisine", Icon: "bi-egg-fried", Color: "#16a34a"},
	{Name: "Desserts", Description: "Sweet treats", Icon: "bi-cake2-fill", Color: "#d946ef"},
}

var icons = []string{
	"bi-heart-fill", "bi-star-fill", "bi-fire", "bi-lightning-charge-fill",
	"bi-bookmark-fill", "bi-cup-hot-fill", "bi-egg-fried", "bi-cake2-fill",
	"bi-basket-fill", "bi-box-seam-fill", "bi-gift-fill", "bi-heart-pulse-fill",
	"bi-mortarboard-fill", "bi-trophy-fill", "bi-sun-fill", "bi-moon-stars-fill",
	"bi-tree-fill", "bi-flower1", "bi-globe-americas", "bi-house-heart-fill",
}

var colors = []string{
	"#ea580c", "#ef4444", "#ec4899", "#8b5cf6", "#3b82f6",
	"#10b981", "#f59e0b", "#6366f1", "#14b8a6", "#f97316",
}

// Presets returns the suggested collection templates.
func Presets() []Preset {
	return append([]Preset{}, presets...)
}

// FindPreset looks up a preset by name, ignoring case.
func FindPreset(name string) (Preset, bool) {
	name = strings.TrimSpace(name)
	return lo.Find(presets, func(p Preset) bool { return strings.EqualFold(p.Name, name) })
}

// Icons returns the icon names offered when creating a collection.
func Icons() []string {
	return append([]string{}, icons...)
}

// Colors returns the colors offered when creating a collection.
func Colors() []string {
	return append([]string{}, colors...)
}
