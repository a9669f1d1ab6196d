package cooking

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/robertmeta/dishlyst/model"
	"github.com/samber/lo"
)

// stepLabel matches a leading "1.", "2 ", or "Step." style label.
var stepLabel = regexp.MustCompile(`^(\d+\.?\s*|\w+\.\s*)`)

// Step is one instruction line.
type Step struct {
	Index int    `json:"index"`
	Text  string `json:"text"`
}

// ChecklistItem is one ingredient the cook can tick off.
type ChecklistItem struct {
	Ingredient string `json:"ingredient"`
	Measure    string `json:"measure"`
	Checked    bool   `json:"checked"`
}

// QuickTimers are the preset timer lengths offered while cooking.
var QuickTimers = []time.Duration{
	1 * time.Minute,
	5 * time.Minute,
	10 * time.Minute,
	15 * time.Minute,
	20 * time.Minute,
}

// ParseSteps splits instructions into steps: one per non-blank line, trimmed,
// with any leading number or label removed.
func ParseSteps(instructions string) []Step {
	lines := lo.FilterMap(strings.Split(instructions, "\n"), func(line string, _ int) (string, bool) {
		line = strings.TrimSpace(line)
		return line, line != ""
	})
	return lo.Map(lines, func(line string, i int) Step {
		return Step{Index: i, Text: stepLabel.ReplaceAllString(line, "")}
	})
}

// Checklist builds an unchecked item per ingredient of the recipe.
func Checklist(r model.Recipe) []ChecklistItem {
	items := lo.FilterMap(r.Ingredients, func(ing model.Ingredient, _ int) (ChecklistItem, bool) {
		name := strings.TrimSpace(ing.Name)
		return ChecklistItem{Ingredient: name, Measure: strings.TrimSpace(ing.Measure)}, name != ""
	})
	return items
}

// FormatRemaining renders a duration as M:SS.
func FormatRemaining(d time.Duration) string {
	secs := int(d.Round(time.Second) / time.Second)
	return fmt.Sprintf("%d:%02d", secs/60, secs%60)
}
