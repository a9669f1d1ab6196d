package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/robertmeta/dishlyst/app"
	"github.com/robertmeta/dishlyst/collections"
	"github.com/robertmeta/dishlyst/cooking"
	"github.com/robertmeta/dishlyst/mealdb"
	"github.com/robertmeta/dishlyst/model"
	"github.com/samber/lo"
	"github.com/urfave/cli/v2"
)

var filterFlags = []cli.Flag{
	&cli.StringFlag{
		Name:    "category",
		Aliases: []string{"c"},
		Usage:   "Filter by category (see vocab)",
	},
	&cli.StringFlag{
		Name:    "area",
		Aliases: []string{"a"},
		Usage:   "Filter by cuisine area (see vocab)",
	},
}

func recipeCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:      "search",
			Usage:     "Search recipes by name",
			ArgsUsage: "<query>",
			Flags: append([]cli.Flag{
				&cli.BoolFlag{
					Name:    "interactive",
					Aliases: []string{"i"},
					Usage:   "Read queries from stdin as you type, one per line",
				},
			}, filterFlags...),
			Action: searchRecipes,
		},
		{
			Name:  "random",
			Usage: "Show a random sample of recipes",
			Flags: []cli.Flag{
				&cli.IntFlag{
					Name:    "count",
					Aliases: []string{"n"},
					Usage:   "Number of recipes to sample (default from DISHLYST_RANDOM_COUNT)",
				},
			},
			Action: randomRecipes,
		},
		{
			Name:   "filter",
			Usage:  "List recipes by category and/or area",
			Flags:  filterFlags,
			Action: filterRecipes,
		},
		{
			Name:      "show",
			Usage:     "Show recipe details",
			ArgsUsage: "<recipe-id>",
			Action:    showRecipe,
		},
		{
			Name:   "vocab",
			Usage:  "List categories, areas, collection icons, colors and presets",
			Action: showVocab,
		},
	}
}

func getFilters(c *cli.Context) model.Filters {
	return model.Filters{
		Category: strings.TrimSpace(c.String("category")),
		Area:     strings.TrimSpace(c.String("area")),
	}
}

func recipeList(recipes []model.Recipe) map[string]interface{} {
	return map[string]interface{}{
		"count":   len(recipes),
		"recipes": lo.Map(recipes, func(r model.Recipe, _ int) model.RecipeSummary { return r.Summary() }),
	}
}

func searchRecipes(c *cli.Context) error {
	if c.Bool("interactive") {
		return searchInteractive(c)
	}

	query := strings.Join(c.Args().Slice(), " ")
	if strings.TrimSpace(query) == "" {
		return cli.Exit("Usage: dishlyst search <query>", ExitUsageError)
	}

	a, s, err := getApp(c)
	if err != nil {
		return cli.Exit(err.Error(), ExitDataError)
	}
	defer s.Close()

	return outputJSON(recipeList(a.Discover(c.Context, query, getFilters(c))))
}

// searchInteractive reads one query per line and runs only the last query of
// each burst of typing.
func searchInteractive(c *cli.Context) error {
	a, s, err := getApp(c)
	if err != nil {
		return cli.Exit(err.Error(), ExitDataError)
	}
	defer s.Close()

	filters := getFilters(c)
	var mu sync.Mutex
	run := func(query string) {
		recipes := a.Discover(c.Context, query, filters)
		mu.Lock()
		defer mu.Unlock()
		if err := outputJSON(recipeList(recipes)); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
	}

	debouncer := mealdb.NewDebouncer(a.Config.Debounce, run)

	var last string
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		last = scanner.Text()
		debouncer.Trigger(last)
	}
	// Stop waits out a search that is already running; a pending one runs now.
	if debouncer.Stop() {
		run(last)
	}

	if err := scanner.Err(); err != nil {
		return cli.Exit(fmt.Sprintf("Failed to read input: %v", err), ExitGeneralError)
	}
	return nil
}

func randomRecipes(c *cli.Context) error {
	a, s, err := getApp(c)
	if err != nil {
		return cli.Exit(err.Error(), ExitDataError)
	}
	defer s.Close()

	count := c.Int("count")
	if count < 0 {
		return cli.Exit("count must be positive", ExitUsageError)
	}
	if count == 0 {
		count = a.Config.RandomCount
	}

	return outputJSON(recipeList(a.Source.RandomSample(c.Context, count)))
}

func filterRecipes(c *cli.Context) error {
	filters := getFilters(c)
	if filters.IsEmpty() {
		return cli.Exit("Usage: dishlyst filter --category <name> and/or --area <name>", ExitUsageError)
	}

	a, s, err := getApp(c)
	if err != nil {
		return cli.Exit(err.Error(), ExitDataError)
	}
	defer s.Close()

	return outputJSON(recipeList(a.Discover(c.Context, "", filters)))
}

func showRecipe(c *cli.Context) error {
	if c.NArg() < 1 {
		return cli.Exit("Usage: dishlyst show <recipe-id>", ExitUsageError)
	}

	a, s, err := getApp(c)
	if err != nil {
		return cli.Exit(err.Error(), ExitDataError)
	}
	defer s.Close()

	recipe, err := requireRecipe(c.Context, a, c.Args().Get(0))
	if err != nil {
		return err
	}

	return outputJSON(map[string]interface{}{
		"recipe":      recipe,
		"favorite":    a.Favorites.IsFavorite(recipe.ID),
		"collections": lo.Map(a.Collections.GetCollectionsOf(recipe.ID), func(col model.Collection, _ int) string { return col.Name }),
		"steps":       cooking.ParseSteps(recipe.Instructions),
	})
}

// requireRecipe resolves a recipe ID or exits with a data error.
func requireRecipe(ctx context.Context, a *app.App, id string) (model.Recipe, error) {
	recipe := a.RecipeDetail(ctx, id)
	if recipe == nil {
		return model.Recipe{}, cli.Exit(fmt.Sprintf("Recipe not found: %s", id), ExitDataError)
	}
	return *recipe, nil
}

func showVocab(c *cli.Context) error {
	return outputJSON(map[string]interface{}{
		"categories":  mealdb.Categories(),
		"areas":       mealdb.Areas(),
		"mealSlots":   model.MealSlots,
		"icons":       collections.Icons(),
		"colors":      collections.Colors(),
		"presets":     collections.Presets(),
		"quickTimers": lo.Map(cooking.QuickTimers, func(d time.Duration, _ int) string { return d.String() }),
	})
}
