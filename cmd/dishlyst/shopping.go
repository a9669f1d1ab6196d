package main

import (
	"fmt"

	"github.com/robertmeta/dishlyst/app"
	"github.com/robertmeta/dishlyst/shopping"
	"github.com/urfave/cli/v2"
)

func shoppingCommand() *cli.Command {
	return &cli.Command{
		Name:  "shopping",
		Usage: "Manage the shopping list",
		Subcommands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List shopping items",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:    "grouped",
						Aliases: []string{"g"},
						Usage:   "Group items by source recipe",
					},
				},
				Action: listShopping,
			},
			{
				Name:      "add",
				Usage:     "Add every ingredient of a recipe",
				ArgsUsage: "<recipe-id>",
				Action:    addShoppingRecipe,
			},
			{
				Name:      "toggle",
				Usage:     "Check or uncheck items",
				ArgsUsage: "<item-id>...",
				Action:    toggleShoppingItems,
			},
			{
				Name:      "remove",
				Usage:     "Remove items",
				ArgsUsage: "<item-id>...",
				Action:    removeShoppingItems,
			},
			{
				Name:   "clear",
				Usage:  "Remove every item",
				Action: clearShopping,
			},
			{
				Name:   "clear-checked",
				Usage:  "Remove checked items",
				Action: clearCheckedShopping,
			},
			{
				Name:   "from-plan",
				Usage:  "Add the ingredients of every meal planned for a week",
				Flags:  []cli.Flag{weekFlag},
				Action: shoppingFromPlan,
			},
		},
		Action: listShopping,
	}
}

func shoppingSummary(a *app.App) map[string]interface{} {
	return map[string]interface{}{
		"total":   a.Shopping.Len(),
		"checked": a.Shopping.CheckedCount(),
	}
}

func listShopping(c *cli.Context) error {
	a, s, err := getApp(c)
	if err != nil {
		return cli.Exit(err.Error(), ExitDataError)
	}
	defer s.Close()

	out := shoppingSummary(a)
	if c.Bool("grouped") {
		out["groups"] = a.Shopping.GroupByRecipe()
	} else {
		out["items"] = a.Shopping.Items()
	}
	return outputJSON(out)
}

func addShoppingRecipe(c *cli.Context) error {
	if c.NArg() < 1 {
		return cli.Exit("Usage: dishlyst shopping add <recipe-id>", ExitUsageError)
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

	res, err := a.Shopping.AddFromRecipe(recipe)
	if err != nil {
		return cli.Exit(fmt.Sprintf("Failed to update shopping list: %v", err), ExitDataError)
	}

	return outputAddResult(a, res)
}

func outputAddResult(a *app.App, res shopping.AddResult) error {
	out := shoppingSummary(a)
	out["added"] = len(res.Added)
	out["skipped"] = res.Skipped
	out["items"] = res.Added
	return outputJSON(out)
}

func toggleShoppingItems(c *cli.Context) error {
	if c.NArg() < 1 {
		return cli.Exit("Usage: dishlyst shopping toggle <item-id>...", ExitUsageError)
	}

	a, s, err := getApp(c)
	if err != nil {
		return cli.Exit(err.Error(), ExitDataError)
	}
	defer s.Close()

	toggled := 0
	var missing []string
	for _, id := range c.Args().Slice() {
		ok, err := a.Shopping.ToggleChecked(id)
		if err != nil {
			return cli.Exit(fmt.Sprintf("Failed to update shopping list: %v", err), ExitDataError)
		}
		if !ok {
			missing = append(missing, id)
			continue
		}
		toggled++
	}

	out := shoppingSummary(a)
	out["toggled"] = toggled
	out["not_found"] = missing
	return outputJSON(out)
}

func removeShoppingItems(c *cli.Context) error {
	if c.NArg() < 1 {
		return cli.Exit("Usage: dishlyst shopping remove <item-id>...", ExitUsageError)
	}

	a, s, err := getApp(c)
	if err != nil {
		return cli.Exit(err.Error(), ExitDataError)
	}
	defer s.Close()

	removed := 0
	var missing []string
	for _, id := range c.Args().Slice() {
		ok, err := a.Shopping.Remove(id)
		if err != nil {
			return cli.Exit(fmt.Sprintf("Failed to update shopping list: %v", err), ExitDataError)
		}
		if !ok {
			missing = append(missing, id)
			continue
		}
		removed++
	}

	out := shoppingSummary(a)
	out["removed"] = removed
	out["not_found"] = missing
	return outputJSON(out)
}

func clearShopping(c *cli.Context) error {
	a, s, err := getApp(c)
	if err != nil {
		return cli.Exit(err.Error(), ExitDataError)
	}
	defer s.Close()

	removed, err := a.Shopping.ClearAll()
	if err != nil {
		return cli.Exit(fmt.Sprintf("Failed to clear shopping list: %v", err), ExitDataError)
	}

	out := shoppingSummary(a)
	out["removed"] = removed
	return outputJSON(out)
}

func clearCheckedShopping(c *cli.Context) error {
	a, s, err := getApp(c)
	if err != nil {
		return cli.Exit(err.Error(), ExitDataError)
	}
	defer s.Close()

	removed, err := a.Shopping.ClearChecked()
	if err != nil {
		return cli.Exit(fmt.Sprintf("Failed to clear checked items: %v", err), ExitDataError)
	}

	out := shoppingSummary(a)
	out["removed"] = removed
	return outputJSON(out)
}

func shoppingFromPlan(c *cli.Context) error {
	a, s, err := getApp(c)
	if err != nil {
		return cli.Exit(err.Error(), ExitDataError)
	}
	defer s.Close()

	if err := applyWeekFlag(c, a); err != nil {
		return err
	}

	res, err := a.AddPlanToShoppingList()
	if err != nil {
		return cli.Exit(fmt.Sprintf("Failed to update shopping list: %v", err), ExitDataError)
	}

	out := shoppingSummary(a)
	out["week"] = a.Planner.CurrentWeekStart()
	out["recipes"] = res.RecipeCount
	out["added"] = len(res.Added)
	out["skipped"] = res.Skipped
	out["items"] = res.Added
	return outputJSON(out)
}
