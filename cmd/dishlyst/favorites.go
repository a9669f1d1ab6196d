package main

import (
	"fmt"

	"github.com/urfave/cli/v2"
)

func favoritesCommand() *cli.Command {
	return &cli.Command{
		Name:    "favorites",
		Aliases: []string{"fav"},
		Usage:   "Manage favorite recipes",
		Subcommands: []*cli.Command{
			{
				Name:   "list",
				Usage:  "List favorites in the order they were added",
				Action: listFavorites,
			},
			{
				Name:      "toggle",
				Usage:     "Add a recipe to favorites, or remove it if already there",
				ArgsUsage: "<recipe-id>",
				Action:    toggleFavorite,
			},
			{
				Name:   "clear",
				Usage:  "Remove every favorite",
				Action: clearFavorites,
			},
		},
		Action: listFavorites,
	}
}

func listFavorites(c *cli.Context) error {
	a, s, err := getApp(c)
	if err != nil {
		return cli.Exit(err.Error(), ExitDataError)
	}
	defer s.Close()

	return outputJSON(recipeList(a.Favorites.List()))
}

func toggleFavorite(c *cli.Context) error {
	if c.NArg() < 1 {
		return cli.Exit("Usage: dishlyst favorites toggle <recipe-id>", ExitUsageError)
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

	favorite, err := a.Favorites.Toggle(recipe)
	if err != nil {
		return cli.Exit(fmt.Sprintf("Failed to update favorites: %v", err), ExitDataError)
	}

	return outputJSON(map[string]interface{}{
		"recipe_id": recipe.ID,
		"favorite":  favorite,
		"count":     a.Favorites.Count(),
	})
}

func clearFavorites(c *cli.Context) error {
	a, s, err := getApp(c)
	if err != nil {
		return cli.Exit(err.Error(), ExitDataError)
	}
	defer s.Close()

	removed, err := a.Favorites.ClearAll()
	if err != nil {
		return cli.Exit(fmt.Sprintf("Failed to clear favorites: %v", err), ExitDataError)
	}

	return outputJSON(map[string]interface{}{
		"removed": removed,
	})
}
