package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/robertmeta/dishlyst/app"
	"github.com/robertmeta/dishlyst/collections"
	"github.com/robertmeta/dishlyst/model"
	"github.com/samber/lo"
	"github.com/urfave/cli/v2"
)

var collectionFlags = []cli.Flag{
	&cli.StringFlag{
		Name:  "description",
		Usage: "Collection description",
	},
	&cli.StringFlag{
		Name:  "icon",
		Usage: "Collection icon (see vocab)",
	},
	&cli.StringFlag{
		Name:  "color",
		Usage: "Collection color, e.g. #ea580c (see vocab)",
	},
}

func collectionsCommand() *cli.Command {
	return &cli.Command{
		Name:    "collections",
		Aliases: []string{"col"},
		Usage:   "Group recipes into named collections",
		Subcommands: []*cli.Command{
			{
				Name:   "list",
				Usage:  "List collections",
				Action: listCollections,
			},
			{
				Name:      "show",
				Usage:     "Show a collection and its recipes",
				ArgsUsage: "<collection-id>",
				Action:    showCollection,
			},
			{
				Name:      "create",
				Usage:     "Create a collection",
				ArgsUsage: "<name>",
				Flags:     collectionFlags,
				Action:    createCollection,
			},
			{
				Name:      "preset",
				Usage:     "Create a collection from a suggested template",
				ArgsUsage: "<preset-name>",
				Action:    createPresetCollection,
			},
			{
				Name:   "presets",
				Usage:  "List suggested templates",
				Action: listPresets,
			},
			{
				Name:      "update",
				Usage:     "Change a collection's name, description, icon or color",
				ArgsUsage: "<collection-id>",
				Flags: append([]cli.Flag{
					&cli.StringFlag{
						Name:  "name",
						Usage: "New name",
					},
				}, collectionFlags...),
				Action: updateCollection,
			},
			{
				Name:      "delete",
				Usage:     "Delete a collection",
				ArgsUsage: "<collection-id>",
				Action:    deleteCollection,
			},
			{
				Name:      "add",
				Usage:     "Add a recipe to one or more collections",
				ArgsUsage: "<recipe-id> <collection-id>...",
				Action:    addToCollections,
			},
			{
				Name:      "remove",
				Usage:     "Remove a recipe from a collection",
				ArgsUsage: "<recipe-id> <collection-id>",
				Action:    removeFromCollection,
			},
			{
				Name:      "duplicate",
				Usage:     "Copy a collection",
				ArgsUsage: "<collection-id>",
				Action:    duplicateCollection,
			},
			{
				Name:      "stats",
				Usage:     "Summarize a collection",
				ArgsUsage: "<collection-id>",
				Action:    collectionStats,
			},
			{
				Name:      "of",
				Usage:     "List the collections holding a recipe",
				ArgsUsage: "<recipe-id>",
				Action:    collectionsOfRecipe,
			},
		},
		Action: listCollections,
	}
}

type collectionView struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Icon        string   `json:"icon"`
	Color       string   `json:"color"`
	RecipeIDs   []string `json:"recipeIds"`
	Created     string   `json:"created"`
	Updated     string   `json:"updated"`
}

func viewCollection(c model.Collection) collectionView {
	return collectionView{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		Icon:        c.Icon,
		Color:       c.Color,
		RecipeIDs:   c.RecipeIDs,
		Created:     humanize.Time(c.CreatedAt),
		Updated:     humanize.Time(c.UpdatedAt),
	}
}

func collectionError(err error, action string) error {
	if errors.Is(err, collections.ErrNotFound) {
		return cli.Exit(err.Error(), ExitDataError)
	}
	return cli.Exit(fmt.Sprintf("Failed to %s: %v", action, err), ExitDataError)
}

func listCollections(c *cli.Context) error {
	a, s, err := getApp(c)
	if err != nil {
		return cli.Exit(err.Error(), ExitDataError)
	}
	defer s.Close()

	return outputJSON(map[string]interface{}{
		"count":       len(a.Collections.List()),
		"collections": lo.Map(a.Collections.List(), func(col model.Collection, _ int) collectionView { return viewCollection(col) }),
	})
}

// requireCollection looks up a collection or exits with a data error.
func requireCollection(a *app.App, id string) (model.Collection, error) {
	col := a.Collections.GetByID(id)
	if col == nil {
		return model.Collection{}, cli.Exit(fmt.Sprintf("Collection not found: %s", id), ExitDataError)
	}
	return *col, nil
}

func showCollection(c *cli.Context) error {
	if c.NArg() < 1 {
		return cli.Exit("Usage: dishlyst collections show <collection-id>", ExitUsageError)
	}

	a, s, err := getApp(c)
	if err != nil {
		return cli.Exit(err.Error(), ExitDataError)
	}
	defer s.Close()

	col, err := requireCollection(a, c.Args().Get(0))
	if err != nil {
		return err
	}

	return outputJSON(map[string]interface{}{
		"collection": viewCollection(col),
		"recipes":    recipeList(a.Collections.GetRecipesOf(col.ID)),
	})
}

func createCollection(c *cli.Context) error {
	name := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	if name == "" {
		return cli.Exit("Usage: dishlyst collections create <name>", ExitUsageError)
	}

	a, s, err := getApp(c)
	if err != nil {
		return cli.Exit(err.Error(), ExitDataError)
	}
	defer s.Close()

	col, err := a.Collections.Create(collections.Input{
		Name:        name,
		Description: c.String("description"),
		Icon:        c.String("icon"),
		Color:       c.String("color"),
	})
	if err != nil {
		return collectionError(err, "create collection")
	}

	return outputJSON(viewCollection(col))
}

func createPresetCollection(c *cli.Context) error {
	name := strings.Join(c.Args().Slice(), " ")
	if _, ok := collections.FindPreset(name); !ok {
		names := lo.Map(collections.Presets(), func(p collections.Preset, _ int) string { return p.Name })
		return cli.Exit(fmt.Sprintf("Unknown preset %q (choose one of: %s)", name, strings.Join(names, ", ")), ExitUsageError)
	}

	a, s, err := getApp(c)
	if err != nil {
		return cli.Exit(err.Error(), ExitDataError)
	}
	defer s.Close()

	col, err := a.Collections.CreateFromPreset(name)
	if err != nil {
		return collectionError(err, "create collection")
	}

	return outputJSON(viewCollection(col))
}

func listPresets(c *cli.Context) error {
	return outputJSON(collections.Presets())
}

func updateCollection(c *cli.Context) error {
	if c.NArg() < 1 {
		return cli.Exit("Usage: dishlyst collections update <collection-id> [--name ...] [--description ...] [--icon ...] [--color ...]", ExitUsageError)
	}

	var patch collections.Patch
	for flag, field := range map[string]**string{
		"name":        &patch.Name,
		"description": &patch.Description,
		"icon":        &patch.Icon,
		"color":       &patch.Color,
	} {
		if c.IsSet(flag) {
			v := c.String(flag)
			*field = &v
		}
	}
	if patch.Name == nil && patch.Description == nil && patch.Icon == nil && patch.Color == nil {
		return cli.Exit("Nothing to update", ExitUsageError)
	}

	a, s, err := getApp(c)
	if err != nil {
		return cli.Exit(err.Error(), ExitDataError)
	}
	defer s.Close()

	col, err := a.Collections.Update(c.Args().Get(0), patch)
	if err != nil {
		return collectionError(err, "update collection")
	}

	return outputJSON(viewCollection(col))
}

func deleteCollection(c *cli.Context) error {
	if c.NArg() < 1 {
		return cli.Exit("Usage: dishlyst collections delete <collection-id>", ExitUsageError)
	}

	a, s, err := getApp(c)
	if err != nil {
		return cli.Exit(err.Error(), ExitDataError)
	}
	defer s.Close()

	id := c.Args().Get(0)
	deleted, err := a.Collections.Delete(id)
	if err != nil {
		return collectionError(err, "delete collection")
	}

	return outputJSON(map[string]interface{}{
		"collection_id": id,
		"deleted":       deleted,
	})
}

func addToCollections(c *cli.Context) error {
	if c.NArg() < 2 {
		return cli.Exit("Usage: dishlyst collections add <recipe-id> <collection-id>...", ExitUsageError)
	}

	a, s, err := getApp(c)
	if err != nil {
		return cli.Exit(err.Error(), ExitDataError)
	}
	defer s.Close()

	ids := c.Args().Tail()
	for _, id := range ids {
		if _, err := requireCollection(a, id); err != nil {
			return err
		}
	}

	recipe, err := requireRecipe(c.Context, a, c.Args().First())
	if err != nil {
		return err
	}

	changed, err := a.Collections.AddRecipe(recipe, ids...)
	if err != nil {
		return collectionError(err, "update collections")
	}

	return outputJSON(map[string]interface{}{
		"recipe_id": recipe.ID,
		"added_to":  changed,
	})
}

func removeFromCollection(c *cli.Context) error {
	if c.NArg() < 2 {
		return cli.Exit("Usage: dishlyst collections remove <recipe-id> <collection-id>", ExitUsageError)
	}

	a, s, err := getApp(c)
	if err != nil {
		return cli.Exit(err.Error(), ExitDataError)
	}
	defer s.Close()

	recipeID, collectionID := c.Args().Get(0), c.Args().Get(1)
	removed, err := a.Collections.RemoveRecipe(recipeID, collectionID)
	if err != nil {
		return collectionError(err, "update collection")
	}

	return outputJSON(map[string]interface{}{
		"recipe_id":     recipeID,
		"collection_id": collectionID,
		"removed":       removed,
	})
}

func duplicateCollection(c *cli.Context) error {
	if c.NArg() < 1 {
		return cli.Exit("Usage: dishlyst collections duplicate <collection-id>", ExitUsageError)
	}

	a, s, err := getApp(c)
	if err != nil {
		return cli.Exit(err.Error(), ExitDataError)
	}
	defer s.Close()

	col, err := a.Collections.Duplicate(c.Args().Get(0))
	if err != nil {
		return collectionError(err, "duplicate collection")
	}

	return outputJSON(viewCollection(col))
}

func collectionStats(c *cli.Context) error {
	if c.NArg() < 1 {
		return cli.Exit("Usage: dishlyst collections stats <collection-id>", ExitUsageError)
	}

	a, s, err := getApp(c)
	if err != nil {
		return cli.Exit(err.Error(), ExitDataError)
	}
	defer s.Close()

	id := c.Args().Get(0)
	stats := a.Collections.Stats(id)
	if stats == nil {
		return cli.Exit(fmt.Sprintf("Collection not found: %s", id), ExitDataError)
	}

	return outputJSON(map[string]interface{}{
		"recipeCount": stats.RecipeCount,
		"categories":  stats.Categories,
		"areas":       stats.Areas,
		"lastUpdated": stats.LastUpdated,
		"updated":     humanize.Time(stats.LastUpdated),
	})
}

func collectionsOfRecipe(c *cli.Context) error {
	if c.NArg() < 1 {
		return cli.Exit("Usage: dishlyst collections of <recipe-id>", ExitUsageError)
	}

	a, s, err := getApp(c)
	if err != nil {
		return cli.Exit(err.Error(), ExitDataError)
	}
	defer s.Close()

	recipeID := c.Args().Get(0)
	return outputJSON(map[string]interface{}{
		"recipe_id":      recipeID,
		"in_collections": a.Collections.IsRecipeInCollections(recipeID),
		"collections":    lo.Map(a.Collections.GetCollectionsOf(recipeID), func(col model.Collection, _ int) collectionView { return viewCollection(col) }),
	})
}
