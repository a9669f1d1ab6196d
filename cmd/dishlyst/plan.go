package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/robertmeta/dishlyst/app"
	"github.com/robertmeta/dishlyst/model"
	"github.com/robertmeta/dishlyst/planner"
	"github.com/samber/lo"
	"github.com/urfave/cli/v2"
)

var weekFlag = &cli.StringFlag{
	Name:    "week",
	Aliases: []string{"w"},
	Usage:   "Week to act on: this, next, prev, +Nw, -Nw or YYYY-MM-DD (default: the week last viewed)",
}

func planCommand() *cli.Command {
	return &cli.Command{
		Name:  "plan",
		Usage: "Plan breakfast, lunch and dinner for the week",
		Subcommands: []*cli.Command{
			{
				Name:   "show",
				Usage:  "Show the planned week",
				Flags:  []cli.Flag{weekFlag},
				Action: showPlan,
			},
			{
				Name:      "add",
				Usage:     "Plan a recipe for a meal",
				ArgsUsage: "<YYYY-MM-DD> <breakfast|lunch|dinner> <recipe-id>",
				Action:    addPlannedMeal,
			},
			{
				Name:      "remove",
				Usage:     "Remove a planned meal",
				ArgsUsage: "<YYYY-MM-DD> <breakfast|lunch|dinner>",
				Action:    removePlannedMeal,
			},
			{
				Name:   "clear",
				Usage:  "Clear every meal of the week",
				Flags:  []cli.Flag{weekFlag},
				Action: clearPlannedWeek,
			},
			{
				Name:   "random",
				Usage:  "Fill lunches and dinners of the week from favorites at random",
				Flags:  []cli.Flag{weekFlag},
				Action: planRandomWeek,
			},
			{
				Name:   "next",
				Usage:  "Move to the next week",
				Action: navigateWeek((*planner.Planner).NextWeek),
			},
			{
				Name:    "prev",
				Aliases: []string{"previous"},
				Usage:   "Move to the previous week",
				Action:  navigateWeek((*planner.Planner).PreviousWeek),
			},
			{
				Name:   "today",
				Usage:  "Move to the current week",
				Action: navigateWeek((*planner.Planner).GoToCurrentWeek),
			},
			{
				Name:      "week",
				Usage:     "Move to the given week",
				ArgsUsage: "<this|next|prev|+Nw|-Nw|YYYY-MM-DD>",
				Action:    setPlanWeek,
			},
		},
		Action: showPlan,
	}
}

// applyWeekFlag moves the planner to the week named by --week, if given.
// Relative forms are resolved against today.
func applyWeekFlag(c *cli.Context, a *app.App) error {
	if !c.IsSet("week") {
		return nil
	}
	return moveToWeek(a, c.String("week"))
}

func moveToWeek(a *app.App, selector string) error {
	start, err := planner.ParseWeek(selector, time.Now())
	if err != nil {
		return cli.Exit(err.Error(), ExitUsageError)
	}
	if err := a.Planner.SetWeek(start); err != nil {
		return cli.Exit(fmt.Sprintf("Failed to save week: %v", err), ExitDataError)
	}
	return nil
}

type plannedDay struct {
	Date  string                                 `json:"date"`
	Day   string                                 `json:"day"`
	Meals map[model.MealSlot]model.RecipeSummary `json:"meals"`
}

func weekView(a *app.App) map[string]interface{} {
	days := lo.Map(a.Planner.Week(), func(d model.PlannedDay, _ int) plannedDay {
		meals := make(map[model.MealSlot]model.RecipeSummary, len(d.Meals))
		for slot, r := range d.Meals {
			meals[slot] = r.Summary()
		}
		weekday := ""
		if t, err := planner.ParseDate(d.Date); err == nil {
			weekday = t.Weekday().String()
		}
		return plannedDay{Date: d.Date, Day: weekday, Meals: meals}
	})

	return map[string]interface{}{
		"week":         a.Planner.CurrentWeekStart(),
		"current_week": a.Planner.IsCurrentWeek(),
		"planned":      lo.SumBy(days, func(d plannedDay) int { return len(d.Meals) }),
		"days":         days,
	}
}

func showPlan(c *cli.Context) error {
	a, s, err := getApp(c)
	if err != nil {
		return cli.Exit(err.Error(), ExitDataError)
	}
	defer s.Close()

	if err := applyWeekFlag(c, a); err != nil {
		return err
	}
	return outputJSON(weekView(a))
}

func addPlannedMeal(c *cli.Context) error {
	if c.NArg() < 3 {
		return cli.Exit("Usage: dishlyst plan add <YYYY-MM-DD> <breakfast|lunch|dinner> <recipe-id>", ExitUsageError)
	}

	slot, err := model.ParseMealSlot(c.Args().Get(1))
	if err != nil {
		return cli.Exit(err.Error(), ExitUsageError)
	}
	day, err := planner.ParseDate(c.Args().Get(0))
	if err != nil {
		return cli.Exit(err.Error(), ExitUsageError)
	}
	date := planner.FormatDate(day)

	a, s, err := getApp(c)
	if err != nil {
		return cli.Exit(err.Error(), ExitDataError)
	}
	defer s.Close()

	recipe, err := requireRecipe(c.Context, a, c.Args().Get(2))
	if err != nil {
		return err
	}

	if err := a.Planner.AddMeal(date, slot, recipe); err != nil {
		if errors.Is(err, planner.ErrInvalidDate) || errors.Is(err, planner.ErrInvalidSlot) {
			return cli.Exit(err.Error(), ExitUsageError)
		}
		return cli.Exit(fmt.Sprintf("Failed to save meal plan: %v", err), ExitDataError)
	}

	return outputJSON(map[string]interface{}{
		"date":   date,
		"slot":   slot,
		"recipe": recipe.Summary(),
	})
}

func removePlannedMeal(c *cli.Context) error {
	if c.NArg() < 2 {
		return cli.Exit("Usage: dishlyst plan remove <YYYY-MM-DD> <breakfast|lunch|dinner>", ExitUsageError)
	}

	date := c.Args().Get(0)
	slot, err := model.ParseMealSlot(c.Args().Get(1))
	if err != nil {
		return cli.Exit(err.Error(), ExitUsageError)
	}

	a, s, err := getApp(c)
	if err != nil {
		return cli.Exit(err.Error(), ExitDataError)
	}
	defer s.Close()

	removed, err := a.Planner.RemoveMeal(date, slot)
	if err != nil {
		return cli.Exit(fmt.Sprintf("Failed to save meal plan: %v", err), ExitDataError)
	}

	return outputJSON(map[string]interface{}{
		"date":    date,
		"slot":    slot,
		"removed": removed,
	})
}

func clearPlannedWeek(c *cli.Context) error {
	a, s, err := getApp(c)
	if err != nil {
		return cli.Exit(err.Error(), ExitDataError)
	}
	defer s.Close()

	if err := applyWeekFlag(c, a); err != nil {
		return err
	}

	removed, err := a.Planner.ClearWeek()
	if err != nil {
		return cli.Exit(fmt.Sprintf("Failed to clear meal plan: %v", err), ExitDataError)
	}

	return outputJSON(map[string]interface{}{
		"week":          a.Planner.CurrentWeekStart(),
		"slots_cleared": removed,
	})
}

func planRandomWeek(c *cli.Context) error {
	a, s, err := getApp(c)
	if err != nil {
		return cli.Exit(err.Error(), ExitDataError)
	}
	defer s.Close()

	if err := applyWeekFlag(c, a); err != nil {
		return err
	}

	if _, err := a.Planner.PlanRandomWeek(a.Favorites.List()); err != nil {
		return cli.Exit(fmt.Sprintf("Failed to save meal plan: %v", err), ExitDataError)
	}

	return outputJSON(weekView(a))
}

func navigateWeek(move func(*planner.Planner) error) cli.ActionFunc {
	return func(c *cli.Context) error {
		a, s, err := getApp(c)
		if err != nil {
			return cli.Exit(err.Error(), ExitDataError)
		}
		defer s.Close()

		if err := move(a.Planner); err != nil {
			return cli.Exit(fmt.Sprintf("Failed to save week: %v", err), ExitDataError)
		}
		return outputJSON(weekView(a))
	}
}

func setPlanWeek(c *cli.Context) error {
	if c.NArg() < 1 {
		return cli.Exit("Usage: dishlyst plan week <this|next|prev|+Nw|-Nw|YYYY-MM-DD>", ExitUsageError)
	}

	a, s, err := getApp(c)
	if err != nil {
		return cli.Exit(err.Error(), ExitDataError)
	}
	defer s.Close()

	if err := moveToWeek(a, c.Args().Get(0)); err != nil {
		return err
	}
	return outputJSON(weekView(a))
}
