package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/robertmeta/dishlyst/cooking"
	"github.com/robertmeta/dishlyst/model"
	"github.com/urfave/cli/v2"
)

const cookHelp = `Commands:
  n, next          next step
  p, prev          previous step
  g <n>            go to step n
  i                show ingredients
  x <n>            check or uncheck ingredient n
  t <min|dur>      start a timer, e.g. "t 5" or "t 90s"
  c                cancel the timer
  s                show the current step
  h                this help
  q                quit`

func cookCommand() *cli.Command {
	return &cli.Command{
		Name:      "cook",
		Usage:     "Cook a recipe step by step, with an ingredient checklist and a timer",
		ArgsUsage: "<recipe-id>",
		Action:    cook,
	}
}

func cook(c *cli.Context) error {
	if c.NArg() < 1 {
		return cli.Exit("Usage: dishlyst cook <recipe-id>", ExitUsageError)
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

	var mu sync.Mutex
	out := func(format string, args ...interface{}) {
		mu.Lock()
		defer mu.Unlock()
		fmt.Fprintf(os.Stdout, format, args...)
	}

	session := cooking.NewSession(recipe,
		cooking.OnTick(func(t cooking.TimerState) {
			mu.Lock()
			defer mu.Unlock()
			fmt.Fprintf(os.Stderr, "\r⏱ %s ", cooking.FormatRemaining(t.Remaining))
		}),
		cooking.OnDone(func(t cooking.TimerState) {
			mu.Lock()
			fmt.Fprintf(os.Stderr, "\a\r")
			mu.Unlock()
			a.Notify.Show(fmt.Sprintf("Timer done for step %d (%s)", t.StepIndex+1, cooking.FormatRemaining(t.Duration)), model.ToastSuccess)
		}),
	)
	if err := session.Start(); err != nil {
		if errors.Is(err, cooking.ErrNoSteps) {
			return cli.Exit(err.Error(), ExitDataError)
		}
		return cli.Exit(err.Error(), ExitGeneralError)
	}
	defer session.Exit()

	out("Cooking %s: %d steps, %d ingredients. Type h for help.\n", recipe.Name, session.TotalSteps(), len(session.Ingredients()))
	printStep(out, session)

	return runCookLoop(os.Stdin, out, session)
}

func runCookLoop(in io.Reader, out func(string, ...interface{}), session *cooking.Session) error {
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}

		cmd, arg := fields[0], ""
		if len(fields) > 1 {
			arg = fields[1]
		}

		switch strings.ToLower(cmd) {
		case "n", "next":
			if !session.Next() {
				out("Already on the last step.\n")
				continue
			}
			printStep(out, session)
		case "p", "prev":
			if !session.Previous() {
				out("Already on the first step.\n")
				continue
			}
			printStep(out, session)
		case "g", "go":
			n, err := strconv.Atoi(arg)
			if err != nil || !session.GoTo(n-1) {
				out("No step %q.\n", arg)
				continue
			}
			printStep(out, session)
		case "i", "ingredients":
			printIngredients(out, session)
		case "x", "check":
			n, err := strconv.Atoi(arg)
			if err != nil || !session.ToggleIngredient(n-1) {
				out("No ingredient %q.\n", arg)
				continue
			}
			printIngredients(out, session)
		case "t", "timer":
			d, err := parseTimer(arg)
			if err == nil {
				err = session.StartTimer(d)
			}
			if err != nil {
				out("%v\n", err)
				continue
			}
			out("Timer set for %s.\n", cooking.FormatRemaining(d.Truncate(time.Second)))
		case "c", "cancel":
			session.CancelTimer()
			out("Timer cancelled.\n")
		case "s", "step":
			printStep(out, session)
		case "h", "help", "?":
			out("%s\n", cookHelp)
		case "q", "quit", "exit":
			return nil
		default:
			out("Unknown command %q. Type h for help.\n", cmd)
		}
	}

	if err := scanner.Err(); err != nil {
		return cli.Exit(fmt.Sprintf("Failed to read input: %v", err), ExitGeneralError)
	}
	return nil
}

// maxTimer caps a single timer.
const maxTimer = 24 * time.Hour

// parseTimer accepts whole minutes ("5") or a Go duration ("90s", "1m30s").
func parseTimer(s string) (time.Duration, error) {
	if s == "" {
		return 0, fmt.Errorf("timer needs a length; quick timers are %s", quickTimerList())
	}
	if mins, err := strconv.Atoi(s); err == nil {
		if mins > int(maxTimer/time.Minute) {
			return 0, fmt.Errorf("timer too long: %s minutes (max %s)", s, maxTimer)
		}
		return time.Duration(mins) * time.Minute, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid timer length: %s", s)
	}
	if d > maxTimer {
		return 0, fmt.Errorf("timer too long: %s (max %s)", s, maxTimer)
	}
	return d, nil
}

func quickTimerList() string {
	names := make([]string, len(cooking.QuickTimers))
	for i, d := range cooking.QuickTimers {
		names[i] = strconv.Itoa(int(d.Minutes()))
	}
	return strings.Join(names, ", ") + " minutes"
}

func printStep(out func(string, ...interface{}), session *cooking.Session) {
	step := session.Current()
	if step == nil {
		return
	}
	out("\nStep %d of %d (%.0f%%)\n  %s\n", step.Index+1, session.TotalSteps(), session.Progress(), step.Text)
	if session.IsLast() {
		out("  That's the last step. Enjoy your meal!\n")
	}
}

func printIngredients(out func(string, ...interface{}), session *cooking.Session) {
	for i, item := range session.Ingredients() {
		mark := " "
		if item.Checked {
			mark = "x"
		}
		out("  %2d [%s] %s %s\n", i+1, mark, item.Measure, item.Ingredient)
	}
}
