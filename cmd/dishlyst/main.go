package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"

	"github.com/robertmeta/dishlyst/app"
	"github.com/robertmeta/dishlyst/config"
	"github.com/robertmeta/dishlyst/confirm"
	"github.com/robertmeta/dishlyst/logging"
	"github.com/robertmeta/dishlyst/mealdb"
	"github.com/robertmeta/dishlyst/model"
	"github.com/robertmeta/dishlyst/store"
	"github.com/robertmeta/dishlyst/toast"
	"github.com/urfave/cli/v2"
)

const (
	ExitSuccess      = 0
	ExitGeneralError = 1
	ExitUsageError   = 2
	ExitDataError    = 3
)

const configKey = "config"

func main() {
	if err := newCLIApp().Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(ExitGeneralError)
	}
}

func newCLIApp() *cli.App {
	return &cli.App{
		Name:    "dishlyst",
		Usage:   "Discover recipes, keep favorites, plan meals and shop for them",
		Version: "0.1.0",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "db",
				Aliases: []string{"d"},
				Usage:   "Database file path (default: ~/.config/dishlyst/dishlyst.db)",
				EnvVars: []string{"DISHLYST_DB"},
			},
			&cli.StringFlag{
				Name:    "api-url",
				Usage:   "Recipe API base URL",
				EnvVars: []string{"DISHLYST_API_URL"},
			},
			&cli.BoolFlag{
				Name:    "yes",
				Aliases: []string{"y"},
				Usage:   "Answer yes to every confirmation prompt",
			},
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "Log debug output to stderr",
			},
		},
		Before:   setup,
		Commands: commands(),
	}
}

func commands() []*cli.Command {
	var cmds []*cli.Command
	cmds = append(cmds, recipeCommands()...)
	cmds = append(cmds,
		favoritesCommand(),
		shoppingCommand(),
		planCommand(),
		collectionsCommand(),
		cookCommand(),
	)
	cmds = append(cmds, backupCommands()...)
	return cmds
}

// setup loads configuration, applies global flag overrides and installs the
// logger before any command runs.
func setup(c *cli.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return cli.Exit(err.Error(), ExitUsageError)
	}

	if db := c.String("db"); db != "" {
		cfg.DBPath = db
	}
	if apiURL := c.String("api-url"); apiURL != "" {
		cfg.APIURL = apiURL
	}

	level := cfg.SlogLevel()
	if c.Bool("verbose") {
		level = slog.LevelDebug
	}
	logging.Setup(level)

	if c.App.Metadata == nil {
		c.App.Metadata = map[string]interface{}{}
	}
	c.App.Metadata[configKey] = cfg
	return nil
}

func getConfig(c *cli.Context) *config.Config {
	if cfg, ok := c.App.Metadata[configKey].(*config.Config); ok {
		return cfg
	}
	cfg, err := config.FromEnv()
	if err != nil {
		return &config.Config{DBPath: config.DefaultDBPath(), APIURL: mealdb.DefaultBaseURL, RandomCount: mealdb.DefaultRandomCount}
	}
	return cfg
}

func getStore(c *cli.Context) (*store.Store, error) {
	dbPath := getConfig(c).DBPath

	// Create directory if it doesn't exist
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	s, err := store.New(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	return s, nil
}

// getApp opens the database and loads every store from it. The caller closes
// the returned store.
func getApp(c *cli.Context) (*app.App, *store.Store, error) {
	s, err := getStore(c)
	if err != nil {
		return nil, nil, err
	}

	cfg := getConfig(c)
	source := mealdb.NewClient(cfg.APIURL,
		mealdb.WithHTTPClient(&http.Client{Timeout: cfg.HTTPTimeout}),
		mealdb.WithMaxFilterResults(cfg.MaxFilterResults),
	)

	q := toast.New(toast.WithDuration(cfg.ToastDuration), toast.WithMax(cfg.ToastMax))
	q.Subscribe(renderToast)

	return app.New(cfg, s, source, getConfirmer(c), q), s, nil
}

// getConfirmer prompts on the terminal unless --yes was given.
func getConfirmer(c *cli.Context) confirm.Confirmer {
	if c.Bool("yes") {
		return confirm.Yes
	}
	return confirm.NewTerminal(os.Stdin, os.Stderr)
}

var toastSymbols = map[model.ToastType]string{
	model.ToastSuccess: "✓",
	model.ToastInfo:    "i",
	model.ToastWarning: "!",
	model.ToastError:   "✗",
}

// renderToast prints toasts to stderr as they are shown so stdout stays JSON.
func renderToast(e toast.Event) {
	if e.Kind != toast.Shown {
		return
	}
	fmt.Fprintf(os.Stderr, "%s %s\n", toastSymbols[e.Toast.Type], e.Toast.Message)
}

func outputJSON(v interface{}) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
