package main

import (
	"fmt"
	"io"
	"os"
	"slices"
	"time"

	"github.com/robertmeta/dishlyst/backup"
	"github.com/samber/lo"
	"github.com/urfave/cli/v2"
)

func backupCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:      "import",
			Usage:     "Restore favorites, shopping list, meal plan and collections from a backup file",
			ArgsUsage: "<backup-file>",
			Flags: []cli.Flag{
				&cli.BoolFlag{
					Name:  "dry-run",
					Usage: "Check the file and list what would be restored without writing",
				},
			},
			Action: importBackup,
		},
		{
			Name:  "export",
			Usage: "Export everything to a JSON backup file",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:    "output",
					Aliases: []string{"o"},
					Usage:   "Output file (default: stdout)",
				},
			},
			Action: exportBackup,
		},
	}
}

func importBackup(c *cli.Context) error {
	if c.NArg() < 1 {
		return cli.Exit("Usage: dishlyst import <backup-file>", ExitUsageError)
	}

	backupPath := c.Args().Get(0)

	// Open backup file
	file, err := os.Open(backupPath)
	if err != nil {
		return cli.Exit(fmt.Sprintf("Failed to open backup file: %v", err), ExitDataError)
	}
	defer file.Close()

	if c.Bool("dry-run") {
		doc, err := backup.Parse(file)
		if err != nil {
			return cli.Exit(fmt.Sprintf("Failed to parse backup: %v", err), ExitDataError)
		}
		keys := lo.Keys(doc.Data)
		slices.Sort(keys)
		return outputJSON(map[string]interface{}{
			"valid":       true,
			"exported_at": doc.ExportedAt,
			"keys":        keys,
		})
	}

	if !getConfirmer(c).Confirm("Replace your saved data with the contents of the backup?") {
		return outputJSON(map[string]interface{}{
			"success":  false,
			"imported": []string{},
		})
	}

	// Open database
	s, err := getStore(c)
	if err != nil {
		return cli.Exit(err.Error(), ExitDataError)
	}
	defer s.Close()

	res, err := backup.Import(file, s)
	if err != nil {
		return cli.Exit(fmt.Sprintf("Failed to import backup: %v", err), ExitDataError)
	}

	return outputJSON(map[string]interface{}{
		"success":  true,
		"imported": res.Imported,
		"skipped":  res.Skipped,
	})
}

func exportBackup(c *cli.Context) error {
	s, err := getStore(c)
	if err != nil {
		return cli.Exit(err.Error(), ExitDataError)
	}
	defer s.Close()

	// Determine output destination
	outputPath := c.String("output")
	var writer io.Writer

	if outputPath == "" {
		writer = os.Stdout
	} else {
		file, err := os.Create(outputPath)
		if err != nil {
			return cli.Exit(fmt.Sprintf("Failed to create output file: %v", err), ExitDataError)
		}
		defer file.Close()
		writer = file
	}

	if err := backup.Export(writer, s, time.Now()); err != nil {
		return cli.Exit(fmt.Sprintf("Failed to export backup: %v", err), ExitDataError)
	}

	// If writing to a file, also report status as JSON
	if outputPath != "" {
		return outputJSON(map[string]interface{}{
			"success": true,
			"file":    outputPath,
		})
	}

	return nil
}
