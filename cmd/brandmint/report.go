package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	cli "github.com/urfave/cli/v3"

	"github.com/brandmint/brandmint/pkg/console"
	"github.com/brandmint/brandmint/pkg/log"
	"github.com/brandmint/brandmint/pkg/models"
)

func NewReportCommand() *cli.Command {
	return &cli.Command{
		Name:  "report",
		Usage: "Show the most recent execution report",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "work-dir",
				Usage:   "Working directory holding reports",
				Value:   ".brandmint",
				Sources: cli.EnvVars("BRANDMINT_WORK_DIR"),
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Print the raw report JSON",
			},
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "Log level (debug, info, warn, error)",
				Value:   "info",
				Sources: cli.EnvVars("LOG_LEVEL"),
			},
		},
		Action: func(ctx context.Context, command *cli.Command) error {
			log.Setup(command.String("log-level"))

			dir := filepath.Join(command.String("work-dir"), "reports")

			path, err := latestReport(dir)
			if err != nil {
				return err
			}

			data, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("failed to read report %s: %w", path, err)
			}

			if command.Bool("json") {
				fmt.Fprintln(os.Stdout, string(data))

				return nil
			}

			var report models.ExecutionReport
			if err := json.Unmarshal(data, &report); err != nil {
				return fmt.Errorf("failed to parse report %s: %w", path, err)
			}

			console.New(os.Stdout).Summary(&report)

			return nil
		},
	}
}

// latestReport picks the newest report file by modification time.
func latestReport(dir string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("no reports found in %s: %w", dir, err)
	}

	var candidates []os.DirEntry

	for _, entry := range entries {
		if !entry.IsDir() && filepath.Ext(entry.Name()) == ".json" {
			candidates = append(candidates, entry)
		}
	}

	if len(candidates) == 0 {
		return "", fmt.Errorf("no reports found in %s", dir)
	}

	sort.Slice(candidates, func(i, j int) bool {
		left, _ := candidates[i].Info()
		right, _ := candidates[j].Info()

		return left.ModTime().After(right.ModTime())
	})

	return filepath.Join(dir, candidates[0].Name()), nil
}
