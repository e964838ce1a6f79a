// brandmint orchestrates wave-based brand launch execution: text skill
// hand-off, multi-provider visual asset generation, and crash-safe
// resumable state.
package main

import (
	"context"
	"fmt"
	"os"

	cli "github.com/urfave/cli/v3"
)

func main() {
	cmd := &cli.Command{
		Name:                  "brandmint",
		Usage:                 "Plan and execute brand launch waves",
		EnableShellCompletion: true,
		Commands: []*cli.Command{
			NewLaunchCommand(),
			NewPlanCommand(),
			NewReportCommand(),
			NewValidateCommand(),
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
