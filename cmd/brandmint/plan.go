package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	cli "github.com/urfave/cli/v3"

	"github.com/brandmint/brandmint/pkg/log"
)

func NewPlanCommand() *cli.Command {
	return &cli.Command{
		Name:  "plan",
		Usage: "Show the wave plan without executing it",
		Flags: append(planFlags(),
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Print the plan as JSON instead of a table",
			},
		),
		Action: func(ctx context.Context, command *cli.Command) error {
			log.Setup(command.String("log-level"))

			env, err := buildEnvironment(command)
			if err != nil {
				return err
			}

			plan, err := env.plan(command)
			if err != nil {
				return err
			}

			if command.Bool("json") {
				data, err := json.MarshalIndent(plan, "", "  ")
				if err != nil {
					return fmt.Errorf("failed to marshal plan: %w", err)
				}

				fmt.Fprintln(os.Stdout, string(data))

				return nil
			}

			env.console.PlanTable(plan)

			return nil
		},
	}
}
