package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	cli "github.com/urfave/cli/v3"

	"github.com/brandmint/brandmint/pkg/document"
	"github.com/brandmint/brandmint/pkg/log"
	"github.com/brandmint/brandmint/pkg/scenario"
)

var ErrInvalidConfig = errors.New("brand config failed validation")

// brandConfig is the validated shape of the config file's brand block.
type brandConfig struct {
	Name       string   `validate:"required,min=1"`
	Domain     string   `validate:"omitempty,fqdn"`
	DomainTags []string `validate:"omitempty,dive,min=1"`
}

func NewValidateCommand() *cli.Command {
	return &cli.Command{
		Name:    "validate",
		Aliases: []string{"v"},
		Usage:   "Validate a brand config before launching",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "config",
				Aliases:  []string{"c"},
				Usage:    "Path to the brand config YAML",
				Required: true,
				Sources:  cli.EnvVars("BRANDMINT_CONFIG"),
			},
			&cli.StringFlag{
				Name:    "scenario",
				Usage:   "Scenario the config will launch with",
				Sources: cli.EnvVars("BRANDMINT_SCENARIO"),
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

			validate := validator.New(validator.WithRequiredStructEnabled())

			config, err := document.Load(command.String("config"))
			if err != nil {
				return fmt.Errorf("failed to load brand config: %w", err)
			}

			brand := brandConfig{
				Name:       config.GetString("brand.name", ""),
				Domain:     config.GetString("brand.domain", ""),
				DomainTags: config.GetStringSlice("brand.domain_tags"),
			}

			problems := 0

			if err := validate.Struct(brand); err != nil {
				var fieldErrs validator.ValidationErrors
				if errors.As(err, &fieldErrs) {
					for _, fieldErr := range fieldErrs {
						problems++

						_, _ = fmt.Fprintf(os.Stdout, "  ✗ brand.%s: failed %q\n",
							fieldErr.Field(), fieldErr.Tag())
					}
				} else {
					return err
				}
			}

			if id := command.String("scenario"); id != "" {
				if _, err := scenario.Get(id); err != nil {
					problems++

					_, _ = fmt.Fprintf(os.Stdout, "  ✗ scenario: %s\n", err)
				}
			}

			if problems > 0 {
				_, _ = fmt.Fprintf(os.Stdout, "%d problem(s) found\n", problems)

				return ErrInvalidConfig
			}

			_, _ = fmt.Fprintf(os.Stdout, "✓ %s is valid\n", command.String("config"))

			return nil
		},
	}
}
