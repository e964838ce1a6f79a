package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	cli "github.com/urfave/cli/v3"

	"github.com/brandmint/brandmint/pkg/cache"
	"github.com/brandmint/brandmint/pkg/console"
	"github.com/brandmint/brandmint/pkg/document"
	"github.com/brandmint/brandmint/pkg/executor"
	"github.com/brandmint/brandmint/pkg/log"
	"github.com/brandmint/brandmint/pkg/models"
	"github.com/brandmint/brandmint/pkg/otelhelper"
	"github.com/brandmint/brandmint/pkg/planner"
	"github.com/brandmint/brandmint/pkg/providers"
	"github.com/brandmint/brandmint/pkg/registry"
	"github.com/brandmint/brandmint/pkg/state"
)

const registryCacheTTL = 5 * time.Minute

func NewLaunchCommand() *cli.Command {
	return &cli.Command{
		Name:  "launch",
		Usage: "Execute the wave plan for a brand",
		Flags: append(planFlags(),
			&cli.StringFlag{
				Name:    "waves",
				Usage:   "Restrict execution to a wave or range, e.g. 3 or 1-3",
				Sources: cli.EnvVars("BRANDMINT_WAVES"),
			},
			&cli.BoolFlag{
				Name:    "non-interactive",
				Usage:   "Never prompt; poll for skill outputs until the wait budget runs out",
				Sources: cli.EnvVars("BRANDMINT_NON_INTERACTIVE"),
			},
			&cli.StringFlag{
				Name:    "asset-runner",
				Usage:   "External command for rendering visual batches (in-process providers if unset)",
				Sources: cli.EnvVars("BRANDMINT_ASSET_RUNNER"),
			},
			&cli.IntFlag{
				Name:    "seeds",
				Usage:   "Seed generations per visual asset",
				Value:   planner.DefaultSeeds,
				Sources: cli.EnvVars("BRANDMINT_SEEDS"),
			},
			&cli.BoolFlag{
				Name:    "tracing",
				Usage:   "Export OTLP traces for this run",
				Sources: cli.EnvVars("BRANDMINT_TRACING"),
			},
		),
		Action: func(ctx context.Context, command *cli.Command) error {
			log.Setup(command.String("log-level"))
			logger := log.WithModule("launch")

			waveRange, err := executor.ParseWaveRange(command.String("waves"))
			if err != nil {
				return err
			}

			env, err := buildEnvironment(command)
			if err != nil {
				return err
			}

			plan, err := env.plan(command)
			if err != nil {
				return err
			}

			tracer, shutdown, err := otelhelper.NewTracer(ctx, "brandmint", command.Bool("tracing"))
			if err != nil {
				return fmt.Errorf("failed to initialize tracer: %w", err)
			}
			defer func() {
				if err := shutdown(context.Background()); err != nil {
					logger.Error("Failed to shut down tracer", "error", err)
				}
			}()

			logger = log.WithBrand(logger, plan.Brand, plan.ScenarioID)

			store := state.NewStore(
				filepath.Join(env.workDir, "state.json"),
				plan.Brand, plan.ScenarioID, logger)

			chain := providers.NewChain(logger)
			if available := chain.Available(); len(available) > 0 {
				logger.Info("Image providers available", "providers", available)
			} else if command.String("asset-runner") == "" {
				logger.Warn("No image provider credentials set, visual assets will fail")
			}

			exec := executor.New(logger, tracer, env.console, env.registry, store, chain, env.config,
				executor.Options{
					WorkDir:        env.workDir,
					ConfigPath:     command.String("config"),
					NonInteractive: command.Bool("non-interactive"),
					Waves:          waveRange,
					Seeds:          command.Int("seeds"),
					AssetRunner:    command.String("asset-runner"),
				})

			runCtx, cancel := context.WithCancel(ctx)
			defer cancel()

			stop := exec.InstallSignalHandler(cancel)
			defer stop()

			report, err := exec.Run(runCtx, plan)
			if err != nil {
				return err
			}

			if exec.Interrupted() {
				statePath := filepath.Join(env.workDir, "state.json")
				logger.Warn("Run interrupted, state saved for resume", "state_path", statePath)
				fmt.Fprintln(os.Stderr, resumeGuidance(statePath, command.String("config")))
				os.Exit(130)
			}

			if report.Status == "failed" {
				return cli.Exit("execution finished with failures", 1)
			}

			return nil
		},
	}
}

// resumeGuidance tells an interrupted user where the run state lives
// and the exact command that picks the launch back up.
func resumeGuidance(statePath, configPath string) string {
	return fmt.Sprintf("State saved to: %s\nResume with: brandmint launch --config %s", statePath, configPath)
}

// planFlags are shared by launch and plan.
func planFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:     "config",
			Aliases:  []string{"c"},
			Usage:    "Path to the brand config YAML",
			Required: true,
			Sources:  cli.EnvVars("BRANDMINT_CONFIG"),
		},
		&cli.StringFlag{
			Name:    "scenario",
			Usage:   "Launch scenario restricting text skills",
			Sources: cli.EnvVars("BRANDMINT_SCENARIO"),
		},
		&cli.StringFlag{
			Name:    "depth",
			Usage:   "Execution depth (surface, focused, comprehensive, exhaustive)",
			Value:   "comprehensive",
			Sources: cli.EnvVars("BRANDMINT_DEPTH"),
		},
		&cli.StringFlag{
			Name:    "work-dir",
			Usage:   "Working directory for prompts, outputs, assets, and state",
			Value:   ".brandmint",
			Sources: cli.EnvVars("BRANDMINT_WORK_DIR"),
		},
		&cli.StringFlag{
			Name:    "skills-registry",
			Usage:   "YAML file with skill definitions",
			Sources: cli.EnvVars("BRANDMINT_SKILLS_REGISTRY"),
		},
		&cli.StringFlag{
			Name:    "assets-registry",
			Usage:   "YAML file overriding the built-in asset registry",
			Sources: cli.EnvVars("BRANDMINT_ASSETS_REGISTRY"),
		},
		&cli.StringFlag{
			Name:    "log-level",
			Usage:   "Log level (debug, info, warn, error)",
			Value:   "info",
			Sources: cli.EnvVars("LOG_LEVEL"),
		},
	}
}

// environment bundles the pieces both plan and launch need.
type environment struct {
	config   document.Document
	registry *registry.Registry
	console  *console.Console
	workDir  string
}

func buildEnvironment(command *cli.Command) (*environment, error) {
	logger := log.WithModule("registry")

	config, err := document.Load(command.String("config"))
	if err != nil {
		return nil, fmt.Errorf("failed to load brand config: %w", err)
	}

	reg := registry.New(logger, cache.New(registryCacheTTL),
		command.String("skills-registry"), command.String("assets-registry"))

	return &environment{
		config:   config,
		registry: reg,
		console:  console.New(os.Stdout),
		workDir:  command.String("work-dir"),
	}, nil
}

func (env *environment) plan(command *cli.Command) (*models.WavePlan, error) {
	brand := env.config.GetString("brand.name", "")
	if brand == "" {
		return nil, fmt.Errorf("brand config %s is missing brand.name", command.String("config"))
	}

	waves, err := planner.New(env.registry).Plan(env.config, planner.Request{
		ScenarioID: command.String("scenario"),
		Depth:      command.String("depth"),
	})
	if err != nil {
		return nil, err
	}

	return &models.WavePlan{
		Brand:      brand,
		ScenarioID: command.String("scenario"),
		Depth:      command.String("depth"),
		Waves:      waves,
	}, nil
}
