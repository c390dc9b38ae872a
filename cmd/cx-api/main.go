package main

import (
	"context"
	"os"

	"github.com/dongiocoder/cx-flow-designer-sub000/pkg/cmd"
	"github.com/dongiocoder/cx-flow-designer-sub000/pkg/config"
	"github.com/dongiocoder/cx-flow-designer-sub000/pkg/eventbus"
	"github.com/dongiocoder/cx-flow-designer-sub000/pkg/log"
	"github.com/dongiocoder/cx-flow-designer-sub000/pkg/otelhelper"
	"github.com/dongiocoder/cx-flow-designer-sub000/pkg/services"
	"github.com/dongiocoder/cx-flow-designer-sub000/pkg/sweeper"
	cli "github.com/urfave/cli/v3"
	"go.opentelemetry.io/otel/trace"
)

const defaultPort = 9091

func main() {
	logger := log.WithModule("api")

	command := &cli.Command{
		Name:                  "cx-api",
		Usage:                 "Manage companies, workstreams and flows",
		EnableShellCompletion: true,
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "port",
				Aliases: []string{"p"},
				Usage:   "Port to run the API server on",
				Value:   defaultPort,
				Sources: cli.EnvVars("PORT"),
			},
			&cli.StringFlag{
				Name:     "database-url",
				Usage:    "Store location: redis://..., memory://, or a data directory",
				Required: true,
				Sources:  cli.EnvVars("DATABASE_URL"),
			},
			&cli.StringFlag{
				Name:    "event-bus",
				Usage:   "Event bus provider (gochannel, kafka)",
				Value:   "gochannel",
				Sources: cli.EnvVars("EVENT_BUS"),
			},
			&cli.StringFlag{
				Name:    "sweep-schedule",
				Usage:   "Cron schedule for the orphan sweeper (empty disables it)",
				Value:   sweeper.DefaultSchedule,
				Sources: cli.EnvVars("SWEEP_SCHEDULE"),
			},
			&cli.StringFlag{
				Name:    "seed-file",
				Usage:   "YAML file with companies and workstreams to create on startup",
				Sources: cli.EnvVars("SEED_FILE"),
			},
			&cli.BoolFlag{
				Name:    "tracing",
				Usage:   "Export OTLP traces for flow operations",
				Sources: cli.EnvVars("TRACING_ENABLED"),
			},
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "Log level (debug, info, warn, error)",
				Value:   "info",
				Sources: cli.EnvVars("LOG_LEVEL"),
			},
			&cli.StringFlag{
				Name:    "log-format",
				Usage:   "Log format (text, json)",
				Value:   "text",
				Sources: cli.EnvVars("LOG_FORMAT"),
			},
		},
		Action: func(ctx context.Context, command *cli.Command) error {
			log.Setup(command.String("log-level"), command.String("log-format"))

			logger.InfoContext(ctx, "Initializing CX Console API")

			st, err := cmd.NewStore(command.String("database-url"))
			if err != nil {
				return err
			}

			defer func() {
				if err := st.Close(ctx); err != nil {
					logger.ErrorContext(ctx, "Failed to close store", "error", err)
				}
			}()

			eventBus := cmd.NewEventBus(command.String("event-bus"), logger)
			defer func() {
				if err := eventBus.Close(); err != nil {
					logger.ErrorContext(ctx, "Failed to close event bus", "error", err)
				}
			}()

			st.SetNotifier(eventbus.NewStoreNotifier(eventBus, logger))

			if seedFile := command.String("seed-file"); seedFile != "" {
				seed, err := config.LoadSeedFile(seedFile)
				if err != nil {
					return err
				}

				err = seed.Apply(ctx, services.NewCompany(st, eventBus, logger), services.NewWorkstream(st))
				if err != nil {
					return err
				}
			}

			if schedule := command.String("sweep-schedule"); schedule != "" {
				sw := sweeper.New(st, logger)
				if err := sw.Start(ctx, schedule); err != nil {
					return err
				}

				defer sw.Stop()
			}

			var tracer trace.Tracer

			if command.Bool("tracing") {
				tracer, err = otelhelper.NewTracer(ctx, "cx-api")
				if err != nil {
					return err
				}
			}

			api := NewAPI(logger, st, eventBus, tracer)

			if err := api.Start(command.Int("port")); err != nil {
				logger.ErrorContext(ctx, "Failed to start API server", "error", err)
			}

			return nil
		},
	}

	if err := command.Run(context.Background(), os.Args); err != nil {
		panic(err)
	}
}
