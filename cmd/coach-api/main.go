package main

import (
	"context"
	"os"

	cli "github.com/urfave/cli/v3"

	"github.com/vitgar/business-coach-sub001/pkg/cmd"
	"github.com/vitgar/business-coach-sub001/pkg/digest"
	"github.com/vitgar/business-coach-sub001/pkg/log"
	"github.com/vitgar/business-coach-sub001/pkg/otelhelper"
)

const defaultPort = 9090

func main() {
	command := &cli.Command{
		Name:                  "coach-api",
		Usage:                 "Business plan coaching API",
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
				Usage:    "Database connection URL (postgres://, sqlite://, or a directory path)",
				Required: true,
				Sources:  cli.EnvVars("DATABASE_URL"),
			},
			&cli.StringFlag{
				Name:    "assistant-url",
				Usage:   "Base URL of the conversational completion backend",
				Sources: cli.EnvVars("ASSISTANT_URL"),
			},
			&cli.StringFlag{
				Name:    "assistant-api-key",
				Usage:   "Bearer token for the completion backend",
				Sources: cli.EnvVars("ASSISTANT_API_KEY"),
			},
			&cli.StringFlag{
				Name:    "gemini-api-key",
				Usage:   "Google Gemini API key (used when no assistant URL is set)",
				Sources: cli.EnvVars("GEMINI_API_KEY"),
			},
			&cli.StringFlag{
				Name:    "gemini-model",
				Usage:   "Gemini model name",
				Sources: cli.EnvVars("GEMINI_MODEL"),
			},
			&cli.StringFlag{
				Name:    "event-bus",
				Usage:   "Event bus type (kafka, gochannel)",
				Value:   "gochannel",
				Sources: cli.EnvVars("EVENT_BUS_TYPE"),
			},
			&cli.StringFlag{
				Name:    "cache-url",
				Usage:   "List-name cache URL (redis:// for Redis, empty for in-memory)",
				Sources: cli.EnvVars("CACHE_URL"),
			},
			&cli.StringFlag{
				Name:    "digest-schedule",
				Usage:   "Cron expression for the open-items digest publisher (empty disables it)",
				Sources: cli.EnvVars("DIGEST_SCHEDULE"),
			},
			&cli.BoolFlag{
				Name:    "tracing",
				Usage:   "Enable OTLP trace export",
				Sources: cli.EnvVars("OTEL_ENABLED"),
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

			logger := log.WithModule("api")
			logger.InfoContext(ctx, "Initializing Coach API")

			if command.Bool("tracing") {
				if _, err := otelhelper.NewTracer(ctx, "coach-api"); err != nil {
					return err
				}
			}

			persistence := cmd.MustPersistence(ctx, logger, command.String("database-url"))

			defer func() {
				err := persistence.Close(ctx)
				if err != nil {
					logger.ErrorContext(ctx, "Failed to close persistence", "error", err)
				}
			}()

			eventBus := cmd.NewEventBus(command.String("event-bus"), "coach-api", logger)
			defer func() {
				if err := eventBus.Close(); err != nil {
					logger.ErrorContext(ctx, "Failed to close event bus", "error", err)
				}
			}()

			assistantClient, err := cmd.NewAssistant(
				ctx,
				command.String("assistant-url"),
				command.String("assistant-api-key"),
				command.String("gemini-api-key"),
				command.String("gemini-model"),
				logger,
			)
			if err != nil {
				return err
			}

			names := cmd.NewListCache(command.String("cache-url"), logger)

			if schedule := command.String("digest-schedule"); schedule != "" {
				scheduler, err := digest.NewScheduler(schedule, persistence, eventBus, logger)
				if err != nil {
					return err
				}

				if err := scheduler.Start(ctx); err != nil {
					return err
				}

				defer func() {
					if err := scheduler.Stop(ctx); err != nil {
						logger.ErrorContext(ctx, "Failed to stop digest scheduler", "error", err)
					}
				}()
			}

			api := NewAPI(
				logger,
				persistence,
				assistantClient,
				names,
				eventBus,
			)

			err = api.Start(command.Int("port"))
			if err != nil {
				logger.ErrorContext(ctx, "Failed to start API server", "error", err)
			}

			return nil
		},
	}

	err := command.Run(context.Background(), os.Args)
	if err != nil {
		panic(err)
	}
}
