// Package main provides the Coach API server implementation.
package main

import (
	"log/slog"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/healthcheck"
	"github.com/gofiber/fiber/v3/middleware/logger"

	"github.com/vitgar/business-coach-sub001/pkg/assistant"
	"github.com/vitgar/business-coach-sub001/pkg/eventbus"
	"github.com/vitgar/business-coach-sub001/pkg/listcache"
	"github.com/vitgar/business-coach-sub001/pkg/persistence"
	"github.com/vitgar/business-coach-sub001/pkg/services"
	"github.com/vitgar/business-coach-sub001/pkg/web"
)

type API struct {
	logger      *slog.Logger
	persistence persistence.Persistence
	assistant   assistant.Assistant
	names       listcache.Cache
	eventBus    eventbus.EventBus
	validate    *validator.Validate
}

func NewAPI(
	logger *slog.Logger,
	persistence persistence.Persistence,
	assistantClient assistant.Assistant,
	names listcache.Cache,
	eventBus eventbus.EventBus,
) *API {
	return &API{
		logger:      logger,
		persistence: persistence,
		assistant:   assistantClient,
		names:       names,
		eventBus:    eventBus,
		validate:    validator.New(validator.WithRequiredStructEnabled()),
	}
}

func (a *API) App() *fiber.App {
	planService := services.NewPlan(a.persistence, a.eventBus, a.logger)
	itemService := services.NewActionItems(a.persistence, a.names, a.eventBus, a.logger)
	conversationService := services.NewConversation(a.assistant, planService, a.logger)
	migrationService := services.NewMigration(a.persistence, a.eventBus, a.logger)

	handlers := web.NewAPIHandlers(planService, itemService, conversationService, migrationService, a.validate)

	app := fiber.New()
	app.Use(cors.New())
	app.Use(logger.New(logger.Config{
		DisableColors: true,
	}))

	app.Get(healthcheck.DefaultLivenessEndpoint, healthcheck.NewHealthChecker())
	app.Get(healthcheck.DefaultReadinessEndpoint, healthcheck.NewHealthChecker())

	app.Get("/", func(c fiber.Ctx) error {
		return c.SendString("Coach API")
	})

	app.Get("/sections", handlers.GetSections)
	app.Get("/sections/:sectionID", handlers.GetSection)

	bp := app.Group("/business-plans")
	bp.Get("/", handlers.GetBusinessPlans)
	bp.Post("/", handlers.CreateBusinessPlan)
	bp.Get("/:id", handlers.GetBusinessPlan)
	bp.Patch("/:id", handlers.UpdateBusinessPlan)
	bp.Delete("/:id", handlers.DeleteBusinessPlan)

	// Section endpoints:
	bp.Get("/:id/sections/:sectionID", handlers.GetPlanSection)
	bp.Put("/:id/sections/:sectionID", handlers.SavePlanSection)
	bp.Post("/:id/groups/:groupID/compile", handlers.CompileGroup)
	bp.Post("/:id/sections/:sectionID/chat", handlers.Chat)

	ai := app.Group("/action-items")
	ai.Get("/", handlers.GetActionItems)
	ai.Post("/", handlers.CreateActionItem)
	ai.Get("/:id", handlers.GetActionItem)
	ai.Patch("/:id", handlers.UpdateActionItem)
	ai.Post("/:id/toggle", handlers.ToggleActionItem)
	ai.Put("/:id/notes", handlers.SetActionItemNotes)
	ai.Delete("/:id", handlers.DeleteActionItem)

	al := app.Group("/action-lists")
	al.Get("/", handlers.GetActionLists)
	al.Post("/", handlers.CreateActionList)
	al.Patch("/:id", handlers.RenameActionList)

	app.Post("/users/:id/migrate", handlers.MigrateUser)

	app.Get("/health", handlers.HealthCheck)

	return app
}

func (a *API) Start(port int) error {
	app := a.App()

	err := app.Listen(":" + strconv.Itoa(port))

	return err
}
