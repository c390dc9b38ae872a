// Package main provides the CX console API server implementation.
package main

import (
	"log/slog"
	"strconv"

	"github.com/dongiocoder/cx-flow-designer-sub000/pkg/eventbus"
	"github.com/dongiocoder/cx-flow-designer-sub000/pkg/services"
	"github.com/dongiocoder/cx-flow-designer-sub000/pkg/store"
	"github.com/dongiocoder/cx-flow-designer-sub000/pkg/web"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/healthcheck"
	"github.com/gofiber/fiber/v3/middleware/logger"
	"go.opentelemetry.io/otel/trace"
)

type API struct {
	logger   *slog.Logger
	store    store.DocumentStore
	eventBus eventbus.EventBus
	validate *validator.Validate
	tracer   trace.Tracer
}

func NewAPI(
	logger *slog.Logger,
	st store.DocumentStore,
	eventBus eventbus.EventBus,
	tracer trace.Tracer,
) *API {
	return &API{
		logger:   logger,
		store:    st,
		eventBus: eventBus,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		tracer:   tracer,
	}
}

func (a *API) App() *fiber.App {
	companyService := services.NewCompany(a.store, a.eventBus, a.logger)
	workstreamService := services.NewWorkstream(a.store)
	flowService := services.NewFlow(a.store, a.eventBus, a.logger)
	kbService := services.NewKnowledgeBase(a.store)

	if a.tracer != nil {
		flowService = flowService.WithTracer(a.tracer)
	}

	handlers := web.NewAPIHandlers(companyService, workstreamService, flowService, kbService, a.validate)

	app := fiber.New()
	app.Use(cors.New())
	app.Use(logger.New(logger.Config{
		DisableColors: true,
	}))

	app.Get(healthcheck.DefaultLivenessEndpoint, healthcheck.NewHealthChecker())
	app.Get(healthcheck.DefaultReadinessEndpoint, healthcheck.NewHealthChecker())

	app.Get("/", func(c fiber.Ctx) error {
		return c.SendString("CX Console API")
	})

	co := app.Group("/companies")
	co.Get("/", handlers.GetCompanies)
	co.Post("/", handlers.CreateCompany)
	co.Get("/by-slug/:slug", handlers.GetCompanyBySlug)
	co.Get("/:id", handlers.GetCompany)
	co.Patch("/:id", handlers.RenameCompany)
	co.Delete("/:id", handlers.DeleteCompany)
	co.Get("/:id/users", handlers.GetCompanyUsers)
	co.Post("/:id/users", handlers.CreateCompanyUser)
	co.Get("/:id/kb-assets", handlers.GetCompanyAssets)
	co.Post("/:id/kb-assets", handlers.CreateCompanyAsset)

	w := app.Group("/workstreams")
	w.Get("/", handlers.GetWorkstreams)
	w.Post("/", handlers.CreateWorkstream)
	w.Get("/:id", handlers.GetWorkstream)
	w.Patch("/:id", handlers.UpdateWorkstream)
	w.Delete("/:id", handlers.DeleteWorkstream)

	// Sub-entity endpoints:
	w.Post("/:id/entities/:kind", handlers.CreateEntity)
	w.Patch("/:id/entities/:kind/:entityId", handlers.UpdateEntity)
	w.Delete("/:id/entities/:kind/:entityId", handlers.DeleteEntity)

	// Flow endpoints:
	w.Post("/:id/entities/:kind/:entityId/flows", handlers.CreateFlow)
	w.Post("/:id/entities/:kind/:entityId/flows/import", handlers.ImportFlow)
	w.Patch("/:id/entities/:kind/:entityId/flows/:flowId", handlers.UpdateFlow)
	w.Post("/:id/entities/:kind/:entityId/flows/:flowId/duplicate", handlers.DuplicateFlow)
	w.Post("/:id/entities/:kind/:entityId/flows/:flowId/set-current", handlers.SetFlowAsCurrent)
	w.Delete("/:id/entities/:kind/:entityId/flows/:flowId", handlers.DeleteFlow)
	w.Put("/:id/entities/:kind/:entityId/flows/:flowId/graph", handlers.SaveFlowGraph)

	kb := app.Group("/kb-assets")
	kb.Get("/:id", handlers.GetAsset)
	kb.Patch("/:id", handlers.UpdateAsset)
	kb.Delete("/:id", handlers.DeleteAsset)

	app.Get("/health", handlers.HealthCheck)

	return app
}

func (a *API) Start(port int) error {
	app := a.App()

	err := app.Listen(":" + strconv.Itoa(port))

	return err
}
