// Package main provides the Quercle API server implementation.
package main

import (
	"log/slog"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/healthcheck"
	"github.com/gofiber/fiber/v3/middleware/logger"
	"github.com/quercle/operion-quercle/pkg/credentials"
	"github.com/quercle/operion-quercle/pkg/protocol"
	"github.com/quercle/operion-quercle/pkg/registry"
	"github.com/quercle/operion-quercle/pkg/web"
)

type API struct {
	logger      *slog.Logger
	registry    *registry.Registry
	credentials protocol.CredentialLookup
	env         credentials.EnvLookup
	validate    *validator.Validate
}

func NewAPI(
	logger *slog.Logger,
	registry *registry.Registry,
	lookup protocol.CredentialLookup,
	env credentials.EnvLookup,
) *API {
	return &API{
		logger:      logger,
		registry:    registry,
		credentials: lookup,
		env:         env,
		validate:    validator.New(validator.WithRequiredStructEnabled()),
	}
}

func (a *API) App() *fiber.App {
	handlers := web.NewAPIHandlers(a.logger, a.validate, a.registry, a.credentials, a.env)

	app := fiber.New()
	app.Use(cors.New())
	app.Use(logger.New(logger.Config{
		DisableColors: true,
	}))

	app.Get(healthcheck.DefaultLivenessEndpoint, healthcheck.NewHealthChecker())
	app.Get(healthcheck.DefaultReadinessEndpoint, healthcheck.NewHealthChecker())

	app.Get("/", func(c fiber.Ctx) error {
		return c.SendString("Quercle API")
	})

	n := app.Group("/nodes")
	n.Get("/", handlers.GetNodes)
	n.Get("/:type", handlers.GetNode)
	n.Post("/:type/execute", handlers.ExecuteNode)

	app.Post("/credentials/:name/test", handlers.TestCredentials)

	app.Get("/health", handlers.HealthCheck)

	return app
}

func (a *API) Start(port int) error {
	app := a.App()

	err := app.Listen(":" + strconv.Itoa(port))

	return err
}
