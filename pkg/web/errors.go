package web

import (
	"errors"

	"github.com/gofiber/fiber/v3"
	"github.com/moogar0880/problems"
	"github.com/quercle/operion-quercle/pkg/quercle"
)

func badRequest(c fiber.Ctx, detail string) error {
	problem := problems.NewStatusProblem(400).
		WithInstance(c.Path()).
		WithType("validation_error").
		WithDetail(detail)

	return c.Status(fiber.StatusBadRequest).JSON(problem)
}

func notFound(c fiber.Ctx, problemType, detail string) error {
	problem := problems.NewStatusProblem(404).
		WithInstance(c.Path()).
		WithType(problemType).
		WithDetail(detail)

	return c.Status(fiber.StatusNotFound).JSON(problem)
}

func internalError(c fiber.Ctx, err error) error {
	problem := problems.NewStatusProblem(500).
		WithInstance(c.Path()).
		WithType("internal_error").
		WithError(err)

	return c.Status(fiber.StatusInternalServerError).JSON(problem)
}

// handleQuercleError maps the Quercle error types to problem responses.
func handleQuercleError(c fiber.Ctx, err error) error {
	var (
		cfgErr       *quercle.ConfigurationError
		validationEr *quercle.ValidationError
		opErr        *quercle.OperationError
		transportErr *quercle.TransportError
		formatErr    *quercle.ResponseFormatError
	)

	switch {
	case errors.As(err, &cfgErr):
		return problemResponse(c, fiber.StatusBadRequest, "configuration_error", err)

	case errors.As(err, &validationEr):
		return problemResponse(c, fiber.StatusBadRequest, "validation_error", err)

	case errors.As(err, &opErr):
		return problemResponse(c, fiber.StatusBadRequest, "operation_error", err)

	case errors.As(err, &transportErr):
		return problemResponse(c, fiber.StatusBadGateway, "transport_error", err)

	case errors.As(err, &formatErr):
		return problemResponse(c, fiber.StatusBadGateway, "response_format_error", err)

	default:
		return internalError(c, err)
	}
}

func problemResponse(c fiber.Ctx, status int, problemType string, err error) error {
	problem := problems.NewStatusProblem(status).
		WithInstance(c.Path()).
		WithType(problemType).
		WithDetail(err.Error())

	return c.Status(status).JSON(problem)
}
