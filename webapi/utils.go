package webapi

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/amirasaad/bank/pkg/commandbus"
	"github.com/amirasaad/bank/pkg/domain"
	"github.com/amirasaad/bank/pkg/sourcing"
)

// statusClientClosedRequest is the nginx convention for a request the
// client abandoned; fiber defines no constant for it.
const statusClientClosedRequest = 499

// Response is the standard success envelope.
type Response struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// ProblemDetails follows RFC 9457 Problem Details for HTTP APIs. Kind is the
// stable machine-readable error discriminator.
type ProblemDetails struct {
	Type     string `json:"type,omitempty"`
	Title    string `json:"title"`
	Status   int    `json:"status"`
	Kind     string `json:"kind,omitempty"`
	Detail   string `json:"detail,omitempty"`
	Instance string `json:"instance,omitempty"`
}

// SuccessResponseJSON writes the success envelope.
func SuccessResponseJSON(c *fiber.Ctx, status int, message string, data any) error {
	return c.Status(status).JSON(Response{Status: status, Message: message, Data: data})
}

// ErrorResponseJSON writes a problem+json response.
func ErrorResponseJSON(c *fiber.Ctx, status int, title, kind, detail string) error {
	pd := ProblemDetails{
		Type:     "about:blank",
		Title:    title,
		Status:   status,
		Kind:     kind,
		Detail:   detail,
		Instance: c.OriginalURL(),
	}
	return c.Status(status).JSON(pd, "application/problem+json")
}

// DomainErrorResponse maps core errors to problem responses: domain errors
// become 4xx with their kind, infrastructure errors become 5xx.
func DomainErrorResponse(c *fiber.Ctx, err error) error {
	return ErrorResponseJSON(c, ErrorToStatusCode(err), "Request failed", domain.Kind(err), err.Error())
}

// ErrorToStatusCode maps core errors to HTTP status codes.
func ErrorToStatusCode(err error) int {
	switch {
	case errors.Is(err, domain.ErrCustomerNotFound),
		errors.Is(err, domain.ErrAccountNotFound),
		errors.Is(err, domain.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, domain.ErrInsufficientBalance),
		errors.Is(err, domain.ErrAccountNotActivated),
		errors.Is(err, domain.ErrCustomerDeleted):
		return fiber.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrNicAlreadyExists),
		errors.Is(err, domain.ErrCustomerAlreadyHasAccount),
		errors.Is(err, domain.ErrAlreadyExists),
		errors.Is(err, sourcing.ErrConflict):
		return fiber.StatusConflict
	case errors.Is(err, domain.ErrAmountMustBePositive):
		return fiber.StatusBadRequest
	case errors.Is(err, commandbus.ErrOverloaded):
		return fiber.StatusTooManyRequests
	case errors.Is(err, commandbus.ErrTimeout):
		return fiber.StatusGatewayTimeout
	case errors.Is(err, commandbus.ErrCanceled):
		return statusClientClosedRequest
	default:
		return fiber.StatusInternalServerError
	}
}

// BindAndValidate parses the request body into T and validates it. On
// failure it writes the error response itself and returns a non-nil error;
// the handler should return nil.
func BindAndValidate[T any](c *fiber.Ctx) (*T, error) {
	var input T
	if err := c.BodyParser(&input); err != nil {
		ErrorResponseJSON(c, fiber.StatusBadRequest, "Invalid request body", "bad_request", err.Error()) //nolint:errcheck
		return nil, err
	}
	validate := validator.New()
	if err := validate.Struct(input); err != nil {
		ErrorResponseJSON(c, fiber.StatusBadRequest, "Validation failed", "validation", err.Error()) //nolint:errcheck
		return nil, err
	}
	return &input, nil
}
