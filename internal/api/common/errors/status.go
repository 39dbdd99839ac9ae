package errors

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

// StatusCode maps a service error onto its HTTP status. Anything outside
// the known taxonomy is treated as a server fault.
func StatusCode(err error) int {
	var (
		validationErr ValidationError
		notFoundErr   NotFoundError
		upstreamTOErr UpstreamTimeoutError
		upstreamErr   UpstreamError
	)

	switch {
	case errors.As(err, &validationErr):
		return fiber.StatusBadRequest
	case errors.As(err, &notFoundErr):
		return fiber.StatusNotFound
	case errors.As(err, &upstreamErr):
		return fiber.StatusBadGateway
	case errors.As(err, &upstreamTOErr):
		return fiber.StatusGatewayTimeout
	default:
		return fiber.StatusInternalServerError
	}
}

// Respond writes the uniform error body used by every endpoint.
func Respond(c *fiber.Ctx, err error) error {
	body := fiber.Map{"error": publicMessage(err)}
	if details := detailMessage(err); details != "" {
		body["details"] = details
	}
	return c.Status(StatusCode(err)).JSON(body)
}

// publicMessage keeps internal error chains out of responses. Storage
// failures collapse to a generic reason, everything in the taxonomy is
// safe to echo.
func publicMessage(err error) string {
	var storageErr StorageError
	if errors.As(err, &storageErr) {
		return "Server error"
	}

	var (
		validationErr ValidationError
		notFoundErr   NotFoundError
		configErr     ConfigError
		upstreamTOErr UpstreamTimeoutError
		upstreamErr   UpstreamError
	)
	switch {
	case errors.As(err, &validationErr):
		return validationErr.Reason
	case errors.As(err, &notFoundErr):
		return notFoundErr.Error()
	case errors.As(err, &configErr):
		return configErr.Error()
	case errors.As(err, &upstreamTOErr):
		return "Weather API timeout"
	case errors.As(err, &upstreamErr):
		return "Weather API error"
	default:
		return "Server error"
	}
}

func detailMessage(err error) string {
	var (
		upstreamTOErr UpstreamTimeoutError
		upstreamErr   UpstreamError
	)
	switch {
	case errors.As(err, &upstreamTOErr):
		return upstreamTOErr.Error()
	case errors.As(err, &upstreamErr):
		return upstreamErr.Error()
	}
	return ""
}
