package errors

import (
	"errors"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
)

func TestStatusCode(t *testing.T) {
	testCases := []struct {
		name string
		err  error
		want int
	}{
		{name: "validation", err: ValidationErr("bad field"), want: fiber.StatusBadRequest},
		{name: "not found", err: NotFoundErr("historical data for", "London"), want: fiber.StatusNotFound},
		{name: "upstream error", err: UpstreamErr("2024-03-01", "invalid key"), want: fiber.StatusBadGateway},
		{name: "upstream timeout", err: UpstreamTimeoutErr("2024-03-01"), want: fiber.StatusGatewayTimeout},
		{name: "config missing", err: ConfigErr("WEATHER_API_KEY"), want: fiber.StatusInternalServerError},
		{name: "storage", err: StorageErr("insert", errors.New("connection refused")), want: fiber.StatusInternalServerError},
		{name: "unknown", err: errors.New("boom"), want: fiber.StatusInternalServerError},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, StatusCode(tc.err))
		})
	}
}

func TestPublicMessageHidesStorageDetails(t *testing.T) {
	err := StorageErr("insert", errors.New("password authentication failed"))
	assert.NotContains(t, publicMessage(err), "password")
}

func TestUpstreamDetailsExposed(t *testing.T) {
	assert.Equal(t, "weather API error for 2024-03-01: quota exceeded",
		detailMessage(UpstreamErr("2024-03-01", "quota exceeded")))
	assert.Equal(t, "weather API timeout for 2024-03-01",
		detailMessage(UpstreamTimeoutErr("2024-03-01")))
	assert.Empty(t, detailMessage(ValidationErr("nope")))
}
