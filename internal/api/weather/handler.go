package weather

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	commonerrors "measurement-api-server/internal/api/common/errors"
	"measurement-api-server/internal/api/common/query"
)

var validate = validator.New()

type WeatherHandler struct {
	ws     WeatherService
	logger *zap.Logger
}

func WeatherRouter(route fiber.Router, ws WeatherService, logger *zap.Logger) {
	handler := &WeatherHandler{
		ws:     ws,
		logger: logger,
	}

	route.Post("/measurements/weather", handler.recordHistory)
}

type recordRequest struct {
	City      string `json:"city" validate:"required"`
	StartDate string `json:"start_date" validate:"required"`
	EndDate   string `json:"end_date" validate:"required"`
}

// @Summary Ingest historical weather for a city
// @Description Fetches day-by-day hourly history from the upstream weather
// API for at most 30 days starting at start_date and stores the mid-day
// sample of each day as a measurement.
// @Accept  json
// @Produce json
// @Param body body recordRequest true "city and date range"
// @Success 200 {object} object
// @Failure 400 {object} object
// @Failure 404 {object} object
// @Failure 502 {object} object
// @Failure 504 {object} object
// @Failure 500 {object} object
// @Router /api/measurements/weather [post]
func (h *WeatherHandler) recordHistory(c *fiber.Ctx) error {
	var req recordRequest
	if err := c.BodyParser(&req); err != nil {
		return commonerrors.Respond(c, commonerrors.ValidationErr("invalid request body"))
	}
	if err := validate.StructPartial(req, "City"); err != nil {
		return commonerrors.Respond(c, commonerrors.ValidationErr("City name is required"))
	}

	start, end, err := query.ParseDateRange(req.StartDate, req.EndDate)
	if err != nil {
		h.logger.Debug("date range error", zap.Error(err))
		return commonerrors.Respond(c, err)
	}

	result, err := h.ws.RecordHistory(c.Context(), req.City, start, end)
	if err != nil {
		return commonerrors.Respond(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Weather history recorded successfully",
		"data":    result,
	})
}
