package measurement

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	commonerrors "measurement-api-server/internal/api/common/errors"
	"measurement-api-server/internal/api/common/query"
	"measurement-api-server/internal/models"
	"measurement-api-server/internal/utils"
)

var validate = validator.New()

type MeasurementHandler struct {
	ms     MeasurementService
	logger *zap.Logger
}

func MeasurementRouter(route fiber.Router, ms MeasurementService, logger *zap.Logger) {
	handler := &MeasurementHandler{
		ms:     ms,
		logger: logger,
	}

	route.Get("/measurements", handler.getMeasurements)
	route.Get("/measurements/metrics", handler.getMetrics)
	route.Post("/measurements", handler.createMeasurement)
}

// @Summary Query measurements for one field over a date range
// @Description Returns timestamp/value pairs sorted ascending by timestamp.
// When page or limit is given the response is wrapped with pagination
// metadata; limit is capped at 500.
// @Accept  json
// @Produce json
// @Param field      query string true  "field1, field2 or field3"
// @Param start_date query string true  "YYYY-MM-DD"
// @Param end_date   query string true  "YYYY-MM-DD"
// @Param page       query int    false "page number (default 1)"
// @Param limit      query int    false "page size (default 100, max 500)"
// @Success 200 {object} object
// @Failure 400 {object} object
// @Failure 500 {object} object
// @Router /api/measurements [get]
func (h *MeasurementHandler) getMeasurements(c *fiber.Ctx) error {
	q, err := query.ParseAndValidate(c)
	if err != nil {
		h.logger.Debug("query parser error", zap.Error(err))
		return commonerrors.Respond(c, err)
	}

	result, err := h.ms.GetMeasurements(c.Context(), q)
	if err != nil {
		return commonerrors.Respond(c, err)
	}

	// An empty result is a bare empty array even when paging was asked for.
	if len(result.Data) == 0 {
		return c.Status(fiber.StatusOK).JSON([]Point{})
	}

	if result.Pagination != nil {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"data":       result.Data,
			"pagination": result.Pagination,
		})
	}
	return c.Status(fiber.StatusOK).JSON(result.Data)
}

// @Summary Summary statistics for one field over a date range
// @Description Average, min, max and population standard deviation rounded
// to two decimals. An empty range yields the all-zero summary.
// @Accept  json
// @Produce json
// @Param field      query string true "field1, field2 or field3"
// @Param start_date query string true "YYYY-MM-DD"
// @Param end_date   query string true "YYYY-MM-DD"
// @Success 200 {object} object
// @Failure 400 {object} object
// @Failure 500 {object} object
// @Router /api/measurements/metrics [get]
func (h *MeasurementHandler) getMetrics(c *fiber.Ctx) error {
	q, err := query.ParseAndValidate(c)
	if err != nil {
		h.logger.Debug("query parser error", zap.Error(err))
		return commonerrors.Respond(c, err)
	}

	summary, err := h.ms.GetMetrics(c.Context(), q)
	if err != nil {
		return commonerrors.Respond(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"data": summary,
	})
}

type createMeasurementRequest struct {
	Timestamp string   `json:"timestamp" validate:"required"`
	Field1    *float64 `json:"field1"`
	Field2    *float64 `json:"field2"`
	Field3    *float64 `json:"field3"`
	City      *string  `json:"city"`
}

// @Summary Record one measurement manually
// @Accept  json
// @Produce json
// @Param body body createMeasurementRequest true "measurement"
// @Success 201 {object} object
// @Failure 400 {object} object
// @Failure 500 {object} object
// @Router /api/measurements [post]
func (h *MeasurementHandler) createMeasurement(c *fiber.Ctx) error {
	var req createMeasurementRequest
	if err := c.BodyParser(&req); err != nil {
		return commonerrors.Respond(c, commonerrors.ValidationErr("invalid request body"))
	}
	if err := validate.Struct(req); err != nil {
		return commonerrors.Respond(c, commonerrors.ValidationErr("timestamp is required"))
	}

	ts, err := utils.TimeParser(req.Timestamp)
	if err != nil {
		return commonerrors.Respond(c, commonerrors.ValidationErr("invalid timestamp"))
	}

	m := &models.Measurement{
		Timestamp: ts,
		Field1:    req.Field1,
		Field2:    req.Field2,
		Field3:    req.Field3,
		City:      req.City,
	}
	if err := h.ms.Create(c.Context(), m); err != nil {
		return commonerrors.Respond(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Measurement recorded successfully",
	})
}
