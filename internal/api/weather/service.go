package weather

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	commonerrors "measurement-api-server/internal/api/common/errors"
	"measurement-api-server/internal/models"
	"measurement-api-server/internal/utils"
	"measurement-api-server/internal/weatherapi"
)

const midDayHour = 12

type weatherService struct {
	client     weatherapi.HistoryClient
	repository WeatherRepository
	logger     *zap.Logger
}

var _ WeatherService = (*weatherService)(nil)

func NewWeatherService(client weatherapi.HistoryClient, r WeatherRepository, logger *zap.Logger) WeatherService {
	return &weatherService{
		client:     client,
		repository: r,
		logger:     logger,
	}
}

// RecordHistory fetches up to MaxDays of hourly history for a city, one
// upstream call per day in ascending date order, and persists the mid-day
// sample of each day. The per-day calls are deliberately sequential: a
// timeout on any day aborts the whole run before anything is written.
func (ws *weatherService) RecordHistory(ctx context.Context, city string, start, end time.Time) (*RecordResult, error) {
	if !ws.client.Configured() {
		return nil, commonerrors.ConfigErr("WEATHER_API_KEY")
	}

	city = strings.TrimSpace(city)
	if city == "" {
		return nil, commonerrors.ValidationErr("City name is required")
	}

	days := int(end.Sub(start).Hours()/24) + 1
	if days > MaxDays {
		days = MaxDays
	}

	ws.logger.Debug("record weather history",
		zap.String("city", city),
		zap.Time("start", start),
		zap.Int("days", days))

	var measurements []*models.Measurement
	for i := 0; i < days; i++ {
		date := start.AddDate(0, 0, i)

		history, err := ws.client.History(ctx, city, date)
		if err != nil {
			ws.logger.Error("weather history fetch failed",
				zap.String("city", city),
				zap.Time("date", date),
				zap.Error(err))
			return nil, err
		}

		if len(history.Hours) == 0 {
			continue
		}

		sample := history.Hours[0]
		if len(history.Hours) > midDayHour {
			sample = history.Hours[midDayHour]
		}

		if !finiteSample(sample) {
			continue
		}

		measurements = append(measurements, &models.Measurement{
			Timestamp: time.Unix(sample.TimeEpoch, 0).UTC(),
			City:      &city,
			Field1:    sample.TempC,
			Field2:    sample.Humidity,
			Field3:    sample.PressureMb,
		})
	}

	if len(measurements) == 0 {
		return nil, commonerrors.NotFoundErr("historical data for", city)
	}

	inserted, err := ws.repository.BulkInsert(ctx, measurements)
	if err != nil {
		ws.logger.Error("failed to insert weather measurements", zap.Error(err))
		return nil, err
	}

	return &RecordResult{
		City: city,
		Days: inserted,
	}, nil
}

func finiteSample(sample weatherapi.HourSample) bool {
	for _, v := range []*float64{sample.TempC, sample.Humidity, sample.PressureMb} {
		if v == nil || !utils.IsFinite(*v) {
			return false
		}
	}
	return true
}
