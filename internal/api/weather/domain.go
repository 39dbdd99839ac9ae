package weather

import (
	"context"
	"time"

	"measurement-api-server/internal/models"
)

// MaxDays caps an ingestion range; days past the cap are silently dropped.
const MaxDays = 30

type WeatherRepository interface {
	// BulkInsert persists the batch unordered and returns how many rows
	// made it in. A failing row must not abort the remaining rows.
	BulkInsert(ctx context.Context, measurements []*models.Measurement) (int, error)
}

type WeatherService interface {
	RecordHistory(ctx context.Context, city string, start, end time.Time) (*RecordResult, error)
}

// RecordResult reports a completed ingestion run. Days is the number of
// measurements actually inserted, which can be lower than the requested
// span when the upstream lacked data for some days.
type RecordResult struct {
	City string `json:"city"`
	Days int    `json:"days"`
}
