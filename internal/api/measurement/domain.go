package measurement

import (
	"context"
	"time"

	"measurement-api-server/internal/api/common/query"
	"measurement-api-server/internal/models"
)

type MeasurementRepository interface {
	Find(ctx context.Context, q query.Query) ([]Point, error)
	FindPage(ctx context.Context, q query.Query) ([]Point, int64, error)
	Aggregate(ctx context.Context, q query.Query) (AggregateRow, error)
	Insert(ctx context.Context, m *models.Measurement) error
}

type MeasurementService interface {
	GetMeasurements(ctx context.Context, q query.Query) (*Result, error)
	GetMetrics(ctx context.Context, q query.Query) (*Summary, error)
	Create(ctx context.Context, m *models.Measurement) error
}

// Point is one projected record: timestamp plus the single requested
// field, serialized under the field's own name.
type Point struct {
	Timestamp time.Time
	Field     query.Field
	Value     *float64
}

func (p Point) MarshalJSON() ([]byte, error) {
	out := map[string]interface{}{
		"timestamp": p.Timestamp.UTC().Format(time.RFC3339Nano),
	}
	if p.Value != nil {
		out[p.Field.String()] = *p.Value
	}
	return marshalJSON(out)
}

// Pagination echoes the effective paging parameters; Total counts every
// matching record, not only the returned page.
type Pagination struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
}

// Result is a query response: a bare ordered sequence, or a page plus
// pagination metadata when paging was requested.
type Result struct {
	Data       []Point
	Pagination *Pagination
}

// AggregateRow is the raw single-row output of the grouped scan. The
// statistics are null when no record in range carries the field.
type AggregateRow struct {
	Count  int64    `gorm:"column:count"`
	Avg    *float64 `gorm:"column:avg"`
	Min    *float64 `gorm:"column:min"`
	Max    *float64 `gorm:"column:max"`
	StdDev *float64 `gorm:"column:std_dev"`
}

// Summary carries the rounded statistics. An empty range yields the
// all-zero summary, indistinguishable from genuinely zero-valued data;
// callers needing the distinction must consult the record count.
type Summary struct {
	Average float64 `json:"average"`
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
	StdDev  float64 `json:"stdDev"`
}
