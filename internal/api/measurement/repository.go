package measurement

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	commonerrors "measurement-api-server/internal/api/common/errors"
	"measurement-api-server/internal/api/common/query"
	"measurement-api-server/internal/models"
)

type measurementRepository struct {
	db *gorm.DB
}

var _ MeasurementRepository = (*measurementRepository)(nil)

func NewMeasurementRepository(db *gorm.DB) MeasurementRepository {
	return &measurementRepository{
		db: db,
	}
}

func (r *measurementRepository) rangeScope(q query.Query) *gorm.DB {
	return r.db.Model(&models.Measurement{}).
		Where("timestamp >= ? AND timestamp <= ?", q.Start, q.End)
}

// Find returns every matching record, timestamp plus the requested column
// only, ascending by timestamp. No upper bound.
func (r *measurementRepository) Find(ctx context.Context, q query.Query) ([]Point, error) {
	rows, err := r.selectPoints(ctx, q, -1, -1)
	if err != nil {
		return nil, commonerrors.StorageErr("find measurements", err)
	}
	return toPoints(rows, q.Field), nil
}

// FindPage returns one page of matching records together with the total
// count over the same filter. The two queries run concurrently; gorm
// sessions are goroutine safe.
func (r *measurementRepository) FindPage(ctx context.Context, q query.Query) ([]Point, int64, error) {
	var (
		rows  []models.MeasurementPoint
		total int64
	)

	offset := (q.Page - 1) * q.Limit

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		rows, err = r.selectPoints(gctx, q, offset, q.Limit)
		return err
	})
	g.Go(func() error {
		return r.rangeScope(q).WithContext(gctx).Count(&total).Error
	})
	if err := g.Wait(); err != nil {
		return nil, 0, commonerrors.StorageErr("find measurement page", err)
	}

	return toPoints(rows, q.Field), total, nil
}

func (r *measurementRepository) selectPoints(ctx context.Context, q query.Query, offset, limit int) ([]models.MeasurementPoint, error) {
	var rows []models.MeasurementPoint

	db := r.rangeScope(q).WithContext(ctx).
		Select(fmt.Sprintf("timestamp, %s AS value", q.Field.Column())).
		Order("timestamp ASC")
	if offset >= 0 {
		db = db.Offset(offset)
	}
	if limit >= 0 {
		db = db.Limit(limit)
	}

	if err := db.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Aggregate computes count, mean, min, max and population stddev of the
// requested column in a single grouped scan. SQL aggregates skip NULLs, so
// records without the field are excluded rather than coerced to zero.
func (r *measurementRepository) Aggregate(ctx context.Context, q query.Query) (AggregateRow, error) {
	var row AggregateRow

	col := q.Field.Column()
	err := r.rangeScope(q).WithContext(ctx).
		Select(fmt.Sprintf(
			"COUNT(%[1]s) AS count, AVG(%[1]s) AS avg, MIN(%[1]s) AS min, MAX(%[1]s) AS max, STDDEV_POP(%[1]s) AS std_dev",
			col)).
		Scan(&row).Error
	if err != nil {
		return AggregateRow{}, commonerrors.StorageErr("aggregate measurements", err)
	}
	return row, nil
}

func (r *measurementRepository) Insert(ctx context.Context, m *models.Measurement) error {
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return commonerrors.StorageErr("insert measurement", err)
	}
	return nil
}

func toPoints(rows []models.MeasurementPoint, field query.Field) []Point {
	points := make([]Point, 0, len(rows))
	for _, row := range rows {
		points = append(points, Point{
			Timestamp: row.Timestamp,
			Field:     field,
			Value:     row.Value,
		})
	}
	return points
}
