package weather

import (
	"context"

	"gorm.io/gorm"

	commonerrors "measurement-api-server/internal/api/common/errors"
	"measurement-api-server/internal/models"
)

type weatherRepository struct {
	db *gorm.DB
}

var _ WeatherRepository = (*weatherRepository)(nil)

func NewWeatherRepository(db *gorm.DB) WeatherRepository {
	return &weatherRepository{
		db: db,
	}
}

func (r *weatherRepository) BulkInsert(ctx context.Context, measurements []*models.Measurement) (int, error) {
	ctxDB := r.db.WithContext(ctx)

	if err := ctxDB.CreateInBatches(measurements, 100).Error; err == nil {
		return len(measurements), nil
	}

	// The batch insert is transactional, so one bad row rejects all of
	// them. Fall back to row-by-row and keep whatever can be kept.
	inserted := 0
	var lastErr error
	for _, m := range measurements {
		row := *m
		row.ID = 0
		if err := ctxDB.Create(&row).Error; err != nil {
			lastErr = err
			continue
		}
		inserted++
	}

	if inserted == 0 {
		return 0, commonerrors.StorageErr("bulk insert measurements", lastErr)
	}
	return inserted, nil
}
