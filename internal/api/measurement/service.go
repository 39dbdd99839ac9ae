package measurement

import (
	"context"

	"go.uber.org/zap"

	commonerrors "measurement-api-server/internal/api/common/errors"
	"measurement-api-server/internal/api/common/query"
	"measurement-api-server/internal/models"
	"measurement-api-server/internal/utils"
)

type measurementService struct {
	repository MeasurementRepository
	logger     *zap.Logger
}

var _ MeasurementService = (*measurementService)(nil)

func NewMeasurementService(r MeasurementRepository, logger *zap.Logger) MeasurementService {
	return &measurementService{
		repository: r,
		logger:     logger,
	}
}

func (ms *measurementService) GetMeasurements(ctx context.Context, q query.Query) (*Result, error) {
	ms.logger.Debug("get measurements",
		zap.String("id", q.ID),
		zap.String("field", q.Field.String()),
		zap.Time("start", q.Start),
		zap.Time("end", q.End),
		zap.Bool("paginate", q.Paginate))

	if !q.Paginate {
		points, err := ms.repository.Find(ctx, q)
		if err != nil {
			ms.logger.Error("failed to query measurements", zap.Error(err))
			return nil, err
		}
		return &Result{Data: points}, nil
	}

	points, total, err := ms.repository.FindPage(ctx, q)
	if err != nil {
		ms.logger.Error("failed to query measurement page", zap.Error(err))
		return nil, err
	}
	return &Result{
		Data: points,
		Pagination: &Pagination{
			Page:  q.Page,
			Limit: q.Limit,
			Total: total,
		},
	}, nil
}

func (ms *measurementService) GetMetrics(ctx context.Context, q query.Query) (*Summary, error) {
	ms.logger.Debug("get metrics",
		zap.String("id", q.ID),
		zap.String("field", q.Field.String()),
		zap.Time("start", q.Start),
		zap.Time("end", q.End))

	row, err := ms.repository.Aggregate(ctx, q)
	if err != nil {
		ms.logger.Error("failed to aggregate measurements", zap.Error(err))
		return nil, err
	}

	// An empty range yields the zero summary rather than an error; a null
	// statistic from the scan is treated the same way.
	if row.Count == 0 {
		return &Summary{}, nil
	}

	return &Summary{
		Average: utils.Round2(deref(row.Avg)),
		Min:     utils.Round2(deref(row.Min)),
		Max:     utils.Round2(deref(row.Max)),
		StdDev:  utils.Round2(deref(row.StdDev)),
	}, nil
}

func (ms *measurementService) Create(ctx context.Context, m *models.Measurement) error {
	ms.logger.Debug("create measurement", zap.Time("timestamp", m.Timestamp))

	if m.Field1 == nil && m.Field2 == nil && m.Field3 == nil {
		return commonerrors.ValidationErr("at least one of field1, field2, field3 is required")
	}
	for _, v := range []*float64{m.Field1, m.Field2, m.Field3} {
		if v != nil && !utils.IsFinite(*v) {
			return commonerrors.ValidationErr("field values must be finite numbers")
		}
	}

	m.Timestamp = m.Timestamp.UTC()
	if err := ms.repository.Insert(ctx, m); err != nil {
		ms.logger.Error("failed to insert measurement", zap.Error(err))
		return err
	}
	return nil
}

func deref(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}
