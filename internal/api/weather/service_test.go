package weather

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	commonerrors "measurement-api-server/internal/api/common/errors"
	"measurement-api-server/internal/models"
	"measurement-api-server/internal/weatherapi"
)

func fptr(v float64) *float64 { return &v }

// hours builds a 24-sample day whose mid-day sample carries the given values.
func hours(temp, humidity, pressure float64, epoch int64) []weatherapi.HourSample {
	samples := make([]weatherapi.HourSample, 24)
	for i := range samples {
		samples[i] = weatherapi.HourSample{
			TimeEpoch:  epoch + int64(i)*3600,
			TempC:      fptr(temp - 5),
			Humidity:   fptr(humidity),
			PressureMb: fptr(pressure),
		}
	}
	samples[12].TempC = fptr(temp)
	return samples
}

type fakeClient struct {
	configured bool
	days       map[string]*weatherapi.HistoryDay
	errs       map[string]error
	calls      []string
}

var _ weatherapi.HistoryClient = (*fakeClient)(nil)

func (f *fakeClient) Configured() bool { return f.configured }

func (f *fakeClient) History(ctx context.Context, city string, date time.Time) (*weatherapi.HistoryDay, error) {
	day := date.Format("2006-01-02")
	f.calls = append(f.calls, day)
	if err, ok := f.errs[day]; ok {
		return nil, err
	}
	if history, ok := f.days[day]; ok {
		return history, nil
	}
	return &weatherapi.HistoryDay{}, nil
}

type fakeWeatherRepository struct {
	inserted []*models.Measurement
	err      error
}

var _ WeatherRepository = (*fakeWeatherRepository)(nil)

func (f *fakeWeatherRepository) BulkInsert(ctx context.Context, measurements []*models.Measurement) (int, error) {
	if f.err != nil {
		return 0, f.err
	}
	f.inserted = append(f.inserted, measurements...)
	return len(measurements), nil
}

func dayRange(start string, days int) (time.Time, time.Time) {
	s, _ := time.ParseInLocation("2006-01-02", start, time.UTC)
	e := s.AddDate(0, 0, days-1).Add(24*time.Hour - time.Millisecond)
	return s, e
}

func TestRecordHistorySkipsDaysWithoutData(t *testing.T) {
	client := &fakeClient{
		configured: true,
		days: map[string]*weatherapi.HistoryDay{
			"2024-03-01": {Hours: hours(10, 60, 1010, 1709251200)},
			"2024-03-02": {Hours: hours(11, 61, 1011, 1709337600)},
			"2024-03-03": {Hours: hours(12, 62, 1012, 1709424000)},
			// 2024-03-04 has no hourly data
		},
	}
	repo := &fakeWeatherRepository{}
	ws := NewWeatherService(client, repo, zap.NewNop())

	start, end := dayRange("2024-03-01", 4)
	result, err := ws.RecordHistory(context.Background(), "London", start, end)
	require.NoError(t, err)

	assert.Equal(t, 3, result.Days)
	assert.Equal(t, "London", result.City)
	assert.Len(t, repo.inserted, 3)
	assert.Equal(t, []string{"2024-03-01", "2024-03-02", "2024-03-03", "2024-03-04"}, client.calls)
}

func TestRecordHistoryFailsFastOnTimeout(t *testing.T) {
	client := &fakeClient{
		configured: true,
		days: map[string]*weatherapi.HistoryDay{
			"2024-03-01": {Hours: hours(10, 60, 1010, 1709251200)},
		},
		errs: map[string]error{
			"2024-03-02": commonerrors.UpstreamTimeoutErr("2024-03-02"),
		},
	}
	repo := &fakeWeatherRepository{}
	ws := NewWeatherService(client, repo, zap.NewNop())

	start, end := dayRange("2024-03-01", 5)
	_, err := ws.RecordHistory(context.Background(), "London", start, end)

	var timeoutErr commonerrors.UpstreamTimeoutError
	require.ErrorAs(t, err, &timeoutErr)
	// nothing reaches the store and no later day is fetched
	assert.Empty(t, repo.inserted)
	assert.Equal(t, []string{"2024-03-01", "2024-03-02"}, client.calls)
}

func TestRecordHistoryPropagatesUpstreamError(t *testing.T) {
	client := &fakeClient{
		configured: true,
		errs: map[string]error{
			"2024-03-01": commonerrors.UpstreamErr("2024-03-01", "invalid api key"),
		},
	}
	ws := NewWeatherService(client, &fakeWeatherRepository{}, zap.NewNop())

	start, end := dayRange("2024-03-01", 2)
	_, err := ws.RecordHistory(context.Background(), "London", start, end)

	var upstreamErr commonerrors.UpstreamError
	assert.ErrorAs(t, err, &upstreamErr)
}

func TestRecordHistoryCapsRangeAtThirtyDays(t *testing.T) {
	days := make(map[string]*weatherapi.HistoryDay)
	start, end := dayRange("2024-01-01", 45)
	for i := 0; i < 45; i++ {
		day := start.AddDate(0, 0, i)
		days[day.Format("2006-01-02")] = &weatherapi.HistoryDay{
			Hours: hours(10, 60, 1010, day.Unix()),
		}
	}
	client := &fakeClient{configured: true, days: days}
	repo := &fakeWeatherRepository{}
	ws := NewWeatherService(client, repo, zap.NewNop())

	result, err := ws.RecordHistory(context.Background(), "London", start, end)
	require.NoError(t, err)

	assert.Equal(t, MaxDays, result.Days)
	assert.Len(t, client.calls, MaxDays)
	assert.Equal(t, "2024-01-30", client.calls[len(client.calls)-1])
}

func TestRecordHistoryPicksMidDaySample(t *testing.T) {
	client := &fakeClient{
		configured: true,
		days: map[string]*weatherapi.HistoryDay{
			"2024-03-01": {Hours: hours(20, 60, 1010, 1709251200)},
		},
	}
	repo := &fakeWeatherRepository{}
	ws := NewWeatherService(client, repo, zap.NewNop())

	start, end := dayRange("2024-03-01", 1)
	_, err := ws.RecordHistory(context.Background(), "London", start, end)
	require.NoError(t, err)

	require.Len(t, repo.inserted, 1)
	m := repo.inserted[0]
	assert.Equal(t, 20.0, *m.Field1) // hour 12, not the hour-0 value of 15
	assert.Equal(t, 60.0, *m.Field2)
	assert.Equal(t, 1010.0, *m.Field3)
	require.NotNil(t, m.City)
	assert.Equal(t, "London", *m.City)
	assert.Equal(t, time.UTC, m.Timestamp.Location())
}

func TestRecordHistoryFallsBackToFirstHour(t *testing.T) {
	client := &fakeClient{
		configured: true,
		days: map[string]*weatherapi.HistoryDay{
			"2024-03-01": {Hours: []weatherapi.HourSample{{
				TimeEpoch:  1709251200,
				TempC:      fptr(7),
				Humidity:   fptr(80),
				PressureMb: fptr(995),
			}}},
		},
	}
	repo := &fakeWeatherRepository{}
	ws := NewWeatherService(client, repo, zap.NewNop())

	start, end := dayRange("2024-03-01", 1)
	result, err := ws.RecordHistory(context.Background(), "London", start, end)
	require.NoError(t, err)

	assert.Equal(t, 1, result.Days)
	assert.Equal(t, 7.0, *repo.inserted[0].Field1)
}

func TestRecordHistorySkipsIncompleteSamples(t *testing.T) {
	client := &fakeClient{
		configured: true,
		days: map[string]*weatherapi.HistoryDay{
			// missing humidity
			"2024-03-01": {Hours: []weatherapi.HourSample{{
				TimeEpoch:  1709251200,
				TempC:      fptr(7),
				PressureMb: fptr(995),
			}}},
			// non-finite pressure
			"2024-03-02": {Hours: []weatherapi.HourSample{{
				TimeEpoch:  1709337600,
				TempC:      fptr(8),
				Humidity:   fptr(70),
				PressureMb: fptr(math.Inf(1)),
			}}},
			"2024-03-03": {Hours: hours(9, 65, 1000, 1709424000)},
		},
	}
	repo := &fakeWeatherRepository{}
	ws := NewWeatherService(client, repo, zap.NewNop())

	start, end := dayRange("2024-03-01", 3)
	result, err := ws.RecordHistory(context.Background(), "London", start, end)
	require.NoError(t, err)

	assert.Equal(t, 1, result.Days)
	require.Len(t, repo.inserted, 1)
	assert.Equal(t, 9.0, *repo.inserted[0].Field1)
}

func TestRecordHistoryNoDataIsNotFound(t *testing.T) {
	client := &fakeClient{configured: true}
	ws := NewWeatherService(client, &fakeWeatherRepository{}, zap.NewNop())

	start, end := dayRange("2024-03-01", 3)
	_, err := ws.RecordHistory(context.Background(), "Atlantis", start, end)

	var notFoundErr commonerrors.NotFoundError
	assert.ErrorAs(t, err, &notFoundErr)
}

func TestRecordHistoryRequiresCredential(t *testing.T) {
	client := &fakeClient{configured: false}
	ws := NewWeatherService(client, &fakeWeatherRepository{}, zap.NewNop())

	start, end := dayRange("2024-03-01", 1)
	_, err := ws.RecordHistory(context.Background(), "London", start, end)

	var configErr commonerrors.ConfigError
	require.ErrorAs(t, err, &configErr)
	// the credential check runs before any upstream call
	assert.Empty(t, client.calls)
}

func TestRecordHistoryRejectsEmptyCity(t *testing.T) {
	client := &fakeClient{configured: true}
	ws := NewWeatherService(client, &fakeWeatherRepository{}, zap.NewNop())

	start, end := dayRange("2024-03-01", 1)
	for _, city := range []string{"", "   "} {
		_, err := ws.RecordHistory(context.Background(), city, start, end)
		var validationErr commonerrors.ValidationError
		assert.ErrorAs(t, err, &validationErr)
	}
	assert.Empty(t, client.calls)
}
