package query

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	commonerrors "measurement-api-server/internal/api/common/errors"
)

const dateLayout = "2006-01-02"

const (
	DefaultPage  = 1
	DefaultLimit = 100
	MaxLimit     = 500
)

// Query holds the validated parameters shared by the measurement
// endpoints. Start/End are expanded to UTC day boundaries.
type Query struct {
	ID       string
	Field    Field
	Start    time.Time
	End      time.Time
	Page     int
	Limit    int
	Paginate bool
}

// queryParams is the raw shape fiber parses query strings into.
type queryParams struct {
	Field     string `query:"field"`
	StartDate string `query:"start_date"`
	EndDate   string `query:"end_date"`
	Page      string `query:"page"`
	Limit     string `query:"limit"`
}

func (q queryParams) validate(c *fiber.Ctx) (Query, error) {
	field, err := ParseField(q.Field)
	if err != nil {
		return Query{}, err
	}

	start, end, err := ParseDateRange(q.StartDate, q.EndDate)
	if err != nil {
		return Query{}, err
	}

	page, limit, paginate := parsePagination(q.Page, q.Limit)

	id, _ := c.Locals("requestid").(string)

	return Query{
		ID:       id,
		Field:    field,
		Start:    start,
		End:      end,
		Page:     page,
		Limit:    limit,
		Paginate: paginate,
	}, nil
}

func ParseAndValidate(c *fiber.Ctx) (Query, error) {
	params := &queryParams{}
	if err := c.QueryParser(params); err != nil {
		return Query{}, commonerrors.ValidationErr("malformed query parameters")
	}
	return params.validate(c)
}

// ParseDateRange parses two strict YYYY-MM-DD dates and expands them to
// the inclusive UTC window [start 00:00:00.000, end 23:59:59.999].
// Impossible calendar dates are rejected, never normalized.
func ParseDateRange(startDate, endDate string) (time.Time, time.Time, error) {
	if startDate == "" || endDate == "" {
		return time.Time{}, time.Time{}, commonerrors.ValidationErr("start_date and end_date are required")
	}

	start, err := parseDay(startDate)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	end, err := parseDay(endDate)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}

	end = EndOfDay(end)
	if start.After(end) {
		return time.Time{}, time.Time{}, commonerrors.ValidationErr("start_date must be earlier than or equal to end_date")
	}
	return start, end, nil
}

func parseDay(value string) (time.Time, error) {
	t, err := time.ParseInLocation(dateLayout, value, time.UTC)
	if err != nil {
		return time.Time{}, commonerrors.ValidationErr("Invalid date format. Use YYYY-MM-DD")
	}
	// time.Parse rolls impossible dates like 2024-02-30 forward;
	// round-tripping catches that.
	if t.Format(dateLayout) != value {
		return time.Time{}, commonerrors.ValidationErr("Invalid date format. Use YYYY-MM-DD")
	}
	return t, nil
}

// EndOfDay moves a day-start instant to the last represented millisecond
// of the same UTC day.
func EndOfDay(dayStart time.Time) time.Time {
	return dayStart.Add(24*time.Hour - time.Millisecond)
}

// parsePagination mirrors the endpoint contract: pagination activates when
// either value parses to an integer; out-of-range values fall back to the
// defaults and limit is hard-capped.
func parsePagination(pageStr, limitStr string) (page, limit int, paginate bool) {
	page = DefaultPage
	limit = DefaultLimit

	if n, err := strconv.Atoi(pageStr); err == nil {
		paginate = true
		if n > 0 {
			page = n
		}
	}
	if n, err := strconv.Atoi(limitStr); err == nil {
		paginate = true
		if n > 0 {
			limit = n
			if limit > MaxLimit {
				limit = MaxLimit
			}
		}
	}
	return page, limit, paginate
}
