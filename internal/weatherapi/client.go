package weatherapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/sony/gobreaker"

	commonerrors "measurement-api-server/internal/api/common/errors"
)

const dateLayout = "2006-01-02"

// HourSample is one hourly record from the upstream history payload.
// Pointers distinguish absent values from genuine zeros.
type HourSample struct {
	TimeEpoch  int64    `json:"time_epoch"`
	TempC      *float64 `json:"temp_c"`
	Humidity   *float64 `json:"humidity"`
	PressureMb *float64 `json:"pressure_mb"`
}

// HistoryDay is the hourly history for one city/date. Hours may be empty
// when the upstream has no data for the day.
type HistoryDay struct {
	Hours []HourSample
}

// HistoryClient is the boundary the ingestion pipeline talks through.
type HistoryClient interface {
	Configured() bool
	History(ctx context.Context, city string, date time.Time) (*HistoryDay, error)
}

type historyPayload struct {
	Forecast struct {
		ForecastDay []struct {
			Hour []HourSample `json:"hour"`
		} `json:"forecastday"`
	} `json:"forecast"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// Client calls the weather history API. Calls go through a circuit
// breaker so a dead upstream fails fast instead of eating the full
// timeout on every day of a range; no retries are performed.
type Client struct {
	apiKey  string
	baseURL string
	http    *http.Client
	circuit *gobreaker.CircuitBreaker
}

var _ HistoryClient = (*Client)(nil)

func NewClient() (*Client, error) {
	cfg, err := NewConfig()
	if err != nil {
		return nil, err
	}
	return NewClientWithConfig(cfg.APIKey, cfg.BaseURL, cfg.Timeout), nil
}

func NewClientWithConfig(apiKey, baseURL string, timeout time.Duration) *Client {
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "weatherapi-history",
		MaxRequests: 5,
		Interval:    time.Minute,
		Timeout:     2 * time.Minute,
	})

	return &Client{
		apiKey:  apiKey,
		baseURL: baseURL,
		http: &http.Client{
			Timeout: timeout,
		},
		circuit: cb,
	}
}

func (c *Client) Configured() bool {
	return c.apiKey != ""
}

// History fetches the hourly history for one city and calendar day.
// Timeouts, transport failures and an open breaker surface as
// UpstreamTimeoutError; an upstream error payload as UpstreamError.
func (c *Client) History(ctx context.Context, city string, date time.Time) (*HistoryDay, error) {
	day := date.Format(dateLayout)

	values := url.Values{}
	values.Set("key", c.apiKey)
	values.Set("q", city)
	values.Set("dt", day)

	u := fmt.Sprintf("%s/history.json?%s", c.baseURL, values.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}

	result, err := c.circuit.Execute(func() (interface{}, error) {
		resp, err := c.http.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		var payload historyPayload
		if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
			return nil, commonerrors.UpstreamErr(day, "malformed response body")
		}
		if payload.Error != nil {
			return nil, commonerrors.UpstreamErr(day, payload.Error.Message)
		}
		if resp.StatusCode != http.StatusOK {
			return nil, commonerrors.UpstreamErr(day, fmt.Sprintf("unexpected status %d", resp.StatusCode))
		}
		return &payload, nil
	})
	if err != nil {
		return nil, classifyErr(day, err)
	}

	payload := result.(*historyPayload)
	history := &HistoryDay{}
	if len(payload.Forecast.ForecastDay) > 0 {
		history.Hours = payload.Forecast.ForecastDay[0].Hour
	}
	return history, nil
}

func classifyErr(day string, err error) error {
	var upstreamErr commonerrors.UpstreamError
	if errors.As(err, &upstreamErr) {
		return err
	}

	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return commonerrors.UpstreamTimeoutErr(day)
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return commonerrors.UpstreamTimeoutErr(day)
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return commonerrors.UpstreamTimeoutErr(day)
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return commonerrors.UpstreamTimeoutErr(day)
	}
	return err
}
