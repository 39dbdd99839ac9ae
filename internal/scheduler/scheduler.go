package scheduler

import (
	"context"
	"strings"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/go-co-op/gocron"
	"go.uber.org/zap"

	"measurement-api-server/internal/api/weather"
)

type envConfig struct {
	Cities   []string      `env:"WEATHER_SCHEDULE_CITIES" envSeparator:","`
	Interval time.Duration `env:"WEATHER_SCHEDULE_INTERVAL" envDefault:"24h"`
}

// Scheduler records the previous day's weather for the configured cities
// on a fixed interval. With no cities configured it stays idle.
type Scheduler struct {
	scheduler *gocron.Scheduler
	service   weather.WeatherService
	cities    []string
	interval  time.Duration
	logger    *zap.Logger
}

func New(service weather.WeatherService, logger *zap.Logger) (*Scheduler, error) {
	cfg := &envConfig{}
	if err := env.Parse(cfg, env.Options{}); err != nil {
		return nil, err
	}

	var cities []string
	for _, city := range cfg.Cities {
		if city = strings.TrimSpace(city); city != "" {
			cities = append(cities, city)
		}
	}

	return &Scheduler{
		scheduler: gocron.NewScheduler(time.UTC),
		service:   service,
		cities:    cities,
		interval:  cfg.Interval,
		logger:    logger,
	}, nil
}

func (s *Scheduler) Start() error {
	if len(s.cities) == 0 {
		s.logger.Info("scheduler idle, no cities configured")
		return nil
	}

	_, err := s.scheduler.Every(s.interval).Do(s.run)
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	s.logger.Info("scheduler started",
		zap.Strings("cities", s.cities),
		zap.Duration("interval", s.interval))
	return nil
}

// run ingests yesterday for each city sequentially. Failures are logged
// and never fatal; the next tick simply tries again.
func (s *Scheduler) run() {
	yesterday := time.Now().UTC().AddDate(0, 0, -1)
	start := time.Date(yesterday.Year(), yesterday.Month(), yesterday.Day(), 0, 0, 0, 0, time.UTC)
	end := start.Add(24*time.Hour - time.Millisecond)

	for _, city := range s.cities {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		result, err := s.service.RecordHistory(ctx, city, start, end)
		cancel()

		if err != nil {
			s.logger.Warn("scheduled weather ingestion failed",
				zap.String("city", city),
				zap.Error(err))
			continue
		}
		s.logger.Info("scheduled weather ingestion finished",
			zap.String("city", result.City),
			zap.Int("days", result.Days))
	}
}

func (s *Scheduler) Stop() {
	s.scheduler.Stop()
}
