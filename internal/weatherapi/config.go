package weatherapi

import (
	"time"

	"github.com/caarlos0/env/v6"
)

type envConfig struct {
	APIKey  string        `env:"WEATHER_API_KEY,unset"`
	BaseURL string        `env:"WEATHER_API_URL" envDefault:"https://api.weatherapi.com/v1"`
	Timeout time.Duration `env:"WEATHER_API_TIMEOUT" envDefault:"10s"`
}

func NewConfig() (*envConfig, error) {
	cfg := &envConfig{}
	opts := env.Options{}
	if err := env.Parse(cfg, opts); err != nil {
		return nil, err
	}
	return cfg, nil
}
