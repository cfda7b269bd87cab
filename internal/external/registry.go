package external

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"fangindex/internal/config"
)

// defaultClientTimeout applies when a provider config has no timeout.
const defaultClientTimeout = 5 * time.Second

// ClientRegistry holds the upstream data providers. WaterLevel is nil when
// PEGELONLINE is disabled; callers then score water level as unknown.
//
// There are no stub providers: without a weather key the service refuses to
// start rather than score against invented conditions.
type ClientRegistry struct {
	Weather    *OpenWeatherClient
	WaterLevel *PegelOnlineClient
}

// NewClientRegistry builds the providers from configuration, each with its
// own http.Client timeout and circuit breaker.
func NewClientRegistry(cfg *config.Config, logger *slog.Logger) (*ClientRegistry, error) {
	if cfg == nil {
		return nil, errors.New("external: config must not be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Weather.APIKey.Unmask() == "" {
		return nil, errors.New("external: OPENWEATHER_API_KEY is required")
	}

	reg := &ClientRegistry{
		Weather: NewOpenWeatherClient(
			&http.Client{Timeout: timeoutOrDefault(cfg.Weather.Timeout)},
			OpenWeatherConfig{
				APIKey:  cfg.Weather.APIKey,
				BaseURL: cfg.Weather.BaseURL,
				Lang:    cfg.Weather.Lang,
				Logger:  logger.With("client", "openweather"),
			},
		),
	}

	if cfg.WaterLevel.Enabled {
		reg.WaterLevel = NewPegelOnlineClient(
			&http.Client{Timeout: timeoutOrDefault(cfg.WaterLevel.Timeout)},
			PegelOnlineConfig{
				BaseURL: cfg.WaterLevel.BaseURL,
				Logger:  logger.With("client", "pegelonline"),
			},
		)
	}

	logger.Info("external clients initialized",
		"environment", cfg.Environment,
		"water_level_enabled", reg.WaterLevel != nil,
	)
	return reg, nil
}

func timeoutOrDefault(d time.Duration) time.Duration {
	if d <= 0 {
		return defaultClientTimeout
	}
	return d
}
