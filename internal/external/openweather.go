package external

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"fangindex/internal/types"
)

const openWeatherAPIBase = "https://api.openweathermap.org"

// OpenWeatherConfig holds the configuration for an OpenWeatherClient.
type OpenWeatherConfig struct {
	APIKey  types.SecretString
	BaseURL string // defaults to openWeatherAPIBase
	Lang    string // description language, defaults to "en"
	Logger  *slog.Logger
}

// openWeatherResponse is the subset of the current weather payload we read.
type openWeatherResponse struct {
	Main *struct {
		Temp     float64 `json:"temp"`
		Pressure int     `json:"pressure"`
		Humidity int     `json:"humidity"`
	} `json:"main"`
	Wind struct {
		Speed float64 `json:"speed"`
	} `json:"wind"`
	Clouds struct {
		All int `json:"all"`
	} `json:"clouds"`
	Weather []struct {
		Description string `json:"description"`
	} `json:"weather"`
}

// OpenWeatherClient reads current conditions from the OpenWeather
// /data/2.5/weather endpoint in metric units.
type OpenWeatherClient struct {
	base    *BaseClient
	apiKey  types.SecretString
	baseURL string
	lang    string
	logger  *slog.Logger
}

var _ types.WeatherProvider = (*OpenWeatherClient)(nil)

// NewOpenWeatherClient creates an OpenWeatherClient with its own breaker.
func NewOpenWeatherClient(httpClient *http.Client, cfg OpenWeatherConfig) *OpenWeatherClient {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	base := NewBaseClient(
		httpClient,
		BreakerSettings{Name: "openweather", FailureThreshold: 5, OpenTimeout: 30 * time.Second},
		DefaultRetryPolicy(),
		"Fangindex/1.0",
		WithLogger(logger),
	)
	return NewOpenWeatherClientWithBase(base, cfg)
}

// NewOpenWeatherClientWithBase creates an OpenWeatherClient on a
// pre-configured BaseClient.
func NewOpenWeatherClientWithBase(base *BaseClient, cfg OpenWeatherConfig) *OpenWeatherClient {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = openWeatherAPIBase
	}
	lang := cfg.Lang
	if lang == "" {
		lang = "en"
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &OpenWeatherClient{
		base:    base,
		apiKey:  cfg.APIKey,
		baseURL: strings.TrimSuffix(baseURL, "/"),
		lang:    lang,
		logger:  logger,
	}
}

// GetWeather returns the current weather at a coordinate. Every failure is
// reported as ErrCodeUpstreamWeather; the underlying AppError stays in the
// chain.
func (c *OpenWeatherClient) GetWeather(ctx context.Context, lat, lon float64) (*types.WeatherSnapshot, error) {
	q := url.Values{}
	q.Set("lat", strconv.FormatFloat(lat, 'f', 4, 64))
	q.Set("lon", strconv.FormatFloat(lon, 'f', 4, 64))
	q.Set("appid", c.apiKey.Unmask())
	q.Set("units", "metric")
	q.Set("lang", c.lang)

	var body openWeatherResponse
	status, err := c.base.getJSON(ctx, c.baseURL+"/data/2.5/weather?"+q.Encode(), &body)
	if err != nil {
		c.logger.WarnContext(ctx, "weather request failed", "error", err)
		return nil, types.NewAppError(types.ErrCodeUpstreamWeather, "weather service unavailable", err)
	}

	switch {
	case status == http.StatusUnauthorized:
		c.logger.ErrorContext(ctx, "weather service rejected api key")
		return nil, types.NewAppError(types.ErrCodeUpstreamWeather, "weather service rejected credentials", nil)
	case status != http.StatusOK:
		return nil, types.NewAppErrorWithDetails(types.ErrCodeUpstreamWeather,
			fmt.Sprintf("weather service returned %d", status), nil,
			map[string]any{"status": status})
	case body.Main == nil:
		return nil, types.NewAppError(types.ErrCodeUpstreamWeather, "weather response has no measurements", nil)
	}

	snap := &types.WeatherSnapshot{
		TemperatureC:  body.Main.Temp,
		PressureHPa:   body.Main.Pressure,
		HumidityPct:   body.Main.Humidity,
		WindSpeedMS:   body.Wind.Speed,
		CloudCoverPct: body.Clouds.All,
	}
	if len(body.Weather) > 0 {
		snap.Description = body.Weather[0].Description
	}
	return snap, nil
}
