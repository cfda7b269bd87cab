package external

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"fangindex/internal/types"
)

const (
	pegelOnlineAPIBase = "https://www.pegelonline.wsv.de/webservices/rest-api/v2"
	maxStationResults  = 10
)

// PegelOnlineConfig holds the configuration for a PegelOnlineClient.
type PegelOnlineConfig struct {
	BaseURL string // defaults to pegelOnlineAPIBase
	Logger  *slog.Logger
}

type currentMeasurement struct {
	Timestamp time.Time `json:"timestamp"`
	Value     *float64  `json:"value"`
	Trend     int       `json:"trend"`
}

// Station is a PEGELONLINE gauge station.
type Station struct {
	UUID      string  `json:"uuid"`
	Number    string  `json:"number"`
	ShortName string  `json:"shortname"`
	LongName  string  `json:"longname"`
	Km        float64 `json:"km"`
	Agency    string  `json:"agency"`
	Longitude float64 `json:"longitude"`
	Latitude  float64 `json:"latitude"`
	Water     struct {
		ShortName string `json:"shortname"`
		LongName  string `json:"longname"`
	} `json:"water"`
}

// PegelOnlineClient reads gauge data from the public PEGELONLINE REST API
// of the German federal waterways administration.
type PegelOnlineClient struct {
	base    *BaseClient
	baseURL string
	logger  *slog.Logger
}

var _ types.WaterLevelProvider = (*PegelOnlineClient)(nil)

// NewPegelOnlineClient creates a PegelOnlineClient with its own breaker.
func NewPegelOnlineClient(httpClient *http.Client, cfg PegelOnlineConfig) *PegelOnlineClient {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	base := NewBaseClient(
		httpClient,
		BreakerSettings{Name: "pegelonline", FailureThreshold: 5, OpenTimeout: time.Minute},
		RetryPolicy{MaxRetries: 1, MinWait: 200 * time.Millisecond, MaxWait: time.Second},
		"Fangindex/1.0",
		WithLogger(logger),
	)
	return NewPegelOnlineClientWithBase(base, cfg)
}

// NewPegelOnlineClientWithBase creates a PegelOnlineClient on a
// pre-configured BaseClient.
func NewPegelOnlineClientWithBase(base *BaseClient, cfg PegelOnlineConfig) *PegelOnlineClient {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = pegelOnlineAPIBase
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &PegelOnlineClient{
		base:    base,
		baseURL: strings.TrimSuffix(baseURL, "/"),
		logger:  logger,
	}
}

// GetWaterLevel returns the current water level ("W") measurement of a
// station. Unknown stations and stations without a current value yield
// (nil, nil).
func (c *PegelOnlineClient) GetWaterLevel(ctx context.Context, stationID string) (*types.WaterLevelReading, error) {
	stationID = strings.TrimSpace(stationID)
	if stationID == "" {
		return nil, nil
	}

	endpoint := fmt.Sprintf("%s/stations/%s/W/currentmeasurement.json", c.baseURL, url.PathEscape(stationID))

	var m currentMeasurement
	status, err := c.base.getJSON(ctx, endpoint, &m)
	if err != nil {
		return nil, types.NewAppErrorWithDetails(types.ErrCodeUpstreamWaterLevel, "water level service unavailable", err,
			map[string]any{"station_id": stationID})
	}

	switch {
	case status == http.StatusNotFound:
		c.logger.DebugContext(ctx, "no current measurement for station", "station_id", stationID)
		return nil, nil
	case status != http.StatusOK:
		return nil, types.NewAppErrorWithDetails(types.ErrCodeUpstreamWaterLevel,
			fmt.Sprintf("water level service returned %d", status), nil,
			map[string]any{"station_id": stationID, "status": status})
	case m.Value == nil:
		return nil, nil
	}

	return &types.WaterLevelReading{
		StationID: stationID,
		Level:     *m.Value,
		Trend:     types.TrendFromGauge(m.Trend),
		Timestamp: m.Timestamp,
	}, nil
}

// SearchStations lists up to ten stations on the named water, e.g. "ELBE".
func (c *PegelOnlineClient) SearchStations(ctx context.Context, water string) ([]Station, error) {
	q := url.Values{}
	q.Set("waters", strings.ToUpper(strings.TrimSpace(water)))

	var stations []Station
	status, err := c.base.getJSON(ctx, c.baseURL+"/stations.json?"+q.Encode(), &stations)
	if err != nil {
		return nil, types.NewAppError(types.ErrCodeUpstreamWaterLevel, "water level service unavailable", err)
	}
	if status != http.StatusOK {
		return nil, types.NewAppErrorWithDetails(types.ErrCodeUpstreamWaterLevel,
			fmt.Sprintf("water level service returned %d", status), nil,
			map[string]any{"status": status})
	}
	if len(stations) > maxStationResults {
		stations = stations[:maxStationResults]
	}
	if stations == nil {
		stations = []Station{}
	}
	return stations, nil
}
