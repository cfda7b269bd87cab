package external

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"fangindex/internal/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestOpenWeather(t *testing.T, serverURL string) *OpenWeatherClient {
	t.Helper()
	base := newTestClient(t, fastPolicy(0))
	return NewOpenWeatherClientWithBase(base, OpenWeatherConfig{
		APIKey:  types.SecretString("test-key"),
		BaseURL: serverURL,
	})
}

func TestOpenWeather_GetWeather(t *testing.T) {
	var query map[string]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/data/2.5/weather", r.URL.Path)
		query = map[string]string{
			"lat":   r.URL.Query().Get("lat"),
			"lon":   r.URL.Query().Get("lon"),
			"appid": r.URL.Query().Get("appid"),
			"units": r.URL.Query().Get("units"),
			"lang":  r.URL.Query().Get("lang"),
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"weather": [{"description": "few clouds"}],
			"main": {"temp": 18.4, "pressure": 1016, "humidity": 71},
			"wind": {"speed": 3.6},
			"clouds": {"all": 20}
		}`))
	}))
	defer server.Close()

	client := newTestOpenWeather(t, server.URL)
	snap, err := client.GetWeather(context.Background(), 53.5511, 9.9937)
	require.NoError(t, err)

	assert.Equal(t, &types.WeatherSnapshot{
		TemperatureC:  18.4,
		PressureHPa:   1016,
		HumidityPct:   71,
		WindSpeedMS:   3.6,
		CloudCoverPct: 20,
		Description:   "few clouds",
	}, snap)
	assert.Equal(t, "53.5511", query["lat"])
	assert.Equal(t, "9.9937", query["lon"])
	assert.Equal(t, "test-key", query["appid"])
	assert.Equal(t, "metric", query["units"])
	assert.Equal(t, "en", query["lang"])
}

func TestOpenWeather_Unauthorized(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	_, err := newTestOpenWeather(t, server.URL).GetWeather(context.Background(), 53.5, 10.0)
	require.Error(t, err)
	assert.True(t, types.HasCode(err, types.ErrCodeUpstreamWeather))
}

func TestOpenWeather_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	_, err := newTestOpenWeather(t, server.URL).GetWeather(context.Background(), 53.5, 10.0)
	require.Error(t, err)
	assert.True(t, types.HasCode(err, types.ErrCodeUpstreamWeather))
	assert.True(t, types.HasCode(err, types.ErrCodeUpstreamUnavailable), "transport error should stay in the chain")
}

func TestOpenWeather_MissingMain(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"weather": []}`))
	}))
	defer server.Close()

	_, err := newTestOpenWeather(t, server.URL).GetWeather(context.Background(), 53.5, 10.0)
	assert.True(t, types.HasCode(err, types.ErrCodeUpstreamWeather))
}

func TestOpenWeather_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(time.Second):
		}
	}))
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := newTestOpenWeather(t, server.URL).GetWeather(ctx, 53.5, 10.0)
	assert.True(t, types.HasCode(err, types.ErrCodeUpstreamWeather))
}
