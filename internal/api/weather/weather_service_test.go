package weather

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/IgorOC/Taste-Trip/config"
)

// fakeOpenWeather serves the geocode and onecall endpoints with a fixed
// 8-day daily forecast starting at base.
func fakeOpenWeather(t *testing.T, base time.Time) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/geo/1.0/direct":
			if r.URL.Query().Get("q") == "Nowhere" {
				fmt.Fprint(w, `[]`)
				return
			}
			fmt.Fprint(w, `[{"lat": 41.38, "lon": 2.17, "name": "Barcelona", "country": "ES", "state": "Catalonia"}]`)
		case "/data/3.0/onecall":
			assert.Equal(t, "metric", r.URL.Query().Get("units"))
			daily := ""
			for i := 0; i < 8; i++ {
				if i > 0 {
					daily += ","
				}
				day := base.AddDate(0, 0, i)
				daily += fmt.Sprintf(`{"dt": %d, "temp": {"min": %d, "max": %d}, "weather": [{"description": "clear sky", "icon": "01d"}]}`,
					day.Unix(), 15+i, 25+i)
			}
			fmt.Fprintf(w, `{"current": {"temp": 22.6, "weather": [{"description": "few clouds", "icon": "02d"}]}, "daily": [%s]}`, daily)
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	}))
}

func newTestService(serverURL string, now time.Time) *WeatherServiceImpl {
	cfg := config.UpstreamsConfig{}
	cfg.OpenWeather.BaseURL = serverURL
	cfg.OpenWeather.Timeout = 5 * time.Second
	cfg.OpenWeather.APIKey = "test-key"

	svc := NewWeatherService(cfg, slog.Default())
	svc.now = func() time.Time { return now }
	return svc
}

func TestFetchWeatherCurrentAndForecast(t *testing.T) {
	today := time.Date(2025, time.June, 9, 0, 0, 0, 0, time.UTC)
	server := fakeOpenWeather(t, today)
	defer server.Close()

	svc := newTestService(server.URL, today)
	outlook, err := svc.FetchWeather(context.Background(), "Barcelona", nil, nil)
	require.NoError(t, err)

	assert.Equal(t, "Barcelona", outlook.Location.Name)
	assert.Equal(t, "ES", outlook.Location.Country)
	assert.Equal(t, 23, outlook.Current.Temperature)
	assert.Equal(t, "few clouds", outlook.Current.Description)
	assert.Len(t, outlook.Forecast, 7)
	assert.Empty(t, outlook.TripForecast)
}

func TestFetchWeatherTripWindow(t *testing.T) {
	today := time.Date(2025, time.June, 9, 0, 0, 0, 0, time.UTC)
	server := fakeOpenWeather(t, today)
	defer server.Close()

	svc := newTestService(server.URL, today)

	// Trip starts the day after tomorrow and lasts three days: forecast
	// indices 2, 3 and 4.
	start := today.AddDate(0, 0, 2)
	end := today.AddDate(0, 0, 5)
	outlook, err := svc.FetchWeather(context.Background(), "Barcelona", &start, &end)
	require.NoError(t, err)

	require.Len(t, outlook.TripForecast, 3)
	assert.Equal(t, start.Format("2006-01-02"), outlook.TripForecast[0].Date)
	assert.Equal(t, start.Weekday().String(), outlook.TripForecast[0].DayName)
	assert.Equal(t, 17, outlook.TripForecast[0].TempMin)
	assert.Equal(t, 27, outlook.TripForecast[0].TempMax)
	assert.Equal(t, 22, outlook.TripForecast[0].Temperature)
}

func TestFetchWeatherTripBeyondHorizonClamps(t *testing.T) {
	today := time.Date(2025, time.June, 9, 0, 0, 0, 0, time.UTC)
	server := fakeOpenWeather(t, today)
	defer server.Close()

	svc := newTestService(server.URL, today)

	// Trip starting three weeks out is past the forecast horizon; only the
	// last horizon day can be offered.
	start := today.AddDate(0, 0, 21)
	end := today.AddDate(0, 0, 25)
	outlook, err := svc.FetchWeather(context.Background(), "Barcelona", &start, &end)
	require.NoError(t, err)

	require.Len(t, outlook.TripForecast, 1)
	assert.Equal(t, today.AddDate(0, 0, 7).Format("2006-01-02"), outlook.TripForecast[0].Date)
}

func TestFetchWeatherTripAlreadyStarted(t *testing.T) {
	today := time.Date(2025, time.June, 9, 0, 0, 0, 0, time.UTC)
	server := fakeOpenWeather(t, today)
	defer server.Close()

	svc := newTestService(server.URL, today)

	// Trip started two days ago: the window clamps to today and keeps the
	// full trip duration from there.
	start := today.AddDate(0, 0, -2)
	end := today.AddDate(0, 0, 2)
	outlook, err := svc.FetchWeather(context.Background(), "Barcelona", &start, &end)
	require.NoError(t, err)

	require.Len(t, outlook.TripForecast, 4)
	assert.Equal(t, today.Format("2006-01-02"), outlook.TripForecast[0].Date)
}

func TestFetchWeatherCityNotFound(t *testing.T) {
	today := time.Date(2025, time.June, 9, 0, 0, 0, 0, time.UTC)
	server := fakeOpenWeather(t, today)
	defer server.Close()

	svc := newTestService(server.URL, today)
	_, err := svc.FetchWeather(context.Background(), "Nowhere", nil, nil)
	assert.ErrorIs(t, err, ErrCityNotFound)
}

func TestFetchWeatherEmptyCity(t *testing.T) {
	svc := newTestService("http://unused", time.Now())
	_, err := svc.FetchWeather(context.Background(), "", nil, nil)
	assert.Error(t, err)
}

func TestFetchWeatherUpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, `{"cod": 401, "message": "Invalid API key"}`)
	}))
	defer server.Close()

	svc := newTestService(server.URL, time.Now())
	_, err := svc.FetchWeather(context.Background(), "Barcelona", nil, nil)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "401")
}
