package weather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/IgorOC/Taste-Trip/config"
	"github.com/IgorOC/Taste-Trip/internal/types"
)

// forecastHorizonDays is how far ahead the daily forecast reaches. Trip days
// beyond the horizon are omitted from the trip forecast.
const forecastHorizonDays = 8

var ErrCityNotFound = errors.New("city not found")

var _ WeatherService = (*WeatherServiceImpl)(nil)

// WeatherService fetches current conditions and the forecast for a city.
// When trip dates are supplied, the outlook includes the per-day subset
// covering the trip window, clamped to the forecast horizon.
type WeatherService interface {
	FetchWeather(ctx context.Context, city string, startDate, endDate *time.Time) (*types.WeatherOutlook, error)
}

type WeatherServiceImpl struct {
	logger  *slog.Logger
	client  *http.Client
	baseURL string
	apiKey  string
	now     func() time.Time
}

func NewWeatherService(cfg config.UpstreamsConfig, logger *slog.Logger) *WeatherServiceImpl {
	return &WeatherServiceImpl{
		logger:  logger,
		client:  &http.Client{Timeout: cfg.OpenWeather.Timeout},
		baseURL: strings.TrimSuffix(cfg.OpenWeather.BaseURL, "/"),
		apiKey:  cfg.OpenWeather.APIKey,
		now:     time.Now,
	}
}

type geocodeEntry struct {
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
	Name    string  `json:"name"`
	Country string  `json:"country"`
	State   string  `json:"state"`
}

type weatherCondition struct {
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

type oneCallResponse struct {
	Current struct {
		Temp    float64            `json:"temp"`
		Weather []weatherCondition `json:"weather"`
	} `json:"current"`
	Daily []struct {
		Dt   int64 `json:"dt"`
		Temp struct {
			Min float64 `json:"min"`
			Max float64 `json:"max"`
		} `json:"temp"`
		Weather []weatherCondition `json:"weather"`
	} `json:"daily"`
}

func (s *WeatherServiceImpl) FetchWeather(ctx context.Context, city string, startDate, endDate *time.Time) (*types.WeatherOutlook, error) {
	l := s.logger.With(slog.String("service", "WeatherService"), slog.String("city", city))

	if city == "" {
		return nil, errors.New("city is required")
	}

	loc, err := s.geocode(ctx, city)
	if err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("lat", fmt.Sprintf("%f", loc.Lat))
	params.Set("lon", fmt.Sprintf("%f", loc.Lon))
	params.Set("exclude", "minutely,alerts")
	params.Set("units", "metric")
	params.Set("appid", s.apiKey)

	var oc oneCallResponse
	if err := s.getJSON(ctx, s.baseURL+"/data/3.0/onecall?"+params.Encode(), &oc); err != nil {
		return nil, fmt.Errorf("weather lookup failed: %w", err)
	}

	outlook := &types.WeatherOutlook{
		Location: types.WeatherLocation{Name: loc.Name, Country: loc.Country, State: loc.State},
	}
	if len(oc.Current.Weather) > 0 {
		outlook.Current = types.CurrentConditions{
			Temperature: int(math.Round(oc.Current.Temp)),
			Description: oc.Current.Weather[0].Description,
			Icon:        oc.Current.Weather[0].Icon,
		}
	}

	for i, day := range oc.Daily {
		if i >= 7 {
			break
		}
		if len(day.Weather) == 0 {
			continue
		}
		outlook.Forecast = append(outlook.Forecast, types.ForecastDay{
			Date: time.Unix(day.Dt, 0).UTC().Format("2006-01-02"),
			Temperature: types.TemperatureRange{
				Min: int(math.Round(day.Temp.Min)),
				Max: int(math.Round(day.Temp.Max)),
			},
			Description: day.Weather[0].Description,
			Icon:        day.Weather[0].Icon,
		})
	}

	if startDate != nil && endDate != nil {
		outlook.TripForecast = s.tripForecast(oc, *startDate, *endDate)
		l.DebugContext(ctx, "Trip forecast computed", slog.Int("days", len(outlook.TripForecast)))
	}

	return outlook, nil
}

// tripForecast extracts the forecast-day indices that fall inside the trip
// window, clamped to the forecast horizon.
func (s *WeatherServiceImpl) tripForecast(oc oneCallResponse, start, end time.Time) []types.TripForecastDay {
	today := s.now()

	daysUntilStart := int(math.Ceil(start.Sub(today).Hours() / 24))
	tripDuration := int(math.Ceil(end.Sub(start).Hours() / 24))

	forecastStart := daysUntilStart
	if forecastStart > forecastHorizonDays-1 {
		forecastStart = forecastHorizonDays - 1
	}
	if forecastStart < 0 {
		forecastStart = 0
	}
	forecastEnd := forecastStart + tripDuration
	if forecastEnd > forecastHorizonDays {
		forecastEnd = forecastHorizonDays
	}

	var days []types.TripForecastDay
	for i := forecastStart; i < forecastEnd; i++ {
		if i >= len(oc.Daily) {
			break
		}
		day := oc.Daily[i]
		if len(day.Weather) == 0 {
			continue
		}
		date := time.Unix(day.Dt, 0).UTC()
		days = append(days, types.TripForecastDay{
			Date:        date.Format("2006-01-02"),
			DayName:     date.Weekday().String(),
			Temperature: int(math.Round((day.Temp.Min + day.Temp.Max) / 2)),
			TempMin:     int(math.Round(day.Temp.Min)),
			TempMax:     int(math.Round(day.Temp.Max)),
			Description: day.Weather[0].Description,
			Icon:        day.Weather[0].Icon,
		})
	}
	return days
}

func (s *WeatherServiceImpl) geocode(ctx context.Context, city string) (*geocodeEntry, error) {
	params := url.Values{}
	params.Set("q", city)
	params.Set("limit", "1")
	params.Set("appid", s.apiKey)

	var entries []geocodeEntry
	if err := s.getJSON(ctx, s.baseURL+"/geo/1.0/direct?"+params.Encode(), &entries); err != nil {
		return nil, fmt.Errorf("geocoding failed: %w", err)
	}
	if len(entries) == 0 {
		return nil, ErrCityNotFound
	}
	return &entries[0], nil
}

func (s *WeatherServiceImpl) getJSON(ctx context.Context, rawURL string, dst interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return err
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("upstream returned status %d: %s", resp.StatusCode, string(body))
	}
	return json.NewDecoder(resp.Body).Decode(dst)
}
