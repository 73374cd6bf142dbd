package places

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/IgorOC/Taste-Trip/config"
	"github.com/IgorOC/Taste-Trip/internal/types"
)

// ErrCityNotFound is returned when geocoding yields no match for the
// destination name. The pipeline treats it like any other lookup failure.
var ErrCityNotFound = errors.New("city not found")

var _ PlacesService = (*PlacesServiceImpl)(nil)

// PlacesService fetches real places around a destination, grouped into the
// category buckets the prompt builder consumes.
type PlacesService interface {
	FetchPlaces(ctx context.Context, destination string, interests []string, limit int) (*types.PlacesData, error)
}

type PlacesServiceImpl struct {
	logger  *slog.Logger
	client  *http.Client
	baseURL string
	apiKey  string
}

func NewPlacesService(cfg config.UpstreamsConfig, logger *slog.Logger) *PlacesServiceImpl {
	return &PlacesServiceImpl{
		logger:  logger,
		client:  &http.Client{Timeout: cfg.Geoapify.Timeout},
		baseURL: strings.TrimSuffix(cfg.Geoapify.BaseURL, "/"),
		apiKey:  cfg.Geoapify.APIKey,
	}
}

// interestToCategories maps each interest tag to the Geoapify category codes
// used to search for matching places.
var interestToCategories = map[string][]string{
	"Culture & History": {
		"entertainment.museum",
		"entertainment.culture.gallery",
		"entertainment.culture.theatre",
		"entertainment.culture.arts_centre",
		"tourism.sights.castle",
		"tourism.sights.archaeological_site",
		"tourism.sights.memorial.monument",
		"heritage.unesco",
	},
	"Nature & Adventure": {
		"leisure.park",
		"leisure.park.nature_reserve",
		"leisure.park.garden",
		"natural.water",
		"natural.mountain.peak",
		"natural.forest",
		"tourism.attraction.viewpoint",
	},
	"Gastronomy": {
		"catering.restaurant",
		"catering.fast_food",
		"catering.cafe",
		"catering.bar",
		"catering.pub",
		"catering.restaurant.pizza",
		"catering.restaurant.italian",
		"catering.restaurant.chinese",
	},
	"Nightlife": {
		"catering.bar",
		"catering.pub",
		"adult.nightclub",
		"adult.casino",
		"catering.biergarten",
	},
	"Shopping": {
		"commercial.shopping_mall",
		"commercial.marketplace",
		"commercial.department_store",
		"commercial.supermarket",
	},
	"Wellness": {
		"leisure.spa",
		"service.beauty.spa",
		"service.beauty.massage",
		"sport.fitness.fitness_centre",
	},
	"Family": {
		"entertainment.zoo",
		"entertainment.aquarium",
		"entertainment.theme_park",
		"entertainment.water_park",
		"leisure.playground",
	},
	"Sports": {
		"sport.stadium",
		"sport.sports_centre",
		"sport.swimming_pool",
		"sport.fitness.fitness_centre",
	},
	"Art & Museums": {
		"entertainment.museum",
		"entertainment.culture.gallery",
		"entertainment.culture.arts_centre",
		"entertainment.culture.theatre",
	},
}

// generalCategories is the fallback search set when the request carries no
// interest tags.
var generalCategories = []string{
	"catering.restaurant",
	"entertainment.museum",
	"leisure.park",
	"commercial.shopping_mall",
	"tourism.sights.castle",
	"entertainment.culture.gallery",
}

type geoapifyFeature struct {
	Properties struct {
		Name         string   `json:"name"`
		Formatted    string   `json:"formatted"`
		Categories   []string `json:"categories"`
		Website      string   `json:"website"`
		Phone        string   `json:"phone"`
		OpeningHours string   `json:"opening_hours"`
		Datasource   struct {
			Raw struct {
				Cuisine string `json:"cuisine"`
				Amenity string `json:"amenity"`
				Tourism string `json:"tourism"`
				Leisure string `json:"leisure"`
			} `json:"raw"`
		} `json:"datasource"`
	} `json:"properties"`
	Geometry struct {
		Coordinates []float64 `json:"coordinates"`
	} `json:"geometry"`
}

type geoapifyResponse struct {
	Features []geoapifyFeature `json:"features"`
}

func (s *PlacesServiceImpl) FetchPlaces(ctx context.Context, destination string, interests []string, limit int) (*types.PlacesData, error) {
	l := s.logger.With(slog.String("service", "PlacesService"), slog.String("destination", destination))

	if destination == "" {
		return nil, errors.New("destination is required")
	}
	if limit <= 0 {
		limit = 20
	}

	lat, lon, err := s.geocode(ctx, destination)
	if err != nil {
		return nil, err
	}
	l.DebugContext(ctx, "Destination geocoded", slog.Float64("lat", lat), slog.Float64("lon", lon))

	categories := categoriesForInterests(interests)

	params := url.Values{}
	params.Set("categories", strings.Join(categories, ","))
	params.Set("filter", fmt.Sprintf("circle:%f,%f,5000", lon, lat))
	params.Set("limit", strconv.Itoa(limit))
	params.Set("apiKey", s.apiKey)
	params.Set("format", "geojson")

	var placesResp geoapifyResponse
	if err := s.getJSON(ctx, s.baseURL+"/v2/places?"+params.Encode(), &placesResp); err != nil {
		return nil, fmt.Errorf("places lookup failed: %w", err)
	}

	processed := make([]types.Place, 0, len(placesResp.Features))
	for _, f := range placesResp.Features {
		name := f.Properties.Name
		if name == "" {
			continue
		}
		placeType := f.Properties.Datasource.Raw.Amenity
		if placeType == "" {
			placeType = f.Properties.Datasource.Raw.Tourism
		}
		if placeType == "" {
			placeType = f.Properties.Datasource.Raw.Leisure
		}
		if placeType == "" {
			placeType = "place"
		}
		processed = append(processed, types.Place{
			Name:         name,
			Address:      f.Properties.Formatted,
			Categories:   f.Properties.Categories,
			Website:      f.Properties.Website,
			Phone:        f.Properties.Phone,
			OpeningHours: f.Properties.OpeningHours,
			Coordinates:  f.Geometry.Coordinates,
			Cuisine:      f.Properties.Datasource.Raw.Cuisine,
			Type:         placeType,
		})
	}

	data := &types.PlacesData{
		Destination: destination,
		Interests:   interests,
		Coordinates: types.Coordinates{Lat: lat, Lon: lon},
		TotalPlaces: len(processed),
		Places:      processed,
		Categorized: categorize(processed),
	}

	l.InfoContext(ctx, "Places fetched",
		slog.Int("total", data.TotalPlaces),
		slog.Int("restaurants", len(data.Categorized.Restaurants)),
		slog.Int("attractions", len(data.Categorized.Attractions)),
	)
	return data, nil
}

func (s *PlacesServiceImpl) geocode(ctx context.Context, destination string) (float64, float64, error) {
	params := url.Values{}
	params.Set("text", destination)
	params.Set("limit", "1")
	params.Set("apiKey", s.apiKey)
	params.Set("format", "geojson")

	var resp geoapifyResponse
	if err := s.getJSON(ctx, s.baseURL+"/v1/geocode/search?"+params.Encode(), &resp); err != nil {
		return 0, 0, fmt.Errorf("geocoding failed: %w", err)
	}
	if len(resp.Features) == 0 || len(resp.Features[0].Geometry.Coordinates) < 2 {
		return 0, 0, ErrCityNotFound
	}
	coords := resp.Features[0].Geometry.Coordinates
	// GeoJSON order is [lon, lat].
	return coords[1], coords[0], nil
}

func (s *PlacesServiceImpl) getJSON(ctx context.Context, rawURL string, dst interface{}) error {
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

func categoriesForInterests(interests []string) []string {
	seen := make(map[string]struct{})
	var categories []string
	for _, interest := range interests {
		for _, cat := range interestToCategories[interest] {
			if _, ok := seen[cat]; ok {
				continue
			}
			seen[cat] = struct{}{}
			categories = append(categories, cat)
		}
	}
	if len(categories) == 0 {
		categories = append(categories, generalCategories...)
	}
	return categories
}

func hasCategory(place types.Place, substrings ...string) bool {
	for _, cat := range place.Categories {
		for _, sub := range substrings {
			if strings.Contains(cat, sub) {
				return true
			}
		}
	}
	return false
}

// categorize groups places into the buckets the itinerary prompt uses.
func categorize(placesList []types.Place) types.CategorizedPlaces {
	var c types.CategorizedPlaces
	for _, p := range placesList {
		if hasCategory(p, "catering.restaurant", "catering.fast_food", "catering.cafe") {
			c.Restaurants = append(c.Restaurants, p)
		}
		if hasCategory(p, "tourism.sights", "tourism.attraction", "heritage") {
			c.Attractions = append(c.Attractions, p)
		}
		if hasCategory(p, "entertainment.museum", "entertainment.culture", "tourism.sights") {
			c.Culture = append(c.Culture, p)
		}
		if hasCategory(p, "natural", "leisure.park") {
			c.Nature = append(c.Nature, p)
		}
		if hasCategory(p, "catering.bar", "catering.pub", "adult.nightclub") {
			c.Nightlife = append(c.Nightlife, p)
		}
		if hasCategory(p, "commercial") {
			c.Shopping = append(c.Shopping, p)
		}
		if hasCategory(p, "leisure.spa", "service.beauty") {
			c.Wellness = append(c.Wellness, p)
		}
		if hasCategory(p, "sport") {
			c.Sports = append(c.Sports, p)
		}
		if hasCategory(p, "entertainment.zoo", "entertainment.theme_park", "leisure.playground") {
			c.Family = append(c.Family, p)
		}
	}
	return c
}
