package places

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/IgorOC/Taste-Trip/config"
	"github.com/IgorOC/Taste-Trip/internal/types"
)

const geocodeBody = `{"features": [{"geometry": {"coordinates": [2.17, 41.38]}}]}`

const placesBody = `{"features": [
  {"properties": {"name": "Can Culleretes", "formatted": "Carrer d'en Quintana 5, Barcelona",
    "categories": ["catering.restaurant", "catering.restaurant.spanish"],
    "datasource": {"raw": {"cuisine": "catalan", "amenity": "restaurant"}}},
   "geometry": {"coordinates": [2.174, 41.381]}},
  {"properties": {"name": "Museu Picasso", "formatted": "Carrer Montcada 15, Barcelona",
    "categories": ["entertainment.museum", "tourism.sights"],
    "datasource": {"raw": {"tourism": "museum"}}},
   "geometry": {"coordinates": [2.180, 41.385]}},
  {"properties": {"name": "", "categories": ["catering.restaurant"]},
   "geometry": {"coordinates": [2.1, 41.3]}},
  {"properties": {"name": "Parc de la Ciutadella", "formatted": "Passeig de Picasso 21, Barcelona",
    "categories": ["leisure.park"],
    "datasource": {"raw": {"leisure": "park"}}},
   "geometry": {"coordinates": [2.186, 41.388]}}
]}`

func fakeGeoapify(t *testing.T, capture *map[string]string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/v1/geocode/search":
			if r.URL.Query().Get("text") == "Nowhere" {
				fmt.Fprint(w, `{"features": []}`)
				return
			}
			fmt.Fprint(w, geocodeBody)
		case "/v2/places":
			if capture != nil {
				m := map[string]string{}
				for k := range r.URL.Query() {
					m[k] = r.URL.Query().Get(k)
				}
				*capture = m
			}
			fmt.Fprint(w, placesBody)
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	}))
}

func newTestService(serverURL string) *PlacesServiceImpl {
	cfg := config.UpstreamsConfig{}
	cfg.Geoapify.BaseURL = serverURL
	cfg.Geoapify.Timeout = 5 * time.Second
	cfg.Geoapify.APIKey = "test-key"
	return NewPlacesService(cfg, slog.Default())
}

func TestFetchPlacesCategorizesResults(t *testing.T) {
	var query map[string]string
	server := fakeGeoapify(t, &query)
	defer server.Close()

	svc := newTestService(server.URL)
	data, err := svc.FetchPlaces(context.Background(), "Barcelona", nil, 20)
	require.NoError(t, err)

	// The unnamed feature is dropped.
	assert.Equal(t, 3, data.TotalPlaces)
	assert.Equal(t, "Barcelona", data.Destination)
	assert.InDelta(t, 41.38, data.Coordinates.Lat, 1e-9)
	assert.InDelta(t, 2.17, data.Coordinates.Lon, 1e-9)

	require.Len(t, data.Categorized.Restaurants, 1)
	assert.Equal(t, "Can Culleretes", data.Categorized.Restaurants[0].Name)
	assert.Equal(t, "catalan", data.Categorized.Restaurants[0].Cuisine)

	// The museum lands in both attractions and culture buckets.
	require.Len(t, data.Categorized.Attractions, 1)
	require.Len(t, data.Categorized.Culture, 1)
	assert.Equal(t, "Museu Picasso", data.Categorized.Culture[0].Name)

	require.Len(t, data.Categorized.Nature, 1)
	assert.Equal(t, "Parc de la Ciutadella", data.Categorized.Nature[0].Name)
}

func TestFetchPlacesQueryUsesCircleFilter(t *testing.T) {
	var query map[string]string
	server := fakeGeoapify(t, &query)
	defer server.Close()

	svc := newTestService(server.URL)
	_, err := svc.FetchPlaces(context.Background(), "Barcelona", nil, 35)
	require.NoError(t, err)

	// Geoapify filter order is lon,lat and the radius is fixed at 5km.
	assert.True(t, strings.HasPrefix(query["filter"], "circle:2.17"), query["filter"])
	assert.True(t, strings.HasSuffix(query["filter"], ",5000"), query["filter"])
	assert.Equal(t, "35", query["limit"])
}

func TestFetchPlacesInterestCategories(t *testing.T) {
	var query map[string]string
	server := fakeGeoapify(t, &query)
	defer server.Close()

	svc := newTestService(server.URL)
	_, err := svc.FetchPlaces(context.Background(), "Barcelona", []string{"Nightlife"}, 20)
	require.NoError(t, err)

	assert.Contains(t, query["categories"], "adult.nightclub")
	assert.NotContains(t, query["categories"], "entertainment.museum")
}

func TestFetchPlacesGeneralCategoriesFallback(t *testing.T) {
	var query map[string]string
	server := fakeGeoapify(t, &query)
	defer server.Close()

	svc := newTestService(server.URL)
	_, err := svc.FetchPlaces(context.Background(), "Barcelona", []string{"Unknown Interest"}, 20)
	require.NoError(t, err)

	assert.Equal(t, strings.Join(generalCategories, ","), query["categories"])
}

func TestFetchPlacesCityNotFound(t *testing.T) {
	server := fakeGeoapify(t, nil)
	defer server.Close()

	svc := newTestService(server.URL)
	_, err := svc.FetchPlaces(context.Background(), "Nowhere", nil, 20)
	assert.ErrorIs(t, err, ErrCityNotFound)
}

func TestCategoriesForInterestsDeduplicates(t *testing.T) {
	// Gastronomy and Nightlife share bar/pub codes.
	categories := categoriesForInterests([]string{"Gastronomy", "Nightlife"})
	seen := map[string]int{}
	for _, c := range categories {
		seen[c]++
	}
	assert.Equal(t, 1, seen["catering.bar"])
	assert.Equal(t, 1, seen["catering.pub"])
}

func TestCategorize(t *testing.T) {
	placesList := []types.Place{
		{Name: "Spa House", Categories: []string{"leisure.spa"}},
		{Name: "Stadium", Categories: []string{"sport.stadium"}},
		{Name: "Zoo", Categories: []string{"entertainment.zoo"}},
		{Name: "Mall", Categories: []string{"commercial.shopping_mall"}},
	}
	c := categorize(placesList)
	assert.Len(t, c.Wellness, 1)
	assert.Len(t, c.Sports, 1)
	assert.Len(t, c.Family, 1)
	assert.Len(t, c.Shopping, 1)
	assert.Empty(t, c.Restaurants)
}
