package trip

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/IgorOC/Taste-Trip/internal/types"
)

func itineraryMentioning(names ...string) *types.GeneratedItinerary {
	day := types.ItineraryDay{Day: 1, Title: "Exploring"}
	for i, name := range names {
		switch i % 4 {
		case 0:
			day.Lunch = &types.DayLunch{Description: fmt.Sprintf("Lunch at %s, try the specials", name)}
		case 1:
			day.Dinner = &types.DayDinner{Name: name}
		case 2:
			day.Afternoon = &types.DayAfternoon{Activity: "Visit", Location: name}
		case 3:
			day.Morning = &types.DayMorning{Description: "Start the day at " + name}
		}
	}
	return &types.GeneratedItinerary{Days: []types.ItineraryDay{day}}
}

func TestValidatePlacesUsageEmptyReferenceListPasses(t *testing.T) {
	it := itineraryMentioning("Somewhere Else")
	result := ValidatePlacesUsage(it, nil, 0.25)
	assert.True(t, result.Passed)
	assert.Equal(t, 1.0, result.Ratio)
}

func TestValidatePlacesUsageThreshold(t *testing.T) {
	names := make([]string, 10)
	for i := range names {
		names[i] = fmt.Sprintf("Venue Number %d", i)
	}

	// 3 of 10 mentioned is exactly above the 0.25 threshold.
	it := itineraryMentioning(names[0], names[1], names[2])
	result := ValidatePlacesUsage(it, names, 0.25)
	assert.True(t, result.Passed)
	assert.InDelta(t, 0.3, result.Ratio, 1e-9)
	assert.Len(t, result.Matched, 3)

	// 2 of 10 is below it.
	it = itineraryMentioning(names[0], names[1])
	result = ValidatePlacesUsage(it, names, 0.25)
	assert.False(t, result.Passed)
	assert.InDelta(t, 0.2, result.Ratio, 1e-9)
}

func TestValidatePlacesUsageExactThresholdPasses(t *testing.T) {
	names := []string{"Alpha Cafe", "Beta Museum", "Gamma Park", "Delta Bar"}
	it := itineraryMentioning(names[0])
	result := ValidatePlacesUsage(it, names, 0.25)
	assert.True(t, result.Passed)
}

func TestValidatePlacesUsageIsCaseInsensitive(t *testing.T) {
	it := &types.GeneratedItinerary{Days: []types.ItineraryDay{{
		Day:    1,
		Dinner: &types.DayDinner{Name: "dinner at OSTERIA FRANCESCANA tonight"},
	}}}
	result := ValidatePlacesUsage(it, []string{"Osteria Francescana"}, 0.25)
	assert.True(t, result.Passed)
	assert.Equal(t, []string{"Osteria Francescana"}, result.Matched)
}

func TestValidatePlacesUsageIgnoresNarrativeFields(t *testing.T) {
	// The venue only appears in the overview and night activity, which do
	// not count toward usage.
	it := &types.GeneratedItinerary{
		Overview: types.ItineraryOverview{Introduction: "Featuring Blue Lagoon"},
		Days: []types.ItineraryDay{{
			Day:           1,
			NightActivity: "Evening at Blue Lagoon",
		}},
	}
	result := ValidatePlacesUsage(it, []string{"Blue Lagoon"}, 0.25)
	assert.False(t, result.Passed)
	assert.Empty(t, result.Matched)
}

func TestExtractPlaceNames(t *testing.T) {
	data := &types.PlacesData{
		Categorized: types.CategorizedPlaces{
			Restaurants: []types.Place{{Name: "Trattoria Roma"}, {Name: "  "}},
			Attractions: []types.Place{{Name: "Colosseum"}},
			Culture:     []types.Place{{Name: "Galleria Borghese"}},
			Nightlife:   []types.Place{{Name: "Jazz Club"}},
			Nature:      []types.Place{{Name: "Villa Ada"}},
			Shopping:    []types.Place{{Name: "Via del Corso Mall"}},
			Wellness:    []types.Place{{Name: "Thermal Spa"}},
		},
	}
	names := ExtractPlaceNames(data)
	assert.ElementsMatch(t, []string{"Trattoria Roma", "Colosseum", "Galleria Borghese", "Jazz Club", "Villa Ada"}, names)
}

func TestExtractPlaceNamesNilData(t *testing.T) {
	assert.Nil(t, ExtractPlaceNames(nil))
}
