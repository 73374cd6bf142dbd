package trip

import (
	"strings"

	"github.com/IgorOC/Taste-Trip/internal/types"
)

// ExtractPlaceNames collects the reference names an itinerary is validated
// against. Only buckets the prompt actually surfaces venues from count;
// unnamed entries are skipped.
func ExtractPlaceNames(places *types.PlacesData) []string {
	if places == nil {
		return nil
	}
	buckets := [][]types.Place{
		places.Categorized.Restaurants,
		places.Categorized.Attractions,
		places.Categorized.Culture,
		places.Categorized.Nightlife,
		places.Categorized.Nature,
	}
	var names []string
	for _, bucket := range buckets {
		for _, p := range bucket {
			if strings.TrimSpace(p.Name) != "" {
				names = append(names, p.Name)
			}
		}
	}
	return names
}

// ValidationResult reports how much of the reference place list an
// itinerary actually used.
type ValidationResult struct {
	Passed     bool
	Ratio      float64
	Matched    []string
	Referenced int
}

// ValidatePlacesUsage checks that the itinerary mentions at least
// threshold of the reference names, matching case-insensitively as
// substrings of the meal, afternoon and morning fields. An empty reference
// list passes vacuously since there was nothing to use.
func ValidatePlacesUsage(it *types.GeneratedItinerary, names []string, threshold float64) ValidationResult {
	if len(names) == 0 {
		return ValidationResult{Passed: true, Ratio: 1}
	}

	haystack := strings.ToLower(itinerarySearchText(it))
	var matched []string
	for _, name := range names {
		if strings.Contains(haystack, strings.ToLower(name)) {
			matched = append(matched, name)
		}
	}

	ratio := float64(len(matched)) / float64(len(names))
	return ValidationResult{
		Passed:     ratio >= threshold,
		Ratio:      ratio,
		Matched:    matched,
		Referenced: len(names),
	}
}

// itinerarySearchText concatenates the fields venues are expected to appear
// in. Other narrative fields do not count toward usage.
func itinerarySearchText(it *types.GeneratedItinerary) string {
	if it == nil {
		return ""
	}
	var b strings.Builder
	for _, day := range it.Days {
		if day.Lunch != nil {
			b.WriteString(day.Lunch.Description)
			b.WriteString(" ")
		}
		if day.Dinner != nil {
			b.WriteString(day.Dinner.Name)
			b.WriteString(" ")
		}
		if day.Afternoon != nil {
			b.WriteString(day.Afternoon.Location)
			b.WriteString(" ")
		}
		if day.Morning != nil {
			b.WriteString(day.Morning.Description)
			b.WriteString(" ")
		}
	}
	return b.String()
}
