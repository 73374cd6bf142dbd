package types

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// BudgetCategory is the coarse spending tier derived from the total budget.
type BudgetCategory string

const (
	BudgetLow    BudgetCategory = "low"
	BudgetMedium BudgetCategory = "medium"
	BudgetHigh   BudgetCategory = "high"
)

// GetBudgetCategory maps a total budget to its tier using fixed thresholds.
func GetBudgetCategory(budget float64) BudgetCategory {
	if budget <= 2000 {
		return BudgetLow
	}
	if budget <= 6000 {
		return BudgetMedium
	}
	return BudgetHigh
}

// BudgetGuidelines is the per-tier guidance text rendered into the prompt,
// plus the estimated daily spending figure.
type BudgetGuidelines struct {
	Accommodation  string
	Transportation string
	Food           string
	Activities     string
	DailyBudget    int
}

// dailyBudgetFraction grows with the tier: cheaper trips reserve a larger
// buffer outside the daily figure.
var dailyBudgetFraction = map[BudgetCategory]float64{
	BudgetLow:    0.80,
	BudgetMedium: 0.85,
	BudgetHigh:   0.90,
}

// GuidelinesFor returns the guidance block for a budget tier, with the daily
// figure computed from the total budget and trip length.
func GuidelinesFor(category BudgetCategory, budget float64, days int) BudgetGuidelines {
	if days < 1 {
		days = 1
	}
	daily := int(math.Round(budget / float64(days) * dailyBudgetFraction[category]))

	switch category {
	case BudgetLow:
		return BudgetGuidelines{
			Accommodation:  "hostels, simple guesthouses, budget rentals",
			Transportation: "public transport, walking, buses",
			Food:           "street food, popular local restaurants, markets",
			Activities:     "free attractions, parks, free museums",
			DailyBudget:    daily,
		}
	case BudgetHigh:
		return BudgetGuidelines{
			Accommodation:  "4-5 star hotels, resorts, premium rentals",
			Transportation: "taxi, ride-hailing, private transfers, car rental",
			Food:           "renowned restaurants, fine dining experiences",
			Activities:     "private tours, exclusive experiences, spas",
			DailyBudget:    daily,
		}
	default:
		return BudgetGuidelines{
			Accommodation:  "3 star hotels, comfortable guesthouses",
			Transportation: "mix of public transport and taxi/ride-hailing",
			Food:           "local restaurants, a few dining experiences",
			Activities:     "mix of paid and free attractions, guided tours",
			DailyBudget:    daily,
		}
	}
}

// GetDaysCount returns the itinerary day count for a trip window: the number
// of 24h periods between the two dates, rounded up, never less than one.
func GetDaysCount(start, end time.Time) int {
	diff := end.Sub(start)
	if diff < 0 {
		diff = -diff
	}
	days := int(math.Ceil(diff.Hours() / 24))
	if days < 1 {
		days = 1
	}
	return days
}

// TripRequest is the user-supplied trip description. Dates arrive as ISO
// calendar dates; preference fields are free text and optional.
type TripRequest struct {
	Origin                  string   `json:"origin"`
	Destination             string   `json:"destination"`
	StartDate               string   `json:"startDate"`
	EndDate                 string   `json:"endDate"`
	Budget                  float64  `json:"budget"`
	BudgetCategory          string   `json:"budgetCategory,omitempty"`
	Title                   string   `json:"title,omitempty"`
	Adults                  int      `json:"adults"`
	ChildrenAges            string   `json:"childrenAges,omitempty"`
	TravelStyle             string   `json:"travelStyle,omitempty"`
	TransportPreference     string   `json:"transportPreference,omitempty"`
	AccommodationPreference string   `json:"accommodationPreference,omitempty"`
	DietaryRestrictions     string   `json:"dietaryRestrictions,omitempty"`
	Accessibility           string   `json:"accessibility,omitempty"`
	SpecialNotes            string   `json:"specialNotes,omitempty"`
	Interests               []string `json:"interests,omitempty"`
}

// ParsedChildrenAges extracts the valid children ages (0-17) from the
// comma-separated field, dropping anything that does not parse.
func (r TripRequest) ParsedChildrenAges() []int {
	if strings.TrimSpace(r.ChildrenAges) == "" {
		return nil
	}
	var ages []int
	for _, part := range strings.Split(r.ChildrenAges, ",") {
		age, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil || age < 0 || age > 17 {
			continue
		}
		ages = append(ages, age)
	}
	return ages
}

// StoredTrip is the persisted record created once per successful pipeline
// run. Itinerary, weather and cuisine payloads are stored as JSONB.
type StoredTrip struct {
	ID             uuid.UUID           `json:"id"`
	UserID         uuid.UUID           `json:"user_id"`
	Title          string              `json:"title,omitempty"`
	Origin         string              `json:"origin"`
	Destination    string              `json:"destination"`
	StartDate      time.Time           `json:"start_date"`
	EndDate        time.Time           `json:"end_date"`
	Budget         float64             `json:"budget"`
	BudgetCategory BudgetCategory      `json:"budget_category"`
	Itinerary      *GeneratedItinerary `json:"itinerary"`
	WeatherData    *WeatherOutlook     `json:"weather_data,omitempty"`
	LocalCuisine   *CuisineProfile     `json:"local_cuisine,omitempty"`
	CreatedAt      time.Time           `json:"created_at"`
}
