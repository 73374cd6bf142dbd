package trip

import (
	"fmt"
	"strings"
	"time"

	"github.com/IgorOC/Taste-Trip/internal/types"
)

// Caps on how many places of each bucket are surfaced in the prompt. More
// places than this dilutes the instruction without improving the output.
const (
	maxPromptRestaurants = 8
	maxPromptAttractions = 8
	maxPromptCulture     = 6
	maxPromptNightlife   = 6
	maxPromptShopping    = 4
	maxPromptNature      = 4
)

const systemPromptStandard = "You are an experienced tourism expert who creates detailed, practical travel itineraries. " +
	"You always respond with valid JSON only, without markdown formatting and without commentary outside the JSON."

const systemPromptFinal = "You are an experienced tourism expert. This is the final attempt: you MUST use the real venues " +
	"from the provided list for lunches, dinners and afternoon activities, copying their names and addresses exactly. " +
	"Respond with valid JSON only, without markdown formatting and without commentary outside the JSON."

// PromptInput is everything the prompt builder needs. Weather, places and
// cuisine are optional; a nil pointer means that lookup failed or was
// skipped and the prompt degrades to general knowledge for that section.
type PromptInput struct {
	Request  types.TripRequest
	Start    time.Time
	End      time.Time
	Days     int
	Category types.BudgetCategory
	Weather  *types.WeatherOutlook
	Places   *types.PlacesData
	Cuisine  *types.CuisineProfile
}

// BuildItineraryPrompt renders the complete generation prompt: trip facts,
// traveler preferences, budget guidance, gathered context and the required
// JSON output contract. Pure function, safe to call concurrently.
func BuildItineraryPrompt(in PromptInput) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Create a detailed %d-day travel itinerary for the trip below.\n\n", in.Days)

	writeTripInfo(&b, in)
	writeBudgetGuidelines(&b, in)
	writeWeatherInfo(&b, in.Weather)
	writePlacesInfo(&b, in.Places)
	writeCuisineInfo(&b, in.Cuisine)
	writeOutputContract(&b, in.Days)
	writeCriticalRules(&b, in.Places)

	return b.String()
}

func orDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}

func writeTripInfo(b *strings.Builder, in PromptInput) {
	r := in.Request
	b.WriteString("TRIP INFORMATION:\n")
	fmt.Fprintf(b, "- Origin: %s\n", orDefault(r.Origin, "not informed"))
	fmt.Fprintf(b, "- Destination: %s\n", r.Destination)
	fmt.Fprintf(b, "- Dates: %s to %s (%d days)\n",
		in.Start.Format("2006-01-02"), in.End.Format("2006-01-02"), in.Days)
	fmt.Fprintf(b, "- Total budget: %.2f (%s tier)\n", r.Budget, in.Category)
	fmt.Fprintf(b, "- Adults: %d\n", r.Adults)

	ages := r.ParsedChildrenAges()
	if len(ages) > 0 {
		parts := make([]string, len(ages))
		for i, age := range ages {
			parts[i] = fmt.Sprintf("%d", age)
		}
		fmt.Fprintf(b, "- Children ages: %s\n", strings.Join(parts, ", "))
	} else {
		b.WriteString("- Children: none\n")
	}

	fmt.Fprintf(b, "- Travel style: %s\n", orDefault(r.TravelStyle, "not informed"))
	fmt.Fprintf(b, "- Transport preference: %s\n", orDefault(r.TransportPreference, "not informed"))
	fmt.Fprintf(b, "- Accommodation preference: %s\n", orDefault(r.AccommodationPreference, "not informed"))
	fmt.Fprintf(b, "- Dietary restrictions: %s\n", orDefault(r.DietaryRestrictions, "none"))
	fmt.Fprintf(b, "- Accessibility needs: %s\n", orDefault(r.Accessibility, "none"))
	fmt.Fprintf(b, "- Special notes: %s\n", orDefault(r.SpecialNotes, "none"))
	if len(r.Interests) > 0 {
		fmt.Fprintf(b, "- Interests: %s\n", strings.Join(r.Interests, ", "))
	}
	b.WriteString("\n")
}

func writeBudgetGuidelines(b *strings.Builder, in PromptInput) {
	g := types.GuidelinesFor(in.Category, in.Request.Budget, in.Days)
	b.WriteString("BUDGET GUIDELINES:\n")
	fmt.Fprintf(b, "- Estimated daily budget: %d\n", g.DailyBudget)
	fmt.Fprintf(b, "- Accommodation: %s\n", g.Accommodation)
	fmt.Fprintf(b, "- Transportation: %s\n", g.Transportation)
	fmt.Fprintf(b, "- Food: %s\n", g.Food)
	fmt.Fprintf(b, "- Activities: %s\n\n", g.Activities)
}

func writeWeatherInfo(b *strings.Builder, weather *types.WeatherOutlook) {
	if weather == nil {
		return
	}
	b.WriteString("WEATHER DURING THE TRIP:\n")
	fmt.Fprintf(b, "- Current conditions in %s: %d°C, %s\n",
		weather.Location.Name, weather.Current.Temperature, weather.Current.Description)
	if len(weather.TripForecast) > 0 {
		for _, day := range weather.TripForecast {
			fmt.Fprintf(b, "- %s (%s): %d°C to %d°C, %s\n",
				day.Date, day.DayName, day.TempMin, day.TempMax, day.Description)
		}
	} else {
		for _, day := range weather.Forecast {
			fmt.Fprintf(b, "- %s: %d°C to %d°C, %s\n",
				day.Date, day.Temperature.Min, day.Temperature.Max, day.Description)
		}
	}
	b.WriteString("Adapt outdoor activities to the forecast.\n\n")
}

func writePlaceLines(b *strings.Builder, header string, places []types.Place, limit int) {
	if len(places) == 0 {
		return
	}
	if len(places) > limit {
		places = places[:limit]
	}
	fmt.Fprintf(b, "%s:\n", header)
	for _, p := range places {
		line := "- " + p.Name
		if p.Address != "" {
			line += " (" + p.Address + ")"
		}
		if p.Cuisine != "" {
			line += " - cuisine: " + p.Cuisine
		}
		b.WriteString(line + "\n")
	}
}

func writePlacesInfo(b *strings.Builder, places *types.PlacesData) {
	if places == nil || places.TotalPlaces == 0 {
		b.WriteString("No verified place list is available for this destination. " +
			"Use well-known real venues from your general knowledge and always include their names and neighborhoods.\n\n")
		return
	}

	fmt.Fprintf(b, "REAL PLACES IN %s (use these in the itinerary):\n\n", strings.ToUpper(places.Destination))
	writePlaceLines(b, "Restaurants", places.Categorized.Restaurants, maxPromptRestaurants)
	writePlaceLines(b, "Attractions", places.Categorized.Attractions, maxPromptAttractions)
	writePlaceLines(b, "Culture", places.Categorized.Culture, maxPromptCulture)
	writePlaceLines(b, "Nightlife", places.Categorized.Nightlife, maxPromptNightlife)
	writePlaceLines(b, "Shopping", places.Categorized.Shopping, maxPromptShopping)
	writePlaceLines(b, "Nature", places.Categorized.Nature, maxPromptNature)
	b.WriteString("\n")
}

func writeCuisineInfo(b *strings.Builder, cuisine *types.CuisineProfile) {
	if cuisine == nil {
		return
	}
	b.WriteString("LOCAL CUISINE:\n")
	for _, dish := range cuisine.TypicalDishes {
		fmt.Fprintf(b, "- %s: %s\n", dish.Name, dish.Description)
	}
	if cuisine.FoodCulture != "" {
		fmt.Fprintf(b, "Food culture: %s\n", cuisine.FoodCulture)
	}
	b.WriteString("\n")
}

func writeOutputContract(b *strings.Builder, days int) {
	fmt.Fprintf(b, `Respond with a single JSON object using exactly this structure, with one entry in "days" per trip day (%d entries):
{
  "overview": {
    "title": "itinerary title",
    "introduction": "short introduction to the trip"
  },
  "days": [
    {
      "day": 1,
      "title": "theme of the day",
      "morning": {"description": "morning activity with place name and address", "tip": "practical tip"},
      "lunch": {"description": "Restaurant Name (full address) - what to order", "tip": "practical tip"},
      "afternoon": {"activity": "afternoon activity", "location": "Place Name (full address)", "duration": "estimated duration", "tip": "practical tip"},
      "dinner": {"name": "Restaurant Name (full address)", "type": "cuisine type", "link": ""},
      "night_activity": "optional evening suggestion"
    }
  ],
  "final_tips": {
    "transportation": "how to get around",
    "weather": "what to pack for the forecast",
    "tipping": "local tipping etiquette",
    "safety": "safety advice",
    "local_culture": "cultural etiquette",
    "shopping": "what to buy"
  }
}

`, days)
}

func writeCriticalRules(b *strings.Builder, places *types.PlacesData) {
	b.WriteString("CRITICAL RULES:\n")
	if places != nil && places.TotalPlaces > 0 {
		b.WriteString("1. Lunch descriptions, dinner names and afternoon locations MUST use real venues from the list above, with their exact names and addresses.\n")
	} else {
		b.WriteString("1. Lunch descriptions, dinner names and afternoon locations MUST name real, well-known venues with their neighborhoods.\n")
	}
	b.WriteString("2. Respect the budget tier in every suggestion.\n")
	b.WriteString("3. Keep daily schedules geographically sensible to limit travel time.\n")
	b.WriteString("4. Respond with the JSON object only, no markdown fences and no text outside the JSON.\n")
}
