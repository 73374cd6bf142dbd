package cuisine

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/IgorOC/Taste-Trip/internal/api/generative"
	"github.com/IgorOC/Taste-Trip/internal/types"
)

const (
	cuisineTemperature = 0.7
)

var _ CuisineService = (*CuisineServiceImpl)(nil)

// CuisineService produces a gastronomy profile for a destination. The
// profile is advisory context for itinerary generation, so failures here
// never abort a trip request.
type CuisineService interface {
	FetchCuisine(ctx context.Context, destination string) (*types.CuisineProfile, error)
}

type CuisineServiceImpl struct {
	logger *slog.Logger
	ai     generative.Client
}

func NewCuisineService(ai generative.Client, logger *slog.Logger) *CuisineServiceImpl {
	return &CuisineServiceImpl{
		logger: logger,
		ai:     ai,
	}
}

// FetchCuisine asks the generation backend for a structured cuisine profile.
// When the model answer cannot be parsed as JSON, a generic filler profile
// is returned instead of an error so the caller still gets usable context.
func (s *CuisineServiceImpl) FetchCuisine(ctx context.Context, destination string) (*types.CuisineProfile, error) {
	l := s.logger.With(slog.String("service", "CuisineService"), slog.String("destination", destination))

	prompt := buildCuisinePrompt(destination)
	raw, err := s.ai.GenerateWithSystem(ctx, cuisineSystemPrompt, prompt, cuisineTemperature)
	if err != nil {
		return nil, fmt.Errorf("cuisine generation for %q failed: %w", destination, err)
	}

	cleaned := stripCodeFences(raw)
	var profile types.CuisineProfile
	if err := json.Unmarshal([]byte(cleaned), &profile); err != nil {
		l.WarnContext(ctx, "Cuisine response was not valid JSON, using fallback profile", slog.Any("error", err))
		return fallbackProfile(destination), nil
	}

	l.DebugContext(ctx, "Cuisine profile fetched",
		slog.Int("dishes", len(profile.TypicalDishes)),
		slog.Int("restaurants", len(profile.RestaurantRecommendations)))
	return &profile, nil
}

const cuisineSystemPrompt = "You are a local gastronomy expert. You answer only with valid JSON, no markdown and no commentary."

func buildCuisinePrompt(destination string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Describe the local cuisine of %s for a traveler.\n\n", destination)
	b.WriteString(`Respond with a JSON object using exactly this structure:
{
  "typical_dishes": [
    {"name": "dish name", "description": "short description", "ingredients": ["main ingredients"], "recipe_summary": "short recipe summary", "difficulty": "easy|medium|hard", "preparation_time": 60, "cultural_significance": "one sentence"}
  ],
  "local_ingredients": ["ingredient 1", "ingredient 2"],
  "food_culture": "a paragraph about eating habits, meal times and food traditions",
  "restaurant_recommendations": [
    {"name": "restaurant or market name", "type": "type of venue", "price_range": "$ to $$$$", "specialties": ["what to order"]}
  ]
}

Include 4 to 6 typical dishes, 4 to 6 local ingredients and 3 to 5 restaurant recommendations. Respond with the JSON object only.`)
	return b.String()
}

// stripCodeFences removes a leading ```json (or bare ```) fence and a
// trailing ``` fence that models often wrap JSON answers in.
func stripCodeFences(s string) string {
	out := strings.TrimSpace(s)
	if strings.HasPrefix(out, "```json") {
		out = strings.TrimPrefix(out, "```json")
	} else if strings.HasPrefix(out, "```") {
		out = strings.TrimPrefix(out, "```")
	}
	out = strings.TrimSuffix(strings.TrimSpace(out), "```")
	return strings.TrimSpace(out)
}

// fallbackProfile is the generic profile used when the model answer cannot
// be parsed. It keeps downstream prompt building working with plausible,
// destination-tagged filler.
func fallbackProfile(destination string) *types.CuisineProfile {
	return &types.CuisineProfile{
		TypicalDishes: []types.TypicalDish{
			{
				Name:                 "Local specialty",
				Description:          "Traditional dish from " + destination,
				Ingredients:          []string{"Regional ingredients"},
				RecipeSummary:        "Traditional regional recipe",
				Difficulty:           "medium",
				PreparationTime:      60,
				CulturalSignificance: "Staple of the local food tradition",
			},
		},
		LocalIngredients: []string{"Regional ingredients"},
		FoodCulture:      "Rich local gastronomy in " + destination + " with traditional markets and family-run restaurants.",
		RestaurantRecommendations: []types.RestaurantRecommendation{
			{Name: "Local markets", Type: "Market", PriceRange: "$", Specialties: []string{"Fresh regional produce"}},
		},
	}
}
