package types

// CuisineProfile describes the destination's food scene: typical dishes, the
// local food culture and recommended restaurant types.
type CuisineProfile struct {
	TypicalDishes             []TypicalDish              `json:"typical_dishes"`
	LocalIngredients          []string                   `json:"local_ingredients,omitempty"`
	FoodCulture               string                     `json:"food_culture"`
	RestaurantRecommendations []RestaurantRecommendation `json:"restaurant_recommendations,omitempty"`
}

type TypicalDish struct {
	Name                 string   `json:"name"`
	Description          string   `json:"description"`
	Ingredients          []string `json:"ingredients,omitempty"`
	RecipeSummary        string   `json:"recipe_summary,omitempty"`
	Difficulty           string   `json:"difficulty,omitempty"`
	PreparationTime      int      `json:"preparation_time,omitempty"`
	CulturalSignificance string   `json:"cultural_significance,omitempty"`
}

type RestaurantRecommendation struct {
	Name        string   `json:"name"`
	Type        string   `json:"type,omitempty"`
	Description string   `json:"description,omitempty"`
	PriceRange  string   `json:"price_range,omitempty"`
	Specialties []string `json:"specialties,omitempty"`
}
