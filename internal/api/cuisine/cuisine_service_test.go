package cuisine

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockGenClient is a mock implementation of generative.Client.
type MockGenClient struct {
	mock.Mock
}

func (m *MockGenClient) GenerateWithSystem(ctx context.Context, system, prompt string, temperature float64) (string, error) {
	args := m.Called(ctx, system, prompt, temperature)
	return args.String(0), args.Error(1)
}

const profileJSON = `{
  "typical_dishes": [{"name": "Paella", "description": "Saffron rice with seafood", "recipe_summary": "Simmer rice in saffron broth with seafood", "difficulty": "medium", "preparation_time": 45}],
  "local_ingredients": ["saffron", "olive oil"],
  "food_culture": "Late lunches and later dinners.",
  "restaurant_recommendations": [{"name": "La Boqueria", "type": "Market", "price_range": "$$", "specialties": ["jamon"]}]
}`

func TestFetchCuisineParsesProfile(t *testing.T) {
	mockAI := new(MockGenClient)
	svc := NewCuisineService(mockAI, slog.Default())

	mockAI.On("GenerateWithSystem", mock.Anything, mock.Anything, mock.Anything, cuisineTemperature).
		Return(profileJSON, nil).Once()

	profile, err := svc.FetchCuisine(context.Background(), "Barcelona")
	require.NoError(t, err)
	require.Len(t, profile.TypicalDishes, 1)
	assert.Equal(t, "Paella", profile.TypicalDishes[0].Name)
	assert.Equal(t, "medium", profile.TypicalDishes[0].Difficulty)
	assert.Equal(t, 45, profile.TypicalDishes[0].PreparationTime)
	assert.Equal(t, "Late lunches and later dinners.", profile.FoodCulture)
	mockAI.AssertExpectations(t)
}

func TestCuisinePromptRequestsRecipeFields(t *testing.T) {
	prompt := buildCuisinePrompt("Barcelona")

	assert.Contains(t, prompt, `"recipe_summary"`)
	assert.Contains(t, prompt, `"difficulty"`)
	assert.Contains(t, prompt, `"preparation_time"`)
}

func TestFetchCuisineStripsCodeFences(t *testing.T) {
	mockAI := new(MockGenClient)
	svc := NewCuisineService(mockAI, slog.Default())

	mockAI.On("GenerateWithSystem", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return("```json\n"+profileJSON+"\n```", nil).Once()

	profile, err := svc.FetchCuisine(context.Background(), "Barcelona")
	require.NoError(t, err)
	assert.Equal(t, "Paella", profile.TypicalDishes[0].Name)
}

func TestFetchCuisineFallsBackOnUnparseableAnswer(t *testing.T) {
	mockAI := new(MockGenClient)
	svc := NewCuisineService(mockAI, slog.Default())

	mockAI.On("GenerateWithSystem", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return("Sorry, I cannot answer in JSON today.", nil).Once()

	profile, err := svc.FetchCuisine(context.Background(), "Barcelona")
	require.NoError(t, err)
	assert.Contains(t, profile.FoodCulture, "Barcelona")
	require.NotEmpty(t, profile.TypicalDishes)
	assert.Equal(t, "medium", profile.TypicalDishes[0].Difficulty)
	assert.NotZero(t, profile.TypicalDishes[0].PreparationTime)
}

func TestFetchCuisinePropagatesGenerationErrors(t *testing.T) {
	mockAI := new(MockGenClient)
	svc := NewCuisineService(mockAI, slog.Default())

	mockAI.On("GenerateWithSystem", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return("", errors.New("backend down")).Once()

	_, err := svc.FetchCuisine(context.Background(), "Barcelona")
	assert.Error(t, err)
}
