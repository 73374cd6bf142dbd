package trip

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validItineraryJSON = `{
  "overview": {"title": "Weekend in Lisbon", "introduction": "Two days of food and views."},
  "days": [
    {
      "day": 1,
      "title": "Alfama",
      "lunch": {"description": "Lunch at Taberna Sal Grosso (Calçada do Forte 22)"},
      "dinner": {"name": "Ramiro (Av. Almirante Reis 1)", "type": "Seafood"}
    }
  ],
  "final_tips": {"transportation": "Use trams and the metro."}
}`

func TestParseItineraryPlainJSON(t *testing.T) {
	it, err := ParseItinerary(validItineraryJSON)
	require.NoError(t, err)
	assert.Equal(t, "Weekend in Lisbon", it.Overview.Title)
	require.Len(t, it.Days, 1)
	assert.Equal(t, "Ramiro (Av. Almirante Reis 1)", it.Days[0].Dinner.Name)
}

func TestParseItineraryStripsJSONCodeFence(t *testing.T) {
	wrapped := "```json\n" + validItineraryJSON + "\n```"
	it, err := ParseItinerary(wrapped)
	require.NoError(t, err)
	assert.Len(t, it.Days, 1)
}

func TestParseItineraryStripsBareCodeFence(t *testing.T) {
	wrapped := "```\n" + validItineraryJSON + "\n```\n"
	it, err := ParseItinerary(wrapped)
	require.NoError(t, err)
	assert.Len(t, it.Days, 1)
}

func TestParseItineraryInvalidJSON(t *testing.T) {
	_, err := ParseItinerary("I am sorry, I cannot produce an itinerary.")
	assert.ErrorIs(t, err, ErrMalformedItinerary)
}

func TestParseItineraryNoDays(t *testing.T) {
	_, err := ParseItinerary(`{"overview": {"title": "Empty"}, "days": []}`)
	assert.ErrorIs(t, err, ErrMalformedItinerary)
}

func TestCleanResponse(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain", `{"a":1}`, `{"a":1}`},
		{"json fence", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"bare fence", "```\n{\"a\":1}\n```", `{"a":1}`},
		{"surrounding whitespace", "  \n{\"a\":1}\n  ", `{"a":1}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CleanResponse(tt.input))
		})
	}
}
