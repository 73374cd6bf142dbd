package trip

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/IgorOC/Taste-Trip/internal/types"
)

// ErrMalformedItinerary is returned when a model answer is not a usable
// itinerary document. The attempt that produced it counts as failed.
var ErrMalformedItinerary = errors.New("malformed itinerary response")

// CleanResponse strips the markdown code fences models wrap JSON in despite
// instructions, plus surrounding whitespace.
func CleanResponse(raw string) string {
	out := strings.TrimSpace(raw)
	if strings.HasPrefix(out, "```json") {
		out = strings.TrimPrefix(out, "```json")
	} else if strings.HasPrefix(out, "```") {
		out = strings.TrimPrefix(out, "```")
	}
	out = strings.TrimSuffix(strings.TrimSpace(out), "```")
	return strings.TrimSpace(out)
}

// ParseItinerary cleans and decodes a raw model answer. A decoded document
// with no days is as unusable as invalid JSON and fails the same way.
func ParseItinerary(raw string) (*types.GeneratedItinerary, error) {
	cleaned := CleanResponse(raw)

	var it types.GeneratedItinerary
	if err := json.Unmarshal([]byte(cleaned), &it); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedItinerary, err)
	}
	if len(it.Days) == 0 {
		return nil, fmt.Errorf("%w: no days in response", ErrMalformedItinerary)
	}
	return &it, nil
}
