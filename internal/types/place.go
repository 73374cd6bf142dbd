package types

// Place is a single real-world place returned by the places source.
// Immutable once fetched.
type Place struct {
	Name         string    `json:"name"`
	Address      string    `json:"address"`
	Categories   []string  `json:"categories,omitempty"`
	Website      string    `json:"website,omitempty"`
	Phone        string    `json:"phone,omitempty"`
	OpeningHours string    `json:"openingHours,omitempty"`
	Coordinates  []float64 `json:"coordinates,omitempty"`
	Cuisine      string    `json:"cuisine,omitempty"`
	Type         string    `json:"type,omitempty"`
}

// CategorizedPlaces groups fetched places into the named buckets the prompt
// builder and the usage validator consume. A place may appear in several
// buckets when its category tags overlap.
type CategorizedPlaces struct {
	Restaurants []Place `json:"restaurants"`
	Attractions []Place `json:"attractions"`
	Culture     []Place `json:"culture"`
	Nature      []Place `json:"nature"`
	Nightlife   []Place `json:"nightlife"`
	Shopping    []Place `json:"shopping"`
	Wellness    []Place `json:"wellness"`
	Sports      []Place `json:"sports"`
	Family      []Place `json:"family"`
}

// PlacesData is the full places-lookup payload for a destination.
type PlacesData struct {
	Destination string            `json:"destination"`
	Interests   []string          `json:"interests,omitempty"`
	Coordinates Coordinates       `json:"coordinates"`
	TotalPlaces int               `json:"totalPlaces"`
	Places      []Place           `json:"places"`
	Categorized CategorizedPlaces `json:"categorized"`
}

type Coordinates struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}
