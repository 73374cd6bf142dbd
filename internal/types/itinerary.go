package types

// GeneratedItinerary is the structured document the generation backend is
// asked to produce: an overview, one entry per trip day and a final tips
// block.
type GeneratedItinerary struct {
	Overview  ItineraryOverview `json:"overview"`
	Days      []ItineraryDay    `json:"days"`
	FinalTips FinalTips         `json:"final_tips"`
}

type ItineraryOverview struct {
	Title        string `json:"title"`
	Introduction string `json:"introduction"`
}

// ItineraryDay carries the per-day schedule. Lunch description, dinner name
// and afternoon location are expected to embed a real place name + address.
type ItineraryDay struct {
	Day           int           `json:"day"`
	Title         string        `json:"title"`
	Morning       *DayMorning   `json:"morning,omitempty"`
	Lunch         *DayLunch     `json:"lunch,omitempty"`
	Afternoon     *DayAfternoon `json:"afternoon,omitempty"`
	Dinner        *DayDinner    `json:"dinner,omitempty"`
	NightActivity string        `json:"night_activity,omitempty"`
}

type DayMorning struct {
	Description string `json:"description"`
	Tip         string `json:"tip,omitempty"`
}

type DayLunch struct {
	Description string `json:"description"`
	Tip         string `json:"tip,omitempty"`
}

type DayAfternoon struct {
	Activity string `json:"activity"`
	Location string `json:"location"`
	Duration string `json:"duration,omitempty"`
	Tip      string `json:"tip,omitempty"`
}

type DayDinner struct {
	Name string `json:"name"`
	Type string `json:"type,omitempty"`
	Link string `json:"link,omitempty"`
}

type FinalTips struct {
	Transportation string `json:"transportation,omitempty"`
	Weather        string `json:"weather,omitempty"`
	Tipping        string `json:"tipping,omitempty"`
	Safety         string `json:"safety,omitempty"`
	LocalCulture   string `json:"local_culture,omitempty"`
	Shopping       string `json:"shopping,omitempty"`
}
