package types

// WeatherOutlook is the weather payload attached to a trip: current
// conditions, a generic forecast and, when trip dates were supplied, the
// per-day subset covering the trip window.
type WeatherOutlook struct {
	Current      CurrentConditions `json:"current"`
	Forecast     []ForecastDay     `json:"forecast,omitempty"`
	TripForecast []TripForecastDay `json:"tripForecast,omitempty"`
	Location     WeatherLocation   `json:"location"`
}

type CurrentConditions struct {
	Temperature int    `json:"temperature"`
	Description string `json:"description"`
	Icon        string `json:"icon,omitempty"`
}

type ForecastDay struct {
	Date        string           `json:"date"`
	Temperature TemperatureRange `json:"temperature"`
	Description string           `json:"description"`
	Icon        string           `json:"icon,omitempty"`
}

type TemperatureRange struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// TripForecastDay is one forecast entry inside the trip window. Temperature
// is the mean of the day's min and max.
type TripForecastDay struct {
	Date        string `json:"date"`
	DayName     string `json:"dayName"`
	Temperature int    `json:"temperature"`
	TempMin     int    `json:"tempMin"`
	TempMax     int    `json:"tempMax"`
	Description string `json:"description"`
	Icon        string `json:"icon,omitempty"`
}

type WeatherLocation struct {
	Name    string `json:"name"`
	Country string `json:"country"`
	State   string `json:"state,omitempty"`
}
