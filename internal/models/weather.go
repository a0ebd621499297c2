package models

// Forecast is the aggregated multi-day forecast returned by the weather API.
type Forecast struct {
	City      ForecastCity  `json:"city"`
	Forecasts []DayForecast `json:"forecasts"`
}

// ForecastCity carries the location metadata of a forecast.
type ForecastCity struct {
	Name    string `json:"name"`
	Country string `json:"country"`
	Sunrise int64  `json:"sunrise"`
	Sunset  int64  `json:"sunset"`
}

// DayForecast aggregates the provider's 3-hourly samples into a single day.
type DayForecast struct {
	Date        string        `json:"date"`
	Weather     Condition     `json:"weather"`
	Temperature DayTemps      `json:"temperature"`
	Humidity    DayPartValues `json:"humidity"`
	Pressure    DayPartValues `json:"pressure"`
	Wind        DayWind       `json:"wind"`
	Clouds      Clouds        `json:"clouds"`
	Visibility  int           `json:"visibility"`
	// Pop is the probability of precipitation, 0..1.
	Pop float64 `json:"pop"`
}

// Condition describes the sky condition for a day. The afternoon sample is
// preferred when available.
type Condition struct {
	ID          int    `json:"id"`
	Main        string `json:"main"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

// DayTemps holds min/max plus time-of-day temperature samples.
// Time-of-day values are nil when the provider returned no sample for
// that window.
type DayTemps struct {
	Min       float64  `json:"min"`
	Max       float64  `json:"max"`
	Morning   *float64 `json:"morning"`
	Afternoon *float64 `json:"afternoon"`
	Evening   *float64 `json:"evening"`
	Night     *float64 `json:"night"`
}

// DayPartValues holds one sampled value per time-of-day window.
type DayPartValues struct {
	Morning   *float64 `json:"morning,omitempty"`
	Afternoon *float64 `json:"afternoon,omitempty"`
	Evening   *float64 `json:"evening,omitempty"`
	Night     *float64 `json:"night,omitempty"`
}

// DayWind records the strongest wind sample observed during the day.
type DayWind struct {
	Max WindSample `json:"max"`
}

// WindSample is a single wind observation.
type WindSample struct {
	Speed     float64 `json:"speed"`
	Direction float64 `json:"direction"`
}

// Clouds is the cloud coverage percentage.
type Clouds struct {
	All int `json:"all"`
}
