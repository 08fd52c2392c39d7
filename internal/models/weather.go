package models

// WeatherSnapshot is a point-in-time reading shown next to the task list.
type WeatherSnapshot struct {
	City         string `json:"city"`
	TemperatureC int    `json:"temperature_c"`
	Description  string `json:"description"`
	Icon         string `json:"icon"`
	FeelsLikeC   int    `json:"feels_like_c"`
	HumidityPct  int    `json:"humidity_pct"`
	WindKph      int    `json:"wind_kph"`
}
