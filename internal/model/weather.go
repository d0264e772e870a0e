package model

// Weather 是 GET /weather 的响应，每次请求随机生成。
type Weather struct {
	Location string         `json:"location"`
	Current  CurrentWeather `json:"current"`
	Forecast []ForecastDay  `json:"forecast"`
}

// CurrentWeather 当前天气。
type CurrentWeather struct {
	Temperature float64 `json:"temperature"`
	Humidity    float64 `json:"humidity"`
	WindSpeed   float64 `json:"wind_speed"`
	Condition   string  `json:"condition"`
	Updated     ISOTime `json:"updated"`
}

// ForecastDay 单日预报。
type ForecastDay struct {
	Date                ISODate `json:"date"`
	MaxTemp             float64 `json:"max_temp"`
	MinTemp             float64 `json:"min_temp"`
	Humidity            float64 `json:"humidity"`
	Condition           string  `json:"condition"`
	PrecipitationChance float64 `json:"precipitation_chance"`
}
