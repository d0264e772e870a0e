package service

import (
	"context"
	"strings"
	"time"

	"krishimitra-go/internal/model"
)

// ForecastDays 是预报的天数。
const ForecastDays = 5

// WeatherConditions 是随机天气可能出现的描述。
var WeatherConditions = []string{"Sunny", "Partly Cloudy", "Cloudy", "Rain", "Thunderstorm", "Clear"}

// WeatherService 定义了天气数据（模拟）的接口。
type WeatherService interface {
	// Generate 为给定地点生成当前天气和未来 5 天预报。
	// 数值与地点无关，两次调用互相独立。
	Generate(ctx context.Context, location string) model.Weather
}

type weatherService struct {
	defaultLocation string
	rnd             Rand
	now             func() time.Time
}

// NewWeatherService 创建一个新的 WeatherService 实例。rnd 和 now 为 nil 时使用默认实现。
func NewWeatherService(defaultLocation string, rnd Rand, now func() time.Time) WeatherService {
	if rnd == nil {
		rnd = DefaultRand()
	}
	if now == nil {
		now = time.Now
	}
	return &weatherService{defaultLocation: defaultLocation, rnd: rnd, now: now}
}

func (s *weatherService) Generate(_ context.Context, location string) model.Weather {
	if strings.TrimSpace(location) == "" {
		location = s.defaultLocation
	}
	now := s.now()

	currentTemp := round1(uniform(s.rnd, 15, 35))
	current := model.CurrentWeather{
		Temperature: currentTemp,
		Humidity:    round1(uniform(s.rnd, 40, 90)),
		WindSpeed:   round1(uniform(s.rnd, 2, 15)),
		Condition:   s.condition(),
		Updated:     model.ISOTime(now),
	}

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	forecast := make([]model.ForecastDay, 0, ForecastDays)
	for i := 0; i < ForecastDays; i++ {
		forecast = append(forecast, model.ForecastDay{
			Date:                model.ISODate(today.AddDate(0, 0, i+1)),
			MaxTemp:             round1(currentTemp + uniform(s.rnd, -3, 5)),
			MinTemp:             round1(currentTemp - uniform(s.rnd, 5, 10)),
			Humidity:            round1(uniform(s.rnd, 40, 90)),
			Condition:           s.condition(),
			PrecipitationChance: round1(uniform(s.rnd, 0, 100)),
		})
	}

	return model.Weather{
		Location: location,
		Current:  current,
		Forecast: forecast,
	}
}

func (s *weatherService) condition() string {
	return WeatherConditions[s.rnd.IntN(len(WeatherConditions))]
}
