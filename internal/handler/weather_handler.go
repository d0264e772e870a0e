package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"krishimitra-go/internal/service"
)

// WeatherHandler 负责天气查询。
type WeatherHandler struct {
	weatherService service.WeatherService
}

// NewWeatherHandler 创建一个新的 WeatherHandler。
func NewWeatherHandler(weatherService service.WeatherService) *WeatherHandler {
	return &WeatherHandler{weatherService: weatherService}
}

// Get 处理 GET /weather?location=，未传 location 时使用配置中的默认地点。
func (h *WeatherHandler) Get(c *gin.Context) {
	c.JSON(http.StatusOK, h.weatherService.Generate(c.Request.Context(), c.Query("location")))
}
