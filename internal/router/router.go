// Package router 注册所有路由并组装中间件。
package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"krishimitra-go/internal/config"
	"krishimitra-go/internal/handler"
	"krishimitra-go/internal/middleware"
)

// Handlers 汇总所有路由需要的控制器。
type Handlers struct {
	Health  *handler.HealthHandler
	Chat    *handler.ChatHandler
	Disease *handler.DiseaseHandler
	Price   *handler.PriceHandler
	Weather *handler.WeatherHandler
}

// New 创建 gin 引擎、注册路由，并在最外层包上 CORS。
func New(cfg *config.Config, h Handlers) http.Handler {
	r := gin.New() // 不使用默认中间件，日志与 recovery 都走 zap
	r.MaxMultipartMemory = cfg.Upload.MaxMemoryMB << 20
	r.HandleMethodNotAllowed = true
	r.Use(middleware.RequestID(), middleware.RequestLogger(), middleware.Recovery(""))

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Not Found"})
	})
	r.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, gin.H{"detail": "Method Not Allowed"})
	})

	r.GET("/", h.Health.Root)
	r.GET("/health", h.Health.Health)

	r.POST("/chat", h.Chat.Chat)
	r.GET("/chat/ws", h.Chat.Stream)

	// 识别过程中的 panic 按 "Error processing image: ..." 返回
	r.POST("/detect-disease", middleware.Recovery(handler.ProcessingErrorPrefix), h.Disease.Detect)

	prices := r.Group("/prices")
	{
		prices.GET("", h.Price.List)
		prices.GET("/filters", h.Price.Filters)
	}

	r.GET("/weather", h.Weather.Get)

	return middleware.CORS(cfg.CORS, r)
}
