package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// WelcomeMessage 是 GET / 的返回信息。
const WelcomeMessage = "Welcome to KrishiMitra AI API"

// HealthHandler 负责存活检查。
type HealthHandler struct {
	service string
	version string
	started time.Time
}

// NewHealthHandler 创建一个新的 HealthHandler。
func NewHealthHandler(service, version string) *HealthHandler {
	return &HealthHandler{service: service, version: version, started: time.Now()}
}

// Root 处理 GET /。
func (h *HealthHandler) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": WelcomeMessage})
}

// Health 处理 GET /health。
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":     "ok",
		"service":    h.service,
		"version":    h.version,
		"uptime_sec": int(time.Since(h.started).Seconds()),
		"time":       time.Now().Format(time.RFC3339),
	})
}
