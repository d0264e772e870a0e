package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"krishimitra-go/internal/model"
	"krishimitra-go/internal/service"
)

// PriceHandler 负责市场价格查询。
type PriceHandler struct {
	priceService service.PriceService
}

// NewPriceHandler 创建一个新的 PriceHandler。
func NewPriceHandler(priceService service.PriceService) *PriceHandler {
	return &PriceHandler{priceService: priceService}
}

// List 处理 GET /prices?crop=&state=&market=&trend=。
func (h *PriceHandler) List(c *gin.Context) {
	var filter model.PriceFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		abortWithDetail(c, http.StatusUnprocessableEntity, "Invalid query: "+err.Error())
		return
	}
	c.JSON(http.StatusOK, h.priceService.List(c.Request.Context(), filter))
}

// Filters 处理 GET /prices/filters。
func (h *PriceHandler) Filters(c *gin.Context) {
	c.JSON(http.StatusOK, h.priceService.Facets(c.Request.Context()))
}
