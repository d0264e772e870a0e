package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"krishimitra-go/internal/service"
	"krishimitra-go/pkg/log"
)

const (
	// InvalidImageDetail 是扩展名校验失败时返回给客户端的信息。
	InvalidImageDetail = "Invalid file format. Please upload a JPG or PNG image."
	// ProcessingErrorPrefix 是识别过程中意外错误的信息前缀。
	ProcessingErrorPrefix = "Error processing image: "
)

// DiseaseHandler 负责处理病害识别上传。
type DiseaseHandler struct {
	diseaseService service.DiseaseService
}

// NewDiseaseHandler 创建一个新的 DiseaseHandler。
func NewDiseaseHandler(diseaseService service.DiseaseService) *DiseaseHandler {
	return &DiseaseHandler{diseaseService: diseaseService}
}

// Detect 处理 POST /detect-disease，表单字段名为 file。
func (h *DiseaseHandler) Detect(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		abortWithDetail(c, http.StatusUnprocessableEntity, "Field required: file")
		return
	}

	result, err := h.diseaseService.Detect(c.Request.Context(), service.ImageUpload{
		FileName: fileHeader.Filename,
		Size:     fileHeader.Size,
	})
	if errors.Is(err, service.ErrInvalidImageFormat) {
		abortWithDetail(c, http.StatusBadRequest, InvalidImageDetail)
		return
	}
	if err != nil {
		log.Errorw("Detect: 病害识别失败", "file", fileHeader.Filename, "error", err)
		abortWithDetail(c, http.StatusInternalServerError, ProcessingErrorPrefix+err.Error())
		return
	}

	c.JSON(http.StatusOK, result)
}
