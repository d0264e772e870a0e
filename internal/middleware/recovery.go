package middleware

import (
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"krishimitra-go/pkg/log"
)

// Recovery 捕获 panic，记录日志并返回 500 {"detail": ...}。
// detailPrefix 非空时，把 panic 信息拼接在前缀之后返回给客户端。
func Recovery(detailPrefix string) gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(io.Discard, func(c *gin.Context, recovered any) {
		log.Errorw("请求处理发生 panic",
			"requestID", GetRequestID(c),
			"path", c.Request.URL.Path,
			"panic", recovered,
		)
		detail := http.StatusText(http.StatusInternalServerError)
		if detailPrefix != "" {
			detail = detailPrefix + fmt.Sprint(recovered)
		}
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"detail": detail})
	})
}
