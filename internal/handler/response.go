// Package handler 包含了处理 HTTP 请求的控制器逻辑。
package handler

import (
	"github.com/gin-gonic/gin"
)

// abortWithDetail 以 {"detail": msg} 的格式返回错误，与前端既有的错误处理保持一致。
func abortWithDetail(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, gin.H{"detail": msg})
}
