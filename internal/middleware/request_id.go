// Package middleware 存放 Gin 框架的中间件。
package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	// RequestIDHeader 请求 ID 的 HTTP 头。
	RequestIDHeader = "X-Request-ID"
	requestIDKey    = "requestID"
)

// RequestID 为每个请求分配 ID：沿用客户端传入的 X-Request-ID，否则生成 UUID。
// ID 会写回响应头并保存在 gin.Context 中。
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" || len(id) > 128 {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}

// GetRequestID 返回当前请求的 ID。
func GetRequestID(c *gin.Context) string {
	return c.GetString(requestIDKey)
}
