package middleware

import (
	"slidegen-ai-api/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	// RequestIDHeader 请求 ID Header 名称
	RequestIDHeader = "X-Request-ID"
	// RequestIDKey 上下文中存储请求 ID 的键
	RequestIDKey = "request_id"
)

// RequestID 请求 ID 中间件
// 优先使用客户端传入的 X-Request-ID,不存在时生成新的 UUID
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.New().String()
		}

		c.Set(RequestIDKey, requestID)
		c.Header(RequestIDHeader, requestID)

		ctx := logger.WithContext(c.Request.Context(), logger.RequestIDKey, requestID)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}
