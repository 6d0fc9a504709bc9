package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"codepad/internal/constants"
)

const maxRequestIDLength = 128

// RequestID 透传或生成请求 ID，写入上下文与响应头
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(constants.HeaderRequestID)
		if id == "" || len(id) > maxRequestIDLength {
			id = uuid.NewString()
		}
		c.Set(constants.HeaderRequestID, id)
		c.Header(constants.HeaderRequestID, id)
		c.Next()
	}
}
