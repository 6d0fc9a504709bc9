package middleware

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"codepad/api"
	"codepad/pkg/jwt"
)

const (
	tokenPrefix = "Bearer "

	CtxKeyOwnerID = "ownerId" // 片段所有者上下文 key
)

// Auth 校验访问令牌并把所有者 ID 写入上下文
func Auth(j *jwt.JWT) gin.HandlerFunc {
	return func(c *gin.Context) {
		// 从请求头中获取 token
		authorizationValue := c.GetHeader("Authorization")
		if !strings.HasPrefix(authorizationValue, tokenPrefix) {
			api.ResponseError(c, api.CodeNeedLogin)
			c.Abort()
			return
		}
		tokenString := strings.TrimSpace(strings.TrimPrefix(authorizationValue, tokenPrefix))
		if tokenString == "" {
			api.ResponseError(c, api.CodeInvalidToken)
			c.Abort()
			return
		}
		// 解析token，获取claims
		claims, err := j.ParseAccessToken(tokenString)
		if err != nil {
			zap.L().Debug("parse access token failed", zap.Error(err))
			if errors.Is(err, jwt.ErrExpiredToken) {
				api.ResponseErrorWithMsg(c, api.CodeInvalidToken, "token已过期")
			} else {
				api.ResponseError(c, api.CodeInvalidToken)
			}
			c.Abort()
			return
		}
		c.Set(CtxKeyOwnerID, claims.OwnerID)
		c.Next()
	}
}

// OwnerID 读取 Auth 写入的所有者 ID
func OwnerID(c *gin.Context) (int64, bool) {
	v, ok := c.Get(CtxKeyOwnerID)
	if !ok {
		return 0, false
	}
	id, ok := v.(int64)
	return id, ok
}
