package handler

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"codepad/api"
	"codepad/internal/cache"
	"codepad/internal/language"
)

// LanguagesHandler 内置语言表
func LanguagesHandler(reg *language.Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		api.ResponseSuccess(c, reg.List())
	}
}

// RuntimesHandler 上游已安装的运行时
func RuntimesHandler(rc *cache.RuntimeCache) gin.HandlerFunc {
	return func(c *gin.Context) {
		runtimes, err := rc.Get(c.Request.Context())
		if err != nil {
			zap.L().Warn("fetch runtimes failed", zap.Error(err))
			api.ResponseError(c, api.CodeUpstream)
			return
		}
		api.ResponseSuccess(c, runtimes)
	}
}
