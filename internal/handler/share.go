package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"codepad/api"
	cv1 "codepad/api/codepad/v1"
	"codepad/internal/constants"
	"codepad/pkg/sharecode"
)

// ShareHandler POST /api/v1/share
func ShareHandler(baseURL string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req cv1.ShareReq
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, constants.MaxRequestBodySize)
		if err := c.ShouldBindJSON(&req); err != nil {
			api.ResponseError(c, api.CodeInvalidParam)
			return
		}
		token, err := sharecode.Encode(req.Code, req.Language)
		if err != nil {
			api.ResponseError(c, api.CodeInternalError)
			return
		}
		api.ResponseSuccess(c, cv1.ShareResp{Token: token, URL: sharecode.URL(baseURL, token)})
	}
}

// SharedCodeHandler GET /api/v1/share/:token
func SharedCodeHandler(c *gin.Context) {
	payload, err := sharecode.Decode(c.Param("token"))
	if err != nil {
		api.ResponseError(c, api.CodeInvalidShareToken)
		return
	}
	api.ResponseSuccess(c, cv1.SharedCodeResp{Code: payload.Code, Language: payload.Language})
}
