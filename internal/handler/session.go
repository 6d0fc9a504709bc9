package handler

import (
	"github.com/gin-gonic/gin"

	"codepad/api"
	cv1 "codepad/api/codepad/v1"
	"codepad/internal/service"
)

// StartSessionHandler POST /api/v1/session，签发匿名所有者令牌
func StartSessionHandler(svc *service.SessionService) gin.HandlerFunc {
	return func(c *gin.Context) {
		session, err := svc.Start()
		if err != nil {
			responseAppError(c, err)
			return
		}
		api.ResponseSuccess(c, session)
	}
}

// RefreshSessionHandler POST /api/v1/session/refresh
func RefreshSessionHandler(svc *service.SessionService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req cv1.RefreshReq
		if err := c.ShouldBindJSON(&req); err != nil {
			api.ResponseError(c, api.CodeInvalidParam)
			return
		}
		session, err := svc.Refresh(req.RefreshToken)
		if err != nil {
			responseAppError(c, err)
			return
		}
		api.ResponseSuccess(c, session)
	}
}
