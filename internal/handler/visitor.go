package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"codepad/api"
	cv1 "codepad/api/codepad/v1"
	"codepad/internal/service"
)

// TrackVisitorHandler POST /api/v1/visitors，新访客返回 201
func TrackVisitorHandler(svc *service.VisitorService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req cv1.VisitorReq
		if err := c.ShouldBindJSON(&req); err != nil {
			api.ResponseError(c, api.CodeInvalidParam)
			return
		}
		created, total, err := svc.Track(c.Request.Context(), req.VisitorID)
		if err != nil {
			responseAppError(c, err)
			return
		}
		status := http.StatusOK
		if created {
			status = http.StatusCreated
		}
		api.ResponseSuccessWithStatus(c, status, cv1.VisitorResp{Counted: created, Total: total})
	}
}

// VisitorCountHandler GET /api/v1/visitors/count
func VisitorCountHandler(svc *service.VisitorService) gin.HandlerFunc {
	return func(c *gin.Context) {
		n, err := svc.Count(c.Request.Context())
		if err != nil {
			responseAppError(c, err)
			return
		}
		api.ResponseSuccess(c, cv1.CountResp{Count: n})
	}
}

// LegacyTrackVisitHandler POST /api/track-visit，旧版客户端协议
func LegacyTrackVisitHandler(svc *service.VisitorService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req cv1.VisitorReq
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Missing visitorId"})
			return
		}
		created, total, err := svc.Track(c.Request.Context(), req.VisitorID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to track visit."})
			return
		}
		if !created {
			c.JSON(http.StatusOK, gin.H{"message": "Visitor already counted."})
			return
		}
		c.JSON(http.StatusCreated, gin.H{"message": "New visitor counted.", "totalVisitors": total})
	}
}
