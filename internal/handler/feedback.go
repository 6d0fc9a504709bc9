package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"codepad/api"
	cv1 "codepad/api/codepad/v1"
	"codepad/internal/service"
	apperrors "codepad/pkg/errors"
)

// CreateFeedbackHandler POST /api/v1/feedback
func CreateFeedbackHandler(svc *service.FeedbackService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req cv1.FeedbackReq
		if err := c.ShouldBindJSON(&req); err != nil {
			api.ResponseError(c, api.CodeInvalidParam)
			return
		}
		fb, err := svc.Create(c.Request.Context(), req.Rating, req.Text)
		if err != nil {
			responseAppError(c, err)
			return
		}
		api.ResponseSuccessWithStatus(c, http.StatusCreated, fb)
	}
}

// FeedbackStatsHandler GET /api/v1/feedback/count
func FeedbackStatsHandler(svc *service.FeedbackService) gin.HandlerFunc {
	return func(c *gin.Context) {
		stats, err := svc.Stats(c.Request.Context())
		if err != nil {
			responseAppError(c, err)
			return
		}
		api.ResponseSuccess(c, stats)
	}
}

// LegacyFeedbackHandler POST /api/feedback，旧版客户端协议
func LegacyFeedbackHandler(svc *service.FeedbackService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req cv1.FeedbackReq
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Rating and text are required."})
			return
		}
		if _, err := svc.Create(c.Request.Context(), req.Rating, req.Text); err != nil {
			switch apperrors.GetErrorCode(err) {
			case apperrors.ErrCodeInvalidRating, apperrors.ErrCodeInvalidParam:
				c.JSON(http.StatusBadRequest, gin.H{"error": "Rating and text are required."})
			default:
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save feedback."})
			}
			return
		}
		c.JSON(http.StatusCreated, gin.H{"message": "Feedback saved successfully."})
	}
}
