package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"codepad/api"
	cv1 "codepad/api/codepad/v1"
	"codepad/internal/middleware"
	"codepad/internal/service"
)

// SaveSnippetHandler POST /api/v1/snippets
func SaveSnippetHandler(svc *service.SnippetService) gin.HandlerFunc {
	return func(c *gin.Context) {
		ownerID, ok := middleware.OwnerID(c)
		if !ok {
			api.ResponseError(c, api.CodeNeedLogin)
			return
		}
		var req cv1.SaveSnippetReq
		if err := c.ShouldBindJSON(&req); err != nil {
			api.ResponseError(c, api.CodeInvalidParam)
			return
		}
		snippet, err := svc.Save(c.Request.Context(), ownerID, req.Code, req.Language, req.Title)
		if err != nil {
			responseAppError(c, err)
			return
		}
		api.ResponseSuccessWithStatus(c, http.StatusCreated, snippet)
	}
}

// ListSnippetsHandler GET /api/v1/snippets
func ListSnippetsHandler(svc *service.SnippetService) gin.HandlerFunc {
	return func(c *gin.Context) {
		ownerID, ok := middleware.OwnerID(c)
		if !ok {
			api.ResponseError(c, api.CodeNeedLogin)
			return
		}
		snippets, err := svc.List(c.Request.Context(), ownerID)
		if err != nil {
			responseAppError(c, err)
			return
		}
		api.ResponseSuccess(c, cv1.SnippetListResp{Snippets: snippets})
	}
}

// DeleteSnippetHandler DELETE /api/v1/snippets/:id
func DeleteSnippetHandler(svc *service.SnippetService) gin.HandlerFunc {
	return func(c *gin.Context) {
		ownerID, ok := middleware.OwnerID(c)
		if !ok {
			api.ResponseError(c, api.CodeNeedLogin)
			return
		}
		id, err := strconv.ParseInt(c.Param("id"), 10, 64)
		if err != nil {
			api.ResponseError(c, api.CodeInvalidParam)
			return
		}
		if err := svc.Delete(c.Request.Context(), ownerID, id); err != nil {
			responseAppError(c, err)
			return
		}
		api.ResponseSuccess[any](c, nil)
	}
}
