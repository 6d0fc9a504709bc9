package handler

import (
	"errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"codepad/api"
	apperrors "codepad/pkg/errors"
)

// responseAppError 把业务错误映射为响应码
func responseAppError(c *gin.Context, err error) {
	var (
		code api.ResCode
		msg  string
	)
	switch apperrors.GetErrorCode(err) {
	case apperrors.ErrCodeInvalidParam, apperrors.ErrCodeMissingParam:
		code = api.CodeInvalidParam
		msg = appMessage(err)
	case apperrors.ErrCodeInvalidRating:
		code = api.CodeInvalidRating
	case apperrors.ErrCodeInvalidShareToken:
		code = api.CodeInvalidShareToken
	case apperrors.ErrCodeNotFound:
		code = api.CodeNotFound
	case apperrors.ErrCodeUnauthorized:
		code = api.CodeInvalidToken
	default:
		zap.L().Error("request failed", zap.String("route", c.FullPath()), zap.Error(err))
		code = api.CodeInternalError
	}
	if msg == "" {
		api.ResponseError(c, code)
		return
	}
	api.ResponseErrorWithMsg(c, code, msg)
}

func appMessage(err error) string {
	var ae *apperrors.AppError
	if errors.As(err, &ae) {
		return ae.Message
	}
	return ""
}
