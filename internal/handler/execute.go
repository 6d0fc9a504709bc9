package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	v1 "codepad/api/execute/v1"
	"codepad/internal/constants"
	"codepad/internal/dispatcher"
	"codepad/internal/language"
	"codepad/internal/model"
	"codepad/internal/ratelimit"
	"codepad/internal/service"
)

// ExecuteHandler POST /execute
func ExecuteHandler(gw *service.Gateway) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req v1.ExecuteReq
		if err := decodeBody(c, &req); err != nil {
			c.JSON(http.StatusBadRequest, v1.ErrorResp{
				Error:   v1.KindInvalidRequest,
				Kind:    v1.KindInvalidRequest,
				Message: "request body must be a JSON object",
			})
			return
		}
		execReq := &model.ExecutionRequest{
			SourceCode:    req.SourceCode,
			LanguageToken: req.LanguageToken,
		}
		if req.RequestedVersion != nil {
			execReq.RequestedVersion = *req.RequestedVersion
		}

		result, err := gw.Execute(c.Request.Context(), c.ClientIP(), execReq)
		if err != nil {
			writeExecuteError(c, err)
			return
		}
		c.JSON(http.StatusOK, v1.ExecuteResp{
			Stdout:     result.Stdout,
			Stderr:     result.Stderr,
			ExitCode:   result.ExitCode,
			MemoryUsed: result.MemoryUsed,
			CPUTime:    result.CPUTime,
		})
	}
}

func writeExecuteError(c *gin.Context, err error) {
	var (
		rle *ratelimit.RateLimitedError
		ule *language.UnknownLanguageError
		ue  *dispatcher.UpstreamError
	)
	switch {
	case errors.As(err, &rle):
		seconds := rle.RetryAfterSeconds()
		c.Header("Retry-After", strconv.FormatInt(seconds, 10))
		c.JSON(http.StatusTooManyRequests, v1.ErrorResp{
			Error:      v1.KindRateLimited,
			Kind:       v1.KindRateLimited,
			Message:    "too many requests, try again later",
			RetryAfter: seconds,
		})
	case errors.As(err, &ule):
		c.JSON(http.StatusBadRequest, v1.ErrorResp{
			Error:   v1.KindUnknownLanguage,
			Kind:    v1.KindUnknownLanguage,
			Message: ule.Error(),
			Token:   &ule.Token,
		})
	case errors.As(err, &ue):
		c.JSON(http.StatusBadGateway, v1.ErrorResp{
			Error: ue.Message,
			Kind:  v1.KindUpstream,
		})
	default:
		zap.L().Error("execute failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, v1.ErrorResp{
			Error: constants.UpstreamFallbackErrorMsg,
			Kind:  v1.KindInternal,
		})
	}
}

// CompileHandler POST /api/compile，旧版客户端协议
func CompileHandler(gw *service.Gateway) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req v1.CompileReq
		if err := decodeBody(c, &req); err != nil {
			c.JSON(http.StatusBadRequest, v1.CompileErrorResp{Error: "invalid request body"})
			return
		}
		version := req.Version
		if version == "" {
			version = req.VersionIndex
		}

		result, err := gw.Execute(c.Request.Context(), c.ClientIP(), &model.ExecutionRequest{
			SourceCode:       req.Code,
			LanguageToken:    req.Language,
			RequestedVersion: version,
		})
		if err != nil {
			var (
				rle *ratelimit.RateLimitedError
				ule *language.UnknownLanguageError
				ue  *dispatcher.UpstreamError
			)
			switch {
			case errors.As(err, &rle):
				c.Header("Retry-After", strconv.FormatInt(rle.RetryAfterSeconds(), 10))
				c.JSON(http.StatusTooManyRequests, v1.CompileErrorResp{
					Error: "Too many requests from this IP, please try again later.",
				})
			case errors.As(err, &ule):
				c.JSON(http.StatusBadRequest, v1.CompileErrorResp{Error: ule.Error()})
			case errors.As(err, &ue):
				c.JSON(http.StatusInternalServerError, v1.CompileErrorResp{Error: ue.Message})
			default:
				c.JSON(http.StatusInternalServerError, v1.CompileErrorResp{Error: constants.UpstreamFallbackErrorMsg})
			}
			return
		}
		c.JSON(http.StatusOK, v1.CompileResp{
			Output:   result.Stdout,
			Error:    result.Stderr,
			ExitCode: result.ExitCode,
			Memory:   result.MemoryUsed,
			CPUTime:  result.CPUTime,
		})
	}
}

// decodeBody 读取受大小限制的 JSON 对象
func decodeBody(c *gin.Context, dst interface{}) error {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, constants.MaxRequestBodySize)
	dec := json.NewDecoder(c.Request.Body)
	if err := dec.Decode(dst); err != nil {
		return err
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return errors.New("unexpected data after JSON object")
	}
	return nil
}
