package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

/*
{
	"code": 0,     // 业务错误码
	"message": xx, // 提示信息
	"data": {},    // 数据
}

POST /execute 不使用该信封，见 api/execute/v1。
*/

type ResponseData[T any] struct {
	Code    ResCode `json:"code"`
	Message string  `json:"message"`
	Data    T       `json:"data"`
}

// ResponseError 返回错误信息，HTTP 状态码由错误码决定
func ResponseError(c *gin.Context, code ResCode) {
	c.JSON(code.HTTPStatus(), &ResponseData[any]{
		Code:    code,
		Message: code.Msg(),
		Data:    nil,
	})
}

// ResponseErrorWithMsg 返回自定义错误信息
func ResponseErrorWithMsg(c *gin.Context, code ResCode, msg string) {
	c.JSON(code.HTTPStatus(), &ResponseData[any]{
		Code:    code,
		Message: msg,
		Data:    nil,
	})
}

// ResponseSuccess 返回成功信息
func ResponseSuccess[T any](c *gin.Context, data T) {
	ResponseSuccessWithStatus(c, http.StatusOK, data)
}

// ResponseSuccessWithStatus 以指定状态码返回成功信息
func ResponseSuccessWithStatus[T any](c *gin.Context, status int, data T) {
	c.JSON(status, &ResponseData[T]{
		Code:    CodeSuccess,
		Message: CodeSuccess.Msg(),
		Data:    data,
	})
}
