package api

import "net/http"

// ResCode 定义返回码类型
type ResCode int64

const (
	CodeSuccess      ResCode = 0
	CodeInvalidParam ResCode = 4000
	CodeInvalidToken ResCode = 4200
	CodeNeedLogin    ResCode = 4100
	CodeNotFound     ResCode = 4040

	CodeUnknownLanguage   ResCode = 4300
	CodeInvalidShareToken ResCode = 4310
	CodeInvalidRating     ResCode = 4320
	CodeRateLimited       ResCode = 4290

	CodeServerBusy    ResCode = 5000
	CodeInternalError ResCode = 5001
	CodeUpstream      ResCode = 5020
	CodeNotReady      ResCode = 5030
)

var codeMsgMap = map[ResCode]string{
	CodeSuccess:      "success",
	CodeInvalidParam: "请求参数错误",
	CodeInvalidToken: "无效的token",
	CodeNeedLogin:    "需要登录",
	CodeNotFound:     "资源不存在",

	CodeUnknownLanguage:   "不支持的语言",
	CodeInvalidShareToken: "无效的分享链接",
	CodeInvalidRating:     "评分应在1-5之间",
	CodeRateLimited:       "请求过于频繁",

	CodeServerBusy:    "服务繁忙",
	CodeInternalError: "服务内部错误",
	CodeUpstream:      "执行服务不可用",
	CodeNotReady:      "服务未就绪",
}

var codeStatusMap = map[ResCode]int{
	CodeSuccess:           http.StatusOK,
	CodeInvalidParam:      http.StatusBadRequest,
	CodeInvalidToken:      http.StatusUnauthorized,
	CodeNeedLogin:         http.StatusUnauthorized,
	CodeNotFound:          http.StatusNotFound,
	CodeUnknownLanguage:   http.StatusBadRequest,
	CodeInvalidShareToken: http.StatusBadRequest,
	CodeInvalidRating:     http.StatusBadRequest,
	CodeRateLimited:       http.StatusTooManyRequests,
	CodeUpstream:          http.StatusBadGateway,
	CodeNotReady:          http.StatusServiceUnavailable,
}

func (c ResCode) Msg() string {
	msg, ok := codeMsgMap[c]
	if !ok {
		msg = codeMsgMap[CodeServerBusy]
	}
	return msg
}

// HTTPStatus 错误码对应的 HTTP 状态码，未登记的按 500 处理
func (c ResCode) HTTPStatus() int {
	if status, ok := codeStatusMap[c]; ok {
		return status
	}
	return http.StatusInternalServerError
}
