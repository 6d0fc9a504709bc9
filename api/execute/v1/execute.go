package v1

// ExecuteReq POST /execute 请求体
type ExecuteReq struct {
	SourceCode       string  `json:"sourceCode"`
	LanguageToken    string  `json:"languageToken"`
	RequestedVersion *string `json:"requestedVersion"`
}

// ExecuteResp 成功响应
type ExecuteResp struct {
	Stdout     string `json:"stdout"`
	Stderr     string `json:"stderr"`
	ExitCode   int    `json:"exitCode"`
	MemoryUsed string `json:"memoryUsed"`
	CPUTime    string `json:"cpuTime"`
}

// 错误类别
const (
	KindInvalidRequest  = "InvalidRequest"
	KindRateLimited     = "RateLimited"
	KindUnknownLanguage = "UnknownLanguage"
	KindUpstream        = "Upstream"
	KindInternal        = "Internal"
)

// ErrorResp 失败响应。Error 对前三类是类别名，对上游失败是上游消息
type ErrorResp struct {
	Error      string  `json:"error"`
	Kind       string  `json:"kind"`
	Message    string  `json:"message,omitempty"`
	Token      *string `json:"token,omitempty"` // UnknownLanguage 时总是输出，缺失的 token 为空串
	RetryAfter int64   `json:"retryAfter,omitempty"` // 秒
}

// CompileReq 旧版 /api/compile 请求体
type CompileReq struct {
	Code         string `json:"code"`
	Language     string `json:"language"`
	Version      string `json:"version"`
	VersionIndex string `json:"versionIndex"` // version 为空时作为版本
}

// CompileResp 旧版 /api/compile 响应
type CompileResp struct {
	Output   string `json:"output"`
	Error    string `json:"error"`
	ExitCode int    `json:"exitCode"`
	Memory   string `json:"memory"`
	CPUTime  string `json:"cpuTime"`
}

// CompileErrorResp 旧版失败响应
type CompileErrorResp struct {
	Error string `json:"error"`
}
