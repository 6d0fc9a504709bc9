package dispatcher

import "encoding/json"

// 上游（Piston 兼容）请求体
type executeRequest struct {
	Language string   `json:"language"`
	Version  string   `json:"version"`
	Files    []file   `json:"files"`
	Stdin    string   `json:"stdin"`
	Args     []string `json:"args"`
}

type file struct {
	Name    string `json:"name"`
	Content string `json:"content"`
}

// 上游响应体，字段全部按原始 JSON 保留，缺失或类型不符时取默认值
type executeResponse struct {
	Run     *stageResult `json:"run"`
	Compile *stageResult `json:"compile"`
	Message string       `json:"message"`
}

type stageResult struct {
	Stdout   json.RawMessage `json:"stdout"`
	Stderr   json.RawMessage `json:"stderr"`
	Code     json.RawMessage `json:"code"`
	ExitCode json.RawMessage `json:"exitCode"`
	Memory   json.RawMessage `json:"memory"`
	CPUTime  json.RawMessage `json:"cpu_time"`
}

// 上游错误响应
type errorResponse struct {
	Message string `json:"message"`
}
