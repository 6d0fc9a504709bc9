// Package dispatcher 把一次执行请求转发给远端沙箱，并把各种成功/失败形态归一化。
package dispatcher

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"codepad/internal/constants"
	"codepad/internal/model"
)

// UpstreamError 上游基础设施失败（传输错误或非 2xx），不包括用户程序自身的非零退出
type UpstreamError struct {
	Message    string
	StatusCode int // 传输失败时为 0
	Timeout    bool
	Err        error
}

func (e *UpstreamError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("upstream status %d: %s", e.StatusCode, e.Message)
	}
	return "upstream: " + e.Message
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// Config 上游配置
type Config struct {
	BaseURL          string
	Timeout          time.Duration
	MaxResponseBytes int64
}

// EntryNamer 提供入口文件名
type EntryNamer interface {
	EntryFileName(language string) string
}

// Dispatcher 上游执行客户端，无内部重试
type Dispatcher struct {
	cfg         Config
	client      *http.Client
	namer       EntryNamer
	executeURL  string
	runtimesURL string
}

// New 创建 Dispatcher
func New(cfg Config, namer EntryNamer) *Dispatcher {
	if cfg.Timeout <= 0 {
		cfg.Timeout = constants.DefaultUpstreamTimeout
	}
	if cfg.MaxResponseBytes <= 0 {
		cfg.MaxResponseBytes = constants.DefaultMaxResponseBytes
	}
	base := strings.TrimRight(cfg.BaseURL, "/")
	return &Dispatcher{
		cfg:         cfg,
		client:      &http.Client{},
		namer:       namer,
		executeURL:  base + constants.UpstreamExecutePath,
		runtimesURL: base + constants.UpstreamRuntimesPath,
	}
}

// Execute 发起一次上游调用。ctx 取消或超时都会中止请求并返回 UpstreamError。
func (d *Dispatcher) Execute(ctx context.Context, language, version, sourceCode string) (*model.ExecutionResult, error) {
	body, err := json.Marshal(executeRequest{
		Language: language,
		Version:  version,
		Files:    []file{{Name: d.namer.EntryFileName(language), Content: sourceCode}},
		Stdin:    "",
		Args:     []string{},
	})
	if err != nil {
		return nil, &UpstreamError{Message: upstreamMessage("", err.Error()), Err: err}
	}

	raw, status, err := d.do(ctx, http.MethodPost, d.executeURL, body)
	if err != nil {
		return nil, err
	}
	if status < 200 || status > 299 {
		return nil, statusError(status, raw)
	}

	var resp executeResponse
	if len(bytes.TrimSpace(raw)) > 0 {
		if err := json.Unmarshal(raw, &resp); err != nil {
			return nil, &UpstreamError{Message: upstreamMessage("", "decode upstream response: "+err.Error()), Err: err}
		}
	}
	return normalize(resp), nil
}

// Runtimes 查询上游已安装的运行时
func (d *Dispatcher) Runtimes(ctx context.Context) ([]model.Runtime, error) {
	raw, status, err := d.do(ctx, http.MethodGet, d.runtimesURL, nil)
	if err != nil {
		return nil, err
	}
	if status < 200 || status > 299 {
		return nil, statusError(status, raw)
	}
	var runtimes []model.Runtime
	if err := json.Unmarshal(raw, &runtimes); err != nil {
		return nil, &UpstreamError{Message: "decode upstream runtimes: " + err.Error(), Err: err}
	}
	return runtimes, nil
}

func (d *Dispatcher) do(ctx context.Context, method, target string, body []byte) ([]byte, int, error) {
	ctx, cancel := context.WithTimeout(ctx, d.cfg.Timeout)
	defer cancel()

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, 0, &UpstreamError{Message: upstreamMessage("", err.Error()), Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := d.client.Do(req)
	if err != nil {
		return nil, 0, transportError(err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, d.cfg.MaxResponseBytes+1))
	if err != nil {
		return nil, 0, transportError(err)
	}
	if int64(len(raw)) > d.cfg.MaxResponseBytes {
		return nil, 0, &UpstreamError{Message: fmt.Sprintf("upstream response exceeds %d bytes", d.cfg.MaxResponseBytes)}
	}
	return raw, resp.StatusCode, nil
}

// upstreamMessage 优先级：上游报告的消息 > 传输错误 > 固定兜底文案
func upstreamMessage(reported, transport string) string {
	if reported = strings.TrimSpace(reported); reported != "" {
		return reported
	}
	if transport = strings.TrimSpace(transport); transport != "" {
		return transport
	}
	return constants.UpstreamFallbackErrorMsg
}

func statusError(status int, raw []byte) *UpstreamError {
	var er errorResponse
	_ = json.Unmarshal(raw, &er)
	return &UpstreamError{
		Message:    upstreamMessage(er.Message, fmt.Sprintf("request failed with status code %d", status)),
		StatusCode: status,
	}
}

func transportError(err error) *UpstreamError {
	ue := &UpstreamError{Err: err}
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		ue.Timeout = true
		ue.Message = "upstream request timed out"
	case errors.Is(err, context.Canceled):
		ue.Message = "request canceled"
	default:
		// 去掉 url.Error 里的上游地址
		var urlErr *url.Error
		msg := err.Error()
		if errors.As(err, &urlErr) && urlErr.Err != nil {
			msg = urlErr.Err.Error()
		}
		ue.Message = upstreamMessage("", msg)
	}
	return ue
}

// normalize 缺失字段取默认值；run 缺失而编译阶段失败时返回编译输出
func normalize(resp executeResponse) *model.ExecutionResult {
	stage := resp.Run
	if stage == nil && resp.Compile != nil && intOf(resp.Compile.Code, resp.Compile.ExitCode) != 0 {
		stage = resp.Compile
	}
	if stage == nil {
		stage = &stageResult{}
	}
	return &model.ExecutionResult{
		Stdout:     textOf(stage.Stdout, ""),
		Stderr:     textOf(stage.Stderr, ""),
		ExitCode:   intOf(stage.Code, stage.ExitCode),
		MemoryUsed: textOf(stage.Memory, "0"),
		CPUTime:    textOf(stage.CPUTime, "0"),
	}
}

// textOf 字符串取其值，数字等取原文，null 或缺失取默认值
func textOf(raw json.RawMessage, def string) string {
	s := strings.TrimSpace(string(raw))
	if s == "" || s == "null" {
		return def
	}
	if s[0] == '"' {
		var out string
		if err := json.Unmarshal(raw, &out); err == nil {
			return out
		}
		return def
	}
	return s
}

// intOf 依次尝试各候选字段，均不可用时为 0
func intOf(candidates ...json.RawMessage) int {
	for _, raw := range candidates {
		s := strings.Trim(strings.TrimSpace(string(raw)), `"`)
		if s == "" || s == "null" {
			continue
		}
		if n, err := strconv.Atoi(s); err == nil {
			return n
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return int(f)
		}
	}
	return 0
}
