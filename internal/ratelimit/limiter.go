// Package ratelimit 按客户端地址的固定窗口限流。
package ratelimit

import (
	"context"
	"fmt"
	"math"
	"time"
)

// Config 限流配置
type Config struct {
	Window      time.Duration // 窗口长度
	MaxRequests int64         // 每个窗口允许的请求数
}

// Decision 一次准入判定的结果
type Decision struct {
	Allowed    bool
	Count      int64         // 本窗口内含本次在内的请求数
	Limit      int64         // 窗口上限
	RetryAfter time.Duration // 距窗口结束的时间
}

// Limiter 准入接口。同一 key 的计数递增与比较必须是原子的。
type Limiter interface {
	Admit(ctx context.Context, clientKey string) (Decision, error)
}

// RateLimitedError 请求被限流
type RateLimitedError struct {
	RetryAfter time.Duration
}

func (e *RateLimitedError) Error() string {
	return fmt.Sprintf("rate limited, retry after %s", e.RetryAfter)
}

// RetryAfterSeconds 向上取整的秒数，至少为 1
func (e *RateLimitedError) RetryAfterSeconds() int64 {
	return RetryAfterSeconds(e.RetryAfter)
}

// RetryAfterSeconds 把剩余时间换算成 Retry-After 头的秒数
func RetryAfterSeconds(d time.Duration) int64 {
	s := int64(math.Ceil(d.Seconds()))
	if s < 1 {
		return 1
	}
	return s
}
