package service

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// 执行结果分类，同时作为 Prometheus outcome 标签
const (
	OutcomeSuccess         = "success"
	OutcomeRateLimited     = "rate_limited"
	OutcomeUnknownLanguage = "unknown_language"
	OutcomeUpstreamError   = "upstream_error"
	OutcomeInternalError   = "internal_error"
)

// GatewayMetrics 网关统计指标
type GatewayMetrics struct {
	// 计数器
	TotalRequests   int64 // 进入网关的请求数
	SuccessRequests int64 // 上游成功返回
	RateLimited     int64 // 被限流
	UnknownLanguage int64 // 语言无法解析
	UpstreamErrors  int64 // 上游失败
	UpstreamTimeout int64 // 其中超时
	InternalErrors  int64 // 限流后端等内部错误
	NonZeroExit     int64 // 用户程序非零退出（仍属成功）

	// 上游耗时（毫秒）
	TotalDispatchTime int64
	MaxDispatchTime   int64
	MinDispatchTime   int64

	// 并发
	CurrentActive int32 // 正在等待上游的请求
	MaxConcurrent int32 // 历史最大并发

	// 时间戳
	StartTime time.Time

	mu         sync.RWMutex
	byLanguage map[string]int64

	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
	inFlight prometheus.Gauge
}

var globalMetrics = NewGatewayMetrics()

// GetGlobalMetrics 获取全局统计实例
func GetGlobalMetrics() *GatewayMetrics {
	return globalMetrics
}

// NewGatewayMetrics 创建统计实例
func NewGatewayMetrics() *GatewayMetrics {
	return &GatewayMetrics{
		StartTime:       time.Now(),
		MinDispatchTime: int64(^uint64(0) >> 1), // 初始化为最大值
		byLanguage:      make(map[string]int64),
	}
}

// Register 注册 Prometheus 指标，未注册时只维护内部计数
func (m *GatewayMetrics) Register(reg prometheus.Registerer) error {
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "codepad",
		Name:      "execute_requests_total",
		Help:      "Execution requests handled by the gateway, by language and outcome.",
	}, []string{"language", "outcome"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "codepad",
		Name:      "upstream_duration_seconds",
		Help:      "Latency of upstream sandbox calls.",
		Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 15, 30},
	}, []string{"language"})
	inFlight := prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "codepad",
		Name:      "upstream_in_flight",
		Help:      "Upstream sandbox calls currently in flight.",
	})
	for _, c := range []prometheus.Collector{requests, duration, inFlight} {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	m.mu.Lock()
	m.requests, m.duration, m.inFlight = requests, duration, inFlight
	m.mu.Unlock()
	return nil
}

// RecordRequest 记录进入网关的请求
func (m *GatewayMetrics) RecordRequest() {
	atomic.AddInt64(&m.TotalRequests, 1)
}

// RecordOutcome 记录一次请求的最终结果，language 为空表示未解析到语言
func (m *GatewayMetrics) RecordOutcome(language, outcome string) {
	switch outcome {
	case OutcomeSuccess:
		atomic.AddInt64(&m.SuccessRequests, 1)
	case OutcomeRateLimited:
		atomic.AddInt64(&m.RateLimited, 1)
	case OutcomeUnknownLanguage:
		atomic.AddInt64(&m.UnknownLanguage, 1)
	case OutcomeUpstreamError:
		atomic.AddInt64(&m.UpstreamErrors, 1)
	case OutcomeInternalError:
		atomic.AddInt64(&m.InternalErrors, 1)
	}

	m.mu.Lock()
	if language != "" {
		m.byLanguage[language]++
	}
	requests := m.requests
	m.mu.Unlock()

	if requests != nil {
		if language == "" {
			language = "unresolved"
		}
		requests.WithLabelValues(language, outcome).Inc()
	}
}

// RecordTimeout 记录上游超时
func (m *GatewayMetrics) RecordTimeout() {
	atomic.AddInt64(&m.UpstreamTimeout, 1)
}

// RecordExitCode 记录用户程序退出码
func (m *GatewayMetrics) RecordExitCode(code int) {
	if code != 0 {
		atomic.AddInt64(&m.NonZeroExit, 1)
	}
}

// RecordDispatch 记录一次上游调用耗时
func (m *GatewayMetrics) RecordDispatch(language string, d time.Duration) {
	ms := d.Milliseconds()
	atomic.AddInt64(&m.TotalDispatchTime, ms)

	// 更新最大时间
	for {
		oldMax := atomic.LoadInt64(&m.MaxDispatchTime)
		if ms <= oldMax {
			break
		}
		if atomic.CompareAndSwapInt64(&m.MaxDispatchTime, oldMax, ms) {
			break
		}
	}

	// 更新最小时间
	for {
		oldMin := atomic.LoadInt64(&m.MinDispatchTime)
		if ms >= oldMin {
			break
		}
		if atomic.CompareAndSwapInt64(&m.MinDispatchTime, oldMin, ms) {
			break
		}
	}

	m.mu.RLock()
	duration := m.duration
	m.mu.RUnlock()
	if duration != nil {
		duration.WithLabelValues(language).Observe(d.Seconds())
	}
}

// RecordActiveIncrease 记录上游调用开始
func (m *GatewayMetrics) RecordActiveIncrease() int32 {
	current := atomic.AddInt32(&m.CurrentActive, 1)

	// 更新最大并发数
	for {
		oldMax := atomic.LoadInt32(&m.MaxConcurrent)
		if current <= oldMax {
			break
		}
		if atomic.CompareAndSwapInt32(&m.MaxConcurrent, oldMax, current) {
			break
		}
	}

	m.mu.RLock()
	inFlight := m.inFlight
	m.mu.RUnlock()
	if inFlight != nil {
		inFlight.Inc()
	}
	return current
}

// RecordActiveDecrease 记录上游调用结束
func (m *GatewayMetrics) RecordActiveDecrease() {
	atomic.AddInt32(&m.CurrentActive, -1)

	m.mu.RLock()
	inFlight := m.inFlight
	m.mu.RUnlock()
	if inFlight != nil {
		inFlight.Dec()
	}
}

// GetSnapshot 获取统计快照
func (m *GatewayMetrics) GetSnapshot() map[string]interface{} {
	success := atomic.LoadInt64(&m.SuccessRequests)
	upstreamErrors := atomic.LoadInt64(&m.UpstreamErrors)
	totalDispatch := atomic.LoadInt64(&m.TotalDispatchTime)

	var avgDispatch int64
	if dispatched := success + upstreamErrors; dispatched > 0 {
		avgDispatch = totalDispatch / dispatched
	}
	minDispatch := atomic.LoadInt64(&m.MinDispatchTime)
	if minDispatch == int64(^uint64(0)>>1) {
		minDispatch = 0
	}

	m.mu.RLock()
	byLanguage := make(map[string]int64, len(m.byLanguage))
	for k, v := range m.byLanguage {
		byLanguage[k] = v
	}
	startTime := m.StartTime
	m.mu.RUnlock()

	return map[string]interface{}{
		// 基础统计
		"total_requests":   atomic.LoadInt64(&m.TotalRequests),
		"success_requests": success,
		"rate_limited":     atomic.LoadInt64(&m.RateLimited),
		"unknown_language": atomic.LoadInt64(&m.UnknownLanguage),
		"upstream_errors":  upstreamErrors,
		"upstream_timeout": atomic.LoadInt64(&m.UpstreamTimeout),
		"internal_errors":  atomic.LoadInt64(&m.InternalErrors),
		"non_zero_exit":    atomic.LoadInt64(&m.NonZeroExit),
		"by_language":      byLanguage,

		// 性能指标
		"avg_dispatch_time_ms": avgDispatch,
		"max_dispatch_time_ms": atomic.LoadInt64(&m.MaxDispatchTime),
		"min_dispatch_time_ms": minDispatch,

		// 并发统计
		"current_active": atomic.LoadInt32(&m.CurrentActive),
		"max_concurrent": atomic.LoadInt32(&m.MaxConcurrent),

		// 运行时间
		"uptime_seconds": time.Since(startTime).Seconds(),
		"start_time":     startTime.Format(time.RFC3339),
	}
}

// Reset 重置统计（谨慎使用）
func (m *GatewayMetrics) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	atomic.StoreInt64(&m.TotalRequests, 0)
	atomic.StoreInt64(&m.SuccessRequests, 0)
	atomic.StoreInt64(&m.RateLimited, 0)
	atomic.StoreInt64(&m.UnknownLanguage, 0)
	atomic.StoreInt64(&m.UpstreamErrors, 0)
	atomic.StoreInt64(&m.UpstreamTimeout, 0)
	atomic.StoreInt64(&m.InternalErrors, 0)
	atomic.StoreInt64(&m.NonZeroExit, 0)
	atomic.StoreInt64(&m.TotalDispatchTime, 0)
	atomic.StoreInt64(&m.MaxDispatchTime, 0)
	atomic.StoreInt64(&m.MinDispatchTime, int64(^uint64(0)>>1))
	atomic.StoreInt32(&m.MaxConcurrent, 0)
	m.byLanguage = make(map[string]int64)
	m.StartTime = time.Now()
}
