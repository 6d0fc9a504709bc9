package constants

import "time"

// 限流相关常量
const (
	DefaultRateLimitWindow = 10 * time.Minute // 默认限流窗口
	DefaultRateLimitMax    = 100              // 每个窗口内最大请求数
	DefaultSweepInterval   = time.Minute      // 过期窗口清理频率
	DefaultRateLimitPrefix = "codepad:ratelimit:"

	RateLimitBackendMemory = "memory"
	RateLimitBackendRedis  = "redis"
)

// 上游沙箱相关常量
const (
	DefaultUpstreamBaseURL   = "https://emkc.org/api/v2/piston"
	DefaultUpstreamTimeout   = 15 * time.Second
	MaxUpstreamTimeout       = 300 * time.Second
	DefaultMaxResponseBytes  = 4 * 1024 * 1024 // 上游响应最大读取量（4MB）
	DefaultRuntimesCacheTTL  = 10 * time.Minute
	UpstreamExecutePath      = "/execute"
	UpstreamRuntimesPath     = "/runtimes"
	UpstreamFallbackErrorMsg = "Internal server error"
)

// 请求相关常量
const (
	MaxRequestBodySize = 1 * 1024 * 1024 // 单次提交最大请求体（1MB）
	EntryFileBaseName  = "main"
)

// 代码片段相关常量
const (
	DefaultSnippetInlineLimit = 64 * 1024 // 超过该大小的代码写入对象存储
	DefaultSnippetListLimit   = 200
	SnippetBlobPrefix         = "snippets/"
	MaxSnippetTitleLength     = 255
)

// 反馈相关常量
const (
	MinFeedbackRating = 1
	MaxFeedbackRating = 5
	MaxFeedbackLength = 4000
)

// 数据库驱动
const (
	DBDriverMySQL    = "mysql"
	DBDriverPostgres = "postgres"
	DBDriverSQLite   = "sqlite"
)

// 日志相关常量
const (
	// 日志级别
	LogLevelDebug = "debug"
	LogLevelInfo  = "info"
	LogLevelWarn  = "warn"
	LogLevelError = "error"

	// 日志文件
	DefaultLogFile    = "log/server.log"
	DefaultLogMaxSize = 200 // MB
	DefaultLogMaxAge  = 30  // days
	DefaultLogBackups = 7
)

// HTTP 相关常量
const (
	// 默认端口
	DefaultServerPort = 3001

	// 超时配置
	DefaultReadTimeout     = 30 * time.Second
	DefaultWriteTimeout    = 330 * time.Second // 需覆盖上游最大超时
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 20 * time.Second

	HeaderRequestID = "X-Request-ID"
)
