package conf

import (
	"time"

	"github.com/spf13/viper"
)

// UpstreamConfig 上游沙箱配置
type UpstreamConfig struct {
	BaseURL          string        // 上游地址，不含 /execute
	Timeout          time.Duration // 单次调用超时
	MaxResponseBytes int64         // 响应体最大读取量
	RuntimesCacheTTL time.Duration // 运行时列表缓存时间
}

// RateLimitConfig 限流配置
type RateLimitConfig struct {
	Backend       string // memory / redis
	Window        time.Duration
	MaxRequests   int64
	Prefix        string        // redis key 前缀
	SweepInterval time.Duration // 内存实现的过期清理频率
}

// SnippetConfig 代码片段存储配置
type SnippetConfig struct {
	InlineLimit int  // 超过该字节数写入对象存储
	ListLimit   int  // 单次列出上限
	BlobEnabled bool // 是否启用 MinIO
}

// LoadUpstreamConfig 从配置文件加载上游配置
func LoadUpstreamConfig(cfg *viper.Viper) *UpstreamConfig {
	return &UpstreamConfig{
		BaseURL:          cfg.GetString("upstream.base_url"),
		Timeout:          cfg.GetDuration("upstream.timeout"),
		MaxResponseBytes: cfg.GetInt64("upstream.max_response_bytes"),
		RuntimesCacheTTL: cfg.GetDuration("upstream.runtimes_cache_ttl"),
	}
}

// LoadRateLimitConfig 从配置文件加载限流配置
func LoadRateLimitConfig(cfg *viper.Viper) *RateLimitConfig {
	return &RateLimitConfig{
		Backend:       cfg.GetString("ratelimit.backend"),
		Window:        cfg.GetDuration("ratelimit.window"),
		MaxRequests:   cfg.GetInt64("ratelimit.max_requests"),
		Prefix:        cfg.GetString("ratelimit.prefix"),
		SweepInterval: cfg.GetDuration("ratelimit.sweep_interval"),
	}
}

// LoadLanguageVersions 读取按规范名覆盖的默认版本
func LoadLanguageVersions(cfg *viper.Viper) map[string]string {
	return cfg.GetStringMapString("languages.versions")
}

// LoadSnippetConfig 从配置文件加载片段配置
func LoadSnippetConfig(cfg *viper.Viper) *SnippetConfig {
	return &SnippetConfig{
		InlineLimit: cfg.GetInt("snippet.inline_limit"),
		ListLimit:   cfg.GetInt("snippet.list_limit"),
		BlobEnabled: cfg.GetBool("minio.enabled"),
	}
}
