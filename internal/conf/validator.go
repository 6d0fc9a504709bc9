package conf

import (
	"fmt"
	"net/url"
	"time"

	"github.com/spf13/viper"

	"codepad/internal/constants"
)

// ValidateConfig 验证配置文件
func ValidateConfig(cfg *viper.Viper) error {
	// 验证服务器配置
	if err := validateServerConfig(cfg); err != nil {
		return fmt.Errorf("服务器配置错误: %w", err)
	}

	// 验证上游配置
	if err := validateUpstreamConfig(cfg); err != nil {
		return fmt.Errorf("上游配置错误: %w", err)
	}

	// 验证限流配置
	if err := validateRateLimitConfig(cfg); err != nil {
		return fmt.Errorf("限流配置错误: %w", err)
	}

	// 验证数据库配置
	if err := validateDatabaseConfig(cfg); err != nil {
		return fmt.Errorf("数据库配置错误: %w", err)
	}

	return nil
}

// validateServerConfig 验证服务器配置
func validateServerConfig(cfg *viper.Viper) error {
	port := cfg.GetInt("server.port")
	if port <= 0 || port > 65535 {
		return fmt.Errorf("端口号无效: %d (应在1-65535之间)", port)
	}

	mode := cfg.GetString("server.mode")
	if mode != "dev" && mode != "prod" && mode != "test" {
		return fmt.Errorf("运行模式无效: %s (应为dev/prod/test)", mode)
	}

	return nil
}

// validateUpstreamConfig 验证上游配置
func validateUpstreamConfig(cfg *viper.Viper) error {
	raw := cfg.GetString("upstream.base_url")
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("上游地址无效: %q", raw)
	}

	timeout := cfg.GetDuration("upstream.timeout")
	if timeout <= 0 || timeout > constants.MaxUpstreamTimeout {
		return fmt.Errorf("上游超时无效: %v (应在0-%v之间)", timeout, constants.MaxUpstreamTimeout)
	}

	if n := cfg.GetInt64("upstream.max_response_bytes"); n <= 0 || n > 100*1024*1024 {
		return fmt.Errorf("最大响应大小无效: %d (应在1B-100MB之间)", n)
	}

	if ttl := cfg.GetDuration("upstream.runtimes_cache_ttl"); ttl < 0 {
		return fmt.Errorf("运行时缓存有效期无效: %v", ttl)
	}

	return nil
}

// validateRateLimitConfig 验证限流配置
func validateRateLimitConfig(cfg *viper.Viper) error {
	backend := cfg.GetString("ratelimit.backend")
	if backend != constants.RateLimitBackendMemory && backend != constants.RateLimitBackendRedis {
		return fmt.Errorf("限流后端无效: %s (应为memory/redis)", backend)
	}

	if window := cfg.GetDuration("ratelimit.window"); window <= 0 {
		return fmt.Errorf("限流窗口无效: %v", window)
	}

	if n := cfg.GetInt64("ratelimit.max_requests"); n <= 0 {
		return fmt.Errorf("窗口最大请求数无效: %d", n)
	}

	if interval := cfg.GetDuration("ratelimit.sweep_interval"); interval <= 0 {
		return fmt.Errorf("过期清理间隔无效: %v", interval)
	}

	return nil
}

// validateDatabaseConfig 验证数据库配置
func validateDatabaseConfig(cfg *viper.Viper) error {
	driver := cfg.GetString("database.driver")
	switch driver {
	case constants.DBDriverMySQL, constants.DBDriverPostgres:
		if cfg.GetString("database.dsn") == "" && cfg.GetString("database.host") == "" {
			return fmt.Errorf("%s 需要 database.dsn 或 database.host", driver)
		}
	case constants.DBDriverSQLite:
		if cfg.GetString("database.dsn") == "" && cfg.GetString("database.path") == "" {
			return fmt.Errorf("sqlite 需要 database.dsn 或 database.path")
		}
	default:
		return fmt.Errorf("数据库驱动无效: %s (应为mysql/postgres/sqlite)", driver)
	}
	return nil
}

// SetDefaultValues 设置默认配置值
func SetDefaultValues(cfg *viper.Viper) {
	// 服务器默认值
	cfg.SetDefault("server.port", constants.DefaultServerPort)
	cfg.SetDefault("server.mode", "dev")
	cfg.SetDefault("server.name", "codepad")
	cfg.SetDefault("server.trusted_proxies", []string{})

	// 上游默认值
	cfg.SetDefault("upstream.base_url", constants.DefaultUpstreamBaseURL)
	cfg.SetDefault("upstream.timeout", constants.DefaultUpstreamTimeout)
	cfg.SetDefault("upstream.max_response_bytes", constants.DefaultMaxResponseBytes)
	cfg.SetDefault("upstream.runtimes_cache_ttl", constants.DefaultRuntimesCacheTTL)

	// 限流默认值
	cfg.SetDefault("ratelimit.backend", constants.RateLimitBackendMemory)
	cfg.SetDefault("ratelimit.window", constants.DefaultRateLimitWindow)
	cfg.SetDefault("ratelimit.max_requests", constants.DefaultRateLimitMax)
	cfg.SetDefault("ratelimit.prefix", constants.DefaultRateLimitPrefix)
	cfg.SetDefault("ratelimit.sweep_interval", constants.DefaultSweepInterval)

	// 存储默认值
	cfg.SetDefault("database.driver", constants.DBDriverSQLite)
	cfg.SetDefault("database.path", "codepad.db")
	cfg.SetDefault("database.sslmode", "disable")
	cfg.SetDefault("database.max_lifetime", time.Hour)
	cfg.SetDefault("minio.enabled", false)
	cfg.SetDefault("minio.bucket", "codepad")
	cfg.SetDefault("snippet.inline_limit", constants.DefaultSnippetInlineLimit)
	cfg.SetDefault("snippet.list_limit", constants.DefaultSnippetListLimit)

	// 日志默认值
	cfg.SetDefault("log.level", constants.LogLevelInfo)
	cfg.SetDefault("log.filename", constants.DefaultLogFile)
	cfg.SetDefault("log.max_size", constants.DefaultLogMaxSize)
	cfg.SetDefault("log.max_age", constants.DefaultLogMaxAge)
	cfg.SetDefault("log.max_backups", constants.DefaultLogBackups)

	// 会话默认值
	cfg.SetDefault("jwt.access_expire_seconds", 7*24*3600)
	cfg.SetDefault("jwt.refresh_expire_seconds", 90*24*3600)

	// Snowflake默认值
	cfg.SetDefault("snowflake.machine_id", 1)
	cfg.SetDefault("snowflake.start_time", "2025-07-01")
}
