package main

import (
	"context"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"codepad/internal/conf"
	"codepad/internal/constants"
	"codepad/internal/dao"
	"codepad/internal/ratelimit"
)

// mustInitLimiter 按 ratelimit.backend 选择限流实现，返回限流器及其状态函数
func mustInitLimiter(ctx context.Context, cfg *viper.Viper) (ratelimit.Limiter, func() interface{}) {
	rl := conf.LoadRateLimitConfig(cfg)
	limits := ratelimit.Config{Window: rl.Window, MaxRequests: rl.MaxRequests}

	switch rl.Backend {
	case constants.RateLimitBackendRedis:
		dao.MustInitRedis(cfg) // 初始化 Redis
		zap.L().Info("using redis rate limiter", zap.Duration("window", rl.Window), zap.Int64("max", rl.MaxRequests))
		return ratelimit.NewRedisLimiter(dao.RedisClient, limits, rl.Prefix), func() interface{} {
			return map[string]interface{}{"backend": rl.Backend, "window": rl.Window.String(), "max_requests": rl.MaxRequests}
		}
	default:
		limiter := ratelimit.NewMemoryLimiter(limits)
		limiter.StartSweeper(ctx, rl.SweepInterval)
		zap.L().Info("using in-memory rate limiter", zap.Duration("window", rl.Window), zap.Int64("max", rl.MaxRequests))
		return limiter, func() interface{} {
			return map[string]interface{}{"backend": rl.Backend, "window": rl.Window.String(), "max_requests": rl.MaxRequests, "tracked_clients": limiter.Len()}
		}
	}
}
