package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// 首次计数时设置过期；PTTL 异常（键无过期）时补设，避免窗口永不结束
var admitScript = redis.NewScript(`
local count = redis.call('INCR', KEYS[1])
if count == 1 then
  redis.call('PEXPIRE', KEYS[1], ARGV[1])
end
local ttl = redis.call('PTTL', KEYS[1])
if ttl < 0 then
  redis.call('PEXPIRE', KEYS[1], ARGV[1])
  ttl = tonumber(ARGV[1])
end
return {count, ttl}
`)

// RedisLimiter 基于 Redis 的共享限流器，多个网关实例共用同一计数
type RedisLimiter struct {
	client redis.Scripter
	cfg    Config
	prefix string
}

// NewRedisLimiter 创建 Redis 限流器
func NewRedisLimiter(client redis.Scripter, cfg Config, prefix string) *RedisLimiter {
	return &RedisLimiter{
		client: client,
		cfg:    cfg,
		prefix: prefix,
	}
}

// Admit 计数递增与过期设置在同一个 Lua 脚本内完成
func (l *RedisLimiter) Admit(ctx context.Context, clientKey string) (Decision, error) {
	res, err := admitScript.Run(ctx, l.client, []string{l.prefix + clientKey}, l.cfg.Window.Milliseconds()).Int64Slice()
	if err != nil {
		return Decision{}, fmt.Errorf("ratelimit admit %q: %w", clientKey, err)
	}
	if len(res) != 2 {
		return Decision{}, fmt.Errorf("ratelimit admit %q: unexpected script reply %v", clientKey, res)
	}
	count, ttl := res[0], time.Duration(res[1])*time.Millisecond
	return Decision{
		Allowed:    count <= l.cfg.MaxRequests,
		Count:      count,
		Limit:      l.cfg.MaxRequests,
		RetryAfter: ttl,
	}, nil
}
