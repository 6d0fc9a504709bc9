package ratelimit

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"codepad/internal/constants"
)

type window struct {
	start time.Time
	count int64
}

// MemoryLimiter 单进程限流器，所有 key 共用一把互斥锁
type MemoryLimiter struct {
	mu      sync.Mutex
	cfg     Config
	windows map[string]*window
	now     func() time.Time
}

// NewMemoryLimiter 创建内存限流器
func NewMemoryLimiter(cfg Config) *MemoryLimiter {
	return &MemoryLimiter{
		cfg:     cfg,
		windows: make(map[string]*window),
		now:     time.Now,
	}
}

// Admit 新 key 或窗口已过期时开启新窗口并放行；否则计数加一，超过上限即拒绝。
// 被拒绝的请求同样计数，窗口不会因此提前重置。
func (l *MemoryLimiter) Admit(_ context.Context, clientKey string) (Decision, error) {
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	w, ok := l.windows[clientKey]
	if !ok || now.Sub(w.start) >= l.cfg.Window {
		w = &window{start: now, count: 1}
		l.windows[clientKey] = w
		return Decision{
			Allowed:    true,
			Count:      1,
			Limit:      l.cfg.MaxRequests,
			RetryAfter: l.cfg.Window,
		}, nil
	}

	w.count++
	return Decision{
		Allowed:    w.count <= l.cfg.MaxRequests,
		Count:      w.count,
		Limit:      l.cfg.MaxRequests,
		RetryAfter: w.start.Add(l.cfg.Window).Sub(now),
	}, nil
}

// Len 当前持有的窗口数
func (l *MemoryLimiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.windows)
}

// StartSweeper 定期清理已过期的窗口，ctx 结束后退出
func (l *MemoryLimiter) StartSweeper(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = constants.DefaultSweepInterval
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if n := l.sweep(); n > 0 {
					zap.L().Debug("ratelimit windows swept", zap.Int("evicted", n))
				}
			}
		}
	}()
}

// sweep 删除过期窗口，返回删除数量
func (l *MemoryLimiter) sweep() int {
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	evicted := 0
	for key, w := range l.windows {
		if now.Sub(w.start) >= l.cfg.Window {
			delete(l.windows, key)
			evicted++
		}
	}
	return evicted
}
