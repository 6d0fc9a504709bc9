package cache

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"codepad/internal/model"
)

// FetchFunc 从上游拉取运行时列表
type FetchFunc func(ctx context.Context) ([]model.Runtime, error)

// RuntimeCache 上游运行时列表缓存，过期后由第一个请求触发刷新，并发请求合并为一次上游调用
type RuntimeCache struct {
	fetch FetchFunc
	ttl   time.Duration

	mutex      sync.RWMutex
	runtimes   []model.Runtime
	expireTime time.Time

	group singleflight.Group
	now   func() time.Time
}

// NewRuntimeCache 创建运行时缓存
func NewRuntimeCache(fetch FetchFunc, ttl time.Duration) *RuntimeCache {
	return &RuntimeCache{
		fetch: fetch,
		ttl:   ttl,
		now:   time.Now,
	}
}

// Get 返回缓存的运行时列表；刷新失败但有旧数据时返回旧数据
func (c *RuntimeCache) Get(ctx context.Context) ([]model.Runtime, error) {
	c.mutex.RLock()
	cached, fresh := c.runtimes, c.now().Before(c.expireTime)
	c.mutex.RUnlock()
	if fresh {
		return cached, nil
	}

	v, err, _ := c.group.Do("runtimes", func() (interface{}, error) {
		// 刷新结果由所有等待者共享，不随首个调用者取消
		runtimes, err := c.fetch(context.WithoutCancel(ctx))
		if err != nil {
			return nil, err
		}
		c.mutex.Lock()
		c.runtimes = runtimes
		c.expireTime = c.now().Add(c.ttl)
		c.mutex.Unlock()
		return runtimes, nil
	})
	if err != nil {
		if cached != nil {
			zap.L().Warn("refresh runtimes failed, serving stale list", zap.Error(err))
			return cached, nil
		}
		return nil, err
	}
	return v.([]model.Runtime), nil
}

// Invalidate 清空缓存
func (c *RuntimeCache) Invalidate() {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.runtimes = nil
	c.expireTime = time.Time{}
}

// GetCacheStats 缓存状态
func (c *RuntimeCache) GetCacheStats() map[string]interface{} {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return map[string]interface{}{
		"runtimes":    len(c.runtimes),
		"expire_time": c.expireTime.Format(time.RFC3339),
		"fresh":       c.now().Before(c.expireTime),
	}
}
