package handler

import (
	"context"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"codepad/api"
	"codepad/internal/service"
)

// Monitor 运维端点依赖
type Monitor struct {
	Service string
	Metrics *service.GatewayMetrics
	// Ready 检查存储等依赖，为 nil 时视为就绪
	Ready func(ctx context.Context) error
	// Stats 附加到 /system 的组件状态，如缓存与限流器
	Stats map[string]func() interface{}
}

// HealthCheckHandler 健康检查接口
func (m *Monitor) HealthCheckHandler(c *gin.Context) {
	api.ResponseSuccess(c, gin.H{
		"status":    "healthy",
		"timestamp": time.Now().Unix(),
		"service":   m.Service,
	})
}

// MetricsHandler 获取网关统计信息
func (m *Monitor) MetricsHandler(c *gin.Context) {
	api.ResponseSuccess(c, m.Metrics.GetSnapshot())
}

// SystemInfoHandler 获取系统信息
func (m *Monitor) SystemInfoHandler(c *gin.Context) {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)

	info := gin.H{
		// Go运行时信息
		"go_version": runtime.Version(),
		"goroutines": runtime.NumGoroutine(),
		"cpu_cores":  runtime.NumCPU(),

		// 内存信息
		"memory": gin.H{
			"alloc_mb":       ms.Alloc / 1024 / 1024,
			"total_alloc_mb": ms.TotalAlloc / 1024 / 1024,
			"sys_mb":         ms.Sys / 1024 / 1024,
			"gc_count":       ms.NumGC,
		},
	}
	for name, stat := range m.Stats {
		info[name] = stat()
	}

	api.ResponseSuccess(c, info)
}

// ReadinessHandler 就绪检查（用于K8s等）
func (m *Monitor) ReadinessHandler(c *gin.Context) {
	if m.Ready != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := m.Ready(ctx); err != nil {
			zap.L().Warn("readiness check failed", zap.Error(err))
			api.ResponseError(c, api.CodeNotReady)
			return
		}
	}

	api.ResponseSuccess(c, gin.H{
		"status":    "ready",
		"timestamp": time.Now().Unix(),
	})
}

// LivenessHandler 存活检查（用于K8s等）
func LivenessHandler(c *gin.Context) {
	api.ResponseSuccess(c, gin.H{
		"status":    "alive",
		"timestamp": time.Now().Unix(),
	})
}
