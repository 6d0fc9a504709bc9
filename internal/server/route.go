package server

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"codepad/internal/cache"
	"codepad/internal/constants"
	"codepad/internal/handler"
	"codepad/internal/language"
	"codepad/internal/middleware"
	"codepad/internal/service"
	"codepad/pkg/jwt"
	"codepad/pkg/logging"
)

// Deps 路由依赖，除 Gateway 与 Registry 外均可为空，为空时不注册对应路由
type Deps struct {
	Gateway  *service.Gateway
	Registry *language.Registry
	Runtimes *cache.RuntimeCache

	Snippets *service.SnippetService
	Feedback *service.FeedbackService
	Visitors *service.VisitorService
	Sessions *service.SessionService
	JWT      *jwt.JWT

	Monitor  *handler.Monitor
	Gatherer prometheus.Gatherer
}

func SetupRoutes(cfg *viper.Viper, deps *Deps) *gin.Engine {
	r := gin.New()
	if err := r.SetTrustedProxies(cfg.GetStringSlice("server.trusted_proxies")); err != nil {
		zap.L().Warn("invalid server.trusted_proxies, trusting none", zap.Error(err))
		_ = r.SetTrustedProxies(nil)
	}
	r.Use(middleware.RequestID(), logging.GinLogger(), logging.GinRecovery(true)) // 日志中间件，记录请求日志
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "pong",
		})
	})
	corsCfg := cors.DefaultConfig()
	corsCfg.AllowHeaders = append(corsCfg.AllowHeaders, "Authorization", constants.HeaderRequestID)
	corsCfg.ExposeHeaders = []string{"Retry-After", constants.HeaderRequestID}
	if origins := cfg.GetStringSlice("server.cors_origins"); len(origins) > 0 {
		corsCfg.AllowOrigins = origins
	} else {
		corsCfg.AllowAllOrigins = true
	}
	r.Use(cors.New(corsCfg))

	// 健康检查和监控端点（不需要认证）
	if m := deps.Monitor; m != nil {
		r.GET("/health", m.HealthCheckHandler)
		r.GET("/metrics", m.MetricsHandler)
		r.GET("/system", m.SystemInfoHandler)
		r.GET("/readiness", m.ReadinessHandler)
	}
	r.GET("/liveness", handler.LivenessHandler)
	if deps.Gatherer != nil {
		r.GET("/metrics/prometheus", gin.WrapH(promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{})))
	}

	// 执行网关
	execute := handler.ExecuteHandler(deps.Gateway)
	r.POST("/execute", execute)

	// 旧版客户端协议
	legacy := r.Group("/api")
	{
		legacy.POST("/compile", handler.CompileHandler(deps.Gateway))
		if deps.Feedback != nil {
			legacy.POST("/feedback", handler.LegacyFeedbackHandler(deps.Feedback))
		}
		if deps.Visitors != nil {
			legacy.POST("/track-visit", handler.LegacyTrackVisitHandler(deps.Visitors))
		}
	}

	apiV1 := r.Group("/api/v1")
	{
		apiV1.POST("/execute", execute)
		apiV1.GET("/languages", handler.LanguagesHandler(deps.Registry))
		if deps.Runtimes != nil {
			apiV1.GET("/runtimes", handler.RuntimesHandler(deps.Runtimes))
		}

		apiV1.POST("/share", handler.ShareHandler(cfg.GetString("share.base_url")))
		apiV1.GET("/share/:token", handler.SharedCodeHandler)

		if deps.Sessions != nil {
			apiV1.POST("/session", handler.StartSessionHandler(deps.Sessions))
			apiV1.POST("/session/refresh", handler.RefreshSessionHandler(deps.Sessions))
		}
		if deps.Snippets != nil && deps.JWT != nil {
			snippets := apiV1.Group("/snippets", middleware.Auth(deps.JWT))
			snippets.GET("", handler.ListSnippetsHandler(deps.Snippets))
			snippets.POST("", handler.SaveSnippetHandler(deps.Snippets))
			snippets.DELETE("/:id", handler.DeleteSnippetHandler(deps.Snippets))
		}
		if deps.Feedback != nil {
			apiV1.POST("/feedback", handler.CreateFeedbackHandler(deps.Feedback))
			apiV1.GET("/feedback/count", handler.FeedbackStatsHandler(deps.Feedback))
		}
		if deps.Visitors != nil {
			apiV1.POST("/visitors", handler.TrackVisitorHandler(deps.Visitors))
			apiV1.GET("/visitors/count", handler.VisitorCountHandler(deps.Visitors))
		}
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{
			"msg": "404",
		})
	})
	return r
}
