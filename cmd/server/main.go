package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"codepad/internal/cache"
	"codepad/internal/conf"
	"codepad/internal/constants"
	"codepad/internal/dao"
	"codepad/internal/dao/minio"
	"codepad/internal/dispatcher"
	"codepad/internal/handler"
	"codepad/internal/language"
	"codepad/internal/server"
	"codepad/internal/service"
	"codepad/pkg/jwt"
	"codepad/pkg/logging"
	"codepad/pkg/snowflake"
)

var confPath = flag.String("conf", "./config/config.yaml", "配置文件路径")

func main() {
	// 加载配置
	flag.Parse()
	cfg := conf.Load(*confPath)
	if err := conf.ValidateConfig(cfg); err != nil {
		fmt.Printf("invalid config, err:%v\n", err)
		os.Exit(1)
	}

	// 初始化日志
	logger, err := logging.NewLogger(cfg)
	if err != nil {
		fmt.Printf("init logger failed, err:%v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	dao.MustInitDB(cfg)     // 初始化数据库连接
	snowflake.MustInit(cfg) // 初始化 snowflake
	j := jwt.MustInit(cfg)  // 初始化 jwt
	registry := mustInitRegistry(cfg)

	// 上游
	upstreamCfg := conf.LoadUpstreamConfig(cfg)
	disp := dispatcher.New(dispatcher.Config{
		BaseURL:          upstreamCfg.BaseURL,
		Timeout:          upstreamCfg.Timeout,
		MaxResponseBytes: upstreamCfg.MaxResponseBytes,
	}, registry)
	runtimes := cache.NewRuntimeCache(disp.Runtimes, upstreamCfg.RuntimesCacheTTL)

	// 限流
	limiter, limiterStats := mustInitLimiter(ctx, cfg)

	// 指标
	metrics := service.GetGlobalMetrics()
	promRegistry := prometheus.NewRegistry()
	promRegistry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	if err := metrics.Register(promRegistry); err != nil {
		zap.L().Fatal("register metrics failed", zap.Error(err))
	}

	// 片段存储
	snippetCfg := conf.LoadSnippetConfig(cfg)
	var blob service.BlobStore
	if snippetCfg.BlobEnabled {
		blob = minio.MustInitMinIO(cfg) // 初始化 MinIO 连接
	}

	deps := &server.Deps{
		Gateway:  service.NewGateway(limiter, registry, disp, metrics),
		Registry: registry,
		Runtimes: runtimes,
		Snippets: service.NewSnippetService(dao.NewSnippetDAO(dao.DB), blob, snippetCfg.InlineLimit, snippetCfg.ListLimit),
		Feedback: service.NewFeedbackService(dao.NewFeedbackDAO(dao.DB)),
		Visitors: service.NewVisitorService(dao.NewVisitorDAO(dao.DB)),
		Sessions: service.NewSessionService(j),
		JWT:      j,
		Monitor: &handler.Monitor{
			Service: cfg.GetString("server.name"),
			Metrics: metrics,
			Ready:   dao.Ping,
			Stats: map[string]func() interface{}{
				"runtime_cache": func() interface{} { return runtimes.GetCacheStats() },
				"ratelimit":     limiterStats,
			},
		},
		Gatherer: promRegistry,
	}

	// 初始化路由
	r := server.SetupRoutes(cfg, deps)
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.GetInt("server.port")),
		Handler:      r,
		ReadTimeout:  constants.DefaultReadTimeout,
		WriteTimeout: constants.DefaultWriteTimeout,
		IdleTimeout:  constants.DefaultIdleTimeout,
	}

	// 启动服务
	go func() {
		zap.L().Info("server starting",
			zap.String("addr", srv.Addr),
			zap.String("upstream", upstreamCfg.BaseURL),
			zap.Int("languages", registry.Len()),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zap.L().Fatal("listen failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	zap.L().Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), constants.DefaultShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zap.L().Error("server shutdown failed", zap.Error(err))
	}
	if dao.RedisClient != nil {
		_ = dao.RedisClient.Close()
	}
	zap.L().Info("server exited")
}

func mustInitRegistry(cfg *viper.Viper) *language.Registry {
	specs, err := language.WithVersions(language.Defaults(), conf.LoadLanguageVersions(cfg))
	if err != nil {
		zap.L().Fatal("invalid languages.versions", zap.Error(err))
	}
	registry, err := language.NewRegistry(specs)
	if err != nil {
		zap.L().Fatal("build language registry failed", zap.Error(err))
	}
	return registry
}
