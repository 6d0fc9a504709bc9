package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"codepad/internal/dispatcher"
	"codepad/internal/language"
	"codepad/internal/model"
	"codepad/internal/ratelimit"
)

// Resolver 语言解析
type Resolver interface {
	Resolve(token, requestedVersion string) (language.Resolved, error)
}

// Executor 上游执行
type Executor interface {
	Execute(ctx context.Context, language, version, sourceCode string) (*model.ExecutionResult, error)
}

// Gateway 执行请求网关：限流 -> 解析语言 -> 转发上游
type Gateway struct {
	limiter  ratelimit.Limiter
	resolver Resolver
	executor Executor
	metrics  *GatewayMetrics
}

// NewGateway 创建网关，限流器由调用方注入以便替换为分布式实现
func NewGateway(limiter ratelimit.Limiter, resolver Resolver, executor Executor, metrics *GatewayMetrics) *Gateway {
	if metrics == nil {
		metrics = GetGlobalMetrics()
	}
	return &Gateway{
		limiter:  limiter,
		resolver: resolver,
		executor: executor,
		metrics:  metrics,
	}
}

// Execute 处理一次已解析的请求。返回的错误为
// *ratelimit.RateLimitedError、*language.UnknownLanguageError、*dispatcher.UpstreamError 之一，
// 限流后端故障时为普通错误。
func (g *Gateway) Execute(ctx context.Context, clientKey string, req *model.ExecutionRequest) (*model.ExecutionResult, error) {
	g.metrics.RecordRequest()

	decision, err := g.limiter.Admit(ctx, clientKey)
	if err != nil {
		g.metrics.RecordOutcome("", OutcomeInternalError)
		zap.L().Error("ratelimit admit failed", zap.String("client", clientKey), zap.Error(err))
		return nil, fmt.Errorf("admit request: %w", err)
	}
	if !decision.Allowed {
		g.metrics.RecordOutcome("", OutcomeRateLimited)
		zap.L().Info("request rate limited",
			zap.String("client", clientKey),
			zap.Int64("count", decision.Count),
			zap.Duration("retry_after", decision.RetryAfter),
		)
		return nil, &ratelimit.RateLimitedError{RetryAfter: decision.RetryAfter}
	}

	resolved, err := g.resolver.Resolve(req.LanguageToken, req.RequestedVersion)
	if err != nil {
		g.metrics.RecordOutcome("", OutcomeUnknownLanguage)
		return nil, err
	}

	g.metrics.RecordActiveIncrease()
	start := time.Now()
	result, err := g.executor.Execute(ctx, resolved.Name, resolved.Version, req.SourceCode)
	elapsed := time.Since(start)
	g.metrics.RecordActiveDecrease()
	g.metrics.RecordDispatch(resolved.Name, elapsed)

	if err != nil {
		var ue *dispatcher.UpstreamError
		if errors.As(err, &ue) && ue.Timeout {
			g.metrics.RecordTimeout()
		}
		g.metrics.RecordOutcome(resolved.Name, OutcomeUpstreamError)
		// 只记录语言和版本，不记录源码与输出
		zap.L().Warn("upstream execution failed",
			zap.String("language", resolved.Name),
			zap.String("version", resolved.Version),
			zap.Duration("elapsed", elapsed),
			zap.Error(err),
		)
		return nil, err
	}

	g.metrics.RecordOutcome(resolved.Name, OutcomeSuccess)
	g.metrics.RecordExitCode(result.ExitCode)
	zap.L().Debug("execution finished",
		zap.String("language", resolved.Name),
		zap.String("version", resolved.Version),
		zap.Int("exit_code", result.ExitCode),
		zap.Duration("elapsed", elapsed),
	)
	return result, nil
}
