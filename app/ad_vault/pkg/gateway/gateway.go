package gateway

import (
	"context"
	"time"

	"golang.org/x/time/rate"

	"github.com/iWorld-y/ad_vault/app/ad_vault/pkg/config"
	"github.com/iWorld-y/ad_vault/app/ad_vault/pkg/logger"
	"github.com/iWorld-y/ad_vault/app/ad_vault/pkg/metrics"
	"github.com/iWorld-y/ad_vault/app/ad_vault/pkg/mockads"
	"github.com/iWorld-y/ad_vault/app/ad_vault/pkg/model"
	"github.com/iWorld-y/ad_vault/app/ad_vault/pkg/search"
	"github.com/iWorld-y/ad_vault/app/ad_vault/pkg/search/factory"
)

// SearcherFunc 按凭证构造检索实例
type SearcherFunc func(credential string) (search.Searcher, error)

// Gateway 广告检索网关，对调用方永不返回错误：
// 无凭证时按检索词过滤演示数据；有凭证但上游失败时返回完整的演示数据（不再过滤）
type Gateway struct {
	newSearcher SearcherFunc
	limiter     *rate.Limiter
	limit       int
	order       string
}

// New 创建网关，limiter 为空时不限流
func New(cfg config.SearchConfig, limiter *rate.Limiter) *Gateway {
	return NewWithSearcher(func(credential string) (search.Searcher, error) {
		return factory.NewSearcher(cfg, credential)
	}, limiter, cfg.Foreplay.Limit, cfg.Foreplay.Order)
}

// NewWithSearcher 使用自定义检索构造函数创建网关
func NewWithSearcher(fn SearcherFunc, limiter *rate.Limiter, limit int, order string) *Gateway {
	return &Gateway{
		newSearcher: fn,
		limiter:     limiter,
		limit:       limit,
		order:       order,
	}
}

// Search 执行检索
func (g *Gateway) Search(ctx context.Context, term, credential string) []model.Ad {
	if credential == "" {
		logger.Log.Warnf("未配置 Foreplay API Key，使用演示数据检索 [%s]", term)
		metrics.GatewayFallbacks.WithLabelValues("no_credential").Inc()
		return mockads.Filter(term)
	}

	searcher, err := g.newSearcher(credential)
	if err != nil {
		logger.Log.Errorf("检索客户端初始化失败: %v", err)
		metrics.GatewayFallbacks.WithLabelValues("client_error").Inc()
		return mockads.All()
	}

	if g.limiter != nil {
		if err := g.limiter.Wait(ctx); err != nil {
			logger.Log.Errorf("检索限流等待失败 [%s]: %v", term, err)
			metrics.GatewayFallbacks.WithLabelValues("rate_wait").Inc()
			return mockads.All()
		}
	}

	start := time.Now()
	resp, err := searcher.Search(ctx, &search.Request{
		Query: term,
		Limit: g.limit,
		Order: g.order,
	})
	metrics.ObserveUpstream("foreplay", search.Outcome(err), start)
	if err != nil {
		logger.Log.Errorf("Foreplay 检索失败 [%s]: %v", term, err)
		metrics.GatewayFallbacks.WithLabelValues(search.Outcome(err)).Inc()
		return mockads.All()
	}

	logger.Log.Debugf("Foreplay 检索 [%s] 成功，共 %d 条", term, len(resp.Ads))
	return resp.Ads
}
