package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/cloudwego/eino/components/model"
	"golang.org/x/time/rate"

	"github.com/iWorld-y/ad_vault/app/ad_vault/pkg/assistant"
	"github.com/iWorld-y/ad_vault/app/ad_vault/pkg/brand"
	"github.com/iWorld-y/ad_vault/app/ad_vault/pkg/config"
	"github.com/iWorld-y/ad_vault/app/ad_vault/pkg/dashboard"
	"github.com/iWorld-y/ad_vault/app/ad_vault/pkg/gateway"
	"github.com/iWorld-y/ad_vault/app/ad_vault/pkg/llm"
	"github.com/iWorld-y/ad_vault/app/ad_vault/pkg/logger"
	dm "github.com/iWorld-y/ad_vault/app/ad_vault/pkg/model"
	"github.com/iWorld-y/ad_vault/app/ad_vault/pkg/strategy"
	"github.com/iWorld-y/ad_vault/app/ad_vault/pkg/upload"
)

// Engine 组装仪表盘的全部组件
type Engine struct {
	cfg       *config.Config
	brand     dm.BrandProfile
	generator *strategy.Generator
	assistant *assistant.Assistant
	gateway   *gateway.Gateway
	store     *dashboard.Store
	snapshot  brand.Fetcher
}

// Deps 可替换的依赖，为空的字段按配置创建
type Deps struct {
	StrategyModel model.BaseChatModel
	ChatModel     model.BaseChatModel
	Fetcher       dashboard.Fetcher
	Transfer      upload.Transfer
	Website       brand.Fetcher
}

// NewEngine 创建引擎实例。LLM 初始化失败不会中断启动，相关功能会使用兜底结果
func NewEngine(ctx context.Context, cfg *config.Config) (*Engine, error) {
	return NewEngineWithDeps(ctx, cfg, Deps{})
}

// NewEngineWithDeps 使用给定依赖创建引擎实例
func NewEngineWithDeps(ctx context.Context, cfg *config.Config, deps Deps) (*Engine, error) {
	// 初始化限流器
	limit := rate.Limit(float64(cfg.Concurrency.RPM) / 60.0)
	burst := cfg.Concurrency.QPS
	limiter := rate.NewLimiter(limit, burst)
	logger.Log.Infof("限流器已配置: Limit=%.2f req/s, Burst=%d", limit, burst)

	profile := brand.Resolve(cfg.Brand)

	// 初始化 LLM
	strategyModel := deps.StrategyModel
	if strategyModel == nil {
		strategyModel = newChatModel(ctx, cfg.LLM, cfg.LLM.Model)
	}
	chatModel := deps.ChatModel
	if chatModel == nil {
		chatModel = newChatModel(ctx, cfg.LLM, cfg.LLM.ChatModel)
	}

	gw := gateway.New(cfg.Search, limiter)
	fetcher := deps.Fetcher
	if fetcher == nil {
		fetcher = gw
	}

	transfer := deps.Transfer
	if transfer == nil {
		t, err := upload.NewTransfer(ctx, cfg.Upload)
		if err != nil {
			return nil, fmt.Errorf("保存方式初始化失败: %w", err)
		}
		transfer = t
	}
	runner := upload.NewRunner(transfer, time.Duration(cfg.Upload.SettleMS)*time.Millisecond)

	store := dashboard.NewStore(fetcher, runner, cfg.Selection.Max)
	if cfg.Search.Foreplay.APIKey != "" {
		_ = store.SetCredential(cfg.Search.Foreplay.APIKey)
	}

	website := deps.Website
	if website == nil {
		website = brand.ReadabilityFetcher
	}

	return &Engine{
		cfg:   cfg,
		brand: profile,
		generator: strategy.NewGenerator(strategyModel, limiter, strategy.Options{
			ThinkingBudget: cfg.LLM.ThinkingBudget,
		}),
		assistant: assistant.New(chatModel, limiter, profile.Name),
		gateway:   gw,
		store:     store,
		snapshot:  website,
	}, nil
}

func newChatModel(ctx context.Context, cfg config.LLMConfig, name string) model.BaseChatModel {
	cm, err := llm.NewChatModel(ctx, cfg, name)
	if err != nil {
		logger.Log.Warnf("LLM [%s] 初始化失败，将使用兜底结果: %v", name, err)
		return nil
	}
	return cm
}

// Brand 当前品牌档案
func (e *Engine) Brand() dm.BrandProfile {
	return brand.Resolve(&e.brand)
}

// Store 仪表盘状态
func (e *Engine) Store() *dashboard.Store {
	return e.store
}

// Search 直接通过网关检索，不经过仪表盘状态
func (e *Engine) Search(ctx context.Context, term, credential string) []dm.Ad {
	return e.gateway.Search(ctx, term, credential)
}

// GenerateStrategies 生成搜索策略并替换仪表盘中的标签页
func (e *Engine) GenerateStrategies(ctx context.Context) (strategy.Result, error) {
	var excerpt string
	if e.cfg.Enrich.Website && e.brand.WebsiteURL != "" {
		text, err := brand.Snapshot(e.snapshot, e.brand.WebsiteURL,
			time.Duration(e.cfg.Enrich.Timeout)*time.Second, e.cfg.Enrich.MaxChars)
		if err != nil {
			logger.Log.Warnf("抓取品牌官网失败 [%s]: %v", e.brand.WebsiteURL, err)
		} else {
			excerpt = text
		}
	}

	res := e.generator.Generate(ctx, e.brand, excerpt)
	if err := e.store.ReplaceQueries(res.Queries); err != nil {
		return res, err
	}
	return res, nil
}

// NewConversation 创建新的对话会话
func (e *Engine) NewConversation() *assistant.Conversation {
	return assistant.NewConversation(e.assistant, "Brand Focus: "+e.brand.Name)
}

// Close 停止后台任务
func (e *Engine) Close() {
	e.store.Close()
}
