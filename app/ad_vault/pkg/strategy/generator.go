package strategy

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/go-playground/validator/v10"
	"golang.org/x/time/rate"
	"google.golang.org/genai"

	"github.com/iWorld-y/ad_vault/app/ad_vault/pkg/llm"
	"github.com/iWorld-y/ad_vault/app/ad_vault/pkg/llm/gemini"
	"github.com/iWorld-y/ad_vault/app/ad_vault/pkg/logger"
	"github.com/iWorld-y/ad_vault/app/ad_vault/pkg/metrics"
	dm "github.com/iWorld-y/ad_vault/app/ad_vault/pkg/model"
)

// ErrNoValidQueries 模型返回中没有任何合法的策略
var ErrNoValidQueries = errors.New("no valid queries in model output")

// Fallback 生成失败时使用的固定策略
func Fallback() []dm.GeneratedQuery {
	return []dm.GeneratedQuery{
		{Term: "sensitive skin anti-aging", Rationale: "Direct competitor niche", Status: dm.QueryPending},
		{Term: "dermatologist tested skincare", Rationale: "Authority based search", Status: dm.QueryPending},
		{Term: "vegan retinol alternative", Rationale: "Ingredient focused", Status: dm.QueryPending},
	}
}

// Result 一次生成的结果。Fallback 为 true 时 Queries 为固定策略，Err 为失败原因
type Result struct {
	Queries  []dm.GeneratedQuery
	Fallback bool
	Err      error
}

// Options 生成器参数
type Options struct {
	ThinkingBudget int
	MaxRetries     int
	BaseDelay      time.Duration
}

// Generator 搜索策略生成器
type Generator struct {
	chatModel model.BaseChatModel
	limiter   *rate.Limiter
	validate  *validator.Validate
	opts      Options
}

// NewGenerator 创建策略生成器，limiter 为空时不限流
func NewGenerator(cm model.BaseChatModel, limiter *rate.Limiter, opts Options) *Generator {
	if opts.MaxRetries == 0 {
		opts.MaxRetries = 3
	}
	if opts.BaseDelay == 0 {
		opts.BaseDelay = 2 * time.Second
	}
	return &Generator{
		chatModel: cm,
		limiter:   limiter,
		validate:  validator.New(),
		opts:      opts,
	}
}

// Generate 根据品牌档案生成搜索策略，任何失败都回退到固定策略
func (g *Generator) Generate(ctx context.Context, brand dm.BrandProfile, websiteSnapshot string) Result {
	start := time.Now()
	queries, err := g.generate(ctx, brand, websiteSnapshot)
	if err != nil {
		metrics.ObserveUpstream("strategy", "error", start)
		logger.Log.Errorf("生成搜索策略失败，使用默认策略: %v", err)
		return Result{Queries: Fallback(), Fallback: true, Err: err}
	}
	metrics.ObserveUpstream("strategy", "ok", start)
	logger.Log.Infof("已为品牌 [%s] 生成 %d 条搜索策略", brand.Name, len(queries))
	return Result{Queries: queries}
}

func (g *Generator) generate(ctx context.Context, brand dm.BrandProfile, websiteSnapshot string) ([]dm.GeneratedQuery, error) {
	if g.chatModel == nil {
		return nil, fmt.Errorf("chat model not configured")
	}

	messages := []*schema.Message{
		{Role: schema.System, Content: "You are a JSON generator. Output only a JSON array."},
		{Role: schema.User, Content: buildPrompt(brand, websiteSnapshot)},
	}
	opts := []model.Option{gemini.WithResponseSchema(querySchema)}
	if g.opts.ThinkingBudget > 0 {
		opts = append(opts, gemini.WithThinkingBudget(g.opts.ThinkingBudget))
	}

	var lastErr error
	for i := 0; i <= g.opts.MaxRetries; i++ {
		if g.limiter != nil {
			if err := g.limiter.Wait(ctx); err != nil {
				return nil, err
			}
		}

		resp, err := g.chatModel.Generate(ctx, messages, opts...)
		if err != nil {
			if llm.IsRateLimited(err) {
				lastErr = err
				if i < g.opts.MaxRetries {
					if err := sleep(ctx, g.opts.BaseDelay*time.Duration(1<<i)); err != nil {
						return nil, err
					}
					continue
				}
			}
			return nil, err
		}

		queries, err := g.parse(resp.Content)
		if err != nil {
			lastErr = err
			logger.Log.Warnf("策略解析失败 (第 %d 次): %v", i+1, err)
			continue
		}
		return queries, nil
	}
	return nil, fmt.Errorf("failed after retries: %w", lastErr)
}

// parse 解析并校验模型输出，丢弃不合法的条目
func (g *Generator) parse(content string) ([]dm.GeneratedQuery, error) {
	var items []struct {
		Term      string `json:"term"`
		Rationale string `json:"rationale"`
	}
	if err := json.Unmarshal([]byte(llm.CleanJSON(content)), &items); err != nil {
		return nil, fmt.Errorf("json unmarshal: %w", err)
	}

	queries := make([]dm.GeneratedQuery, 0, len(items))
	for _, item := range items {
		q := dm.GeneratedQuery{
			Term:      strings.TrimSpace(item.Term),
			Rationale: strings.TrimSpace(item.Rationale),
			Status:    dm.QueryPending,
		}
		if err := g.validate.Struct(q); err != nil {
			logger.Log.Warnf("丢弃不合法的策略 %q: %v", item.Term, err)
			continue
		}
		queries = append(queries, q)
	}
	if len(queries) == 0 {
		return nil, ErrNoValidQueries
	}
	return queries, nil
}

var querySchema = &genai.Schema{
	Type: genai.TypeArray,
	Items: &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"term":      {Type: genai.TypeString},
			"rationale": {Type: genai.TypeString},
		},
		Required: []string{"term", "rationale"},
	},
}

func buildPrompt(brand dm.BrandProfile, websiteSnapshot string) string {
	var sb strings.Builder
	sb.WriteString("You are an expert media buyer and ad strategist.\n")
	fmt.Fprintf(&sb, "Analyze the following brand profile for %q.\n\n", brand.Name)
	fmt.Fprintf(&sb, "Brand Overview: %s\n", brand.Overview)
	fmt.Fprintf(&sb, "Values: %s\n", strings.Join(brand.BrandValues, ", "))
	fmt.Fprintf(&sb, "Target Tone: %s\n", strings.Join(brand.ToneOfVoice, ", "))
	if websiteSnapshot != "" {
		fmt.Fprintf(&sb, "Website Excerpt: %s\n", websiteSnapshot)
	}
	sb.WriteString(`
Your goal is to find high-performing competitor ads on an ad intelligence platform (like Foreplay).
Generate 5 distinct, short, product-oriented search queries that would surface relevant, high-converting ads.
Focus on:
1. Similar product categories (e.g., "gentle retinol").
2. Specific problem/solution keywords (e.g., "anti-aging for sensitive skin").
3. Competitor niches.

For each query, provide a short rationale (max 10 words) explaining why this query reveals good ads.
Return a JSON array of objects: [{"term": "...", "rationale": "..."}]`)
	return sb.String()
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
