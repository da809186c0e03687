package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"

	"github.com/iWorld-y/ad_vault/app/ad_vault/pkg/config"
	"github.com/iWorld-y/ad_vault/app/ad_vault/pkg/llm/gemini"
)

// NewChatModel 按配置的 provider 创建模型，modelName 为空时使用 cfg.Model
func NewChatModel(ctx context.Context, cfg config.LLMConfig, modelName string) (model.BaseChatModel, error) {
	if modelName == "" {
		modelName = cfg.Model
	}

	switch cfg.Provider {
	case "gemini":
		return gemini.NewChatModel(ctx, &gemini.Config{
			APIKey:  cfg.APIKey,
			Model:   modelName,
			BaseURL: cfg.BaseURL,
		})
	case "openai":
		return openai.NewChatModel(ctx, &openai.ChatModelConfig{
			BaseURL: cfg.BaseURL,
			APIKey:  cfg.APIKey,
			Model:   modelName,
		})
	default:
		return nil, fmt.Errorf("unknown llm provider: %s", cfg.Provider)
	}
}

// CleanJSON 去掉模型输出中包裹 JSON 的 markdown 代码块标记
func CleanJSON(content string) string {
	clean := strings.TrimSpace(content)
	clean = strings.TrimPrefix(clean, "```json")
	clean = strings.TrimPrefix(clean, "```")
	clean = strings.TrimSuffix(clean, "```")
	return strings.TrimSpace(clean)
}

// IsRateLimited 判断模型调用错误是否为限流
func IsRateLimited(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "429") ||
		strings.Contains(msg, "too many requests") ||
		strings.Contains(msg, "resource_exhausted")
}
