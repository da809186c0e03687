package gemini

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"google.golang.org/genai"
)

// Config Gemini 模型配置
type Config struct {
	APIKey  string
	Model   string
	BaseURL string // 仅测试或代理时使用
}

// ChatModel 基于 google genai 的 eino ChatModel 适配
type ChatModel struct {
	client *genai.Client
	model  string
}

// Ensure ChatModel implements model.BaseChatModel
var _ model.BaseChatModel = (*ChatModel)(nil)

// NewChatModel 创建 Gemini 模型
func NewChatModel(ctx context.Context, cfg *Config) (*ChatModel, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini api key is required")
	}
	if cfg.Model == "" {
		return nil, fmt.Errorf("gemini model is required")
	}

	cc := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.BaseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}

	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}
	return &ChatModel{client: client, model: cfg.Model}, nil
}

// Options Gemini 专有选项
type Options struct {
	ResponseSchema *genai.Schema
	ThinkingBudget *int32
}

// WithResponseSchema 要求以 JSON 返回并按 schema 校验
func WithResponseSchema(s *genai.Schema) model.Option {
	return model.WrapImplSpecificOptFn(func(o *Options) {
		o.ResponseSchema = s
	})
}

// WithThinkingBudget 设置思考 token 预算
func WithThinkingBudget(budget int) model.Option {
	return model.WrapImplSpecificOptFn(func(o *Options) {
		b := int32(budget)
		o.ThinkingBudget = &b
	})
}

// Generate implements model.BaseChatModel
func (m *ChatModel) Generate(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.Message, error) {
	common := model.GetCommonOptions(&model.Options{}, opts...)
	specific := model.GetImplSpecificOptions(&Options{}, opts...)

	modelName := m.model
	if common.Model != nil && *common.Model != "" {
		modelName = *common.Model
	}

	contents, system := toContents(input)
	if len(contents) == 0 {
		return nil, fmt.Errorf("no user content to send")
	}

	cfg := &genai.GenerateContentConfig{}
	if system != "" {
		cfg.SystemInstruction = genai.NewContentFromText(system, genai.RoleUser)
	}
	if common.Temperature != nil {
		cfg.Temperature = common.Temperature
	}
	if specific.ResponseSchema != nil {
		cfg.ResponseMIMEType = "application/json"
		cfg.ResponseSchema = specific.ResponseSchema
	}
	if specific.ThinkingBudget != nil && *specific.ThinkingBudget > 0 {
		cfg.ThinkingConfig = &genai.ThinkingConfig{ThinkingBudget: specific.ThinkingBudget}
	}

	resp, err := m.client.Models.GenerateContent(ctx, modelName, contents, cfg)
	if err != nil {
		return nil, fmt.Errorf("gemini generate failed: %w", err)
	}

	return schema.AssistantMessage(resp.Text(), nil), nil
}

// Stream implements model.BaseChatModel，整段生成后一次性输出
func (m *ChatModel) Stream(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	msg, err := m.Generate(ctx, input, opts...)
	if err != nil {
		return nil, err
	}
	return schema.StreamReaderFromArray([]*schema.Message{msg}), nil
}

// toContents 将 eino 消息转换为 genai 内容，system 消息合并为系统指令
func toContents(input []*schema.Message) ([]*genai.Content, string) {
	var system []string
	contents := make([]*genai.Content, 0, len(input))
	for _, msg := range input {
		if msg == nil {
			continue
		}
		switch msg.Role {
		case schema.System:
			system = append(system, msg.Content)
		case schema.Assistant:
			contents = append(contents, genai.NewContentFromText(msg.Content, genai.RoleModel))
		case schema.User:
			contents = append(contents, genai.NewContentFromText(msg.Content, genai.RoleUser))
		}
	}
	return contents, strings.Join(system, "\n\n")
}
