package assistant

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"golang.org/x/time/rate"

	"github.com/iWorld-y/ad_vault/app/ad_vault/pkg/logger"
	"github.com/iWorld-y/ad_vault/app/ad_vault/pkg/metrics"
	dm "github.com/iWorld-y/ad_vault/app/ad_vault/pkg/model"
)

const (
	// ApologyReply 模型调用失败时的固定回复
	ApologyReply = "I'm having trouble connecting right now. Please check your connection."
	// EmptyReply 模型返回空内容时的固定回复
	EmptyReply = "Sorry, I couldn't process that."

	acknowledgement = "Understood. I am ready to help you analyze ads and improve your creative strategy."
)

// Assistant 广告创意对话助手，每次调用都重新发送完整历史
type Assistant struct {
	chatModel model.BaseChatModel
	limiter   *rate.Limiter
	brandName string
}

// New 创建对话助手
func New(cm model.BaseChatModel, limiter *rate.Limiter, brandName string) *Assistant {
	return &Assistant{
		chatModel: cm,
		limiter:   limiter,
		brandName: brandName,
	}
}

// Reply 生成下一条回复，失败时返回固定的致歉文案而不是错误
func (a *Assistant) Reply(ctx context.Context, message, brandContext string, history []dm.ChatTurn) string {
	start := time.Now()
	reply, err := a.reply(ctx, message, brandContext, history)
	if err != nil {
		metrics.ObserveUpstream("assistant", "error", start)
		logger.Log.Errorf("对话助手调用失败: %v", err)
		return ApologyReply
	}
	metrics.ObserveUpstream("assistant", "ok", start)
	if strings.TrimSpace(reply) == "" {
		return EmptyReply
	}
	return reply
}

func (a *Assistant) reply(ctx context.Context, message, brandContext string, history []dm.ChatTurn) (string, error) {
	if a.chatModel == nil {
		return "", fmt.Errorf("chat model not configured")
	}
	if a.limiter != nil {
		if err := a.limiter.Wait(ctx); err != nil {
			return "", err
		}
	}

	resp, err := a.chatModel.Generate(ctx, a.BuildMessages(message, brandContext, history))
	if err != nil {
		return "", err
	}
	return resp.Content, nil
}

// BuildMessages 组装发送给模型的消息：品牌上下文前导、模型确认、历史记录、本次消息
func (a *Assistant) BuildMessages(message, brandContext string, history []dm.ChatTurn) []*schema.Message {
	preamble := fmt.Sprintf("System Context: You are an ad creative assistant helping a user analyze ads for the brand %q. %s", a.brandName, brandContext)

	messages := make([]*schema.Message, 0, len(history)+3)
	messages = append(messages,
		schema.UserMessage(preamble),
		schema.AssistantMessage(acknowledgement, nil),
	)
	for _, turn := range history {
		if turn.Role == dm.RoleModel {
			messages = append(messages, schema.AssistantMessage(turn.Text, nil))
		} else {
			messages = append(messages, schema.UserMessage(turn.Text))
		}
	}
	return append(messages, schema.UserMessage(message))
}

// Conversation 单个会话的对话记录
type Conversation struct {
	mu        sync.Mutex
	assistant *Assistant
	context   string
	turns     []dm.ChatTurn
}

// NewConversation 创建会话，context 会注入到每次请求的前导中
func NewConversation(a *Assistant, brandContext string) *Conversation {
	return &Conversation{assistant: a, context: brandContext}
}

// Send 发送一条消息并记录双方的发言，空白消息直接忽略
func (c *Conversation) Send(ctx context.Context, message string) (string, bool) {
	if strings.TrimSpace(message) == "" {
		return "", false
	}

	c.mu.Lock()
	history := append([]dm.ChatTurn(nil), c.turns...)
	c.turns = append(c.turns, dm.ChatTurn{Role: dm.RoleUser, Text: message})
	c.mu.Unlock()

	reply := c.assistant.Reply(ctx, message, c.context, history)

	c.mu.Lock()
	c.turns = append(c.turns, dm.ChatTurn{Role: dm.RoleModel, Text: reply})
	c.mu.Unlock()

	return reply, true
}

// Transcript 返回对话记录的拷贝
func (c *Conversation) Transcript() []dm.ChatTurn {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]dm.ChatTurn(nil), c.turns...)
}
