package gemini

import (
	"testing"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"google.golang.org/genai"
)

func TestToContents(t *testing.T) {
	contents, system := toContents([]*schema.Message{
		schema.SystemMessage("be terse"),
		schema.UserMessage("hi"),
		nil,
		schema.AssistantMessage("hello", nil),
		schema.SystemMessage("json only"),
	})

	if system != "be terse\n\njson only" {
		t.Errorf("system = %q", system)
	}
	if len(contents) != 2 {
		t.Fatalf("len(contents) = %d, want 2", len(contents))
	}
	if contents[0].Role != genai.RoleUser || contents[0].Parts[0].Text != "hi" {
		t.Errorf("contents[0] = %+v", contents[0])
	}
	if contents[1].Role != genai.RoleModel || contents[1].Parts[0].Text != "hello" {
		t.Errorf("contents[1] = %+v", contents[1])
	}
}

func TestOptions(t *testing.T) {
	s := &genai.Schema{Type: genai.TypeArray}
	opts := model.GetImplSpecificOptions(&Options{}, WithResponseSchema(s), WithThinkingBudget(2048))

	if opts.ResponseSchema != s {
		t.Errorf("ResponseSchema not applied")
	}
	if opts.ThinkingBudget == nil || *opts.ThinkingBudget != 2048 {
		t.Errorf("ThinkingBudget = %v", opts.ThinkingBudget)
	}
}

func TestNewChatModel_Validation(t *testing.T) {
	if _, err := NewChatModel(t.Context(), &Config{Model: "m"}); err == nil {
		t.Errorf("NewChatModel() without api key returned no error")
	}
	if _, err := NewChatModel(t.Context(), &Config{APIKey: "k"}); err == nil {
		t.Errorf("NewChatModel() without model returned no error")
	}
}
