package llm

import (
	"context"
	"errors"
	"testing"

	"github.com/iWorld-y/ad_vault/app/ad_vault/pkg/config"
)

func TestCleanJSON(t *testing.T) {
	tests := map[string]string{
		"```json\n[1]\n```": "[1]",
		"```\n{}\n```":      "{}",
		"  [2]  ":           "[2]",
	}
	for in, want := range tests {
		if got := CleanJSON(in); got != want {
			t.Errorf("CleanJSON(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestIsRateLimited(t *testing.T) {
	if IsRateLimited(nil) {
		t.Errorf("IsRateLimited(nil) = true")
	}
	for _, msg := range []string{"status 429", "Too Many Requests", "Error 429, Status: RESOURCE_EXHAUSTED"} {
		if !IsRateLimited(errors.New(msg)) {
			t.Errorf("IsRateLimited(%q) = false", msg)
		}
	}
	if IsRateLimited(errors.New("401 unauthorized")) {
		t.Errorf("IsRateLimited(401) = true")
	}
}

func TestNewChatModel_Errors(t *testing.T) {
	if _, err := NewChatModel(context.Background(), config.LLMConfig{Provider: "claude"}, ""); err == nil {
		t.Errorf("NewChatModel() unknown provider returned no error")
	}
	if _, err := NewChatModel(context.Background(), config.LLMConfig{Provider: "gemini", Model: "m"}, ""); err == nil {
		t.Errorf("NewChatModel() gemini without key returned no error")
	}
}
