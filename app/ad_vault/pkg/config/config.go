package config

import (
	"errors"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/iWorld-y/ad_vault/app/ad_vault/pkg/model"
)

// 环境变量中的凭证
const (
	EnvAIKey       = "API_KEY"
	EnvForeplayKey = "FOREPLAY_API_KEY"
)

// Config 项目配置结构体
type Config struct {
	LLM         LLMConfig           `yaml:"llm"`
	Search      SearchConfig        `yaml:"search"`
	Brand       *model.BrandProfile `yaml:"brand"` // 为空时使用内置品牌档案
	Enrich      EnrichConfig        `yaml:"enrich"`
	Selection   SelectionConfig     `yaml:"selection"`
	Upload      UploadConfig        `yaml:"upload"`
	Log         LogConfig           `yaml:"log"`
	Concurrency ConcurrencyConfig   `yaml:"concurrency"`
}

// LLMConfig LLM 相关配置
type LLMConfig struct {
	Provider       string `yaml:"provider"` // gemini 或 openai
	BaseURL        string `yaml:"base_url"`
	APIKey         string `yaml:"api_key"`
	Model          string `yaml:"model"`      // 策略生成模型
	ChatModel      string `yaml:"chat_model"` // 对话模型
	ThinkingBudget int    `yaml:"thinking_budget"`
}

// SearchConfig 搜索相关配置
type SearchConfig struct {
	Provider string         `yaml:"provider"`
	Foreplay ForeplayConfig `yaml:"foreplay"`
}

// ForeplayConfig Foreplay 配置
type ForeplayConfig struct {
	BaseURL string `yaml:"base_url"`
	APIKey  string `yaml:"api_key"`
	Timeout int    `yaml:"timeout"` // 秒
	Limit   int    `yaml:"limit"`
	Order   string `yaml:"order"`
}

// EnrichConfig 品牌官网抓取配置
type EnrichConfig struct {
	Website  bool `yaml:"website"`
	Timeout  int  `yaml:"timeout"` // 秒
	MaxChars int  `yaml:"max_chars"`
}

// SelectionConfig 选择集配置
type SelectionConfig struct {
	Max int `yaml:"max"`
}

// UploadConfig 保存任务配置
type UploadConfig struct {
	Mode       string   `yaml:"mode"` // simulated 或 s3
	Step       int      `yaml:"step"`
	IntervalMS int      `yaml:"interval_ms"`
	SettleMS   int      `yaml:"settle_ms"`
	S3         S3Config `yaml:"s3"`
}

// S3Config S3 导出配置
type S3Config struct {
	Region          string `yaml:"region"`
	Bucket          string `yaml:"bucket"`
	Prefix          string `yaml:"prefix"`
	AccessKeyID     string `yaml:"access_key_id"`
	SecretAccessKey string `yaml:"secret_access_key"`
}

// LogConfig 日志相关配置
type LogConfig struct {
	Level      string `yaml:"level"`
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
}

// ConcurrencyConfig 并发控制配置
type ConcurrencyConfig struct {
	QPS int `yaml:"qps"`
	RPM int `yaml:"rpm"`
}

// LoadConfig 从指定路径加载配置，path 为空或文件不存在时仅使用默认值和环境变量
func LoadConfig(path string) (*Config, error) {
	var cfg Config

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, err
			}
		case errors.Is(err, fs.ErrNotExist):
		default:
			return nil, err
		}
	}

	cfg.LoadEnv()
	cfg.ApplyDefaults()

	return &cfg, nil
}

// LoadEnv 读取 .env 和环境变量中的凭证，配置文件中已有的值优先
func (c *Config) LoadEnv() {
	// .env 不存在不算错误
	_ = godotenv.Load()

	if v := strings.TrimSpace(os.Getenv(EnvAIKey)); v != "" && c.LLM.APIKey == "" {
		c.LLM.APIKey = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvForeplayKey)); v != "" && c.Search.Foreplay.APIKey == "" {
		c.Search.Foreplay.APIKey = v
	}
}

// ApplyDefaults 填充未配置的字段
func (c *Config) ApplyDefaults() {
	if c.LLM.Provider == "" {
		c.LLM.Provider = "gemini"
	}
	if c.LLM.Provider == "gemini" {
		if c.LLM.Model == "" {
			c.LLM.Model = "gemini-3-pro-preview"
		}
		if c.LLM.ChatModel == "" {
			c.LLM.ChatModel = "gemini-3-flash-preview"
		}
		if c.LLM.ThinkingBudget == 0 {
			c.LLM.ThinkingBudget = 2048
		}
	}
	if c.LLM.ChatModel == "" {
		c.LLM.ChatModel = c.LLM.Model
	}

	if c.Search.Provider == "" {
		c.Search.Provider = "foreplay"
	}
	if c.Search.Foreplay.BaseURL == "" {
		c.Search.Foreplay.BaseURL = "https://public.api.foreplay.co"
	}
	if c.Search.Foreplay.Timeout == 0 {
		c.Search.Foreplay.Timeout = 30
	}
	if c.Search.Foreplay.Limit == 0 {
		c.Search.Foreplay.Limit = 20
	}
	if c.Search.Foreplay.Order == "" {
		c.Search.Foreplay.Order = "longest_running"
	}

	if c.Enrich.Timeout == 0 {
		c.Enrich.Timeout = 30
	}
	if c.Enrich.MaxChars == 0 {
		c.Enrich.MaxChars = 3000
	}

	if c.Selection.Max == 0 {
		c.Selection.Max = 20
	}

	if c.Upload.Mode == "" {
		c.Upload.Mode = "simulated"
	}
	if c.Upload.Step == 0 {
		c.Upload.Step = 5
	}
	if c.Upload.IntervalMS == 0 {
		c.Upload.IntervalMS = 150
	}
	if c.Upload.SettleMS == 0 {
		c.Upload.SettleMS = 3000
	}
	if c.Upload.S3.Prefix == "" {
		c.Upload.S3.Prefix = "exports"
	}

	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.MaxSizeMB == 0 {
		c.Log.MaxSizeMB = 50
	}
	if c.Log.MaxBackups == 0 {
		c.Log.MaxBackups = 3
	}

	if c.Concurrency.QPS == 0 {
		c.Concurrency.QPS = 2
	}
	if c.Concurrency.RPM == 0 {
		c.Concurrency.RPM = 60
	}
}
