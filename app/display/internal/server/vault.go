package server

import (
	"context"
	"time"

	"github.com/go-kratos/kratos/v2/log"

	"github.com/iWorld-y/ad_vault/app/ad_vault/pkg/config"
	"github.com/iWorld-y/ad_vault/app/ad_vault/pkg/engine"
	avLogger "github.com/iWorld-y/ad_vault/app/ad_vault/pkg/logger"
	"github.com/iWorld-y/ad_vault/app/ad_vault/pkg/model"
	"github.com/iWorld-y/ad_vault/app/display/internal/conf"
)

// ToConfig 将 internal/conf.Vault 转换为 pkg/config.Config，未配置的字段使用默认值
func ToConfig(c *conf.Vault) *config.Config {
	cfg := &config.Config{}
	if c == nil {
		cfg.LoadEnv()
		cfg.ApplyDefaults()
		return cfg
	}

	if c.Llm != nil {
		cfg.LLM = config.LLMConfig{
			Provider:       c.Llm.Provider,
			BaseURL:        c.Llm.BaseUrl,
			APIKey:         c.Llm.ApiKey,
			Model:          c.Llm.Model,
			ChatModel:      c.Llm.ChatModel,
			ThinkingBudget: int(c.Llm.ThinkingBudget),
		}
	}
	if c.Search != nil {
		cfg.Search.Provider = c.Search.Provider
		if f := c.Search.Foreplay; f != nil {
			cfg.Search.Foreplay = config.ForeplayConfig{
				BaseURL: f.BaseUrl,
				APIKey:  f.ApiKey,
				Timeout: int(f.Timeout),
				Limit:   int(f.Limit),
				Order:   f.Order,
			}
		}
	}
	if b := c.Brand; b != nil {
		cfg.Brand = &model.BrandProfile{
			Name:             b.Name,
			Overview:         b.Overview,
			WebsiteURL:       b.WebsiteUrl,
			BrandValues:      b.BrandValues,
			VisualAesthetics: b.VisualAesthetics,
			ToneOfVoice:      b.ToneOfVoice,
		}
	}
	if e := c.Enrich; e != nil {
		cfg.Enrich = config.EnrichConfig{
			Website:  e.Website,
			Timeout:  int(e.Timeout),
			MaxChars: int(e.MaxChars),
		}
	}
	if c.Selection != nil {
		cfg.Selection.Max = int(c.Selection.Max)
	}
	if u := c.Upload; u != nil {
		cfg.Upload = config.UploadConfig{
			Mode:       u.Mode,
			Step:       int(u.Step),
			IntervalMS: int(u.IntervalMs),
			SettleMS:   int(u.SettleMs),
		}
		if u.S3 != nil {
			cfg.Upload.S3 = config.S3Config{
				Region:          u.S3.Region,
				Bucket:          u.S3.Bucket,
				Prefix:          u.S3.Prefix,
				AccessKeyID:     u.S3.AccessKeyId,
				SecretAccessKey: u.S3.SecretAccessKey,
			}
		}
	}
	if c.Log != nil {
		cfg.Log = config.LogConfig{
			Level:      c.Log.Level,
			File:       c.Log.File,
			MaxSizeMB:  int(c.Log.MaxSizeMb),
			MaxBackups: int(c.Log.MaxBackups),
		}
	}
	if c.Concurrency != nil {
		cfg.Concurrency = config.ConcurrencyConfig{
			QPS: int(c.Concurrency.Qps),
			RPM: int(c.Concurrency.Rpm),
		}
	}

	cfg.LoadEnv()
	cfg.ApplyDefaults()
	return cfg
}

// NewVaultEngine 初始化 ad_vault 引擎
func NewVaultEngine(c *conf.Vault, logger log.Logger) (*engine.Engine, func(), error) {
	cfg := ToConfig(c)
	helper := log.NewHelper(logger)

	// 初始化日志
	if err := avLogger.InitLogger(avLogger.Options{
		Level:      cfg.Log.Level,
		File:       cfg.Log.File,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
	}); err != nil {
		helper.Errorf("Failed to init ad_vault logger: %v", err)
		_ = avLogger.InitLogger(avLogger.Options{Level: "info"}) // 降级处理
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// 初始化核心引擎
	eng, err := engine.NewEngine(ctx, cfg)
	if err != nil {
		helper.Errorf("Failed to init engine: %v", err)
		return nil, nil, err
	}

	cleanup := func() {
		helper.Info("Cleaning up ad_vault engine")
		eng.Close()
	}

	return eng, cleanup, nil
}
