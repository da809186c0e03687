package factory

import (
	"fmt"

	"github.com/iWorld-y/ad_vault/app/ad_vault/pkg/config"
	"github.com/iWorld-y/ad_vault/app/ad_vault/pkg/foreplay"
	"github.com/iWorld-y/ad_vault/app/ad_vault/pkg/mockads"
	"github.com/iWorld-y/ad_vault/app/ad_vault/pkg/search"
)

// NewSearcher 根据配置和凭证创建检索实例，凭证为空时回退到演示数据
func NewSearcher(cfg config.SearchConfig, credential string) (search.Searcher, error) {
	if credential == "" {
		return mockads.Searcher{}, nil
	}

	switch cfg.Provider {
	case "", "foreplay":
		return foreplay.NewClient(cfg.Foreplay.BaseURL, credential, cfg.Foreplay.Timeout), nil
	case "mock":
		return mockads.Searcher{}, nil
	default:
		return nil, fmt.Errorf("unknown search provider: %s", cfg.Provider)
	}
}
