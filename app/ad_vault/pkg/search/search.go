package search

import (
	"context"
	"errors"

	"github.com/iWorld-y/ad_vault/app/ad_vault/pkg/model"
)

// Searcher 定义通用的广告检索接口
type Searcher interface {
	Search(ctx context.Context, req *Request) (*Response, error)
}

// Request 通用检索请求
type Request struct {
	Query string
	Limit int
	Order string // 例如 longest_running
}

// Response 通用检索响应，Ads 保持上游返回顺序
type Response struct {
	Ads []model.Ad
}

// 上游错误分类，调用方使用 errors.Is 判断
var (
	ErrCredentialInvalid = errors.New("invalid ad search credential")
	ErrRateLimited       = errors.New("ad search rate limit exceeded")
	ErrUpstream          = errors.New("ad search api error")
	ErrMalformedResponse = errors.New("malformed ad search response")
)

// Outcome 将错误归类为指标标签
func Outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrCredentialInvalid):
		return "credential_invalid"
	case errors.Is(err, ErrRateLimited):
		return "rate_limited"
	case errors.Is(err, ErrMalformedResponse):
		return "malformed"
	case errors.Is(err, ErrUpstream):
		return "upstream_error"
	default:
		return "transport_error"
	}
}
