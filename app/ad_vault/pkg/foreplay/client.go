package foreplay

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/iWorld-y/ad_vault/app/ad_vault/pkg/model"
	"github.com/iWorld-y/ad_vault/app/ad_vault/pkg/search"
)

const (
	defaultBaseURL   = "https://public.api.foreplay.co"
	defaultThumbnail = "https://picsum.photos/400/400"
)

// Client Foreplay 广告发现 API 客户端
type Client struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// NewClient 创建一个新的 Foreplay 客户端，timeout 单位为秒
func NewClient(baseURL, apiKey string, timeout int) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	t := time.Duration(timeout) * time.Second
	if t == 0 {
		t = 30 * time.Second
	}
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		client: &http.Client{
			Timeout: t,
		},
	}
}

// Ensure Client implements search.Searcher
var _ search.Searcher = (*Client)(nil)

// SearchResponse Foreplay 响应结构，data 缺失视为格式错误
type SearchResponse struct {
	Data *[]AdItem `json:"data"`
}

// AdItem Foreplay 单条广告，除 id 外的字段都可能缺失
type AdItem struct {
	ID                string                 `json:"id"`
	BrandName         string                 `json:"brand_name"`
	Title             string                 `json:"title"`
	Description       string                 `json:"description"`
	DisplayFormat     string                 `json:"display_format"`
	PublisherPlatform []string               `json:"publisher_platform"`
	RunningDuration   *model.RunningDuration `json:"running_duration"`
	Thumbnail         string                 `json:"thumbnail"`
	Video             string                 `json:"video"`
	Image             string                 `json:"image"`
	CreatedAt         string                 `json:"created_at"`
}

// Search 执行检索
func (c *Client) Search(ctx context.Context, req *search.Request) (*search.Response, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}
	u.Path = "/api/discovery/ads"

	limit := req.Limit
	if limit <= 0 {
		limit = 20
	}
	order := req.Order
	if order == "" {
		order = "longest_running" // 以投放时长近似“效果最好”
	}

	q := u.Query()
	q.Set("query", req.Query)
	q.Set("limit", strconv.Itoa(limit))
	q.Set("order", order)
	u.RawQuery = q.Encode()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request failed: %w", err)
	}
	httpReq.Header.Set("Authorization", c.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	res, err := c.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(res.Body, 4096))
		switch res.StatusCode {
		case http.StatusUnauthorized:
			return nil, fmt.Errorf("%w (status %d)", search.ErrCredentialInvalid, res.StatusCode)
		case http.StatusTooManyRequests:
			return nil, fmt.Errorf("%w (status %d)", search.ErrRateLimited, res.StatusCode)
		default:
			return nil, fmt.Errorf("%w (status %d): %s", search.ErrUpstream, res.StatusCode, string(body))
		}
	}

	var searchResp SearchResponse
	if err := json.NewDecoder(res.Body).Decode(&searchResp); err != nil {
		return nil, fmt.Errorf("%w: %v", search.ErrMalformedResponse, err)
	}
	if searchResp.Data == nil {
		return nil, fmt.Errorf("%w: missing data field", search.ErrMalformedResponse)
	}

	ads := make([]model.Ad, 0, len(*searchResp.Data))
	for _, item := range *searchResp.Data {
		if item.ID == "" {
			continue
		}
		ads = append(ads, Normalize(item))
	}

	return &search.Response{Ads: ads}, nil
}

// Normalize 将上游记录转换为 model.Ad，缺失字段使用固定默认值
func Normalize(item AdItem) model.Ad {
	ad := model.Ad{
		ID:                item.ID,
		BrandName:         item.BrandName,
		Title:             item.Title,
		Description:       item.Description,
		DisplayFormat:     model.ParseDisplayFormat(item.DisplayFormat),
		PublisherPlatform: item.PublisherPlatform,
		RunningDuration:   item.RunningDuration,
		Thumbnail:         item.Thumbnail,
		VideoURL:          item.Video,
		ImageURL:          item.Image,
		CreatedAt:         item.CreatedAt,
	}
	if ad.BrandName == "" {
		ad.BrandName = "Unknown Brand"
	}
	if ad.Title == "" {
		ad.Title = "Untitled Ad"
	}
	if ad.PublisherPlatform == nil {
		ad.PublisherPlatform = []string{}
	}
	if ad.Thumbnail == "" {
		ad.Thumbnail = defaultThumbnail
	}
	return ad
}
