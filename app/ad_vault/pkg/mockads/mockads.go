package mockads

import (
	"context"
	"strings"

	"github.com/iWorld-y/ad_vault/app/ad_vault/pkg/model"
	"github.com/iWorld-y/ad_vault/app/ad_vault/pkg/search"
)

func days(n int) *model.RunningDuration { return &model.RunningDuration{Days: n} }

// dataset 未配置 Foreplay 凭证时使用的演示数据
var dataset = []model.Ad{
	{
		ID:                "ad_001",
		BrandName:         "GlowRecipe",
		Title:             "Watermelon Glow Serum",
		Description:       "Hydrate and smooth your skin with our best-selling serum.",
		DisplayFormat:     model.FormatVideo,
		PublisherPlatform: []string{"instagram", "tiktok"},
		RunningDuration:   days(450),
		Thumbnail:         "https://picsum.photos/400/600?random=1",
		CreatedAt:         "2023-05-15T10:30:00Z",
	},
	{
		ID:                "ad_002",
		BrandName:         "CeraVe",
		Title:             "Daily Moisturizing Lotion",
		Description:       "Developed with dermatologists. Restore your protective skin barrier.",
		DisplayFormat:     model.FormatImage,
		PublisherPlatform: []string{"facebook"},
		RunningDuration:   days(890),
		Thumbnail:         "https://picsum.photos/400/400?random=2",
		CreatedAt:         "2022-01-10T08:00:00Z",
	},
	{
		ID:                "ad_003",
		BrandName:         "The Ordinary",
		Title:             "Niacinamide 10% + Zinc 1%",
		Description:       "Target blemishes and congestion with high-strength vitamin and mineral formula.",
		DisplayFormat:     model.FormatVideo,
		PublisherPlatform: []string{"tiktok"},
		RunningDuration:   days(120),
		Thumbnail:         "https://picsum.photos/400/700?random=3",
		CreatedAt:         "2024-01-20T14:15:00Z",
	},
	{
		ID:                "ad_004",
		BrandName:         "La Roche-Posay",
		Title:             "Anthelios Melt-in Milk Sunscreen",
		Description:       "Broad spectrum SPF 100. Fast absorbing, velvety finish.",
		DisplayFormat:     model.FormatCarousel,
		PublisherPlatform: []string{"facebook", "instagram"},
		RunningDuration:   days(600),
		Thumbnail:         "https://picsum.photos/600/600?random=4",
		CreatedAt:         "2023-03-01T09:00:00Z",
	},
	{
		ID:                "ad_005",
		BrandName:         "Paula's Choice",
		Title:             "2% BHA Liquid Exfoliant",
		Description:       "#1 product worldwide. Unclog pores and smooth wrinkles.",
		DisplayFormat:     model.FormatVideo,
		PublisherPlatform: []string{"youtube", "instagram"},
		RunningDuration:   days(365),
		Thumbnail:         "https://picsum.photos/400/600?random=5",
		CreatedAt:         "2023-08-15T16:20:00Z",
	},
	{
		ID:                "ad_006",
		BrandName:         "Youth To The People",
		Title:             "Superfood Cleanser",
		Description:       "Kale + Green Tea Spinach Vitamins. The green juice cleanse for your face.",
		DisplayFormat:     model.FormatVideo,
		PublisherPlatform: []string{"tiktok"},
		RunningDuration:   days(200),
		Thumbnail:         "https://picsum.photos/400/700?random=6",
		CreatedAt:         "2023-11-05T11:00:00Z",
	},
	{
		ID:                "ad_007",
		BrandName:         "Drunk Elephant",
		Title:             "Protini Polypeptide Cream",
		Description:       "Strengthen and moisturize. Like adding a shot of protein to your smoothie.",
		DisplayFormat:     model.FormatImage,
		PublisherPlatform: []string{"instagram"},
		RunningDuration:   days(150),
		Thumbnail:         "https://picsum.photos/500/500?random=7",
		CreatedAt:         "2023-12-01T10:00:00Z",
	},
	{
		ID:                "ad_008",
		BrandName:         "Tatcha",
		Title:             "The Dewy Skin Cream",
		Description:       "Rich cream to feed skin with plumping hydration and antioxidant-packed Japanese purple rice.",
		DisplayFormat:     model.FormatVideo,
		PublisherPlatform: []string{"facebook"},
		RunningDuration:   days(90),
		Thumbnail:         "https://picsum.photos/400/500?random=8",
		CreatedAt:         "2024-02-14T09:30:00Z",
	},
}

// All 返回完整演示数据的拷贝
func All() []model.Ad {
	out := make([]model.Ad, len(dataset))
	for i, ad := range dataset {
		out[i] = clone(ad)
	}
	return out
}

// Filter 按检索词过滤演示数据（忽略大小写）：
// 整个检索词或其中任意一个空白分隔的词出现在标题、描述或品牌名中即命中
func Filter(term string) []model.Ad {
	q := strings.ToLower(term)
	tokens := strings.Fields(q)

	out := make([]model.Ad, 0, len(dataset))
	for _, ad := range dataset {
		if matches(ad, q, tokens) {
			out = append(out, clone(ad))
		}
	}
	return out
}

func matches(ad model.Ad, q string, tokens []string) bool {
	fields := []string{
		strings.ToLower(ad.Title),
		strings.ToLower(ad.Description),
		strings.ToLower(ad.BrandName),
	}
	for _, f := range fields {
		if strings.Contains(f, q) {
			return true
		}
	}
	for _, tok := range tokens {
		for _, f := range fields {
			if strings.Contains(f, tok) {
				return true
			}
		}
	}
	return false
}

func clone(ad model.Ad) model.Ad {
	ad.PublisherPlatform = append([]string(nil), ad.PublisherPlatform...)
	if ad.RunningDuration != nil {
		d := *ad.RunningDuration
		ad.RunningDuration = &d
	}
	return ad
}

// Searcher 基于演示数据的检索实现
type Searcher struct{}

// Ensure Searcher implements search.Searcher
var _ search.Searcher = Searcher{}

// Search implements search.Searcher
func (Searcher) Search(_ context.Context, req *search.Request) (*search.Response, error) {
	ads := Filter(req.Query)
	if req.Limit > 0 && len(ads) > req.Limit {
		ads = ads[:req.Limit]
	}
	return &search.Response{Ads: ads}, nil
}
