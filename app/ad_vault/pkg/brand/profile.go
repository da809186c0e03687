package brand

import "github.com/iWorld-y/ad_vault/app/ad_vault/pkg/model"

// DermaBotanica 内置的客户品牌档案
var DermaBotanica = model.BrandProfile{
	Name:       "Derma Botanica",
	Overview:   "Derma Botanica offers dermatologist-developed skincare that blends science and nature to deliver visible results like smoother, firmer, and younger-looking skin. The brand emphasizes effective yet gentle routines for sensitive skin, backed by a 60-day money-back guarantee.",
	WebsiteURL: "https://www.dermabotanica.com/",
	BrandValues: []string{
		"Scientifically-backed efficacy",
		"Gentle and non-irritating formulas",
		"Simplicity and consistency",
		"Ethical and clean ingredients",
		"Customer confidence",
	},
	VisualAesthetics: []string{"modern", "clinical", "botanical", "sophisticated", "minimalist"},
	ToneOfVoice:      []string{"Authoritative", "Reassuring", "Clinical", "Confidence-boosting"},
}

// Resolve 返回配置的品牌档案，未配置时使用内置档案。返回值为深拷贝
func Resolve(p *model.BrandProfile) model.BrandProfile {
	src := DermaBotanica
	if p != nil && p.Name != "" {
		src = *p
	}
	return model.BrandProfile{
		Name:             src.Name,
		Overview:         src.Overview,
		WebsiteURL:       src.WebsiteURL,
		BrandValues:      append([]string(nil), src.BrandValues...),
		VisualAesthetics: append([]string(nil), src.VisualAesthetics...),
		ToneOfVoice:      append([]string(nil), src.ToneOfVoice...),
	}
}
