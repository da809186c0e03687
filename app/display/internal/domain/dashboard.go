package domain

import (
	"github.com/iWorld-y/ad_vault/app/ad_vault/pkg/model"
	"github.com/iWorld-y/ad_vault/app/ad_vault/pkg/upload"
)

// Tab 策略标签页
type Tab struct {
	Term         string            `json:"term"`
	Rationale    string            `json:"rationale"`
	Status       model.QueryStatus `json:"status"`
	ResultsCount int               `json:"results_count"`
	Loading      bool              `json:"loading"`
}

// Dashboard 仪表盘视图
type Dashboard struct {
	Mode          string        `json:"mode"`
	Tabs          []Tab         `json:"tabs"`
	ActiveTab     int           `json:"active_tab"`
	Strategy      string        `json:"strategy,omitempty"` // 当前标签页的策略说明
	Loading       bool          `json:"loading"`
	Ads           []model.Ad    `json:"ads"`
	Notice        string        `json:"notice,omitempty"`
	SelectedIDs   []string      `json:"selected_ids"`
	SelectedCount int           `json:"selected_count"`
	MaxSelection  int           `json:"max_selection"`
	Upload        upload.Status `json:"upload"`
	Fallback      bool          `json:"fallback,omitempty"` // 策略是否来自兜底
}

// Profile 品牌档案视图
type Profile struct {
	Brand model.BrandProfile `json:"brand"`
	Mode  string             `json:"mode"`
}

// Conversation 对话记录
type Conversation struct {
	Turns []model.ChatTurn `json:"turns"`
}
