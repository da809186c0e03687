package repo

import (
	"context"

	"github.com/iWorld-y/ad_vault/app/ad_vault/pkg/dashboard"
	"github.com/iWorld-y/ad_vault/app/ad_vault/pkg/model"
	"github.com/iWorld-y/ad_vault/app/ad_vault/pkg/strategy"
)

// DashboardRepo 仪表盘状态仓库接口
type DashboardRepo interface {
	// Brand 返回品牌档案
	Brand() model.BrandProfile
	// GenerateStrategies 生成策略并替换标签页
	GenerateStrategies(ctx context.Context) (strategy.Result, error)
	// Snapshot 返回当前状态
	Snapshot() dashboard.State
	SelectTab(index int) error
	Toggle(id string, selected bool) error
	ClearSelection() error
	SetCredential(key string) error
	// StartUpload 对当前选择集发起保存
	StartUpload() (string, error)
}

// ChatRepo 对话会话接口
type ChatRepo interface {
	Send(ctx context.Context, message string) (string, bool)
	Transcript() []model.ChatTurn
}
