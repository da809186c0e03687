package data

import (
	"context"

	"github.com/go-kratos/kratos/v2/log"

	"github.com/iWorld-y/ad_vault/app/ad_vault/pkg/assistant"
	"github.com/iWorld-y/ad_vault/app/ad_vault/pkg/dashboard"
	"github.com/iWorld-y/ad_vault/app/ad_vault/pkg/engine"
	"github.com/iWorld-y/ad_vault/app/ad_vault/pkg/model"
	"github.com/iWorld-y/ad_vault/app/ad_vault/pkg/strategy"
	"github.com/iWorld-y/ad_vault/app/display/internal/repo"
)

type dashboardRepo struct {
	eng *engine.Engine
	log *log.Helper
}

// NewDashboardRepo 基于引擎的仪表盘仓库
func NewDashboardRepo(eng *engine.Engine, logger log.Logger) repo.DashboardRepo {
	return &dashboardRepo{
		eng: eng,
		log: log.NewHelper(logger),
	}
}

func (r *dashboardRepo) Brand() model.BrandProfile {
	return r.eng.Brand()
}

func (r *dashboardRepo) GenerateStrategies(ctx context.Context) (strategy.Result, error) {
	res, err := r.eng.GenerateStrategies(ctx)
	if res.Fallback {
		r.log.Warnf("strategy generation fell back to defaults: %v", res.Err)
	}
	return res, err
}

func (r *dashboardRepo) Snapshot() dashboard.State {
	return r.eng.Store().Snapshot()
}

func (r *dashboardRepo) SelectTab(index int) error {
	return r.eng.Store().SelectTab(index)
}

func (r *dashboardRepo) Toggle(id string, selected bool) error {
	return r.eng.Store().Toggle(id, selected)
}

func (r *dashboardRepo) ClearSelection() error {
	return r.eng.Store().ClearSelection()
}

func (r *dashboardRepo) SetCredential(key string) error {
	return r.eng.Store().SetCredential(key)
}

func (r *dashboardRepo) StartUpload() (string, error) {
	id, err := r.eng.Store().StartUpload()
	if err == nil {
		r.log.Infof("upload job %s started", id)
	}
	return id, err
}

// NewChatRepo 单个进程共用一个对话会话
func NewChatRepo(eng *engine.Engine) repo.ChatRepo {
	return chatRepo{eng.NewConversation()}
}

type chatRepo struct {
	*assistant.Conversation
}
