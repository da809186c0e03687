package usecase

import (
	"context"
	stderrors "errors"
	"fmt"

	"github.com/go-kratos/kratos/v2/errors"
	"github.com/go-kratos/kratos/v2/log"

	"github.com/iWorld-y/ad_vault/app/ad_vault/pkg/dashboard"
	"github.com/iWorld-y/ad_vault/app/display/internal/domain"
	"github.com/iWorld-y/ad_vault/app/display/internal/repo"
)

// DashboardUseCase 仪表盘业务逻辑
type DashboardUseCase struct {
	repo repo.DashboardRepo
	chat repo.ChatRepo
	log  *log.Helper
}

// NewDashboardUseCase 创建仪表盘业务逻辑实例
func NewDashboardUseCase(repo repo.DashboardRepo, chat repo.ChatRepo, logger log.Logger) *DashboardUseCase {
	return &DashboardUseCase{repo: repo, chat: chat, log: log.NewHelper(logger)}
}

// Profile 品牌档案
func (uc *DashboardUseCase) Profile() *domain.Profile {
	return &domain.Profile{
		Brand: uc.repo.Brand(),
		Mode:  uc.repo.Snapshot().Mode(),
	}
}

// Generate 生成策略，返回新的仪表盘
func (uc *DashboardUseCase) Generate(ctx context.Context) (*domain.Dashboard, error) {
	res, err := uc.repo.GenerateStrategies(ctx)
	if err != nil {
		return nil, mapError(err)
	}
	d := toDashboard(uc.repo.Snapshot())
	d.Fallback = res.Fallback
	return d, nil
}

// Dashboard 当前仪表盘
func (uc *DashboardUseCase) Dashboard() *domain.Dashboard {
	return toDashboard(uc.repo.Snapshot())
}

// SelectTab 切换标签页
func (uc *DashboardUseCase) SelectTab(index int) (*domain.Dashboard, error) {
	if err := uc.repo.SelectTab(index); err != nil {
		return nil, mapError(err)
	}
	return uc.Dashboard(), nil
}

// ToggleAd 选中或取消选中广告
func (uc *DashboardUseCase) ToggleAd(id string, selected bool) (*domain.Dashboard, error) {
	if err := uc.repo.Toggle(id, selected); err != nil {
		if stderrors.Is(err, dashboard.ErrSelectionFull) {
			limit := uc.repo.Snapshot().Selection.Max()
			return nil, errors.Conflict("SELECTION_FULL", fmt.Sprintf("You can only select up to %d ads.", limit))
		}
		return nil, mapError(err)
	}
	return uc.Dashboard(), nil
}

// ClearSelection 清空选择集
func (uc *DashboardUseCase) ClearSelection() (*domain.Dashboard, error) {
	if err := uc.repo.ClearSelection(); err != nil {
		return nil, mapError(err)
	}
	return uc.Dashboard(), nil
}

// SetCredential 设置 Foreplay 凭证，空字符串切回演示数据
func (uc *DashboardUseCase) SetCredential(key string) (*domain.Profile, error) {
	if err := uc.repo.SetCredential(key); err != nil {
		return nil, mapError(err)
	}
	return uc.Profile(), nil
}

// StartUpload 保存当前选择集
func (uc *DashboardUseCase) StartUpload() (*domain.Dashboard, error) {
	if _, err := uc.repo.StartUpload(); err != nil {
		return nil, mapError(err)
	}
	return uc.Dashboard(), nil
}

// Chat 发送一条对话消息，返回完整记录
func (uc *DashboardUseCase) Chat(ctx context.Context, message string) (*domain.Conversation, error) {
	if _, sent := uc.chat.Send(ctx, message); !sent {
		return nil, errors.BadRequest("EMPTY_MESSAGE", "message must not be blank")
	}
	return uc.Transcript(), nil
}

// Transcript 对话记录
func (uc *DashboardUseCase) Transcript() *domain.Conversation {
	return &domain.Conversation{Turns: uc.chat.Transcript()}
}

func toDashboard(s dashboard.State) *domain.Dashboard {
	d := &domain.Dashboard{
		Mode:          s.Mode(),
		Tabs:          make([]domain.Tab, 0, len(s.Queries)),
		ActiveTab:     s.ActiveTab,
		Loading:       s.ActiveLoading(),
		Notice:        s.Notice,
		SelectedIDs:   s.Selection.IDs(),
		SelectedCount: s.Selection.Len(),
		MaxSelection:  s.Selection.Max(),
		Upload:        s.Upload,
	}
	for i, q := range s.Queries {
		d.Tabs = append(d.Tabs, domain.Tab{
			Term:         q.Term,
			Rationale:    q.Rationale,
			Status:       q.Status,
			ResultsCount: q.ResultsCount,
			Loading:      s.Loading[i],
		})
	}
	if q, ok := s.ActiveQuery(); ok {
		d.Strategy = q.Rationale
	}
	if ads, ok := s.ActiveResults(); ok {
		d.Ads = ads
	}
	if d.Notice == "" {
		d.Notice = s.EmptyNotice()
	}
	return d
}

func mapError(err error) error {
	switch {
	case stderrors.Is(err, dashboard.ErrNothingSelected):
		return errors.Conflict("NOTHING_SELECTED", "select at least one ad to save")
	case stderrors.Is(err, dashboard.ErrUploadInProgress):
		return errors.Conflict("UPLOAD_IN_PROGRESS", "an upload is already in progress")
	case stderrors.Is(err, dashboard.ErrTabOutOfRange):
		return errors.BadRequest("TAB_OUT_OF_RANGE", "tab index out of range")
	case stderrors.Is(err, dashboard.ErrStoreClosed):
		return errors.ServiceUnavailable("SHUTTING_DOWN", "server is shutting down")
	default:
		return errors.InternalServer("INTERNAL", err.Error())
	}
}
