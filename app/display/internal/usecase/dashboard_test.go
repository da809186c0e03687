package usecase

import (
	"context"
	"testing"

	"github.com/go-kratos/kratos/v2/errors"
	"github.com/go-kratos/kratos/v2/log"

	"github.com/iWorld-y/ad_vault/app/ad_vault/pkg/dashboard"
	"github.com/iWorld-y/ad_vault/app/ad_vault/pkg/model"
	"github.com/iWorld-y/ad_vault/app/ad_vault/pkg/strategy"
)

// mockDashboardRepo 模拟仪表盘仓库，直接驱动 Reduce
type mockDashboardRepo struct {
	state dashboard.State
}

func newMockRepo(max int) *mockDashboardRepo {
	return &mockDashboardRepo{state: dashboard.NewState(max)}
}

func (m *mockDashboardRepo) apply(msg dashboard.Msg) error {
	next, _, err := dashboard.Reduce(m.state, msg)
	m.state = next
	return err
}

func (m *mockDashboardRepo) Brand() model.BrandProfile {
	return model.BrandProfile{Name: "Test Brand"}
}

func (m *mockDashboardRepo) GenerateStrategies(ctx context.Context) (strategy.Result, error) {
	res := strategy.Result{Queries: strategy.Fallback(), Fallback: true}
	return res, m.apply(dashboard.QueriesReplaced{Queries: res.Queries})
}

func (m *mockDashboardRepo) Snapshot() dashboard.State { return m.state }

func (m *mockDashboardRepo) SelectTab(index int) error {
	return m.apply(dashboard.TabSelected{Index: index})
}

func (m *mockDashboardRepo) Toggle(id string, selected bool) error {
	return m.apply(dashboard.AdToggled{ID: id, Selected: selected})
}

func (m *mockDashboardRepo) ClearSelection() error {
	return m.apply(dashboard.SelectionCleared{})
}

func (m *mockDashboardRepo) SetCredential(key string) error {
	return m.apply(dashboard.CredentialSet{Key: key})
}

func (m *mockDashboardRepo) StartUpload() (string, error) {
	return "job", m.apply(dashboard.UploadRequested{JobID: "job"})
}

// mockChatRepo 模拟对话会话
type mockChatRepo struct {
	turns []model.ChatTurn
}

func (m *mockChatRepo) Send(ctx context.Context, message string) (string, bool) {
	if message == "" {
		return "", false
	}
	m.turns = append(m.turns, model.ChatTurn{Role: model.RoleUser, Text: message}, model.ChatTurn{Role: model.RoleModel, Text: "ok"})
	return "ok", true
}

func (m *mockChatRepo) Transcript() []model.ChatTurn { return m.turns }

func newTestUseCase(max int) (*DashboardUseCase, *mockDashboardRepo) {
	repo := newMockRepo(max)
	return NewDashboardUseCase(repo, &mockChatRepo{}, log.DefaultLogger), repo
}

func TestDashboardUseCase_Generate(t *testing.T) {
	uc, _ := newTestUseCase(0)

	d, err := uc.Generate(context.Background())
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if len(d.Tabs) != 3 || !d.Fallback {
		t.Errorf("Generate() = %+v", d)
	}
	if !d.Loading || !d.Tabs[0].Loading || d.Tabs[0].Status != model.QuerySearching {
		t.Errorf("first tab should be loading: %+v", d.Tabs[0])
	}
	if d.Strategy != "Direct competitor niche" {
		t.Errorf("Strategy = %q", d.Strategy)
	}
	if d.Mode != dashboard.ModeMockDataset {
		t.Errorf("Mode = %q", d.Mode)
	}
}

func TestDashboardUseCase_EmptyTabNotice(t *testing.T) {
	uc, repo := newTestUseCase(0)
	_, _ = uc.Generate(context.Background())
	_ = repo.apply(dashboard.ResultsLoaded{Epoch: repo.state.Epoch, Index: 0})

	d := uc.Dashboard()
	if d.Notice != "No ads found for this query." {
		t.Errorf("Notice = %q", d.Notice)
	}
	if d.Tabs[0].ResultsCount != 0 || d.Tabs[0].Status != model.QueryCompleted {
		t.Errorf("Tabs[0] = %+v", d.Tabs[0])
	}
}

func TestDashboardUseCase_SelectTabOutOfRange(t *testing.T) {
	uc, _ := newTestUseCase(0)

	_, err := uc.SelectTab(5)
	if !errors.IsBadRequest(err) {
		t.Errorf("SelectTab() error = %v, want bad request", err)
	}
}

func TestDashboardUseCase_ToggleFull(t *testing.T) {
	uc, _ := newTestUseCase(1)

	d, err := uc.ToggleAd("ad_001", true)
	if err != nil {
		t.Fatalf("ToggleAd() error = %v", err)
	}
	if d.SelectedCount != 1 || d.SelectedIDs[0] != "ad_001" {
		t.Errorf("ToggleAd() = %+v", d)
	}

	_, err = uc.ToggleAd("ad_002", true)
	if !errors.IsConflict(err) {
		t.Fatalf("ToggleAd() error = %v, want conflict", err)
	}
	if got := errors.FromError(err).Message; got != "You can only select up to 1 ads." {
		t.Errorf("message = %q", got)
	}
}

func TestDashboardUseCase_Upload(t *testing.T) {
	uc, _ := newTestUseCase(0)

	if _, err := uc.StartUpload(); errors.Reason(err) != "NOTHING_SELECTED" {
		t.Errorf("StartUpload() error = %v", err)
	}

	_, _ = uc.ToggleAd("ad_001", true)
	d, err := uc.StartUpload()
	if err != nil {
		t.Fatalf("StartUpload() error = %v", err)
	}
	if d.Upload.Phase != "uploading" {
		t.Errorf("Upload = %+v", d.Upload)
	}

	if _, err := uc.StartUpload(); errors.Reason(err) != "UPLOAD_IN_PROGRESS" {
		t.Errorf("second StartUpload() error = %v", err)
	}
}

func TestDashboardUseCase_Credential(t *testing.T) {
	uc, _ := newTestUseCase(0)

	p, err := uc.SetCredential("key")
	if err != nil {
		t.Fatalf("SetCredential() error = %v", err)
	}
	if p.Mode != dashboard.ModeConnected || p.Brand.Name != "Test Brand" {
		t.Errorf("SetCredential() = %+v", p)
	}
}

func TestDashboardUseCase_Chat(t *testing.T) {
	uc, _ := newTestUseCase(0)

	if _, err := uc.Chat(context.Background(), ""); !errors.IsBadRequest(err) {
		t.Errorf("Chat(\"\") error = %v", err)
	}

	c, err := uc.Chat(context.Background(), "hello")
	if err != nil {
		t.Fatalf("Chat() error = %v", err)
	}
	if len(c.Turns) != 2 || c.Turns[1].Text != "ok" {
		t.Errorf("Chat() = %+v", c)
	}
}
