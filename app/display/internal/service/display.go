package service

import (
	"strconv"

	"github.com/go-kratos/kratos/v2/errors"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/go-kratos/kratos/v2/transport/http"
	"github.com/go-playground/validator/v10"

	"github.com/iWorld-y/ad_vault/app/display/internal/usecase"
)

// ToggleRequest 选中或取消选中
type ToggleRequest struct {
	AdID     string `json:"ad_id" validate:"required,max=128"`
	Selected bool   `json:"selected"`
}

// CredentialRequest 设置 Foreplay 凭证，为空时切回演示数据
type CredentialRequest struct {
	APIKey string `json:"api_key" validate:"max=512"`
}

// ChatRequest 对话消息
type ChatRequest struct {
	Message string `json:"message" validate:"required,max=4000"`
}

type DisplayService struct {
	uc       *usecase.DashboardUseCase
	validate *validator.Validate
	log      *log.Helper
}

func NewDisplayService(uc *usecase.DashboardUseCase, logger log.Logger) *DisplayService {
	return &DisplayService{
		uc:       uc,
		validate: validator.New(),
		log:      log.NewHelper(logger),
	}
}

// RegisterRoutes 注册 JSON API
func (s *DisplayService) RegisterRoutes(srv *http.Server) {
	r := srv.Route("/api")
	r.GET("/profile", s.GetProfile)
	r.POST("/strategies", s.GenerateStrategies)
	r.GET("/dashboard", s.GetDashboard)
	r.POST("/tabs/{index}/select", s.SelectTab)
	r.POST("/selection", s.ToggleAd)
	r.DELETE("/selection", s.ClearSelection)
	r.PUT("/credential", s.SetCredential)
	r.POST("/upload", s.StartUpload)
	r.GET("/chat", s.GetChat)
	r.POST("/chat", s.SendChat)
}

func (s *DisplayService) GetProfile(ctx http.Context) error {
	return ctx.Result(200, s.uc.Profile())
}

func (s *DisplayService) GenerateStrategies(ctx http.Context) error {
	d, err := s.uc.Generate(ctx)
	if err != nil {
		return err
	}
	return ctx.Result(200, d)
}

func (s *DisplayService) GetDashboard(ctx http.Context) error {
	return ctx.Result(200, s.uc.Dashboard())
}

func (s *DisplayService) SelectTab(ctx http.Context) error {
	index, err := strconv.Atoi(ctx.Vars().Get("index"))
	if err != nil {
		return errors.BadRequest("INVALID_INDEX", "tab index must be an integer")
	}
	d, err := s.uc.SelectTab(index)
	if err != nil {
		return err
	}
	return ctx.Result(200, d)
}

func (s *DisplayService) ToggleAd(ctx http.Context) error {
	var req ToggleRequest
	if err := s.bind(ctx, &req); err != nil {
		return err
	}
	d, err := s.uc.ToggleAd(req.AdID, req.Selected)
	if err != nil {
		return err
	}
	return ctx.Result(200, d)
}

func (s *DisplayService) ClearSelection(ctx http.Context) error {
	d, err := s.uc.ClearSelection()
	if err != nil {
		return err
	}
	return ctx.Result(200, d)
}

func (s *DisplayService) SetCredential(ctx http.Context) error {
	var req CredentialRequest
	if err := s.bind(ctx, &req); err != nil {
		return err
	}
	p, err := s.uc.SetCredential(req.APIKey)
	if err != nil {
		return err
	}
	return ctx.Result(200, p)
}

func (s *DisplayService) StartUpload(ctx http.Context) error {
	d, err := s.uc.StartUpload()
	if err != nil {
		return err
	}
	return ctx.Result(202, d)
}

func (s *DisplayService) GetChat(ctx http.Context) error {
	return ctx.Result(200, s.uc.Transcript())
}

func (s *DisplayService) SendChat(ctx http.Context) error {
	var req ChatRequest
	if err := s.bind(ctx, &req); err != nil {
		return err
	}
	c, err := s.uc.Chat(ctx, req.Message)
	if err != nil {
		return err
	}
	return ctx.Result(200, c)
}

func (s *DisplayService) bind(ctx http.Context, v interface{}) error {
	if err := ctx.Bind(v); err != nil {
		return errors.BadRequest("INVALID_BODY", err.Error())
	}
	if err := s.validate.Struct(v); err != nil {
		return errors.BadRequest("INVALID_ARGUMENT", err.Error())
	}
	return nil
}
