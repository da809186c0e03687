package dashboard

import (
	"errors"
	"fmt"
	"sort"

	"github.com/iWorld-y/ad_vault/app/ad_vault/pkg/model"
	"github.com/iWorld-y/ad_vault/app/ad_vault/pkg/upload"
)

var (
	ErrSelectionFull    = errors.New("selection is full")
	ErrTabOutOfRange    = errors.New("tab index out of range")
	ErrNothingSelected  = errors.New("no ads selected")
	ErrUploadInProgress = errors.New("upload already in progress")
	ErrStoreClosed      = errors.New("store closed")
)

const (
	NoticeNoAds     = "No ads found for this query."
	ModeConnected   = "Foreplay Connected"
	ModeMockDataset = "Mock Mode (Demo)"
)

// State 仪表盘的完整状态。Reduce 从不原地修改传入的 State
type State struct {
	Epoch      int                    `json:"epoch"`
	Queries    []model.GeneratedQuery `json:"queries"`
	ActiveTab  int                    `json:"active_tab"`
	Results    map[int][]model.Ad     `json:"results"` // 缺省表示尚未加载
	Loading    map[int]bool           `json:"loading"`
	Selection  *Selection             `json:"-"`
	Credential string                 `json:"-"`
	Upload     upload.Status          `json:"upload"`
	Notice     string                 `json:"notice,omitempty"`
}

// NewState 创建初始状态
func NewState(maxSelection int) State {
	return State{
		Results:   make(map[int][]model.Ad),
		Loading:   make(map[int]bool),
		Selection: NewSelection(maxSelection),
		Upload:    upload.Status{Phase: upload.PhaseIdle},
	}
}

func (s State) clone() State {
	c := s
	c.Queries = append([]model.GeneratedQuery(nil), s.Queries...)
	c.Results = make(map[int][]model.Ad, len(s.Results))
	for k, v := range s.Results {
		c.Results[k] = v
	}
	c.Loading = make(map[int]bool, len(s.Loading))
	for k, v := range s.Loading {
		c.Loading[k] = v
	}
	c.Selection = s.Selection.Clone()
	return c
}

// ActiveQuery 当前标签页对应的策略
func (s State) ActiveQuery() (model.GeneratedQuery, bool) {
	if s.ActiveTab < 0 || s.ActiveTab >= len(s.Queries) {
		return model.GeneratedQuery{}, false
	}
	return s.Queries[s.ActiveTab], true
}

// ActiveResults 当前标签页的结果，loaded 为 false 表示尚未加载
func (s State) ActiveResults() (ads []model.Ad, loaded bool) {
	ads, loaded = s.Results[s.ActiveTab]
	return ads, loaded
}

// ActiveLoading 当前标签页是否正在加载
func (s State) ActiveLoading() bool {
	return s.Loading[s.ActiveTab]
}

// EmptyNotice 当前标签页已加载但无结果时的提示
func (s State) EmptyNotice() string {
	if ads, ok := s.ActiveResults(); ok && len(ads) == 0 {
		return NoticeNoAds
	}
	return ""
}

// Mode 当前检索模式的展示文案
func (s State) Mode() string {
	if s.Credential != "" {
		return ModeConnected
	}
	return ModeMockDataset
}

// SelectedAds 在已加载结果中能找到的已选广告，按标签页顺序去重
func (s State) SelectedAds() []model.Ad {
	tabs := make([]int, 0, len(s.Results))
	for i := range s.Results {
		tabs = append(tabs, i)
	}
	sort.Ints(tabs)

	seen := make(map[string]bool)
	var ads []model.Ad
	for _, i := range tabs {
		for _, ad := range s.Results[i] {
			if s.Selection.Has(ad.ID) && !seen[ad.ID] {
				seen[ad.ID] = true
				ads = append(ads, ad)
			}
		}
	}
	return ads
}

func selectionFullNotice(max int) string {
	return fmt.Sprintf("You can only select up to %d ads.", max)
}

// Msg 驱动状态变化的消息
type Msg interface{ isMsg() }

// QueriesReplaced 新一轮策略生成完成，整体替换
type QueriesReplaced struct{ Queries []model.GeneratedQuery }

// TabSelected 切换标签页
type TabSelected struct{ Index int }

// ResultsLoaded 某个标签页的检索完成
type ResultsLoaded struct {
	Epoch int
	Index int
	Ads   []model.Ad
}

// ResultsFailed 检索未完成即被取消
type ResultsFailed struct {
	Epoch int
	Index int
	Err   error
}

type AdToggled struct {
	ID       string
	Selected bool
}

type SelectionCleared struct{}

type CredentialSet struct{ Key string }

// UploadRequested 发起保存，JobID 由调用方生成
type UploadRequested struct{ JobID string }

// UploadProgressed 保存任务状态变化
type UploadProgressed struct{ Status upload.Status }

func (QueriesReplaced) isMsg()  {}
func (TabSelected) isMsg()      {}
func (ResultsLoaded) isMsg()    {}
func (ResultsFailed) isMsg()    {}
func (AdToggled) isMsg()        {}
func (SelectionCleared) isMsg() {}
func (CredentialSet) isMsg()    {}
func (UploadRequested) isMsg()  {}
func (UploadProgressed) isMsg() {}

// Effect Reduce 产生的副作用，由 Store 执行
type Effect interface{ isEffect() }

// FetchResults 检索某个标签页，Credential 为发起时的凭证
type FetchResults struct {
	Epoch      int
	Index      int
	Term       string
	Credential string
}

// StartUpload 启动保存任务
type StartUpload struct{ Job upload.Job }

func (FetchResults) isEffect() {}
func (StartUpload) isEffect()  {}
