package dashboard

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/iWorld-y/ad_vault/app/ad_vault/pkg/logger"
	"github.com/iWorld-y/ad_vault/app/ad_vault/pkg/metrics"
	"github.com/iWorld-y/ad_vault/app/ad_vault/pkg/model"
	"github.com/iWorld-y/ad_vault/app/ad_vault/pkg/upload"
)

// Fetcher 广告检索，实现方不返回错误
type Fetcher interface {
	Search(ctx context.Context, term, credential string) []model.Ad
}

// Runner 保存任务执行器
type Runner interface {
	Run(ctx context.Context, job upload.Job, report func(upload.Status))
}

// Store 持有仪表盘状态，串行地应用消息并在后台执行副作用
type Store struct {
	mu      sync.Mutex
	state   State
	closed  bool
	subs    map[int]chan State
	nextSub int

	fetcher Fetcher
	runner  Runner
	newID   func() string

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewStore 创建 Store，使用完毕后必须调用 Close
func NewStore(fetcher Fetcher, runner Runner, maxSelection int) *Store {
	ctx, cancel := context.WithCancel(context.Background())
	return &Store{
		state:   NewState(maxSelection),
		subs:    make(map[int]chan State),
		fetcher: fetcher,
		runner:  runner,
		newID:   uuid.NewString,
		ctx:     ctx,
		cancel:  cancel,
	}
}

// Dispatch 应用一条消息，返回 Reduce 产生的错误
func (s *Store) Dispatch(msg Msg) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrStoreClosed
	}

	next, effects, err := Reduce(s.state, msg)
	s.state = next
	metrics.SelectionSize.Set(float64(next.Selection.Len()))

	for _, e := range effects {
		s.spawn(e)
	}
	s.publish()
	return err
}

// spawn 需持有锁
func (s *Store) spawn(e Effect) {
	s.wg.Add(1)
	switch e := e.(type) {
	case FetchResults:
		logger.Log.Debugf("检索标签页 %d [%s]", e.Index, e.Term)
		go func() {
			defer s.wg.Done()
			ads := s.fetcher.Search(s.ctx, e.Term, e.Credential)
			if err := s.ctx.Err(); err != nil {
				_ = s.Dispatch(ResultsFailed{Epoch: e.Epoch, Index: e.Index, Err: err})
				return
			}
			_ = s.Dispatch(ResultsLoaded{Epoch: e.Epoch, Index: e.Index, Ads: ads})
		}()
	case StartUpload:
		logger.Log.Infof("开始保存任务 [%s]，共 %d 条广告", e.Job.ID, len(e.Job.AdIDs))
		go func() {
			defer s.wg.Done()
			s.runner.Run(s.ctx, e.Job, func(st upload.Status) {
				_ = s.Dispatch(UploadProgressed{Status: st})
			})
		}()
	default:
		s.wg.Done()
	}
}

// publish 需持有锁。订阅方只保留最新的一份快照
func (s *Store) publish() {
	for _, ch := range s.subs {
		select {
		case <-ch:
		default:
		}
		ch <- s.state.clone()
	}
}

// Snapshot 返回当前状态的拷贝
func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.clone()
}

// Subscribe 订阅状态变化，返回的 cancel 用于退订
func (s *Store) Subscribe() (<-chan State, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ch := make(chan State, 1)
	if s.closed {
		close(ch)
		return ch, func() {}
	}
	id := s.nextSub
	s.nextSub++
	s.subs[id] = ch
	ch <- s.state.clone()

	return ch, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if c, ok := s.subs[id]; ok {
			delete(s.subs, id)
			close(c)
		}
	}
}

// ReplaceQueries 整体替换策略并加载第一个标签页
func (s *Store) ReplaceQueries(queries []model.GeneratedQuery) error {
	return s.Dispatch(QueriesReplaced{Queries: queries})
}

func (s *Store) SelectTab(index int) error {
	return s.Dispatch(TabSelected{Index: index})
}

func (s *Store) Toggle(id string, selected bool) error {
	return s.Dispatch(AdToggled{ID: id, Selected: selected})
}

func (s *Store) ClearSelection() error {
	return s.Dispatch(SelectionCleared{})
}

// SetCredential 只影响之后发起的检索，已缓存的标签页不会刷新
func (s *Store) SetCredential(key string) error {
	return s.Dispatch(CredentialSet{Key: key})
}

// StartUpload 对当前选择集发起保存，返回任务 ID
func (s *Store) StartUpload() (string, error) {
	id := s.newID()
	if err := s.Dispatch(UploadRequested{JobID: id}); err != nil {
		return "", err
	}
	return id, nil
}

// Close 取消进行中的任务并等待后台 goroutine 退出
func (s *Store) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.mu.Unlock()

	s.cancel()
	s.wg.Wait()

	s.mu.Lock()
	defer s.mu.Unlock()
	for id, ch := range s.subs {
		delete(s.subs, id)
		close(ch)
	}
}
