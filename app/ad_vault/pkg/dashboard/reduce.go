package dashboard

import (
	"strings"

	"github.com/iWorld-y/ad_vault/app/ad_vault/pkg/model"
	"github.com/iWorld-y/ad_vault/app/ad_vault/pkg/upload"
)

// Reduce 纯函数：根据消息计算下一个状态和需要执行的副作用。
// 返回错误时状态中只有 Notice 可能变化
func Reduce(s State, msg Msg) (State, []Effect, error) {
	switch m := msg.(type) {
	case QueriesReplaced:
		next := s.clone()
		next.Epoch++
		next.Queries = make([]model.GeneratedQuery, len(m.Queries))
		for i, q := range m.Queries {
			q.Status = model.QueryPending
			q.ResultsCount = 0
			next.Queries[i] = q
		}
		next.Results = make(map[int][]model.Ad)
		next.Loading = make(map[int]bool)
		next.ActiveTab = 0
		next.Notice = ""
		if len(next.Queries) == 0 {
			return next, nil, nil
		}
		return next, []Effect{startFetch(&next, 0)}, nil

	case TabSelected:
		if m.Index < 0 || m.Index >= len(s.Queries) {
			return s, nil, ErrTabOutOfRange
		}
		next := s.clone()
		next.ActiveTab = m.Index
		if _, ok := next.Results[m.Index]; ok || next.Loading[m.Index] {
			return next, nil, nil
		}
		return next, []Effect{startFetch(&next, m.Index)}, nil

	case ResultsLoaded:
		if m.Epoch != s.Epoch || m.Index < 0 || m.Index >= len(s.Queries) {
			return s, nil, nil
		}
		next := s.clone()
		ads := m.Ads
		if ads == nil {
			ads = []model.Ad{}
		}
		next.Results[m.Index] = ads
		delete(next.Loading, m.Index)
		next.Queries[m.Index].Status = model.QueryCompleted
		next.Queries[m.Index].ResultsCount = len(ads)
		return next, nil, nil

	case ResultsFailed:
		if m.Epoch != s.Epoch || m.Index < 0 || m.Index >= len(s.Queries) {
			return s, nil, nil
		}
		next := s.clone()
		delete(next.Loading, m.Index)
		next.Queries[m.Index].Status = model.QueryFailed
		return next, nil, nil

	case AdToggled:
		next := s.clone()
		if err := next.Selection.Toggle(m.ID, m.Selected); err != nil {
			s.Notice = selectionFullNotice(s.Selection.Max())
			return s, nil, err
		}
		next.Notice = ""
		return next, nil, nil

	case SelectionCleared:
		next := s.clone()
		next.Selection.Clear()
		return next, nil, nil

	case CredentialSet:
		next := s.clone()
		next.Credential = strings.TrimSpace(m.Key)
		return next, nil, nil

	case UploadRequested:
		if s.Upload.Active() {
			return s, nil, ErrUploadInProgress
		}
		if s.Selection.Len() == 0 {
			return s, nil, ErrNothingSelected
		}
		next := s.clone()
		next.Upload = upload.Status{JobID: m.JobID, Phase: upload.PhaseUploading, Progress: 0}
		job := upload.Job{
			ID:    m.JobID,
			AdIDs: next.Selection.IDs(),
			Ads:   next.SelectedAds(),
		}
		return next, []Effect{StartUpload{Job: job}}, nil

	case UploadProgressed:
		if m.Status.JobID == "" || m.Status.JobID != s.Upload.JobID {
			return s, nil, nil
		}
		next := s.clone()
		if m.Status.Phase == upload.PhaseIdle {
			if s.Upload.Phase == upload.PhaseSucceeded {
				next.Selection.Clear()
			}
			next.Upload = upload.Status{Phase: upload.PhaseIdle}
			return next, nil, nil
		}
		next.Upload = m.Status
		return next, nil, nil
	}
	return s, nil, nil
}

func startFetch(s *State, index int) Effect {
	s.Loading[index] = true
	s.Queries[index].Status = model.QuerySearching
	return FetchResults{
		Epoch:      s.Epoch,
		Index:      index,
		Term:       s.Queries[index].Term,
		Credential: s.Credential,
	}
}
