package dashboard

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iWorld-y/ad_vault/app/ad_vault/pkg/model"
	"github.com/iWorld-y/ad_vault/app/ad_vault/pkg/upload"
)

func testQueries(terms ...string) []model.GeneratedQuery {
	qs := make([]model.GeneratedQuery, len(terms))
	for i, term := range terms {
		qs[i] = model.GeneratedQuery{Term: term, Rationale: "r" + term, Status: model.QueryCompleted, ResultsCount: 9}
	}
	return qs
}

func mustReduce(t *testing.T, s State, msg Msg) (State, []Effect) {
	t.Helper()
	next, effects, err := Reduce(s, msg)
	require.NoError(t, err)
	return next, effects
}

func TestReduce_ReplaceQueries(t *testing.T) {
	s := NewState(0)
	s.Credential = "key"
	s.Results[0] = []model.Ad{{ID: "old"}}
	s.Loading[1] = true
	s.ActiveTab = 1

	next, effects := mustReduce(t, s, QueriesReplaced{Queries: testQueries("a", "b")})

	assert.Equal(t, 1, next.Epoch)
	assert.Equal(t, 0, next.ActiveTab)
	assert.Empty(t, next.Results)
	assert.Equal(t, map[int]bool{0: true}, next.Loading)
	require.Len(t, effects, 1)
	assert.Equal(t, FetchResults{Epoch: 1, Index: 0, Term: "a", Credential: "key"}, effects[0])
	assert.Equal(t, model.QuerySearching, next.Queries[0].Status)
	assert.Equal(t, model.QueryPending, next.Queries[1].Status)
	assert.Zero(t, next.Queries[1].ResultsCount)

	// 原状态不受影响
	assert.Len(t, s.Results, 1)
	assert.Equal(t, 0, s.Epoch)
}

func TestReduce_ReplaceQueriesEmpty(t *testing.T) {
	next, effects := mustReduce(t, NewState(0), QueriesReplaced{})
	assert.Empty(t, effects)
	assert.Empty(t, next.Loading)
	assert.Equal(t, 1, next.Epoch)
}

func TestReduce_SelectTabFetchesOnce(t *testing.T) {
	s, _ := mustReduce(t, NewState(0), QueriesReplaced{Queries: testQueries("a", "b", "c")})

	s, effects := mustReduce(t, s, TabSelected{Index: 2})
	require.Len(t, effects, 1)
	assert.Equal(t, 2, effects[0].(FetchResults).Index)
	assert.Equal(t, 2, s.ActiveTab)

	// 加载中再次切换不会重复检索
	s, effects = mustReduce(t, s, TabSelected{Index: 2})
	assert.Empty(t, effects)

	s, _ = mustReduce(t, s, ResultsLoaded{Epoch: s.Epoch, Index: 2, Ads: []model.Ad{{ID: "x"}}})
	s, _ = mustReduce(t, s, TabSelected{Index: 0})
	s, effects = mustReduce(t, s, TabSelected{Index: 2})
	assert.Empty(t, effects)
	assert.Equal(t, []model.Ad{{ID: "x"}}, s.Results[2])
}

func TestReduce_SelectTabOutOfRange(t *testing.T) {
	s, _ := mustReduce(t, NewState(0), QueriesReplaced{Queries: testQueries("a")})

	for _, idx := range []int{-1, 1} {
		next, effects, err := Reduce(s, TabSelected{Index: idx})
		assert.ErrorIs(t, err, ErrTabOutOfRange)
		assert.Empty(t, effects)
		assert.Equal(t, 0, next.ActiveTab)
	}
}

func TestReduce_ResultsLoaded(t *testing.T) {
	s, _ := mustReduce(t, NewState(0), QueriesReplaced{Queries: testQueries("a", "b")})

	next, _ := mustReduce(t, s, ResultsLoaded{Epoch: s.Epoch, Index: 0, Ads: []model.Ad{{ID: "1"}, {ID: "2"}}})
	assert.Len(t, next.Results[0], 2)
	assert.NotContains(t, next.Loading, 0)
	assert.Equal(t, model.QueryCompleted, next.Queries[0].Status)
	assert.Equal(t, 2, next.Queries[0].ResultsCount)

	empty, _ := mustReduce(t, s, ResultsLoaded{Epoch: s.Epoch, Index: 0})
	ads, loaded := empty.ActiveResults()
	assert.True(t, loaded)
	assert.Empty(t, ads)
	assert.Equal(t, NoticeNoAds, empty.EmptyNotice())
}

func TestReduce_StaleEpochDiscarded(t *testing.T) {
	s, _ := mustReduce(t, NewState(0), QueriesReplaced{Queries: testQueries("a")})
	staleEpoch := s.Epoch
	s, _ = mustReduce(t, s, QueriesReplaced{Queries: testQueries("b")})

	next, _ := mustReduce(t, s, ResultsLoaded{Epoch: staleEpoch, Index: 0, Ads: []model.Ad{{ID: "stale"}}})
	assert.NotContains(t, next.Results, 0)
	assert.True(t, next.Loading[0])

	next, _ = mustReduce(t, s, ResultsFailed{Epoch: staleEpoch, Index: 0})
	assert.True(t, next.Loading[0])
}

func TestReduce_ResultsFailed(t *testing.T) {
	s, _ := mustReduce(t, NewState(0), QueriesReplaced{Queries: testQueries("a")})

	next, _ := mustReduce(t, s, ResultsFailed{Epoch: s.Epoch, Index: 0})
	assert.Empty(t, next.Loading)
	assert.NotContains(t, next.Results, 0)
	assert.Equal(t, model.QueryFailed, next.Queries[0].Status)
}

func TestReduce_ToggleFull(t *testing.T) {
	s := NewState(2)
	s, _ = mustReduce(t, s, AdToggled{ID: "a", Selected: true})
	s, _ = mustReduce(t, s, AdToggled{ID: "b", Selected: true})

	next, _, err := Reduce(s, AdToggled{ID: "c", Selected: true})
	assert.ErrorIs(t, err, ErrSelectionFull)
	assert.Equal(t, 2, next.Selection.Len())
	assert.False(t, next.Selection.Has("c"))
	assert.Equal(t, "You can only select up to 2 ads.", next.Notice)

	next, _ = mustReduce(t, next, AdToggled{ID: "a", Selected: false})
	assert.Empty(t, next.Notice)
	assert.Equal(t, 1, next.Selection.Len())
	assert.Equal(t, 2, s.Selection.Len())
}

func TestReduce_UploadLifecycle(t *testing.T) {
	s, _ := mustReduce(t, NewState(0), QueriesReplaced{Queries: testQueries("a")})
	s, _ = mustReduce(t, s, ResultsLoaded{Epoch: s.Epoch, Index: 0, Ads: []model.Ad{{ID: "1"}, {ID: "2"}}})

	_, _, err := Reduce(s, UploadRequested{JobID: "job"})
	assert.ErrorIs(t, err, ErrNothingSelected)

	s, _ = mustReduce(t, s, AdToggled{ID: "2", Selected: true})
	s, _ = mustReduce(t, s, AdToggled{ID: "gone", Selected: true})

	s, effects := mustReduce(t, s, UploadRequested{JobID: "job"})
	require.Len(t, effects, 1)
	job := effects[0].(StartUpload).Job
	assert.Equal(t, "job", job.ID)
	assert.Equal(t, []string{"2", "gone"}, job.AdIDs)
	assert.Equal(t, []model.Ad{{ID: "2"}}, job.Ads)
	assert.Equal(t, upload.Status{JobID: "job", Phase: upload.PhaseUploading}, s.Upload)

	_, _, err = Reduce(s, UploadRequested{JobID: "other"})
	assert.ErrorIs(t, err, ErrUploadInProgress)

	// 其他任务的进度被忽略
	next, _ := mustReduce(t, s, UploadProgressed{Status: upload.Status{JobID: "other", Phase: upload.PhaseUploading, Progress: 50}})
	assert.Zero(t, next.Upload.Progress)

	for p := 5; p <= 100; p += 5 {
		s, _ = mustReduce(t, s, UploadProgressed{Status: upload.Status{JobID: "job", Phase: upload.PhaseUploading, Progress: p}})
		assert.Equal(t, p, s.Upload.Progress)
	}
	s, _ = mustReduce(t, s, UploadProgressed{Status: upload.Status{JobID: "job", Phase: upload.PhaseSucceeded, Progress: 100}})
	assert.Equal(t, 2, s.Selection.Len())

	s, _ = mustReduce(t, s, UploadProgressed{Status: upload.Status{JobID: "job", Phase: upload.PhaseIdle}})
	assert.Equal(t, 0, s.Selection.Len())
	assert.False(t, s.Upload.Active())
}

func TestReduce_UploadFailureKeepsSelection(t *testing.T) {
	s := NewState(0)
	s, _ = mustReduce(t, s, AdToggled{ID: "a", Selected: true})
	s, _ = mustReduce(t, s, UploadRequested{JobID: "job"})

	s, _ = mustReduce(t, s, UploadProgressed{Status: upload.Status{JobID: "job", Phase: upload.PhaseFailed, Progress: 40, Error: "boom"}})
	assert.Equal(t, 40, s.Upload.Progress)
	assert.True(t, s.Upload.Active())

	s, _ = mustReduce(t, s, UploadProgressed{Status: upload.Status{JobID: "job", Phase: upload.PhaseIdle}})
	assert.Equal(t, 1, s.Selection.Len())
	assert.Equal(t, upload.PhaseIdle, s.Upload.Phase)
}

func TestReduce_CredentialCapturedAtDispatch(t *testing.T) {
	s, _ := mustReduce(t, NewState(0), QueriesReplaced{Queries: testQueries("a", "b")})
	assert.Equal(t, ModeMockDataset, s.Mode())

	s, _ = mustReduce(t, s, CredentialSet{Key: "  secret  "})
	assert.Equal(t, ModeConnected, s.Mode())

	_, effects := mustReduce(t, s, TabSelected{Index: 1})
	require.Len(t, effects, 1)
	assert.Equal(t, "secret", effects[0].(FetchResults).Credential)
}

func TestState_ActiveQuery(t *testing.T) {
	_, ok := NewState(0).ActiveQuery()
	assert.False(t, ok)

	s, _ := mustReduce(t, NewState(0), QueriesReplaced{Queries: testQueries("a", "b")})
	s, _ = mustReduce(t, s, TabSelected{Index: 1})
	q, ok := s.ActiveQuery()
	require.True(t, ok)
	assert.Equal(t, "rb", q.Rationale)
	assert.True(t, s.ActiveLoading())
}

func TestReduce_SelectionBoundHolds(t *testing.T) {
	s := NewState(0)
	for i := 0; i < 30; i++ {
		s, _, _ = Reduce(s, AdToggled{ID: fmt.Sprintf("ad_%d", i), Selected: true})
		assert.LessOrEqual(t, s.Selection.Len(), DefaultMaxSelection)
	}
	assert.Equal(t, DefaultMaxSelection, s.Selection.Len())
}
