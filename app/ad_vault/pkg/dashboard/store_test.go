package dashboard

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/iWorld-y/ad_vault/app/ad_vault/pkg/model"
	"github.com/iWorld-y/ad_vault/app/ad_vault/pkg/upload"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// gatedFetcher 每次检索阻塞到测试放行
type gatedFetcher struct {
	mu      sync.Mutex
	calls   []string
	creds   []string
	release chan struct{}
}

func newGatedFetcher() *gatedFetcher {
	return &gatedFetcher{release: make(chan struct{})}
}

func (f *gatedFetcher) Search(ctx context.Context, term, credential string) []model.Ad {
	f.mu.Lock()
	f.calls = append(f.calls, term)
	f.creds = append(f.creds, credential)
	f.mu.Unlock()

	select {
	case <-f.release:
	case <-ctx.Done():
		return nil
	}
	return []model.Ad{{ID: term + "_1"}, {ID: term + "_2"}}
}

func (f *gatedFetcher) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

type instantFetcher struct{}

func (instantFetcher) Search(_ context.Context, term, _ string) []model.Ad {
	return []model.Ad{{ID: term + "_1"}}
}

func fastRunner() *upload.Runner {
	return upload.NewRunner(upload.Simulated{Step: 5, Interval: time.Millisecond}, 50*time.Millisecond)
}

func TestStore_FetchOncePerEpoch(t *testing.T) {
	f := newGatedFetcher()
	s := NewStore(f, fastRunner(), 0)
	defer s.Close()

	require.NoError(t, s.ReplaceQueries(testQueries("a", "b")))
	require.NoError(t, s.SelectTab(0))
	assert.True(t, s.Snapshot().Loading[0])

	close(f.release)
	require.Eventually(t, func() bool {
		_, ok := s.Snapshot().Results[0]
		return ok
	}, time.Second, 5*time.Millisecond)

	require.NoError(t, s.SelectTab(1))
	require.Eventually(t, func() bool {
		return s.Snapshot().Queries[1].Status == model.QueryCompleted
	}, time.Second, 5*time.Millisecond)
	require.NoError(t, s.SelectTab(0))
	require.NoError(t, s.SelectTab(1))

	assert.Equal(t, []string{"a", "b"}, f.Calls())
	snap := s.Snapshot()
	assert.Equal(t, 2, snap.Queries[0].ResultsCount)
	assert.Empty(t, snap.Loading)
}

func TestStore_StaleCompletionDiscarded(t *testing.T) {
	f := newGatedFetcher()
	s := NewStore(f, fastRunner(), 0)
	defer s.Close()

	require.NoError(t, s.ReplaceQueries(testQueries("old")))
	require.NoError(t, s.ReplaceQueries(testQueries("new")))

	close(f.release)
	require.Eventually(t, func() bool {
		_, ok := s.Snapshot().Results[0]
		return ok
	}, time.Second, 5*time.Millisecond)

	// 等待旧请求也返回
	time.Sleep(20 * time.Millisecond)
	snap := s.Snapshot()
	assert.Equal(t, []model.Ad{{ID: "new_1"}, {ID: "new_2"}}, snap.Results[0])
	assert.Equal(t, 2, snap.Epoch)
}

func TestStore_CredentialUsedForLaterFetches(t *testing.T) {
	f := newGatedFetcher()
	close(f.release)
	s := NewStore(f, fastRunner(), 0)
	defer s.Close()

	require.NoError(t, s.ReplaceQueries(testQueries("a", "b")))
	require.NoError(t, s.SetCredential("key"))
	require.NoError(t, s.SelectTab(1))

	require.Eventually(t, func() bool {
		return len(s.Snapshot().Results) == 2
	}, time.Second, 5*time.Millisecond)

	f.mu.Lock()
	defer f.mu.Unlock()
	assert.Equal(t, []string{"", "key"}, f.creds)
}

func TestStore_UploadClearsSelection(t *testing.T) {
	s := NewStore(instantFetcher{}, fastRunner(), 0)
	defer s.Close()

	_, err := s.StartUpload()
	assert.ErrorIs(t, err, ErrNothingSelected)

	require.NoError(t, s.Toggle("a", true))
	require.NoError(t, s.Toggle("b", true))

	updates, cancel := s.Subscribe()
	defer cancel()

	id, err := s.StartUpload()
	require.NoError(t, err)
	require.NotEmpty(t, id)

	_, err = s.StartUpload()
	assert.ErrorIs(t, err, ErrUploadInProgress)

	var sawSucceeded bool
	last := -1
	timeout := time.After(2 * time.Second)
	for {
		select {
		case st := <-updates:
			if st.Upload.Phase == upload.PhaseUploading {
				assert.GreaterOrEqual(t, st.Upload.Progress, last)
				last = st.Upload.Progress
			}
			if st.Upload.Phase == upload.PhaseSucceeded {
				sawSucceeded = true
				assert.Equal(t, 2, st.Selection.Len())
			}
			if st.Upload.Phase == upload.PhaseIdle && st.Selection.Len() == 0 {
				assert.True(t, sawSucceeded)
				return
			}
		case <-timeout:
			t.Fatalf("upload did not settle, last progress %d", last)
		}
	}
}

func TestStore_CloseStopsWork(t *testing.T) {
	f := newGatedFetcher()
	s := NewStore(f, upload.NewRunner(upload.Simulated{Step: 1, Interval: time.Hour}, time.Hour), 0)

	require.NoError(t, s.ReplaceQueries(testQueries("a")))
	require.NoError(t, s.Toggle("a_1", true))
	_, err := s.StartUpload()
	require.NoError(t, err)

	updates, _ := s.Subscribe()
	s.Close()

	assert.ErrorIs(t, s.SelectTab(0), ErrStoreClosed)
	for range updates {
	}
	s.Close()
}
