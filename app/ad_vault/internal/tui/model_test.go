package tui

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iWorld-y/ad_vault/app/ad_vault/pkg/config"
	"github.com/iWorld-y/ad_vault/app/ad_vault/pkg/dashboard"
	"github.com/iWorld-y/ad_vault/app/ad_vault/pkg/engine"
	dm "github.com/iWorld-y/ad_vault/app/ad_vault/pkg/model"
	"github.com/iWorld-y/ad_vault/app/ad_vault/pkg/upload"
)

type stubModel struct{ reply string }

func (s stubModel) Generate(context.Context, []*schema.Message, ...model.Option) (*schema.Message, error) {
	return schema.AssistantMessage(s.reply, nil), nil
}

func (s stubModel) Stream(context.Context, []*schema.Message, ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	return nil, errors.New("not implemented")
}

type stubFetcher struct{}

func (stubFetcher) Search(_ context.Context, term, _ string) []dm.Ad {
	return []dm.Ad{
		{ID: term + "_1", Title: "Night Serum", DisplayFormat: dm.FormatVideo},
		{ID: term + "_2", Title: "Barrier Cream", DisplayFormat: dm.FormatImage},
	}
}

func newTestModel(t *testing.T) (Model, *engine.Engine) {
	t.Helper()
	cfg := &config.Config{}
	cfg.ApplyDefaults()

	eng, err := engine.NewEngineWithDeps(context.Background(), cfg, engine.Deps{
		StrategyModel: stubModel{reply: `[{"term":"retinol","rationale":"Ingredient angle"},{"term":"spf","rationale":"Adjacent"}]`},
		ChatModel:     stubModel{reply: "Open on the texture."},
		Fetcher:       stubFetcher{},
		Transfer:      upload.Simulated{Step: 50, Interval: time.Millisecond},
	})
	require.NoError(t, err)
	t.Cleanup(eng.Close)

	m := New(eng)
	t.Cleanup(m.Close)
	return m, eng
}

func press(m Model, key string) (Model, tea.Cmd) {
	var msg tea.KeyMsg
	switch key {
	case "enter":
		msg = tea.KeyMsg{Type: tea.KeyEnter}
	case "space":
		msg = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	case "right":
		msg = tea.KeyMsg{Type: tea.KeyRight}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
	}
	next, cmd := m.Update(msg)
	return next.(Model), cmd
}

func send(m Model, msg tea.Msg) Model {
	next, _ := m.Update(msg)
	return next.(Model)
}

func loaded(t *testing.T, store *dashboard.Store, tab int) {
	t.Helper()
	require.Eventually(t, func() bool {
		_, ok := store.Snapshot().Results[tab]
		return ok
	}, time.Second, 5*time.Millisecond)
}

func TestModel_GenerateAndSelect(t *testing.T) {
	m, eng := newTestModel(t)
	assert.Contains(t, m.View(), "Press g to generate")

	m, cmd := press(m, "g")
	require.NotNil(t, cmd)
	assert.Contains(t, m.View(), "Generating search strategies")

	m = send(m, cmd())
	loaded(t, eng.Store(), 0)
	m = send(m, snapshotMsg(eng.Store().Snapshot()))

	view := m.View()
	assert.Contains(t, view, "retinol (2)")
	assert.Contains(t, view, "Ingredient angle")
	assert.Contains(t, view, "Night Serum")

	m, _ = press(m, "space")
	assert.True(t, m.state.Selection.Has("retinol_1"))
	assert.Contains(t, m.View(), "Selected 1/20")

	m, _ = press(m, "right")
	assert.Equal(t, 1, m.state.ActiveTab)
	loaded(t, eng.Store(), 1)

	m, _ = press(m, "c")
	assert.Zero(t, m.state.Selection.Len())
}

func TestModel_UploadWithoutSelection(t *testing.T) {
	m, _ := newTestModel(t)

	m, _ = press(m, "s")
	assert.Contains(t, m.View(), dashboard.ErrNothingSelected.Error())
}

func TestModel_Credential(t *testing.T) {
	m, eng := newTestModel(t)
	assert.Contains(t, m.View(), dashboard.ModeMockDataset)

	m, _ = press(m, "k")
	m, _ = press(m, "fp-key")
	m, _ = press(m, "enter")

	assert.Equal(t, "fp-key", eng.Store().Snapshot().Credential)
	assert.Contains(t, m.View(), dashboard.ModeConnected)
}

func TestModel_Ask(t *testing.T) {
	m, _ := newTestModel(t)

	m, _ = press(m, "a")
	m, _ = press(m, "what hooks work?")
	m, cmd := press(m, "enter")
	require.NotNil(t, cmd)
	assert.True(t, m.asking)

	m = send(m, cmd())
	assert.False(t, m.asking)
	view := m.View()
	assert.Contains(t, view, "you: what hooks work?")
	assert.Contains(t, view, "ai:  Open on the texture.")
}

func TestModel_Quit(t *testing.T) {
	m, _ := newTestModel(t)
	_, cmd := press(m, "q")
	require.NotNil(t, cmd)
	_, ok := cmd().(tea.QuitMsg)
	assert.True(t, ok)
	assert.True(t, strings.HasSuffix(m.View(), "\n"))
}
