package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/iWorld-y/ad_vault/app/ad_vault/pkg/assistant"
	"github.com/iWorld-y/ad_vault/app/ad_vault/pkg/dashboard"
	"github.com/iWorld-y/ad_vault/app/ad_vault/pkg/logger"
	dm "github.com/iWorld-y/ad_vault/app/ad_vault/pkg/model"
	"github.com/iWorld-y/ad_vault/app/ad_vault/pkg/strategy"
	"github.com/iWorld-y/ad_vault/app/ad_vault/pkg/upload"
)

// chatVisibleTurns 界面上保留的最近对话条数
const chatVisibleTurns = 6

// Backend 终端界面依赖的能力，*engine.Engine 即满足
type Backend interface {
	Brand() dm.BrandProfile
	Store() *dashboard.Store
	GenerateStrategies(ctx context.Context) (strategy.Result, error)
	NewConversation() *assistant.Conversation
}

type inputMode int

const (
	inputNone inputMode = iota
	inputCredential
	inputAsk
)

type snapshotMsg dashboard.State

type strategiesMsg struct {
	res strategy.Result
	err error
}

type replyMsg struct{}

// Model 仪表盘终端界面
type Model struct {
	backend     Backend
	brand       dm.BrandProfile
	store       *dashboard.Store
	conv        *assistant.Conversation
	updates     <-chan dashboard.State
	unsubscribe func()

	state      dashboard.State
	cursor     int
	generating bool
	asking     bool
	fallback   bool
	notice     string
	mode       inputMode

	spinner  spinner.Model
	progress progress.Model
	input    textinput.Model
	styles   Styles

	width  int
	height int
}

// New 创建界面模型并订阅仪表盘状态
func New(b Backend) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot

	ti := textinput.New()
	ti.CharLimit = 4000

	store := b.Store()
	updates, unsubscribe := store.Subscribe()

	return Model{
		backend:     b,
		brand:       b.Brand(),
		store:       store,
		conv:        b.NewConversation(),
		updates:     updates,
		unsubscribe: unsubscribe,
		state:       store.Snapshot(),
		spinner:     sp,
		progress:    progress.New(progress.WithDefaultGradient(), progress.WithWidth(30)),
		input:       ti,
		styles:      DefaultStyles(),
	}
}

// Close 退订状态
func (m Model) Close() {
	m.unsubscribe()
}

func waitForSnapshot(ch <-chan dashboard.State) tea.Cmd {
	return func() tea.Msg {
		s, ok := <-ch
		if !ok {
			return nil
		}
		return snapshotMsg(s)
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, waitForSnapshot(m.updates))
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil

	case snapshotMsg:
		m.state = dashboard.State(msg)
		m.clampCursor()
		return m, waitForSnapshot(m.updates)

	case strategiesMsg:
		m.generating = false
		m.fallback = msg.res.Fallback
		if msg.err != nil {
			m.notice = msg.err.Error()
		} else if msg.res.Fallback {
			m.notice = "Showing fallback strategies."
		}
		m.refresh()
		return m, nil

	case replyMsg:
		m.asking = false
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if m.mode != inputNone {
			return m.updateInput(msg)
		}
		return m.updateKeys(msg)
	}
	return m, nil
}

func (m Model) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit

	case "g":
		if m.generating {
			return m, nil
		}
		m.generating = true
		m.notice = ""
		return m, m.generate()

	case "left", "h":
		m.selectTab(m.state.ActiveTab - 1)
	case "right", "l":
		m.selectTab(m.state.ActiveTab + 1)

	case "up":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down":
		ads, _ := m.state.ActiveResults()
		if m.cursor < len(ads)-1 {
			m.cursor++
		}

	case " ":
		ads, _ := m.state.ActiveResults()
		if m.cursor < len(ads) {
			id := ads[m.cursor].ID
			m.report(m.store.Toggle(id, !m.state.Selection.Has(id)))
		}

	case "c":
		m.report(m.store.ClearSelection())

	case "s":
		_, err := m.store.StartUpload()
		m.report(err)

	case "k":
		m.mode = inputCredential
		m.input.Placeholder = "Foreplay API key (empty for demo data)"
		m.input.EchoMode = textinput.EchoPassword
		cmd := m.input.Focus()
		return m, cmd

	case "a":
		if m.asking {
			return m, nil
		}
		m.mode = inputAsk
		m.input.Placeholder = "Ask about these ads"
		m.input.EchoMode = textinput.EchoNormal
		cmd := m.input.Focus()
		return m, cmd
	}
	return m, nil
}

func (m Model) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.closeInput()
		return m, nil

	case tea.KeyEnter:
		value := m.input.Value()
		mode := m.mode
		m.closeInput()

		switch mode {
		case inputCredential:
			m.report(m.store.SetCredential(value))
		case inputAsk:
			if strings.TrimSpace(value) == "" {
				return m, nil
			}
			m.asking = true
			return m, m.ask(value)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) closeInput() {
	m.mode = inputNone
	m.input.Reset()
	m.input.Blur()
}

func (m *Model) selectTab(index int) {
	if index < 0 || index >= len(m.state.Queries) {
		return
	}
	m.report(m.store.SelectTab(index))
	m.cursor = 0
}

// report 同步最新状态，操作失败时展示错误。选择集已满的提示由状态自身携带
func (m *Model) report(err error) {
	m.notice = ""
	if err != nil && !errors.Is(err, dashboard.ErrSelectionFull) {
		m.notice = err.Error()
	}
	m.refresh()
}

func (m *Model) refresh() {
	m.state = m.store.Snapshot()
	m.clampCursor()
}

func (m *Model) clampCursor() {
	ads, _ := m.state.ActiveResults()
	if m.cursor >= len(ads) {
		m.cursor = len(ads) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m Model) generate() tea.Cmd {
	b := m.backend
	return func() tea.Msg {
		res, err := b.GenerateStrategies(context.Background())
		if err != nil {
			logger.Log.Errorf("生成策略失败: %v", err)
		}
		return strategiesMsg{res: res, err: err}
	}
}

func (m Model) ask(message string) tea.Cmd {
	conv := m.conv
	return func() tea.Msg {
		conv.Send(context.Background(), message)
		return replyMsg{}
	}
}

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(m.styles.Header.Render(m.brand.Name))
	b.WriteString(m.styles.Mode.Render(m.state.Mode()))
	b.WriteString("\n\n")

	b.WriteString(m.viewTabs())
	b.WriteString("\n")
	b.WriteString(m.viewAds())
	b.WriteString("\n")
	b.WriteString(m.viewSelection())
	b.WriteString("\n")
	b.WriteString(m.viewChat())

	if m.mode != inputNone {
		b.WriteString("\n")
		b.WriteString(m.input.View())
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.styles.Help.Render("g generate • ←/→ tabs • ↑/↓ move • space select • c clear • s save • k api key • a ask • q quit"))
	b.WriteString("\n")
	return b.String()
}

func (m Model) viewTabs() string {
	if m.generating {
		return m.spinner.View() + " Generating search strategies...\n"
	}
	if len(m.state.Queries) == 0 {
		return m.styles.Muted.Render("No strategies yet. Press g to generate.") + "\n"
	}

	var b strings.Builder
	for i, q := range m.state.Queries {
		label := q.Term
		if q.Status == dm.QueryCompleted {
			label = fmt.Sprintf("%s (%d)", q.Term, q.ResultsCount)
		}
		if i == m.state.ActiveTab {
			b.WriteString(m.styles.ActiveTab.Render(label))
		} else {
			b.WriteString(m.styles.Tab.Render(label))
		}
	}
	b.WriteString("\n")
	if q, ok := m.state.ActiveQuery(); ok {
		b.WriteString(m.styles.Rationale.Render(q.Rationale))
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) viewAds() string {
	if len(m.state.Queries) == 0 {
		return ""
	}
	if m.state.ActiveLoading() {
		return m.spinner.View() + " Searching...\n"
	}

	var b strings.Builder
	ads, _ := m.state.ActiveResults()
	if notice := m.state.EmptyNotice(); notice != "" {
		b.WriteString(m.styles.Muted.Render(notice))
		b.WriteString("\n")
	}
	for i, ad := range ads {
		cursor := "  "
		if i == m.cursor {
			cursor = m.styles.Cursor.Render("> ")
		}
		check := "[ ]"
		if m.state.Selection.Has(ad.ID) {
			check = m.styles.Selected.Render("[x]")
		}
		title := ad.Title
		if title == "" {
			title = ad.BrandName
		}
		meta := string(ad.DisplayFormat)
		if len(ad.PublisherPlatform) > 0 {
			meta += " · " + strings.Join(ad.PublisherPlatform, ", ")
		}
		if ad.RunningDuration != nil {
			meta += fmt.Sprintf(" · %dd", ad.RunningDuration.Days)
		}
		fmt.Fprintf(&b, "%s%s %s %s\n", cursor, check, title, m.styles.Muted.Render(meta))
	}
	return b.String()
}

func (m Model) viewSelection() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Selected %d/%d", m.state.Selection.Len(), m.state.Selection.Max())

	st := m.state.Upload
	switch st.Phase {
	case upload.PhaseUploading:
		b.WriteString("  ")
		b.WriteString(m.progress.ViewAs(float64(st.Progress) / 100))
	case upload.PhaseSucceeded:
		b.WriteString("  ")
		b.WriteString(m.styles.Success.Render("Saved to vault"))
	case upload.PhaseFailed:
		b.WriteString("  ")
		b.WriteString(m.styles.Error.Render("Save failed: " + st.Error))
	}
	b.WriteString("\n")

	for _, n := range []string{m.state.Notice, m.notice} {
		if n != "" {
			b.WriteString(m.styles.Notice.Render(n))
			b.WriteString("\n")
		}
	}
	return b.String()
}

func (m Model) viewChat() string {
	turns := m.conv.Transcript()
	if len(turns) == 0 && !m.asking {
		return ""
	}
	if len(turns) > chatVisibleTurns {
		turns = turns[len(turns)-chatVisibleTurns:]
	}

	var b strings.Builder
	for _, t := range turns {
		if t.Role == dm.RoleUser {
			b.WriteString(m.styles.UserTurn.Render("you: " + t.Text))
		} else {
			b.WriteString(m.styles.ModelTurn.Render("ai:  " + t.Text))
		}
		b.WriteString("\n")
	}
	if m.asking {
		b.WriteString(m.spinner.View() + " Thinking...\n")
	}
	return b.String()
}

// Run 启动终端界面直到用户退出
func Run(b Backend) error {
	m := New(b)
	defer m.Close()

	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
