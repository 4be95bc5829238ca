// Package watch provides a live terminal view of the downloader.
package watch

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/sync/errgroup"

	"github.com/mediadl/dlctl/pkg/webui"
)

// Client is the part of the web UI client the view polls.
type Client interface {
	DownloadStatus(ctx context.Context) (*webui.Status, error)
	DownloadList(ctx context.Context, alreadyDown bool) ([]webui.Download, error)
	SetDownloadState(ctx context.Context, state webui.State) (webui.State, error)
}

var (
	quitKey   = key.NewBinding(key.WithKeys("ctrl+c", "q"), key.WithHelp("q", "quit"))
	upKey     = key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("k", "up"))
	downKey   = key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("j", "down"))
	toggleKey = key.NewBinding(key.WithKeys("p", " "), key.WithHelp("p", "pause/resume"))
)

type model struct {
	ctx      context.Context
	client   Client
	interval time.Duration

	status    *webui.Status
	downloads []webui.Download
	// next is the state the toggle key switches to.
	next webui.State
	err  error

	// cursor is the index of the selected download in [0, len(downloads)).
	cursor int
	// frameStart is the index of the first download in view.
	frameStart    int
	width, height int
	spinner       spinner.Model
	quitting      bool
}

type snapshotMsg struct {
	status    *webui.Status
	downloads []webui.Download
	err       error
}

type stateMsg struct {
	requested webui.State
	next      webui.State
	err       error
}

type tickMsg struct{}

// NewModel returns a Bubble Tea model polling client every interval.
func NewModel(ctx context.Context, client Client, interval time.Duration) tea.Model {
	return newModel(ctx, client, interval)
}

func newModel(ctx context.Context, client Client, interval time.Duration) *model {
	return &model{
		ctx:      ctx,
		client:   client,
		interval: interval,
		next:     webui.StatePause,
		width:    80,
		height:   24,
		spinner:  spinner.New(spinner.WithSpinner(spinner.Dot)),
	}
}

func (m *model) fetch() tea.Cmd {
	return func() tea.Msg {
		var msg snapshotMsg
		g, ctx := errgroup.WithContext(m.ctx)
		g.Go(func() error {
			s, err := m.client.DownloadStatus(ctx)
			msg.status = s
			return err
		})
		g.Go(func() error {
			ds, err := m.client.DownloadList(ctx, false)
			msg.downloads = ds
			return err
		})
		msg.err = g.Wait()
		return msg
	}
}

func (m *model) tick() tea.Cmd {
	return tea.Tick(m.interval, func(_ time.Time) tea.Msg {
		return tickMsg{}
	})
}

func (m *model) toggle() tea.Cmd {
	req := m.next
	return func() tea.Msg {
		next, err := m.client.SetDownloadState(m.ctx, req)
		return stateMsg{requested: req, next: next, err: err}
	}
}

func opposite(s webui.State) webui.State {
	if s == webui.StatePause {
		return webui.StateContinue
	}
	return webui.StatePause
}

func (m *model) Init() tea.Cmd {
	return tea.Batch(m.fetch(), m.spinner.Tick)
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, quitKey):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, downKey):
			m.cursor++
		case key.Matches(msg, upKey):
			m.cursor--
		case key.Matches(msg, toggleKey):
			return m, m.toggle()
		}
		m.adjustFrame(len(m.downloads), m.listHeight())
	case snapshotMsg:
		m.err = msg.err
		if msg.err == nil {
			m.status = msg.status
			m.downloads = msg.downloads
			m.adjustFrame(len(m.downloads), m.listHeight())
		}
		return m, m.tick()
	case tickMsg:
		return m, m.fetch()
	case stateMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		// The web UI echoes the requested state when nothing changed, and
		// otherwise offers the opposite one. Either way the state is now the
		// requested one.
		m.next = opposite(msg.requested)
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *model) listHeight() int {
	// Status bar, help bar and the error line.
	if h := m.height - 3; h > 0 {
		return h
	}
	return 1
}

func (m *model) adjustFrame(max, h int) {
	if m.cursor >= max {
		m.cursor = max - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}

	// Adjust the frameStart index to keep the cursor in view.
	if m.cursor >= m.frameStart+h {
		m.frameStart = m.cursor - h + 1
	}
	if m.cursor < m.frameStart {
		m.frameStart = m.cursor
	}
}

func (m *model) renderDownload(d webui.Download, inFocus bool) string {
	const fixed = 32
	progress := fmt.Sprintf("%5.1f%%", d.Progress)
	line := fmt.Sprintf("%-*s %10s %s %12s",
		max(m.width-fixed, 10), trunc(d.Filename, max(m.width-fixed, 10)), d.Size, progress, d.Speed)

	style := lipgloss.NewStyle().Padding(0, 1)
	if d.Progress >= 100 {
		style = style.Foreground(ColorDone)
	}
	if inFocus {
		style = style.Background(ColorFocusBackground)
	}
	return style.Render(line)
}

func (m *model) View() string {
	if m.quitting {
		return ""
	}

	mode := downloadingMode.String()
	if m.next == webui.StateContinue {
		mode = pausedMode.String()
	}
	speeds := "waiting for web UI"
	if m.status != nil {
		speeds = fmt.Sprintf("down %s  up %s", m.status.DownloadSpeed, m.status.UploadSpeed)
	}
	statusBar := lipgloss.JoinHorizontal(lipgloss.Left,
		mode,
		styleSpeed.Render(m.spinner.View()+" "+speeds),
	)

	var lines []string
	end := m.frameStart + m.listHeight()
	if end > len(m.downloads) {
		end = len(m.downloads)
	}
	for i := m.frameStart; i < end; i++ {
		lines = append(lines, m.renderDownload(m.downloads[i], i == m.cursor))
	}
	if len(lines) == 0 {
		lines = append(lines, styleHelp.Render("no downloads"))
	}

	errLine := ""
	if m.err != nil {
		errLine = styleError.Render(m.err.Error())
	}

	help := []string{}
	for _, b := range []key.Binding{quitKey, downKey, upKey, toggleKey} {
		h := b.Help()
		help = append(help, h.Key+" "+h.Desc)
	}
	helpBar := styleHelp.Render(strings.Join(help, " • "))

	return lipgloss.JoinVertical(lipgloss.Top,
		statusBar,
		strings.Join(lines, "\n"),
		errLine,
		helpBar,
	)
}
