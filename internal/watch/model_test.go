package watch

import (
	"context"
	"errors"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mediadl/dlctl/pkg/webui"
)

type fakeClient struct {
	mu      sync.Mutex
	listErr error
	states  []webui.State
}

func (c *fakeClient) DownloadStatus(ctx context.Context) (*webui.Status, error) {
	return &webui.Status{DownloadSpeed: "1.50 MB/s", UploadSpeed: "0.00 B/s"}, nil
}

func (c *fakeClient) DownloadList(ctx context.Context, alreadyDown bool) ([]webui.Download, error) {
	if c.listErr != nil {
		return nil, c.listErr
	}
	return []webui.Download{
		{Filename: "a.mp4", Size: "10.00 MB", Progress: 100, Speed: "0.00 B/s"},
		{Filename: "b.jpg", Size: "2.00 MB", Progress: 12.5, Speed: "1.50 MB/s"},
	}, nil
}

func (c *fakeClient) SetDownloadState(ctx context.Context, state webui.State) (webui.State, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.states = append(c.states, state)
	return opposite(state), nil
}

func keyMsg(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestModelFetch(t *testing.T) {
	m := newModel(context.Background(), &fakeClient{}, DefaultInterval)
	m.Update(tea.WindowSizeMsg{Width: 120, Height: 20})

	msg := m.fetch()()
	require.IsType(t, snapshotMsg{}, msg)
	_, cmd := m.Update(msg)
	assert.NotNil(t, cmd, "expected the next poll to be scheduled")

	view := m.View()
	assert.Contains(t, view, "Downloading")
	assert.Contains(t, view, "1.50 MB/s")
	assert.Contains(t, view, "a.mp4")
	assert.Contains(t, view, " 12.5%")
}

func TestModelFetchError(t *testing.T) {
	m := newModel(context.Background(), &fakeClient{listErr: errors.New("get download list: boom")}, DefaultInterval)
	m.Update(tea.WindowSizeMsg{Width: 120, Height: 20})

	m.Update(m.fetch()())
	assert.Empty(t, m.downloads)
	assert.Contains(t, m.View(), "boom")
	assert.Contains(t, m.View(), "no downloads")
}

func TestModelCursor(t *testing.T) {
	m := newModel(context.Background(), &fakeClient{}, DefaultInterval)
	m.Update(tea.WindowSizeMsg{Width: 120, Height: 4})
	m.Update(m.fetch()())

	m.Update(keyMsg("k"))
	assert.Equal(t, 0, m.cursor)

	m.Update(keyMsg("j"))
	assert.Equal(t, 1, m.cursor)
	assert.Equal(t, 1, m.frameStart)

	m.Update(tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, 1, m.cursor)

	m.Update(tea.KeyMsg{Type: tea.KeyUp})
	assert.Equal(t, 0, m.cursor)
	assert.Equal(t, 0, m.frameStart)
}

func TestModelToggle(t *testing.T) {
	c := &fakeClient{}
	m := newModel(context.Background(), c, DefaultInterval)

	_, cmd := m.Update(keyMsg("p"))
	require.NotNil(t, cmd)
	m.Update(cmd())
	assert.Equal(t, webui.StateContinue, m.next)
	assert.Contains(t, m.View(), "Paused")

	_, cmd = m.Update(keyMsg("p"))
	require.NotNil(t, cmd)
	m.Update(cmd())
	assert.Equal(t, webui.StatePause, m.next)

	assert.Equal(t, []webui.State{webui.StatePause, webui.StateContinue}, c.states)
}

func TestModelQuit(t *testing.T) {
	m := newModel(context.Background(), &fakeClient{}, DefaultInterval)

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	assert.NotNil(t, cmd)
	assert.True(t, m.quitting)
	assert.Empty(t, m.View())
}

func TestTrunc(t *testing.T) {
	assert.Equal(t, "abc", trunc("abc", 5))
	assert.Equal(t, "ab...", trunc("abcdefgh", 5))
}
