package watch

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// DefaultInterval is how often the view polls the web UI.
const DefaultInterval = time.Second

// Run shows the live view until the user quits or ctx is done.
func Run(ctx context.Context, client Client, interval time.Duration) error {
	if interval <= 0 {
		interval = DefaultInterval
	}
	p := tea.NewProgram(NewModel(ctx, client, interval), tea.WithAltScreen())
	go func() {
		<-ctx.Done()
		p.Quit()
	}()
	_, err := p.Run()
	return err
}
