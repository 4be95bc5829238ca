package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mediadl/dlctl/config"
	"github.com/mediadl/dlctl/pkg/webui"
)

// newSession returns a web UI client for cfg. When a password is configured
// the client is logged in first; without one the web UI runs with login
// disabled.
func newSession(ctx context.Context, cfg *config.Config) (*webui.Client, error) {
	c, err := config.DefaultClient(cfg)
	if err != nil {
		return nil, err
	}
	if cfg.Password == "" {
		slog.Debug("No password configured, skipping login", "BaseURL", cfg.BaseURL)
		return c, nil
	}
	ok, err := config.NewAuthenticator(cfg, c).Check(ctx)
	if err != nil {
		return nil, err
	} else if !ok {
		return nil, fmt.Errorf("%w: run 'dlctl login --password <password>'", webui.ErrLoginRejected)
	}
	return c, nil
}
