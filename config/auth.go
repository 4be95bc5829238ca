package config

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/pkg/browser"

	"github.com/mediadl/dlctl/pkg/log"
	"github.com/mediadl/dlctl/pkg/webui"
)

type Authenticator struct {
	cfg    *Config
	client *webui.Client
}

func NewAuthenticator(cfg *Config, client *webui.Client) *Authenticator {
	return &Authenticator{
		cfg:    cfg,
		client: client,
	}
}

// Check logs in with the configured password. It reports false when the web
// UI rejects the password.
func (a *Authenticator) Check(ctx context.Context) (bool, error) {
	slog.Debug("Checking web UI password", "BaseURL", a.cfg.BaseURL)
	err := a.client.Login(ctx, a.cfg.Password)
	if errors.Is(err, webui.ErrLoginRejected) {
		return false, nil
	} else if err != nil {
		return false, err
	}
	return true, nil
}

// Authenticate stores password after the web UI accepted it.
func (a *Authenticator) Authenticate(ctx context.Context, password string) error {
	if err := a.client.Login(ctx, password); err != nil {
		return err
	}
	a.cfg.Password = password
	if err := Store(a.cfg); err != nil {
		return err
	}
	log.Infof("Stored web UI password for %s in %s", a.cfg.BaseURL, ConfigFile)
	return nil
}

// OpenBrowser opens the web UI in the default browser.
func (a *Authenticator) OpenBrowser() error {
	if err := browser.OpenURL(a.cfg.BaseURL); err != nil {
		log.Warnf("Failed to open browser: %v", err)
		fmt.Println("If a browser window did not open, you may use the web UI at the following URL:")
		fmt.Printf("\n\t%s\n\n", a.cfg.BaseURL)
		return err
	}
	return nil
}
