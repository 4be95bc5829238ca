// Package webui is a client for the media downloader's web UI.
package webui

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/mitchellh/mapstructure"

	"github.com/mediadl/dlctl/pkg/cryptoutils"
	"github.com/mediadl/dlctl/rest"
)

// DefaultBaseURL is where the web UI listens unless configured otherwise.
const DefaultBaseURL = "http://localhost:5000"

// Login form values are encrypted with a key shared with the web UI page.
const (
	formKey = "1234123412ABCDEF"
	formIV  = "ABCDEF1234123412"
)

// ErrLoginRejected is returned by Login when the password is not accepted.
var ErrLoginRejected = errors.New("login rejected")

// State is a download state the web UI can be switched to.
type State string

const (
	StateContinue State = "continue"
	StatePause    State = "pause"
)

// Status is the aggregate transfer speed reported by the web UI.
type Status struct {
	DownloadSpeed string `mapstructure:"download_speed" json:"download_speed"`
	UploadSpeed   string `mapstructure:"upload_speed" json:"upload_speed"`
}

// Download is one entry of the download list.
type Download struct {
	Chat     string  `mapstructure:"chat" json:"chat"`
	ID       string  `mapstructure:"id" json:"id"`
	Filename string  `mapstructure:"filename" json:"filename"`
	Size     string  `mapstructure:"total_size" json:"total_size"`
	Progress float64 `mapstructure:"download_progress" json:"download_progress"`
	Speed    string  `mapstructure:"download_speed" json:"download_speed"`
	SavePath string  `mapstructure:"save_path" json:"save_path"`
}

// Client talks to the web UI through a rest.Adapter.
type Client struct {
	adapter *rest.Adapter
	form    *cryptoutils.AESBase64
}

// NewClient returns a client for the web UI at baseURL. Options are passed to
// the underlying adapter.
func NewClient(baseURL string, opts ...rest.Option) (*Client, error) {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if _, err := url.Parse(baseURL); err != nil {
		return nil, fmt.Errorf("invalid base URL %q: %w", baseURL, err)
	}
	form, err := cryptoutils.NewAESBase64(formKey, formIV)
	if err != nil {
		return nil, err
	}
	opts = append([]rest.Option{rest.WithBaseURL(baseURL)}, opts...)
	return &Client{
		adapter: rest.New(opts...),
		form:    form,
	}, nil
}

// Adapter returns the adapter the client sends requests through.
func (c *Client) Adapter() *rest.Adapter {
	return c.adapter
}

// Login starts a session. The session cookie is kept by the adapter's
// transport for later calls.
func (c *Client) Login(ctx context.Context, password string) error {
	v, err := c.adapter.Request("/login", rest.MethodPost, map[string]string{
		"password": c.form.Encrypt(password),
	}).Await(ctx)
	if err != nil {
		return fmt.Errorf("login: %w", err)
	}
	var resp struct {
		Code string `mapstructure:"code"`
	}
	if err := decode(v, &resp); err != nil {
		return fmt.Errorf("login: %w", err)
	}
	if resp.Code != "1" {
		return ErrLoginRejected
	}
	return nil
}

// DownloadStatus returns the current transfer speeds.
func (c *Client) DownloadStatus(ctx context.Context) (*Status, error) {
	v, err := c.adapter.Request("/get_download_status", rest.MethodGet, nil).Await(ctx)
	if err != nil {
		return nil, fmt.Errorf("get download status: %w", err)
	}
	var s Status
	if err := decode(v, &s); err != nil {
		return nil, fmt.Errorf("get download status: %w", err)
	}
	return &s, nil
}

// DownloadList returns downloads that are finished when alreadyDown is set,
// or all known downloads otherwise.
func (c *Client) DownloadList(ctx context.Context, alreadyDown bool) ([]Download, error) {
	v, err := c.adapter.Request("/get_download_list", rest.MethodGet, map[string]any{
		"already_down": alreadyDown,
	}).Await(ctx)
	if err != nil {
		return nil, fmt.Errorf("get download list: %w", err)
	}
	var ds []Download
	if err := decode(v, &ds); err != nil {
		return nil, fmt.Errorf("get download list: %w", err)
	}
	return ds, nil
}

// SetDownloadState pauses or continues downloading. It returns the state the
// web UI offers to switch to next.
func (c *Client) SetDownloadState(ctx context.Context, state State) (State, error) {
	q := url.Values{"state": {string(state)}}
	v, err := c.adapter.RequestText("/set_download_state?"+q.Encode(), rest.MethodPost, nil).Await(ctx)
	if err != nil {
		return "", fmt.Errorf("set download state: %w", err)
	}
	s, _ := v.(string)
	return State(s), nil
}

// AppVersion returns the version of the downloader serving the web UI.
func (c *Client) AppVersion(ctx context.Context) (string, error) {
	v, err := c.adapter.RequestText("/get_app_version", rest.MethodGet, nil).Await(ctx)
	if err != nil {
		return "", fmt.Errorf("get app version: %w", err)
	}
	s, _ := v.(string)
	return s, nil
}

// decode converts a parsed response into out. The web UI sends numbers as
// strings, so input is weakly typed.
func decode(in, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           out,
	})
	if err != nil {
		return err
	}
	if err := dec.Decode(in); err != nil {
		return fmt.Errorf("unexpected response: %w", err)
	}
	return nil
}
