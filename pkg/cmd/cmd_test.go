package cmd

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mediadl/dlctl/config"
	"github.com/mediadl/dlctl/pkg/cryptoutils"
	"github.com/mediadl/dlctl/pkg/webui"
)

// fakeWebUI serves the downloader web UI. When secret is empty the web UI
// runs with login disabled.
func fakeWebUI(t *testing.T, secret string) *httptest.Server {
	t.Helper()
	form, err := cryptoutils.NewAESBase64("1234123412ABCDEF", "ABCDEF1234123412")
	require.NoError(t, err)

	downloading := true
	mux := http.NewServeMux()
	mux.HandleFunc("/login", func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		got, err := form.Decrypt(r.PostForm.Get("password"))
		if err != nil || got == "" || got != secret {
			fmt.Fprint(w, `{"code": "0"}`)
			return
		}
		http.SetCookie(w, &http.Cookie{Name: "session", Value: "root", Path: "/"})
		fmt.Fprint(w, `{"code": "1"}`)
	})
	protected := func(h http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			if _, err := r.Cookie("session"); err != nil && secret != "" {
				http.Redirect(w, r, "/login", http.StatusFound)
				return
			}
			h(w, r)
		}
	}
	mux.HandleFunc("/echo", protected(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `{"method": %q, "query": %q}`, r.Method, r.URL.RawQuery)
	}))
	mux.HandleFunc("/get_app_version", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "2.2.0")
	})
	mux.HandleFunc("/get_download_status", protected(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{ "download_speed" : "1.50 MB/s" , "upload_speed" : "0.00 B/s" } `)
	}))
	mux.HandleFunc("/get_download_list", protected(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("already_down") == "true" {
			fmt.Fprint(w, `[]`)
			return
		}
		fmt.Fprint(w, `[{ "chat":"-100123", "id":"8", "filename":"b.jpg", "total_size":"2.00 MB" ,"download_progress":"12.5" ,"download_speed":"1.50 MB/s" ,"save_path":"/data/b.jpg"}]`)
	}))
	mux.HandleFunc("/set_download_state", protected(func(w http.ResponseWriter, r *http.Request) {
		state := r.URL.Query().Get("state")
		switch {
		case state == "continue" && !downloading:
			downloading = true
			fmt.Fprint(w, "pause")
		case state == "pause" && downloading:
			downloading = false
			fmt.Fprint(w, "continue")
		default:
			fmt.Fprint(w, state)
		}
	}))

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

// run executes the root command against a config pointing at baseURL.
func run(t *testing.T, cfg *config.Config, args ...string) (string, error) {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	cfgFile := filepath.Join(dir, "config.yaml")
	config.ConfigFile = cfgFile
	if cfg.LogFile == "" {
		cfg.LogFile = filepath.Join(dir, "dlctl.log")
	}
	require.NoError(t, config.Store(cfg))

	config.Output = ""
	config.Verbose = false
	requestMethod, requestData, requestText, requestFile = "", nil, false, ""
	listDone = false
	checkOnly, loginPassword = false, ""

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetArgs(append([]string{"--config", cfgFile}, args...))
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestVersionCommand(t *testing.T) {
	out, err := run(t, &config.Config{}, "version")
	require.NoError(t, err)
	assert.Equal(t, "0.0.0-dev\n", out)
}

func TestUnknownOutputFormat(t *testing.T) {
	_, err := run(t, &config.Config{}, "-o", "yaml", "version")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "yaml")
}

func TestRequestCommand(t *testing.T) {
	srv := fakeWebUI(t, "")

	t.Run("Get", func(t *testing.T) {
		out, err := run(t, &config.Config{BaseURL: srv.URL}, "request", "/echo", "-d", "b=x y", "-d", "a=1")
		require.NoError(t, err)
		assert.JSONEq(t, `{"method": "GET", "query": "a=1&b=x+y"}`, out)
	})

	t.Run("Post text", func(t *testing.T) {
		out, err := run(t, &config.Config{BaseURL: srv.URL}, "request", "/set_download_state?state=continue", "-X", "POST", "--text")
		require.NoError(t, err)
		assert.Equal(t, "continue\n", out)
	})

	t.Run("File", func(t *testing.T) {
		rootCmd.SetIn(strings.NewReader("ids: [1, 2]\n"))
		t.Cleanup(func() { rootCmd.SetIn(nil) })
		out, err := run(t, &config.Config{BaseURL: srv.URL}, "request", "/echo", "-f", "-")
		require.NoError(t, err)
		assert.JSONEq(t, `{"method": "GET", "query": "ids%5B%5D=1&ids%5B%5D=2"}`, out)
	})

	t.Run("Invalid data", func(t *testing.T) {
		_, err := run(t, &config.Config{BaseURL: srv.URL}, "request", "/echo", "-d", "novalue")
		require.Error(t, err)
	})
}

func TestStatusCommand(t *testing.T) {
	srv := fakeWebUI(t, "hunter2")
	cfg := &config.Config{BaseURL: srv.URL, Password: "hunter2"}

	out, err := run(t, cfg, "status")
	require.NoError(t, err)
	assert.JSONEq(t, `{"download_speed": "1.50 MB/s", "upload_speed": "0.00 B/s", "app_version": "2.2.0"}`, out)

	out, err = run(t, cfg, "status", "-o", "table")
	require.NoError(t, err)
	assert.Contains(t, out, "DOWNLOAD")
	assert.Contains(t, out, "1.50 MB/s")
	assert.Contains(t, out, "2.2.0")
}

func TestStatusCommandRejectedPassword(t *testing.T) {
	srv := fakeWebUI(t, "hunter2")

	_, err := run(t, &config.Config{BaseURL: srv.URL, Password: "wrong"}, "status")
	require.Error(t, err)
	assert.ErrorIs(t, err, webui.ErrLoginRejected)
}

func TestListCommand(t *testing.T) {
	srv := fakeWebUI(t, "")

	out, err := run(t, &config.Config{BaseURL: srv.URL}, "list", "-o", "table")
	require.NoError(t, err)
	assert.Contains(t, out, "FILENAME")
	assert.Contains(t, out, "b.jpg")
	assert.Contains(t, out, "12.5%")

	out, err = run(t, &config.Config{BaseURL: srv.URL}, "list", "--done")
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, out)
}

func TestPauseResumeCommands(t *testing.T) {
	srv := fakeWebUI(t, "")
	cfg := &config.Config{BaseURL: srv.URL}

	out, err := run(t, cfg, "pause")
	require.NoError(t, err)
	assert.Equal(t, "Downloads paused\n", out)

	out, err = run(t, cfg, "pause")
	require.NoError(t, err)
	assert.Equal(t, "Downloads already paused\n", out)

	out, err = run(t, cfg, "resume")
	require.NoError(t, err)
	assert.Equal(t, "Downloads running\n", out)
}

func TestLoginCommand(t *testing.T) {
	srv := fakeWebUI(t, "hunter2")

	t.Run("Store password", func(t *testing.T) {
		out, err := run(t, &config.Config{BaseURL: srv.URL}, "login", "--password", "hunter2")
		require.NoError(t, err)
		assert.Equal(t, "Authenticated\n", out)

		b, err := os.ReadFile(config.ConfigFile)
		require.NoError(t, err)
		assert.Contains(t, string(b), "password: hunter2")
	})

	t.Run("Rejected password is not stored", func(t *testing.T) {
		_, err := run(t, &config.Config{BaseURL: srv.URL}, "login", "--password", "nope")
		require.ErrorIs(t, err, webui.ErrLoginRejected)

		b, err := os.ReadFile(config.ConfigFile)
		require.NoError(t, err)
		assert.NotContains(t, string(b), "password:")
	})

	t.Run("Check", func(t *testing.T) {
		_, err := run(t, &config.Config{BaseURL: srv.URL, Password: "nope"}, "login", "--check")
		require.Error(t, err)

		out, err := run(t, &config.Config{BaseURL: srv.URL, Password: "hunter2"}, "login", "--check")
		require.NoError(t, err)
		assert.Equal(t, "Authenticated\n", out)
	})

	t.Run("Check with password", func(t *testing.T) {
		_, err := run(t, &config.Config{BaseURL: srv.URL, Password: "hunter2"}, "login", "--check", "--password", "nope")
		require.ErrorIs(t, err, errCheckAndLogin)

		b, err := os.ReadFile(config.ConfigFile)
		require.NoError(t, err)
		assert.Contains(t, string(b), "password: hunter2")
	})

	t.Run("No password", func(t *testing.T) {
		_, err := run(t, &config.Config{BaseURL: srv.URL}, "login")
		require.ErrorIs(t, err, errNoPassword)
	})
}
