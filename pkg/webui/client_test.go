package webui_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mediadl/dlctl/pkg/cryptoutils"
	"github.com/mediadl/dlctl/pkg/webui"
	"github.com/mediadl/dlctl/rest"
)

const password = "hunter2"

// newWebUI serves the endpoints of the downloader web UI. Everything but
// /login and /get_app_version requires the session cookie set by /login.
func newWebUI(t *testing.T) *httptest.Server {
	t.Helper()
	form, err := cryptoutils.NewAESBase64("1234123412ABCDEF", "ABCDEF1234123412")
	require.NoError(t, err)

	state := webui.StatePause
	mux := http.NewServeMux()
	mux.HandleFunc("/login", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			fmt.Fprint(w, "<html>login</html>")
			return
		}
		if err := r.ParseForm(); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		got, err := form.Decrypt(r.PostForm.Get("password"))
		if err != nil || got != password {
			fmt.Fprint(w, `{"code": "0"}`)
			return
		}
		http.SetCookie(w, &http.Cookie{Name: "session", Value: "root", Path: "/"})
		fmt.Fprint(w, `{"code": "1"}`)
	})
	mux.HandleFunc("/get_app_version", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "2.2.0")
	})

	protected := func(h http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			if _, err := r.Cookie("session"); err != nil {
				http.Redirect(w, r, "/login", http.StatusFound)
				return
			}
			h(w, r)
		}
	}
	mux.HandleFunc("/get_download_status", protected(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{ "download_speed" : "1.50 MB/s" , "upload_speed" : "0.00 B/s" } `)
	}))
	mux.HandleFunc("/get_download_list", protected(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("already_down") {
		case "true":
			fmt.Fprint(w, `[{ "chat":"-100123", "id":"7", "filename":"a.mp4", "total_size":"10.00 MB" ,"download_progress":"100.0" ,"download_speed":"0.00 B/s" ,"save_path":"/data/a.mp4"}]`)
		case "false":
			fmt.Fprint(w, `[{ "chat":"-100123", "id":"7", "filename":"a.mp4", "total_size":"10.00 MB" ,"download_progress":"100.0" ,"download_speed":"0.00 B/s" ,"save_path":"/data/a.mp4"},`+
				`{ "chat":"-100123", "id":"8", "filename":"b.jpg", "total_size":"2.00 MB" ,"download_progress":"12.5" ,"download_speed":"1.50 MB/s" ,"save_path":"/data/b.jpg"}]`)
		default:
			fmt.Fprint(w, "[]")
		}
	}))
	mux.HandleFunc("/set_download_state", protected(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		req := webui.State(r.URL.Query().Get("state"))
		switch {
		case req == webui.StatePause && state == webui.StatePause:
			state = webui.StateContinue
			fmt.Fprint(w, "continue")
		case req == webui.StateContinue && state == webui.StateContinue:
			state = webui.StatePause
			fmt.Fprint(w, "pause")
		default:
			fmt.Fprint(w, string(req))
		}
	}))

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newContext(t *testing.T) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)
	return ctx
}

func TestClientLogin(t *testing.T) {
	srv := newWebUI(t)
	ctx := newContext(t)

	t.Run("Rejected", func(t *testing.T) {
		c, err := webui.NewClient(srv.URL)
		require.NoError(t, err)
		require.ErrorIs(t, c.Login(ctx, "wrong"), webui.ErrLoginRejected)
	})

	t.Run("Accepted", func(t *testing.T) {
		c, err := webui.NewClient(srv.URL)
		require.NoError(t, err)
		require.NoError(t, c.Login(ctx, password))
	})
}

func TestClientRequiresSession(t *testing.T) {
	srv := newWebUI(t)
	ctx := newContext(t)

	c, err := webui.NewClient(srv.URL)
	require.NoError(t, err)

	// Unauthenticated requests are redirected to the HTML login page.
	_, err = c.DownloadStatus(ctx)
	var rerr *rest.Error
	require.ErrorAs(t, err, &rerr)
	assert.Equal(t, rest.KindParse, rerr.Kind)
}

func TestClientDownloads(t *testing.T) {
	srv := newWebUI(t)
	ctx := newContext(t)

	c, err := webui.NewClient(srv.URL)
	require.NoError(t, err)
	require.NoError(t, c.Login(ctx, password))

	status, err := c.DownloadStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, &webui.Status{DownloadSpeed: "1.50 MB/s", UploadSpeed: "0.00 B/s"}, status)

	done, err := c.DownloadList(ctx, true)
	require.NoError(t, err)
	assert.Equal(t, []webui.Download{{
		Chat:     "-100123",
		ID:       "7",
		Filename: "a.mp4",
		Size:     "10.00 MB",
		Progress: 100,
		Speed:    "0.00 B/s",
		SavePath: "/data/a.mp4",
	}}, done)

	all, err := c.DownloadList(ctx, false)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, 12.5, all[1].Progress)
}

func TestClientSetDownloadState(t *testing.T) {
	srv := newWebUI(t)
	ctx := newContext(t)

	c, err := webui.NewClient(srv.URL)
	require.NoError(t, err)
	require.NoError(t, c.Login(ctx, password))

	next, err := c.SetDownloadState(ctx, webui.StatePause)
	require.NoError(t, err)
	assert.Equal(t, webui.StateContinue, next)

	next, err = c.SetDownloadState(ctx, webui.StateContinue)
	require.NoError(t, err)
	assert.Equal(t, webui.StatePause, next)
}

func TestClientAppVersion(t *testing.T) {
	srv := newWebUI(t)

	c, err := webui.NewClient(srv.URL)
	require.NoError(t, err)

	v, err := c.AppVersion(newContext(t))
	require.NoError(t, err)
	assert.Equal(t, "2.2.0", v)
}
