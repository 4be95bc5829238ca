package rest

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/go-logr/logr"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"golang.org/x/net/publicsuffix"

	"github.com/mediadl/dlctl/build"
)

var acceptHeaders = map[DataType]string{
	DataTypeJSON: "application/json, text/javascript, */*; q=0.01",
	DataTypeText: "text/plain, */*; q=0.01",
}

// HTTPTransport is the default Transport. It behaves like a browser AJAX
// call: session cookies are kept between requests, GET and HEAD payloads go
// in the query string, everything else in the body.
type HTTPTransport struct {
	client  *http.Client
	baseURL *url.URL
	log     logr.Logger
}

// NewHTTPTransport returns an HTTPTransport. A nil client is replaced by one
// with a cookie jar. Relative request URLs are resolved against baseURL when
// it is set.
func NewHTTPTransport(client *http.Client, baseURL string, log logr.Logger) *HTTPTransport {
	if client == nil {
		// cookiejar.New never fails.
		jar, _ := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
		client = &http.Client{Jar: jar}
	}
	rt := client.Transport
	if rt == nil {
		rt = http.DefaultTransport
	}
	if _, ok := rt.(*headerTransport); !ok {
		c := *client
		c.Transport = &headerTransport{roundTripper: rt}
		client = &c
	}

	t := &HTTPTransport{
		client: client,
		log:    log,
	}
	if baseURL != "" {
		if u, err := url.Parse(baseURL); err == nil {
			t.baseURL = u
		} else {
			log.Error(err, "Ignoring invalid base URL", "baseURL", baseURL)
		}
	}
	return t
}

// Send issues the request on its own goroutine and reports the outcome
// through exactly one of the callbacks.
func (t *HTTPTransport) Send(s *Settings, success func(any), failure func(error)) {
	go func() {
		v, err := t.do(s)
		if err != nil {
			failure(err)
			return
		}
		success(v)
	}()
}

func (t *HTTPTransport) do(s *Settings) (any, error) {
	ctx := context.Background()
	if s.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.Timeout)
		defer cancel()
	}

	req, err := t.newRequest(ctx, s)
	if err != nil {
		return nil, &Error{StatusText: string(KindError), Kind: KindError, Err: err}
	}

	start := time.Now()
	t.log.V(1).Info("Sending request", "method", req.Method, "url", req.URL.String())
	resp, err := t.client.Do(req)
	if err != nil {
		return nil, t.networkError(ctx, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, t.networkError(ctx, err)
	}
	t.log.V(1).Info("Received response",
		"method", req.Method,
		"url", req.URL.String(),
		"status", resp.StatusCode,
		"bytes", len(body),
		"elapsed", time.Since(start),
	)

	statusText := statusPhrase(resp)
	ok := resp.StatusCode >= 200 && resp.StatusCode < 300 || resp.StatusCode == http.StatusNotModified
	if !ok {
		return nil, &Error{
			Status:       resp.StatusCode,
			StatusText:   statusText,
			ResponseText: string(body),
			Kind:         KindError,
		}
	}

	if resp.StatusCode == http.StatusNoContent ||
		resp.StatusCode == http.StatusNotModified ||
		req.Method == http.MethodHead {
		return nil, nil
	}

	switch s.DataType {
	case DataTypeText:
		return string(body), nil
	default:
		var v any
		if err := json.Unmarshal(body, &v); err != nil {
			return nil, &Error{
				Status:       resp.StatusCode,
				StatusText:   string(KindParse),
				ResponseText: string(body),
				Kind:         KindParse,
				Err:          err,
			}
		}
		return v, nil
	}
}

func (t *HTTPTransport) newRequest(ctx context.Context, s *Settings) (*http.Request, error) {
	method := strings.ToUpper(string(s.Type))
	if method == "" {
		method = http.MethodGet
	}

	target, err := t.resolve(s.URL)
	if err != nil {
		return nil, err
	}

	encoded, err := EncodeForm(s.Data)
	if err != nil {
		return nil, err
	}

	var body io.Reader
	if encoded != "" {
		if method == http.MethodGet || method == http.MethodHead {
			sep := "?"
			if strings.Contains(target, "?") {
				sep = "&"
			}
			target += sep + encoded
		} else {
			body = strings.NewReader(encoded)
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, err
	}
	if s.ContentType != "" {
		req.Header.Set("Content-Type", s.ContentType)
	}
	accept, ok := acceptHeaders[s.DataType]
	if !ok {
		accept = "*/*"
	}
	req.Header.Set("Accept", accept)
	return req, nil
}

func (t *HTTPTransport) resolve(raw string) (string, error) {
	if t.baseURL == nil {
		return raw, nil
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	return t.baseURL.ResolveReference(u).String(), nil
}

func (t *HTTPTransport) networkError(ctx context.Context, err error) *Error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) || os.IsTimeout(err) {
		return &Error{StatusText: string(KindTimeout), Kind: KindTimeout, Err: err}
	}
	return &Error{StatusText: string(KindError), Kind: KindError, Err: err}
}

func statusPhrase(resp *http.Response) string {
	// resp.Status is "200 OK"; keep the server's own phrase when present.
	if _, phrase, ok := strings.Cut(resp.Status, " "); ok && phrase != "" {
		return phrase
	}
	return http.StatusText(resp.StatusCode)
}

// headerTransport stamps the headers every AJAX request carries.
type headerTransport struct {
	roundTripper http.RoundTripper
}

func (t *headerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	req.Header.Set("X-Requested-With", "XMLHttpRequest")
	req.Header.Set("X-Request-Id", uuid.NewString())
	req.Header.Set("User-Agent", build.UserAgent())
	return t.roundTripper.RoundTrip(req)
}
