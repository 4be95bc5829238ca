// Package rest turns callback-style AJAX transports into awaitable requests.
package rest

import (
	"net/http"
	"time"

	"github.com/go-logr/logr"
)

// Method is an HTTP verb as written by callers, e.g. "get" or "post".
// It is passed to the transport as-is.
type Method string

const (
	MethodGet    Method = "get"
	MethodPost   Method = "post"
	MethodPut    Method = "put"
	MethodPatch  Method = "patch"
	MethodDelete Method = "delete"
	MethodHead   Method = "head"
)

const (
	// DefaultTimeout bounds every request issued by an Adapter.
	DefaultTimeout = 60 * time.Second
	// FormContentType is the content type used for request payloads.
	FormContentType = "application/x-www-form-urlencoded"
)

// Adapter issues requests through a Transport and hands back a Promise per
// request.
type Adapter struct {
	transport Transport
}

type adapterOptions struct {
	transport  Transport
	httpClient *http.Client
	baseURL    string
	logger     logr.Logger
}

// Option configures an Adapter.
type Option func(*adapterOptions)

// WithTransport sets the transport requests are sent through. When unset the
// adapter builds an HTTPTransport.
func WithTransport(t Transport) Option {
	return func(o *adapterOptions) {
		o.transport = t
	}
}

// WithHTTPClient sets the client used by the default HTTPTransport.
func WithHTTPClient(c *http.Client) Option {
	return func(o *adapterOptions) {
		o.httpClient = c
	}
}

// WithBaseURL sets the URL relative request URLs are resolved against by the
// default HTTPTransport.
func WithBaseURL(baseURL string) Option {
	return func(o *adapterOptions) {
		o.baseURL = baseURL
	}
}

// WithLogger sets the logger of the default HTTPTransport.
func WithLogger(l logr.Logger) Option {
	return func(o *adapterOptions) {
		o.logger = l
	}
}

// New returns an Adapter.
func New(opts ...Option) *Adapter {
	o := &adapterOptions{logger: logr.Discard()}
	for _, opt := range opts {
		opt(o)
	}
	t := o.transport
	if t == nil {
		t = NewHTTPTransport(o.httpClient, o.baseURL, o.logger)
	}
	return &Adapter{transport: t}
}

// Transport returns the transport the adapter sends requests through.
func (a *Adapter) Transport() Transport {
	return a.transport
}

// Request sends a single request and returns a Promise for its parsed JSON
// response. An empty method means MethodGet. The payload is form encoded.
//
// Every call results in exactly one transport call; nothing is retried,
// cached or deduplicated, and the request cannot be cancelled once issued.
func (a *Adapter) Request(url string, method Method, payload any) *Promise {
	return a.send(url, method, payload, DataTypeJSON)
}

// RequestText is like Request but resolves with the raw response body as a
// string, for endpoints that do not answer with JSON.
func (a *Adapter) RequestText(url string, method Method, payload any) *Promise {
	return a.send(url, method, payload, DataTypeText)
}

func (a *Adapter) send(url string, method Method, payload any, dataType DataType) *Promise {
	if method == "" {
		method = MethodGet
	}
	p := newPromise()
	a.transport.Send(&Settings{
		URL:         url,
		Type:        method,
		Data:        payload,
		DataType:    dataType,
		Timeout:     DefaultTimeout,
		ContentType: FormContentType,
	}, p.resolve, p.reject)
	return p
}
