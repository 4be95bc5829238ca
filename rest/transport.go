package rest

import "time"

// DataType is the response format a transport is asked to decode.
type DataType string

const (
	DataTypeJSON DataType = "json"
	DataTypeText DataType = "text"
)

// Settings describes one request handed to a Transport.
type Settings struct {
	URL         string
	Type        Method
	Data        any
	DataType    DataType
	Timeout     time.Duration
	ContentType string
}

// Transport issues a request and reports its outcome through exactly one of
// the two callbacks. Implementations may call back synchronously or from
// another goroutine.
type Transport interface {
	Send(s *Settings, success func(any), failure func(error))
}

// TransportFunc adapts a plain function to the Transport interface.
type TransportFunc func(s *Settings, success func(any), failure func(error))

func (f TransportFunc) Send(s *Settings, success func(any), failure func(error)) {
	f(s, success, failure)
}
