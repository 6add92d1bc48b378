package server

import (
	"net"
	"time"

	"httpcore/message"
)

// Driver is the wire-level codec collaborator. The core never touches
// raw bytes itself; it hands the connection to the driver with the
// negotiated timeout and maps the driver's failures to responses.
type Driver interface {
	// ReadRequest reads the next request from the connection within
	// timeout. Failures are ErrTimeout, *MalformedMessageError,
	// ErrInvalidHeaderValue or ErrParse.
	ReadRequest(conn net.Conn, timeout time.Duration) (*message.Request, error)

	// BuildResponse finalizes a response before writing, adjusting
	// persistence-related headers based on allowPersistent and the
	// originating request (which may be nil).
	BuildResponse(resp *message.Response, req *message.Request, timeout time.Duration, allowPersistent bool) *message.Response

	// WriteResponse serializes the response to the connection within
	// timeout. Failures are transport errors.
	WriteResponse(conn net.Conn, resp *message.Response, req *message.Request, timeout time.Duration) error
}

// Handler is the application collaborator. Either method may fail or
// return nil; the core treats both as a contract violation and
// substitutes the default 500 response.
type Handler interface {
	OnRequest(req *message.Request, conn net.Conn) (*message.Response, error)
	OnError(status int, conn net.Conn) (*message.Response, error)
}

// SocketFactory creates listening sockets. A factory failure closes
// the entire server.
type SocketFactory interface {
	Create(address string, port int) (net.Listener, error)
}
