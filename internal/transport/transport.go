// Package transport provides the default listening-socket factory and
// TLS certificate material for the server core.
package transport

import (
	"net"
	"strconv"
)

// Factory creates plain TCP listeners. TLS is negotiated per
// connection by the server, not at the listener.
type Factory struct{}

func NewSocketFactory() *Factory {
	return &Factory{}
}

func (f *Factory) Create(address string, port int) (net.Listener, error) {
	return net.Listen("tcp", net.JoinHostPort(address, strconv.Itoa(port)))
}
