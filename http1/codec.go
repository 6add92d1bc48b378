// Package http1 is the default wire-level codec for the server core:
// it parses HTTP/1.1 requests off the raw connection, negotiates
// persistence headers and serializes responses.
package http1

import (
	"bufio"
	"fmt"
	"net"
	"strings"
	"sync"
	"time"

	"httpcore/message"
)

const (
	defaultMaxHeaderBytes = 8 << 10
	readBufferSize        = 4 << 10
)

// Codec implements the server's Driver interface. It keeps one
// buffered reader per live connection so bytes buffered past a request
// are not lost between keep-alive exchanges.
type Codec struct {
	maxHeaderBytes int
	readers        sync.Map // net.Conn -> *bufio.Reader
}

type CodecOption func(*Codec)

// WithMaxHeaderBytes bounds the request line and each header line.
func WithMaxHeaderBytes(n int) CodecOption {
	return func(c *Codec) {
		c.maxHeaderBytes = n
	}
}

func NewCodec(opts ...CodecOption) *Codec {
	c := &Codec{maxHeaderBytes: defaultMaxHeaderBytes}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Codec) reader(conn net.Conn) *bufio.Reader {
	if br, ok := c.readers.Load(conn); ok {
		return br.(*bufio.Reader)
	}
	br := bufio.NewReaderSize(conn, readBufferSize)
	c.readers.Store(conn, br)
	return br
}

func (c *Codec) evict(conn net.Conn) {
	c.readers.Delete(conn)
}

// BuildResponse decides whether the connection may remain open and
// stamps the persistence headers accordingly. A response whose body
// length cannot be framed forces closure regardless of the request.
func (c *Codec) BuildResponse(resp *message.Response, req *message.Request, timeout time.Duration, allowPersistent bool) *message.Response {
	keep := allowPersistent && requestWantsKeepAlive(req) && !responseForbidsKeepAlive(resp)
	if keep && resp.Body() != nil && !resp.Header().Has("Content-Length") && !resp.Header().Has("Transfer-Encoding") {
		keep = false
	}
	if !keep {
		return resp.WithHeader("Connection", "close")
	}
	return resp.
		WithHeader("Connection", "keep-alive").
		WithHeader("Keep-Alive", fmt.Sprintf("timeout=%d", int(timeout.Seconds())))
}

func requestWantsKeepAlive(req *message.Request) bool {
	if req == nil {
		return false
	}
	connVal := strings.ToLower(req.HeaderLine("Connection"))
	switch req.Version() {
	case "HTTP/1.1":
		return !strings.Contains(connVal, "close")
	case "HTTP/1.0":
		return strings.Contains(connVal, "keep-alive")
	default:
		return false
	}
}

func responseForbidsKeepAlive(resp *message.Response) bool {
	return strings.EqualFold(resp.HeaderLine("Connection"), "close")
}
