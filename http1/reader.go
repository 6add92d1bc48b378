package http1

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"net"
	"strconv"
	"strings"
	"time"

	"httpcore/message"
	"httpcore/server"
)

// ReadRequest reads and parses the next request off the connection,
// bounded by timeout. Failures are translated into the server's
// failure taxonomy.
func (c *Codec) ReadRequest(conn net.Conn, timeout time.Duration) (*message.Request, error) {
	if timeout > 0 {
		if err := conn.SetReadDeadline(time.Now().Add(timeout)); err != nil {
			return nil, err
		}
	}
	br := c.reader(conn)
	req, err := c.readRequest(br)
	if err != nil {
		c.evict(conn)
		return nil, translateReadError(err)
	}
	return req, nil
}

func translateReadError(err error) error {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return server.ErrTimeout
	}
	return err
}

func (c *Codec) readRequest(br *bufio.Reader) (*message.Request, error) {
	method, rawTarget, version, err := c.readRequestLine(br)
	if err != nil {
		return nil, err
	}

	target, err := message.ParseTarget(rawTarget)
	if err != nil {
		return nil, fmt.Errorf("%w: request-target %q", server.ErrParse, rawTarget)
	}

	names, values, err := c.readHeaderFields(br)
	if err != nil {
		return nil, err
	}

	req := message.NewRequest(method, target.URI()).WithVersion(version)
	for i, name := range names {
		// The wire Host field replaces any value derived from an
		// absolute-form target, so exactly one Host survives.
		if strings.EqualFold(name, "Host") {
			req = req.WithHeader(name, values[i])
			continue
		}
		req = req.WithAddedHeader(name, values[i])
	}
	req, err = req.WithRequestTarget(rawTarget)
	if err != nil {
		return nil, fmt.Errorf("%w: request-target %q", server.ErrParse, rawTarget)
	}

	body, err := c.requestBody(br, req)
	if err != nil {
		return nil, err
	}
	return req.WithBody(body), nil
}

func (c *Codec) readRequestLine(br *bufio.Reader) (method, target, version string, err error) {
	line, err := c.readLine(br)
	if err != nil {
		if errors.Is(err, io.ErrShortBuffer) {
			return "", "", "", &server.MalformedMessageError{Status: 431, Reason: "request line too long"}
		}
		if errors.Is(err, io.ErrUnexpectedEOF) {
			return "", "", "", fmt.Errorf("%w: truncated request line", server.ErrParse)
		}
		return "", "", "", err
	}
	parts := strings.SplitN(line, " ", 3)
	if len(parts) != 3 || parts[0] == "" || parts[1] == "" {
		return "", "", "", fmt.Errorf("%w: request line %q", server.ErrParse, line)
	}
	method, target, version = parts[0], parts[1], parts[2]
	switch version {
	case "HTTP/1.0", "HTTP/1.1":
	default:
		if strings.HasPrefix(version, "HTTP/") {
			return "", "", "", &server.MalformedMessageError{Status: 505, Reason: version}
		}
		return "", "", "", fmt.Errorf("%w: protocol %q", server.ErrParse, version)
	}
	return method, target, version, nil
}

func (c *Codec) readHeaderFields(br *bufio.Reader) (names, values []string, err error) {
	for {
		line, err := c.readLine(br)
		if err != nil {
			if errors.Is(err, io.ErrShortBuffer) {
				return nil, nil, &server.MalformedMessageError{Status: 431, Reason: "header line too long"}
			}
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				return nil, nil, fmt.Errorf("%w: truncated header section", server.ErrParse)
			}
			return nil, nil, err
		}
		if line == "" {
			return names, values, nil
		}
		colon := strings.IndexByte(line, ':')
		if colon <= 0 {
			return nil, nil, fmt.Errorf("%w: header line %q", server.ErrParse, line)
		}
		name := strings.TrimSpace(line[:colon])
		value := strings.TrimSpace(line[colon+1:])
		if name == "" || strings.ContainsAny(name, " \t") {
			return nil, nil, fmt.Errorf("%w: header name %q", server.ErrParse, name)
		}
		if hasIllegalValueByte(value) {
			return nil, nil, fmt.Errorf("%w: header %q", server.ErrInvalidHeaderValue, name)
		}
		names = append(names, name)
		values = append(values, value)
	}
}

func hasIllegalValueByte(value string) bool {
	for i := 0; i < len(value); i++ {
		b := value[i]
		if b < 0x20 && b != '\t' || b == 0x7f {
			return true
		}
	}
	return false
}

// requestBody picks the body framing: chunked transfer coding wins,
// then Content-Length, else an empty body.
func (c *Codec) requestBody(br *bufio.Reader, req *message.Request) (io.ReadCloser, error) {
	if hasChunkedEncoding(req) {
		return newChunkedBody(br, c.maxHeaderBytes), nil
	}
	raw := req.Header().Get("Content-Length")
	if raw == "" {
		return io.NopCloser(strings.NewReader("")), nil
	}
	n, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || n < 0 {
		return nil, &server.MalformedMessageError{Status: 400, Reason: "invalid Content-Length"}
	}
	if n == 0 {
		return io.NopCloser(strings.NewReader("")), nil
	}
	return &limitedBody{lr: &io.LimitedReader{R: br, N: n}}, nil
}

func hasChunkedEncoding(req *message.Request) bool {
	for _, v := range req.Header().Values("Transfer-Encoding") {
		if strings.Contains(strings.ToLower(v), "chunked") {
			return true
		}
	}
	return false
}

// readLine reads a CRLF (or bare LF) terminated line, bounded by the
// configured header byte limit.
func (c *Codec) readLine(br *bufio.Reader) (string, error) {
	var sb strings.Builder
	for {
		b, err := br.ReadByte()
		if err != nil {
			if errors.Is(err, io.EOF) && sb.Len() > 0 {
				return "", io.ErrUnexpectedEOF
			}
			return "", err
		}
		if b == '\n' {
			return sb.String(), nil
		}
		if b != '\r' {
			sb.WriteByte(b)
		}
		if c.maxHeaderBytes > 0 && sb.Len() > c.maxHeaderBytes {
			return "", io.ErrShortBuffer
		}
	}
}

// limitedBody reads a Content-Length bounded body and drains the
// remainder on Close so the connection can serve the next request.
type limitedBody struct {
	lr *io.LimitedReader
}

func (b *limitedBody) Read(p []byte) (int, error) {
	return b.lr.Read(p)
}

func (b *limitedBody) Close() error {
	_, err := io.Copy(io.Discard, b.lr)
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return nil
	}
	return err
}
