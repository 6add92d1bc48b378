package http1

import (
	"bufio"
	"fmt"
	"io"
	"net"
	"strings"
	"time"

	"httpcore/message"
)

// WriteResponse serializes the response, bounded by timeout. Headers
// go out in stored order with stored casing. When the finalized
// response does not keep the connection alive, the per-connection
// read state is dropped.
func (c *Codec) WriteResponse(conn net.Conn, resp *message.Response, req *message.Request, timeout time.Duration) error {
	if !strings.EqualFold(resp.HeaderLine("Connection"), "keep-alive") {
		defer c.evict(conn)
	}
	if timeout > 0 {
		if err := conn.SetWriteDeadline(time.Now().Add(timeout)); err != nil {
			return err
		}
	}
	bw := bufio.NewWriter(conn)
	if err := writeStatusLine(bw, resp); err != nil {
		c.evict(conn)
		return err
	}
	if err := writeHeaderFields(bw, resp.Header()); err != nil {
		c.evict(conn)
		return err
	}
	if body := resp.Body(); body != nil && !omitBody(resp, req) {
		if _, err := io.Copy(bw, body); err != nil {
			c.evict(conn)
			return err
		}
	}
	if err := bw.Flush(); err != nil {
		c.evict(conn)
		return err
	}
	return nil
}

func writeStatusLine(bw *bufio.Writer, resp *message.Response) error {
	reason := resp.Reason()
	if reason == "" {
		reason = reasonPhrase(resp.Status())
	}
	_, err := fmt.Fprintf(bw, "%s %d %s\r\n", resp.Version(), resp.Status(), reason)
	return err
}

func writeHeaderFields(bw *bufio.Writer, header message.Header) error {
	for _, name := range header.Names() {
		for _, value := range header.Values(name) {
			if _, err := fmt.Fprintf(bw, "%s: %s\r\n", name, sanitizeValue(value)); err != nil {
				return err
			}
		}
	}
	_, err := io.WriteString(bw, "\r\n")
	return err
}

// omitBody reports whether the response body must not go on the wire
// (HEAD requests and bodyless status codes).
func omitBody(resp *message.Response, req *message.Request) bool {
	if req != nil && req.Method() == "HEAD" {
		return true
	}
	status := resp.Status()
	if status >= 100 && status < 200 {
		return true
	}
	return status == 204 || status == 304
}

// sanitizeValue strips CR, LF and other control bytes so a header
// value can never break out of its field.
func sanitizeValue(v string) string {
	clean := true
	for i := 0; i < len(v); i++ {
		if b := v[i]; b == '\r' || b == '\n' || b == 0x7f || (b < 0x20 && b != '\t') {
			clean = false
			break
		}
	}
	if clean {
		return v
	}
	var sb strings.Builder
	sb.Grow(len(v))
	for i := 0; i < len(v); i++ {
		b := v[i]
		if b == '\r' || b == '\n' || b == 0x7f || (b < 0x20 && b != '\t') {
			continue
		}
		sb.WriteByte(b)
	}
	return sb.String()
}

func reasonPhrase(code int) string {
	switch code {
	case 100:
		return "Continue"
	case 200:
		return "OK"
	case 201:
		return "Created"
	case 202:
		return "Accepted"
	case 204:
		return "No Content"
	case 301:
		return "Moved Permanently"
	case 302:
		return "Found"
	case 304:
		return "Not Modified"
	case 400:
		return "Bad Request"
	case 401:
		return "Unauthorized"
	case 403:
		return "Forbidden"
	case 404:
		return "Not Found"
	case 405:
		return "Method Not Allowed"
	case 408:
		return "Request Timeout"
	case 411:
		return "Length Required"
	case 413:
		return "Content Too Large"
	case 414:
		return "URI Too Long"
	case 431:
		return "Request Header Fields Too Large"
	case 500:
		return "Internal Server Error"
	case 501:
		return "Not Implemented"
	case 503:
		return "Service Unavailable"
	case 505:
		return "HTTP Version Not Supported"
	default:
		return "Error"
	}
}
