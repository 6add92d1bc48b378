package server

import (
	"fmt"
	"io"
	"net"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"httpcore/message"
)

// synthesizer turns handler results and mapped failures into concrete
// responses, substituting the last-resort default when the handler
// violates its contract.
type synthesizer struct {
	handler Handler
	logger  *zap.Logger
}

func (sy *synthesizer) createResponse(req *message.Request, conn net.Conn) *message.Response {
	resp, err := sy.handler.OnRequest(req, conn)
	if err != nil || resp == nil {
		sy.logViolation(conn, err)
		return DefaultErrorResponse(500)
	}
	return resp
}

func (sy *synthesizer) createErrorResponse(status int, conn net.Conn) *message.Response {
	resp, err := sy.handler.OnError(status, conn)
	if err != nil || resp == nil {
		sy.logViolation(conn, err)
		return DefaultErrorResponse(500)
	}
	return resp
}

func (sy *synthesizer) logViolation(conn net.Conn, cause error) {
	fields := []zap.Field{
		zap.String("remote_addr", conn.RemoteAddr().String()),
		zap.String("local_addr", conn.LocalAddr().String()),
	}
	if cause != nil {
		fields = append(fields, zap.Error(cause))
	} else {
		fields = append(fields, zap.String("cause", "handler returned no response"))
	}
	sy.logger.Error("handler violated its contract", fields...)
}

// DefaultErrorResponse is the last-resort error page: a plain-text
// "<code> Error" body with Connection: close, so the connection always
// terminates cleanly after it.
func DefaultErrorResponse(code int) *message.Response {
	body := fmt.Sprintf("%d Error", code)
	return message.NewResponse(code).
		WithHeader("Content-Type", "text/plain").
		WithHeader("Content-Length", strconv.Itoa(len(body))).
		WithHeader("Connection", "close").
		WithBody(io.NopCloser(strings.NewReader(body)))
}
