package server

import (
	"crypto/tls"
	"errors"
	"io"
	"net"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"httpcore/message"
)

// connSession is the transient per-connection state: how many requests
// have been read, the negotiated timeout and persistence allowance,
// and whether the transport is still open.
type connSession struct {
	server   *server
	conn     net.Conn
	cfg      listenConfig
	logger   *zap.Logger
	requests int
}

// serveConn drives one accepted connection to completion. Nothing
// escapes to the supervisor from here: every failure is logged and the
// transport closed, leaving other connections untouched.
func (s *server) serveConn(conn net.Conn, cfg listenConfig) {
	logger := s.logger.With(
		zap.String("conn_id", uuid.NewString()),
		zap.String("remote_addr", conn.RemoteAddr().String()),
	)
	sess := &connSession{
		server: s,
		conn:   conn,
		cfg:    cfg,
		logger: logger,
	}
	if err := sess.run(); err != nil {
		logger.Warn("connection aborted", zap.Error(err))
	}
	if err := conn.Close(); err != nil && !errors.Is(err, net.ErrClosed) {
		logger.Warn("failed to close connection", zap.Error(err))
	}
}

// run walks Handshaking → (Reading → Responding)* → Closed. Requests
// on one connection are strictly sequential: the next read does not
// start until the previous response has been written and its body
// released.
func (cs *connSession) run() error {
	if cs.cfg.tlsConfig != nil {
		if err := cs.handshake(); err != nil {
			// No request has been read yet, so no response is owed.
			return err
		}
	}

	synth := &synthesizer{handler: cs.server.handler, logger: cs.logger}
	for {
		req, err := cs.server.driver.ReadRequest(cs.conn, cs.cfg.timeout)

		var resp *message.Response
		var malformed *MalformedMessageError
		switch {
		case err == nil:
			cs.requests++
			resp = synth.createResponse(req, cs.conn)
		case errors.Is(err, ErrTimeout) && cs.requests == 0:
			// No request ever arrived within the timeout.
			resp = synth.createErrorResponse(408, cs.conn)
		case errors.Is(err, ErrTimeout):
			// Idle keep-alive expiry after a completed exchange:
			// close silently.
			return nil
		case errors.Is(err, io.EOF):
			// Peer hung up between requests; nothing to answer.
			return nil
		case errors.As(err, &malformed):
			resp = synth.createErrorResponse(malformed.Status, cs.conn)
		case errors.Is(err, ErrInvalidHeaderValue), errors.Is(err, ErrParse):
			resp = synth.createErrorResponse(400, cs.conn)
		default:
			return err
		}

		resp = cs.server.driver.BuildResponse(resp, req, cs.cfg.timeout, cs.cfg.allowPersistent)
		werr := cs.server.driver.WriteResponse(cs.conn, resp, req, cs.cfg.timeout)
		releaseBody(resp)
		releaseRequest(req)
		if werr != nil {
			return werr
		}
		if !strings.EqualFold(resp.HeaderLine("Connection"), "keep-alive") {
			return nil
		}
	}
}

// handshake performs the TLS handshake bounded by the connection
// timeout and replaces the raw transport with the TLS one.
func (cs *connSession) handshake() error {
	tlsConn := tls.Server(cs.conn, cs.cfg.tlsConfig)
	if err := tlsConn.SetDeadline(time.Now().Add(cs.cfg.timeout)); err != nil {
		return err
	}
	if err := tlsConn.Handshake(); err != nil {
		return err
	}
	if err := tlsConn.SetDeadline(time.Time{}); err != nil {
		return err
	}
	cs.conn = tlsConn
	return nil
}

// releaseBody closes the outgoing body exactly once, after the write
// attempt, regardless of the write outcome.
func releaseBody(resp *message.Response) {
	if resp == nil {
		return
	}
	if body := resp.Body(); body != nil {
		_ = body.Close()
	}
}

// releaseRequest drains and closes the inbound body so a keep-alive
// connection is positioned at the next request.
func releaseRequest(req *message.Request) {
	if req == nil {
		return
	}
	if body := req.Body(); body != nil {
		_ = body.Close()
	}
}
