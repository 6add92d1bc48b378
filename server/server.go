package server

import (
	"fmt"
	"net"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"httpcore/internal/transport"
)

// Server owns the listening endpoints and drives every accepted
// connection through the request/response cycle. Per-connection
// failures are isolated; an unexpected failure escaping a listener's
// accept loop closes the whole server and surfaces from Wait.
type Server interface {
	// Listen binds the given address and starts accepting. ErrClosed
	// once the server has been closed.
	Listen(port int, address string, opts ...ListenOption) error

	// Close stops all listeners; in-flight connections finish.
	Close() error

	// Wait blocks until every accept loop has stopped.
	Wait() error
}

type server struct {
	driver  Driver
	handler Handler
	factory SocketFactory
	logger  *zap.Logger

	group errgroup.Group

	mu        sync.Mutex
	closed    bool
	listeners []net.Listener
}

func New(driver Driver, handler Handler, opts ...Option) Server {
	s := &server{
		driver:  driver,
		handler: handler,
		factory: transport.NewSocketFactory(),
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// expandAddress maps the wildcard and localhost shorthands to their
// concrete dual-stack address pairs.
func expandAddress(address string) []string {
	switch address {
	case "*":
		return []string{"0.0.0.0", "::"}
	case "localhost":
		return []string{"127.0.0.1", "::1"}
	default:
		return []string{address}
	}
}

// Listen binds the given address (expanding "*" and "localhost" into
// two listeners) and starts one accept loop per bound address. Any
// bind failure closes the whole server and is returned.
func (s *server) Listen(port int, address string, opts ...ListenOption) error {
	cfg, err := resolve(opts)
	if err != nil {
		_ = s.Close()
		return fmt.Errorf("listen %s:%d: %w", address, port, err)
	}

	for _, addr := range expandAddress(address) {
		ln, err := s.bind(addr, port)
		if err != nil {
			_ = s.Close()
			return err
		}
		s.group.Go(func() error {
			return s.acceptLoop(ln, cfg)
		})
	}
	return nil
}

func (s *server) bind(address string, port int) (net.Listener, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, ErrClosed
	}
	ln, err := s.factory.Create(address, port)
	if err != nil {
		return nil, fmt.Errorf("bind %s:%d: %w", address, port, err)
	}
	s.listeners = append(s.listeners, ln)
	return ln, nil
}

func (s *server) acceptLoop(ln net.Listener, cfg listenConfig) error {
	s.logger.Info("listening", zap.String("addr", ln.Addr().String()), zap.Bool("tls", cfg.tlsConfig != nil))
	for {
		conn, err := ln.Accept()
		if err != nil {
			if !s.isOpen() {
				return nil
			}
			// A broken listener is an unrecoverable infrastructure
			// fault: tear the whole server down.
			_ = s.Close()
			return fmt.Errorf("accept on %s: %w", ln.Addr(), err)
		}
		go s.serveConn(conn, cfg)
	}
}

func (s *server) isOpen() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.closed
}

// Close flips the open flag and closes every registered listener.
// In-flight connections run to their natural completion. Close is
// idempotent.
func (s *server) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	var first error
	for _, ln := range s.listeners {
		if err := ln.Close(); err != nil && first == nil {
			first = err
		}
	}
	s.listeners = nil
	return first
}

// Wait blocks until every accept loop has stopped and returns the
// first unexpected listener-level error, if any.
func (s *server) Wait() error {
	return s.group.Wait()
}
