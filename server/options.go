package server

import (
	"crypto/tls"
	"time"

	"go.uber.org/zap"
)

// DefaultTimeout bounds handshake, read and write when no explicit
// timeout option is given.
const DefaultTimeout = 15 * time.Second

// Option configures a Server at construction time.
type Option func(*server)

func WithLogger(logger *zap.Logger) Option {
	return func(s *server) {
		s.logger = logger
	}
}

// WithSocketFactory replaces the default TCP socket factory.
func WithSocketFactory(factory SocketFactory) Option {
	return func(s *server) {
		s.factory = factory
	}
}

// ListenOption configures a single Listen call.
type ListenOption func(*listenConfig)

type listenConfig struct {
	tlsConfig       *tls.Config
	certFile        string
	keyFile         string
	timeout         time.Duration
	allowPersistent bool
}

// WithTLSConfig sets an explicit TLS negotiation method, overriding
// any certificate option.
func WithTLSConfig(cfg *tls.Config) ListenOption {
	return func(lc *listenConfig) {
		lc.tlsConfig = cfg
	}
}

// WithCertificate supplies a PEM certificate/key pair. Its presence
// enables TLS with a default server configuration when no explicit
// TLS config was given.
func WithCertificate(certFile, keyFile string) ListenOption {
	return func(lc *listenConfig) {
		lc.certFile = certFile
		lc.keyFile = keyFile
	}
}

// WithTimeout bounds handshake, read and write in seconds.
func WithTimeout(seconds float64) ListenOption {
	return func(lc *listenConfig) {
		lc.timeout = time.Duration(seconds * float64(time.Second))
	}
}

// WithPersistent controls whether keep-alive may be offered.
func WithPersistent(allow bool) ListenOption {
	return func(lc *listenConfig) {
		lc.allowPersistent = allow
	}
}

// resolve derives the effective per-listener options: an explicit TLS
// config wins, a certificate pair enables a default TLS server config,
// otherwise the listener stays plaintext.
func resolve(opts []ListenOption) (listenConfig, error) {
	lc := listenConfig{
		timeout:         DefaultTimeout,
		allowPersistent: true,
	}
	for _, opt := range opts {
		opt(&lc)
	}
	if lc.tlsConfig == nil && lc.certFile != "" {
		cert, err := tls.LoadX509KeyPair(lc.certFile, lc.keyFile)
		if err != nil {
			return lc, err
		}
		lc.tlsConfig = &tls.Config{
			Certificates: []tls.Certificate{cert},
			MinVersion:   tls.VersionTLS12,
		}
	}
	return lc, nil
}
