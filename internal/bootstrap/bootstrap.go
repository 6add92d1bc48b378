// Package bootstrap wires configuration, logging and the server core
// into a runnable process.
package bootstrap

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"httpcore/http1"
	"httpcore/internal/config"
	"httpcore/internal/logging"
	"httpcore/internal/transport"
	"httpcore/internal/version"
	"httpcore/server"
)

type Bootstrap struct {
	Config     config.Config
	Logger     *zap.Logger
	Server     server.Server
	ErrChan    chan error
	SignalChan chan os.Signal
}

func New(cfg config.Config, handler server.Handler) (*Bootstrap, error) {
	logger, err := logging.New(cfg.DevLogging())
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}

	srv := server.New(http1.NewCodec(), handler, server.WithLogger(logger))

	return &Bootstrap{
		Config:     cfg,
		Logger:     logger,
		Server:     srv,
		ErrChan:    make(chan error, 1),
		SignalChan: make(chan os.Signal, 1),
	}, nil
}

func (b *Bootstrap) listenOptions() ([]server.ListenOption, error) {
	opts := []server.ListenOption{
		server.WithTimeout(b.Config.Timeout()),
		server.WithPersistent(b.Config.AllowPersistent()),
	}
	if !b.Config.TLSEnabled() {
		return opts, nil
	}
	tlsCfg, err := transport.NewTLSConfig(transport.TLSOptions{
		CertFile:        b.Config.CertFile(),
		KeyFile:         b.Config.KeyFile(),
		Domain:          b.Config.Domain(),
		CloudflareToken: b.Config.CloudflareToken(),
		ACMEEmail:       b.Config.ACMEEmail(),
		ACMEStaging:     b.Config.ACMEStaging(),
		StoragePath:     b.Config.TLSStoragePath(),
	}, b.Logger)
	if err != nil {
		return nil, fmt.Errorf("build TLS config: %w", err)
	}
	return append(opts, server.WithTLSConfig(tlsCfg)), nil
}

// Run starts the server and blocks until a fatal server error or a
// termination signal, then closes all listeners and drains the accept
// loops.
func (b *Bootstrap) Run() error {
	b.Logger.Info("starting",
		zap.String("version", version.GetShortVersion()),
		zap.String("build", version.GetVersion()),
	)
	signal.Notify(b.SignalChan, os.Interrupt, syscall.SIGTERM)

	opts, err := b.listenOptions()
	if err != nil {
		return err
	}
	if err := b.Server.Listen(b.Config.Port(), b.Config.Address(), opts...); err != nil {
		return fmt.Errorf("listen: %w", err)
	}

	go func() {
		b.ErrChan <- b.Server.Wait()
	}()

	select {
	case err := <-b.ErrChan:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case sig := <-b.SignalChan:
		b.Logger.Info("received signal, shutting down", zap.String("signal", sig.String()))
		if err := b.Server.Close(); err != nil {
			b.Logger.Warn("failed to close listeners", zap.Error(err))
		}
		return b.Server.Wait()
	}
}
