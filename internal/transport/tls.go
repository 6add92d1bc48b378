package transport

import (
	"context"
	"crypto/tls"
	"fmt"
	"os"

	"github.com/caddyserver/certmagic"
	"github.com/libdns/cloudflare"
	"go.uber.org/zap"
)

// TLSOptions selects the certificate source: a user-provided PEM pair
// when CertFile/KeyFile are set, otherwise ACME via Cloudflare DNS-01
// when a domain and API token are configured.
type TLSOptions struct {
	CertFile string
	KeyFile  string

	Domain          string
	CloudflareToken string
	ACMEEmail       string
	ACMEStaging     bool
	StoragePath     string
}

// NewTLSConfig builds the TLS server configuration from the options.
func NewTLSConfig(opts TLSOptions, logger *zap.Logger) (*tls.Config, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.CertFile != "" {
		return userCertConfig(opts, logger)
	}
	if opts.Domain != "" && opts.CloudflareToken != "" {
		return certMagicConfig(opts, logger)
	}
	return nil, fmt.Errorf("transport: no certificate source configured")
}

func userCertConfig(opts TLSOptions, logger *zap.Logger) (*tls.Config, error) {
	cert, err := tls.LoadX509KeyPair(opts.CertFile, opts.KeyFile)
	if err != nil {
		return nil, fmt.Errorf("transport: load certificate pair: %w", err)
	}
	logger.Info("using user-provided certificates",
		zap.String("cert", opts.CertFile),
		zap.String("key", opts.KeyFile),
	)
	return &tls.Config{
		Certificates: []tls.Certificate{cert},
		MinVersion:   tls.VersionTLS12,
	}, nil
}

func certMagicConfig(opts TLSOptions, logger *zap.Logger) (*tls.Config, error) {
	storagePath := opts.StoragePath
	if storagePath == "" {
		storagePath = "certs/certmagic"
	}
	if err := os.MkdirAll(storagePath, 0700); err != nil {
		return nil, fmt.Errorf("transport: create cert storage directory: %w", err)
	}

	var magic *certmagic.Config
	cache := certmagic.NewCache(certmagic.CacheOptions{
		GetConfigForCert: func(cert certmagic.Certificate) (*certmagic.Config, error) {
			return magic, nil
		},
	})
	magic = certmagic.New(cache, certmagic.Config{
		Storage: &certmagic.FileStorage{Path: storagePath},
	})

	email := opts.ACMEEmail
	if email == "" {
		email = "admin@" + opts.Domain
	}
	issuer := certmagic.NewACMEIssuer(magic, certmagic.ACMEIssuer{
		Email:  email,
		Agreed: true,
		DNS01Solver: &certmagic.DNS01Solver{
			DNSManager: certmagic.DNSManager{
				DNSProvider: &cloudflare.Provider{APIToken: opts.CloudflareToken},
			},
		},
	})
	if opts.ACMEStaging {
		issuer.CA = certmagic.LetsEncryptStagingCA
	} else {
		issuer.CA = certmagic.LetsEncryptProductionCA
	}
	magic.Issuers = []certmagic.Issuer{issuer}

	domains := []string{opts.Domain, "*." + opts.Domain}
	logger.Info("requesting certificates", zap.Strings("domains", domains), zap.Bool("staging", opts.ACMEStaging))
	if err := magic.ManageSync(context.Background(), domains); err != nil {
		return nil, fmt.Errorf("transport: obtain certificates: %w", err)
	}

	return &tls.Config{
		GetCertificate: magic.GetCertificate,
		MinVersion:     tls.VersionTLS12,
	}, nil
}
