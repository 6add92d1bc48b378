package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_Defaults(t *testing.T) {
	for _, key := range []string{"ADDRESS", "PORT", "TIMEOUT", "ALLOW_PERSISTENT", "TLS_ENABLED", "LOG_DEV"} {
		t.Setenv(key, "")
	}

	cfg, err := parse()
	require.NoError(t, err)

	assert.Equal(t, "*", cfg.address)
	assert.Equal(t, 8080, cfg.port)
	assert.Equal(t, 15.0, cfg.timeout)
	assert.True(t, cfg.allowPersistent)
	assert.False(t, cfg.tlsEnabled)
	assert.Equal(t, "certs/certmagic", cfg.tlsStoragePath)
	assert.False(t, cfg.devLogging)
}

func TestParse_Overrides(t *testing.T) {
	t.Setenv("ADDRESS", "127.0.0.1")
	t.Setenv("PORT", "9090")
	t.Setenv("TIMEOUT", "2.5")
	t.Setenv("ALLOW_PERSISTENT", "false")
	t.Setenv("LOG_DEV", "true")

	cfg, err := parse()
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1", cfg.address)
	assert.Equal(t, 9090, cfg.port)
	assert.Equal(t, 2.5, cfg.timeout)
	assert.False(t, cfg.allowPersistent)
	assert.True(t, cfg.devLogging)
}

func TestParse_InvalidPort(t *testing.T) {
	for _, port := range []string{"0", "65536", "notanumber"} {
		t.Setenv("PORT", port)
		_, err := parse()
		assert.Error(t, err, "PORT %q", port)
	}
}

func TestParse_InvalidTimeout(t *testing.T) {
	for _, timeout := range []string{"0", "-1", "soon"} {
		t.Setenv("TIMEOUT", timeout)
		_, err := parse()
		assert.Error(t, err, "TIMEOUT %q", timeout)
	}
}

func TestParse_TLSRequiresCredentials(t *testing.T) {
	t.Setenv("TLS_ENABLED", "true")

	_, err := parse()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "CERT_LOC")
}

func TestParse_TLSWithTokenRequiresDomain(t *testing.T) {
	t.Setenv("TLS_ENABLED", "true")
	t.Setenv("CF_API_TOKEN", "token")

	_, err := parse()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DOMAIN")
}

func TestParse_TLSWithCertificatePair(t *testing.T) {
	t.Setenv("TLS_ENABLED", "true")
	t.Setenv("CERT_LOC", "cert.pem")
	t.Setenv("KEY_LOC", "key.pem")

	cfg, err := parse()
	require.NoError(t, err)
	assert.True(t, cfg.tlsEnabled)
	assert.Equal(t, "cert.pem", cfg.certFile)
	assert.Equal(t, "key.pem", cfg.keyFile)
}

func TestGetenvBool(t *testing.T) {
	t.Setenv("FLAG", "")
	assert.True(t, getenvBool("FLAG", true))
	assert.False(t, getenvBool("FLAG", false))

	t.Setenv("FLAG", "true")
	assert.True(t, getenvBool("FLAG", false))

	t.Setenv("FLAG", "yes")
	assert.False(t, getenvBool("FLAG", true))
}
