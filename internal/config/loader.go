package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type config struct {
	address string
	port    int

	timeout         float64
	allowPersistent bool

	tlsEnabled bool
	certFile   string
	keyFile    string

	domain          string
	cloudflareToken string
	acmeEmail       string
	acmeStaging     bool
	tlsStoragePath  string

	devLogging bool
}

func parse() (*config, error) {
	address := getenv("ADDRESS", "*")

	port, err := parsePort()
	if err != nil {
		return nil, err
	}

	timeout, err := parseTimeout()
	if err != nil {
		return nil, err
	}

	allowPersistent := getenvBool("ALLOW_PERSISTENT", true)

	tlsEnabled := getenvBool("TLS_ENABLED", false)
	certFile := getenv("CERT_LOC", "")
	keyFile := getenv("KEY_LOC", "")

	domain := getenv("DOMAIN", "")
	cfToken := getenv("CF_API_TOKEN", "")
	if tlsEnabled && certFile == "" && cfToken == "" {
		return nil, fmt.Errorf("either CERT_LOC/KEY_LOC or CF_API_TOKEN is required when TLS is enabled")
	}
	if tlsEnabled && certFile == "" && domain == "" {
		return nil, fmt.Errorf("DOMAIN is required for automatic certificates")
	}

	acmeEmail := getenv("ACME_EMAIL", "")
	acmeStaging := getenvBool("ACME_STAGING", false)
	tlsStoragePath := getenv("TLS_STORAGE_PATH", "certs/certmagic")

	devLogging := getenvBool("LOG_DEV", false)

	return &config{
		address:         address,
		port:            port,
		timeout:         timeout,
		allowPersistent: allowPersistent,
		tlsEnabled:      tlsEnabled,
		certFile:        certFile,
		keyFile:         keyFile,
		domain:          domain,
		cloudflareToken: cfToken,
		acmeEmail:       acmeEmail,
		acmeStaging:     acmeStaging,
		tlsStoragePath:  tlsStoragePath,
		devLogging:      devLogging,
	}, nil
}

func loadEnvFile() error {
	if _, err := os.Stat(".env"); err == nil {
		return godotenv.Load(".env")
	}
	return nil
}

func parsePort() (int, error) {
	raw := getenv("PORT", "8080")
	port, err := strconv.Atoi(raw)
	if err != nil || port < 1 || port > 65535 {
		return 0, fmt.Errorf("invalid PORT value %q", raw)
	}
	return port, nil
}

func parseTimeout() (float64, error) {
	raw := getenv("TIMEOUT", "15")
	timeout, err := strconv.ParseFloat(raw, 64)
	if err != nil || timeout <= 0 {
		return 0, fmt.Errorf("invalid TIMEOUT value %q", raw)
	}
	return timeout, nil
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvBool(key string, def bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return def
	}
	return val == "true"
}
