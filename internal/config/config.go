package config

type Config interface {
	Address() string
	Port() int

	Timeout() float64
	AllowPersistent() bool

	TLSEnabled() bool
	CertFile() string
	KeyFile() string

	Domain() string
	CloudflareToken() string
	ACMEEmail() string
	ACMEStaging() bool
	TLSStoragePath() string

	DevLogging() bool
}

func MustLoad() (Config, error) {
	if err := loadEnvFile(); err != nil {
		return nil, err
	}

	cfg, err := parse()
	if err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *config) Address() string         { return c.address }
func (c *config) Port() int               { return c.port }
func (c *config) Timeout() float64        { return c.timeout }
func (c *config) AllowPersistent() bool   { return c.allowPersistent }
func (c *config) TLSEnabled() bool        { return c.tlsEnabled }
func (c *config) CertFile() string        { return c.certFile }
func (c *config) KeyFile() string         { return c.keyFile }
func (c *config) Domain() string          { return c.domain }
func (c *config) CloudflareToken() string { return c.cloudflareToken }
func (c *config) ACMEEmail() string       { return c.acmeEmail }
func (c *config) ACMEStaging() bool       { return c.acmeStaging }
func (c *config) TLSStoragePath() string  { return c.tlsStoragePath }
func (c *config) DevLogging() bool        { return c.devLogging }
