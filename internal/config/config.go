package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	// ConfigFileName is the name of the configuration file.
	ConfigFileName = "strata.yaml"

	// DefaultPort is the default server port.
	DefaultPort = 3000

	// DefaultHost is the default server host.
	DefaultHost = "localhost"

	// DefaultSessionTTL is how long idle browser sessions are kept.
	DefaultSessionTTL = 30 * time.Minute

	// DefaultSessionCookie is the session cookie name.
	DefaultSessionCookie = "strata_session"
)

// Config is the complete strata.yaml configuration.
type Config struct {
	// Name is the project name.
	Name string `yaml:"name,omitempty"`

	// Server contains the HTTP server settings.
	Server ServerConfig `yaml:"server,omitempty"`

	// Forms contains submission handling settings.
	Forms FormsConfig `yaml:"forms,omitempty"`

	// Session contains browser-session settings.
	Session SessionConfig `yaml:"session,omitempty"`

	// Upload contains file upload settings.
	Upload UploadConfig `yaml:"upload,omitempty"`

	// configPath stores where the config was loaded from.
	configPath string
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	// Host is the address to bind to.
	Host string `yaml:"host,omitempty"`

	// Port is the port to listen on.
	Port int `yaml:"port,omitempty"`
}

// FormsConfig contains submission handling settings.
type FormsConfig struct {
	// StrictMethodCheck rejects submissions arriving over a method other
	// than the form's declared one.
	StrictMethodCheck bool `yaml:"strictMethodCheck,omitempty"`

	// CSRF enables the security token on forms by default.
	CSRF *bool `yaml:"csrf,omitempty"`
}

// SessionConfig contains browser-session settings.
type SessionConfig struct {
	// TTL is how long idle sessions are kept (e.g. "30m").
	TTL string `yaml:"ttl,omitempty"`

	// CookieName names the session cookie.
	CookieName string `yaml:"cookieName,omitempty"`

	// SecureCookie restricts the cookie to HTTPS.
	SecureCookie bool `yaml:"secureCookie,omitempty"`
}

// UploadConfig contains file upload settings.
type UploadConfig struct {
	// Dir is the temp directory for disk-backed uploads.
	Dir string `yaml:"dir,omitempty"`

	// MaxFileSize is the maximum accepted size in bytes.
	MaxFileSize int64 `yaml:"maxFileSize,omitempty"`

	// S3Bucket, when set, switches storage to S3.
	S3Bucket string `yaml:"s3Bucket,omitempty"`

	// S3Prefix is the key prefix for temp objects.
	S3Prefix string `yaml:"s3Prefix,omitempty"`
}

// Default returns a config with every default applied.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	if c.Server.Host == "" {
		c.Server.Host = DefaultHost
	}
	if c.Server.Port == 0 {
		c.Server.Port = DefaultPort
	}
	if c.Session.TTL == "" {
		c.Session.TTL = DefaultSessionTTL.String()
	}
	if c.Session.CookieName == "" {
		c.Session.CookieName = DefaultSessionCookie
	}
	if c.Upload.Dir == "" {
		c.Upload.Dir = filepath.Join(os.TempDir(), "strata-uploads")
	}
	if c.Upload.MaxFileSize == 0 {
		c.Upload.MaxFileSize = 10 << 20
	}
}

// Load reads and validates the config at path. A missing file yields
// the defaults rather than an error.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	cfg := &Config{configPath: path}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadDir looks for ConfigFileName in dir.
func LoadDir(dir string) (*Config, error) {
	return Load(filepath.Join(dir, ConfigFileName))
}

// Validate checks the loaded values for consistency.
func (c *Config) Validate() error {
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("config: invalid port %d", c.Server.Port)
	}
	if _, err := c.SessionTTL(); err != nil {
		return fmt.Errorf("config: invalid session ttl %q: %w", c.Session.TTL, err)
	}
	if c.Upload.MaxFileSize < 0 {
		return fmt.Errorf("config: negative upload size limit")
	}
	return nil
}

// SessionTTL parses the session TTL.
func (c *Config) SessionTTL() (time.Duration, error) {
	if c.Session.TTL == "" {
		return DefaultSessionTTL, nil
	}
	return time.ParseDuration(c.Session.TTL)
}

// CSRFEnabled reports the effective CSRF default.
func (c *Config) CSRFEnabled() bool {
	if c.Forms.CSRF == nil {
		return true
	}
	return *c.Forms.CSRF
}

// Addr returns the host:port the server binds to.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// Path returns where the config was loaded from, if it came from disk.
func (c *Config) Path() string { return c.configPath }

// Save writes the config back to its path (or the given fallback).
func (c *Config) Save(path string) error {
	if path == "" {
		path = c.configPath
	}
	if path == "" {
		path = ConfigFileName
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("config: encode: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}
