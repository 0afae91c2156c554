package shared

import (
	_ "embed"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
)

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Database DatabaseConfig `toml:"database"`
	Server   ServerConfig   `toml:"server"`
	TVDB     TVDBConfig     `toml:"tvdb"`
	Auth     AuthConfig     `toml:"auth"`
}

// DatabaseConfig contains database connection settings.
type DatabaseConfig struct {
	Path         string `toml:"path"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Host      string `toml:"host"`
	Port      int    `toml:"port"`
	PublicDir string `toml:"public_dir"`
}

// Addr returns the host:port listen address.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// TVDBConfig contains TheTVDB metadata provider settings.
//
// Timeout is a Go duration string; "0" or an empty value disables the client timeout.
// RequestsPerSecond of 0 leaves outbound calls unthrottled.
type TVDBConfig struct {
	BaseURL           string  `toml:"base_url"`
	APIKey            string  `toml:"api_key"`
	Language          string  `toml:"language"`
	Timeout           string  `toml:"timeout"`
	RequestsPerSecond float64 `toml:"requests_per_second"`
}

// ClientTimeout parses Timeout, returning 0 (no timeout) when unset.
func (t TVDBConfig) ClientTimeout() (time.Duration, error) {
	if t.Timeout == "" || t.Timeout == "0" {
		return 0, nil
	}

	d, err := time.ParseDuration(t.Timeout)
	if err != nil {
		return 0, fmt.Errorf("%w: tvdb.timeout: %v", ErrInvalidConfig, err)
	}
	return d, nil
}

// AuthConfig contains session cookie and login throttling settings.
type AuthConfig struct {
	CookieName     string `toml:"cookie_name"`
	CookieSecure   bool   `toml:"cookie_secure"`
	SessionTTL     string `toml:"session_ttl"`
	LoginRateLimit int    `toml:"login_rate_limit"`
}

// SessionDuration parses SessionTTL, returning 0 (no expiry) when unset.
func (a AuthConfig) SessionDuration() (time.Duration, error) {
	if a.SessionTTL == "" || a.SessionTTL == "0" {
		return 0, nil
	}

	d, err := time.ParseDuration(a.SessionTTL)
	if err != nil {
		return 0, fmt.Errorf("%w: auth.session_ttl: %v", ErrInvalidConfig, err)
	}
	return d, nil
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
//
// Values missing from the file keep the embedded defaults; environment overrides are applied last.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	config.applyEnv()
	return config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// applyEnv overrides selected values from SHOWTRACK_PORT and TVDB_API_KEY.
func (c *Config) applyEnv() {
	if port, err := strconv.Atoi(os.Getenv("SHOWTRACK_PORT")); err == nil && port > 0 {
		c.Server.Port = port
	}
	if key := os.Getenv("TVDB_API_KEY"); key != "" {
		c.TVDB.APIKey = key
	}
}
