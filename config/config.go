package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds dashboard client configuration.
type Config struct {
	BaseURL           string        `yaml:"base_url"`
	CryptoBaseURL     string        `yaml:"crypto_base_url"` // empty means BaseURL
	Timeout           time.Duration `yaml:"timeout"`
	RequestsPerSecond float64       `yaml:"requests_per_second"`
	Burst             int           `yaml:"burst"`
	CacheSize         int           `yaml:"cache_size"`
	CacheTTL          time.Duration `yaml:"cache_ttl"`
	PageSize          int           `yaml:"page_size"`
	DemoFallback      bool          `yaml:"demo_fallback"`
	UserAgent         string        `yaml:"user_agent"`
	MetricsAddr       string        `yaml:"metrics_addr"`
	Verbose           bool          `yaml:"verbose"`
}

// DefaultConfig returns defaults matching a locally running API.
func DefaultConfig() *Config {
	return &Config{
		BaseURL:           "http://localhost:5000/api",
		CryptoBaseURL:     "",
		Timeout:           10 * time.Second,
		RequestsPerSecond: 0,
		Burst:             1,
		CacheSize:         128,
		CacheTTL:          30 * time.Second,
		PageSize:          20,
		DemoFallback:      false,
		UserAgent:         "go-live-dashboard/1.0",
		MetricsAddr:       "",
		Verbose:           false,
	}
}

// CryptoURL returns the base URL used by the crypto client.
func (c *Config) CryptoURL() string {
	if c.CryptoBaseURL != "" {
		return c.CryptoBaseURL
	}
	return c.BaseURL
}

// Validate ensures all configuration values are coherent.
func (c *Config) Validate() error {
	if err := validateURL("base URL", c.BaseURL); err != nil {
		return err
	}
	if c.CryptoBaseURL != "" {
		if err := validateURL("crypto base URL", c.CryptoBaseURL); err != nil {
			return err
		}
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	if c.RequestsPerSecond < 0 {
		return fmt.Errorf("requests per second cannot be negative")
	}
	if c.RequestsPerSecond > 0 && c.Burst <= 0 {
		return fmt.Errorf("burst must be positive when rate limiting is enabled")
	}
	if c.CacheSize < 0 {
		return fmt.Errorf("cache size cannot be negative")
	}
	if c.CacheTTL < 0 {
		return fmt.Errorf("cache ttl cannot be negative")
	}
	if c.PageSize <= 0 {
		return fmt.Errorf("page size must be positive")
	}
	if c.UserAgent == "" {
		return fmt.Errorf("user agent cannot be empty")
	}
	return nil
}

func validateURL(name, raw string) error {
	if raw == "" {
		return fmt.Errorf("%s cannot be empty", name)
	}
	parsed, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", name, err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("%s must use http or https", name)
	}
	if parsed.Host == "" {
		return fmt.Errorf("%s must include a host", name)
	}
	return nil
}

// LoadFile overlays the YAML document at path onto c. Keys absent from the
// file keep their current value.
func (c *Config) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("unmarshal yaml: %w", err)
	}
	return nil
}

// ApplyEnv overrides fields from DASHBOARD_* environment variables.
func (c *Config) ApplyEnv() error {
	if value, ok := EnvString("DASHBOARD_API_URL"); ok {
		c.BaseURL = value
	}
	if value, ok := EnvString("DASHBOARD_CRYPTO_API_URL"); ok {
		c.CryptoBaseURL = value
	}
	if value, ok, err := EnvDuration("DASHBOARD_TIMEOUT"); err != nil {
		return err
	} else if ok {
		c.Timeout = value
	}
	if value, ok, err := EnvInt("DASHBOARD_PAGE_SIZE"); err != nil {
		return err
	} else if ok {
		c.PageSize = value
	}
	if value, ok, err := EnvInt("DASHBOARD_CACHE_SIZE"); err != nil {
		return err
	} else if ok {
		c.CacheSize = value
	}
	if value, ok, err := EnvBool("DASHBOARD_DEMO_FALLBACK"); err != nil {
		return err
	} else if ok {
		c.DemoFallback = value
	}
	if value, ok := EnvString("DASHBOARD_METRICS_ADDR"); ok {
		c.MetricsAddr = value
	}
	return nil
}

// EnvString returns the trimmed value of key when it is set and non-empty.
func EnvString(key string) (string, bool) {
	value, ok := os.LookupEnv(key)
	if !ok {
		return "", false
	}
	value = strings.TrimSpace(value)
	if value == "" {
		return "", false
	}
	return value, true
}

// EnvInt parses key as an integer.
func EnvInt(key string) (int, bool, error) {
	value, ok := EnvString(key)
	if !ok {
		return 0, false, nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, false, fmt.Errorf("%s: %w", key, err)
	}
	return parsed, true, nil
}

// EnvBool parses key with strconv.ParseBool.
func EnvBool(key string) (bool, bool, error) {
	value, ok := EnvString(key)
	if !ok {
		return false, false, nil
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return false, false, fmt.Errorf("%s: %w", key, err)
	}
	return parsed, true, nil
}

// EnvDuration parses key as a Go duration string such as "5s".
func EnvDuration(key string) (time.Duration, bool, error) {
	value, ok := EnvString(key)
	if !ok {
		return 0, false, nil
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return 0, false, fmt.Errorf("%s: %w", key, err)
	}
	return parsed, true, nil
}
