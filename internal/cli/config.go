package cli

import (
	"os"
	"path/filepath"
)

// Config holds CLI configuration, resolved from flags and WARCTL_* env vars
type Config struct {
	ServerURL string
	Token     string
	TokenFile string
	Output    string
	Verbose   bool
}

// DefaultConfig returns a Config with default values
func DefaultConfig() *Config {
	return &Config{
		ServerURL: envOr("WARCTL_SERVER", "http://localhost:8080"),
		Token:     os.Getenv("WARCTL_TOKEN"),
		TokenFile: envOr("WARCTL_TOKEN_FILE", defaultTokenFile()),
		Output:    "text",
	}
}

// LoadToken fills Token from the token file unless a flag or env var
// already set it. A missing file just means nobody is logged in.
func (c *Config) LoadToken() error {
	if c.Token != "" {
		return nil
	}
	data, err := os.ReadFile(c.TokenFile)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}
	c.Token = string(data)
	return nil
}

// SaveToken persists the session token so later invocations stay logged in
func (c *Config) SaveToken(token string) error {
	c.Token = token
	if err := os.MkdirAll(filepath.Dir(c.TokenFile), 0700); err != nil {
		return err
	}
	return os.WriteFile(c.TokenFile, []byte(token), 0600)
}

// ClearToken removes the stored token
func (c *Config) ClearToken() error {
	c.Token = ""
	if err := os.Remove(c.TokenFile); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func defaultTokenFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".warctl/token"
	}
	return filepath.Join(home, ".warctl", "token")
}

func envOr(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}
