package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

const (
	DefaultBaseURL = "https://www.gurkerl.at"
	// RequestTimeout is the fixed per-request timeout of the HTTP gateway.
	RequestTimeout = 30 * time.Second
	appDirName     = "gurkerlcli"
)

// Config holds runtime configuration parsed from environment variables.
type Config struct {
	BaseURL   string
	ConfigDir string
	EnvFile   string
	Debug     bool
}

// FromEnv builds Config with defaults, overridden by environment variables.
func FromEnv() Config {
	return Config{
		BaseURL:   strings.TrimRight(envOrDefault("GURKERL_BASE_URL", DefaultBaseURL), "/"),
		ConfigDir: envOrDefault("GURKERL_CONFIG_DIR", defaultConfigDir()),
		EnvFile:   envOrDefault("GURKERL_ENV_FILE", ".env"),
		Debug:     envBool("GURKERL_DEBUG", false),
	}
}

// SessionFile is where the login session is persisted.
func (c Config) SessionFile() string {
	return filepath.Join(c.ConfigDir, "session.json")
}

// FakeShopConfig configures the local API imitation.
type FakeShopConfig struct {
	HTTPAddr        string
	UserEmail       string
	UserPassword    string
	CatalogFile     string
	ShutdownTimeout time.Duration
}

func FakeShopFromEnv() FakeShopConfig {
	return FakeShopConfig{
		HTTPAddr:        envOrDefault("FAKESHOP_ADDR", ":8089"),
		UserEmail:       envOrDefault("FAKESHOP_USER_EMAIL", "demo@example.com"),
		UserPassword:    envOrDefault("FAKESHOP_USER_PASSWORD", "demo-password"),
		CatalogFile:     envOrDefault("FAKESHOP_CATALOG", ""),
		ShutdownTimeout: envDuration("SHUTDOWN_TIMEOUT_SECONDS", 10*time.Second),
	}
}

func defaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "."+appDirName)
	}
	return filepath.Join(home, ".config", appDirName)
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		seconds, err := strconv.Atoi(v)
		if err == nil {
			return time.Duration(seconds) * time.Second
		}
	}
	return def
}

func envBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}
