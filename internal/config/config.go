package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	toml "github.com/pelletier/go-toml/v2"
)

// Config captures folio's settings after file and environment overlays.
type Config struct {
	APIURL         string `toml:"api_url" env:"API_URL"`
	LogFile        string `toml:"log_file" env:"LOG_FILE"`
	LogLevel       string `toml:"log_level" env:"LOG_LEVEL"`
	SessionFile    string `toml:"session_file" env:"SESSION_FILE"`
	PrefsFile      string `toml:"prefs_file" env:"PREFS_FILE"`
	StrictBorrow   bool   `toml:"strict_borrow" env:"STRICT_BORROW"`
	RequestTimeout int    `toml:"request_timeout_seconds" env:"REQUEST_TIMEOUT_SECONDS"`
}

const (
	defaultConfigPath     = "~/.config/folio/config.toml"
	defaultAPIURL         = "http://localhost:3000/api/v1"
	defaultLogFile        = "~/.local/state/folio/folio.log"
	defaultLogLevel       = "info"
	defaultSessionFile    = "~/.local/state/folio/session.toml"
	defaultPrefsFile      = "~/.config/folio/prefs.toml"
	defaultRequestTimeout = 10

	envPrefix = "FOLIO_"
)

// Defaults returns the configuration used when nothing is configured.
func Defaults() Config {
	return Config{
		APIURL:         defaultAPIURL,
		LogFile:        defaultLogFile,
		LogLevel:       defaultLogLevel,
		SessionFile:    defaultSessionFile,
		PrefsFile:      defaultPrefsFile,
		RequestTimeout: defaultRequestTimeout,
	}
}

// LoadDotEnv loads a .env file into the process environment. Variables that
// are already set win, and a missing file is not an error.
func LoadDotEnv(paths ...string) error {
	if err := godotenv.Load(paths...); err != nil {
		var pathErr *os.PathError
		if !errors.As(err, &pathErr) {
			return fmt.Errorf("load .env file: %w", err)
		}
	}
	return nil
}

// Load reads the TOML config at path (or the default location), then applies
// FOLIO_* environment overrides. A missing file yields the defaults.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Defaults()

	file, err := os.Open(resolved)
	switch {
	case err == nil:
		defer file.Close()
		bytes, err := io.ReadAll(file)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		if err := toml.Unmarshal(bytes, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config: %w", err)
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return Config{}, fmt.Errorf("open config: %w", err)
	}

	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: envPrefix}); err != nil {
		return Config{}, fmt.Errorf("parse environment: %w", err)
	}

	cfg.normalize()
	return cfg, nil
}

// Timeout returns the per-request timeout.
func (c Config) Timeout() time.Duration {
	if c.RequestTimeout <= 0 {
		return defaultRequestTimeout * time.Second
	}
	return time.Duration(c.RequestTimeout) * time.Second
}

func (c *Config) normalize() {
	c.APIURL = strings.TrimSpace(c.APIURL)
	if c.APIURL == "" {
		c.APIURL = defaultAPIURL
	}
	c.LogLevel = strings.ToLower(strings.TrimSpace(c.LogLevel))
	if c.LogLevel == "" {
		c.LogLevel = defaultLogLevel
	}
	c.LogFile = expandOr(c.LogFile, defaultLogFile)
	c.SessionFile = expandOr(c.SessionFile, defaultSessionFile)
	c.PrefsFile = expandOr(c.PrefsFile, defaultPrefsFile)
	if c.RequestTimeout <= 0 {
		c.RequestTimeout = defaultRequestTimeout
	}
}

func expandOr(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		value = fallback
	}
	return mustExpand(value)
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return ExpandPath(defaultConfigPath)
	}
	return ExpandPath(path)
}

func mustExpand(path string) string {
	expanded, err := ExpandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

// ExpandPath expands a leading ~ to the home directory and makes the path
// absolute.
func ExpandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
