// Package config reads process settings from the environment, optionally
// seeded from a .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	EnvPrimaryURL    = "GORATES_PRIMARY_URL"
	EnvFallbackURL   = "GORATES_FALLBACK_URL"
	EnvTimeout       = "GORATES_TIMEOUT"
	EnvRetries       = "GORATES_RETRIES"
	EnvRetryDuration = "GORATES_RETRY_DURATION"
	EnvUserAgent     = "GORATES_USER_AGENT"
	EnvCharset       = "GORATES_CHARSET"
	EnvScope         = "GORATES_SCOPE"
	EnvDebug         = "GORATES_DEBUG"
)

const (
	DefaultTimeout       = 15 * time.Second
	DefaultRetries       = 1
	DefaultRetryDuration = 2 * time.Second
)

type Config struct {
	// PrimaryURL and FallbackURL replace the mirror addresses when set
	PrimaryURL  string
	FallbackURL string

	Timeout       time.Duration
	Retries       uint64
	RetryDuration time.Duration

	UserAgent string
	// Charset forces the page encoding, empty means detect
	Charset string
	// Scope is a CSS selector limiting extraction to part of the page
	Scope string
	Debug bool
}

type LookupFunc func(key string) (string, bool)

// Load reads the dotenv file at path, if it exists, and then the environment.
// Variables already present in the environment are not overridden by the file.
func Load(path string) (Config, error) {
	if path != "" {
		if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("godotenv.Load %s: %w", path, err)
		}
	}

	return FromEnv(os.LookupEnv)
}

// FromEnv builds a Config from lookup, falling back to defaults for unset keys
func FromEnv(lookup LookupFunc) (Config, error) {
	cfg := Config{
		Timeout:       DefaultTimeout,
		Retries:       DefaultRetries,
		RetryDuration: DefaultRetryDuration,
	}

	getEnv := func(key string) string {
		if val, found := lookup(key); found {
			return val
		}
		return ""
	}

	cfg.PrimaryURL = getEnv(EnvPrimaryURL)
	cfg.FallbackURL = getEnv(EnvFallbackURL)
	cfg.UserAgent = getEnv(EnvUserAgent)
	cfg.Charset = getEnv(EnvCharset)
	cfg.Scope = getEnv(EnvScope)

	if val := getEnv(EnvTimeout); val != "" {
		d, err := time.ParseDuration(val)
		if err != nil || d <= 0 {
			return cfg, fmt.Errorf("%s: invalid duration %q", EnvTimeout, val)
		}
		cfg.Timeout = d
	}

	if val := getEnv(EnvRetryDuration); val != "" {
		d, err := time.ParseDuration(val)
		if err != nil || d <= 0 {
			return cfg, fmt.Errorf("%s: invalid duration %q", EnvRetryDuration, val)
		}
		cfg.RetryDuration = d
	}

	if val := getEnv(EnvRetries); val != "" {
		n, err := strconv.ParseUint(val, 10, 64)
		if err != nil {
			return cfg, fmt.Errorf("%s: invalid number %q: %w", EnvRetries, val, err)
		}
		cfg.Retries = n
	}

	if val := getEnv(EnvDebug); val != "" {
		b, err := strconv.ParseBool(val)
		if err != nil {
			return cfg, fmt.Errorf("%s: invalid bool %q: %w", EnvDebug, val, err)
		}
		cfg.Debug = b
	}

	return cfg, nil
}
