// Package config reads server settings from the environment. A .env file
// in the working directory, if present, is loaded first; variables that
// are already set win.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const prefix = "INTERVIEWS_"

type Config struct {
	Port      string
	DBPath    string
	LogLevel  string
	LogFormat string

	UploadDir string
	// CVExtractionURL is the base URL of the CV extraction service. Empty
	// disables extraction.
	CVExtractionURL   string
	ExtractionTimeout time.Duration

	// UploadLimit uploads per client per UploadWindow.
	UploadLimit  int
	UploadWindow time.Duration
	// TrustProxy honors CF-Connecting-IP and X-Forwarded-For when
	// identifying clients. Enable only behind a proxy that sets them.
	TrustProxy bool

	Location *time.Location
	// BaseDomain is the right-hand side of calendar feed UIDs.
	BaseDomain string
	// OriginPatterns are the extra hosts allowed to open /ws.
	OriginPatterns []string
}

// Load reads .env (optional) and then the environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from getenv, applying defaults.
func FromEnv(getenv func(string) string) (*Config, error) {
	get := func(key, def string) string {
		if v := strings.TrimSpace(getenv(prefix + key)); v != "" {
			return v
		}
		return def
	}

	cfg := &Config{
		Port:            get("PORT", "8080"),
		DBPath:          get("DB_PATH", "interviews.db"),
		LogLevel:        get("LOG_LEVEL", "info"),
		LogFormat:       get("LOG_FORMAT", "text"),
		UploadDir:       get("UPLOAD_DIR", "uploads"),
		CVExtractionURL: strings.TrimRight(get("CV_EXTRACTION_URL", ""), "/"),
		BaseDomain:      get("BASE_DOMAIN", "localhost"),
	}

	var err error
	if cfg.ExtractionTimeout, err = time.ParseDuration(get("EXTRACTION_TIMEOUT", "30s")); err != nil {
		return nil, fmt.Errorf("%sEXTRACTION_TIMEOUT: %w", prefix, err)
	}
	if cfg.UploadWindow, err = time.ParseDuration(get("UPLOAD_WINDOW", "1m")); err != nil {
		return nil, fmt.Errorf("%sUPLOAD_WINDOW: %w", prefix, err)
	}
	if cfg.UploadLimit, err = strconv.Atoi(get("UPLOAD_LIMIT", "10")); err != nil {
		return nil, fmt.Errorf("%sUPLOAD_LIMIT: %w", prefix, err)
	}
	if cfg.UploadLimit < 1 {
		return nil, fmt.Errorf("%sUPLOAD_LIMIT must be positive", prefix)
	}
	if cfg.TrustProxy, err = strconv.ParseBool(get("TRUST_PROXY", "false")); err != nil {
		return nil, fmt.Errorf("%sTRUST_PROXY: %w", prefix, err)
	}

	tz := get("TIMEZONE", "Local")
	if cfg.Location, err = time.LoadLocation(tz); err != nil {
		return nil, fmt.Errorf("%sTIMEZONE %q: %w", prefix, tz, err)
	}

	for _, p := range strings.Split(get("WS_ORIGINS", ""), ",") {
		if p = strings.TrimSpace(p); p != "" {
			cfg.OriginPatterns = append(cfg.OriginPatterns, p)
		}
	}
	return cfg, nil
}

// Addr is the listen address.
func (c *Config) Addr() string {
	return ":" + c.Port
}
