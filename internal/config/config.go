// Package config loads client settings from the environment.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Defaults.
const (
	DefaultAPIURL     = "http://localhost:8000/api"
	DefaultAppURL     = "http://localhost:3000"
	DefaultAuthScheme = "Token"
	DefaultLogLevel   = "warn"

	appDirName    = "stackclone"
	storageFile   = "localstorage.json"
	cookieJarFile = "cookies.json"
)

// Config is the resolved client configuration.
type Config struct {
	// APIURL is the API origin including the /api prefix.
	APIURL string
	// AppURL is the origin the token cookie is scoped to.
	AppURL     string
	AuthScheme string
	// Dir holds local storage and the cookie jar.
	Dir      string
	LogLevel string
}

// Load reads SO_* variables, falling back to NEXT_PUBLIC_API_URL for the API
// origin. With ENV=dev a .env file in the working directory is loaded first.
func Load() (Config, error) {
	if os.Getenv("ENV") == "dev" {
		if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("load .env: %w", err)
		}
	}
	dir, err := defaultDir()
	if err != nil {
		return Config{}, err
	}
	c := Config{
		APIURL:     getEnv("SO_API_URL", getEnv("NEXT_PUBLIC_API_URL", DefaultAPIURL)),
		AppURL:     getEnv("SO_APP_URL", DefaultAppURL),
		AuthScheme: getEnv("SO_AUTH_SCHEME", DefaultAuthScheme),
		Dir:        getEnv("SO_CONFIG_DIR", dir),
		LogLevel:   getEnv("SO_LOG_LEVEL", DefaultLogLevel),
	}
	return c, c.Validate()
}

// Validate checks URLs and the log level.
func (c Config) Validate() error {
	for name, raw := range map[string]string{"api url": c.APIURL, "app url": c.AppURL} {
		u, err := url.Parse(raw)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("invalid %s %q", name, raw)
		}
	}
	if strings.TrimSpace(c.AuthScheme) == "" {
		return errors.New("empty auth scheme")
	}
	if c.Dir == "" {
		return errors.New("empty config dir")
	}
	if _, err := zapcore.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("log level: %w", err)
	}
	return nil
}

// App returns AppURL parsed.
func (c Config) App() *url.URL {
	u, _ := url.Parse(c.AppURL)
	return u
}

// StoragePath is the local storage file.
func (c Config) StoragePath() string { return filepath.Join(c.Dir, storageFile) }

// CookiePath is the cookie jar file.
func (c Config) CookiePath() string { return filepath.Join(c.Dir, cookieJarFile) }

// Logger builds a development-style console logger at LogLevel writing to stderr.
func (c Config) Logger() (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(c.LogLevel)
	if err != nil {
		return nil, err
	}
	zc := zap.NewDevelopmentConfig()
	zc.Level = zap.NewAtomicLevelAt(lvl)
	zc.DisableStacktrace = true
	return zc.Build()
}

func defaultDir() (string, error) {
	if v := os.Getenv("XDG_CONFIG_HOME"); v != "" {
		return filepath.Join(v, appDirName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve config dir: %w", err)
	}
	return filepath.Join(home, ".config", appDirName), nil
}

func getEnv(key, defaultValue string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return defaultValue
}
