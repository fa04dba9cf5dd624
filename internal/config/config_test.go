package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"ENV", "SO_API_URL", "NEXT_PUBLIC_API_URL", "SO_APP_URL", "SO_AUTH_SCHEME", "SO_CONFIG_DIR", "SO_LOG_LEVEL"} {
		t.Setenv(k, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	xdg := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", xdg)

	c, err := Load()
	require.NoError(t, err)
	require.Equal(t, DefaultAPIURL, c.APIURL)
	require.Equal(t, DefaultAppURL, c.AppURL)
	require.Equal(t, DefaultAuthScheme, c.AuthScheme)
	require.Equal(t, filepath.Join(xdg, "stackclone"), c.Dir)
	require.Equal(t, filepath.Join(xdg, "stackclone", "localstorage.json"), c.StoragePath())
	require.Equal(t, filepath.Join(xdg, "stackclone", "cookies.json"), c.CookiePath())
	require.Equal(t, "localhost:3000", c.App().Host)

	log, err := c.Logger()
	require.NoError(t, err)
	require.NotNil(t, log)
}

func TestLoad_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("NEXT_PUBLIC_API_URL", "http://fallback:1/api")
	c, err := Load()
	require.NoError(t, err)
	require.Equal(t, "http://fallback:1/api", c.APIURL)

	t.Setenv("SO_API_URL", "https://api.example.com/api")
	t.Setenv("SO_AUTH_SCHEME", "Bearer")
	t.Setenv("SO_CONFIG_DIR", "/tmp/so")
	t.Setenv("SO_LOG_LEVEL", "debug")
	c, err = Load()
	require.NoError(t, err)
	require.Equal(t, "https://api.example.com/api", c.APIURL)
	require.Equal(t, "Bearer", c.AuthScheme)
	require.Equal(t, "/tmp/so", c.Dir)
	require.Equal(t, "debug", c.LogLevel)
}

func TestLoad_DotEnvInDev(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("SO_API_URL=http://from-dotenv:9/api\n"), 0o600))
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	t.Setenv("ENV", "dev")
	require.NoError(t, os.Unsetenv("SO_API_URL"))

	c, err := Load()
	require.NoError(t, err)
	require.Equal(t, "http://from-dotenv:9/api", c.APIURL)
}

func TestValidate(t *testing.T) {
	t.Parallel()

	good := Config{APIURL: DefaultAPIURL, AppURL: DefaultAppURL, AuthScheme: "Token", Dir: "/x", LogLevel: "info"}
	require.NoError(t, good.Validate())

	for name, mut := range map[string]func(*Config){
		"api url":   func(c *Config) { c.APIURL = "localhost:8000" },
		"app url":   func(c *Config) { c.AppURL = "" },
		"scheme":    func(c *Config) { c.AuthScheme = " " },
		"dir":       func(c *Config) { c.Dir = "" },
		"log level": func(c *Config) { c.LogLevel = "loud" },
	} {
		c := good
		mut(&c)
		require.Error(t, c.Validate(), name)
	}
}
