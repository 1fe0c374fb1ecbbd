package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	// Change to temp dir so no config.yaml is found
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.Store.Driver)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, []string{"*"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, 10, cfg.Contact.TimeoutSecs)
	assert.Equal(t, 15, cfg.Accounts.TimeoutSecs)
	assert.Equal(t, 10, cfg.Payments.TimeoutSecs)
	assert.Equal(t, 20, cfg.Payoff.TimeoutSecs)
	assert.True(t, cfg.Activity.Enabled)
	assert.False(t, cfg.Imagery.Production)
}

func TestLoadFromYAML(t *testing.T) {
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })

	yaml := `
store:
  driver: postgres
  database_url: postgres://localhost/contracthub
contact:
  base_url: https://contact.internal
  key: secret
accounts:
  base_url: https://accounts.internal
imagery:
  base_url: https://images.internal/vehicle
  production: true
log:
  level: debug
  format: console
server:
  port: 9090
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o600))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.Store.Driver)
	assert.Equal(t, "postgres://localhost/contracthub", cfg.Store.DatabaseURL)
	assert.Equal(t, "https://contact.internal", cfg.Contact.BaseURL)
	assert.Equal(t, "secret", cfg.Contact.Key)
	assert.Equal(t, "https://accounts.internal", cfg.Accounts.BaseURL)
	assert.True(t, cfg.Imagery.Production)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, 9090, cfg.Server.Port)
	// Defaults survive partial files.
	assert.Equal(t, 15, cfg.Accounts.TimeoutSecs)
}

func TestLoadEnvOverride(t *testing.T) {
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })

	t.Setenv("CONTRACTHUB_CONTACT_BASE_URL", "https://contact.override")
	t.Setenv("CONTRACTHUB_LOG_LEVEL", "warn")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://contact.override", cfg.Contact.BaseURL)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestValidate(t *testing.T) {
	full := func() *Config {
		return &Config{
			Contact:  ServiceConfig{BaseURL: "https://contact"},
			Accounts: ServiceConfig{BaseURL: "https://accounts"},
			Payments: ServiceConfig{BaseURL: "https://payments"},
			Payoff:   ServiceConfig{BaseURL: "https://payoff"},
		}
	}

	cfg := full()
	assert.NoError(t, cfg.Validate())

	cfg = full()
	cfg.Accounts.BaseURL = ""
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "accounts.base_url")

	cfg = full()
	cfg.Activity.Enabled = true
	err = cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "activity.base_url")

	cfg = full()
	cfg.Activity.Enabled = true
	cfg.Activity.BaseURL = "https://activity"
	assert.NoError(t, cfg.Validate())
}

func TestInitLogger(t *testing.T) {
	require.NoError(t, InitLogger(LogConfig{Level: "debug", Format: "console"}))
	require.NoError(t, InitLogger(LogConfig{Level: "info", Format: "json"}))

	err := InitLogger(LogConfig{Level: "nope", Format: "json"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse log level")
}
