package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig(t *testing.T) *Config {
	t.Helper()
	t.Setenv("TEST_DB_PASSWORD", "pw")
	cfg, err := Load(writeConfig(t, minimalConfig))
	require.NoError(t, err)
	return cfg
}

func TestValidateAcceptsCompleteConfig(t *testing.T) {
	assert.NoError(t, Validate(validConfig(t)))
}

func TestValidateRejectsBadEnvironment(t *testing.T) {
	cfg := validConfig(t)
	cfg.App.Environment = "prod" // must be the full word

	err := Validate(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "environment")
}

func TestValidateRejectsEnabledProviderWithoutKey(t *testing.T) {
	cfg := validConfig(t)
	cfg.Provider.APIKey = ""

	err := Validate(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "api_key")
}

func TestValidateRequiresSupportedLeagues(t *testing.T) {
	cfg := validConfig(t)
	cfg.Betting.Leagues = LeaguesConfig{}

	err := Validate(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "league")
}

func TestValidateRejectsDelayOutOfRange(t *testing.T) {
	cfg := validConfig(t)
	cfg.Provider.RequestDelayMillis = 50 // below the 100ms floor

	assert.Error(t, Validate(cfg))
}

func TestLoadWithDefaultsThenValidateNeedsRequiredFields(t *testing.T) {
	// Defaults alone do not make a deployable config: database
	// credentials and provider settings still have to come from a file.
	cfg, err := LoadWithDefaults(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Error(t, Validate(cfg))
}
