// Package config provides configuration management for the BetBuilder application.
package config

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// Load reads and parses the configuration from file and environment variables.
// It expands environment variable placeholders in the YAML file (${VAR_NAME})
func Load(configPath string) (*Config, error) {
	if configPath == "" {
		configPath = "config/config.yaml"
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("config file not found at %s: %w", configPath, err)
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Expand environment variables in the configuration (${VAR} syntax)
	expanded := os.ExpandEnv(string(data))

	v := newViper()
	if err := v.ReadConfig(bytes.NewBufferString(expanded)); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	return cfg, nil
}

// LoadWithDefaults loads configuration with default values for optional
// fields; a missing config file is not an error, defaults and environment
// variables apply instead.
func LoadWithDefaults(configPath string) (*Config, error) {
	if configPath == "" {
		configPath = "config/config.yaml"
	}

	v := newViper()
	setDefaults(v)

	if data, err := os.ReadFile(configPath); err == nil {
		expanded := os.ExpandEnv(string(data))
		if err := v.ReadConfig(bytes.NewBufferString(expanded)); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	return cfg, nil
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix("BETBUILDER")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	return v
}

// setDefaults applies the documented defaults for the selection and
// settlement thresholds.
func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "betbuilder")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.log_level", "info")

	v.SetDefault("betting.min_confidence", 75)
	v.SetDefault("betting.min_probability", 0.75)
	v.SetDefault("betting.min_markets_per_bet", 3)
	v.SetDefault("betting.max_bets_per_day", 5)
	v.SetDefault("betting.stake_per_bet", 10.0)
	v.SetDefault("betting.estimated_odds", map[string]float64{
		"btts":             1.65,
		"over_2_5_goals":   1.80,
		"over_3_5_cards":   1.85,
		"over_9_5_corners": 1.90,
		"match_winner":     2.00,
	})

	v.SetDefault("provider.timeout_seconds", 15)
	v.SetDefault("provider.max_retries", 3)
	v.SetDefault("provider.rate_limit_per_second", 2.0)
	v.SetDefault("provider.request_delay_millis", 300)

	v.SetDefault("redis.ttl_minutes", 360)

	v.SetDefault("schedule.pipeline_cron", "0 8 * * *")
	v.SetDefault("schedule.settlement_interval_minutes", 30)

	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.port", 9090)
	v.SetDefault("metrics.path", "/metrics")
}
