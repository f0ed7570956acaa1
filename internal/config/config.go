// Package config provides configuration management for the BetBuilder application.
package config

import (
	"fmt"
)

// Config represents the complete application configuration
type Config struct {
	App      AppConfig      `mapstructure:"app" validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Redis    RedisConfig    `mapstructure:"redis" validate:"required"`
	Provider ProviderConfig `mapstructure:"provider" validate:"required"`
	Explain  ExplainConfig  `mapstructure:"explain"`
	Betting  BettingConfig  `mapstructure:"betting" validate:"required"`
	Schedule ScheduleConfig `mapstructure:"schedule" validate:"required"`
	Metrics  MetricsConfig  `mapstructure:"metrics" validate:"required"`
}

// AppConfig represents application-level configuration
type AppConfig struct {
	Name        string `mapstructure:"name" validate:"required"`
	Environment string `mapstructure:"environment" validate:"required,environment"`
	LogLevel    string `mapstructure:"log_level" validate:"required,loglevel"`
}

// DatabaseConfig represents database connection configuration
type DatabaseConfig struct {
	Host               string `mapstructure:"host" validate:"required"`
	Port               int    `mapstructure:"port" validate:"required,min=1,max=65535"`
	Name               string `mapstructure:"name" validate:"required"`
	User               string `mapstructure:"user" validate:"required"`
	Password           string `mapstructure:"password" validate:"required"`
	SSLMode            string `mapstructure:"ssl_mode" validate:"required,oneof=disable require verify-full"`
	MaxConnections     int    `mapstructure:"max_connections" validate:"required,gt=0"`
	MaxIdleConnections int    `mapstructure:"max_idle_connections" validate:"required,gt=0"`
}

// RedisConfig represents the shared odds-cache configuration
type RedisConfig struct {
	Addr       string `mapstructure:"addr" validate:"required"`
	Password   string `mapstructure:"password"`
	DB         int    `mapstructure:"db" validate:"gte=0"`
	TTLMinutes int    `mapstructure:"ttl_minutes" validate:"required,gt=0"`
}

// ProviderConfig represents the fixture/odds data provider configuration
type ProviderConfig struct {
	Name               string  `mapstructure:"name" validate:"required"`
	BaseURL            string  `mapstructure:"base_url" validate:"required,url"`
	StreamURL          string  `mapstructure:"stream_url"`
	APIKey             string  `mapstructure:"api_key"`
	Enabled            bool    `mapstructure:"enabled"`
	TimeoutSeconds     int     `mapstructure:"timeout_seconds" validate:"required,gt=0"`
	MaxRetries         int     `mapstructure:"max_retries" validate:"gte=0"`
	RateLimitPerSecond float64 `mapstructure:"rate_limit_per_second" validate:"required,gt=0"`
	RequestDelayMillis int     `mapstructure:"request_delay_millis" validate:"required,gte=100,lte=1000"`
}

// ExplainConfig represents the optional explanation generator configuration
type ExplainConfig struct {
	URL             string `mapstructure:"url"`
	Enabled         bool   `mapstructure:"enabled"`
	TimeoutSeconds  int    `mapstructure:"timeout_seconds" validate:"omitempty,gt=0"`
	CacheTTLMinutes int    `mapstructure:"cache_ttl_minutes" validate:"omitempty,gt=0"`
}

// LeaguesConfig represents the tiered supported-league lists. League
// membership is resolved by numeric id when available, by name otherwise.
type LeaguesConfig struct {
	TierOneIDs []int    `mapstructure:"tier_one_ids"`
	TierTwoIDs []int    `mapstructure:"tier_two_ids"`
	Names      []string `mapstructure:"names"`
}

// BettingConfig represents scoring and selection thresholds
type BettingConfig struct {
	MinConfidence    int                `mapstructure:"min_confidence" validate:"required,gte=0,lte=100"`
	MinProbability   float64            `mapstructure:"min_probability" validate:"required,gte=0,lte=1"`
	MinMarketsPerBet int                `mapstructure:"min_markets_per_bet" validate:"required,gt=0"`
	MaxBetsPerDay    int                `mapstructure:"max_bets_per_day" validate:"required,gt=0"`
	StakePerBet      float64            `mapstructure:"stake_per_bet" validate:"required,gt=0"`
	EstimatedOdds    map[string]float64 `mapstructure:"estimated_odds" validate:"required,min=1"`
	Leagues          LeaguesConfig      `mapstructure:"leagues"`
}

// ScheduleConfig represents batch job scheduling
type ScheduleConfig struct {
	PipelineCron              string `mapstructure:"pipeline_cron" validate:"required"`
	SettlementIntervalMinutes int    `mapstructure:"settlement_interval_minutes" validate:"required,gt=0"`
}

// MetricsConfig represents metrics and monitoring configuration
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Port    int    `mapstructure:"port" validate:"required,min=1,max=65535"`
	Path    string `mapstructure:"path" validate:"required"`
}

// IsDevelopment checks if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// IsProduction checks if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// GetDatabaseDSN returns the PostgreSQL connection string
func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// EstimatedOddsFor returns the flat fallback odds for a market, or the
// documented floor of 1.2 when the market has no configured entry.
func (c *BettingConfig) EstimatedOddsFor(market string) float64 {
	if odds, ok := c.EstimatedOdds[market]; ok && odds >= 1 {
		return odds
	}
	return 1.2
}
