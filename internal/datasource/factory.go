package datasource

import (
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/betbuilder/internal/config"
)

// NewProvider selects the data provider by guard clause: the primary
// HTTP API when it is enabled and credentialed, the static fallback
// otherwise. Both sides honor the same interface so callers never branch.
func NewProvider(cfg *config.ProviderConfig, logger *logrus.Logger) Provider {
	if !cfg.Enabled || cfg.APIKey == "" {
		logger.Warn("No upstream provider configured, using static fallback")
		return NewStaticFallbackProvider()
	}

	// The configured inter-call delay caps the request rate; the
	// tighter of the two limits wins.
	rateLimit := cfg.RateLimitPerSecond
	if cfg.RequestDelayMillis > 0 {
		if delayRate := 1000.0 / float64(cfg.RequestDelayMillis); delayRate < rateLimit {
			rateLimit = delayRate
		}
	}

	httpClient := NewRateLimitedHTTPClient(HTTPClientConfig{
		Timeout:           time.Duration(cfg.TimeoutSeconds) * time.Second,
		MaxRetries:        cfg.MaxRetries,
		RetryWaitMin:      100 * time.Millisecond,
		RetryWaitMax:      5 * time.Second,
		RateLimit:         rateLimit,
		CircuitBreakerMax: 5,
	}, logger)

	logger.WithField("provider", cfg.Name).Info("Using upstream data provider")
	return NewFootballAPIClient(httpClient, cfg.BaseURL, cfg.APIKey, cfg.Enabled, logger)
}
