// Package datasource provides fixture, statistics and odds providers.
// A primary HTTP provider and a static fallback sit behind the same
// interface; callers never null-check provider data inline.
package datasource

import (
	"context"
	"errors"
	"time"

	"github.com/yourusername/betbuilder/internal/models"
)

// Provider defines the interface for fetching football data from
// external providers. Odds and head-to-head data may legitimately be
// absent; callers treat absence as "use fallback", never as an error.
type Provider interface {
	// FetchFixtures retrieves fixtures kicking off on the given date
	FetchFixtures(ctx context.Context, date time.Time) ([]models.Fixture, error)

	// FetchMarketOdds retrieves per-market odds for a fixture. A nil map
	// with a nil error means the provider has no odds for the fixture.
	FetchMarketOdds(ctx context.Context, fixtureID int64) (map[models.Market]float64, error)

	// FetchHeadToHead retrieves the historical aggregate between two
	// teams; nil with nil error means no shared history is known.
	FetchHeadToHead(ctx context.Context, homeTeamID, awayTeamID int64) (*models.HeadToHead, error)

	// Name returns the name of the provider
	Name() string

	// IsEnabled returns whether this provider is currently enabled
	IsEnabled() bool
}

// ProviderError represents errors from provider operations
type ProviderError struct {
	Provider string // provider name
	Code     string // error code (e.g. "rate_limit_exceeded")
	Message  string
	Err      error
}

func (e ProviderError) Error() string {
	if e.Err != nil {
		return e.Provider + ": " + e.Code + ": " + e.Message + " (" + e.Err.Error() + ")"
	}
	return e.Provider + ": " + e.Code + ": " + e.Message
}

func (e ProviderError) Unwrap() error {
	return e.Err
}

// Common error codes
const (
	ErrCodeRateLimitExceeded    = "rate_limit_exceeded"
	ErrCodeAuthenticationFailed = "authentication_failed"
	ErrCodeNotFound             = "not_found"
	ErrCodeInvalidData          = "invalid_data"
	ErrCodeNetworkError         = "network_error"
	ErrCodeServerError          = "server_error"
)

// Sentinel errors
var (
	ErrRateLimitExceeded    = errors.New("rate limit exceeded")
	ErrAuthenticationFailed = errors.New("authentication failed")
	ErrNotFound             = errors.New("data not found")
	ErrProviderDisabled     = errors.New("provider is disabled")
)

// NewProviderError creates a new provider error
func NewProviderError(provider, code, message string, err error) ProviderError {
	return ProviderError{
		Provider: provider,
		Code:     code,
		Message:  message,
		Err:      err,
	}
}
