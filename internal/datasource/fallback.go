package datasource

import (
	"context"
	"time"

	"github.com/yourusername/betbuilder/internal/models"
)

const staticFallbackName = "static_fallback"

// StaticFallbackProvider is the degraded-mode provider selected when no
// upstream API is configured. It returns no fixtures and no enrichment
// data, which downstream code already treats as "use local data and the
// configured fallback odds". Keeping it behind the Provider interface
// keeps null-checks out of the scoring code.
type StaticFallbackProvider struct{}

// NewStaticFallbackProvider creates the fallback provider
func NewStaticFallbackProvider() *StaticFallbackProvider {
	return &StaticFallbackProvider{}
}

// Name returns the provider name
func (p *StaticFallbackProvider) Name() string {
	return staticFallbackName
}

// IsEnabled always reports true; the fallback has nothing to disable
func (p *StaticFallbackProvider) IsEnabled() bool {
	return true
}

// FetchFixtures returns no fixtures; the pipeline falls back to fixtures
// already stored locally.
func (p *StaticFallbackProvider) FetchFixtures(_ context.Context, _ time.Time) ([]models.Fixture, error) {
	return nil, nil
}

// FetchMarketOdds returns no odds; the estimator substitutes the
// configured per-market flat odds.
func (p *StaticFallbackProvider) FetchMarketOdds(_ context.Context, _ int64) (map[models.Market]float64, error) {
	return nil, nil
}

// FetchHeadToHead returns no history; the estimator substitutes its
// neutral baseline rate.
func (p *StaticFallbackProvider) FetchHeadToHead(_ context.Context, _, _ int64) (*models.HeadToHead, error) {
	return nil, nil
}
