// Package service contains the selection, ranking and settlement engines.
package service

import (
	"github.com/yourusername/betbuilder/internal/config"
	"github.com/yourusername/betbuilder/internal/models"
)

// MarketFilter selects the qualifying subset of a fixture's market
// predictions. It is a pure filter with no side effects.
type MarketFilter struct {
	betting *config.BettingConfig

	tierOneIDs map[int]struct{}
	tierTwoIDs map[int]struct{}
	names      map[string]struct{}
}

// NewMarketFilter creates a new market filter from the betting policy
func NewMarketFilter(betting *config.BettingConfig) *MarketFilter {
	f := &MarketFilter{
		betting:    betting,
		tierOneIDs: make(map[int]struct{}, len(betting.Leagues.TierOneIDs)),
		tierTwoIDs: make(map[int]struct{}, len(betting.Leagues.TierTwoIDs)),
		names:      make(map[string]struct{}, len(betting.Leagues.Names)),
	}
	for _, id := range betting.Leagues.TierOneIDs {
		f.tierOneIDs[id] = struct{}{}
	}
	for _, id := range betting.Leagues.TierTwoIDs {
		f.tierTwoIDs[id] = struct{}{}
	}
	for _, name := range betting.Leagues.Names {
		f.names[name] = struct{}{}
	}
	return f
}

// Qualifying returns the predictions whose confidence and probability both
// clear their thresholds, provided the fixture's league is supported.
// An unsupported league yields an empty result, never an error.
func (f *MarketFilter) Qualifying(fixture *models.Fixture, predictions []models.MarketPrediction) []models.MarketPrediction {
	if !f.LeagueSupported(fixture.League) {
		return nil
	}

	qualifying := make([]models.MarketPrediction, 0, len(predictions))
	for _, p := range predictions {
		if p.Qualifies(f.betting.MinConfidence, f.betting.MinProbability) {
			qualifying = append(qualifying, p)
		}
	}
	return qualifying
}

// LeagueSupported resolves league membership by numeric id when one is
// available, falling back to name matching only when it is not.
func (f *MarketFilter) LeagueSupported(league models.League) bool {
	if league.ID > 0 {
		if _, ok := f.tierOneIDs[league.ID]; ok {
			return true
		}
		_, ok := f.tierTwoIDs[league.ID]
		return ok
	}
	_, ok := f.names[league.Name]
	return ok
}
