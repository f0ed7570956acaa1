package service

import (
	"github.com/yourusername/betbuilder/internal/models"
)

// Composite score weights and odds normalization. normalizedOdds maps
// odds in [1,10] onto [0,100] and clamps anything above 10x.
const (
	confidenceWeight = 0.6
	oddsWeight       = 0.4
	oddsScale        = 11.11
)

// FeaturedPick is the day's single selected combination bet with its
// composite score; Explanation is filled by an optional enrichment and
// stays empty when the generator is unavailable.
type FeaturedPick struct {
	Bet         *models.CombinationBet
	Score       float64
	Explanation string
}

// CompositeScore blends confidence with normalized odds
func CompositeScore(bet *models.CombinationBet) float64 {
	return float64(bet.CombinedConfidence)*confidenceWeight + NormalizedOdds(bet.CombinedOdds)*oddsWeight
}

// NormalizedOdds maps combined odds onto a 0-100 scale, clamped at 100
func NormalizedOdds(odds float64) float64 {
	normalized := (odds - 1) * oddsScale
	if normalized > 100 {
		return 100
	}
	if normalized < 0 {
		return 0
	}
	return normalized
}

// SelectFeatured picks the candidate with the highest composite score.
// Ties resolve to the first candidate in input order; the fold below is
// the documented comparator, not an accident of sort stability. Pure and
// stateless, so the locally-stored fallback path behaves identically to
// the enriched one.
func SelectFeatured(candidates []*models.CombinationBet) (*FeaturedPick, bool) {
	if len(candidates) == 0 {
		return nil, false
	}

	best := candidates[0]
	bestScore := CompositeScore(best)
	for _, candidate := range candidates[1:] {
		if score := CompositeScore(candidate); score > bestScore {
			best = candidate
			bestScore = score
		}
	}

	return &FeaturedPick{Bet: best, Score: bestScore}, true
}
