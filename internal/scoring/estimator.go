// Package scoring derives per-market confidence scores from team and
// head-to-head statistics. All four markets are computed independently
// from the same inputs; nothing here touches a store or the network.
package scoring

import (
	"math"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/betbuilder/internal/config"
	"github.com/yourusername/betbuilder/internal/models"
)

// Confidence percentages are clamped to this band for every market; the
// model is never certain enough to leave it.
const (
	minPercentage = 20
	maxPercentage = 95
)

// Fallback baselines substituted when a statistic is missing (zero from
// the provider). Missing data is never propagated as a failure.
const (
	fallbackGoalsScored   = 1.2
	fallbackGoalsConceded = 1.1
	fallbackCards         = 2.0
	fallbackCorners       = 5.0
	fallbackH2HRate       = 0.5
)

// Market lines these percentages are scaled against
const (
	goalsScale   = 5.0  // combined scoring average treated as 100%
	cardsLine    = 5.0  // combined cards average treated as 100%
	cornersScale = 12.0 // combined corners average treated as 100%
)

// Estimator converts raw fixture statistics into market predictions
type Estimator struct {
	betting *config.BettingConfig
	logger  *logrus.Logger
}

// NewEstimator creates a new confidence estimator
func NewEstimator(betting *config.BettingConfig, logger *logrus.Logger) *Estimator {
	return &Estimator{betting: betting, logger: logger}
}

// Score computes predictions for every supported market of the fixture.
// The slice order is fixed (btts, goals, cards, corners); GoldenMarket
// relies on it for its first-seen tie-break. Provider odds override the
// configured flat fallback when present.
func (e *Estimator) Score(fixture *models.Fixture, odds map[models.Market]float64) []models.MarketPrediction {
	home := resolveAverages(fixture.Home.Averages)
	away := resolveAverages(fixture.Away.Averages)

	predictions := []models.MarketPrediction{
		e.prediction(models.MarketBTTS, "Both Teams To Score", e.scoreBTTS(home, away, fixture), odds),
		e.prediction(models.MarketOver25Goals, "Over 2.5 Goals", e.scoreOverGoals(home, away, fixture), odds),
		e.prediction(models.MarketOver35Cards, "Over 3.5 Cards", e.scoreCards(home, away), odds),
		e.prediction(models.MarketOver95Corners, "Over 9.5 Corners", e.scoreCorners(home, away), odds),
	}

	if e.logger != nil {
		e.logger.WithFields(logrus.Fields{
			"fixture_id": fixture.ID,
			"btts":       predictions[0].Confidence,
			"goals":      predictions[1].Confidence,
			"cards":      predictions[2].Confidence,
			"corners":    predictions[3].Confidence,
		}).Debug("Scored fixture markets")
	}

	return predictions
}

func (e *Estimator) prediction(market models.Market, name string, percentage int, odds map[models.Market]float64) models.MarketPrediction {
	marketOdds := e.betting.EstimatedOddsFor(string(market))
	if provided, ok := odds[market]; ok && provided >= 1 {
		marketOdds = provided
	}

	return models.MarketPrediction{
		Market:      market,
		Name:        name,
		Confidence:  percentage,
		Probability: float64(percentage) / 100,
		Odds:        marketOdds,
		Tier:        models.TierForConfidence(percentage),
	}
}

// scoreBTTS starts from an even baseline and layers bonuses for mutual
// scoring strength, mutual defensive weakness, the historical BTTS rate
// between the sides, and recent scoring form.
func (e *Estimator) scoreBTTS(home, away models.TeamAverages, fixture *models.Fixture) int {
	percentage := 50.0

	// Both sides score regularly
	if home.GoalsScored >= 1.2 && away.GoalsScored >= 1.2 {
		percentage += 15
	}

	// Both defences leak
	if home.GoalsConceded >= 1.0 && away.GoalsConceded >= 1.0 {
		percentage += 10
	}

	// Blend in the head-to-head BTTS rate as a fractional contribution
	h2hRate := fallbackH2HRate
	if fixture.H2H != nil && fixture.H2H.Matches > 0 {
		h2hRate = fixture.H2H.BTTSRate
	}
	percentage += (h2hRate - 0.5) * 20

	if formSuggestsGoals(fixture.Home.Form) && formSuggestsGoals(fixture.Away.Form) {
		percentage += 5
	}

	return clamp(percentage)
}

// scoreOverGoals scales the combined scoring average against a five-goal
// ceiling, averages it with the head-to-head over rate, then applies a
// symmetric adjustment when both attacks are strong or both are weak.
func (e *Estimator) scoreOverGoals(home, away models.TeamAverages, fixture *models.Fixture) int {
	combined := home.GoalsScored + away.GoalsScored
	base := combined / goalsScale * 100

	h2hRate := fallbackH2HRate
	if fixture.H2H != nil && fixture.H2H.Matches > 0 {
		h2hRate = fixture.H2H.Over25Rate
	}

	percentage := (base + h2hRate*100) / 2

	switch {
	case home.GoalsScored > 2.0 && away.GoalsScored > 2.0:
		percentage += 10
	case home.GoalsScored < 0.8 && away.GoalsScored < 0.8:
		percentage -= 10
	}

	return clamp(percentage)
}

// scoreCards scales the combined per-match cards average against the line
func (e *Estimator) scoreCards(home, away models.TeamAverages) int {
	combined := home.Cards + away.Cards
	return clamp(combined / cardsLine * 100)
}

// scoreCorners scales the combined per-match corners average
func (e *Estimator) scoreCorners(home, away models.TeamAverages) int {
	combined := home.Corners + away.Corners
	return clamp(combined / cornersScale * 100)
}

// GoldenMarket returns the headline market: the single highest percentage,
// the first computed winning ties. Implemented as an explicit fold so the
// tie-break never depends on map iteration or sort stability.
func GoldenMarket(predictions []models.MarketPrediction) (models.MarketPrediction, bool) {
	if len(predictions) == 0 {
		return models.MarketPrediction{}, false
	}

	best := predictions[0]
	for _, p := range predictions[1:] {
		if p.Confidence > best.Confidence {
			best = p
		}
	}

	return best, true
}

// resolveAverages substitutes documented baselines for missing statistics
func resolveAverages(avg models.TeamAverages) models.TeamAverages {
	if avg.GoalsScored <= 0 {
		avg.GoalsScored = fallbackGoalsScored
	}
	if avg.GoalsConceded <= 0 {
		avg.GoalsConceded = fallbackGoalsConceded
	}
	if avg.Cards <= 0 {
		avg.Cards = fallbackCards
	}
	if avg.Corners <= 0 {
		avg.Corners = fallbackCorners
	}
	return avg
}

// formSuggestsGoals reports whether the recent-form string shows at least
// two wins, a rough proxy for a side that is scoring.
func formSuggestsGoals(form string) bool {
	return strings.Count(form, "W") >= 2
}

func clamp(percentage float64) int {
	rounded := int(math.Round(percentage))
	if rounded < minPercentage {
		return minPercentage
	}
	if rounded > maxPercentage {
		return maxPercentage
	}
	return rounded
}
