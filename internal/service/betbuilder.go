package service

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/betbuilder/internal/config"
	"github.com/yourusername/betbuilder/internal/models"
	"github.com/yourusername/betbuilder/internal/repository"
)

// BetBuilderService assembles combination bets from fixtures whose
// qualifying markets converge, ranks them and persists the day's
// strongest candidates.
type BetBuilderService struct {
	betting         *config.BettingConfig
	combinationRepo repository.CombinationBetRepository
	logger          *logrus.Logger
}

// NewBetBuilderService creates a new convergence selector
func NewBetBuilderService(
	betting *config.BettingConfig,
	combinationRepo repository.CombinationBetRepository,
	logger *logrus.Logger,
) *BetBuilderService {
	return &BetBuilderService{
		betting:         betting,
		combinationRepo: combinationRepo,
		logger:          logger,
	}
}

// FixtureMarkets pairs a fixture with its qualifying market predictions
type FixtureMarkets struct {
	Fixture *models.Fixture
	Markets []models.MarketPrediction
}

// Build forms a combination bet per fixture with enough qualifying
// markets, sorts candidates by combined confidence descending and
// truncates to the daily maximum. Pure; persistence is separate.
func (s *BetBuilderService) Build(date time.Time, grouped []FixtureMarkets) []*models.CombinationBet {
	candidates := make([]*models.CombinationBet, 0, len(grouped))

	for _, fm := range grouped {
		if len(fm.Markets) < s.betting.MinMarketsPerBet {
			continue
		}

		candidates = append(candidates, &models.CombinationBet{
			ID:                 uuid.New(),
			FixtureID:          fm.Fixture.ID,
			BetDate:            date,
			Markets:            fm.Markets,
			CombinedConfidence: CombinedConfidence(fm.Markets),
			CombinedOdds:       CombinedOdds(fm.Markets),
			Result:             models.BetResultPending,
		})
	}

	// Stable keeps input order for equal confidences
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].CombinedConfidence > candidates[j].CombinedConfidence
	})

	if len(candidates) > s.betting.MaxBetsPerDay {
		candidates = candidates[:s.betting.MaxBetsPerDay]
	}

	return candidates
}

// Store upserts the candidates keyed by fixture id + date. Existing rows
// have their market list and combined figures overwritten, so re-running
// the selector for the same inputs converges on the same stored state.
func (s *BetBuilderService) Store(ctx context.Context, candidates []*models.CombinationBet) error {
	for _, bet := range candidates {
		if err := s.combinationRepo.UpsertByFixtureDate(ctx, bet); err != nil {
			return fmt.Errorf("failed to store combination bet for fixture %d: %w", bet.FixtureID, err)
		}

		s.logger.WithFields(logrus.Fields{
			"fixture_id":          bet.FixtureID,
			"markets":             bet.MarketCount(),
			"combined_confidence": bet.CombinedConfidence,
			"combined_odds":       bet.CombinedOdds,
		}).Info("Stored combination bet")
	}

	return nil
}

// CombinedConfidence is the arithmetic mean of member confidences,
// rounded to the nearest integer.
func CombinedConfidence(markets []models.MarketPrediction) int {
	if len(markets) == 0 {
		return 0
	}

	total := 0
	for _, m := range markets {
		total += m.Confidence
	}
	return int(math.Round(float64(total) / float64(len(markets))))
}

// CombinedOdds is the product of member odds, rounded to 2 decimal places
func CombinedOdds(markets []models.MarketPrediction) float64 {
	product := decimal.NewFromInt(1)
	for _, m := range markets {
		product = product.Mul(decimal.NewFromFloat(m.Odds))
	}
	result, _ := product.Round(2).Float64()
	return result
}
