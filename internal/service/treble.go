package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/betbuilder/internal/models"
	"github.com/yourusername/betbuilder/internal/repository"
)

// TrebleService groups a day's single bets into fixed-size cohorts and
// derives their aggregate outcome. Trebles are a reporting view; members
// remain the single source of truth.
type TrebleService struct {
	betRepo repository.BetRepository
	stake   float64
	logger  *logrus.Logger
}

// NewTrebleService creates a new treble aggregator
func NewTrebleService(betRepo repository.BetRepository, stake float64, logger *logrus.Logger) *TrebleService {
	return &TrebleService{betRepo: betRepo, stake: stake, logger: logger}
}

// ForDate builds the trebles for a calendar date. Cohort membership is
// the first three bets in confidence-descending order (created order
// breaking ties); a trailing group of fewer than three is dropped
// outright, never partially evaluated.
func (s *TrebleService) ForDate(ctx context.Context, date time.Time) ([]*models.Treble, error) {
	bets, err := s.betRepo.GetByDate(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("failed to load bets for %s: %w", date.Format("2006-01-02"), err)
	}

	return s.Group(date, bets), nil
}

// Group partitions bets into trebles. Pure given its input list.
func (s *TrebleService) Group(date time.Time, bets []*models.SingleBet) []*models.Treble {
	ordered := make([]*models.SingleBet, len(bets))
	copy(ordered, bets)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Confidence > ordered[j].Confidence
	})

	var trebles []*models.Treble
	for len(ordered) >= models.TrebleSize {
		members := ordered[:models.TrebleSize]
		ordered = ordered[models.TrebleSize:]
		trebles = append(trebles, s.evaluate(date, members))
	}

	// Leftover bets below cohort size are a hard cutoff, not an
	// approximation: they are dropped, never partially evaluated.
	return trebles
}

func (s *TrebleService) evaluate(date time.Time, members []*models.SingleBet) *models.Treble {
	odds := decimal.NewFromInt(1)
	for _, bet := range members {
		odds = odds.Mul(decimal.NewFromFloat(bet.Odds))
	}
	cohortOdds, _ := odds.Round(2).Float64()

	potentialReturn, _ := odds.Round(2).Mul(decimal.NewFromFloat(s.stake)).Round(2).Float64()
	potentialProfit := potentialReturn - s.stake

	treble := &models.Treble{
		Date:            date,
		Members:         members,
		CohortOdds:      cohortOdds,
		PotentialReturn: potentialReturn,
		PotentialProfit: potentialProfit,
		Status:          models.TrebleStatusPending,
	}

	wins, losses, pending := 0, 0, 0
	for _, bet := range members {
		switch bet.Result {
		case models.BetResultWin:
			wins++
		case models.BetResultLoss:
			losses++
		default:
			pending++
		}
	}

	switch {
	case losses > 0:
		// One loss sinks the treble regardless of the other members
		treble.Status = models.TrebleStatusLost
		treble.ActualReturn = 0
		treble.ActualProfit = -s.stake
	case pending > 0:
		treble.Status = models.TrebleStatusPending
	case wins == models.TrebleSize:
		treble.Status = models.TrebleStatusWon
		treble.ActualReturn = potentialReturn
		treble.ActualProfit = potentialProfit
	}

	if s.logger != nil && treble.Status != models.TrebleStatusPending {
		s.logger.WithFields(logrus.Fields{
			"date":          date.Format("2006-01-02"),
			"cohort_odds":   cohortOdds,
			"status":        treble.Status,
			"actual_profit": treble.ActualProfit,
		}).Info("Evaluated treble")
	}

	return treble
}
