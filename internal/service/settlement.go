package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/betbuilder/internal/metrics"
	"github.com/yourusername/betbuilder/internal/models"
	"github.com/yourusername/betbuilder/internal/repository"
)

// Market lines used at settlement time
const (
	goalsSettleLine   = 2.5
	cardsSettleLine   = 3.5
	cornersSettleLine = 9.5
)

// MarketRule decides whether a pick won given the finished fixture.
// Rules are pure; adding a market means adding a table entry, the
// dispatch never changes.
type MarketRule func(pick string, fixture *models.Fixture) bool

// settlementRules maps canonical market identifiers to their win rule
var settlementRules = map[models.Market]MarketRule{
	models.MarketMatchWinner: func(pick string, f *models.Fixture) bool {
		home, away := *f.HomeScore, *f.AwayScore
		switch strings.ToLower(pick) {
		case "home":
			return home > away
		case "away":
			return away > home
		case "draw":
			return home == away
		default:
			return false
		}
	},
	models.MarketBTTS: func(pick string, f *models.Fixture) bool {
		both := *f.HomeScore >= 1 && *f.AwayScore >= 1
		if strings.EqualFold(pick, "no") {
			return !both
		}
		return both
	},
	models.MarketOver25Goals: func(pick string, f *models.Fixture) bool {
		return overUnder(pick, float64(f.TotalGoals()), goalsSettleLine)
	},
	models.MarketOver35Cards: func(pick string, f *models.Fixture) bool {
		return overUnder(pick, float64(f.TotalCards()), cardsSettleLine)
	},
	models.MarketOver95Corners: func(pick string, f *models.Fixture) bool {
		return overUnder(pick, float64(f.TotalCorners()), cornersSettleLine)
	},
}

// marketAliases maps raw market strings seen in stored bets onto the
// canonical identifiers used by the rules table.
var marketAliases = map[string]models.Market{
	"match winner":           models.MarketMatchWinner,
	"1x2":                    models.MarketMatchWinner,
	"both teams to score":    models.MarketBTTS,
	"over/under 2.5":         models.MarketOver25Goals,
	"over/under 2.5 goals":   models.MarketOver25Goals,
	"over/under 3.5 cards":   models.MarketOver35Cards,
	"over/under 9.5 corners": models.MarketOver95Corners,
}

// RuleFor resolves the settlement rule for a market string, accepting
// both canonical identifiers and known aliases.
func RuleFor(market models.Market) (MarketRule, bool) {
	if rule, ok := settlementRules[market]; ok {
		return rule, true
	}
	normalized := strings.ToLower(strings.TrimSpace(string(market)))
	if canonical, ok := marketAliases[normalized]; ok {
		return settlementRules[canonical], true
	}
	return nil, false
}

func overUnder(pick string, total, line float64) bool {
	if strings.HasPrefix(strings.ToLower(pick), "under") {
		return total < line
	}
	return total > line
}

// SettlementService resolves pending bets against finished fixtures
type SettlementService struct {
	betRepo     repository.BetRepository
	fixtureRepo repository.FixtureRepository
	stake       float64
	logger      *logrus.Logger
}

// NewSettlementService creates a new settlement engine
func NewSettlementService(
	betRepo repository.BetRepository,
	fixtureRepo repository.FixtureRepository,
	stake float64,
	logger *logrus.Logger,
) *SettlementService {
	return &SettlementService{
		betRepo:     betRepo,
		fixtureRepo: fixtureRepo,
		stake:       stake,
		logger:      logger,
	}
}

// Settle resolves one bet against its fixture. The transition fires only
// when the bet is pending and the fixture is finished with a usable
// score; anything else leaves the bet unchanged for the next run, which
// also makes replays after a partial failure safe. Returns whether the
// bet transitioned.
func (s *SettlementService) Settle(bet *models.SingleBet, fixture *models.Fixture) bool {
	if !bet.IsPending() {
		return false
	}
	if !fixture.IsFinished() || !fixture.HasFinalScore() {
		return false
	}

	rule, ok := RuleFor(bet.Market)
	if !ok {
		// Loss by default: a typo in a market string must never leave
		// the bet pending forever.
		s.logger.WithFields(logrus.Fields{
			"bet_id": bet.ID,
			"market": bet.Market,
		}).Warn("Unrecognized market, settling as loss")
		s.apply(bet, false)
		return true
	}

	s.apply(bet, rule(bet.Pick, fixture))
	return true
}

func (s *SettlementService) apply(bet *models.SingleBet, won bool) {
	now := time.Now().UTC()
	bet.SettledAt = &now

	if won {
		bet.Result = models.BetResultWin
		bet.Profit = Profit(bet.Odds, s.stake)
		metrics.BetsWonTotal.Inc()
	} else {
		bet.Result = models.BetResultLoss
		bet.Profit = -s.stake
		metrics.BetsLostTotal.Inc()
	}
	metrics.BetsSettledTotal.Inc()
}

// SettlePending resolves every pending bet whose fixture has finished.
// A failure on one bet is logged and skipped; it never aborts the batch.
func (s *SettlementService) SettlePending(ctx context.Context) (int, error) {
	pending, err := s.betRepo.GetPending(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to load pending bets: %w", err)
	}

	settled := 0
	for _, bet := range pending {
		fixture, err := s.fixtureRepo.GetByID(ctx, bet.FixtureID)
		if err != nil {
			s.logger.WithError(err).WithField("fixture_id", bet.FixtureID).
				Warn("Failed to load fixture for settlement, skipping bet")
			continue
		}

		if !s.Settle(bet, fixture) {
			continue
		}

		if err := s.betRepo.Update(ctx, bet); err != nil {
			s.logger.WithError(err).WithField("bet_id", bet.ID).
				Error("Failed to persist settlement, leaving bet for retry")
			continue
		}

		s.logger.WithFields(logrus.Fields{
			"bet_id": bet.ID,
			"market": bet.Market,
			"result": bet.Result,
			"profit": bet.Profit,
		}).Info("Settled bet")
		settled++
	}

	return settled, nil
}

// Profit returns the winnings for a won bet at the given odds and stake,
// rounded to 2 decimal places.
func Profit(odds, stake float64) float64 {
	profit := decimal.NewFromFloat(odds).
		Sub(decimal.NewFromInt(1)).
		Mul(decimal.NewFromFloat(stake))
	result, _ := profit.Round(2).Float64()
	return result
}
