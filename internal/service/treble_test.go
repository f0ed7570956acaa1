package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/betbuilder/internal/models"
)

func trebleDate() time.Time {
	return time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)
}

func memberBet(fixtureID int64, confidence int, odds float64, result models.BetResult) *models.SingleBet {
	return &models.SingleBet{
		ID:         uuid.New(),
		FixtureID:  fixtureID,
		Market:     models.MarketOver25Goals,
		Pick:       "over 2.5 goals",
		Odds:       odds,
		Confidence: confidence,
		Stake:      10.0,
		Result:     result,
		BetDate:    trebleDate(),
	}
}

func TestGroupCohortsByConfidence(t *testing.T) {
	svc := NewTrebleService(newFakeBetRepo(), 10.0, quietLogger())

	bets := []*models.SingleBet{
		memberBet(1, 70, 1.9, models.BetResultPending),
		memberBet(2, 90, 1.9, models.BetResultPending),
		memberBet(3, 80, 1.9, models.BetResultPending),
		memberBet(4, 85, 1.9, models.BetResultPending),
		memberBet(5, 75, 1.9, models.BetResultPending),
		memberBet(6, 88, 1.9, models.BetResultPending),
		memberBet(7, 60, 1.9, models.BetResultPending), // leftover, dropped
	}

	trebles := svc.Group(trebleDate(), bets)

	require.Len(t, trebles, 2)
	first := []int64{trebles[0].Members[0].FixtureID, trebles[0].Members[1].FixtureID, trebles[0].Members[2].FixtureID}
	assert.Equal(t, []int64{2, 6, 4}, first, "strongest three form the first cohort")
	assert.Len(t, trebles[1].Members, models.TrebleSize)
}

func TestGroupDropsShortCohort(t *testing.T) {
	svc := NewTrebleService(newFakeBetRepo(), 10.0, quietLogger())

	trebles := svc.Group(trebleDate(), []*models.SingleBet{
		memberBet(1, 80, 1.9, models.BetResultWin),
		memberBet(2, 75, 1.9, models.BetResultWin),
	})

	assert.Empty(t, trebles)
}

func TestTrebleLossOutweighsPending(t *testing.T) {
	svc := NewTrebleService(newFakeBetRepo(), 10.0, quietLogger())

	trebles := svc.Group(trebleDate(), []*models.SingleBet{
		memberBet(1, 85, 1.90, models.BetResultWin),
		memberBet(2, 80, 2.00, models.BetResultPending),
		memberBet(3, 78, 1.85, models.BetResultLoss),
	})

	require.Len(t, trebles, 1)
	assert.Equal(t, models.TrebleStatusLost, trebles[0].Status)
	assert.Equal(t, 0.0, trebles[0].ActualReturn)
	assert.Equal(t, -10.0, trebles[0].ActualProfit)
}

func TestTreblePendingUntilAllSettledWhenNoLoss(t *testing.T) {
	svc := NewTrebleService(newFakeBetRepo(), 10.0, quietLogger())

	trebles := svc.Group(trebleDate(), []*models.SingleBet{
		memberBet(1, 85, 1.90, models.BetResultWin),
		memberBet(2, 80, 2.00, models.BetResultWin),
		memberBet(3, 78, 1.85, models.BetResultPending),
	})

	require.Len(t, trebles, 1)
	assert.Equal(t, models.TrebleStatusPending, trebles[0].Status)
	assert.Equal(t, 0.0, trebles[0].ActualProfit)
}

func TestTrebleWonPaysCohortOdds(t *testing.T) {
	svc := NewTrebleService(newFakeBetRepo(), 10.0, quietLogger())

	trebles := svc.Group(trebleDate(), []*models.SingleBet{
		memberBet(1, 85, 1.90, models.BetResultWin),
		memberBet(2, 80, 2.00, models.BetResultWin),
		memberBet(3, 78, 1.85, models.BetResultWin),
	})

	require.Len(t, trebles, 1)
	treble := trebles[0]
	assert.Equal(t, models.TrebleStatusWon, treble.Status)
	// 1.90 * 2.00 * 1.85 = 7.03
	assert.InDelta(t, 7.03, treble.CohortOdds, 0.001)
	assert.InDelta(t, 70.30, treble.ActualReturn, 0.001)
	assert.InDelta(t, 60.30, treble.ActualProfit, 0.001)
}

func TestForDateLoadsFromRepository(t *testing.T) {
	betRepo := newFakeBetRepo()
	svc := NewTrebleService(betRepo, 10.0, quietLogger())
	ctx := context.Background()

	for i := int64(1); i <= 3; i++ {
		require.NoError(t, betRepo.Upsert(ctx, memberBet(i, 80, 1.9, models.BetResultPending)))
	}
	// A bet on another date stays out of the cohort.
	other := memberBet(9, 99, 1.9, models.BetResultPending)
	other.BetDate = trebleDate().AddDate(0, 0, 1)
	require.NoError(t, betRepo.Upsert(ctx, other))

	trebles, err := svc.ForDate(ctx, trebleDate())
	require.NoError(t, err)
	require.Len(t, trebles, 1)
	for _, m := range trebles[0].Members {
		assert.NotEqual(t, int64(9), m.FixtureID)
	}
}
