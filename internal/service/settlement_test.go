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

func finishedFixture(id int64, home, away int) *models.Fixture {
	return &models.Fixture{
		ID:        id,
		Status:    models.FixtureStatusFinished,
		HomeScore: &home,
		AwayScore: &away,
	}
}

func pendingBet(fixtureID int64, market models.Market, pick string, odds float64) *models.SingleBet {
	return &models.SingleBet{
		ID:        uuid.New(),
		FixtureID: fixtureID,
		Market:    market,
		Pick:      pick,
		Odds:      odds,
		Stake:     10.0,
		Result:    models.BetResultPending,
		BetDate:   time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC),
	}
}

func newSettlement(betRepo *fakeBetRepo, fixtureRepo *fakeFixtureRepo) *SettlementService {
	return NewSettlementService(betRepo, fixtureRepo, 10.0, quietLogger())
}

func TestSettleOverGoalsWin(t *testing.T) {
	svc := newSettlement(newFakeBetRepo(), newFakeFixtureRepo())
	bet := pendingBet(1, models.MarketOver25Goals, "over 2.5 goals", 1.95)
	fixture := finishedFixture(1, 2, 1) // 3 goals

	require.True(t, svc.Settle(bet, fixture))
	assert.Equal(t, models.BetResultWin, bet.Result)
	assert.InDelta(t, 9.50, bet.Profit, 0.001) // (1.95-1)*10
	require.NotNil(t, bet.SettledAt)
}

func TestSettleOverGoalsLossOnExactLineUnder(t *testing.T) {
	svc := newSettlement(newFakeBetRepo(), newFakeFixtureRepo())
	bet := pendingBet(1, models.MarketOver25Goals, "over 2.5 goals", 1.95)
	fixture := finishedFixture(1, 1, 1) // 2 goals

	require.True(t, svc.Settle(bet, fixture))
	assert.Equal(t, models.BetResultLoss, bet.Result)
	assert.Equal(t, -10.0, bet.Profit)
}

func TestSettleBTTS(t *testing.T) {
	svc := newSettlement(newFakeBetRepo(), newFakeFixtureRepo())

	bet := pendingBet(1, models.MarketBTTS, "yes", 1.85)
	require.True(t, svc.Settle(bet, finishedFixture(1, 1, 2)))
	assert.Equal(t, models.BetResultWin, bet.Result)

	bet = pendingBet(1, models.MarketBTTS, "yes", 1.85)
	require.True(t, svc.Settle(bet, finishedFixture(1, 3, 0)))
	assert.Equal(t, models.BetResultLoss, bet.Result)

	bet = pendingBet(1, models.MarketBTTS, "no", 1.85)
	require.True(t, svc.Settle(bet, finishedFixture(1, 3, 0)))
	assert.Equal(t, models.BetResultWin, bet.Result)
}

func TestSettleMatchWinner(t *testing.T) {
	svc := newSettlement(newFakeBetRepo(), newFakeFixtureRepo())

	for _, tc := range []struct {
		pick       string
		home, away int
		want       models.BetResult
	}{
		{"home", 2, 0, models.BetResultWin},
		{"home", 0, 0, models.BetResultLoss},
		{"away", 0, 1, models.BetResultWin},
		{"draw", 1, 1, models.BetResultWin},
		{"draw", 2, 1, models.BetResultLoss},
	} {
		bet := pendingBet(1, models.MarketMatchWinner, tc.pick, 2.2)
		require.True(t, svc.Settle(bet, finishedFixture(1, tc.home, tc.away)), tc.pick)
		assert.Equal(t, tc.want, bet.Result, "pick=%s %d-%d", tc.pick, tc.home, tc.away)
	}
}

func TestSettleCardsCountsRedDouble(t *testing.T) {
	svc := newSettlement(newFakeBetRepo(), newFakeFixtureRepo())
	fixture := finishedFixture(1, 1, 0)
	fixture.HomeStats = models.SideStats{YellowCards: intPtr(2)}
	fixture.AwayStats = models.SideStats{YellowCards: intPtr(0), RedCards: intPtr(1)}
	// 2 + 0 + 2*1 = 4 booking points, over 3.5

	bet := pendingBet(1, models.MarketOver35Cards, "over 3.5 cards", 2.1)
	require.True(t, svc.Settle(bet, fixture))
	assert.Equal(t, models.BetResultWin, bet.Result)
}

func TestSettleCorners(t *testing.T) {
	svc := newSettlement(newFakeBetRepo(), newFakeFixtureRepo())
	fixture := finishedFixture(1, 1, 0)
	fixture.HomeStats = models.SideStats{Corners: intPtr(6)}
	fixture.AwayStats = models.SideStats{Corners: intPtr(3)}

	bet := pendingBet(1, models.MarketOver95Corners, "over 9.5 corners", 2.05)
	require.True(t, svc.Settle(bet, fixture))
	assert.Equal(t, models.BetResultLoss, bet.Result) // 9 corners, under the line
}

func TestSettleMarketAliases(t *testing.T) {
	svc := newSettlement(newFakeBetRepo(), newFakeFixtureRepo())

	bet := pendingBet(1, models.Market("Over/Under 2.5"), "over", 1.9)
	require.True(t, svc.Settle(bet, finishedFixture(1, 3, 1)))
	assert.Equal(t, models.BetResultWin, bet.Result)

	bet = pendingBet(1, models.Market("Both Teams To Score"), "yes", 1.8)
	require.True(t, svc.Settle(bet, finishedFixture(1, 2, 1)))
	assert.Equal(t, models.BetResultWin, bet.Result)
}

func TestSettleUnknownMarketIsLossNotPanic(t *testing.T) {
	svc := newSettlement(newFakeBetRepo(), newFakeFixtureRepo())
	bet := pendingBet(1, models.Market("corner kicks total"), "over", 2.0)

	require.True(t, svc.Settle(bet, finishedFixture(1, 2, 2)))
	assert.Equal(t, models.BetResultLoss, bet.Result)
	assert.Equal(t, -10.0, bet.Profit)
}

func TestSettleGuards(t *testing.T) {
	svc := newSettlement(newFakeBetRepo(), newFakeFixtureRepo())

	// Not finished: no transition.
	bet := pendingBet(1, models.MarketBTTS, "yes", 1.85)
	live := finishedFixture(1, 1, 1)
	live.Status = models.FixtureStatusLive
	assert.False(t, svc.Settle(bet, live))
	assert.Equal(t, models.BetResultPending, bet.Result)

	// Finished without score: no transition.
	noScore := &models.Fixture{ID: 1, Status: models.FixtureStatusFinished}
	assert.False(t, svc.Settle(bet, noScore))

	// Already settled: second settle is a no-op even if the score changed.
	won := pendingBet(1, models.MarketBTTS, "yes", 1.85)
	require.True(t, svc.Settle(won, finishedFixture(1, 1, 1)))
	firstProfit := won.Profit
	assert.False(t, svc.Settle(won, finishedFixture(1, 4, 0)))
	assert.Equal(t, firstProfit, won.Profit)
}

func TestSettlePendingBatchSkipsFailures(t *testing.T) {
	betRepo := newFakeBetRepo()
	fixtureRepo := newFakeFixtureRepo(
		finishedFixture(1, 2, 1),
		finishedFixture(3, 0, 0),
	)
	svc := newSettlement(betRepo, fixtureRepo)

	ctx := context.Background()
	require.NoError(t, betRepo.Upsert(ctx, pendingBet(1, models.MarketOver25Goals, "over 2.5 goals", 1.95)))
	require.NoError(t, betRepo.Upsert(ctx, pendingBet(2, models.MarketBTTS, "yes", 1.85))) // fixture missing
	require.NoError(t, betRepo.Upsert(ctx, pendingBet(3, models.MarketBTTS, "yes", 1.85)))

	settled, err := svc.SettlePending(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, settled)

	remaining, err := betRepo.GetPending(ctx)
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	assert.Equal(t, int64(2), remaining[0].FixtureID)
}

func TestSettleOrderIndependent(t *testing.T) {
	svc := newSettlement(newFakeBetRepo(), newFakeFixtureRepo())
	fixtureA := finishedFixture(1, 2, 1)
	fixtureB := finishedFixture(2, 0, 0)

	// A then B.
	betA1 := pendingBet(1, models.MarketOver25Goals, "over 2.5 goals", 1.95)
	betB1 := pendingBet(2, models.MarketBTTS, "yes", 1.85)
	require.True(t, svc.Settle(betA1, fixtureA))
	require.True(t, svc.Settle(betB1, fixtureB))

	// B then A.
	betA2 := pendingBet(1, models.MarketOver25Goals, "over 2.5 goals", 1.95)
	betB2 := pendingBet(2, models.MarketBTTS, "yes", 1.85)
	require.True(t, svc.Settle(betB2, fixtureB))
	require.True(t, svc.Settle(betA2, fixtureA))

	assert.Equal(t, betA1.Result, betA2.Result)
	assert.Equal(t, betA1.Profit, betA2.Profit)
	assert.Equal(t, betB1.Result, betB2.Result)
	assert.Equal(t, betB1.Profit, betB2.Profit)
	assert.Equal(t, models.BetResultWin, betA1.Result)
	assert.Equal(t, models.BetResultLoss, betB1.Result)
}

func TestProfitRounding(t *testing.T) {
	assert.Equal(t, 9.5, Profit(1.95, 10))
	assert.Equal(t, 8.5, Profit(1.85, 10))
	// A float-hostile pair still rounds cleanly to 2dp.
	assert.Equal(t, 11.55, Profit(2.1, 10.5))
}
