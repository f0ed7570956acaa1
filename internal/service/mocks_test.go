package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/betbuilder/internal/models"
)

// In-memory repository fakes shared across the service tests.

type fakeBetRepo struct {
	bets      map[uuid.UUID]*models.SingleBet
	updateErr error
}

func newFakeBetRepo() *fakeBetRepo {
	return &fakeBetRepo{bets: make(map[uuid.UUID]*models.SingleBet)}
}

func (r *fakeBetRepo) Upsert(_ context.Context, bet *models.SingleBet) error {
	for _, existing := range r.bets {
		if existing.FixtureID == bet.FixtureID && existing.Market == bet.Market &&
			existing.BetDate.Equal(bet.BetDate) {
			existing.Pick = bet.Pick
			existing.Odds = bet.Odds
			existing.Confidence = bet.Confidence
			return nil
		}
	}
	clone := *bet
	r.bets[bet.ID] = &clone
	return nil
}

func (r *fakeBetRepo) Update(_ context.Context, bet *models.SingleBet) error {
	if r.updateErr != nil {
		return r.updateErr
	}
	if _, ok := r.bets[bet.ID]; !ok {
		return models.ErrNotFound
	}
	clone := *bet
	r.bets[bet.ID] = &clone
	return nil
}

func (r *fakeBetRepo) GetByID(_ context.Context, id uuid.UUID) (*models.SingleBet, error) {
	bet, ok := r.bets[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	return bet, nil
}

func (r *fakeBetRepo) GetPending(_ context.Context) ([]*models.SingleBet, error) {
	var out []*models.SingleBet
	for _, bet := range r.bets {
		if bet.IsPending() {
			out = append(out, bet)
		}
	}
	return out, nil
}

func (r *fakeBetRepo) GetPendingOlderThan(_ context.Context, cutoff time.Time) ([]*models.SingleBet, error) {
	var out []*models.SingleBet
	for _, bet := range r.bets {
		if bet.IsPending() && bet.BetDate.Before(cutoff) {
			out = append(out, bet)
		}
	}
	return out, nil
}

func (r *fakeBetRepo) GetByDate(_ context.Context, date time.Time) ([]*models.SingleBet, error) {
	var out []*models.SingleBet
	for _, bet := range r.bets {
		if bet.BetDate.Equal(date) {
			out = append(out, bet)
		}
	}
	return out, nil
}

type fakeFixtureRepo struct {
	fixtures map[int64]*models.Fixture
}

func newFakeFixtureRepo(fixtures ...*models.Fixture) *fakeFixtureRepo {
	r := &fakeFixtureRepo{fixtures: make(map[int64]*models.Fixture)}
	for _, f := range fixtures {
		r.fixtures[f.ID] = f
	}
	return r
}

func (r *fakeFixtureRepo) GetByID(_ context.Context, id int64) (*models.Fixture, error) {
	f, ok := r.fixtures[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	return f, nil
}

func (r *fakeFixtureRepo) GetByDateRange(_ context.Context, start, end time.Time) ([]*models.Fixture, error) {
	var out []*models.Fixture
	for _, f := range r.fixtures {
		if !f.Kickoff.Before(start) && f.Kickoff.Before(end) {
			out = append(out, f)
		}
	}
	return out, nil
}

func (r *fakeFixtureRepo) Upsert(_ context.Context, fixture *models.Fixture) error {
	clone := *fixture
	r.fixtures[fixture.ID] = &clone
	return nil
}

func (r *fakeFixtureRepo) CountByStatus(_ context.Context, status models.FixtureStatus) (int64, error) {
	var n int64
	for _, f := range r.fixtures {
		if f.Status == status {
			n++
		}
	}
	return n, nil
}

type fakeCombinationRepo struct {
	bets            map[string]*models.CombinationBet
	upsertErr       error
	featuredFixture int64
}

func newFakeCombinationRepo() *fakeCombinationRepo {
	return &fakeCombinationRepo{bets: make(map[string]*models.CombinationBet)}
}

func combinationKey(fixtureID int64, date time.Time) string {
	return fmt.Sprintf("%d:%s", fixtureID, date.Format("2006-01-02"))
}

func (r *fakeCombinationRepo) UpsertByFixtureDate(_ context.Context, bet *models.CombinationBet) error {
	if r.upsertErr != nil {
		return r.upsertErr
	}
	key := combinationKey(bet.FixtureID, bet.BetDate)
	if existing, ok := r.bets[key]; ok {
		existing.Markets = bet.Markets
		existing.CombinedConfidence = bet.CombinedConfidence
		existing.CombinedOdds = bet.CombinedOdds
		return nil
	}
	clone := *bet
	r.bets[key] = &clone
	return nil
}

func (r *fakeCombinationRepo) Update(_ context.Context, bet *models.CombinationBet) error {
	key := combinationKey(bet.FixtureID, bet.BetDate)
	if _, ok := r.bets[key]; !ok {
		return models.ErrNotFound
	}
	clone := *bet
	r.bets[key] = &clone
	return nil
}

func (r *fakeCombinationRepo) GetByDate(_ context.Context, date time.Time) ([]*models.CombinationBet, error) {
	var out []*models.CombinationBet
	for _, bet := range r.bets {
		if bet.BetDate.Equal(date) {
			out = append(out, bet)
		}
	}
	return out, nil
}

func (r *fakeCombinationRepo) SetFeatured(_ context.Context, date time.Time, fixtureID int64) error {
	target, ok := r.bets[combinationKey(fixtureID, date)]
	if !ok {
		return models.ErrNotFound
	}
	for _, bet := range r.bets {
		if bet.BetDate.Equal(date) {
			bet.Featured = false
		}
	}
	target.Featured = true
	r.featuredFixture = fixtureID
	return nil
}

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return log
}

func intPtr(n int) *int { return &n }
