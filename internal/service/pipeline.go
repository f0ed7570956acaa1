package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/betbuilder/internal/cache"
	"github.com/yourusername/betbuilder/internal/config"
	"github.com/yourusername/betbuilder/internal/datasource"
	"github.com/yourusername/betbuilder/internal/explain"
	"github.com/yourusername/betbuilder/internal/metrics"
	"github.com/yourusername/betbuilder/internal/models"
	"github.com/yourusername/betbuilder/internal/repository"
	"github.com/yourusername/betbuilder/internal/scoring"
)

// Scorer produces per-market predictions for a fixture.
type Scorer interface {
	Score(fixture *models.Fixture, odds map[models.Market]float64) []models.MarketPrediction
}

// PipelineService runs the daily selection flow: fetch fixtures, score
// every supported one, filter markets, assemble combination bets, pick
// the featured bet and persist the lot. Each fixture is processed
// independently so one bad record never aborts the run.
type PipelineService struct {
	betting    *config.BettingConfig
	provider   datasource.Provider
	repos      *repository.Repositories
	oddsCache  *cache.OddsCache
	scorer     Scorer
	filter     *MarketFilter
	builder    *BetBuilderService
	settlement *SettlementService
	trebles    *TrebleService
	explainer  explain.Generator
	logger     *logrus.Logger
}

// PipelineMetrics summarises one pipeline run
type PipelineMetrics struct {
	FixturesFetched  int
	FixturesScored   int
	FixturesSkipped  int
	BetsBuilt        int
	SingleBetsStored int
	FeaturedFixture  int64
	Duration         time.Duration
}

func (m PipelineMetrics) String() string {
	return fmt.Sprintf("fetched=%d scored=%d skipped=%d bets=%d singles=%d featured_fixture=%d duration=%s",
		m.FixturesFetched, m.FixturesScored, m.FixturesSkipped,
		m.BetsBuilt, m.SingleBetsStored, m.FeaturedFixture, m.Duration.Round(time.Millisecond))
}

func NewPipelineService(
	betting *config.BettingConfig,
	provider datasource.Provider,
	repos *repository.Repositories,
	oddsCache *cache.OddsCache,
	scorer Scorer,
	filter *MarketFilter,
	builder *BetBuilderService,
	settlement *SettlementService,
	trebles *TrebleService,
	explainer explain.Generator,
	logger *logrus.Logger,
) *PipelineService {
	return &PipelineService{
		betting:    betting,
		provider:   provider,
		repos:      repos,
		oddsCache:  oddsCache,
		scorer:     scorer,
		filter:     filter,
		builder:    builder,
		settlement: settlement,
		trebles:    trebles,
		explainer:  explainer,
		logger:     logger,
	}
}

// Run executes the full selection pipeline for the given date.
func (p *PipelineService) Run(ctx context.Context, date time.Time) (*PipelineMetrics, error) {
	start := time.Now()
	defer func() {
		metrics.PipelineDuration.Observe(time.Since(start).Seconds())
	}()

	m := &PipelineMetrics{}
	log := p.logger.WithField("date", date.Format("2006-01-02"))

	fixtures, err := p.provider.FetchFixtures(ctx, date)
	if err != nil {
		metrics.ProviderErrorsTotal.WithLabelValues("fetch_fixtures").Inc()
		return nil, fmt.Errorf("fetching fixtures: %w", err)
	}
	m.FixturesFetched = len(fixtures)
	log.WithField("count", len(fixtures)).Info("fetched fixtures")

	// Degraded mode: the provider has nothing (fallback provider, or an
	// upstream outage on a day we already ingested), so rerun against the
	// fixtures persisted for the date.
	if len(fixtures) == 0 {
		stored, err := p.repos.Fixture.GetByDateRange(ctx, date, date.Add(24*time.Hour))
		if err != nil {
			return nil, fmt.Errorf("loading stored fixtures: %w", err)
		}
		for _, fixture := range stored {
			fixtures = append(fixtures, *fixture)
		}
		if len(fixtures) > 0 {
			log.WithField("count", len(fixtures)).Info("provider returned no fixtures, using stored fixtures")
		}
	}

	grouped := make([]FixtureMarkets, 0, len(fixtures))
	for i := range fixtures {
		fixture := &fixtures[i]

		if err := ctx.Err(); err != nil {
			return m, err
		}

		if !p.filter.LeagueSupported(fixture.League) {
			m.FixturesSkipped++
			continue
		}

		if err := p.enrich(ctx, fixture); err != nil {
			log.WithError(err).WithField("fixture_id", fixture.ID).
				Warn("skipping fixture, enrichment failed")
			m.FixturesSkipped++
			continue
		}

		if err := p.repos.Fixture.Upsert(ctx, fixture); err != nil {
			log.WithError(err).WithField("fixture_id", fixture.ID).
				Warn("skipping fixture, persist failed")
			m.FixturesSkipped++
			continue
		}

		odds := p.fixtureOdds(ctx, fixture.ID)
		predictions := p.scorer.Score(fixture, odds)
		metrics.FixturesScoredTotal.Inc()
		m.FixturesScored++

		if err := p.storeGoldenBet(ctx, fixture, predictions, date); err != nil {
			log.WithError(err).WithField("fixture_id", fixture.ID).
				Warn("storing golden-market bet failed")
		} else {
			m.SingleBetsStored++
		}

		qualifying := p.filter.Qualifying(fixture, predictions)
		if len(qualifying) == 0 {
			continue
		}
		grouped = append(grouped, FixtureMarkets{Fixture: fixture, Markets: qualifying})
	}

	bets := p.builder.Build(date, grouped)
	m.BetsBuilt = len(bets)
	metrics.CombinationBetsBuiltTotal.Add(float64(len(bets)))

	if err := p.builder.Store(ctx, bets); err != nil {
		return m, fmt.Errorf("storing combination bets: %w", err)
	}

	if pick, ok := SelectFeatured(bets); ok {
		m.FeaturedFixture = pick.Bet.FixtureID
		metrics.FeaturedPickScore.Set(pick.Score)

		if err := p.repos.Combination.SetFeatured(ctx, date, pick.Bet.FixtureID); err != nil {
			log.WithError(err).Warn("marking featured pick failed")
		}
		p.attachExplanation(ctx, pick, fixtures)
		log.WithFields(logrus.Fields{
			"fixture_id": pick.Bet.FixtureID,
			"score":      pick.Score,
		}).Info("featured pick selected")
	}

	m.Duration = time.Since(start)
	log.WithField("metrics", m.String()).Info("pipeline run complete")
	return m, nil
}

// enrich fills head-to-head history where the provider has it. Odds are
// handled separately because they are cached across runs.
func (p *PipelineService) enrich(ctx context.Context, fixture *models.Fixture) error {
	if fixture.H2H != nil {
		return nil
	}
	h2h, err := p.provider.FetchHeadToHead(ctx, fixture.Home.ID, fixture.Away.ID)
	if err != nil {
		var provErr datasource.ProviderError
		if errors.As(err, &provErr) && provErr.Code == datasource.ErrCodeNotFound {
			return nil
		}
		metrics.ProviderErrorsTotal.WithLabelValues("fetch_h2h").Inc()
		return fmt.Errorf("fetching head-to-head: %w", err)
	}
	fixture.H2H = h2h
	return nil
}

// fixtureOdds is cache-aside: Redis first, provider on miss, configured
// estimates when both are empty (the scorer applies those itself).
func (p *PipelineService) fixtureOdds(ctx context.Context, fixtureID int64) map[models.Market]float64 {
	if p.oddsCache != nil {
		if odds, err := p.oddsCache.Get(ctx, fixtureID); err == nil && odds != nil {
			return odds
		}
	}

	odds, err := p.provider.FetchMarketOdds(ctx, fixtureID)
	if err != nil {
		metrics.ProviderErrorsTotal.WithLabelValues("fetch_odds").Inc()
		p.logger.WithError(err).WithField("fixture_id", fixtureID).
			Debug("odds fetch failed, falling back to configured estimates")
		return nil
	}
	if odds != nil && p.oddsCache != nil {
		if err := p.oddsCache.Set(ctx, fixtureID, odds); err != nil {
			p.logger.WithError(err).Debug("caching odds failed")
		}
	}
	return odds
}

// storeGoldenBet records a single bet on the fixture's highest-confidence
// market, regardless of whether the fixture later yields a combination
// bet. Upsert keyed on fixture+market+date keeps replays idempotent.
func (p *PipelineService) storeGoldenBet(ctx context.Context, fixture *models.Fixture, predictions []models.MarketPrediction, date time.Time) error {
	golden, ok := scoring.GoldenMarket(predictions)
	if !ok {
		return nil
	}

	bet := &models.SingleBet{
		ID:         uuid.New(),
		FixtureID:  fixture.ID,
		Market:     golden.Market,
		Pick:       golden.Name,
		Odds:       golden.Odds,
		Confidence: golden.Confidence,
		Stake:      p.betting.StakePerBet,
		Result:     models.BetResultPending,
		BetDate:    date,
	}
	return p.repos.Bet.Upsert(ctx, bet)
}

func (p *PipelineService) attachExplanation(ctx context.Context, pick *FeaturedPick, fixtures []models.Fixture) {
	if p.explainer == nil {
		return
	}
	for i := range fixtures {
		if fixtures[i].ID != pick.Bet.FixtureID {
			continue
		}
		text, err := p.explainer.Explain(ctx, *pick.Bet, fixtures[i])
		if err != nil {
			p.logger.WithError(err).Debug("explanation generation failed")
			return
		}
		pick.Explanation = text
		return
	}
}

// SettleRun settles every pending bet whose fixture has finished, then
// refreshes treble standings for the given date.
func (p *PipelineService) SettleRun(ctx context.Context, date time.Time) error {
	start := time.Now()
	defer func() {
		metrics.SettlementDuration.Observe(time.Since(start).Seconds())
	}()

	settled, err := p.settlement.SettlePending(ctx)
	if err != nil {
		return fmt.Errorf("settling pending bets: %w", err)
	}

	trebles, err := p.trebles.ForDate(ctx, date)
	if err != nil {
		return fmt.Errorf("evaluating trebles: %w", err)
	}

	p.logger.WithFields(logrus.Fields{
		"settled": settled,
		"trebles": len(trebles),
		"date":    date.Format("2006-01-02"),
	}).Info("settlement run complete")
	return nil
}
