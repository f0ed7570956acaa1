package datasource

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/betbuilder/internal/models"
)

const footballAPIName = "football_api"

// FootballAPIClient implements Provider for the upstream football data API
type FootballAPIClient struct {
	httpClient *RateLimitedHTTPClient
	baseURL    string
	apiKey     string
	enabled    bool
	logger     *logrus.Logger
}

// NewFootballAPIClient creates a new football API client
func NewFootballAPIClient(httpClient *RateLimitedHTTPClient, baseURL, apiKey string, enabled bool, logger *logrus.Logger) *FootballAPIClient {
	return &FootballAPIClient{
		httpClient: httpClient,
		baseURL:    baseURL,
		apiKey:     apiKey,
		enabled:    enabled,
		logger:     logger,
	}
}

// apiFixture represents a fixture from the upstream API
type apiFixture struct {
	ID      int64  `json:"id"`
	Kickoff string `json:"kickoff"`
	Status  string `json:"status"`
	League  struct {
		ID   int    `json:"id"`
		Name string `json:"name"`
		Tier int    `json:"tier"`
	} `json:"league"`
	Home      apiTeam       `json:"home"`
	Away      apiTeam       `json:"away"`
	HomeScore *int          `json:"homeScore"`
	AwayScore *int          `json:"awayScore"`
	HomeStats *apiSideStats `json:"homeStats"`
	AwayStats *apiSideStats `json:"awayStats"`
}

type apiTeam struct {
	ID            int64   `json:"id"`
	Name          string  `json:"name"`
	GoalsScored   float64 `json:"goalsScoredAvg"`
	GoalsConceded float64 `json:"goalsConcededAvg"`
	CardsAvg      float64 `json:"cardsAvg"`
	CornersAvg    float64 `json:"cornersAvg"`
	Form          string  `json:"form"`
}

type apiSideStats struct {
	Shots       *int `json:"shots"`
	Corners     *int `json:"corners"`
	YellowCards *int `json:"yellowCards"`
	RedCards    *int `json:"redCards"`
	Possession  *int `json:"possession"`
}

type apiOdds struct {
	Market string  `json:"market"`
	Price  float64 `json:"price"`
}

type apiHeadToHead struct {
	Matches      int     `json:"matches"`
	BTTSRate     float64 `json:"bttsRate"`
	Over25Rate   float64 `json:"over25Rate"`
	AvgTotalGoal float64 `json:"avgTotalGoals"`
}

// Name returns the provider name
func (c *FootballAPIClient) Name() string {
	return footballAPIName
}

// IsEnabled returns whether this provider is enabled
func (c *FootballAPIClient) IsEnabled() bool {
	return c.enabled
}

// FetchFixtures retrieves fixtures kicking off on the given date
func (c *FootballAPIClient) FetchFixtures(ctx context.Context, date time.Time) ([]models.Fixture, error) {
	if !c.enabled {
		return nil, NewProviderError(footballAPIName, ErrCodeNetworkError, "provider is disabled", ErrProviderDisabled)
	}

	url := fmt.Sprintf("%s/fixtures?date=%s", c.baseURL, date.Format("2006-01-02"))

	var fixtures []apiFixture
	if err := c.getJSON(ctx, url, &fixtures); err != nil {
		return nil, err
	}

	result := make([]models.Fixture, 0, len(fixtures))
	for _, f := range fixtures {
		fixture, err := c.convertFixture(f)
		if err != nil {
			c.logger.WithError(err).WithField("fixture_id", f.ID).
				Warn("Skipping unparseable fixture")
			continue
		}
		result = append(result, fixture)
	}

	return result, nil
}

// FetchMarketOdds retrieves per-market odds for a fixture. Markets the
// bookmaker does not price are simply absent from the returned map.
func (c *FootballAPIClient) FetchMarketOdds(ctx context.Context, fixtureID int64) (map[models.Market]float64, error) {
	if !c.enabled {
		return nil, nil
	}

	url := fmt.Sprintf("%s/fixtures/%d/odds", c.baseURL, fixtureID)

	var entries []apiOdds
	if err := c.getJSON(ctx, url, &entries); err != nil {
		var provErr ProviderError
		if errors.As(err, &provErr) && provErr.Code == ErrCodeNotFound {
			return nil, nil
		}
		return nil, err
	}

	if len(entries) == 0 {
		return nil, nil
	}

	odds := make(map[models.Market]float64, len(entries))
	for _, e := range entries {
		if e.Price >= 1 {
			odds[models.Market(e.Market)] = e.Price
		}
	}

	return odds, nil
}

// FetchHeadToHead retrieves the aggregate history between two teams
func (c *FootballAPIClient) FetchHeadToHead(ctx context.Context, homeTeamID, awayTeamID int64) (*models.HeadToHead, error) {
	if !c.enabled {
		return nil, nil
	}

	url := fmt.Sprintf("%s/h2h?home=%d&away=%d", c.baseURL, homeTeamID, awayTeamID)

	var h2h apiHeadToHead
	if err := c.getJSON(ctx, url, &h2h); err != nil {
		var provErr ProviderError
		if errors.As(err, &provErr) && provErr.Code == ErrCodeNotFound {
			return nil, nil
		}
		return nil, err
	}

	if h2h.Matches == 0 {
		return nil, nil
	}

	return &models.HeadToHead{
		Matches:      h2h.Matches,
		BTTSRate:     h2h.BTTSRate,
		Over25Rate:   h2h.Over25Rate,
		AvgTotalGoal: h2h.AvgTotalGoal,
	}, nil
}

func (c *FootballAPIClient) getJSON(ctx context.Context, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return NewProviderError(footballAPIName, ErrCodeNetworkError, "failed to create request", err)
	}
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.apiKey))
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(ctx, req)
	if err != nil {
		return NewProviderError(footballAPIName, ErrCodeNetworkError, "request failed", err)
	}
	defer drainBody(resp)

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusUnauthorized:
		return NewProviderError(footballAPIName, ErrCodeAuthenticationFailed, "invalid API key", ErrAuthenticationFailed)
	case http.StatusNotFound:
		return NewProviderError(footballAPIName, ErrCodeNotFound, "resource not found", ErrNotFound)
	case http.StatusTooManyRequests:
		return NewProviderError(footballAPIName, ErrCodeRateLimitExceeded, "rate limit exceeded", ErrRateLimitExceeded)
	default:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return NewProviderError(footballAPIName, ErrCodeServerError,
			fmt.Sprintf("unexpected status %d: %s", resp.StatusCode, string(body)), nil)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return NewProviderError(footballAPIName, ErrCodeInvalidData, "failed to parse response", err)
	}

	return nil
}

func (c *FootballAPIClient) convertFixture(f apiFixture) (models.Fixture, error) {
	kickoff, err := time.Parse(time.RFC3339, f.Kickoff)
	if err != nil {
		return models.Fixture{}, fmt.Errorf("invalid kickoff time %q: %w", f.Kickoff, err)
	}

	fixture := models.Fixture{
		ID: f.ID,
		League: models.League{
			ID:   f.League.ID,
			Name: f.League.Name,
			Tier: f.League.Tier,
		},
		Home:      convertTeam(f.Home),
		Away:      convertTeam(f.Away),
		Kickoff:   kickoff,
		Status:    convertStatus(f.Status),
		HomeScore: f.HomeScore,
		AwayScore: f.AwayScore,
	}
	if f.HomeStats != nil {
		fixture.HomeStats = convertSideStats(*f.HomeStats)
	}
	if f.AwayStats != nil {
		fixture.AwayStats = convertSideStats(*f.AwayStats)
	}

	return fixture, nil
}

func convertTeam(t apiTeam) models.TeamStats {
	return models.TeamStats{
		ID:   t.ID,
		Name: t.Name,
		Form: t.Form,
		Averages: models.TeamAverages{
			GoalsScored:   t.GoalsScored,
			GoalsConceded: t.GoalsConceded,
			Cards:         t.CardsAvg,
			Corners:       t.CornersAvg,
		},
	}
}

func convertSideStats(s apiSideStats) models.SideStats {
	return models.SideStats{
		Shots:       s.Shots,
		Corners:     s.Corners,
		YellowCards: s.YellowCards,
		RedCards:    s.RedCards,
		Possession:  s.Possession,
	}
}

func convertStatus(status string) models.FixtureStatus {
	switch status {
	case "NS", "scheduled":
		return models.FixtureStatusScheduled
	case "1H", "HT", "2H", "ET", "live":
		return models.FixtureStatusLive
	case "FT", "AET", "PEN", "finished":
		return models.FixtureStatusFinished
	case "PST", "postponed", "cancelled":
		return models.FixtureStatusPostponed
	default:
		return models.FixtureStatusScheduled
	}
}
