package datasource

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/betbuilder/internal/config"
	"github.com/yourusername/betbuilder/internal/models"
)

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return log
}

func newTestClient(t *testing.T, handler http.HandlerFunc) (*FootballAPIClient, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	httpClient := NewRateLimitedHTTPClient(HTTPClientConfig{
		Timeout:           5 * time.Second,
		MaxRetries:        0,
		RetryWaitMin:      time.Millisecond,
		RetryWaitMax:      10 * time.Millisecond,
		RateLimit:         1000,
		CircuitBreakerMax: 5,
	}, nil)

	return NewFootballAPIClient(httpClient, srv.URL, "test-key", true, testLogger()), srv
}

func TestFetchFixturesParsesAndSkipsBadRecords(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		assert.Equal(t, "2026-03-14", r.URL.Query().Get("date"))

		_, _ = w.Write([]byte(`[
			{
				"id": 100, "kickoff": "2026-03-14T15:00:00Z", "status": "NS",
				"league": {"id": 39, "name": "Premier League", "tier": 1},
				"home": {"id": 1, "name": "Arsenal", "goalsScoredAvg": 2.1, "goalsConcededAvg": 0.9, "form": "WWDLW"},
				"away": {"id": 2, "name": "Chelsea", "goalsScoredAvg": 1.8, "goalsConcededAvg": 1.1, "form": "WLWWD"}
			},
			{"id": 101, "kickoff": "not-a-time", "status": "NS"}
		]`))
	})

	fixtures, err := client.FetchFixtures(context.Background(), time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	require.Len(t, fixtures, 1, "the unparseable record is skipped, not fatal")
	f := fixtures[0]
	assert.Equal(t, int64(100), f.ID)
	assert.Equal(t, models.FixtureStatusScheduled, f.Status)
	assert.Equal(t, 39, f.League.ID)
	assert.Equal(t, "Arsenal", f.Home.Name)
	assert.Equal(t, 2.1, f.Home.Averages.GoalsScored)
	assert.Equal(t, "WWDLW", f.Home.Form)
}

func TestFetchMarketOddsAbsentIsNil(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})

	odds, err := client.FetchMarketOdds(context.Background(), 100)
	require.NoError(t, err, "a fixture without odds is absence, not an error")
	assert.Nil(t, odds)
}

func TestFetchMarketOddsFiltersSubUnity(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[
			{"market": "btts", "price": 1.85},
			{"market": "over_2_5_goals", "price": 0.5}
		]`))
	})

	odds, err := client.FetchMarketOdds(context.Background(), 100)
	require.NoError(t, err)
	require.Len(t, odds, 1)
	assert.Equal(t, 1.85, odds[models.MarketBTTS])
}

func TestFetchHeadToHeadNoHistory(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"matches": 0}`))
	})

	h2h, err := client.FetchHeadToHead(context.Background(), 1, 2)
	require.NoError(t, err)
	assert.Nil(t, h2h)
}

func TestFetchHeadToHead(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "1", r.URL.Query().Get("home"))
		assert.Equal(t, "2", r.URL.Query().Get("away"))
		_, _ = w.Write([]byte(`{"matches": 8, "bttsRate": 0.75, "over25Rate": 0.625, "avgTotalGoals": 3.1}`))
	})

	h2h, err := client.FetchHeadToHead(context.Background(), 1, 2)
	require.NoError(t, err)
	require.NotNil(t, h2h)
	assert.Equal(t, 8, h2h.Matches)
	assert.Equal(t, 0.75, h2h.BTTSRate)
}

func TestGetJSONStatusMapping(t *testing.T) {
	// 401 is not retryable, so it reaches the status switch.
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	_, err := client.FetchFixtures(context.Background(), time.Now())
	require.Error(t, err)
	provErr, ok := err.(ProviderError)
	require.True(t, ok)
	assert.Equal(t, ErrCodeAuthenticationFailed, provErr.Code)

	// 429 and 5xx are retried by the underlying client and surface as
	// transport failures once retries are exhausted.
	for _, status := range []int{http.StatusTooManyRequests, http.StatusInternalServerError} {
		client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(status)
		})

		_, err := client.FetchFixtures(context.Background(), time.Now())
		require.Error(t, err, "status %d", status)
	}
}

func TestFactoryGuardClause(t *testing.T) {
	log := testLogger()

	fallback := NewProvider(&config.ProviderConfig{Enabled: false}, log)
	assert.Equal(t, "static_fallback", fallback.Name())

	noKey := NewProvider(&config.ProviderConfig{Enabled: true, APIKey: ""}, log)
	assert.Equal(t, "static_fallback", noKey.Name())

	primary := NewProvider(&config.ProviderConfig{
		Enabled:            true,
		APIKey:             "key",
		BaseURL:            "https://example.com",
		TimeoutSeconds:     5,
		RateLimitPerSecond: 2,
		RequestDelayMillis: 300,
	}, log)
	assert.Equal(t, footballAPIName, primary.Name())
}

func TestFallbackProviderReturnsAbsence(t *testing.T) {
	p := NewStaticFallbackProvider()
	ctx := context.Background()

	fixtures, err := p.FetchFixtures(ctx, time.Now())
	require.NoError(t, err)
	assert.Empty(t, fixtures)

	odds, err := p.FetchMarketOdds(ctx, 1)
	require.NoError(t, err)
	assert.Nil(t, odds)

	h2h, err := p.FetchHeadToHead(ctx, 1, 2)
	require.NoError(t, err)
	assert.Nil(t, h2h)
}
