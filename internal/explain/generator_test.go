package explain

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/betbuilder/internal/config"
	"github.com/yourusername/betbuilder/internal/models"
)

func sampleBet() models.CombinationBet {
	return models.CombinationBet{
		FixtureID: 42,
		BetDate:   time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC),
		Markets: []models.MarketPrediction{
			{Market: models.MarketBTTS, Confidence: 78},
			{Market: models.MarketOver25Goals, Confidence: 81},
			{Market: models.MarketOver35Cards, Confidence: 76},
		},
		CombinedConfidence: 78,
		CombinedOdds:       5.12,
	}
}

func sampleFixture() models.Fixture {
	return models.Fixture{
		ID:     42,
		League: models.League{Name: "Premier League"},
		Home:   models.TeamStats{Name: "Arsenal"},
		Away:   models.TeamStats{Name: "Chelsea"},
	}
}

func TestTemplateGenerator(t *testing.T) {
	g := NewTemplateGenerator()

	text, err := g.Explain(context.Background(), sampleBet(), sampleFixture())
	require.NoError(t, err)

	assert.Contains(t, text, "Arsenal vs Chelsea")
	assert.Contains(t, text, "78%")
	assert.Contains(t, text, "5.12")
}

func TestTemplateGeneratorUnknownMarket(t *testing.T) {
	g := NewTemplateGenerator()
	bet := sampleBet()
	bet.Markets = append(bet.Markets, models.MarketPrediction{Market: "first_goalscorer", Confidence: 60})

	text, err := g.Explain(context.Background(), bet, sampleFixture())
	require.NoError(t, err)
	assert.Contains(t, text, "first_goalscorer")
}

func TestHTTPGeneratorSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req explainRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "Arsenal", req.HomeTeam)
		assert.Len(t, req.Markets, 3)

		_ = json.NewEncoder(w).Encode(explainResponse{Explanation: "a strong treble of attacking markets"})
	}))
	defer srv.Close()

	g := NewHTTPGenerator(config.ExplainConfig{URL: srv.URL, Enabled: true, TimeoutSeconds: 5},
		NewTemplateGenerator(), logrus.New())

	text, err := g.Explain(context.Background(), sampleBet(), sampleFixture())
	require.NoError(t, err)
	assert.Equal(t, "a strong treble of attacking markets", text)
}

func TestHTTPGeneratorFallsBackOnError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	g := NewHTTPGenerator(config.ExplainConfig{URL: srv.URL, Enabled: true, TimeoutSeconds: 2},
		NewTemplateGenerator(), log)

	text, err := g.Explain(context.Background(), sampleBet(), sampleFixture())
	require.NoError(t, err)
	assert.Contains(t, text, "Arsenal vs Chelsea")
}

func TestCachingGenerator(t *testing.T) {
	var calls int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&calls, 1)
		_ = json.NewEncoder(w).Encode(explainResponse{Explanation: "cached text"})
	}))
	defer srv.Close()

	inner := NewHTTPGenerator(config.ExplainConfig{URL: srv.URL, Enabled: true, TimeoutSeconds: 5},
		NewTemplateGenerator(), logrus.New())
	g := NewCachingGenerator(inner, time.Minute)

	for i := 0; i < 3; i++ {
		text, err := g.Explain(context.Background(), sampleBet(), sampleFixture())
		require.NoError(t, err)
		assert.Equal(t, "cached text", text)
	}
	assert.EqualValues(t, 1, atomic.LoadInt64(&calls))

	// Different market membership misses the cache.
	bet := sampleBet()
	bet.Markets = bet.Markets[:2]
	_, err := g.Explain(context.Background(), bet, sampleFixture())
	require.NoError(t, err)
	assert.EqualValues(t, 2, atomic.LoadInt64(&calls))
}
