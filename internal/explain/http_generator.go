package explain

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/betbuilder/internal/config"
	"github.com/yourusername/betbuilder/internal/models"
)

// HTTPGenerator calls an external explanation service. Any transport or
// decode failure falls through to the template generator so the pipeline
// never blocks on explanation text.
type HTTPGenerator struct {
	url      string
	client   *retryablehttp.Client
	fallback Generator
	log      *logrus.Logger
}

type explainRequest struct {
	HomeTeam           string                    `json:"home_team"`
	AwayTeam           string                    `json:"away_team"`
	League             string                    `json:"league"`
	Markets            []models.MarketPrediction `json:"markets"`
	CombinedConfidence int                       `json:"combined_confidence"`
	CombinedOdds       float64                   `json:"combined_odds"`
}

type explainResponse struct {
	Explanation string `json:"explanation"`
}

func NewHTTPGenerator(cfg config.ExplainConfig, fallback Generator, log *logrus.Logger) *HTTPGenerator {
	client := retryablehttp.NewClient()
	client.RetryMax = 2
	client.RetryWaitMin = 200 * time.Millisecond
	client.RetryWaitMax = 2 * time.Second
	client.Logger = nil
	client.HTTPClient.Timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	if cfg.TimeoutSeconds <= 0 {
		client.HTTPClient.Timeout = 10 * time.Second
	}

	return &HTTPGenerator{
		url:      cfg.URL,
		client:   client,
		fallback: fallback,
		log:      log,
	}
}

func (g *HTTPGenerator) Explain(ctx context.Context, bet models.CombinationBet, fixture models.Fixture) (string, error) {
	text, err := g.call(ctx, bet, fixture)
	if err == nil && text != "" {
		return text, nil
	}
	if err != nil {
		g.log.WithError(err).WithField("fixture_id", fixture.ID).
			Warn("explanation service failed, using template fallback")
	}
	return g.fallback.Explain(ctx, bet, fixture)
}

func (g *HTTPGenerator) call(ctx context.Context, bet models.CombinationBet, fixture models.Fixture) (string, error) {
	body, err := json.Marshal(explainRequest{
		HomeTeam:           fixture.Home.Name,
		AwayTeam:           fixture.Away.Name,
		League:             fixture.League.Name,
		Markets:            bet.Markets,
		CombinedConfidence: bet.CombinedConfidence,
		CombinedOdds:       bet.CombinedOdds,
	})
	if err != nil {
		return "", fmt.Errorf("marshaling explain request: %w", err)
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, g.url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("building explain request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("calling explanation service: %w", err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("explanation service returned status %d", resp.StatusCode)
	}

	var out explainResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decoding explain response: %w", err)
	}
	return out.Explanation, nil
}
