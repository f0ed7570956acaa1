// Package explain produces short human-readable rationales for combination
// bets. The HTTP generator calls an external text service; the template
// generator is the offline fallback used when that service is disabled or
// failing.
package explain

import (
	"context"
	"fmt"
	"strings"

	"github.com/yourusername/betbuilder/internal/models"
)

// Generator turns a combination bet into a one-paragraph explanation.
type Generator interface {
	Explain(ctx context.Context, bet models.CombinationBet, fixture models.Fixture) (string, error)
}

// TemplateGenerator assembles explanations from static per-market phrases.
// It never fails, which makes it a safe last link in a fallback chain.
type TemplateGenerator struct{}

func NewTemplateGenerator() *TemplateGenerator {
	return &TemplateGenerator{}
}

var marketPhrases = map[models.Market]string{
	models.MarketBTTS:          "both sides have been finding the net regularly",
	models.MarketOver25Goals:   "recent scoring rates point to three or more goals",
	models.MarketOver35Cards:   "both teams pick up bookings at a high rate",
	models.MarketOver95Corners: "corner counts in recent matches have run high",
	models.MarketMatchWinner:   "form and head-to-head record favour one side",
}

func (g *TemplateGenerator) Explain(_ context.Context, bet models.CombinationBet, fixture models.Fixture) (string, error) {
	var parts []string
	for _, m := range bet.Markets {
		phrase, ok := marketPhrases[m.Market]
		if !ok {
			phrase = fmt.Sprintf("the %s market scored %d%% confidence", m.Market, m.Confidence)
		}
		parts = append(parts, phrase)
	}

	return fmt.Sprintf("%s vs %s: %s. Combined confidence %d%% at odds %.2f.",
		fixture.Home.Name, fixture.Away.Name,
		strings.Join(parts, "; "),
		bet.CombinedConfidence, bet.CombinedOdds), nil
}
