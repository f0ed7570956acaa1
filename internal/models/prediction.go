package models

// Market identifies a wagerable proposition about a match
type Market string

const (
	MarketMatchWinner   Market = "match_winner"
	MarketBTTS          Market = "btts"
	MarketOver25Goals   Market = "over_2_5_goals"
	MarketOver35Cards   Market = "over_3_5_cards"
	MarketOver95Corners Market = "over_9_5_corners"
)

// ConfidenceTier buckets a confidence percentage into reporting bands
type ConfidenceTier string

const (
	TierHigh   ConfidenceTier = "high"
	TierMedium ConfidenceTier = "medium"
	TierLow    ConfidenceTier = "low"
)

// TierForConfidence maps a 0-100 percentage onto its tier.
// Boundaries are inclusive: 70 is high, 55 is medium.
func TierForConfidence(percentage int) ConfidenceTier {
	switch {
	case percentage >= 70:
		return TierHigh
	case percentage >= 55:
		return TierMedium
	default:
		return TierLow
	}
}

// MarketPrediction is one scored market for a fixture
type MarketPrediction struct {
	Market      Market         `json:"market" validate:"required"`
	Name        string         `json:"name"`
	Confidence  int            `json:"confidence" validate:"gte=0,lte=100"`
	Probability float64        `json:"probability" validate:"gte=0,lte=1"`
	Odds        float64        `json:"odds" validate:"gte=1"`
	Tier        ConfidenceTier `json:"tier"`
}

// Qualifies reports whether both thresholds are independently met.
// Kept free of any store or network access so it is trivially testable.
func (p MarketPrediction) Qualifies(minConfidence int, minProbability float64) bool {
	return p.Confidence >= minConfidence && p.Probability >= minProbability
}
