package models

import (
	"time"

	"github.com/google/uuid"
)

// BetResult represents the settlement outcome of a bet
type BetResult string

const (
	BetResultPending BetResult = "pending"
	BetResultWin     BetResult = "win"
	BetResultLoss    BetResult = "loss"
)

// SingleBet is one fixture + one market + one directional pick. A bet is
// created pending and settled exactly once when its fixture finishes;
// the pending guard makes re-settlement a no-op.
type SingleBet struct {
	ID         uuid.UUID `db:"id" json:"id" validate:"required"`
	FixtureID  int64     `db:"fixture_id" json:"fixture_id" validate:"required,gt=0"`
	Market     Market    `db:"market" json:"market" validate:"required"`
	Pick       string    `db:"pick" json:"pick" validate:"required"`
	Odds       float64   `db:"odds" json:"odds" validate:"required,gte=1"`
	Confidence int       `db:"confidence" json:"confidence" validate:"gte=0,lte=100"`
	Stake      float64   `db:"stake" json:"stake" validate:"required,gt=0"`
	Result     BetResult `db:"result" json:"result" validate:"required"`
	Profit     float64   `db:"profit" json:"profit"`
	BetDate    time.Time `db:"bet_date" json:"bet_date" validate:"required"`
	SettledAt  *time.Time `db:"settled_at" json:"settled_at"`
	CreatedAt  time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time  `db:"updated_at" json:"updated_at"`
}

// IsPending reports whether the bet is still awaiting settlement
func (b *SingleBet) IsPending() bool {
	return b.Result == BetResultPending
}

// IsSettled reports whether the bet has reached a terminal result
func (b *SingleBet) IsSettled() bool {
	return b.Result == BetResultWin || b.Result == BetResultLoss
}

// CombinationBet combines multiple qualifying markets of one fixture into
// a single wager. Upserted by fixture id + date; combined figures are
// recomputed whenever the market list changes.
type CombinationBet struct {
	ID                 uuid.UUID          `db:"id" json:"id" validate:"required"`
	FixtureID          int64              `db:"fixture_id" json:"fixture_id" validate:"required,gt=0"`
	BetDate            time.Time          `db:"bet_date" json:"bet_date" validate:"required"`
	Markets            []MarketPrediction `json:"markets" validate:"required,min=1"`
	CombinedConfidence int                `db:"combined_confidence" json:"combined_confidence" validate:"gte=0,lte=100"`
	CombinedOdds       float64            `db:"combined_odds" json:"combined_odds" validate:"gte=1"`
	Featured           bool               `db:"featured" json:"featured"`
	Result             BetResult          `db:"result" json:"result" validate:"required"`
	CreatedAt          time.Time          `db:"created_at" json:"created_at"`
	UpdatedAt          time.Time          `db:"updated_at" json:"updated_at"`
}

// MarketCount returns the number of member markets
func (c *CombinationBet) MarketCount() int {
	return len(c.Markets)
}
