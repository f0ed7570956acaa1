package models

import "time"

// TrebleStatus represents the aggregate outcome of a treble
type TrebleStatus string

const (
	TrebleStatusPending TrebleStatus = "pending"
	TrebleStatusWon     TrebleStatus = "won"
	TrebleStatusLost    TrebleStatus = "lost"
)

// TrebleSize is the fixed cohort size; dates with fewer settled-or-pending
// bets than this are dropped outright, never partially evaluated.
const TrebleSize = 3

// Treble is a computed view over exactly three single bets sharing a
// calendar date. It is derived for reporting, not persisted.
type Treble struct {
	Date            time.Time    `json:"date"`
	Members         []*SingleBet `json:"members"`
	CohortOdds      float64      `json:"cohort_odds"`
	PotentialReturn float64      `json:"potential_return"`
	PotentialProfit float64      `json:"potential_profit"`
	ActualReturn    float64      `json:"actual_return"`
	ActualProfit    float64      `json:"actual_profit"`
	Status          TrebleStatus `json:"status"`
}
