package models

import (
	"time"
)

// FixtureStatus represents the lifecycle state of a fixture
type FixtureStatus string

const (
	FixtureStatusScheduled FixtureStatus = "scheduled"
	FixtureStatusLive      FixtureStatus = "live"
	FixtureStatusFinished  FixtureStatus = "finished"
	FixtureStatusPostponed FixtureStatus = "postponed"
)

// League identifies the competition a fixture belongs to
type League struct {
	ID   int    `db:"league_id" json:"id"`
	Name string `db:"league_name" json:"name"`
	Tier int    `db:"league_tier" json:"tier"`
}

// TeamAverages holds per-match scoring averages for one team
type TeamAverages struct {
	GoalsScored   float64 `json:"goals_scored"`
	GoalsConceded float64 `json:"goals_conceded"`
	Cards         float64 `json:"cards"`
	Corners       float64 `json:"corners"`
}

// TeamStats holds everything the scoring engine knows about one side
type TeamStats struct {
	ID       int64        `json:"id"`
	Name     string       `json:"name"`
	Averages TeamAverages `json:"averages"`
	Form     string       `json:"form"` // recent results, most recent first, e.g. "WWDLW"
}

// SideStats holds final per-side match statistics used by settlement
type SideStats struct {
	Shots       *int `json:"shots"`
	Corners     *int `json:"corners"`
	YellowCards *int `json:"yellow_cards"`
	RedCards    *int `json:"red_cards"`
	Possession  *int `json:"possession"` // percentage
}

// HeadToHead aggregates historical meetings between the two teams
type HeadToHead struct {
	Matches      int     `json:"matches"`
	BTTSRate     float64 `json:"btts_rate"`      // share of meetings where both teams scored
	Over25Rate   float64 `json:"over_2_5_rate"`  // share of meetings with 3+ goals
	AvgTotalGoal float64 `json:"avg_total_goal"`
}

// Fixture represents a football match discovered from the upstream provider.
// Identity is the provider's stable numeric id; match-state fields
// (status, score, per-side stats) are updated as the match progresses.
type Fixture struct {
	ID        int64         `db:"id" json:"id" validate:"required,gt=0"`
	League    League        `json:"league"`
	Home      TeamStats     `json:"home"`
	Away      TeamStats     `json:"away"`
	Kickoff   time.Time     `db:"kickoff" json:"kickoff" validate:"required"`
	Status    FixtureStatus `db:"status" json:"status" validate:"required"`
	HomeScore *int          `db:"home_score" json:"home_score"`
	AwayScore *int          `db:"away_score" json:"away_score"`
	HomeStats SideStats     `json:"home_stats"`
	AwayStats SideStats     `json:"away_stats"`
	H2H       *HeadToHead   `json:"h2h,omitempty"`
	CreatedAt time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt time.Time     `db:"updated_at" json:"updated_at"`
}

// IsFinished reports whether the fixture has reached a terminal state
func (f *Fixture) IsFinished() bool {
	return f.Status == FixtureStatusFinished
}

// HasFinalScore reports whether both score components are present.
// A fixture marked finished without a usable score is treated as
// missing-data by callers, never as an error.
func (f *Fixture) HasFinalScore() bool {
	return f.HomeScore != nil && f.AwayScore != nil
}

// TotalGoals returns the combined final score, or 0 if incomplete
func (f *Fixture) TotalGoals() int {
	if !f.HasFinalScore() {
		return 0
	}
	return *f.HomeScore + *f.AwayScore
}

// TotalCorners sums both sides' corners; absent values count as zero
func (f *Fixture) TotalCorners() int {
	total := 0
	if f.HomeStats.Corners != nil {
		total += *f.HomeStats.Corners
	}
	if f.AwayStats.Corners != nil {
		total += *f.AwayStats.Corners
	}
	return total
}

// TotalCards sums booking points across both sides, a red counting double
func (f *Fixture) TotalCards() int {
	total := 0
	for _, s := range []SideStats{f.HomeStats, f.AwayStats} {
		if s.YellowCards != nil {
			total += *s.YellowCards
		}
		if s.RedCards != nil {
			total += 2 * *s.RedCards
		}
	}
	return total
}
