// Package repository provides data access interfaces and PostgreSQL implementations.
package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/yourusername/betbuilder/internal/models"
)

// FixtureRepository defines fixture persistence operations
type FixtureRepository interface {
	GetByID(ctx context.Context, id int64) (*models.Fixture, error)
	GetByDateRange(ctx context.Context, start, end time.Time) ([]*models.Fixture, error)
	Upsert(ctx context.Context, fixture *models.Fixture) error
	CountByStatus(ctx context.Context, status models.FixtureStatus) (int64, error)
}

// BetRepository defines single-bet persistence operations
type BetRepository interface {
	// Upsert inserts or refreshes a bet keyed by fixture id + market + date.
	// Settlement fields (result, profit, settled_at) are never overwritten
	// by an upsert so re-running selection cannot undo a settlement.
	Upsert(ctx context.Context, bet *models.SingleBet) error
	Update(ctx context.Context, bet *models.SingleBet) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.SingleBet, error)
	GetPending(ctx context.Context) ([]*models.SingleBet, error)
	GetPendingOlderThan(ctx context.Context, cutoff time.Time) ([]*models.SingleBet, error)
	GetByDate(ctx context.Context, date time.Time) ([]*models.SingleBet, error)
}

// CombinationBetRepository defines combination-bet persistence operations
type CombinationBetRepository interface {
	// UpsertByFixtureDate inserts or overwrites the market list and the
	// derived combined figures for the bet keyed by fixture id + date.
	UpsertByFixtureDate(ctx context.Context, bet *models.CombinationBet) error
	Update(ctx context.Context, bet *models.CombinationBet) error
	GetByDate(ctx context.Context, date time.Time) ([]*models.CombinationBet, error)
	// SetFeatured marks the fixture's bet featured for the date and clears
	// the flag on every other bet of that date. Keyed by fixture rather than
	// row id because the upsert keeps the existing row's id on conflict.
	SetFeatured(ctx context.Context, date time.Time, fixtureID int64) error
}
