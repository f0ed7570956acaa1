package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/yourusername/betbuilder/internal/database"
	"github.com/yourusername/betbuilder/internal/models"
)

// PostgresBetRepository implements BetRepository for PostgreSQL
type PostgresBetRepository struct {
	db *database.DB
}

// NewPostgresBetRepository creates a new single-bet repository
func NewPostgresBetRepository(db *database.DB) BetRepository {
	return &PostgresBetRepository{db: db}
}

const betColumns = `id, fixture_id, market, pick, odds, confidence, stake,
	       result, profit, bet_date, settled_at, created_at, updated_at`

// Upsert inserts or refreshes a bet keyed by fixture id + market + date.
// Only selection fields are overwritten; result, profit and settled_at are
// left untouched so a re-run cannot undo a settlement.
func (r *PostgresBetRepository) Upsert(ctx context.Context, bet *models.SingleBet) error {
	query := `
		INSERT INTO single_bets (id, fixture_id, market, pick, odds, confidence, stake,
		                         result, profit, bet_date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW(), NOW())
		ON CONFLICT (fixture_id, market, bet_date) DO UPDATE SET
			pick = EXCLUDED.pick,
			odds = EXCLUDED.odds,
			confidence = EXCLUDED.confidence,
			stake = EXCLUDED.stake,
			updated_at = NOW()
	`

	_, err := r.db.GetPool().Exec(ctx, query,
		bet.ID, bet.FixtureID, bet.Market, bet.Pick, bet.Odds, bet.Confidence,
		bet.Stake, bet.Result, bet.Profit, bet.BetDate,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert bet: %w", err)
	}

	return nil
}

// Update writes settlement fields for an existing bet
func (r *PostgresBetRepository) Update(ctx context.Context, bet *models.SingleBet) error {
	query := `
		UPDATE single_bets SET
			result = $2, profit = $3, settled_at = $4, updated_at = NOW()
		WHERE id = $1
	`

	commandTag, err := r.db.GetPool().Exec(ctx, query,
		bet.ID, bet.Result, bet.Profit, bet.SettledAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update bet: %w", err)
	}
	if commandTag.RowsAffected() == 0 {
		return models.ErrNotFound
	}

	return nil
}

// GetByID retrieves a bet by ID
func (r *PostgresBetRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.SingleBet, error) {
	query := `SELECT ` + betColumns + ` FROM single_bets WHERE id = $1`

	bet, err := scanBet(r.db.GetPool().QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get bet: %w", err)
	}

	return bet, nil
}

// GetPending retrieves all bets awaiting settlement
func (r *PostgresBetRepository) GetPending(ctx context.Context) ([]*models.SingleBet, error) {
	query := `SELECT ` + betColumns + `
		FROM single_bets
		WHERE result = 'pending'
		ORDER BY bet_date ASC, created_at ASC`

	return r.queryBets(ctx, query)
}

// GetPendingOlderThan retrieves pending bets created before the cutoff
func (r *PostgresBetRepository) GetPendingOlderThan(ctx context.Context, cutoff time.Time) ([]*models.SingleBet, error) {
	query := `SELECT ` + betColumns + `
		FROM single_bets
		WHERE result = 'pending' AND created_at < $1
		ORDER BY created_at ASC`

	return r.queryBets(ctx, query, cutoff)
}

// GetByDate retrieves all bets placed for the given calendar date
func (r *PostgresBetRepository) GetByDate(ctx context.Context, date time.Time) ([]*models.SingleBet, error) {
	query := `SELECT ` + betColumns + `
		FROM single_bets
		WHERE bet_date = $1
		ORDER BY confidence DESC, created_at ASC`

	return r.queryBets(ctx, query, date)
}

func (r *PostgresBetRepository) queryBets(ctx context.Context, query string, args ...any) ([]*models.SingleBet, error) {
	rows, err := r.db.GetPool().Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query bets: %w", err)
	}
	defer rows.Close()

	var bets []*models.SingleBet
	for rows.Next() {
		bet, err := scanBet(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan bet: %w", err)
		}
		bets = append(bets, bet)
	}

	return bets, rows.Err()
}

func scanBet(row pgx.Row) (*models.SingleBet, error) {
	bet := &models.SingleBet{}
	err := row.Scan(
		&bet.ID, &bet.FixtureID, &bet.Market, &bet.Pick, &bet.Odds, &bet.Confidence,
		&bet.Stake, &bet.Result, &bet.Profit, &bet.BetDate, &bet.SettledAt,
		&bet.CreatedAt, &bet.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return bet, nil
}
