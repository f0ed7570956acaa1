package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/yourusername/betbuilder/internal/database"
	"github.com/yourusername/betbuilder/internal/models"
)

// PostgresCombinationBetRepository implements CombinationBetRepository for PostgreSQL
type PostgresCombinationBetRepository struct {
	db *database.DB
}

// NewPostgresCombinationBetRepository creates a new combination-bet repository
func NewPostgresCombinationBetRepository(db *database.DB) CombinationBetRepository {
	return &PostgresCombinationBetRepository{db: db}
}

const combinationColumns = `id, fixture_id, bet_date, markets, combined_confidence,
	       combined_odds, featured, result, created_at, updated_at`

// UpsertByFixtureDate inserts or overwrites the bet keyed by fixture id +
// date. The market list and both combined figures are replaced wholesale,
// which makes re-running the selector for the same day idempotent.
func (r *PostgresCombinationBetRepository) UpsertByFixtureDate(ctx context.Context, bet *models.CombinationBet) error {
	marketsJSON, err := json.Marshal(bet.Markets)
	if err != nil {
		return fmt.Errorf("failed to marshal markets: %w", err)
	}

	query := `
		INSERT INTO combination_bets (id, fixture_id, bet_date, markets, combined_confidence,
		                              combined_odds, featured, result, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())
		ON CONFLICT (fixture_id, bet_date) DO UPDATE SET
			markets = EXCLUDED.markets,
			combined_confidence = EXCLUDED.combined_confidence,
			combined_odds = EXCLUDED.combined_odds,
			updated_at = NOW()
	`

	_, err = r.db.GetPool().Exec(ctx, query,
		bet.ID, bet.FixtureID, bet.BetDate, marketsJSON,
		bet.CombinedConfidence, bet.CombinedOdds, bet.Featured, bet.Result,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert combination bet: %w", err)
	}

	return nil
}

// Update writes settlement fields for an existing combination bet
func (r *PostgresCombinationBetRepository) Update(ctx context.Context, bet *models.CombinationBet) error {
	query := `
		UPDATE combination_bets SET
			result = $2, updated_at = NOW()
		WHERE id = $1
	`

	commandTag, err := r.db.GetPool().Exec(ctx, query, bet.ID, bet.Result)
	if err != nil {
		return fmt.Errorf("failed to update combination bet: %w", err)
	}
	if commandTag.RowsAffected() == 0 {
		return models.ErrNotFound
	}

	return nil
}

// GetByDate retrieves the day's combination bets, strongest first
func (r *PostgresCombinationBetRepository) GetByDate(ctx context.Context, date time.Time) ([]*models.CombinationBet, error) {
	query := `SELECT ` + combinationColumns + `
		FROM combination_bets
		WHERE bet_date = $1
		ORDER BY combined_confidence DESC, created_at ASC`

	rows, err := r.db.GetPool().Query(ctx, query, date)
	if err != nil {
		return nil, fmt.Errorf("failed to query combination bets: %w", err)
	}
	defer rows.Close()

	var bets []*models.CombinationBet
	for rows.Next() {
		bet, err := scanCombinationBet(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan combination bet: %w", err)
		}
		bets = append(bets, bet)
	}

	return bets, rows.Err()
}

// SetFeatured marks the fixture's bet featured for the date and clears all
// others. Matching on (bet_date, fixture_id) instead of id keeps this correct
// across re-runs, where the upsert retains the first run's row id.
func (r *PostgresCombinationBetRepository) SetFeatured(ctx context.Context, date time.Time, fixtureID int64) error {
	tx, err := r.db.GetPool().Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx,
		`UPDATE combination_bets SET featured = FALSE, updated_at = NOW() WHERE bet_date = $1`,
		date,
	); err != nil {
		return fmt.Errorf("failed to clear featured flags: %w", err)
	}

	commandTag, err := tx.Exec(ctx,
		`UPDATE combination_bets SET featured = TRUE, updated_at = NOW() WHERE bet_date = $1 AND fixture_id = $2`,
		date, fixtureID,
	)
	if err != nil {
		return fmt.Errorf("failed to set featured flag: %w", err)
	}
	if commandTag.RowsAffected() == 0 {
		return models.ErrNotFound
	}

	return tx.Commit(ctx)
}

func scanCombinationBet(row pgx.Row) (*models.CombinationBet, error) {
	bet := &models.CombinationBet{}
	var marketsJSON []byte

	err := row.Scan(
		&bet.ID, &bet.FixtureID, &bet.BetDate, &marketsJSON, &bet.CombinedConfidence,
		&bet.CombinedOdds, &bet.Featured, &bet.Result, &bet.CreatedAt, &bet.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(marketsJSON, &bet.Markets); err != nil {
		return nil, fmt.Errorf("failed to unmarshal markets: %w", err)
	}

	return bet, nil
}
