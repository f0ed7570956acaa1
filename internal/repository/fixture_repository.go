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

// PostgresFixtureRepository implements FixtureRepository for PostgreSQL
type PostgresFixtureRepository struct {
	db *database.DB
}

// NewPostgresFixtureRepository creates a new fixture repository
func NewPostgresFixtureRepository(db *database.DB) FixtureRepository {
	return &PostgresFixtureRepository{db: db}
}

// fixtureRow is the flat database shape; team stats and per-side match
// statistics are stored as JSONB.
type fixtureRow struct {
	homeJSON      []byte
	awayJSON      []byte
	homeStatsJSON []byte
	awayStatsJSON []byte
	h2hJSON       []byte
}

const fixtureColumns = `id, league_id, league_name, league_tier, kickoff, status,
	       home_score, away_score, home_team, away_team, home_stats, away_stats, h2h,
	       created_at, updated_at`

// Upsert inserts a new fixture or refreshes the mutable match-state fields
// of an existing one. Keyed by the provider's numeric fixture id, so the
// operation is safe to repeat.
func (r *PostgresFixtureRepository) Upsert(ctx context.Context, fixture *models.Fixture) error {
	homeJSON, err := json.Marshal(fixture.Home)
	if err != nil {
		return fmt.Errorf("failed to marshal home team: %w", err)
	}
	awayJSON, err := json.Marshal(fixture.Away)
	if err != nil {
		return fmt.Errorf("failed to marshal away team: %w", err)
	}
	homeStatsJSON, err := json.Marshal(fixture.HomeStats)
	if err != nil {
		return fmt.Errorf("failed to marshal home stats: %w", err)
	}
	awayStatsJSON, err := json.Marshal(fixture.AwayStats)
	if err != nil {
		return fmt.Errorf("failed to marshal away stats: %w", err)
	}
	var h2hJSON []byte
	if fixture.H2H != nil {
		h2hJSON, err = json.Marshal(fixture.H2H)
		if err != nil {
			return fmt.Errorf("failed to marshal h2h: %w", err)
		}
	}

	query := `
		INSERT INTO fixtures (id, league_id, league_name, league_tier, kickoff, status,
		                      home_score, away_score, home_team, away_team, home_stats, away_stats, h2h,
		                      created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, NOW(), NOW())
		ON CONFLICT (id) DO UPDATE SET
			status = EXCLUDED.status,
			home_score = EXCLUDED.home_score,
			away_score = EXCLUDED.away_score,
			home_team = EXCLUDED.home_team,
			away_team = EXCLUDED.away_team,
			home_stats = EXCLUDED.home_stats,
			away_stats = EXCLUDED.away_stats,
			h2h = EXCLUDED.h2h,
			updated_at = NOW()
	`

	_, err = r.db.GetPool().Exec(ctx, query,
		fixture.ID, fixture.League.ID, fixture.League.Name, fixture.League.Tier,
		fixture.Kickoff, fixture.Status, fixture.HomeScore, fixture.AwayScore,
		homeJSON, awayJSON, homeStatsJSON, awayStatsJSON, h2hJSON,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert fixture: %w", err)
	}

	return nil
}

// GetByID retrieves a fixture by its provider id
func (r *PostgresFixtureRepository) GetByID(ctx context.Context, id int64) (*models.Fixture, error) {
	query := `SELECT ` + fixtureColumns + ` FROM fixtures WHERE id = $1`

	fixture, err := scanFixture(r.db.GetPool().QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get fixture: %w", err)
	}

	return fixture, nil
}

// GetByDateRange retrieves fixtures kicking off within the range
func (r *PostgresFixtureRepository) GetByDateRange(ctx context.Context, start, end time.Time) ([]*models.Fixture, error) {
	query := `SELECT ` + fixtureColumns + `
		FROM fixtures
		WHERE kickoff >= $1 AND kickoff < $2
		ORDER BY kickoff ASC`

	rows, err := r.db.GetPool().Query(ctx, query, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to query fixtures by date range: %w", err)
	}
	defer rows.Close()

	var fixtures []*models.Fixture
	for rows.Next() {
		fixture, err := scanFixture(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan fixture: %w", err)
		}
		fixtures = append(fixtures, fixture)
	}

	return fixtures, rows.Err()
}

// CountByStatus counts fixtures in the given status
func (r *PostgresFixtureRepository) CountByStatus(ctx context.Context, status models.FixtureStatus) (int64, error) {
	var count int64
	err := r.db.GetPool().QueryRow(ctx,
		`SELECT COUNT(*) FROM fixtures WHERE status = $1`, status,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count fixtures: %w", err)
	}
	return count, nil
}

func scanFixture(row pgx.Row) (*models.Fixture, error) {
	fixture := &models.Fixture{}
	var raw fixtureRow

	err := row.Scan(
		&fixture.ID, &fixture.League.ID, &fixture.League.Name, &fixture.League.Tier,
		&fixture.Kickoff, &fixture.Status, &fixture.HomeScore, &fixture.AwayScore,
		&raw.homeJSON, &raw.awayJSON, &raw.homeStatsJSON, &raw.awayStatsJSON, &raw.h2hJSON,
		&fixture.CreatedAt, &fixture.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(raw.homeJSON, &fixture.Home); err != nil {
		return nil, fmt.Errorf("failed to unmarshal home team: %w", err)
	}
	if err := json.Unmarshal(raw.awayJSON, &fixture.Away); err != nil {
		return nil, fmt.Errorf("failed to unmarshal away team: %w", err)
	}
	if err := json.Unmarshal(raw.homeStatsJSON, &fixture.HomeStats); err != nil {
		return nil, fmt.Errorf("failed to unmarshal home stats: %w", err)
	}
	if err := json.Unmarshal(raw.awayStatsJSON, &fixture.AwayStats); err != nil {
		return nil, fmt.Errorf("failed to unmarshal away stats: %w", err)
	}
	if len(raw.h2hJSON) > 0 {
		fixture.H2H = &models.HeadToHead{}
		if err := json.Unmarshal(raw.h2hJSON, fixture.H2H); err != nil {
			return nil, fmt.Errorf("failed to unmarshal h2h: %w", err)
		}
	}

	return fixture, nil
}
