package repository

import (
	"fmt"

	"github.com/yourusername/betbuilder/internal/database"
)

// Repositories holds all repository implementations
type Repositories struct {
	Fixture     FixtureRepository
	Bet         BetRepository
	Combination CombinationBetRepository
}

// NewRepositories creates and returns all repository implementations
func NewRepositories(db *database.DB) (*Repositories, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is required")
	}

	return &Repositories{
		Fixture:     NewPostgresFixtureRepository(db),
		Bet:         NewPostgresBetRepository(db),
		Combination: NewPostgresCombinationBetRepository(db),
	}, nil
}
