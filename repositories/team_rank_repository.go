package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mkearsley/madness-pool/models"
)

var (
	ErrTeamRankNotFound = errors.New("team rank not found")
	// ErrTeamRankConflict covers both unique keys: one seed per (year, team)
	// and one team per (year, seed).
	ErrTeamRankConflict = errors.New("team rank conflicts with an existing seed for that year")
)

type TeamRankRepository interface {
	Create(ctx context.Context, rank *models.TeamRank) error
	GetByYearAndTeam(ctx context.Context, year, teamID int) (*models.TeamRank, error)
	ListByYear(ctx context.Context, year int) ([]models.TeamRank, error)
}

type postgresTeamRankRepository struct {
	db *sql.DB
}

func NewPostgresTeamRankRepository(db *sql.DB) TeamRankRepository {
	return &postgresTeamRankRepository{db: db}
}

func (r *postgresTeamRankRepository) Create(ctx context.Context, rank *models.TeamRank) error {
	query := `
		INSERT INTO team_ranks (year, team_id, seed)
		VALUES ($1, $2, $3)
		RETURNING id`

	err := r.db.QueryRowContext(ctx, query, rank.Year, rank.TeamID, rank.Seed).Scan(&rank.ID)
	if err != nil {
		if isUniqueViolation(err, "") {
			return ErrTeamRankConflict
		}
		return fmt.Errorf("failed to create team rank (year %d, team %d): %w", rank.Year, rank.TeamID, err)
	}
	return nil
}

func (r *postgresTeamRankRepository) GetByYearAndTeam(ctx context.Context, year, teamID int) (*models.TeamRank, error) {
	query := `SELECT id, year, team_id, seed FROM team_ranks WHERE year = $1 AND team_id = $2`

	rank := &models.TeamRank{}
	err := r.db.QueryRowContext(ctx, query, year, teamID).
		Scan(&rank.ID, &rank.Year, &rank.TeamID, &rank.Seed)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTeamRankNotFound
		}
		return nil, err
	}
	return rank, nil
}

func (r *postgresTeamRankRepository) ListByYear(ctx context.Context, year int) ([]models.TeamRank, error) {
	query := `
		SELECT r.id, r.year, r.team_id, r.seed, t.id, t.name, t.icon_key, t.created_at
		FROM team_ranks r
		JOIN teams t ON t.id = r.team_id
		WHERE r.year = $1
		ORDER BY r.seed`

	rows, err := r.db.QueryContext(ctx, query, year)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ranks := make([]models.TeamRank, 0)
	for rows.Next() {
		var rank models.TeamRank
		var team models.Team
		if scanErr := rows.Scan(
			&rank.ID, &rank.Year, &rank.TeamID, &rank.Seed,
			&team.ID, &team.Name, &team.IconKey, &team.CreatedAt,
		); scanErr != nil {
			return nil, scanErr
		}
		rank.Team = &team
		ranks = append(ranks, rank)
	}
	return ranks, rows.Err()
}
