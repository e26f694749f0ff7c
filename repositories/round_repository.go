package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mkearsley/madness-pool/models"
)

var (
	ErrRoundNotFound = errors.New("round not found")
	ErrRoundConflict = errors.New("round number already exists for this tournament")
)

type RoundRepository interface {
	Create(ctx context.Context, round *models.Round) error
	GetByID(ctx context.Context, id int) (*models.Round, error)
	GetByNumber(ctx context.Context, tournamentID, roundNumber int) (*models.Round, error)
	// GetOrCreate returns the existing round for (tournament, round_number)
	// or atomically creates it. The unique index is the race arbiter.
	GetOrCreate(ctx context.Context, tournamentID, roundNumber int) (*models.Round, error)
	ListByTournament(ctx context.Context, tournamentID int) ([]models.Round, error)
	UpdateDates(ctx context.Context, round *models.Round) error
}

type postgresRoundRepository struct {
	db *sql.DB
}

func NewPostgresRoundRepository(db *sql.DB) RoundRepository {
	return &postgresRoundRepository{db: db}
}

const roundColumns = `id, tournament_id, round_number, name, start_date, end_date`

func (r *postgresRoundRepository) Create(ctx context.Context, round *models.Round) error {
	if round.Name == "" {
		round.Name = fmt.Sprintf("Round %d", round.RoundNumber)
	}
	query := `
		INSERT INTO rounds (tournament_id, round_number, name, start_date, end_date)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`

	err := r.db.QueryRowContext(ctx, query,
		round.TournamentID, round.RoundNumber, round.Name, round.StartDate, round.EndDate,
	).Scan(&round.ID)
	if err != nil {
		if isUniqueViolation(err, "") {
			return ErrRoundConflict
		}
		return fmt.Errorf("failed to create round %d for tournament %d: %w", round.RoundNumber, round.TournamentID, err)
	}
	return nil
}

func (r *postgresRoundRepository) GetByID(ctx context.Context, id int) (*models.Round, error) {
	query := `SELECT ` + roundColumns + ` FROM rounds WHERE id = $1`
	return r.scanOne(r.db.QueryRowContext(ctx, query, id))
}

func (r *postgresRoundRepository) GetByNumber(ctx context.Context, tournamentID, roundNumber int) (*models.Round, error) {
	query := `SELECT ` + roundColumns + ` FROM rounds WHERE tournament_id = $1 AND round_number = $2`
	return r.scanOne(r.db.QueryRowContext(ctx, query, tournamentID, roundNumber))
}

func (r *postgresRoundRepository) GetOrCreate(ctx context.Context, tournamentID, roundNumber int) (*models.Round, error) {
	round := &models.Round{
		TournamentID: tournamentID,
		RoundNumber:  roundNumber,
	}
	err := r.Create(ctx, round)
	if err == nil {
		return round, nil
	}
	if errors.Is(err, ErrRoundConflict) {
		return r.GetByNumber(ctx, tournamentID, roundNumber)
	}
	return nil, err
}

func (r *postgresRoundRepository) scanOne(row *sql.Row) (*models.Round, error) {
	round := &models.Round{}
	err := row.Scan(&round.ID, &round.TournamentID, &round.RoundNumber,
		&round.Name, &round.StartDate, &round.EndDate)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRoundNotFound
		}
		return nil, err
	}
	return round, nil
}

func (r *postgresRoundRepository) ListByTournament(ctx context.Context, tournamentID int) ([]models.Round, error) {
	query := `SELECT ` + roundColumns + ` FROM rounds WHERE tournament_id = $1 ORDER BY round_number`

	rows, err := r.db.QueryContext(ctx, query, tournamentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	rounds := make([]models.Round, 0)
	for rows.Next() {
		var round models.Round
		if scanErr := rows.Scan(&round.ID, &round.TournamentID, &round.RoundNumber,
			&round.Name, &round.StartDate, &round.EndDate); scanErr != nil {
			return nil, scanErr
		}
		rounds = append(rounds, round)
	}
	return rounds, rows.Err()
}

func (r *postgresRoundRepository) UpdateDates(ctx context.Context, round *models.Round) error {
	query := `UPDATE rounds SET start_date = $1, end_date = $2 WHERE id = $3`
	result, err := r.db.ExecContext(ctx, query, round.StartDate, round.EndDate, round.ID)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrRoundNotFound)
}
