package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mkearsley/madness-pool/brackets"
	"github.com/mkearsley/madness-pool/models"
)

var (
	ErrMatchNotFound = errors.New("match not found")
	ErrMatchConflict = errors.New("match number already exists for this round")
)

type MatchRepository interface {
	Create(ctx context.Context, match *models.Match) error
	// CreateIfAbsent inserts a bare match at (round, match_number) unless one
	// already exists; existing matches are never touched.
	CreateIfAbsent(ctx context.Context, roundID, matchNumber int) error
	GetByID(ctx context.Context, id int) (*models.Match, error)
	// GetByPosition addresses the bracket tree by key arithmetic.
	GetByPosition(ctx context.Context, tournamentID, roundNumber, matchNumber int) (*models.Match, error)
	ListByRound(ctx context.Context, roundID int) ([]models.Match, error)
	ListByTournament(ctx context.Context, tournamentID int) ([]models.Match, error)
	UpdateSlot(ctx context.Context, matchID int, slot brackets.Slot, teamID int) error
	UpdateResult(ctx context.Context, match *models.Match) error
	UpdateTournamentValue(ctx context.Context, matchID, value int) error
}

type postgresMatchRepository struct {
	db *sql.DB
}

func NewPostgresMatchRepository(db *sql.DB) MatchRepository {
	return &postgresMatchRepository{db: db}
}

const matchJoinColumns = `
	m.id, m.round_id, m.match_number, m.date,
	m.team1_id, m.team2_id, m.team1_score, m.team2_score,
	m.victor_id, m.tournament_value,
	r.id, r.tournament_id, r.round_number, r.name, r.start_date, r.end_date`

func (r *postgresMatchRepository) Create(ctx context.Context, match *models.Match) error {
	query := `
		INSERT INTO matches
			(round_id, match_number, date, team1_id, team2_id,
			 team1_score, team2_score, victor_id, tournament_value)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id`

	err := r.db.QueryRowContext(ctx, query,
		match.RoundID, match.MatchNumber, match.Date,
		match.Team1ID, match.Team2ID, match.Team1Score, match.Team2Score,
		match.VictorID, match.TournamentValue,
	).Scan(&match.ID)
	if err != nil {
		if isUniqueViolation(err, "") {
			return ErrMatchConflict
		}
		return fmt.Errorf("failed to create match %d in round %d: %w", match.MatchNumber, match.RoundID, err)
	}
	return nil
}

func (r *postgresMatchRepository) CreateIfAbsent(ctx context.Context, roundID, matchNumber int) error {
	query := `
		INSERT INTO matches (round_id, match_number)
		VALUES ($1, $2)
		ON CONFLICT (round_id, match_number) DO NOTHING`

	if _, err := r.db.ExecContext(ctx, query, roundID, matchNumber); err != nil {
		return fmt.Errorf("failed to ensure match %d in round %d: %w", matchNumber, roundID, err)
	}
	return nil
}

func (r *postgresMatchRepository) GetByID(ctx context.Context, id int) (*models.Match, error) {
	query := `
		SELECT ` + matchJoinColumns + `
		FROM matches m
		JOIN rounds r ON r.id = m.round_id
		WHERE m.id = $1`
	return r.scanOne(r.db.QueryRowContext(ctx, query, id))
}

func (r *postgresMatchRepository) GetByPosition(ctx context.Context, tournamentID, roundNumber, matchNumber int) (*models.Match, error) {
	query := `
		SELECT ` + matchJoinColumns + `
		FROM matches m
		JOIN rounds r ON r.id = m.round_id
		WHERE r.tournament_id = $1 AND r.round_number = $2 AND m.match_number = $3`
	return r.scanOne(r.db.QueryRowContext(ctx, query, tournamentID, roundNumber, matchNumber))
}

func (r *postgresMatchRepository) scanOne(row *sql.Row) (*models.Match, error) {
	match := &models.Match{}
	round := &models.Round{}
	err := row.Scan(
		&match.ID, &match.RoundID, &match.MatchNumber, &match.Date,
		&match.Team1ID, &match.Team2ID, &match.Team1Score, &match.Team2Score,
		&match.VictorID, &match.TournamentValue,
		&round.ID, &round.TournamentID, &round.RoundNumber, &round.Name,
		&round.StartDate, &round.EndDate,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMatchNotFound
		}
		return nil, err
	}
	match.Round = round
	return match, nil
}

func (r *postgresMatchRepository) ListByRound(ctx context.Context, roundID int) ([]models.Match, error) {
	query := `
		SELECT ` + matchJoinColumns + `
		FROM matches m
		JOIN rounds r ON r.id = m.round_id
		WHERE m.round_id = $1
		ORDER BY m.match_number`
	return r.list(ctx, query, roundID)
}

func (r *postgresMatchRepository) ListByTournament(ctx context.Context, tournamentID int) ([]models.Match, error) {
	query := `
		SELECT ` + matchJoinColumns + `
		FROM matches m
		JOIN rounds r ON r.id = m.round_id
		WHERE r.tournament_id = $1
		ORDER BY r.round_number, m.match_number`
	return r.list(ctx, query, tournamentID)
}

func (r *postgresMatchRepository) list(ctx context.Context, query string, arg interface{}) ([]models.Match, error) {
	rows, err := r.db.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	matches := make([]models.Match, 0)
	for rows.Next() {
		var match models.Match
		var round models.Round
		if scanErr := rows.Scan(
			&match.ID, &match.RoundID, &match.MatchNumber, &match.Date,
			&match.Team1ID, &match.Team2ID, &match.Team1Score, &match.Team2Score,
			&match.VictorID, &match.TournamentValue,
			&round.ID, &round.TournamentID, &round.RoundNumber, &round.Name,
			&round.StartDate, &round.EndDate,
		); scanErr != nil {
			return nil, scanErr
		}
		match.Round = &round
		matches = append(matches, match)
	}
	return matches, rows.Err()
}

func (r *postgresMatchRepository) UpdateSlot(ctx context.Context, matchID int, slot brackets.Slot, teamID int) error {
	column := "team1_id"
	if slot == brackets.SlotTeam2 {
		column = "team2_id"
	}
	query := fmt.Sprintf(`UPDATE matches SET %s = $1 WHERE id = $2`, column)
	result, err := r.db.ExecContext(ctx, query, teamID, matchID)
	if err != nil {
		return fmt.Errorf("failed to update %s of match %d: %w", column, matchID, err)
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}

func (r *postgresMatchRepository) UpdateResult(ctx context.Context, match *models.Match) error {
	query := `
		UPDATE matches
		SET team1_score = $1, team2_score = $2, victor_id = $3
		WHERE id = $4`
	result, err := r.db.ExecContext(ctx, query,
		match.Team1Score, match.Team2Score, match.VictorID, match.ID)
	if err != nil {
		return fmt.Errorf("failed to update result of match %d: %w", match.ID, err)
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}

func (r *postgresMatchRepository) UpdateTournamentValue(ctx context.Context, matchID, value int) error {
	query := `UPDATE matches SET tournament_value = $1 WHERE id = $2`
	result, err := r.db.ExecContext(ctx, query, value, matchID)
	if err != nil {
		return fmt.Errorf("failed to update tournament value of match %d: %w", matchID, err)
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}
