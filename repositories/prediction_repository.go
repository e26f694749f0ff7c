package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mkearsley/madness-pool/models"
)

var ErrPredictionNotFound = errors.New("prediction not found")

type PredictionRepository interface {
	// Upsert creates or replaces the (user, match) prediction.
	Upsert(ctx context.Context, prediction *models.UserPrediction) error
	GetByUserAndMatch(ctx context.Context, userID, matchID int) (*models.UserPrediction, error)
	// ListByUserAndTournament returns the user's predictions for one
	// tournament with each prediction's match (and victor) attached.
	ListByUserAndTournament(ctx context.Context, userID, tournamentID int) ([]models.UserPrediction, error)
	// ListUserIDsByTournament returns the distinct users holding at least one
	// prediction in the tournament, for standings.
	ListUserIDsByTournament(ctx context.Context, tournamentID int) ([]int, error)
}

type postgresPredictionRepository struct {
	db *sql.DB
}

func NewPostgresPredictionRepository(db *sql.DB) PredictionRepository {
	return &postgresPredictionRepository{db: db}
}

func (r *postgresPredictionRepository) Upsert(ctx context.Context, p *models.UserPrediction) error {
	query := `
		INSERT INTO user_predictions (user_id, match_id, guess_id, team1_score, team2_score)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id, match_id) DO UPDATE
		SET guess_id = EXCLUDED.guess_id,
		    team1_score = EXCLUDED.team1_score,
		    team2_score = EXCLUDED.team2_score
		RETURNING id`

	err := r.db.QueryRowContext(ctx, query,
		p.UserID, p.MatchID, p.GuessID, p.Team1Score, p.Team2Score,
	).Scan(&p.ID)
	if err != nil {
		return fmt.Errorf("failed to upsert prediction (user %d, match %d): %w", p.UserID, p.MatchID, err)
	}
	return nil
}

func (r *postgresPredictionRepository) GetByUserAndMatch(ctx context.Context, userID, matchID int) (*models.UserPrediction, error) {
	query := `
		SELECT id, user_id, match_id, guess_id, team1_score, team2_score
		FROM user_predictions
		WHERE user_id = $1 AND match_id = $2`

	p := &models.UserPrediction{}
	err := r.db.QueryRowContext(ctx, query, userID, matchID).
		Scan(&p.ID, &p.UserID, &p.MatchID, &p.GuessID, &p.Team1Score, &p.Team2Score)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPredictionNotFound
		}
		return nil, err
	}
	return p, nil
}

func (r *postgresPredictionRepository) ListByUserAndTournament(ctx context.Context, userID, tournamentID int) ([]models.UserPrediction, error) {
	query := `
		SELECT p.id, p.user_id, p.match_id, p.guess_id, p.team1_score, p.team2_score,
		       m.id, m.round_id, m.match_number, m.date,
		       m.team1_id, m.team2_id, m.team1_score, m.team2_score,
		       m.victor_id, m.tournament_value
		FROM user_predictions p
		JOIN matches m ON m.id = p.match_id
		JOIN rounds r ON r.id = m.round_id
		WHERE p.user_id = $1 AND r.tournament_id = $2
		ORDER BY r.round_number, m.match_number`

	rows, err := r.db.QueryContext(ctx, query, userID, tournamentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	predictions := make([]models.UserPrediction, 0)
	for rows.Next() {
		var p models.UserPrediction
		var m models.Match
		if scanErr := rows.Scan(
			&p.ID, &p.UserID, &p.MatchID, &p.GuessID, &p.Team1Score, &p.Team2Score,
			&m.ID, &m.RoundID, &m.MatchNumber, &m.Date,
			&m.Team1ID, &m.Team2ID, &m.Team1Score, &m.Team2Score,
			&m.VictorID, &m.TournamentValue,
		); scanErr != nil {
			return nil, scanErr
		}
		p.Match = &m
		predictions = append(predictions, p)
	}
	return predictions, rows.Err()
}

func (r *postgresPredictionRepository) ListUserIDsByTournament(ctx context.Context, tournamentID int) ([]int, error) {
	query := `
		SELECT DISTINCT p.user_id
		FROM user_predictions p
		JOIN matches m ON m.id = p.match_id
		JOIN rounds r ON r.id = m.round_id
		WHERE r.tournament_id = $1
		ORDER BY p.user_id`

	rows, err := r.db.QueryContext(ctx, query, tournamentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := make([]int, 0)
	for rows.Next() {
		var id int
		if scanErr := rows.Scan(&id); scanErr != nil {
			return nil, scanErr
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
