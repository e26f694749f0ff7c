package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mkearsley/madness-pool/models"
)

var (
	ErrTournamentNotFound     = errors.New("tournament not found")
	ErrTournamentYearConflict = errors.New("a tournament already exists for that year")
	ErrTournamentInUse        = errors.New("tournament still owns rounds or groups")
)

type TournamentRepository interface {
	Create(ctx context.Context, tournament *models.Tournament) error
	GetByID(ctx context.Context, id int) (*models.Tournament, error)
	GetByYear(ctx context.Context, year int) (*models.Tournament, error)
	GetByName(ctx context.Context, name string) (*models.Tournament, error)
	List(ctx context.Context) ([]models.Tournament, error)
	Delete(ctx context.Context, id int) error
}

type postgresTournamentRepository struct {
	db *sql.DB
}

func NewPostgresTournamentRepository(db *sql.DB) TournamentRepository {
	return &postgresTournamentRepository{db: db}
}

func (r *postgresTournamentRepository) Create(ctx context.Context, t *models.Tournament) error {
	query := `
		INSERT INTO tournaments (name, year)
		VALUES ($1, $2)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query, t.Name, t.Year).Scan(&t.ID, &t.CreatedAt)
	if err != nil {
		if isUniqueViolation(err, "") {
			return ErrTournamentYearConflict
		}
		return fmt.Errorf("failed to create tournament %q: %w", t.Name, err)
	}
	return nil
}

func (r *postgresTournamentRepository) GetByID(ctx context.Context, id int) (*models.Tournament, error) {
	return r.getOne(ctx, `SELECT id, name, year, created_at FROM tournaments WHERE id = $1`, id)
}

func (r *postgresTournamentRepository) GetByYear(ctx context.Context, year int) (*models.Tournament, error) {
	return r.getOne(ctx, `SELECT id, name, year, created_at FROM tournaments WHERE year = $1`, year)
}

func (r *postgresTournamentRepository) GetByName(ctx context.Context, name string) (*models.Tournament, error) {
	return r.getOne(ctx, `SELECT id, name, year, created_at FROM tournaments WHERE lower(name) = lower($1)`, name)
}

func (r *postgresTournamentRepository) getOne(ctx context.Context, query string, arg interface{}) (*models.Tournament, error) {
	t := &models.Tournament{}
	err := r.db.QueryRowContext(ctx, query, arg).Scan(&t.ID, &t.Name, &t.Year, &t.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTournamentNotFound
		}
		return nil, err
	}
	return t, nil
}

func (r *postgresTournamentRepository) List(ctx context.Context) ([]models.Tournament, error) {
	query := `SELECT id, name, year, created_at FROM tournaments ORDER BY year DESC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tournaments := make([]models.Tournament, 0)
	for rows.Next() {
		var t models.Tournament
		if scanErr := rows.Scan(&t.ID, &t.Name, &t.Year, &t.CreatedAt); scanErr != nil {
			return nil, scanErr
		}
		tournaments = append(tournaments, t)
	}
	return tournaments, rows.Err()
}

func (r *postgresTournamentRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM tournaments WHERE id = $1`, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return ErrTournamentInUse
		}
		return err
	}
	return checkAffectedRows(result, ErrTournamentNotFound)
}
