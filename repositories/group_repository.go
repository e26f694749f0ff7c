package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mkearsley/madness-pool/models"
)

var (
	ErrGroupNotFound       = errors.New("group not found")
	ErrGroupNameConflict   = errors.New("group name already exists for this tournament")
	ErrGroupMemberConflict = errors.New("user is already a member of this group")
)

type GroupRepository interface {
	Create(ctx context.Context, group *models.Group) error
	GetByID(ctx context.Context, id int) (*models.Group, error)
	ListByTournament(ctx context.Context, tournamentID int) ([]models.Group, error)
	AddMember(ctx context.Context, groupID, userID int) error
	ListMembers(ctx context.Context, groupID int) ([]models.User, error)
}

type postgresGroupRepository struct {
	db *sql.DB
}

func NewPostgresGroupRepository(db *sql.DB) GroupRepository {
	return &postgresGroupRepository{db: db}
}

func (r *postgresGroupRepository) Create(ctx context.Context, group *models.Group) error {
	query := `
		INSERT INTO groups (tournament_id, name, captain_id)
		VALUES ($1, $2, $3)
		RETURNING id`

	err := r.db.QueryRowContext(ctx, query, group.TournamentID, group.Name, group.CaptainID).
		Scan(&group.ID)
	if err != nil {
		if isUniqueViolation(err, "") {
			return ErrGroupNameConflict
		}
		return fmt.Errorf("failed to create group %q: %w", group.Name, err)
	}
	// The captain is always a member.
	if err := r.AddMember(ctx, group.ID, group.CaptainID); err != nil &&
		!errors.Is(err, ErrGroupMemberConflict) {
		return err
	}
	return nil
}

func (r *postgresGroupRepository) GetByID(ctx context.Context, id int) (*models.Group, error) {
	query := `SELECT id, tournament_id, name, captain_id FROM groups WHERE id = $1`

	group := &models.Group{}
	err := r.db.QueryRowContext(ctx, query, id).
		Scan(&group.ID, &group.TournamentID, &group.Name, &group.CaptainID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrGroupNotFound
		}
		return nil, err
	}
	return group, nil
}

func (r *postgresGroupRepository) ListByTournament(ctx context.Context, tournamentID int) ([]models.Group, error) {
	query := `SELECT id, tournament_id, name, captain_id FROM groups WHERE tournament_id = $1 ORDER BY name`

	rows, err := r.db.QueryContext(ctx, query, tournamentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	groups := make([]models.Group, 0)
	for rows.Next() {
		var g models.Group
		if scanErr := rows.Scan(&g.ID, &g.TournamentID, &g.Name, &g.CaptainID); scanErr != nil {
			return nil, scanErr
		}
		groups = append(groups, g)
	}
	return groups, rows.Err()
}

func (r *postgresGroupRepository) AddMember(ctx context.Context, groupID, userID int) error {
	query := `INSERT INTO group_members (group_id, user_id) VALUES ($1, $2)`

	if _, err := r.db.ExecContext(ctx, query, groupID, userID); err != nil {
		if isUniqueViolation(err, "") {
			return ErrGroupMemberConflict
		}
		return fmt.Errorf("failed to add user %d to group %d: %w", userID, groupID, err)
	}
	return nil
}

func (r *postgresGroupRepository) ListMembers(ctx context.Context, groupID int) ([]models.User, error) {
	query := `
		SELECT u.id, u.username, u.created_at
		FROM group_members gm
		JOIN users u ON u.id = gm.user_id
		WHERE gm.group_id = $1
		ORDER BY u.username`

	rows, err := r.db.QueryContext(ctx, query, groupID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := make([]models.User, 0)
	for rows.Next() {
		var u models.User
		if scanErr := rows.Scan(&u.ID, &u.Username, &u.CreatedAt); scanErr != nil {
			return nil, scanErr
		}
		users = append(users, u)
	}
	return users, rows.Err()
}
