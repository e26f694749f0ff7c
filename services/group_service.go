package services

import (
	"context"
	"errors"
	"strings"

	"github.com/mkearsley/madness-pool/models"
	"github.com/mkearsley/madness-pool/repositories"
)

// GroupService manages scoring groups within a tournament. The captain is
// added as the first member on create.
type GroupService interface {
	Create(ctx context.Context, group *models.Group) error
	GetByID(ctx context.Context, id int) (*models.Group, error)
	AddMember(ctx context.Context, groupID, userID int) error
	ListByTournament(ctx context.Context, tournamentID int) ([]models.Group, error)
}

type groupService struct {
	groupRepo      repositories.GroupRepository
	tournamentRepo repositories.TournamentRepository
	userRepo       repositories.UserRepository
}

func NewGroupService(
	groupRepo repositories.GroupRepository,
	tournamentRepo repositories.TournamentRepository,
	userRepo repositories.UserRepository,
) GroupService {
	return &groupService{
		groupRepo:      groupRepo,
		tournamentRepo: tournamentRepo,
		userRepo:       userRepo,
	}
}

func (s *groupService) Create(ctx context.Context, group *models.Group) error {
	group.Name = strings.TrimSpace(group.Name)

	if _, err := s.tournamentRepo.GetByID(ctx, group.TournamentID); err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return ErrTournamentNotFound
		}
		return err
	}
	if _, err := s.userRepo.GetByID(ctx, group.CaptainID); err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	err := s.groupRepo.Create(ctx, group)
	if err != nil {
		if errors.Is(err, repositories.ErrGroupNameConflict) {
			return ErrGroupNameConflict
		}
		return err
	}
	return nil
}

func (s *groupService) GetByID(ctx context.Context, id int) (*models.Group, error) {
	group, err := s.groupRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrGroupNotFound) {
			return nil, ErrGroupNotFound
		}
		return nil, err
	}

	members, err := s.groupRepo.ListMembers(ctx, id)
	if err != nil {
		return nil, err
	}
	group.Members = members
	return group, nil
}

func (s *groupService) AddMember(ctx context.Context, groupID, userID int) error {
	if _, err := s.groupRepo.GetByID(ctx, groupID); err != nil {
		if errors.Is(err, repositories.ErrGroupNotFound) {
			return ErrGroupNotFound
		}
		return err
	}
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	err := s.groupRepo.AddMember(ctx, groupID, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrGroupMemberConflict) {
			return ErrGroupMemberConflict
		}
		return err
	}
	return nil
}

func (s *groupService) ListByTournament(ctx context.Context, tournamentID int) ([]models.Group, error) {
	return s.groupRepo.ListByTournament(ctx, tournamentID)
}
