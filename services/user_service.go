package services

import (
	"context"
	"errors"
	"strings"

	"github.com/mkearsley/madness-pool/models"
	"github.com/mkearsley/madness-pool/repositories"
)

// UserService manages the reference user records that predictions and groups
// hang off. There are no credentials; identity is declared, not proven.
type UserService interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id int) (*models.User, error)
	List(ctx context.Context) ([]models.User, error)
}

type userService struct {
	userRepo repositories.UserRepository
}

func NewUserService(userRepo repositories.UserRepository) UserService {
	return &userService{userRepo: userRepo}
}

func (s *userService) Create(ctx context.Context, user *models.User) error {
	user.Username = strings.TrimSpace(user.Username)
	err := s.userRepo.Create(ctx, user)
	if err != nil {
		if errors.Is(err, repositories.ErrUserUsernameConflict) {
			return ErrUsernameConflict
		}
		return err
	}
	return nil
}

func (s *userService) GetByID(ctx context.Context, id int) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func (s *userService) List(ctx context.Context) ([]models.User, error) {
	return s.userRepo.List(ctx)
}
