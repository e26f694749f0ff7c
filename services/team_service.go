package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/mkearsley/madness-pool/models"
	"github.com/mkearsley/madness-pool/repositories"
	"github.com/mkearsley/madness-pool/storage"
)

// TeamService owns the team pool, seasonal seed rankings and icon storage.
type TeamService interface {
	Create(ctx context.Context, team *models.Team) error
	GetByID(ctx context.Context, id int) (*models.Team, error)
	List(ctx context.Context) ([]models.Team, error)
	UploadIcon(ctx context.Context, teamID int, filename, contentType string, file io.Reader) (*models.Team, error)
	AssignRank(ctx context.Context, rank *models.TeamRank) error
	ListRanks(ctx context.Context, year int) ([]models.TeamRank, error)
}

type teamService struct {
	teamRepo repositories.TeamRepository
	rankRepo repositories.TeamRankRepository
	uploader storage.FileUploader
}

// NewTeamService accepts a nil uploader; icon uploads then fail with
// ErrIconStorageUnavailable while everything else keeps working.
func NewTeamService(teamRepo repositories.TeamRepository, rankRepo repositories.TeamRankRepository, uploader storage.FileUploader) TeamService {
	return &teamService{teamRepo: teamRepo, rankRepo: rankRepo, uploader: uploader}
}

func (s *teamService) Create(ctx context.Context, team *models.Team) error {
	team.Name = strings.TrimSpace(team.Name)
	err := s.teamRepo.Create(ctx, team)
	if err != nil {
		if errors.Is(err, repositories.ErrTeamNameConflict) {
			return ErrTeamNameConflict
		}
		return err
	}
	return nil
}

func (s *teamService) GetByID(ctx context.Context, id int) (*models.Team, error) {
	team, err := s.teamRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, err
	}
	s.attachIconURL(team)
	return team, nil
}

func (s *teamService) List(ctx context.Context) ([]models.Team, error) {
	teams, err := s.teamRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range teams {
		s.attachIconURL(&teams[i])
	}
	return teams, nil
}

func (s *teamService) UploadIcon(ctx context.Context, teamID int, filename, contentType string, file io.Reader) (*models.Team, error) {
	if s.uploader == nil {
		return nil, ErrIconStorageUnavailable
	}

	team, err := s.GetByID(ctx, teamID)
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("icons/teams/%d/%d%s", teamID, time.Now().UnixNano(), filepath.Ext(filename))
	result, err := s.uploader.Upload(ctx, key, contentType, file)
	if err != nil {
		return nil, fmt.Errorf("failed to upload team icon: %w", err)
	}

	oldKey := team.IconKey
	if err := s.teamRepo.UpdateIconKey(ctx, teamID, &result.Key); err != nil {
		return nil, err
	}
	if oldKey != nil && *oldKey != result.Key {
		// Stale icon cleanup is advisory only.
		_ = s.uploader.Delete(ctx, *oldKey)
	}

	team.IconKey = &result.Key
	s.attachIconURL(team)
	return team, nil
}

func (s *teamService) AssignRank(ctx context.Context, rank *models.TeamRank) error {
	if err := models.ValidateYear(rank.Year); err != nil {
		return err
	}
	if err := models.ValidatePositionNumber(rank.Seed); err != nil {
		return err
	}
	if _, err := s.GetByID(ctx, rank.TeamID); err != nil {
		return err
	}

	err := s.rankRepo.Create(ctx, rank)
	if err != nil {
		if errors.Is(err, repositories.ErrTeamRankConflict) {
			return ErrTeamRankConflict
		}
		return err
	}
	return nil
}

func (s *teamService) ListRanks(ctx context.Context, year int) ([]models.TeamRank, error) {
	return s.rankRepo.ListByYear(ctx, year)
}

func (s *teamService) attachIconURL(team *models.Team) {
	if s.uploader == nil || team.IconKey == nil {
		return
	}
	url := s.uploader.GetPublicURL(*team.IconKey)
	team.IconURL = &url
}
