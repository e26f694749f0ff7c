package services

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/mkearsley/madness-pool/models"
	"github.com/mkearsley/madness-pool/repositories"
)

// TournamentService owns tournament CRUD and the aggregate bracket view.
type TournamentService interface {
	Create(ctx context.Context, tournament *models.Tournament) error
	GetByID(ctx context.Context, id int) (*models.Tournament, error)
	List(ctx context.Context) ([]models.Tournament, error)
	// Resolve finds a tournament by "name year" display key, bare year, or
	// bare name, in that order. Used by the CLI.
	Resolve(ctx context.Context, key string) (*models.Tournament, error)
	GetBracket(ctx context.Context, tournamentID int) (*models.Bracket, error)
}

type tournamentService struct {
	tournamentRepo repositories.TournamentRepository
	roundRepo      repositories.RoundRepository
	matchRepo      repositories.MatchRepository
	teamRepo       repositories.TeamRepository
}

func NewTournamentService(
	tournamentRepo repositories.TournamentRepository,
	roundRepo repositories.RoundRepository,
	matchRepo repositories.MatchRepository,
	teamRepo repositories.TeamRepository,
) TournamentService {
	return &tournamentService{
		tournamentRepo: tournamentRepo,
		roundRepo:      roundRepo,
		matchRepo:      matchRepo,
		teamRepo:       teamRepo,
	}
}

func (s *tournamentService) Create(ctx context.Context, tournament *models.Tournament) error {
	if err := models.ValidateYear(tournament.Year); err != nil {
		return err
	}
	tournament.Name = strings.TrimSpace(tournament.Name)

	err := s.tournamentRepo.Create(ctx, tournament)
	if err != nil {
		if errors.Is(err, repositories.ErrTournamentYearConflict) {
			return ErrTournamentYearConflict
		}
		return err
	}
	return nil
}

func (s *tournamentService) GetByID(ctx context.Context, id int) (*models.Tournament, error) {
	tournament, err := s.tournamentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, err
	}
	return tournament, nil
}

func (s *tournamentService) List(ctx context.Context) ([]models.Tournament, error) {
	return s.tournamentRepo.List(ctx)
}

func (s *tournamentService) Resolve(ctx context.Context, key string) (*models.Tournament, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return nil, ErrTournamentNotFound
	}

	// "Midwest Regional 2024" style display key.
	if cut := strings.LastIndex(key, " "); cut > 0 {
		if year, err := strconv.Atoi(key[cut+1:]); err == nil {
			tournament, err := s.tournamentRepo.GetByYear(ctx, year)
			if err == nil && strings.EqualFold(tournament.Name, strings.TrimSpace(key[:cut])) {
				return tournament, nil
			}
			if err != nil && !errors.Is(err, repositories.ErrTournamentNotFound) {
				return nil, err
			}
		}
	}

	if year, err := strconv.Atoi(key); err == nil {
		tournament, err := s.tournamentRepo.GetByYear(ctx, year)
		if err == nil {
			return tournament, nil
		}
		if !errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, err
		}
	}

	tournament, err := s.tournamentRepo.GetByName(ctx, key)
	if err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, err
	}
	return tournament, nil
}

// GetBracket assembles the full tournament view. Rounds, matches and teams are
// independent reads, so they are fetched in parallel.
func (s *tournamentService) GetBracket(ctx context.Context, tournamentID int) (*models.Bracket, error) {
	tournament, err := s.GetByID(ctx, tournamentID)
	if err != nil {
		return nil, err
	}

	var (
		rounds  []models.Round
		matches []models.Match
		teams   []models.Team
	)

	g, groupCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		rounds, err = s.roundRepo.ListByTournament(groupCtx, tournamentID)
		return err
	})
	g.Go(func() error {
		var err error
		matches, err = s.matchRepo.ListByTournament(groupCtx, tournamentID)
		return err
	})
	g.Go(func() error {
		var err error
		teams, err = s.teamRepo.List(groupCtx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	matchesByRound := make(map[int][]models.Match, len(rounds))
	for _, match := range matches {
		matchesByRound[match.RoundID] = append(matchesByRound[match.RoundID], match)
	}

	bracket := &models.Bracket{Tournament: *tournament, Teams: teams}
	for _, round := range rounds {
		bracket.Rounds = append(bracket.Rounds, models.BracketRound{
			Round:   round,
			Matches: matchesByRound[round.ID],
		})
	}
	return bracket, nil
}
