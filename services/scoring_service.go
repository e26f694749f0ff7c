package services

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/mkearsley/madness-pool/models"
	"github.com/mkearsley/madness-pool/repositories"
)

// ScoringService computes user standings and assigns per-match point values.
// The two computations are independent: a user's score is an unweighted count
// of correct guesses; a match's tournament value is round weight times
// seed-upset weight.
type ScoringService interface {
	UserScore(ctx context.Context, userID, tournamentID int) (int, error)
	GroupScore(ctx context.Context, groupID int) (int, error)
	AssignMatchValue(ctx context.Context, matchID int, roundWeights map[int]int, seedWeights map[string]int) error
	AssignTournamentValues(ctx context.Context, tournamentID int, roundWeights map[int]int, seedWeights map[string]int) error
	Standings(ctx context.Context, tournamentID int) (*models.Standings, error)
}

type scoringService struct {
	tournamentRepo repositories.TournamentRepository
	matchRepo      repositories.MatchRepository
	rankRepo       repositories.TeamRankRepository
	predictionRepo repositories.PredictionRepository
	userRepo       repositories.UserRepository
	groupRepo      repositories.GroupRepository
}

func NewScoringService(
	tournamentRepo repositories.TournamentRepository,
	matchRepo repositories.MatchRepository,
	rankRepo repositories.TeamRankRepository,
	predictionRepo repositories.PredictionRepository,
	userRepo repositories.UserRepository,
	groupRepo repositories.GroupRepository,
) ScoringService {
	return &scoringService{
		tournamentRepo: tournamentRepo,
		matchRepo:      matchRepo,
		rankRepo:       rankRepo,
		predictionRepo: predictionRepo,
		userRepo:       userRepo,
		groupRepo:      groupRepo,
	}
}

// UserScore counts the user's correct guesses across the tournament's
// finalized matches. No qualifying predictions is a score of zero, not an
// error.
func (s *scoringService) UserScore(ctx context.Context, userID, tournamentID int) (int, error) {
	predictions, err := s.predictionRepo.ListByUserAndTournament(ctx, userID, tournamentID)
	if err != nil {
		return 0, err
	}

	score := 0
	for _, prediction := range predictions {
		if right, decided := prediction.GuessedRight(); decided && right {
			score++
		}
	}
	return score, nil
}

func (s *scoringService) GroupScore(ctx context.Context, groupID int) (int, error) {
	group, err := s.groupRepo.GetByID(ctx, groupID)
	if err != nil {
		if errors.Is(err, repositories.ErrGroupNotFound) {
			return 0, ErrGroupNotFound
		}
		return 0, err
	}

	members, err := s.groupRepo.ListMembers(ctx, groupID)
	if err != nil {
		return 0, err
	}

	total := 0
	for _, member := range members {
		score, err := s.UserScore(ctx, member.ID, group.TournamentID)
		if err != nil {
			return 0, err
		}
		total += score
	}
	return total, nil
}

// AssignMatchValue sets the match's point value to
// roundWeights[round] * seedWeights["<winnerSeed> v <loserSeed>"], each
// defaulting to 1 when absent. Skipped without error while the match is
// undecided or either team has no seed on file for the tournament's year.
func (s *scoringService) AssignMatchValue(ctx context.Context, matchID int, roundWeights map[int]int, seedWeights map[string]int) error {
	match, err := s.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		if errors.Is(err, repositories.ErrMatchNotFound) {
			return ErrMatchNotFound
		}
		return err
	}
	if match.VictorID == nil {
		return nil
	}
	loserID := match.LoserID()
	if loserID == nil {
		return nil
	}

	tournament, err := s.tournamentRepo.GetByID(ctx, match.Round.TournamentID)
	if err != nil {
		return err
	}

	winnerSeed, ok, err := s.seedFor(ctx, tournament.Year, *match.VictorID)
	if err != nil || !ok {
		return err
	}
	loserSeed, ok, err := s.seedFor(ctx, tournament.Year, *loserID)
	if err != nil || !ok {
		return err
	}

	seedKey := fmt.Sprintf("%d v %d", winnerSeed, loserSeed)
	seedWeight, ok := seedWeights[seedKey]
	if !ok {
		seedWeight = 1
	}
	roundWeight, ok := roundWeights[match.Round.RoundNumber]
	if !ok {
		roundWeight = 1
	}

	return s.matchRepo.UpdateTournamentValue(ctx, matchID, roundWeight*seedWeight)
}

// seedFor treats a missing ranking as "not yet assigned", never an error.
func (s *scoringService) seedFor(ctx context.Context, year, teamID int) (int, bool, error) {
	rank, err := s.rankRepo.GetByYearAndTeam(ctx, year, teamID)
	if err != nil {
		if errors.Is(err, repositories.ErrTeamRankNotFound) {
			return 0, false, nil
		}
		return 0, false, err
	}
	return rank.Seed, true, nil
}

func (s *scoringService) AssignTournamentValues(ctx context.Context, tournamentID int, roundWeights map[int]int, seedWeights map[string]int) error {
	if _, err := s.tournamentRepo.GetByID(ctx, tournamentID); err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return ErrTournamentNotFound
		}
		return err
	}

	matches, err := s.matchRepo.ListByTournament(ctx, tournamentID)
	if err != nil {
		return err
	}
	for _, match := range matches {
		if err := s.AssignMatchValue(ctx, match.ID, roundWeights, seedWeights); err != nil {
			return fmt.Errorf("failed to assign value to match %d: %w", match.ID, err)
		}
	}
	return nil
}

func (s *scoringService) Standings(ctx context.Context, tournamentID int) (*models.Standings, error) {
	tournament, err := s.tournamentRepo.GetByID(ctx, tournamentID)
	if err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, err
	}

	userIDs, err := s.predictionRepo.ListUserIDsByTournament(ctx, tournamentID)
	if err != nil {
		return nil, err
	}

	standings := &models.Standings{Tournament: *tournament}
	for _, userID := range userIDs {
		user, err := s.userRepo.GetByID(ctx, userID)
		if err != nil {
			return nil, err
		}
		score, err := s.UserScore(ctx, userID, tournamentID)
		if err != nil {
			return nil, err
		}
		standings.Users = append(standings.Users, models.UserStanding{User: *user, Score: score})
	}
	sort.SliceStable(standings.Users, func(i, j int) bool {
		return standings.Users[i].Score > standings.Users[j].Score
	})

	groups, err := s.groupRepo.ListByTournament(ctx, tournamentID)
	if err != nil {
		return nil, err
	}
	for _, group := range groups {
		score, err := s.GroupScore(ctx, group.ID)
		if err != nil {
			return nil, err
		}
		standings.Groups = append(standings.Groups, models.GroupStanding{Group: group, Score: score})
	}
	sort.SliceStable(standings.Groups, func(i, j int) bool {
		return standings.Groups[i].Score > standings.Groups[j].Score
	})

	return standings, nil
}
