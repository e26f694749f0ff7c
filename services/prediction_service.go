package services

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/mkearsley/madness-pool/brackets"
	"github.com/mkearsley/madness-pool/models"
	"github.com/mkearsley/madness-pool/repositories"
)

type SubmitPredictionInput struct {
	UserID  int
	MatchID int
	// GuessID wins when set; otherwise Guess is resolved by name against the
	// match's team choices, exact fold first and fuzzy match second.
	GuessID    int
	Guess      string
	Team1Score *int
	Team2Score *int
}

// PredictionService computes the team choices a prediction form should offer
// and records user guesses while the owning round has not started.
type PredictionService interface {
	TeamChoices(ctx context.Context, matchID, userID int) ([]models.Team, error)
	SubmitPrediction(ctx context.Context, input SubmitPredictionInput) (*models.UserPrediction, error)
	GetPrediction(ctx context.Context, userID, matchID int) (*models.UserPrediction, error)
}

type predictionService struct {
	matchRepo      repositories.MatchRepository
	teamRepo       repositories.TeamRepository
	userRepo       repositories.UserRepository
	predictionRepo repositories.PredictionRepository
	now            func() time.Time
}

func NewPredictionService(
	matchRepo repositories.MatchRepository,
	teamRepo repositories.TeamRepository,
	userRepo repositories.UserRepository,
	predictionRepo repositories.PredictionRepository,
) PredictionService {
	return &predictionService{
		matchRepo:      matchRepo,
		teamRepo:       teamRepo,
		userRepo:       userRepo,
		predictionRepo: predictionRepo,
		now:            time.Now,
	}
}

// TeamChoices resolves which teams could occupy each slot of an undecided
// match. Per side: a confirmed team is final; otherwise the user's own guess
// on the parent match carries forward; otherwise a missing parent falls back
// to the full team pool and an existing one is recursed into. The two sides
// are concatenated without deduplication.
func (s *predictionService) TeamChoices(ctx context.Context, matchID, userID int) ([]models.Team, error) {
	match, err := s.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		if errors.Is(err, repositories.ErrMatchNotFound) {
			return nil, ErrMatchNotFound
		}
		return nil, err
	}
	return s.choicesFor(ctx, match, userID)
}

func (s *predictionService) choicesFor(ctx context.Context, match *models.Match, userID int) ([]models.Team, error) {
	if match.HasBothTeams() {
		team1, err := s.teamByID(ctx, *match.Team1ID)
		if err != nil {
			return nil, err
		}
		team2, err := s.teamByID(ctx, *match.Team2ID)
		if err != nil {
			return nil, err
		}
		return []models.Team{*team1, *team2}, nil
	}

	parent1Number, parent2Number := brackets.ParentNumbers(match.MatchNumber)
	parent1, err := s.parentMatch(ctx, match, parent1Number)
	if err != nil {
		return nil, err
	}
	parent2, err := s.parentMatch(ctx, match, parent2Number)
	if err != nil {
		return nil, err
	}

	side1, err := s.sideChoices(ctx, match.Team1ID, parent1, userID)
	if err != nil {
		return nil, err
	}
	side2, err := s.sideChoices(ctx, match.Team2ID, parent2, userID)
	if err != nil {
		return nil, err
	}
	return append(side1, side2...), nil
}

// parentMatch returns nil without error when the parent has not been built,
// which is a steady state during an in-progress tournament.
func (s *predictionService) parentMatch(ctx context.Context, match *models.Match, parentNumber int) (*models.Match, error) {
	parent, err := s.matchRepo.GetByPosition(ctx,
		match.Round.TournamentID, match.Round.RoundNumber-1, parentNumber)
	if err != nil {
		if errors.Is(err, repositories.ErrMatchNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return parent, nil
}

func (s *predictionService) sideChoices(ctx context.Context, confirmed *int, parent *models.Match, userID int) ([]models.Team, error) {
	if confirmed != nil {
		team, err := s.teamByID(ctx, *confirmed)
		if err != nil {
			return nil, err
		}
		return []models.Team{*team}, nil
	}

	if parent == nil {
		// Root of the known tree: offer the whole pool.
		return s.teamRepo.List(ctx)
	}

	prediction, err := s.predictionRepo.GetByUserAndMatch(ctx, userID, parent.ID)
	if err == nil {
		guess, teamErr := s.teamByID(ctx, prediction.GuessID)
		if teamErr != nil {
			return nil, teamErr
		}
		return []models.Team{*guess}, nil
	}
	if !errors.Is(err, repositories.ErrPredictionNotFound) {
		return nil, err
	}

	return s.choicesFor(ctx, parent, userID)
}

func (s *predictionService) teamByID(ctx context.Context, id int) (*models.Team, error) {
	team, err := s.teamRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, err
	}
	return team, nil
}

func (s *predictionService) SubmitPrediction(ctx context.Context, input SubmitPredictionInput) (*models.UserPrediction, error) {
	if _, err := s.userRepo.GetByID(ctx, input.UserID); err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	match, err := s.matchRepo.GetByID(ctx, input.MatchID)
	if err != nil {
		if errors.Is(err, repositories.ErrMatchNotFound) {
			return nil, ErrMatchNotFound
		}
		return nil, err
	}
	if match.Round.Started(s.now()) {
		return nil, ErrRoundStarted
	}

	choices, err := s.choicesFor(ctx, match, input.UserID)
	if err != nil {
		return nil, err
	}

	guess, err := resolveGuess(input, choices)
	if err != nil {
		return nil, err
	}

	prediction := &models.UserPrediction{
		UserID:     input.UserID,
		MatchID:    input.MatchID,
		GuessID:    guess.ID,
		Team1Score: input.Team1Score,
		Team2Score: input.Team2Score,
	}
	if err := s.predictionRepo.Upsert(ctx, prediction); err != nil {
		return nil, err
	}
	guessCopy := *guess
	prediction.Guess = &guessCopy
	return prediction, nil
}

func (s *predictionService) GetPrediction(ctx context.Context, userID, matchID int) (*models.UserPrediction, error) {
	prediction, err := s.predictionRepo.GetByUserAndMatch(ctx, userID, matchID)
	if err != nil {
		if errors.Is(err, repositories.ErrPredictionNotFound) {
			return nil, ErrPredictionNotFound
		}
		return nil, err
	}
	return prediction, nil
}

// resolveGuess picks the guessed team out of the offered choices: by ID when
// given, then by case-insensitive name, then by best fuzzy rank.
func resolveGuess(input SubmitPredictionInput, choices []models.Team) (*models.Team, error) {
	if input.GuessID != 0 {
		for i := range choices {
			if choices[i].ID == input.GuessID {
				return &choices[i], nil
			}
		}
		return nil, ErrGuessNotInChoices
	}

	name := strings.TrimSpace(input.Guess)
	if name == "" {
		return nil, ErrGuessNotInChoices
	}
	for i := range choices {
		if strings.EqualFold(choices[i].Name, name) {
			return &choices[i], nil
		}
	}

	names := make([]string, len(choices))
	for i, choice := range choices {
		names[i] = choice.Name
	}
	ranks := fuzzy.RankFindNormalizedFold(name, names)
	if len(ranks) == 0 {
		return nil, ErrGuessNotInChoices
	}
	sort.Sort(ranks)
	return &choices[ranks[0].OriginalIndex], nil
}
