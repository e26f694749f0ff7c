package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/mkearsley/madness-pool/brackets"
	"github.com/mkearsley/madness-pool/repositories"
)

// BracketService derives rounds 2..N of a tournament from a fully entered
// first round.
type BracketService interface {
	BuildBracket(ctx context.Context, tournamentID int) error
}

type bracketService struct {
	tournamentRepo repositories.TournamentRepository
	roundRepo      repositories.RoundRepository
	matchRepo      repositories.MatchRepository
	hub            *brackets.Hub
}

func NewBracketService(
	tournamentRepo repositories.TournamentRepository,
	roundRepo repositories.RoundRepository,
	matchRepo repositories.MatchRepository,
	hub *brackets.Hub,
) BracketService {
	return &bracketService{
		tournamentRepo: tournamentRepo,
		roundRepo:      roundRepo,
		matchRepo:      matchRepo,
		hub:            hub,
	}
}

// BuildBracket is idempotent: rounds and matches are created only where
// absent and existing matches are never modified. Pairing stops once fewer
// than two matches remain unpaired in the prior round.
func (s *bracketService) BuildBracket(ctx context.Context, tournamentID int) error {
	if _, err := s.tournamentRepo.GetByID(ctx, tournamentID); err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return ErrTournamentNotFound
		}
		return err
	}

	firstRound, err := s.roundRepo.GetByNumber(ctx, tournamentID, 1)
	if err != nil {
		if errors.Is(err, repositories.ErrRoundNotFound) {
			return ErrNoRoundOneMatches
		}
		return err
	}

	prevMatches, err := s.matchRepo.ListByRound(ctx, firstRound.ID)
	if err != nil {
		return err
	}
	if len(prevMatches) == 0 {
		return ErrNoRoundOneMatches
	}

	numRounds := brackets.NumRounds(len(prevMatches))
	for roundNumber := 2; roundNumber <= numRounds; roundNumber++ {
		round, err := s.roundRepo.GetOrCreate(ctx, tournamentID, roundNumber)
		if err != nil {
			return fmt.Errorf("failed to ensure round %d: %w", roundNumber, err)
		}

		for i := 0; i+1 < len(prevMatches); i += 2 {
			matchNumber := i/2 + 1
			if err := s.matchRepo.CreateIfAbsent(ctx, round.ID, matchNumber); err != nil {
				return fmt.Errorf("failed to ensure match %d of round %d: %w", matchNumber, roundNumber, err)
			}
		}

		if prevMatches, err = s.matchRepo.ListByRound(ctx, round.ID); err != nil {
			return err
		}
	}

	s.hub.Broadcast(brackets.Event{
		Type:         brackets.EventBracketBuilt,
		TournamentID: tournamentID,
		Payload:      map[string]int{"rounds": numRounds},
	})
	return nil
}
