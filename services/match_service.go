package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/mkearsley/madness-pool/brackets"
	"github.com/mkearsley/madness-pool/models"
	"github.com/mkearsley/madness-pool/repositories"
)

type MatchResult struct {
	Team1Score *int
	Team2Score *int
	VictorID   int
}

// MatchService owns match results and the victor cascade into the next round.
type MatchService interface {
	GetByID(ctx context.Context, matchID int) (*models.Match, error)
	SetResult(ctx context.Context, matchID int, result MatchResult) (*models.Match, error)
	// OnMatchFinalized advances the match's victor into the correct slot of
	// its successor match. Exactly one level of cascade fires per call.
	OnMatchFinalized(ctx context.Context, matchID int) error
}

type matchService struct {
	matchRepo repositories.MatchRepository
	hub       *brackets.Hub
}

func NewMatchService(matchRepo repositories.MatchRepository, hub *brackets.Hub) MatchService {
	return &matchService{matchRepo: matchRepo, hub: hub}
}

func (s *matchService) GetByID(ctx context.Context, matchID int) (*models.Match, error) {
	match, err := s.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		if errors.Is(err, repositories.ErrMatchNotFound) {
			return nil, ErrMatchNotFound
		}
		return nil, err
	}
	return match, nil
}

func (s *matchService) SetResult(ctx context.Context, matchID int, result MatchResult) (*models.Match, error) {
	match, err := s.GetByID(ctx, matchID)
	if err != nil {
		return nil, err
	}

	victorInMatch := (match.Team1ID != nil && *match.Team1ID == result.VictorID) ||
		(match.Team2ID != nil && *match.Team2ID == result.VictorID)
	if !victorInMatch {
		return nil, ErrVictorNotInMatch
	}

	match.Team1Score = result.Team1Score
	match.Team2Score = result.Team2Score
	victorID := result.VictorID
	match.VictorID = &victorID

	if err := s.matchRepo.UpdateResult(ctx, match); err != nil {
		return nil, err
	}

	s.hub.Broadcast(brackets.Event{
		Type:         brackets.EventMatchFinalized,
		TournamentID: match.Round.TournamentID,
		Payload:      match,
	})

	if err := s.OnMatchFinalized(ctx, match.ID); err != nil {
		return nil, err
	}
	return match, nil
}

func (s *matchService) OnMatchFinalized(ctx context.Context, matchID int) error {
	match, err := s.GetByID(ctx, matchID)
	if err != nil {
		return err
	}
	if match.VictorID == nil {
		return nil
	}

	childNumber, slot := brackets.FeedsInto(match.MatchNumber)
	child, err := s.matchRepo.GetByPosition(ctx,
		match.Round.TournamentID, match.Round.RoundNumber+1, childNumber)
	if err != nil {
		// Missing destination is a steady state: the final has no successor
		// and later rounds may not be built yet.
		if errors.Is(err, repositories.ErrMatchNotFound) {
			return nil
		}
		return fmt.Errorf("failed to locate successor of match %d: %w", matchID, err)
	}

	if err := s.matchRepo.UpdateSlot(ctx, child.ID, slot, *match.VictorID); err != nil {
		return fmt.Errorf("failed to propagate victor of match %d: %w", matchID, err)
	}

	s.hub.Broadcast(brackets.Event{
		Type:         brackets.EventSlotPropagated,
		TournamentID: match.Round.TournamentID,
		Payload: map[string]interface{}{
			"match_id": child.ID,
			"slot":     slot.String(),
			"team_id":  *match.VictorID,
		},
	})
	return nil
}
