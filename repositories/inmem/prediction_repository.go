package inmem

import (
	"context"
	"sort"

	"github.com/mkearsley/madness-pool/models"
	"github.com/mkearsley/madness-pool/repositories"
)

type PredictionRepository struct {
	s *Store
}

func NewPredictionRepository(s *Store) *PredictionRepository {
	return &PredictionRepository{s: s}
}

func (r *PredictionRepository) Upsert(ctx context.Context, p *models.UserPrediction) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for id, existing := range r.s.predictions {
		if existing.UserID == p.UserID && existing.MatchID == p.MatchID {
			existing.GuessID = p.GuessID
			existing.Team1Score = copyIntPtr(p.Team1Score)
			existing.Team2Score = copyIntPtr(p.Team2Score)
			r.s.predictions[id] = existing
			p.ID = id
			return nil
		}
	}
	p.ID = r.s.nextID()
	stored := *p
	stored.Match = nil
	stored.Guess = nil
	r.s.predictions[p.ID] = stored
	return nil
}

func (r *PredictionRepository) GetByUserAndMatch(ctx context.Context, userID, matchID int) (*models.UserPrediction, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, p := range r.s.predictions {
		if p.UserID == userID && p.MatchID == matchID {
			found := p
			return &found, nil
		}
	}
	return nil, repositories.ErrPredictionNotFound
}

func (r *PredictionRepository) ListByUserAndTournament(ctx context.Context, userID, tournamentID int) ([]models.UserPrediction, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	predictions := make([]models.UserPrediction, 0)
	for _, p := range r.s.predictions {
		if p.UserID != userID {
			continue
		}
		match, ok := r.s.matches[p.MatchID]
		if !ok {
			continue
		}
		round, ok := r.s.rounds[match.RoundID]
		if !ok || round.TournamentID != tournamentID {
			continue
		}
		withMatch := r.s.matchWithRound(match)
		p.Match = &withMatch
		predictions = append(predictions, p)
	}
	sort.Slice(predictions, func(i, j int) bool {
		ri, rj := predictions[i].Match.Round.RoundNumber, predictions[j].Match.Round.RoundNumber
		if ri != rj {
			return ri < rj
		}
		return predictions[i].Match.MatchNumber < predictions[j].Match.MatchNumber
	})
	return predictions, nil
}

func (r *PredictionRepository) ListUserIDsByTournament(ctx context.Context, tournamentID int) ([]int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	seen := make(map[int]bool)
	for _, p := range r.s.predictions {
		match, ok := r.s.matches[p.MatchID]
		if !ok {
			continue
		}
		round, ok := r.s.rounds[match.RoundID]
		if !ok || round.TournamentID != tournamentID {
			continue
		}
		seen[p.UserID] = true
	}
	ids := make([]int, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids, nil
}
