package inmem

import (
	"context"
	"fmt"
	"sort"

	"github.com/mkearsley/madness-pool/models"
	"github.com/mkearsley/madness-pool/repositories"
)

type RoundRepository struct {
	s *Store
}

func NewRoundRepository(s *Store) *RoundRepository {
	return &RoundRepository{s: s}
}

func (r *RoundRepository) Create(ctx context.Context, round *models.Round) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.createLocked(round)
}

func (r *RoundRepository) createLocked(round *models.Round) error {
	for _, existing := range r.s.rounds {
		if existing.TournamentID == round.TournamentID && existing.RoundNumber == round.RoundNumber {
			return repositories.ErrRoundConflict
		}
	}
	if round.Name == "" {
		round.Name = fmt.Sprintf("Round %d", round.RoundNumber)
	}
	round.ID = r.s.nextID()
	r.s.rounds[round.ID] = *round
	return nil
}

func (r *RoundRepository) GetByID(ctx context.Context, id int) (*models.Round, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	round, ok := r.s.rounds[id]
	if !ok {
		return nil, repositories.ErrRoundNotFound
	}
	return &round, nil
}

func (r *RoundRepository) GetByNumber(ctx context.Context, tournamentID, roundNumber int) (*models.Round, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.getByNumberLocked(tournamentID, roundNumber)
}

func (r *RoundRepository) getByNumberLocked(tournamentID, roundNumber int) (*models.Round, error) {
	for _, round := range r.s.rounds {
		if round.TournamentID == tournamentID && round.RoundNumber == roundNumber {
			found := round
			return &found, nil
		}
	}
	return nil, repositories.ErrRoundNotFound
}

func (r *RoundRepository) GetOrCreate(ctx context.Context, tournamentID, roundNumber int) (*models.Round, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if existing, err := r.getByNumberLocked(tournamentID, roundNumber); err == nil {
		return existing, nil
	}
	round := &models.Round{TournamentID: tournamentID, RoundNumber: roundNumber}
	if err := r.createLocked(round); err != nil {
		return nil, err
	}
	return round, nil
}

func (r *RoundRepository) ListByTournament(ctx context.Context, tournamentID int) ([]models.Round, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	rounds := make([]models.Round, 0)
	for _, round := range r.s.rounds {
		if round.TournamentID == tournamentID {
			rounds = append(rounds, round)
		}
	}
	sort.Slice(rounds, func(i, j int) bool { return rounds[i].RoundNumber < rounds[j].RoundNumber })
	return rounds, nil
}

func (r *RoundRepository) UpdateDates(ctx context.Context, round *models.Round) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	existing, ok := r.s.rounds[round.ID]
	if !ok {
		return repositories.ErrRoundNotFound
	}
	existing.StartDate = round.StartDate
	existing.EndDate = round.EndDate
	r.s.rounds[round.ID] = existing
	return nil
}
