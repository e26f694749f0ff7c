package inmem

import (
	"context"
	"sort"
	"strings"

	"github.com/mkearsley/madness-pool/models"
	"github.com/mkearsley/madness-pool/repositories"
)

type TournamentRepository struct {
	s *Store
}

func NewTournamentRepository(s *Store) *TournamentRepository {
	return &TournamentRepository{s: s}
}

func (r *TournamentRepository) Create(ctx context.Context, t *models.Tournament) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, existing := range r.s.tournaments {
		if existing.Year == t.Year {
			return repositories.ErrTournamentYearConflict
		}
	}
	t.ID = r.s.nextID()
	t.CreatedAt = now()
	r.s.tournaments[t.ID] = *t
	return nil
}

func (r *TournamentRepository) GetByID(ctx context.Context, id int) (*models.Tournament, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	t, ok := r.s.tournaments[id]
	if !ok {
		return nil, repositories.ErrTournamentNotFound
	}
	return &t, nil
}

func (r *TournamentRepository) GetByYear(ctx context.Context, year int) (*models.Tournament, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, t := range r.s.tournaments {
		if t.Year == year {
			found := t
			return &found, nil
		}
	}
	return nil, repositories.ErrTournamentNotFound
}

func (r *TournamentRepository) GetByName(ctx context.Context, name string) (*models.Tournament, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, t := range r.s.tournaments {
		if strings.EqualFold(t.Name, name) {
			found := t
			return &found, nil
		}
	}
	return nil, repositories.ErrTournamentNotFound
}

func (r *TournamentRepository) List(ctx context.Context) ([]models.Tournament, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	tournaments := make([]models.Tournament, 0, len(r.s.tournaments))
	for _, t := range r.s.tournaments {
		tournaments = append(tournaments, t)
	}
	sort.Slice(tournaments, func(i, j int) bool { return tournaments[i].Year > tournaments[j].Year })
	return tournaments, nil
}

func (r *TournamentRepository) Delete(ctx context.Context, id int) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.tournaments[id]; !ok {
		return repositories.ErrTournamentNotFound
	}
	for _, round := range r.s.rounds {
		if round.TournamentID == id {
			return repositories.ErrTournamentInUse
		}
	}
	for _, group := range r.s.groups {
		if group.TournamentID == id {
			return repositories.ErrTournamentInUse
		}
	}
	delete(r.s.tournaments, id)
	return nil
}
