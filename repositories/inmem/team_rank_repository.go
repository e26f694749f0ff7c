package inmem

import (
	"context"
	"sort"

	"github.com/mkearsley/madness-pool/models"
	"github.com/mkearsley/madness-pool/repositories"
)

type TeamRankRepository struct {
	s *Store
}

func NewTeamRankRepository(s *Store) *TeamRankRepository {
	return &TeamRankRepository{s: s}
}

func (r *TeamRankRepository) Create(ctx context.Context, rank *models.TeamRank) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, existing := range r.s.ranks {
		if existing.Year != rank.Year {
			continue
		}
		if existing.TeamID == rank.TeamID || existing.Seed == rank.Seed {
			return repositories.ErrTeamRankConflict
		}
	}
	rank.ID = r.s.nextID()
	r.s.ranks[rank.ID] = *rank
	return nil
}

func (r *TeamRankRepository) GetByYearAndTeam(ctx context.Context, year, teamID int) (*models.TeamRank, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, rank := range r.s.ranks {
		if rank.Year == year && rank.TeamID == teamID {
			found := rank
			return &found, nil
		}
	}
	return nil, repositories.ErrTeamRankNotFound
}

func (r *TeamRankRepository) ListByYear(ctx context.Context, year int) ([]models.TeamRank, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	ranks := make([]models.TeamRank, 0)
	for _, rank := range r.s.ranks {
		if rank.Year != year {
			continue
		}
		if team, ok := r.s.teams[rank.TeamID]; ok {
			t := team
			rank.Team = &t
		}
		ranks = append(ranks, rank)
	}
	sort.Slice(ranks, func(i, j int) bool { return ranks[i].Seed < ranks[j].Seed })
	return ranks, nil
}
