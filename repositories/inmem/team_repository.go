package inmem

import (
	"context"
	"sort"
	"strings"

	"github.com/mkearsley/madness-pool/models"
	"github.com/mkearsley/madness-pool/repositories"
)

type TeamRepository struct {
	s *Store
}

func NewTeamRepository(s *Store) *TeamRepository {
	return &TeamRepository{s: s}
}

func (r *TeamRepository) Create(ctx context.Context, team *models.Team) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, existing := range r.s.teams {
		if existing.Name == team.Name {
			return repositories.ErrTeamNameConflict
		}
	}
	team.ID = r.s.nextID()
	team.CreatedAt = now()
	r.s.teams[team.ID] = *team
	return nil
}

func (r *TeamRepository) GetByID(ctx context.Context, id int) (*models.Team, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	team, ok := r.s.teams[id]
	if !ok {
		return nil, repositories.ErrTeamNotFound
	}
	return &team, nil
}

func (r *TeamRepository) GetByName(ctx context.Context, name string) (*models.Team, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, team := range r.s.teams {
		if strings.EqualFold(team.Name, name) {
			t := team
			return &t, nil
		}
	}
	return nil, repositories.ErrTeamNotFound
}

func (r *TeamRepository) List(ctx context.Context) ([]models.Team, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	teams := make([]models.Team, 0, len(r.s.teams))
	for _, team := range r.s.teams {
		teams = append(teams, team)
	}
	sort.Slice(teams, func(i, j int) bool { return teams[i].Name < teams[j].Name })
	return teams, nil
}

func (r *TeamRepository) UpdateIconKey(ctx context.Context, teamID int, iconKey *string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	team, ok := r.s.teams[teamID]
	if !ok {
		return repositories.ErrTeamNotFound
	}
	team.IconKey = iconKey
	r.s.teams[teamID] = team
	return nil
}

func (r *TeamRepository) Delete(ctx context.Context, id int) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.teams[id]; !ok {
		return repositories.ErrTeamNotFound
	}
	for _, rank := range r.s.ranks {
		if rank.TeamID == id {
			return repositories.ErrTeamInUse
		}
	}
	for _, m := range r.s.matches {
		if (m.Team1ID != nil && *m.Team1ID == id) || (m.Team2ID != nil && *m.Team2ID == id) {
			return repositories.ErrTeamInUse
		}
	}
	delete(r.s.teams, id)
	return nil
}
