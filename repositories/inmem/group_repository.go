package inmem

import (
	"context"
	"sort"
	"strings"

	"github.com/mkearsley/madness-pool/models"
	"github.com/mkearsley/madness-pool/repositories"
)

type GroupRepository struct {
	s *Store
}

func NewGroupRepository(s *Store) *GroupRepository {
	return &GroupRepository{s: s}
}

func (r *GroupRepository) Create(ctx context.Context, group *models.Group) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, existing := range r.s.groups {
		if existing.TournamentID == group.TournamentID && strings.EqualFold(existing.Name, group.Name) {
			return repositories.ErrGroupNameConflict
		}
	}
	group.ID = r.s.nextID()
	stored := *group
	stored.Members = nil
	r.s.groups[group.ID] = stored
	r.s.groupMembers[group.ID] = []int{group.CaptainID}
	return nil
}

func (r *GroupRepository) GetByID(ctx context.Context, id int) (*models.Group, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	group, ok := r.s.groups[id]
	if !ok {
		return nil, repositories.ErrGroupNotFound
	}
	return &group, nil
}

func (r *GroupRepository) ListByTournament(ctx context.Context, tournamentID int) ([]models.Group, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	groups := make([]models.Group, 0)
	for _, group := range r.s.groups {
		if group.TournamentID == tournamentID {
			groups = append(groups, group)
		}
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i].Name < groups[j].Name })
	return groups, nil
}

func (r *GroupRepository) AddMember(ctx context.Context, groupID, userID int) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.groups[groupID]; !ok {
		return repositories.ErrGroupNotFound
	}
	for _, memberID := range r.s.groupMembers[groupID] {
		if memberID == userID {
			return repositories.ErrGroupMemberConflict
		}
	}
	r.s.groupMembers[groupID] = append(r.s.groupMembers[groupID], userID)
	return nil
}

func (r *GroupRepository) ListMembers(ctx context.Context, groupID int) ([]models.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	members := make([]models.User, 0)
	for _, memberID := range r.s.groupMembers[groupID] {
		if user, ok := r.s.users[memberID]; ok {
			members = append(members, user)
		}
	}
	sort.Slice(members, func(i, j int) bool { return members[i].Username < members[j].Username })
	return members, nil
}
