package inmem

import (
	"context"
	"sort"

	"github.com/mkearsley/madness-pool/brackets"
	"github.com/mkearsley/madness-pool/models"
	"github.com/mkearsley/madness-pool/repositories"
)

type MatchRepository struct {
	s *Store
}

func NewMatchRepository(s *Store) *MatchRepository {
	return &MatchRepository{s: s}
}

func (r *MatchRepository) Create(ctx context.Context, match *models.Match) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, existing := range r.s.matches {
		if existing.RoundID == match.RoundID && existing.MatchNumber == match.MatchNumber {
			return repositories.ErrMatchConflict
		}
	}
	match.ID = r.s.nextID()
	stored := *match
	stored.Round = nil
	r.s.matches[match.ID] = stored
	return nil
}

func (r *MatchRepository) CreateIfAbsent(ctx context.Context, roundID, matchNumber int) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, existing := range r.s.matches {
		if existing.RoundID == roundID && existing.MatchNumber == matchNumber {
			return nil
		}
	}
	id := r.s.nextID()
	r.s.matches[id] = models.Match{ID: id, RoundID: roundID, MatchNumber: matchNumber}
	return nil
}

func (r *MatchRepository) GetByID(ctx context.Context, id int) (*models.Match, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	match, ok := r.s.matches[id]
	if !ok {
		return nil, repositories.ErrMatchNotFound
	}
	found := r.s.matchWithRound(match)
	return &found, nil
}

func (r *MatchRepository) GetByPosition(ctx context.Context, tournamentID, roundNumber, matchNumber int) (*models.Match, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, match := range r.s.matches {
		round, ok := r.s.rounds[match.RoundID]
		if !ok || round.TournamentID != tournamentID || round.RoundNumber != roundNumber {
			continue
		}
		if match.MatchNumber == matchNumber {
			found := r.s.matchWithRound(match)
			return &found, nil
		}
	}
	return nil, repositories.ErrMatchNotFound
}

func (r *MatchRepository) ListByRound(ctx context.Context, roundID int) ([]models.Match, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	matches := make([]models.Match, 0)
	for _, match := range r.s.matches {
		if match.RoundID == roundID {
			matches = append(matches, r.s.matchWithRound(match))
		}
	}
	sort.Slice(matches, func(i, j int) bool { return matches[i].MatchNumber < matches[j].MatchNumber })
	return matches, nil
}

func (r *MatchRepository) ListByTournament(ctx context.Context, tournamentID int) ([]models.Match, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	matches := make([]models.Match, 0)
	for _, match := range r.s.matches {
		round, ok := r.s.rounds[match.RoundID]
		if !ok || round.TournamentID != tournamentID {
			continue
		}
		matches = append(matches, r.s.matchWithRound(match))
	}
	sort.Slice(matches, func(i, j int) bool {
		if matches[i].Round.RoundNumber != matches[j].Round.RoundNumber {
			return matches[i].Round.RoundNumber < matches[j].Round.RoundNumber
		}
		return matches[i].MatchNumber < matches[j].MatchNumber
	})
	return matches, nil
}

func (r *MatchRepository) UpdateSlot(ctx context.Context, matchID int, slot brackets.Slot, teamID int) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	match, ok := r.s.matches[matchID]
	if !ok {
		return repositories.ErrMatchNotFound
	}
	id := teamID
	if slot == brackets.SlotTeam1 {
		match.Team1ID = &id
	} else {
		match.Team2ID = &id
	}
	r.s.matches[matchID] = match
	return nil
}

func (r *MatchRepository) UpdateResult(ctx context.Context, match *models.Match) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	existing, ok := r.s.matches[match.ID]
	if !ok {
		return repositories.ErrMatchNotFound
	}
	existing.Team1Score = copyIntPtr(match.Team1Score)
	existing.Team2Score = copyIntPtr(match.Team2Score)
	existing.VictorID = copyIntPtr(match.VictorID)
	r.s.matches[match.ID] = existing
	return nil
}

func (r *MatchRepository) UpdateTournamentValue(ctx context.Context, matchID, value int) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	match, ok := r.s.matches[matchID]
	if !ok {
		return repositories.ErrMatchNotFound
	}
	match.TournamentValue = value
	r.s.matches[matchID] = match
	return nil
}
