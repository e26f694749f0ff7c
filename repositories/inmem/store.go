// Package inmem provides map-backed implementations of the repository
// interfaces. It enforces the same uniqueness constraints as the postgres
// schema and returns the same sentinel errors, so the engine behaves
// identically over either store. Used by tests and by import dry-runs.
package inmem

import (
	"sync"
	"time"

	"github.com/mkearsley/madness-pool/models"
)

type Store struct {
	mu  sync.RWMutex
	seq int

	teams        map[int]models.Team
	ranks        map[int]models.TeamRank
	tournaments  map[int]models.Tournament
	rounds       map[int]models.Round
	matches      map[int]models.Match
	users        map[int]models.User
	predictions  map[int]models.UserPrediction
	groups       map[int]models.Group
	groupMembers map[int][]int
}

func NewStore() *Store {
	return &Store{
		teams:        make(map[int]models.Team),
		ranks:        make(map[int]models.TeamRank),
		tournaments:  make(map[int]models.Tournament),
		rounds:       make(map[int]models.Round),
		matches:      make(map[int]models.Match),
		users:        make(map[int]models.User),
		predictions:  make(map[int]models.UserPrediction),
		groups:       make(map[int]models.Group),
		groupMembers: make(map[int][]int),
	}
}

// nextID must be called with the write lock held.
func (s *Store) nextID() int {
	s.seq++
	return s.seq
}

func now() time.Time {
	return time.Now().UTC()
}

func copyIntPtr(v *int) *int {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

// roundCopy must be called with at least the read lock held.
func (s *Store) roundCopy(id int) *models.Round {
	round, ok := s.rounds[id]
	if !ok {
		return nil
	}
	return &round
}

// matchWithRound must be called with at least the read lock held.
func (s *Store) matchWithRound(m models.Match) models.Match {
	m.Team1ID = copyIntPtr(m.Team1ID)
	m.Team2ID = copyIntPtr(m.Team2ID)
	m.Team1Score = copyIntPtr(m.Team1Score)
	m.Team2Score = copyIntPtr(m.Team2Score)
	m.VictorID = copyIntPtr(m.VictorID)
	m.Round = s.roundCopy(m.RoundID)
	return m
}
