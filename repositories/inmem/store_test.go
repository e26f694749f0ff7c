package inmem

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkearsley/madness-pool/models"
	"github.com/mkearsley/madness-pool/repositories"
)

func TestTeamRankUniqueness(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	teams := NewTeamRepository(store)
	ranks := NewTeamRankRepository(store)

	duke := &models.Team{Name: "Duke"}
	kansas := &models.Team{Name: "Kansas"}
	require.NoError(t, teams.Create(ctx, duke))
	require.NoError(t, teams.Create(ctx, kansas))

	require.NoError(t, ranks.Create(ctx, &models.TeamRank{Year: 2024, TeamID: duke.ID, Seed: 1}))

	// Same team, same year.
	err := ranks.Create(ctx, &models.TeamRank{Year: 2024, TeamID: duke.ID, Seed: 2})
	assert.ErrorIs(t, err, repositories.ErrTeamRankConflict)

	// Same seed, same year, different team.
	err = ranks.Create(ctx, &models.TeamRank{Year: 2024, TeamID: kansas.ID, Seed: 1})
	assert.ErrorIs(t, err, repositories.ErrTeamRankConflict)

	// A new year resets both constraints.
	assert.NoError(t, ranks.Create(ctx, &models.TeamRank{Year: 2025, TeamID: duke.ID, Seed: 1}))
}

func TestTournamentYearUniqueness(t *testing.T) {
	ctx := context.Background()
	tournaments := NewTournamentRepository(NewStore())

	require.NoError(t, tournaments.Create(ctx, &models.Tournament{Name: "First", Year: 2024}))
	err := tournaments.Create(ctx, &models.Tournament{Name: "Second", Year: 2024})
	assert.ErrorIs(t, err, repositories.ErrTournamentYearConflict)
}

func TestRoundAndMatchUniqueness(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	tournaments := NewTournamentRepository(store)
	rounds := NewRoundRepository(store)
	matches := NewMatchRepository(store)

	tournament := &models.Tournament{Name: "Pool", Year: 2024}
	require.NoError(t, tournaments.Create(ctx, tournament))

	round := &models.Round{TournamentID: tournament.ID, RoundNumber: 1}
	require.NoError(t, rounds.Create(ctx, round))
	assert.Equal(t, "Round 1", round.Name, "empty round names default")

	err := rounds.Create(ctx, &models.Round{TournamentID: tournament.ID, RoundNumber: 1})
	assert.ErrorIs(t, err, repositories.ErrRoundConflict)

	require.NoError(t, matches.Create(ctx, &models.Match{RoundID: round.ID, MatchNumber: 1}))
	err = matches.Create(ctx, &models.Match{RoundID: round.ID, MatchNumber: 1})
	assert.ErrorIs(t, err, repositories.ErrMatchConflict)

	// CreateIfAbsent swallows the duplicate instead.
	assert.NoError(t, matches.CreateIfAbsent(ctx, round.ID, 1))
}

func TestGroupMembershipConflicts(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	tournaments := NewTournamentRepository(store)
	users := NewUserRepository(store)
	groups := NewGroupRepository(store)

	tournament := &models.Tournament{Name: "Pool", Year: 2024}
	require.NoError(t, tournaments.Create(ctx, tournament))
	captain := &models.User{Username: "alice"}
	require.NoError(t, users.Create(ctx, captain))

	group := &models.Group{TournamentID: tournament.ID, Name: "Office", CaptainID: captain.ID}
	require.NoError(t, groups.Create(ctx, group))

	// The captain joins on create.
	members, err := groups.ListMembers(ctx, group.ID)
	require.NoError(t, err)
	require.Len(t, members, 1)
	assert.Equal(t, captain.ID, members[0].ID)

	err = groups.AddMember(ctx, group.ID, captain.ID)
	assert.ErrorIs(t, err, repositories.ErrGroupMemberConflict)

	err = groups.Create(ctx, &models.Group{TournamentID: tournament.ID, Name: "Office", CaptainID: captain.ID})
	assert.ErrorIs(t, err, repositories.ErrGroupNameConflict)
}

func TestPredictionUpsertKeepsOnePerUserMatch(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	predictions := NewPredictionRepository(store)

	first := &models.UserPrediction{UserID: 1, MatchID: 10, GuessID: 100}
	require.NoError(t, predictions.Upsert(ctx, first))

	second := &models.UserPrediction{UserID: 1, MatchID: 10, GuessID: 200}
	require.NoError(t, predictions.Upsert(ctx, second))
	assert.Equal(t, first.ID, second.ID)

	stored, err := predictions.GetByUserAndMatch(ctx, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, 200, stored.GuessID)

	_, err = predictions.GetByUserAndMatch(ctx, 2, 10)
	assert.ErrorIs(t, err, repositories.ErrPredictionNotFound)
}
