package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildBracketCreatesFullTree(t *testing.T) {
	f := newFixture(t)
	tournament := f.createTournament("Midwest Regional", 2024)
	f.seedFirstRound(tournament.ID, 8)

	require.NoError(t, f.bracket.BuildBracket(f.ctx, tournament.ID))

	rounds, err := f.rounds.ListByTournament(f.ctx, tournament.ID)
	require.NoError(t, err)
	require.Len(t, rounds, 4)

	wantMatches := []int{8, 4, 2, 1}
	for i, round := range rounds {
		matches, err := f.matches.ListByRound(f.ctx, round.ID)
		require.NoError(t, err)
		assert.Len(t, matches, wantMatches[i], "round %d", round.RoundNumber)

		if round.RoundNumber > 1 {
			assert.Equal(t, "Round "+string(rune('0'+round.RoundNumber)), round.Name)
			for _, match := range matches {
				assert.Nil(t, match.Team1ID)
				assert.Nil(t, match.Team2ID)
			}
		}
	}
}

func TestBuildBracketIsIdempotent(t *testing.T) {
	f := newFixture(t)
	tournament := f.createTournament("Midwest Regional", 2024)
	f.seedFirstRound(tournament.ID, 4)

	require.NoError(t, f.bracket.BuildBracket(f.ctx, tournament.ID))

	// Enter a result so later rounds hold state, then rebuild.
	final, err := f.matches.GetByPosition(f.ctx, tournament.ID, 2, 1)
	require.NoError(t, err)
	teamID := 99
	require.NoError(t, f.matches.UpdateSlot(f.ctx, final.ID, 1, teamID))

	require.NoError(t, f.bracket.BuildBracket(f.ctx, tournament.ID))

	again, err := f.matches.GetByPosition(f.ctx, tournament.ID, 2, 1)
	require.NoError(t, err)
	assert.Equal(t, final.ID, again.ID, "existing matches must not be recreated")
	require.NotNil(t, again.Team1ID)
	assert.Equal(t, teamID, *again.Team1ID, "existing match state must survive a rebuild")
}

func TestBuildBracketOddRoundLeavesLeftoverUnpaired(t *testing.T) {
	f := newFixture(t)
	tournament := f.createTournament("Play-In", 2024)
	f.seedFirstRound(tournament.ID, 3)

	require.NoError(t, f.bracket.BuildBracket(f.ctx, tournament.ID))

	round2, err := f.rounds.GetByNumber(f.ctx, tournament.ID, 2)
	require.NoError(t, err)
	matches, err := f.matches.ListByRound(f.ctx, round2.ID)
	require.NoError(t, err)
	assert.Len(t, matches, 1, "third round-one match has no pair")
}

func TestBuildBracketNoFirstRound(t *testing.T) {
	f := newFixture(t)
	tournament := f.createTournament("Empty", 2024)

	err := f.bracket.BuildBracket(f.ctx, tournament.ID)
	assert.ErrorIs(t, err, ErrNoRoundOneMatches)

	f.createRound(tournament.ID, 1)
	err = f.bracket.BuildBracket(f.ctx, tournament.ID)
	assert.ErrorIs(t, err, ErrNoRoundOneMatches, "a first round without matches is as empty as no round")
}

func TestBuildBracketUnknownTournament(t *testing.T) {
	f := newFixture(t)
	assert.ErrorIs(t, f.bracket.BuildBracket(f.ctx, 42), ErrTournamentNotFound)
}
