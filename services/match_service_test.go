package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkearsley/madness-pool/models"
)

func TestSetResultPropagatesVictor(t *testing.T) {
	f := newFixture(t)
	tournament := f.createTournament("Midwest Regional", 2024)
	teams := f.seedFirstRound(tournament.ID, 8)
	require.NoError(t, f.bracket.BuildBracket(f.ctx, tournament.ID))

	// Odd match number lands in team1 of the successor.
	match1, err := f.matches.GetByPosition(f.ctx, tournament.ID, 1, 1)
	require.NoError(t, err)
	winner1 := teams[0]
	_, err = f.match.SetResult(f.ctx, match1.ID, MatchResult{VictorID: winner1.ID})
	require.NoError(t, err)

	child, err := f.matches.GetByPosition(f.ctx, tournament.ID, 2, 1)
	require.NoError(t, err)
	require.NotNil(t, child.Team1ID)
	assert.Equal(t, winner1.ID, *child.Team1ID)
	assert.Nil(t, child.Team2ID)

	// Even match number lands in team2 of the same successor.
	match2, err := f.matches.GetByPosition(f.ctx, tournament.ID, 1, 2)
	require.NoError(t, err)
	winner2 := teams[3]
	_, err = f.match.SetResult(f.ctx, match2.ID, MatchResult{VictorID: winner2.ID})
	require.NoError(t, err)

	child, err = f.matches.GetByPosition(f.ctx, tournament.ID, 2, 1)
	require.NoError(t, err)
	require.NotNil(t, child.Team2ID)
	assert.Equal(t, winner2.ID, *child.Team2ID)
}

func TestSetResultCascadesOneLevelOnly(t *testing.T) {
	f := newFixture(t)
	tournament := f.createTournament("Midwest Regional", 2024)
	teams := f.seedFirstRound(tournament.ID, 4)
	require.NoError(t, f.bracket.BuildBracket(f.ctx, tournament.ID))

	match1, err := f.matches.GetByPosition(f.ctx, tournament.ID, 1, 1)
	require.NoError(t, err)
	_, err = f.match.SetResult(f.ctx, match1.ID, MatchResult{VictorID: teams[0].ID})
	require.NoError(t, err)

	final, err := f.matches.GetByPosition(f.ctx, tournament.ID, 3, 1)
	require.NoError(t, err)
	assert.Nil(t, final.Team1ID, "an undecided semifinal must not advance anyone")
}

func TestSetResultRecordsScores(t *testing.T) {
	f := newFixture(t)
	tournament := f.createTournament("Midwest Regional", 2024)
	teams := f.seedFirstRound(tournament.ID, 2)

	match, err := f.matches.GetByPosition(f.ctx, tournament.ID, 1, 1)
	require.NoError(t, err)

	score1, score2 := 78, 64
	updated, err := f.match.SetResult(f.ctx, match.ID, MatchResult{
		Team1Score: &score1,
		Team2Score: &score2,
		VictorID:   teams[0].ID,
	})
	require.NoError(t, err)

	require.NotNil(t, updated.VictorID)
	assert.Equal(t, teams[0].ID, *updated.VictorID)
	require.NotNil(t, updated.Team1Score)
	assert.Equal(t, 78, *updated.Team1Score)
}

func TestSetResultRejectsOutsideVictor(t *testing.T) {
	f := newFixture(t)
	tournament := f.createTournament("Midwest Regional", 2024)
	f.seedFirstRound(tournament.ID, 2)
	outsider := f.createTeam("Interloper")

	match, err := f.matches.GetByPosition(f.ctx, tournament.ID, 1, 1)
	require.NoError(t, err)

	_, err = f.match.SetResult(f.ctx, match.ID, MatchResult{VictorID: outsider.ID})
	assert.ErrorIs(t, err, ErrVictorNotInMatch)
}

func TestOnMatchFinalizedMissingDestination(t *testing.T) {
	f := newFixture(t)
	tournament := f.createTournament("One Rounder", 2024)
	round := f.createRound(tournament.ID, 1)
	team1 := f.createTeam("Solo A")
	team2 := f.createTeam("Solo B")
	match := f.createMatch(round.ID, 1, team1, team2)

	// No round 2 exists; finalizing must not fail.
	_, err := f.match.SetResult(f.ctx, match.ID, MatchResult{VictorID: team1.ID})
	require.NoError(t, err)

	stored, err := f.matches.GetByID(f.ctx, match.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.VictorID)
	assert.Equal(t, team1.ID, *stored.VictorID)
}

func TestOnMatchFinalizedUndecidedMatchIsNoop(t *testing.T) {
	f := newFixture(t)
	tournament := f.createTournament("Midwest Regional", 2024)
	f.seedFirstRound(tournament.ID, 2)
	require.NoError(t, f.bracket.BuildBracket(f.ctx, tournament.ID))

	match, err := f.matches.GetByPosition(f.ctx, tournament.ID, 1, 1)
	require.NoError(t, err)
	require.NoError(t, f.match.OnMatchFinalized(f.ctx, match.ID))

	final, err := f.matches.GetByPosition(f.ctx, tournament.ID, 2, 1)
	require.NoError(t, err)
	assert.Nil(t, final.Team1ID)
}

func TestFullTournamentPlaythrough(t *testing.T) {
	f := newFixture(t)
	tournament := f.createTournament("Midwest Regional", 2024)
	f.seedFirstRound(tournament.ID, 8)
	require.NoError(t, f.bracket.BuildBracket(f.ctx, tournament.ID))

	// Team1 wins every match; the first round's first team should take the
	// final.
	var champion *models.Match
	for roundNumber := 1; roundNumber <= 4; roundNumber++ {
		round, err := f.rounds.GetByNumber(f.ctx, tournament.ID, roundNumber)
		require.NoError(t, err)
		matches, err := f.matches.ListByRound(f.ctx, round.ID)
		require.NoError(t, err)

		for _, match := range matches {
			fresh, err := f.matches.GetByID(f.ctx, match.ID)
			require.NoError(t, err)
			require.NotNil(t, fresh.Team1ID, "round %d match %d should be filled", roundNumber, match.MatchNumber)
			updated, err := f.match.SetResult(f.ctx, fresh.ID, MatchResult{VictorID: *fresh.Team1ID})
			require.NoError(t, err)
			champion = updated
		}
	}

	require.NotNil(t, champion)
	first, err := f.matches.GetByPosition(f.ctx, tournament.ID, 1, 1)
	require.NoError(t, err)
	assert.Equal(t, *first.Team1ID, *champion.VictorID)
}
