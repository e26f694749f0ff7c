package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkearsley/madness-pool/models"
)

func TestCreateTournamentValidatesYear(t *testing.T) {
	f := newFixture(t)

	err := f.tournament.Create(f.ctx, &models.Tournament{Name: "Too Early", Year: 1999})
	assert.ErrorIs(t, err, models.ErrInvalidYear)

	err = f.tournament.Create(f.ctx, &models.Tournament{Name: "Fine", Year: 2024})
	assert.NoError(t, err)

	err = f.tournament.Create(f.ctx, &models.Tournament{Name: "Same Year", Year: 2024})
	assert.ErrorIs(t, err, ErrTournamentYearConflict)
}

func TestResolveTournament(t *testing.T) {
	f := newFixture(t)
	created := f.createTournament("Midwest Regional", 2024)

	byKey, err := f.tournament.Resolve(f.ctx, "Midwest Regional 2024")
	require.NoError(t, err)
	assert.Equal(t, created.ID, byKey.ID)

	byYear, err := f.tournament.Resolve(f.ctx, "2024")
	require.NoError(t, err)
	assert.Equal(t, created.ID, byYear.ID)

	byName, err := f.tournament.Resolve(f.ctx, "Midwest Regional")
	require.NoError(t, err)
	assert.Equal(t, created.ID, byName.ID)

	_, err = f.tournament.Resolve(f.ctx, "Unknown Pool 2030")
	assert.ErrorIs(t, err, ErrTournamentNotFound)
}

func TestGetBracketAssemblesRounds(t *testing.T) {
	f := newFixture(t)
	tournament := f.createTournament("Midwest Regional", 2024)
	f.seedFirstRound(tournament.ID, 4)
	require.NoError(t, f.bracket.BuildBracket(f.ctx, tournament.ID))

	bracket, err := f.tournament.GetBracket(f.ctx, tournament.ID)
	require.NoError(t, err)

	assert.Equal(t, tournament.ID, bracket.Tournament.ID)
	require.Len(t, bracket.Rounds, 3)
	assert.Len(t, bracket.Rounds[0].Matches, 4)
	assert.Len(t, bracket.Rounds[1].Matches, 2)
	assert.Len(t, bracket.Rounds[2].Matches, 1)
	assert.Len(t, bracket.Teams, 8)

	_, err = f.tournament.GetBracket(f.ctx, 999)
	assert.ErrorIs(t, err, ErrTournamentNotFound)
}
