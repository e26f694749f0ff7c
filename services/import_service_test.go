package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleCSV = `Midwest Regional 2024
Year,Round,Match,Team 1,Team 1 Seed,Team 2,Team 2 Seed,Tournament Value
2024,1,1,Duke,1,Vermont,16,
2024,1,2,Kentucky,8,Gonzaga,9,
2024,1,3,Houston,5,Yale,12,
2024,1,4,Kansas,4,Samford,13,
`

func TestLoadCSVImportsTournament(t *testing.T) {
	f := newFixture(t)

	summary, err := f.importer.LoadCSV(f.ctx, strings.NewReader(sampleCSV))
	require.NoError(t, err)

	assert.Equal(t, "Midwest Regional", summary.Tournament.Name)
	assert.Equal(t, 2024, summary.Tournament.Year)
	assert.Equal(t, 4, summary.RowsProcessed)
	assert.Equal(t, 8, summary.TeamsCreated)
	assert.Equal(t, 4, summary.MatchesCreated)
	assert.Equal(t, 8, summary.RanksCreated)

	// The bracket was built through the final: 4+2+1 matches.
	matches, err := f.matches.ListByTournament(f.ctx, summary.Tournament.ID)
	require.NoError(t, err)
	assert.Len(t, matches, 7)

	duke, err := f.teams.GetByName(f.ctx, "Duke")
	require.NoError(t, err)
	rank, err := f.ranks.GetByYearAndTeam(f.ctx, 2024, duke.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, rank.Seed)

	match, err := f.matches.GetByPosition(f.ctx, summary.Tournament.ID, 1, 1)
	require.NoError(t, err)
	require.NotNil(t, match.Team1ID)
	assert.Equal(t, duke.ID, *match.Team1ID)
}

func TestLoadCSVIsRerunnable(t *testing.T) {
	f := newFixture(t)

	_, err := f.importer.LoadCSV(f.ctx, strings.NewReader(sampleCSV))
	require.NoError(t, err)

	summary, err := f.importer.LoadCSV(f.ctx, strings.NewReader(sampleCSV))
	require.NoError(t, err)

	assert.Equal(t, 0, summary.TeamsCreated)
	assert.Equal(t, 0, summary.MatchesCreated)
	assert.Equal(t, 0, summary.RanksCreated)

	teams, err := f.teams.List(f.ctx)
	require.NoError(t, err)
	assert.Len(t, teams, 8)
}

func TestLoadCSVMalformedHeader(t *testing.T) {
	f := newFixture(t)

	_, err := f.importer.LoadCSV(f.ctx, strings.NewReader("NoYearHere\nRound,Match\n"))
	assert.ErrorIs(t, err, ErrBadImportHeader)

	_, err = f.importer.LoadCSV(f.ctx, strings.NewReader("Some Pool 20xy\nRound,Match\n"))
	assert.ErrorIs(t, err, ErrBadImportHeader)
}

func TestLoadCSVToleratesBadRows(t *testing.T) {
	f := newFixture(t)

	csv := `Midwest Regional 2024
Year,Round,Match,Team 1,Team 1 Seed,Team 2,Team 2 Seed,Tournament Value
2024,1,1,Duke,1,Vermont,16,
2024,x,9,Broken,1,Row,2,
2024,1,2,Kentucky,notanumber,Gonzaga,9,
`
	summary, err := f.importer.LoadCSV(f.ctx, strings.NewReader(csv))
	require.NoError(t, err)

	assert.Equal(t, 2, summary.RowsProcessed)
	assert.Equal(t, 1, summary.RowsSkipped)

	// Kentucky imported without a seed.
	kentucky, err := f.teams.GetByName(f.ctx, "Kentucky")
	require.NoError(t, err)
	_, err = f.ranks.GetByYearAndTeam(f.ctx, 2024, kentucky.ID)
	assert.Error(t, err)
}

func TestLoadCSVPartialRowLeavesSlotOpen(t *testing.T) {
	f := newFixture(t)

	csv := `Midwest Regional 2024
Year,Round,Match,Team 1,Team 1 Seed,Team 2,Team 2 Seed,Tournament Value
2024,1,1,Duke,1,,,
2024,1,2,Kentucky,8,Gonzaga,9,
`
	summary, err := f.importer.LoadCSV(f.ctx, strings.NewReader(csv))
	require.NoError(t, err)

	match, err := f.matches.GetByPosition(f.ctx, summary.Tournament.ID, 1, 1)
	require.NoError(t, err)
	assert.NotNil(t, match.Team1ID)
	assert.Nil(t, match.Team2ID)
}
