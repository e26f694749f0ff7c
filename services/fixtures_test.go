package services

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mkearsley/madness-pool/models"
	"github.com/mkearsley/madness-pool/repositories/inmem"
)

// fixture wires every service over a fresh in-memory store.
type fixture struct {
	t   *testing.T
	ctx context.Context

	teams       *inmem.TeamRepository
	ranks       *inmem.TeamRankRepository
	tournaments *inmem.TournamentRepository
	rounds      *inmem.RoundRepository
	matches     *inmem.MatchRepository
	users       *inmem.UserRepository
	predictions *inmem.PredictionRepository
	groups      *inmem.GroupRepository

	bracket    BracketService
	match      MatchService
	prediction PredictionService
	scoring    ScoringService
	importer   ImportService
	tournament TournamentService
	group      GroupService
	user       UserService
}

func newFixture(t *testing.T) *fixture {
	store := inmem.NewStore()
	f := &fixture{
		t:           t,
		ctx:         context.Background(),
		teams:       inmem.NewTeamRepository(store),
		ranks:       inmem.NewTeamRankRepository(store),
		tournaments: inmem.NewTournamentRepository(store),
		rounds:      inmem.NewRoundRepository(store),
		matches:     inmem.NewMatchRepository(store),
		users:       inmem.NewUserRepository(store),
		predictions: inmem.NewPredictionRepository(store),
		groups:      inmem.NewGroupRepository(store),
	}
	f.bracket = NewBracketService(f.tournaments, f.rounds, f.matches, nil)
	f.match = NewMatchService(f.matches, nil)
	f.prediction = NewPredictionService(f.matches, f.teams, f.users, f.predictions)
	f.scoring = NewScoringService(f.tournaments, f.matches, f.ranks, f.predictions, f.users, f.groups)
	f.importer = NewImportService(f.tournaments, f.rounds, f.matches, f.teams, f.ranks, f.bracket)
	f.tournament = NewTournamentService(f.tournaments, f.rounds, f.matches, f.teams)
	f.group = NewGroupService(f.groups, f.tournaments, f.users)
	f.user = NewUserService(f.users)
	return f
}

func (f *fixture) createTournament(name string, year int) *models.Tournament {
	f.t.Helper()
	tournament := &models.Tournament{Name: name, Year: year}
	require.NoError(f.t, f.tournaments.Create(f.ctx, tournament))
	return tournament
}

func (f *fixture) createTeam(name string) *models.Team {
	f.t.Helper()
	team := &models.Team{Name: name}
	require.NoError(f.t, f.teams.Create(f.ctx, team))
	return team
}

func (f *fixture) createUser(username string) *models.User {
	f.t.Helper()
	user := &models.User{Username: username}
	require.NoError(f.t, f.users.Create(f.ctx, user))
	return user
}

func (f *fixture) createRound(tournamentID, number int) *models.Round {
	f.t.Helper()
	round, err := f.rounds.GetOrCreate(f.ctx, tournamentID, number)
	require.NoError(f.t, err)
	return round
}

func (f *fixture) createMatch(roundID, number int, team1, team2 *models.Team) *models.Match {
	f.t.Helper()
	match := &models.Match{RoundID: roundID, MatchNumber: number}
	if team1 != nil {
		id := team1.ID
		match.Team1ID = &id
	}
	if team2 != nil {
		id := team2.ID
		match.Team2ID = &id
	}
	require.NoError(f.t, f.matches.Create(f.ctx, match))
	return match
}

// seedFirstRound creates n round-one matches with 2n fresh teams and returns
// the teams in slot order.
func (f *fixture) seedFirstRound(tournamentID, n int) []*models.Team {
	f.t.Helper()
	round := f.createRound(tournamentID, 1)
	teams := make([]*models.Team, 0, 2*n)
	for i := 1; i <= n; i++ {
		team1 := f.createTeam(teamName(tournamentID, 2*i-1))
		team2 := f.createTeam(teamName(tournamentID, 2*i))
		f.createMatch(round.ID, i, team1, team2)
		teams = append(teams, team1, team2)
	}
	return teams
}

func teamName(tournamentID, n int) string {
	return fmt.Sprintf("Team %d-%d", tournamentID, n)
}
