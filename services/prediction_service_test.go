package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkearsley/madness-pool/models"
)

func teamNames(teams []models.Team) []string {
	names := make([]string, len(teams))
	for i, team := range teams {
		names[i] = team.Name
	}
	return names
}

func seededNames(teams []*models.Team) []string {
	names := make([]string, len(teams))
	for i, team := range teams {
		names[i] = team.Name
	}
	return names
}

func TestTeamChoicesBothConfirmed(t *testing.T) {
	f := newFixture(t)
	tournament := f.createTournament("Midwest Regional", 2024)
	teams := f.seedFirstRound(tournament.ID, 2)
	user := f.createUser("alice")

	match, err := f.matches.GetByPosition(f.ctx, tournament.ID, 1, 1)
	require.NoError(t, err)

	choices, err := f.prediction.TeamChoices(f.ctx, match.ID, user.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{teams[0].Name, teams[1].Name}, teamNames(choices))
}

func TestTeamChoicesFallsBackToFullPool(t *testing.T) {
	f := newFixture(t)
	tournament := f.createTournament("Midwest Regional", 2024)
	f.seedFirstRound(tournament.ID, 2)
	user := f.createUser("alice")

	// A round-two match with unbuilt parents for neither side would need the
	// pool; here parents exist, so build the bracket but ask about a match
	// whose round-one feeders are beyond the known tree.
	round3 := f.createRound(tournament.ID, 3)
	orphan := f.createMatch(round3.ID, 1, nil, nil)

	choices, err := f.prediction.TeamChoices(f.ctx, orphan.ID, user.ID)
	require.NoError(t, err)
	// Both sides fall back to the whole pool of 4 teams.
	assert.Len(t, choices, 8)
}

func TestTeamChoicesRecursesThroughOpenParents(t *testing.T) {
	f := newFixture(t)
	tournament := f.createTournament("Midwest Regional", 2024)
	teams := f.seedFirstRound(tournament.ID, 4)
	require.NoError(t, f.bracket.BuildBracket(f.ctx, tournament.ID))
	user := f.createUser("alice")

	final, err := f.matches.GetByPosition(f.ctx, tournament.ID, 3, 1)
	require.NoError(t, err)

	choices, err := f.prediction.TeamChoices(f.ctx, final.ID, user.ID)
	require.NoError(t, err)
	// Undecided all the way down: every entered team is still reachable.
	assert.ElementsMatch(t, seededNames(teams), teamNames(choices))
}

func TestTeamChoicesHonorsOwnParentPrediction(t *testing.T) {
	f := newFixture(t)
	tournament := f.createTournament("Midwest Regional", 2024)
	teams := f.seedFirstRound(tournament.ID, 2)
	require.NoError(t, f.bracket.BuildBracket(f.ctx, tournament.ID))
	alice := f.createUser("alice")
	bob := f.createUser("bob")

	parent, err := f.matches.GetByPosition(f.ctx, tournament.ID, 1, 1)
	require.NoError(t, err)
	_, err = f.prediction.SubmitPrediction(f.ctx, SubmitPredictionInput{
		UserID: alice.ID, MatchID: parent.ID, GuessID: teams[0].ID,
	})
	require.NoError(t, err)

	final, err := f.matches.GetByPosition(f.ctx, tournament.ID, 2, 1)
	require.NoError(t, err)

	// Alice's side-one choice collapses to her own guess.
	choices, err := f.prediction.TeamChoices(f.ctx, final.ID, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{teams[0].Name, teams[2].Name, teams[3].Name}, teamNames(choices))

	// Bob has no prediction, so his side one stays wide open.
	choices, err = f.prediction.TeamChoices(f.ctx, final.ID, bob.ID)
	require.NoError(t, err)
	assert.Len(t, choices, 4)
}

func TestTeamChoicesConfirmedSlotBeatsPrediction(t *testing.T) {
	f := newFixture(t)
	tournament := f.createTournament("Midwest Regional", 2024)
	teams := f.seedFirstRound(tournament.ID, 2)
	require.NoError(t, f.bracket.BuildBracket(f.ctx, tournament.ID))
	alice := f.createUser("alice")

	parent, err := f.matches.GetByPosition(f.ctx, tournament.ID, 1, 1)
	require.NoError(t, err)
	_, err = f.prediction.SubmitPrediction(f.ctx, SubmitPredictionInput{
		UserID: alice.ID, MatchID: parent.ID, GuessID: teams[0].ID,
	})
	require.NoError(t, err)

	// Reality disagrees with Alice: team two wins and advances.
	_, err = f.match.SetResult(f.ctx, parent.ID, MatchResult{VictorID: teams[1].ID})
	require.NoError(t, err)

	final, err := f.matches.GetByPosition(f.ctx, tournament.ID, 2, 1)
	require.NoError(t, err)
	choices, err := f.prediction.TeamChoices(f.ctx, final.ID, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, teams[1].Name, choices[0].Name, "a confirmed team overrides the stale guess")
}

func TestSubmitPredictionUpserts(t *testing.T) {
	f := newFixture(t)
	tournament := f.createTournament("Midwest Regional", 2024)
	teams := f.seedFirstRound(tournament.ID, 2)
	user := f.createUser("alice")

	match, err := f.matches.GetByPosition(f.ctx, tournament.ID, 1, 1)
	require.NoError(t, err)

	first, err := f.prediction.SubmitPrediction(f.ctx, SubmitPredictionInput{
		UserID: user.ID, MatchID: match.ID, GuessID: teams[0].ID,
	})
	require.NoError(t, err)

	second, err := f.prediction.SubmitPrediction(f.ctx, SubmitPredictionInput{
		UserID: user.ID, MatchID: match.ID, GuessID: teams[1].ID,
	})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID, "resubmitting replaces, not duplicates")
	assert.Equal(t, teams[1].ID, second.GuessID)
}

func TestSubmitPredictionResolvesNames(t *testing.T) {
	f := newFixture(t)
	tournament := f.createTournament("Midwest Regional", 2024)
	round := f.createRound(tournament.ID, 1)
	kansas := f.createTeam("Kansas Jayhawks")
	duke := f.createTeam("Duke Blue Devils")
	match := f.createMatch(round.ID, 1, kansas, duke)
	user := f.createUser("alice")

	// Exact case-insensitive name.
	p, err := f.prediction.SubmitPrediction(f.ctx, SubmitPredictionInput{
		UserID: user.ID, MatchID: match.ID, Guess: "duke blue devils",
	})
	require.NoError(t, err)
	assert.Equal(t, duke.ID, p.GuessID)

	// Fuzzy partial.
	p, err = f.prediction.SubmitPrediction(f.ctx, SubmitPredictionInput{
		UserID: user.ID, MatchID: match.ID, Guess: "kansas",
	})
	require.NoError(t, err)
	assert.Equal(t, kansas.ID, p.GuessID)

	// Nonsense.
	_, err = f.prediction.SubmitPrediction(f.ctx, SubmitPredictionInput{
		UserID: user.ID, MatchID: match.ID, Guess: "zzzzqqq",
	})
	assert.ErrorIs(t, err, ErrGuessNotInChoices)
}

func TestSubmitPredictionRejectsTeamOutsideChoices(t *testing.T) {
	f := newFixture(t)
	tournament := f.createTournament("Midwest Regional", 2024)
	teams := f.seedFirstRound(tournament.ID, 2)
	user := f.createUser("alice")

	match, err := f.matches.GetByPosition(f.ctx, tournament.ID, 1, 1)
	require.NoError(t, err)

	// teams[2] plays in match 2, not match 1.
	_, err = f.prediction.SubmitPrediction(f.ctx, SubmitPredictionInput{
		UserID: user.ID, MatchID: match.ID, GuessID: teams[2].ID,
	})
	assert.ErrorIs(t, err, ErrGuessNotInChoices)
}

func TestSubmitPredictionClosedRound(t *testing.T) {
	f := newFixture(t)
	tournament := f.createTournament("Midwest Regional", 2024)
	teams := f.seedFirstRound(tournament.ID, 2)
	user := f.createUser("alice")

	round, err := f.rounds.GetByNumber(f.ctx, tournament.ID, 1)
	require.NoError(t, err)
	start := time.Now().Add(-time.Hour)
	round.StartDate = &start
	require.NoError(t, f.rounds.UpdateDates(f.ctx, round))

	match, err := f.matches.GetByPosition(f.ctx, tournament.ID, 1, 1)
	require.NoError(t, err)

	_, err = f.prediction.SubmitPrediction(f.ctx, SubmitPredictionInput{
		UserID: user.ID, MatchID: match.ID, GuessID: teams[0].ID,
	})
	assert.ErrorIs(t, err, ErrRoundStarted)
}

func TestSubmitPredictionFutureRoundStillOpen(t *testing.T) {
	f := newFixture(t)
	tournament := f.createTournament("Midwest Regional", 2024)
	teams := f.seedFirstRound(tournament.ID, 2)
	user := f.createUser("alice")

	round, err := f.rounds.GetByNumber(f.ctx, tournament.ID, 1)
	require.NoError(t, err)
	start := time.Now().Add(time.Hour)
	round.StartDate = &start
	require.NoError(t, f.rounds.UpdateDates(f.ctx, round))

	match, err := f.matches.GetByPosition(f.ctx, tournament.ID, 1, 1)
	require.NoError(t, err)

	_, err = f.prediction.SubmitPrediction(f.ctx, SubmitPredictionInput{
		UserID: user.ID, MatchID: match.ID, GuessID: teams[0].ID,
	})
	assert.NoError(t, err)
}
