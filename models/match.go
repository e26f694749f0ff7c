package models

import "time"

// Match is one node of the bracket tree. Matches are addressed by
// (tournament, round_number, match_number): match m of round r is fed by
// matches 2m-1 and 2m of round r-1 and feeds match ceil(m/2) of round r+1.
type Match struct {
	ID          int        `json:"id" db:"id"`
	RoundID     int        `json:"round_id" db:"round_id"`
	MatchNumber int        `json:"match_number" db:"match_number"`
	Date        *time.Time `json:"date,omitempty" db:"date"`

	Team1ID    *int `json:"team1_id,omitempty" db:"team1_id"`
	Team2ID    *int `json:"team2_id,omitempty" db:"team2_id"`
	Team1Score *int `json:"team1_score,omitempty" db:"team1_score"`
	Team2Score *int `json:"team2_score,omitempty" db:"team2_score"`
	VictorID   *int `json:"victor_id,omitempty" db:"victor_id"`

	// TournamentValue is the points awarded for correctly predicting this
	// match. Assigned once a victor is known and both teams are seeded.
	TournamentValue int `json:"tournament_value" db:"tournament_value"`

	Round *Round `json:"round,omitempty" db:"-"`
	Team1 *Team  `json:"team1,omitempty" db:"-"`
	Team2 *Team  `json:"team2,omitempty" db:"-"`
}

// HasBothTeams reports whether both slots are confirmed.
func (m Match) HasBothTeams() bool {
	return m.Team1ID != nil && m.Team2ID != nil
}

// LoserID returns the non-victor slot, or nil when the match is not decided
// or the other slot is still open.
func (m Match) LoserID() *int {
	if m.VictorID == nil {
		return nil
	}
	if m.Team1ID != nil && *m.Team1ID == *m.VictorID {
		return m.Team2ID
	}
	if m.Team2ID != nil && *m.Team2ID == *m.VictorID {
		return m.Team1ID
	}
	return nil
}
