package models

import "time"

// Round is one tier of the elimination tree. Round 1 holds the most matches,
// the highest round number holds exactly one (the final).
type Round struct {
	ID           int        `json:"id" db:"id"`
	TournamentID int        `json:"tournament_id" db:"tournament_id"`
	RoundNumber  int        `json:"round_number" db:"round_number"`
	Name         string     `json:"name" db:"name"`
	StartDate    *time.Time `json:"start_date,omitempty" db:"start_date"`
	EndDate      *time.Time `json:"end_date,omitempty" db:"end_date"`
}

// Started reports whether prediction edits for this round are closed.
// A round with no start date never closes.
func (r Round) Started(now time.Time) bool {
	return r.StartDate != nil && !r.StartDate.After(now)
}
