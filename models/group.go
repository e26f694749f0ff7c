package models

// Group is a named set of users within a tournament, used for aggregate
// scoring display.
type Group struct {
	ID           int    `json:"id" db:"id"`
	TournamentID int    `json:"tournament_id" db:"tournament_id"`
	Name         string `json:"name" db:"name"`
	CaptainID    int    `json:"captain_id" db:"captain_id"`

	Members []User `json:"members,omitempty" db:"-"`
}
