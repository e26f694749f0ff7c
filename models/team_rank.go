package models

// TeamRank is a team's seed within one year's bracket. A team has at most one
// seed per year and a seed belongs to at most one team per year.
type TeamRank struct {
	ID     int `json:"id" db:"id"`
	Year   int `json:"year" db:"year"`
	TeamID int `json:"team_id" db:"team_id"`
	Seed   int `json:"seed" db:"seed"`

	Team *Team `json:"team,omitempty" db:"-"`
}
