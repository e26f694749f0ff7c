package models

// UserPrediction is one user's guess for one match, unique per (user, match).
// Editable only while the owning round has not started.
type UserPrediction struct {
	ID      int `json:"id" db:"id"`
	UserID  int `json:"user_id" db:"user_id"`
	MatchID int `json:"match_id" db:"match_id"`
	GuessID int `json:"guess_id" db:"guess_id"`

	Team1Score *int `json:"team1_score,omitempty" db:"team1_score"`
	Team2Score *int `json:"team2_score,omitempty" db:"team2_score"`

	Match *Match `json:"match,omitempty" db:"-"`
	Guess *Team  `json:"guess,omitempty" db:"-"`
}

// GuessedRight reports whether the guess matched the victor.
// Returns false, false while the match is undecided.
func (p UserPrediction) GuessedRight() (right bool, decided bool) {
	if p.Match == nil || p.Match.VictorID == nil {
		return false, false
	}
	return *p.Match.VictorID == p.GuessID, true
}
