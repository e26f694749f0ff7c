package models

// BracketRound is one round with its matches, for the full-bracket view.
type BracketRound struct {
	Round   Round   `json:"round"`
	Matches []Match `json:"matches"`
}

type Bracket struct {
	Tournament Tournament     `json:"tournament"`
	Rounds     []BracketRound `json:"rounds"`
	Teams      []Team         `json:"teams"`
}
