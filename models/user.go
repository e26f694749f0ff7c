package models

import "time"

// User is reference data only; authentication lives outside this system and
// callers identify users by ID.
type User struct {
	ID        int       `json:"id" db:"id"`
	Username  string    `json:"username" db:"username"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
