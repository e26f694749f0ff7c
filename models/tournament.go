package models

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

type Tournament struct {
	ID        int       `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Year      int       `json:"year" db:"year"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// DisplayName returns "Name Year" unless the year is already part of the name.
func (t Tournament) DisplayName() string {
	if strings.Contains(t.Name, strconv.Itoa(t.Year)) {
		return t.Name
	}
	return fmt.Sprintf("%s %d", t.Name, t.Year)
}
