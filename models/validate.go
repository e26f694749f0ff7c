package models

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidYear   = errors.New("year must be 4 digits and not before 2000")
	ErrInvalidNumber = errors.New("round and match numbers must be 1 or greater")
)

// ValidateYear accepts four-digit years from 2000 on.
func ValidateYear(year int) error {
	if year < 2000 || year > 9999 {
		return fmt.Errorf("%w: got %d", ErrInvalidYear, year)
	}
	return nil
}

// ValidatePositionNumber accepts 1-based round and match numbers.
func ValidatePositionNumber(n int) error {
	if n < 1 {
		return fmt.Errorf("%w: got %d", ErrInvalidNumber, n)
	}
	return nil
}
