package services

import "errors"

// Shared service-level errors, mapped to HTTP statuses and CLI exit messages
// by the callers.
var (
	// Not-found (caller error, surfaced)
	ErrTournamentNotFound = errors.New("tournament not found")
	ErrRoundNotFound      = errors.New("round not found")
	ErrMatchNotFound      = errors.New("match not found")
	ErrTeamNotFound       = errors.New("team not found")
	ErrUserNotFound       = errors.New("user not found")
	ErrGroupNotFound      = errors.New("group not found")
	ErrPredictionNotFound = errors.New("prediction not found")

	// Conflicts
	ErrTeamNameConflict       = errors.New("team name is already in use")
	ErrUsernameConflict       = errors.New("username is already in use")
	ErrTournamentYearConflict = errors.New("a tournament already exists for that year")
	ErrTeamRankConflict       = errors.New("that team or seed is already ranked for the year")
	ErrGroupNameConflict      = errors.New("group name already exists for this tournament")
	ErrGroupMemberConflict    = errors.New("user is already a member of this group")

	// Validation / business rules
	ErrNoRoundOneMatches = errors.New("tournament has no first-round matches to build from")
	ErrRoundStarted      = errors.New("predictions cannot be set or changed after the round has started")
	ErrVictorNotInMatch  = errors.New("victor must be one of the match's two teams")
	ErrGuessNotInChoices = errors.New("guess does not match any available team choice")
	ErrBadImportHeader   = errors.New("import file must start with a '<tournament name> <year>' header line")

	// Infrastructure
	ErrIconStorageUnavailable = errors.New("icon storage is not configured")
)
