package models

import "errors"

var (
	// Missing or foreign entities.
	ErrUserNotFound    = errors.New("user not found")
	ErrProjectNotFound = errors.New("project not found")
	ErrSprintNotFound  = errors.New("sprint not found")
	ErrIssueNotFound   = errors.New("issue not found")

	// Identity and permission failures.
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")

	// ErrValidation marks malformed input; wrap it with field detail.
	ErrValidation = errors.New("validation failed")

	// Sprint lifecycle violations.
	ErrSprintDateRange     = errors.New("cannot start sprint outside of its date range")
	ErrSprintNotActive     = errors.New("can only complete an active sprint")
	ErrSprintNotPlanned    = errors.New("only planned sprints can be deleted")
	ErrInvalidTransition   = errors.New("invalid sprint status transition")
	ErrDuplicateSprintName = errors.New("sprint name already taken")

	// Board move guards.
	ErrBoardNotStarted = errors.New("start the sprint to update the board")
	ErrBoardCompleted  = errors.New("sprint is already completed")

	// ErrPersistence marks a failed transactional batch; the caller recovers
	// by re-fetching authoritative state, never by per-row repair.
	ErrPersistence = errors.New("persistence failure")
)

// IsStateTransition reports whether err belongs to the sprint/board state
// machine family of failures.
func IsStateTransition(err error) bool {
	return errors.Is(err, ErrSprintDateRange) ||
		errors.Is(err, ErrSprintNotActive) ||
		errors.Is(err, ErrSprintNotPlanned) ||
		errors.Is(err, ErrInvalidTransition) ||
		errors.Is(err, ErrBoardNotStarted) ||
		errors.Is(err, ErrBoardCompleted)
}

// IsNotFound reports whether err is any of the missing-entity sentinels.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrUserNotFound) ||
		errors.Is(err, ErrProjectNotFound) ||
		errors.Is(err, ErrSprintNotFound) ||
		errors.Is(err, ErrIssueNotFound)
}
