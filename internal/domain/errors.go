package domain

import "errors"

// Domain errors
var (
	ErrMemberNotFound       = errors.New("member not found")
	ErrGroupNotFound        = errors.New("group not found")
	ErrSessionNotFound      = errors.New("session not found")
	ErrMatchNotFound        = errors.New("match not found")
	ErrRequestNotFound      = errors.New("join request not found")
	ErrInviteNotFound       = errors.New("invalid invite link")
	ErrInsufficientPlayers  = errors.New("not enough players to form two teams")
	ErrNoAttendees          = errors.New("no members checked in for this session")
	ErrInvalidTeamCount     = errors.New("team count exceeds the allowed maximum")
	ErrInvalidPeriod        = errors.New("invalid period: dates must be YYYY-MM-DD")
	ErrInvalidRequest       = errors.New("invalid request")
	ErrAlreadyMember        = errors.New("member already belongs to this group")
	ErrPendingRequestExists = errors.New("a pending join request already exists for this group")
	ErrInternalError        = errors.New("internal server error")
)

// IsNotFoundError checks if an error is a not-found type error
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrMemberNotFound) ||
		errors.Is(err, ErrGroupNotFound) ||
		errors.Is(err, ErrSessionNotFound) ||
		errors.Is(err, ErrMatchNotFound) ||
		errors.Is(err, ErrRequestNotFound) ||
		errors.Is(err, ErrInviteNotFound)
}

// IsValidationError checks if an error was caused by bad caller input
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidRequest) ||
		errors.Is(err, ErrInvalidPeriod) ||
		errors.Is(err, ErrInvalidTeamCount) ||
		errors.Is(err, ErrInsufficientPlayers) ||
		errors.Is(err, ErrNoAttendees)
}

// IsConflictError checks if an error conflicts with existing state
func IsConflictError(err error) bool {
	return errors.Is(err, ErrAlreadyMember) || errors.Is(err, ErrPendingRequestExists)
}
