package matching

import (
	"errors"
	"net/http"
)

// Domain rule violations. Every engine operation validates before any
// mutation and surfaces exactly one of these; a failed operation
// leaves all ledgers unchanged.
var (
	ErrNotFound             = errors.New("record not found")
	ErrOutOfWindow          = errors.New("outside the allowed date window")
	ErrWindowClosed         = errors.New("matching window already started")
	ErrAlreadyApplied       = errors.New("already applied to this project")
	ErrDuplicateApplication = errors.New("already applied to this team")
	ErrAlreadyAffiliated    = errors.New("already in a team for this project")
	ErrNotParticipant       = errors.New("not a participant of this project")
	ErrCapacityBlocked      = errors.New("existing teams already cover participant demand")
	ErrTeamFull             = errors.New("team is at maximum size")
	ErrTeamConfirmed        = errors.New("team is confirmed and frozen")
	ErrAlreadyConfirmed     = errors.New("team is already confirmed")
	ErrBelowMinSize         = errors.New("team is below minimum size")
	ErrNotLeader            = errors.New("only the team leader may do this")
	ErrLeaderCannotLeave    = errors.New("the leader cannot leave the team")
	ErrNotAMember           = errors.New("not a member of this team")
)

// HTTPStatus maps a domain error to its HTTP status code.
// Unknown errors map to 500.
func HTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrNotLeader),
		errors.Is(err, ErrLeaderCannotLeave),
		errors.Is(err, ErrNotAMember),
		errors.Is(err, ErrNotParticipant):
		return http.StatusForbidden
	case errors.Is(err, ErrOutOfWindow),
		errors.Is(err, ErrWindowClosed),
		errors.Is(err, ErrAlreadyApplied),
		errors.Is(err, ErrDuplicateApplication),
		errors.Is(err, ErrAlreadyAffiliated),
		errors.Is(err, ErrCapacityBlocked),
		errors.Is(err, ErrTeamFull),
		errors.Is(err, ErrTeamConfirmed),
		errors.Is(err, ErrAlreadyConfirmed),
		errors.Is(err, ErrBelowMinSize):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
