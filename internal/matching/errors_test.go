package matching

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{ErrNotFound, http.StatusNotFound},
		{ErrOutOfWindow, http.StatusConflict},
		{ErrWindowClosed, http.StatusConflict},
		{ErrNotLeader, http.StatusForbidden},
		{ErrLeaderCannotLeave, http.StatusForbidden},
		{ErrAlreadyApplied, http.StatusConflict},
		{ErrDuplicateApplication, http.StatusConflict},
		{ErrAlreadyAffiliated, http.StatusConflict},
		{ErrNotParticipant, http.StatusForbidden},
		{ErrCapacityBlocked, http.StatusConflict},
		{ErrTeamFull, http.StatusConflict},
		{ErrTeamConfirmed, http.StatusConflict},
		{ErrAlreadyConfirmed, http.StatusConflict},
		{ErrBelowMinSize, http.StatusConflict},
		{ErrNotAMember, http.StatusForbidden},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			require.Equal(t, tt.want, HTTPStatus(tt.err))
		})
	}
}

func TestHTTPStatusUnwrapsWrappedErrors(t *testing.T) {
	wrapped := fmt.Errorf("confirm team: %w", ErrTeamConfirmed)
	require.Equal(t, http.StatusConflict, HTTPStatus(wrapped))
}
