package models

import (
	"time"

	"github.com/google/uuid"
)

// Team belongs to a project and has exactly one leader plus a roster of members.
// Once Confirmed is set the roster and leader are frozen.
type Team struct {
	ID        uuid.UUID `json:"id"`
	ProjectID uuid.UUID `json:"project_id"`
	LeaderID  uuid.UUID `json:"leader_id"`
	Confirmed bool      `json:"confirmed"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TeamMember links a user to a team's roster. The leader is tracked on
// the Team record, not here.
type TeamMember struct {
	TeamID   uuid.UUID `json:"team_id"`
	UserID   uuid.UUID `json:"user_id"`
	JoinedAt time.Time `json:"joined_at"`
}

// TeamDetail is a team with resolved leader and member profiles for listings.
type TeamDetail struct {
	Team
	Leader  UserPublic   `json:"leader"`
	Members []UserPublic `json:"members"`
}

// Size returns the headcount including the leader.
func (t *TeamDetail) Size() int {
	return 1 + len(t.Members)
}
