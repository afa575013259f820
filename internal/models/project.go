package models

import (
	"time"

	"github.com/google/uuid"
)

// Project represents a competition participants form teams around.
// All dates are day-granular; the matching window is [MatchingStart, MatchingEnd].
type Project struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	Organizer     string    `json:"organizer"`
	ApplyDeadline time.Time `json:"apply_deadline"`
	MatchingStart time.Time `json:"matching_start"`
	MatchingEnd   time.Time `json:"matching_end"`
	MinTeamSize   int       `json:"min_team_size"`
	MaxTeamSize   int       `json:"max_team_size"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Participation records a user's declared intent to join a project,
// independent of any team. Unique per (user, project).
type Participation struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	ProjectID uuid.UUID `json:"project_id"`
	CreatedAt time.Time `json:"created_at"`
}
