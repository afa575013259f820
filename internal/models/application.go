package models

import (
	"time"

	"github.com/google/uuid"
)

// Application is a pending request from a user to join a specific open team.
// Unique per (user, team) while pending; resolved applications are deleted.
type Application struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	TeamID    uuid.UUID `json:"team_id"`
	ProjectID uuid.UUID `json:"project_id"`
	CreatedAt time.Time `json:"created_at"`
}

// ApplicationWithApplicant pairs a pending application with the
// applicant's profile snapshot, for the leader's review list.
type ApplicationWithApplicant struct {
	Application
	Applicant UserPublic `json:"applicant"`
}

// ApplicationWithContext pairs a pending application with project and
// team context, for the applicant's own list.
type ApplicationWithContext struct {
	Application
	ProjectName string `json:"project_name"`
	LeaderName  string `json:"leader_name"`
}
