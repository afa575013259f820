package matching

import (
	"context"

	"github.com/google/uuid"

	"github.com/teamup/backend/internal/models"
)

// Store is the persistence contract for the matching engine.
//
// Lookups return ErrNotFound for missing records. InTx runs fn against
// a transaction-scoped Store; lock methods take a row lock that lasts
// until the transaction ends, so size checks and roster mutations are
// applied atomically.
type Store interface {
	InTx(ctx context.Context, fn func(Store) error) error

	GetProject(ctx context.Context, id uuid.UUID) (*models.Project, error)
	// LockProject locks the project row, serializing team creation and
	// capacity checks within one project.
	LockProject(ctx context.Context, id uuid.UUID) (*models.Project, error)

	GetParticipation(ctx context.Context, userID, projectID uuid.UUID) (*models.Participation, error)
	CreateParticipation(ctx context.Context, userID, projectID uuid.UUID) (*models.Participation, error)
	DeleteParticipation(ctx context.Context, userID, projectID uuid.UUID) (bool, error)
	CountParticipants(ctx context.Context, projectID uuid.UUID) (int, error)
	CountTeams(ctx context.Context, projectID uuid.UUID) (int, error)

	GetTeam(ctx context.Context, id uuid.UUID) (*models.Team, error)
	// LockTeam locks the team row so confirmation, acceptance and
	// departure serialize per team.
	LockTeam(ctx context.Context, id uuid.UUID) (*models.Team, error)
	CreateTeam(ctx context.Context, projectID, leaderID uuid.UUID) (*models.Team, error)
	SetTeamConfirmed(ctx context.Context, teamID uuid.UUID) error
	RosterSize(ctx context.Context, teamID uuid.UUID) (int, error)
	// HasAffiliation reports whether the user is leader or member of
	// any team in the project.
	HasAffiliation(ctx context.Context, userID, projectID uuid.UUID) (bool, error)
	AddMember(ctx context.Context, teamID, userID uuid.UUID) error
	RemoveMember(ctx context.Context, teamID, userID uuid.UUID) (bool, error)

	GetApplication(ctx context.Context, userID, teamID uuid.UUID) (*models.Application, error)
	CreateApplication(ctx context.Context, userID, teamID, projectID uuid.UUID) (*models.Application, error)
	DeleteApplication(ctx context.Context, userID, teamID uuid.UUID) (bool, error)
	DeleteApplicationsByUserInProject(ctx context.Context, userID, projectID uuid.UUID) error
	DeleteApplicationsByTeam(ctx context.Context, teamID uuid.UUID) error

	ListOpenTeams(ctx context.Context, projectID uuid.UUID) ([]models.TeamDetail, error)
	ListApplicationsForLeader(ctx context.Context, leaderID uuid.UUID) ([]models.ApplicationWithApplicant, error)
	ListApplicationsByUser(ctx context.Context, userID uuid.UUID) ([]models.ApplicationWithContext, error)
}
