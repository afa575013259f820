package matching

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/teamup/backend/internal/models"
)

// Engine enforces the team-matching rules: when a project accepts
// participation, when teams may be created, how applicants flow into
// rosters, and when a team freezes. Every transition runs in a single
// store transaction; a rule violation rolls everything back.
//
// Dates are compared at day granularity against the server clock,
// never a client-supplied value.
type Engine struct {
	store  Store
	logger *zap.Logger
	now    func() time.Time
}

// NewEngine creates a matching engine.
func NewEngine(store Store, logger *zap.Logger) *Engine {
	return &Engine{store: store, logger: logger, now: time.Now}
}

// today returns the current date truncated to midnight UTC, matching
// the DATE columns on the project record.
func (e *Engine) today() time.Time {
	y, m, d := e.now().UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func withinWindow(day time.Time, p *models.Project) bool {
	return !day.Before(p.MatchingStart) && !day.After(p.MatchingEnd)
}

// ApplyToProject records the user's intent to participate. Allowed
// only strictly before the matching window opens, once per project.
func (e *Engine) ApplyToProject(ctx context.Context, userID, projectID uuid.UUID) (*models.Participation, error) {
	var part *models.Participation
	err := e.store.InTx(ctx, func(s Store) error {
		p, err := s.GetProject(ctx, projectID)
		if err != nil {
			return err
		}
		if !e.today().Before(p.MatchingStart) {
			return ErrOutOfWindow
		}
		if _, err := s.GetParticipation(ctx, userID, projectID); err == nil {
			return ErrAlreadyApplied
		} else if !errors.Is(err, ErrNotFound) {
			return err
		}
		part, err = s.CreateParticipation(ctx, userID, projectID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return part, nil
}

// CancelParticipation withdraws a participation. Once matching starts
// the participant is locked in.
func (e *Engine) CancelParticipation(ctx context.Context, userID, projectID uuid.UUID) error {
	return e.store.InTx(ctx, func(s Store) error {
		p, err := s.GetProject(ctx, projectID)
		if err != nil {
			return err
		}
		if !e.today().Before(p.MatchingStart) {
			return ErrWindowClosed
		}
		deleted, err := s.DeleteParticipation(ctx, userID, projectID)
		if err != nil {
			return err
		}
		if !deleted {
			return ErrNotFound
		}
		return nil
	})
}

// CreateTeam opens a new team led by the caller. Requires an active
// participation, no prior affiliation in the project, the matching
// window to be open, and the capacity policy to pass.
//
// Capacity policy: creation is refused once existing teams at minimum
// size already cover the participant count (teams*minSize >= participants).
// The first team is always allowed.
func (e *Engine) CreateTeam(ctx context.Context, userID, projectID uuid.UUID) (*models.Team, error) {
	var team *models.Team
	err := e.store.InTx(ctx, func(s Store) error {
		p, err := s.LockProject(ctx, projectID)
		if err != nil {
			return err
		}
		if !withinWindow(e.today(), p) {
			return ErrOutOfWindow
		}
		if _, err := s.GetParticipation(ctx, userID, projectID); err != nil {
			if errors.Is(err, ErrNotFound) {
				return ErrNotParticipant
			}
			return err
		}
		affiliated, err := s.HasAffiliation(ctx, userID, projectID)
		if err != nil {
			return err
		}
		if affiliated {
			return ErrAlreadyAffiliated
		}
		participants, err := s.CountParticipants(ctx, projectID)
		if err != nil {
			return err
		}
		teams, err := s.CountTeams(ctx, projectID)
		if err != nil {
			return err
		}
		if teams > 0 && teams*p.MinTeamSize >= participants {
			return ErrCapacityBlocked
		}
		team, err = s.CreateTeam(ctx, projectID, userID)
		return err
	})
	if err != nil {
		return nil, err
	}
	e.logger.Info("team created",
		zap.String("team_id", team.ID.String()),
		zap.String("project_id", projectID.String()),
		zap.String("leader_id", userID.String()))
	return team, nil
}

// ApplyToTeam files a pending request to join an open team. The
// applicant must be a participant of the project, unaffiliated with
// any of its teams, and not already pending on this team.
func (e *Engine) ApplyToTeam(ctx context.Context, userID, teamID uuid.UUID) (*models.Application, error) {
	var app *models.Application
	err := e.store.InTx(ctx, func(s Store) error {
		t, err := s.LockTeam(ctx, teamID)
		if err != nil {
			return err
		}
		if t.Confirmed {
			return ErrTeamConfirmed
		}
		p, err := s.GetProject(ctx, t.ProjectID)
		if err != nil {
			return err
		}
		roster, err := s.RosterSize(ctx, teamID)
		if err != nil {
			return err
		}
		if 1+roster >= p.MaxTeamSize {
			return ErrTeamFull
		}
		if _, err := s.GetApplication(ctx, userID, teamID); err == nil {
			return ErrDuplicateApplication
		} else if !errors.Is(err, ErrNotFound) {
			return err
		}
		affiliated, err := s.HasAffiliation(ctx, userID, t.ProjectID)
		if err != nil {
			return err
		}
		if affiliated {
			return ErrAlreadyAffiliated
		}
		if _, err := s.GetParticipation(ctx, userID, t.ProjectID); err != nil {
			if errors.Is(err, ErrNotFound) {
				return ErrNotParticipant
			}
			return err
		}
		app, err = s.CreateApplication(ctx, userID, teamID, t.ProjectID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return app, nil
}

// AcceptApplicant promotes a pending applicant into the roster and
// purges the applicant's other pending applications in the project, so
// reads never see requests that can no longer be honored.
func (e *Engine) AcceptApplicant(ctx context.Context, leaderID, teamID, applicantID uuid.UUID) (*models.Team, error) {
	var team *models.Team
	err := e.store.InTx(ctx, func(s Store) error {
		t, err := s.LockTeam(ctx, teamID)
		if err != nil {
			return err
		}
		if t.LeaderID != leaderID {
			return ErrNotLeader
		}
		if t.Confirmed {
			return ErrTeamConfirmed
		}
		p, err := s.GetProject(ctx, t.ProjectID)
		if err != nil {
			return err
		}
		roster, err := s.RosterSize(ctx, teamID)
		if err != nil {
			return err
		}
		if 1+roster >= p.MaxTeamSize {
			return ErrTeamFull
		}
		if _, err := s.GetApplication(ctx, applicantID, teamID); err != nil {
			return err
		}
		if err := s.AddMember(ctx, teamID, applicantID); err != nil {
			return err
		}
		if err := s.DeleteApplicationsByUserInProject(ctx, applicantID, t.ProjectID); err != nil {
			return err
		}
		team = t
		return nil
	})
	if err != nil {
		return nil, err
	}
	e.logger.Info("applicant accepted",
		zap.String("team_id", teamID.String()),
		zap.String("applicant_id", applicantID.String()))
	return team, nil
}

// RejectApplicant discards a pending application.
func (e *Engine) RejectApplicant(ctx context.Context, leaderID, teamID, applicantID uuid.UUID) (*models.Team, error) {
	var team *models.Team
	err := e.store.InTx(ctx, func(s Store) error {
		t, err := s.LockTeam(ctx, teamID)
		if err != nil {
			return err
		}
		if t.LeaderID != leaderID {
			return ErrNotLeader
		}
		deleted, err := s.DeleteApplication(ctx, applicantID, teamID)
		if err != nil {
			return err
		}
		if !deleted {
			return ErrNotFound
		}
		team = t
		return nil
	})
	if err != nil {
		return nil, err
	}
	return team, nil
}

// ConfirmTeam freezes the roster and leader permanently. Requires the
// minimum headcount (leader included). Pending applications targeting
// the team are purged in the same transaction.
func (e *Engine) ConfirmTeam(ctx context.Context, leaderID, teamID uuid.UUID) (*models.Team, error) {
	var team *models.Team
	err := e.store.InTx(ctx, func(s Store) error {
		t, err := s.LockTeam(ctx, teamID)
		if err != nil {
			return err
		}
		if t.LeaderID != leaderID {
			return ErrNotLeader
		}
		if t.Confirmed {
			return ErrAlreadyConfirmed
		}
		p, err := s.GetProject(ctx, t.ProjectID)
		if err != nil {
			return err
		}
		roster, err := s.RosterSize(ctx, teamID)
		if err != nil {
			return err
		}
		if 1+roster < p.MinTeamSize {
			return ErrBelowMinSize
		}
		if err := s.SetTeamConfirmed(ctx, teamID); err != nil {
			return err
		}
		if err := s.DeleteApplicationsByTeam(ctx, teamID); err != nil {
			return err
		}
		t.Confirmed = true
		team = t
		return nil
	})
	if err != nil {
		return nil, err
	}
	e.logger.Info("team confirmed", zap.String("team_id", teamID.String()))
	return team, nil
}

// LeaveTeam removes a roster member from an open team. The leader
// cannot leave; a confirmed team never changes.
func (e *Engine) LeaveTeam(ctx context.Context, userID, teamID uuid.UUID) (*models.Team, error) {
	var team *models.Team
	err := e.store.InTx(ctx, func(s Store) error {
		t, err := s.LockTeam(ctx, teamID)
		if err != nil {
			return err
		}
		if t.Confirmed {
			return ErrTeamConfirmed
		}
		if t.LeaderID == userID {
			return ErrLeaderCannotLeave
		}
		removed, err := s.RemoveMember(ctx, teamID, userID)
		if err != nil {
			return err
		}
		if !removed {
			return ErrNotAMember
		}
		team = t
		return nil
	})
	if err != nil {
		return nil, err
	}
	return team, nil
}

// ListOpenTeams returns the project's unconfirmed teams with leader
// and member profiles, oldest first.
func (e *Engine) ListOpenTeams(ctx context.Context, projectID uuid.UUID) ([]models.TeamDetail, error) {
	if _, err := e.store.GetProject(ctx, projectID); err != nil {
		return nil, err
	}
	return e.store.ListOpenTeams(ctx, projectID)
}

// ListApplicantsForLeader returns pending applications to teams the
// caller leads, each with the applicant's profile snapshot.
func (e *Engine) ListApplicantsForLeader(ctx context.Context, leaderID uuid.UUID) ([]models.ApplicationWithApplicant, error) {
	return e.store.ListApplicationsForLeader(ctx, leaderID)
}

// ListMyApplications returns the caller's pending applications with
// project and team context.
func (e *Engine) ListMyApplications(ctx context.Context, userID uuid.UUID) ([]models.ApplicationWithContext, error) {
	return e.store.ListApplicationsByUser(ctx, userID)
}
