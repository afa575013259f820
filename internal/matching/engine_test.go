package matching

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/teamup/backend/internal/models"
)

// memStore is an in-memory Store for engine tests. Transactions are
// flat: the engine validates before mutating, so rollback is a no-op.
type memStore struct {
	projects       map[uuid.UUID]*models.Project
	participations map[[2]uuid.UUID]*models.Participation // [user, project]
	teams          map[uuid.UUID]*models.Team
	members        map[uuid.UUID][]uuid.UUID // team -> users
	applications   map[[2]uuid.UUID]*models.Application // [user, team]
}

func newMemStore() *memStore {
	return &memStore{
		projects:       make(map[uuid.UUID]*models.Project),
		participations: make(map[[2]uuid.UUID]*models.Participation),
		teams:          make(map[uuid.UUID]*models.Team),
		members:        make(map[uuid.UUID][]uuid.UUID),
		applications:   make(map[[2]uuid.UUID]*models.Application),
	}
}

func (m *memStore) InTx(ctx context.Context, fn func(Store) error) error { return fn(m) }

func (m *memStore) GetProject(_ context.Context, id uuid.UUID) (*models.Project, error) {
	if p, ok := m.projects[id]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, ErrNotFound
}

func (m *memStore) LockProject(ctx context.Context, id uuid.UUID) (*models.Project, error) {
	return m.GetProject(ctx, id)
}

func (m *memStore) GetParticipation(_ context.Context, userID, projectID uuid.UUID) (*models.Participation, error) {
	if p, ok := m.participations[[2]uuid.UUID{userID, projectID}]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, ErrNotFound
}

func (m *memStore) CreateParticipation(_ context.Context, userID, projectID uuid.UUID) (*models.Participation, error) {
	p := &models.Participation{ID: uuid.New(), UserID: userID, ProjectID: projectID, CreatedAt: time.Now()}
	m.participations[[2]uuid.UUID{userID, projectID}] = p
	return p, nil
}

func (m *memStore) DeleteParticipation(_ context.Context, userID, projectID uuid.UUID) (bool, error) {
	key := [2]uuid.UUID{userID, projectID}
	if _, ok := m.participations[key]; !ok {
		return false, nil
	}
	delete(m.participations, key)
	return true, nil
}

func (m *memStore) CountParticipants(_ context.Context, projectID uuid.UUID) (int, error) {
	n := 0
	for _, p := range m.participations {
		if p.ProjectID == projectID {
			n++
		}
	}
	return n, nil
}

func (m *memStore) CountTeams(_ context.Context, projectID uuid.UUID) (int, error) {
	n := 0
	for _, t := range m.teams {
		if t.ProjectID == projectID {
			n++
		}
	}
	return n, nil
}

func (m *memStore) GetTeam(_ context.Context, id uuid.UUID) (*models.Team, error) {
	if t, ok := m.teams[id]; ok {
		cp := *t
		return &cp, nil
	}
	return nil, ErrNotFound
}

func (m *memStore) LockTeam(ctx context.Context, id uuid.UUID) (*models.Team, error) {
	return m.GetTeam(ctx, id)
}

func (m *memStore) CreateTeam(_ context.Context, projectID, leaderID uuid.UUID) (*models.Team, error) {
	t := &models.Team{ID: uuid.New(), ProjectID: projectID, LeaderID: leaderID, CreatedAt: time.Now()}
	m.teams[t.ID] = t
	return t, nil
}

func (m *memStore) SetTeamConfirmed(_ context.Context, teamID uuid.UUID) error {
	m.teams[teamID].Confirmed = true
	return nil
}

func (m *memStore) RosterSize(_ context.Context, teamID uuid.UUID) (int, error) {
	return len(m.members[teamID]), nil
}

func (m *memStore) HasAffiliation(_ context.Context, userID, projectID uuid.UUID) (bool, error) {
	for id, t := range m.teams {
		if t.ProjectID != projectID {
			continue
		}
		if t.LeaderID == userID {
			return true, nil
		}
		for _, member := range m.members[id] {
			if member == userID {
				return true, nil
			}
		}
	}
	return false, nil
}

func (m *memStore) AddMember(_ context.Context, teamID, userID uuid.UUID) error {
	m.members[teamID] = append(m.members[teamID], userID)
	return nil
}

func (m *memStore) RemoveMember(_ context.Context, teamID, userID uuid.UUID) (bool, error) {
	roster := m.members[teamID]
	for i, member := range roster {
		if member == userID {
			m.members[teamID] = append(roster[:i], roster[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (m *memStore) GetApplication(_ context.Context, userID, teamID uuid.UUID) (*models.Application, error) {
	if a, ok := m.applications[[2]uuid.UUID{userID, teamID}]; ok {
		cp := *a
		return &cp, nil
	}
	return nil, ErrNotFound
}

func (m *memStore) CreateApplication(_ context.Context, userID, teamID, projectID uuid.UUID) (*models.Application, error) {
	a := &models.Application{ID: uuid.New(), UserID: userID, TeamID: teamID, ProjectID: projectID, CreatedAt: time.Now()}
	m.applications[[2]uuid.UUID{userID, teamID}] = a
	return a, nil
}

func (m *memStore) DeleteApplication(_ context.Context, userID, teamID uuid.UUID) (bool, error) {
	key := [2]uuid.UUID{userID, teamID}
	if _, ok := m.applications[key]; !ok {
		return false, nil
	}
	delete(m.applications, key)
	return true, nil
}

func (m *memStore) DeleteApplicationsByUserInProject(_ context.Context, userID, projectID uuid.UUID) error {
	for key, a := range m.applications {
		if a.UserID == userID && a.ProjectID == projectID {
			delete(m.applications, key)
		}
	}
	return nil
}

func (m *memStore) DeleteApplicationsByTeam(_ context.Context, teamID uuid.UUID) error {
	for key, a := range m.applications {
		if a.TeamID == teamID {
			delete(m.applications, key)
		}
	}
	return nil
}

func (m *memStore) ListOpenTeams(_ context.Context, projectID uuid.UUID) ([]models.TeamDetail, error) {
	var list []models.TeamDetail
	for id, t := range m.teams {
		if t.ProjectID != projectID || t.Confirmed {
			continue
		}
		d := models.TeamDetail{Team: *t, Leader: models.UserPublic{ID: t.LeaderID}}
		for _, member := range m.members[id] {
			d.Members = append(d.Members, models.UserPublic{ID: member})
		}
		list = append(list, d)
	}
	return list, nil
}

func (m *memStore) ListApplicationsForLeader(_ context.Context, leaderID uuid.UUID) ([]models.ApplicationWithApplicant, error) {
	var list []models.ApplicationWithApplicant
	for _, a := range m.applications {
		t := m.teams[a.TeamID]
		if t != nil && t.LeaderID == leaderID && !t.Confirmed {
			list = append(list, models.ApplicationWithApplicant{Application: *a, Applicant: models.UserPublic{ID: a.UserID}})
		}
	}
	return list, nil
}

func (m *memStore) ListApplicationsByUser(_ context.Context, userID uuid.UUID) ([]models.ApplicationWithContext, error) {
	var list []models.ApplicationWithContext
	for _, a := range m.applications {
		if a.UserID == userID {
			list = append(list, models.ApplicationWithContext{Application: *a})
		}
	}
	return list, nil
}

// test fixture helpers

func date(s string) time.Time {
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return d
}

func newTestEngine(store Store, today string) *Engine {
	e := NewEngine(store, zap.NewNop())
	e.now = func() time.Time { return date(today) }
	return e
}

func addProject(m *memStore, minSize, maxSize int) *models.Project {
	p := &models.Project{
		ID:            uuid.New(),
		Name:          "Hackathon 2025",
		MatchingStart: date("2025-07-01"),
		MatchingEnd:   date("2025-07-15"),
		MinTeamSize:   minSize,
		MaxTeamSize:   maxSize,
	}
	m.projects[p.ID] = p
	return p
}

func addParticipant(m *memStore, projectID uuid.UUID) uuid.UUID {
	userID := uuid.New()
	m.participations[[2]uuid.UUID{userID, projectID}] = &models.Participation{
		ID: uuid.New(), UserID: userID, ProjectID: projectID,
	}
	return userID
}

func TestApplyToProjectWindowEnforcement(t *testing.T) {
	tests := []struct {
		name    string
		today   string
		wantErr error
	}{
		{"before window start", "2025-06-30", nil},
		{"on window start", "2025-07-01", ErrOutOfWindow},
		{"inside window", "2025-07-05", ErrOutOfWindow},
		{"after window end", "2025-07-20", ErrOutOfWindow},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newMemStore()
			project := addProject(store, 2, 3)
			eng := newTestEngine(store, tt.today)

			part, err := eng.ApplyToProject(context.Background(), uuid.New(), project.ID)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				require.Nil(t, part)
				return
			}
			require.NoError(t, err)
			require.Equal(t, project.ID, part.ProjectID)
		})
	}
}

func TestApplyToProjectRejectsDuplicate(t *testing.T) {
	store := newMemStore()
	project := addProject(store, 2, 3)
	eng := newTestEngine(store, "2025-06-01")
	userID := uuid.New()

	_, err := eng.ApplyToProject(context.Background(), userID, project.ID)
	require.NoError(t, err)

	_, err = eng.ApplyToProject(context.Background(), userID, project.ID)
	require.ErrorIs(t, err, ErrAlreadyApplied)
}

func TestApplyToProjectUnknownProject(t *testing.T) {
	eng := newTestEngine(newMemStore(), "2025-06-01")
	_, err := eng.ApplyToProject(context.Background(), uuid.New(), uuid.New())
	require.ErrorIs(t, err, ErrNotFound)
}

func TestCancelParticipationSymmetry(t *testing.T) {
	store := newMemStore()
	project := addProject(store, 2, 3)
	eng := newTestEngine(store, "2025-06-01")
	userID := uuid.New()

	_, err := eng.ApplyToProject(context.Background(), userID, project.ID)
	require.NoError(t, err)
	require.Len(t, store.participations, 1)

	// apply then cancel on the same day restores the ledger
	require.NoError(t, eng.CancelParticipation(context.Background(), userID, project.ID))
	require.Empty(t, store.participations)

	// re-applying after the window opened is refused
	late := newTestEngine(store, "2025-07-02")
	_, err = late.ApplyToProject(context.Background(), userID, project.ID)
	require.ErrorIs(t, err, ErrOutOfWindow)
}

func TestCancelParticipationAfterWindowStart(t *testing.T) {
	store := newMemStore()
	project := addProject(store, 2, 3)
	userID := addParticipant(store, project.ID)

	eng := newTestEngine(store, "2025-07-01")
	err := eng.CancelParticipation(context.Background(), userID, project.ID)
	require.ErrorIs(t, err, ErrWindowClosed)
	require.Len(t, store.participations, 1, "participant stays locked in")
}

func TestCancelParticipationNotFound(t *testing.T) {
	store := newMemStore()
	project := addProject(store, 2, 3)
	eng := newTestEngine(store, "2025-06-01")
	err := eng.CancelParticipation(context.Background(), uuid.New(), project.ID)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestCreateTeamEligibility(t *testing.T) {
	t.Run("outside matching window", func(t *testing.T) {
		store := newMemStore()
		project := addProject(store, 2, 3)
		userID := addParticipant(store, project.ID)
		for _, today := range []string{"2025-06-30", "2025-07-16"} {
			eng := newTestEngine(store, today)
			_, err := eng.CreateTeam(context.Background(), userID, project.ID)
			require.ErrorIs(t, err, ErrOutOfWindow)
		}
	})

	t.Run("not a participant", func(t *testing.T) {
		store := newMemStore()
		project := addProject(store, 2, 3)
		eng := newTestEngine(store, "2025-07-05")
		_, err := eng.CreateTeam(context.Background(), uuid.New(), project.ID)
		require.ErrorIs(t, err, ErrNotParticipant)
	})

	t.Run("already affiliated", func(t *testing.T) {
		store := newMemStore()
		project := addProject(store, 2, 3)
		userID := addParticipant(store, project.ID)
		eng := newTestEngine(store, "2025-07-05")

		_, err := eng.CreateTeam(context.Background(), userID, project.ID)
		require.NoError(t, err)

		_, err = eng.CreateTeam(context.Background(), userID, project.ID)
		require.ErrorIs(t, err, ErrAlreadyAffiliated)
	})
}

func TestCreateTeamCapacityPolicy(t *testing.T) {
	// minTeamSize=2; capacity blocks once teams*min >= participants.
	tests := []struct {
		name         string
		participants int
		teams        int
		wantErr      error
	}{
		{"first team always allowed", 1, 0, nil},
		{"one team does not cover four participants", 4, 1, nil},
		{"two teams cover four participants", 4, 2, ErrCapacityBlocked},
		{"three teams exceed five participants", 5, 3, ErrCapacityBlocked},
		{"two teams do not cover five participants", 5, 2, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newMemStore()
			project := addProject(store, 2, 4)
			// the caller counts toward participants
			caller := addParticipant(store, project.ID)
			for i := 1; i < tt.participants; i++ {
				addParticipant(store, project.ID)
			}
			for i := 0; i < tt.teams; i++ {
				_, err := store.CreateTeam(context.Background(), project.ID, uuid.New())
				require.NoError(t, err)
			}
			eng := newTestEngine(store, "2025-07-05")
			_, err := eng.CreateTeam(context.Background(), caller, project.ID)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestApplyToTeamRules(t *testing.T) {
	setup := func() (*memStore, *Engine, *models.Project, uuid.UUID, *models.Team) {
		store := newMemStore()
		project := addProject(store, 2, 3)
		leader := addParticipant(store, project.ID)
		team, _ := store.CreateTeam(context.Background(), project.ID, leader)
		eng := newTestEngine(store, "2025-07-05")
		return store, eng, project, leader, team
	}

	t.Run("success creates pending application", func(t *testing.T) {
		store, eng, project, _, team := setup()
		applicant := addParticipant(store, project.ID)
		app, err := eng.ApplyToTeam(context.Background(), applicant, team.ID)
		require.NoError(t, err)
		require.Equal(t, project.ID, app.ProjectID)
		require.Len(t, store.applications, 1)
	})

	t.Run("confirmed team", func(t *testing.T) {
		store, eng, project, _, team := setup()
		store.teams[team.ID].Confirmed = true
		applicant := addParticipant(store, project.ID)
		_, err := eng.ApplyToTeam(context.Background(), applicant, team.ID)
		require.ErrorIs(t, err, ErrTeamConfirmed)
	})

	t.Run("full team", func(t *testing.T) {
		store, eng, project, _, team := setup()
		store.members[team.ID] = []uuid.UUID{uuid.New(), uuid.New()} // leader + 2 = max
		applicant := addParticipant(store, project.ID)
		_, err := eng.ApplyToTeam(context.Background(), applicant, team.ID)
		require.ErrorIs(t, err, ErrTeamFull)
	})

	t.Run("duplicate application", func(t *testing.T) {
		store, eng, project, _, team := setup()
		applicant := addParticipant(store, project.ID)
		_, err := eng.ApplyToTeam(context.Background(), applicant, team.ID)
		require.NoError(t, err)
		_, err = eng.ApplyToTeam(context.Background(), applicant, team.ID)
		require.ErrorIs(t, err, ErrDuplicateApplication)
	})

	t.Run("leader of another team", func(t *testing.T) {
		store, eng, project, _, team := setup()
		other := addParticipant(store, project.ID)
		_, err := store.CreateTeam(context.Background(), project.ID, other)
		require.NoError(t, err)
		_, err = eng.ApplyToTeam(context.Background(), other, team.ID)
		require.ErrorIs(t, err, ErrAlreadyAffiliated)
	})

	t.Run("not a participant", func(t *testing.T) {
		_, eng, _, _, team := setup()
		_, err := eng.ApplyToTeam(context.Background(), uuid.New(), team.ID)
		require.ErrorIs(t, err, ErrNotParticipant)
	})
}

func TestAcceptApplicant(t *testing.T) {
	setup := func() (*memStore, *Engine, *models.Project, uuid.UUID, *models.Team, uuid.UUID) {
		store := newMemStore()
		project := addProject(store, 2, 3)
		leader := addParticipant(store, project.ID)
		team, _ := store.CreateTeam(context.Background(), project.ID, leader)
		applicant := addParticipant(store, project.ID)
		eng := newTestEngine(store, "2025-07-05")
		_, err := eng.ApplyToTeam(context.Background(), applicant, team.ID)
		require.NoError(t, err)
		return store, eng, project, leader, team, applicant
	}

	t.Run("promotes applicant and purges stale applications", func(t *testing.T) {
		store, eng, project, leader, team, applicant := setup()
		// the applicant is also pending on a second team in the project
		otherLeader := addParticipant(store, project.ID)
		otherTeam, _ := store.CreateTeam(context.Background(), project.ID, otherLeader)
		_, err := eng.ApplyToTeam(context.Background(), applicant, otherTeam.ID)
		require.NoError(t, err)
		require.Len(t, store.applications, 2)

		_, err = eng.AcceptApplicant(context.Background(), leader, team.ID, applicant)
		require.NoError(t, err)
		require.Equal(t, []uuid.UUID{applicant}, store.members[team.ID])
		require.Empty(t, store.applications, "accepted elsewhere leaves no stale applications")
	})

	t.Run("not leader", func(t *testing.T) {
		_, eng, _, _, team, applicant := setup()
		_, err := eng.AcceptApplicant(context.Background(), uuid.New(), team.ID, applicant)
		require.ErrorIs(t, err, ErrNotLeader)
	})

	t.Run("confirmed team", func(t *testing.T) {
		store, eng, _, leader, team, applicant := setup()
		store.teams[team.ID].Confirmed = true
		_, err := eng.AcceptApplicant(context.Background(), leader, team.ID, applicant)
		require.ErrorIs(t, err, ErrTeamConfirmed)
	})

	t.Run("no pending application", func(t *testing.T) {
		_, eng, _, leader, team, _ := setup()
		_, err := eng.AcceptApplicant(context.Background(), leader, team.ID, uuid.New())
		require.ErrorIs(t, err, ErrNotFound)
	})
}

func TestRejectApplicant(t *testing.T) {
	store := newMemStore()
	project := addProject(store, 2, 3)
	leader := addParticipant(store, project.ID)
	team, _ := store.CreateTeam(context.Background(), project.ID, leader)
	applicant := addParticipant(store, project.ID)
	eng := newTestEngine(store, "2025-07-05")
	_, err := eng.ApplyToTeam(context.Background(), applicant, team.ID)
	require.NoError(t, err)

	_, err = eng.RejectApplicant(context.Background(), uuid.New(), team.ID, applicant)
	require.ErrorIs(t, err, ErrNotLeader)

	_, err = eng.RejectApplicant(context.Background(), leader, team.ID, applicant)
	require.NoError(t, err)
	require.Empty(t, store.applications)
	require.Empty(t, store.members[team.ID], "rejection never touches the roster")

	_, err = eng.RejectApplicant(context.Background(), leader, team.ID, applicant)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestConfirmTeam(t *testing.T) {
	setup := func() (*memStore, *Engine, *models.Project, uuid.UUID, *models.Team) {
		store := newMemStore()
		project := addProject(store, 2, 3)
		leader := addParticipant(store, project.ID)
		team, _ := store.CreateTeam(context.Background(), project.ID, leader)
		return store, newTestEngine(store, "2025-07-05"), project, leader, team
	}

	t.Run("below minimum size", func(t *testing.T) {
		_, eng, _, leader, team := setup()
		_, err := eng.ConfirmTeam(context.Background(), leader, team.ID)
		require.ErrorIs(t, err, ErrBelowMinSize)
	})

	t.Run("not leader", func(t *testing.T) {
		_, eng, _, _, team := setup()
		_, err := eng.ConfirmTeam(context.Background(), uuid.New(), team.ID)
		require.ErrorIs(t, err, ErrNotLeader)
	})

	t.Run("freezes team and purges pending applications", func(t *testing.T) {
		store, eng, project, leader, team := setup()
		member := addParticipant(store, project.ID)
		_, err := eng.ApplyToTeam(context.Background(), member, team.ID)
		require.NoError(t, err)
		_, err = eng.AcceptApplicant(context.Background(), leader, team.ID, member)
		require.NoError(t, err)

		pending := addParticipant(store, project.ID)
		_, err = eng.ApplyToTeam(context.Background(), pending, team.ID)
		require.NoError(t, err)

		confirmed, err := eng.ConfirmTeam(context.Background(), leader, team.ID)
		require.NoError(t, err)
		require.True(t, confirmed.Confirmed)
		require.Empty(t, store.applications, "pending applications purged on confirm")

		_, err = eng.ConfirmTeam(context.Background(), leader, team.ID)
		require.ErrorIs(t, err, ErrAlreadyConfirmed)
	})
}

func TestLeaveTeam(t *testing.T) {
	store := newMemStore()
	project := addProject(store, 2, 3)
	leader := addParticipant(store, project.ID)
	team, _ := store.CreateTeam(context.Background(), project.ID, leader)
	member := addParticipant(store, project.ID)
	store.members[team.ID] = []uuid.UUID{member}
	eng := newTestEngine(store, "2025-07-05")

	_, err := eng.LeaveTeam(context.Background(), leader, team.ID)
	require.ErrorIs(t, err, ErrLeaderCannotLeave)

	_, err = eng.LeaveTeam(context.Background(), uuid.New(), team.ID)
	require.ErrorIs(t, err, ErrNotAMember)

	_, err = eng.LeaveTeam(context.Background(), member, team.ID)
	require.NoError(t, err)
	require.Empty(t, store.members[team.ID])

	store.teams[team.ID].Confirmed = true
	_, err = eng.LeaveTeam(context.Background(), member, team.ID)
	require.ErrorIs(t, err, ErrTeamConfirmed)
}

// Scenario: min=2 max=3, window [2025-07-01, 2025-07-15]. A creates a
// team on 07-05, B joins via accept, the team confirms at size 2, and
// C's later application bounces off the frozen team.
func TestScenarioConfirmationFreeze(t *testing.T) {
	store := newMemStore()
	project := addProject(store, 2, 3)
	userA := addParticipant(store, project.ID)
	userB := addParticipant(store, project.ID)
	userC := addParticipant(store, project.ID)
	eng := newTestEngine(store, "2025-07-05")
	ctx := context.Background()

	team, err := eng.CreateTeam(ctx, userA, project.ID)
	require.NoError(t, err)

	_, err = eng.ApplyToTeam(ctx, userB, team.ID)
	require.NoError(t, err)
	_, err = eng.AcceptApplicant(ctx, userA, team.ID, userB)
	require.NoError(t, err)

	_, err = eng.ConfirmTeam(ctx, userA, team.ID)
	require.NoError(t, err)

	_, err = eng.ApplyToTeam(ctx, userC, team.ID)
	require.ErrorIs(t, err, ErrTeamConfirmed)

	// frozen roster: leaving and accepting also fail
	_, err = eng.LeaveTeam(ctx, userB, team.ID)
	require.ErrorIs(t, err, ErrTeamConfirmed)
	_, err = eng.AcceptApplicant(ctx, userA, team.ID, userC)
	require.ErrorIs(t, err, ErrTeamConfirmed)
}

// Scenario: at size 2 with max 3, two applicants race for the last
// slot; the second acceptance fails with TeamFull and the capacity
// invariant holds.
func TestScenarioLastSlot(t *testing.T) {
	store := newMemStore()
	project := addProject(store, 2, 3)
	leader := addParticipant(store, project.ID)
	member := addParticipant(store, project.ID)
	userD := addParticipant(store, project.ID)
	userE := addParticipant(store, project.ID)
	eng := newTestEngine(store, "2025-07-05")
	ctx := context.Background()

	team, err := eng.CreateTeam(ctx, leader, project.ID)
	require.NoError(t, err)
	store.members[team.ID] = []uuid.UUID{member} // size 2

	_, err = eng.ApplyToTeam(ctx, userD, team.ID)
	require.NoError(t, err)
	_, err = eng.ApplyToTeam(ctx, userE, team.ID)
	require.NoError(t, err)

	_, err = eng.AcceptApplicant(ctx, leader, team.ID, userD)
	require.NoError(t, err)

	_, err = eng.AcceptApplicant(ctx, leader, team.ID, userE)
	require.ErrorIs(t, err, ErrTeamFull)

	size, _ := store.RosterSize(ctx, team.ID)
	require.LessOrEqual(t, 1+size, project.MaxTeamSize)
}

func TestListOpenTeamsExcludesConfirmed(t *testing.T) {
	store := newMemStore()
	project := addProject(store, 2, 3)
	open, _ := store.CreateTeam(context.Background(), project.ID, addParticipant(store, project.ID))
	closed, _ := store.CreateTeam(context.Background(), project.ID, addParticipant(store, project.ID))
	store.teams[closed.ID].Confirmed = true
	eng := newTestEngine(store, "2025-07-05")

	teams, err := eng.ListOpenTeams(context.Background(), project.ID)
	require.NoError(t, err)
	require.Len(t, teams, 1)
	require.Equal(t, open.ID, teams[0].ID)
}
