package matching

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/teamup/backend/internal/models"
)

// querier is the subset of pgx shared by *pgxpool.Pool and pgx.Tx, so
// the same store code runs inside and outside a transaction.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresStore implements Store on PostgreSQL via pgx.
type PostgresStore struct {
	pool *pgxpool.Pool // nil when transaction-scoped
	db   querier
}

// NewPostgresStore creates a store backed by the given pool.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool, db: pool}
}

// InTx runs fn against a transaction-scoped store. Nested calls reuse
// the surrounding transaction.
func (s *PostgresStore) InTx(ctx context.Context, fn func(Store) error) error {
	if s.pool == nil {
		return fn(s)
	}
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)
	if err := fn(&PostgresStore{db: tx}); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func notFound(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

const projectCols = `id, name, organizer, apply_deadline, matching_start, matching_end, min_team_size, max_team_size, created_at, updated_at`

func (s *PostgresStore) getProject(ctx context.Context, id uuid.UUID, lock string) (*models.Project, error) {
	var p models.Project
	err := s.db.QueryRow(ctx, `SELECT `+projectCols+` FROM projects WHERE id = $1`+lock, id).
		Scan(&p.ID, &p.Name, &p.Organizer, &p.ApplyDeadline, &p.MatchingStart, &p.MatchingEnd,
			&p.MinTeamSize, &p.MaxTeamSize, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, notFound(err)
	}
	return &p, nil
}

func (s *PostgresStore) GetProject(ctx context.Context, id uuid.UUID) (*models.Project, error) {
	return s.getProject(ctx, id, "")
}

func (s *PostgresStore) LockProject(ctx context.Context, id uuid.UUID) (*models.Project, error) {
	return s.getProject(ctx, id, " FOR UPDATE")
}

func (s *PostgresStore) GetParticipation(ctx context.Context, userID, projectID uuid.UUID) (*models.Participation, error) {
	var p models.Participation
	err := s.db.QueryRow(ctx, `SELECT id, user_id, project_id, created_at FROM participations
		WHERE user_id = $1 AND project_id = $2`, userID, projectID).
		Scan(&p.ID, &p.UserID, &p.ProjectID, &p.CreatedAt)
	if err != nil {
		return nil, notFound(err)
	}
	return &p, nil
}

func (s *PostgresStore) CreateParticipation(ctx context.Context, userID, projectID uuid.UUID) (*models.Participation, error) {
	p := models.Participation{UserID: userID, ProjectID: projectID}
	err := s.db.QueryRow(ctx, `INSERT INTO participations (user_id, project_id) VALUES ($1, $2)
		RETURNING id, created_at`, userID, projectID).
		Scan(&p.ID, &p.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *PostgresStore) DeleteParticipation(ctx context.Context, userID, projectID uuid.UUID) (bool, error) {
	tag, err := s.db.Exec(ctx, `DELETE FROM participations WHERE user_id = $1 AND project_id = $2`, userID, projectID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (s *PostgresStore) CountParticipants(ctx context.Context, projectID uuid.UUID) (int, error) {
	var n int
	err := s.db.QueryRow(ctx, `SELECT COUNT(*) FROM participations WHERE project_id = $1`, projectID).Scan(&n)
	return n, err
}

func (s *PostgresStore) CountTeams(ctx context.Context, projectID uuid.UUID) (int, error) {
	var n int
	err := s.db.QueryRow(ctx, `SELECT COUNT(*) FROM teams WHERE project_id = $1`, projectID).Scan(&n)
	return n, err
}

const teamCols = `id, project_id, leader_id, confirmed, created_at, updated_at`

func (s *PostgresStore) getTeam(ctx context.Context, id uuid.UUID, lock string) (*models.Team, error) {
	var t models.Team
	err := s.db.QueryRow(ctx, `SELECT `+teamCols+` FROM teams WHERE id = $1`+lock, id).
		Scan(&t.ID, &t.ProjectID, &t.LeaderID, &t.Confirmed, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, notFound(err)
	}
	return &t, nil
}

func (s *PostgresStore) GetTeam(ctx context.Context, id uuid.UUID) (*models.Team, error) {
	return s.getTeam(ctx, id, "")
}

func (s *PostgresStore) LockTeam(ctx context.Context, id uuid.UUID) (*models.Team, error) {
	return s.getTeam(ctx, id, " FOR UPDATE")
}

func (s *PostgresStore) CreateTeam(ctx context.Context, projectID, leaderID uuid.UUID) (*models.Team, error) {
	t := models.Team{ProjectID: projectID, LeaderID: leaderID}
	err := s.db.QueryRow(ctx, `INSERT INTO teams (project_id, leader_id) VALUES ($1, $2)
		RETURNING id, confirmed, created_at, updated_at`, projectID, leaderID).
		Scan(&t.ID, &t.Confirmed, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (s *PostgresStore) SetTeamConfirmed(ctx context.Context, teamID uuid.UUID) error {
	_, err := s.db.Exec(ctx, `UPDATE teams SET confirmed = TRUE, updated_at = NOW() WHERE id = $1`, teamID)
	return err
}

func (s *PostgresStore) RosterSize(ctx context.Context, teamID uuid.UUID) (int, error) {
	var n int
	err := s.db.QueryRow(ctx, `SELECT COUNT(*) FROM team_members WHERE team_id = $1`, teamID).Scan(&n)
	return n, err
}

func (s *PostgresStore) HasAffiliation(ctx context.Context, userID, projectID uuid.UUID) (bool, error) {
	const q = `SELECT EXISTS (
		SELECT 1 FROM teams WHERE project_id = $1 AND leader_id = $2
		UNION
		SELECT 1 FROM team_members tm JOIN teams t ON t.id = tm.team_id
		WHERE t.project_id = $1 AND tm.user_id = $2
	)`
	var exists bool
	err := s.db.QueryRow(ctx, q, projectID, userID).Scan(&exists)
	return exists, err
}

func (s *PostgresStore) AddMember(ctx context.Context, teamID, userID uuid.UUID) error {
	_, err := s.db.Exec(ctx, `INSERT INTO team_members (team_id, user_id) VALUES ($1, $2)`, teamID, userID)
	return err
}

func (s *PostgresStore) RemoveMember(ctx context.Context, teamID, userID uuid.UUID) (bool, error) {
	tag, err := s.db.Exec(ctx, `DELETE FROM team_members WHERE team_id = $1 AND user_id = $2`, teamID, userID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (s *PostgresStore) GetApplication(ctx context.Context, userID, teamID uuid.UUID) (*models.Application, error) {
	var a models.Application
	err := s.db.QueryRow(ctx, `SELECT id, user_id, team_id, project_id, created_at FROM applications
		WHERE user_id = $1 AND team_id = $2`, userID, teamID).
		Scan(&a.ID, &a.UserID, &a.TeamID, &a.ProjectID, &a.CreatedAt)
	if err != nil {
		return nil, notFound(err)
	}
	return &a, nil
}

func (s *PostgresStore) CreateApplication(ctx context.Context, userID, teamID, projectID uuid.UUID) (*models.Application, error) {
	a := models.Application{UserID: userID, TeamID: teamID, ProjectID: projectID}
	err := s.db.QueryRow(ctx, `INSERT INTO applications (user_id, team_id, project_id) VALUES ($1, $2, $3)
		RETURNING id, created_at`, userID, teamID, projectID).
		Scan(&a.ID, &a.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (s *PostgresStore) DeleteApplication(ctx context.Context, userID, teamID uuid.UUID) (bool, error) {
	tag, err := s.db.Exec(ctx, `DELETE FROM applications WHERE user_id = $1 AND team_id = $2`, userID, teamID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (s *PostgresStore) DeleteApplicationsByUserInProject(ctx context.Context, userID, projectID uuid.UUID) error {
	_, err := s.db.Exec(ctx, `DELETE FROM applications WHERE user_id = $1 AND project_id = $2`, userID, projectID)
	return err
}

func (s *PostgresStore) DeleteApplicationsByTeam(ctx context.Context, teamID uuid.UUID) error {
	_, err := s.db.Exec(ctx, `DELETE FROM applications WHERE team_id = $1`, teamID)
	return err
}

const publicUserCols = `u.id, u.handle, u.name, u.gender, u.contact, u.bio, u.languages, u.mbti, u.career, u.role, u.created_at`

func (s *PostgresStore) ListOpenTeams(ctx context.Context, projectID uuid.UUID) ([]models.TeamDetail, error) {
	const teamsQ = `SELECT t.id, t.project_id, t.leader_id, t.confirmed, t.created_at, t.updated_at, ` + publicUserCols + `
		FROM teams t JOIN users u ON u.id = t.leader_id
		WHERE t.project_id = $1 AND t.confirmed = FALSE
		ORDER BY t.created_at`
	rows, err := s.db.Query(ctx, teamsQ, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []models.TeamDetail
	index := make(map[uuid.UUID]int)
	for rows.Next() {
		var d models.TeamDetail
		if err := rows.Scan(&d.ID, &d.ProjectID, &d.LeaderID, &d.Confirmed, &d.CreatedAt, &d.UpdatedAt,
			&d.Leader.ID, &d.Leader.Handle, &d.Leader.Name, &d.Leader.Gender, &d.Leader.Contact, &d.Leader.Bio,
			&d.Leader.Languages, &d.Leader.MBTI, &d.Leader.Career, &d.Leader.Role, &d.Leader.CreatedAt); err != nil {
			return nil, err
		}
		d.Members = []models.UserPublic{}
		index[d.ID] = len(list)
		list = append(list, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return list, nil
	}

	const membersQ = `SELECT tm.team_id, ` + publicUserCols + `
		FROM team_members tm
		JOIN users u ON u.id = tm.user_id
		JOIN teams t ON t.id = tm.team_id
		WHERE t.project_id = $1 AND t.confirmed = FALSE
		ORDER BY tm.joined_at`
	mrows, err := s.db.Query(ctx, membersQ, projectID)
	if err != nil {
		return nil, err
	}
	defer mrows.Close()
	for mrows.Next() {
		var teamID uuid.UUID
		var u models.UserPublic
		if err := mrows.Scan(&teamID, &u.ID, &u.Handle, &u.Name, &u.Gender, &u.Contact, &u.Bio,
			&u.Languages, &u.MBTI, &u.Career, &u.Role, &u.CreatedAt); err != nil {
			return nil, err
		}
		if i, ok := index[teamID]; ok {
			list[i].Members = append(list[i].Members, u)
		}
	}
	return list, mrows.Err()
}

func (s *PostgresStore) ListApplicationsForLeader(ctx context.Context, leaderID uuid.UUID) ([]models.ApplicationWithApplicant, error) {
	const q = `SELECT a.id, a.user_id, a.team_id, a.project_id, a.created_at, ` + publicUserCols + `
		FROM applications a
		JOIN teams t ON t.id = a.team_id
		JOIN users u ON u.id = a.user_id
		WHERE t.leader_id = $1 AND t.confirmed = FALSE
		ORDER BY a.created_at`
	rows, err := s.db.Query(ctx, q, leaderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []models.ApplicationWithApplicant
	for rows.Next() {
		var a models.ApplicationWithApplicant
		if err := rows.Scan(&a.ID, &a.UserID, &a.TeamID, &a.ProjectID, &a.CreatedAt,
			&a.Applicant.ID, &a.Applicant.Handle, &a.Applicant.Name, &a.Applicant.Gender, &a.Applicant.Contact,
			&a.Applicant.Bio, &a.Applicant.Languages, &a.Applicant.MBTI, &a.Applicant.Career,
			&a.Applicant.Role, &a.Applicant.CreatedAt); err != nil {
			return nil, err
		}
		list = append(list, a)
	}
	return list, rows.Err()
}

func (s *PostgresStore) ListApplicationsByUser(ctx context.Context, userID uuid.UUID) ([]models.ApplicationWithContext, error) {
	const q = `SELECT a.id, a.user_id, a.team_id, a.project_id, a.created_at, p.name, lu.name
		FROM applications a
		JOIN projects p ON p.id = a.project_id
		JOIN teams t ON t.id = a.team_id
		JOIN users lu ON lu.id = t.leader_id
		WHERE a.user_id = $1
		ORDER BY a.created_at`
	rows, err := s.db.Query(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []models.ApplicationWithContext
	for rows.Next() {
		var a models.ApplicationWithContext
		if err := rows.Scan(&a.ID, &a.UserID, &a.TeamID, &a.ProjectID, &a.CreatedAt, &a.ProjectName, &a.LeaderName); err != nil {
			return nil, err
		}
		list = append(list, a)
	}
	return list, rows.Err()
}
