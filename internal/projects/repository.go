package projects

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/teamup/backend/internal/models"
)

// Repository handles project persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a projects repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const projectColumns = `id, name, organizer, apply_deadline, matching_start, matching_end, min_team_size, max_team_size, created_at, updated_at`

func scanProject(row interface{ Scan(...any) error }) (*models.Project, error) {
	var p models.Project
	err := row.Scan(&p.ID, &p.Name, &p.Organizer, &p.ApplyDeadline, &p.MatchingStart, &p.MatchingEnd,
		&p.MinTeamSize, &p.MaxTeamSize, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Create inserts a new project.
func (r *Repository) Create(ctx context.Context, p *models.Project) error {
	const q = `INSERT INTO projects (name, organizer, apply_deadline, matching_start, matching_end, min_team_size, max_team_size)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, q, p.Name, p.Organizer, p.ApplyDeadline, p.MatchingStart, p.MatchingEnd,
		p.MinTeamSize, p.MaxTeamSize).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
}

// GetByID returns a project by ID.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*models.Project, error) {
	return scanProject(r.pool.QueryRow(ctx, `SELECT `+projectColumns+` FROM projects WHERE id = $1`, id))
}

// List returns all projects ordered by matching start.
func (r *Repository) List(ctx context.Context) ([]models.Project, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+projectColumns+` FROM projects ORDER BY matching_start, created_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []models.Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, *p)
	}
	return list, rows.Err()
}

// ListByParticipant returns projects the user holds a participation in.
func (r *Repository) ListByParticipant(ctx context.Context, userID uuid.UUID) ([]models.Project, error) {
	const q = `SELECT p.id, p.name, p.organizer, p.apply_deadline, p.matching_start, p.matching_end,
		p.min_team_size, p.max_team_size, p.created_at, p.updated_at
		FROM projects p
		JOIN participations pa ON pa.project_id = p.id
		WHERE pa.user_id = $1
		ORDER BY p.matching_start, p.created_at`
	rows, err := r.pool.Query(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []models.Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, *p)
	}
	return list, rows.Err()
}

// Update replaces project fields.
func (r *Repository) Update(ctx context.Context, p *models.Project) error {
	const q = `UPDATE projects SET name = $1, organizer = $2, apply_deadline = $3, matching_start = $4,
		matching_end = $5, min_team_size = $6, max_team_size = $7, updated_at = NOW()
		WHERE id = $8
		RETURNING created_at, updated_at`
	return r.pool.QueryRow(ctx, q, p.Name, p.Organizer, p.ApplyDeadline, p.MatchingStart, p.MatchingEnd,
		p.MinTeamSize, p.MaxTeamSize, p.ID).Scan(&p.CreatedAt, &p.UpdatedAt)
}

// Delete removes a project. Participations, teams, rosters and
// applications go with it via ON DELETE CASCADE.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM projects WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}
