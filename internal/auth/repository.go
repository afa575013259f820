package auth

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/teamup/backend/internal/models"
)

// Repository handles user persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates an auth repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const userColumns = `id, handle, password_hash, name, gender, contact, bio, languages, mbti, career, role, created_at, updated_at`

func scanUser(row interface{ Scan(...any) error }) (*models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.Handle, &u.Password, &u.Name, &u.Gender, &u.Contact, &u.Bio,
		&u.Languages, &u.MBTI, &u.Career, &u.Role, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// GetByID returns a user by ID.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return scanUser(r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
}

// GetByHandle returns a user by login handle.
func (r *Repository) GetByHandle(ctx context.Context, handle string) (*models.User, error) {
	return scanUser(r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE handle = $1`, handle))
}

// List returns all users as public profiles, for admin tooling.
func (r *Repository) List(ctx context.Context) ([]models.UserPublic, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, handle, name, gender, contact, bio, languages, mbti, career, role, created_at
		FROM users ORDER BY name, handle`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []models.UserPublic
	for rows.Next() {
		var u models.UserPublic
		if err := rows.Scan(&u.ID, &u.Handle, &u.Name, &u.Gender, &u.Contact, &u.Bio,
			&u.Languages, &u.MBTI, &u.Career, &u.Role, &u.CreatedAt); err != nil {
			return nil, err
		}
		list = append(list, u)
	}
	return list, rows.Err()
}

// CreateUserParams holds profile fields for registration.
type CreateUserParams struct {
	Handle    string
	Password  string // already hashed
	Name      string
	Gender    string
	Contact   string
	Bio       string
	Languages string
	MBTI      string
	Career    string
	Role      models.Role
}

// Create inserts a new user.
func (r *Repository) Create(ctx context.Context, p CreateUserParams) (*models.User, error) {
	const q = `INSERT INTO users (handle, password_hash, name, gender, contact, bio, languages, mbti, career, role)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING ` + userColumns
	return scanUser(r.pool.QueryRow(ctx, q, p.Handle, p.Password, p.Name, p.Gender, p.Contact,
		p.Bio, p.Languages, p.MBTI, p.Career, string(p.Role)))
}
