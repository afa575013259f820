package models

import (
	"time"

	"github.com/google/uuid"
)

// Role represents user role in the platform.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleMember Role = "member"
)

// User represents a platform user.
type User struct {
	ID        uuid.UUID `json:"id"`
	Handle    string    `json:"handle"` // login id, e.g. student number
	Password  string    `json:"-"`
	Name      string    `json:"name"`
	Gender    string    `json:"gender"`
	Contact   string    `json:"contact"`
	Bio       string    `json:"bio"`
	Languages string    `json:"languages"`
	MBTI      string    `json:"mbti"`
	Career    string    `json:"career"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// UserPublic is User without sensitive fields for API responses.
type UserPublic struct {
	ID        uuid.UUID `json:"id"`
	Handle    string    `json:"handle"`
	Name      string    `json:"name"`
	Gender    string    `json:"gender"`
	Contact   string    `json:"contact"`
	Bio       string    `json:"bio"`
	Languages string    `json:"languages"`
	MBTI      string    `json:"mbti"`
	Career    string    `json:"career"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// ToPublic converts User to UserPublic.
func (u *User) ToPublic() UserPublic {
	return UserPublic{
		ID:        u.ID,
		Handle:    u.Handle,
		Name:      u.Name,
		Gender:    u.Gender,
		Contact:   u.Contact,
		Bio:       u.Bio,
		Languages: u.Languages,
		MBTI:      u.MBTI,
		Career:    u.Career,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
	}
}
